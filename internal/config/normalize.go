package config

import (
	"fmt"
	"strings"

	"git.home.luguber.info/inful/notionsite/internal/retry"
)

// NormalizationResult captures adjustments & warnings from normalization pass.
type NormalizationResult struct{ Warnings []string }

// NormalizeConfig canonicalizes enumerated and bounded fields prior to
// default application. It mutates c in place.
func NormalizeConfig(c *RawConfig) (*NormalizationResult, error) {
	if c == nil {
		return nil, fmt.Errorf("config nil")
	}
	res := &NormalizationResult{}
	c.RootNotionPageID = strings.TrimSpace(c.RootNotionPageID)
	c.RootNotionSpaceID = strings.TrimSpace(c.RootNotionSpaceID)
	c.Site.URL = strings.TrimSpace(c.Site.URL)
	c.Notion.APIBaseURL = strings.TrimRight(strings.TrimSpace(c.Notion.APIBaseURL), "/")
	normalizeRetry(&c.Notion.Retry, res)
	normalizeRate(&c.Notion.RateLimit, res)
	normalizeSearch(&c.Search, res)
	normalizeMonitoring(c.Monitoring, res)
	return res, nil
}

func normalizeRetry(r *RetryConfig, res *NormalizationResult) {
	if m := retry.NormalizeBackoffMode(string(r.Backoff)); m != "" {
		if r.Backoff != m {
			res.Warnings = append(res.Warnings, warnChanged("notion.retry.backoff", r.Backoff, m))
			r.Backoff = m
		}
	} else if strings.TrimSpace(string(r.Backoff)) != "" {
		res.Warnings = append(res.Warnings, warnUnknown("notion.retry.backoff", string(r.Backoff), string(DefaultRetryBackoff)))
		r.Backoff = DefaultRetryBackoff
	}
	if r.MaxRetries < 0 {
		res.Warnings = append(res.Warnings, warnChanged("notion.retry.maxRetries", r.MaxRetries, 0))
		r.MaxRetries = 0
	}
}

func normalizeRate(r *RateConfig, res *NormalizationResult) {
	if r.RequestsPerSecond < 0 {
		res.Warnings = append(res.Warnings, warnChanged("notion.rateLimit.requestsPerSecond", r.RequestsPerSecond, 0))
		r.RequestsPerSecond = 0
	}
	if r.RequestsPerSecond > 0 && r.Burst < 1 {
		if r.Burst < 0 {
			res.Warnings = append(res.Warnings, warnChanged("notion.rateLimit.burst", r.Burst, 1))
		}
		r.Burst = 1
	}
}

func normalizeSearch(s *SearchConfig, res *NormalizationResult) {
	if s.DefaultLimit < 0 {
		res.Warnings = append(res.Warnings, warnChanged("search.defaultLimit", s.DefaultLimit, 0))
		s.DefaultLimit = 0
	}
	if s.DefaultLimit > maxSearchLimit {
		res.Warnings = append(res.Warnings, warnChanged("search.defaultLimit", s.DefaultLimit, maxSearchLimit))
		s.DefaultLimit = maxSearchLimit
	}
}

func normalizeMonitoring(m *MonitoringConfig, res *NormalizationResult) {
	if m == nil {
		return
	}
	if lvl := NormalizeLogLevel(string(m.Logging.Level)); lvl != "" {
		if m.Logging.Level != lvl {
			res.Warnings = append(res.Warnings, warnChanged("monitoring.logging.level", m.Logging.Level, lvl))
			m.Logging.Level = lvl
		}
	} else if strings.TrimSpace(string(m.Logging.Level)) != "" {
		res.Warnings = append(res.Warnings, warnUnknown("monitoring.logging.level", string(m.Logging.Level), string(LogLevelInfo)))
		m.Logging.Level = LogLevelInfo
	}
	if f := NormalizeLogFormat(string(m.Logging.Format)); f != "" {
		if m.Logging.Format != f {
			res.Warnings = append(res.Warnings, warnChanged("monitoring.logging.format", m.Logging.Format, f))
			m.Logging.Format = f
		}
	} else if strings.TrimSpace(string(m.Logging.Format)) != "" {
		res.Warnings = append(res.Warnings, warnUnknown("monitoring.logging.format", string(m.Logging.Format), string(LogFormatText)))
		m.Logging.Format = LogFormatText
	}
}

func warnChanged(field string, from, to any) string {
	return fmt.Sprintf("normalized %s from '%v' to '%v'", field, from, to)
}

func warnUnknown(field, value, def string) string {
	return fmt.Sprintf("unknown %s '%s', defaulting to %s", field, value, def)
}
