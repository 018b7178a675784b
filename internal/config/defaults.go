package config

import "git.home.luguber.info/inful/notionsite/internal/retry"

// Defaults for optional settings.
const (
	DefaultPort             = "3000"
	DefaultNotionAPIBaseURL = "https://www.notion.so/api/v3"
	DefaultNotionTimeout    = "10s"
	DefaultRetryBackoff     = retry.BackoffLinear
	DefaultRetryInitial     = "200ms"
	DefaultRetryMax         = "2s"
	DefaultSearchLimit      = 20
	DefaultCachePath        = ":memory:"
	DefaultCacheTTL         = "60s"
	DefaultCacheSweep       = "1m"
	DefaultHealthPath       = "/health"
	DefaultMetricsPath      = "/metrics"
	maxSearchLimit          = 100
)

// Built-in routes served next to the configurable monitoring paths.
const (
	SearchAPIPath    = "/api/search-notion"
	ResolveAPIPath   = "/api/resolve"
	CanonicalAPIPath = "/api/canonical"
	SiteAPIPath      = "/api/site"
	HealthAliasPath  = "/healthz"
)

// APIPaths lists the fixed API routes. Monitoring paths may not reuse them.
var APIPaths = []string{SearchAPIPath, ResolveAPIPath, CanonicalAPIPath, SiteAPIPath}

func applyDefaults(c *RawConfig) {
	if c.Notion.APIBaseURL == "" {
		c.Notion.APIBaseURL = DefaultNotionAPIBaseURL
	}
	if c.Notion.Timeout == "" {
		c.Notion.Timeout = DefaultNotionTimeout
	}
	if c.Notion.Retry.Backoff == "" {
		c.Notion.Retry.Backoff = DefaultRetryBackoff
	}
	if c.Notion.Retry.InitialDelay == "" {
		c.Notion.Retry.InitialDelay = DefaultRetryInitial
	}
	if c.Notion.Retry.MaxDelay == "" {
		c.Notion.Retry.MaxDelay = DefaultRetryMax
	}
	if c.Search.DefaultLimit == 0 {
		c.Search.DefaultLimit = DefaultSearchLimit
	}
	if c.Search.Cache.Path == "" {
		c.Search.Cache.Path = DefaultCachePath
	}
	if c.Search.Cache.TTL == "" {
		c.Search.Cache.TTL = DefaultCacheTTL
	}
	if c.Search.Cache.SweepInterval == "" {
		c.Search.Cache.SweepInterval = DefaultCacheSweep
	}
	if c.Monitoring == nil {
		c.Monitoring = &MonitoringConfig{}
	}
	m := c.Monitoring
	if m.Health.Path == "" {
		m.Health.Path = DefaultHealthPath
	}
	if m.Metrics.Path == "" {
		m.Metrics.Path = DefaultMetricsPath
	}
	if m.Logging.Level == "" {
		m.Logging.Level = LogLevelInfo
	}
	if m.Logging.Format == "" {
		m.Logging.Format = LogFormatText
	}
}
