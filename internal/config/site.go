package config

import (
	"fmt"
	"net/url"
	"slices"
	"strconv"
	"strings"
	"time"

	derrors "git.home.luguber.info/inful/notionsite/internal/foundation/errors"
	"git.home.luguber.info/inful/notionsite/internal/pageid"
	"git.home.luguber.info/inful/notionsite/internal/retry"
	"git.home.luguber.info/inful/notionsite/internal/urlmap"
)

// Site is the validated, immutable site configuration. It is built once at
// startup and shared by reference; nothing writes to it afterwards.
type Site struct {
	RootNotionPageID  string // compact form
	RootNotionSpaceID string // hyphenated form, empty when unrestricted

	Name        string
	Author      string
	Domain      string
	Description string

	Twitter      string
	GitHub       string
	LinkedIn     string
	ImageCDNHost string

	Mappings *urlmap.Mappings

	IsDev      bool
	Port       string
	Host       string
	APIBaseURL string
	SearchURL  string

	Notion     NotionSettings
	Search     SearchSettings
	Monitoring MonitoringSettings
}

// NotionSettings are the parsed upstream client settings.
type NotionSettings struct {
	APIBaseURL string
	AuthToken  string
	Timeout    time.Duration
	Retry      retry.Policy
	RateLimit  RateConfig
}

// SearchSettings are the parsed search proxy settings.
type SearchSettings struct {
	DefaultLimit int
	Cache        CacheSettings
}

// CacheSettings are the parsed search response cache settings.
type CacheSettings struct {
	Enabled       bool
	Path          string
	TTL           time.Duration
	SweepInterval time.Duration
}

// MonitoringSettings are the parsed health, metrics and logging settings.
type MonitoringSettings struct {
	HealthPath     string
	MetricsEnabled bool
	MetricsPath    string
	Logging        LoggingConfig
}

// Build validates raw and derives the environment-dependent values. raw
// must already have passed NormalizeConfig and applyDefaults (LoadRaw and
// Parse do both).
func Build(raw *RawConfig, env Env) (*Site, error) {
	if raw == nil {
		return nil, derrors.ConfigError("configuration is empty").Build()
	}
	b := &siteBuilder{raw: raw, env: env, site: &Site{}}
	if err := b.build(); err != nil {
		return nil, err
	}
	return b.site, nil
}

type siteBuilder struct {
	raw  *RawConfig
	env  Env
	site *Site
}

func (b *siteBuilder) build() error {
	steps := []func() error{
		b.buildIDs,
		b.buildIdentity,
		b.buildMappings,
		b.buildEnvironment,
		b.buildNotion,
		b.buildSearch,
		b.buildMonitoring,
	}
	for _, step := range steps {
		if err := step(); err != nil {
			return err
		}
	}
	return nil
}

func (b *siteBuilder) buildIDs() error {
	id, ok := pageid.Parse(b.raw.RootNotionPageID, pageid.FormCompact)
	if !ok {
		return derrors.ConfigError(`invalid "rootNotionPageId"`).
			WithContext("value", b.raw.RootNotionPageID).
			Build()
	}
	b.site.RootNotionPageID = id

	if b.raw.RootNotionSpaceID != "" {
		space, ok := pageid.Parse(b.raw.RootNotionSpaceID, pageid.FormUUID)
		if !ok {
			return derrors.ConfigError(`invalid "rootNotionSpaceId"`).
				WithContext("value", b.raw.RootNotionSpaceID).
				Build()
		}
		b.site.RootNotionSpaceID = space
	}
	return nil
}

func (b *siteBuilder) buildIdentity() error {
	s, raw := b.site, b.raw
	s.Name = raw.Site.Name
	s.Author = raw.Site.Author
	s.Description = raw.Site.Description
	s.Twitter = raw.Site.Twitter
	s.GitHub = raw.GitHub
	s.LinkedIn = raw.LinkedIn
	s.ImageCDNHost = raw.ImageCDNHost

	if raw.Site.URL == "" {
		return nil
	}
	u, err := url.Parse(raw.Site.URL)
	if err != nil || !u.IsAbs() || u.Hostname() == "" {
		return derrors.ConfigError(fmt.Sprintf("invalid site.url %q: must be an absolute URL", raw.Site.URL)).
			Build()
	}
	s.Domain = u.Hostname()
	return nil
}

func (b *siteBuilder) buildMappings() error {
	res := urlmap.Build(b.raw.PageURLOverrides, b.raw.PageURLAdditions)
	m, err := res.ToTuple()
	if err != nil {
		return err
	}
	b.site.Mappings = m
	return nil
}

func (b *siteBuilder) buildEnvironment() error {
	s := b.site
	nodeEnv := b.env.Get("NODE_ENV", "")
	s.IsDev = nodeEnv == "" || nodeEnv == "development"

	s.Port = b.env.Get("PORT", DefaultPort)
	if n, err := strconv.Atoi(s.Port); err != nil || n <= 0 || n > 65535 {
		return derrors.ConfigError(fmt.Sprintf("invalid PORT %q", s.Port)).Build()
	}

	if s.IsDev {
		s.Host = "http://localhost:" + s.Port
	} else {
		if s.Domain == "" {
			return derrors.ConfigError("site.url is required outside development").Build()
		}
		s.Host = "https://" + s.Domain
	}
	s.APIBaseURL = s.Host + "/api"
	s.SearchURL = s.APIBaseURL + "/search-notion"
	return nil
}

func (b *siteBuilder) buildNotion() error {
	raw := b.raw.Notion
	u, err := url.Parse(raw.APIBaseURL)
	if err != nil || !u.IsAbs() {
		return derrors.ConfigError(fmt.Sprintf("invalid notion.apiBaseUrl %q", raw.APIBaseURL)).Build()
	}
	timeout, err := parsePositiveDuration("notion.timeout", raw.Timeout)
	if err != nil {
		return err
	}
	initial, err := parsePositiveDuration("notion.retry.initialDelay", raw.Retry.InitialDelay)
	if err != nil {
		return err
	}
	maxDelay, err := parsePositiveDuration("notion.retry.maxDelay", raw.Retry.MaxDelay)
	if err != nil {
		return err
	}
	pol := retry.Policy{
		Mode:       retry.NormalizeBackoffMode(string(raw.Retry.Backoff)),
		Initial:    initial,
		Max:        maxDelay,
		MaxRetries: raw.Retry.MaxRetries,
	}
	if pol.Mode == "" {
		pol.Mode = DefaultRetryBackoff
	}
	if err := pol.Validate(); err != nil {
		return derrors.ConfigError("invalid notion.retry").
			WithContext("reason", err.Error()).
			Build()
	}
	b.site.Notion = NotionSettings{
		APIBaseURL: raw.APIBaseURL,
		AuthToken:  raw.AuthToken,
		Timeout:    timeout,
		Retry:      pol,
		RateLimit:  raw.RateLimit,
	}
	return nil
}

func (b *siteBuilder) buildSearch() error {
	raw := b.raw.Search
	ttl, err := parsePositiveDuration("search.cache.ttl", raw.Cache.TTL)
	if err != nil {
		return err
	}
	sweep, err := parsePositiveDuration("search.cache.sweepInterval", raw.Cache.SweepInterval)
	if err != nil {
		return err
	}
	b.site.Search = SearchSettings{
		DefaultLimit: raw.DefaultLimit,
		Cache: CacheSettings{
			Enabled:       raw.Cache.Enabled,
			Path:          raw.Cache.Path,
			TTL:           ttl,
			SweepInterval: sweep,
		},
	}
	return nil
}

func (b *siteBuilder) buildMonitoring() error {
	m := b.raw.Monitoring
	if m == nil {
		m = &MonitoringConfig{}
	}
	paths := []struct{ field, value string }{
		{"monitoring.health.path", m.Health.Path},
		{"monitoring.metrics.path", m.Metrics.Path},
	}
	for _, p := range paths {
		if p.value == "" {
			continue
		}
		if p.value[0] != '/' {
			return derrors.ConfigError(fmt.Sprintf("invalid %s %q: must start with \"/\"", p.field, p.value)).Build()
		}
		if strings.ContainsAny(p.value, "{} \t\r\n") {
			return derrors.ConfigError(fmt.Sprintf("invalid %s %q: must be a plain path", p.field, p.value)).Build()
		}
	}

	// Each route is mounted on one mux; a duplicate pattern is fatal there.
	if slices.Contains(APIPaths, m.Health.Path) {
		return pathCollision("monitoring.health.path", m.Health.Path)
	}
	if m.Metrics.Enabled {
		switch {
		case slices.Contains(APIPaths, m.Metrics.Path), m.Metrics.Path == HealthAliasPath:
			return pathCollision("monitoring.metrics.path", m.Metrics.Path)
		case m.Metrics.Path == m.Health.Path:
			return derrors.ConfigError(fmt.Sprintf("monitoring.metrics.path %q equals monitoring.health.path", m.Metrics.Path)).
				WithContext("path", m.Metrics.Path).
				Build()
		}
	}

	b.site.Monitoring = MonitoringSettings{
		HealthPath:     m.Health.Path,
		MetricsEnabled: m.Metrics.Enabled,
		MetricsPath:    m.Metrics.Path,
		Logging:        m.Logging,
	}
	return nil
}

func pathCollision(field, path string) error {
	return derrors.ConfigError(fmt.Sprintf("invalid %s %q: reserved for a built-in route", field, path)).
		WithContext("path", path).
		Build()
}

func parsePositiveDuration(field, raw string) (time.Duration, error) {
	d, err := time.ParseDuration(raw)
	if err != nil || d <= 0 {
		return 0, derrors.ConfigError(fmt.Sprintf("invalid %s %q: must be a positive duration", field, raw)).Build()
	}
	return d, nil
}

func wrapConfigError(err error) error {
	if derrors.IsClassified(err) {
		return err
	}
	return derrors.ConfigError(fmt.Sprintf("cannot load configuration: %v", err)).Build()
}
