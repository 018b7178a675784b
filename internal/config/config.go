package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"git.home.luguber.info/inful/notionsite/internal/retry"
	"git.home.luguber.info/inful/notionsite/internal/urlmap"
)

// DefaultPath is the configuration file used when none is given.
const DefaultPath = "site.yaml"

// RawConfig is the on-disk configuration as the operator writes it.
type RawConfig struct {
	RootNotionPageID  string            `yaml:"rootNotionPageId"`
	RootNotionSpaceID string            `yaml:"rootNotionSpaceId,omitempty"`
	Site              SiteConfig        `yaml:"site"`
	GitHub            string            `yaml:"github,omitempty"`
	LinkedIn          string            `yaml:"linkedin,omitempty"`
	ImageCDNHost      string            `yaml:"imageCDNHost,omitempty"`
	PageURLOverrides  urlmap.RawMap     `yaml:"pageUrlOverrides,omitempty"`
	PageURLAdditions  urlmap.RawMap     `yaml:"pageUrlAdditions,omitempty"`
	Notion            NotionConfig      `yaml:"notion,omitempty"`
	Search            SearchConfig      `yaml:"search,omitempty"`
	Monitoring        *MonitoringConfig `yaml:"monitoring,omitempty"`
}

// SiteConfig holds the public identity of the site.
type SiteConfig struct {
	Name        string `yaml:"name"`
	Author      string `yaml:"author,omitempty"`
	URL         string `yaml:"url"`
	Description string `yaml:"description,omitempty"`
	Twitter     string `yaml:"twitter,omitempty"`
}

// NotionConfig configures the upstream Notion API client.
type NotionConfig struct {
	APIBaseURL string      `yaml:"apiBaseUrl,omitempty"`
	AuthToken  string      `yaml:"authToken,omitempty"` // sent as the token_v2 cookie
	Timeout    string      `yaml:"timeout,omitempty"`   // duration, e.g. "10s"
	Retry      RetryConfig `yaml:"retry,omitempty"`
	RateLimit  RateConfig  `yaml:"rateLimit,omitempty"`
}

// RateConfig caps outgoing Notion requests. RequestsPerSecond of zero means
// unlimited.
type RateConfig struct {
	RequestsPerSecond float64 `yaml:"requestsPerSecond,omitempty"`
	Burst             int     `yaml:"burst,omitempty"`
}

// RetryConfig controls retries of transient upstream failures. MaxRetries
// of zero disables them.
type RetryConfig struct {
	Backoff      retry.BackoffMode `yaml:"backoff,omitempty"` // fixed|linear|exponential
	InitialDelay string            `yaml:"initialDelay,omitempty"`
	MaxDelay     string            `yaml:"maxDelay,omitempty"`
	MaxRetries   int               `yaml:"maxRetries,omitempty"`
}

// SearchConfig configures the search proxy.
type SearchConfig struct {
	DefaultLimit int         `yaml:"defaultLimit,omitempty"`
	Cache        CacheConfig `yaml:"cache,omitempty"`
}

// CacheConfig configures the optional server-side search response cache.
type CacheConfig struct {
	Enabled       bool   `yaml:"enabled"`
	Path          string `yaml:"path,omitempty"`
	TTL           string `yaml:"ttl,omitempty"`
	SweepInterval string `yaml:"sweepInterval,omitempty"`
}

// MonitoringConfig groups health, metrics and logging settings.
type MonitoringConfig struct {
	Health  HealthConfig  `yaml:"health,omitempty"`
	Metrics MetricsConfig `yaml:"metrics,omitempty"`
	Logging LoggingConfig `yaml:"logging,omitempty"`
}

type HealthConfig struct {
	Path string `yaml:"path,omitempty"`
}

type MetricsConfig struct {
	Enabled bool   `yaml:"enabled"`
	Path    string `yaml:"path,omitempty"`
}

type LoggingConfig struct {
	Level  LogLevel  `yaml:"level,omitempty"`
	Format LogFormat `yaml:"format,omitempty"`
}

// Result is everything Load produces: the validated site plus the
// normalization warnings worth logging once a logger exists.
type Result struct {
	Site     *Site
	Raw      *RawConfig
	Warnings []string
}

// LoadRaw reads, expands and decodes a configuration file, then runs the
// normalization and default passes. It does not validate.
func LoadRaw(configPath string) (*RawConfig, []string, error) {
	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		return nil, nil, fmt.Errorf("configuration file not found: %s", configPath)
	}

	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to read config file: %w", err)
	}
	return Parse(data)
}

// Parse decodes configuration bytes after ${VAR} expansion and applies the
// normalization and default passes.
func Parse(data []byte) (*RawConfig, []string, error) {
	expanded := os.ExpandEnv(string(data))

	var raw RawConfig
	if err := yaml.Unmarshal([]byte(expanded), &raw); err != nil {
		return nil, nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	norm, err := NormalizeConfig(&raw)
	if err != nil {
		return nil, nil, err
	}
	applyDefaults(&raw)
	return &raw, norm.Warnings, nil
}

// Load loads environment files, reads configPath and builds the Site using
// the process environment.
func Load(configPath string) (*Result, error) {
	_ = LoadEnvFiles()

	raw, warnings, err := LoadRaw(configPath)
	if err != nil {
		return nil, wrapConfigError(err)
	}
	site, err := Build(raw, ProcessEnv())
	if err != nil {
		return nil, err
	}
	return &Result{Site: site, Raw: raw, Warnings: warnings}, nil
}

// Init creates a new configuration file with example content.
func Init(configPath string, force bool) error {
	if _, err := os.Stat(configPath); err == nil && !force {
		return fmt.Errorf("configuration file already exists: %s (use --force to overwrite)", configPath)
	}

	if err := os.WriteFile(configPath, []byte(exampleConfig), 0o644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}
	return nil
}

// exampleConfig is hand-written so the URL tables keep a readable order and
// the comments survive.
const exampleConfig = `# notionsite configuration
rootNotionPageId: 7875426197cf461698809def95960ebf
# rootNotionSpaceId: fde5ac74-eea3-4527-8f00-4482710e1af3

site:
  name: My Notion Site
  author: Jane Doe
  url: https://example.com
  description: Example site powered by Notion
  twitter: "@example"

github: example
linkedin: example

# Map site paths to Notion pages. Paths must start with "/".
pageUrlOverrides:
  # /foo: 067dd719a912471ea9a3ac10710e7fdf

pageUrlAdditions:
  # /bar: 0be6efce9daf42688f65c76b89f8eb27

notion:
  apiBaseUrl: https://www.notion.so/api/v3
  authToken: ${NOTION_TOKEN}
  timeout: 10s
  retry:
    backoff: linear
    initialDelay: 200ms
    maxDelay: 2s
    maxRetries: 0
  rateLimit:
    requestsPerSecond: 0 # unlimited
    burst: 1

search:
  defaultLimit: 20
  cache:
    enabled: false
    path: ":memory:"
    ttl: 60s
    sweepInterval: 1m

monitoring:
  health:
    path: /health
  metrics:
    enabled: false
    path: /metrics
  logging:
    level: info
    format: text
`
