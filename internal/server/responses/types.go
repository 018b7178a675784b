// Package responses defines API response types used by the site's HTTP handlers.
package responses

import (
	"time"

	"git.home.luguber.info/inful/notionsite/internal/urlmap"
)

// HealthResponse represents the health check API response.
type HealthResponse struct {
	Status    string        `json:"status"`
	Timestamp time.Time     `json:"timestamp"`
	Version   string        `json:"version"`
	Uptime    float64       `json:"uptime"`
	Mappings  MappingCounts `json:"mappings"`
}

// MappingCounts reports the size of the configured URL tables.
type MappingCounts struct {
	Overrides int `json:"overrides"`
	Additions int `json:"additions"`
}

// CanonicalResponse is returned by the canonical URL endpoint.
type CanonicalResponse struct {
	PageID string `json:"page_id"`
	Path   string `json:"path"`
	URL    string `json:"url"`
}

// SiteResponse is a sanitized view of the site configuration. Credentials
// are never included.
type SiteResponse struct {
	Name              string            `json:"name"`
	Author            string            `json:"author,omitempty"`
	Domain            string            `json:"domain,omitempty"`
	Description       string            `json:"description,omitempty"`
	RootNotionPageID  string            `json:"root_notion_page_id"`
	RootNotionSpaceID string            `json:"root_notion_space_id,omitempty"`
	Social            SocialLinks       `json:"social"`
	ImageCDNHost      string            `json:"image_cdn_host,omitempty"`
	Host              string            `json:"host"`
	API               APIEndpoints      `json:"api"`
	PageURLOverrides  urlmap.ForwardMap `json:"page_url_overrides"`
	PageURLAdditions  urlmap.ForwardMap `json:"page_url_additions"`
	InverseOverrides  urlmap.InverseMap `json:"inverse_page_url_overrides"`
}

type SocialLinks struct {
	Twitter  string `json:"twitter,omitempty"`
	GitHub   string `json:"github,omitempty"`
	LinkedIn string `json:"linkedin,omitempty"`
}

type APIEndpoints struct {
	BaseURL      string `json:"base_url"`
	SearchNotion string `json:"search_notion"`
}
