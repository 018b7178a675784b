package notion

import (
	"fmt"

	derrors "git.home.luguber.info/inful/notionsite/internal/foundation/errors"
	"git.home.luguber.info/inful/notionsite/internal/pageid"
)

// SearchParams is the body accepted by the search endpoint.
type SearchParams struct {
	AncestorID string         `json:"ancestorId"`
	Query      string         `json:"query"`
	Filters    *SearchFilters `json:"filters,omitempty"`
	Limit      int            `json:"limit,omitempty"`
}

// SearchFilters overlay the default upstream filters. Unset fields keep the
// defaults.
type SearchFilters struct {
	IsDeletedOnly          *bool `json:"isDeletedOnly,omitempty"`
	ExcludeTemplates       *bool `json:"excludeTemplates,omitempty"`
	IsNavigableOnly        *bool `json:"isNavigableOnly,omitempty"`
	RequireEditPermissions *bool `json:"requireEditPermissions,omitempty"`
}

// Normalize fills defaults and canonicalizes the ancestor id to its
// hyphenated form. The query is left untouched. The result is what Search
// sends and what cache keys are derived from.
func (p SearchParams) Normalize(defaultAncestor string, defaultLimit int) (SearchParams, error) {
	out := p

	raw := p.AncestorID
	if raw == "" {
		raw = defaultAncestor
	}
	id, ok := pageid.Parse(raw, pageid.FormUUID)
	if !ok {
		return SearchParams{}, derrors.ValidationError(fmt.Sprintf("invalid ancestorId %q", p.AncestorID)).Build()
	}
	out.AncestorID = id

	if out.Limit < 0 {
		return SearchParams{}, derrors.ValidationError(fmt.Sprintf("invalid limit %d", p.Limit)).Build()
	}
	if out.Limit == 0 {
		out.Limit = defaultLimit
	}
	return out, nil
}

type searchRequest struct {
	Type       string        `json:"type"`
	Source     string        `json:"source"`
	AncestorID string        `json:"ancestorId"`
	Sort       string        `json:"sort"`
	Limit      int           `json:"limit"`
	Query      string        `json:"query"`
	Filters    searchFilters `json:"filters"`
}

type searchFilters struct {
	IsDeletedOnly          bool           `json:"isDeletedOnly"`
	ExcludeTemplates       bool           `json:"excludeTemplates"`
	IsNavigableOnly        bool           `json:"isNavigableOnly"`
	RequireEditPermissions bool           `json:"requireEditPermissions"`
	Ancestors              []string       `json:"ancestors"`
	CreatedBy              []string       `json:"createdBy"`
	EditedBy               []string       `json:"editedBy"`
	LastEditedTime         map[string]any `json:"lastEditedTime"`
	CreatedTime            map[string]any `json:"createdTime"`
}

func defaultFilters() searchFilters {
	return searchFilters{
		IsDeletedOnly:          false,
		ExcludeTemplates:       true,
		IsNavigableOnly:        true,
		RequireEditPermissions: false,
		Ancestors:              []string{},
		CreatedBy:              []string{},
		EditedBy:               []string{},
		LastEditedTime:         map[string]any{},
		CreatedTime:            map[string]any{},
	}
}

func newSearchRequest(p SearchParams) searchRequest {
	f := defaultFilters()
	if p.Filters != nil {
		overlay(&f.IsDeletedOnly, p.Filters.IsDeletedOnly)
		overlay(&f.ExcludeTemplates, p.Filters.ExcludeTemplates)
		overlay(&f.IsNavigableOnly, p.Filters.IsNavigableOnly)
		overlay(&f.RequireEditPermissions, p.Filters.RequireEditPermissions)
	}
	return searchRequest{
		Type:       "BlocksInAncestor",
		Source:     "quick_find_public",
		AncestorID: p.AncestorID,
		Sort:       "Relevance",
		Limit:      p.Limit,
		Query:      p.Query,
		Filters:    f,
	}
}

func overlay(dst *bool, v *bool) {
	if v != nil {
		*dst = *v
	}
}
