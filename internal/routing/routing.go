// Package routing maps site paths to Notion pages and back using the
// validated URL tables.
package routing

import (
	"fmt"
	"strings"

	"git.home.luguber.info/inful/notionsite/internal/config"
	derrors "git.home.luguber.info/inful/notionsite/internal/foundation/errors"
	"git.home.luguber.info/inful/notionsite/internal/pageid"
	"git.home.luguber.info/inful/notionsite/internal/urlmap"
)

// Source records which rule resolved a path.
type Source string

const (
	SourceRoot     Source = "root"
	SourceOverride Source = "override"
	SourceAddition Source = "addition"
	SourcePath     Source = "path"
)

// Resolution is the outcome of resolving one request path.
type Resolution struct {
	Path          string `json:"path"`
	Slug          string `json:"slug"`
	PageID        string `json:"page_id"`
	Source        Source `json:"source"`
	CanonicalPath string `json:"canonical_path"`
}

// Resolver is read-only after construction and safe for concurrent use.
type Resolver struct {
	rootPageID string
	host       string
	mappings   *urlmap.Mappings
}

// NewResolver builds a resolver over the given tables. A nil mappings value
// behaves like empty tables.
func NewResolver(rootPageID, host string, mappings *urlmap.Mappings) *Resolver {
	if mappings == nil {
		mappings = &urlmap.Mappings{}
	}
	return &Resolver{rootPageID: rootPageID, host: strings.TrimRight(host, "/"), mappings: mappings}
}

// FromSite builds a resolver for a loaded site.
func FromSite(site *config.Site) *Resolver {
	return NewResolver(site.RootNotionPageID, site.Host, site.Mappings)
}

// Slug strips the query string and one leading slash from a request path,
// the same way raw map paths become slugs.
func Slug(path string) string {
	if i := strings.IndexAny(path, "?#"); i >= 0 {
		path = path[:i]
	}
	return strings.TrimPrefix(path, "/")
}

// Resolve finds the page served at path. Overrides take precedence over
// additions; a page id embedded at the end of the path is the fallback.
// The exact slug is tried first, then the slug without trailing slashes.
func (r *Resolver) Resolve(path string) (Resolution, error) {
	slug := Slug(path)
	res := Resolution{Path: path, Slug: slug}

	candidates := []string{slug}
	if trimmed := strings.TrimRight(slug, "/"); trimmed != slug {
		candidates = append(candidates, trimmed)
	}

	for _, c := range candidates {
		if c == "" {
			res.Slug, res.PageID, res.Source = c, r.rootPageID, SourceRoot
			break
		}
		if id, ok := r.mappings.Overrides.Get(c); ok {
			res.Slug, res.PageID, res.Source = c, id, SourceOverride
			break
		}
		if id, ok := r.mappings.Additions.Get(c); ok {
			res.Slug, res.PageID, res.Source = c, id, SourceAddition
			break
		}
	}
	if res.Source == "" {
		id, ok := pageid.Parse(candidates[len(candidates)-1], pageid.FormCompact)
		if !ok {
			return Resolution{}, derrors.NotFoundError(fmt.Sprintf("no page found for path %q", path)).
				WithContext("slug", slug).
				Build()
		}
		res.PageID, res.Source = id, SourcePath
	}

	res.CanonicalPath = r.canonicalPath(res.PageID)
	return res, nil
}

// CanonicalPath returns the preferred site path for a page: "/" for the
// root page, the override slug when one exists, otherwise the compact id.
func (r *Resolver) CanonicalPath(rawPageID string) (string, error) {
	id, ok := pageid.Parse(rawPageID, pageid.FormCompact)
	if !ok {
		return "", derrors.ValidationError(fmt.Sprintf("invalid page id %q", rawPageID)).Build()
	}
	return r.canonicalPath(id), nil
}

// CanonicalURL is CanonicalPath prefixed with the site host.
func (r *Resolver) CanonicalURL(rawPageID string) (string, error) {
	p, err := r.CanonicalPath(rawPageID)
	if err != nil {
		return "", err
	}
	return r.host + p, nil
}

func (r *Resolver) canonicalPath(id string) string {
	if id == r.rootPageID {
		return "/"
	}
	if slug, ok := r.mappings.InverseOverrides.Get(id); ok {
		return "/" + slug
	}
	return "/" + id
}
