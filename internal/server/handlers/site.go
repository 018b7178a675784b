package handlers

import (
	"log/slog"
	"net/http"

	"git.home.luguber.info/inful/notionsite/internal/config"
	"git.home.luguber.info/inful/notionsite/internal/foundation/errors"
	"git.home.luguber.info/inful/notionsite/internal/routing"
	"git.home.luguber.info/inful/notionsite/internal/server/responses"
	"git.home.luguber.info/inful/notionsite/internal/urlmap"
)

// SiteHandlers expose the routing tables to the rendering front-end.
type SiteHandlers struct {
	site         *config.Site
	resolver     *routing.Resolver
	errorAdapter *errors.HTTPErrorAdapter
}

// NewSiteHandlers creates the routing/site handlers.
func NewSiteHandlers(site *config.Site, resolver *routing.Resolver) *SiteHandlers {
	return &SiteHandlers{
		site:         site,
		resolver:     resolver,
		errorAdapter: errors.NewHTTPErrorAdapter(slog.Default()),
	}
}

// HandleResolve answers GET /api/resolve?path=/blog/hello.
func (h *SiteHandlers) HandleResolve(w http.ResponseWriter, r *http.Request) {
	if !requireMethod(w, r, h.errorAdapter, http.MethodGet) {
		return
	}
	res, err := h.resolver.Resolve(r.URL.Query().Get("path"))
	if err != nil {
		h.errorAdapter.WriteErrorResponse(w, r, err)
		return
	}
	respond(w, r, h.errorAdapter, res, "resolve")
}

// HandleCanonical answers GET /api/canonical?pageId=<id>.
func (h *SiteHandlers) HandleCanonical(w http.ResponseWriter, r *http.Request) {
	if !requireMethod(w, r, h.errorAdapter, http.MethodGet) {
		return
	}
	raw := r.URL.Query().Get("pageId")
	path, err := h.resolver.CanonicalPath(raw)
	if err != nil {
		h.errorAdapter.WriteErrorResponse(w, r, err)
		return
	}
	u, _ := h.resolver.CanonicalURL(raw)
	respond(w, r, h.errorAdapter, &responses.CanonicalResponse{
		PageID: raw,
		Path:   path,
		URL:    u,
	}, "canonical")
}

// HandleSite answers GET /api/site with the sanitized configuration.
func (h *SiteHandlers) HandleSite(w http.ResponseWriter, r *http.Request) {
	if !requireMethod(w, r, h.errorAdapter, http.MethodGet) {
		return
	}
	respond(w, r, h.errorAdapter, SiteSummary(h.site), "site")
}

// SiteSummary builds the public view of site.
func SiteSummary(site *config.Site) *responses.SiteResponse {
	m := site.Mappings
	if m == nil {
		m = &urlmap.Mappings{}
	}
	return &responses.SiteResponse{
		Name:              site.Name,
		Author:            site.Author,
		Domain:            site.Domain,
		Description:       site.Description,
		RootNotionPageID:  site.RootNotionPageID,
		RootNotionSpaceID: site.RootNotionSpaceID,
		Social: responses.SocialLinks{
			Twitter:  site.Twitter,
			GitHub:   site.GitHub,
			LinkedIn: site.LinkedIn,
		},
		ImageCDNHost:     site.ImageCDNHost,
		Host:             site.Host,
		API:              responses.APIEndpoints{BaseURL: site.APIBaseURL, SearchNotion: site.SearchURL},
		PageURLOverrides: m.Overrides,
		PageURLAdditions: m.Additions,
		InverseOverrides: m.InverseOverrides,
	}
}
