package handlers

import (
	"log/slog"
	"net/http"
	"time"

	"git.home.luguber.info/inful/notionsite/internal/config"
	"git.home.luguber.info/inful/notionsite/internal/foundation/errors"
	"git.home.luguber.info/inful/notionsite/internal/server/responses"
	"git.home.luguber.info/inful/notionsite/internal/version"
)

// MonitoringHandlers contains monitoring-related HTTP handlers.
type MonitoringHandlers struct {
	site         *config.Site
	startTime    time.Time
	errorAdapter *errors.HTTPErrorAdapter
}

// NewMonitoringHandlers creates a new monitoring handlers instance.
func NewMonitoringHandlers(site *config.Site, startTime time.Time) *MonitoringHandlers {
	return &MonitoringHandlers{
		site:         site,
		startTime:    startTime,
		errorAdapter: errors.NewHTTPErrorAdapter(slog.Default()),
	}
}

// HandleHealthCheck handles the health check endpoint.
func (h *MonitoringHandlers) HandleHealthCheck(w http.ResponseWriter, r *http.Request) {
	if !requireMethod(w, r, h.errorAdapter, http.MethodGet) {
		return
	}

	health := &responses.HealthResponse{
		Status:    "healthy",
		Timestamp: time.Now().UTC(),
		Version:   version.Version,
		Uptime:    time.Since(h.startTime).Seconds(),
	}
	if m := h.site.Mappings; m != nil {
		health.Mappings = responses.MappingCounts{Overrides: m.Overrides.Len(), Additions: m.Additions.Len()}
	}
	respond(w, r, h.errorAdapter, health, "health")
}
