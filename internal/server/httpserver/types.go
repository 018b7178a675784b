package httpserver

import (
	"log/slog"
	"net/http"

	"git.home.luguber.info/inful/notionsite/internal/metrics"
	"git.home.luguber.info/inful/notionsite/internal/searchcache"
	"git.home.luguber.info/inful/notionsite/internal/server/handlers"
)

// Options configures the runtime dependencies of the server.
type Options struct {
	// Addr overrides the listen address. Defaults to ":" + site port.
	Addr string

	Searcher handlers.Searcher
	Cache    searchcache.Cache
	Recorder metrics.Recorder
	Logger   *slog.Logger

	// Optional: Prometheus exposition, mounted at the configured metrics path
	// when metrics are enabled.
	PrometheusHandler http.Handler
}
