// Package httpserver wires the site's HTTP endpoints onto a single listener.
package httpserver

import (
	"context"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"time"

	"git.home.luguber.info/inful/notionsite/internal/config"
	derrors "git.home.luguber.info/inful/notionsite/internal/foundation/errors"
	"git.home.luguber.info/inful/notionsite/internal/logfields"
	"git.home.luguber.info/inful/notionsite/internal/metrics"
	"git.home.luguber.info/inful/notionsite/internal/routing"
	handlers "git.home.luguber.info/inful/notionsite/internal/server/handlers"
	smw "git.home.luguber.info/inful/notionsite/internal/server/middleware"
)

// SearchPath is where the search proxy is mounted.
const SearchPath = config.SearchAPIPath

// Server manages the site HTTP endpoints.
type Server struct {
	site         *config.Site
	opts         Options
	logger       *slog.Logger
	errorAdapter *derrors.HTTPErrorAdapter
	httpServer   *http.Server
	listener     net.Listener

	// Handler modules
	monitoringHandlers *handlers.MonitoringHandlers
	siteHandlers       *handlers.SiteHandlers
	searchHandler      *handlers.SearchHandler

	// middleware chain
	mchain func(http.Handler) http.Handler
}

// New constructs a new HTTP server wiring instance.
func New(site *config.Site, opts Options) *Server {
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}
	if opts.Recorder == nil {
		opts.Recorder = metrics.NoopRecorder{}
	}
	if opts.Addr == "" {
		opts.Addr = ":" + site.Port
	}

	s := &Server{
		site:         site,
		opts:         opts,
		logger:       opts.Logger,
		errorAdapter: derrors.NewHTTPErrorAdapter(opts.Logger),
	}

	s.monitoringHandlers = handlers.NewMonitoringHandlers(site, time.Now())
	s.siteHandlers = handlers.NewSiteHandlers(site, routing.FromSite(site))
	if opts.Searcher != nil {
		s.searchHandler = handlers.NewSearchHandler(opts.Searcher, opts.Cache, opts.Recorder, opts.Logger)
	}

	s.mchain = smw.Chain(opts.Logger, s.errorAdapter, opts.Recorder)
	return s
}

// Handler returns the fully wired handler, middleware included.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()

	healthPath := s.site.Monitoring.HealthPath
	if healthPath == "" {
		healthPath = config.DefaultHealthPath
	}
	mux.HandleFunc(healthPath, s.monitoringHandlers.HandleHealthCheck)
	if healthPath != config.HealthAliasPath {
		mux.HandleFunc(config.HealthAliasPath, s.monitoringHandlers.HandleHealthCheck) // Kubernetes-style alias
	}

	if s.searchHandler != nil {
		mux.Handle(SearchPath, s.searchHandler)
	}
	mux.HandleFunc(config.ResolveAPIPath, s.siteHandlers.HandleResolve)
	mux.HandleFunc(config.CanonicalAPIPath, s.siteHandlers.HandleCanonical)
	mux.HandleFunc(config.SiteAPIPath, s.siteHandlers.HandleSite)

	if s.site.Monitoring.MetricsEnabled && s.opts.PrometheusHandler != nil {
		mux.Handle(s.site.Monitoring.MetricsPath, s.opts.PrometheusHandler)
	}

	return s.mchain(mux)
}

// Start binds the listener and serves in the background. Bind errors are
// returned synchronously so startup fails fast.
func (s *Server) Start(ctx context.Context) error {
	lc := net.ListenConfig{}
	ln, err := lc.Listen(ctx, "tcp", s.opts.Addr)
	if err != nil {
		return derrors.RuntimeError(fmt.Sprintf("cannot listen on %s", s.opts.Addr)).WithCause(err).Build()
	}
	s.listener = ln
	s.httpServer = &http.Server{
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	go func() {
		if err := s.httpServer.Serve(ln); err != nil && err != http.ErrServerClosed {
			s.logger.Error("HTTP server error", logfields.Error(err))
		}
	}()

	s.logger.Info("HTTP server started", logfields.Addr(ln.Addr().String()), logfields.URL(s.site.Host))
	return nil
}

// Addr reports the bound address, useful when listening on port 0.
func (s *Server) Addr() string {
	if s.listener == nil {
		return s.opts.Addr
	}
	return s.listener.Addr().String()
}

// Stop gracefully shuts down the HTTP server.
func (s *Server) Stop(ctx context.Context) error {
	if s.httpServer == nil {
		return nil
	}
	if err := s.httpServer.Shutdown(ctx); err != nil {
		return fmt.Errorf("http server shutdown: %w", err)
	}
	s.logger.Info("HTTP server stopped")
	return nil
}
