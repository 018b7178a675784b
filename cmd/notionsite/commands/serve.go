package commands

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	prom "github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	"git.home.luguber.info/inful/notionsite/internal/config"
	"git.home.luguber.info/inful/notionsite/internal/logfields"
	"git.home.luguber.info/inful/notionsite/internal/metrics"
	"git.home.luguber.info/inful/notionsite/internal/notion"
	"git.home.luguber.info/inful/notionsite/internal/searchcache"
	"git.home.luguber.info/inful/notionsite/internal/server/httpserver"
)

// ServeCmd implements the 'serve' command.
type ServeCmd struct {
	Addr string `short:"a" help:"Listen address (defaults to :$PORT)"`
}

func (s *ServeCmd) Run(g *Global, root *CLI) error {
	res, err := config.Load(root.Config)
	if err != nil {
		return err
	}
	site := res.Site

	logger := config.NewLogger(os.Stderr, site.Monitoring.Logging, root.Verbose)
	slog.SetDefault(logger)
	g.Logger = logger
	logWarnings(logger, res.Warnings)

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	rt, err := newRuntime(site, s.Addr, logger)
	if err != nil {
		return err
	}
	return rt.run(ctx)
}

// runtime owns everything serve starts and must stop.
type runtime struct {
	site    *config.Site
	logger  *slog.Logger
	server  *httpserver.Server
	cache   searchcache.Cache
	sweeper *searchcache.Sweeper
}

func newRuntime(site *config.Site, addr string, logger *slog.Logger) (*runtime, error) {
	rt := &runtime{site: site, logger: logger, cache: searchcache.Noop{}}

	var recorder metrics.Recorder = metrics.NoopRecorder{}
	var promHandler http.Handler
	if site.Monitoring.MetricsEnabled {
		reg := prom.NewRegistry()
		reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
		recorder = metrics.NewPrometheusRecorder(reg)
		promHandler = metrics.HTTPHandler(reg)
	}
	recorder.SetMappingCounts(site.Mappings.Overrides.Len(), site.Mappings.Additions.Len())

	if cs := site.Search.Cache; cs.Enabled {
		store, err := searchcache.NewSQLiteStore(cs.Path, cs.TTL)
		if err != nil {
			return nil, err
		}
		sweeper, err := searchcache.NewSweeper(store, cs.SweepInterval, logger)
		if err != nil {
			_ = store.Close()
			return nil, err
		}
		rt.cache = store
		rt.sweeper = sweeper
		logger.Info("Search cache enabled", logfields.File(cs.Path), slog.Duration("ttl", cs.TTL))
	}

	rt.server = httpserver.New(site, httpserver.Options{
		Addr:              addr,
		Searcher:          notion.FromSite(site),
		Cache:             rt.cache,
		Recorder:          recorder,
		Logger:            logger,
		PrometheusHandler: promHandler,
	})
	return rt, nil
}

// start brings up the sweeper and the listener.
func (rt *runtime) start(ctx context.Context) error {
	if rt.sweeper != nil {
		rt.sweeper.Start()
	}
	if err := rt.server.Start(ctx); err != nil {
		return errors.Join(err, rt.close(context.Background()))
	}
	rt.logger.Info("Site ready",
		logfields.URL(rt.site.Host),
		logfields.PageID(rt.site.RootNotionPageID),
		slog.Bool("dev", rt.site.IsDev),
	)
	return nil
}

func (rt *runtime) run(ctx context.Context) error {
	if err := rt.start(ctx); err != nil {
		return err
	}
	<-ctx.Done()
	rt.logger.Info("Shutdown signal received, stopping server...")

	stopCtx, stopCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer stopCancel()
	if err := rt.close(stopCtx); err != nil {
		return fmt.Errorf("failed to stop server: %w", err)
	}
	rt.logger.Info("Server stopped successfully")
	return nil
}

// close stops the listener, then the sweeper, then the cache.
func (rt *runtime) close(ctx context.Context) error {
	var errs []error
	if err := rt.server.Stop(ctx); err != nil {
		errs = append(errs, err)
	}
	if rt.sweeper != nil {
		if err := rt.sweeper.Stop(); err != nil {
			errs = append(errs, err)
		}
	}
	if err := rt.cache.Close(); err != nil {
		errs = append(errs, err)
	}
	return errors.Join(errs...)
}
