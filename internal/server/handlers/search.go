package handlers

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"golang.org/x/sync/singleflight"

	"git.home.luguber.info/inful/notionsite/internal/foundation/errors"
	"git.home.luguber.info/inful/notionsite/internal/logfields"
	"git.home.luguber.info/inful/notionsite/internal/metrics"
	"git.home.luguber.info/inful/notionsite/internal/notion"
	"git.home.luguber.info/inful/notionsite/internal/searchcache"
)

// SearchCacheControl lets shared caches keep a result for a minute and serve
// it stale for another minute while revalidating.
const SearchCacheControl = "public, s-maxage=60, max-age=60, stale-while-revalidate=60"

const maxSearchBody = 1 << 20

// Searcher is the upstream search dependency.
type Searcher interface {
	Normalize(params notion.SearchParams) (notion.SearchParams, error)
	Search(ctx context.Context, params notion.SearchParams) (json.RawMessage, error)
}

// SearchHandler proxies POST /api/search-notion to Notion.
type SearchHandler struct {
	searcher     Searcher
	cache        searchcache.Cache
	recorder     metrics.Recorder
	logger       *slog.Logger
	errorAdapter *errors.HTTPErrorAdapter

	// inflight collapses concurrent misses for the same key into one
	// upstream call.
	inflight singleflight.Group
}

// NewSearchHandler wires the handler. Nil cache and recorder fall back to
// no-op implementations.
func NewSearchHandler(searcher Searcher, cache searchcache.Cache, recorder metrics.Recorder, logger *slog.Logger) *SearchHandler {
	if cache == nil {
		cache = searchcache.Noop{}
	}
	if recorder == nil {
		recorder = metrics.NoopRecorder{}
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &SearchHandler{
		searcher:     searcher,
		cache:        cache,
		recorder:     recorder,
		logger:       logger,
		errorAdapter: errors.NewHTTPErrorAdapter(logger),
	}
}

func (h *SearchHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if !requireMethod(w, r, h.errorAdapter, http.MethodPost) {
		h.recorder.IncSearchRequest(metrics.SearchMethodNotAllowed)
		return
	}

	var params notion.SearchParams
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxSearchBody))
	if err := dec.Decode(&params); err != nil {
		h.fail(w, r, metrics.SearchBadRequest, errors.ValidationError("invalid search parameters").
			WithContext("reason", err.Error()).
			Build())
		return
	}
	params, err := h.searcher.Normalize(params)
	if err != nil {
		h.fail(w, r, metrics.SearchBadRequest, err)
		return
	}

	key, err := searchcache.Key(params)
	if err != nil {
		h.fail(w, r, metrics.SearchBadRequest, errors.WrapError(err, errors.CategoryInternal, "cannot derive cache key").Build())
		return
	}
	if cached, ok := h.lookup(r.Context(), key); ok {
		h.recorder.IncSearchRequest(metrics.SearchSuccess)
		h.write(w, cached, "HIT")
		return
	}

	start := time.Now()
	v, err, shared := h.inflight.Do(key, func() (any, error) {
		return h.fetch(context.WithoutCancel(r.Context()), key, params)
	})
	if err != nil {
		outcome := metrics.SearchUpstreamError
		if errors.HasCategory(err, errors.CategoryValidation) {
			outcome = metrics.SearchBadRequest
		}
		h.fail(w, r, outcome, err)
		return
	}

	h.recorder.IncSearchRequest(metrics.SearchSuccess)
	h.logger.Debug("Search proxied",
		logfields.Query(params.Query),
		logfields.Since(start),
		slog.Bool("shared", shared))
	h.write(w, v.(json.RawMessage), "MISS")
}

// fetch runs one upstream search and stores the result. The caller's
// cancellation is detached because other requests may be waiting on the
// same flight; the client timeout still bounds it.
func (h *SearchHandler) fetch(ctx context.Context, key string, params notion.SearchParams) (json.RawMessage, error) {
	start := time.Now()
	result, err := h.searcher.Search(ctx, params)
	h.recorder.ObserveUpstreamSearch(time.Since(start), err == nil)
	if err != nil {
		return nil, err
	}
	if err := h.cache.Set(ctx, key, result); err != nil {
		h.logger.Warn("Failed to store search result", logfields.Error(err))
	}
	return result, nil
}

func (h *SearchHandler) lookup(ctx context.Context, key string) (json.RawMessage, bool) {
	cached, ok, err := h.cache.Get(ctx, key)
	if err != nil {
		h.logger.Warn("Search cache lookup failed", logfields.Error(err))
		return nil, false
	}
	if _, isNoop := h.cache.(searchcache.Noop); !isNoop {
		h.recorder.IncCacheResult(ok)
	}
	return cached, ok
}

func (h *SearchHandler) write(w http.ResponseWriter, body json.RawMessage, cacheState string) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.Header().Set("Cache-Control", SearchCacheControl)
	if _, isNoop := h.cache.(searchcache.Noop); !isNoop {
		w.Header().Set("X-Cache", cacheState)
	}
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(body); err != nil {
		h.logger.Error("failed writing search response", logfields.Error(err))
	}
}

func (h *SearchHandler) fail(w http.ResponseWriter, r *http.Request, outcome metrics.SearchOutcome, err error) {
	h.recorder.IncSearchRequest(outcome)
	h.errorAdapter.WriteErrorResponse(w, r, err)
}
