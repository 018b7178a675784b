package metrics

import (
	"strconv"
	"time"

	prom "github.com/prometheus/client_golang/prometheus"
)

const namespace = "notionsite"

// PrometheusRecorder implements Recorder using Prometheus metrics.
type PrometheusRecorder struct {
	httpDuration   *prom.HistogramVec
	searchRequests *prom.CounterVec
	upstream       *prom.HistogramVec
	cacheResults   *prom.CounterVec
	mappings       *prom.GaugeVec
}

// NewPrometheusRecorder constructs the collectors and registers them on reg.
// A nil reg gets a fresh registry.
func NewPrometheusRecorder(reg *prom.Registry) *PrometheusRecorder {
	if reg == nil {
		reg = prom.NewRegistry()
	}
	pr := &PrometheusRecorder{
		httpDuration: prom.NewHistogramVec(prom.HistogramOpts{
			Namespace: namespace,
			Name:      "http_request_duration_seconds",
			Help:      "Duration of HTTP requests by route and status code",
			Buckets:   prom.DefBuckets,
		}, []string{"route", "code"}),
		searchRequests: prom.NewCounterVec(prom.CounterOpts{
			Namespace: namespace,
			Name:      "search_requests_total",
			Help:      "Search proxy requests by outcome",
		}, []string{"outcome"}),
		upstream: prom.NewHistogramVec(prom.HistogramOpts{
			Namespace: namespace,
			Name:      "upstream_search_duration_seconds",
			Help:      "Duration of Notion search calls",
			Buckets:   prom.DefBuckets,
		}, []string{"result"}),
		cacheResults: prom.NewCounterVec(prom.CounterOpts{
			Namespace: namespace,
			Name:      "search_cache_results_total",
			Help:      "Search cache lookups by result",
		}, []string{"result"}),
		mappings: prom.NewGaugeVec(prom.GaugeOpts{
			Namespace: namespace,
			Name:      "page_url_mappings",
			Help:      "Number of configured page URL mappings by table",
		}, []string{"table"}),
	}
	reg.MustRegister(pr.httpDuration, pr.searchRequests, pr.upstream, pr.cacheResults, pr.mappings)
	return pr
}

func (p *PrometheusRecorder) ObserveHTTPRequest(route string, status int, d time.Duration) {
	if p == nil {
		return
	}
	p.httpDuration.WithLabelValues(route, strconv.Itoa(status)).Observe(d.Seconds())
}

func (p *PrometheusRecorder) IncSearchRequest(outcome SearchOutcome) {
	if p == nil {
		return
	}
	p.searchRequests.WithLabelValues(string(outcome)).Inc()
}

func (p *PrometheusRecorder) ObserveUpstreamSearch(d time.Duration, success bool) {
	if p == nil {
		return
	}
	res := "failed"
	if success {
		res = "success"
	}
	p.upstream.WithLabelValues(res).Observe(d.Seconds())
}

func (p *PrometheusRecorder) IncCacheResult(hit bool) {
	if p == nil {
		return
	}
	res := "miss"
	if hit {
		res = "hit"
	}
	p.cacheResults.WithLabelValues(res).Inc()
}

func (p *PrometheusRecorder) SetMappingCounts(overrides, additions int) {
	if p == nil {
		return
	}
	p.mappings.WithLabelValues("overrides").Set(float64(overrides))
	p.mappings.WithLabelValues("additions").Set(float64(additions))
}
