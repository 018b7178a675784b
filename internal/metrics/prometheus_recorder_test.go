package metrics

import (
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	prom "github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"
)

func gatherFamily(t *testing.T, reg *prom.Registry, name string) *dto.MetricFamily {
	t.Helper()
	mfs, err := reg.Gather()
	if err != nil {
		t.Fatalf("gather: %v", err)
	}
	for _, mf := range mfs {
		if mf.GetName() == name {
			return mf
		}
	}
	t.Fatalf("metric family %s not found", name)
	return nil
}

func labelValue(m *dto.Metric, name string) string {
	for _, lp := range m.GetLabel() {
		if lp.GetName() == name {
			return lp.GetValue()
		}
	}
	return ""
}

func TestPrometheusRecorder(t *testing.T) {
	reg := prom.NewRegistry()
	pr := NewPrometheusRecorder(reg)

	pr.ObserveHTTPRequest("/api/search-notion", 200, 150*time.Millisecond)
	pr.IncSearchRequest(SearchSuccess)
	pr.IncSearchRequest(SearchSuccess)
	pr.IncSearchRequest(SearchMethodNotAllowed)
	pr.ObserveUpstreamSearch(80*time.Millisecond, true)
	pr.IncCacheResult(true)
	pr.IncCacheResult(false)
	pr.SetMappingCounts(3, 1)

	searches := gatherFamily(t, reg, "notionsite_search_requests_total")
	counts := map[string]float64{}
	for _, m := range searches.GetMetric() {
		counts[labelValue(m, "outcome")] = m.GetCounter().GetValue()
	}
	if counts["success"] != 2 || counts["method_not_allowed"] != 1 {
		t.Fatalf("unexpected search counters: %v", counts)
	}

	mappings := gatherFamily(t, reg, "notionsite_page_url_mappings")
	for _, m := range mappings.GetMetric() {
		want := map[string]float64{"overrides": 3, "additions": 1}[labelValue(m, "table")]
		if got := m.GetGauge().GetValue(); got != want {
			t.Errorf("table %s: got %v want %v", labelValue(m, "table"), got, want)
		}
	}

	hist := gatherFamily(t, reg, "notionsite_http_request_duration_seconds")
	if got := hist.GetMetric()[0].GetHistogram().GetSampleCount(); got != 1 {
		t.Errorf("expected one http sample, got %d", got)
	}
}

func TestNilPrometheusRecorderIsSafe(t *testing.T) {
	var pr *PrometheusRecorder
	pr.IncSearchRequest(SearchSuccess)
	pr.ObserveHTTPRequest("/", 200, time.Millisecond)
	pr.IncCacheResult(true)
	pr.ObserveUpstreamSearch(time.Millisecond, false)
	pr.SetMappingCounts(1, 1)
}

func TestNoopRecorderSatisfiesInterface(t *testing.T) {
	var r Recorder = NoopRecorder{}
	r.IncSearchRequest(SearchUpstreamError)
	r.SetMappingCounts(0, 0)
}

func TestHTTPHandler(t *testing.T) {
	reg := prom.NewRegistry()
	NewPrometheusRecorder(reg).IncCacheResult(true)

	rr := httptest.NewRecorder()
	HTTPHandler(reg).ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d", rr.Code)
	}
	body, _ := io.ReadAll(rr.Body)
	if !strings.Contains(string(body), `notionsite_search_cache_results_total{result="hit"} 1`) {
		t.Fatalf("metric missing from exposition:\n%s", body)
	}
}
