package metrics

import "time"

// SearchOutcome enumerates search proxy results for counters.
type SearchOutcome string

const (
	SearchSuccess          SearchOutcome = "success"
	SearchBadRequest       SearchOutcome = "bad_request"
	SearchMethodNotAllowed SearchOutcome = "method_not_allowed"
	SearchUpstreamError    SearchOutcome = "upstream_error"
)

// Recorder defines observability hooks for the HTTP surface and the search
// proxy. Implementations must be safe for concurrent use.
type Recorder interface {
	ObserveHTTPRequest(route string, status int, d time.Duration)
	IncSearchRequest(outcome SearchOutcome)
	ObserveUpstreamSearch(d time.Duration, success bool)
	IncCacheResult(hit bool)
	SetMappingCounts(overrides, additions int)
}

// NoopRecorder is a Recorder that does nothing (default when metrics not configured).
type NoopRecorder struct{}

func (NoopRecorder) ObserveHTTPRequest(string, int, time.Duration) {}
func (NoopRecorder) IncSearchRequest(SearchOutcome)                {}
func (NoopRecorder) ObserveUpstreamSearch(time.Duration, bool)     {}
func (NoopRecorder) IncCacheResult(bool)                           {}
func (NoopRecorder) SetMappingCounts(int, int)                     {}
