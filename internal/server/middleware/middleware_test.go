package middleware

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	derrors "git.home.luguber.info/inful/notionsite/internal/foundation/errors"
	"git.home.luguber.info/inful/notionsite/internal/metrics"
)

type routeRecorder struct {
	metrics.NoopRecorder
	routes []string
	codes  []int
}

func (r *routeRecorder) ObserveHTTPRequest(route string, status int, _ time.Duration) {
	r.routes = append(r.routes, route)
	r.codes = append(r.codes, status)
}

func newChain(buf *bytes.Buffer, rec metrics.Recorder) func(http.Handler) http.Handler {
	logger := slog.New(slog.NewJSONHandler(buf, nil))
	return Chain(logger, derrors.NewHTTPErrorAdapter(logger), rec)
}

func TestChain_RequestIDAndLogging(t *testing.T) {
	var buf bytes.Buffer
	rec := &routeRecorder{}

	var seen string
	mux := http.NewServeMux()
	mux.HandleFunc("/things/{id}", func(w http.ResponseWriter, r *http.Request) {
		seen = RequestID(r.Context())
		w.WriteHeader(http.StatusTeapot)
	})

	rr := httptest.NewRecorder()
	newChain(&buf, rec)(mux).ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/things/42", nil))

	assert.Equal(t, http.StatusTeapot, rr.Code)
	require.NotEmpty(t, seen)
	assert.Equal(t, seen, rr.Header().Get(RequestIDHeader))
	assert.Equal(t, []string{"/things/{id}"}, rec.routes)
	assert.Equal(t, []int{http.StatusTeapot}, rec.codes)

	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "HTTP request", entry["msg"])
	assert.Equal(t, seen, entry["request_id"])
	assert.Equal(t, float64(http.StatusTeapot), entry["status"])
	assert.Equal(t, "/things/42", entry["path"])
}

func TestChain_KeepsCallerRequestID(t *testing.T) {
	var buf bytes.Buffer
	h := newChain(&buf, nil)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set(RequestIDHeader, "abc-123")
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)
	assert.Equal(t, "abc-123", rr.Header().Get(RequestIDHeader))
}

func TestChain_UnmatchedRoute(t *testing.T) {
	var buf bytes.Buffer
	rec := &routeRecorder{}
	newChain(&buf, rec)(http.NotFoundHandler()).ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/x", nil))
	assert.Equal(t, []string{"unmatched"}, rec.routes)
}

func TestChain_RecoversPanics(t *testing.T) {
	var buf bytes.Buffer
	h := newChain(&buf, nil)(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
		panic("boom")
	}))

	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/panic", nil))

	assert.Equal(t, http.StatusInternalServerError, rr.Code)
	var body derrors.HTTPErrorResponse
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &body))
	assert.Equal(t, "internal server error", body.Error)
	assert.Contains(t, buf.String(), "HTTP handler panic")
}
