package handlers

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"net/http"

	"git.home.luguber.info/inful/notionsite/internal/foundation/errors"
	"git.home.luguber.info/inful/notionsite/internal/logfields"
)

// writeJSON serializes the provided value to JSON and writes it with the given
// status code. Encoding is performed into an intermediate buffer so that we
// don't send partial responses if serialization fails.
func writeJSON(w http.ResponseWriter, status int, v any) error {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(true)
	if err := enc.Encode(v); err != nil {
		// Do not write fallback responses here; let callers surface via their adapters.
		return err
	}
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	if _, err := w.Write(buf.Bytes()); err != nil {
		slog.Error("failed writing JSON response body", logfields.Error(err))
		return err
	}
	return nil
}

// writeJSONPretty pretty prints when ?pretty=1 or ?pretty=true is set.
func writeJSONPretty(w http.ResponseWriter, r *http.Request, status int, v any) error {
	if r != nil {
		if p := r.URL.Query().Get("pretty"); p == "1" || p == "true" {
			b, err := json.MarshalIndent(v, "", "  ")
			if err == nil {
				w.Header().Set("Content-Type", "application/json; charset=utf-8")
				w.WriteHeader(status)
				if _, werr := w.Write(append(b, '\n')); werr != nil {
					slog.Error("failed writing pretty JSON", logfields.Error(werr))
					return werr
				}
				return nil
			}
			slog.Warn("pretty JSON marshal failed, falling back to standard encode", logfields.Error(err))
		}
	}
	return writeJSON(w, status, v)
}

// requireMethod writes a 405 and returns false unless r uses method.
func requireMethod(w http.ResponseWriter, r *http.Request, adapter *errors.HTTPErrorAdapter, method string) bool {
	if r.Method == method {
		return true
	}
	err := errors.MethodNotAllowedError("method not allowed").
		WithContext("method", r.Method).
		WithContext("allowed_method", method).
		Build()
	adapter.WriteErrorResponse(w, r, err)
	return false
}

// respond writes v and routes encoding failures through the adapter.
func respond(w http.ResponseWriter, r *http.Request, adapter *errors.HTTPErrorAdapter, v any, what string) {
	if err := writeJSONPretty(w, r, http.StatusOK, v); err != nil {
		internalErr := errors.WrapError(err, errors.CategoryInternal, "failed to write "+what+" response").Build()
		adapter.WriteErrorResponse(w, r, internalErr)
	}
}
