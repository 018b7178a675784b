package logfields

import (
	"log/slog"
	"time"
)

// Canonical log field name constants to avoid drift across packages.
const (
	KeyRequestID  = "request_id"
	KeyMethod     = "method"
	KeyPath       = "path"
	KeyStatus     = "status"
	KeyRemoteAddr = "remote_addr"
	KeyUserAgent  = "user_agent"
	KeyDurationMS = "duration_ms"
	KeyPageID     = "page_id"
	KeySlug       = "slug"
	KeySource     = "source"
	KeyQuery      = "query"
	KeyCache      = "cache"
	KeyURL        = "url"
	KeyFile       = "file"
	KeyAddr       = "addr"
	KeyCount      = "count"
	KeyError      = "error"
)

// Simple helpers returning slog.Attr. Keeping each granular means callers can compose.
func RequestID(id string) slog.Attr   { return slog.String(KeyRequestID, id) }
func Method(m string) slog.Attr       { return slog.String(KeyMethod, m) }
func Path(p string) slog.Attr         { return slog.String(KeyPath, p) }
func Status(code int) slog.Attr       { return slog.Int(KeyStatus, code) }
func RemoteAddr(a string) slog.Attr   { return slog.String(KeyRemoteAddr, a) }
func UserAgent(ua string) slog.Attr   { return slog.String(KeyUserAgent, ua) }
func PageID(id string) slog.Attr      { return slog.String(KeyPageID, id) }
func Slug(s string) slog.Attr         { return slog.String(KeySlug, s) }
func Source(s string) slog.Attr       { return slog.String(KeySource, s) }
func Query(q string) slog.Attr        { return slog.String(KeyQuery, q) }
func Cache(state string) slog.Attr    { return slog.String(KeyCache, state) }
func URL(u string) slog.Attr          { return slog.String(KeyURL, u) }
func File(f string) slog.Attr         { return slog.String(KeyFile, f) }
func Addr(a string) slog.Attr         { return slog.String(KeyAddr, a) }
func Count(n int) slog.Attr           { return slog.Int(KeyCount, n) }
func DurationMS(ms float64) slog.Attr { return slog.Float64(KeyDurationMS, ms) }

// Since records the elapsed milliseconds since start.
func Since(start time.Time) slog.Attr {
	return DurationMS(float64(time.Since(start).Microseconds()) / 1000)
}

func Error(err error) slog.Attr {
	if err == nil {
		return slog.String(KeyError, "")
	}
	return slog.String(KeyError, err.Error())
}
