package urlmap

import (
	"errors"
	"fmt"

	derrors "git.home.luguber.info/inful/notionsite/internal/foundation/errors"
)

// ErrorKind tags the reason a table entry was rejected.
type ErrorKind string

const (
	KindInvalidPageID    ErrorKind = "invalid_page_id"
	KindMissingURI       ErrorKind = "missing_uri"
	KindInvalidURIFormat ErrorKind = "invalid_uri_format"
)

// ValidationError describes the rejected entry. It unwraps to a fatal
// configuration ClassifiedError so CLI and HTTP adapters classify it.
type ValidationError struct {
	Kind   ErrorKind
	Label  string
	PageID string
	URI    string
}

func (e *ValidationError) Error() string {
	switch e.Kind {
	case KindInvalidPageID:
		return fmt.Sprintf("Invalid %s page id %q", e.Label, e.PageID)
	case KindMissingURI:
		return fmt.Sprintf("Missing %s value for page %q", e.Label, e.PageID)
	case KindInvalidURIFormat:
		return fmt.Sprintf("Invalid %s value for page %q: value %q should be a relative URI that starts with \"/\"", e.Label, e.PageID, e.URI)
	default:
		return fmt.Sprintf("Invalid %s entry %q -> %q", e.Label, e.URI, e.PageID)
	}
}

func (e *ValidationError) Unwrap() error {
	b := derrors.ConfigError(e.Error()).
		WithContext("kind", string(e.Kind)).
		WithContext("label", e.Label).
		WithContext("page_id", e.PageID)
	if e.URI != "" {
		b = b.WithContext("uri", e.URI)
	}
	return b.Build()
}

// IsKind reports whether err is a ValidationError of the given kind.
func IsKind(err error, kind ErrorKind) bool {
	var verr *ValidationError
	return errors.As(err, &verr) && verr.Kind == kind
}
