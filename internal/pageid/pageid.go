// Package pageid parses Notion page identifiers.
//
// A page id is a 128-bit value written either as a hyphenated UUID
// ("059262f0-a2f8-4b27-8a9f-6b4b5b5b0001") or in the compact 32 hex digit form
// Notion uses in its URLs ("059262f0a2f84b278a9f6b4b5b5b0001"). Ids are also
// accepted at the end of a page slug or URL, e.g. "My-Post-059262f0a2f8...".
package pageid

import (
	"regexp"
	"strings"

	"github.com/google/uuid"
)

// Form selects the string form Parse returns.
type Form int

const (
	// FormCompact is 32 lower-case hex digits without hyphens.
	FormCompact Form = iota
	// FormUUID is the canonical hyphenated 8-4-4-4-12 form.
	FormUUID
)

var (
	compactRe = regexp.MustCompile(`(?i)\b([a-f0-9]{32})$`)
	uuidRe    = regexp.MustCompile(`(?i)\b([a-f0-9]{8}-[a-f0-9]{4}-[a-f0-9]{4}-[a-f0-9]{4}-[a-f0-9]{12})$`)
)

// Parse extracts a page id from raw and returns it in the requested form.
// Anything after a '?' is ignored. ok is false when raw holds no id.
func Parse(raw string, form Form) (string, bool) {
	if raw == "" {
		return "", false
	}
	raw, _, _ = strings.Cut(raw, "?")

	var candidate string
	if m := compactRe.FindStringSubmatch(raw); m != nil {
		candidate = m[1]
	} else if m := uuidRe.FindStringSubmatch(raw); m != nil {
		candidate = m[1]
	} else {
		return "", false
	}

	id, err := uuid.Parse(candidate)
	if err != nil {
		return "", false
	}
	if form == FormUUID {
		return id.String(), true
	}
	return compact(id), true
}

// Valid reports whether raw contains a parseable page id.
func Valid(raw string) bool {
	_, ok := Parse(raw, FormCompact)
	return ok
}

// ToCompact converts a page id in either form to the compact form.
func ToCompact(raw string) (string, bool) {
	return Parse(raw, FormCompact)
}

// ToUUID converts a page id in either form to the hyphenated form.
func ToUUID(raw string) (string, bool) {
	return Parse(raw, FormUUID)
}

// IsCompact reports whether s is already a compact page id.
func IsCompact(s string) bool {
	if len(s) != 32 {
		return false
	}
	c, ok := ToCompact(s)
	return ok && c == s
}

func compact(id uuid.UUID) string {
	return strings.ReplaceAll(id.String(), "-", "")
}
