package urlmap

import (
	"strings"

	"git.home.luguber.info/inful/notionsite/internal/foundation"
	"git.home.luguber.info/inful/notionsite/internal/pageid"
)

// Labels used in error messages for the two configured tables.
const (
	LabelOverrides = "pageUrlOverrides"
	LabelAdditions = "pageUrlAdditions"
)

// ForwardMap maps slugs to compact page ids.
type ForwardMap struct {
	ordered
}

// InverseMap maps compact page ids to slugs.
type InverseMap struct {
	ordered
}

// Raw rebuilds the operator-facing form ("/" + slug) of the map.
func (m ForwardMap) Raw() RawMap {
	var raw RawMap
	for slug, id := range m.All() {
		raw.Set("/"+slug, id)
	}
	return raw
}

// NormalizeMap validates raw and converts it to a ForwardMap. The first
// invalid entry aborts the whole table; label names the table in errors.
func NormalizeMap(raw RawMap, label string) (ForwardMap, error) {
	var out ForwardMap
	for uri, rawID := range raw.All() {
		id, ok := pageid.Parse(rawID, pageid.FormCompact)
		if !ok {
			return ForwardMap{}, &ValidationError{Kind: KindInvalidPageID, Label: label, PageID: rawID, URI: uri}
		}
		if uri == "" {
			return ForwardMap{}, &ValidationError{Kind: KindMissingURI, Label: label, PageID: rawID}
		}
		if !strings.HasPrefix(uri, "/") {
			return ForwardMap{}, &ValidationError{Kind: KindInvalidURIFormat, Label: label, PageID: rawID, URI: uri}
		}
		out.set(uri[1:], id)
	}
	return out, nil
}

// Invert derives the page id -> slug lookup. When several slugs share a
// page id the one iterated last wins.
func Invert(fm ForwardMap) InverseMap {
	var out InverseMap
	for slug, id := range fm.All() {
		out.set(id, slug)
	}
	return out
}

// Mappings bundles the validated tables consumed by the router.
type Mappings struct {
	Overrides        ForwardMap
	InverseOverrides InverseMap
	Additions        ForwardMap
}

// Build validates both raw tables. Overrides are checked first, so an error
// in both reports the overrides entry.
func Build(overrides, additions RawMap) foundation.Result[*Mappings, error] {
	ov, err := NormalizeMap(overrides, LabelOverrides)
	if err != nil {
		return foundation.Err[*Mappings](err)
	}
	add, err := NormalizeMap(additions, LabelAdditions)
	if err != nil {
		return foundation.Err[*Mappings](err)
	}
	return foundation.Ok[*Mappings, error](&Mappings{
		Overrides:        ov,
		InverseOverrides: Invert(ov),
		Additions:        add,
	})
}
