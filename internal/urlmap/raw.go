package urlmap

import (
	"fmt"

	"gopkg.in/yaml.v3"
)

// RawMap is a URI -> page id table as written by the operator. It keeps
// document order; setting an existing URI replaces its page id in place.
type RawMap struct {
	ordered
}

// Entry is one raw table row.
type Entry struct {
	URI    string
	PageID string
}

// NewRawMap builds a RawMap by inserting entries in order.
func NewRawMap(entries ...Entry) RawMap {
	var m RawMap
	for _, e := range entries {
		m.Set(e.URI, e.PageID)
	}
	return m
}

// Set inserts or replaces the page id for uri.
func (m *RawMap) Set(uri, pageID string) {
	m.set(uri, pageID)
}

// UnmarshalYAML decodes a YAML mapping node without collapsing it into a Go
// map, so document order and repeated keys are honoured.
func (m *RawMap) UnmarshalYAML(node *yaml.Node) error {
	*m = RawMap{}
	if node.Kind == yaml.ScalarNode && node.ShortTag() == "!!null" {
		return nil
	}
	if node.Kind != yaml.MappingNode {
		return fmt.Errorf("line %d: expected a mapping of URI to page id", node.Line)
	}
	for i := 0; i+1 < len(node.Content); i += 2 {
		k, v := node.Content[i], node.Content[i+1]
		if k.Kind != yaml.ScalarNode {
			return fmt.Errorf("line %d: URI must be a string", k.Line)
		}
		var pageID string
		switch {
		case v.Kind == yaml.ScalarNode && v.ShortTag() == "!!null":
			pageID = ""
		case v.Kind == yaml.ScalarNode:
			pageID = v.Value
		default:
			return fmt.Errorf("line %d: page id for %q must be a string", v.Line, k.Value)
		}
		m.Set(k.Value, pageID)
	}
	return nil
}
