package urlmap

import (
	"bytes"
	"encoding/json"
	"iter"
	"maps"
)

// ordered is a string map that remembers first-insertion order.
type ordered struct {
	keys   []string
	values map[string]string
}

func (o *ordered) set(key, value string) {
	if o.values == nil {
		o.values = make(map[string]string)
	}
	if _, exists := o.values[key]; !exists {
		o.keys = append(o.keys, key)
	}
	o.values[key] = value
}

// Get returns the value stored for key.
func (o ordered) Get(key string) (string, bool) {
	v, ok := o.values[key]
	return v, ok
}

// Len returns the number of distinct keys.
func (o ordered) Len() int {
	return len(o.keys)
}

// Keys returns the keys in insertion order.
func (o ordered) Keys() []string {
	out := make([]string, len(o.keys))
	copy(out, o.keys)
	return out
}

// All iterates entries in insertion order.
func (o ordered) All() iter.Seq2[string, string] {
	return func(yield func(string, string) bool) {
		for _, k := range o.keys {
			if !yield(k, o.values[k]) {
				return
			}
		}
	}
}

// ToMap returns an unordered copy.
func (o ordered) ToMap() map[string]string {
	out := make(map[string]string, len(o.values))
	maps.Copy(out, o.values)
	return out
}

// MarshalJSON encodes the entries as a JSON object in insertion order.
func (o ordered) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, k := range o.keys {
		if i > 0 {
			buf.WriteByte(',')
		}
		kb, err := json.Marshal(k)
		if err != nil {
			return nil, err
		}
		vb, err := json.Marshal(o.values[k])
		if err != nil {
			return nil, err
		}
		buf.Write(kb)
		buf.WriteByte(':')
		buf.Write(vb)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}
