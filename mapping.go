// FILE: lixenwraith/property/mapping.go
package property

import (
	"iter"
	"maps"
	"slices"
)

// FlatMapping is an immutable snapshot of one source read.
// The zero value is an empty mapping.
type FlatMapping struct {
	entries map[string]string
}

// NewFlatMapping copies m into a new FlatMapping
func NewFlatMapping(m map[string]string) FlatMapping {
	return FlatMapping{entries: maps.Clone(m)}
}

// FlatMappingFromPairs builds a mapping from ordered key/value pairs.
// When a key repeats, the later pair wins.
func FlatMappingFromPairs(pairs iter.Seq2[string, string]) FlatMapping {
	entries := make(map[string]string)
	for k, v := range pairs {
		entries[k] = v
	}
	return FlatMapping{entries: entries}
}

// Lookup returns the raw value for key
func (m FlatMapping) Lookup(key string) (string, bool) {
	v, ok := m.entries[key]
	return v, ok
}

// Len returns the number of entries
func (m FlatMapping) Len() int {
	return len(m.entries)
}

// Keys returns all keys in sorted order
func (m FlatMapping) Keys() []string {
	return slices.Sorted(maps.Keys(m.entries))
}

// All iterates over entries in sorted key order
func (m FlatMapping) All() iter.Seq2[string, string] {
	return func(yield func(string, string) bool) {
		for _, k := range m.Keys() {
			if !yield(k, m.entries[k]) {
				return
			}
		}
	}
}

// Map returns a copy of the entries
func (m FlatMapping) Map() map[string]string {
	if m.entries == nil {
		return make(map[string]string)
	}
	return maps.Clone(m.entries)
}
