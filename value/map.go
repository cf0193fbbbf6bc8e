// Copyright (c) 2024 Z5Labs and Contributors
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package value

// Entry is a single key value pair of a dict.
type Entry struct {
	Key   string
	Value Value
}

// E is shorthand for constructing an Entry.
func E(key string, v Value) Entry {
	return Entry{Key: key, Value: v}
}

// Map is an insertion ordered map from string keys to values.
type Map struct {
	keys []string
	m    map[string]Value
}

// NewMap returns an empty Map with room for n entries.
func NewMap(n int) *Map {
	return &Map{
		keys: make([]string, 0, n),
		m:    make(map[string]Value, n),
	}
}

// Len returns the number of entries.
func (m *Map) Len() int {
	if m == nil {
		return 0
	}
	return len(m.keys)
}

// Get returns the value stored under key.
func (m *Map) Get(key string) (Value, bool) {
	if m == nil {
		return Value{}, false
	}
	v, ok := m.m[key]
	return v, ok
}

// Has reports whether key is present.
func (m *Map) Has(key string) bool {
	_, ok := m.Get(key)
	return ok
}

// Set stores v under key. New keys are appended, existing keys keep
// their position.
func (m *Map) Set(key string, v Value) {
	if _, ok := m.m[key]; !ok {
		m.keys = append(m.keys, key)
	}
	m.m[key] = v
}

// Keys returns the keys in insertion order. The slice must not be modified.
func (m *Map) Keys() []string {
	if m == nil {
		return nil
	}
	return m.keys
}

// Range calls f for each entry in insertion order until f returns false.
func (m *Map) Range(f func(key string, v Value) bool) {
	if m == nil {
		return
	}
	for _, k := range m.keys {
		if !f(k, m.m[k]) {
			return
		}
	}
}

// Entries returns the entries in insertion order.
func (m *Map) Entries() []Entry {
	entries := make([]Entry, 0, m.Len())
	m.Range(func(k string, v Value) bool {
		entries = append(entries, Entry{Key: k, Value: v})
		return true
	})
	return entries
}

// Clone returns a shallow copy of m.
func (m *Map) Clone() *Map {
	c := NewMap(m.Len())
	m.Range(func(k string, v Value) bool {
		c.Set(k, v)
		return true
	})
	return c
}

// Equal reports whether m and other hold the same keys with equal values,
// regardless of order.
func (m *Map) Equal(other *Map) bool {
	if m.Len() != other.Len() {
		return false
	}
	eq := true
	m.Range(func(k string, v Value) bool {
		ov, ok := other.Get(k)
		if !ok || !v.Equal(ov) {
			eq = false
			return false
		}
		return true
	})
	return eq
}
