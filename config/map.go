// Copyright (c) 2024 Z5Labs and Contributors
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package config

import (
	"fmt"
	"sort"

	"github.com/z5labs/format/path"
)

// Map is an ordinary map[string]any but implements both the [Source] and
// [Store] interfaces. Nested maps are addressed by multi segment paths.
type Map map[string]any

// Apply implements the [Source] interface. It recursively walks the underlying
// map to find key value pairs to set on the given store. Keys are visited in
// sorted order so stores observe a deterministic sequence.
func (m Map) Apply(store Store) error {
	return walkMap(m, store, path.Root())
}

func walkMap(m map[string]any, store Store, at path.Path) error {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	for _, k := range keys {
		var err error
		switch x := m[k].(type) {
		case map[string]any:
			err = walkMap(x, store, at.Field(k))
		case Map:
			err = walkMap(x, store, at.Field(k))
		default:
			err = store.Set(at.Field(k), x)
		}
		if err != nil {
			return err
		}
	}
	return nil
}

// EmptyPathError occurs when a value is set at the root path.
type EmptyPathError struct {
	Value any
}

// Error implements the error interface.
func (e EmptyPathError) Error() string {
	return fmt.Sprintf("attempted to set value to an empty path: %v", e.Value)
}

// UnexpectedKeyValueTypeError represents the situation when
// a user tries setting a key to a different type than it
// had previously been set to.
type UnexpectedKeyValueTypeError struct {
	Key          string
	ExpectedType string
}

// Error implements the error interface.
func (e UnexpectedKeyValueTypeError) Error() string {
	return fmt.Sprintf("expected key value to be a %s: %s", e.ExpectedType, e.Key)
}

// Set implements the [Store] interface. Intermediate maps are created as
// needed. A scalar already stored along p is replaced by a nested map.
func (m Map) Set(p path.Path, v any) error {
	segs := p.Segments()
	if len(segs) == 0 {
		return EmptyPathError{Value: v}
	}

	cur := map[string]any(m)
	for i, seg := range segs[:len(segs)-1] {
		k := seg.Key()
		next, ok := cur[k]
		if !ok {
			sub := make(map[string]any)
			cur[k] = sub
			cur = sub
			continue
		}
		sub, ok := next.(map[string]any)
		if !ok {
			if next != nil && !isScalar(next) {
				return UnexpectedKeyValueTypeError{
					Key:          path.Of(segs[:i+1]...).Key(),
					ExpectedType: "map[string]any",
				}
			}
			sub = make(map[string]any)
			cur[k] = sub
		}
		cur = sub
	}
	cur[segs[len(segs)-1].Key()] = v
	return nil
}

// Get returns the value stored under p.
func (m Map) Get(p path.Path) (any, bool) {
	var cur any = map[string]any(m)
	for _, seg := range p.Segments() {
		sub, ok := cur.(map[string]any)
		if !ok {
			return nil, false
		}
		cur, ok = sub[seg.Key()]
		if !ok {
			return nil, false
		}
	}
	return cur, true
}

func isScalar(v any) bool {
	switch v.(type) {
	case string, bool, int, int64, uint64, float64:
		return true
	default:
		return false
	}
}
