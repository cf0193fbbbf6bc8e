// Copyright (c) 2024 Z5Labs and Contributors
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package format

import (
	"strconv"

	"github.com/z5labs/format/event"
	"github.com/z5labs/format/path"
	"github.com/z5labs/format/value"
)

// ListOption configures a ListFormat. [LengthRule] values are ListOptions.
type ListOption interface {
	applyList(*ListFormat)
}

// ListFormat validates dense, zero based lists.
type ListFormat struct {
	item  Format
	rules []LengthRule
}

// List returns a Format for lists whose items are each validated by item.
// A nil item passes items through unchanged.
//
// A dictionary keyed by "0", "1", ... is accepted as a list. Items are
// read from index 0 upwards and the list ends at the first missing index,
// so {"0": "x", "2": "y"} becomes ["x"]. Length rules run only once every
// item is valid and count the items of the output.
func List(item Format, opts ...ListOption) *ListFormat {
	f := &ListFormat{item: item}
	for _, opt := range opts {
		opt.applyList(f)
	}
	return f
}

// Apply implements the [Format] interface.
func (f *ListFormat) Apply(in value.Value, at path.Path, sink *event.Sink) (value.Value, bool) {
	items, ok := asList(in)
	if !ok {
		return fail(sink, at, "Please provide a list.")
	}

	out := make([]value.Value, len(items))
	ok = true
	for i, item := range items {
		if f.item == nil {
			out[i] = item
			continue
		}
		v, iok := applyChecked(f.item, item, at.At(i), sink)
		if !iok {
			ok = false
			continue
		}
		out[i] = v
	}
	if !ok {
		return value.Null(), false
	}

	for _, r := range f.rules {
		if !r.check(len(out), at, sink, "items", "list") {
			return value.Null(), false
		}
	}
	return value.List(out...), true
}

func (*ListFormat) absentValue() value.Value {
	return value.List()
}

// asList reads the dense prefix of a list-like value.
func asList(in value.Value) ([]value.Value, bool) {
	if items, ok := in.AsList(); ok {
		return items, true
	}
	m, ok := in.AsDict()
	if !ok {
		return nil, false
	}
	for _, k := range m.Keys() {
		if !isIndexKey(k) {
			return nil, false
		}
	}

	var items []value.Value
	for i := 0; ; i++ {
		v, ok := m.Get(strconv.Itoa(i))
		if !ok {
			return items, true
		}
		items = append(items, v)
	}
}

// isIndexKey reports whether k is the canonical decimal text of a
// non-negative int.
func isIndexKey(k string) bool {
	if k == "" || (k[0] == '0' && len(k) > 1) {
		return false
	}
	for i := 0; i < len(k); i++ {
		if k[i] < '0' || k[i] > '9' {
			return false
		}
	}
	_, err := strconv.Atoi(k)
	return err == nil
}
