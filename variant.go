// Copyright (c) 2024 Z5Labs and Contributors
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package format

import (
	"fmt"
	"strings"

	"github.com/z5labs/format/event"
	"github.com/z5labs/format/path"
	"github.com/z5labs/format/value"
)

// TagField locates a variant tag under a dictionary key.
func TagField(name string) path.Segment {
	return path.Name(name)
}

// TagIndex locates a variant tag at a list index.
func TagIndex(i int) path.Segment {
	if i < 0 {
		configFault("variant", "tag index %d is negative", i)
	}
	return path.Index(i)
}

// VariantOption configures a VariantFormat.
type VariantOption func(*VariantFormat)

// Case registers f as the format of inputs tagged with tag. Integer tags
// match the decimal text of tag.
func Case(tag string, f Format) VariantOption {
	return func(v *VariantFormat) {
		if f == nil {
			configFault("variant", "case %q has no format", tag)
		}
		if _, exists := v.cases[tag]; exists {
			configFault("variant", "tag %q is registered more than once", tag)
		}
		v.cases[tag] = f
		v.tags = append(v.tags, tag)
	}
}

// MergeTag copies the tag into the output of the selected case when that
// output is a dictionary. It requires a field tag.
func MergeTag() VariantOption {
	return func(v *VariantFormat) {
		v.merge = true
	}
}

// VariantFormat dispatches on a tag read from the input.
type VariantFormat struct {
	tag   path.Segment
	cases map[string]Format
	tags  []string
	merge bool
}

// Variant returns a Format for tagged unions. The value found at tag
// selects which registered case validates the input. The selected case is
// applied to the whole input at the current path.
func Variant(tag path.Segment, opts ...VariantOption) *VariantFormat {
	if tag == nil {
		configFault("variant", "tag must be set")
	}
	v := &VariantFormat{
		tag:   tag,
		cases: make(map[string]Format),
	}
	for _, opt := range opts {
		opt(v)
	}
	if len(v.tags) == 0 {
		configFault("variant", "at least one case is required")
	}
	if _, isIndex := tag.(path.Index); isIndex && v.merge {
		configFault("variant", "tag can only be merged into a dict when it is a field")
	}
	return v
}

// Apply implements the [Format] interface.
func (v *VariantFormat) Apply(in value.Value, at path.Path, sink *event.Sink) (value.Value, bool) {
	tag, found, ok := v.lookup(in)
	if !ok {
		return fail(sink, at, "Please provide a dictionary.")
	}
	if !found {
		return fail(sink, at, v.missingMessage(), event.Details(map[string]any{"tag": v.tag.Key()}))
	}

	key, isScalar := tagKey(tag)
	f, registered := v.cases[key]
	if !isScalar || !registered {
		return fail(
			sink,
			at.Child(v.tag),
			fmt.Sprintf("Please provide one of: %s.", strings.Join(v.tags, ", ")),
			event.Details(map[string]any{"allowed": append([]string(nil), v.tags...)}),
		)
	}

	out, ok := applyChecked(f, in, at, sink)
	if !ok {
		return value.Null(), false
	}
	if !v.merge {
		return out, true
	}
	m, isDict := out.AsDict()
	if !isDict {
		return out, true
	}
	merged := m.Clone()
	merged.Set(v.tag.Key(), tag)
	return value.DictOf(merged), true
}

// lookup reads the tag from in. ok is false when in is not a collection.
func (v *VariantFormat) lookup(in value.Value) (tag value.Value, found, ok bool) {
	switch in.Kind() {
	case value.DictKind:
		m, _ := in.AsDict()
		tag, found = m.Get(v.tag.Key())
		return tag, found, true
	case value.ListKind:
		idx, isIndex := v.tag.(path.Index)
		if !isIndex {
			return value.Null(), false, true
		}
		items, _ := in.AsList()
		if int(idx) >= len(items) {
			return value.Null(), false, true
		}
		return items[idx], true, true
	default:
		return value.Null(), false, false
	}
}

func (v *VariantFormat) missingMessage() string {
	if idx, isIndex := v.tag.(path.Index); isIndex {
		return fmt.Sprintf("Index %d is required.", int(idx))
	}
	return fmt.Sprintf("Field %q is required.", v.tag.Key())
}

func tagKey(tag value.Value) (string, bool) {
	switch {
	case tag.Kind() == value.StringKind:
		return tag.AsString()
	case tag.IsInt():
		return tag.Text()
	default:
		return "", false
	}
}
