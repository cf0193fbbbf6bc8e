// Copyright (c) 2024 Z5Labs and Contributors
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package format

import (
	"fmt"

	"github.com/z5labs/format/event"
	"github.com/z5labs/format/path"
	"github.com/z5labs/format/value"
)

// AndFormat requires every one of its formats to accept the input.
type AndFormat struct {
	parts []Format
}

// And returns a Format applying every part to the same input, even after
// a part fails, so all of their events are reported together. Every part
// must output a dictionary. The outputs are merged in order and later
// parts win on shared keys. A shared key whose values differ records a
// Warning with code "intersect.conflict".
//
// A part producing anything other than a dictionary is a programming
// error and panics with a [ConfigError].
func And(parts ...Format) *AndFormat {
	if len(parts) == 0 {
		configFault("and", "at least one format is required")
	}
	for i, part := range parts {
		if part == nil {
			configFault("and", "format %d is nil", i)
		}
	}
	return &AndFormat{parts: parts}
}

// Intersect is an alias of [And].
func Intersect(parts ...Format) *AndFormat {
	return And(parts...)
}

// Apply implements the [Format] interface.
func (a *AndFormat) Apply(in value.Value, at path.Path, sink *event.Sink) (value.Value, bool) {
	outs := make([]value.Value, 0, len(a.parts))
	ok := true
	for _, part := range a.parts {
		out, pok := applyChecked(part, in, at, sink)
		if !pok {
			ok = false
			continue
		}
		outs = append(outs, out)
	}
	if !ok {
		return value.Null(), false
	}

	merged := value.NewMap(0)
	for i, out := range outs {
		m, isDict := out.AsDict()
		if !isDict {
			configFault("and", "format %d produced a %s, not a dict", i, out.Kind())
		}
		m.Range(func(key string, v value.Value) bool {
			if prev, seen := merged.Get(key); seen && !prev.Equal(v) && sink.Collects(event.KindWarning) {
				sink.Warning(
					at.Field(key),
					fmt.Sprintf("Conflicting values for field %q.", key),
					event.Code("intersect.conflict"),
				)
			}
			merged.Set(key, v)
			return true
		})
	}
	return value.DictOf(merged), true
}
