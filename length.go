// Copyright (c) 2024 Z5Labs and Contributors
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package format

import (
	"fmt"

	"github.com/z5labs/format/event"
	"github.com/z5labs/format/path"
)

type lengthKind uint8

const (
	lengthExact lengthKind = iota
	lengthMin
	lengthMax
	lengthBetween
	lengthEmpty
	lengthNotEmpty
)

// LengthRule tests the length of a value. Strings are measured in runes
// and lists in items. A LengthRule is both a [StringOption] and a
// [ListOption].
type LengthRule struct {
	kind     lengthKind
	min, max int
}

func newLengthRule(kind lengthKind, min, max int) LengthRule {
	if min < 0 || max < 0 {
		configFault("length", "bounds must not be negative: %d, %d", min, max)
	}
	if min > max {
		configFault("length", "minimum %d is greater than maximum %d", min, max)
	}
	return LengthRule{kind: kind, min: min, max: max}
}

const unbounded = int(^uint(0) >> 1)

// Length requires a length of exactly n.
func Length(n int) LengthRule {
	return newLengthRule(lengthExact, n, n)
}

// MinLength requires a length of at least n.
func MinLength(n int) LengthRule {
	return newLengthRule(lengthMin, n, unbounded)
}

// MaxLength requires a length of at most n.
func MaxLength(n int) LengthRule {
	return newLengthRule(lengthMax, 0, n)
}

// LengthBetween requires a length within [min, max].
func LengthBetween(min, max int) LengthRule {
	return newLengthRule(lengthBetween, min, max)
}

// Empty requires a length of zero.
func Empty() LengthRule {
	return newLengthRule(lengthEmpty, 0, 0)
}

// NotEmpty requires a length of at least one.
func NotEmpty() LengthRule {
	return newLengthRule(lengthNotEmpty, 1, unbounded)
}

func (r LengthRule) check(n int, at path.Path, sink *event.Sink, unit, noun string) bool {
	if r.min <= n && n <= r.max {
		return true
	}

	var msg string
	switch r.kind {
	case lengthExact:
		msg = fmt.Sprintf("Please provide exactly %d %s.", r.min, unit)
	case lengthMin:
		msg = fmt.Sprintf("Please provide at least %d %s.", r.min, unit)
	case lengthMax:
		msg = fmt.Sprintf("Please provide at most %d %s.", r.max, unit)
	case lengthBetween:
		msg = fmt.Sprintf("Please provide between %d and %d %s.", r.min, r.max, unit)
	case lengthEmpty:
		msg = fmt.Sprintf("Please provide an empty %s.", noun)
	case lengthNotEmpty:
		msg = fmt.Sprintf("Please provide a non-empty %s.", noun)
	}
	sink.Error(at, msg, event.Details(map[string]any{"length": n}))
	return false
}

func (r LengthRule) applyString(f *StringFormat) {
	f.steps = append(f.steps, func(s string, at path.Path, sink *event.Sink) (string, bool) {
		return s, r.check(runeCount(s), at, sink, "characters", "string")
	})
}

func (r LengthRule) applyList(f *ListFormat) {
	f.rules = append(f.rules, r)
}
