// Copyright (c) 2024 Z5Labs and Contributors
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package format

import (
	"github.com/z5labs/format/event"
	"github.com/z5labs/format/path"
	"github.com/z5labs/format/value"
)

// BoolFormat accepts booleans and their common textual and numeric forms.
type BoolFormat struct{}

// Bool returns a Format producing native booleans from:
//   - native booleans
//   - the numbers 0 and 1, integer or float
//   - the strings "", "0" and "false" for false, "1" and "true" for true
//
// String matching is case sensitive.
func Bool() *BoolFormat {
	return &BoolFormat{}
}

// Apply implements the [Format] interface.
func (*BoolFormat) Apply(in value.Value, at path.Path, sink *event.Sink) (value.Value, bool) {
	b, ok := toBool(in)
	if !ok {
		return fail(sink, at, "Please provide a valid boolean.")
	}
	return value.Bool(b), true
}

func toBool(in value.Value) (bool, bool) {
	switch in.Kind() {
	case value.BoolKind:
		return in.AsBool()
	case value.NumberKind:
		f, _ := in.AsFloat()
		switch f {
		case 0:
			return false, true
		case 1:
			return true, true
		}
	case value.StringKind:
		s, _ := in.AsString()
		switch s {
		case "", "0", "false":
			return false, true
		case "1", "true":
			return true, true
		}
	}
	return false, false
}

func (*BoolFormat) absentValue() value.Value {
	return value.Bool(false)
}
