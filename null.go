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

// NullFormat accepts exactly the null value.
type NullFormat struct{}

// Null returns a Format which succeeds only for null. Combine it with [Or]
// to make a value optional:
//
//	format.Or(format.Null(), format.Number())
func Null() *NullFormat {
	return &NullFormat{}
}

// Apply implements the [Format] interface.
func (*NullFormat) Apply(in value.Value, at path.Path, sink *event.Sink) (value.Value, bool) {
	if !in.IsNull() {
		return fail(sink, at, "Please provide null.")
	}
	return value.Null(), true
}
