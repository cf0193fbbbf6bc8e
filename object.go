// Copyright (c) 2024 Z5Labs and Contributors
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package format

import (
	"fmt"
	"reflect"

	"github.com/z5labs/format/event"
	"github.com/z5labs/format/path"
	"github.com/z5labs/format/value"
)

type objectTest struct {
	name  string
	check func(any) bool
}

// ObjectOption configures an ObjectFormat.
type ObjectOption func(*ObjectFormat)

// InstanceOf requires the wrapped Go value to be a T. When T is an
// interface type the wrapped value must implement it.
func InstanceOf[T any]() ObjectOption {
	return func(f *ObjectFormat) {
		f.tests = append(f.tests, objectTest{
			name: reflect.TypeFor[T]().String(),
			check: func(o any) bool {
				_, ok := o.(T)
				return ok
			},
		})
	}
}

// ObjectFormat accepts opaque object values.
type ObjectFormat struct {
	tests []objectTest
}

// Object returns a Format which succeeds only for values created with
// [value.Object].
func Object(opts ...ObjectOption) *ObjectFormat {
	f := &ObjectFormat{}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// Apply implements the [Format] interface.
func (f *ObjectFormat) Apply(in value.Value, at path.Path, sink *event.Sink) (value.Value, bool) {
	o, ok := in.AsObject()
	if !ok {
		return fail(sink, at, "Please provide an object.")
	}
	for _, t := range f.tests {
		if !t.check(o) {
			return fail(
				sink,
				at,
				fmt.Sprintf("Please provide an instance of %s.", t.name),
				event.Details(map[string]any{"type": t.name}),
			)
		}
	}
	return in, true
}
