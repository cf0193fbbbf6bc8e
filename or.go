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

// OrFormat accepts input accepted by any of its alternatives.
type OrFormat struct {
	alts    []Format
	errMsg  string
	errOpts []event.Option
	useErr  bool
}

// Or returns a Format trying each alternative in order against the
// original input. The first alternative to succeed wins and only its
// events are kept. When every alternative fails the events of the last
// one are reported, unless [OrFormat.UseError] replaced them.
//
// Alternatives which accept overlapping inputs are resolved silently in
// registration order.
func Or(alts ...Format) *OrFormat {
	if len(alts) == 0 {
		configFault("or", "at least one format is required")
	}
	for i, alt := range alts {
		if alt == nil {
			configFault("or", "format %d is nil", i)
		}
	}
	return &OrFormat{alts: alts}
}

// Union is an alias of [Or].
func Union(alts ...Format) *OrFormat {
	return Or(alts...)
}

// UseError returns a copy of the receiver which reports a single Error
// with msg, at the current path, when every alternative fails.
func (o *OrFormat) UseError(msg string, opts ...event.Option) *OrFormat {
	return &OrFormat{
		alts:    o.alts,
		errMsg:  msg,
		errOpts: opts,
		useErr:  true,
	}
}

// Apply implements the [Format] interface.
func (o *OrFormat) Apply(in value.Value, at path.Path, sink *event.Sink) (value.Value, bool) {
	var last *event.Sink
	for _, alt := range o.alts {
		attempt := sink.Fork()
		out, ok := applyChecked(alt, in, at, attempt)
		if ok && !attempt.HasErrors() {
			sink.Merge(attempt)
			return out, true
		}
		last = attempt
	}

	if o.useErr {
		return fail(sink, at, o.errMsg, o.errOpts...)
	}
	sink.Merge(last)
	return value.Null(), false
}
