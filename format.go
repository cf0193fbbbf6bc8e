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

// Format validates the value found at a path and returns its canonical
// form.
//
// Apply must report false if, and only if, it recorded at least one Error
// event into sink. When it reports false the returned value is null and
// must not be used. A Format is never modified by Apply, so a configured
// Format may be shared between goroutines.
type Format interface {
	Apply(in value.Value, at path.Path, sink *event.Sink) (value.Value, bool)
}

// FormatFunc adapts a plain func into a Format.
//
// FormatFunc enforces the Format contract on behalf of the wrapped func:
// reporting false without recording an Error records a generic Error, and
// recording an Error while reporting true is treated as a failure.
type FormatFunc func(value.Value, path.Path, *event.Sink) (value.Value, bool)

// Apply implements the [Format] interface.
func (f FormatFunc) Apply(in value.Value, at path.Path, sink *event.Sink) (value.Value, bool) {
	before := sink.ErrorCount()
	out, ok := f(in, at, sink)
	return settle(out, ok, before, at, sink)
}

// applyChecked runs f under the same contract FormatFunc enforces, so a
// hand-written Format failing silently still leaves an Error behind.
func applyChecked(f Format, in value.Value, at path.Path, sink *event.Sink) (value.Value, bool) {
	before := sink.ErrorCount()
	out, ok := f.Apply(in, at, sink)
	return settle(out, ok, before, at, sink)
}

func settle(out value.Value, ok bool, before int, at path.Path, sink *event.Sink) (value.Value, bool) {
	failed := sink.ErrorCount() > before
	if !ok && !failed {
		sink.Error(at, "Please provide a valid value.")
		failed = true
	}
	if failed {
		return value.Null(), false
	}
	return out, true
}

// Result is the outcome of running a Format against a value.
type Result struct {
	OK     bool
	Value  value.Value
	Events *event.Sink
}

// Run applies f to in at the root path, collecting the event kinds
// selected by mask.
func Run(f Format, in value.Value, mask event.Mask) Result {
	sink := event.NewSink(mask)
	out, ok := applyChecked(f, in, path.Root(), sink)
	if !ok || sink.HasErrors() {
		return Result{
			Value:  value.Null(),
			Events: sink,
		}
	}
	return Result{
		OK:     true,
		Value:  out,
		Events: sink,
	}
}

// Err returns nil on success and a ValidationError otherwise.
func (r Result) Err() error {
	if r.OK {
		return nil
	}
	return ValidationError{Events: r.Events.Errors(), Count: r.Events.ErrorCount()}
}

// ValidationError summarizes the Error events of a failed Run.
type ValidationError struct {
	Events []event.Event
	Count  int
}

// Error implements the error interface.
func (e ValidationError) Error() string {
	if len(e.Events) == 0 {
		return fmt.Sprintf("validation failed with %d error(s)", e.Count)
	}
	msgs := make([]string, len(e.Events))
	for i, ev := range e.Events {
		msgs[i] = ev.Error()
	}
	return "validation failed: " + strings.Join(msgs, "; ")
}

// ConfigError reports misuse of a Format constructor. It is a programmer
// error and is raised with panic, never recorded as an event.
type ConfigError struct {
	Format string
	Reason string
}

// Error implements the error interface.
func (e ConfigError) Error() string {
	return fmt.Sprintf("format: invalid %s configuration: %s", e.Format, e.Reason)
}

func configFault(format, reason string, args ...any) {
	panic(ConfigError{
		Format: format,
		Reason: fmt.Sprintf(reason, args...),
	})
}

// absentDefaulter is implemented by formats whose required fields are
// promoted to an empty value when a client omits them, the way HTTP
// clients omit unchecked checkboxes and empty collections.
type absentDefaulter interface {
	absentValue() value.Value
}

// Any accepts every value unchanged.
func Any() Format {
	return FormatFunc(func(in value.Value, _ path.Path, _ *event.Sink) (value.Value, bool) {
		return in, true
	})
}

// Check returns a Format which accepts values satisfying pred unchanged
// and records msg otherwise.
func Check(pred func(value.Value) bool, msg string, opts ...event.Option) Format {
	return FormatFunc(func(in value.Value, at path.Path, sink *event.Sink) (value.Value, bool) {
		if pred(in) {
			return in, true
		}
		sink.Error(at, msg, opts...)
		return value.Null(), false
	})
}

func fail(sink *event.Sink, at path.Path, msg string, opts ...event.Option) (value.Value, bool) {
	sink.Error(at, msg, opts...)
	return value.Null(), false
}
