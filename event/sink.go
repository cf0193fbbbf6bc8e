// Copyright (c) 2024 Z5Labs and Contributors
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package event

import (
	"strings"

	"github.com/z5labs/format/path"
)

// Mask selects which event kinds a Sink stores.
type Mask uint8

const (
	CollectError Mask = 1 << iota
	CollectWarning
	CollectInfo
)

const (
	// CollectNone stores nothing. Errors are still counted.
	CollectNone Mask = 0

	// CollectErrors stores only Error events.
	CollectErrors = CollectError

	// CollectAll stores every event kind.
	CollectAll = CollectError | CollectWarning | CollectInfo
)

// Has reports whether every flag in other is set in m.
func (m Mask) Has(other Mask) bool {
	return m&other == other
}

// Collects reports whether events of kind k are stored under m.
// Success events are stored alongside Info events.
func (m Mask) Collects(k Kind) bool {
	switch k {
	case KindError:
		return m.Has(CollectError)
	case KindWarning:
		return m.Has(CollectWarning)
	case KindInfo, KindSuccess:
		return m.Has(CollectInfo)
	default:
		return false
	}
}

// String implements the [fmt.Stringer] interface.
func (m Mask) String() string {
	var names []string
	if m.Has(CollectError) {
		names = append(names, "error")
	}
	if m.Has(CollectWarning) {
		names = append(names, "warning")
	}
	if m.Has(CollectInfo) {
		names = append(names, "info")
	}
	if len(names) == 0 {
		return "none"
	}
	return strings.Join(names, "|")
}

// UnknownMaskFlagError occurs when parsing a mask flag name which is not
// one of "error", "warning", "info", "all" or "none".
type UnknownMaskFlagError struct {
	Flag string
}

// Error implements the error interface.
func (e UnknownMaskFlagError) Error() string {
	return "unknown event mask flag: " + e.Flag
}

// UnmarshalText implements the [encoding.TextUnmarshaler] interface. It
// accepts a comma or pipe separated list of flag names.
func (m *Mask) UnmarshalText(b []byte) error {
	var out Mask
	fields := strings.FieldsFunc(string(b), func(r rune) bool {
		return r == ',' || r == '|' || r == ' '
	})
	for _, f := range fields {
		switch strings.ToLower(f) {
		case "error", "errors":
			out |= CollectError
		case "warning", "warnings":
			out |= CollectWarning
		case "info":
			out |= CollectInfo
		case "all":
			out |= CollectAll
		case "none":
		default:
			return UnknownMaskFlagError{Flag: f}
		}
	}
	*m = out
	return nil
}

// Sink is an append only, ordered collection of events.
//
// Error events are always counted, even when the mask does not store
// them, so [Sink.HasErrors] never depends on the mask.
type Sink struct {
	mask   Mask
	events []Event
	errors int
}

// NewSink returns an empty Sink storing the event kinds selected by mask.
func NewSink(mask Mask) *Sink {
	return &Sink{mask: mask}
}

// Mask returns the mask the Sink was created with.
func (s *Sink) Mask() Mask {
	return s.mask
}

// Fork returns an empty Sink sharing the receivers mask.
func (s *Sink) Fork() *Sink {
	return &Sink{mask: s.mask}
}

// Collects reports whether events of kind k would be stored. Formats use
// it to avoid building events which would be discarded.
func (s *Sink) Collects(k Kind) bool {
	return s.mask.Collects(k)
}

// Record appends e, subject to the mask.
func (s *Sink) Record(e Event) {
	if e.Kind == KindError {
		s.errors++
	}
	if !s.mask.Collects(e.Kind) {
		return
	}
	s.events = append(s.events, e)
}

func (s *Sink) record(k Kind, at path.Path, msg string, opts []Option) {
	if k == KindError {
		s.errors++
	}
	if !s.mask.Collects(k) {
		return
	}
	e := Event{
		Kind:    k,
		Path:    at,
		Message: msg,
	}
	for _, opt := range opts {
		opt(&e)
	}
	s.events = append(s.events, e)
}

// Error records an Error event.
func (s *Sink) Error(at path.Path, msg string, opts ...Option) {
	s.record(KindError, at, msg, opts)
}

// Warning records a Warning event.
func (s *Sink) Warning(at path.Path, msg string, opts ...Option) {
	s.record(KindWarning, at, msg, opts)
}

// Info records an Info event.
func (s *Sink) Info(at path.Path, msg string, opts ...Option) {
	s.record(KindInfo, at, msg, opts)
}

// Success records a Success event.
func (s *Sink) Success(at path.Path, msg string, opts ...Option) {
	s.record(KindSuccess, at, msg, opts)
}

// Merge appends every event of other, preserving order, and adds its
// error count to the receivers.
func (s *Sink) Merge(other *Sink) {
	if other == nil {
		return
	}
	s.errors += other.errors
	for _, e := range other.events {
		if s.mask.Collects(e.Kind) {
			s.events = append(s.events, e)
		}
	}
}

// HasErrors reports whether at least one Error event was recorded.
func (s *Sink) HasErrors() bool {
	return s.errors > 0
}

// ErrorCount returns the number of Error events recorded.
func (s *Sink) ErrorCount() int {
	return s.errors
}

// Len returns the number of stored events.
func (s *Sink) Len() int {
	return len(s.events)
}

// Count returns the number of stored events of kind k.
func (s *Sink) Count(k Kind) int {
	n := 0
	for _, e := range s.events {
		if e.Kind == k {
			n++
		}
	}
	return n
}

// Events returns the stored events in recording order. The slice must
// not be modified.
func (s *Sink) Events() []Event {
	return s.events
}

// Errors returns the stored Error events.
func (s *Sink) Errors() []Event {
	return s.filter(KindError)
}

// Warnings returns the stored Warning events.
func (s *Sink) Warnings() []Event {
	return s.filter(KindWarning)
}

func (s *Sink) filter(k Kind) []Event {
	var out []Event
	for _, e := range s.events {
		if e.Kind == k {
			out = append(out, e)
		}
	}
	return out
}

// Reset discards every event and the error count, keeping the mask.
func (s *Sink) Reset() {
	s.events = s.events[:0]
	s.errors = 0
}
