// Copyright (c) 2024 Z5Labs and Contributors
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

// Package event provides path addressed validation events and the sink
// formats record them into.
package event

import (
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/z5labs/format/path"
)

// Kind classifies an Event.
type Kind uint8

const (
	KindError Kind = iota
	KindWarning
	KindInfo
	KindSuccess
)

// String implements the [fmt.Stringer] interface.
func (k Kind) String() string {
	switch k {
	case KindError:
		return "error"
	case KindWarning:
		return "warning"
	case KindInfo:
		return "info"
	case KindSuccess:
		return "success"
	default:
		return fmt.Sprintf("kind(%d)", uint8(k))
	}
}

// MarshalText implements the [encoding.TextMarshaler] interface.
func (k Kind) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}

// Event records an observation about the value at Path.
// At least one of Message or Code is set.
type Event struct {
	Kind    Kind
	Path    path.Path
	Message string
	Code    string
	Details map[string]any
}

// Error implements the error interface so an Error-kind event can be
// surfaced through ordinary error handling.
func (e Event) Error() string {
	msg := e.Message
	if msg == "" {
		msg = e.Code
	}
	if e.Path.IsRoot() {
		return msg
	}
	return fmt.Sprintf("%s: %s", e.Path, msg)
}

type jsonEvent struct {
	Kind    Kind           `json:"kind"`
	Path    string         `json:"path"`
	Message *string        `json:"message"`
	Code    *string        `json:"code"`
	Details map[string]any `json:"details"`
}

func optional(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

// MarshalJSON implements the [json.Marshaler] interface. Unset message,
// code and details are written as null.
func (e Event) MarshalJSON() ([]byte, error) {
	return json.Marshal(jsonEvent{
		Kind:    e.Kind,
		Path:    e.Path.Key(),
		Message: optional(e.Message),
		Code:    optional(e.Code),
		Details: e.Details,
	})
}

// MarshalYAML implements the yaml.Marshaler interface.
func (e Event) MarshalYAML() (any, error) {
	return jsonEvent{
		Kind:    e.Kind,
		Path:    e.Path.Key(),
		Message: optional(e.Message),
		Code:    optional(e.Code),
		Details: e.Details,
	}, nil
}

// LogValue implements the [slog.LogValuer] interface.
func (e Event) LogValue() slog.Value {
	attrs := []slog.Attr{
		slog.String("kind", e.Kind.String()),
		slog.String("path", e.Path.Key()),
	}
	if e.Message != "" {
		attrs = append(attrs, slog.String("message", e.Message))
	}
	if e.Code != "" {
		attrs = append(attrs, slog.String("code", e.Code))
	}
	if len(e.Details) > 0 {
		attrs = append(attrs, slog.Any("details", e.Details))
	}
	return slog.GroupValue(attrs...)
}

// Option configures optional Event fields.
type Option func(*Event)

// Code sets the machine readable code of an Event.
func Code(code string) Option {
	return func(e *Event) {
		e.Code = code
	}
}

// Details attaches structured details to an Event.
func Details(details map[string]any) Option {
	return func(e *Event) {
		e.Details = details
	}
}
