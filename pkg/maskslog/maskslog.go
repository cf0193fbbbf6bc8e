// Copyright (c) 2024 Z5Labs and Contributors
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

// Package maskslog provides a slog.Handler which rewrites sensitive
// attributes before they reach the wrapped handler. Validated documents
// may carry personal data, so the CLI logs input values through it.
package maskslog

import (
	"context"
	"log/slog"
	"unicode/utf8"
)

type options struct {
	attrs   map[string]func(slog.Attr) slog.Attr
	message func(string) string
}

// Option helps configure the Handler.
type Option interface {
	applyOption(*options)
}

type optionFunc func(*options)

func (f optionFunc) applyOption(opts *options) {
	f(opts)
}

// Message registers a function for masking slog.Record messages.
func Message(f func(string) string) Option {
	return optionFunc(func(o *options) {
		o.message = f
	})
}

// Attr registers a function for masking a slog.Attr given its key. Keys
// are matched at any group depth.
func Attr(key string, f func(slog.Attr) slog.Attr) Option {
	return optionFunc(func(o *options) {
		o.attrs[key] = f
	})
}

// AnonymousStringAttr replaces any slog.Attr value with "****".
func AnonymousStringAttr(a slog.Attr) slog.Attr {
	return slog.String(a.Key, "****")
}

// Truncate returns a masking func keeping at most n runes of the
// attribute's text form, followed by "...".
func Truncate(n int) func(slog.Attr) slog.Attr {
	return func(a slog.Attr) slog.Attr {
		s := a.Value.Resolve().String()
		if utf8.RuneCountInString(s) <= n {
			return slog.String(a.Key, s)
		}
		rs := []rune(s)
		return slog.String(a.Key, string(rs[:n])+"...")
	}
}

// Handler is an slog.Handler.
type Handler struct {
	slog    slog.Handler
	attrs   map[string]func(slog.Attr) slog.Attr
	message func(string) string
}

// NewHandler returns a new Handler.
func NewHandler(h slog.Handler, opts ...Option) *Handler {
	o := &options{
		attrs: make(map[string]func(slog.Attr) slog.Attr),
	}
	for _, opt := range opts {
		opt.applyOption(o)
	}
	return &Handler{
		slog:    h,
		attrs:   o.attrs,
		message: o.message,
	}
}

// Enabled implements the slog.Handler interface.
func (h *Handler) Enabled(ctx context.Context, lvl slog.Level) bool {
	return h.slog.Enabled(ctx, lvl)
}

// Handle implements the slog.Handler interface.
func (h *Handler) Handle(ctx context.Context, record slog.Record) error {
	if h.message == nil && len(h.attrs) == 0 {
		return h.slog.Handle(ctx, record)
	}

	msg := record.Message
	if h.message != nil {
		msg = h.message(msg)
	}
	nr := slog.NewRecord(record.Time, record.Level, msg, record.PC)
	record.Attrs(func(a slog.Attr) bool {
		nr.AddAttrs(h.mask(a))
		return true
	})
	return h.slog.Handle(ctx, nr)
}

func (h *Handler) mask(a slog.Attr) slog.Attr {
	if f, ok := h.attrs[a.Key]; ok {
		return f(a)
	}
	if a.Value.Kind() != slog.KindGroup {
		return a
	}
	group := a.Value.Group()
	masked := make([]any, len(group))
	for i, ga := range group {
		masked[i] = h.mask(ga)
	}
	return slog.Group(a.Key, masked...)
}

// WithAttrs implements the slog.Handler interface.
func (h *Handler) WithAttrs(attrs []slog.Attr) slog.Handler {
	masked := make([]slog.Attr, len(attrs))
	for i, a := range attrs {
		masked[i] = h.mask(a)
	}
	return &Handler{
		slog:    h.slog.WithAttrs(masked),
		attrs:   h.attrs,
		message: h.message,
	}
}

// WithGroup implements the slog.Handler interface.
func (h *Handler) WithGroup(name string) slog.Handler {
	return &Handler{
		slog:    h.slog.WithGroup(name),
		attrs:   h.attrs,
		message: h.message,
	}
}
