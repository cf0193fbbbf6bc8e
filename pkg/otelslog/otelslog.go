// Copyright (c) 2023 Z5Labs and Contributors
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

// Package otelslog provides a OpenTelemetry aware slog.Handler implementation.
package otelslog

import (
	"context"
	"log/slog"

	"github.com/z5labs/format/pkg/slogfield"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

// Option configures a Handler.
type Option func(*Handler)

// SpanEvents copies every record at or above lvl onto the active span as
// a span event, so validation failures show up next to the trace which
// produced them.
func SpanEvents(lvl slog.Level) Option {
	return func(h *Handler) {
		h.spanEvents = true
		h.eventLevel = lvl
	}
}

// Handler is an slog.Handler which correlates logs with traces by adding
// the Trace ID and Span ID of the active span to every record.
type Handler struct {
	slog       slog.Handler
	spanEvents bool
	eventLevel slog.Level
}

// NewHandler wraps h.
func NewHandler(h slog.Handler, opts ...Option) *Handler {
	oh := &Handler{slog: h}
	for _, opt := range opts {
		opt(oh)
	}
	return oh
}

// New provides a simple wrapper for slog.New(NewHandler(h, opts...)).
func New(h slog.Handler, opts ...Option) *slog.Logger {
	return slog.New(NewHandler(h, opts...))
}

// Enabled implements the slog.Handler interface.
func (h *Handler) Enabled(ctx context.Context, lvl slog.Level) bool {
	return h.slog.Enabled(ctx, lvl)
}

// Handle implements the slog.Handler interface.
func (h *Handler) Handle(ctx context.Context, record slog.Record) error {
	span := trace.SpanFromContext(ctx)
	spanCtx := span.SpanContext()
	if !spanCtx.IsValid() {
		return h.slog.Handle(ctx, record)
	}

	if h.spanEvents && record.Level >= h.eventLevel && span.IsRecording() {
		span.AddEvent(record.Message, trace.WithAttributes(spanAttributes(record)...))
	}

	r := record.Clone()
	r.AddAttrs(
		slog.Group(
			"otel",
			slogfield.String("trace_id", spanCtx.TraceID().String()),
			slogfield.String("span_id", spanCtx.SpanID().String()),
		),
	)
	return h.slog.Handle(ctx, r)
}

func spanAttributes(record slog.Record) []attribute.KeyValue {
	kvs := []attribute.KeyValue{
		attribute.String("log.severity", record.Level.String()),
	}
	record.Attrs(func(a slog.Attr) bool {
		kvs = appendAttr(kvs, "", a)
		return true
	})
	return kvs
}

func appendAttr(kvs []attribute.KeyValue, prefix string, a slog.Attr) []attribute.KeyValue {
	key := a.Key
	if prefix != "" {
		key = prefix + "." + key
	}
	v := a.Value.Resolve()
	switch v.Kind() {
	case slog.KindGroup:
		for _, ga := range v.Group() {
			kvs = appendAttr(kvs, key, ga)
		}
		return kvs
	case slog.KindBool:
		return append(kvs, attribute.Bool(key, v.Bool()))
	case slog.KindInt64:
		return append(kvs, attribute.Int64(key, v.Int64()))
	case slog.KindFloat64:
		return append(kvs, attribute.Float64(key, v.Float64()))
	default:
		return append(kvs, attribute.String(key, v.String()))
	}
}

// WithAttrs implements the slog.Handler interface.
func (h *Handler) WithAttrs(attrs []slog.Attr) slog.Handler {
	return &Handler{
		slog:       h.slog.WithAttrs(attrs),
		spanEvents: h.spanEvents,
		eventLevel: h.eventLevel,
	}
}

// WithGroup implements the slog.Handler interface.
func (h *Handler) WithGroup(name string) slog.Handler {
	return &Handler{
		slog:       h.slog.WithGroup(name),
		spanEvents: h.spanEvents,
		eventLevel: h.eventLevel,
	}
}
