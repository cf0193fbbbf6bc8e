// Copyright (c) 2023 Z5Labs and Contributors
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

// Package noop provides implementations which discard their input.
package noop

import (
	"context"
	"log/slog"
)

// LogHandler is a slog.Handler which drops every record. It is the
// default handler wherever a logger is optional.
type LogHandler struct{}

// Enabled implements the slog.Handler interface. It reports false so
// callers skip building records.
func (LogHandler) Enabled(_ context.Context, _ slog.Level) bool  { return false }
func (LogHandler) Handle(_ context.Context, _ slog.Record) error { return nil }
func (h LogHandler) WithAttrs(_ []slog.Attr) slog.Handler        { return h }
func (h LogHandler) WithGroup(_ string) slog.Handler             { return h }

// Logger returns a slog.Logger backed by LogHandler.
func Logger() *slog.Logger {
	return slog.New(LogHandler{})
}
