// Copyright (c) 2023 Z5Labs and Contributors
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

// Package slogfield provides typed constructors for the slog attributes
// logged across this module, so every package spells a key the same way.
package slogfield

import (
	"log/slog"
	"time"

	"github.com/z5labs/format/event"
	"github.com/z5labs/format/path"
)

// Any returns an slog.Attr for the supplied value.
func Any(key string, value any) slog.Attr {
	return slog.Any(key, value)
}

// Bool returns an slog.Attr for a bool.
func Bool(key string, value bool) slog.Attr {
	return slog.Bool(key, value)
}

// Duration returns an slog.Attr for a time.Duration.
func Duration(key string, d time.Duration) slog.Attr {
	return slog.Duration(key, d)
}

// Error returns an slog.Attr for a error.
func Error(err error) slog.Attr {
	return slog.Any("error", err)
}

// String returns an slog.Attr for a string.
func String(key, value string) slog.Attr {
	return slog.String(key, value)
}

// Strings returns an slog.Attr for a slice of strings.
func Strings(key string, values []string) slog.Attr {
	return slog.Any(key, values)
}

// Int returns an slog.Attr for an int.
func Int(key string, n int) slog.Attr {
	return slog.Int(key, n)
}

// Uint32 returns an slog.Attr for a uint32.
func Uint32(key string, n uint32) slog.Attr {
	return slog.Uint64(key, uint64(n))
}

// Document names the input document being validated.
func Document(name string) slog.Attr {
	return slog.String("document", name)
}

// Path returns an slog.Attr for a location inside a value tree, rendered
// the way events render it.
func Path(key string, p path.Path) slog.Attr {
	return slog.String(key, p.Key())
}

// Kind returns an slog.Attr for the kind of an event.
func Kind(k event.Kind) slog.Attr {
	return slog.String("kind", k.String())
}

// Mask returns an slog.Attr for an event collection mask.
func Mask(m event.Mask) slog.Attr {
	return slog.String("mask", m.String())
}

// Event returns an slog.Attr grouping the fields of e.
func Event(e event.Event) slog.Attr {
	return slog.Any("event", e)
}
