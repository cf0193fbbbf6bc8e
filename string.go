// Copyright (c) 2024 Z5Labs and Contributors
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package format

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/z5labs/format/event"
	"github.com/z5labs/format/path"
	"github.com/z5labs/format/value"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"golang.org/x/text/unicode/norm"
)

type stringStep func(s string, at path.Path, sink *event.Sink) (string, bool)

// StringOption configures a StringFormat. Options run in the order they
// are given.
type StringOption interface {
	applyString(*StringFormat)
}

type stringOptionFunc func(*StringFormat)

func (f stringOptionFunc) applyString(sf *StringFormat) {
	f(sf)
}

func stringFilter(f func(string) string) StringOption {
	return stringOptionFunc(func(sf *StringFormat) {
		sf.steps = append(sf.steps, func(s string, _ path.Path, _ *event.Sink) (string, bool) {
			return f(s), true
		})
	})
}

func stringTest(pred func(string) bool, msg string, opts ...event.Option) StringOption {
	return stringOptionFunc(func(sf *StringFormat) {
		sf.steps = append(sf.steps, func(s string, at path.Path, sink *event.Sink) (string, bool) {
			if pred(s) {
				return s, true
			}
			sink.Error(at, msg, opts...)
			return s, false
		})
	})
}

// Trim removes leading and trailing white space.
func Trim() StringOption {
	return stringFilter(strings.TrimSpace)
}

// Normalize converts the string to the given Unicode normalization form.
func Normalize(form norm.Form) StringOption {
	return stringFilter(form.String)
}

// Lower maps the string to lower case.
func Lower() StringOption {
	return stringFilter(func(s string) string {
		return cases.Lower(language.Und).String(s)
	})
}

// Upper maps the string to upper case.
func Upper() StringOption {
	return stringFilter(func(s string) string {
		return cases.Upper(language.Und).String(s)
	})
}

// Fold applies Unicode case folding, for caseless comparison.
func Fold() StringOption {
	return stringFilter(func(s string) string {
		return cases.Fold().String(s)
	})
}

// Replace replaces every match of pattern with repl, which may refer to
// submatches as described by [regexp.Regexp.Expand].
func Replace(pattern, repl string) StringOption {
	re := compilePattern(pattern)
	return stringFilter(func(s string) string {
		return re.ReplaceAllString(s, repl)
	})
}

// OneOf requires the string to equal one of the given choices.
func OneOf(choices ...string) StringOption {
	if len(choices) == 0 {
		configFault("string", "OneOf requires at least one choice")
	}
	set := make(map[string]struct{}, len(choices))
	for _, c := range choices {
		set[c] = struct{}{}
	}
	allowed := append([]string(nil), choices...)
	return stringTest(
		func(s string) bool {
			_, ok := set[s]
			return ok
		},
		fmt.Sprintf("Please provide one of: %s.", strings.Join(choices, ", ")),
		event.Details(map[string]any{"allowed": allowed}),
	)
}

// Equals requires the string to equal want.
func Equals(want string) StringOption {
	return stringTest(
		func(s string) bool {
			return s == want
		},
		fmt.Sprintf("Please provide %q.", want),
	)
}

// Matches requires the string to contain a match of pattern. Anchor the
// pattern to match the whole string.
func Matches(pattern string) StringOption {
	re := compilePattern(pattern)
	return stringTest(
		re.MatchString,
		"Please provide a value in the expected format.",
		event.Details(map[string]any{"pattern": pattern}),
	)
}

// StringFormat accepts strings and coerces scalars into strings.
type StringFormat struct {
	steps []stringStep
}

// String returns a Format producing strings. Numbers are written in their
// shortest form and booleans as "true" or "false". Null, lists, dicts and
// objects are rejected.
//
// Filters and tests run in registration order. The first failing test
// records the only Error and stops the remaining steps.
func String(opts ...StringOption) *StringFormat {
	f := &StringFormat{}
	for _, opt := range opts {
		opt.applyString(f)
	}
	return f
}

// Apply implements the [Format] interface.
func (f *StringFormat) Apply(in value.Value, at path.Path, sink *event.Sink) (value.Value, bool) {
	var s string
	switch in.Kind() {
	case value.StringKind:
		s, _ = in.AsString()
		if !utf8.ValidString(s) {
			return fail(sink, at, "Please provide a valid UTF-8 string.")
		}
	case value.NumberKind, value.BoolKind:
		s, _ = in.Text()
	default:
		return fail(sink, at, "Please provide a string.")
	}

	for _, step := range f.steps {
		var ok bool
		s, ok = step(s, at, sink)
		if !ok {
			return value.Null(), false
		}
	}
	return value.String(s), true
}

func runeCount(s string) int {
	return utf8.RuneCountInString(s)
}
