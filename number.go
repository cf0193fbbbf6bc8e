// Copyright (c) 2024 Z5Labs and Contributors
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package format

import (
	"fmt"
	"math"
	"strconv"

	"github.com/z5labs/format/event"
	"github.com/z5labs/format/internal/numstr"
	"github.com/z5labs/format/path"
	"github.com/z5labs/format/value"
)

// MaxSafeInteger is the largest float64 below which every integer is
// exactly representable.
const MaxSafeInteger = 1 << 53

type numberTest func(n value.Value, at path.Path, sink *event.Sink) bool

// NumberOption configures a NumberFormat.
type NumberOption func(*NumberFormat)

// Min requires the number to be at least x.
func Min(x float64) NumberOption {
	return boundTest(
		func(f float64) bool { return f >= x },
		fmt.Sprintf("Please provide a number greater than or equal to %s.", formatBound(x)),
		x,
	)
}

// Max requires the number to be at most x.
func Max(x float64) NumberOption {
	return boundTest(
		func(f float64) bool { return f <= x },
		fmt.Sprintf("Please provide a number less than or equal to %s.", formatBound(x)),
		x,
	)
}

// Positive requires the number to be greater than zero.
func Positive() NumberOption {
	return boundTest(
		func(f float64) bool { return f > 0 },
		"Please provide a positive number.",
		0,
	)
}

// Integer requires the number to be a whole number. Floats must also be
// within ±2^53.
func Integer() NumberOption {
	return func(f *NumberFormat) {
		f.tests = append(f.tests, func(n value.Value, at path.Path, sink *event.Sink) bool {
			if isInteger(n) {
				return true
			}
			sink.Error(at, "Please provide an integer.")
			return false
		})
	}
}

func boundTest(pred func(float64) bool, msg string, bound float64) NumberOption {
	return func(f *NumberFormat) {
		f.tests = append(f.tests, func(n value.Value, at path.Path, sink *event.Sink) bool {
			x, ok := toFloat(n)
			if ok && pred(x) {
				return true
			}
			sink.Error(at, msg, event.Details(map[string]any{"bound": bound}))
			return false
		})
	}
}

func formatBound(x float64) string {
	return strconv.FormatFloat(x, 'g', -1, 64)
}

// NumberFormat accepts native numbers and numeric strings.
type NumberFormat struct {
	tests []numberTest
}

// Number returns a Format accepting integers, finite floats and numeric
// strings. Native numbers are returned unchanged. Numeric strings stay
// strings, rewritten into canonical form: "+00012.34000e005" becomes
// "12.34e+5". Strings longer than [numstr.MaxLength] bytes are rejected.
func Number(opts ...NumberOption) *NumberFormat {
	f := &NumberFormat{}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// Apply implements the [Format] interface.
func (f *NumberFormat) Apply(in value.Value, at path.Path, sink *event.Sink) (value.Value, bool) {
	out, ok := canonicalNumber(in, at, sink)
	if !ok {
		return value.Null(), false
	}
	for _, test := range f.tests {
		if !test(out, at, sink) {
			return value.Null(), false
		}
	}
	return out, true
}

func canonicalNumber(in value.Value, at path.Path, sink *event.Sink) (value.Value, bool) {
	switch in.Kind() {
	case value.NumberKind:
		if x, _ := in.AsFloat(); in.IsFloat() && (math.IsNaN(x) || math.IsInf(x, 0)) {
			return fail(sink, at, "Please provide a finite number.")
		}
		return in, true
	case value.StringKind:
		s, _ := in.AsString()
		if len(s) > numstr.MaxLength {
			return fail(
				sink,
				at,
				fmt.Sprintf("Please provide a number with at most %d characters.", numstr.MaxLength),
				event.Details(map[string]any{"length": len(s)}),
			)
		}
		n, ok := numstr.Normalize(s)
		if !ok {
			return fail(sink, at, "Please provide a number.")
		}
		return value.String(n), true
	default:
		return fail(sink, at, "Please provide a number.")
	}
}

// toFloat reads a canonical number as a float64. Strings whose magnitude
// overflows float64 still compare as ±Inf.
func toFloat(n value.Value) (float64, bool) {
	if x, ok := n.AsFloat(); ok {
		return x, true
	}
	s, ok := n.AsString()
	if !ok {
		return 0, false
	}
	x, err := strconv.ParseFloat(s, 64)
	if err != nil && !math.IsInf(x, 0) {
		return 0, false
	}
	return x, true
}

func isInteger(n value.Value) bool {
	if n.IsInt() {
		return true
	}
	if x, ok := n.AsFloat(); ok {
		return x == math.Trunc(x) && math.Abs(x) <= MaxSafeInteger
	}
	s, ok := n.AsString()
	return ok && numstr.IsInteger(s)
}
