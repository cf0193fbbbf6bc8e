// Copyright (c) 2024 Z5Labs and Contributors
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package format

import (
	"testing"

	"github.com/z5labs/format/event"
	"github.com/z5labs/format/path"
	"github.com/z5labs/format/value"

	"github.com/stretchr/testify/require"
)

func constant(v value.Value) Format {
	return FormatFunc(func(value.Value, path.Path, *event.Sink) (value.Value, bool) {
		return v, true
	})
}

func TestAndFormat_Apply(t *testing.T) {
	t.Run("will merge the outputs of every format", func(t *testing.T) {
		f := And(
			Dict(Required("a", Number()), Unknown(UnknownStrip)),
			Dict(Required("b", String()), Unknown(UnknownStrip)),
		)
		in := value.Dict(value.E("b", value.Int(2)), value.E("a", value.String("01")))

		out, ok, sink := apply(f, in)
		require.True(t, ok)
		require.Equal(t, 0, sink.Len())
		requireValue(t, value.Dict(value.E("a", value.String("1")), value.E("b", value.String("2"))), out)

		m, _ := out.AsDict()
		require.Equal(t, []string{"a", "b"}, m.Keys())
	})

	t.Run("will run every format", func(t *testing.T) {
		t.Run("even if an earlier one fails", func(t *testing.T) {
			f := Intersect(
				Dict(Required("a", Number()), Unknown(UnknownStrip)),
				Dict(Required("b", Number()), Unknown(UnknownStrip)),
			)

			out, ok, sink := apply(f, value.Dict())
			require.False(t, ok)
			requireValue(t, value.Null(), out)
			require.Equal(t, 2, sink.ErrorCount())
			require.Equal(t, `Field "a" is required.`, sink.Errors()[0].Message)
			require.Equal(t, `Field "b" is required.`, sink.Errors()[1].Message)
		})
	})

	t.Run("will let later formats win", func(t *testing.T) {
		t.Run("and warn if the values differ", func(t *testing.T) {
			f := And(
				constant(value.Dict(value.E("a", value.Int(1)), value.E("b", value.Int(1)))),
				constant(value.Dict(value.E("a", value.Int(2)))),
			)

			out, ok, sink := apply(f, value.Null())
			require.True(t, ok)
			requireValue(t, value.Dict(value.E("a", value.Int(2)), value.E("b", value.Int(1))), out)

			warnings := sink.Warnings()
			require.Len(t, warnings, 1)
			require.Equal(t, "a", warnings[0].Path.String())
			require.Equal(t, "intersect.conflict", warnings[0].Code)
			require.Equal(t, `Conflicting values for field "a".`, warnings[0].Message)
		})

		t.Run("and stay silent if the values are equal", func(t *testing.T) {
			f := And(
				constant(value.Dict(value.E("a", value.Int(1)))),
				constant(value.Dict(value.E("a", value.Int(1)))),
			)

			_, ok, sink := apply(f, value.Null())
			require.True(t, ok)
			require.Equal(t, 0, sink.Len())
		})
	})

	t.Run("will panic", func(t *testing.T) {
		t.Run("if a format does not output a dict", func(t *testing.T) {
			requireConfigError(t, "and", func() {
				apply(And(Dict(), constant(value.Int(1))), value.Dict())
			})
		})

		t.Run("if a format passes a non-dict input through", func(t *testing.T) {
			requireConfigError(t, "and", func() {
				apply(And(Any()), value.List())
			})
		})

		t.Run("if no formats are given", func(t *testing.T) {
			requireConfigError(t, "and", func() {
				And()
			})
		})
	})
}
