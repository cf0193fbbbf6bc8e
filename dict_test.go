// Copyright (c) 2024 Z5Labs and Contributors
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package format

import (
	"testing"

	"github.com/z5labs/format/event"
	"github.com/z5labs/format/value"

	"github.com/stretchr/testify/require"
)

func TestDictFormat_Apply(t *testing.T) {
	t.Run("will promote an absent required field", func(t *testing.T) {
		testCases := []struct {
			Name   string
			Format Format
			Want   value.Value
		}{
			{Name: "bool", Format: Bool(), Want: value.Bool(false)},
			{Name: "dict", Format: Dict(), Want: value.Dict()},
			{Name: "list", Format: List(nil), Want: value.List()},
		}

		for _, testCase := range testCases {
			t.Run("if the field format is a "+testCase.Name, func(t *testing.T) {
				out, ok, sink := apply(Dict(Required("a", testCase.Format)), value.Dict())
				require.True(t, ok)
				require.Equal(t, 0, sink.Len())
				requireValue(t, value.Dict(value.E("a", testCase.Want)), out)
			})
		}

		t.Run("and validate the promoted value", func(t *testing.T) {
			f := Dict(Required("tags", List(nil, NotEmpty())))
			_, ok, sink := apply(f, value.Dict())
			require.False(t, ok)
			requireSingleError(t, sink, "tags", "Please provide a non-empty list.")
		})
	})

	t.Run("will report an absent required field at the parent path", func(t *testing.T) {
		f := Dict(Required("outer", Dict(Required("a", Number()))))
		in := value.Dict(value.E("outer", value.Dict()))

		out, ok, sink := apply(f, in)
		require.False(t, ok)
		requireValue(t, value.Null(), out)
		requireSingleError(t, sink, "outer", `Field "a" is required.`)
		require.Equal(t, "a", sink.Errors()[0].Details["field"])
	})

	t.Run("will report an absent required field without a format", func(t *testing.T) {
		_, ok, sink := apply(Dict(Required("a", nil)), value.Dict())
		require.False(t, ok)
		requireSingleError(t, sink, "", `Field "a" is required.`)
	})

	t.Run("will omit an absent optional field", func(t *testing.T) {
		out, ok, _ := apply(Dict(Optional("a", Number())), value.Dict())
		require.True(t, ok)
		requireValue(t, value.Dict(), out)
	})

	t.Run("will output the default verbatim", func(t *testing.T) {
		def := value.String("not a number")
		out, ok, _ := apply(Dict(Default("a", def, Number())), value.Dict())
		require.True(t, ok)
		requireValue(t, value.Dict(value.E("a", def)), out)
	})

	t.Run("will apply the field format to a present field", func(t *testing.T) {
		f := Dict(
			Required("n", Number()),
			Default("d", value.Int(0), Number()),
			Optional("s", String(Trim())),
			Required("raw", nil),
		)
		in := value.Dict(
			value.E("s", value.String(" x ")),
			value.E("raw", value.List(value.Null())),
			value.E("d", value.String("1.50")),
			value.E("n", value.Int(3)),
		)

		out, ok, _ := apply(f, in)
		require.True(t, ok)
		requireValue(t, value.Dict(
			value.E("n", value.Int(3)),
			value.E("d", value.String("1.5")),
			value.E("s", value.String("x")),
			value.E("raw", value.List(value.Null())),
		), out)

		m, _ := out.AsDict()
		require.Equal(t, []string{"n", "d", "s", "raw"}, m.Keys())
	})

	t.Run("will report every invalid field", func(t *testing.T) {
		f := Dict(
			Required("a", Number()),
			Required("b", Bool()),
			Required("c", String()),
		)
		in := value.Dict(
			value.E("a", value.String("x")),
			value.E("b", value.String("maybe")),
		)

		_, ok, sink := apply(f, in)
		require.False(t, ok)
		require.Equal(t, 3, sink.ErrorCount())

		errs := sink.Errors()
		require.Equal(t, "a", errs[0].Path.String())
		require.Equal(t, "b", errs[1].Path.String())
		require.Equal(t, "", errs[2].Path.String())
		require.Equal(t, `Field "c" is required.`, errs[2].Message)
	})

	t.Run("will accept an empty list as an empty dict", func(t *testing.T) {
		out, ok, _ := apply(Dict(Optional("a", nil)), value.List())
		require.True(t, ok)
		requireValue(t, value.Dict(), out)
	})

	t.Run("will reject", func(t *testing.T) {
		inputs := map[string]value.Value{
			"null":      value.Null(),
			"a string":  value.String("{}"),
			"a list":    value.List(value.Int(1)),
			"an object": value.Object(map[string]any{}),
			"a number":  value.Int(0),
			"a boolean": value.Bool(true),
		}
		for name, in := range inputs {
			t.Run("if the input is "+name, func(t *testing.T) {
				_, ok, sink := apply(Dict(), in)
				require.False(t, ok)
				requireSingleError(t, sink, "", "Please provide a dictionary.")
			})
		}
	})
}

func TestDictFormat_Unknown(t *testing.T) {
	in := value.Dict(
		value.E("x", value.String("1")),
		value.E("a", value.Int(1)),
		value.E("y", value.String("two")),
	)

	t.Run("will pass unknown keys through by default", func(t *testing.T) {
		out, ok, sink := apply(Dict(Required("a", nil)), in)
		require.True(t, ok)
		require.Equal(t, 0, sink.Len())

		m, _ := out.AsDict()
		require.Equal(t, []string{"a", "x", "y"}, m.Keys())
	})

	t.Run("will warn about unknown keys", func(t *testing.T) {
		out, ok, sink := apply(Dict(Required("a", nil), Unknown(UnknownWarn)), in)
		require.True(t, ok)
		requireValue(t, in, out)

		warnings := sink.Warnings()
		require.Len(t, warnings, 2)
		require.Equal(t, "x", warnings[0].Path.String())
		require.Equal(t, `Unknown field "x" was ignored.`, warnings[0].Message)
		require.Equal(t, "dict.unknown", warnings[0].Code)
		require.Equal(t, "y", warnings[1].Path.String())
	})

	t.Run("will strip unknown keys", func(t *testing.T) {
		out, ok, sink := apply(Dict(Required("a", nil), Unknown(UnknownStrip)), in)
		require.True(t, ok)
		require.Equal(t, 0, sink.Len())
		requireValue(t, value.Dict(value.E("a", value.Int(1))), out)
	})

	t.Run("will reject unknown keys", func(t *testing.T) {
		_, ok, sink := apply(Dict(Required("a", nil), Unknown(UnknownReject)), in)
		require.False(t, ok)
		require.Equal(t, 2, sink.ErrorCount())
		require.Equal(t, `Unknown field "x".`, sink.Errors()[0].Message)
		require.Equal(t, "y", sink.Errors()[1].Path.String())
	})

	t.Run("will validate unknown keys with the rest format", func(t *testing.T) {
		f := Dict(Required("a", nil), Rest(Number()), Unknown(UnknownReject))

		_, ok, sink := apply(f, in)
		require.False(t, ok)
		requireSingleError(t, sink, "y", "Please provide a number.")

		out, ok, _ := apply(f, value.Dict(value.E("a", value.Int(1)), value.E("z", value.String("07"))))
		require.True(t, ok)
		requireValue(t, value.Dict(value.E("a", value.Int(1)), value.E("z", value.String("7"))), out)
	})
}

func TestDict_ConfigFaults(t *testing.T) {
	t.Run("will panic if a field is declared twice", func(t *testing.T) {
		requireConfigError(t, "dict", func() {
			Dict(Required("a", nil), Optional("a", Number()))
		})
	})

	t.Run("will panic if the rest format is nil", func(t *testing.T) {
		requireConfigError(t, "dict", func() {
			Rest(nil)
		})
	})
}

func TestUnknownPolicy_UnmarshalText(t *testing.T) {
	testCases := []struct {
		Text string
		Want UnknownPolicy
	}{
		{Text: "passthrough", Want: UnknownPassthrough},
		{Text: "warn", Want: UnknownWarn},
		{Text: " Strip ", Want: UnknownStrip},
		{Text: "REJECT", Want: UnknownReject},
	}

	for _, testCase := range testCases {
		t.Run("will parse "+testCase.Text, func(t *testing.T) {
			var p UnknownPolicy
			require.NoError(t, p.UnmarshalText([]byte(testCase.Text)))
			require.Equal(t, testCase.Want, p)
		})
	}

	t.Run("will return an UnknownPolicyError", func(t *testing.T) {
		t.Run("if the name is not recognised", func(t *testing.T) {
			var p UnknownPolicy
			err := p.UnmarshalText([]byte("ignore"))

			var perr UnknownPolicyError
			require.ErrorAs(t, err, &perr)
			require.Equal(t, "ignore", perr.Name)
		})
	})
}

func TestDictFormat_MaskedWarnings(t *testing.T) {
	f := Dict(Unknown(UnknownWarn))
	res := Run(f, value.Dict(value.E("x", value.Int(1))), event.CollectErrors)
	require.True(t, res.OK)
	require.Equal(t, 0, res.Events.Len())
}
