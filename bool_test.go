// Copyright (c) 2024 Z5Labs and Contributors
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package format

import (
	"testing"

	"github.com/z5labs/format/value"

	"github.com/stretchr/testify/require"
)

func TestBoolFormat_Apply(t *testing.T) {
	t.Run("will return the canonical boolean", func(t *testing.T) {
		testCases := []struct {
			Name  string
			Input value.Value
			Want  bool
		}{
			{Name: "native true", Input: value.Bool(true), Want: true},
			{Name: "native false", Input: value.Bool(false), Want: false},
			{Name: "int 0", Input: value.Int(0), Want: false},
			{Name: "int 1", Input: value.Int(1), Want: true},
			{Name: "float 0", Input: value.Float(0), Want: false},
			{Name: "float 1", Input: value.Float(1), Want: true},
			{Name: "empty string", Input: value.String(""), Want: false},
			{Name: "string 0", Input: value.String("0"), Want: false},
			{Name: "string false", Input: value.String("false"), Want: false},
			{Name: "string 1", Input: value.String("1"), Want: true},
			{Name: "string true", Input: value.String("true"), Want: true},
		}

		for _, testCase := range testCases {
			t.Run("if the input is "+testCase.Name, func(t *testing.T) {
				out, ok, sink := apply(Bool(), testCase.Input)
				require.True(t, ok)
				require.Equal(t, 0, sink.Len())
				requireValue(t, value.Bool(testCase.Want), out)
			})
		}
	})

	t.Run("will record exactly one error", func(t *testing.T) {
		testCases := []struct {
			Name  string
			Input value.Value
		}{
			{Name: "null", Input: value.Null()},
			{Name: "int 2", Input: value.Int(2)},
			{Name: "float 0.5", Input: value.Float(0.5)},
			{Name: "capitalised True", Input: value.String("True")},
			{Name: "string yes", Input: value.String("yes")},
			{Name: "string with spaces", Input: value.String(" 1")},
			{Name: "list", Input: value.List(value.Bool(true))},
			{Name: "dict", Input: value.Dict()},
			{Name: "object", Input: value.Object(true)},
		}

		for _, testCase := range testCases {
			t.Run("if the input is "+testCase.Name, func(t *testing.T) {
				out, ok, sink := apply(Bool(), testCase.Input)
				require.False(t, ok)
				requireValue(t, value.Null(), out)
				requireSingleError(t, sink, "", "Please provide a valid boolean.")
			})
		}
	})
}
