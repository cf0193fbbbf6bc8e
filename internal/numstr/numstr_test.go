// Copyright (c) 2024 Z5Labs and Contributors
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package numstr

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalize(t *testing.T) {
	t.Run("will canonicalize", func(t *testing.T) {
		testCases := []struct {
			in       string
			expected string
		}{
			{in: "+00012.34000e005", expected: "12.34e+5"},
			{in: "-.0123e00", expected: "-0.0123"},
			{in: "10.000000E-4", expected: "10e-4"},
			{in: "  42  ", expected: "42"},
			{in: "0", expected: "0"},
			{in: "000", expected: "0"},
			{in: ".5", expected: "0.5"},
			{in: "1.", expected: "1"},
			{in: "1.0", expected: "1"},
			{in: "-0.0", expected: "-0"},
			{in: "1e0", expected: "1"},
			{in: "1E+07", expected: "1e+7"},
			{in: "100", expected: "100"},
			{in: "0.100", expected: "0.1"},
		}

		for _, tc := range testCases {
			t.Run(tc.in, func(t *testing.T) {
				out, ok := Normalize(tc.in)
				assert.True(t, ok)
				assert.Equal(t, tc.expected, out)
			})
		}
	})

	t.Run("will be idempotent", func(t *testing.T) {
		inputs := []string{
			"+00012.34000e005", "-.0123e00", "10.000000E-4", "0.0", "-5", "7e-0", "123.456E+789",
		}

		for _, in := range inputs {
			t.Run(in, func(t *testing.T) {
				once, ok := Normalize(in)
				assert.True(t, ok)

				twice, ok := Normalize(once)
				assert.True(t, ok)
				assert.Equal(t, once, twice)
			})
		}
	})

	t.Run("will reject", func(t *testing.T) {
		inputs := []string{"", "abc", ".", "+", "1e", "1e+", "1.2.3", "0x10", "1 2", "--1", "e5"}

		for _, in := range inputs {
			t.Run(in, func(t *testing.T) {
				_, ok := Normalize(in)
				assert.False(t, ok)
				assert.False(t, IsNumeric(in))
			})
		}
	})
}

func TestIsInteger(t *testing.T) {
	testCases := []struct {
		in       string
		expected bool
	}{
		{in: "12", expected: true},
		{in: "-12", expected: true},
		{in: "12.5", expected: false},
		{in: "1e+5", expected: false},
		{in: "-", expected: false},
		{in: "", expected: false},
	}

	for _, tc := range testCases {
		t.Run(tc.in, func(t *testing.T) {
			assert.Equal(t, tc.expected, IsInteger(tc.in))
		})
	}
}
