// Copyright (c) 2024 Z5Labs and Contributors
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package event

import (
	"encoding/json"
	"testing"

	"github.com/z5labs/format/path"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEvent_MarshalJSON(t *testing.T) {
	t.Run("will write unset fields as null", func(t *testing.T) {
		e := Event{
			Kind:    KindError,
			Path:    path.Root().Field("a").Field("b").At(0),
			Message: "Please provide a number.",
		}

		b, err := json.Marshal(e)
		require.NoError(t, err)
		assert.JSONEq(t, `{"kind":"error","path":"a.b.0","message":"Please provide a number.","code":null,"details":null}`, string(b))
	})

	t.Run("will include code and details", func(t *testing.T) {
		e := Event{
			Kind:    KindWarning,
			Code:    "x",
			Details: map[string]any{"field": "a"},
		}

		b, err := json.Marshal(e)
		require.NoError(t, err)
		assert.JSONEq(t, `{"kind":"warning","path":"","message":null,"code":"x","details":{"field":"a"}}`, string(b))
	})
}

func TestEvent_Error(t *testing.T) {
	testCases := []struct {
		name     string
		event    Event
		expected string
	}{
		{
			name:     "root path",
			event:    Event{Message: "bad"},
			expected: "bad",
		},
		{
			name:     "nested path",
			event:    Event{Path: path.Root().Field("a"), Message: "bad"},
			expected: "a: bad",
		},
		{
			name:     "code only",
			event:    Event{Path: path.Root().At(1), Code: "c"},
			expected: "1: c",
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.expected, tc.event.Error())
		})
	}
}

func TestMask_Collects(t *testing.T) {
	testCases := []struct {
		name     string
		mask     Mask
		kind     Kind
		expected bool
	}{
		{name: "errors only collects errors", mask: CollectErrors, kind: KindError, expected: true},
		{name: "errors only drops warnings", mask: CollectErrors, kind: KindWarning, expected: false},
		{name: "info collects success", mask: CollectInfo, kind: KindSuccess, expected: true},
		{name: "all collects info", mask: CollectAll, kind: KindInfo, expected: true},
		{name: "none collects nothing", mask: CollectNone, kind: KindError, expected: false},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.expected, tc.mask.Collects(tc.kind))
		})
	}
}

func TestMask_UnmarshalText(t *testing.T) {
	t.Run("will parse flag lists", func(t *testing.T) {
		testCases := []struct {
			name     string
			text     string
			expected Mask
		}{
			{name: "single", text: "error", expected: CollectError},
			{name: "comma separated", text: "error,warning", expected: CollectError | CollectWarning},
			{name: "pipe separated", text: "warning|info", expected: CollectWarning | CollectInfo},
			{name: "all", text: "all", expected: CollectAll},
			{name: "none", text: "none", expected: CollectNone},
		}

		for _, tc := range testCases {
			t.Run(tc.name, func(t *testing.T) {
				var m Mask
				err := m.UnmarshalText([]byte(tc.text))
				require.NoError(t, err)
				assert.Equal(t, tc.expected, m)
			})
		}
	})

	t.Run("will return an UnknownMaskFlagError", func(t *testing.T) {
		t.Run("if a flag is not recognized", func(t *testing.T) {
			var m Mask
			err := m.UnmarshalText([]byte("error,debug"))

			var uerr UnknownMaskFlagError
			require.ErrorAs(t, err, &uerr)
			assert.Equal(t, "debug", uerr.Flag)
		})
	})
}

func TestSink(t *testing.T) {
	t.Run("will count errors even if they are not collected", func(t *testing.T) {
		s := NewSink(CollectNone)
		s.Error(path.Root(), "bad")

		assert.True(t, s.HasErrors())
		assert.Equal(t, 1, s.ErrorCount())
		assert.Equal(t, 0, s.Len())
	})

	t.Run("will drop kinds excluded by the mask", func(t *testing.T) {
		s := NewSink(CollectErrors)
		s.Warning(path.Root(), "w")
		s.Info(path.Root(), "i")
		s.Error(path.Root(), "e", Code("c"))

		require.Len(t, s.Events(), 1)
		assert.Equal(t, "c", s.Events()[0].Code)
		assert.False(t, s.Collects(KindWarning))
	})

	t.Run("will merge events in order", func(t *testing.T) {
		a := NewSink(CollectAll)
		a.Warning(path.Root().Field("a"), "first")

		b := a.Fork()
		b.Error(path.Root().Field("b"), "second")
		b.Info(path.Root().Field("c"), "third")

		a.Merge(b)

		require.Equal(t, 3, a.Len())
		assert.Equal(t, "first", a.Events()[0].Message)
		assert.Equal(t, "second", a.Events()[1].Message)
		assert.Equal(t, "third", a.Events()[2].Message)
		assert.Equal(t, 1, a.ErrorCount())
		assert.Len(t, a.Errors(), 1)
		assert.Len(t, a.Warnings(), 1)
		assert.Equal(t, 1, a.Count(KindInfo))
	})

	t.Run("will keep the mask after a reset", func(t *testing.T) {
		s := NewSink(CollectWarning)
		s.Warning(path.Root(), "w")
		s.Error(path.Root(), "e")

		s.Reset()

		assert.Equal(t, 0, s.Len())
		assert.False(t, s.HasErrors())
		assert.Equal(t, CollectWarning, s.Mask())
	})
}
