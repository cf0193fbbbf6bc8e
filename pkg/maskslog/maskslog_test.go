// Copyright (c) 2024 Z5Labs and Contributors
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package maskslog

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newLogger(buf *bytes.Buffer, opts ...Option) *slog.Logger {
	return slog.New(NewHandler(slog.NewJSONHandler(buf, &slog.HandlerOptions{}), opts...))
}

func TestHandler_Handle(t *testing.T) {
	t.Run("will not mask attrs", func(t *testing.T) {
		t.Run("if no masking funcs are registered", func(t *testing.T) {
			var buf bytes.Buffer
			newLogger(&buf).Info("hello world", slog.String("input", "4111 1111"))

			var record struct {
				Message string `json:"msg"`
				Input   string `json:"input"`
			}
			require.NoError(t, json.Unmarshal(buf.Bytes(), &record))
			assert.Equal(t, "hello world", record.Message)
			assert.Equal(t, "4111 1111", record.Input)
		})

		t.Run("if slog.Attr key does not match a masking func", func(t *testing.T) {
			var buf bytes.Buffer
			newLogger(&buf, Attr("random", AnonymousStringAttr)).Info("hello world", slog.String("input", "4111 1111"))

			var record struct {
				Input string `json:"input"`
			}
			require.NoError(t, json.Unmarshal(buf.Bytes(), &record))
			assert.Equal(t, "4111 1111", record.Input)
		})
	})

	t.Run("will mask attrs", func(t *testing.T) {
		t.Run("if the key matches a top level attr", func(t *testing.T) {
			var buf bytes.Buffer
			newLogger(&buf, Attr("input", AnonymousStringAttr)).Info("hello world", slog.Int("input", 42))

			var record struct {
				Input string `json:"input"`
			}
			require.NoError(t, json.Unmarshal(buf.Bytes(), &record))
			assert.Equal(t, "****", record.Input)
		})

		t.Run("if the key matches an attr inside a group", func(t *testing.T) {
			var buf bytes.Buffer
			newLogger(&buf, Attr("details", AnonymousStringAttr)).Info(
				"hello world",
				slog.Group("event", slog.String("path", "a.b"), slog.Any("details", map[string]any{"pattern": "x"})),
			)

			var record struct {
				Event struct {
					Path    string `json:"path"`
					Details string `json:"details"`
				} `json:"event"`
			}
			require.NoError(t, json.Unmarshal(buf.Bytes(), &record))
			assert.Equal(t, "a.b", record.Event.Path)
			assert.Equal(t, "****", record.Event.Details)
		})

		t.Run("if the attr is added with WithAttrs", func(t *testing.T) {
			var buf bytes.Buffer
			logger := newLogger(&buf, Attr("input", AnonymousStringAttr)).With(slog.String("input", "secret"))
			logger.WithGroup("g").Info("hello world", slog.String("input", "secret"))

			var record struct {
				Input string `json:"input"`
				G     struct {
					Input string `json:"input"`
				} `json:"g"`
			}
			require.NoError(t, json.Unmarshal(buf.Bytes(), &record))
			assert.Equal(t, "****", record.Input)
			assert.Equal(t, "****", record.G.Input)
		})
	})

	t.Run("will truncate attrs", func(t *testing.T) {
		testCases := []struct {
			Name  string
			Value string
			Want  string
		}{
			{Name: "short values unchanged", Value: "abc", Want: "abc"},
			{Name: "long values cut", Value: "abcdef", Want: "abcd..."},
			{Name: "multi byte runes kept whole", Value: "ééééé", Want: "éééé..."},
		}

		for _, testCase := range testCases {
			t.Run(testCase.Name, func(t *testing.T) {
				var buf bytes.Buffer
				newLogger(&buf, Attr("input", Truncate(4))).Info("hello", slog.String("input", testCase.Value))

				var record struct {
					Input string `json:"input"`
				}
				require.NoError(t, json.Unmarshal(buf.Bytes(), &record))
				assert.Equal(t, testCase.Want, record.Input)
			})
		}
	})
}
