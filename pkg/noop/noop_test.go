// Copyright (c) 2023 Z5Labs and Contributors
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package noop

import (
	"context"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLogHandler(t *testing.T) {
	t.Run("will not be enabled", func(t *testing.T) {
		var h slog.Handler = LogHandler{}
		h = h.WithAttrs([]slog.Attr{slog.String("a", "b")}).WithGroup("g")

		assert.False(t, h.Enabled(context.Background(), slog.LevelError))
		assert.NoError(t, h.Handle(context.Background(), slog.Record{}))
	})

	t.Run("will accept log calls", func(t *testing.T) {
		assert.NotPanics(t, func() {
			Logger().Error("dropped", slog.Int("n", 1))
		})
	})
}
