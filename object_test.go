// Copyright (c) 2024 Z5Labs and Contributors
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package format

import (
	"fmt"
	"testing"
	"time"

	"github.com/z5labs/format/value"

	"github.com/stretchr/testify/require"
)

func TestObjectFormat_Apply(t *testing.T) {
	t.Run("will pass the object through", func(t *testing.T) {
		t.Run("if no tests are configured", func(t *testing.T) {
			in := value.Object(time.Second)
			out, ok, sink := apply(Object(), in)
			require.True(t, ok)
			require.Equal(t, 0, sink.Len())
			requireValue(t, in, out)
		})

		t.Run("if the object is an instance of the type", func(t *testing.T) {
			in := value.Object(time.Second)
			out, ok, _ := apply(Object(InstanceOf[time.Duration]()), in)
			require.True(t, ok)
			requireValue(t, in, out)
		})

		t.Run("if the object implements the interface", func(t *testing.T) {
			in := value.Object(time.Second)
			_, ok, _ := apply(Object(InstanceOf[fmt.Stringer]()), in)
			require.True(t, ok)
		})
	})

	t.Run("will fail", func(t *testing.T) {
		t.Run("if the input is not an object", func(t *testing.T) {
			_, ok, sink := apply(Object(), value.Dict())
			require.False(t, ok)
			requireSingleError(t, sink, "", "Please provide an object.")
		})

		t.Run("if the object is not an instance of the type", func(t *testing.T) {
			_, ok, sink := apply(Object(InstanceOf[time.Duration]()), value.Object("1s"))
			require.False(t, ok)
			requireSingleError(t, sink, "", "Please provide an instance of time.Duration.")
			require.Equal(t, "time.Duration", sink.Errors()[0].Details["type"])
		})
	})
}
