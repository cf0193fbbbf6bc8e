// Copyright (c) 2024 Z5Labs and Contributors
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package config

import (
	"errors"
	"io"
	"io/fs"
	"strings"
	"testing"
	"testing/fstest"

	"github.com/z5labs/format/path"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type readFunc func([]byte) (int, error)

func (f readFunc) Read(b []byte) (int, error) {
	return f(b)
}

func TestEnv_Apply(t *testing.T) {
	t.Run("will only apply variables with the prefix", func(t *testing.T) {
		m := make(Map)
		err := envOf(
			"HOME=/root",
			"FORMATCHECK_SCHEMA=a.yaml",
			"FORMATCHECK_HTTP__TIMEOUT=1s",
			"FORMATCHECKER_SCHEMA=b.yaml",
			"FORMATCHECK_=empty",
			"FORMATCHECK_BAD____KEY=x",
			"MALFORMED",
		).Apply(m)
		require.NoError(t, err)
		require.Equal(t, Map{
			"schema": "a.yaml",
			"http":   map[string]any{"timeout": "1s"},
		}, m)
	})

	t.Run("will apply every variable if the prefix is empty", func(t *testing.T) {
		m := make(Map)
		src := Env{environ: func() []string { return []string{"A_B=1"} }}
		require.NoError(t, src.Apply(m))
		require.Equal(t, Map{"a_b": "1"}, m)
	})
}

func TestDotEnv_Apply(t *testing.T) {
	t.Run("will apply variables with the prefix", func(t *testing.T) {
		r := strings.NewReader("# comment\nFORMATCHECK_OUTPUT=yaml\nOTHER=1\nFORMATCHECK_LOG_INPUTS=\"true\"\n")

		m := make(Map)
		require.NoError(t, FromDotEnv(r, "FORMATCHECK").Apply(m))
		require.Equal(t, Map{"output": "yaml", "log_inputs": "true"}, m)
	})

	t.Run("will be skipped by Optional", func(t *testing.T) {
		t.Run("if the file does not exist", func(t *testing.T) {
			r := NewFileReader(fstest.MapFS{}, ".env")

			m := make(Map)
			require.NoError(t, Optional(FromDotEnv(r, "FORMATCHECK")).Apply(m))
			require.Empty(t, m)
		})
	})
}

func TestYaml_Apply(t *testing.T) {
	t.Run("will return an InvalidYamlError", func(t *testing.T) {
		t.Run("if the yaml is malformed", func(t *testing.T) {
			err := FromYaml(strings.NewReader("a: [")).Apply(make(Map))

			var yerr InvalidYamlError
			require.ErrorAs(t, err, &yerr)
			require.Error(t, yerr.Unwrap())
		})
	})

	t.Run("will return an InvalidYamlError with the line", func(t *testing.T) {
		t.Run("if the top level value is not a mapping", func(t *testing.T) {
			err := FromYaml(strings.NewReader("\n- a\n- b\n")).Apply(make(Map))

			var yerr InvalidYamlError
			require.ErrorAs(t, err, &yerr)
			require.Equal(t, 2, yerr.Line)
			require.Contains(t, yerr.Error(), "line 2")
		})
	})

	t.Run("will apply nothing for an empty document", func(t *testing.T) {
		m := make(Map)
		err := FromYaml(strings.NewReader("# nothing here\n")).Apply(m)
		require.NoError(t, err)
		require.Empty(t, m)
	})

	t.Run("will return the read error", func(t *testing.T) {
		readErr := errors.New("failed to read")
		err := FromYaml(readFunc(func([]byte) (int, error) { return 0, readErr })).Apply(make(Map))
		require.ErrorIs(t, err, readErr)
	})

	t.Run("will not hide a missing file without Optional", func(t *testing.T) {
		err := FromYaml(NewFileReader(fstest.MapFS{}, "formatcheck.yaml")).Apply(make(Map))
		require.ErrorIs(t, err, fs.ErrNotExist)
	})
}

func TestJson_Apply(t *testing.T) {
	t.Run("will decode integral numbers as int64", func(t *testing.T) {
		m := make(Map)
		require.NoError(t, FromJson(strings.NewReader(`{"a": 1, "b": 1.5, "c": [2]}`)).Apply(m))

		a, _ := m.Get(path.Root().Field("a"))
		require.Equal(t, int64(1), a)
		b, _ := m.Get(path.Root().Field("b"))
		require.Equal(t, 1.5, b)
		c, _ := m.Get(path.Root().Field("c"))
		require.Equal(t, []any{int64(2)}, c)
	})

	t.Run("will return an InvalidJsonError", func(t *testing.T) {
		t.Run("if the json is malformed", func(t *testing.T) {
			err := FromJson(strings.NewReader(`{"a":`)).Apply(make(Map))

			var jerr InvalidJsonError
			require.ErrorAs(t, err, &jerr)
		})
	})
}

type fsFunc func(string) (fs.File, error)

func (f fsFunc) Open(path string) (fs.File, error) {
	return f(path)
}

func TestFileReader_Read(t *testing.T) {
	t.Run("will return an error", func(t *testing.T) {
		t.Run("if the fs.FS fails to open the file", func(t *testing.T) {
			openErr := errors.New("failed to open")
			fsys := fsFunc(func(s string) (fs.File, error) {
				return nil, openErr
			})

			r := NewFileReader(fsys, "config.yaml")
			_, err := io.ReadAll(r)
			assert.ErrorIs(t, err, openErr)

			_, err = r.Read(make([]byte, 1))
			assert.ErrorIs(t, err, openErr)
		})
	})

	t.Run("will read the file contents", func(t *testing.T) {
		fsys := fstest.MapFS{"config.yaml": &fstest.MapFile{Data: []byte("a: 1")}}

		r := NewFileReader(fsys, "config.yaml")
		b, err := io.ReadAll(r)
		require.NoError(t, err)
		require.Equal(t, "a: 1", string(b))
		require.NoError(t, r.Close())
	})
}

func TestFileReader_Close(t *testing.T) {
	t.Run("will not return an error", func(t *testing.T) {
		t.Run("if Close is called before the underlying file has been opened", func(t *testing.T) {
			fsys := fsFunc(func(s string) (fs.File, error) {
				return nil, nil
			})

			r := NewFileReader(fsys, "config.yaml")
			assert.Nil(t, r.Close())
		})
	})
}

func TestTextTemplateRenderer_Read(t *testing.T) {
	t.Run("will render environment variables", func(t *testing.T) {
		t.Setenv("FORMATCHECK_TEST_DIR", "/schemas")

		ttr := RenderTextTemplate(strings.NewReader(`schema: {{ env "FORMATCHECK_TEST_DIR" }}/order.yaml`))
		b, err := io.ReadAll(ttr)
		require.NoError(t, err)
		require.Equal(t, "schema: /schemas/order.yaml", string(b))
	})

	t.Run("will use custom delimiters and funcs", func(t *testing.T) {
		ttr := RenderTextTemplate(
			strings.NewReader(`mask: <% mask %>`),
			TemplateDelims("<%", "%>"),
			TemplateFunc("mask", func() string { return "error" }),
		)
		b, err := io.ReadAll(ttr)
		require.NoError(t, err)
		require.Equal(t, "mask: error", string(b))
	})

	t.Run("will return an error", func(t *testing.T) {
		t.Run("if the underlying io.Reader fails", func(t *testing.T) {
			readErr := errors.New("failed to read")
			r := readFunc(func(b []byte) (int, error) {
				return 0, readErr
			})

			_, err := io.ReadAll(RenderTextTemplate(r))
			assert.ErrorIs(t, err, readErr)
		})

		t.Run("if the underlying io.Reader contains an invalid text/template", func(t *testing.T) {
			_, err := io.ReadAll(RenderTextTemplate(strings.NewReader(`{{ hello`)))

			var ierr TextTemplateParseError
			require.ErrorAs(t, err, &ierr)
			require.NotEmpty(t, ierr.Error())
		})

		t.Run("if the parsed text/template fails to execute", func(t *testing.T) {
			ttr := RenderTextTemplate(
				strings.NewReader(`{{ hello }}`),
				TemplateFunc("hello", func() string {
					panic("ahhhh")
				}),
			)
			_, err := io.ReadAll(ttr)

			var ierr TextTemplateExecError
			require.ErrorAs(t, err, &ierr)
		})
	})
}
