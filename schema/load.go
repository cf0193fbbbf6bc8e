// Copyright (c) 2024 Z5Labs and Contributors
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package schema

import (
	"fmt"
	"io"
	"io/fs"
	"path"
	"strings"

	"github.com/z5labs/format"
	"github.com/z5labs/format/internal/try"
	"github.com/z5labs/format/value"
)

// Lang is the language a schema document is written in.
type Lang uint8

const (
	YAML Lang = iota
	JSON
)

// String implements the [fmt.Stringer] interface.
func (l Lang) String() string {
	switch l {
	case YAML:
		return "yaml"
	case JSON:
		return "json"
	default:
		return fmt.Sprintf("Lang(%d)", uint8(l))
	}
}

// UnknownLangError is returned when parsing an unsupported language name.
type UnknownLangError struct {
	Name string
}

// Error implements the builtin error interface.
func (e UnknownLangError) Error() string {
	return fmt.Sprintf("unknown schema language: %q", e.Name)
}

// UnmarshalText implements the [encoding.TextUnmarshaler] interface.
func (l *Lang) UnmarshalText(b []byte) error {
	switch strings.ToLower(strings.TrimSpace(string(b))) {
	case "yaml", "yml":
		*l = YAML
	case "json":
		*l = JSON
	default:
		return UnknownLangError{Name: string(b)}
	}
	return nil
}

// LangOf guesses the language of a document from its file name. Names
// not ending in ".json" are read as YAML, which is a superset of JSON.
func LangOf(name string) Lang {
	if strings.EqualFold(path.Ext(name), ".json") {
		return JSON
	}
	return YAML
}

// ReadError is returned when the bytes of a document could not be read
// or parsed.
type ReadError struct {
	Cause error
}

// Error implements the builtin error interface.
func (e ReadError) Error() string {
	return fmt.Sprintf("schema: failed to read document: %s", e.Cause)
}

// Unwrap implements the implicit interface used by errors.Is and errors.As.
func (e ReadError) Unwrap() error {
	return e.Cause
}

// Parse reads and validates a document without building it.
func Parse(r io.Reader, lang Lang) (*Document, error) {
	var (
		v   value.Value
		err error
	)
	switch lang {
	case JSON:
		v, err = value.DecodeJSON(r)
	default:
		var b []byte
		b, err = io.ReadAll(r)
		if err == nil {
			v, err = value.DecodeYAML(b)
		}
	}
	if err != nil {
		return nil, ReadError{Cause: err}
	}
	return Decode(v.Interface())
}

// Load reads a document from r and builds its Format.
func Load(r io.Reader, lang Lang) (format.Format, error) {
	doc, err := Parse(r, lang)
	if err != nil {
		return nil, err
	}
	return Build(doc)
}

// LoadFile reads the document stored at name in fsys and builds its
// Format. The language is chosen with [LangOf].
func LoadFile(fsys fs.FS, name string) (_ format.Format, err error) {
	f, err := fsys.Open(name)
	if err != nil {
		return nil, ReadError{Cause: err}
	}
	defer try.Close(&err, f)

	return Load(f, LangOf(name))
}
