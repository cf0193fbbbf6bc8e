// Copyright (c) 2024 Z5Labs and Contributors
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package config

import (
	"errors"
	"fmt"
	"io"

	"github.com/z5labs/format/internal/try"

	"gopkg.in/yaml.v3"
)

// Yaml is a Source reading a single YAML mapping. An empty document
// applies nothing.
type Yaml struct {
	r io.Reader
}

// FromYaml returns a Source applying the YAML mapping read from r. When r
// is also an io.Closer it is closed once read.
func FromYaml(r io.Reader) Yaml {
	return Yaml{r: r}
}

// InvalidYamlError is returned for malformed YAML or a top level value
// which is not a mapping.
type InvalidYamlError struct {
	Line  int
	Cause error
}

// Error implements the [builtin.error] interface.
func (e InvalidYamlError) Error() string {
	if e.Line > 0 {
		return fmt.Sprintf("invalid yaml at line %d: %s", e.Line, e.Cause)
	}
	return fmt.Sprintf("invalid yaml: %s", e.Cause)
}

// Unwrap implements the implicit interface used by [errors.Is] and [errors.As].
func (e InvalidYamlError) Unwrap() error {
	return e.Cause
}

var errNotMapping = errors.New("top level value must be a mapping")

// Apply implements the [Source] interface.
func (src Yaml) Apply(store Store) (err error) {
	defer try.Close(&err, src.r)

	b, err := io.ReadAll(src.r)
	if err != nil {
		return err
	}

	var doc yaml.Node
	err = yaml.Unmarshal(b, &doc)
	if err != nil {
		return InvalidYamlError{Cause: err}
	}
	if len(doc.Content) == 0 {
		return nil
	}

	root := doc.Content[0]
	if root.Kind != yaml.MappingNode {
		return InvalidYamlError{Line: root.Line, Cause: errNotMapping}
	}

	m := make(map[string]any)
	err = root.Decode(&m)
	if err != nil {
		return InvalidYamlError{Line: root.Line, Cause: err}
	}
	return Map(m).Apply(store)
}
