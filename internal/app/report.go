// Copyright (c) 2024 Z5Labs and Contributors
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package app

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/z5labs/format/event"
	"github.com/z5labs/format/value"

	"gopkg.in/yaml.v3"
)

// Report is the outcome of validating one document. Value is null when
// OK is false.
type Report struct {
	Document string        `json:"document" yaml:"document"`
	OK       bool          `json:"ok" yaml:"ok"`
	Value    value.Value   `json:"value" yaml:"value"`
	Events   []event.Event `json:"events" yaml:"events"`
}

type encodeFunc func(io.Writer, []Report) error

func encodeJSON(w io.Writer, reports []Report) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(reports)
}

func encodeYAML(w io.Writer, reports []Report) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	err := enc.Encode(reports)
	if err != nil {
		return err
	}
	return enc.Close()
}

// UnknownOutputError is returned for an unsupported report format.
type UnknownOutputError struct {
	Name string
}

// Error implements the [builtin.error] interface.
func (e UnknownOutputError) Error() string {
	return fmt.Sprintf("unknown output format: %q", e.Name)
}

func encoderFor(name string) (encodeFunc, error) {
	switch name {
	case "json":
		return encodeJSON, nil
	case "yaml":
		return encodeYAML, nil
	}
	return nil, UnknownOutputError{Name: name}
}

// FailedDocumentsError is returned when at least one document did not
// pass validation. The reports have already been written.
type FailedDocumentsError struct {
	Failed int
	Total  int
}

// Error implements the [builtin.error] interface.
func (e FailedDocumentsError) Error() string {
	return fmt.Sprintf("%d of %d document(s) failed validation", e.Failed, e.Total)
}
