// Copyright (c) 2024 Z5Labs and Contributors
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package schema

import (
	"fmt"
	"reflect"
	"strings"

	"github.com/z5labs/format"

	"github.com/go-playground/validator/v10"
	"github.com/go-viper/mapstructure/v2"
)

// Document is the decoded form of a schema document.
type Document struct {
	Definitions map[string]*Node `schema:"definitions" validate:"dive,keys,required,endkeys,required"`
	Root        *Node            `schema:"root" validate:"required"`
}

// Node describes a single Format. Ref and Type are mutually exclusive.
// Which of the remaining fields apply depends on Type.
type Node struct {
	Type string `schema:"type" validate:"required_without=Ref,omitempty,oneof=bool null string number object dict list pipeline and or variant any"`
	Ref  string `schema:"ref" validate:"excluded_with=Type"`

	// string
	Trim      bool          `schema:"trim"`
	Normalize string        `schema:"normalize" validate:"omitempty,oneof=NFC NFD NFKC NFKD"`
	Case      string        `schema:"case" validate:"omitempty,oneof=lower upper fold"`
	Replace   []Replacement `schema:"replace" validate:"dive"`
	OneOf     []string      `schema:"one_of"`
	Equals    *string       `schema:"equals"`
	Pattern   string        `schema:"pattern"`

	// string and list
	Length    *int `schema:"length" validate:"omitempty,gte=0"`
	MinLength *int `schema:"min_length" validate:"omitempty,gte=0"`
	MaxLength *int `schema:"max_length" validate:"omitempty,gte=0"`
	Empty     bool `schema:"empty" validate:"excluded_with=NotEmpty"`
	NotEmpty  bool `schema:"not_empty"`

	// number
	Min      *float64 `schema:"min"`
	Max      *float64 `schema:"max"`
	Positive bool     `schema:"positive"`
	Integer  bool     `schema:"integer"`

	// dict
	Fields  []Field              `schema:"fields" validate:"dive"`
	Unknown format.UnknownPolicy `schema:"unknown"`
	Rest    *Node                `schema:"rest"`

	// list
	Items *Node `schema:"items"`

	// pipeline, and, or
	Of    []*Node `schema:"of" validate:"dive,required"`
	Error *string `schema:"error"`

	// variant
	Tag      string           `schema:"tag" validate:"excluded_with=TagIndex"`
	TagIndex *int             `schema:"tag_index" validate:"omitempty,gte=0"`
	Cases    map[string]*Node `schema:"cases" validate:"dive,required"`
	MergeTag bool             `schema:"merge_tag"`
}

// Replacement rewrites every match of Pattern with With.
type Replacement struct {
	Pattern string `schema:"pattern" validate:"required"`
	With    string `schema:"with"`
}

// Field declares one dictionary field. A field with a Default is filled
// in when absent and may not also be Required.
type Field struct {
	Name     string `schema:"name" validate:"required"`
	Required bool   `schema:"required" validate:"excluded_with=Default"`
	Default  any    `schema:"default"`
	Format   *Node  `schema:"format"`
}

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(sf reflect.StructField) string {
		name, _, _ := strings.Cut(sf.Tag.Get("schema"), ",")
		if name == "-" {
			return ""
		}
		return name
	})
	v.RegisterStructValidation(validateNode, Node{})
	return v
}

// validateNode checks the fields each node type cannot work without.
func validateNode(sl validator.StructLevel) {
	n := sl.Current().Interface().(Node)
	switch n.Type {
	case "list":
		if n.Items == nil {
			sl.ReportError(n.Items, "items", "Items", "required_for_list", "")
		}
	case "pipeline", "and", "or":
		if len(n.Of) == 0 {
			sl.ReportError(n.Of, "of", "Of", "required_for_"+n.Type, "")
		}
	case "variant":
		if n.Tag == "" && n.TagIndex == nil {
			sl.ReportError(n.Tag, "tag", "Tag", "required_for_variant", "")
		}
		if len(n.Cases) == 0 {
			sl.ReportError(n.Cases, "cases", "Cases", "required_for_variant", "")
		}
	}
	if n.Error != nil && n.Type != "or" {
		sl.ReportError(n.Error, "error", "Error", "only_for_or", "")
	}
}

// DecodeError is returned when a document does not have the shape of a
// schema document.
type DecodeError struct {
	Cause error
}

// Error implements the builtin error interface.
func (e DecodeError) Error() string {
	return fmt.Sprintf("schema: failed to decode document: %s", e.Cause)
}

// Unwrap implements the implicit interface used by errors.Is and errors.As.
func (e DecodeError) Unwrap() error {
	return e.Cause
}

// InvalidDocumentError is returned when a decoded document breaks the
// rules of its node types.
type InvalidDocumentError struct {
	Cause error
}

// Error implements the builtin error interface.
func (e InvalidDocumentError) Error() string {
	return fmt.Sprintf("schema: invalid document: %s", e.Cause)
}

// Unwrap implements the implicit interface used by errors.Is and errors.As.
func (e InvalidDocumentError) Unwrap() error {
	return e.Cause
}

// Decode converts the native form of a document, as produced by
// encoding/json or yaml.v3, into a validated Document. Unrecognised keys
// are rejected.
func Decode(raw any) (*Document, error) {
	var doc Document
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		TagName:     "schema",
		ErrorUnused: true,
		DecodeHook: mapstructure.ComposeDecodeHookFunc(
			stringKeysHookFunc(),
			mapstructure.TextUnmarshallerHookFunc(),
		),
		Result: &doc,
	})
	if err != nil {
		return nil, DecodeError{Cause: err}
	}
	err = dec.Decode(raw)
	if err != nil {
		return nil, DecodeError{Cause: err}
	}

	err = validate.Struct(&doc)
	if err != nil {
		return nil, InvalidDocumentError{Cause: err}
	}
	return &doc, nil
}

// stringKeysHookFunc lets mappings with non-string scalar keys, such as
// the integer variant tags yaml.v3 produces for `cases: {1: ...}`, decode
// into string keyed maps. Keys take their decimal text.
func stringKeysHookFunc() mapstructure.DecodeHookFuncType {
	return func(from, to reflect.Type, data any) (any, error) {
		if from.Kind() != reflect.Map || to.Kind() != reflect.Map {
			return data, nil
		}
		if from.Key().Kind() == reflect.String || to.Key().Kind() != reflect.String {
			return data, nil
		}

		rv := reflect.ValueOf(data)
		m := make(map[string]any, rv.Len())
		iter := rv.MapRange()
		for iter.Next() {
			m[fmt.Sprint(iter.Key().Interface())] = iter.Value().Interface()
		}
		return m, nil
	}
}
