// Copyright (c) 2024 Z5Labs and Contributors
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package schema

import (
	"fmt"
	"slices"
	"strings"

	"github.com/z5labs/format"
	"github.com/z5labs/format/internal/try"
	"github.com/z5labs/format/path"
	"github.com/z5labs/format/value"

	"golang.org/x/text/unicode/norm"
)

// BuildError reports the node of a document which could not be turned
// into a Format.
type BuildError struct {
	At    path.Path
	Cause error
}

// Error implements the builtin error interface.
func (e BuildError) Error() string {
	return fmt.Sprintf("schema: failed to build %s: %s", e.At, e.Cause)
}

// Unwrap implements the implicit interface used by errors.Is and errors.As.
func (e BuildError) Unwrap() error {
	return e.Cause
}

// UnknownRefError is returned when a node refers to a definition which
// does not exist.
type UnknownRefError struct {
	Name string
}

// Error implements the builtin error interface.
func (e UnknownRefError) Error() string {
	return fmt.Sprintf("unknown definition: %q", e.Name)
}

// CycleError is returned when definitions refer to each other in a loop.
// Chain lists the definitions in the order they were entered.
type CycleError struct {
	Chain []string
}

// Error implements the builtin error interface.
func (e CycleError) Error() string {
	return fmt.Sprintf("definitions refer to themselves: %s", strings.Join(e.Chain, " -> "))
}

type builder struct {
	doc      *Document
	built    map[string]format.Format
	visiting []string
}

// Build returns the Format described by doc. Each definition is built
// once and shared by every node referring to it.
func Build(doc *Document) (format.Format, error) {
	b := &builder{
		doc:   doc,
		built: make(map[string]format.Format, len(doc.Definitions)),
	}
	return b.node(doc.Root, path.Root().Field("root"))
}

func (b *builder) ref(name string, at path.Path) (format.Format, error) {
	if f, ok := b.built[name]; ok {
		return f, nil
	}
	if i := slices.Index(b.visiting, name); i >= 0 {
		chain := append(slices.Clone(b.visiting[i:]), name)
		return nil, BuildError{At: at, Cause: CycleError{Chain: chain}}
	}
	def, ok := b.doc.Definitions[name]
	if !ok {
		return nil, BuildError{At: at, Cause: UnknownRefError{Name: name}}
	}

	b.visiting = append(b.visiting, name)
	f, err := b.node(def, path.Root().Field("definitions").Field(name))
	b.visiting = b.visiting[:len(b.visiting)-1]
	if err != nil {
		return nil, err
	}
	b.built[name] = f
	return f, nil
}

// construct calls fn, turning a configuration fault raised by a format
// constructor into a BuildError for the node at at.
func construct(at path.Path, fn func() format.Format) (format.Format, error) {
	f, err := try.Call(fn)
	if err != nil {
		return nil, BuildError{At: at, Cause: err}
	}
	return f, nil
}

func (b *builder) node(n *Node, at path.Path) (format.Format, error) {
	if n.Ref != "" {
		return b.ref(n.Ref, at)
	}

	switch n.Type {
	case "bool":
		return format.Bool(), nil
	case "null":
		return format.Null(), nil
	case "any":
		return format.Any(), nil
	case "object":
		return format.Object(), nil
	case "string":
		return construct(at, func() format.Format {
			return format.String(stringOptions(n)...)
		})
	case "number":
		return construct(at, func() format.Format {
			return format.Number(numberOptions(n)...)
		})
	case "dict":
		return b.dict(n, at)
	case "list":
		item, err := b.node(n.Items, at.Field("items"))
		if err != nil {
			return nil, err
		}
		return construct(at, func() format.Format {
			var opts []format.ListOption
			for _, r := range lengthRules(n) {
				opts = append(opts, r)
			}
			return format.List(item, opts...)
		})
	case "pipeline", "and", "or":
		return b.combine(n, at)
	case "variant":
		return b.variant(n, at)
	}
	return nil, BuildError{At: at, Cause: fmt.Errorf("unsupported node type: %q", n.Type)}
}

var normForms = map[string]norm.Form{
	"NFC":  norm.NFC,
	"NFD":  norm.NFD,
	"NFKC": norm.NFKC,
	"NFKD": norm.NFKD,
}

func stringOptions(n *Node) []format.StringOption {
	var opts []format.StringOption
	if n.Trim {
		opts = append(opts, format.Trim())
	}
	if n.Normalize != "" {
		opts = append(opts, format.Normalize(normForms[n.Normalize]))
	}
	switch n.Case {
	case "lower":
		opts = append(opts, format.Lower())
	case "upper":
		opts = append(opts, format.Upper())
	case "fold":
		opts = append(opts, format.Fold())
	}
	for _, r := range n.Replace {
		opts = append(opts, format.Replace(r.Pattern, r.With))
	}
	if n.OneOf != nil {
		opts = append(opts, format.OneOf(n.OneOf...))
	}
	if n.Equals != nil {
		opts = append(opts, format.Equals(*n.Equals))
	}
	if n.Pattern != "" {
		opts = append(opts, format.Matches(n.Pattern))
	}
	for _, r := range lengthRules(n) {
		opts = append(opts, r)
	}
	return opts
}

func lengthRules(n *Node) []format.LengthRule {
	var rules []format.LengthRule
	if n.Length != nil {
		rules = append(rules, format.Length(*n.Length))
	}
	switch {
	case n.MinLength != nil && n.MaxLength != nil:
		rules = append(rules, format.LengthBetween(*n.MinLength, *n.MaxLength))
	case n.MinLength != nil:
		rules = append(rules, format.MinLength(*n.MinLength))
	case n.MaxLength != nil:
		rules = append(rules, format.MaxLength(*n.MaxLength))
	}
	if n.Empty {
		rules = append(rules, format.Empty())
	}
	if n.NotEmpty {
		rules = append(rules, format.NotEmpty())
	}
	return rules
}

func numberOptions(n *Node) []format.NumberOption {
	var opts []format.NumberOption
	if n.Min != nil {
		opts = append(opts, format.Min(*n.Min))
	}
	if n.Max != nil {
		opts = append(opts, format.Max(*n.Max))
	}
	if n.Positive {
		opts = append(opts, format.Positive())
	}
	if n.Integer {
		opts = append(opts, format.Integer())
	}
	return opts
}

func (b *builder) dict(n *Node, at path.Path) (format.Format, error) {
	opts := []format.DictOption{format.Unknown(n.Unknown)}
	for i, fd := range n.Fields {
		var f format.Format
		if fd.Format != nil {
			var err error
			f, err = b.node(fd.Format, at.Field("fields").At(i).Field("format"))
			if err != nil {
				return nil, err
			}
		}
		switch {
		case fd.Default != nil:
			opts = append(opts, format.Default(fd.Name, value.FromInterface(fd.Default), f))
		case fd.Required:
			opts = append(opts, format.Required(fd.Name, f))
		default:
			opts = append(opts, format.Optional(fd.Name, f))
		}
	}
	if n.Rest != nil {
		rest, err := b.node(n.Rest, at.Field("rest"))
		if err != nil {
			return nil, err
		}
		opts = append(opts, format.Rest(rest))
	}
	return construct(at, func() format.Format {
		return format.Dict(opts...)
	})
}

func (b *builder) children(n *Node, at path.Path) ([]format.Format, error) {
	fs := make([]format.Format, len(n.Of))
	for i, c := range n.Of {
		f, err := b.node(c, at.Field("of").At(i))
		if err != nil {
			return nil, err
		}
		fs[i] = f
	}
	return fs, nil
}

func (b *builder) combine(n *Node, at path.Path) (format.Format, error) {
	fs, err := b.children(n, at)
	if err != nil {
		return nil, err
	}
	return construct(at, func() format.Format {
		switch n.Type {
		case "pipeline":
			return format.Pipeline(fs...)
		case "and":
			return format.And(fs...)
		}
		or := format.Or(fs...)
		if n.Error != nil {
			return or.UseError(*n.Error)
		}
		return or
	})
}

func (b *builder) variant(n *Node, at path.Path) (format.Format, error) {
	tags := make([]string, 0, len(n.Cases))
	for tag := range n.Cases {
		tags = append(tags, tag)
	}
	slices.Sort(tags)

	var opts []format.VariantOption
	for _, tag := range tags {
		f, err := b.node(n.Cases[tag], at.Field("cases").Field(tag))
		if err != nil {
			return nil, err
		}
		opts = append(opts, format.Case(tag, f))
	}
	if n.MergeTag {
		opts = append(opts, format.MergeTag())
	}

	return construct(at, func() format.Format {
		tag := format.TagField(n.Tag)
		if n.TagIndex != nil {
			tag = format.TagIndex(*n.TagIndex)
		}
		return format.Variant(tag, opts...)
	})
}
