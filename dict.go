// Copyright (c) 2024 Z5Labs and Contributors
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package format

import (
	"fmt"
	"strings"

	"github.com/z5labs/format/event"
	"github.com/z5labs/format/path"
	"github.com/z5labs/format/value"
)

type fieldPolicy uint8

const (
	fieldRequired fieldPolicy = iota
	fieldOptional
	fieldDefault
)

type field struct {
	name   string
	format Format
	policy fieldPolicy
	def    value.Value
}

// UnknownPolicy decides what a DictFormat does with input keys it has no
// field declared for.
type UnknownPolicy uint8

const (
	// UnknownPassthrough copies unknown keys into the output unchanged.
	UnknownPassthrough UnknownPolicy = iota

	// UnknownWarn copies unknown keys and records a Warning for each.
	UnknownWarn

	// UnknownStrip drops unknown keys from the output.
	UnknownStrip

	// UnknownReject records an Error for each unknown key.
	UnknownReject
)

var unknownPolicyNames = [...]string{
	UnknownPassthrough: "passthrough",
	UnknownWarn:        "warn",
	UnknownStrip:       "strip",
	UnknownReject:      "reject",
}

// String implements the [fmt.Stringer] interface.
func (p UnknownPolicy) String() string {
	if int(p) < len(unknownPolicyNames) {
		return unknownPolicyNames[p]
	}
	return fmt.Sprintf("UnknownPolicy(%d)", uint8(p))
}

// UnknownPolicyError is returned when parsing an unrecognised policy name.
type UnknownPolicyError struct {
	Name string
}

// Error implements the error interface.
func (e UnknownPolicyError) Error() string {
	return fmt.Sprintf("unknown policy for unknown fields: %q", e.Name)
}

// UnmarshalText implements the [encoding.TextUnmarshaler] interface.
func (p *UnknownPolicy) UnmarshalText(b []byte) error {
	name := strings.ToLower(strings.TrimSpace(string(b)))
	for i, n := range unknownPolicyNames {
		if n == name {
			*p = UnknownPolicy(i)
			return nil
		}
	}
	return UnknownPolicyError{Name: string(b)}
}

// DictOption configures a DictFormat.
type DictOption func(*DictFormat)

// Required declares a field which must be present. A nil f passes the
// field value through unchanged.
//
// When the field is absent and f is a [BoolFormat], [DictFormat] or
// [ListFormat], f is applied to false, {} or [] respectively instead of
// reporting the field as missing. Clients commonly omit unchecked
// checkboxes and empty collections.
func Required(name string, f Format) DictOption {
	return declare(field{name: name, format: f, policy: fieldRequired})
}

// Optional declares a field which is omitted from the output when absent.
func Optional(name string, f Format) DictOption {
	return declare(field{name: name, format: f, policy: fieldOptional})
}

// Default declares a field whose absence is replaced by def. The default
// is output as given without being applied to f.
func Default(name string, def value.Value, f Format) DictOption {
	return declare(field{name: name, format: f, policy: fieldDefault, def: def})
}

// Unknown sets the policy for undeclared input keys. It is ignored when
// [Rest] is also given.
func Unknown(policy UnknownPolicy) DictOption {
	return func(d *DictFormat) {
		d.unknown = policy
	}
}

// Rest validates every undeclared input key with f, at the key's path.
func Rest(f Format) DictOption {
	if f == nil {
		configFault("dict", "rest format must not be nil")
	}
	return func(d *DictFormat) {
		d.rest = f
	}
}

func declare(fd field) DictOption {
	return func(d *DictFormat) {
		if _, exists := d.index[fd.name]; exists {
			configFault("dict", "field %q is declared more than once", fd.name)
		}
		d.index[fd.name] = len(d.fields)
		d.fields = append(d.fields, fd)
	}
}

// DictFormat validates dictionaries field by field.
type DictFormat struct {
	fields  []field
	index   map[string]int
	unknown UnknownPolicy
	rest    Format
}

// Dict returns a Format for dictionaries. Every declared field is checked,
// so a single Apply reports all invalid fields at once. The output holds
// the declared fields in declaration order followed by the retained
// unknown keys in input order.
//
// An empty list is accepted as an empty dictionary.
func Dict(opts ...DictOption) *DictFormat {
	d := &DictFormat{
		index: make(map[string]int),
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// Apply implements the [Format] interface.
func (d *DictFormat) Apply(in value.Value, at path.Path, sink *event.Sink) (value.Value, bool) {
	m, ok := asDict(in)
	if !ok {
		return fail(sink, at, "Please provide a dictionary.")
	}

	out := value.NewMap(m.Len())
	ok = true
	for _, fd := range d.fields {
		v, present := m.Get(fd.name)
		fieldPath := at.Field(fd.name)

		if !present {
			switch fd.policy {
			case fieldOptional:
				continue
			case fieldDefault:
				out.Set(fd.name, fd.def)
				continue
			}
			ad, promotes := fd.format.(absentDefaulter)
			if !promotes {
				sink.Error(
					at,
					fmt.Sprintf("Field %q is required.", fd.name),
					event.Details(map[string]any{"field": fd.name}),
				)
				ok = false
				continue
			}
			v = ad.absentValue()
		}

		if fd.format == nil {
			out.Set(fd.name, v)
			continue
		}
		fv, fok := applyChecked(fd.format, v, fieldPath, sink)
		if !fok {
			ok = false
			continue
		}
		out.Set(fd.name, fv)
	}

	m.Range(func(key string, v value.Value) bool {
		if _, declared := d.index[key]; declared {
			return true
		}
		if !d.applyUnknown(key, v, at, out, sink) {
			ok = false
		}
		return true
	})

	if !ok {
		return value.Null(), false
	}
	return value.DictOf(out), true
}

func (d *DictFormat) applyUnknown(key string, v value.Value, at path.Path, out *value.Map, sink *event.Sink) bool {
	keyPath := at.Field(key)
	if d.rest != nil {
		rv, ok := applyChecked(d.rest, v, keyPath, sink)
		if ok {
			out.Set(key, rv)
		}
		return ok
	}

	switch d.unknown {
	case UnknownStrip:
	case UnknownReject:
		sink.Error(keyPath, fmt.Sprintf("Unknown field %q.", key), event.Code("dict.unknown"))
		return false
	case UnknownWarn:
		if sink.Collects(event.KindWarning) {
			sink.Warning(keyPath, fmt.Sprintf("Unknown field %q was ignored.", key), event.Code("dict.unknown"))
		}
		out.Set(key, v)
	default:
		out.Set(key, v)
	}
	return true
}

func (*DictFormat) absentValue() value.Value {
	return value.Dict()
}

func asDict(in value.Value) (*value.Map, bool) {
	if m, ok := in.AsDict(); ok {
		return m, true
	}
	if items, ok := in.AsList(); ok && len(items) == 0 {
		return value.NewMap(0), true
	}
	return nil, false
}
