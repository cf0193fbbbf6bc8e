// Copyright (c) 2024 Z5Labs and Contributors
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

// Package value provides the closed, recursive value model which formats
// consume and produce.
package value

import (
	"math"
	"strconv"
)

// Kind identifies which variant a Value holds.
type Kind uint8

const (
	NullKind Kind = iota
	BoolKind
	NumberKind
	StringKind
	ListKind
	DictKind
	ObjectKind
)

// String returns the kind name.
func (k Kind) String() string {
	switch k {
	case NullKind:
		return "null"
	case BoolKind:
		return "bool"
	case NumberKind:
		return "number"
	case StringKind:
		return "string"
	case ListKind:
		return "list"
	case DictKind:
		return "dict"
	case ObjectKind:
		return "object"
	default:
		return "unknown"
	}
}

// Value is a tagged union of null, bool, number, string, list, dict and
// opaque object. The zero Value is null.
type Value struct {
	kind Kind

	b       bool
	isFloat bool
	i       int64
	f       float64
	s       string
	list    []Value
	dict    *Map
	obj     any
}

// Null returns the null value.
func Null() Value {
	return Value{}
}

// Bool returns a boolean value.
func Bool(b bool) Value {
	return Value{kind: BoolKind, b: b}
}

// Int returns an integer number value.
func Int(i int64) Value {
	return Value{kind: NumberKind, i: i}
}

// Float returns a floating point number value.
func Float(f float64) Value {
	return Value{kind: NumberKind, isFloat: true, f: f}
}

// String returns a string value.
func String(s string) Value {
	return Value{kind: StringKind, s: s}
}

// List returns a list value holding the given items.
func List(items ...Value) Value {
	if items == nil {
		items = []Value{}
	}
	return Value{kind: ListKind, list: items}
}

// Dict returns a dict value holding the given entries in order.
// Later entries replace earlier entries with the same key.
func Dict(entries ...Entry) Value {
	m := NewMap(len(entries))
	for _, e := range entries {
		m.Set(e.Key, e.Value)
	}
	return Value{kind: DictKind, dict: m}
}

// DictOf wraps m as a dict value. A nil m is treated as an empty dict.
func DictOf(m *Map) Value {
	if m == nil {
		m = NewMap(0)
	}
	return Value{kind: DictKind, dict: m}
}

// Object wraps an opaque Go value.
func Object(v any) Value {
	return Value{kind: ObjectKind, obj: v}
}

// Kind returns the variant held by v.
func (v Value) Kind() Kind {
	return v.kind
}

// IsNull reports whether v is the null value.
func (v Value) IsNull() bool {
	return v.kind == NullKind
}

// AsBool returns the boolean held by v.
func (v Value) AsBool() (bool, bool) {
	return v.b, v.kind == BoolKind
}

// IsInt reports whether v holds an integer number.
func (v Value) IsInt() bool {
	return v.kind == NumberKind && !v.isFloat
}

// IsFloat reports whether v holds a floating point number.
func (v Value) IsFloat() bool {
	return v.kind == NumberKind && v.isFloat
}

// AsInt returns the integer held by v.
func (v Value) AsInt() (int64, bool) {
	return v.i, v.IsInt()
}

// AsFloat returns the number held by v as a float64. Integers are converted.
func (v Value) AsFloat() (float64, bool) {
	if v.kind != NumberKind {
		return 0, false
	}
	if v.isFloat {
		return v.f, true
	}
	return float64(v.i), true
}

// AsString returns the string held by v.
func (v Value) AsString() (string, bool) {
	return v.s, v.kind == StringKind
}

// AsList returns the items held by v. The returned slice must not be modified.
func (v Value) AsList() ([]Value, bool) {
	return v.list, v.kind == ListKind
}

// AsDict returns the map held by v. The returned map must not be modified.
func (v Value) AsDict() (*Map, bool) {
	return v.dict, v.kind == DictKind
}

// AsObject returns the opaque Go value held by v.
func (v Value) AsObject() (any, bool) {
	return v.obj, v.kind == ObjectKind
}

// Len returns the number of items of a list, entries of a dict or
// bytes of a string. It returns 0 for every other kind.
func (v Value) Len() int {
	switch v.kind {
	case ListKind:
		return len(v.list)
	case DictKind:
		return v.dict.Len()
	case StringKind:
		return len(v.s)
	default:
		return 0
	}
}

// Equal reports whether v and other hold the same data. Dict equality
// ignores key order. Objects are compared with ==, so uncomparable
// objects are never equal.
func (v Value) Equal(other Value) bool {
	if v.kind != other.kind {
		return false
	}
	switch v.kind {
	case NullKind:
		return true
	case BoolKind:
		return v.b == other.b
	case NumberKind:
		if v.isFloat != other.isFloat {
			return false
		}
		if v.isFloat {
			return v.f == other.f || (math.IsNaN(v.f) && math.IsNaN(other.f))
		}
		return v.i == other.i
	case StringKind:
		return v.s == other.s
	case ListKind:
		if len(v.list) != len(other.list) {
			return false
		}
		for i := range v.list {
			if !v.list[i].Equal(other.list[i]) {
				return false
			}
		}
		return true
	case DictKind:
		return v.dict.Equal(other.dict)
	case ObjectKind:
		return objectsEqual(v.obj, other.obj)
	default:
		return false
	}
}

func objectsEqual(a, b any) (eq bool) {
	defer func() {
		if recover() != nil {
			eq = false
		}
	}()
	return a == b
}

// Text returns the textual form of a scalar: strings verbatim, numbers in
// their shortest form, booleans as "true" or "false". It reports false for
// null, lists, dicts and objects.
func (v Value) Text() (string, bool) {
	switch v.kind {
	case StringKind:
		return v.s, true
	case BoolKind:
		return strconv.FormatBool(v.b), true
	case NumberKind:
		if v.isFloat {
			return strconv.FormatFloat(v.f, 'g', -1, 64), true
		}
		return strconv.FormatInt(v.i, 10), true
	default:
		return "", false
	}
}

// String implements the [fmt.Stringer] interface by rendering v as JSON.
// Objects are rendered with their Go type name.
func (v Value) String() string {
	b, err := v.MarshalJSON()
	if err != nil {
		return "<" + v.kind.String() + ">"
	}
	return string(b)
}
