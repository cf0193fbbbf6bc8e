// Copyright (c) 2024 Z5Labs and Contributors
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package value

import (
	"encoding/json"
	"math"
	"reflect"
	"sort"
)

// FromInterface converts a native Go value, such as the output of
// [json.Unmarshal] or [yaml.Unmarshal] into an any, into a Value.
//
// Maps with string keys become dicts with their keys sorted, since Go
// maps carry no order. Slices become lists. Go values which have no
// natural counterpart are wrapped with [Object].
func FromInterface(x any) Value {
	switch v := x.(type) {
	case nil:
		return Null()
	case Value:
		return v
	case *Map:
		return DictOf(v)
	case bool:
		return Bool(v)
	case string:
		return String(v)
	case int:
		return Int(int64(v))
	case int8:
		return Int(int64(v))
	case int16:
		return Int(int64(v))
	case int32:
		return Int(int64(v))
	case int64:
		return Int(v)
	case uint:
		return fromUint(uint64(v))
	case uint8:
		return Int(int64(v))
	case uint16:
		return Int(int64(v))
	case uint32:
		return Int(int64(v))
	case uint64:
		return fromUint(v)
	case float32:
		return Float(float64(v))
	case float64:
		return Float(v)
	case json.Number:
		n, err := numberFromText(string(v))
		if err != nil {
			return String(string(v))
		}
		return n
	case []any:
		items := make([]Value, len(v))
		for i, item := range v {
			items[i] = FromInterface(item)
		}
		return List(items...)
	case []Value:
		return List(v...)
	case map[string]any:
		m := NewMap(len(v))
		for _, k := range sortedKeys(v) {
			m.Set(k, FromInterface(v[k]))
		}
		return DictOf(m)
	case map[string]Value:
		m := NewMap(len(v))
		for _, k := range sortedKeys(v) {
			m.Set(k, v[k])
		}
		return DictOf(m)
	}
	return fromReflect(reflect.ValueOf(x))
}

func fromUint(u uint64) Value {
	if u > math.MaxInt64 {
		return Float(float64(u))
	}
	return Int(int64(u))
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func fromReflect(rv reflect.Value) Value {
	switch rv.Kind() {
	case reflect.Slice, reflect.Array:
		if rv.Kind() == reflect.Slice && rv.IsNil() {
			return Null()
		}
		items := make([]Value, rv.Len())
		for i := range items {
			items[i] = FromInterface(rv.Index(i).Interface())
		}
		return List(items...)
	case reflect.Map:
		if rv.Type().Key().Kind() != reflect.String {
			break
		}
		if rv.IsNil() {
			return Null()
		}
		keys := make([]string, 0, rv.Len())
		for _, k := range rv.MapKeys() {
			keys = append(keys, k.String())
		}
		sort.Strings(keys)
		m := NewMap(len(keys))
		for _, k := range keys {
			kv := reflect.ValueOf(k).Convert(rv.Type().Key())
			m.Set(k, FromInterface(rv.MapIndex(kv).Interface()))
		}
		return DictOf(m)
	}
	return Object(rv.Interface())
}

// Interface returns the native Go view of v: nil, bool, int64, float64,
// string, []any, map[string]any or the wrapped object.
func (v Value) Interface() any {
	switch v.kind {
	case BoolKind:
		return v.b
	case NumberKind:
		if v.isFloat {
			return v.f
		}
		return v.i
	case StringKind:
		return v.s
	case ListKind:
		items := make([]any, len(v.list))
		for i, item := range v.list {
			items[i] = item.Interface()
		}
		return items
	case DictKind:
		m := make(map[string]any, v.dict.Len())
		v.dict.Range(func(k string, item Value) bool {
			m[k] = item.Interface()
			return true
		})
		return m
	case ObjectKind:
		return v.obj
	default:
		return nil
	}
}
