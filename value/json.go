// Copyright (c) 2024 Z5Labs and Contributors
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package value

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strconv"
)

// MaxDepth bounds the nesting of decoded documents.
const MaxDepth = 1000

// InvalidJsonError occurs if the underlying io.Reader contains invalid JSON.
type InvalidJsonError struct {
	Cause error
}

// Error implements the error interface.
func (e InvalidJsonError) Error() string {
	return fmt.Sprintf("invalid json: %s", e.Cause)
}

// Unwrap implements the implicit interface used by errors.Is and errors.As.
func (e InvalidJsonError) Unwrap() error {
	return e.Cause
}

// DepthError occurs when a decoded document nests deeper than [MaxDepth].
type DepthError struct {
	Depth int
}

// Error implements the error interface.
func (e DepthError) Error() string {
	return fmt.Sprintf("document nests deeper than %d levels", e.Depth)
}

var errTrailingData = errors.New("unexpected data after top-level value")

// DecodeJSON reads a single JSON document from r. Object key order is
// preserved and numbers are decoded as integers whenever they fit in an
// int64.
func DecodeJSON(r io.Reader) (Value, error) {
	dec := json.NewDecoder(r)
	dec.UseNumber()

	v, err := decodeJSON(dec, 0)
	if err != nil {
		return Value{}, err
	}

	_, err = dec.Token()
	if err == io.EOF {
		return v, nil
	}
	if err != nil {
		return Value{}, InvalidJsonError{Cause: err}
	}
	return Value{}, InvalidJsonError{Cause: errTrailingData}
}

func decodeJSON(dec *json.Decoder, depth int) (Value, error) {
	if depth > MaxDepth {
		return Value{}, DepthError{Depth: MaxDepth}
	}

	tok, err := dec.Token()
	if err != nil {
		return Value{}, InvalidJsonError{Cause: err}
	}

	switch x := tok.(type) {
	case nil:
		return Null(), nil
	case bool:
		return Bool(x), nil
	case string:
		return String(x), nil
	case json.Number:
		return numberFromText(string(x))
	case json.Delim:
		switch x {
		case '{':
			m := NewMap(0)
			for dec.More() {
				ktok, err := dec.Token()
				if err != nil {
					return Value{}, InvalidJsonError{Cause: err}
				}
				k, ok := ktok.(string)
				if !ok {
					return Value{}, InvalidJsonError{Cause: fmt.Errorf("unexpected object key: %v", ktok)}
				}
				v, err := decodeJSON(dec, depth+1)
				if err != nil {
					return Value{}, err
				}
				m.Set(k, v)
			}
			_, err := dec.Token()
			if err != nil {
				return Value{}, InvalidJsonError{Cause: err}
			}
			return DictOf(m), nil
		case '[':
			items := []Value{}
			for dec.More() {
				v, err := decodeJSON(dec, depth+1)
				if err != nil {
					return Value{}, err
				}
				items = append(items, v)
			}
			_, err := dec.Token()
			if err != nil {
				return Value{}, InvalidJsonError{Cause: err}
			}
			return List(items...), nil
		}
	}
	return Value{}, InvalidJsonError{Cause: fmt.Errorf("unexpected token: %v", tok)}
}

func numberFromText(s string) (Value, error) {
	i, err := strconv.ParseInt(s, 10, 64)
	if err == nil {
		return Int(i), nil
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return Value{}, InvalidJsonError{Cause: err}
	}
	return Float(f), nil
}

// UnmarshalJSON implements the [json.Unmarshaler] interface.
func (v *Value) UnmarshalJSON(b []byte) error {
	dv, err := DecodeJSON(bytes.NewReader(b))
	if err != nil {
		return err
	}
	*v = dv
	return nil
}

// MarshalJSON implements the [json.Marshaler] interface. Dict keys are
// written in insertion order.
func (v Value) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	err := v.writeJSON(&buf)
	if err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func (v Value) writeJSON(buf *bytes.Buffer) error {
	switch v.kind {
	case NullKind:
		buf.WriteString("null")
	case BoolKind:
		buf.WriteString(strconv.FormatBool(v.b))
	case NumberKind:
		if !v.isFloat {
			buf.WriteString(strconv.FormatInt(v.i, 10))
			return nil
		}
		b, err := json.Marshal(v.f)
		if err != nil {
			return err
		}
		buf.Write(b)
	case StringKind:
		b, err := json.Marshal(v.s)
		if err != nil {
			return err
		}
		buf.Write(b)
	case ListKind:
		buf.WriteByte('[')
		for i, item := range v.list {
			if i > 0 {
				buf.WriteByte(',')
			}
			err := item.writeJSON(buf)
			if err != nil {
				return err
			}
		}
		buf.WriteByte(']')
	case DictKind:
		buf.WriteByte('{')
		var err error
		first := true
		v.dict.Range(func(k string, item Value) bool {
			if !first {
				buf.WriteByte(',')
			}
			first = false

			var kb []byte
			kb, err = json.Marshal(k)
			if err != nil {
				return false
			}
			buf.Write(kb)
			buf.WriteByte(':')
			err = item.writeJSON(buf)
			return err == nil
		})
		if err != nil {
			return err
		}
		buf.WriteByte('}')
	case ObjectKind:
		b, err := json.Marshal(v.obj)
		if err != nil {
			return err
		}
		buf.Write(b)
	}
	return nil
}
