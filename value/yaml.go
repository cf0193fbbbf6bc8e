// Copyright (c) 2024 Z5Labs and Contributors
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package value

import (
	"errors"
	"fmt"
	"strconv"

	"gopkg.in/yaml.v3"
)

// InvalidYamlError occurs if the given bytes contain invalid YAML.
type InvalidYamlError struct {
	Cause error
}

// Error implements the error interface.
func (e InvalidYamlError) Error() string {
	return fmt.Sprintf("invalid yaml: %s", e.Cause)
}

// Unwrap implements the implicit interface used by errors.Is and errors.As.
func (e InvalidYamlError) Unwrap() error {
	return e.Cause
}

// yamlNodesPerByte bounds how many nodes a document may expand to,
// relative to its size, once aliases are followed.
const (
	yamlNodesPerByte = 10
	yamlMinNodes     = 10000
)

var errAliasExpansion = errors.New("document expands to too many nodes through aliases")

// DecodeYAML parses a single YAML document. Mapping key order is preserved.
// An empty document decodes to null. Aliases are expanded in place; a
// document whose expansion grows far beyond its own size is rejected with
// an [InvalidYamlError].
func DecodeYAML(b []byte) (Value, error) {
	var doc yaml.Node
	err := yaml.Unmarshal(b, &doc)
	if err != nil {
		return Value{}, InvalidYamlError{Cause: err}
	}
	d := &yamlDecoder{budget: yamlMinNodes + yamlNodesPerByte*len(b)}
	return d.decode(&doc, 0)
}

type yamlDecoder struct {
	budget int
}

func (d *yamlDecoder) decode(n *yaml.Node, depth int) (Value, error) {
	if depth > MaxDepth {
		return Value{}, DepthError{Depth: MaxDepth}
	}
	d.budget--
	if d.budget < 0 {
		return Value{}, InvalidYamlError{Cause: errAliasExpansion}
	}

	switch n.Kind {
	case 0:
		return Null(), nil
	case yaml.DocumentNode:
		if len(n.Content) == 0 {
			return Null(), nil
		}
		return d.decode(n.Content[0], depth)
	case yaml.AliasNode:
		return d.decode(n.Alias, depth+1)
	case yaml.SequenceNode:
		items := make([]Value, 0, len(n.Content))
		for _, c := range n.Content {
			v, err := d.decode(c, depth+1)
			if err != nil {
				return Value{}, err
			}
			items = append(items, v)
		}
		return List(items...), nil
	case yaml.MappingNode:
		m := NewMap(len(n.Content) / 2)
		for i := 0; i+1 < len(n.Content); i += 2 {
			k, v := n.Content[i], n.Content[i+1]
			if k.Kind != yaml.ScalarNode {
				return Value{}, InvalidYamlError{
					Cause: fmt.Errorf("line %d: mapping keys must be scalars", k.Line),
				}
			}
			item, err := d.decode(v, depth+1)
			if err != nil {
				return Value{}, err
			}
			m.Set(k.Value, item)
		}
		return DictOf(m), nil
	case yaml.ScalarNode:
		return fromYAMLScalar(n)
	default:
		return Value{}, InvalidYamlError{Cause: fmt.Errorf("line %d: unsupported node", n.Line)}
	}
}

func fromYAMLScalar(n *yaml.Node) (Value, error) {
	switch n.ShortTag() {
	case "!!null":
		return Null(), nil
	case "!!bool":
		var b bool
		err := n.Decode(&b)
		if err != nil {
			return Value{}, InvalidYamlError{Cause: err}
		}
		return Bool(b), nil
	case "!!int":
		var i int64
		err := n.Decode(&i)
		if err == nil {
			return Int(i), nil
		}
		var f float64
		err = n.Decode(&f)
		if err != nil {
			return Value{}, InvalidYamlError{Cause: err}
		}
		return Float(f), nil
	case "!!float":
		var f float64
		err := n.Decode(&f)
		if err != nil {
			return Value{}, InvalidYamlError{Cause: err}
		}
		return Float(f), nil
	default:
		return String(n.Value), nil
	}
}

// MarshalYAML implements the [yaml.Marshaler] interface. Dict keys are
// written in insertion order.
func (v Value) MarshalYAML() (any, error) {
	return v.yamlNode()
}

func (v Value) yamlNode() (*yaml.Node, error) {
	switch v.kind {
	case NullKind:
		return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!null", Value: "null"}, nil
	case BoolKind:
		return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!bool", Value: strconv.FormatBool(v.b)}, nil
	case NumberKind:
		if v.isFloat {
			return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!float", Value: strconv.FormatFloat(v.f, 'g', -1, 64)}, nil
		}
		return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!int", Value: strconv.FormatInt(v.i, 10)}, nil
	case StringKind:
		return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: v.s}, nil
	case ListKind:
		n := &yaml.Node{Kind: yaml.SequenceNode, Tag: "!!seq"}
		for _, item := range v.list {
			c, err := item.yamlNode()
			if err != nil {
				return nil, err
			}
			n.Content = append(n.Content, c)
		}
		return n, nil
	case DictKind:
		n := &yaml.Node{Kind: yaml.MappingNode, Tag: "!!map"}
		var err error
		v.dict.Range(func(k string, item Value) bool {
			var c *yaml.Node
			c, err = item.yamlNode()
			if err != nil {
				return false
			}
			n.Content = append(n.Content,
				&yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: k},
				c,
			)
			return true
		})
		if err != nil {
			return nil, err
		}
		return n, nil
	default:
		var n yaml.Node
		err := n.Encode(v.obj)
		if err != nil {
			return nil, err
		}
		return &n, nil
	}
}
