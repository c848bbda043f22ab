// Package yaml implements format.Codec for YAML via gopkg.in/yaml.v3,
// using its Node tree (rather than unmarshaling into map[string]any)
// so that mapping key order survives the round trip the same way
// format/json preserves JSON object order.
package yaml

import (
	"fmt"
	"strconv"

	yamlv3 "gopkg.in/yaml.v3"

	"github.com/roach88/partiqlgo/internal/perr"
	"github.com/roach88/partiqlgo/value"
)

// Codec is the YAML format.Codec implementation.
type Codec struct{}

// New constructs a Codec.
func New() *Codec { return &Codec{} }

// Load parses data as a YAML document.
func (Codec) Load(data []byte) (value.Value, error) {
	var doc yamlv3.Node
	if err := yamlv3.Unmarshal(data, &doc); err != nil {
		return nil, &perr.FormatError{Format: "yaml", Message: err.Error()}
	}
	if len(doc.Content) == 0 {
		return value.Null{}, nil
	}
	v, err := decodeNode(doc.Content[0])
	if err != nil {
		return nil, &perr.FormatError{Format: "yaml", Message: err.Error()}
	}
	return v, nil
}

func decodeNode(n *yamlv3.Node) (value.Value, error) {
	switch n.Kind {
	case yamlv3.MappingNode:
		var obj value.Object
		for i := 0; i+1 < len(n.Content); i += 2 {
			key := n.Content[i].Value
			v, err := decodeNode(n.Content[i+1])
			if err != nil {
				return nil, err
			}
			obj = obj.Set(key, v)
		}
		return obj, nil
	case yamlv3.SequenceNode:
		elems := make([]value.Value, 0, len(n.Content))
		for _, c := range n.Content {
			v, err := decodeNode(c)
			if err != nil {
				return nil, err
			}
			elems = append(elems, v)
		}
		return value.Array(elems), nil
	case yamlv3.ScalarNode:
		return decodeScalar(n)
	case yamlv3.AliasNode:
		return decodeNode(n.Alias)
	default:
		return value.Null{}, nil
	}
}

func decodeScalar(n *yamlv3.Node) (value.Value, error) {
	switch n.Tag {
	case "!!null":
		return value.Null{}, nil
	case "!!bool":
		var b bool
		if err := n.Decode(&b); err != nil {
			return nil, err
		}
		return value.Bool(b), nil
	case "!!int", "!!float":
		f, err := strconv.ParseFloat(n.Value, 64)
		if err != nil {
			return nil, err
		}
		return value.Number(f), nil
	default:
		return value.String(n.Value), nil
	}
}

// Dump renders v as YAML text. Bag is rendered as a YAML
// sequence, same caveat as format/json: YAML has no native multiset.
func (Codec) Dump(v value.Value) ([]byte, error) {
	node, err := encodeValue(v)
	if err != nil {
		return nil, &perr.FormatError{Format: "yaml", Message: err.Error()}
	}
	out, err := yamlv3.Marshal(node)
	if err != nil {
		return nil, &perr.FormatError{Format: "yaml", Message: err.Error()}
	}
	return out, nil
}

func encodeValue(v value.Value) (*yamlv3.Node, error) {
	switch t := v.(type) {
	case nil, value.Null:
		return &yamlv3.Node{Kind: yamlv3.ScalarNode, Tag: "!!null", Value: "null"}, nil
	case value.Missing:
		return &yamlv3.Node{Kind: yamlv3.ScalarNode, Tag: "!!null", Value: "null"}, nil
	case value.Bool:
		val := "false"
		if t {
			val = "true"
		}
		return &yamlv3.Node{Kind: yamlv3.ScalarNode, Tag: "!!bool", Value: val}, nil
	case value.Number:
		return &yamlv3.Node{Kind: yamlv3.ScalarNode, Tag: "!!float", Value: value.Number(t).String()}, nil
	case value.String:
		return &yamlv3.Node{Kind: yamlv3.ScalarNode, Tag: "!!str", Value: string(t)}, nil
	case value.Array:
		return encodeSeq([]value.Value(t))
	case value.Bag:
		return encodeSeq([]value.Value(t))
	case value.Object:
		n := &yamlv3.Node{Kind: yamlv3.MappingNode}
		for _, e := range t {
			vn, err := encodeValue(e.Value)
			if err != nil {
				return nil, err
			}
			n.Content = append(n.Content, &yamlv3.Node{Kind: yamlv3.ScalarNode, Tag: "!!str", Value: e.Key}, vn)
		}
		return n, nil
	default:
		return nil, fmt.Errorf("yaml: unsupported value type %T", v)
	}
}

func encodeSeq(elems []value.Value) (*yamlv3.Node, error) {
	n := &yamlv3.Node{Kind: yamlv3.SequenceNode}
	for _, e := range elems {
		vn, err := encodeValue(e)
		if err != nil {
			return nil, err
		}
		n.Content = append(n.Content, vn)
	}
	return n, nil
}
