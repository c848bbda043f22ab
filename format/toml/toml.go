// Package toml implements format.Codec for TOML via
// github.com/pelletier/go-toml/v2. Unlike format/json and format/yaml,
// this codec round-trips through Go's generic map[string]any rather
// than an order-preserving node tree: go-toml/v2 dropped the Tree API
// its v1 had, and TOML tables are themselves usually read with no
// semantic dependence on key order, so key order is not preserved
// here in either direction. TOML documents are
// tables at the root, so Load/Dump only operate on value.Object.
package toml

import (
	"fmt"

	tomlv2 "github.com/pelletier/go-toml/v2"

	"github.com/roach88/partiqlgo/internal/perr"
	"github.com/roach88/partiqlgo/value"
)

// Codec is the TOML format.Codec implementation.
type Codec struct{}

// New constructs a Codec.
func New() *Codec { return &Codec{} }

// Load parses data as a TOML document.
func (Codec) Load(data []byte) (value.Value, error) {
	var m map[string]interface{}
	if err := tomlv2.Unmarshal(data, &m); err != nil {
		return nil, &perr.FormatError{Format: "toml", Message: err.Error()}
	}
	return fromGeneric(m), nil
}

func fromGeneric(v interface{}) value.Value {
	switch t := v.(type) {
	case nil:
		return value.Null{}
	case bool:
		return value.Bool(t)
	case string:
		return value.String(t)
	case int64:
		return value.Number(float64(t))
	case int:
		return value.Number(float64(t))
	case float64:
		return value.Number(t)
	case []interface{}:
		elems := make([]value.Value, len(t))
		for i, e := range t {
			elems[i] = fromGeneric(e)
		}
		return value.Array(elems)
	case map[string]interface{}:
		var obj value.Object
		for k, e := range t {
			obj = obj.Set(k, fromGeneric(e))
		}
		return obj
	default:
		return value.String(fmt.Sprintf("%v", t))
	}
}

// Dump renders v as TOML text. v must be an Object,
// since TOML has no top-level scalar or array form.
func (Codec) Dump(v value.Value) ([]byte, error) {
	obj, ok := v.(value.Object)
	if !ok {
		return nil, &perr.FormatError{Format: "toml", Message: "TOML documents must be objects at the top level"}
	}
	out, err := tomlv2.Marshal(toGeneric(obj))
	if err != nil {
		return nil, &perr.FormatError{Format: "toml", Message: err.Error()}
	}
	return out, nil
}

func toGeneric(v value.Value) interface{} {
	switch t := v.(type) {
	case value.Null, value.Missing:
		return nil
	case value.Bool:
		return bool(t)
	case value.Number:
		return float64(t)
	case value.String:
		return string(t)
	case value.Array:
		out := make([]interface{}, len(t))
		for i, e := range t {
			out[i] = toGeneric(e)
		}
		return out
	case value.Bag:
		out := make([]interface{}, len(t))
		for i, e := range t {
			out[i] = toGeneric(e)
		}
		return out
	case value.Object:
		out := make(map[string]interface{}, len(t))
		for _, e := range t {
			out[e.Key] = toGeneric(e.Value)
		}
		return out
	default:
		return nil
	}
}
