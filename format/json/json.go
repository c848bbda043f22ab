// Package json implements format.Codec for JSON, preserving object
// key order in both directions since value.Object is order-sensitive
// while Go's map-based encoding/json is not. It hand-rolls its own
// encode/decode walk over the generic value.Value tree rather than
// relying on encoding/json's struct-tag reflection, decoding with
// encoding/json's streaming Decoder and encoding scalars with
// json.Marshal.
package json

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/roach88/partiqlgo/internal/perr"
	"github.com/roach88/partiqlgo/value"
)

// Codec is the JSON format.Codec implementation.
type Codec struct{}

// New constructs a Codec.
func New() *Codec { return &Codec{} }

// Load parses data as a JSON document and converts it to a
// value.Value tree. Object key order is preserved by decoding
// token-by-token rather than through a map.
func (Codec) Load(data []byte) (value.Value, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	v, err := decodeValue(dec)
	if err != nil {
		return nil, &perr.FormatError{Format: "json", Message: err.Error()}
	}
	return v, nil
}

func decodeValue(dec *json.Decoder) (value.Value, error) {
	tok, err := dec.Token()
	if err != nil {
		return nil, err
	}
	return decodeToken(dec, tok)
}

func decodeToken(dec *json.Decoder, tok json.Token) (value.Value, error) {
	switch t := tok.(type) {
	case json.Delim:
		switch t {
		case '{':
			var obj value.Object
			for dec.More() {
				keyTok, err := dec.Token()
				if err != nil {
					return nil, err
				}
				key, ok := keyTok.(string)
				if !ok {
					return nil, fmt.Errorf("expected object key, got %v", keyTok)
				}
				v, err := decodeValue(dec)
				if err != nil {
					return nil, err
				}
				obj = obj.Set(key, v)
			}
			if _, err := dec.Token(); err != nil { // consume '}'
				return nil, err
			}
			return obj, nil
		case '[':
			var elems []value.Value
			for dec.More() {
				v, err := decodeValue(dec)
				if err != nil {
					return nil, err
				}
				elems = append(elems, v)
			}
			if _, err := dec.Token(); err != nil { // consume ']'
				return nil, err
			}
			return value.Array(elems), nil
		default:
			return nil, fmt.Errorf("unexpected delimiter %v", t)
		}
	case nil:
		return value.Null{}, nil
	case bool:
		return value.Bool(t), nil
	case string:
		return value.String(t), nil
	case json.Number:
		f, err := strconv.ParseFloat(t.String(), 64)
		if err != nil {
			return nil, err
		}
		return value.Number(f), nil
	default:
		return nil, fmt.Errorf("unsupported JSON token %v", tok)
	}
}

// Dump renders v as JSON text. Bag is rendered as a JSON
// array, since JSON has no native multiset type; Missing is rendered
// as the key simply being absent at the Object level (callers of Dump
// on a bare Missing value get JSON null, consistent with having no
// better representation at the top level).
func (Codec) Dump(v value.Value) ([]byte, error) {
	var buf bytes.Buffer
	if err := encodeValue(&buf, v); err != nil {
		return nil, &perr.FormatError{Format: "json", Message: err.Error()}
	}
	return buf.Bytes(), nil
}

func encodeValue(buf *bytes.Buffer, v value.Value) error {
	switch t := v.(type) {
	case nil:
		buf.WriteString("null")
		return nil
	case value.Null:
		buf.WriteString("null")
		return nil
	case value.Missing:
		buf.WriteString("null")
		return nil
	case value.Bool:
		if t {
			buf.WriteString("true")
		} else {
			buf.WriteString("false")
		}
		return nil
	case value.Number:
		b, err := json.Marshal(float64(t))
		if err != nil {
			return err
		}
		buf.Write(b)
		return nil
	case value.String:
		b, err := json.Marshal(string(t))
		if err != nil {
			return err
		}
		buf.Write(b)
		return nil
	case value.Array:
		return encodeSeq(buf, []value.Value(t))
	case value.Bag:
		return encodeSeq(buf, []value.Value(t))
	case value.Object:
		buf.WriteByte('{')
		first := true
		for _, e := range t {
			if value.IsMissing(e.Value) {
				continue
			}
			if !first {
				buf.WriteByte(',')
			}
			first = false
			kb, err := json.Marshal(e.Key)
			if err != nil {
				return err
			}
			buf.Write(kb)
			buf.WriteByte(':')
			if err := encodeValue(buf, e.Value); err != nil {
				return err
			}
		}
		buf.WriteByte('}')
		return nil
	default:
		return fmt.Errorf("json: unsupported value type %T", v)
	}
}

func encodeSeq(buf *bytes.Buffer, elems []value.Value) error {
	buf.WriteByte('[')
	for i, e := range elems {
		if i > 0 {
			buf.WriteByte(',')
		}
		if err := encodeValue(buf, e); err != nil {
			return err
		}
	}
	buf.WriteByte(']')
	return nil
}
