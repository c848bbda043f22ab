// Package xml implements format.Codec for XML using the standard
// library's encoding/xml (documented as a deliberate stdlib choice
// in DESIGN.md).
//
// XML has no native array/object/bag distinction the way JSON does,
// so the mapping is: an Object becomes an element whose children are
// named after its keys; repeated children with the same tag name
// become an Array; a leaf element's character data becomes a
// scalar, parsed as a number when it looks like one, else a string.
// Dump always wraps the top-level value in a synthetic <root> element
// since XML documents require exactly one root.
package xml

import (
	"bytes"
	"encoding/xml"
	"strconv"

	"github.com/roach88/partiqlgo/internal/perr"
	"github.com/roach88/partiqlgo/value"
)

// Codec is the XML format.Codec implementation.
type Codec struct{}

// New constructs a Codec.
func New() *Codec { return &Codec{} }

// Load parses data as an XML document.
func (Codec) Load(data []byte) (value.Value, error) {
	dec := xml.NewDecoder(bytes.NewReader(data))
	v, err := decodeElement(dec)
	if err != nil {
		return nil, &perr.FormatError{Format: "xml", Message: err.Error()}
	}
	return v, nil
}

// decodeElement reads tokens until it has consumed exactly one
// top-level element (the <root> wrapper, or whatever the caller's
// document uses) and returns its decoded contents.
func decodeElement(dec *xml.Decoder) (value.Value, error) {
	for {
		tok, err := dec.Token()
		if err != nil {
			return nil, err
		}
		if start, ok := tok.(xml.StartElement); ok {
			return decodeChildren(dec, start)
		}
	}
}

func decodeChildren(dec *xml.Decoder, start xml.StartElement) (value.Value, error) {
	var obj value.Object
	var text bytes.Buffer
	for {
		tok, err := dec.Token()
		if err != nil {
			return nil, err
		}
		switch t := tok.(type) {
		case xml.StartElement:
			child, err := decodeChildren(dec, t)
			if err != nil {
				return nil, err
			}
			obj = appendChild(obj, t.Name.Local, child)
		case xml.CharData:
			text.Write(t)
		case xml.EndElement:
			if len(obj) > 0 {
				return obj, nil
			}
			return scalarFromText(text.String()), nil
		}
	}
}

// appendChild adds key/child to obj, turning a second occurrence of
// the same key into (or extending) an Array so repeated sibling
// elements round-trip as a collection.
func appendChild(obj value.Object, key string, child value.Value) value.Object {
	existing, ok := obj.Get(key)
	if !ok {
		return obj.Set(key, child)
	}
	if arr, ok := existing.(value.Array); ok {
		return obj.Set(key, append(arr, child))
	}
	return obj.Set(key, value.Array{existing, child})
}

func scalarFromText(s string) value.Value {
	trimmed := trimSpace(s)
	if trimmed == "" {
		return value.Null{}
	}
	if f, err := strconv.ParseFloat(trimmed, 64); err == nil {
		return value.Number(f)
	}
	return value.String(trimmed)
}

func trimSpace(s string) string {
	start, end := 0, len(s)
	for start < end && isSpace(s[start]) {
		start++
	}
	for end > start && isSpace(s[end-1]) {
		end--
	}
	return s[start:end]
}

func isSpace(c byte) bool { return c == ' ' || c == '\t' || c == '\n' || c == '\r' }

// Dump renders v as XML text, wrapped in a <root> element.
func (Codec) Dump(v value.Value) ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteString(xml.Header)
	enc := xml.NewEncoder(&buf)
	if err := encodeElement(enc, "root", v); err != nil {
		return nil, &perr.FormatError{Format: "xml", Message: err.Error()}
	}
	if err := enc.Flush(); err != nil {
		return nil, &perr.FormatError{Format: "xml", Message: err.Error()}
	}
	return buf.Bytes(), nil
}

func encodeElement(enc *xml.Encoder, tag string, v value.Value) error {
	start := xml.StartElement{Name: xml.Name{Local: tag}}
	switch t := v.(type) {
	case value.Object:
		if err := enc.EncodeToken(start); err != nil {
			return err
		}
		for _, e := range t {
			if err := encodeElement(enc, e.Key, e.Value); err != nil {
				return err
			}
		}
		return enc.EncodeToken(start.End())
	case value.Array:
		return encodeRepeated(enc, tag, []value.Value(t))
	case value.Bag:
		return encodeRepeated(enc, tag, []value.Value(t))
	default:
		if err := enc.EncodeToken(start); err != nil {
			return err
		}
		if err := enc.EncodeToken(xml.CharData(scalarText(t))); err != nil {
			return err
		}
		return enc.EncodeToken(start.End())
	}
}

func encodeRepeated(enc *xml.Encoder, tag string, elems []value.Value) error {
	for _, e := range elems {
		if err := encodeElement(enc, tag, e); err != nil {
			return err
		}
	}
	return nil
}

func scalarText(v value.Value) string {
	switch t := v.(type) {
	case value.Null, value.Missing:
		return ""
	case value.Bool:
		if t {
			return "true"
		}
		return "false"
	case value.Number:
		return t.String()
	case value.String:
		return string(t)
	default:
		return ""
	}
}
