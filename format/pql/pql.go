// Package pql implements format.Codec for the engine's own literal
// value IR: the same grammar package parser.ParseValue accepts, and
// the same textual form value.Value.String() produces. This is the
// format used when data is supplied inline as PartiQL IR text rather
// than JSON/YAML/TOML/XML.
package pql

import (
	"github.com/roach88/partiqlgo/internal/perr"
	"github.com/roach88/partiqlgo/parser"
	"github.com/roach88/partiqlgo/value"
)

// Codec is the PartiQL-IR format.Codec implementation.
type Codec struct{}

// New constructs a Codec.
func New() *Codec { return &Codec{} }

// Load parses data using the literal-value grammar.
func (Codec) Load(data []byte) (value.Value, error) {
	v, err := parser.ParseValue(data)
	if err != nil {
		return nil, &perr.FormatError{Format: "pql", Message: err.Error()}
	}
	return v, nil
}

// Dump renders v using its default print() form.
func (Codec) Dump(v value.Value) ([]byte, error) {
	return []byte(v.String()), nil
}
