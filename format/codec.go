// Package format defines the shared Codec interface for loading and
// dumping value.Value trees in a particular wire format, plus a
// small Registry keyed by format name so that cmd/pqlrun and package
// partiql can resolve a format by its -informat/-outformat flag
// value.
package format

import "github.com/roach88/partiqlgo/value"

// Codec converts between value.Value and one external wire format.
type Codec interface {
	Load(data []byte) (value.Value, error)
	Dump(v value.Value) ([]byte, error)
}

// Registry resolves a Codec by format name.
type Registry struct {
	codecs map[string]Codec
}

// NewRegistry builds an empty Registry; formats are added with
// Register (package partiql registers json, yaml, toml, xml and pql).
func NewRegistry() *Registry {
	return &Registry{codecs: make(map[string]Codec)}
}

// Register adds or replaces the codec for name.
func (r *Registry) Register(name string, c Codec) {
	r.codecs[name] = c
}

// Lookup returns the codec registered for name, or (nil, false).
func (r *Registry) Lookup(name string) (Codec, bool) {
	c, ok := r.codecs[name]
	return c, ok
}

// Names returns the registered format names, for usage/diagnostic text.
func (r *Registry) Names() []string {
	out := make([]string, 0, len(r.codecs))
	for n := range r.codecs {
		out = append(out, n)
	}
	return out
}
