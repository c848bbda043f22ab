// Package partiql is the public façade: Evaluate, Loads, Dumps and
// Query compose the format, parser, plan and eval packages into the
// four entry points a caller (or cmd/pqlrun) actually needs, rather
// than making callers wire the pieces themselves.
package partiql

import (
	"github.com/roach88/partiqlgo/eval"
	"github.com/roach88/partiqlgo/format"
	fjson "github.com/roach88/partiqlgo/format/json"
	fpql "github.com/roach88/partiqlgo/format/pql"
	ftoml "github.com/roach88/partiqlgo/format/toml"
	fxml "github.com/roach88/partiqlgo/format/xml"
	fyaml "github.com/roach88/partiqlgo/format/yaml"
	"github.com/roach88/partiqlgo/parser"
	"github.com/roach88/partiqlgo/plan"
	"github.com/roach88/partiqlgo/value"
)

// Formats is the registry of every supported format, pre-populated
// so callers don't need to build their own.
var Formats = defaultRegistry()

func defaultRegistry() *format.Registry {
	r := format.NewRegistry()
	r.Register("json", fjson.New())
	r.Register("yaml", fyaml.New())
	r.Register("toml", ftoml.New())
	r.Register("xml", fxml.New())
	r.Register("pql", fpql.New())
	return r
}

// Loads decodes data in the named format into a value.Value.
func Loads(formatName string, data []byte) (value.Value, error) {
	c, ok := Formats.Lookup(formatName)
	if !ok {
		return nil, unknownFormat(formatName)
	}
	return c.Load(data)
}

// Dumps encodes v in the named format.
func Dumps(formatName string, v value.Value) ([]byte, error) {
	c, ok := Formats.Lookup(formatName)
	if !ok {
		return nil, unknownFormat(formatName)
	}
	return c.Dump(v)
}

// Query parses queryText, lowers it to a logical plan, and returns
// the plan without running it -- useful for callers that want to
// inspect or cache a parsed query before evaluating it against
// multiple root documents.
func Query(queryText string) (*plan.Plan, error) {
	q, err := parser.ParseQuery([]byte(queryText))
	if err != nil {
		return nil, err
	}
	return plan.Build(q)
}

// Evaluate parses queryText and runs it against root in one step,
// the common case for a single ad hoc query.
func Evaluate(root value.Value, queryText string) (value.Value, error) {
	p, err := Query(queryText)
	if err != nil {
		return nil, err
	}
	return eval.NewEvaluator().Run(root, p)
}

func unknownFormat(name string) error {
	return &formatNameError{name: name}
}

type formatNameError struct{ name string }

func (e *formatNameError) Error() string {
	return "partiql: unknown format " + e.name
}
