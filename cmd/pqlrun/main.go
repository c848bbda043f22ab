// Copyright (C) 2022 Sneller, Inc.
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// This program is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
// GNU Affero General Public License for more details.
//
// You should have received a copy of the GNU Affero General Public License
// along with this program.  If not, see <http://www.gnu.org/licenses/>.

// Command pqlrun runs one or more queries against one data document,
// reading the query text from -q (or stdin if -q is empty) and the
// data from -f (or stdin if -f is empty; when both are empty the query
// consumes stdin first and the data read from stdin is empty),
// writing results to stdout in -outformat. Flag-based rather than a
// cobra command tree.
//
// With -batch, the query text is treated as multiple `;`-separated
// statements run in turn against the same loaded data; each gets its
// own run id so a failure in one statement can be told apart from
// the others in stderr output, and a failing statement does not stop
// the remaining ones from running.
package main

import (
	"flag"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/google/uuid"

	"github.com/roach88/partiqlgo/partiql"
)

var (
	dashq         string
	dashf         string
	dashInFormat  string
	dashOutFormat string
	dashTrace     bool
	dashBatch     bool
)

func init() {
	flag.StringVar(&dashq, "q", "", "query text (default: read from stdin)")
	flag.StringVar(&dashf, "f", "", "data file to query (default: read from stdin)")
	flag.StringVar(&dashInFormat, "informat", "json", "input data format: json, yaml, toml, xml, pql")
	flag.StringVar(&dashOutFormat, "outformat", "json", "output format: json, yaml, toml, xml, pql")
	flag.BoolVar(&dashTrace, "trace", false, "tag stderr diagnostics with a run id")
	flag.BoolVar(&dashBatch, "batch", false, "treat -q/stdin as `;`-separated queries run in turn")
}

func diagf(runID, f string, args ...interface{}) {
	if runID != "" {
		f = "[" + runID + "] " + f
	}
	fmt.Fprintf(os.Stderr, f, args...)
}

func main() {
	flag.Parse()

	exitf := func(f string, args ...interface{}) {
		diagf("", f, args...)
		os.Exit(1)
	}

	query := dashq
	if query == "" {
		b, err := io.ReadAll(os.Stdin)
		if err != nil {
			exitf("reading query from stdin: %s\n", err)
		}
		query = string(b)
	}

	var data []byte
	if dashf != "" {
		b, err := os.ReadFile(dashf)
		if err != nil {
			exitf("reading %s: %s\n", dashf, err)
		}
		data = b
	} else {
		b, err := io.ReadAll(os.Stdin)
		if err != nil {
			exitf("reading data from stdin: %s\n", err)
		}
		data = b
	}

	root, err := partiql.Loads(dashInFormat, data)
	if err != nil {
		exitf("decoding %s input: %s\n", dashInFormat, err)
	}

	queries := []string{query}
	if dashBatch {
		queries = splitStatements(query)
	}

	failed := false
	for _, q := range queries {
		runID := ""
		if dashTrace || dashBatch {
			runID = uuid.NewString()
		}

		result, err := partiql.Evaluate(root, q)
		if err != nil {
			diagf(runID, "evaluating query: %s\n", err)
			failed = true
			continue
		}

		out, err := partiql.Dumps(dashOutFormat, result)
		if err != nil {
			diagf(runID, "encoding %s output: %s\n", dashOutFormat, err)
			failed = true
			continue
		}
		os.Stdout.Write(out)
		if dashOutFormat != "pql" {
			fmt.Println()
		}
	}
	if failed {
		os.Exit(1)
	}
}

// splitStatements splits text on top-level `;` separators, skipping
// any that are blank after trimming so a trailing separator or blank
// lines between statements don't produce empty queries.
func splitStatements(text string) []string {
	parts := strings.Split(text, ";")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p != "" {
			out = append(out, p)
		}
	}
	return out
}
