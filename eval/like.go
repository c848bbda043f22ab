package eval

import (
	"regexp"
	"strings"
)

// compileLike translates a PartiQL-style LIKE pattern ('%' = any run
// of characters, '_' = exactly one character) into an anchored
// regexp, matching the usual SQL LIKE semantics used by the
// restriction engine's predicate grammar. There is no escape syntax:
// every '%' and '_' in the pattern is a wildcard.
func compileLike(pattern string) (*regexp.Regexp, error) {
	var b strings.Builder
	b.WriteString("^")
	for i := 0; i < len(pattern); i++ {
		c := pattern[i]
		switch c {
		case '%':
			b.WriteString(".*")
		case '_':
			b.WriteString(".")
		default:
			b.WriteString(regexp.QuoteMeta(string(c)))
		}
	}
	b.WriteString("$")
	return regexp.Compile("(?s)" + b.String())
}
