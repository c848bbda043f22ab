// Package parser implements the query parser and the literal-value
// parser for the PartiQL IR: a hand-written recursive-descent parser
// over the scanner in scanner.go, combinator style in spirit (each
// grammar production is one method) but without a parser-combinator
// library, hand-writing its own lexer rather than depending on one.
package parser

import (
	"fmt"
	"strings"

	"github.com/roach88/partiqlgo/ast"
	"github.com/roach88/partiqlgo/internal/perr"
	"github.com/roach88/partiqlgo/value"
)

// Parser holds one-token lookahead over a scanner.
type Parser struct {
	sc  *scanner
	tok token
	err error
}

func newParser(src []byte) (*Parser, error) {
	p := &Parser{sc: newScanner(src)}
	if err := p.advance(); err != nil {
		return nil, err
	}
	return p, nil
}

func (p *Parser) advance() error {
	t, err := p.sc.next()
	if err != nil {
		return err
	}
	p.tok = t
	return nil
}

func (p *Parser) errorf(format string, args ...interface{}) error {
	return &perr.ParseError{Pos: p.sc.position(p.tok.pos), Message: fmt.Sprintf(format, args...)}
}

// atKeyword reports whether the current token is an identifier
// matching kw case-insensitively. Keywords are case-insensitive.
func (p *Parser) atKeyword(kw string) bool {
	return p.tok.kind == tIdent && strings.EqualFold(p.tok.text, kw)
}

// atKeywords reports whether the current and following tokens spell
// out a multi-word keyword like "LEFT JOIN" or "ORDER BY", without
// consuming input.
func (p *Parser) atKeywords(kws ...string) bool {
	save := *p.sc
	saveTok := p.tok
	ok := true
	for i, kw := range kws {
		if i > 0 {
			if err := p.advance(); err != nil {
				ok = false
				break
			}
		}
		if !p.atKeyword(kw) {
			ok = false
			break
		}
	}
	*p.sc = save
	p.tok = saveTok
	return ok
}

func (p *Parser) expectKeyword(kw string) error {
	if !p.atKeyword(kw) {
		return p.errorf("expected %s, got %q", kw, p.tok.text)
	}
	return p.advance()
}

func (p *Parser) expectPunct(s string) error {
	if p.tok.kind != tPunct || p.tok.text != s {
		return p.errorf("expected %q, got %q", s, p.tok.text)
	}
	return p.advance()
}

func (p *Parser) atPunct(s string) bool {
	return p.tok.kind == tPunct && p.tok.text == s
}

// ParseQuery parses a single PartiQL SELECT-FROM-WHERE query.
func ParseQuery(src []byte) (*ast.Query, error) {
	p, err := newParser(src)
	if err != nil {
		return nil, err
	}
	q, err := p.parseQuery()
	if err != nil {
		return nil, err
	}
	if p.tok.kind != tEOF {
		return nil, p.errorf("unexpected trailing input %q", p.tok.text)
	}
	return q, nil
}

func (p *Parser) parseQuery() (*ast.Query, error) {
	if err := p.expectKeyword("SELECT"); err != nil {
		return nil, err
	}
	proj, err := p.parseProjList()
	if err != nil {
		return nil, err
	}
	if err := p.expectKeyword("FROM"); err != nil {
		return nil, err
	}
	from, err := p.parseFromList(false)
	if err != nil {
		return nil, err
	}
	q := &ast.Query{Project: proj, From: from}

	if p.atKeywords("LEFT", "JOIN") {
		if err := p.advance(); err != nil { // consume LEFT
			return nil, err
		}
		if err := p.advance(); err != nil { // consume JOIN
			return nil, err
		}
		joined, err := p.parseFromList(true)
		if err != nil {
			return nil, err
		}
		q.From = append(q.From, joined...)
	}

	if p.atKeyword("WHERE") {
		if err := p.advance(); err != nil {
			return nil, err
		}
		pred, err := p.parsePredicate()
		if err != nil {
			return nil, err
		}
		q.Where = pred
	}

	if p.atKeywords("ORDER", "BY") {
		if err := p.advance(); err != nil {
			return nil, err
		}
		if err := p.advance(); err != nil {
			return nil, err
		}
		if p.tok.kind != tIdent {
			return nil, p.errorf("expected identifier after ORDER BY, got %q", p.tok.text)
		}
		label := p.tok.text
		if err := p.advance(); err != nil {
			return nil, err
		}
		dir := ast.Ascending
		if p.atKeyword("ASC") {
			if err := p.advance(); err != nil {
				return nil, err
			}
		} else if p.atKeyword("DESC") {
			dir = ast.Descending
			if err := p.advance(); err != nil {
				return nil, err
			}
		}
		q.OrderBy = &ast.OrderBy{Label: label, Direction: dir}
	}

	if p.atKeyword("LIMIT") {
		if err := p.advance(); err != nil {
			return nil, err
		}
		if p.tok.kind != tNumber {
			return nil, p.errorf("expected integer after LIMIT, got %q", p.tok.text)
		}
		count := int(p.tok.num)
		if err := p.advance(); err != nil {
			return nil, err
		}
		offset := 0
		if p.atKeyword("OFFSET") {
			if err := p.advance(); err != nil {
				return nil, err
			}
			if p.tok.kind != tNumber {
				return nil, p.errorf("expected integer after OFFSET, got %q", p.tok.text)
			}
			offset = int(p.tok.num)
			if err := p.advance(); err != nil {
				return nil, err
			}
		}
		q.Limit = &ast.Limit{Count: count, Offset: offset}
	}

	return q, nil
}

func (p *Parser) parseProjList() ([]ast.Field, error) {
	var fields []ast.Field
	for {
		f, err := p.parseProjItem()
		if err != nil {
			return nil, err
		}
		fields = append(fields, f)
		if p.atPunct(",") {
			if err := p.advance(); err != nil {
				return nil, err
			}
			continue
		}
		break
	}
	return fields, nil
}

// parseProjItem parses "expr (AS ident)?", plus the "*" extension
// that projects the bound FROM alias itself rather than one of its
// fields.
func (p *Parser) parseProjItem() (ast.Field, error) {
	if p.atPunct("*") {
		if err := p.advance(); err != nil {
			return ast.Field{}, err
		}
		return ast.Field{Expr: ast.SelectorExpr{Path: nil}}, nil
	}
	e, err := p.parseExpr()
	if err != nil {
		return ast.Field{}, err
	}
	alias := ""
	if p.atKeyword("AS") {
		if err := p.advance(); err != nil {
			return ast.Field{}, err
		}
		if p.tok.kind != tIdent {
			return ast.Field{}, p.errorf("expected identifier after AS, got %q", p.tok.text)
		}
		alias = p.tok.text
		if err := p.advance(); err != nil {
			return ast.Field{}, err
		}
	}
	return ast.Field{Expr: e, Alias: alias}, nil
}

func (p *Parser) parseFromList(left bool) ([]ast.FromItem, error) {
	var items []ast.FromItem
	for {
		item, err := p.parseFromItem(left)
		if err != nil {
			return nil, err
		}
		items = append(items, item)
		if p.atPunct(",") {
			if err := p.advance(); err != nil {
				return nil, err
			}
			continue
		}
		break
	}
	return items, nil
}

func (p *Parser) parseFromItem(left bool) (ast.FromItem, error) {
	e, err := p.parseExpr()
	if err != nil {
		return ast.FromItem{}, err
	}
	alias := ""
	if p.atKeyword("AS") {
		if err := p.advance(); err != nil {
			return ast.FromItem{}, err
		}
		if p.tok.kind != tIdent {
			return ast.FromItem{}, p.errorf("expected identifier after AS, got %q", p.tok.text)
		}
		alias = p.tok.text
		if err := p.advance(); err != nil {
			return ast.FromItem{}, err
		}
	} else if p.tok.kind == tIdent && !isReservedHere(p.tok.text) {
		// implicit alias: "hr.employees e" (no AS)
		alias = p.tok.text
		if err := p.advance(); err != nil {
			return ast.FromItem{}, err
		}
	}
	return ast.FromItem{Expr: e, Alias: alias, Left: left}, nil
}

// isReservedHere reports whether word is a keyword that can
// legitimately follow a FROM item, and therefore must NOT be
// swallowed as an implicit alias.
func isReservedHere(word string) bool {
	switch strings.ToUpper(word) {
	case "WHERE", "LEFT", "ORDER", "LIMIT", "AS":
		return true
	default:
		return false
	}
}

func (p *Parser) parsePredicate() (ast.Predicate, error) {
	e, err := p.parseExpr()
	if err != nil {
		return nil, err
	}
	switch {
	case p.atPunct("="):
		if err := p.advance(); err != nil {
			return nil, err
		}
		v, err := p.parseLiteralValue()
		if err != nil {
			return nil, err
		}
		return ast.Eq{Expr: e, Value: v}, nil
	case p.atKeyword("LIKE"):
		if err := p.advance(); err != nil {
			return nil, err
		}
		if p.tok.kind != tString {
			return nil, p.errorf("expected string literal after LIKE, got %q", p.tok.text)
		}
		pattern := p.tok.text
		if err := p.advance(); err != nil {
			return nil, err
		}
		return ast.Like{Expr: e, Pattern: pattern}, nil
	default:
		return nil, p.errorf("expected = or LIKE in WHERE clause, got %q", p.tok.text)
	}
}

// parseExpr / parseTerm / parseFactor implement the precedence
// climb: + - bind loosest, then * / %, then ^ tightest and
// right-associative, e.g. "1 * 2 + 3 / 4 ^ 6" = (1*2) + (3/(4^6)).
func (p *Parser) parseExpr() (ast.Expr, error) {
	left, err := p.parseTerm()
	if err != nil {
		return nil, err
	}
	for p.atPunct("+") || p.atPunct("-") {
		op := ast.Add
		if p.tok.text == "-" {
			op = ast.Sub
		}
		if err := p.advance(); err != nil {
			return nil, err
		}
		right, err := p.parseTerm()
		if err != nil {
			return nil, err
		}
		left = ast.Binop{Op: op, Left: left, Right: right}
	}
	return left, nil
}

func (p *Parser) parseTerm() (ast.Expr, error) {
	left, err := p.parseFactor()
	if err != nil {
		return nil, err
	}
	for p.atPunct("*") || p.atPunct("/") || p.atPunct("%") {
		var op ast.BinOp
		switch p.tok.text {
		case "*":
			op = ast.Mul
		case "/":
			op = ast.Div
		case "%":
			op = ast.Rem
		}
		if err := p.advance(); err != nil {
			return nil, err
		}
		right, err := p.parseFactor()
		if err != nil {
			return nil, err
		}
		left = ast.Binop{Op: op, Left: left, Right: right}
	}
	return left, nil
}

func (p *Parser) parseFactor() (ast.Expr, error) {
	left, err := p.parsePrimary()
	if err != nil {
		return nil, err
	}
	if p.atPunct("^") {
		if err := p.advance(); err != nil {
			return nil, err
		}
		right, err := p.parseFactor() // right-associative
		if err != nil {
			return nil, err
		}
		return ast.Binop{Op: ast.Exp, Left: left, Right: right}, nil
	}
	return left, nil
}

func (p *Parser) parsePrimary() (ast.Expr, error) {
	switch {
	case p.tok.kind == tNumber:
		n := p.tok.num
		if err := p.advance(); err != nil {
			return nil, err
		}
		return ast.Literal{Value: value.Number(n)}, nil
	case p.tok.kind == tString:
		s := p.tok.text
		if err := p.advance(); err != nil {
			return nil, err
		}
		return ast.Literal{Value: value.String(s)}, nil
	case p.atPunct("("):
		if err := p.advance(); err != nil {
			return nil, err
		}
		if p.atKeyword("SELECT") {
			q, err := p.parseQuery()
			if err != nil {
				return nil, err
			}
			if err := p.expectPunct(")"); err != nil {
				return nil, err
			}
			return ast.Subquery{Plan: DeferredPlan{Query: q}}, nil
		}
		e, err := p.parseExpr()
		if err != nil {
			return nil, err
		}
		if err := p.expectPunct(")"); err != nil {
			return nil, err
		}
		return e, nil
	case p.atKeyword("COUNT"):
		if err := p.advance(); err != nil {
			return nil, err
		}
		if err := p.expectPunct("("); err != nil {
			return nil, err
		}
		arg, err := p.parseExpr()
		if err != nil {
			return nil, err
		}
		if err := p.expectPunct(")"); err != nil {
			return nil, err
		}
		return ast.Call{Name: ast.FuncCount, Arg: arg}, nil
	case p.atKeyword("NULL"):
		if err := p.advance(); err != nil {
			return nil, err
		}
		return ast.Literal{Value: value.Null{}}, nil
	case p.atKeyword("MISSING"):
		if err := p.advance(); err != nil {
			return nil, err
		}
		return ast.Literal{Value: value.Missing{}}, nil
	case p.tok.kind == tIdent:
		return p.parsePath()
	default:
		return nil, p.errorf("unexpected token %q", p.tok.text)
	}
}

// parsePath parses "ident (\".\" ident | \"[\" integer \"]\")*"
// into a SelectorExpr.
func (p *Parser) parsePath() (ast.Expr, error) {
	if p.tok.kind != tIdent {
		return nil, p.errorf("expected identifier, got %q", p.tok.text)
	}
	sel := value.Selector{value.FieldSeg(p.tok.text)}
	if err := p.advance(); err != nil {
		return nil, err
	}
	for {
		switch {
		case p.atPunct("."):
			if err := p.advance(); err != nil {
				return nil, err
			}
			if p.tok.kind != tIdent {
				return nil, p.errorf("expected identifier after '.', got %q", p.tok.text)
			}
			sel = append(sel, value.FieldSeg(p.tok.text))
			if err := p.advance(); err != nil {
				return nil, err
			}
		case p.atPunct("["):
			if err := p.advance(); err != nil {
				return nil, err
			}
			if p.atPunct("*") {
				sel = append(sel, value.WildcardSeg())
				if err := p.advance(); err != nil {
					return nil, err
				}
			} else {
				if p.tok.kind != tNumber {
					return nil, p.errorf("expected integer index, got %q", p.tok.text)
				}
				sel = append(sel, value.IndexSeg(int(p.tok.num)))
				if err := p.advance(); err != nil {
					return nil, err
				}
			}
			if err := p.expectPunct("]"); err != nil {
				return nil, err
			}
		default:
			return ast.SelectorExpr{Path: sel}, nil
		}
	}
}

// DeferredPlan defers logical-plan construction for a subquery until
// plan.Build walks the tree (plan.Build replaces every DeferredPlan
// with a *plan.Plan); parser cannot import package plan directly
// without an import cycle (plan imports parser), so it stashes the
// raw ast.Query instead.
type DeferredPlan struct {
	Query *ast.Query
}

func (DeferredPlan) Describe() string { return "deferred-subquery" }
