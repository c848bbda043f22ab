// Package plan lowers a parsed ast.Query into a logical plan: an
// ordered list of drains (unnest steps), an optional filter, a
// projection, and optional ORDER BY / LIMIT clauses.
package plan

import (
	"fmt"

	"github.com/roach88/partiqlgo/ast"
	"github.com/roach88/partiqlgo/parser"
	"github.com/roach88/partiqlgo/value"
)

// Drain is one unnest step: evaluate Expr (typically a selector) to
// obtain a collection, then bind Alias to it for the remainder of the
// plan.
type Drain struct {
	Expr  ast.Expr
	Alias string
	// Left marks an unmatched-side-yields-Missing join, as opposed
	// to an inner-join drain that simply produces no rows for an
	// alias with nothing to bind.
	Left bool
}

// Plan is the lowered form of one SELECT.
type Plan struct {
	Drains  []Drain
	Filter  ast.Predicate // nil if absent
	Project []ast.Field
	OrderBy *ast.OrderBy
	Limit   *ast.Limit
}

// Describe implements ast.PlanLike with a short debug summary of the
// plan.
func (p *Plan) Describe() string {
	return fmt.Sprintf("plan(drains=%d, project=%d)", len(p.Drains), len(p.Project))
}

// Build lowers q into a Plan. Each FROM/LEFT JOIN item becomes
// a Drain in source order; the WHERE predicate becomes Filter;
// projection items become Project; ORDER BY/LIMIT are copied
// verbatim.
func Build(q *ast.Query) (*Plan, error) {
	r := &subqueryResolver{}

	p := &Plan{
		OrderBy: q.OrderBy,
		Limit:   q.Limit,
	}
	for _, item := range q.From {
		alias := item.Alias
		if alias == "" {
			alias = inferAlias(item.Expr)
			if alias == "" {
				return nil, fmt.Errorf("plan: FROM item has no alias and none could be inferred")
			}
		}
		p.Drains = append(p.Drains, Drain{Expr: ast.Rewrite(r, item.Expr), Alias: alias, Left: item.Left})
	}
	for _, f := range q.Project {
		p.Project = append(p.Project, ast.Field{Expr: ast.Rewrite(r, f.Expr), Alias: f.Alias})
	}
	if q.Where != nil {
		filter, err := rewritePredicate(r, q.Where)
		if err != nil {
			return nil, err
		}
		p.Filter = filter
	}
	if r.err != nil {
		return nil, r.err
	}
	return p, nil
}

// rewritePredicate resolves any subquery embedded in a WHERE
// predicate's expression operand.
func rewritePredicate(r *subqueryResolver, pred ast.Predicate) (ast.Predicate, error) {
	switch t := pred.(type) {
	case ast.Eq:
		return ast.Eq{Expr: ast.Rewrite(r, t.Expr), Value: t.Value}, r.err
	case ast.Like:
		return ast.Like{Expr: ast.Rewrite(r, t.Expr), Pattern: t.Pattern}, r.err
	default:
		return pred, nil
	}
}

// subqueryResolver walks a freshly parsed expression tree and
// replaces every parser.DeferredPlan (the raw *ast.Query a subquery
// parsed to, see parser.parsePrimary) with a fully built *plan.Plan,
// recursively. This is where the parser/plan package boundary is
// actually crossed: parser cannot import plan (plan already imports
// ast, and importing plan from parser would cycle back through here),
// so subquery lowering happens lazily, on first Build.
type subqueryResolver struct {
	err error
}

func (r *subqueryResolver) Walk(ast.Expr) ast.Rewriter { return r }

func (r *subqueryResolver) Rewrite(e ast.Expr) ast.Expr {
	sq, ok := e.(ast.Subquery)
	if !ok {
		return e
	}
	dp, ok := sq.Plan.(parser.DeferredPlan)
	if !ok {
		return e // already resolved (defensive; Build is not re-entrant on a Plan)
	}
	sub, err := Build(dp.Query)
	if err != nil && r.err == nil {
		r.err = err
		return e
	}
	return ast.Subquery{Plan: sub}
}

// inferAlias derives an implicit alias from a FROM item's expression
// when none was given via AS: the last segment of a selector path.
func inferAlias(e ast.Expr) string {
	sel, ok := e.(ast.SelectorExpr)
	if !ok || len(sel.Path) == 0 {
		return ""
	}
	last := sel.Path[len(sel.Path)-1]
	if last.IsIndex || last.Wildcard {
		return ""
	}
	return last.Field
}

// selectorOf extracts the value.Selector embedded in a FROM-drain's
// expression, if it is a plain SelectorExpr. Non-selector FROM items
// (e.g. a literal document or a subquery) are also valid per the
// grammar ("fromItem := expr ..."); the evaluator handles those by
// evaluating the expression directly instead of navigating a path.
func selectorOf(e ast.Expr) (value.Selector, bool) {
	sel, ok := e.(ast.SelectorExpr)
	if !ok {
		return nil, false
	}
	return sel.Path, true
}

// SelectorOf is the exported form of selectorOf, used by package eval.
func SelectorOf(e ast.Expr) (value.Selector, bool) {
	return selectorOf(e)
}
