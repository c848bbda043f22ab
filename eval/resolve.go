package eval

import (
	"github.com/roach88/partiqlgo/env"
	"github.com/roach88/partiqlgo/internal/perr"
	"github.com/roach88/partiqlgo/plan"
	"github.com/roach88/partiqlgo/value"
)

// resolveSelector evaluates sel against e, handling three cases:
//
//  1. sel's head segment names a known (pushed) alias: look it up and
//     navigate the remainder through it (distribution applies).
//  2. No alias has been pushed yet (this is the very first reference
//     in the query, almost always the first FROM item): if the root is
//     an Object with a field named by the head segment, the full
//     selector navigates the root from that field. Otherwise the head
//     segment is taken to be the caller's own name for the implicit
//     root value, so it is stripped and the remainder navigates the
//     root directly.
//  3. Otherwise, as a last resort, the full selector (head included)
//     is tried directly against the root's own fields -- this lets a
//     selector that never named an alias at all (rare, but legal per
//     the grammar) still resolve.
//
// If none of these apply, the selector's root is unresolved and this
// is fatal.
func resolveSelector(e *env.Env, sel value.Selector) (value.Value, error) {
	if len(sel) == 0 {
		return e.Root(), nil
	}
	head := sel[0]
	if head.IsIndex || head.Wildcard {
		return value.SelectBySelector(e.Root(), sel), nil
	}
	if v, ok := e.Lookup(head.Field); ok {
		return value.SelectBySelector(v, sel[1:]), nil
	}
	if len(e.Aliases()) == 0 {
		if obj, ok := e.Root().(value.Object); ok {
			if _, present := obj.Get(head.Field); present {
				return value.SelectBySelector(e.Root(), sel), nil
			}
		}
		return value.SelectBySelector(e.Root(), sel[1:]), nil
	}
	if obj, ok := e.Root().(value.Object); ok {
		if _, present := obj.Get(head.Field); present {
			return value.SelectBySelector(e.Root(), sel), nil
		}
	}
	return nil, &perr.UnresolvedAliasError{Alias: head.Field}
}

// chainToOutermost rewrites sel (already alias-headed, e.g.
// ["p","name"]) into an equivalent selector relative to p's
// drain chain, walking back through intermediate drains until it
// reaches the outermost (first) drain's alias, or until the chain
// cannot be followed further (the alias wasn't itself defined purely
// as "<earlier-alias>.<path>", e.g. it came from a literal or a
// subquery). Used by the restriction engine to prune the whole
// driving collection rather than just the immediately-referenced
// alias, satisfying "restriction preserves ancestors" even when the
// WHERE clause names a deeply-nested alias.
//
// Returns the alias whose bound value the caller should restrict,
// and the selector (relative to that alias's value) to restrict
// along.
func chainToOutermost(p *plan.Plan, sel value.Selector) (string, value.Selector) {
	if len(sel) == 0 {
		return "", sel
	}
	alias := sel[0].Field
	suffix := sel[1:]
	if len(p.Drains) == 0 {
		return alias, suffix
	}
	outermost := p.Drains[0].Alias
	for alias != outermost {
		d := findDrain(p, alias)
		if d == nil {
			break
		}
		selExpr, ok := plan.SelectorOf(d.Expr)
		if !ok || len(selExpr) == 0 {
			break
		}
		if selExpr[0].IsIndex || selExpr[0].Wildcard {
			break
		}
		newSuffix := make(value.Selector, 0, len(selExpr)-1+len(suffix))
		newSuffix = append(newSuffix, selExpr[1:]...)
		newSuffix = append(newSuffix, suffix...)
		suffix = newSuffix
		alias = selExpr[0].Field
	}
	return alias, suffix
}

func findDrain(p *plan.Plan, alias string) *plan.Drain {
	for i := range p.Drains {
		if p.Drains[i].Alias == alias {
			return &p.Drains[i]
		}
	}
	return nil
}

// isLeftAlias reports whether alias was introduced by a LEFT JOIN
// drain: an empty candidate list for a field that flows
// through such an alias keeps its row (bound to Missing) instead of
// eliminating it, the way a plain inner FROM/comma drain would.
func isLeftAlias(p *plan.Plan, alias string) bool {
	d := findDrain(p, alias)
	return d != nil && d.Left
}
