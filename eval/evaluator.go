// Package eval implements the evaluator: it drives a logical
// plan.Plan to completion against a bound root value, applying the
// restriction engine and the columnar-to-row-wise transposition in
// between.
package eval

import (
	"golang.org/x/exp/slices"

	"github.com/roach88/partiqlgo/ast"
	"github.com/roach88/partiqlgo/env"
	"github.com/roach88/partiqlgo/plan"
	"github.com/roach88/partiqlgo/value"
)

// Evaluator runs logical plans. It carries no state of its own;
// every run gets a fresh env.Env, since the environment stack is
// owned by one evaluator instance and is not shared.
type Evaluator struct{}

// NewEvaluator constructs an Evaluator.
func NewEvaluator() *Evaluator { return &Evaluator{} }

// Run evaluates p against root and returns the query result: a Bag
// of Objects, ordered and limited as the plan specifies.
func (ev *Evaluator) Run(root value.Value, p *plan.Plan) (value.Value, error) {
	e := env.New(root)
	return ev.runPlan(e, p)
}

// runCorrelated re-runs p against the caller's existing environment
// e, rather than a fresh one, so the subquery's own FROM/WHERE can see
// whatever aliases the outer query already bound. Any frame it pushes
// is popped again before returning.
func (ev *Evaluator) runCorrelated(e *env.Env, p *plan.Plan) (value.Value, error) {
	return ev.runPlan(e, p)
}

func (ev *Evaluator) runPlan(e *env.Env, p *plan.Plan) (value.Value, error) {
	pushed, err := ev.pushDrains(e, p)
	defer func() {
		for i := 0; i < pushed; i++ {
			e.Pop()
		}
	}()
	if err != nil {
		return nil, err
	}
	if p.Filter != nil {
		if err := ev.applyFilter(e, p); err != nil {
			return nil, err
		}
	}
	fields, err := ev.buildColumnar(e, p)
	if err != nil {
		return nil, err
	}
	bag := transpose(fields)
	bag = applyOrderBy(bag, p.OrderBy)
	bag = applyLimit(bag, p.Limit)
	return bag, nil
}

// pushDrains evaluates and pushes one frame per drain, in order. It
// returns the number of frames successfully pushed so the caller can
// unwind exactly that many even on error.
func (ev *Evaluator) pushDrains(e *env.Env, p *plan.Plan) (int, error) {
	n := 0
	for _, d := range p.Drains {
		v, err := ev.evalExpr(e, d.Expr)
		if err != nil {
			return n, err
		}
		e.Push(d.Alias, v)
		n++
	}
	return n, nil
}

// applyFilter prunes the driving collection referenced by the WHERE
// predicate using the restriction engine, preserving ancestors, then
// re-evaluates every later drain so bindings derived from the pruned
// alias stay consistent.
//
// When the predicate's operand is not a plain selector (rare; the
// grammar permits arbitrary expr operands but every exercised use is
// a selector), there is no collection to structurally prune, so the
// predicate is evaluated once and either leaves the plan untouched or
// empties the outermost drain's binding entirely -- the only
// sensible fallback for a condition that isn't anchored to a path.
func (ev *Evaluator) applyFilter(e *env.Env, p *plan.Plan) error {
	predFn, err := compilePredicate(p.Filter)
	if err != nil {
		return err
	}
	innerExpr := predicateExpr(p.Filter)

	selExpr, ok := innerExpr.(ast.SelectorExpr)
	if !ok {
		v, err := ev.evalExpr(e, innerExpr)
		if err != nil {
			return err
		}
		if !predFn(v) && len(p.Drains) > 0 {
			e.Replace(p.Drains[0].Alias, emptyLike(mustLookup(e, p.Drains[0].Alias)))
			return ev.recascade(e, p, 0)
		}
		return nil
	}

	sel := e.ExpandFullpath(selExpr.Path)
	if len(sel) == 0 {
		return nil
	}
	alias, relSel := chainToOutermost(p, sel)
	target, ok := e.Lookup(alias)
	if !ok {
		return nil
	}
	newVal, _ := restrict(target, relSel, predFn)
	e.Replace(alias, newVal)

	idx := -1
	for i, d := range p.Drains {
		if d.Alias == alias {
			idx = i
			break
		}
	}
	if idx < 0 {
		return nil
	}
	return ev.recascade(e, p, idx)
}

// recascade re-evaluates every drain after index idx, whose binding
// may have been derived (via selector distribution) from the drain
// at idx that applyFilter just replaced.
func (ev *Evaluator) recascade(e *env.Env, p *plan.Plan, idx int) error {
	for i := idx + 1; i < len(p.Drains); i++ {
		v, err := ev.evalExpr(e, p.Drains[i].Expr)
		if err != nil {
			return err
		}
		e.Replace(p.Drains[i].Alias, v)
	}
	return nil
}

func mustLookup(e *env.Env, alias string) value.Value {
	v, _ := e.Lookup(alias)
	return v
}

// emptyLike returns an empty collection of the same shape as v (or an
// empty Bag if v was not itself a collection), used to empty out a
// drain's binding when a non-selector WHERE predicate fails.
func emptyLike(v value.Value) value.Value {
	switch v.(type) {
	case value.Array:
		return value.Array(nil)
	default:
		return value.Bag(nil)
	}
}

func predicateExpr(pred ast.Predicate) ast.Expr {
	switch t := pred.(type) {
	case ast.Eq:
		return t.Expr
	case ast.Like:
		return t.Expr
	default:
		return nil
	}
}

// applyOrderBy sorts a stable copy of bag by the named output
// field. Rows missing that field, or holding Null in it, sort after
// every other row in both directions; other pairs that compareValues
// cannot order keep their relative order.
func applyOrderBy(bag value.Bag, ob *ast.OrderBy) value.Bag {
	if ob == nil || len(bag) == 0 {
		return bag
	}
	out := make(value.Bag, len(bag))
	copy(out, bag)
	slices.SortStableFunc(out, func(a, b value.Value) bool {
		av, bv := fieldOf(a, ob.Label), fieldOf(b, ob.Label)
		aNull, bNull := isNullish(av), isNullish(bv)
		if aNull || bNull {
			return !aNull && bNull
		}
		c := compareValues(av, bv)
		if ob.Direction == ast.Descending {
			return c > 0
		}
		return c < 0
	})
	return out
}

// isNullish reports whether v is Null or Missing, the two field
// values ORDER BY always sorts after every comparable row regardless
// of ASC/DESC direction.
func isNullish(v value.Value) bool {
	switch v.(type) {
	case value.Null, value.Missing:
		return true
	}
	return false
}

func fieldOf(v value.Value, label string) value.Value {
	obj, ok := v.(value.Object)
	if !ok {
		return value.Missing{}
	}
	fv, ok := obj.Get(label)
	if !ok {
		return value.Missing{}
	}
	return fv
}

// compareValues orders Numbers numerically, Strings lexically and
// Bools with false before true. Any other pairing (including a type mismatch) is treated as equal,
// so ORDER BY degrades to a stable no-op rather than panicking on
// heterogeneous data.
func compareValues(a, b value.Value) int {
	switch av := a.(type) {
	case value.Number:
		bv, ok := b.(value.Number)
		if !ok {
			return 0
		}
		switch {
		case av < bv:
			return -1
		case av > bv:
			return 1
		default:
			return 0
		}
	case value.String:
		bv, ok := b.(value.String)
		if !ok {
			return 0
		}
		switch {
		case av < bv:
			return -1
		case av > bv:
			return 1
		default:
			return 0
		}
	case value.Bool:
		bv, ok := b.(value.Bool)
		if !ok {
			return 0
		}
		if av == bv {
			return 0
		}
		if !bool(av) && bool(bv) {
			return -1
		}
		return 1
	default:
		return 0
	}
}

// applyLimit implements "LIMIT count (OFFSET offset)?".
func applyLimit(bag value.Bag, lim *ast.Limit) value.Bag {
	if lim == nil {
		return bag
	}
	offset := lim.Offset
	if offset < 0 {
		offset = 0
	}
	if offset >= len(bag) {
		return value.Bag(nil)
	}
	end := offset + lim.Count
	if lim.Count < 0 || end > len(bag) {
		end = len(bag)
	}
	out := make(value.Bag, end-offset)
	copy(out, bag[offset:end])
	return out
}
