package eval

import (
	"github.com/roach88/partiqlgo/ast"
	"github.com/roach88/partiqlgo/env"
	"github.com/roach88/partiqlgo/plan"
	"github.com/roach88/partiqlgo/value"
)

// projField pairs one projection field with its output key and
// whether an empty per-row candidate list for it should be treated
// as a single Missing candidate (LEFT JOIN) rather than
// eliminating the row (plain inner FROM/comma drain).
//
// splat marks a bare "*" projection item: rather than contributing
// one (key, value) pair to the output row, its per-row value (an
// Object) has all of its entries merged directly into the row.
type projField struct {
	key        string
	raw        value.Value
	leftJoined bool
	splat      bool
}

// buildColumnar evaluates every projection field once against e,
// producing a columnar intermediate form: each
// field's value, still in whatever shape path distribution gave
// it (a plain scalar, or one or more levels of nested Array/Bag
// mirroring how many FROM dimensions it was distributed across).
func (ev *Evaluator) buildColumnar(e *env.Env, p *plan.Plan) ([]projField, error) {
	out := make([]projField, 0, len(p.Project))
	for _, f := range p.Project {
		v, err := ev.evalExpr(e, f.Expr)
		if err != nil {
			return nil, err
		}
		key := f.OutputKey()
		out = append(out, projField{key: key, raw: v, leftJoined: fieldIsLeftJoined(e, p, f), splat: isStarField(f.Expr)})
	}
	return out, nil
}

// isStarField reports whether expr is the bare "*" projection item
// (a SelectorExpr with an empty path), which binds the whole
// innermost FROM alias rather than one of its fields and must be
// splatted into the output row instead of dropped for having no
// output key.
func isStarField(expr ast.Expr) bool {
	sel, ok := expr.(ast.SelectorExpr)
	return ok && len(sel.Path) == 0
}

// fieldIsLeftJoined reports whether f's selector is headed by a LEFT
// JOIN alias directly (the drain the field's own head segment names,
// not an ancestor further up the chain -- the grammar allows only one
// LEFT JOIN clause, so a field's governing alias is never more than
// one drain away from however it was written).
func fieldIsLeftJoined(e *env.Env, p *plan.Plan, f ast.Field) bool {
	sel, ok := f.Expr.(ast.SelectorExpr)
	if !ok || len(sel.Path) == 0 {
		return false
	}
	expanded := e.ExpandFullpath(sel.Path)
	if len(expanded) == 0 {
		return false
	}
	return isLeftAlias(p, expanded[0].Field)
}

// transpose turns the columnar fields into row-wise Objects
// ("columnar intermediate -> row-wise"). The outer dimension length n
// is taken from the first field whose raw value is itself an
// Array/Bag (the driving collection's distribution), defaulting to a
// single row when every field is a plain scalar (no collection was
// ever distributed over, e.g. a query with no collection-valued FROM
// source). For each outer index, each field's per-row slice is
// flattened one level and turned into a list of candidate values;
// the cartesian product of those lists yields the output rows for
// that index, and Missing candidates are elided from the resulting
// object rather than written out.
func transpose(fields []projField) value.Bag {
	n := 1
	for _, f := range fields {
		switch t := f.raw.(type) {
		case value.Array:
			n = len(t)
		case value.Bag:
			n = len(t)
		default:
			continue
		}
		break
	}

	var result value.Bag
	for i := 0; i < n; i++ {
		rowFields := make([]rowField, 0, len(fields))
		lists := make([][]value.Value, 0, len(fields))
		for _, f := range fields {
			perRow, present := rowAt(f.raw, i)
			var candidates []value.Value
			if present {
				candidates = candidatesFor(perRow)
			}
			if len(candidates) == 0 {
				if f.leftJoined {
					candidates = []value.Value{value.Missing{}}
				} else if !present {
					// an array/bag field shorter than the driving row
					// count: no candidate at this row index, so it
					// contributes nothing (a scalar field always has
					// present == true, see rowAt).
					continue
				}
			}
			if f.key == "" && !f.splat {
				continue
			}
			rowFields = append(rowFields, rowField{key: f.key, splat: f.splat})
			lists = append(lists, candidates)
		}
		cartesian(rowFields, lists, func(row value.Value) {
			result = append(result, row)
		})
	}
	return result
}

// rowAt extracts the value bound to row index i out of a field's raw
// (possibly collection-valued) value. A scalar value has no row
// dimension of its own: it is the same constant at every index, so
// it is present at every row rather than only row 0.
func rowAt(v value.Value, i int) (value.Value, bool) {
	switch t := v.(type) {
	case value.Array:
		if i < 0 || i >= len(t) {
			return nil, false
		}
		return t[i], true
	case value.Bag:
		if i < 0 || i >= len(t) {
			return nil, false
		}
		return t[i], true
	default:
		return v, true
	}
}

// candidatesFor flattens one level of nesting out of a per-row value
// and returns the resulting candidate values to cartesian-multiply
// over, mirroring the original's `value.flatten().into::<Vec<_>>()`.
func candidatesFor(v value.Value) []value.Value {
	f := value.Flatten(v)
	switch t := f.(type) {
	case value.Array:
		return []value.Value(t)
	case value.Bag:
		return []value.Value(t)
	default:
		return []value.Value{f}
	}
}

// rowField is one field slot fed into cartesian: either a plain
// (key, value) contributor, or a splat contributor whose Object
// candidate has its entries merged into the row directly instead of
// being written out under a single key.
type rowField struct {
	key   string
	splat bool
}

// cartesian calls emit once for every combination picking one value
// from each of lists, building a row keyed by the corresponding
// fields entry (same index correspondence). A Missing candidate
// elides its key from the row rather than being written out. A
// splat field instead merges every entry of its Object candidate
// into the row (a non-Object candidate contributes nothing) --
// except when "*" is the query's only projection item, in which case
// a non-Object candidate (a bare scalar bound by FROM) becomes the
// row itself rather than an empty Object, so that a scalar source
// document round-trips through "SELECT * FROM v AS x" as that same
// scalar wrapped in a one-element bag, not as {}. An empty lists
// entry yields zero combinations overall, the mechanism by which an
// inner-joined field with no surviving candidates drops its whole
// row.
func cartesian(fields []rowField, lists [][]value.Value, emit func(value.Value)) {
	if len(fields) == 0 {
		return
	}
	for _, l := range lists {
		if len(l) == 0 {
			return
		}
	}
	bareSplat := len(fields) == 1 && fields[0].splat
	idx := make([]int, len(lists))
	for {
		if bareSplat {
			v := lists[0][idx[0]]
			if src, ok := v.(value.Object); ok {
				var obj value.Object
				for _, e := range src {
					obj = obj.Set(e.Key, e.Value)
				}
				emit(obj)
			} else {
				emit(v)
			}
		} else {
			var obj value.Object
			for k := range fields {
				v := lists[k][idx[k]]
				if fields[k].splat {
					if src, ok := v.(value.Object); ok {
						for _, e := range src {
							obj = obj.Set(e.Key, e.Value)
						}
					}
					continue
				}
				if candidate, ok := value.ThenIfNotMissing(v); ok {
					obj = obj.Set(fields[k].key, candidate)
				}
			}
			emit(obj)
		}

		pos := len(idx) - 1
		for pos >= 0 {
			idx[pos]++
			if idx[pos] < len(lists[pos]) {
				break
			}
			idx[pos] = 0
			pos--
		}
		if pos < 0 {
			return
		}
	}
}
