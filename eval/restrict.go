package eval

import (
	"github.com/roach88/partiqlgo/ast"
	"github.com/roach88/partiqlgo/value"
)

// predicateFn is a compiled WHERE predicate: given the leaf value a
// selector points to, report whether it passes.
type predicateFn func(value.Value) bool

// compilePredicate lowers the two predicate forms the grammar
// supports into a predicateFn. Like requires a String operand;
// any other variant simply fails the predicate rather than erroring,
// consistent with restriction being a structural prune, not a
// type-checked comparison.
func compilePredicate(pred ast.Predicate) (predicateFn, error) {
	switch t := pred.(type) {
	case ast.Eq:
		target := t.Value
		return func(v value.Value) bool {
			return v.Equal(target)
		}, nil
	case ast.Like:
		re, err := compileLike(t.Pattern)
		if err != nil {
			return nil, err
		}
		return func(v value.Value) bool {
			s, ok := v.(value.String)
			if !ok {
				return false
			}
			return re.MatchString(string(s))
		}, nil
	default:
		return func(value.Value) bool { return true }, nil
	}
}

// restrict implements the restriction engine: given v, a
// selector sel pointing into v, and pred, it returns a pruned copy of
// v (restricted along sel) and whether v survives at all.
//
// The recursion mirrors value.SelectBySelector's own distribution
// rule exactly, so that a selector which would successfully
// navigate via SelectBySelector
// also restricts correctly: an Object consumes one field segment per
// step; an Array/Bag facing a plain field segment re-distributes the
// *entire* remaining selector (head included) over its elements,
// since the field belongs to the elements, not the collection;
// distributing over a wildcard or index segment consumes it.
//
// A Bag/Array survives iff at least one element survives the prune
// (ancestors with zero surviving descendants are themselves dropped,
// which is what makes an employee with no matching project disappear
// from the outer employees bag while siblings are untouched). An
// Object survives iff the one field the selector continues through
// survives.
func restrict(v value.Value, sel value.Selector, pred predicateFn) (value.Value, bool) {
	if len(sel) == 0 {
		switch t := v.(type) {
		case value.Null:
			return v, false
		case value.Missing:
			return v, false
		case value.Bool:
			return v, bool(t) && pred(v)
		default:
			return v, pred(v)
		}
	}
	head, tail := sel[0], sel[1:]
	switch t := v.(type) {
	case value.Object:
		if head.IsIndex || head.Wildcard {
			return v, false
		}
		child, ok := t.Get(head.Field)
		if !ok {
			return v, false
		}
		newChild, keep := restrict(child, tail, pred)
		if !keep {
			return v, false
		}
		return t.Set(head.Field, newChild), true
	case value.Array:
		out, keep := restrictCollection([]value.Value(t), head, tail, pred)
		return value.Array(out), keep
	case value.Bag:
		out, keep := restrictCollection([]value.Value(t), head, tail, pred)
		return value.Bag(out), keep
	default:
		// A scalar can't be navigated any further; selector continues
		// but there is nothing left to match against.
		return v, false
	}
}

func restrictCollection(elems []value.Value, head value.Segment, tail value.Selector, pred predicateFn) ([]value.Value, bool) {
	switch {
	case head.IsIndex:
		if head.Index < 0 || head.Index >= len(elems) {
			return elems, false
		}
		newElem, keep := restrict(elems[head.Index], tail, pred)
		if !keep {
			out := make([]value.Value, 0, len(elems)-1)
			out = append(out, elems[:head.Index]...)
			out = append(out, elems[head.Index+1:]...)
			return out, len(out) > 0
		}
		out := make([]value.Value, len(elems))
		copy(out, elems)
		out[head.Index] = newElem
		return out, true
	case head.Wildcard:
		var out []value.Value
		for _, e := range elems {
			if newElem, keep := restrict(e, tail, pred); keep {
				out = append(out, newElem)
			}
		}
		return out, len(out) > 0
	default:
		full := append(value.Selector{head}, tail...)
		var out []value.Value
		for _, e := range elems {
			if newElem, keep := restrict(e, full, pred); keep {
				out = append(out, newElem)
			}
		}
		return out, len(out) > 0
	}
}
