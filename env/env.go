// Package env implements the binding environment: an ordered stack
// of alias frames consulted by selector expansion and evaluation.
//
// Modeled as a push/pop guarded stack: every control path that
// pushes a frame is expected to pop it, normally via a deferred call
// to Pop.
package env

import "github.com/roach88/partiqlgo/value"

// Frame binds one alias to a value for the duration of one scope
// (a FROM item, a LEFT JOIN item, or a correlated subquery).
type Frame struct {
	Alias string
	Value value.Value
}

// Env is the mutable binding stack owned by exactly one evaluator
// instance and is not shared. The zero value is an empty environment
// with no root binding.
type Env struct {
	frames []Frame
}

// New creates an environment with root bound as the implicit root
// value under the reserved empty-string alias, matching how the
// evaluator seeds evaluation with the caller-supplied document before
// any FROM item is applied.
func New(root value.Value) *Env {
	e := &Env{}
	e.Push("", root)
	return e
}

// Push adds a new innermost frame binding alias to v. Every Push must
// be paired with a Pop on every control path (including error
// returns), so callers should generally use `defer e.Pop()`
// immediately after a successful Push.
func (e *Env) Push(alias string, v value.Value) {
	e.frames = append(e.frames, Frame{Alias: alias, Value: v})
}

// Pop removes the innermost frame. Calling Pop on an empty stack is a
// programmer error and panics, the same way an unbalanced push/pop
// pair would corrupt every subsequent lookup.
func (e *Env) Pop() {
	if len(e.frames) == 0 {
		panic("env: Pop called on empty environment")
	}
	e.frames = e.frames[:len(e.frames)-1]
}

// Depth returns the number of frames currently pushed, primarily for
// tests that assert push/pop balance.
func (e *Env) Depth() int {
	return len(e.frames)
}

// Lookup returns the value bound to the innermost frame matching
// name, walking outward, or (Missing{}, false) if no frame matches.
// Shadowing is permitted: an inner alias hides an outer one with the
// same name.
func (e *Env) Lookup(name string) (value.Value, bool) {
	for i := len(e.frames) - 1; i >= 0; i-- {
		if e.frames[i].Alias == name {
			return e.frames[i].Value, true
		}
	}
	return value.Missing{}, false
}

// Root returns the outermost (first-pushed) binding: the implicit
// root value the whole query evaluates against.
func (e *Env) Root() value.Value {
	if len(e.frames) == 0 {
		return value.Missing{}
	}
	return e.frames[0].Value
}

// Innermost returns the alias of the most recently pushed frame, or
// "" if the stack only has the root frame (or is empty). Used by
// ExpandFullpath to find the implicit owning alias for a bare field
// reference.
func (e *Env) Innermost() string {
	if len(e.frames) <= 1 {
		return ""
	}
	return e.frames[len(e.frames)-1].Alias
}

// Aliases returns the alias of every pushed frame, innermost last,
// excluding the root frame. Used to decide whether a selector's first
// segment is a known alias.
func (e *Env) Aliases() []string {
	if len(e.frames) <= 1 {
		return nil
	}
	out := make([]string, 0, len(e.frames)-1)
	for _, f := range e.frames[1:] {
		out = append(out, f.Alias)
	}
	return out
}

// IsAlias reports whether name matches any currently pushed
// (non-root) frame.
func (e *Env) IsAlias(name string) bool {
	for _, f := range e.frames[1:] {
		if f.Alias == name {
			return true
		}
	}
	return false
}

// Replace overwrites the value bound to the innermost frame matching
// alias, in place. Used by the restriction engine to prune a
// drain's bound collection after the fact, and to cascade that prune
// into any later drain whose binding was derived from it.
func (e *Env) Replace(alias string, v value.Value) {
	for i := len(e.frames) - 1; i >= 0; i-- {
		if e.frames[i].Alias == alias {
			e.frames[i].Value = v
			return
		}
	}
}

// ExpandFullpath turns a selector produced directly by the parser
// (relative to the first FROM alias) into one whose head segment is
// guaranteed to name a known alias.
//
//   - If sel's first segment already names a known alias, sel is
//     returned unchanged: "the alias's expansion" IS its binding, so
//     nothing needs prefixing.
//   - Otherwise sel's first segment is a plain field name owned by
//     whichever alias is unambiguous in the current frames; this
//     implementation takes that to be the innermost pushed alias (the
//     last FROM/LEFT JOIN/subquery item introduced), matching the
//     evaluator's left-to-right drain order, and prefixes it.
//
// An empty selector, or one with no pushed aliases at all, is
// returned unchanged.
func (e *Env) ExpandFullpath(sel value.Selector) value.Selector {
	if len(sel) == 0 {
		return sel
	}
	head := sel[0]
	if head.IsIndex || head.Wildcard {
		return sel
	}
	if e.IsAlias(head.Field) {
		return sel
	}
	inner := e.Innermost()
	if inner == "" {
		return sel
	}
	out := make(value.Selector, 0, len(sel)+1)
	out = append(out, value.FieldSeg(inner))
	out = append(out, sel...)
	return out
}
