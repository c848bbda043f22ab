package eval

import (
	"math"

	"github.com/roach88/partiqlgo/ast"
	"github.com/roach88/partiqlgo/env"
	"github.com/roach88/partiqlgo/internal/perr"
	"github.com/roach88/partiqlgo/plan"
	"github.com/roach88/partiqlgo/value"
)

// evalExpr evaluates e against the current environment. Selector
// navigation goes through resolveSelector so that the same
// alias-resolution rules (known alias, implicit root, field-of-root)
// apply everywhere a path is evaluated, not only in FROM items.
func (ev *Evaluator) evalExpr(e *env.Env, expr ast.Expr) (value.Value, error) {
	switch t := expr.(type) {
	case ast.Literal:
		return t.Value, nil
	case ast.SelectorExpr:
		if len(t.Path) == 0 {
			// "*": project the entire value bound to the innermost
			// FROM alias, not the implicit root.
			inner := e.Innermost()
			if inner == "" {
				return e.Root(), nil
			}
			v, _ := e.Lookup(inner)
			return v, nil
		}
		sel := e.ExpandFullpath(t.Path)
		return resolveSelector(e, sel)
	case ast.Binop:
		return ev.evalBinop(e, t)
	case ast.Call:
		return ev.evalCall(e, t)
	case ast.Subquery:
		return ev.evalSubquery(e, t)
	default:
		return nil, &perr.TypeError{Message: "unsupported expression node in evaluator"}
	}
}

// evalBinop implements the six arithmetic operators. Arithmetic
// only accepts Number operands; a non-numeric operand is a fatal
// type error. Division (and remainder) by zero produces
// value.Missing rather than a Go error: domain errors produce
// value.Missing rather than aborting evaluation.
func (ev *Evaluator) evalBinop(e *env.Env, b ast.Binop) (value.Value, error) {
	lv, err := ev.evalExpr(e, b.Left)
	if err != nil {
		return nil, err
	}
	rv, err := ev.evalExpr(e, b.Right)
	if err != nil {
		return nil, err
	}
	l, ok := lv.(value.Number)
	if !ok {
		return nil, &perr.TypeError{Op: b.Op.String(), Operand: lv.Type(), Message: "left operand of " + b.Op.String() + " is not a number"}
	}
	r, ok := rv.(value.Number)
	if !ok {
		return nil, &perr.TypeError{Op: b.Op.String(), Operand: rv.Type(), Message: "right operand of " + b.Op.String() + " is not a number"}
	}
	switch b.Op {
	case ast.Add:
		return l + r, nil
	case ast.Sub:
		return l - r, nil
	case ast.Mul:
		return l * r, nil
	case ast.Div:
		if r == 0 {
			return value.Missing{}, nil
		}
		return l / r, nil
	case ast.Rem:
		if r == 0 {
			return value.Missing{}, nil
		}
		return value.Number(math.Mod(float64(l), float64(r))), nil
	case ast.Exp:
		return value.Number(math.Pow(float64(l), float64(r))), nil
	default:
		return nil, &perr.TypeError{Message: "unknown binary operator"}
	}
}

// evalCall implements the grammar's lone aggregate, COUNT. COUNT of
// an empty collection is 0, not Missing or an error.
// COUNT's argument is evaluated, then the resulting collection's
// length is taken; a scalar argument counts as a single element.
func (ev *Evaluator) evalCall(e *env.Env, c ast.Call) (value.Value, error) {
	if c.Name != ast.FuncCount {
		return nil, &perr.TypeError{Message: "unknown function " + string(c.Name)}
	}
	v, err := ev.evalExpr(e, c.Arg)
	if err != nil {
		return nil, err
	}
	switch t := v.(type) {
	case value.Array:
		return value.Number(len(t)), nil
	case value.Bag:
		return value.Number(len(t)), nil
	case value.Missing:
		return value.Number(0), nil
	default:
		return value.Number(1), nil
	}
}

// evalSubquery evaluates a correlated subquery expression: the inner
// plan is re-run against the *current* environment (not a fresh
// one), so any alias bound by an outer drain is visible to the
// subquery's own FROM/WHERE.
//
// Subqueries bind whole sub-objects: the bound value is the Object
// produced by running the inner plan to completion (filter + project
// + transpose), with Missing (not Null) when the inner query produces
// no rows.
func (ev *Evaluator) evalSubquery(e *env.Env, sq ast.Subquery) (value.Value, error) {
	sub, ok := sq.Plan.(*plan.Plan)
	if !ok {
		return nil, &perr.TypeError{Message: "subquery plan was never lowered"}
	}
	result, err := ev.runCorrelated(e, sub)
	if err != nil {
		return nil, err
	}
	switch t := result.(type) {
	case value.Bag:
		if len(t) == 0 {
			return value.Missing{}, nil
		}
		return t[0], nil
	case value.Array:
		if len(t) == 0 {
			return value.Missing{}, nil
		}
		return t[0], nil
	default:
		return t, nil
	}
}
