// Package ast defines the expression and query syntax tree produced
// by the parser: selectors, arithmetic, aggregate calls, literals and
// subqueries.
//
// Expr is a sealed interface: every implementation lives in this
// package so that callers can exhaustively type-switch. The
// Visitor/Rewriter pair below supports depth-first traversal and
// rewriting of trees that contain a type-level (not value-level)
// cycle through Subquery -> Plan -> Expr.
package ast

import "github.com/roach88/partiqlgo/value"

// Expr is any node of the expression tree. It is pure: evaluating an
// Expr never mutates the environment it is evaluated against.
type Expr interface {
	Node
	exprNode()
}

// Node is the common supertype of Expr and the PlanLike indirection
// used by Subquery; every Node reports its direct children so Walk can
// descend without a type switch at the call site.
type Node interface {
	children() []Expr
}

// Visitor mirrors expr.Visitor: Visit is called for every node
// encountered by Walk, and if the returned Visitor is non-nil, Walk
// recurses into children with it.
type Visitor interface {
	Visit(Expr) Visitor
}

// Rewriter mirrors expr.Rewriter: Rewrite is applied to nodes in
// depth-first order; Walk picks the Rewriter used for a node's
// children.
type Rewriter interface {
	Rewrite(Expr) Expr
	Walk(Expr) Rewriter
}

type nonleaf interface {
	rewrite(r Rewriter) Expr
}

// Walk traverses an expression tree in depth-first pre-order, calling
// v.Visit for each node before descending into its children.
func Walk(v Visitor, n Expr) {
	if n == nil {
		return
	}
	w := v.Visit(n)
	if w == nil {
		return
	}
	for _, c := range n.children() {
		Walk(w, c)
	}
	w.Visit(nil)
}

// Rewrite recursively applies r to n in depth-first order.
func Rewrite(r Rewriter, n Expr) Expr {
	if n == nil {
		return nil
	}
	if nl, ok := n.(nonleaf); ok {
		if rc := r.Walk(n); rc != nil {
			n = nl.rewrite(rc)
		}
	}
	return r.Rewrite(n)
}

// Literal is a constant value embedded directly in the tree.
type Literal struct {
	Value value.Value
}

func (Literal) exprNode()               {}
func (l Literal) children() []Expr      { return nil }
func (l Literal) rewrite(Rewriter) Expr { return l }

// SelectorExpr wraps a path expression. Selectors
// produced directly by the parser are relative to the first FROM
// alias; env.ExpandFullpath prefixes the innermost FROM alias to a
// selector whose head is not already a known alias before evaluation.
type SelectorExpr struct {
	Path value.Selector
}

func (SelectorExpr) exprNode()               {}
func (s SelectorExpr) children() []Expr      { return nil }
func (s SelectorExpr) rewrite(Rewriter) Expr { return s }

// BinOp is the arithmetic operator of a Binop node.
type BinOp int

const (
	Add BinOp = iota
	Sub
	Mul
	Div
	Rem
	Exp
)

func (op BinOp) String() string {
	switch op {
	case Add:
		return "+"
	case Sub:
		return "-"
	case Mul:
		return "*"
	case Div:
		return "/"
	case Rem:
		return "%"
	case Exp:
		return "^"
	default:
		return "?"
	}
}

// Binop is a binary arithmetic expression.
type Binop struct {
	Op          BinOp
	Left, Right Expr
}

func (Binop) exprNode() {}

func (b Binop) children() []Expr { return []Expr{b.Left, b.Right} }

func (b Binop) rewrite(w Rewriter) Expr {
	return Binop{Op: b.Op, Left: Rewrite(w, b.Left), Right: Rewrite(w, b.Right)}
}

// FuncName identifies a supported function call. The grammar
// names only COUNT; the set is kept as a string so new builtins don't
// require touching the grammar's enumerated token set.
type FuncName string

const FuncCount FuncName = "COUNT"

// Call is a function-call expression, e.g. COUNT(e.projects).
type Call struct {
	Name FuncName
	Arg  Expr
}

func (Call) exprNode() {}

func (c Call) children() []Expr { return []Expr{c.Arg} }

func (c Call) rewrite(w Rewriter) Expr {
	return Call{Name: c.Name, Arg: Rewrite(w, c.Arg)}
}

// PlanLike is satisfied by *plan.Plan. Subquery holds it behind an
// interface, rather than importing package plan directly, to break
// the Expr -> Plan -> Expr type cycle: nested variants form a cycle
// by type, not by value, so children are represented behind an
// indirection.
type PlanLike interface {
	// Describe returns a short human-readable summary for debugging;
	// evaluation never calls this, it goes through eval.Evaluator
	// instead via a type assertion on the concrete *plan.Plan.
	Describe() string
}

// Subquery is a correlated subquery expression: its Plan retains an
// implicit reference to the enclosing environment and is re-evaluated
// per outer row by the evaluator.
type Subquery struct {
	Plan PlanLike
}

func (Subquery) exprNode()               {}
func (s Subquery) children() []Expr      { return nil }
func (s Subquery) rewrite(Rewriter) Expr { return s }

// Field is one projection item: an expression with an optional output
// alias. When Alias is empty, the output key is derived by the
// planner: the last selector segment for a SelectorExpr, or the empty
// string for a computed expression.
type Field struct {
	Expr  Expr
	Alias string
}

// OutputKey returns the key this field contributes to a projected
// row, applying the alias-defaulting rule above.
func (f Field) OutputKey() string {
	if f.Alias != "" {
		return f.Alias
	}
	if sel, ok := f.Expr.(SelectorExpr); ok && len(sel.Path) > 0 {
		last := sel.Path[len(sel.Path)-1]
		if !last.IsIndex && !last.Wildcard {
			return last.Field
		}
	}
	return ""
}
