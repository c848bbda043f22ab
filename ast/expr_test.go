package ast

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/roach88/partiqlgo/value"
)

func TestFieldOutputKeyPrefersAlias(t *testing.T) {
	f := Field{Expr: SelectorExpr{Path: value.Selector{value.FieldSeg("name")}}, Alias: "employeeName"}
	assert.Equal(t, "employeeName", f.OutputKey())
}

func TestFieldOutputKeyDefaultsToLastSegment(t *testing.T) {
	f := Field{Expr: SelectorExpr{Path: value.Selector{value.FieldSeg("e"), value.FieldSeg("title")}}}
	assert.Equal(t, "title", f.OutputKey())
}

func TestFieldOutputKeyEmptyForComputedExpr(t *testing.T) {
	f := Field{Expr: Binop{Op: Add, Left: Literal{Value: value.Number(1)}, Right: Literal{Value: value.Number(2)}}}
	assert.Equal(t, "", f.OutputKey())
}

// incrementRewriter replaces every Literal number with itself plus one,
// exercising Walk/Rewrite's depth-first traversal over nested Binop.
type incrementRewriter struct{}

func (incrementRewriter) Walk(Expr) Rewriter { return incrementRewriter{} }
func (incrementRewriter) Rewrite(e Expr) Expr {
	if lit, ok := e.(Literal); ok {
		if n, ok := lit.Value.(value.Number); ok {
			return Literal{Value: n + 1}
		}
	}
	return e
}

func TestRewriteAppliesDepthFirst(t *testing.T) {
	tree := Binop{Op: Add, Left: Literal{Value: value.Number(1)}, Right: Literal{Value: value.Number(2)}}
	got := Rewrite(incrementRewriter{}, tree).(Binop)
	assert.Equal(t, value.Number(2), got.Left.(Literal).Value)
	assert.Equal(t, value.Number(3), got.Right.(Literal).Value)
}

type collectVisitor struct {
	seen []string
}

func (c *collectVisitor) Visit(e Expr) Visitor {
	if e == nil {
		return nil
	}
	switch e.(type) {
	case Binop:
		c.seen = append(c.seen, "binop")
	case Literal:
		c.seen = append(c.seen, "literal")
	}
	return c
}

func TestWalkVisitsEveryNode(t *testing.T) {
	tree := Binop{Op: Mul, Left: Literal{Value: value.Number(1)}, Right: Literal{Value: value.Number(2)}}
	v := &collectVisitor{}
	Walk(v, tree)
	assert.Equal(t, []string{"binop", "literal", "literal"}, v.seen)
}
