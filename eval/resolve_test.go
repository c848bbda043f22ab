package eval

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/partiqlgo/ast"
	"github.com/roach88/partiqlgo/env"
	"github.com/roach88/partiqlgo/plan"
	"github.com/roach88/partiqlgo/value"
)

func TestResolveSelectorKnownAlias(t *testing.T) {
	root := value.Object{{Key: "hr", Value: value.Object{}}}
	e := env.New(root)
	e.Push("e", value.Object{{Key: "name", Value: value.String("Ann")}})

	v, err := resolveSelector(e, value.Selector{value.FieldSeg("e"), value.FieldSeg("name")})
	require.NoError(t, err)
	assert.Equal(t, value.String("Ann"), v)
}

func TestResolveSelectorImplicitRootAlias(t *testing.T) {
	root := value.Object{{Key: "employees", Value: value.String("placeholder")}}
	e := env.New(root)

	v, err := resolveSelector(e, value.Selector{value.FieldSeg("hr"), value.FieldSeg("employees")})
	require.NoError(t, err)
	assert.Equal(t, value.String("placeholder"), v)
}

func TestResolveSelectorFieldOfRootFallback(t *testing.T) {
	root := value.Object{{Key: "employees", Value: value.String("x")}}
	e := env.New(root)
	e.Push("e", value.Object{})

	v, err := resolveSelector(e, value.Selector{value.FieldSeg("employees")})
	require.NoError(t, err)
	assert.Equal(t, value.String("x"), v)
}

func TestResolveSelectorUnresolvedAliasFails(t *testing.T) {
	root := value.Object{{Key: "employees", Value: value.String("x")}}
	e := env.New(root)
	e.Push("e", value.Object{})

	_, err := resolveSelector(e, value.Selector{value.FieldSeg("nope"), value.FieldSeg("name")})
	assert.Error(t, err)
}

func TestChainToOutermostWalksBackThroughDrains(t *testing.T) {
	p := &plan.Plan{
		Drains: []plan.Drain{
			{Expr: ast.SelectorExpr{Path: value.Selector{value.FieldSeg("hr"), value.FieldSeg("employees")}}, Alias: "e"},
			{Expr: ast.SelectorExpr{Path: value.Selector{value.FieldSeg("e"), value.FieldSeg("projects")}}, Alias: "p", Left: true},
		},
	}
	alias, rel := chainToOutermost(p, value.Selector{value.FieldSeg("p"), value.FieldSeg("title")})
	assert.Equal(t, "e", alias)
	assert.Equal(t, value.Selector{value.FieldSeg("projects"), value.FieldSeg("title")}, rel)
}

func TestChainToOutermostStopsAtOwnAlias(t *testing.T) {
	p := &plan.Plan{
		Drains: []plan.Drain{
			{Expr: ast.SelectorExpr{Path: value.Selector{value.FieldSeg("hr"), value.FieldSeg("employees")}}, Alias: "e"},
		},
	}
	alias, rel := chainToOutermost(p, value.Selector{value.FieldSeg("e"), value.FieldSeg("id")})
	assert.Equal(t, "e", alias)
	assert.Equal(t, value.Selector{value.FieldSeg("id")}, rel)
}

func TestIsLeftAlias(t *testing.T) {
	p := &plan.Plan{
		Drains: []plan.Drain{
			{Alias: "e", Left: false},
			{Alias: "p", Left: true},
		},
	}
	assert.False(t, isLeftAlias(p, "e"))
	assert.True(t, isLeftAlias(p, "p"))
	assert.False(t, isLeftAlias(p, "nope"))
}
