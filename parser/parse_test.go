package parser

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/partiqlgo/ast"
	"github.com/roach88/partiqlgo/value"
)

func TestParseQuerySimpleSelectFrom(t *testing.T) {
	q, err := ParseQuery([]byte(`SELECT e.name FROM hr.employees e`))
	require.NoError(t, err)
	require.Len(t, q.Project, 1)
	assert.Equal(t, "name", q.Project[0].OutputKey())
	require.Len(t, q.From, 1)
	assert.Equal(t, "e", q.From[0].Alias)
	assert.False(t, q.From[0].Left)
}

func TestParseQueryAsAlias(t *testing.T) {
	q, err := ParseQuery([]byte(`SELECT e.name AS employeeName FROM hr.employees AS e`))
	require.NoError(t, err)
	assert.Equal(t, "employeeName", q.Project[0].OutputKey())
	assert.Equal(t, "e", q.From[0].Alias)
}

func TestParseQueryStar(t *testing.T) {
	q, err := ParseQuery([]byte(`SELECT * FROM hr.employees e`))
	require.NoError(t, err)
	sel, ok := q.Project[0].Expr.(ast.SelectorExpr)
	require.True(t, ok)
	assert.Nil(t, sel.Path)
}

func TestParseQueryLeftJoinWhereOrderByLimit(t *testing.T) {
	src := `SELECT e.name, p.title FROM hr.employees e LEFT JOIN e.projects p
		WHERE p.title LIKE 'Sen%' ORDER BY name DESC LIMIT 10 OFFSET 5`
	q, err := ParseQuery([]byte(src))
	require.NoError(t, err)

	require.Len(t, q.From, 2)
	assert.False(t, q.From[0].Left)
	assert.True(t, q.From[1].Left)
	assert.Equal(t, "p", q.From[1].Alias)

	like, ok := q.Where.(ast.Like)
	require.True(t, ok)
	assert.Equal(t, "Sen%", like.Pattern)

	require.NotNil(t, q.OrderBy)
	assert.Equal(t, "name", q.OrderBy.Label)
	assert.Equal(t, ast.Descending, q.OrderBy.Direction)

	require.NotNil(t, q.Limit)
	assert.Equal(t, 10, q.Limit.Count)
	assert.Equal(t, 5, q.Limit.Offset)
}

func TestParseQueryWhereEquality(t *testing.T) {
	q, err := ParseQuery([]byte(`SELECT e.name FROM hr.employees e WHERE e.id = 7`))
	require.NoError(t, err)
	eq, ok := q.Where.(ast.Eq)
	require.True(t, ok)
	assert.Equal(t, value.Number(7), eq.Value)
}

func TestParseQueryArithmeticPrecedence(t *testing.T) {
	q, err := ParseQuery([]byte(`SELECT 1 * 2 + 3 / 4 ^ 6 AS r FROM hr.employees e`))
	require.NoError(t, err)
	top, ok := q.Project[0].Expr.(ast.Binop)
	require.True(t, ok)
	assert.Equal(t, ast.Add, top.Op)

	left, ok := top.Left.(ast.Binop)
	require.True(t, ok)
	assert.Equal(t, ast.Mul, left.Op)

	right, ok := top.Right.(ast.Binop)
	require.True(t, ok)
	assert.Equal(t, ast.Div, right.Op)

	exp, ok := right.Right.(ast.Binop)
	require.True(t, ok)
	assert.Equal(t, ast.Exp, exp.Op)
}

func TestParseQueryCountCall(t *testing.T) {
	q, err := ParseQuery([]byte(`SELECT COUNT(e.projects) AS n FROM hr.employees e`))
	require.NoError(t, err)
	call, ok := q.Project[0].Expr.(ast.Call)
	require.True(t, ok)
	assert.Equal(t, ast.FuncCount, call.Name)
}

func TestParseQuerySubquery(t *testing.T) {
	q, err := ParseQuery([]byte(`SELECT (SELECT p.title FROM e.projects p) AS titles FROM hr.employees e`))
	require.NoError(t, err)
	sub, ok := q.Project[0].Expr.(ast.Subquery)
	require.True(t, ok)
	dp, ok := sub.Plan.(DeferredPlan)
	require.True(t, ok)
	assert.Len(t, dp.Query.From, 1)
}

func TestParseQueryRejectsTrailingInput(t *testing.T) {
	_, err := ParseQuery([]byte(`SELECT e.name FROM hr.employees e GARBAGE`))
	assert.Error(t, err)
}

func TestParseValueObjectArrayBag(t *testing.T) {
	v, err := ParseValue([]byte(`{'a': 1, 'b': [1, 2, 'x'], 'c': << 1, 2 >>, 'd': null, 'e': missing, 'f': true}`))
	require.NoError(t, err)
	obj, ok := v.(value.Object)
	require.True(t, ok)

	a, _ := obj.Get("a")
	assert.Equal(t, value.Number(1), a)

	b, _ := obj.Get("b")
	assert.Equal(t, value.Array{value.Number(1), value.Number(2), value.String("x")}, b)

	c, _ := obj.Get("c")
	assert.Equal(t, value.Bag{value.Number(1), value.Number(2)}, c)

	d, _ := obj.Get("d")
	assert.Equal(t, value.Null{}, d)

	e, _ := obj.Get("e")
	assert.Equal(t, value.Missing{}, e)

	f, _ := obj.Get("f")
	assert.Equal(t, value.Bool(true), f)
}

func TestParseValueNegativeNumber(t *testing.T) {
	v, err := ParseValue([]byte(`-3.5`))
	require.NoError(t, err)
	assert.Equal(t, value.Number(-3.5), v)
}

func TestParseValueRejectsTrailingInput(t *testing.T) {
	_, err := ParseValue([]byte(`1 2`))
	assert.Error(t, err)
}
