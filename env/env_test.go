package env

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/partiqlgo/value"
)

func TestNewSeedsRootUnderEmptyAlias(t *testing.T) {
	root := value.Object{{Key: "a", Value: value.Number(1)}}
	e := New(root)
	assert.Equal(t, 1, e.Depth())
	assert.Equal(t, root, e.Root())
	assert.Equal(t, "", e.Innermost())
}

func TestPushPopBalancesDepth(t *testing.T) {
	e := New(value.Object{})
	e.Push("a", value.Number(1))
	e.Push("b", value.Number(2))
	assert.Equal(t, 3, e.Depth())

	e.Pop()
	assert.Equal(t, 2, e.Depth())
	assert.Equal(t, "a", e.Innermost())

	e.Pop()
	assert.Equal(t, 1, e.Depth())
	assert.Equal(t, "", e.Innermost())
}

func TestPopOnEmptyEnvPanics(t *testing.T) {
	e := &Env{}
	assert.Panics(t, func() { e.Pop() })
}

func TestLookupShadowsOuterAlias(t *testing.T) {
	e := New(value.Object{})
	e.Push("e", value.Number(1))
	e.Push("e", value.Number(2))

	v, ok := e.Lookup("e")
	require.True(t, ok)
	assert.Equal(t, value.Number(2), v)

	_, ok = e.Lookup("nope")
	assert.False(t, ok)
}

func TestAliasesExcludesRoot(t *testing.T) {
	e := New(value.Object{})
	assert.Nil(t, e.Aliases())

	e.Push("e", value.Number(1))
	e.Push("p", value.Number(2))
	assert.Equal(t, []string{"e", "p"}, e.Aliases())
	assert.True(t, e.IsAlias("e"))
	assert.True(t, e.IsAlias("p"))
	assert.False(t, e.IsAlias("nope"))
}

func TestReplaceOverwritesInnermostMatch(t *testing.T) {
	e := New(value.Object{})
	e.Push("e", value.Number(1))
	e.Replace("e", value.Number(99))

	v, ok := e.Lookup("e")
	require.True(t, ok)
	assert.Equal(t, value.Number(99), v)
}

func TestExpandFullpathPrefixesBareFieldWithInnermostAlias(t *testing.T) {
	e := New(value.Object{})
	e.Push("e", value.Object{})

	got := e.ExpandFullpath(value.Selector{value.FieldSeg("name")})
	assert.Equal(t, value.Selector{value.FieldSeg("e"), value.FieldSeg("name")}, got)
}

func TestExpandFullpathLeavesKnownAliasUnchanged(t *testing.T) {
	e := New(value.Object{})
	e.Push("e", value.Object{})
	e.Push("p", value.Object{})

	sel := value.Selector{value.FieldSeg("e"), value.FieldSeg("name")}
	got := e.ExpandFullpath(sel)
	assert.Equal(t, sel, got)
}

func TestExpandFullpathNoopWithoutPushedAlias(t *testing.T) {
	e := New(value.Object{})
	sel := value.Selector{value.FieldSeg("name")}
	assert.Equal(t, sel, e.ExpandFullpath(sel))
}
