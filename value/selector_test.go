package value

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSelectBySelectorObjectPath(t *testing.T) {
	doc := Object{{Key: "a", Value: Object{{Key: "b", Value: Number(7)}}}}
	got := SelectBySelector(doc, Selector{FieldSeg("a"), FieldSeg("b")})
	assert.Equal(t, Number(7), got)
}

func TestSelectBySelectorMissingField(t *testing.T) {
	doc := Object{{Key: "a", Value: Number(1)}}
	got := SelectBySelector(doc, Selector{FieldSeg("nope")})
	assert.Equal(t, Missing{}, got)
}

// TestSelectBySelectorDistributesOverBag exercises the central
// distribution rule: a field segment applied to a Bag of Objects
// maps over every element instead of failing.
func TestSelectBySelectorDistributesOverBag(t *testing.T) {
	bag := Bag{
		Object{{Key: "name", Value: String("a")}},
		Object{{Key: "name", Value: String("b")}},
	}
	got := SelectBySelector(bag, Selector{FieldSeg("name")})
	assert.Equal(t, Bag{String("a"), String("b")}, got)
}

func TestSelectBySelectorIndexAndWildcard(t *testing.T) {
	arr := Array{Number(10), Number(20), Number(30)}
	assert.Equal(t, Number(20), SelectBySelector(arr, Selector{IndexSeg(1)}))
	assert.Equal(t, Missing{}, SelectBySelector(arr, Selector{IndexSeg(9)}))

	nested := Array{
		Object{{Key: "v", Value: Number(1)}},
		Object{{Key: "v", Value: Number(2)}},
	}
	got := SelectBySelector(nested, Selector{WildcardSeg(), FieldSeg("v")})
	assert.Equal(t, Array{Number(1), Number(2)}, got)
}

func TestFlattenCollapsesOneLevel(t *testing.T) {
	nested := Array{Array{Number(1), Number(2)}, Array{Number(3)}}
	assert.Equal(t, Array{Number(1), Number(2), Number(3)}, Flatten(nested))

	flat := Array{Number(1), Number(2)}
	assert.Equal(t, flat, Flatten(flat))
}

func TestThenIfNotMissing(t *testing.T) {
	v, ok := ThenIfNotMissing(Number(1))
	assert.True(t, ok)
	assert.Equal(t, Number(1), v)

	_, ok = ThenIfNotMissing(Missing{})
	assert.False(t, ok)
}
