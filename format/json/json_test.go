package json

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/partiqlgo/value"
)

func TestLoadDecodesObjectArrayScalars(t *testing.T) {
	c := New()
	v, err := c.Load([]byte(`{"name": "Ann", "age": 30, "tags": ["a", "b"], "ok": true, "n": null}`))
	require.NoError(t, err)
	obj, ok := v.(value.Object)
	require.True(t, ok)

	name, _ := obj.Get("name")
	assert.Equal(t, value.String("Ann"), name)

	age, _ := obj.Get("age")
	assert.Equal(t, value.Number(30), age)

	tags, _ := obj.Get("tags")
	assert.Equal(t, value.Array{value.String("a"), value.String("b")}, tags)

	n, _ := obj.Get("n")
	assert.Equal(t, value.Null{}, n)
}

func TestLoadPreservesObjectKeyOrder(t *testing.T) {
	c := New()
	v, err := c.Load([]byte(`{"z": 1, "a": 2, "m": 3}`))
	require.NoError(t, err)
	obj := v.(value.Object)
	var keys []string
	for _, e := range obj {
		keys = append(keys, e.Key)
	}
	assert.Equal(t, []string{"z", "a", "m"}, keys)
}

func TestDumpLoadRoundTrip(t *testing.T) {
	c := New()
	orig := value.Object{
		{Key: "name", Value: value.String("Ann")},
		{Key: "scores", Value: value.Array{value.Number(1), value.Number(2.5)}},
		{Key: "active", Value: value.Bool(true)},
	}
	data, err := c.Dump(orig)
	require.NoError(t, err)

	got, err := c.Load(data)
	require.NoError(t, err)
	assert.True(t, orig.Equal(got))
}

func TestLoadRejectsMalformedInput(t *testing.T) {
	c := New()
	_, err := c.Load([]byte(`{not json`))
	assert.Error(t, err)
}
