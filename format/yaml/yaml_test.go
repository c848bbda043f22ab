package yaml

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/partiqlgo/value"
)

func TestLoadDecodesMappingSequenceScalars(t *testing.T) {
	c := New()
	v, err := c.Load([]byte("name: Ann\nage: 30\ntags:\n  - a\n  - b\nactive: true\n"))
	require.NoError(t, err)
	obj := v.(value.Object)

	name, _ := obj.Get("name")
	assert.Equal(t, value.String("Ann"), name)

	age, _ := obj.Get("age")
	assert.Equal(t, value.Number(30), age)

	tags, _ := obj.Get("tags")
	assert.Equal(t, value.Array{value.String("a"), value.String("b")}, tags)

	active, _ := obj.Get("active")
	assert.Equal(t, value.Bool(true), active)
}

func TestLoadPreservesMappingKeyOrder(t *testing.T) {
	c := New()
	v, err := c.Load([]byte("z: 1\na: 2\nm: 3\n"))
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
	}
	data, err := c.Dump(orig)
	require.NoError(t, err)

	got, err := c.Load(data)
	require.NoError(t, err)
	assert.True(t, orig.Equal(got))
}

func TestLoadRejectsMalformedInput(t *testing.T) {
	c := New()
	_, err := c.Load([]byte("key: [unterminated"))
	assert.Error(t, err)
}
