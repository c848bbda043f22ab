package format

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/roach88/partiqlgo/value"
)

type stubCodec struct{}

func (stubCodec) Load([]byte) (value.Value, error) { return value.Null{}, nil }
func (stubCodec) Dump(value.Value) ([]byte, error) { return []byte("stub"), nil }

func TestRegistryRegisterLookup(t *testing.T) {
	r := NewRegistry()
	_, ok := r.Lookup("json")
	assert.False(t, ok)

	r.Register("json", stubCodec{})
	c, ok := r.Lookup("json")
	assert.True(t, ok)

	data, err := c.Dump(value.Null{})
	assert.NoError(t, err)
	assert.Equal(t, "stub", string(data))
}

func TestRegistryNames(t *testing.T) {
	r := NewRegistry()
	r.Register("json", stubCodec{})
	r.Register("yaml", stubCodec{})
	assert.ElementsMatch(t, []string{"json", "yaml"}, r.Names())
}
