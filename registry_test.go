package bintape

import (
	"encoding/json"
	"errors"
	"testing"

	assert "github.com/stretchr/testify/assert"
)

func TestBindIsLastWriteWins(t *testing.T) {
	registry := NewFieldRegistry()

	registry.Bind("x", uint64(1), 10)
	registry.Bind("y", "hello", 12)
	registry.Bind("x", uint64(2), 20)

	value, pres := registry.ValueOf("x")
	assert.True(t, pres)
	assert.Equal(t, uint64(2), value)

	offset, err := registry.OffsetOf("x")
	assert.NoError(t, err)
	assert.Equal(t, int64(20), offset)

	// Rebinding does not duplicate the name.
	assert.Equal(t, []string{"x", "y"}, registry.Names())
	assert.Equal(t, 2, registry.Len())
}

func TestValueLookupIsNonFatal(t *testing.T) {
	registry := NewFieldRegistry()

	value, pres := registry.ValueOf("missing")
	assert.False(t, pres)
	assert.Nil(t, value)
}

func TestOffsetLookupFailsForUnknownName(t *testing.T) {
	registry := NewFieldRegistry()

	_, err := registry.OffsetOf("missing")
	var unknown *UnknownFieldError
	assert.True(t, errors.As(err, &unknown))
	assert.Equal(t, "missing", unknown.Name)
}

func TestRegistryMarshalsInBindOrder(t *testing.T) {
	registry := NewFieldRegistry()
	registry.Bind("tag", "TAG", 0)
	registry.Bind("genre", uint64(17), 127)

	serialized, err := json.Marshal(registry)
	assert.NoError(t, err)
	assert.Equal(t, `{"tag":"TAG","genre":17}`, string(serialized))

	// Rebinding a field with later siblings must not move it.
	registry.Bind("tag", "TAG", 10)

	serialized, err = json.Marshal(registry)
	assert.NoError(t, err)
	assert.Equal(t, `{"tag":"TAG","genre":17}`, string(serialized))
}
