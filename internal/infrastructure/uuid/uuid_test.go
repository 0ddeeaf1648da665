package uuid

import (
	"testing"

	guuid "github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNanoIDGenerator(t *testing.T) {
	id, err := NewNanoIDGenerator(12).Generate()
	require.NoError(t, err)
	assert.Len(t, id, 12)

	assert.Panics(t, func() { NewNanoIDGenerator(0) })
}

func TestRandomGenerator(t *testing.T) {
	id, err := RandomGenerator{}.Generate()
	require.NoError(t, err)
	_, err = guuid.Parse(id)
	assert.NoError(t, err)
}
