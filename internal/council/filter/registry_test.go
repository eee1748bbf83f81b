package filter

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegistry_InstantiatesBasicWithParams(t *testing.T) {
	r := NewRegistry()
	f, err := r.Instantiate("basic", map[string]any{"threshold": 0.5, "topK": 3})
	require.NoError(t, err)
	basic, ok := f.(*Basic)
	require.True(t, ok)
	assert.Equal(t, 0.5, basic.Threshold)
	assert.Equal(t, 3, basic.TopK)
}

func TestRegistry_UnknownNameFails(t *testing.T) {
	r := NewRegistry()
	_, err := r.Instantiate("nope", nil)
	require.Error(t, err)
}
