package controller

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegistry_InstantiatesSequentialAndParallel(t *testing.T) {
	r := NewRegistry()

	seq, err := r.Instantiate("sequential", nil)
	require.NoError(t, err)
	basic, ok := seq.(*Basic)
	require.True(t, ok)
	assert.Equal(t, Sequential, basic.Mode)

	par, err := r.Instantiate("Parallel", nil)
	require.NoError(t, err)
	basic, ok = par.(*Basic)
	require.True(t, ok)
	assert.Equal(t, Parallel, basic.Mode)
}

func TestRegistry_UnknownNameFails(t *testing.T) {
	r := NewRegistry()
	_, err := r.Instantiate("nope", nil)
	require.Error(t, err)
}
