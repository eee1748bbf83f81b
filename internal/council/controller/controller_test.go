package controller

import (
	"testing"
	"time"

	"github.com/chain-ml/council-sub000/internal/council/budget"
	"github.com/chain-ml/council-sub000/internal/council/contexts"
	"github.com/chain-ml/council-sub000/internal/council/monitor"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBasic_SequentialModeRanksAllNegativeOne(t *testing.T) {
	b := budget.New(time.Second)
	ctx := contexts.NewRootChainContext(nil, b, monitor.Root("root", "Test", zerolog.Nop()))

	c := NewBasic(Sequential)
	units, err := c.Execute(ctx, []Chain{{Name: "a"}, {Name: "b"}})
	require.NoError(t, err)
	require.Len(t, units, 2)
	assert.Equal(t, -1, units[0].Rank)
	assert.Equal(t, -1, units[1].Rank)
}

func TestBasic_ParallelModeRanksAllOne(t *testing.T) {
	b := budget.New(time.Second)
	ctx := contexts.NewRootChainContext(nil, b, monitor.Root("root", "Test", zerolog.Nop()))

	c := NewBasic(Parallel)
	units, err := c.Execute(ctx, []Chain{{Name: "a"}, {Name: "b"}})
	require.NoError(t, err)
	for _, u := range units {
		assert.Equal(t, 1, u.Rank)
	}
}

func TestGrouped_PartitionsByRankAscending(t *testing.T) {
	units := []ExecutionUnit{
		{ChainName: "c", Rank: 2},
		{ChainName: "a", Rank: 1},
		{ChainName: "b", Rank: 1},
	}
	groups := Grouped(units)
	require.Len(t, groups, 2)
	assert.Len(t, groups[0], 2)
	assert.Equal(t, "a", groups[0][0].ChainName)
	assert.Equal(t, "b", groups[0][1].ChainName)
	assert.Len(t, groups[1], 1)
	assert.Equal(t, "c", groups[1][0].ChainName)
}
