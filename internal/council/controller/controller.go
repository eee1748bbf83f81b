// Package controller implements the Controller component: produces a
// ranked plan of ExecutionUnits from the current agent context, either a
// fixed assignment over registered chains (Basic) or an LLM-scored
// selection (LLM-backed).
package controller

import (
	"sort"

	"github.com/chain-ml/council-sub000/internal/council/budget"
	"github.com/chain-ml/council-sub000/internal/council/contexts"
	"github.com/chain-ml/council-sub000/internal/council/messages"
	"github.com/chain-ml/council-sub000/internal/council/runners"
)

// ExecutionUnit is one scheduled chain execution: which chain, the budget
// it gets, an optional seed message, and the rank group it belongs to.
// Units of the same rank run concurrently; ranks execute in ascending
// order.
type ExecutionUnit struct {
	ChainName    string
	Budget       *budget.Budget
	InitialState *messages.ChatMessage
	Rank         int
}

// Chain is the minimal shape a Controller needs to know about a
// registered chain: its stable name and the runner it delegates to.
type Chain struct {
	Name        string
	Runner      runners.Runner
	Description string
}

// Controller produces a ranked plan from the current chain context. Must
// be deterministic given its inputs and any LLM outputs it consults.
type Controller interface {
	Execute(ctx *contexts.ChainContext, chains []Chain) ([]ExecutionUnit, error)
}

// ExecutionMode selects Basic's rank assignment: Sequential assigns every
// unit rank -1 so chains run one at a time in declared order; Parallel
// assigns every unit rank 1 so they all run concurrently.
type ExecutionMode int

const (
	Sequential ExecutionMode = iota
	Parallel
)

// Basic returns one ExecutionUnit per registered chain, all sharing the
// agent's current iteration budget, ranked per mode.
type Basic struct {
	Mode ExecutionMode
}

// NewBasic builds a Basic controller in the given execution mode.
func NewBasic(mode ExecutionMode) *Basic {
	return &Basic{Mode: mode}
}

func (c *Basic) Execute(ctx *contexts.ChainContext, chains []Chain) ([]ExecutionUnit, error) {
	rank := -1
	if c.Mode == Parallel {
		rank = 1
	}
	units := make([]ExecutionUnit, len(chains))
	for i, ch := range chains {
		units[i] = ExecutionUnit{ChainName: ch.Name, Budget: ctx.Budget(), Rank: rank}
	}
	return units, nil
}

// Grouped sorts units by rank ascending and returns them partitioned into
// same-rank groups, the shape the agent loop iterates over.
func Grouped(units []ExecutionUnit) [][]ExecutionUnit {
	sorted := make([]ExecutionUnit, len(units))
	copy(sorted, units)
	sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].Rank < sorted[j].Rank })

	var groups [][]ExecutionUnit
	for i := 0; i < len(sorted); {
		j := i + 1
		for j < len(sorted) && sorted[j].Rank == sorted[i].Rank {
			j++
		}
		groups = append(groups, sorted[i:j])
		i = j
	}
	return groups
}
