package runners

import (
	"fmt"

	"github.com/chain-ml/council-sub000/internal/council/contexts"
)

// Sequential runs each child runner in order, merging its fork's messages
// into the parent before moving on to the next child so that later
// children observe earlier output. Stops early once ctx.ShouldStop().
type Sequential struct {
	runners []Runner
}

// NewSequential builds a Sequential runner over the given children.
func NewSequential(runners ...Runner) *Sequential {
	return &Sequential{runners: runners}
}

// FromList returns runners[0] unwrapped when there's exactly one child, or
// a Sequential over all of them otherwise — the Go analogue of
// Sequential.from_list, useful when a chain is built from a variadic list
// of steps that might collapse to a single runner.
func FromList(runners ...Runner) Runner {
	if len(runners) == 1 {
		return runners[0]
	}
	return NewSequential(runners...)
}

func (s *Sequential) Run(ctx *contexts.ChainContext) error {
	return guard(ctx, func() error {
		for i, child := range s.runners {
			if ctx.ShouldStop() {
				return nil
			}
			childMonitor := ctx.Monitor().Child(fmt.Sprintf("sequential[%d]", i), "Sequential.child")
			childCtx := ctx.ForkFor(childMonitor, nil)
			err := child.Run(childCtx)
			ctx.Merge(childCtx)
			if err != nil {
				return err
			}
		}
		return nil
	})
}
