package runners

import (
	"context"
	"fmt"

	"github.com/chain-ml/council-sub000/internal/council/contexts"
)

// Parallel forks a child ChainContext per runner, runs all of them
// concurrently bounded by the remaining budget duration with
// FIRST_EXCEPTION semantics, and on success merges the children's
// messages in declared (not completion) order so the observed message
// sequence is deterministic across runs.
type Parallel struct {
	runners []Runner
	width   int
}

// NewParallel builds a Parallel runner over the given children using the
// default executor width.
func NewParallel(runners ...Runner) *Parallel {
	return &Parallel{runners: runners, width: DefaultExecutorWidth}
}

// WithWidth overrides the bounded worker pool width for this Parallel.
func (p *Parallel) WithWidth(width int) *Parallel {
	p.width = width
	return p
}

func (p *Parallel) Run(ctx *contexts.ChainContext) error {
	return guard(ctx, func() error {
		children := make([]*contexts.ChainContext, len(p.runners))
		for i := range p.runners {
			childMonitor := ctx.Monitor().Child(fmt.Sprintf("parallel[%d]", i), "Parallel.child")
			children[i] = ctx.ForkFor(childMonitor, nil)
		}

		tasks := make([]func() error, len(p.runners))
		for i, r := range p.runners {
			i, r := i, r
			tasks[i] = func() error { return r.Run(children[i]) }
		}

		err := runBatch(context.Background(), ctx.Budget().RemainingDuration(), p.width, tasks)
		if err == context.DeadlineExceeded {
			return &RunnerTimeoutError{Component: "Parallel", Cause: err}
		}
		if err != nil {
			return err
		}

		ctx.Merge(children...)
		return nil
	})
}
