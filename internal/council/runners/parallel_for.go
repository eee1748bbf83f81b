package runners

import (
	"context"
	"fmt"

	"github.com/chain-ml/council-sub000/internal/council/contexts"
)

// Generator returns the values ParallelFor iterates over; each value's
// position in the slice, counted from 0, is its iteration index.
// Returning an error aborts iteration and surfaces as RunnerGeneratorError.
type Generator func(ctx *contexts.ChainContext) ([]any, error)

// IterationRunner is implemented by a skill that can run as one
// ParallelFor batch item, receiving its own forked ChainContext and the
// IterationContext for this item.
type IterationRunner interface {
	RunIteration(ctx *contexts.ChainContext, iter *contexts.IterationContext) error
}

// ParallelFor invokes skill once per value produced by generator, running
// up to parallelism iterations concurrently. Items are consumed in
// generator order and dispatched in batches of that size; the next batch
// starts only once the current one fully settles. Each iteration runs in
// its own forked SkillContext carrying a fresh IterationContext, so
// nothing leaks between iterations. The final merge order is submission
// order, not completion order.
type ParallelFor struct {
	generator   Generator
	skill       IterationRunner
	parallelism int
}

// NewParallelFor builds a ParallelFor over generator's output, invoking
// skill for each item with up to parallelism concurrent iterations.
func NewParallelFor(generator Generator, skill IterationRunner, parallelism int) *ParallelFor {
	if parallelism <= 0 {
		parallelism = 1
	}
	return &ParallelFor{generator: generator, skill: skill, parallelism: parallelism}
}

func (p *ParallelFor) Run(ctx *contexts.ChainContext) error {
	return guard(ctx, func() error {
		items, err := p.generator(ctx)
		if err != nil {
			return &RunnerGeneratorError{Cause: err}
		}

		for batchStart := 0; batchStart < len(items); batchStart += p.parallelism {
			if ctx.ShouldStop() {
				return nil
			}
			end := batchStart + p.parallelism
			if end > len(items) {
				end = len(items)
			}
			batch := items[batchStart:end]

			children := make([]*contexts.ChainContext, len(batch))
			tasks := make([]func() error, len(batch))
			for j, value := range batch {
				index := batchStart + j
				iter := contexts.NewIterationContext(index, value)
				childMonitor := ctx.Monitor().Child(fmt.Sprintf("parallelFor.iteration[%d]", index), "ParallelFor.child")
				children[j] = ctx.ForkFor(childMonitor, nil)
				j, iter := j, iter
				tasks[j] = func() error { return p.skill.RunIteration(children[j], iter) }
			}

			batchErr := runBatch(context.Background(), ctx.Budget().RemainingDuration(), p.parallelism, tasks)
			if batchErr == context.DeadlineExceeded {
				ctx.Merge(children...)
				return &RunnerTimeoutError{Component: "ParallelFor", Cause: batchErr}
			}
			ctx.Merge(children...)
			if batchErr != nil {
				return batchErr
			}
		}
		return nil
	})
}
