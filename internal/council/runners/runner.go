package runners

import (
	"context"

	"github.com/chain-ml/council-sub000/internal/council/contexts"
)

// Runner is implemented by every node of the composable runner tree: a
// single skill or a composite (Sequential, Parallel, If, While, DoWhile,
// ParallelFor).
type Runner interface {
	Run(ctx *contexts.ChainContext) error
}

// RunnerFunc adapts a plain function to the Runner interface, handy for
// tests and for wrapping skills that don't need their own named type.
type RunnerFunc func(ctx *contexts.ChainContext) error

func (f RunnerFunc) Run(ctx *contexts.ChainContext) error { return f(ctx) }

// guard implements the RunnerBase wrapper shared by every composite
// runner: skip if the context already says stop, scope the call in the
// context's monitor node, and on failure cancel the shared cancellation
// token before classifying the error.
//
//   1. if ctx.ShouldStop() -> return nil without running fn
//   2. wrap fn() in the monitor's log-entry scope
//   3. on error, cancel the token; wrap unknown errors as *RunnerError
//   4. always record start/end in the log
func guard(ctx *contexts.ChainContext, fn func() error) error {
	if ctx.ShouldStop() {
		return nil
	}

	_, end := ctx.Monitor().Begin(context.Background())
	err := fn()
	cancelled := false
	if err != nil {
		ctx.CancellationToken().Cancel()
		cancelled = true
		if !isRunnerError(err) {
			err = &RunnerError{Component: ctx.Monitor().Name(), Cause: err}
		}
	}
	end(err, cancelled)
	return err
}
