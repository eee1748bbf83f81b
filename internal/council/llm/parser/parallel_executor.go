package parser

import (
	"context"

	"golang.org/x/sync/errgroup"
)

// ParallelExecute runs execute n times concurrently with identical
// arguments (only ctx varies, carrying per-worker cancellation) and
// reduces the n results via reduce. On any worker error, pending workers'
// results are discarded (their context is cancelled) and the error is
// returned.
func ParallelExecute[T any](ctx context.Context, n int, execute func(ctx context.Context) (T, error), reduce func([]T) T) (T, error) {
	var zero T
	results := make([]T, n)

	g, gctx := errgroup.WithContext(ctx)
	for i := 0; i < n; i++ {
		i := i
		g.Go(func() error {
			r, err := execute(gctx)
			if err != nil {
				return err
			}
			results[i] = r
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return zero, err
	}
	return reduce(results), nil
}
