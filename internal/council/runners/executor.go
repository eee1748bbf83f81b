package runners

import (
	"context"
	"time"

	"golang.org/x/sync/errgroup"
)

// DefaultExecutorWidth is the default bounded worker pool width of a
// Parallel runner (see Parallel.WithWidth). ParallelFor bounds each batch
// by its own parallelism instead.
const DefaultExecutorWidth = 10

// runBatch runs tasks concurrently, bounded to width in flight at once.
// It returns as soon as the first task fails (with that task's error),
// once every task has finished (nil), or once timeout elapses
// (context.DeadlineExceeded), whichever comes first. Tasks still running
// at that point are left to finish in the background since cancellation
// here is cooperative, not preemptive; tasks not yet started are skipped.
func runBatch(parent context.Context, timeout time.Duration, width int, tasks []func() error) error {
	if len(tasks) == 0 {
		return nil
	}

	gctx, cancel := context.WithTimeout(parent, timeout)
	defer cancel()

	g, innerCtx := errgroup.WithContext(gctx)
	g.SetLimit(width)
	firstErr := make(chan error, 1)
	for _, task := range tasks {
		task := task
		g.Go(func() error {
			select {
			case <-innerCtx.Done():
				return innerCtx.Err()
			default:
			}
			err := task()
			if err != nil {
				select {
				case firstErr <- err:
				default:
				}
			}
			return err
		})
	}

	waited := make(chan error, 1)
	go func() { waited <- g.Wait() }()

	select {
	case err := <-firstErr:
		return err
	case err := <-waited:
		return err
	case <-gctx.Done():
		return context.DeadlineExceeded
	}
}
