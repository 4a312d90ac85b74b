// Package scheduler implements the fixed-size worker pool used for code generation
// and compilation.
package scheduler

import (
	"context"

	"golang.org/x/sync/errgroup"
)

// Result pairs a task with the outcome of running it.
type Result[T, R any] struct {
	Task  T
	Value R
	Err   error
}

// Run executes fn for every task on a fixed number of workers.
//
// Tasks are fed through a bounded channel. Results are delivered on the returned
// channel in completion order, and the channel is closed once every worker has
// exited. A failing task does not stop its siblings. When ctx is cancelled no new
// tasks are handed out; tasks already running receive ctx and finish normally.
//
// The caller must drain the returned channel.
func Run[T, R any](
	ctx context.Context,
	workers int,
	tasks []T,
	fn func(context.Context, T) (R, error),
) <-chan Result[T, R] {
	if workers < 1 {
		workers = 1
	}
	workers = min(workers, max(len(tasks), 1))

	queue := make(chan T, workers)
	results := make(chan Result[T, R], workers)

	go func() {
		defer close(queue)
		for _, task := range tasks {
			select {
			case queue <- task:
			case <-ctx.Done():
				return
			}
		}
	}()

	var g errgroup.Group
	for range workers {
		g.Go(func() error {
			for task := range queue {
				if ctx.Err() != nil {
					continue
				}
				value, err := fn(ctx, task)
				results <- Result[T, R]{Task: task, Value: value, Err: err}
			}
			return nil
		})
	}

	go func() {
		_ = g.Wait()
		close(results)
	}()

	return results
}

// Collect runs the pool and gathers every result.
// The order of the returned slice is completion order.
func Collect[T, R any](
	ctx context.Context,
	workers int,
	tasks []T,
	fn func(context.Context, T) (R, error),
) []Result[T, R] {
	out := make([]Result[T, R], 0, len(tasks))
	for res := range Run(ctx, workers, tasks, fn) {
		out = append(out, res)
	}
	return out
}
