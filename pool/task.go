package pool

import (
	"context"

	"golang.org/x/time/rate"
)

// ProcessFunc is the callable shape a typed pool executes: one argument
// in, one result out, with the pool's execution context. The context
// stays alive until every worker has exited.
type ProcessFunc[T, R any] func(ctx context.Context, arg T) (R, error)

// job is the type-erased capability the dynamic pool queues: run
// executes the callable and settles the handle, abandon settles it
// with ErrTaskAbandoned without running anything. One generic adapter
// per result type implements it; the adapter is boxed once at
// submission and never copied after.
type job interface {
	run(ctx context.Context) error
	abandon()
}

// call adapts one callable and its handle to the job capability.
type call[R any] struct {
	fn  func(context.Context) (R, error)
	h   *Handle[R]
	lim *rate.Limiter
}

func (c *call[R]) run(ctx context.Context) error {
	c.h.markRunning()
	value, err := invoke(ctx, c.lim, c.fn)
	c.h.complete(value, err)
	return err
}

func (c *call[R]) abandon() {
	var zero R
	c.h.complete(zero, ErrTaskAbandoned)
}

// item is the concrete task a typed pool queues: argument plus handle,
// stored by value so queueing allocates nothing beyond the handle.
type item[T, R any] struct {
	arg T
	h   *Handle[R]
}
