package pool

import (
	"context"
	"time"
)

// TypedPool is the statically-specialized engine: a pool committed at
// construction to one callable shape, so the queue stores concrete
// {argument, handle} pairs with no per-task boxing and no indirect
// dispatch. Queueing, ordering and shutdown guarantees are identical to
// Pool; the specialization is purely about throughput on uniform work.
//
// For uniform work at high submission rates, WithInlineQueue and
// WithBatchDequeue specialize the pool further: payloads live inline in
// a contiguous ring and workers dequeue in small batches. Neither
// changes observable behavior.
type TypedPool[T, R any] struct {
	conf   *config
	fn     ProcessFunc[T, R]
	engine *engine[item[T, R]]
}

// NewTyped creates a typed pool around fn and starts its workers.
func NewTyped[T, R any](fn ProcessFunc[T, R], opts ...Option) *TypedPool[T, R] {
	conf := newConfig(opts...)
	tp := &TypedPool[T, R]{conf: conf, fn: fn}
	tp.engine = newEngine(conf,
		func(ctx context.Context, it item[T, R]) error {
			it.h.markRunning()
			value, err := invokeArg(ctx, conf.limiter, fn, it.arg)
			it.h.complete(value, err)
			return err
		},
		func(it item[T, R]) {
			var zero R
			it.h.complete(zero, ErrTaskAbandoned)
		},
	)
	return tp
}

// Submit enqueues one argument for execution and returns the handle to
// its outcome. It fails with ErrPoolClosed after Shutdown and blocks
// while the queue is full.
func (tp *TypedPool[T, R]) Submit(arg T) (*Handle[R], error) {
	h := newHandle[R]()
	if err := tp.engine.submit(item[T, R]{arg: arg, h: h}); err != nil {
		return nil, err
	}
	return h, nil
}

// Process submits every element of args and blocks until all of them
// settle, returning per-task results indexed like the input. Failures
// are reported per element, not as a collective error. ctx aborts only
// the wait; tasks already submitted keep running.
func (tp *TypedPool[T, R]) Process(ctx context.Context, args []T) ([]Result[R], error) {
	handles := make([]*Handle[R], 0, len(args))
	for _, arg := range args {
		h, err := tp.Submit(arg)
		if err != nil {
			return nil, err
		}
		handles = append(handles, h)
	}

	results := make([]Result[R], len(handles))
	for i, h := range handles {
		value, err := h.GetContext(ctx)
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		results[i] = Result[R]{Value: value, Err: err, Index: i}
	}
	return results, nil
}

// Shutdown tears the pool down under its configured policy, exactly
// like Pool.Shutdown.
func (tp *TypedPool[T, R]) Shutdown(timeout time.Duration) error {
	return tp.engine.shutdown(timeout)
}

// Stats returns a snapshot of the pool's counters and backlog.
func (tp *TypedPool[T, R]) Stats() Stats {
	return tp.engine.stats()
}
