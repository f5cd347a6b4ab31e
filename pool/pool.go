package pool

import (
	"context"
	"time"
)

// Pool is the dynamic-dispatch engine: one shared FIFO queue of
// type-erased tasks, a fixed set of workers draining it, and a generic
// submission surface that accepts heterogeneous callables. Workers
// start eagerly at construction; Shutdown tears them down under the
// configured policy.
//
// Submit, SubmitCtx and Apply are package-level functions rather than
// methods because methods cannot introduce type parameters; each call
// boxes one task, which is the price of heterogeneity. Pools committed
// to a single callable shape should use TypedPool instead.
type Pool struct {
	conf   *config
	engine *engine[job]
}

// New creates a dynamic-dispatch pool and starts its workers.
func New(opts ...Option) *Pool {
	conf := newConfig(opts...)
	p := &Pool{conf: conf}
	p.engine = newEngine(conf,
		func(ctx context.Context, j job) error { return j.run(ctx) },
		func(j job) { j.abandon() },
	)
	return p
}

// Submit hands one callable to the pool and returns the handle to its
// outcome.
//
// Submitting to a shut-down pool fails with ErrPoolClosed and creates
// no task. When the queue is full, Submit blocks until space opens.
func Submit[R any](p *Pool, fn func() (R, error)) (*Handle[R], error) {
	return enqueue(p, func(context.Context) (R, error) { return fn() })
}

// SubmitCtx is Submit for context-aware callables. fn receives the
// pool's execution context, which stays alive until every worker has
// exited.
func SubmitCtx[R any](p *Pool, fn func(context.Context) (R, error)) (*Handle[R], error) {
	return enqueue(p, fn)
}

// Apply submits fn bound to arg. The argument is captured by value at
// submission time: mutating the caller's variable afterwards is not
// observable by the task.
func Apply[T, R any](p *Pool, fn func(context.Context, T) (R, error), arg T) (*Handle[R], error) {
	return enqueue(p, func(ctx context.Context) (R, error) {
		return fn(ctx, arg)
	})
}

func enqueue[R any](p *Pool, fn func(context.Context) (R, error)) (*Handle[R], error) {
	h := newHandle[R]()
	c := &call[R]{fn: fn, h: h, lim: p.conf.limiter}
	if err := p.engine.submit(c); err != nil {
		return nil, err
	}
	return h, nil
}

// Shutdown tears the pool down under its configured policy: Graceful
// waits for the whole backlog to complete, Abandon fails
// queued-but-unstarted tasks with ErrTaskAbandoned while running tasks
// finish normally. A non-positive timeout waits forever; otherwise
// ErrShutdownTimeout is returned when teardown exceeds it (teardown
// keeps going in the background). A second call returns ErrPoolClosed.
//
// Example:
//
//	p := pool.New(pool.WithWorkerCount(8))
//	defer p.Shutdown(5 * time.Second)
func (p *Pool) Shutdown(timeout time.Duration) error {
	return p.engine.shutdown(timeout)
}

// Stats returns a snapshot of the pool's counters and backlog.
func (p *Pool) Stats() Stats {
	return p.engine.stats()
}
