// Package pool provides worker pools for concurrent task execution
// with result handles, in two flavors: a dynamic-dispatch pool that
// accepts heterogeneous callables behind one submission surface, and a
// statically-specialized pool committed to a single callable shape.
//
// Both share the same mechanics: a FIFO queue, a fixed set of workers
// started eagerly at construction, per-task result handles, panic
// recovery, optional rate limiting, and one of two shutdown policies
// fixed for the pool's lifetime.
//
// # Dynamic Dispatch
//
// Pool accepts any callable returning (R, error), boxing each task.
// SubmitCtx is the form for callables that take the pool's execution
// context:
//
//	p := pool.New(pool.WithWorkerCount(4))
//	defer p.Shutdown(0)
//
//	h, err := pool.SubmitCtx(p, func(ctx context.Context) (string, error) {
//	    return fetch(ctx, url)
//	})
//	if err != nil {
//	    return err
//	}
//	body, err := h.Get()
//
// Submit, SubmitCtx and Apply are package-level functions because Go
// methods cannot introduce type parameters. Apply binds an argument by
// value at submission time:
//
//	h, _ := pool.Apply(p, hash, payload) // payload copied now
//
// # Static Specialization
//
// TypedPool fixes the callable once, so the queue stores concrete
// values instead of boxed tasks:
//
//	squares := pool.NewTyped(func(ctx context.Context, n int) (int, error) {
//	    return n * n, nil
//	}, pool.WithWorkerCount(4))
//	defer squares.Shutdown(0)
//
//	h, _ := squares.Submit(12)
//	v, _ := h.Get() // 144
//
// # Bulk Submission
//
// SubmitRange pipes a lazy input sequence through the pool and yields
// results in submission order, however the workers interleave:
//
//	in := seq.Of(0, 1, 2, 3, 4)
//	out, err := squares.SubmitRange(in).Collect() // [0 1 4 9 16]
//
// Inputs may be infinite; the feeder stays at most one watermark ahead
// of the consumer (WithWatermark), so memory stays bounded. Results.All
// bridges the stream to range-over-func iteration.
//
// # Handles
//
// A Handle settles exactly once and its payload moves out exactly once:
// the first Get wins, later Gets return ErrResultTaken. WaitFor, Done,
// Ready and State observe the task without consuming it:
//
//	if h.WaitFor(time.Second) {
//	    v, err := h.Get()
//	    ...
//	}
//
// # Shutdown Policies
//
//   - Graceful (default): Shutdown blocks until every queued task has
//     completed.
//   - Abandon: Shutdown stops dequeuing; queued-but-unstarted tasks
//     fail with ErrTaskAbandoned while running tasks finish normally.
//
// Submitting after Shutdown fails with ErrPoolClosed. The cutover for a
// submission racing Shutdown is the pool's internal lock: whichever
// acquires it first wins, deterministically.
//
// # Homogeneous Throughput
//
// For uniform work at high submission rates, WithInlineQueue stores
// task payloads inline in a contiguous MPMC ring (no per-element
// allocation) and WithBatchDequeue lets workers drain the queue in
// small batches. Both are pure optimizations: observable behavior is
// identical to the default configuration.
//
// # Configuration Options
//
//   - WithWorkerCount(n): number of workers (default: GOMAXPROCS)
//   - WithQueueCapacity(n): queue buffer; submissions block when full
//   - WithShutdownPolicy(p): Graceful or Abandon
//   - WithRateLimit(tps, burst): throttle task starts
//   - WithInlineQueue(cap): contiguous inline ring queue
//   - WithBatchDequeue(n): batched worker dequeue
//   - WithWatermark(n): bulk-submission in-flight bound
//   - WithPinnedWorkers(): pin workers to OS threads/cores
//
// # Error Handling
//
// Task failures are local to their task: the error is captured on the
// worker, surfaced only through the handle, and never crashes or
// shrinks the pool. Panics are recovered into errors wrapping ErrPanic
// with the stack attached. Abandoned tasks fail with ErrTaskAbandoned,
// distinguishable from anything a task itself returns.
package pool
