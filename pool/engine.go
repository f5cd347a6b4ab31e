package pool

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"golang.org/x/sync/errgroup"
)

// engine is the queue/worker core shared by Pool and TypedPool. J is
// the queued element: a boxed job for the dynamic pool, an inline
// item[T, R] for typed pools. The engine owns the queue, the worker
// set, the shutdown state machine and the activity counters; what an
// element means is supplied by the two callbacks.
type engine[J any] struct {
	conf *config

	queue workQueue[J]
	quit  chan struct{} // closed at the abandon-shutdown cutover
	done  chan struct{} // closed after workers exited and cleanup ran

	mu       sync.RWMutex
	closed   bool
	inflight sync.WaitGroup // submissions past the closed check, not yet queued

	ctx    context.Context // execution context handed to callables
	cancel context.CancelFunc

	exec func(ctx context.Context, j J) error
	drop func(j J)

	submitted atomic.Uint64
	completed atomic.Uint64
	failed    atomic.Uint64
	abandoned atomic.Uint64
}

// Stats is a point-in-time snapshot of a pool's activity. Counters are
// monotonic over the pool's lifetime; Backlog is the approximate number
// of queued tasks and Workers the number of live workers.
type Stats struct {
	Workers   int
	Backlog   int
	Submitted uint64
	Completed uint64
	Failed    uint64
	Abandoned uint64
}

func newEngine[J any](conf *config, exec func(context.Context, J) error, drop func(J)) *engine[J] {
	ctx, cancel := context.WithCancel(context.Background())
	e := &engine[J]{
		conf:   conf,
		queue:  newWorkQueue[J](conf),
		quit:   make(chan struct{}),
		done:   make(chan struct{}),
		ctx:    ctx,
		cancel: cancel,
		exec:   exec,
		drop:   drop,
	}
	e.start()
	return e
}

// start launches the worker set eagerly: one goroutine per worker plus
// a watcher that runs teardown bookkeeping once all of them exited.
func (e *engine[J]) start() {
	var g errgroup.Group
	for i := range e.conf.workers {
		g.Go(func() error {
			return e.worker(i)
		})
	}

	go func() {
		_ = g.Wait()
		// Anything still queued once the workers stopped was never
		// started. Under the abandon policy it is failed out here,
		// before done closes, so Shutdown callers observe the failures.
		// Waiting for in-flight submissions first closes the race where
		// a putter wins its select against the cutover and lands an
		// element after the sweep.
		if e.conf.policy == Abandon {
			e.inflight.Wait()
			e.drainAbandoned()
		}
		e.cancel()
		close(e.done)
	}()

	debugLog("engine started: workers=%d inline=%v batch=%d policy=%s",
		e.conf.workers, e.conf.inline, e.conf.batch, e.conf.policy)
}

func (e *engine[J]) drainAbandoned() {
	for {
		j, ok := e.queue.tryTake()
		if !ok {
			return
		}
		e.drop(j)
		e.abandoned.Add(1)
	}
}

// submit enqueues one element. The closed flag is read under the read
// lock while shutdown flips it under the write lock, so lock
// acquisition order is the deterministic cutover for submissions racing
// shutdown. A submission past the check registers in inflight and then
// blocks on a full queue until space opens or the abandon signal fails
// the attempt; the lock is never held across the blocking put.
func (e *engine[J]) submit(j J) error {
	e.mu.RLock()
	if e.closed {
		e.mu.RUnlock()
		return ErrPoolClosed
	}
	e.inflight.Add(1)
	e.mu.RUnlock()
	defer e.inflight.Done()

	if err := e.queue.put(e.quit, j); err != nil {
		return err
	}
	e.submitted.Add(1)
	return nil
}

// shutdown applies the pool's policy and waits up to timeout for the
// workers to finish (non-positive timeout waits forever). On timeout it
// returns ErrShutdownTimeout while teardown continues in the
// background.
func (e *engine[J]) shutdown(timeout time.Duration) error {
	e.mu.Lock()
	if e.closed {
		e.mu.Unlock()
		return ErrPoolClosed
	}
	e.closed = true
	e.mu.Unlock()

	switch e.conf.policy {
	case Abandon:
		// Stop dequeuing. Blocked putters abort, workers abandon
		// anything already in hand and the watcher fails out the
		// backlog.
		close(e.quit)
	default:
		// Graceful: let in-flight puts land, then close the queue so
		// workers drain it and exit. The wait is what makes the close
		// safe against concurrent sends.
		e.inflight.Wait()
		e.queue.close()
	}

	debugLog("shutdown initiated: policy=%s backlog=%d", e.conf.policy, e.queue.len())
	return waitUntil(e.done, timeout)
}

func (e *engine[J]) stats() Stats {
	e.mu.RLock()
	workers := e.conf.workers
	e.mu.RUnlock()

	select {
	case <-e.done:
		workers = 0
	default:
	}

	return Stats{
		Workers:   workers,
		Backlog:   e.queue.len(),
		Submitted: e.submitted.Load(),
		Completed: e.completed.Load(),
		Failed:    e.failed.Load(),
		Abandoned: e.abandoned.Load(),
	}
}

// waitUntil blocks until the done channel is closed or the timeout is
// reached. A non-positive timeout waits forever.
func waitUntil(d <-chan struct{}, timeout time.Duration) error {
	if timeout <= 0 {
		<-d
		return nil
	}

	select {
	case <-d:
		return nil
	case <-time.After(timeout):
		return ErrShutdownTimeout
	}
}
