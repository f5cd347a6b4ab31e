package pool

import (
	"context"
	"fmt"
	"runtime"

	"golang.org/x/time/rate"

	"github.com/taskmill/taskmill/internal/cpu"
)

// worker loops until the queue reports exhaustion (graceful drain) or
// the quit channel fires (abandon cutover). Task failures never exit
// the loop; only lifecycle events do, so a failing task cannot shrink
// the pool.
func (e *engine[J]) worker(id int) error {
	if e.conf.pin {
		defer cpu.Pin(id)()
	}

	if e.conf.batch > 1 {
		return e.workerBatched(id)
	}

	for {
		j, ok := e.queue.take(e.quit)
		if !ok {
			debugLog("worker %d exiting", id)
			return nil
		}
		if e.abandoning() {
			// Shutdown won the race while this element was in hand:
			// fail it rather than start it, keeping the cutover crisp.
			e.drop(j)
			e.abandoned.Add(1)
			return nil
		}
		e.execute(j)
	}
}

// workerBatched follows every blocking take with up to conf.batch-1
// opportunistic grabs, amortizing queue synchronization. A task is
// executed the moment it is taken: the worker never holds an unstarted
// task while running another, so work behind a slow task stays visible
// to idle workers. Execution semantics are identical to the
// one-at-a-time loop, including the per-element abandon check.
func (e *engine[J]) workerBatched(id int) error {
	for {
		j, ok := e.queue.take(e.quit)
		if !ok {
			debugLog("worker %d exiting after batch drain", id)
			return nil
		}
		if e.abandoning() {
			e.drop(j)
			e.abandoned.Add(1)
			return nil
		}
		e.execute(j)

		for n := 1; n < e.conf.batch; n++ {
			j, ok := e.queue.tryTake()
			if !ok {
				break
			}
			if e.abandoning() {
				e.drop(j)
				e.abandoned.Add(1)
				return nil
			}
			e.execute(j)
		}
	}
}

// abandoning reports whether the abandon cutover has fired.
func (e *engine[J]) abandoning() bool {
	select {
	case <-e.quit:
		return true
	default:
		return false
	}
}

func (e *engine[J]) execute(j J) {
	if err := e.exec(e.ctx, j); err != nil {
		e.failed.Add(1)
		return
	}
	e.completed.Add(1)
}

// invoke runs a zero-argument callable through the rate gate and the
// panic fence.
func invoke[R any](ctx context.Context, lim *rate.Limiter, fn func(context.Context) (R, error)) (value R, err error) {
	defer func() {
		if r := recover(); r != nil {
			var zero R
			value = zero
			err = panicError(r)
		}
	}()

	if lim != nil {
		if werr := lim.Wait(ctx); werr != nil {
			return value, werr
		}
	}
	return fn(ctx)
}

// invokeArg is invoke for the typed pool's one-argument shape.
func invokeArg[T, R any](ctx context.Context, lim *rate.Limiter, fn ProcessFunc[T, R], arg T) (value R, err error) {
	defer func() {
		if r := recover(); r != nil {
			var zero R
			value = zero
			err = panicError(r)
		}
	}()

	if lim != nil {
		if werr := lim.Wait(ctx); werr != nil {
			return value, werr
		}
	}
	return fn(ctx, arg)
}

// panicError converts a recovered panic value into a task failure that
// carries the panicking goroutine's stack.
func panicError(r any) error {
	buf := make([]byte, 4096)
	n := runtime.Stack(buf, false)
	return fmt.Errorf("%w: %v\nstack trace:\n%s", ErrPanic, r, buf[:n])
}
