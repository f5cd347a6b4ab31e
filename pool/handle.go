package pool

import (
	"context"
	"sync/atomic"
	"time"
)

// TaskState describes where a task is in its lifecycle.
type TaskState int32

const (
	// StatePending means the task is queued and no worker has picked it
	// up yet.
	StatePending TaskState = iota
	// StateRunning means a worker is executing the callable.
	StateRunning
	// StateCompleted means the callable returned normally.
	StateCompleted
	// StateFailed means the callable returned an error or panicked, or
	// the task was abandoned at shutdown.
	StateFailed
)

func (s TaskState) String() string {
	switch s {
	case StatePending:
		return "pending"
	case StateRunning:
		return "running"
	case StateCompleted:
		return "completed"
	case StateFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// Handle is the caller-held reference to a submitted task's eventual
// outcome. It is created at submission time and settled exactly once,
// by the worker that executed the task or by the shutdown path that
// abandoned it.
//
// Retrieval is a one-time move: the first Get (or GetContext) returns
// the task's value and error, every later retrieval returns the zero
// value and ErrResultTaken. Handles are shared by pointer, so any copy
// observes the same task; WaitFor, Done, Ready and State never consume
// the payload.
type Handle[R any] struct {
	done  chan struct{}
	value R
	err   error
	state atomic.Int32
	taken atomic.Bool
}

func newHandle[R any]() *Handle[R] {
	return &Handle[R]{done: make(chan struct{})}
}

// failedHandle builds a handle that is already settled with err. Used
// for submissions that never made it into a queue.
func failedHandle[R any](err error) *Handle[R] {
	h := newHandle[R]()
	var zero R
	h.complete(zero, err)
	return h
}

func (h *Handle[R]) markRunning() {
	h.state.Store(int32(StateRunning))
}

// complete stores the outcome and wakes every waiter. Called exactly
// once per handle; the value and error writes happen before the done
// channel closes, which is the synchronization point for readers.
func (h *Handle[R]) complete(value R, err error) {
	h.value = value
	h.err = err
	if err != nil {
		h.state.Store(int32(StateFailed))
	} else {
		h.state.Store(int32(StateCompleted))
	}
	close(h.done)
}

// Get blocks until the task reaches Completed or Failed, then moves the
// payload out. The first caller gets the task's value and error; every
// later caller gets the zero value and ErrResultTaken, for failed tasks
// too.
func (h *Handle[R]) Get() (R, error) {
	<-h.done
	return h.take()
}

// GetContext behaves like Get but also unblocks when ctx is done,
// returning ctx.Err(). A context abort does not consume the payload.
func (h *Handle[R]) GetContext(ctx context.Context) (R, error) {
	select {
	case <-h.done:
		return h.take()
	case <-ctx.Done():
		var zero R
		return zero, ctx.Err()
	}
}

// WaitFor blocks until the task settles or d elapses, reporting whether
// the outcome is ready. It never consumes the payload. A non-positive d
// waits forever.
func (h *Handle[R]) WaitFor(d time.Duration) bool {
	if d <= 0 {
		<-h.done
		return true
	}
	select {
	case <-h.done:
		return true
	case <-time.After(d):
		return false
	}
}

// Done returns a channel that is closed once the task reaches Completed
// or Failed, for use in select loops.
func (h *Handle[R]) Done() <-chan struct{} {
	return h.done
}

// Ready reports without blocking whether the outcome is available.
func (h *Handle[R]) Ready() bool {
	select {
	case <-h.done:
		return true
	default:
		return false
	}
}

// State returns the task's current lifecycle state.
func (h *Handle[R]) State() TaskState {
	return TaskState(h.state.Load())
}

// take performs the one-time move. Exactly one caller wins the CAS;
// losers never touch the payload.
func (h *Handle[R]) take() (R, error) {
	var zero R
	if !h.taken.CompareAndSwap(false, true) {
		return zero, ErrResultTaken
	}
	value, err := h.value, h.err
	h.value = zero
	return value, err
}
