package pool

import "errors"

var (
	// ErrPoolClosed is returned when submitting to a pool that has been
	// shut down, and by a second call to Shutdown. No task is created.
	ErrPoolClosed = errors.New("pool is closed")

	// ErrTaskAbandoned is the failure recorded on handles of tasks that
	// were still queued when an abandon-policy pool was torn down. It is
	// distinct from anything a task itself can produce.
	ErrTaskAbandoned = errors.New("task abandoned: pool shut down before execution")

	// ErrResultTaken is returned by Get once the handle's payload has
	// already been moved out by an earlier retrieval.
	ErrResultTaken = errors.New("result already taken")

	// ErrPanic wraps the failure recorded when a task panics. Use
	// errors.Is(err, ErrPanic) to tell panics apart from ordinary task
	// errors; the wrapped message carries the panic value and stack.
	ErrPanic = errors.New("task panicked")

	// ErrShutdownTimeout is returned by Shutdown when workers did not
	// finish within the given timeout. Teardown continues in the
	// background.
	ErrShutdownTimeout = errors.New("error in shutting down: timeout reached")
)
