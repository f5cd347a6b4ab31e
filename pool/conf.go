package pool

import (
	"runtime"

	"golang.org/x/time/rate"
)

// ShutdownPolicy fixes, at construction time, what Shutdown does with
// tasks still queued when it is called. The policy cannot change for
// the pool's lifetime.
type ShutdownPolicy int

const (
	// Graceful blocks shutdown until every queued task has completed.
	Graceful ShutdownPolicy = iota
	// Abandon stops dequeuing at the shutdown cutover and fails every
	// queued-but-unstarted task with ErrTaskAbandoned. Tasks already
	// running complete normally.
	Abandon
)

func (p ShutdownPolicy) String() string {
	if p == Abandon {
		return "abandon"
	}
	return "graceful"
}

// Option is a functional option for configuring a pool.
type Option func(*config)

type config struct {
	workers   int
	queueCap  int
	policy    ShutdownPolicy
	limiter   *rate.Limiter
	inline    bool
	inlineCap int
	batch     int
	watermark int
	pin       bool
}

const defaultInlineCapacity = 1024

func newConfig(opts ...Option) *config {
	cfg := &config{
		workers:   runtime.GOMAXPROCS(0),
		queueCap:  -1,
		inlineCap: defaultInlineCapacity,
		batch:     1,
	}
	for _, opt := range opts {
		opt(cfg)
	}
	// Defaults derived from the final worker count.
	if cfg.queueCap < 0 {
		cfg.queueCap = cfg.workers
	}
	if cfg.watermark <= 0 {
		cfg.watermark = 2 * cfg.workers
	}
	return cfg
}

// WithWorkerCount sets the number of concurrent workers.
// If not specified, defaults to runtime.GOMAXPROCS(0).
func WithWorkerCount(count int) Option {
	return func(cfg *config) {
		if count > 0 {
			cfg.workers = count
		}
	}
}

// WithQueueCapacity sets the buffer size of the task queue. Submissions
// block while the queue is full, so a larger buffer trades memory for
// submitter latency. If not specified, defaults to the worker count.
func WithQueueCapacity(size int) Option {
	return func(cfg *config) {
		if size >= 0 {
			cfg.queueCap = size
		}
	}
}

// WithShutdownPolicy selects the pool's teardown behavior: Graceful
// (the default) drains the queue before Shutdown returns, Abandon fails
// queued-but-unstarted tasks with ErrTaskAbandoned.
func WithShutdownPolicy(policy ShutdownPolicy) Option {
	return func(cfg *config) {
		cfg.policy = policy
	}
}

// WithRateLimit throttles task starts across all workers.
// tasksPerSecond is the sustained rate and burst the spike allowance.
// Useful when tasks hit external services or APIs. If not specified,
// no rate limiting is applied.
//
// Example:
//
//	WithRateLimit(10, 5) // allow 10 tasks/sec with burst of 5
func WithRateLimit(tasksPerSecond float64, burst int) Option {
	return func(cfg *config) {
		if tasksPerSecond > 0 && burst > 0 {
			cfg.limiter = rate.NewLimiter(rate.Limit(tasksPerSecond), burst)
		}
	}
}

// WithInlineQueue replaces the channel queue with a contiguous MPMC
// ring that stores task payloads inline in its slot array, removing the
// per-element queue allocation. capacity is rounded up to a power of
// two (default 1024). Intended for pools whose tasks share one shape
// under high submission rates; semantics are identical to the default
// queue.
func WithInlineQueue(capacity int) Option {
	return func(cfg *config) {
		cfg.inline = true
		if capacity > 0 {
			cfg.inlineCap = capacity
		}
	}
}

// WithBatchDequeue lets each worker follow a blocking dequeue with up
// to n-1 opportunistic grabs, amortizing synchronization under uniform
// high-rate load. Each task runs as soon as it is taken, so execution
// semantics are unchanged. n <= 1 disables batching.
func WithBatchDequeue(n int) Option {
	return func(cfg *config) {
		if n > 1 {
			cfg.batch = n
		}
	}
}

// WithWatermark bounds how many bulk-submitted tasks may be in flight
// ahead of the consumer of a SubmitRange stream. Defaults to twice the
// worker count.
func WithWatermark(n int) Option {
	return func(cfg *config) {
		if n > 0 {
			cfg.watermark = n
		}
	}
}

// WithPinnedWorkers locks each worker to an OS thread and binds it to a
// CPU core where the platform allows, reducing scheduler migration for
// CPU-bound workloads.
func WithPinnedWorkers() Option {
	return func(cfg *config) {
		cfg.pin = true
	}
}
