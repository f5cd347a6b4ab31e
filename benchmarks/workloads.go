package benchmarks

import (
	"context"
	"time"

	"github.com/taskmill/taskmill/pool"
)

// queueSetup names one queue configuration to benchmark under.
type queueSetup struct {
	name string
	opts []pool.Option
}

func queueSetups(workers int) []queueSetup {
	return []queueSetup{
		{
			name: "Channel",
			opts: []pool.Option{
				pool.WithWorkerCount(workers),
				pool.WithQueueCapacity(8192),
			},
		},
		{
			name: "Inline",
			opts: []pool.Option{
				pool.WithWorkerCount(workers),
				pool.WithInlineQueue(8192),
			},
		},
		{
			name: "InlineBatched",
			opts: []pool.Option{
				pool.WithWorkerCount(workers),
				pool.WithInlineQueue(8192),
				pool.WithBatchDequeue(16),
			},
		},
	}
}

// cpuBoundWork simulates a CPU-intensive operation.
func cpuBoundWork(iterations int) pool.ProcessFunc[int, int] {
	return func(ctx context.Context, task int) (int, error) {
		result := 0
		for i := range iterations {
			result += i * task
		}
		return result, nil
	}
}

// ioBoundWork simulates an I/O operation with a delay.
func ioBoundWork(delay time.Duration) pool.ProcessFunc[int, int] {
	return func(ctx context.Context, task int) (int, error) {
		select {
		case <-time.After(delay):
			return task * 2, nil
		case <-ctx.Done():
			return 0, ctx.Err()
		}
	}
}

// mixedWork simulates a workload with variable processing time.
func mixedWork() pool.ProcessFunc[int, int] {
	return func(ctx context.Context, task int) (int, error) {
		delay := time.Duration(task%10) * time.Millisecond
		time.Sleep(delay)

		result := 0
		for i := range 1000 {
			result += i
		}
		return result + task, nil
	}
}
