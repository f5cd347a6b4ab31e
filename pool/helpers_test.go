package pool_test

import (
	"testing"
	"time"

	"github.com/taskmill/taskmill/pool"
)

// queueConfig is one queue configuration a typed pool can run under.
// Tests that assert behavior shared by every configuration run once per
// entry.
type queueConfig struct {
	name string
	opts []pool.Option
}

func allQueueConfigs(workers int, extra ...pool.Option) []queueConfig {
	configs := []queueConfig{
		{
			name: "Channel",
			opts: []pool.Option{
				pool.WithWorkerCount(workers),
			},
		},
		{
			name: "Inline",
			opts: []pool.Option{
				pool.WithWorkerCount(workers),
				pool.WithInlineQueue(256),
			},
		},
		{
			name: "InlineBatched",
			opts: []pool.Option{
				pool.WithWorkerCount(workers),
				pool.WithInlineQueue(256),
				pool.WithBatchDequeue(8),
			},
		},
	}
	for i := range configs {
		configs[i].opts = append(configs[i].opts, extra...)
	}
	return configs
}

func runQueueConfigs(t *testing.T, workers int, testFunc func(t *testing.T, qc queueConfig), extra ...pool.Option) {
	for _, qc := range allQueueConfigs(workers, extra...) {
		t.Run(qc.name, func(t *testing.T) {
			testFunc(t, qc)
		})
	}
}

// waitForTermination polls until the pool reports zero live workers,
// after which every activity counter is final.
func waitForTermination(t *testing.T, stats func() pool.Stats) {
	t.Helper()
	deadline := time.Now().Add(5 * time.Second)
	for stats().Workers != 0 {
		if time.Now().After(deadline) {
			t.Fatal("pool never finished tearing down")
		}
		time.Sleep(2 * time.Millisecond)
	}
}
