package ring

import (
	"sync"
	"sync/atomic"
	"testing"
	"time"
)

func TestQueue_BasicEnqueueDequeue(t *testing.T) {
	q := New[int](10)
	quit := make(chan struct{})

	for i := 0; i < 5; i++ {
		if err := q.Enqueue(quit, i); err != nil {
			t.Fatalf("failed to enqueue %d: %v", i, err)
		}
	}

	for i := 0; i < 5; i++ {
		val, err := q.Dequeue(quit)
		if err != nil {
			t.Fatalf("failed to dequeue: %v", err)
		}
		if val != i {
			t.Errorf("expected %d, got %d", i, val)
		}
	}
}

func TestQueue_CapacityRounding(t *testing.T) {
	cases := []struct {
		requested int
		expected  int
	}{
		{0, 2},
		{1, 2},
		{2, 2},
		{3, 4},
		{100, 128},
		{1024, 1024},
	}

	for _, tc := range cases {
		q := New[int](tc.requested)
		if q.Cap() != tc.expected {
			t.Errorf("capacity %d: expected %d, got %d", tc.requested, tc.expected, q.Cap())
		}
	}
}

func TestQueue_FullBlocksUntilSpace(t *testing.T) {
	capacity := 4
	q := New[int](capacity)
	quit := make(chan struct{})

	for i := 0; i < capacity; i++ {
		if err := q.Enqueue(quit, i); err != nil {
			t.Fatalf("failed to enqueue %d: %v", i, err)
		}
	}

	// Free one slot after a delay; the blocked enqueue should then land.
	go func() {
		time.Sleep(50 * time.Millisecond)
		_, _ = q.Dequeue(quit)
	}()

	start := time.Now()
	if err := q.Enqueue(quit, 999); err != nil {
		t.Fatalf("enqueue into draining queue failed: %v", err)
	}
	if time.Since(start) < 20*time.Millisecond {
		t.Error("expected enqueue to block until a slot was freed")
	}
}

func TestQueue_EnqueueStopped(t *testing.T) {
	capacity := 2
	q := New[int](capacity)
	quit := make(chan struct{})

	for i := 0; i < capacity; i++ {
		if err := q.Enqueue(quit, i); err != nil {
			t.Fatalf("failed to enqueue %d: %v", i, err)
		}
	}

	go func() {
		time.Sleep(20 * time.Millisecond)
		close(quit)
	}()

	err := q.Enqueue(quit, 999)
	if err != ErrStopped {
		t.Errorf("expected ErrStopped on full queue with quit fired, got %v", err)
	}
	if q.Len() != capacity {
		t.Errorf("stopped enqueue must not store its value: len = %d", q.Len())
	}
}

func TestQueue_DequeueStopped(t *testing.T) {
	q := New[int](8)
	quit := make(chan struct{})

	go func() {
		time.Sleep(20 * time.Millisecond)
		close(quit)
	}()

	_, err := q.Dequeue(quit)
	if err != ErrStopped {
		t.Errorf("expected ErrStopped on empty queue with quit fired, got %v", err)
	}
}

func TestQueue_Close(t *testing.T) {
	q := New[int](10)
	quit := make(chan struct{})

	for i := 0; i < 5; i++ {
		if err := q.Enqueue(quit, i); err != nil {
			t.Fatalf("failed to enqueue: %v", err)
		}
	}

	q.Close()

	if err := q.Enqueue(quit, 999); err != ErrClosed {
		t.Errorf("expected ErrClosed after close, got %v", err)
	}

	// Remaining values stay dequeueable after close.
	for i := 0; i < 5; i++ {
		val, err := q.Dequeue(quit)
		if err != nil {
			t.Fatalf("failed to dequeue remaining value: %v", err)
		}
		if val != i {
			t.Errorf("expected %d, got %d", i, val)
		}
	}

	if _, err := q.Dequeue(quit); err != ErrClosed {
		t.Errorf("expected ErrClosed once drained, got %v", err)
	}
}

func TestQueue_CloseWakesParkedConsumer(t *testing.T) {
	q := New[int](8)
	quit := make(chan struct{})

	errC := make(chan error, 1)
	go func() {
		_, err := q.Dequeue(quit)
		errC <- err
	}()

	time.Sleep(20 * time.Millisecond)
	q.Close()

	select {
	case err := <-errC:
		if err != ErrClosed {
			t.Errorf("expected ErrClosed, got %v", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("consumer parked on a closed queue never woke")
	}
}

func TestQueue_TryDequeue(t *testing.T) {
	q := New[int](10)
	quit := make(chan struct{})

	if _, ok := q.TryDequeue(); ok {
		t.Error("expected TryDequeue to return false on empty queue")
	}

	for i := range 3 {
		if err := q.Enqueue(quit, i); err != nil {
			t.Fatalf("failed to enqueue: %v", err)
		}
	}

	for i := range 3 {
		val, ok := q.TryDequeue()
		if !ok {
			t.Fatal("expected TryDequeue to succeed")
		}
		if val != i {
			t.Errorf("expected %d, got %d", i, val)
		}
	}

	if _, ok := q.TryDequeue(); ok {
		t.Error("expected TryDequeue to return false after draining")
	}
}

func TestQueue_ConcurrentProducerConsumer(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping concurrency stress test in short mode")
	}

	q := New[int](128)
	quit := make(chan struct{})

	producerCount := 4
	consumerCount := 4
	itemsPerProducer := 500
	total := producerCount * itemsPerProducer

	var producerWg, consumerWg sync.WaitGroup
	var consumed atomic.Int32
	received := make(map[int]bool)
	var mu sync.Mutex

	producerWg.Add(producerCount)
	for p := 0; p < producerCount; p++ {
		go func(producerID int) {
			defer producerWg.Done()
			for i := 0; i < itemsPerProducer; i++ {
				val := producerID*itemsPerProducer + i
				if err := q.Enqueue(quit, val); err != nil {
					t.Errorf("producer %d: failed to enqueue %d: %v", producerID, val, err)
					return
				}
			}
		}(p)
	}

	consumerWg.Add(consumerCount)
	for c := 0; c < consumerCount; c++ {
		go func(consumerID int) {
			defer consumerWg.Done()
			for {
				val, err := q.Dequeue(quit)
				if err != nil {
					if err == ErrClosed {
						return
					}
					t.Errorf("consumer %d: unexpected error: %v", consumerID, err)
					return
				}

				mu.Lock()
				if received[val] {
					t.Errorf("consumer %d: duplicate value %d", consumerID, val)
				}
				received[val] = true
				mu.Unlock()
				consumed.Add(1)
			}
		}(c)
	}

	producerWg.Wait()
	q.Close()

	done := make(chan struct{})
	go func() {
		consumerWg.Wait()
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(10 * time.Second):
		t.Fatalf("timeout waiting for consumers (consumed %d/%d)", consumed.Load(), total)
	}

	if int(consumed.Load()) != total {
		t.Errorf("expected %d values consumed, got %d", total, consumed.Load())
	}
}

func BenchmarkQueue_EnqueueDequeue(b *testing.B) {
	q := New[int](1024)
	quit := make(chan struct{})

	b.RunParallel(func(pb *testing.PB) {
		i := 0
		for pb.Next() {
			if i%2 == 0 {
				_ = q.Enqueue(quit, i)
			} else {
				_, _ = q.TryDequeue()
			}
			i++
		}
	})
}
