// Package ring implements the bounded MPMC ring buffer behind the
// pool's inline queue mode. Payloads are stored inline in the slot
// array, so enqueueing allocates nothing, and every slot carries a
// sequence number so producers and consumers synchronize without locks.
package ring

import (
	"errors"
	"runtime"
	"sync/atomic"
)

var (
	// ErrClosed is returned by Enqueue after Close, and by Dequeue once
	// the queue is closed and drained.
	ErrClosed = errors.New("ring: queue is closed")

	// ErrStopped is returned when the caller's quit channel fires while
	// an operation is waiting. The value involved was not stored.
	ErrStopped = errors.New("ring: stopped")
)

const (
	// cache line size for padding to prevent false sharing of head/tail
	cacheLinePadding = 128
	// spins before parking on the notify channel
	maxSpinAttempts = 10
	minCapacity     = 2
)

type slot[T any] struct {
	sequence uint64
	value    T
}

// Queue is a bounded lock-free multi-producer multi-consumer FIFO.
// Enqueue blocks while the ring is full, Dequeue while it is empty.
// After Close the remaining values stay dequeueable; once drained,
// Dequeue fails with ErrClosed.
type Queue[T any] struct {
	ring []slot[T]
	// capacity - 1, for fast modulo
	mask uint64

	_    [cacheLinePadding]byte
	head uint64
	_    [cacheLinePadding - 8]byte
	tail uint64
	_    [cacheLinePadding - 8]byte

	closed atomic.Bool

	// buffered, never closed; nudges one parked consumer per enqueue
	notifyC chan struct{}
	// closed exactly once by Close
	closeC chan struct{}

	capacity int
}

// New creates a ring with the given capacity rounded up to a power of
// two (minimum 2).
func New[T any](capacity int) *Queue[T] {
	if capacity < minCapacity {
		capacity = minCapacity
	}
	capacity = nextPowerOfTwo(capacity)

	ring := make([]slot[T], capacity)
	for i := range ring {
		ring[i].sequence = uint64(i)
	}

	return &Queue[T]{
		ring:     ring,
		mask:     uint64(capacity - 1),
		capacity: capacity,
		notifyC:  make(chan struct{}, 1),
		closeC:   make(chan struct{}),
	}
}

// Enqueue appends value, blocking while the ring is full. It fails with
// ErrClosed after Close and with ErrStopped when quit fires first; in
// both cases the value was not stored.
func (q *Queue[T]) Enqueue(quit <-chan struct{}, value T) error {
	spins := 0

	for {
		if q.closed.Load() {
			return ErrClosed
		}
		select {
		case <-quit:
			return ErrStopped
		default:
		}

		tail := atomic.LoadUint64(&q.tail)
		s := &q.ring[tail&q.mask]
		seq := atomic.LoadUint64(&s.sequence)
		diff := int64(seq) - int64(tail)

		if diff == 0 {
			if atomic.CompareAndSwapUint64(&q.tail, tail, tail+1) {
				s.value = value
				atomic.StoreUint64(&s.sequence, tail+1)
				select {
				case q.notifyC <- struct{}{}:
				default:
				}
				return nil
			}
			continue
		}

		// diff < 0: the slot is still owned by a consumer, ring full.
		spins++
		if spins > maxSpinAttempts {
			runtime.Gosched()
			spins = 0
		}
	}
}

// Dequeue removes the oldest value, blocking while the ring is empty.
// It fails with ErrClosed once the ring is closed and drained, and with
// ErrStopped when quit fires while waiting.
func (q *Queue[T]) Dequeue(quit <-chan struct{}) (T, error) {
	var zero T
	spins := 0

	for {
		if q.drained() {
			return zero, ErrClosed
		}

		head := atomic.LoadUint64(&q.head)
		s := &q.ring[head&q.mask]
		seq := atomic.LoadUint64(&s.sequence)
		diff := int64(seq) - int64(head+1)

		if diff == 0 {
			if value, ok := q.release(head, s); ok {
				return value, nil
			}
			continue
		}

		spins++
		if spins < maxSpinAttempts {
			runtime.Gosched()
			continue
		}

		select {
		case <-quit:
			return zero, ErrStopped
		case <-q.closeC:
			// Closed but maybe not drained: loop to pull the rest.
			if q.drained() {
				return zero, ErrClosed
			}
		case <-q.notifyC:
			spins = 0
		}
	}
}

// TryDequeue removes the oldest value without blocking. ok is false
// when the ring is momentarily empty or closed-and-drained.
func (q *Queue[T]) TryDequeue() (T, bool) {
	var zero T
	if q.drained() {
		return zero, false
	}

	head := atomic.LoadUint64(&q.head)
	s := &q.ring[head&q.mask]
	seq := atomic.LoadUint64(&s.sequence)

	if int64(seq)-int64(head+1) == 0 {
		return q.release(head, s)
	}
	return zero, false
}

// release copies the value out of the slot at head and hands the slot
// back to producers.
func (q *Queue[T]) release(head uint64, s *slot[T]) (T, bool) {
	var zero T
	if atomic.CompareAndSwapUint64(&q.head, head, head+1) {
		value := s.value
		s.value = zero
		// the next producer writing this slot expects head + capacity
		atomic.StoreUint64(&s.sequence, head+q.mask+1)
		return value, true
	}
	return zero, false
}

// drained reports closed-and-empty.
func (q *Queue[T]) drained() bool {
	if !q.closed.Load() {
		return false
	}
	head := atomic.LoadUint64(&q.head)
	tail := atomic.LoadUint64(&q.tail)
	return head >= tail
}

// Len returns the approximate number of queued values.
func (q *Queue[T]) Len() int {
	head := atomic.LoadUint64(&q.head)
	tail := atomic.LoadUint64(&q.tail)
	if tail > head {
		return int(tail - head)
	}
	return 0
}

// Cap returns the ring's capacity.
func (q *Queue[T]) Cap() int {
	return q.capacity
}

// Close stops new enqueues. Queued values remain dequeueable; Dequeue
// fails with ErrClosed once the ring is drained.
func (q *Queue[T]) Close() {
	if q.closed.CompareAndSwap(false, true) {
		close(q.closeC)
	}
}

// nextPowerOfTwo returns the next power of 2 >= n.
func nextPowerOfTwo(n int) int {
	if n <= 0 {
		return 1
	}
	if n&(n-1) == 0 {
		return n
	}
	power := 1
	for power < n {
		power *= 2
	}
	return power
}
