package pool

import (
	"sync"

	"github.com/taskmill/taskmill/internal/ring"
)

// workQueue is the FIFO contract both queue implementations satisfy.
//
// put blocks while the queue is full and aborts with an error when quit
// fires before the element was stored. take blocks until an element is
// available and reports false when the queue is closed and drained or
// quit fires. tryTake never blocks.
type workQueue[J any] interface {
	put(quit <-chan struct{}, j J) error
	take(quit <-chan struct{}) (J, bool)
	tryTake() (J, bool)
	close()
	len() int
}

func newWorkQueue[J any](conf *config) workQueue[J] {
	if conf.inline {
		return &ringQueue[J]{q: ring.New[J](conf.inlineCap)}
	}
	return &chanQueue[J]{ch: make(chan J, conf.queueCap)}
}

// chanQueue is the default queue: a buffered channel. FIFO by
// construction, blocking sends for backpressure, closed-to-drain for
// graceful shutdown.
type chanQueue[J any] struct {
	ch        chan J
	closeOnce sync.Once
}

func (q *chanQueue[J]) put(quit <-chan struct{}, j J) error {
	// A fired quit must win even when buffer space is free, so the
	// cutover never loses to the select's random choice.
	select {
	case <-quit:
		return ErrPoolClosed
	default:
	}

	select {
	case q.ch <- j:
		return nil
	case <-quit:
		return ErrPoolClosed
	}
}

func (q *chanQueue[J]) take(quit <-chan struct{}) (J, bool) {
	var zero J
	select {
	case <-quit:
		return zero, false
	case j, ok := <-q.ch:
		if !ok {
			return zero, false
		}
		return j, true
	}
}

func (q *chanQueue[J]) tryTake() (J, bool) {
	var zero J
	select {
	case j, ok := <-q.ch:
		if !ok {
			return zero, false
		}
		return j, true
	default:
		return zero, false
	}
}

func (q *chanQueue[J]) close() {
	q.closeOnce.Do(func() { close(q.ch) })
}

func (q *chanQueue[J]) len() int {
	return len(q.ch)
}

// ringQueue adapts the inline MPMC ring to the workQueue contract.
// Payloads live in the ring's slot array itself, so queueing a task
// allocates nothing.
type ringQueue[J any] struct {
	q *ring.Queue[J]
}

func (r *ringQueue[J]) put(quit <-chan struct{}, j J) error {
	if err := r.q.Enqueue(quit, j); err != nil {
		return ErrPoolClosed
	}
	return nil
}

func (r *ringQueue[J]) take(quit <-chan struct{}) (J, bool) {
	j, err := r.q.Dequeue(quit)
	return j, err == nil
}

func (r *ringQueue[J]) tryTake() (J, bool) {
	return r.q.TryDequeue()
}

func (r *ringQueue[J]) close() {
	r.q.Close()
}

func (r *ringQueue[J]) len() int {
	return r.q.Len()
}
