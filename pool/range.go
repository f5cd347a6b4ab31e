package pool

import (
	"iter"
	"sync"

	"github.com/taskmill/taskmill/seq"
)

// Result pairs one bulk-submitted task's outcome with its submission
// index, so result i can always be matched back to input i.
type Result[R any] struct {
	Value R
	Err   error
	Index int
}

// Results is the lazy, ordered stream returned by SubmitRange. Draining
// it yields outcomes in submission order regardless of the order in
// which workers completed them. The stream is single-pass and meant for
// one consumer; it is not safe for concurrent Next calls.
type Results[R any] struct {
	handles  chan *Handle[R]
	stop     chan struct{}
	stopOnce sync.Once
	next     int
}

// SubmitRange feeds a lazy input sequence through the pool and returns
// the stream of results in submission order. The input may be infinite:
// a feeder goroutine submits eagerly up to the pool's watermark (see
// WithWatermark) and tops up only as the stream is drained, bounding
// in-flight memory.
//
// If the pool shuts down mid-range, the failed submission surfaces
// in-order as a Result carrying the submission error, and the stream
// ends after it. Abandoning the stream early requires Stop (or breaking
// out of All, which calls it).
func (tp *TypedPool[T, R]) SubmitRange(in seq.Input[T]) *Results[R] {
	rs := &Results[R]{
		handles: make(chan *Handle[R], tp.conf.watermark),
		stop:    make(chan struct{}),
	}
	go feedRange(tp, in, rs)
	return rs
}

// feedRange pulls the input one value ahead of the handle buffer's
// capacity: the buffered channel is the watermark, so a full buffer
// blocks the feeder before it pulls the next input value.
func feedRange[T, R any](tp *TypedPool[T, R], in seq.Input[T], rs *Results[R]) {
	defer close(rs.handles)

	for {
		select {
		case <-rs.stop:
			return
		default:
		}

		arg, ok := in.Next()
		if !ok {
			return
		}

		h, err := tp.Submit(arg)
		if err != nil {
			h = failedHandle[R](err)
		}

		select {
		case rs.handles <- h:
		case <-rs.stop:
			return
		}

		if err != nil {
			return
		}
	}
}

// Next blocks until the next result in submission order is available.
// ok is false once the stream is exhausted or stopped and drained.
func (rs *Results[R]) Next() (Result[R], bool) {
	h, ok := <-rs.handles
	if !ok {
		return Result[R]{}, false
	}
	value, err := h.Get()
	res := Result[R]{Value: value, Err: err, Index: rs.next}
	rs.next++
	return res, true
}

// All returns a range-over-func iterator over the stream's (value,
// error) pairs in submission order. Breaking out of the range stops the
// feeder.
func (rs *Results[R]) All() iter.Seq2[R, error] {
	return func(yield func(R, error) bool) {
		for {
			res, ok := rs.Next()
			if !ok {
				return
			}
			if !yield(res.Value, res.Err) {
				rs.Stop()
				return
			}
		}
	}
}

// Collect drains the stream into a slice. On the first failed task it
// stops the feeder and returns the values collected so far alongside
// that task's error.
func (rs *Results[R]) Collect() ([]R, error) {
	var values []R
	for {
		res, ok := rs.Next()
		if !ok {
			return values, nil
		}
		if res.Err != nil {
			rs.Stop()
			return values, res.Err
		}
		values = append(values, res.Value)
	}
}

// Into pushes values into sink in submission order and returns the
// first failed task's error, if any. The stream remains drainable after
// an error, so a caller may resume with Next or give up with Stop.
func (rs *Results[R]) Into(sink seq.Output[R]) error {
	for {
		res, ok := rs.Next()
		if !ok {
			return nil
		}
		if res.Err != nil {
			return res.Err
		}
		sink.Put(res.Value)
	}
}

// Stop abandons the rest of the stream: the feeder stops pulling the
// input sequence and submitting tasks. Tasks already submitted keep
// running and their results remain drainable via Next.
func (rs *Results[R]) Stop() {
	rs.stopOnce.Do(func() { close(rs.stop) })
}
