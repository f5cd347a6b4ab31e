package seq

import (
	"iter"
	"sync"
)

// Input is a single-pass sequence backed by a producer function.
//
// Copies of an Input share one cursor: the cached current value, the
// exhaustion flag and the producer itself live behind a shared pointer,
// so advancing through any copy advances all of them. That is what lets
// an Input be passed around by value like an iterator without resetting
// or re-running the producer.
//
// The cursor is mutex-guarded, so copies may be touched from different
// goroutines; values are still handed out single-pass, each to exactly
// one caller.
type Input[T any] struct {
	cur *cursor[T]
}

type cursor[T any] struct {
	mu      sync.Mutex
	produce Producer[T]
	value   T
	cached  bool
	done    bool
}

// NewInput wraps a producer in a sequence adapter.
func NewInput[T any](produce Producer[T]) Input[T] {
	return Input[T]{cur: &cursor[T]{produce: produce}}
}

// More reports whether a value is available at the current position,
// calling the producer at most once per position to find out and
// caching the result. Once the producer signals end-of-sequence, More
// is false forever and the producer is never called again.
func (in Input[T]) More() bool {
	c := in.cur
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.fill()
}

// Take moves the current value out and advances. Taking past the end
// returns the zero value; pair Take with More, or use Next, when the
// sequence length is unknown.
func (in Input[T]) Take() T {
	value, _ := in.Next()
	return value
}

// Next combines More and Take atomically: it reports whether a value
// was available and, if so, moves it out and advances the cursor.
func (in Input[T]) Next() (T, bool) {
	c := in.cur
	c.mu.Lock()
	defer c.mu.Unlock()

	var zero T
	if !c.fill() {
		return zero, false
	}
	value := c.value
	c.value = zero
	c.cached = false
	return value, true
}

// fill ensures the current position's value is cached, calling the
// producer at most once. Reports false at end-of-sequence. Callers hold
// c.mu.
func (c *cursor[T]) fill() bool {
	if c.done {
		return false
	}
	if c.cached {
		return true
	}

	value, ok := c.produce()
	if !ok {
		c.done = true
		c.produce = nil // release the producer and whatever it captured
		return false
	}
	c.value = value
	c.cached = true
	return true
}

// Seq bridges the adapter to the standard iterator protocol. The
// returned iterator shares the cursor like any other copy, so ranging
// over it consumes the underlying sequence.
func (in Input[T]) Seq() iter.Seq[T] {
	return func(yield func(T) bool) {
		for {
			value, ok := in.Next()
			if !ok || !yield(value) {
				return
			}
		}
	}
}

// Of builds an Input over the given values.
func Of[T any](values ...T) Input[T] {
	i := 0
	return NewInput(func() (T, bool) {
		if i >= len(values) {
			var zero T
			return zero, false
		}
		value := values[i]
		i++
		return value, true
	})
}

// FromSeq adapts a standard iterator into an Input.
func FromSeq[T any](s iter.Seq[T]) Input[T] {
	next, stop := iter.Pull(s)
	return NewInput(func() (T, bool) {
		value, ok := next()
		if !ok {
			stop()
		}
		return value, ok
	})
}

// FromChan yields values received from ch until it is closed.
func FromChan[T any](ch <-chan T) Input[T] {
	return NewInput(func() (T, bool) {
		value, ok := <-ch
		return value, ok
	})
}
