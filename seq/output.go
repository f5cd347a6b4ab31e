package seq

// Output is a sink backed by a consumer function. Writing a value
// invokes the consumer once; the sink holds no state of its own and has
// no position to advance.
type Output[T any] struct {
	consume Consumer[T]
}

// NewOutput wraps a consumer in a sink adapter.
func NewOutput[T any](consume Consumer[T]) Output[T] {
	return Output[T]{consume: consume}
}

// Put writes one value into the sink.
func (o Output[T]) Put(value T) {
	o.consume(value)
}

// ToSlice returns a sink appending every value to *dst.
func ToSlice[T any](dst *[]T) Output[T] {
	return NewOutput(func(value T) {
		*dst = append(*dst, value)
	})
}

// ToChan returns a sink sending every value to ch. Puts block when the
// channel is full.
func ToChan[T any](ch chan<- T) Output[T] {
	return NewOutput(func(value T) {
		ch <- value
	})
}
