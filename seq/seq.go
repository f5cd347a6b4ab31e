// Package seq provides lazy, single-pass sequence adapters that turn
// plain functions into inputs and outputs for bulk task submission.
//
// An Input wraps a zero-argument producer and yields values until the
// producer reports end-of-sequence; an Output wraps a one-argument
// consumer and invokes it once per value written. Neither materializes
// an intermediate container, so unbounded sequences cost nothing.
package seq

// Producer yields successive values of a sequence. Returning ok=false
// signals end-of-sequence; the adapter guarantees the producer is never
// called again afterwards. End-of-sequence is the termination protocol,
// not an error.
type Producer[T any] func() (value T, ok bool)

// Consumer receives values written to an output adapter, one call per
// value, in write order.
type Consumer[T any] func(T)
