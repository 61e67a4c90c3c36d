// Package ring provides the lock-free structures that carry data between
// the control goroutines and the audio callback.
package ring

import (
	"errors"
	"sync/atomic"
)

// ErrCapacity is returned for a non-positive capacity.
var ErrCapacity = errors.New("ring: capacity must be > 0")

// SPSC is a bounded single-producer single-consumer queue. Push and Pop
// never block and never allocate. Exactly one goroutine may push and one
// may pop at a time.
type SPSC[T any] struct {
	buf  []T
	head atomic.Uint64 // next slot to pop
	tail atomic.Uint64 // next slot to push
}

// NewSPSC creates a queue holding exactly capacity items.
func NewSPSC[T any](capacity int) (*SPSC[T], error) {
	if capacity <= 0 {
		return nil, ErrCapacity
	}
	return &SPSC[T]{buf: make([]T, capacity)}, nil
}

// Cap returns the capacity.
func (q *SPSC[T]) Cap() int { return len(q.buf) }

// Len returns the number of queued items. It is a snapshot when called
// concurrently with Push or Pop.
func (q *SPSC[T]) Len() int {
	return int(q.tail.Load() - q.head.Load())
}

// TryPush appends v and reports false when the queue is full.
func (q *SPSC[T]) TryPush(v T) bool {
	tail := q.tail.Load()
	if tail-q.head.Load() >= uint64(len(q.buf)) {
		return false
	}
	q.buf[tail%uint64(len(q.buf))] = v
	q.tail.Store(tail + 1)
	return true
}

// TryPop removes the oldest item and reports false when the queue is
// empty.
func (q *SPSC[T]) TryPop() (T, bool) {
	var zero T
	head := q.head.Load()
	if head == q.tail.Load() {
		return zero, false
	}
	i := head % uint64(len(q.buf))
	v := q.buf[i]
	q.buf[i] = zero
	q.head.Store(head + 1)
	return v, true
}
