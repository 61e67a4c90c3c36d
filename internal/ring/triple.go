package ring

import "sync/atomic"

const (
	tripleIndexMask = 0b011
	tripleFresh     = 0b100
)

// Triple is a triple buffer: one writer publishes whole values, one
// reader always sees the latest complete one. Neither side waits or
// allocates once the three buffers exist.
type Triple[T any] struct {
	bufs  [3]T
	write int
	read  int
	// middle holds the index of the buffer between writer and reader and
	// the fresh bit set by Publish.
	middle atomic.Uint32
}

// NewTriple creates a triple buffer whose three slots are built by alloc.
func NewTriple[T any](alloc func() T) *Triple[T] {
	t := &Triple[T]{write: 0, read: 1}
	for i := range t.bufs {
		t.bufs[i] = alloc()
	}
	t.middle.Store(2)
	return t
}

// Back returns the buffer the writer fills next. Writer side only.
func (t *Triple[T]) Back() T { return t.bufs[t.write] }

// Publish makes the back buffer visible to the reader.
func (t *Triple[T]) Publish() {
	prev := t.middle.Swap(uint32(t.write) | tripleFresh)
	t.write = int(prev & tripleIndexMask)
}

// Front returns the latest published buffer and whether it is newer than
// the previous call's. Reader side only; the value stays valid until the
// next Front call.
func (t *Triple[T]) Front() (T, bool) {
	if t.middle.Load()&tripleFresh == 0 {
		return t.bufs[t.read], false
	}
	prev := t.middle.Swap(uint32(t.read))
	t.read = int(prev & tripleIndexMask)
	return t.bufs[t.read], true
}
