package fifo

import (
	"errors"
	"fmt"
	"sync/atomic"
)

// ErrInvalidCapacity is returned by New for a capacity below 1.
var ErrInvalidCapacity = errors.New("fifo: capacity must be > 0")

// cacheLinePad keeps the producer and consumer indices on separate cache
// lines.
type cacheLinePad [64]byte

// Fifo is a fixed-capacity SPSC ring buffer.
type Fifo[T any] struct {
	head atomic.Uint64 // next cell to read, advanced by the consumer
	_    cacheLinePad
	tail atomic.Uint64 // next cell to write, advanced by the producer
	_    cacheLinePad

	cells    []T
	capacity uint64
}

// New returns a ring that holds up to capacity values.
func New[T any](capacity int) (*Fifo[T], error) {
	if capacity < 1 {
		return nil, fmt.Errorf("%w: %d", ErrInvalidCapacity, capacity)
	}

	return &Fifo[T]{
		cells:    make([]T, capacity),
		capacity: uint64(capacity),
	}, nil
}

// MustNew is like New but panics on error.
func MustNew[T any](capacity int) *Fifo[T] {
	f, err := New[T](capacity)
	if err != nil {
		panic(err)
	}

	return f
}

// Push enqueues v and reports whether there was room. A full ring rejects
// the value and leaves queued entries untouched. Producer side only.
func (f *Fifo[T]) Push(v T) bool {
	tail := f.tail.Load()
	if tail-f.head.Load() >= f.capacity {
		return false
	}

	f.cells[tail%f.capacity] = v
	f.tail.Store(tail + 1)

	return true
}

// Pull dequeues the oldest value into dst and reports whether one was
// available. dst is not modified when the ring is empty. Consumer side only.
func (f *Fifo[T]) Pull(dst *T) bool {
	head := f.head.Load()
	if head == f.tail.Load() {
		return false
	}

	idx := head % f.capacity
	*dst = f.cells[idx]

	var zero T
	f.cells[idx] = zero

	f.head.Store(head + 1)

	return true
}

// Len returns the number of queued values. The result is a snapshot and may
// be stale by the time it is used from the other side.
func (f *Fifo[T]) Len() int {
	head := f.head.Load()

	n := f.tail.Load() - head
	if n > f.capacity {
		n = f.capacity
	}

	return int(n)
}

// Cap returns the fixed capacity.
func (f *Fifo[T]) Cap() int {
	return int(f.capacity)
}
