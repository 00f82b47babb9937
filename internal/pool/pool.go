// Package pool wraps sync.Pool with typed accessors.
package pool

import (
	"bytes"
	"sync"
)

// Pool is a generic wrapper around sync.Pool.
type Pool[T any] struct {
	internal sync.Pool
}

// New creates a new Pool with the given constructor.
func New[T any](newFn func() T) *Pool[T] {
	return &Pool[T]{
		internal: sync.Pool{
			New: func() any {
				return newFn()
			},
		},
	}
}

// Get retrieves an item from the pool.
func (p *Pool[T]) Get() T {
	return p.internal.Get().(T)
}

// Put returns an item to the pool.
func (p *Pool[T]) Put(item T) {
	p.internal.Put(item)
}

// BufferPool hands out reset *bytes.Buffer values.
// Buffers that grew past maxRetained bytes are dropped on Put.
type BufferPool struct {
	p           *Pool[*bytes.Buffer]
	maxRetained int
}

// NewBufferPool creates a BufferPool whose fresh buffers start with initialCap bytes.
func NewBufferPool(initialCap, maxRetained int) *BufferPool {
	return &BufferPool{
		p: New(func() *bytes.Buffer {
			return bytes.NewBuffer(make([]byte, 0, initialCap))
		}),
		maxRetained: maxRetained,
	}
}

// Get returns an empty buffer.
func (bp *BufferPool) Get() *bytes.Buffer {
	buf := bp.p.Get()
	buf.Reset()
	return buf
}

// Put returns buf to the pool unless it is nil or oversized.
func (bp *BufferPool) Put(buf *bytes.Buffer) {
	if buf == nil {
		return
	}
	if bp.maxRetained > 0 && buf.Cap() > bp.maxRetained {
		return
	}
	bp.p.Put(buf)
}
