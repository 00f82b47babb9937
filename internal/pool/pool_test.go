package pool_test

import (
	"sync"
	"testing"

	"github.com/jroosing/mockserver/internal/pool"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// =============================================================================
// Generic Pool Tests
// =============================================================================

func TestPool_ConstructorCalled(t *testing.T) {
	callCount := 0
	p := pool.New(func() int {
		callCount++
		return callCount
	})

	assert.Equal(t, 1, p.Get())
	assert.Equal(t, 2, p.Get())
	assert.Equal(t, 2, callCount)
}

func TestPool_GetAndPut(t *testing.T) {
	p := pool.New(func() []byte {
		return make([]byte, 64)
	})

	buf := p.Get()
	assert.Len(t, buf, 64)
	p.Put(buf)

	assert.Len(t, p.Get(), 64)
}

// =============================================================================
// BufferPool Tests
// =============================================================================

func TestBufferPool_GetReturnsEmptyBuffer(t *testing.T) {
	bp := pool.NewBufferPool(128, 4096)

	buf := bp.Get()
	require.NotNil(t, buf)
	assert.Equal(t, 0, buf.Len())
	assert.GreaterOrEqual(t, buf.Cap(), 128)

	buf.WriteString("leftover")
	bp.Put(buf)

	// Whatever comes back, it must be empty.
	assert.Equal(t, 0, bp.Get().Len())
}

func TestBufferPool_PutNil(t *testing.T) {
	bp := pool.NewBufferPool(16, 0)
	assert.NotPanics(t, func() { bp.Put(nil) })
}

func TestBufferPool_DropsOversized(t *testing.T) {
	bp := pool.NewBufferPool(16, 32)

	buf := bp.Get()
	buf.Write(make([]byte, 1024))
	assert.NotPanics(t, func() { bp.Put(buf) })

	assert.Equal(t, 0, bp.Get().Len())
}

func TestBufferPool_ConcurrentAccess(t *testing.T) {
	bp := pool.NewBufferPool(64, 1024)

	var wg sync.WaitGroup
	for range 50 {
		wg.Go(func() {
			for range 500 {
				buf := bp.Get()
				if buf.Len() != 0 {
					t.Error("buffer not reset")
				}
				buf.WriteString(`{"status":"ok"}`)
				bp.Put(buf)
			}
		})
	}
	wg.Wait()
}

// =============================================================================
// Benchmarks
// =============================================================================

func BenchmarkBufferPool_Parallel(b *testing.B) {
	bp := pool.NewBufferPool(256, 4096)

	b.RunParallel(func(pb *testing.PB) {
		for pb.Next() {
			buf := bp.Get()
			buf.WriteString("x")
			bp.Put(buf)
		}
	})
}
