package asyncnet

import (
	"sync"
)

const (
	minBufferSize = 32        // smallest pooled size class.
	maxBufferSize = 64 * 1024 // maximum size of buffers that will be pooled.
)

// bufferPool is a pool of byte slices for reuse, bucketed by power-of-two size.
type bufferPool struct {
	pools []*sync.Pool
}

// Global buffer pool instance.
var globalBufferPool = newBufferPool()

// newBufferPool creates a new buffer pool with classes from 32B to 64KB.
func newBufferPool() *bufferPool {
	bp := &bufferPool{}

	for size := minBufferSize; size <= maxBufferSize; size <<= 1 {
		bp.pools = append(bp.pools, &sync.Pool{
			New: func() interface{} {
				return make([]byte, size)
			},
		})
	}

	return bp
}

// classOf returns the pool index whose size class is the smallest >= size.
func classOf(size int) (int, int) {
	poolIdx := 0
	poolSize := minBufferSize
	for poolSize < size {
		poolSize *= 2
		poolIdx++
	}

	return poolIdx, poolSize
}

// getBuffer retrieves a buffer from the pool that is at least size bytes.
func (bp *bufferPool) getBuffer(size int) []byte {
	if size > maxBufferSize {
		return make([]byte, size)
	}

	poolIdx, _ := classOf(size)
	buf := bp.pools[poolIdx].Get().([]byte)

	return buf[:cap(buf)]
}

// putBuffer returns a buffer to the pool. Buffers whose capacity is not an
// exact size class are left to the garbage collector.
func (bp *bufferPool) putBuffer(buf []byte) {
	c := cap(buf)
	if c > maxBufferSize || c < minBufferSize {
		return // Don't pool large or foreign buffers
	}

	poolIdx, poolSize := classOf(c)
	if poolSize != c {
		return
	}

	bp.pools[poolIdx].Put(buf[:c])
}

// GetBuffer returns a buffer of at least size bytes from the shared pool.
func GetBuffer(size int) []byte {
	return globalBufferPool.getBuffer(size)
}

// PutBuffer hands a buffer obtained from GetBuffer or ReadPooled back to the pool.
func PutBuffer(buf []byte) {
	globalBufferPool.putBuffer(buf)
}
