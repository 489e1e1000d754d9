package asyncnet

// minRingSize is the initial backing capacity of a RingBuffer.
const minRingSize = 16

// nextPow2Uint64 returns the smallest power of two >= v with a minimum of 1.
func nextPow2Uint64(v uint64) uint64 {
	if v == 0 {
		return 1
	}
	v--
	v |= v >> 1
	v |= v >> 2
	v |= v >> 4
	v |= v >> 8
	v |= v >> 16
	v |= v >> 32
	return v + 1
}

// RingBuffer is a FIFO circular buffer for items of any type. The backing
// array grows by doubling until the optional limit is reached.
//
// RingBuffer is not safe for concurrent use; the dual queue guards each
// instance with its own mutex.
type RingBuffer[T any] struct {
	buf   []T    // underlying buffer array, length is a power of two.
	mask  uint64 // mask for index wrapping.
	head  uint64 // next position to read from.
	tail  uint64 // next position to write to.
	limit uint64 // maximum number of items held, 0 means unbounded.
}

// NewRingBuffer creates a RingBuffer holding at most limit items. A zero
// limit leaves the buffer unbounded.
func NewRingBuffer[T any](limit uint64) *RingBuffer[T] {
	size := uint64(minRingSize)
	if limit > 0 && limit < size {
		size = nextPow2Uint64(limit)
	}
	return &RingBuffer[T]{
		buf:   make([]T, size),
		mask:  size - 1,
		limit: limit,
	}
}

// Enqueue adds an item to the buffer. It returns false if the limit is reached.
func (r *RingBuffer[T]) Enqueue(item T) bool {
	n := r.tail - r.head
	if r.limit > 0 && n >= r.limit {
		return false // buffer is full.
	}
	if n == uint64(len(r.buf)) {
		r.grow()
	}
	r.buf[r.tail&r.mask] = item
	r.tail++
	return true
}

// Dequeue removes and returns the oldest item. It returns false if the buffer is empty.
func (r *RingBuffer[T]) Dequeue() (T, bool) {
	var zero T
	if r.tail == r.head {
		return zero, false // buffer is empty.
	}
	idx := r.head & r.mask
	item := r.buf[idx]
	r.buf[idx] = zero
	r.head++
	return item, true
}

// Drain removes every item and returns them oldest first. A non-empty buffer
// is reset to its initial backing capacity; an empty one is left untouched.
func (r *RingBuffer[T]) Drain() []T {
	n := r.tail - r.head
	if n == 0 {
		return []T{}
	}
	out := make([]T, 0, n)
	for i := r.head; i != r.tail; i++ {
		out = append(out, r.buf[i&r.mask])
	}

	size := uint64(minRingSize)
	if r.limit > 0 && r.limit < size {
		size = nextPow2Uint64(r.limit)
	}
	r.buf = make([]T, size)
	r.mask = size - 1
	r.head, r.tail = 0, 0
	return out
}

// Len returns the number of items in the buffer.
func (r *RingBuffer[T]) Len() uint64 {
	return r.tail - r.head
}

// Limit returns the maximum number of items, 0 when unbounded.
func (r *RingBuffer[T]) Limit() uint64 {
	return r.limit
}

// grow doubles the backing array, unrolling the live items to the front.
func (r *RingBuffer[T]) grow() {
	n := r.tail - r.head
	next := make([]T, nextPow2Uint64(uint64(len(r.buf))*2))
	for i := uint64(0); i < n; i++ {
		next[i] = r.buf[(r.head+i)&r.mask]
	}
	r.buf = next
	r.mask = uint64(len(next)) - 1
	r.head, r.tail = 0, n
}
