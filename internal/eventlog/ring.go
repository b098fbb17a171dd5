package eventlog

// Ring is a fixed-capacity circular buffer. Once full, each Push overwrites
// the oldest value.
type Ring[T any] struct {
	buf   []T
	pos   int
	count int
}

// NewRing creates a new circular buffer with the given capacity.
func NewRing[T any](capacity int) *Ring[T] {
	if capacity < 1 {
		capacity = 1
	}
	return &Ring[T]{
		buf: make([]T, capacity),
	}
}

// Push adds a value to the ring buffer.
func (r *Ring[T]) Push(val T) {
	r.buf[r.pos] = val
	r.pos = (r.pos + 1) % len(r.buf)
	if r.count < len(r.buf) {
		r.count++
	}
}

// Newest returns all stored values, most recent first.
func (r *Ring[T]) Newest() []T {
	if r.count == 0 {
		return nil
	}
	result := make([]T, r.count)
	idx := r.pos
	for i := range result {
		idx = (idx - 1 + len(r.buf)) % len(r.buf)
		result[i] = r.buf[idx]
	}
	return result
}

// Reset drops every stored value.
func (r *Ring[T]) Reset() {
	var zero T
	for i := range r.buf {
		r.buf[i] = zero
	}
	r.pos = 0
	r.count = 0
}
