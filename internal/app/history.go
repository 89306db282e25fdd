package app

// DistanceRing is a circular buffer of distance samples.
type DistanceRing struct {
	buf   []float64
	pos   int
	count int
}

// NewDistanceRing creates a new circular buffer with the given capacity.
func NewDistanceRing(capacity int) *DistanceRing {
	if capacity < 1 {
		capacity = 1
	}
	return &DistanceRing{
		buf: make([]float64, capacity),
	}
}

// Push adds a value to the ring buffer.
func (r *DistanceRing) Push(val float64) {
	r.buf[r.pos] = val
	r.pos = (r.pos + 1) % len(r.buf)
	if r.count < len(r.buf) {
		r.count++
	}
}

// Values returns all stored values in chronological order.
func (r *DistanceRing) Values() []float64 {
	if r.count == 0 {
		return nil
	}
	result := make([]float64, r.count)
	if r.count < len(r.buf) {
		copy(result, r.buf[:r.count])
	} else {
		n := copy(result, r.buf[r.pos:])
		copy(result[n:], r.buf[:r.pos])
	}
	return result
}

// histories keeps one ring per endpoint key.
type histories struct {
	size  int
	rings map[string]*DistanceRing
}

func newHistories(size int) *histories {
	return &histories{size: size, rings: make(map[string]*DistanceRing)}
}

func (h *histories) push(key string, d float64) {
	r, ok := h.rings[key]
	if !ok {
		r = NewDistanceRing(h.size)
		h.rings[key] = r
	}
	r.Push(d)
}

func (h *histories) values(key string) []float64 {
	if r, ok := h.rings[key]; ok {
		return r.Values()
	}
	return nil
}

func (h *histories) drop(key string) { delete(h.rings, key) }

func (h *histories) reset() { clear(h.rings) }
