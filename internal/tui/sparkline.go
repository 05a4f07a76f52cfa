package tui

// RingBuffer keeps the most recent samples of a series, up to its capacity.
type RingBuffer struct {
	data  []float64
	start int
	n     int
}

// NewRingBuffer creates a buffer holding up to capacity samples. Capacities
// below one are raised to one.
func NewRingBuffer(capacity int) *RingBuffer {
	return &RingBuffer{data: make([]float64, max(capacity, 1))}
}

// Push appends v, dropping the oldest sample when full.
func (r *RingBuffer) Push(v float64) {
	if r.n < len(r.data) {
		r.data[(r.start+r.n)%len(r.data)] = v
		r.n++
		return
	}
	r.data[r.start] = v
	r.start = (r.start + 1) % len(r.data)
}

// Len returns the number of samples held.
func (r *RingBuffer) Len() int { return r.n }

// Cap returns the capacity.
func (r *RingBuffer) Cap() int { return len(r.data) }

// Last returns the newest sample, or 0 when empty.
func (r *RingBuffer) Last() float64 {
	if r.n == 0 {
		return 0
	}
	return r.data[(r.start+r.n-1)%len(r.data)]
}

// Slice returns the samples oldest first.
func (r *RingBuffer) Slice() []float64 {
	if r.n == 0 {
		return nil
	}
	out := make([]float64, r.n)
	for i := range out {
		out[i] = r.data[(r.start+i)%len(r.data)]
	}
	return out
}

// Resize changes the capacity, keeping the newest samples that fit.
func (r *RingBuffer) Resize(capacity int) {
	capacity = max(capacity, 1)
	if capacity == len(r.data) {
		return
	}
	old := r.Slice()
	if len(old) > capacity {
		old = old[len(old)-capacity:]
	}
	r.data = make([]float64, capacity)
	r.start = 0
	r.n = copy(r.data, old)
}

// Reset drops every sample.
func (r *RingBuffer) Reset() {
	r.start, r.n = 0, 0
}

var sparkBlocks = []rune("▁▂▃▄▅▆▇█")

// RenderSparkline draws percentages (clamped to 0..100) as block characters.
func RenderSparkline(values []float64) string {
	out := make([]rune, len(values))
	top := len(sparkBlocks) - 1
	for i, v := range values {
		v = min(max(v, 0), 100)
		out[i] = sparkBlocks[int(v/100*float64(top))]
	}
	return string(out)
}
