package scheduler

// History keeps the most recent samples in a fixed-size ring.
type History struct {
	samples [][]float64
	start   int
	size    int
}

func NewHistory(capacity int) *History {
	if capacity < 1 {
		capacity = 1
	}
	return &History{samples: make([][]float64, capacity)}
}

// Push records a copy of sample, evicting the oldest once full.
func (h *History) Push(sample []float64) {
	c := make([]float64, len(sample))
	copy(c, sample)

	if h.size < len(h.samples) {
		h.samples[(h.start+h.size)%len(h.samples)] = c
		h.size++
		return
	}
	h.samples[h.start] = c
	h.start = (h.start + 1) % len(h.samples)
}

func (h *History) Len() int      { return h.size }
func (h *History) Capacity() int { return len(h.samples) }

// At returns the i-th retained sample, oldest first.
func (h *History) At(i int) []float64 {
	if i < 0 || i >= h.size {
		return nil
	}
	return h.samples[(h.start+i)%len(h.samples)]
}

// Series returns one channel across all retained samples, oldest first.
// Samples too short for the channel contribute 0.
func (h *History) Series(channel int) []float64 {
	out := make([]float64, h.size)
	for i := range out {
		s := h.At(i)
		if channel >= 0 && channel < len(s) {
			out[i] = s[channel]
		}
	}
	return out
}

func (h *History) Clear() {
	for i := range h.samples {
		h.samples[i] = nil
	}
	h.start, h.size = 0, 0
}
