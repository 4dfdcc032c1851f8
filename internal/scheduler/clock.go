package scheduler

import "time"

const (
	DefaultMaxDelta   = 0.05
	DefaultSampleRate = 30.0
)

// Clock converts frame timestamps into physics dt. A stalled frame is
// clamped to MaxDelta before TimeScale applies.
type Clock struct {
	MaxDelta  float64
	TimeScale float64
	Paused    bool

	last    time.Time
	started bool
}

func NewClock() *Clock {
	return &Clock{MaxDelta: DefaultMaxDelta, TimeScale: 1}
}

// Tick returns the physics time slice for a frame at now. The first frame
// and every paused frame return 0.
func (c *Clock) Tick(now time.Time) float64 {
	if !c.started {
		c.started = true
		c.last = now
		return 0
	}
	delta := now.Sub(c.last).Seconds()
	c.last = now
	if c.Paused || delta <= 0 {
		return 0
	}
	if c.MaxDelta > 0 && delta > c.MaxDelta {
		delta = c.MaxDelta
	}
	return delta * c.TimeScale
}

// Reset forgets the previous frame so the next Tick returns 0.
func (c *Clock) Reset() {
	c.started = false
	c.last = time.Time{}
}

// Sampler counts samples due at a fixed virtual rate.
type Sampler struct {
	Interval float64
	acc      float64
}

// NewSampler returns a sampler firing rate times per simulated second.
// A non-positive rate uses DefaultSampleRate.
func NewSampler(rate float64) *Sampler {
	if rate <= 0 {
		rate = DefaultSampleRate
	}
	return &Sampler{Interval: 1 / rate}
}

// Advance adds dt of simulated time and returns how many samples fell due.
func (s *Sampler) Advance(dt float64) int {
	if dt <= 0 || s.Interval <= 0 {
		return 0
	}
	s.acc += dt
	n := 0
	for s.acc >= s.Interval {
		s.acc -= s.Interval
		n++
	}
	return n
}

func (s *Sampler) Reset() { s.acc = 0 }
