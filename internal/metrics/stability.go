package metrics

import (
	"math"

	"github.com/san-kum/pulleysim/internal/sim"
)

// Stability is the fraction of samples in which the named velocity channel
// stayed within threshold. A run with no samples counts as stable.
type Stability struct {
	name       string
	index      int
	threshold  float64
	violations int
	samples    int
}

func NewStability(labels []string, channel string, threshold float64) *Stability {
	return &Stability{
		name:      "stability",
		index:     sim.Index(labels, channel),
		threshold: threshold,
	}
}

func (s *Stability) Name() string {
	return s.name
}

func (s *Stability) Observe(x sim.State, t float64) {
	v, ok := at(x, s.index)
	if !ok {
		return
	}
	s.samples++
	if math.Abs(v) > s.threshold {
		s.violations++
	}
}

func (s *Stability) Value() float64 {
	if s.samples == 0 {
		return 1.0
	}
	return 1.0 - float64(s.violations)/float64(s.samples)
}

func (s *Stability) Reset() {
	s.violations = 0
	s.samples = 0
}
