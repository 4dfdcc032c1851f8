package metrics

import (
	"math"

	"github.com/san-kum/pulleysim/internal/sim"
)

// PeakTension tracks the largest rope tension seen on any tension channel.
type PeakTension struct {
	name    string
	indices []int
	peak    float64
}

func NewPeakTension(labels []string) *PeakTension {
	return &PeakTension{
		name:    "peak_tension",
		indices: channels(labels, "tension", "tension1", "tension2"),
	}
}

func (p *PeakTension) Name() string { return p.name }

func (p *PeakTension) Observe(x sim.State, t float64) {
	for _, i := range p.indices {
		if v, ok := at(x, i); ok {
			p.peak = math.Max(p.peak, v)
		}
	}
}

func (p *PeakTension) Value() float64 { return p.peak }

func (p *PeakTension) Reset() { p.peak = 0 }

// BreakTime records when the broken channel first reads 1, or -1.
type BreakTime struct {
	name  string
	index int
	at    float64
}

func NewBreakTime(labels []string) *BreakTime {
	return &BreakTime{name: "break_time", index: sim.Index(labels, "broken"), at: -1}
}

func (b *BreakTime) Name() string { return b.name }

func (b *BreakTime) Observe(x sim.State, t float64) {
	if b.at >= 0 {
		return
	}
	if v, ok := at(x, b.index); ok && v >= 1 {
		b.at = t
	}
}

func (b *BreakTime) Value() float64 { return b.at }

func (b *BreakTime) Reset() { b.at = -1 }
