package sim

import (
	"math"

	"github.com/san-kum/pulleysim/internal/mechanics"
)

// State is one flat sample of a machine. Channel names come from
// Machine.Labels.
type State []float64

func (s State) Clone() State {
	c := make(State, len(s))
	copy(c, s)
	return c
}

// IsValid reports whether every channel is finite.
func (s State) IsValid() bool {
	for _, v := range s {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return false
		}
	}
	return true
}

// Index returns the position of the named channel, or -1.
func Index(labels []string, name string) int {
	for i, l := range labels {
		if l == name {
			return i
		}
	}
	return -1
}

// Machine is a rig advanced by replacing its snapshot every tick.
type Machine interface {
	Step(dt float64, mode mechanics.RealityMode)
	Sample() State
	Labels() []string
	Broken() bool
}

// Configurable machines expose live-tunable parameters.
type Configurable interface {
	GetParams() map[string]float64
	SetParam(name string, value float64) error
}

type Metric interface {
	Name() string
	Observe(x State, t float64)
	Value() float64
	Reset()
}

type Observer interface {
	OnStep(x State, t float64)
}

type Config struct {
	Dt         float64
	Duration   float64
	SampleRate float64
	Mode       mechanics.RealityMode
}

func DefaultConfig() Config {
	return Config{
		Dt:         1.0 / 60,
		Duration:   10,
		SampleRate: 30,
		Mode:       mechanics.Ideal,
	}
}

// Result holds the sampled trajectory of a run. BrokenAt is -1 when the
// rope held for the whole run.
type Result struct {
	States     []State
	Times      []float64
	Labels     []string
	Metrics    map[string]float64
	BrokenAt   float64
	StepsTaken int
}

// Series extracts one named channel from the recorded states.
func (r *Result) Series(name string) []float64 {
	idx := Index(r.Labels, name)
	if idx < 0 {
		return nil
	}
	out := make([]float64, len(r.States))
	for i, s := range r.States {
		if idx < len(s) {
			out[i] = s[idx]
		}
	}
	return out
}
