package metrics

import (
	"math"

	"github.com/san-kum/pulleysim/internal/sim"
)

// ControlEffort is the mean hand effort over a run.
type ControlEffort struct {
	name    string
	index   int
	sum     float64
	samples int
}

func NewControlEffort(labels []string) *ControlEffort {
	return &ControlEffort{
		name:  "control_effort",
		index: sim.Index(labels, "effort"),
	}
}

func (c *ControlEffort) Name() string {
	return c.name
}

func (c *ControlEffort) Observe(x sim.State, t float64) {
	v, ok := at(x, c.index)
	if !ok {
		return
	}
	c.sum += math.Abs(v)
	c.samples++
}

func (c *ControlEffort) Value() float64 {
	if c.samples == 0 {
		return 0
	}
	return c.sum / float64(c.samples)
}

func (c *ControlEffort) Reset() {
	c.sum = 0
	c.samples = 0
}
