package metrics

import (
	"github.com/san-kum/pulleysim/internal/mechanics"
	"github.com/san-kum/pulleysim/internal/sim"
)

// Energy averages the mechanical energy of an Atwood rig, taking the pulley
// axle as zero potential. y grows downward, so hanging lower lowers energy.
type Energy struct {
	name         string
	mass1, mass2 float64
	y1, y2, v    int
	samples      int
	totalEnergy  float64
}

func NewEnergy(labels []string, mass1, mass2 float64) *Energy {
	return &Energy{
		name:  "energy",
		mass1: mass1,
		mass2: mass2,
		y1:    sim.Index(labels, "y1"),
		y2:    sim.Index(labels, "y2"),
		v:     sim.Index(labels, "velocity"),
	}
}

func (e *Energy) Name() string { return e.name }

func (e *Energy) Observe(x sim.State, t float64) {
	y1, ok1 := at(x, e.y1)
	y2, ok2 := at(x, e.y2)
	v, ok3 := at(x, e.v)
	if !ok1 || !ok2 || !ok3 {
		return
	}
	ke := 0.5 * (e.mass1 + e.mass2) * v * v
	pe := -mechanics.Gravity * (e.mass1*y1 + e.mass2*y2)
	e.totalEnergy += ke + pe
	e.samples++
}

func (e *Energy) Value() float64 {
	if e.samples == 0 {
		return 0
	}
	return e.totalEnergy / float64(e.samples)
}

func (e *Energy) Reset() {
	e.totalEnergy = 0
	e.samples = 0
}
