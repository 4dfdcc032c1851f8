package models

import (
	"fmt"

	"github.com/san-kum/pulleysim/internal/mechanics"
	"github.com/san-kum/pulleysim/internal/sim"
)

var atwoodLabels = []string{
	"time", "y1", "y2", "velocity", "acceleration",
	"tension1", "tension2", "angular_velocity", "broken",
}

type Atwood struct {
	State   mechanics.AtwoodState
	initial mechanics.AtwoodState
}

func NewAtwood(s mechanics.AtwoodState) *Atwood {
	return &Atwood{State: s, initial: s}
}

func (a *Atwood) Step(dt float64, mode mechanics.RealityMode) {
	a.State = mechanics.StepAtwood(a.State, dt, mode)
}

func (a *Atwood) Sample() sim.State {
	s := a.State
	return sim.State{
		s.Time, s.Y1, s.Y2, s.Velocity, s.Acceleration,
		s.Tension1, s.Tension2, s.AngularVelocity, b2f(s.IsBroken),
	}
}

func (a *Atwood) Labels() []string {
	return append([]string(nil), atwoodLabels...)
}

func (a *Atwood) Broken() bool { return a.State.IsBroken }

func (a *Atwood) Reset() { a.State = a.initial }

// GetParams implements sim.Configurable
func (a *Atwood) GetParams() map[string]float64 {
	return map[string]float64{
		"mass1":       a.State.Mass1,
		"mass2":       a.State.Mass2,
		"pulley_mass": a.State.PulleyMass,
		"friction":    a.State.FrictionCoeff,
		"rope_limit":  a.State.RopeMaxTension,
		"air":         a.State.AirResistance,
	}
}

// SetParam implements sim.Configurable. Changes apply to the live snapshot
// and to the one Reset restores.
func (a *Atwood) SetParam(name string, value float64) error {
	if value < 0 {
		return fmt.Errorf("%w: %s = %f", ErrParameterBounds, name, value)
	}
	var field *float64
	var initial *float64
	switch name {
	case "mass1":
		field, initial = &a.State.Mass1, &a.initial.Mass1
	case "mass2":
		field, initial = &a.State.Mass2, &a.initial.Mass2
	case "pulley_mass":
		field, initial = &a.State.PulleyMass, &a.initial.PulleyMass
	case "friction":
		field, initial = &a.State.FrictionCoeff, &a.initial.FrictionCoeff
	case "rope_limit":
		field, initial = &a.State.RopeMaxTension, &a.initial.RopeMaxTension
	case "air":
		field, initial = &a.State.AirResistance, &a.initial.AirResistance
	default:
		return fmt.Errorf("%w: %q", ErrUnknownParameter, name)
	}
	if (name == "mass1" || name == "mass2") && value == 0 {
		return fmt.Errorf("%w: %s must be positive", ErrParameterBounds, name)
	}
	*field, *initial = value, value
	return nil
}
