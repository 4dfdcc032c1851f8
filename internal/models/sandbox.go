package models

import (
	"fmt"
	"strings"

	"github.com/san-kum/pulleysim/internal/control"
	"github.com/san-kum/pulleysim/internal/mechanics"
	"github.com/san-kum/pulleysim/internal/sim"
)

var sandboxLabels = []string{
	"time", "load_position", "load_velocity", "load_acceleration",
	"tension", "effort", "broken",
}

// Sandbox is a free-form pulley rig. Its sample carries the rope channels
// followed by x and y for every load and then every movable pulley.
type Sandbox struct {
	State   mechanics.SandboxState
	initial mechanics.SandboxState
	time    float64

	hold  control.Effort
	track string
}

func NewSandbox(s mechanics.SandboxState) *Sandbox {
	return &Sandbox{State: s.Clone(), initial: s.Clone()}
}

// SetHold lets a controller drive the hand effort from the height of the
// load with the given id. An empty id tracks the first load on the effort
// side. A nil controller restores manual effort.
func (m *Sandbox) SetHold(e control.Effort, loadID string) {
	m.hold = e
	m.track = loadID
}

func (m *Sandbox) Step(dt float64, mode mechanics.RealityMode) {
	if m.hold != nil {
		if y, ok := m.trackedY(); ok {
			m.State.EffortForce = m.hold.Compute(y, m.time)
		}
	}
	m.State = mechanics.StepSandbox(m.State, dt, mode)
	if dt > 0 {
		m.time += dt
	}
}

func (m *Sandbox) trackedY() (float64, bool) {
	id := m.track
	if id == "" {
		part := mechanics.ResolveTopology(m.State)
		if len(part.GroupA) == 0 {
			return 0, false
		}
		id = part.GroupA[0]
	}
	for _, l := range m.State.Loads {
		if l.ID == id {
			return l.Y, true
		}
	}
	return 0, false
}

func (m *Sandbox) Sample() sim.State {
	s := m.State
	x := make(sim.State, 0, len(sandboxLabels)+2*(len(s.Loads)+len(s.MovablePulleys)))
	x = append(x, m.time, s.LoadPosition, s.LoadVelocity, s.LoadAcceleration,
		s.Tension, s.EffortForce, b2f(s.IsBroken))
	for _, l := range s.Loads {
		x = append(x, l.X, l.Y)
	}
	for _, p := range s.MovablePulleys {
		x = append(x, p.X, p.Y)
	}
	return x
}

func (m *Sandbox) Labels() []string {
	labels := append([]string(nil), sandboxLabels...)
	for _, l := range m.State.Loads {
		labels = append(labels, l.ID+".x", l.ID+".y")
	}
	for _, p := range m.State.MovablePulleys {
		labels = append(labels, p.ID+".x", p.ID+".y")
	}
	return labels
}

func (m *Sandbox) Broken() bool { return m.State.IsBroken }

func (m *Sandbox) Time() float64 { return m.time }

func (m *Sandbox) Reset() {
	m.State = m.initial.Clone()
	m.time = 0
	if m.hold != nil {
		m.hold.Reset()
	}
}

// GetParams implements sim.Configurable. Load masses appear as "<id>.mass".
func (m *Sandbox) GetParams() map[string]float64 {
	params := map[string]float64{
		"effort":     m.State.EffortForce,
		"friction":   m.State.Friction,
		"rope_limit": m.State.RopeMaxTension,
		"air":        m.State.AirResistance,
	}
	for _, l := range m.State.Loads {
		params[l.ID+".mass"] = l.Mass
	}
	return params
}

// SetParam implements sim.Configurable.
func (m *Sandbox) SetParam(name string, value float64) error {
	if value < 0 {
		return fmt.Errorf("%w: %s = %f", ErrParameterBounds, name, value)
	}
	if id, ok := strings.CutSuffix(name, ".mass"); ok {
		for _, s := range []*mechanics.SandboxState{&m.State, &m.initial} {
			found := false
			for i := range s.Loads {
				if s.Loads[i].ID == id {
					s.Loads[i].Mass = value
					found = true
				}
			}
			if !found {
				return fmt.Errorf("%w: %q", ErrUnknownParameter, name)
			}
		}
		return nil
	}

	for _, s := range []*mechanics.SandboxState{&m.State, &m.initial} {
		switch name {
		case "effort":
			s.EffortForce = value
		case "friction":
			s.Friction = value
		case "rope_limit":
			s.RopeMaxTension = value
		case "air":
			s.AirResistance = value
		default:
			return fmt.Errorf("%w: %q", ErrUnknownParameter, name)
		}
	}
	return nil
}

var (
	_ sim.Machine      = (*Atwood)(nil)
	_ sim.Configurable = (*Atwood)(nil)
	_ sim.Machine      = (*Sandbox)(nil)
	_ sim.Configurable = (*Sandbox)(nil)
)
