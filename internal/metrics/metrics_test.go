package metrics

import (
	"math"
	"testing"

	"github.com/san-kum/pulleysim/internal/sim"
)

var labels = []string{"time", "y1", "y2", "velocity", "tension1", "tension2", "broken", "effort"}

func sample(y1, v, t1, t2, broken, effort float64) sim.State {
	return sim.State{0, y1, 4 - y1, v, t1, t2, broken, effort}
}

func TestPeakTension(t *testing.T) {
	m := NewPeakTension(labels)
	m.Observe(sample(2, 0, 20, 25, 0, 0), 0)
	m.Observe(sample(2, 0, 31, 12, 0, 0), 1)
	m.Observe(sample(2, 0, 0, 0, 1, 0), 2)
	if m.Value() != 31 {
		t.Errorf("expected peak 31, got %f", m.Value())
	}
	m.Reset()
	if m.Value() != 0 {
		t.Error("reset should clear the peak")
	}
}

func TestBreakTime(t *testing.T) {
	m := NewBreakTime(labels)
	m.Observe(sample(2, 0, 0, 0, 0, 0), 0.5)
	if m.Value() != -1 {
		t.Errorf("expected -1 before a break, got %f", m.Value())
	}
	m.Observe(sample(2, 0, 0, 0, 1, 0), 1.25)
	m.Observe(sample(2, 0, 0, 0, 1, 0), 2)
	if m.Value() != 1.25 {
		t.Errorf("expected break at 1.25, got %f", m.Value())
	}
}

func TestStability(t *testing.T) {
	m := NewStability(labels, "velocity", 0.5)
	for _, v := range []float64{0, 0.1, -0.4, 0.9} {
		m.Observe(sample(2, v, 0, 0, 0, 0), 0)
	}
	if m.Value() != 0.75 {
		t.Errorf("expected 0.75, got %f", m.Value())
	}

	missing := NewStability(labels, "omega", 0.5)
	missing.Observe(sample(2, 10, 0, 0, 0, 0), 0)
	if missing.Value() != 1 {
		t.Errorf("missing channel should read stable, got %f", missing.Value())
	}
}

func TestTravel(t *testing.T) {
	m := NewTravel(labels, "y1")
	for _, y := range []float64{2, 2.5, 1.5, 1.5} {
		m.Observe(sample(y, 0, 0, 0, 0, 0), 0)
	}
	if math.Abs(m.Value()-1.5) > 1e-12 {
		t.Errorf("expected travel 1.5, got %f", m.Value())
	}
	if m.Name() != "travel:y1" {
		t.Errorf("unexpected name %q", m.Name())
	}
}

func TestControlEffort(t *testing.T) {
	m := NewControlEffort(labels)
	m.Observe(sample(2, 0, 0, 0, 0, 10), 0)
	m.Observe(sample(2, 0, 0, 0, 0, 30), 1)
	if m.Value() != 20 {
		t.Errorf("expected mean effort 20, got %f", m.Value())
	}
}

func TestEnergy(t *testing.T) {
	m := NewEnergy(labels, 2, 3)
	m.Observe(sample(2, 1, 0, 0, 0, 0), 0)

	expected := 0.5*5*1 - 9.81*(2*2+3*2)
	if math.Abs(m.Value()-expected) > 1e-9 {
		t.Errorf("expected energy %f, got %f", expected, m.Value())
	}
}
