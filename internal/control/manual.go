package control

import "math"

// Manual applies whatever effort the user last set, ignoring the load.
type Manual struct {
	Force float64
}

func NewManual(force float64) *Manual {
	return &Manual{Force: math.Max(0, force)}
}

// SetEffort updates the held force. Negative values are treated as 0.
func (m *Manual) SetEffort(force float64) {
	m.Force = math.Max(0, force)
}

func (m *Manual) Compute(measured, t float64) float64 {
	return math.Max(0, m.Force)
}

func (m *Manual) Reset() {}
