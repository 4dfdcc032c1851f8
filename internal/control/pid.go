package control

import "fmt"

type PID struct {
	Kp     float64
	Ki     float64
	Kd     float64
	Target float64
	// Bias is added to every output, usually the weight the hand must carry.
	Bias float64
	// MaxOutput caps the effort when positive.
	MaxOutput float64

	integral float64
	prevErr  float64
	prevT    float64
	first    bool
}

func NewPID(kp, ki, kd, target float64) *PID {
	return &PID{
		Kp:     kp,
		Ki:     ki,
		Kd:     kd,
		Target: target,
		first:  true,
	}
}

// Compute returns the hand effort for a load measured at height y. A load
// hanging below the target (larger y) produces a larger pull.
func (p *PID) Compute(y, t float64) float64 {
	err := y - p.Target

	if p.first {
		p.prevErr = err
		p.prevT = t
		p.first = false
		return p.limit(p.Bias + p.Kp*err)
	}

	dt := t - p.prevT
	if dt <= 0 {
		return p.limit(p.Bias + p.Kp*err + p.Ki*p.integral)
	}

	derivative := (err - p.prevErr) / dt
	u := p.Bias + p.Kp*err + p.Ki*(p.integral+err*dt) + p.Kd*derivative

	// Hold the integral while saturated so it cannot wind up.
	if limited := p.limit(u); limited == u {
		p.integral += err * dt
	}

	p.prevErr = err
	p.prevT = t
	return p.limit(u)
}

func (p *PID) limit(u float64) float64 {
	if u < 0 {
		return 0
	}
	if p.MaxOutput > 0 && u > p.MaxOutput {
		return p.MaxOutput
	}
	return u
}

// Reset clears integral and derivative state
func (p *PID) Reset() {
	p.integral = 0
	p.prevErr = 0
	p.prevT = 0
	p.first = true
}

// GetParams returns tunable parameters for live adjustment
func (p *PID) GetParams() map[string]float64 {
	return map[string]float64{
		"Kp":     p.Kp,
		"Ki":     p.Ki,
		"Kd":     p.Kd,
		"Target": p.Target,
		"Bias":   p.Bias,
	}
}

// SetParam adjusts a PID parameter
func (p *PID) SetParam(name string, value float64) error {
	switch name {
	case "Kp":
		p.Kp = value
	case "Ki":
		p.Ki = value
	case "Kd":
		p.Kd = value
	case "Target":
		p.Target = value
	case "Bias":
		p.Bias = value
	default:
		return fmt.Errorf("control: unknown PID parameter %q", name)
	}
	return nil
}
