// Package control computes the hand effort applied to a sandbox rope.
//
// Controllers implement [Effort]:
//
//   - [PID]: holds a load at a target height
//   - [Manual]: a fixed effort set by the user
//
// # Usage
//
//	hold := control.NewPID(2, 0.5, 0.8, 250)  // Kp, Ki, Kd, target y
//	hold.Bias = 49.05                         // feed-forward for the load weight
//	sandbox.SetHold(hold)
//
// Both support live tuning through GetParams and SetParam.
package control

// Effort maps a measured load height (canvas y, down is positive) at time t
// to a hand force in newtons. Implementations never return a negative force.
type Effort interface {
	Compute(measured, t float64) float64
	Reset()
}
