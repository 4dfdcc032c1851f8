// Package sim drives a pulley machine through fixed time slices and records
// what happened.
//
//   - [Machine]: a stepped rig (Atwood or sandbox) exposing a flat sample
//   - [Simulator]: runs one machine, feeding metrics and observers
//   - [RunBatch]: runs independent jobs in parallel
//
// # Example
//
//	m := models.NewAtwood(mechanics.NewAtwoodState())
//	s := sim.New(m)
//	s.AddMetric(metrics.NewPeakTension(m.Labels()))
//	result, err := s.Run(ctx, sim.DefaultConfig())
//
// # Thread Safety
//
// A Simulator and its Machine are not safe for concurrent use. RunBatch
// gives every job its own Simulator; jobs must not share machines.
package sim
