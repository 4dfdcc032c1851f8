// Package mechanics provides the rope-and-pulley stepping core.
//
// Two pure step functions advance a mechanical snapshot by one time slice:
//
//   - [StepAtwood]: two masses over a single massive pulley
//   - [StepSandbox]: an authored graph of fixed pulleys, movable pulleys,
//     anchors, loads and rope segments
//
// The sandbox graph is reduced to a single scalar "rope feed" degree of
// freedom by [ResolveTopology], which splits the loads into the group
// hanging from movable pulleys and the group on the pulling side.
//
// # Reality Modes
//
// [Ideal] is lossless and unbreakable. [Real] adds quadratic air drag, a
// small pulley weight and a finite rope tension limit; once a rope breaks
// the snapshot stays broken.
//
// # Thread Safety
//
// Step functions never mutate their input and hold no package state, so
// snapshots may be stepped from any goroutine. A single snapshot chain is
// inherently sequential.
package mechanics
