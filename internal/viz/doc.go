// Package viz is the interactive terminal view of a pulley rig.
//
// A [Model] drives any [Rig] (the Atwood machine or a sandbox) from Bubble
// Tea frame ticks, draws its geometry on a braille [Canvas] and charts the
// rope tension next to a spring-smoothed load gauge.
//
// # Key Bindings
//
//	Space   - Pause/Resume simulation
//	R       - Reset to the authored rig
//	M       - Toggle IDEAL/REAL
//	+/-     - Double/halve the time scale
//	Tab ↑↓  - Select and tune parameters
//	T       - Cycle color themes
//	?       - Show help overlay
//	Q       - Quit
package viz
