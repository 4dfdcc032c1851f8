// Package metrics summarises a run from the samples a Simulator feeds it.
//
// Metrics locate their channels by name when built, so the same metric
// works for any machine that exposes the channel. A metric whose channel is
// missing observes nothing.
package metrics

import "github.com/san-kum/pulleysim/internal/sim"

func channels(labels []string, names ...string) []int {
	var idx []int
	for _, n := range names {
		if i := sim.Index(labels, n); i >= 0 {
			idx = append(idx, i)
		}
	}
	return idx
}

func at(x sim.State, i int) (float64, bool) {
	if i < 0 || i >= len(x) {
		return 0, false
	}
	return x[i], true
}
