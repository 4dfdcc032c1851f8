package metrics

import (
	"math"

	"github.com/san-kum/pulleysim/internal/sim"
)

// Travel sums the absolute change of one position channel.
type Travel struct {
	name  string
	index int
	total float64
	last  float64
	seen  bool
}

func NewTravel(labels []string, channel string) *Travel {
	return &Travel{name: "travel:" + channel, index: sim.Index(labels, channel)}
}

func (tr *Travel) Name() string { return tr.name }

func (tr *Travel) Observe(x sim.State, t float64) {
	v, ok := at(x, tr.index)
	if !ok {
		return
	}
	if tr.seen {
		tr.total += math.Abs(v - tr.last)
	}
	tr.last, tr.seen = v, true
}

func (tr *Travel) Value() float64 { return tr.total }

func (tr *Travel) Reset() {
	tr.total, tr.last, tr.seen = 0, 0, false
}
