package mechanics_test

import (
	"math/rand"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/san-kum/pulleysim/internal/mechanics"
)

const dt = 0.016

var _ = Describe("StepAtwood", func() {
	var s mechanics.AtwoodState

	BeforeEach(func() {
		s = mechanics.NewAtwoodState()
	})

	It("settles equal masses at the rope midpoint", func() {
		s.Mass1, s.Mass2, s.FrictionCoeff = 2, 2, 0
		s.Y1, s.Y2 = 3.2, 0.8

		for i := 0; i < 2000; i++ {
			s = mechanics.StepAtwood(s, dt, mechanics.Ideal)
		}
		Expect(s.Y1).To(BeNumerically("~", s.TotalRopeLength/2, 1e-3))
		Expect(s.Acceleration).To(BeNumerically("~", 0, 1e-3))
	})

	It("reports the textbook acceleration for 2kg against 3kg", func() {
		s.Mass1, s.Mass2, s.PulleyMass, s.FrictionCoeff = 2, 3, 1, 0
		next := mechanics.StepAtwood(s, dt, mechanics.Ideal)
		Expect(next.Acceleration).To(BeNumerically("~", 9.81/5.5, 1e-9))
	})

	It("keeps y1 inside the rope bounds for random rigs", func() {
		rnd := rand.New(rand.NewSource(7))
		for trial := 0; trial < 20; trial++ {
			s = mechanics.NewAtwoodState()
			s.Mass1 = 0.5 + rnd.Float64()*10
			s.Mass2 = 0.5 + rnd.Float64()*10
			s.FrictionCoeff = rnd.Float64() * 0.5
			mode := mechanics.RealityMode(rnd.Intn(2))
			s.RopeMaxTension = 1e6

			for i := 0; i < 400; i++ {
				s = mechanics.StepAtwood(s, rnd.Float64()*0.05, mode)
				Expect(s.IsBroken).To(BeFalse())
				Expect(s.Y1).To(BeNumerically(">=", mechanics.AtwoodEdgeMargin))
				Expect(s.Y1).To(BeNumerically("<=", s.TotalRopeLength-mechanics.AtwoodEdgeMargin))
			}
		}
	})

	Context("in real mode with a weak rope", func() {
		BeforeEach(func() {
			s.Mass1, s.Mass2 = 2, 3
			s.RopeMaxTension = 20
		})

		It("breaks on the tick the tension exceeds the limit", func() {
			next := mechanics.StepAtwood(s, dt, mechanics.Real)
			Expect(next.IsBroken).To(BeTrue())
			Expect(next.Tension2).To(BeNumerically(">", s.RopeMaxTension))
		})

		It("stays broken with zero tension whatever comes next", func() {
			s = mechanics.StepAtwood(s, dt, mechanics.Real)
			for i := 0; i < 100; i++ {
				mode := mechanics.RealityMode(i % 2)
				s = mechanics.StepAtwood(s, float64(i%3+1)*dt, mode)
				Expect(s.IsBroken).To(BeTrue())
				Expect(s.Tension1).To(BeZero())
				Expect(s.Tension2).To(BeZero())
			}
		})
	})
})

var _ = Describe("StepSandbox", func() {
	hoist := func() mechanics.SandboxState {
		return mechanics.SandboxState{
			FixedPulleys:   []mechanics.FixedPulley{{ID: "top", X: 338, Y: 80, Radius: 20}},
			MovablePulleys: []mechanics.MovablePulley{{ID: "block", X: 300, Y: 260, Radius: 18}},
			Anchors:        []mechanics.Anchor{{ID: "hook", X: 282, Y: 80}},
			Loads:          []mechanics.Load{{ID: "crate", Mass: 10, X: 300, Y: 360}},
			Ropes: []mechanics.RopeSegment{
				{ID: "r1", FromID: "hook", ToID: "block", ToSide: -1},
				{ID: "r2", FromID: "block", ToID: "top", FromSide: 1, ToSide: -1},
				{ID: "r3", FromID: "block", ToID: "crate"},
			},
			EffortForce:    50,
			RopeMaxTension: 1000,
			FloorY:         550,
		}
	}

	It("gains mechanical advantage from the movable pulley", func() {
		next := mechanics.StepSandbox(hoist(), dt, mechanics.Ideal)
		Expect(next.LoadAcceleration).To(BeNumerically("~", 0.271, 1e-3))
	})

	It("never un-breaks a rope", func() {
		s := hoist()
		s.RopeMaxTension = 10
		s = mechanics.StepSandbox(s, dt, mechanics.Real)
		Expect(s.IsBroken).To(BeTrue())

		for i := 0; i < 200; i++ {
			s = mechanics.StepSandbox(s, dt, mechanics.RealityMode(i%2))
			Expect(s.IsBroken).To(BeTrue())
			Expect(s.LoadVelocity).To(BeZero())
		}
	})

	It("keeps rope-connected items between ceiling and floor", func() {
		s := hoist()
		s.EffortForce = 200
		ceiling := mechanics.Ceiling(s)
		for i := 0; i < 1500; i++ {
			s = mechanics.StepSandbox(s, dt, mechanics.Ideal)
			Expect(s.MovablePulleys[0].Y).To(BeNumerically(">=", ceiling))
			Expect(s.Loads[0].Y).To(BeNumerically(">=", ceiling))
			Expect(s.Loads[0].Y).To(BeNumerically("<=", s.FloorY))
		}
	})

	It("is deterministic", func() {
		a, b := hoist(), hoist()
		for i := 0; i < 100; i++ {
			a = mechanics.StepSandbox(a, dt, mechanics.Real)
			b = mechanics.StepSandbox(b, dt, mechanics.Real)
		}
		Expect(a).To(Equal(b))
	})

	It("treats a zero time slice as a no-op", func() {
		s := hoist()
		Expect(mechanics.StepSandbox(s, 0, mechanics.Real)).To(Equal(s))
	})
})
