package mechanics

import (
	"math"
	"testing"
)

func TestStepSandboxScenarioB(t *testing.T) {
	s := singleMovable()

	next := StepSandbox(s, 0.016, Ideal)

	if ma := MechanicalAdvantage(len(s.MovablePulleys)); ma != 2 {
		t.Fatalf("expected MA 2, got %v", ma)
	}
	// net = 50 - 10*9.81/2 = 0.95, effective mass = 10/4 + 1 = 3.5
	want := 0.95 / 3.5
	if math.Abs(next.LoadAcceleration-want) > 1e-9 {
		t.Errorf("expected acceleration %.4f, got %.4f", want, next.LoadAcceleration)
	}
	if next.Loads[0].Y >= s.Loads[0].Y {
		t.Errorf("load should rise: %f -> %f", s.Loads[0].Y, next.Loads[0].Y)
	}
	if next.MovablePulleys[0].Y >= s.MovablePulleys[0].Y {
		t.Errorf("movable pulley should rise with its load")
	}
	loadRise := s.Loads[0].Y - next.Loads[0].Y
	ropeFed := next.LoadVelocity * 0.016 * PixelsPerMeter
	if math.Abs(loadRise-ropeFed/2) > 1e-9 {
		t.Errorf("load should rise by half the rope fed: rise %g, fed %g", loadRise, ropeFed)
	}
}

func TestStepSandboxPulleyCentering(t *testing.T) {
	s := singleMovable()
	for i := 0; i < 100; i++ {
		s = StepSandbox(s, 0.016, Ideal)
	}
	if x := s.MovablePulleys[0].X; math.Abs(x-300) > 1e-9 {
		t.Errorf("pulley under vertical ropes should stay put, got x=%f", x)
	}

	s = singleMovable()
	s.MovablePulleys[0].X = 340
	for i := 0; i < 500; i++ {
		s = StepSandbox(s, 0.016, Ideal)
	}
	if x := s.MovablePulleys[0].X; math.Abs(x-300) > 20 {
		t.Errorf("pulley should move toward x=300, got %f", x)
	}
}

func TestStepSandboxCeilingVeto(t *testing.T) {
	s := singleMovable()
	s.EffortForce = 1000
	s.MovablePulleys[0].Y = Ceiling(s) + 1

	next := StepSandbox(s, 0.016, Ideal)
	if next.LoadVelocity != 0 || next.LoadAcceleration != 0 {
		t.Errorf("veto should zero the feed, got v=%f a=%f", next.LoadVelocity, next.LoadAcceleration)
	}
	if next.MovablePulleys[0].Y != s.MovablePulleys[0].Y || next.Loads[0].Y != s.Loads[0].Y {
		t.Error("veto should cancel every displacement")
	}
}

func TestStepSandboxFloorVeto(t *testing.T) {
	s := fixedHoist(1, 5)
	s.Loads[1].Y = s.FloorY - 0.01

	next := StepSandbox(s, 0.016, Ideal)
	if next.LoadVelocity != 0 {
		t.Errorf("descending counterweight at the floor should stop, got v=%f", next.LoadVelocity)
	}
}

func TestStepSandboxFreeLoadBounces(t *testing.T) {
	s := SandboxState{
		Loads:  []Load{{ID: "L1", Mass: 2, X: 100, Y: 500, VX: 30}},
		FloorY: 550,
	}
	for i := 0; i < 600; i++ {
		s = StepSandbox(s, 0.016, Ideal)
		if s.Loads[0].Y > s.FloorY {
			t.Fatalf("tick %d: load below the floor at %f", i, s.Loads[0].Y)
		}
	}
	l := s.Loads[0]
	if l.Y != s.FloorY || l.VY != 0 || l.VX != 0 {
		t.Errorf("expected load at rest on the floor, got %+v", l)
	}
}

func TestStepSandboxCounterweightSettles(t *testing.T) {
	s := fixedHoist(2, 2)
	s.Loads[1].Y = 400

	for i := 0; i < 1000; i++ {
		s = StepSandbox(s, 0.016, Ideal)
	}
	if d := math.Abs(s.Loads[0].Y - s.Loads[1].Y); d > 1 {
		t.Errorf("balanced loads should settle level, still %f apart", d)
	}
}

func TestStepSandboxBreakage(t *testing.T) {
	s := singleMovable()
	s.RopeMaxTension = 40

	if StepSandbox(s, 0.016, Ideal).IsBroken {
		t.Fatal("ideal rope must never break")
	}

	broken := StepSandbox(s, 0.016, Real)
	if !broken.IsBroken {
		t.Fatalf("expected break, tension %f", broken.Tension)
	}
	if broken.Loads[0].VY <= 0 {
		t.Errorf("load should start falling once the rope parts, vy=%f", broken.Loads[0].VY)
	}
	if broken.MovablePulleys[0].Y <= s.MovablePulleys[0].Y {
		t.Error("movable pulley should drop once the rope parts")
	}

	after := StepSandbox(broken, 0.016, Ideal)
	if !after.IsBroken || after.LoadVelocity != 0 || after.LoadAcceleration != 0 {
		t.Errorf("broken sandbox should stay broken and slack: %+v", after)
	}
}

func TestStepSandboxEmpty(t *testing.T) {
	s := SandboxState{EffortForce: 100}
	next := StepSandbox(s, 0.016, Real)
	if next.LoadVelocity != 0 || next.LoadAcceleration != 0 || next.IsBroken {
		t.Errorf("empty sandbox should not move: %+v", next)
	}
}

func TestStepSandboxDoesNotAlias(t *testing.T) {
	s := singleMovable()
	before := s.Loads[0]

	next := StepSandbox(s, 0.016, Ideal)
	next.Loads[0].Y = -1
	next.MovablePulleys[0].X = -1

	if s.Loads[0] != before {
		t.Errorf("input load changed: %+v", s.Loads[0])
	}
	if s.MovablePulleys[0].X != 300 {
		t.Errorf("input pulley changed: %+v", s.MovablePulleys[0])
	}
}

func TestStepSandboxDanglingRope(t *testing.T) {
	s := fixedHoist(2, 3)
	s.Ropes = append(s.Ropes, RopeSegment{ID: "r9", FromID: "ghost", ToID: "left", ToSide: 1})

	next := StepSandbox(s, 0.016, Real)
	for _, l := range next.Loads {
		if math.IsNaN(l.X) || math.IsNaN(l.Y) {
			t.Fatalf("dangling rope produced NaN: %+v", l)
		}
	}
}

func TestCeiling(t *testing.T) {
	if c := Ceiling(SandboxState{}); c != DefaultCeiling {
		t.Errorf("expected default ceiling %v, got %v", DefaultCeiling, c)
	}
	s := SandboxState{FixedPulleys: []FixedPulley{
		{ID: "a", Y: 80, Radius: 10},
		{ID: "b", Y: 100, Radius: 25},
	}}
	if c := Ceiling(s); c != 125+CeilingMargin {
		t.Errorf("expected ceiling %v, got %v", 125+CeilingMargin, c)
	}
}

func TestStepSandboxStaticFriction(t *testing.T) {
	s := fixedHoist(2, 2.1)
	s.Friction = 1

	next := StepSandbox(s, 0.016, Ideal)
	if next.LoadVelocity != 0 || next.LoadAcceleration != 0 {
		t.Errorf("friction should hold a small imbalance, got v=%f a=%f", next.LoadVelocity, next.LoadAcceleration)
	}
	for i := range s.Loads {
		if next.Loads[i].Y != s.Loads[i].Y {
			t.Errorf("%s moved under stiction: %f -> %f", s.Loads[i].ID, s.Loads[i].Y, next.Loads[i].Y)
		}
	}
}

func TestStepSandboxKineticFriction(t *testing.T) {
	smooth := fixedHoist(1, 4)
	smooth.LoadVelocity = 1
	rough := smooth.Clone()
	rough.Friction = 0.3

	a := StepSandbox(smooth, 0.016, Ideal)
	b := StepSandbox(rough, 0.016, Ideal)
	if b.LoadAcceleration >= a.LoadAcceleration {
		t.Fatalf("friction should reduce acceleration: %f vs %f", b.LoadAcceleration, a.LoadAcceleration)
	}
	// F_f = 0.3 * (1g + 4g) * 0.1 * 1 pulley over an effective mass of 4 + 1 + 1
	want := 0.3 * 5 * Gravity * FrictionScale / 6
	if got := a.LoadAcceleration - b.LoadAcceleration; math.Abs(got-want) > 1e-9 {
		t.Errorf("kinetic friction took %f off the acceleration, want %f", got, want)
	}
}

func TestStepSandboxStictionCorrection(t *testing.T) {
	tests := []struct {
		name     string
		friction float64
		wantStop bool
	}{
		{"drive within friction bound", 1, true},
		{"drive over friction bound", 0.1, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := fixedHoist(2, 2.1)
			s.Friction = tt.friction
			s.LoadVelocity = -0.002

			next := StepSandbox(s, 0.016, Ideal)
			stopped := next.LoadVelocity == 0 && next.LoadAcceleration == 0
			if stopped != tt.wantStop {
				t.Errorf("stopped = %v, want %v (v=%f a=%f)", stopped, tt.wantStop, next.LoadVelocity, next.LoadAcceleration)
			}
			if !tt.wantStop && next.LoadVelocity <= 0 {
				t.Errorf("unbalanced drive should reverse the feed, got v=%f", next.LoadVelocity)
			}
		})
	}
}

func TestStepSandboxRealDrag(t *testing.T) {
	s := fixedHoist(1, 4)
	s.LoadVelocity = 3
	s.AirResistance = 1
	s.RopeMaxTension = 1000

	ideal := StepSandbox(s, 0.016, Ideal)
	real := StepSandbox(s, 0.016, Real)
	if real.IsBroken {
		t.Fatalf("rope should hold, tension %f", real.Tension)
	}
	if real.LoadAcceleration >= ideal.LoadAcceleration {
		t.Fatalf("drag should reduce acceleration: real %f ideal %f", real.LoadAcceleration, ideal.LoadAcceleration)
	}
	// drag = air * AirScale * 2 * v² over an effective mass of 4 + 1 + 1
	want := s.AirResistance * AirScale * SandboxDragFactor * 9 / 6
	if got := ideal.LoadAcceleration - real.LoadAcceleration; math.Abs(got-want) > 1e-9 {
		t.Errorf("drag took %f off the acceleration, want %f", got, want)
	}

	slow := s.Clone()
	slow.LoadVelocity = 0.005
	if a, b := StepSandbox(slow, 0.016, Ideal), StepSandbox(slow, 0.016, Real); a.LoadAcceleration != b.LoadAcceleration {
		t.Errorf("no drag below the drag speed: ideal %f real %f", a.LoadAcceleration, b.LoadAcceleration)
	}
}

func TestStepSandboxPendulum(t *testing.T) {
	const dt = 0.016
	tests := []struct {
		name string
		x, y float64
		vx   float64
		want func(next Load) float64
	}{
		{"restoring below pivot", 200, 200, 0, func(next Load) float64 {
			dx := next.X - next.VX*dt - 100
			length := math.Hypot(dx, next.Y-100)
			return -Gravity * 2.5 * (dx / length) * dt * SwingDamping
		}},
		{"hanging straight damps", 100, 200, 10, func(Load) float64 { return 10 * SwingDamping }},
		{"above pivot decays", 200, 80, 10, func(Load) float64 { return 10 * SlackDamping }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := SandboxState{
				Anchors: []Anchor{{ID: "a1", X: 100, Y: 100}},
				Loads:   []Load{{ID: "L1", Mass: 1, X: tt.x, Y: tt.y, VX: tt.vx}},
				Ropes:   []RopeSegment{{ID: "r1", FromID: "a1", ToID: "L1"}},
				FloorY:  DefaultFloorY,
			}

			next := StepSandbox(s, dt, Ideal).Loads[0]
			if want := tt.want(next); math.Abs(next.VX-want) > 1e-9 {
				t.Errorf("VX = %f, want %f", next.VX, want)
			}
			if math.Abs(next.X-(tt.x+next.VX*dt)) > 1e-9 {
				t.Errorf("X = %f, want %f", next.X, tt.x+next.VX*dt)
			}
		})
	}
}

func TestStepSandboxFloorContact(t *testing.T) {
	tests := []struct {
		name   string
		vy     float64
		wantVY float64
	}{
		{"fast impact rebounds", 200, -(200 + Gravity*PixelsPerMeter*0.016) * BounceRestitution},
		{"slow impact rests", 10, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := SandboxState{
				Loads:  []Load{{ID: "L1", Mass: 1, X: 100, Y: 549.9, VY: tt.vy}},
				FloorY: 550,
			}
			l := StepSandbox(s, 0.016, Ideal).Loads[0]
			if l.Y != s.FloorY {
				t.Errorf("expected load on the floor, got y=%f", l.Y)
			}
			if math.Abs(l.VY-tt.wantVY) > 1e-9 {
				t.Errorf("VY = %f, want %f", l.VY, tt.wantVY)
			}
		})
	}
}

func TestStepSandboxFreeFallDragIsVertical(t *testing.T) {
	s := SandboxState{
		Loads:  []Load{{ID: "L1", Mass: 1, X: 100, Y: 100, VX: 30}},
		FloorY: DefaultFloorY,
	}

	l := StepSandbox(s, 0.016, Real).Loads[0]
	if l.VX != 30 {
		t.Errorf("horizontal speed should not be dragged, got %f", l.VX)
	}
	if want := Gravity * PixelsPerMeter * 0.016 * FreeFallDrag; math.Abs(l.VY-want) > 1e-9 {
		t.Errorf("VY = %f, want %f", l.VY, want)
	}
}
