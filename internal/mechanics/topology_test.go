package mechanics

import (
	"errors"
	"reflect"
	"testing"
)

// singleMovable is a load hanging from one movable pulley, supported by an
// anchor on the left and a fixed pulley on the right that leads to the hand.
func singleMovable() SandboxState {
	return SandboxState{
		FixedPulleys:   []FixedPulley{{ID: "f1", X: 340, Y: 100, Radius: 20}},
		MovablePulleys: []MovablePulley{{ID: "m1", X: 300, Y: 300, Radius: 20}},
		Anchors:        []Anchor{{ID: "a1", X: 280, Y: 100}},
		Loads:          []Load{{ID: "L1", Mass: 10, X: 300, Y: 400}},
		Ropes: []RopeSegment{
			{ID: "r1", FromID: "a1", ToID: "m1", Kind: RopePulley, ToSide: -1},
			{ID: "r2", FromID: "m1", ToID: "f1", Kind: RopePulley, FromSide: 1, ToSide: -1},
			{ID: "r3", FromID: "m1", ToID: "L1", Kind: RopeDirect},
		},
		EffortForce:    50,
		RopeMaxTension: 500,
		FloorY:         DefaultFloorY,
	}
}

// fixedHoist hangs one load on each side of a single fixed pulley.
func fixedHoist(left, right float64) SandboxState {
	return SandboxState{
		FixedPulleys: []FixedPulley{{ID: "f1", X: 300, Y: 100, Radius: 20}},
		Loads: []Load{
			{ID: "left", Mass: left, X: 280, Y: 300},
			{ID: "right", Mass: right, X: 320, Y: 300},
		},
		Ropes: []RopeSegment{
			{ID: "r1", FromID: "left", ToID: "f1", Kind: RopePulley, ToSide: -1},
			{ID: "r2", FromID: "f1", ToID: "right", Kind: RopePulley, FromSide: 1},
		},
		RopeMaxTension: 500,
		FloorY:         DefaultFloorY,
	}
}

func TestResolveTopology(t *testing.T) {
	withCounter := singleMovable()
	withCounter.Loads = append(withCounter.Loads, Load{ID: "C1", Mass: 5, X: 360, Y: 300})
	withCounter.Ropes = append(withCounter.Ropes, RopeSegment{ID: "r4", FromID: "f1", ToID: "C1", FromSide: 1})

	chained := fixedHoist(1, 1)
	chained.Loads = append(chained.Loads, Load{ID: "below", Mass: 1, X: 280, Y: 350})
	chained.Ropes = append(chained.Ropes, RopeSegment{ID: "r3", FromID: "left", ToID: "below"})

	anchored := SandboxState{
		Anchors: []Anchor{{ID: "a1", X: 100, Y: 60}},
		Loads:   []Load{{ID: "L1", Mass: 1, X: 100, Y: 200}},
		Ropes:   []RopeSegment{{ID: "r1", FromID: "a1", ToID: "L1"}},
	}

	loose := fixedHoist(1, 1)
	loose.Loads = append(loose.Loads, Load{ID: "free", Mass: 3, X: 500, Y: 100})

	dangling := fixedHoist(1, 1)
	dangling.Ropes = append(dangling.Ropes, RopeSegment{ID: "r9", FromID: "ghost", ToID: "left"})

	tests := []struct {
		name  string
		state SandboxState
		wantA []string
		wantB []string
	}{
		{"movable effort", singleMovable(), []string{"L1"}, nil},
		{"movable counterweight", withCounter, []string{"L1"}, []string{"C1"}},
		{"fixed sides", fixedHoist(2, 3), []string{"left"}, []string{"right"}},
		{"chained load follows its side", chained, []string{"left", "below"}, []string{"right"}},
		{"anchor only", anchored, []string{"L1"}, nil},
		{"free load", loose, []string{"left"}, []string{"right"}},
		{"dangling rope", dangling, []string{"left"}, []string{"right"}},
		{"empty", SandboxState{}, nil, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := ResolveTopology(tt.state)
			if !reflect.DeepEqual(p.GroupA, tt.wantA) {
				t.Errorf("GroupA = %v, want %v", p.GroupA, tt.wantA)
			}
			if !reflect.DeepEqual(p.GroupB, tt.wantB) {
				t.Errorf("GroupB = %v, want %v", p.GroupB, tt.wantB)
			}
		})
	}
}

func TestResolveTopologyTrustsSideFlags(t *testing.T) {
	s := fixedHoist(2, 3)
	s.Ropes[1].FromSide = -1

	p := ResolveTopology(s)
	if len(p.GroupB) != 0 || len(p.GroupA) != 2 {
		t.Errorf("mislabelled side should put both loads in A, got A=%v B=%v", p.GroupA, p.GroupB)
	}
}

func TestMechanicalAdvantage(t *testing.T) {
	tests := []struct {
		movable int
		want    float64
	}{
		{0, 1},
		{1, 2},
		{2, 4},
		{3, 6},
	}
	for _, tt := range tests {
		if got := MechanicalAdvantage(tt.movable); got != tt.want {
			t.Errorf("MechanicalAdvantage(%d) = %v, want %v", tt.movable, got, tt.want)
		}
	}
}

func TestValidate(t *testing.T) {
	if err := Validate(singleMovable()); err != nil {
		t.Fatalf("expected valid sandbox, got %v", err)
	}

	bad := singleMovable()
	bad.Loads = append(bad.Loads, Load{ID: "m1", Mass: -1})
	bad.FixedPulleys[0].Radius = 0
	bad.Ropes = append(bad.Ropes, RopeSegment{ID: "r1", FromID: "a1", ToID: "nowhere", FromSide: 2})

	err := Validate(bad)
	for _, want := range []error{ErrDuplicateID, ErrNegativeMass, ErrBadRadius, ErrDanglingRope, ErrBadSide} {
		if !errors.Is(err, want) {
			t.Errorf("expected %v in %v", want, err)
		}
	}
}

func TestRopeLines(t *testing.T) {
	s := singleMovable()
	s.Ropes = append(s.Ropes, RopeSegment{ID: "r9", FromID: "ghost", ToID: "L1"})

	lines := RopeLines(s)
	if len(lines) != 3 {
		t.Fatalf("dangling rope should be skipped, got %d lines", len(lines))
	}
	want := RopeLine{ID: "r2", X1: 320, Y1: 300, X2: 320, Y2: 100}
	if lines[1] != want {
		t.Errorf("r2 = %+v, want %+v", lines[1], want)
	}
}
