package mechanics

import (
	"fmt"
	"strings"
)

// RealityMode toggles between the lossless model and the lossy, breakable one.
type RealityMode int

const (
	Ideal RealityMode = iota
	Real
)

func (m RealityMode) String() string {
	switch m {
	case Ideal:
		return "ideal"
	case Real:
		return "real"
	default:
		return fmt.Sprintf("mode(%d)", int(m))
	}
}

func ParseRealityMode(s string) (RealityMode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "ideal", "":
		return Ideal, nil
	case "real":
		return Real, nil
	default:
		return Ideal, fmt.Errorf("unknown reality mode: %s", s)
	}
}

// AtwoodState is the scalar snapshot of a two-mass Atwood machine.
// Y1 and Y2 are measured downward from the pulley axle, in meters.
// Positive Velocity means mass1 is rising while the rope is intact; once
// IsBroken is set it is the shared falling speed of both ends.
type AtwoodState struct {
	Mass1           float64 `json:"mass1" yaml:"mass1"`
	Mass2           float64 `json:"mass2" yaml:"mass2"`
	PulleyMass      float64 `json:"pulley_mass" yaml:"pulley_mass"`
	PulleyRadius    float64 `json:"pulley_radius" yaml:"pulley_radius"`
	FrictionCoeff   float64 `json:"friction" yaml:"friction"`
	TotalRopeLength float64 `json:"rope_length" yaml:"rope_length"`
	RopeMaxTension  float64 `json:"rope_max_tension" yaml:"rope_max_tension"`
	AirResistance   float64 `json:"air_resistance" yaml:"air_resistance"`

	Y1              float64 `json:"y1" yaml:"y1"`
	Y2              float64 `json:"y2" yaml:"y2"`
	Velocity        float64 `json:"velocity" yaml:"velocity"`
	AngularVelocity float64 `json:"angular_velocity" yaml:"angular_velocity"`
	Acceleration    float64 `json:"acceleration" yaml:"acceleration"`
	Tension1        float64 `json:"tension1" yaml:"tension1"`
	Tension2        float64 `json:"tension2" yaml:"tension2"`
	Time            float64 `json:"time" yaml:"time"`
	IsBroken        bool    `json:"is_broken" yaml:"is_broken"`
}

func NewAtwoodState() AtwoodState {
	s := AtwoodState{
		Mass1:           2.0,
		Mass2:           3.0,
		PulleyMass:      1.0,
		PulleyRadius:    0.1,
		TotalRopeLength: 4.0,
		RopeMaxTension:  100.0,
		AirResistance:   0.5,
	}
	s.Y1 = s.TotalRopeLength / 2
	s.Y2 = s.TotalRopeLength - s.Y1
	return s
}

// NodeKind tags every node in a sandbox graph.
type NodeKind int

const (
	KindNone NodeKind = iota
	KindFixed
	KindMovable
	KindLoad
	KindAnchor
)

func (k NodeKind) String() string {
	switch k {
	case KindFixed:
		return "fixed"
	case KindMovable:
		return "movable"
	case KindLoad:
		return "load"
	case KindAnchor:
		return "anchor"
	default:
		return "none"
	}
}

// IsPivot reports whether a rope can hang from this kind of node.
func (k NodeKind) IsPivot() bool {
	return k == KindFixed || k == KindMovable || k == KindAnchor
}

// ParseNodeKind accepts the names String produces, except "none".
func ParseNodeKind(s string) (NodeKind, error) {
	for _, k := range []NodeKind{KindFixed, KindMovable, KindLoad, KindAnchor} {
		if strings.EqualFold(strings.TrimSpace(s), k.String()) {
			return k, nil
		}
	}
	return KindNone, fmt.Errorf("unknown node kind: %s", s)
}

type RopeKind int

const (
	RopeDirect RopeKind = iota
	RopePulley
)

func (k RopeKind) String() string {
	if k == RopePulley {
		return "pulley"
	}
	return "direct"
}

// ParseRopeKind maps "direct" (or empty) and "pulley" to a RopeKind.
func ParseRopeKind(s string) (RopeKind, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "direct":
		return RopeDirect, nil
	case "pulley":
		return RopePulley, nil
	default:
		return RopeDirect, fmt.Errorf("unknown rope kind: %s", s)
	}
}

type FixedPulley struct {
	ID     string  `json:"id" yaml:"id"`
	X      float64 `json:"x" yaml:"x"`
	Y      float64 `json:"y" yaml:"y"`
	Radius float64 `json:"radius" yaml:"radius"`
}

type MovablePulley struct {
	ID     string  `json:"id" yaml:"id"`
	X      float64 `json:"x" yaml:"x"`
	Y      float64 `json:"y" yaml:"y"`
	Radius float64 `json:"radius" yaml:"radius"`
	VX     float64 `json:"vx" yaml:"vx"`
}

type Load struct {
	ID    string  `json:"id" yaml:"id"`
	Mass  float64 `json:"mass" yaml:"mass"`
	X     float64 `json:"x" yaml:"x"`
	Y     float64 `json:"y" yaml:"y"`
	VX    float64 `json:"vx" yaml:"vx"`
	VY    float64 `json:"vy" yaml:"vy"`
	Color string  `json:"color" yaml:"color"`
}

type Anchor struct {
	ID string  `json:"id" yaml:"id"`
	X  float64 `json:"x" yaml:"x"`
	Y  float64 `json:"y" yaml:"y"`
}

// RopeSegment joins two nodes. FromSide and ToSide record which tangent
// side (-1 left, 0 center, 1 right) of a pulley endpoint the rope leaves.
// They are set when the rope is authored and trusted from then on.
type RopeSegment struct {
	ID       string   `json:"id" yaml:"id"`
	FromID   string   `json:"from" yaml:"from"`
	ToID     string   `json:"to" yaml:"to"`
	Kind     RopeKind `json:"kind" yaml:"kind"`
	FromSide int      `json:"from_side" yaml:"from_side"`
	ToSide   int      `json:"to_side" yaml:"to_side"`
}

// Other returns the endpoint opposite id and the side flag recorded there.
func (r RopeSegment) Other(id string) (string, int) {
	if r.FromID == id {
		return r.ToID, r.ToSide
	}
	return r.FromID, r.FromSide
}

// SideAt returns the side flag recorded at endpoint id.
func (r RopeSegment) SideAt(id string) int {
	if r.FromID == id {
		return r.FromSide
	}
	return r.ToSide
}

// SandboxState is the authored pulley graph plus the scalar rope-feed state.
// Positions are in pixels with y growing downward.
type SandboxState struct {
	FixedPulleys   []FixedPulley   `json:"fixed_pulleys" yaml:"fixed_pulleys"`
	MovablePulleys []MovablePulley `json:"movable_pulleys" yaml:"movable_pulleys"`
	Loads          []Load          `json:"loads" yaml:"loads"`
	Anchors        []Anchor        `json:"anchors" yaml:"anchors"`
	Ropes          []RopeSegment   `json:"ropes" yaml:"ropes"`

	EffortForce      float64 `json:"effort_force" yaml:"effort_force"`
	Friction         float64 `json:"friction" yaml:"friction"`
	RopeMaxTension   float64 `json:"rope_max_tension" yaml:"rope_max_tension"`
	AirResistance    float64 `json:"air_resistance" yaml:"air_resistance"`
	FloorY           float64 `json:"floor_y" yaml:"floor_y"`
	LoadVelocity     float64 `json:"load_velocity" yaml:"load_velocity"`
	LoadPosition     float64 `json:"load_position" yaml:"load_position"`
	LoadAcceleration float64 `json:"load_acceleration" yaml:"load_acceleration"`
	Tension          float64 `json:"tension" yaml:"tension"`
	IsBroken         bool    `json:"is_broken" yaml:"is_broken"`
}

// Clone returns a deep copy that shares no slices with s.
func (s SandboxState) Clone() SandboxState {
	c := s
	c.FixedPulleys = append([]FixedPulley(nil), s.FixedPulleys...)
	c.MovablePulleys = append([]MovablePulley(nil), s.MovablePulleys...)
	c.Loads = append([]Load(nil), s.Loads...)
	c.Anchors = append([]Anchor(nil), s.Anchors...)
	c.Ropes = append([]RopeSegment(nil), s.Ropes...)
	return c
}

func (s SandboxState) floor() float64 {
	if s.FloorY > 0 {
		return s.FloorY
	}
	return DefaultFloorY
}
