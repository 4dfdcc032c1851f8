package config

import (
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/san-kum/pulleysim/internal/mechanics"
	"github.com/san-kum/pulleysim/internal/sim"
)

const (
	DefaultDt         = 1.0 / 60
	DefaultDuration   = 10.0
	DefaultSampleRate = 30.0

	ScenarioAtwood  = "atwood"
	ScenarioSandbox = "sandbox"
)

var (
	ErrUnknownScenario = errors.New("config: unknown scenario")
	ErrUnknownPreset   = errors.New("config: unknown preset")
	ErrInvalid         = errors.New("config: invalid value")
)

type Config struct {
	Scenario   string        `yaml:"scenario"`
	Mode       string        `yaml:"mode"`
	Dt         float64       `yaml:"dt"`
	Duration   float64       `yaml:"duration"`
	SampleRate float64       `yaml:"sample_rate"`
	Atwood     AtwoodConfig  `yaml:"atwood"`
	Sandbox    SandboxConfig `yaml:"sandbox"`
	Hold       HoldConfig    `yaml:"hold"`
}

type AtwoodConfig struct {
	Mass1        float64 `yaml:"mass1"`
	Mass2        float64 `yaml:"mass2"`
	PulleyMass   float64 `yaml:"pulley_mass"`
	PulleyRadius float64 `yaml:"pulley_radius"`
	Friction     float64 `yaml:"friction"`
	RopeLength   float64 `yaml:"rope_length"`
	RopeLimit    float64 `yaml:"rope_limit"`
	Air          float64 `yaml:"air"`
	// Y1 is the starting drop of mass 1; 0 starts at mid-rope.
	Y1 float64 `yaml:"y1"`
}

// NodeConfig authors one sandbox node. Kind is fixed, movable, load or
// anchor; Mass applies to loads and Radius to pulleys.
type NodeConfig struct {
	ID     string  `yaml:"id"`
	Kind   string  `yaml:"kind"`
	X      float64 `yaml:"x"`
	Y      float64 `yaml:"y"`
	Radius float64 `yaml:"radius,omitempty"`
	Mass   float64 `yaml:"mass,omitempty"`
	Color  string  `yaml:"color,omitempty"`
}

type RopeConfig struct {
	ID       string `yaml:"id"`
	From     string `yaml:"from"`
	To       string `yaml:"to"`
	Kind     string `yaml:"kind,omitempty"`
	FromSide int    `yaml:"from_side,omitempty"`
	ToSide   int    `yaml:"to_side,omitempty"`
}

type SandboxConfig struct {
	Nodes     []NodeConfig `yaml:"nodes"`
	Ropes     []RopeConfig `yaml:"ropes"`
	Effort    float64      `yaml:"effort"`
	Friction  float64      `yaml:"friction"`
	RopeLimit float64      `yaml:"rope_limit"`
	Air       float64      `yaml:"air"`
	FloorY    float64      `yaml:"floor_y,omitempty"`
}

// HoldConfig enables a PID hand that keeps one load at a target height.
type HoldConfig struct {
	Enabled bool    `yaml:"enabled"`
	Load    string  `yaml:"load,omitempty"`
	Target  float64 `yaml:"target"`
	Kp      float64 `yaml:"kp"`
	Ki      float64 `yaml:"ki"`
	Kd      float64 `yaml:"kd"`
	Bias    float64 `yaml:"bias"`
	Max     float64 `yaml:"max,omitempty"`
}

func DefaultConfig() *Config {
	s := mechanics.NewAtwoodState()
	return &Config{
		Scenario:   ScenarioAtwood,
		Mode:       mechanics.Ideal.String(),
		Dt:         DefaultDt,
		Duration:   DefaultDuration,
		SampleRate: DefaultSampleRate,
		Atwood: AtwoodConfig{
			Mass1:        s.Mass1,
			Mass2:        s.Mass2,
			PulleyMass:   s.PulleyMass,
			PulleyRadius: s.PulleyRadius,
			Friction:     s.FrictionCoeff,
			RopeLength:   s.TotalRopeLength,
			RopeLimit:    s.RopeMaxTension,
			Air:          s.AirResistance,
		},
		Hold: HoldConfig{Kp: 0.5, Kd: 1},
	}
}

func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}
	return Parse(data)
}

// Parse decodes YAML over DefaultConfig, so omitted fields keep defaults.
func Parse(data []byte) (*Config, error) {
	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}
	return cfg, nil
}

func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("encode config: %w", err)
	}
	return os.WriteFile(path, data, 0644)
}

func (c *Config) RealityMode() (mechanics.RealityMode, error) {
	mode, err := mechanics.ParseRealityMode(c.Mode)
	if err != nil {
		return mechanics.Ideal, fmt.Errorf("%w: %v", ErrInvalid, err)
	}
	return mode, nil
}

// SimConfig returns the run loop settings.
func (c *Config) SimConfig() (sim.Config, error) {
	mode, err := c.RealityMode()
	if err != nil {
		return sim.Config{}, err
	}
	return sim.Config{Dt: c.Dt, Duration: c.Duration, SampleRate: c.SampleRate, Mode: mode}, nil
}

func (c *Config) AtwoodState() mechanics.AtwoodState {
	a := c.Atwood
	s := mechanics.AtwoodState{
		Mass1:           a.Mass1,
		Mass2:           a.Mass2,
		PulleyMass:      a.PulleyMass,
		PulleyRadius:    a.PulleyRadius,
		FrictionCoeff:   a.Friction,
		TotalRopeLength: a.RopeLength,
		RopeMaxTension:  a.RopeLimit,
		AirResistance:   a.Air,
		Y1:              a.Y1,
	}
	if s.Y1 == 0 {
		s.Y1 = s.TotalRopeLength / 2
	}
	s.Y2 = s.TotalRopeLength - s.Y1
	return s
}

// SandboxState builds the sandbox snapshot from the authored node list.
// Nodes land in their kind's collection in authoring order.
func (c *Config) SandboxState() (mechanics.SandboxState, error) {
	sb := c.Sandbox
	s := mechanics.SandboxState{
		EffortForce:    sb.Effort,
		Friction:       sb.Friction,
		RopeMaxTension: sb.RopeLimit,
		AirResistance:  sb.Air,
		FloorY:         sb.FloorY,
	}
	if s.FloorY == 0 {
		s.FloorY = mechanics.DefaultFloorY
	}

	for _, n := range sb.Nodes {
		kind, err := mechanics.ParseNodeKind(n.Kind)
		if err != nil {
			return s, fmt.Errorf("%w: node %q: %v", ErrInvalid, n.ID, err)
		}
		switch kind {
		case mechanics.KindFixed:
			s.FixedPulleys = append(s.FixedPulleys, mechanics.FixedPulley{ID: n.ID, X: n.X, Y: n.Y, Radius: n.Radius})
		case mechanics.KindMovable:
			s.MovablePulleys = append(s.MovablePulleys, mechanics.MovablePulley{ID: n.ID, X: n.X, Y: n.Y, Radius: n.Radius})
		case mechanics.KindLoad:
			s.Loads = append(s.Loads, mechanics.Load{ID: n.ID, Mass: n.Mass, X: n.X, Y: n.Y, Color: n.Color})
		case mechanics.KindAnchor:
			s.Anchors = append(s.Anchors, mechanics.Anchor{ID: n.ID, X: n.X, Y: n.Y})
		}
	}

	for _, r := range sb.Ropes {
		kind, err := mechanics.ParseRopeKind(r.Kind)
		if err != nil {
			return s, fmt.Errorf("%w: rope %q: %v", ErrInvalid, r.ID, err)
		}
		s.Ropes = append(s.Ropes, mechanics.RopeSegment{
			ID: r.ID, FromID: r.From, ToID: r.To, Kind: kind,
			FromSide: r.FromSide, ToSide: r.ToSide,
		})
	}
	return s, nil
}

// Validate checks everything a run needs before it starts.
func (c *Config) Validate() error {
	if _, err := c.RealityMode(); err != nil {
		return err
	}
	if c.Dt <= 0 || c.Duration <= 0 || c.Dt > c.Duration {
		return fmt.Errorf("%w: dt %g and duration %g", ErrInvalid, c.Dt, c.Duration)
	}
	if c.SampleRate < 0 {
		return fmt.Errorf("%w: sample rate %g", ErrInvalid, c.SampleRate)
	}

	switch c.Scenario {
	case ScenarioAtwood:
		return c.validateAtwood()
	case ScenarioSandbox:
		s, err := c.SandboxState()
		if err != nil {
			return err
		}
		if err := mechanics.Validate(s); err != nil {
			return fmt.Errorf("%w: %w", ErrInvalid, err)
		}
		return nil
	default:
		return fmt.Errorf("%w: %q", ErrUnknownScenario, c.Scenario)
	}
}

func (c *Config) validateAtwood() error {
	a := c.Atwood
	if a.Mass1 <= 0 || a.Mass2 <= 0 {
		return fmt.Errorf("%w: masses must be positive", ErrInvalid)
	}
	if a.PulleyMass < 0 || a.Friction < 0 || a.Air < 0 {
		return fmt.Errorf("%w: pulley mass, friction and air must not be negative", ErrInvalid)
	}
	if a.RopeLength <= 2*mechanics.AtwoodEdgeMargin {
		return fmt.Errorf("%w: rope length %g too short", ErrInvalid, a.RopeLength)
	}
	if a.Y1 != 0 && (a.Y1 < mechanics.AtwoodEdgeMargin || a.Y1 > a.RopeLength-mechanics.AtwoodEdgeMargin) {
		return fmt.Errorf("%w: y1 %g outside the rope", ErrInvalid, a.Y1)
	}
	return nil
}
