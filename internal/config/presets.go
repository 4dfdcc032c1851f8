package config

import (
	"fmt"
	"sort"
)

func atwood(a AtwoodConfig, mode string, duration float64) *Config {
	return &Config{
		Scenario: ScenarioAtwood, Mode: mode, Dt: DefaultDt, Duration: duration,
		SampleRate: DefaultSampleRate, Atwood: a,
	}
}

func sandbox(s SandboxConfig, mode string, duration float64) *Config {
	return &Config{
		Scenario: ScenarioSandbox, Mode: mode, Dt: DefaultDt, Duration: duration,
		SampleRate: DefaultSampleRate, Sandbox: s,
		Hold: HoldConfig{Kp: 0.5, Kd: 1},
	}
}

var Presets = map[string]map[string]*Config{
	ScenarioAtwood: {
		"balanced": atwood(AtwoodConfig{
			Mass1: 2.5, Mass2: 2.5, PulleyMass: 1, PulleyRadius: 0.1,
			RopeLength: 4, RopeLimit: 100, Air: 0.5, Y1: 3.2,
		}, "ideal", 10),
		"scenario-a": atwood(AtwoodConfig{
			Mass1: 2, Mass2: 3, PulleyMass: 1, PulleyRadius: 0.1,
			RopeLength: 4, RopeLimit: 100, Air: 0.5,
		}, "ideal", 5),
		"overload": atwood(AtwoodConfig{
			Mass1: 2, Mass2: 8, PulleyMass: 1, PulleyRadius: 0.1, Friction: 0.1,
			RopeLength: 4, RopeLimit: 30, Air: 0.5,
		}, "real", 5),
	},
	ScenarioSandbox: {
		"single-movable": sandbox(SandboxConfig{
			Nodes: []NodeConfig{
				{ID: "f1", Kind: "fixed", X: 340, Y: 100, Radius: 20},
				{ID: "m1", Kind: "movable", X: 300, Y: 300, Radius: 20},
				{ID: "a1", Kind: "anchor", X: 280, Y: 100},
				{ID: "L1", Kind: "load", X: 300, Y: 400, Mass: 10, Color: "#e07a5f"},
			},
			Ropes: []RopeConfig{
				{ID: "r1", From: "a1", To: "m1", Kind: "pulley", ToSide: -1},
				{ID: "r2", From: "m1", To: "f1", Kind: "pulley", FromSide: 1, ToSide: -1},
				{ID: "r3", From: "m1", To: "L1"},
			},
			Effort: 50, RopeLimit: 500, Air: 0.5,
		}, "ideal", 10),
		"block-and-tackle": sandbox(SandboxConfig{
			Nodes: []NodeConfig{
				{ID: "f1", Kind: "fixed", X: 338, Y: 80, Radius: 20},
				{ID: "a1", Kind: "anchor", X: 282, Y: 80},
				{ID: "m1", Kind: "movable", X: 300, Y: 260, Radius: 18},
				{ID: "m2", Kind: "movable", X: 300, Y: 380, Radius: 18},
				{ID: "L1", Kind: "load", X: 300, Y: 480, Mass: 20, Color: "#3d405b"},
			},
			Ropes: []RopeConfig{
				{ID: "r1", From: "a1", To: "m1", Kind: "pulley", ToSide: -1},
				{ID: "r2", From: "m1", To: "f1", Kind: "pulley", FromSide: 1, ToSide: -1},
				{ID: "r3", From: "m1", To: "m2", Kind: "pulley"},
				{ID: "r4", From: "m2", To: "L1"},
			},
			Effort: 60, Friction: 0.05, RopeLimit: 400, Air: 0.5,
		}, "ideal", 10),
		"counterweight": sandbox(SandboxConfig{
			Nodes: []NodeConfig{
				{ID: "f1", Kind: "fixed", X: 300, Y: 100, Radius: 20},
				{ID: "crate", Kind: "load", X: 280, Y: 420, Mass: 5, Color: "#81b29a"},
				{ID: "counter", Kind: "load", X: 320, Y: 300, Mass: 5.5, Color: "#f2cc8f"},
			},
			Ropes: []RopeConfig{
				{ID: "r1", From: "crate", To: "f1", Kind: "pulley", ToSide: -1},
				{ID: "r2", From: "f1", To: "counter", Kind: "pulley", FromSide: 1},
			},
			Friction: 0.05, RopeLimit: 200, Air: 0.5,
		}, "ideal", 10),
		"fixed-hoist": sandbox(SandboxConfig{
			Nodes: []NodeConfig{
				{ID: "f1", Kind: "fixed", X: 300, Y: 100, Radius: 20},
				{ID: "L1", Kind: "load", X: 280, Y: 400, Mass: 10, Color: "#e07a5f"},
			},
			Ropes: []RopeConfig{
				{ID: "r1", From: "L1", To: "f1", Kind: "pulley", ToSide: -1},
			},
			Effort: 100, RopeLimit: 150, Air: 0.5,
		}, "ideal", 10),
	},
}

// GetPreset returns a copy of a named preset that the caller may modify.
func GetPreset(scenario, preset string) (*Config, error) {
	scenarioPresets, ok := Presets[scenario]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownScenario, scenario)
	}
	cfg, ok := scenarioPresets[preset]
	if !ok {
		return nil, fmt.Errorf("%w: %s/%s", ErrUnknownPreset, scenario, preset)
	}
	return cfg.Clone(), nil
}

// ListPresets returns the preset names of a scenario in sorted order, or
// nil for an unknown scenario.
func ListPresets(scenario string) []string {
	scenarioPresets, ok := Presets[scenario]
	if !ok {
		return nil
	}
	names := make([]string, 0, len(scenarioPresets))
	for name := range scenarioPresets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Scenarios lists every scenario with presets, sorted.
func Scenarios() []string {
	names := make([]string, 0, len(Presets))
	for name := range Presets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Clone deep-copies the config.
func (c *Config) Clone() *Config {
	cp := *c
	cp.Sandbox.Nodes = append([]NodeConfig(nil), c.Sandbox.Nodes...)
	cp.Sandbox.Ropes = append([]RopeConfig(nil), c.Sandbox.Ropes...)
	return &cp
}
