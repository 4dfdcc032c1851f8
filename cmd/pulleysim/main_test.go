package main

import (
	"errors"
	"path/filepath"
	"testing"

	"github.com/spf13/cobra"

	"github.com/san-kum/pulleysim/internal/config"
	"github.com/san-kum/pulleysim/internal/sim"
)

func newTestCmd(t *testing.T) *cobra.Command {
	t.Helper()
	configFile, preset = "", ""
	t.Cleanup(func() { configFile, preset = "", "" })
	cmd := &cobra.Command{Use: "test"}
	addSetupFlags(cmd)
	return cmd
}

func TestResolveConfigDefaults(t *testing.T) {
	cmd := newTestCmd(t)
	if err := cmd.Flags().Set("time", "3"); err != nil {
		t.Fatal(err)
	}

	cfg, err := resolveConfig(cmd, config.ScenarioSandbox)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Scenario != config.ScenarioSandbox || len(cfg.Sandbox.Nodes) != 4 {
		t.Errorf("expected the single-movable sandbox, got %+v", cfg)
	}
	if cfg.Duration != 3 {
		t.Errorf("--time should override the duration, got %v", cfg.Duration)
	}
	if cfg.Dt != config.DefaultDt {
		t.Errorf("unchanged --dt should keep the preset dt, got %v", cfg.Dt)
	}
}

func TestResolveConfigPreset(t *testing.T) {
	cmd := newTestCmd(t)
	preset = "overload"

	cfg, err := resolveConfig(cmd, config.ScenarioAtwood)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Mode != "real" || cfg.Atwood.Mass2 != 8 {
		t.Errorf("expected the overload preset, got %+v", cfg.Atwood)
	}

	preset = "missing"
	if _, err := resolveConfig(cmd, config.ScenarioAtwood); !errors.Is(err, config.ErrUnknownPreset) {
		t.Errorf("expected ErrUnknownPreset, got %v", err)
	}
}

func TestResolveConfigFile(t *testing.T) {
	cmd := newTestCmd(t)
	path := filepath.Join(t.TempDir(), "rig.yaml")
	if err := config.Save(path, config.DefaultConfig()); err != nil {
		t.Fatal(err)
	}
	configFile = path

	if _, err := resolveConfig(cmd, config.ScenarioAtwood); err != nil {
		t.Errorf("matching scenario: %v", err)
	}
	if _, err := resolveConfig(cmd, config.ScenarioSandbox); !errors.Is(err, config.ErrUnknownScenario) {
		t.Errorf("mismatched scenario: expected ErrUnknownScenario, got %v", err)
	}
}

func TestResolveConfigUnknownScenario(t *testing.T) {
	cmd := newTestCmd(t)
	if _, err := resolveConfig(cmd, "crane"); !errors.Is(err, config.ErrUnknownScenario) {
		t.Errorf("expected ErrUnknownScenario, got %v", err)
	}
}

func TestFirstStepped(t *testing.T) {
	r := &sim.Result{
		Labels: []string{"acceleration"},
		States: []sim.State{{0}, {1.5}, {1.6}},
	}
	if got := firstStepped(r, "acceleration"); got != 1.5 {
		t.Errorf("firstStepped = %v", got)
	}
	if got := firstStepped(r, "missing"); got != 0 {
		t.Errorf("missing channel = %v", got)
	}
}
