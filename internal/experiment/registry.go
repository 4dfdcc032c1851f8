package experiment

import (
	"fmt"
	"sort"

	"github.com/san-kum/pulleysim/internal/config"
	"github.com/san-kum/pulleysim/internal/metrics"
	"github.com/san-kum/pulleysim/internal/models"
	"github.com/san-kum/pulleysim/internal/sim"
)

// Machine is a rig the registry can build: steppable, tunable and
// resettable to its authored state.
type Machine interface {
	sim.Machine
	sim.Configurable
	Reset()
}

type Builder func(cfg *config.Config) (Machine, error)

type Registry struct {
	machines map[string]Builder
}

func NewRegistry() *Registry {
	r := &Registry{machines: make(map[string]Builder)}

	r.machines[config.ScenarioAtwood] = func(cfg *config.Config) (Machine, error) {
		if cfg.Hold.Enabled {
			return nil, fmt.Errorf("%w: hold applies to sandbox rigs only", config.ErrInvalid)
		}
		return models.NewAtwood(cfg.AtwoodState()), nil
	}
	r.machines[config.ScenarioSandbox] = func(cfg *config.Config) (Machine, error) {
		s, err := cfg.SandboxState()
		if err != nil {
			return nil, err
		}
		m := models.NewSandbox(s)
		if cfg.Hold.Enabled {
			m.SetHold(newHold(cfg.Hold), cfg.Hold.Load)
		}
		return m, nil
	}

	return r
}

func (r *Registry) GetMachine(cfg *config.Config) (Machine, error) {
	fn, ok := r.machines[cfg.Scenario]
	if !ok {
		return nil, fmt.Errorf("%w: %q", config.ErrUnknownScenario, cfg.Scenario)
	}
	return fn(cfg)
}

func (r *Registry) ListScenarios() []string {
	names := make([]string, 0, len(r.machines))
	for name := range r.machines {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// DefaultMetrics returns the metrics reported for a scenario, bound to the
// machine's sample layout.
func (r *Registry) DefaultMetrics(cfg *config.Config, labels []string) []sim.Metric {
	ms := []sim.Metric{
		metrics.NewPeakTension(labels),
		metrics.NewBreakTime(labels),
	}
	switch cfg.Scenario {
	case config.ScenarioAtwood:
		ms = append(ms,
			metrics.NewStability(labels, "velocity", stillSpeed),
			metrics.NewTravel(labels, "y1"),
			metrics.NewEnergy(labels, cfg.Atwood.Mass1, cfg.Atwood.Mass2),
		)
	case config.ScenarioSandbox:
		ms = append(ms,
			metrics.NewStability(labels, "load_velocity", stillSpeed),
			metrics.NewTravel(labels, "load_position"),
			metrics.NewControlEffort(labels),
		)
	}
	return ms
}
