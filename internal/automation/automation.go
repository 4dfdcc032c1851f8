package automation

import (
	"context"
	"errors"
	"fmt"
	"math"
	"math/rand"
	"os"
	"sort"
	"strings"
	"time"

	"go.uber.org/zap"
	"gopkg.in/yaml.v3"

	"github.com/san-kum/pulleysim/internal/config"
	"github.com/san-kum/pulleysim/internal/experiment"
	"github.com/san-kum/pulleysim/internal/sim"
	"github.com/san-kum/pulleysim/internal/storage"
)

var ErrEmptyScript = errors.New("automation: script has no steps")

// Script is a scripted sequence of runs.
type Script struct {
	Name        string       `yaml:"name"`
	Description string       `yaml:"description"`
	Steps       []ScriptStep `yaml:"steps"`
}

// ScriptStep is one run of a script. It starts from Config when set,
// otherwise from Preset, otherwise from the scenario default; the
// remaining fields override that base.
type ScriptStep struct {
	Scenario string             `yaml:"scenario"`
	Preset   string             `yaml:"preset"`
	Config   string             `yaml:"config"`
	Mode     string             `yaml:"mode"`
	Duration float64            `yaml:"duration"`
	Dt       float64            `yaml:"dt"`
	Params   map[string]float64 `yaml:"params"`
	SaveAs   string             `yaml:"save_as"`
}

// StepResult is the outcome of one script step. RunID is empty unless the
// step was stored.
type StepResult struct {
	Name   string
	RunID  string
	Result *sim.Result
}

func LoadScript(path string) (*Script, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return ParseScript(data)
}

func ParseScript(data []byte) (*Script, error) {
	var script Script
	if err := yaml.Unmarshal(data, &script); err != nil {
		return nil, fmt.Errorf("parse script: %w", err)
	}
	if len(script.Steps) == 0 {
		return nil, ErrEmptyScript
	}
	return &script, nil
}

// StepConfig resolves the config a step runs with.
func StepConfig(step ScriptStep) (*config.Config, error) {
	var cfg *config.Config
	switch {
	case step.Config != "":
		c, err := config.Load(step.Config)
		if err != nil {
			return nil, err
		}
		cfg = c
	case step.Preset != "":
		c, err := config.GetPreset(step.Scenario, step.Preset)
		if err != nil {
			return nil, err
		}
		cfg = c
	case step.Scenario == config.ScenarioSandbox:
		c, err := config.GetPreset(config.ScenarioSandbox, "single-movable")
		if err != nil {
			return nil, err
		}
		cfg = c
	default:
		cfg = config.DefaultConfig()
		if step.Scenario != "" {
			cfg.Scenario = step.Scenario
		}
	}

	if step.Mode != "" {
		cfg.Mode = step.Mode
	}
	if step.Duration > 0 {
		cfg.Duration = step.Duration
	}
	if step.Dt > 0 {
		cfg.Dt = step.Dt
	}
	return cfg, nil
}

// RunScript executes every step in order. Steps with SaveAs are stored
// when st is not nil. The results of the steps before a failure are
// returned with the error.
func RunScript(ctx context.Context, script *Script, st *storage.Store, logger *zap.Logger) ([]StepResult, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	results := make([]StepResult, 0, len(script.Steps))

	for i, step := range script.Steps {
		cfg, err := StepConfig(step)
		if err != nil {
			return results, fmt.Errorf("step %d: %w", i+1, err)
		}
		exp, err := experiment.New(cfg)
		if err != nil {
			return results, fmt.Errorf("step %d: %w", i+1, err)
		}
		if err := applyParams(exp.Machine, step.Params); err != nil {
			return results, fmt.Errorf("step %d: %w", i+1, err)
		}
		exp.SetLogger(logger)

		name := step.SaveAs
		if name == "" {
			name = fmt.Sprintf("step-%d", i+1)
		}
		logger.Info("script step",
			zap.String("script", script.Name),
			zap.Int("step", i+1),
			zap.Int("of", len(script.Steps)),
			zap.String("scenario", cfg.Scenario),
			zap.String("name", name))

		result, err := exp.Run(ctx)
		if err != nil {
			return results, fmt.Errorf("step %d run: %w", i+1, err)
		}

		sr := StepResult{Name: name, Result: result}
		if st != nil && step.SaveAs != "" {
			id, err := st.Save(cfg, step.Preset, result)
			if err != nil {
				return results, fmt.Errorf("step %d save: %w", i+1, err)
			}
			sr.RunID = id
		}
		results = append(results, sr)
	}

	return results, nil
}

// applyParams sets params in sorted order so failures are reproducible.
func applyParams(m sim.Configurable, params map[string]float64) error {
	keys := make([]string, 0, len(params))
	for k := range params {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		if err := m.SetParam(k, params[k]); err != nil {
			return err
		}
	}
	return nil
}

// MonteCarloConfig jitters every mass of a base config by up to
// ±Perturbation (a fraction of the nominal mass) per trial.
type MonteCarloConfig struct {
	Trials       int
	Perturbation float64
	Seed         int64
	// Limit caps concurrent trials; 0 means unbounded.
	Limit int
}

// MonteCarloResult is one trial.
type MonteCarloResult struct {
	TrialID     int
	Masses      map[string]float64
	Broken      bool
	BreakTime   float64
	PeakTension float64
}

// RunMonteCarlo runs the perturbed trials in parallel. Trials are
// reproducible for a non-zero seed.
func RunMonteCarlo(ctx context.Context, base *config.Config, mc MonteCarloConfig) ([]MonteCarloResult, error) {
	if mc.Trials < 1 {
		return nil, fmt.Errorf("%w: trials must be at least 1", config.ErrInvalid)
	}
	if mc.Perturbation < 0 || mc.Perturbation >= 1 {
		return nil, fmt.Errorf("%w: perturbation %g outside [0, 1)", config.ErrInvalid, mc.Perturbation)
	}

	seed := mc.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	rng := rand.New(rand.NewSource(seed))

	jobs := make([]sim.Job, mc.Trials)
	masses := make([]map[string]float64, mc.Trials)
	for trial := range jobs {
		exp, err := experiment.New(base.Clone())
		if err != nil {
			return nil, err
		}
		masses[trial] = make(map[string]float64)
		params := exp.Machine.GetParams()
		for _, k := range massParams(params) {
			v := params[k] * (1 + (rng.Float64()*2-1)*mc.Perturbation)
			if err := exp.Machine.SetParam(k, v); err != nil {
				return nil, fmt.Errorf("trial %d: %w", trial, err)
			}
			masses[trial][k] = v
		}
		jobs[trial] = exp.Job(fmt.Sprintf("trial-%d", trial))
	}

	runs, err := sim.RunBatch(ctx, jobs, mc.Limit)
	if err != nil {
		return nil, err
	}

	results := make([]MonteCarloResult, mc.Trials)
	for i, r := range runs {
		results[i] = MonteCarloResult{
			TrialID:     i,
			Masses:      masses[i],
			Broken:      r.BrokenAt >= 0,
			BreakTime:   r.BrokenAt,
			PeakTension: r.Metrics["peak_tension"],
		}
	}
	return results, nil
}

// massParams returns the sorted load mass parameters. The pulley's own
// mass is left nominal.
func massParams(params map[string]float64) []string {
	var keys []string
	for k := range params {
		if k != "pulley_mass" && strings.Contains(k, "mass") {
			keys = append(keys, k)
		}
	}
	sort.Strings(keys)
	return keys
}

// MonteCarloStats summarises the trials: how many broke and the mean and
// maximum peak tension.
func MonteCarloStats(results []MonteCarloResult) (broken int, meanPeak, maxPeak float64) {
	if len(results) == 0 {
		return 0, 0, 0
	}
	for _, r := range results {
		if r.Broken {
			broken++
		}
		meanPeak += r.PeakTension
		maxPeak = math.Max(maxPeak, r.PeakTension)
	}
	return broken, meanPeak / float64(len(results)), maxPeak
}
