package experiment

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/san-kum/pulleysim/internal/config"
	"github.com/san-kum/pulleysim/internal/control"
	"github.com/san-kum/pulleysim/internal/sim"
)

// stillSpeed is the speed (m/s) under which a rig counts as at rest.
const stillSpeed = 0.01

// Experiment is one configured run: the machine built from a config and
// the metrics reported for its scenario.
type Experiment struct {
	Config  *config.Config
	Machine Machine
	Metrics []sim.Metric

	simCfg sim.Config
	logger *zap.Logger
}

// New validates cfg and builds its machine and metrics.
func New(cfg *config.Config) (*Experiment, error) {
	return NewRegistry().Build(cfg)
}

func (r *Registry) Build(cfg *config.Config) (*Experiment, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	simCfg, err := cfg.SimConfig()
	if err != nil {
		return nil, err
	}
	m, err := r.GetMachine(cfg)
	if err != nil {
		return nil, err
	}
	return &Experiment{
		Config:  cfg,
		Machine: m,
		Metrics: r.DefaultMetrics(cfg, m.Labels()),
		simCfg:  simCfg,
		logger:  zap.NewNop(),
	}, nil
}

func (e *Experiment) SetLogger(l *zap.Logger) {
	if l != nil {
		e.logger = l
	}
}

// SimConfig returns the run loop settings derived from the config.
func (e *Experiment) SimConfig() sim.Config { return e.simCfg }

func (e *Experiment) Run(ctx context.Context) (*sim.Result, error) {
	s := sim.New(e.Machine)
	for _, m := range e.Metrics {
		s.AddMetric(m)
	}
	s.SetLogger(e.logger.With(zap.String("scenario", e.Config.Scenario)))

	res, err := s.Run(ctx, e.simCfg)
	if err != nil {
		return res, fmt.Errorf("run %s: %w", e.Config.Scenario, err)
	}
	return res, nil
}

// Job packages the experiment for sim.RunBatch.
func (e *Experiment) Job(name string) sim.Job {
	return sim.Job{Name: name, Machine: e.Machine, Metrics: e.Metrics, Config: e.simCfg}
}

func newHold(h config.HoldConfig) *control.PID {
	p := control.NewPID(h.Kp, h.Ki, h.Kd, h.Target)
	p.Bias = h.Bias
	p.MaxOutput = h.Max
	return p
}
