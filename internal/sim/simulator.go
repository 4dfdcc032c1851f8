package sim

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/san-kum/pulleysim/internal/scheduler"
)

type Simulator struct {
	machine   Machine
	metrics   []Metric
	observers []Observer
	logger    *zap.Logger
}

func New(m Machine) *Simulator {
	return &Simulator{
		machine:   m,
		metrics:   make([]Metric, 0),
		observers: make([]Observer, 0),
		logger:    zap.NewNop(),
	}
}

func (s *Simulator) AddMetric(m Metric)     { s.metrics = append(s.metrics, m) }
func (s *Simulator) AddObserver(o Observer) { s.observers = append(s.observers, o) }

func (s *Simulator) SetLogger(l *zap.Logger) {
	if l != nil {
		s.logger = l
	}
}

func (s *Simulator) Machine() Machine { return s.machine }

// Run steps the machine for cfg.Duration seconds. Metrics and observers see
// every tick; the result only keeps samples at cfg.SampleRate plus the
// initial and final states. A cancelled context returns the partial result
// with the context error.
func (s *Simulator) Run(ctx context.Context, cfg Config) (*Result, error) {
	if err := validateConfig(cfg); err != nil {
		return nil, err
	}

	steps := int(cfg.Duration/cfg.Dt + 1e-9)
	sampler := scheduler.NewSampler(cfg.SampleRate)
	result := &Result{
		Labels:   s.machine.Labels(),
		Metrics:  make(map[string]float64),
		BrokenAt: -1,
	}

	for _, m := range s.metrics {
		m.Reset()
	}

	t := 0.0
	x := s.machine.Sample()
	result.States = append(result.States, x)
	result.Times = append(result.Times, t)
	if s.machine.Broken() {
		result.BrokenAt = 0
	}

	s.logger.Debug("run started",
		zap.Int("steps", steps),
		zap.Float64("dt", cfg.Dt),
		zap.Stringer("mode", cfg.Mode))

	recorded := true
	for i := 0; i < steps; i++ {
		select {
		case <-ctx.Done():
			return s.finish(result), ctx.Err()
		default:
		}

		for _, m := range s.metrics {
			m.Observe(x, t)
		}
		for _, obs := range s.observers {
			obs.OnStep(x, t)
		}

		s.machine.Step(cfg.Dt, cfg.Mode)
		t += cfg.Dt
		result.StepsTaken++

		x = s.machine.Sample()
		if !x.IsValid() {
			err := SimError{Step: i, Time: t, Message: "invalid state (NaN/Inf)"}
			s.logger.Error("run diverged", zap.Int("tick", i), zap.Float64("time", t))
			return s.finish(result), err
		}

		if result.BrokenAt < 0 && s.machine.Broken() {
			result.BrokenAt = t
			s.logger.Warn("rope broke",
				zap.Int("tick", i),
				zap.Float64("time", t),
				zap.Strings("channels", result.Labels),
				zap.Float64s("state", x))
		}

		recorded = false
		if sampler.Advance(cfg.Dt) > 0 {
			result.States = append(result.States, x)
			result.Times = append(result.Times, t)
			recorded = true
		}
	}

	for _, m := range s.metrics {
		m.Observe(x, t)
	}
	if !recorded {
		result.States = append(result.States, x)
		result.Times = append(result.Times, t)
	}

	s.finish(result)
	s.logger.Debug("run finished",
		zap.Int("steps", result.StepsTaken),
		zap.Int("samples", len(result.States)),
		zap.Float64("broken_at", result.BrokenAt))
	return result, nil
}

func (s *Simulator) finish(result *Result) *Result {
	for _, m := range s.metrics {
		result.Metrics[m.Name()] = m.Value()
	}
	return result
}

func validateConfig(cfg Config) error {
	if cfg.Dt <= 0 {
		return fmt.Errorf("%w: dt must be positive, got %f", ErrInvalidConfig, cfg.Dt)
	}
	if cfg.Duration <= 0 {
		return fmt.Errorf("%w: duration must be positive, got %f", ErrInvalidConfig, cfg.Duration)
	}
	if cfg.Dt > cfg.Duration {
		return fmt.Errorf("%w: dt %f exceeds duration %f", ErrInvalidConfig, cfg.Dt, cfg.Duration)
	}
	if cfg.SampleRate < 0 {
		return fmt.Errorf("%w: sample rate must not be negative, got %f", ErrInvalidConfig, cfg.SampleRate)
	}
	return nil
}
