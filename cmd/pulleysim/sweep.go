package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"text/tabwriter"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/san-kum/pulleysim/internal/config"
	"github.com/san-kum/pulleysim/internal/experiment"
	"github.com/san-kum/pulleysim/internal/optim"
	"github.com/san-kum/pulleysim/internal/sim"
)

var (
	sweepFrom  float64
	sweepTo    float64
	sweepSteps int
	sweepJobs  int
	sweepMass1 float64
	sweepLimit float64
)

func newSweepCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "sweep",
		Short: "sweep the Atwood mass ratio in parallel",
		Args:  cobra.NoArgs,
		RunE:  runSweep,
	}
	addSetupFlags(cmd)
	cmd.Flags().Float64Var(&sweepFrom, "from", 1, "smallest mass2 (kg)")
	cmd.Flags().Float64Var(&sweepTo, "to", 8, "largest mass2 (kg)")
	cmd.Flags().IntVar(&sweepSteps, "steps", 8, "number of mass2 values")
	cmd.Flags().IntVar(&sweepJobs, "jobs", 0, "concurrent runs (0 = unbounded)")
	cmd.Flags().Float64Var(&sweepMass1, "mass1", 0, "override mass1 (kg)")
	cmd.Flags().Float64Var(&sweepLimit, "rope-limit", 0, "override rope limit (N)")
	return cmd
}

func runSweep(cmd *cobra.Command, args []string) error {
	base, err := resolveConfig(cmd, config.ScenarioAtwood)
	if err != nil {
		return err
	}
	if cmd.Flags().Changed("mass1") {
		base.Atwood.Mass1 = sweepMass1
	}
	if cmd.Flags().Changed("rope-limit") {
		base.Atwood.RopeLimit = sweepLimit
	}
	if sweepSteps < 1 {
		return fmt.Errorf("%w: steps must be at least 1", config.ErrInvalid)
	}

	grid := optim.NewGridSearch([]string{"mass2"}, [][]float64{optim.Linspace(sweepFrom, sweepTo, sweepSteps)})
	grid.Limit = sweepJobs

	build := func(p map[string]float64) (sim.Job, error) {
		cfg := base.Clone()
		cfg.Atwood.Mass2 = p["mass2"]
		exp, err := experiment.New(cfg)
		if err != nil {
			return sim.Job{}, err
		}
		return exp.Job(fmt.Sprintf("mass2=%g", p["mass2"])), nil
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	logger.Info("sweeping mass ratio",
		zap.Float64("mass1", base.Atwood.Mass1),
		zap.Float64("from", sweepFrom),
		zap.Float64("to", sweepTo),
		zap.Int("steps", sweepSteps),
		zap.String("mode", base.Mode))

	points, err := grid.Run(ctx, build)
	if err != nil {
		return err
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "MASS2\tRATIO\tACCEL\tPEAK_T\tBREAK")
	for _, p := range points {
		m2 := p.Params["mass2"]
		broken := "-"
		if bt := p.Result.Metrics["break_time"]; bt >= 0 {
			broken = fmt.Sprintf("%.3fs", bt)
		}
		fmt.Fprintf(w, "%.3f\t%.3f\t%.4f\t%.3f\t%s\n",
			m2,
			m2/base.Atwood.Mass1,
			firstStepped(p.Result, "acceleration"),
			p.Result.Metrics["peak_tension"],
			broken,
		)
	}
	return w.Flush()
}

// firstStepped returns the channel value of the first sample after t=0.
func firstStepped(r *sim.Result, channel string) float64 {
	s := r.Series(channel)
	if len(s) < 2 {
		return 0
	}
	return s[1]
}
