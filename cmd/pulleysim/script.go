package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/san-kum/pulleysim/internal/automation"
	"github.com/san-kum/pulleysim/internal/config"
	"github.com/san-kum/pulleysim/internal/storage"
)

var (
	mcTrials       int
	mcPerturbation float64
	mcSeed         int64
	mcJobs         int
)

func newScriptCmds() []*cobra.Command {
	scriptCmd := &cobra.Command{
		Use:   "script [file]",
		Short: "run a scripted sequence of simulations",
		Args:  cobra.ExactArgs(1),
		RunE:  runScript,
	}

	mcCmd := &cobra.Command{
		Use:       "montecarlo [atwood|sandbox]",
		Short:     "estimate rope break odds under mass uncertainty",
		Args:      cobra.ExactArgs(1),
		ValidArgs: config.Scenarios(),
		RunE:      runMonteCarlo,
	}
	addSetupFlags(mcCmd)
	mcCmd.Flags().IntVar(&mcTrials, "trials", 100, "number of trials")
	mcCmd.Flags().Float64Var(&mcPerturbation, "perturb", 0.1, "mass jitter as a fraction of nominal")
	mcCmd.Flags().Int64Var(&mcSeed, "seed", 0, "random seed (0 = time based)")
	mcCmd.Flags().IntVar(&mcJobs, "jobs", 0, "concurrent trials (0 = unbounded)")

	return []*cobra.Command{scriptCmd, mcCmd}
}

func runScript(cmd *cobra.Command, args []string) error {
	script, err := automation.LoadScript(args[0])
	if err != nil {
		return err
	}
	st := storage.New(dataDir).WithLogger(logger)
	if err := st.Init(); err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	results, err := automation.RunScript(ctx, script, st, logger)
	for _, r := range results {
		id := orDash(r.RunID)
		fmt.Printf("%s: %d steps, broken at %.3f, run %s\n", r.Name, r.Result.StepsTaken, r.Result.BrokenAt, id)
	}
	return err
}

func runMonteCarlo(cmd *cobra.Command, args []string) error {
	base, err := resolveConfig(cmd, args[0])
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	results, err := automation.RunMonteCarlo(ctx, base, automation.MonteCarloConfig{
		Trials:       mcTrials,
		Perturbation: mcPerturbation,
		Seed:         mcSeed,
		Limit:        mcJobs,
	})
	if err != nil {
		return err
	}

	broken, mean, peak := automation.MonteCarloStats(results)
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintf(w, "trials\t%d\n", len(results))
	fmt.Fprintf(w, "broken\t%d (%.1f%%)\n", broken, 100*float64(broken)/float64(len(results)))
	fmt.Fprintf(w, "mean peak tension\t%.3f N\n", mean)
	fmt.Fprintf(w, "max peak tension\t%.3f N\n", peak)
	return w.Flush()
}
