package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"sort"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/san-kum/pulleysim/internal/config"
	"github.com/san-kum/pulleysim/internal/experiment"
	"github.com/san-kum/pulleysim/internal/logging"
	"github.com/san-kum/pulleysim/internal/storage"
	"github.com/san-kum/pulleysim/internal/viz"
)

var (
	dataDir  string
	logLevel string
	logger   = logging.Nop()

	configFile string
	preset     string
	dt         float64
	duration   float64
	mode       string
	hold       bool
	target     float64
	theme      string
)

// main registers the commands and exits with status 1 if the selected
// command returns an error.
func main() {
	rootCmd := &cobra.Command{
		Use:           "pulleysim",
		Short:         "rope and pulley physics lab",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			l, err := logging.New(logLevel)
			if err != nil {
				return err
			}
			logger = l
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
	}

	rootCmd.PersistentFlags().StringVar(&dataDir, "data", ".pulleysim", "data directory")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "info", "log level (debug, info, warn, error)")

	runCmd := &cobra.Command{
		Use:       "run [atwood|sandbox]",
		Short:     "run a simulation and store the result",
		Args:      cobra.ExactArgs(1),
		ValidArgs: config.Scenarios(),
		RunE:      runSimulation,
	}
	addSetupFlags(runCmd)
	runCmd.Flags().BoolVar(&hold, "hold", false, "let a PID hand hold the sandbox load")
	runCmd.Flags().Float64Var(&target, "target", 0, "hold target height (px)")

	liveCmd := &cobra.Command{
		Use:       "live [atwood|sandbox]",
		Short:     "run a simulation in the terminal",
		Args:      cobra.ExactArgs(1),
		ValidArgs: config.Scenarios(),
		RunE:      runLive,
	}
	addSetupFlags(liveCmd)
	liveCmd.Flags().StringVar(&theme, "theme", viz.ThemeNames()[0], "color theme")

	presetsCmd := &cobra.Command{
		Use:   "presets [scenario]",
		Short: "list available presets",
		Args:  cobra.MaximumNArgs(1),
		RunE:  listPresets,
	}

	rootCmd.AddCommand(runCmd, liveCmd, presetsCmd, newSweepCmd())
	rootCmd.AddCommand(newRunCommands()...)
	rootCmd.AddCommand(newScriptCmds()...)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		_ = logger.Sync()
		os.Exit(1)
	}
	_ = logger.Sync()
}

func addSetupFlags(cmd *cobra.Command) {
	cmd.Flags().StringVar(&configFile, "config", "", "config file path (yaml)")
	cmd.Flags().StringVar(&preset, "preset", "", "use preset configuration")
	cmd.Flags().Float64Var(&dt, "dt", config.DefaultDt, "timestep (s)")
	cmd.Flags().Float64Var(&duration, "time", config.DefaultDuration, "duration (s)")
	cmd.Flags().StringVar(&mode, "mode", "ideal", "reality mode (ideal, real)")
}

// resolveConfig picks the config file, then the preset, then the scenario
// default, and applies any flags the user set on top.
func resolveConfig(cmd *cobra.Command, scenario string) (*config.Config, error) {
	var cfg *config.Config
	switch {
	case configFile != "":
		c, err := config.Load(configFile)
		if err != nil {
			return nil, fmt.Errorf("failed to load config: %w", err)
		}
		if c.Scenario == "" {
			c.Scenario = scenario
		}
		if c.Scenario != scenario {
			return nil, fmt.Errorf("%w: config is %q, command asked for %q", config.ErrUnknownScenario, c.Scenario, scenario)
		}
		cfg = c
	case preset != "":
		c, err := config.GetPreset(scenario, preset)
		if err != nil {
			return nil, err
		}
		cfg = c
	default:
		c, err := defaultConfig(scenario)
		if err != nil {
			return nil, err
		}
		cfg = c
	}

	flags := cmd.Flags()
	if flags.Changed("dt") {
		cfg.Dt = dt
	}
	if flags.Changed("time") {
		cfg.Duration = duration
	}
	if flags.Changed("mode") {
		cfg.Mode = mode
	}
	if flags.Lookup("hold") != nil && flags.Changed("hold") {
		cfg.Hold.Enabled = hold
	}
	if flags.Lookup("target") != nil && flags.Changed("target") {
		cfg.Hold.Target = target
	}
	return cfg, nil
}

func defaultConfig(scenario string) (*config.Config, error) {
	switch scenario {
	case config.ScenarioAtwood:
		return config.DefaultConfig(), nil
	case config.ScenarioSandbox:
		return config.GetPreset(config.ScenarioSandbox, "single-movable")
	default:
		return nil, fmt.Errorf("%w: %q (available: %v)", config.ErrUnknownScenario, scenario, config.Scenarios())
	}
}

func runSimulation(cmd *cobra.Command, args []string) error {
	scenario := args[0]
	cfg, err := resolveConfig(cmd, scenario)
	if err != nil {
		return err
	}

	st := storage.New(dataDir).WithLogger(logger)
	if err := st.Init(); err != nil {
		return err
	}

	exp, err := experiment.New(cfg)
	if err != nil {
		return err
	}
	exp.SetLogger(logger)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	logger.Info("running simulation",
		zap.String("scenario", scenario),
		zap.String("preset", preset),
		zap.String("mode", cfg.Mode),
		zap.Float64("dt", cfg.Dt),
		zap.Float64("duration", cfg.Duration))
	start := time.Now()

	result, err := exp.Run(ctx)
	if err != nil {
		return err
	}
	elapsed := time.Since(start)

	runID, err := st.Save(cfg, preset, result)
	if err != nil {
		return err
	}

	fmt.Printf("completed in %v\n", elapsed)
	fmt.Printf("run id: %s\n", runID)
	fmt.Printf("steps: %d\n", result.StepsTaken)
	if result.BrokenAt >= 0 {
		fmt.Printf("rope broke at: %.3fs\n", result.BrokenAt)
	}
	fmt.Println("\nmetrics:")
	printMetrics(result.Metrics)
	return nil
}

func printMetrics(m map[string]float64) {
	names := make([]string, 0, len(m))
	for name := range m {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		fmt.Printf("  %s: %.6f\n", name, m[name])
	}
}

func runLive(cmd *cobra.Command, args []string) error {
	cfg, err := resolveConfig(cmd, args[0])
	if err != nil {
		return err
	}
	exp, err := experiment.New(cfg)
	if err != nil {
		return err
	}
	m, err := cfg.RealityMode()
	if err != nil {
		return err
	}

	model := viz.NewModel(exp.Machine, viz.Options{
		Name:       args[0],
		Mode:       m,
		SampleRate: cfg.SampleRate,
		Theme:      theme,
	})
	_, err = tea.NewProgram(model, tea.WithAltScreen()).Run()
	return err
}

func listPresets(cmd *cobra.Command, args []string) error {
	scenarios := config.Scenarios()
	if len(args) == 1 {
		scenarios = args[:1]
	}
	for _, s := range scenarios {
		presets := config.ListPresets(s)
		if len(presets) == 0 {
			fmt.Printf("no presets for scenario: %s\n", s)
			continue
		}
		fmt.Printf("presets for %s:\n", s)
		for _, p := range presets {
			fmt.Printf("  %s\n", p)
		}
	}
	return nil
}
