package main

import (
	"fmt"
	"math"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/guptarohit/asciigraph"
	"github.com/spf13/cobra"

	"github.com/san-kum/pulleysim/internal/analysis"
	"github.com/san-kum/pulleysim/internal/config"
	"github.com/san-kum/pulleysim/internal/export"
	"github.com/san-kum/pulleysim/internal/mechanics"
	"github.com/san-kum/pulleysim/internal/sim"
	"github.com/san-kum/pulleysim/internal/storage"
)

const maxPlots = 6

var (
	plotChannels []string
	svgOut       string
	svgWidth     int
	svgHeight    int
	svgAt        float64
)

// newRunCommands returns the commands that inspect stored runs.
func newRunCommands() []*cobra.Command {
	listCmd := &cobra.Command{
		Use:   "list",
		Short: "list runs",
		RunE:  listRuns,
	}

	plotCmd := &cobra.Command{
		Use:   "plot [run_id]",
		Short: "plot run channels",
		Args:  cobra.ExactArgs(1),
		RunE:  plotRun,
	}
	plotCmd.Flags().StringSliceVar(&plotChannels, "channel", nil, "channels to plot (default: first six)")

	exportCSVCmd := &cobra.Command{
		Use:   "export-csv [run_id]",
		Short: "export run data to CSV",
		Args:  cobra.ExactArgs(1),
		RunE:  exportCSV,
	}

	exportJSONCmd := &cobra.Command{
		Use:   "export-json [run_id]",
		Short: "export run data to JSON",
		Args:  cobra.ExactArgs(1),
		RunE:  exportJSON,
	}

	exportSVGCmd := &cobra.Command{
		Use:   "export-svg [preset]",
		Short: "draw a sandbox preset as SVG",
		Args:  cobra.ExactArgs(1),
		RunE:  exportSVG,
	}
	exportSVGCmd.Flags().StringVarP(&svgOut, "out", "o", "", "output file (default stdout)")
	exportSVGCmd.Flags().IntVar(&svgWidth, "width", 800, "image width")
	exportSVGCmd.Flags().IntVar(&svgHeight, "height", 600, "image height")
	exportSVGCmd.Flags().Float64Var(&svgAt, "at", 0, "simulate this many seconds before drawing")

	analyzeCmd := &cobra.Command{
		Use:   "analyze [run_id]",
		Short: "frequency and phase analysis",
		Args:  cobra.ExactArgs(1),
		RunE:  analyzeRun,
	}

	return []*cobra.Command{listCmd, plotCmd, exportCSVCmd, exportJSONCmd, exportSVGCmd, analyzeCmd}
}

func listRuns(cmd *cobra.Command, args []string) error {
	st := storage.New(dataDir)
	runs, err := st.List()
	if err != nil {
		return err
	}

	if len(runs) == 0 {
		fmt.Println("no runs found")
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tSCENARIO\tPRESET\tMODE\tTIME\tDURATION\tDT\tBROKEN\tHASH")

	for _, run := range runs {
		broken := "-"
		if run.BrokenAt >= 0 {
			broken = fmt.Sprintf("%.2fs", run.BrokenAt)
		}
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t%.2fs\t%.4fs\t%s\t%s\n",
			run.ID,
			run.Scenario,
			orDash(run.Preset),
			run.Mode,
			run.Timestamp.Format("2006-01-02 15:04:05"),
			run.Duration,
			run.Dt,
			broken,
			run.ConfigHash[:min(8, len(run.ConfigHash))],
		)
	}

	return w.Flush()
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}

func plotRun(cmd *cobra.Command, args []string) error {
	meta, result, err := storage.New(dataDir).LoadResult(args[0])
	if err != nil {
		return err
	}
	if len(result.States) == 0 {
		return fmt.Errorf("no data to plot")
	}

	fmt.Printf("run: %s\n", meta.ID)
	fmt.Printf("scenario: %s (%s)\n", meta.Scenario, meta.Mode)
	fmt.Printf("samples: %d\n\n", len(result.States))

	channels := plotChannels
	if len(channels) == 0 {
		for _, l := range result.Labels {
			if l == "time" || l == "broken" {
				continue
			}
			channels = append(channels, l)
			if len(channels) == maxPlots {
				break
			}
		}
	}

	for _, ch := range channels {
		data := result.Series(ch)
		if data == nil {
			return fmt.Errorf("unknown channel %q (available: %s)", ch, strings.Join(result.Labels, ", "))
		}
		graph := asciigraph.Plot(data,
			asciigraph.Height(10),
			asciigraph.Width(80),
			asciigraph.Caption(ch+" vs time"),
		)
		fmt.Println(graph)
		fmt.Println()
	}
	return nil
}

func exportCSV(cmd *cobra.Command, args []string) error {
	_, result, err := storage.New(dataDir).LoadResult(args[0])
	if err != nil {
		return err
	}
	return storage.ExportCSV(os.Stdout, result)
}

func exportJSON(cmd *cobra.Command, args []string) error {
	meta, result, err := storage.New(dataDir).LoadResult(args[0])
	if err != nil {
		return err
	}
	return storage.ExportJSON(os.Stdout, *meta, result)
}

func exportSVG(cmd *cobra.Command, args []string) error {
	cfg, err := config.GetPreset(config.ScenarioSandbox, args[0])
	if err != nil {
		return err
	}
	s, err := cfg.SandboxState()
	if err != nil {
		return err
	}
	m, err := cfg.RealityMode()
	if err != nil {
		return err
	}
	for t := 0.0; t < svgAt; t += cfg.Dt {
		s = mechanics.StepSandbox(s, cfg.Dt, m)
	}

	svg := export.SandboxSVG(s, svgWidth, svgHeight)
	if svgOut == "" {
		_, err := fmt.Println(svg)
		return err
	}
	if err := os.WriteFile(svgOut, []byte(svg), 0644); err != nil {
		return err
	}
	logger.Sugar().Infof("wrote %s", svgOut)
	return nil
}

// analysisChannels picks the position and velocity channels to analyse:
// the rope feed for an Atwood machine, the sideways sway of the first load
// for a sandbox.
func analysisChannels(r *sim.Result) (pos, vel []float64, label string) {
	if y := r.Series("y1"); y != nil {
		return y, r.Series("velocity"), "y1"
	}
	for _, l := range r.Labels {
		if strings.HasSuffix(l, ".x") {
			x := r.Series(l)
			return x, analysis.Velocity(x, r.Times), l
		}
	}
	return r.Series("load_position"), r.Series("load_velocity"), "load_position"
}

func analyzeRun(cmd *cobra.Command, args []string) error {
	meta, result, err := storage.New(dataDir).LoadResult(args[0])
	if err != nil {
		return err
	}
	pos, vel, label := analysisChannels(result)
	if len(pos) < 4 {
		return fmt.Errorf("not enough samples to analyze")
	}

	rate := meta.SampleRate
	if rate <= 0 {
		rate = config.DefaultSampleRate
	}
	freq := analysis.DominantFrequency(pos, rate)

	fmt.Printf("run: %s\n", meta.ID)
	fmt.Printf("channel: %s\n", label)
	if freq > 0 && !math.IsInf(freq, 0) {
		fmt.Printf("dominant frequency: %.4f Hz (period %.3fs)\n", freq, 1/freq)
	} else {
		fmt.Println("dominant frequency: none")
	}

	portrait := &analysis.PhasePortrait{XLabel: label, YLabel: "velocity", Points: make([]analysis.Point, len(pos))}
	for i := range pos {
		v := 0.0
		if i < len(vel) {
			v = vel[i]
		}
		portrait.Points[i] = analysis.Point{X: pos[i], Y: v}
	}
	fmt.Printf("\nphase portrait (%s vs velocity):\n", label)
	fmt.Println(portrait.ASCII(60, 20))
	return nil
}
