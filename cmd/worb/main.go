package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/guptarohit/asciigraph"
	"github.com/spf13/cobra"

	"github.com/san-kum/worb/internal/config"
	"github.com/san-kum/worb/internal/export"
	"github.com/san-kum/worb/internal/metrics"
	"github.com/san-kum/worb/internal/optim"
	"github.com/san-kum/worb/internal/sim"
	"github.com/san-kum/worb/internal/storage"
	"github.com/san-kum/worb/internal/viz"
	"github.com/san-kum/worb/internal/world"
)

var (
	dataDir    string
	configFile string
	dt         float64
	duration   float64
	frameRate  int
	column     string
	outFile    string
	numRuns    int
	metricName string
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "worb",
		Short: "world of rigid bodies simulator",
	}

	rootCmd.PersistentFlags().StringVar(&dataDir, "data", ".worb", "data directory")

	runCmd := &cobra.Command{
		Use:   "run [preset]",
		Short: "run a simulation and store the result",
		Args:  cobra.MaximumNArgs(1),
		RunE:  runSimulation,
	}
	runCmd.Flags().Float64Var(&dt, "dt", 0, "timestep (overrides preset)")
	runCmd.Flags().Float64Var(&duration, "time", 0, "duration (overrides preset)")
	runCmd.Flags().StringVar(&configFile, "config", "", "config file path (yaml)")

	liveCmd := &cobra.Command{
		Use:   "live [preset]",
		Short: "run with live terminal visualization",
		Args:  cobra.MaximumNArgs(1),
		RunE:  runLive,
	}
	liveCmd.Flags().Float64Var(&dt, "dt", 0, "timestep (overrides preset)")
	liveCmd.Flags().StringVar(&configFile, "config", "", "config file path (yaml)")
	liveCmd.Flags().IntVar(&frameRate, "fps", 30, "frame rate")

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "list stored runs",
		RunE:  listRuns,
	}

	plotCmd := &cobra.Command{
		Use:   "plot [run_id]",
		Short: "plot a stored run column",
		Args:  cobra.ExactArgs(1),
		RunE:  plotRun,
	}
	plotCmd.Flags().StringVar(&column, "column", "e_kin", "column to plot")

	exportCSVCmd := &cobra.Command{
		Use:   "export-csv [run_id]",
		Short: "write a stored run's states to stdout as CSV",
		Args:  cobra.ExactArgs(1),
		RunE:  exportCSV,
	}

	exportJSONCmd := &cobra.Command{
		Use:   "export-json [preset]",
		Short: "run a simulation and write frames as JSON",
		Args:  cobra.MaximumNArgs(1),
		RunE:  exportJSON,
	}
	exportJSONCmd.Flags().StringVar(&configFile, "config", "", "config file path (yaml)")
	exportJSONCmd.Flags().StringVar(&outFile, "out", "", "output file (default stdout)")

	svgCmd := &cobra.Command{
		Use:   "svg [preset]",
		Short: "run a simulation and render trajectories as SVG",
		Args:  cobra.MaximumNArgs(1),
		RunE:  exportSVG,
	}
	svgCmd.Flags().StringVar(&configFile, "config", "", "config file path (yaml)")
	svgCmd.Flags().StringVar(&outFile, "out", "trajectories.svg", "output file")

	presetsCmd := &cobra.Command{
		Use:   "presets",
		Short: "list built-in scene presets",
		RunE: func(cmd *cobra.Command, args []string) error {
			names := config.ListPresets()
			sort.Strings(names)
			for _, name := range names {
				fmt.Println(name)
			}
			return nil
		},
	}

	benchCmd := &cobra.Command{
		Use:   "bench [preset]",
		Short: "benchmark stepping speed",
		Args:  cobra.MaximumNArgs(1),
		RunE:  benchPreset,
	}
	benchCmd.Flags().IntVar(&numRuns, "runs", 1, "concurrent ensemble runs")

	sweepCmd := &cobra.Command{
		Use:   "sweep [preset]",
		Short: "grid-search restitution and relaxation",
		Args:  cobra.MaximumNArgs(1),
		RunE:  sweepPreset,
	}
	sweepCmd.Flags().StringVar(&metricName, "metric", "max_penetration", "metric to minimize")

	dumpCmd := &cobra.Command{
		Use:   "dump [preset]",
		Short: "step a scene briefly and dump diagnostics",
		Args:  cobra.MaximumNArgs(1),
		RunE:  dumpPreset,
	}
	dumpCmd.Flags().StringVar(&configFile, "config", "", "config file path (yaml)")

	rootCmd.AddCommand(runCmd, liveCmd, listCmd, plotCmd,
		exportCSVCmd, exportJSONCmd, svgCmd, presetsCmd, benchCmd, sweepCmd, dumpCmd)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// loadScene resolves the scene configuration: an explicit config file
// wins over a named preset, the "boxed" preset is the fallback.
func loadScene(args []string) (*config.Config, string, error) {
	if configFile != "" {
		cfg, err := config.Load(configFile)
		if err != nil {
			return nil, "", fmt.Errorf("failed to load config: %w", err)
		}
		return cfg, strings.TrimSuffix(configFile, ".yaml"), nil
	}

	name := "boxed"
	if len(args) > 0 {
		name = args[0]
	}
	cfg := config.GetPreset(name)
	if cfg == nil {
		return nil, "", fmt.Errorf("unknown preset: %s (available: %v)", name, config.ListPresets())
	}
	return cfg, name, nil
}

func sceneRunConfig(cfg *config.Config) sim.Config {
	runCfg := sim.Config{Dt: cfg.Dt, Duration: cfg.Duration}
	if dt > 0 {
		runCfg.Dt = dt
	}
	if duration > 0 {
		runCfg.Duration = duration
	}
	return runCfg
}

func newRunner(w *world.World) *sim.Runner {
	runner := sim.New(w)
	runner.AddMetric(metrics.NewEnergyDrift())
	runner.AddMetric(metrics.NewMomentumDrift())
	runner.AddMetric(metrics.NewMaxPenetration())
	runner.AddMetric(metrics.NewRestingFraction())
	return runner
}

func runSimulation(cmd *cobra.Command, args []string) error {
	cfg, scenario, err := loadScene(args)
	if err != nil {
		return err
	}

	w, err := cfg.Build()
	if err != nil {
		return err
	}

	runCfg := sceneRunConfig(cfg)
	runner := newRunner(w)

	start := time.Now()
	result, err := runner.Run(context.Background(), runCfg)
	if err != nil {
		return err
	}
	elapsed := time.Since(start)

	st := storage.New(dataDir)
	if err := st.Init(); err != nil {
		return err
	}
	runID, err := st.Save(scenario, runCfg, result)
	if err != nil {
		return err
	}

	fmt.Printf("run %s: %d frames in %v\n", runID, len(result.Frames), elapsed)

	names := make([]string, 0, len(result.Metrics))
	for name := range result.Metrics {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		fmt.Printf("  %-18s %.6g\n", name, result.Metrics[name])
	}

	energy := make([]float64, len(result.Frames))
	for i, f := range result.Frames {
		energy[i] = f.KineticEnergy
	}
	fmt.Println()
	fmt.Println(asciigraph.Plot(energy,
		asciigraph.Height(10),
		asciigraph.Width(80),
		asciigraph.Caption("kinetic energy"),
	))
	return nil
}

func runLive(cmd *cobra.Command, args []string) error {
	cfg, _, err := loadScene(args)
	if err != nil {
		return err
	}

	w, err := cfg.Build()
	if err != nil {
		return err
	}

	stepDt := cfg.Dt
	if dt > 0 {
		stepDt = dt
	}

	return viz.Run(w, cfg.Build, stepDt, frameRate)
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

	sort.Slice(runs, func(i, j int) bool { return runs[i].Timestamp.Before(runs[j].Timestamp) })

	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tSCENARIO\tBODIES\tDT\tDURATION\tWHEN")
	for _, run := range runs {
		fmt.Fprintf(w, "%s\t%s\t%d\t%g\t%g\t%s\n",
			run.ID, run.Scenario, run.Bodies, run.Dt, run.Duration,
			run.Timestamp.Format("2006-01-02 15:04:05"))
	}
	return w.Flush()
}

func plotRun(cmd *cobra.Command, args []string) error {
	st := storage.New(dataDir)

	header, times, rows, err := st.LoadStates(args[0])
	if err != nil {
		return err
	}
	if len(rows) == 0 {
		return fmt.Errorf("run %s has no states", args[0])
	}

	col := -1
	for i, name := range header {
		if name == column {
			col = i - 1 // rows exclude the time column
		}
	}
	if col < 0 {
		return fmt.Errorf("unknown column %q (available: %v)", column, header[1:])
	}

	data := make([]float64, 0, len(rows))
	for _, row := range rows {
		if col < len(row) {
			data = append(data, row[col])
		}
	}

	caption := fmt.Sprintf("%s over %.2fs", column, times[len(times)-1])
	graph := asciigraph.Plot(data,
		asciigraph.Height(15),
		asciigraph.Width(80),
		asciigraph.Caption(caption),
	)
	fmt.Println(graph)
	return nil
}

func exportCSV(cmd *cobra.Command, args []string) error {
	path := filepath.Join(dataDir, args[0], "states.csv")
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	_, err = os.Stdout.Write(data)
	return err
}

func exportJSON(cmd *cobra.Command, args []string) error {
	cfg, scenario, err := loadScene(args)
	if err != nil {
		return err
	}

	w, err := cfg.Build()
	if err != nil {
		return err
	}

	runCfg := sceneRunConfig(cfg)
	result, err := newRunner(w).Run(context.Background(), runCfg)
	if err != nil {
		return err
	}

	out := os.Stdout
	if outFile != "" {
		f, err := os.Create(outFile)
		if err != nil {
			return err
		}
		defer f.Close()
		out = f
	}
	return storage.ExportJSON(out, scenario, runCfg, result)
}

func exportSVG(cmd *cobra.Command, args []string) error {
	cfg, _, err := loadScene(args)
	if err != nil {
		return err
	}

	w, err := cfg.Build()
	if err != nil {
		return err
	}

	runCfg := sceneRunConfig(cfg)
	result, err := newRunner(w).Run(context.Background(), runCfg)
	if err != nil {
		return err
	}

	svg := export.TrajectoriesToSVG(result.Frames, 800, 600)
	if svg == "" {
		return fmt.Errorf("nothing to render")
	}
	if err := os.WriteFile(outFile, []byte(svg), 0644); err != nil {
		return err
	}
	fmt.Printf("wrote %s\n", outFile)
	return nil
}

func benchPreset(cmd *cobra.Command, args []string) error {
	cfg, scenario, err := loadScene(args)
	if err != nil {
		return err
	}

	runCfg := sim.Config{Dt: cfg.Dt, Duration: cfg.Duration}

	if numRuns <= 1 {
		w, err := cfg.Build()
		if err != nil {
			return err
		}

		start := time.Now()
		result, err := sim.New(w).Run(context.Background(), runCfg)
		if err != nil {
			return err
		}
		elapsed := time.Since(start)

		steps := len(result.Frames) - 1
		fmt.Printf("%s: %d steps in %v (%.0f steps/s)\n",
			scenario, steps, elapsed, float64(steps)/elapsed.Seconds())
		return nil
	}

	ensemble := sim.NewEnsemble(func(i int) (*world.World, error) {
		return cfg.Build()
	}, numRuns)

	start := time.Now()
	results, err := ensemble.Run(context.Background(), runCfg)
	if err != nil {
		return err
	}
	elapsed := time.Since(start)

	steps := 0
	for _, r := range results {
		steps += len(r.Frames) - 1
	}
	fmt.Printf("%s: %d runs, %d total steps in %v (%.0f steps/s)\n",
		scenario, numRuns, steps, elapsed, float64(steps)/elapsed.Seconds())
	return nil
}

func sweepPreset(cmd *cobra.Command, args []string) error {
	cfg, scenario, err := loadScene(args)
	if err != nil {
		return err
	}

	search := optim.NewGridSearch(
		[]string{"restitution", "relaxation"},
		[][]float64{
			{0.0, 0.2, 0.4, 0.6, 0.8, 1.0},
			{0.0, 0.1, 0.2, 0.4},
		},
	)

	runCfg := sim.Config{Dt: cfg.Dt, Duration: cfg.Duration}

	build := func(params map[string]float64) (*sim.Runner, error) {
		swept := *cfg
		swept.World.Restitution = params["restitution"]
		swept.World.Relaxation = params["relaxation"]

		w, err := swept.Build()
		if err != nil {
			return nil, err
		}
		return newRunner(w), nil
	}

	best, value, err := search.Search(context.Background(), build, runCfg, metricName)
	if err != nil {
		return err
	}

	fmt.Printf("%s: best %s=%.6g with", scenario, metricName, value)
	names := make([]string, 0, len(best))
	for name := range best {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		fmt.Printf(" %s=%g", name, best[name])
	}
	fmt.Println()
	return nil
}

func dumpPreset(cmd *cobra.Command, args []string) error {
	cfg, _, err := loadScene(args)
	if err != nil {
		return err
	}

	w, err := cfg.Build()
	if err != nil {
		return err
	}

	for i := 0; i < 10; i++ {
		if err := w.Step(cfg.Dt); err != nil {
			return err
		}
	}

	w.Dump(os.Stdout)
	return nil
}
