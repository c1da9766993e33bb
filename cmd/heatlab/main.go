package main

import (
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strconv"
	"text/tabwriter"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/guptarohit/asciigraph"
	"github.com/spf13/cobra"

	"github.com/san-kum/heatlab/internal/analysis"
	"github.com/san-kum/heatlab/internal/config"
	"github.com/san-kum/heatlab/internal/engine"
	"github.com/san-kum/heatlab/internal/export"
	"github.com/san-kum/heatlab/internal/scheme"
	"github.com/san-kum/heatlab/internal/storage"
	"github.com/san-kum/heatlab/internal/viz"
)

var (
	dataDir    string
	dimFlag    string
	method     string
	nx         int
	dtFlag     float64
	tmaxFlag   float64
	alphaFlag  float64
	lengthFlag float64
	speed      int
	fps        int
	configFile string
	preset     string
	outPath    string
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "heatlab",
		Short: "finite-difference heat equation lab",
		RunE: func(cmd *cobra.Command, args []string) error {
			// Default to the live view with default parameters.
			return runLive(cmd, args)
		},
	}

	rootCmd.PersistentFlags().StringVar(&dataDir, "data", ".heatlab", "data directory")

	runCmd := &cobra.Command{
		Use:   "run",
		Short: "run a simulation to tmax and save the results",
		RunE:  runSimulation,
	}
	addSessionFlags(runCmd)

	liveCmd := &cobra.Command{
		Use:   "live",
		Short: "run a simulation with live terminal visualization",
		RunE:  runLive,
	}
	addSessionFlags(liveCmd)

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "list saved runs",
		RunE:  listRuns,
	}

	plotCmd := &cobra.Command{
		Use:   "plot [run_id]",
		Short: "plot the error history of a saved run",
		Args:  cobra.ExactArgs(1),
		RunE:  plotRun,
	}

	renderCmd := &cobra.Command{
		Use:   "render [run_id]",
		Short: "render the final field of a saved run to PNG",
		Args:  cobra.ExactArgs(1),
		RunE:  renderRun,
	}
	renderCmd.Flags().StringVar(&outPath, "out", "", "output png path (default <run_id>.png)")

	exportCmd := &cobra.Command{
		Use:   "export [run_id]",
		Short: "export run metadata as json",
		Args:  cobra.ExactArgs(1),
		RunE:  exportRun,
	}

	exportCSVCmd := &cobra.Command{
		Use:   "export-csv [run_id]",
		Short: "export the diagnostics series of a run to CSV",
		Args:  cobra.ExactArgs(1),
		RunE:  exportCSV,
	}

	compareCmd := &cobra.Command{
		Use:   "compare",
		Short: "run every method on the same parameters and compare errors",
		RunE:  compareMethods,
	}
	addSessionFlags(compareCmd)

	analyzeCmd := &cobra.Command{
		Use:   "analyze",
		Short: "measure observed orders of accuracy in time and space",
		RunE:  analyzeOrders,
	}
	addSessionFlags(analyzeCmd)

	benchCmd := &cobra.Command{
		Use:   "bench",
		Short: "benchmark stepping throughput across grid sizes",
		RunE:  benchGrids,
	}
	addSessionFlags(benchCmd)

	presetsCmd := &cobra.Command{
		Use:   "presets [dim]",
		Short: "list available presets for a dimensionality",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			presets := config.ListPresets(args[0])
			if len(presets) == 0 {
				fmt.Printf("no presets for dimension: %s\n", args[0])
				return nil
			}
			fmt.Printf("presets for %s:\n", args[0])
			for _, p := range presets {
				fmt.Printf("  %s\n", p)
			}
			return nil
		},
	}

	rootCmd.AddCommand(runCmd, liveCmd, listCmd, plotCmd, renderCmd, exportCmd, exportCSVCmd, compareCmd, analyzeCmd, benchCmd, presetsCmd)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func addSessionFlags(cmd *cobra.Command) {
	cmd.Flags().StringVar(&dimFlag, "dim", "1d", "dimensionality (1d or 2d)")
	cmd.Flags().StringVar(&method, "method", "explicit", "method (explicit, implicit, crank-nicolson)")
	cmd.Flags().IntVar(&nx, "nx", config.DefaultNx, "grid points per axis")
	cmd.Flags().Float64Var(&dtFlag, "dt", config.DefaultDt, "time step")
	cmd.Flags().Float64Var(&tmaxFlag, "time", config.DefaultTmax, "maximum simulation time")
	cmd.Flags().Float64Var(&alphaFlag, "alpha", config.DefaultAlpha, "diffusivity")
	cmd.Flags().Float64Var(&lengthFlag, "length", config.DefaultLength, "domain length (1d only)")
	cmd.Flags().IntVar(&speed, "speed", config.DefaultSpeed, "engine steps per animation tick")
	cmd.Flags().IntVar(&fps, "fps", config.DefaultFPS, "frame rate for live view")
	cmd.Flags().StringVar(&configFile, "config", "", "config file path (yaml)")
	cmd.Flags().StringVar(&preset, "preset", "", "use preset configuration")
}

// resolveConfig merges defaults, preset, config file and changed CLI flags,
// in that order of increasing precedence.
func resolveConfig(cmd *cobra.Command) (*config.Config, error) {
	cfg := config.DefaultConfig()

	if preset != "" {
		p := config.GetPreset(dimFlag, preset)
		if p == nil {
			return nil, fmt.Errorf("unknown preset: %s (available: %v)", preset, config.ListPresets(dimFlag))
		}
		tmp := *p
		cfg = &tmp
	}

	if configFile != "" {
		loaded, err := config.Load(configFile)
		if err != nil {
			return nil, fmt.Errorf("failed to load config: %w", err)
		}
		cfg = loaded
	}

	f := cmd.Flags()
	if f.Changed("dim") {
		cfg.Dim = dimFlag
	}
	if f.Changed("method") {
		cfg.Method = method
	}
	if f.Changed("nx") {
		cfg.Nx = nx
	}
	if f.Changed("dt") {
		cfg.Dt = dtFlag
	}
	if f.Changed("time") {
		cfg.Tmax = tmaxFlag
	}
	if f.Changed("alpha") {
		cfg.Alpha = alphaFlag
	}
	if f.Changed("length") {
		cfg.Length = lengthFlag
	}
	if f.Changed("speed") {
		cfg.Speed = speed
	}
	if f.Changed("fps") {
		cfg.FPS = fps
	}
	return cfg, nil
}

func newSession(cfg *config.Config) (*engine.Engine, error) {
	eng := engine.New()
	if err := eng.Configure(cfg.Params()); err != nil {
		return nil, err
	}
	if err := eng.Reset(); err != nil {
		return nil, err
	}
	return eng, nil
}

// drive steps the engine to completion, sampling diagnostics along the
// way. Degenerate-pivot fallbacks are reported and stepped past.
func drive(eng *engine.Engine, samples int) ([]engine.Diagnostics, error) {
	p := eng.Params()
	totalSteps := int(p.Tmax/p.Dt) + 1
	sampleEvery := totalSteps / samples
	if sampleEvery < 1 {
		sampleEvery = 1
	}

	series := []engine.Diagnostics{eng.Diagnostics()}
	for !eng.Completed() {
		if err := eng.Step(); err != nil {
			if engine.IsSolverFailure(err) {
				fmt.Fprintf(os.Stderr, "warning: %v\n", err)
			} else {
				return series, err
			}
		}
		if d := eng.Diagnostics(); d.Steps%sampleEvery == 0 {
			series = append(series, d)
		}
	}
	if final := eng.Diagnostics(); series[len(series)-1].Steps != final.Steps {
		series = append(series, final)
	}
	return series, nil
}

func runSimulation(cmd *cobra.Command, args []string) error {
	cfg, err := resolveConfig(cmd)
	if err != nil {
		return err
	}

	st := storage.New(dataDir)
	if err := st.Init(); err != nil {
		return err
	}

	eng, err := newSession(cfg)
	if err != nil {
		return err
	}

	fmt.Printf("running %s %s simulation...\n", cfg.Dim, cfg.Method)
	start := time.Now()
	series, err := drive(eng, 200)
	if err != nil {
		return err
	}
	elapsed := time.Since(start)

	final := eng.Diagnostics()
	runID, err := st.Save(eng.Params(), eng.Grid(), eng.Field(), eng.Exact(), final, series)
	if err != nil {
		return err
	}

	fmt.Printf("completed in %v\n", elapsed)
	fmt.Printf("run id: %s\n\n", runID)

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintf(w, "steps\t%d\n", final.Steps)
	fmt.Fprintf(w, "diffusion number\t%.4f\n", final.DiffusionNumber)
	fmt.Fprintf(w, "l2 error\t%.6e\n", final.L2Error)
	fmt.Fprintf(w, "max error\t%.6e\n", final.MaxError)
	if cfg.Dim == "2d" {
		fmt.Fprintf(w, "max rel error\t%.3f%%\n", final.MaxRelError)
	}
	fmt.Fprintf(w, "op estimate\t%.3e\n", final.CostEstimate)
	fmt.Fprintf(w, "diverged\t%v\n", final.Diverged)
	if final.SolverFailures > 0 {
		fmt.Fprintf(w, "solver fallbacks\t%d\n", final.SolverFailures)
	}
	return w.Flush()
}

func runLive(cmd *cobra.Command, args []string) error {
	cfg, err := resolveConfig(cmd)
	if err != nil {
		return err
	}
	eng, err := newSession(cfg)
	if err != nil {
		return err
	}

	m := viz.NewModel(eng, cfg.Speed, cfg.FPS)
	p := tea.NewProgram(m)
	_, err = p.Run()
	return err
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
	fmt.Fprintln(w, "ID\tDIM\tMETHOD\tNX\tDT\tR\tL2\tDIVERGED")
	for _, run := range runs {
		fmt.Fprintf(w, "%s\t%s\t%s\t%d\t%.5f\t%.3f\t%.3e\t%v\n",
			run.ID, run.Dim, run.Method, run.Nx, run.Dt, run.DiffusionNumber, run.L2Error, run.Diverged)
	}
	return w.Flush()
}

func plotRun(cmd *cobra.Command, args []string) error {
	runID := args[0]

	st := storage.New(dataDir)
	meta, err := st.Load(runID)
	if err != nil {
		return err
	}
	series, err := st.LoadSeries(runID)
	if err != nil {
		return err
	}
	if len(series.T) == 0 {
		return errors.New("no data to plot")
	}

	fmt.Printf("run: %s\n", meta.ID)
	fmt.Printf("%s %s, nx=%d, dt=%.5f, r=%.3f\n\n", meta.Dim, meta.Method, meta.Nx, meta.Dt, meta.DiffusionNumber)

	graph := asciigraph.Plot(series.L2Error,
		asciigraph.Height(10),
		asciigraph.Width(80),
		asciigraph.Caption("l2 error vs time"),
	)
	fmt.Println(graph)
	fmt.Println()

	graph = asciigraph.Plot(series.MaxError,
		asciigraph.Height(10),
		asciigraph.Width(80),
		asciigraph.Caption("max error vs time"),
	)
	fmt.Println(graph)
	return nil
}

func renderRun(cmd *cobra.Command, args []string) error {
	runID := args[0]

	st := storage.New(dataDir)
	snap, err := st.LoadField(runID)
	if err != nil {
		return err
	}

	path := outPath
	if path == "" {
		path = runID + ".png"
	}

	if snap.Ny > 1 {
		err = export.Heatmap(path, snap)
	} else {
		err = export.Profile(path, snap)
	}
	if err != nil {
		return err
	}
	fmt.Printf("wrote %s\n", path)
	return nil
}

func exportRun(cmd *cobra.Command, args []string) error {
	st := storage.New(dataDir)
	meta, err := st.Load(args[0])
	if err != nil {
		return err
	}
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(meta)
}

func exportCSV(cmd *cobra.Command, args []string) error {
	st := storage.New(dataDir)
	series, err := st.LoadSeries(args[0])
	if err != nil {
		return err
	}

	w := csv.NewWriter(os.Stdout)
	defer w.Flush()

	if err := w.Write([]string{"time", "l2_error", "max_error", "cost"}); err != nil {
		return err
	}
	for i := range series.T {
		row := []string{
			strconv.FormatFloat(series.T[i], 'f', 6, 64),
			strconv.FormatFloat(series.L2Error[i], 'g', -1, 64),
			strconv.FormatFloat(series.MaxError[i], 'g', -1, 64),
			strconv.FormatFloat(series.Cost[i], 'f', 0, 64),
		}
		if err := w.Write(row); err != nil {
			return err
		}
	}
	return nil
}

func compareMethods(cmd *cobra.Command, args []string) error {
	cfg, err := resolveConfig(cmd)
	if err != nil {
		return err
	}

	fmt.Printf("comparing methods, %s nx=%d dt=%.5f tmax=%.2f\n\n", cfg.Dim, cfg.Nx, cfg.Dt, cfg.Tmax)
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "METHOD\tL2\tMAX\tOPS\tTIME_MS\tDIVERGED")

	for _, name := range scheme.Names() {
		cfg.Method = name
		eng, err := newSession(cfg)
		if err != nil {
			return err
		}

		start := time.Now()
		if _, err := drive(eng, 1); err != nil {
			fmt.Fprintf(w, "%s\terror: %v\n", name, err)
			continue
		}
		elapsed := time.Since(start)

		d := eng.Diagnostics()
		fmt.Fprintf(w, "%s\t%.3e\t%.3e\t%.2e\t%.2f\t%v\n",
			name, d.L2Error, d.MaxError, d.CostEstimate, float64(elapsed.Microseconds())/1000, d.Diverged)
	}
	return w.Flush()
}

func analyzeOrders(cmd *cobra.Command, args []string) error {
	cfg, err := resolveConfig(cmd)
	if err != nil {
		return err
	}
	p := cfg.Params()

	dts := []float64{8 * p.Dt, 4 * p.Dt, 2 * p.Dt, p.Dt}
	temporal, err := analysis.TemporalOrder(p, dts)
	if err != nil {
		return err
	}

	fmt.Printf("%s %s, nx=%d\n\n", p.Dim, p.Method, p.Nx)
	fmt.Println("temporal refinement (error vs fine-step reference):")
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "DT\tL2\tORDER")
	for i, pt := range temporal {
		if i == 0 {
			fmt.Fprintf(w, "%.5f\t%.3e\t-\n", pt.H, pt.L2Error)
			continue
		}
		fmt.Fprintf(w, "%.5f\t%.3e\t%.2f\n", pt.H, pt.L2Error, pt.Order)
	}
	if err := w.Flush(); err != nil {
		return err
	}

	spatial, err := analysis.SpatialOrder(p, []int{11, 21, 41, 81})
	if err != nil {
		return err
	}

	fmt.Println("\nspatial refinement (error vs analytical solution):")
	w = tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "DX\tL2\tORDER")
	for i, pt := range spatial {
		if i == 0 {
			fmt.Fprintf(w, "%.5f\t%.3e\t-\n", pt.H, pt.L2Error)
			continue
		}
		fmt.Fprintf(w, "%.5f\t%.3e\t%.2f\n", pt.H, pt.L2Error, pt.Order)
	}
	return w.Flush()
}

func benchGrids(cmd *cobra.Command, args []string) error {
	cfg, err := resolveConfig(cmd)
	if err != nil {
		return err
	}

	sizes := []int{41, 81, 161}
	fmt.Printf("benchmarking %s %s\n\n", cfg.Dim, cfg.Method)
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "NX\tPOINTS\tSTEPS\tTIME\tSTEPS/SEC")

	for _, n := range sizes {
		cfg.Nx = n
		eng, err := newSession(cfg)
		if err != nil {
			return err
		}

		start := time.Now()
		if _, err := drive(eng, 1); err != nil {
			return err
		}
		elapsed := time.Since(start)

		d := eng.Diagnostics()
		stepsPerSec := float64(d.Steps) / elapsed.Seconds()
		fmt.Fprintf(w, "%d\t%d\t%d\t%v\t%.0f\n", n, eng.Grid().Points(), d.Steps, elapsed, stepsPerSec)
	}
	return w.Flush()
}
