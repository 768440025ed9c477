package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"text/tabwriter"
	"time"

	"github.com/charmbracelet/log"
	"github.com/guptarohit/asciigraph"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/san-kum/orrery/internal/analysis"
	"github.com/san-kum/orrery/internal/body"
	"github.com/san-kum/orrery/internal/config"
	"github.com/san-kum/orrery/internal/driver"
	"github.com/san-kum/orrery/internal/dynamo"
	"github.com/san-kum/orrery/internal/export"
	"github.com/san-kum/orrery/internal/integrators"
	"github.com/san-kum/orrery/internal/metrics"
	"github.com/san-kum/orrery/internal/stream"
	"github.com/san-kum/orrery/internal/sweep"
	"github.com/san-kum/orrery/internal/telemetry"
	"github.com/san-kum/orrery/internal/viz"
	"github.com/spf13/cobra"
	"gonum.org/v1/gonum/spatial/r2"
)

var (
	configFile string
	preset     string
	scheme     string
	remainder  string
	softening  float64
	frameRate  int
	logLevel   string
	runDays    int
	plotDays   int
	svgDays    int
	serveDays  int
	benchDays  int
	sweepDays  int
	workers    int
	schemes    []string
	subSteps   []float64
	jsonOut    string
	svgOut     string
	svgSize    int
	braille    bool
	addr       string
	saveConfig string
)

// brailleCols and brailleRows give a square raster of 160x160 sub-pixels.
const (
	brailleCols = 80
	brailleRows = 40
)

var logger = log.NewWithOptions(os.Stderr, log.Options{
	ReportTimestamp: true,
	TimeFormat:      time.Kitchen,
	Prefix:          "orrery",
})

// main runs the live view when no subcommand is given.
func main() {
	if err := newRootCmd().Execute(); err != nil {
		logger.Error("command failed", "err", err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "orrery",
		Short: "real-time gravitational n-body simulator",
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			level, err := log.ParseLevel(logLevel)
			if err != nil {
				return err
			}
			logger.SetLevel(level)
			return nil
		},
		RunE:         runLive,
		SilenceUsage: true,
	}

	pf := rootCmd.PersistentFlags()
	pf.StringVar(&configFile, "config", "", "config file path (yaml)")
	pf.StringVar(&preset, "preset", config.DefaultPreset, "initial conditions preset")
	pf.StringVar(&scheme, "scheme", integrators.DefaultScheme, "integration scheme")
	pf.StringVar(&remainder, "remainder", integrators.RemainderDrop.String(), "macro-step remainder policy (drop|partial)")
	pf.Float64Var(&softening, "softening", 0, "softening length in meters (0 = exact law)")
	pf.IntVar(&frameRate, "fps", config.DefaultFPS, "frames (macro-steps) per second")
	pf.StringVar(&logLevel, "log-level", "info", "log level (debug|info|warn|error)")
	pf.StringVar(&saveConfig, "save-config", "", "write the effective configuration to this path (yaml)")

	runCmd := &cobra.Command{
		Use:   "run",
		Short: "run headless and print the final state",
		RunE:  runHeadless,
	}
	runCmd.Flags().IntVar(&runDays, "days", 365, "macro-steps to simulate")
	runCmd.Flags().StringVar(&jsonOut, "json", "", "write a JSON trace to this path (- for stdout)")

	bodiesCmd := &cobra.Command{
		Use:   "bodies",
		Short: "list the bodies of the configured system",
		RunE:  listBodies,
	}

	plotCmd := &cobra.Command{
		Use:   "plot [body]",
		Short: "plot orbital radius and energy drift",
		Args:  cobra.MaximumNArgs(1),
		RunE:  plotOrbit,
	}
	plotCmd.Flags().IntVar(&plotDays, "days", 365, "macro-steps to simulate")

	svgCmd := &cobra.Command{
		Use:   "svg",
		Short: "render the system after some days to an SVG file",
		RunE:  renderSVG,
	}
	svgCmd.Flags().IntVar(&svgDays, "days", 365, "macro-steps to simulate")
	svgCmd.Flags().StringVarP(&svgOut, "out", "o", "orrery.svg", "output file")
	svgCmd.Flags().IntVar(&svgSize, "size", 900, "image width and height in pixels")
	svgCmd.Flags().BoolVar(&braille, "braille", false, "render the terminal view's braille raster instead of vector shapes")

	serveCmd := &cobra.Command{
		Use:   "serve",
		Short: "stream frames to browsers and expose prometheus metrics",
		RunE:  serve,
	}
	serveCmd.Flags().StringVar(&addr, "addr", ":8080", "listen address")
	serveCmd.Flags().IntVar(&serveDays, "days", 0, "stop after this many macro-steps (0 = forever)")

	presetsCmd := &cobra.Command{
		Use:   "presets",
		Short: "list available presets",
		RunE: func(cmd *cobra.Command, args []string) error {
			fmt.Println("presets:")
			for _, p := range config.ListPresets() {
				fmt.Printf("  %-8s %d bodies\n", p, len(config.GetPreset(p)))
			}
			fmt.Println("\nschemes:")
			for _, s := range integrators.Schemes() {
				fmt.Printf("  %s\n", s)
			}
			return nil
		},
	}

	benchCmd := &cobra.Command{
		Use:   "bench",
		Short: "benchmark every integration scheme",
		RunE:  benchSchemes,
	}
	benchCmd.Flags().IntVar(&benchDays, "days", 10, "macro-steps per scheme")

	sweepCmd := &cobra.Command{
		Use:   "sweep [grid.yaml]",
		Short: "compare integration settings side by side",
		Args:  cobra.MaximumNArgs(1),
		RunE:  runSweep,
	}
	sweepCmd.Flags().IntVar(&sweepDays, "days", 30, "macro-steps per variant")
	sweepCmd.Flags().IntVar(&workers, "workers", 0, "variants simulated concurrently (0 = one per CPU)")
	sweepCmd.Flags().StringSliceVar(&schemes, "schemes", nil, "schemes to compare")
	sweepCmd.Flags().Float64SliceVar(&subSteps, "sub-steps", nil, "sub-step lengths to compare, in seconds")

	rootCmd.AddCommand(runCmd, bodiesCmd, plotCmd, svgCmd, serveCmd, presetsCmd, benchCmd, sweepCmd)
	return rootCmd
}

// loadConfig reads the config file when given and lets explicitly set flags
// override it.
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	cfg := config.DefaultConfig()
	if configFile != "" {
		loaded, err := config.Load(configFile)
		if err != nil {
			return nil, fmt.Errorf("failed to load config: %w", err)
		}
		cfg = loaded
		logger.Debug("loaded config", "path", configFile)
	}

	flags := cmd.Flags()
	if flags.Changed("preset") {
		cfg.Preset = preset
		cfg.Bodies = nil
	}
	if flags.Changed("scheme") {
		cfg.Scheme = scheme
	}
	if flags.Changed("remainder") {
		cfg.Remainder = remainder
	}
	if flags.Changed("softening") {
		cfg.Softening = softening
	}
	if flags.Changed("fps") {
		cfg.FPS = frameRate
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	if saveConfig != "" {
		if err := config.Save(saveConfig, cfg); err != nil {
			return nil, fmt.Errorf("failed to save config: %w", err)
		}
		logger.Info("saved config", "path", saveConfig)
	}
	return cfg, nil
}

// build creates a fresh registry and integrator from cfg.
func build(cfg *config.Config) (*body.Registry, *integrators.Integrator, error) {
	reg, integ, err := cfg.Build()
	if err != nil {
		return nil, nil, err
	}

	ic := integ.Config()
	steps, rem := ic.Plan()
	logger.Debug("integrator ready",
		"scheme", integ.Scheme().Name(),
		"bodies", reg.Len(),
		"sub_steps", steps,
		"remainder", ic.Remainder,
		"leftover", rem,
	)
	if rem > 0 && ic.Remainder == integrators.RemainderDrop {
		logger.Warn("macro-step is not a multiple of the sub-step, leftover time is dropped",
			"macro_step", ic.MacroStep, "sub_step", ic.SubStep, "dropped", rem)
	}

	return reg, integ, nil
}

func presetName(cfg *config.Config) string {
	if len(cfg.Bodies) > 0 {
		return "custom"
	}
	return cfg.Preset
}

func runLive(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	reg, integ, err := build(cfg)
	if err != nil {
		return err
	}

	m := viz.NewModel(reg, integ, viz.Options{
		Title:      presetName(cfg),
		HalfExtent: cfg.HalfExtent,
		FPS:        cfg.FPS,
		Trail:      cfg.Trail,
	})
	return viz.Run(m)
}

func runHeadless(cmd *cobra.Command, args []string) error {
	if runDays <= 0 {
		return fmt.Errorf("--days must be positive, got %d", runDays)
	}
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	reg, integ, err := build(cfg)
	if err != nil {
		return err
	}

	drift := metrics.NewEnergyDrift(integ.Config().Params)
	drift.Observe(reg.Snapshot())
	containment := metrics.NewContainment(cfg.HalfExtent)
	integ.AddObserver(drift)
	integ.AddObserver(containment)

	var trace *stream.Trace
	if jsonOut != "" {
		ic := integ.Config()
		trace = &stream.Trace{
			Preset:    presetName(cfg),
			Scheme:    integ.Scheme().Name(),
			MacroStep: ic.MacroStep,
			SubStep:   ic.SubStep,
			Remainder: ic.Remainder.String(),
		}
	}

	logger.Info("running", "preset", presetName(cfg), "scheme", integ.Scheme().Name(), "days", runDays)
	start := time.Now()

	var dropped float64
	loop := driver.New(reg, integ, driver.Options{Days: runDays, Logger: logger})
	err = loop.Run(cmd.Context(), func(f driver.Frame) error {
		dropped += f.Report.Dropped
		if trace != nil {
			trace.Append(stream.NewFrame(f.Day, f.Time, f.Report, cfg.HalfExtent, f.Registry))
		}
		return nil
	})
	if err != nil {
		return err
	}
	elapsed := time.Since(start)

	fmt.Printf("completed %d days in %v\n", loop.Day(), elapsed)
	fmt.Printf("sub-steps: %d\n", integ.SubSteps())
	fmt.Printf("simulated: %.0fs (dropped %.0fs)\n\n", integ.Time(), dropped)

	if err := writeState(os.Stdout, reg.Bodies()); err != nil {
		return err
	}

	snap := reg.Snapshot()
	results := map[string]float64{
		"energy":           metrics.Energy(snap, integ.Config().Params),
		"momentum":         r2.Norm(metrics.Momentum(snap)),
		"angular_momentum": metrics.AngularMomentum(snap),
	}
	names := []string{"energy", "momentum", "angular_momentum"}
	for _, m := range []metrics.Metric{drift, containment} {
		results[m.Name()] = m.Value()
		names = append(names, m.Name())
	}

	fmt.Println("\nmetrics:")
	for _, name := range names {
		fmt.Printf("  %s: %.6e\n", name, results[name])
	}

	if err := integ.Validate(reg); err != nil {
		logger.Warn("final state is not finite", "err", err)
	}

	if trace != nil {
		for name, v := range results {
			trace.SetMetric(name, v)
		}
		if err := stream.ExportTrace(jsonOut, trace); err != nil {
			return fmt.Errorf("failed to write trace: %w", err)
		}
		if jsonOut != "-" {
			logger.Info("wrote trace", "path", jsonOut, "frames", len(trace.Frames))
		}
	}

	return nil
}

// writeState prints the final state of every body with its distance from
// the origin.
func writeState(out io.Writer, bodies []body.View) error {
	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "BODY\tX (m)\tY (m)\tVX (m/s)\tVY (m/s)\tDIST (m)")
	for _, b := range bodies {
		fmt.Fprintf(w, "%s\t%.6e\t%.6e\t%.4e\t%.4e\t%.6e\n",
			b.Name, b.Pos.X, b.Pos.Y, b.Vel.X, b.Vel.Y, r2.Norm(b.Pos))
	}
	return w.Flush()
}

func listBodies(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	reg, err := cfg.Registry()
	if err != nil {
		return err
	}

	fmt.Printf("%s (density %.0f kg/m^3)\n\n", presetName(cfg), reg.Density())
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "#\tNAME\tMASS (kg)\tRADIUS (m)\tX (m)\tY (m)\tVX (m/s)\tVY (m/s)")
	for i, b := range reg.Bodies() {
		fmt.Fprintf(w, "%d\t%s\t%.4e\t%.4e\t%.4e\t%.4e\t%.4e\t%.4e\n",
			i, b.Name, b.Mass, b.Radius, b.Pos.X, b.Pos.Y, b.Vel.X, b.Vel.Y)
	}
	return w.Flush()
}

func plotOrbit(cmd *cobra.Command, args []string) error {
	if plotDays <= 0 {
		return fmt.Errorf("--days must be positive, got %d", plotDays)
	}
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	reg, integ, err := build(cfg)
	if err != nil {
		return err
	}

	idx := reg.Len() - 1
	if len(args) > 0 {
		idx = -1
		for i, b := range reg.Bodies() {
			if strings.EqualFold(b.Name, args[0]) {
				idx = i
				break
			}
		}
		if idx < 0 {
			return fmt.Errorf("unknown body: %s", args[0])
		}
	}

	recorder := metrics.NewRecorder(plotDays)
	drift := metrics.NewEnergyDrift(integ.Config().Params)
	drift.Observe(reg.Snapshot())
	integ.AddObserver(recorder)
	integ.AddObserver(drift)

	driftHistory := make([]float64, 0, plotDays)
	integ.AddObserver(dynamo.ObserverFunc(func(s dynamo.Snapshot, r dynamo.Report, t float64) {
		driftHistory = append(driftHistory, drift.Current())
	}))

	loop := driver.New(reg, integ, driver.Options{Days: plotDays, Logger: logger})
	if err := loop.Run(cmd.Context(), nil); err != nil {
		return err
	}

	if recorder.Len() == 0 {
		return fmt.Errorf("no data to plot")
	}

	name := reg.Body(idx).Name
	radii := recorder.Radii(idx)
	data := make([]float64, len(radii))
	for i, r := range radii {
		data[i] = r / 1e9
	}

	fmt.Printf("%s over %d days (%s)\n", name, recorder.Len(), integ.Scheme().Name())
	if period := analysis.Period(recorder.X(idx), sampleDays(recorder.Times())); period > 0 {
		fmt.Printf("estimated orbital period: %.1f days\n", period)
	}
	fmt.Println()
	fmt.Println(asciigraph.Plot(data,
		asciigraph.Height(10),
		asciigraph.Width(80),
		asciigraph.Caption(fmt.Sprintf("%s distance from origin (Gm)", name)),
	))
	fmt.Println()
	fmt.Println(asciigraph.Plot(driftHistory,
		asciigraph.Height(6),
		asciigraph.Width(80),
		asciigraph.Caption("relative energy drift"),
	))

	return nil
}

// sampleDays returns the mean simulated time between samples, in days.
func sampleDays(times []float64) float64 {
	if len(times) < 2 {
		return 0
	}
	return (times[len(times)-1] - times[0]) / float64(len(times)-1) / 86400
}

func renderSVG(cmd *cobra.Command, args []string) error {
	if svgDays <= 0 {
		return fmt.Errorf("--days must be positive, got %d", svgDays)
	}
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	reg, integ, err := build(cfg)
	if err != nil {
		return err
	}

	trails := make([][]r2.Vec, reg.Len())
	loop := driver.New(reg, integ, driver.Options{Days: svgDays, Logger: logger})
	err = loop.Run(cmd.Context(), func(f driver.Frame) error {
		snap := f.Registry.Snapshot()
		for i := range trails {
			trails[i] = append(trails[i], snap.Pos(i))
		}
		return nil
	})
	if err != nil {
		return err
	}

	var svg string
	if braille {
		svg = export.BrailleSVG(reg.Bodies(), trails, brailleCols, brailleRows, svgSize, cfg.HalfExtent)
	} else {
		svg = export.SceneSVG(reg.Bodies(), trails, svgSize, svgSize, cfg.HalfExtent)
	}
	if err := os.WriteFile(svgOut, []byte(svg), 0644); err != nil {
		return err
	}
	logger.Info("wrote svg", "path", svgOut, "days", loop.Day())
	return nil
}

func serve(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	reg, integ, err := build(cfg)
	if err != nil {
		return err
	}

	drift := metrics.NewEnergyDrift(integ.Config().Params)
	drift.Observe(reg.Snapshot())
	integ.AddObserver(drift)

	promReg := prometheus.NewRegistry()
	promReg.MustRegister(collectors.NewGoCollector())
	collector := telemetry.NewCollector(promReg, drift)
	integ.AddObserver(collector)

	hub := stream.NewHub(logger.WithPrefix("stream"))
	defer hub.Close()

	mux := http.NewServeMux()
	mux.Handle("/", stream.Index())
	mux.Handle("/ws", hub)
	mux.Handle("/metrics", telemetry.Handler(promReg))

	srv := &http.Server{Addr: addr, Handler: mux}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		logger.Info("listening", "addr", addr, "fps", cfg.FPS)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
			stop()
		}
		close(errCh)
	}()

	loop := driver.New(reg, integ, driver.Options{
		FPS:    float64(cfg.FPS),
		Days:   serveDays,
		Logger: logger.WithPrefix("driver"),
	})
	runErr := loop.Run(ctx, func(f driver.Frame) error {
		collector.ObserveDuration(f.Elapsed)
		return hub.Publish(stream.NewFrame(f.Day, f.Time, f.Report, cfg.HalfExtent, f.Registry))
	})

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("shutdown failed", "err", err)
	}

	if err := <-errCh; err != nil {
		return err
	}
	logger.Info("stopped", "days", loop.Day(), "clients", hub.Clients())
	return runErr
}

func benchSchemes(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	fmt.Printf("benchmarking %s, %d days per scheme\n\n", presetName(cfg), benchDays)
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "SCHEME\tSUB-STEPS\tTIME\tPER DAY\tSUB-STEPS/SEC\tENERGY DRIFT")

	for _, name := range integrators.Schemes() {
		cfg.Scheme = name
		reg, integ, err := build(cfg)
		if err != nil {
			return err
		}
		drift := metrics.NewEnergyDrift(integ.Config().Params)
		drift.Observe(reg.Snapshot())
		integ.AddObserver(drift)

		start := time.Now()
		for d := 0; d < benchDays; d++ {
			integ.Advance(reg)
		}
		elapsed := time.Since(start)

		perDay := time.Duration(0)
		if benchDays > 0 {
			perDay = elapsed / time.Duration(benchDays)
		}
		rate := float64(integ.SubSteps()) / elapsed.Seconds()

		fmt.Fprintf(w, "%s\t%d\t%v\t%v\t%.0f\t%.2e\n",
			name, integ.SubSteps(), elapsed.Round(time.Millisecond), perDay.Round(time.Microsecond), rate, drift.Value())
	}

	return w.Flush()
}

func runSweep(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	grid := &sweep.Grid{Days: sweepDays}
	if len(args) > 0 {
		grid, err = sweep.LoadGrid(args[0])
		if err != nil {
			return fmt.Errorf("failed to load grid: %w", err)
		}
		if grid.Days <= 0 || cmd.Flags().Changed("days") {
			grid.Days = sweepDays
		}
	}
	if cmd.Flags().Changed("schemes") {
		grid.Schemes = schemes
	} else if len(args) == 0 {
		grid.Schemes = integrators.Schemes()
	}
	if cmd.Flags().Changed("sub-steps") {
		grid.SubSteps = subSteps
	}
	if grid.Days <= 0 {
		return fmt.Errorf("--days must be positive, got %d", grid.Days)
	}

	variants := grid.Variants(cfg)
	logger.Info("sweeping", "preset", presetName(cfg), "variants", len(variants), "days", grid.Days)

	results, err := sweep.Run(cmd.Context(), cfg, variants, grid.Days, workers)
	if err != nil {
		return err
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "RANK\tVARIANT\tDAYS\tSUB-STEPS\tDROPPED\tTIME\tENERGY DRIFT\tSTATUS")
	for i, r := range sweep.Rank(results) {
		status := "ok"
		if r.Err != nil {
			status = r.Err.Error()
		}
		fmt.Fprintf(w, "%d\t%s\t%d\t%d\t%.0fs\t%v\t%.2e\t%s\n",
			i+1, r.Variant, r.Days, r.SubSteps, r.Dropped, r.Elapsed.Round(time.Millisecond), r.Drift, status)
	}
	return w.Flush()
}
