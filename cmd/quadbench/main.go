package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"text/tabwriter"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"

	"github.com/san-kum/quadbench/internal/bench"
	"github.com/san-kum/quadbench/internal/config"
	"github.com/san-kum/quadbench/internal/engine"
	"github.com/san-kum/quadbench/internal/export"
	"github.com/san-kum/quadbench/internal/functions"
	"github.com/san-kum/quadbench/internal/history"
	"github.com/san-kum/quadbench/internal/logging"
	"github.com/san-kum/quadbench/internal/procpool"
	"github.com/san-kum/quadbench/internal/quad"
	"github.com/san-kum/quadbench/internal/storage"
	"github.com/san-kum/quadbench/internal/trace"
	"github.com/san-kum/quadbench/internal/viz"
)

var (
	dataDir    string
	configFile string
	preset     string
	logLevel   string
	logFormat  string
	logFile    string
	traceFile  string

	lower    float64
	upper    float64
	nIter    int
	jobs     int
	mode     string
	split    string
	maxProcs int

	nIters      []int
	modes       []string
	repeats     int
	warmup      int
	live        bool
	save        bool
	plot        bool
	noHistory   bool
	metricsAddr string
	theme       string

	convStart int
	convSteps int

	svgFile string

	showTimings  bool
	historyLimit int
	historyBest  string
)

// Resolved in the root PersistentPreRunE.
var (
	cfg         *config.Config
	logger      = slog.New(slog.NewTextHandler(io.Discard, nil))
	logCloser   io.Closer
	traceCloser io.Closer
)

func main() {
	rootCmd := &cobra.Command{
		Use:               "quadbench",
		Short:             "riemann-sum integration and parallel speedup lab",
		SilenceUsage:      true,
		PersistentPreRunE: setup,
		PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
			return teardown()
		},
	}

	pf := rootCmd.PersistentFlags()
	pf.StringVar(&dataDir, "data", config.DefaultDataDir, "data directory")
	pf.StringVar(&configFile, "config", "", "config file path (yaml)")
	pf.StringVar(&preset, "preset", "", "use preset configuration")
	pf.StringVar(&logLevel, "log-level", "info", "log level (debug, info, warn, error)")
	pf.StringVar(&logFormat, "log-format", "text", "log format (text, json)")
	pf.StringVar(&logFile, "log-file", "", "write logs to a rotated file instead of stderr")

	integrateCmd := &cobra.Command{
		Use:   "integrate [func]",
		Short: "integrate a function once",
		Args:  cobra.MaximumNArgs(1),
		RunE:  runIntegrate,
	}
	addCallFlags(integrateCmd)
	integrateCmd.Flags().IntVar(&nIter, "n", config.DefaultNIter, "number of sub-intervals")
	integrateCmd.Flags().StringVar(&mode, "mode", string(engine.Sequential), "sequential, threads or processes")
	integrateCmd.Flags().BoolVar(&noHistory, "no-history", false, "do not record the call in the history ledger")

	benchCmd := &cobra.Command{
		Use:   "bench [func]",
		Short: "time every mode over a range of n",
		Args:  cobra.MaximumNArgs(1),
		RunE:  runBench,
	}
	addCallFlags(benchCmd)
	benchCmd.Flags().IntSliceVar(&nIters, "n-iters", config.DefaultNIters, "partition counts to measure")
	benchCmd.Flags().StringSliceVar(&modes, "modes", []string{"sequential", "threads", "processes"}, "modes to measure")
	benchCmd.Flags().IntVar(&repeats, "repeats", config.DefaultRepeats, "timed calls per cell")
	benchCmd.Flags().IntVar(&warmup, "warmup", config.DefaultWarmup, "untimed calls per cell")
	benchCmd.Flags().BoolVar(&live, "live", false, "show a live progress view")
	benchCmd.Flags().BoolVar(&save, "save", true, "save the report under the data directory")
	benchCmd.Flags().BoolVar(&plot, "plot", false, "plot mean timings after the table")
	benchCmd.Flags().BoolVar(&noHistory, "no-history", false, "do not record measurements in the history ledger")
	benchCmd.Flags().StringVar(&metricsAddr, "metrics-addr", "", "serve prometheus metrics on this address while benchmarking")
	benchCmd.Flags().StringVar(&theme, "theme", viz.ThemeCyberpunk.Name, "color theme ("+strings.Join(viz.ThemeNames(), ", ")+")")

	convergenceCmd := &cobra.Command{
		Use:   "convergence [func]",
		Short: "show how the error shrinks as n doubles",
		Args:  cobra.MaximumNArgs(1),
		RunE:  runConvergence,
	}
	convergenceCmd.Flags().Float64Var(&lower, "a", config.DefaultA, "lower bound")
	convergenceCmd.Flags().Float64Var(&upper, "b", 0, "upper bound (default pi)")
	convergenceCmd.Flags().IntVar(&convStart, "start", 16, "smallest n")
	convergenceCmd.Flags().IntVar(&convSteps, "steps", 12, "number of doublings")
	convergenceCmd.Flags().StringVar(&svgFile, "svg", "", "also write the error curve to this svg file")

	functionsCmd := &cobra.Command{
		Use:   "functions",
		Short: "list registered integrands",
		RunE:  listFunctions,
	}

	presetsCmd := &cobra.Command{
		Use:   "presets",
		Short: "list available presets",
		RunE:  listPresets,
	}

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "list saved benchmark runs",
		RunE:  listRuns,
	}

	showCmd := &cobra.Command{
		Use:   "show [run_id]",
		Short: "show a saved benchmark run",
		Args:  cobra.ExactArgs(1),
		RunE:  showRun,
	}
	showCmd.Flags().BoolVar(&showTimings, "timings", false, "dump the raw timings csv instead of the table")
	showCmd.Flags().StringVar(&theme, "theme", viz.ThemeCyberpunk.Name, "color theme")

	plotCmd := &cobra.Command{
		Use:   "plot [run_id]",
		Short: "plot a saved benchmark run",
		Args:  cobra.ExactArgs(1),
		RunE:  plotRun,
	}
	plotCmd.Flags().StringVar(&svgFile, "svg", "", "also write the timings plot to this svg file")

	historyCmd := &cobra.Command{
		Use:   "history",
		Short: "show recorded measurements",
		RunE:  showHistory,
	}
	historyCmd.Flags().IntVar(&historyLimit, "limit", 20, "number of entries")
	historyCmd.Flags().StringVar(&historyBest, "best", "", "show the fastest mean per mode and n for this function")

	workerCmd := &cobra.Command{
		Use:    "worker",
		Short:  "serve integration jobs on stdin/stdout",
		Hidden: true,
		Args:   cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return procpool.Serve(cmd.Context(), os.Stdin, os.Stdout, functions.Default())
		},
	}

	rootCmd.AddCommand(integrateCmd, benchCmd, convergenceCmd, functionsCmd, presetsCmd,
		listCmd, showCmd, plotCmd, historyCmd, workerCmd)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		stop()
		os.Exit(1)
	}
}

// addCallFlags registers the flags shared by integrate and bench.
func addCallFlags(cmd *cobra.Command) {
	cmd.Flags().Float64Var(&lower, "a", config.DefaultA, "lower bound")
	cmd.Flags().Float64Var(&upper, "b", 0, "upper bound (default pi)")
	cmd.Flags().IntVar(&jobs, "jobs", config.DefaultJobs, "parallel jobs")
	cmd.Flags().StringVar(&split, "split", string(quad.SplitTruncate), "remainder policy (truncate, distribute)")
	cmd.Flags().IntVar(&maxProcs, "max-procs", 0, "cap on concurrent worker processes (0 = one per job)")
	cmd.Flags().StringVar(&traceFile, "trace", "", "append per-job trace events as JSON lines to this file")
}

func setup(cmd *cobra.Command, args []string) error {
	// Worker stdout carries the protocol and its stderr is captured by the
	// parent, so it never opens config or log files.
	if cmd.Name() == "worker" {
		return nil
	}

	var err error
	cfg, err = resolveConfig(cmd, args)
	if err != nil {
		return err
	}

	var log *slog.Logger
	log, logCloser, err = logging.New(logging.Options{
		Level:  cfg.Log.Level,
		Format: cfg.Log.Format,
		File:   cfg.Log.File,
	})
	if err != nil {
		return err
	}
	logger = log
	return nil
}

func teardown() error {
	var errs []error
	if traceCloser != nil {
		errs = append(errs, traceCloser.Close())
	}
	if logCloser != nil {
		errs = append(errs, logCloser.Close())
	}
	return errors.Join(errs...)
}

// resolveConfig layers defaults < preset < file < environment < flags.
func resolveConfig(cmd *cobra.Command, args []string) (*config.Config, error) {
	c := config.DefaultConfig()

	if preset != "" {
		if !config.ApplyPreset(c, preset) {
			return nil, fmt.Errorf("unknown preset: %s (available: %v)", preset, config.ListPresets())
		}
	}

	if configFile != "" {
		if _, err := config.LoadInto(c, configFile); err != nil {
			return nil, fmt.Errorf("failed to load config: %w", err)
		}
	}

	if err := c.ApplyEnv(); err != nil {
		return nil, fmt.Errorf("environment: %w", err)
	}

	changed := cmd.Flags().Changed
	if changed("data") {
		c.Storage.DataDir = dataDir
	}
	if changed("log-level") {
		c.Log.Level = logLevel
	}
	if changed("log-format") {
		c.Log.Format = logFormat
	}
	if changed("log-file") {
		c.Log.File = logFile
	}
	if changed("trace") {
		c.Log.Trace = traceFile
	}
	if changed("a") {
		c.A = lower
	}
	if changed("b") {
		c.B = upper
	}
	if changed("n") {
		c.NIter = nIter
	}
	if changed("jobs") {
		c.Jobs = jobs
	}
	if changed("mode") {
		c.Mode = mode
	}
	if changed("split") {
		c.Split = split
	}
	if changed("max-procs") {
		c.Workers.MaxProcs = maxProcs
	}
	if changed("n-iters") {
		c.Bench.NIters = nIters
	}
	if changed("modes") {
		c.Bench.Modes = modes
	}
	if changed("repeats") {
		c.Bench.Repeats = repeats
	}
	if changed("warmup") {
		c.Bench.Warmup = warmup
	}
	switch cmd.Name() {
	case "integrate", "bench", "convergence":
		if len(args) > 0 {
			c.Function = args[0]
		}
	}
	return c, nil
}

// newEngine wires the configured sinks. The returned sink list always
// includes slog; --trace adds a JSON-lines file.
func newEngine(extra ...trace.Sink) (*engine.Engine, error) {
	sinks := append([]trace.Sink{trace.NewSlogSink(logger)}, extra...)

	if cfg.Log.Trace != "" {
		f, err := os.OpenFile(cfg.Log.Trace, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0644)
		if err != nil {
			return nil, fmt.Errorf("open trace file: %w", err)
		}
		traceCloser = f
		sinks = append(sinks, trace.NewZerologSink(f))
	}

	return engine.New(functions.Default(),
		engine.WithProcessPool(procpool.Config{
			Executable: cfg.Workers.Executable,
			MaxProcs:   cfg.Workers.MaxProcs,
		}),
		engine.WithSink(trace.Multi(sinks...)),
	), nil
}

func openHistory() (*history.Ledger, error) {
	return history.Open(cfg.HistoryPath())
}

func recordHistory(ctx context.Context, entries ...history.Entry) {
	if noHistory || len(entries) == 0 {
		return
	}
	ledger, err := openHistory()
	if err != nil {
		logger.Warn("history unavailable", "path", cfg.HistoryPath(), "err", err)
		return
	}
	defer ledger.Close()
	if err := ledger.Record(ctx, entries...); err != nil {
		logger.Warn("history record failed", "err", err)
	}
}

func runIntegrate(cmd *cobra.Command, args []string) error {
	if err := cfg.Validate(); err != nil {
		return err
	}
	req, err := cfg.Request()
	if err != nil {
		return err
	}
	eng, err := newEngine()
	if err != nil {
		return err
	}

	res, err := eng.Run(cmd.Context(), req)
	if err != nil {
		return err
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintf(w, "function:\t%s\n", req.Function)
	fmt.Fprintf(w, "interval:\t[%g, %g]\n", req.A, req.B)
	fmt.Fprintf(w, "mode:\t%s\n", req.Mode)
	if req.Mode != engine.Sequential {
		fmt.Fprintf(w, "jobs:\t%d (split %s)\n", req.Jobs, req.Split)
	}
	fmt.Fprintf(w, "n:\t%d (%d evaluated)\n", req.NIter, res.Samples)
	fmt.Fprintf(w, "value:\t%.12f\n", res.Value)
	if res.HasExact {
		fmt.Fprintf(w, "exact:\t%.12f\n", res.Exact)
		fmt.Fprintf(w, "abs error:\t%.3e\n", res.AbsError)
	}
	fmt.Fprintf(w, "elapsed:\t%v\n", res.Elapsed)
	if err := w.Flush(); err != nil {
		return err
	}

	entry := history.Entry{
		Func:  req.Function,
		Mode:  string(req.Mode),
		A:     req.A,
		B:     req.B,
		NIter: req.NIter,
		Jobs:  req.Jobs,
		Mean:  res.Elapsed,
		Value: res.Value,
	}
	if res.HasExact {
		e := res.AbsError
		entry.AbsError = &e
	}
	recordHistory(cmd.Context(), entry)
	return nil
}

func runBench(cmd *cobra.Command, args []string) error {
	if err := cfg.ValidateBench(); err != nil {
		return err
	}
	bcfg, err := benchConfig(cfg)
	if err != nil {
		return err
	}
	if _, err := functions.Default().Get(bcfg.Function); err != nil {
		return err
	}

	var extra []trace.Sink
	if metricsAddr != "" {
		reg := prometheus.NewRegistry()
		ms, err := trace.NewMetricsSink(reg)
		if err != nil {
			return err
		}
		extra = append(extra, ms)

		srv := &http.Server{Addr: metricsAddr, Handler: promhttp.HandlerFor(reg, promhttp.HandlerOpts{})}
		go func() {
			if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				logger.Error("metrics server", "addr", metricsAddr, "err", err)
			}
		}()
		defer func() {
			ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
			defer cancel()
			_ = srv.Shutdown(ctx)
		}()
		logger.Info("serving metrics", "addr", metricsAddr)
	}

	eng, err := newEngine(extra...)
	if err != nil {
		return err
	}

	logger.Info("benchmark starting",
		"func", bcfg.Function, "n_iters", bcfg.NIters, "modes", bcfg.Modes,
		"jobs", bcfg.Jobs, "repeats", bcfg.Repeats, "warmup", bcfg.Warmup)

	var report *bench.Report
	if live {
		report, err = benchLive(cmd.Context(), eng, bcfg)
	} else {
		report, err = bench.Run(cmd.Context(), eng, bcfg, func(p bench.Progress) {
			logger.Info("measured", "mode", p.Last.Mode, "n", p.Last.NIter,
				"mean", p.Last.Mean, "done", p.Done, "total", p.Total)
		})
	}
	if err != nil {
		return err
	}

	th := viz.GetTheme(theme)
	fmt.Println(viz.Table(report, th))
	if plot {
		fmt.Println()
		fmt.Println(viz.PlotTimings(report))
	}

	var runID string
	if save {
		st := storage.New(cfg.Storage.DataDir)
		if err := st.Init(); err != nil {
			return err
		}
		runID, err = st.Save(report)
		if err != nil {
			return err
		}
		fmt.Printf("\nrun id: %s\n", runID)
	}

	recordHistory(cmd.Context(), historyEntries(runID, report)...)
	return nil
}

// benchLive runs the benchmark behind the progress view. Quitting the view
// cancels the benchmark.
func benchLive(ctx context.Context, r bench.Runner, bcfg bench.Config) (*bench.Report, error) {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	total := len(bcfg.NIters) * len(bcfg.Modes)
	updates := make(chan bench.Progress, total)

	type outcome struct {
		report *bench.Report
		err    error
	}
	result := make(chan outcome, 1)
	go func() {
		defer close(updates)
		rep, err := bench.Run(ctx, r, bcfg, func(p bench.Progress) { updates <- p })
		result <- outcome{rep, err}
	}()

	model := viz.NewProgressModel(total, updates).WithTheme(viz.GetTheme(theme))
	final, err := tea.NewProgram(model, tea.WithContext(ctx)).Run()
	if err != nil && !errors.Is(err, tea.ErrProgramKilled) {
		cancel()
		<-result
		return nil, err
	}
	if m, ok := final.(viz.ProgressModel); ok && m.Aborted {
		cancel()
	}

	out := <-result
	return out.report, out.err
}

func benchConfig(c *config.Config) (bench.Config, error) {
	split, err := quad.ParseSplitPolicy(c.Split)
	if err != nil {
		return bench.Config{}, err
	}
	ms := make([]engine.Mode, 0, len(c.Bench.Modes))
	for _, s := range c.Bench.Modes {
		m, err := engine.ParseMode(s)
		if err != nil {
			return bench.Config{}, err
		}
		ms = append(ms, m)
	}
	return bench.Config{
		Function: c.Function,
		A:        c.A,
		B:        c.B,
		NIters:   c.Bench.NIters,
		Jobs:     c.Jobs,
		Modes:    ms,
		Split:    split,
		Repeats:  c.Bench.Repeats,
		Warmup:   c.Bench.Warmup,
	}, nil
}

func historyEntries(runID string, r *bench.Report) []history.Entry {
	entries := make([]history.Entry, 0, len(r.Measurements))
	for _, m := range r.Measurements {
		jobs := r.Jobs
		if m.Mode == engine.Sequential {
			jobs = 1
		}
		e := history.Entry{
			RunID:      runID,
			RecordedAt: r.Started,
			Func:       r.Function,
			Mode:       string(m.Mode),
			A:          r.A,
			B:          r.B,
			NIter:      m.NIter,
			Jobs:       jobs,
			Mean:       m.Mean,
			Value:      m.Value,
		}
		if m.HasExact {
			v := m.AbsError
			e.AbsError = &v
		}
		entries = append(entries, e)
	}
	return entries
}

func runConvergence(cmd *cobra.Command, args []string) error {
	entry, err := functions.Default().Get(cfg.Function)
	if err != nil {
		return err
	}
	exact, ok := entry.Exact(cfg.A, cfg.B)
	if !ok {
		return fmt.Errorf("%s has no closed form to compare against", entry.Name)
	}
	if convStart <= 0 || convSteps <= 0 {
		return fmt.Errorf("%w: start=%d steps=%d", quad.ErrInvalidPartition, convStart, convSteps)
	}

	points, err := bench.Convergence(entry.F, exact, cfg.A, cfg.B, bench.Doubling(convStart, convSteps))
	if err != nil {
		return err
	}

	fmt.Printf("%s over [%g, %g], exact %.12f\n\n", entry.Name, cfg.A, cfg.B, exact)
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "N\tVALUE\tABS ERROR\tRATIO")
	for _, p := range points {
		ratio := "-"
		if p.Ratio > 0 {
			ratio = fmt.Sprintf("%.3f", p.Ratio)
		}
		fmt.Fprintf(w, "%d\t%.12f\t%.3e\t%s\n", p.N, p.Value, p.Error, ratio)
	}
	if err := w.Flush(); err != nil {
		return err
	}

	fmt.Println()
	fmt.Println(viz.PlotConvergence(points))
	return writeSVG(export.ConvergenceSVG(points, 800, 400))
}

func writeSVG(svg string) error {
	if svgFile == "" || svg == "" {
		return nil
	}
	if err := os.WriteFile(svgFile, []byte(svg), 0644); err != nil {
		return err
	}
	fmt.Printf("wrote %s\n", svgFile)
	return nil
}

func listFunctions(cmd *cobra.Command, args []string) error {
	reg := functions.Default()
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "NAME\tEXACT\tDESCRIPTION")
	for _, name := range reg.Names() {
		e, err := reg.Get(name)
		if err != nil {
			return err
		}
		exact := "no"
		if e.Antiderivative != nil {
			exact = "yes"
		}
		fmt.Fprintf(w, "%s\t%s\t%s\n", e.Name, exact, e.Description)
	}
	return w.Flush()
}

func listPresets(cmd *cobra.Command, args []string) error {
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "PRESET\tFUNC\tINTERVAL\tN\tJOBS\tMODE")
	for _, name := range config.ListPresets() {
		p := config.GetPreset(name)
		fmt.Fprintf(w, "%s\t%s\t[%.4g, %.4g]\t%d\t%d\t%s\n", name, p.Function, p.A, p.B, p.NIter, p.Jobs, p.Mode)
	}
	return w.Flush()
}

func listRuns(cmd *cobra.Command, args []string) error {
	st := storage.New(cfg.Storage.DataDir)
	runs, err := st.List()
	if err != nil {
		return err
	}

	if len(runs) == 0 {
		fmt.Println("no runs found")
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tFUNC\tTIME\tINTERVAL\tJOBS\tSPLIT\tCELLS")
	for _, run := range runs {
		fmt.Fprintf(w, "%s\t%s\t%s\t[%.4g, %.4g]\t%d\t%s\t%d\n",
			run.ID,
			run.Function,
			run.Timestamp.Format("2006-01-02 15:04:05"),
			run.A, run.B,
			run.Jobs,
			run.Split,
			len(run.Measurements),
		)
	}
	return w.Flush()
}

func showRun(cmd *cobra.Command, args []string) error {
	st := storage.New(cfg.Storage.DataDir)

	if showTimings {
		timings, err := st.LoadTimings(args[0])
		if err != nil {
			return err
		}
		w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
		fmt.Fprintln(w, "N_ITER\tTIME_SEC\tMETHOD")
		for _, t := range timings {
			fmt.Fprintf(w, "%d\t%.9f\t%s\n", t.NIter, t.Seconds, t.Method)
		}
		return w.Flush()
	}

	meta, err := st.Load(args[0])
	if err != nil {
		return err
	}
	fmt.Printf("run %s (%s)\n", meta.ID, meta.Timestamp.Format("2006-01-02 15:04:05"))
	fmt.Println(viz.Table(meta.Report, viz.GetTheme(theme)))
	return nil
}

func plotRun(cmd *cobra.Command, args []string) error {
	st := storage.New(cfg.Storage.DataDir)
	meta, err := st.Load(args[0])
	if err != nil {
		return err
	}
	out := viz.PlotTimings(meta.Report)
	if out == "" {
		fmt.Println("nothing to plot")
		return nil
	}
	fmt.Println(out)
	return writeSVG(export.TimingsSVG(meta.Report, 800, 400))
}

func showHistory(cmd *cobra.Command, args []string) error {
	ledger, err := openHistory()
	if err != nil {
		return err
	}
	defer ledger.Close()

	var entries []history.Entry
	if historyBest != "" {
		entries, err = ledger.Best(cmd.Context(), historyBest)
	} else {
		entries, err = ledger.Recent(cmd.Context(), historyLimit)
	}
	if err != nil {
		return err
	}
	if len(entries) == 0 {
		fmt.Println("no measurements recorded")
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "TIME\tFUNC\tMODE\tN_ITER\tJOBS\tMEAN\tVALUE\tABS ERR\tRUN")
	for _, e := range entries {
		absErr := "-"
		if e.AbsError != nil {
			absErr = fmt.Sprintf("%.3e", *e.AbsError)
		}
		run := e.RunID
		if run == "" {
			run = "-"
		}
		fmt.Fprintf(w, "%s\t%s\t%s\t%d\t%d\t%v\t%.9f\t%s\t%s\n",
			e.RecordedAt.Format("2006-01-02 15:04:05"),
			e.Func, e.Mode, e.NIter, e.Jobs, e.Mean, e.Value, absErr, run)
	}
	return w.Flush()
}
