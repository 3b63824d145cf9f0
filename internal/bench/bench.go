// Package bench times integration calls across execution modes and
// partition counts, and studies how the approximation error shrinks with n.
package bench

import (
	"context"
	"fmt"
	"math"
	"sort"
	"time"

	"github.com/san-kum/quadbench/internal/engine"
	"github.com/san-kum/quadbench/internal/quad"
)

// Runner performs a single integration call. *engine.Engine satisfies it.
type Runner interface {
	Run(ctx context.Context, req engine.Request) (*engine.Result, error)
}

type Config struct {
	Function string
	A, B     float64
	NIters   []int
	Jobs     int
	Modes    []engine.Mode
	Split    quad.SplitPolicy
	Repeats  int
	Warmup   int
}

type Measurement struct {
	Mode     engine.Mode   `json:"mode"`
	NIter    int           `json:"n_iter"`
	Samples  int           `json:"samples"`
	Mean     time.Duration `json:"mean"`
	Stddev   time.Duration `json:"stddev"`
	Min      time.Duration `json:"min"`
	Value    float64       `json:"value"`
	AbsError float64       `json:"abs_error"`
	HasExact bool          `json:"has_exact"`
	// Speedup is the sequential mean over this mean at the same n, or zero
	// when no sequential baseline was measured.
	Speedup float64 `json:"speedup"`
}

type Report struct {
	Function     string           `json:"function"`
	A            float64          `json:"a"`
	B            float64          `json:"b"`
	Jobs         int              `json:"jobs"`
	Split        quad.SplitPolicy `json:"split"`
	Repeats      int              `json:"repeats"`
	Warmup       int              `json:"warmup"`
	Started      time.Time        `json:"started"`
	Measurements []Measurement    `json:"measurements"`
}

// Progress is reported after every finished (mode, n) cell.
type Progress struct {
	Done  int
	Total int
	Last  Measurement
}

// Run measures every (n, mode) cell: Warmup untimed calls, then Repeats
// timed ones. The elapsed time reported by the runner is what gets averaged.
func Run(ctx context.Context, r Runner, cfg Config, progress func(Progress)) (*Report, error) {
	if cfg.Repeats <= 0 {
		return nil, fmt.Errorf("bench: repeats must be positive, got %d", cfg.Repeats)
	}
	if len(cfg.NIters) == 0 || len(cfg.Modes) == 0 {
		return nil, fmt.Errorf("bench: nothing to measure")
	}

	modes := orderModes(cfg.Modes)
	report := &Report{
		Function: cfg.Function,
		A:        cfg.A,
		B:        cfg.B,
		Jobs:     cfg.Jobs,
		Split:    cfg.Split,
		Repeats:  cfg.Repeats,
		Warmup:   cfg.Warmup,
		Started:  time.Now(),
	}

	total := len(cfg.NIters) * len(modes)
	for _, n := range cfg.NIters {
		for _, mode := range modes {
			req := engine.Request{
				Function: cfg.Function,
				A:        cfg.A,
				B:        cfg.B,
				NIter:    n,
				Jobs:     cfg.Jobs,
				Mode:     mode,
				Split:    cfg.Split,
			}
			m, err := measure(ctx, r, req, cfg.Warmup, cfg.Repeats)
			if err != nil {
				return nil, err
			}
			report.Measurements = append(report.Measurements, m)
			if progress != nil {
				progress(Progress{Done: len(report.Measurements), Total: total, Last: m})
			}
		}
	}

	report.fillSpeedups()
	return report, nil
}

func measure(ctx context.Context, r Runner, req engine.Request, warmup, repeats int) (Measurement, error) {
	for i := 0; i < warmup; i++ {
		if _, err := r.Run(ctx, req); err != nil {
			return Measurement{}, fmt.Errorf("warmup %s n=%d: %w", req.Mode, req.NIter, err)
		}
	}

	times := make([]time.Duration, 0, repeats)
	var last *engine.Result
	for i := 0; i < repeats; i++ {
		res, err := r.Run(ctx, req)
		if err != nil {
			return Measurement{}, fmt.Errorf("%s n=%d: %w", req.Mode, req.NIter, err)
		}
		times = append(times, res.Elapsed)
		last = res
	}

	mean, std, min := stats(times)
	return Measurement{
		Mode:     req.Mode,
		NIter:    req.NIter,
		Samples:  last.Samples,
		Mean:     mean,
		Stddev:   std,
		Min:      min,
		Value:    last.Value,
		AbsError: last.AbsError,
		HasExact: last.HasExact,
	}, nil
}

func (r *Report) fillSpeedups() {
	base := make(map[int]time.Duration)
	for _, m := range r.Measurements {
		if m.Mode == engine.Sequential {
			base[m.NIter] = m.Mean
		}
	}
	for i := range r.Measurements {
		m := &r.Measurements[i]
		b, ok := base[m.NIter]
		if !ok || m.Mean <= 0 {
			continue
		}
		m.Speedup = float64(b) / float64(m.Mean)
	}
}

// Baseline returns the sequential measurement for n, if any.
func (r *Report) Baseline(n int) (Measurement, bool) {
	for _, m := range r.Measurements {
		if m.Mode == engine.Sequential && m.NIter == n {
			return m, true
		}
	}
	return Measurement{}, false
}

// ByMode groups measurements per mode, each ordered by n.
func (r *Report) ByMode() map[engine.Mode][]Measurement {
	out := make(map[engine.Mode][]Measurement)
	for _, m := range r.Measurements {
		out[m.Mode] = append(out[m.Mode], m)
	}
	for _, ms := range out {
		sort.Slice(ms, func(i, j int) bool { return ms[i].NIter < ms[j].NIter })
	}
	return out
}

// orderModes puts the sequential baseline first and drops duplicates.
func orderModes(modes []engine.Mode) []engine.Mode {
	seen := make(map[engine.Mode]bool, len(modes))
	out := make([]engine.Mode, 0, len(modes))
	for _, m := range modes {
		if m == engine.Sequential && !seen[m] {
			out = append(out, m)
			seen[m] = true
		}
	}
	for _, m := range modes {
		if !seen[m] {
			out = append(out, m)
			seen[m] = true
		}
	}
	return out
}

func stats(ds []time.Duration) (mean, stddev, min time.Duration) {
	if len(ds) == 0 {
		return 0, 0, 0
	}
	var sum float64
	min = ds[0]
	for _, d := range ds {
		sum += float64(d)
		if d < min {
			min = d
		}
	}
	m := sum / float64(len(ds))

	var sq float64
	for _, d := range ds {
		diff := float64(d) - m
		sq += diff * diff
	}
	return time.Duration(m), time.Duration(math.Sqrt(sq / float64(len(ds)))), min
}
