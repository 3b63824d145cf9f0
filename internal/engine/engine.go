// Package engine resolves named integrands and execution modes into calls
// of the integration kernel.
package engine

import (
	"context"
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/san-kum/quadbench/internal/functions"
	"github.com/san-kum/quadbench/internal/procpool"
	"github.com/san-kum/quadbench/internal/quad"
	"github.com/san-kum/quadbench/internal/trace"
)

var ErrUnknownMode = errors.New("engine: unknown mode")

type Mode string

const (
	Sequential Mode = "sequential"
	Threads    Mode = "threads"
	Processes  Mode = "processes"
)

// Modes lists every execution mode, baseline first.
func Modes() []Mode {
	return []Mode{Sequential, Threads, Processes}
}

func ParseMode(s string) (Mode, error) {
	switch Mode(s) {
	case Sequential, Threads, Processes:
		return Mode(s), nil
	default:
		return "", fmt.Errorf("%w: %s", ErrUnknownMode, s)
	}
}

type Request struct {
	Function string
	A, B     float64
	NIter    int
	Jobs     int
	Mode     Mode
	Split    quad.SplitPolicy
}

type Result struct {
	Request  Request
	Value    float64
	Elapsed  time.Duration
	Samples  int
	Exact    float64
	HasExact bool
	AbsError float64
}

type Engine struct {
	registry *functions.Registry
	pool     *procpool.Pool
	sink     trace.Sink
}

type Option func(*Engine)

func WithProcessPool(cfg procpool.Config) Option {
	return func(e *Engine) {
		e.pool = procpool.New(cfg)
	}
}

func WithSink(s trace.Sink) Option {
	return func(e *Engine) {
		if s != nil {
			e.sink = s
		}
	}
}

func New(reg *functions.Registry, opts ...Option) *Engine {
	e := &Engine{
		registry: reg,
		pool:     procpool.New(procpool.Config{}),
		sink:     trace.Discard,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

func (e *Engine) executor(mode Mode) (quad.Executor, error) {
	switch mode {
	case Threads:
		return trace.Executor(quad.Threads{}, string(mode), e.sink), nil
	case Processes:
		return trace.Executor(e.pool, string(mode), e.sink), nil
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnknownMode, mode)
	}
}

// Run performs one integration call and times it.
func (e *Engine) Run(ctx context.Context, req Request) (*Result, error) {
	entry, err := e.registry.Get(req.Function)
	if err != nil {
		return nil, err
	}
	if req.Mode == "" {
		req.Mode = Sequential
	}
	if req.Split == "" {
		req.Split = quad.SplitTruncate
	}

	base := trace.Event{Mode: string(req.Mode), Func: entry.Name, A: req.A, B: req.B, N: req.NIter}

	var (
		value   float64
		samples int
		elapsed time.Duration
	)
	switch req.Mode {
	case Sequential:
		start := time.Now()
		value, err = trace.WithCall(ctx, e.sink, base, func() (float64, error) {
			return quad.IntegrateContext(ctx, entry.F, req.A, req.B, req.NIter)
		})
		elapsed = time.Since(start)
		samples = req.NIter
	default:
		exec, xerr := e.executor(req.Mode)
		if xerr != nil {
			return nil, xerr
		}
		start := time.Now()
		value, err = trace.WithCall(ctx, e.sink, base, func() (float64, error) {
			return quad.IntegrateParallel(ctx, exec, entry.Function(), req.A, req.B, req.Jobs, req.NIter, quad.WithSplitPolicy(req.Split))
		})
		elapsed = time.Since(start)
		samples = quad.EffectiveSamples(req.NIter, req.Jobs, req.Split)
	}
	if err != nil {
		return nil, fmt.Errorf("%s %s: %w", req.Mode, entry.Name, err)
	}

	res := &Result{
		Request: req,
		Value:   value,
		Elapsed: elapsed,
		Samples: samples,
	}
	if exact, ok := entry.Exact(req.A, req.B); ok {
		res.Exact = exact
		res.HasExact = true
		res.AbsError = math.Abs(value - exact)
	}
	return res, nil
}
