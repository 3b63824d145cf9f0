package trace

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/san-kum/quadbench/internal/quad"
)

type tracedExecutor struct {
	inner quad.Executor
	mode  string
	sink  Sink
}

// Executor wraps inner so that each job batch is reported to sink: a start
// and end event per job, then one BatchEnd with the batch wall time. Per-job
// outcome comes from the returned error.
func Executor(inner quad.Executor, mode string, sink Sink) quad.Executor {
	if sink == nil {
		sink = Discard
	}
	return &tracedExecutor{inner: inner, mode: mode, sink: sink}
}

func (t *tracedExecutor) Execute(ctx context.Context, fn quad.Function, jobs []quad.Job) ([]float64, error) {
	for _, j := range jobs {
		t.sink.Record(ctx, Event{Kind: JobStart, Mode: t.mode, Func: fn.String(), Job: j.Index, A: j.A, B: j.B, N: j.N})
	}

	start := time.Now()
	parts, err := t.inner.Execute(ctx, fn, jobs)
	elapsed := time.Since(start)

	failed := failedJob(err)
	samples := 0
	for i, j := range jobs {
		samples += j.N
		ev := Event{Kind: JobEnd, Mode: t.mode, Func: fn.String(), Job: j.Index, A: j.A, B: j.B, N: j.N}
		switch {
		case err == nil:
			ev.Value = parts[i]
		case failed < 0 || failed == j.Index:
			ev.Err = err
		default:
			ev.Err = context.Canceled
		}
		t.sink.Record(ctx, ev)
	}

	batch := Event{Kind: BatchEnd, Mode: t.mode, Func: fn.String(), Job: -1, N: samples, Duration: elapsed, Err: err}
	if len(jobs) > 0 {
		batch.A, batch.B = jobs[0].A, jobs[len(jobs)-1].B
	}
	if err == nil {
		for _, p := range parts {
			batch.Value += p
		}
	}
	t.sink.Record(ctx, batch)
	return parts, err
}

func failedJob(err error) int {
	if err == nil {
		return -1
	}
	var je *quad.JobError
	if errors.As(err, &je) {
		return je.Job
	}
	return -1
}

// WithCall brackets fn with call events.
func WithCall(ctx context.Context, sink Sink, base Event, fn func() (float64, error)) (float64, error) {
	if sink == nil {
		sink = Discard
	}
	base.Job = -1
	start := base
	start.Kind = CallStart
	sink.Record(ctx, start)

	t0 := time.Now()
	v, err := fn()

	end := base
	end.Kind = CallEnd
	end.Value = v
	end.Duration = time.Since(t0)
	end.Err = err
	sink.Record(ctx, end)
	return v, err
}

// Collector keeps events in memory, mostly for tests and summaries.
type Collector struct {
	mu     sync.Mutex
	events []Event
}

func (c *Collector) Record(_ context.Context, ev Event) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.events = append(c.events, ev)
}

func (c *Collector) Events() []Event {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]Event, len(c.events))
	copy(out, c.events)
	return out
}
