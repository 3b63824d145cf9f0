// Package trace records integration calls and jobs to pluggable sinks.
//
// A Sink has one method. Callers pick the concrete sink (a text stream, a
// structured logger, Prometheus collectors) and pass it in; nothing in this
// package inspects its argument to decide how to log.
package trace

import (
	"context"
	"time"
)

type Kind string

const (
	CallStart Kind = "call_start"
	CallEnd   Kind = "call_end"
	JobStart  Kind = "job_start"
	JobEnd    Kind = "job_end"
	// BatchEnd follows the JobEnd events of one executor batch and carries
	// its wall time. Executors run jobs as a unit, so JobEnd has no duration.
	BatchEnd Kind = "batch_end"
)

// Event describes one step of an integration call. Job is -1 for call and
// batch events.
type Event struct {
	Kind     Kind
	Mode     string
	Func     string
	Job      int
	A, B     float64
	N        int
	Value    float64
	Duration time.Duration
	Err      error
}

type Sink interface {
	Record(ctx context.Context, ev Event)
}

// SinkFunc adapts a function to Sink.
type SinkFunc func(ctx context.Context, ev Event)

func (f SinkFunc) Record(ctx context.Context, ev Event) { f(ctx, ev) }

// Discard drops every event.
var Discard Sink = SinkFunc(func(context.Context, Event) {})

type multi []Sink

func (m multi) Record(ctx context.Context, ev Event) {
	for _, s := range m {
		s.Record(ctx, ev)
	}
}

// Multi fans every event out to all sinks, in order. Nil sinks are skipped.
func Multi(sinks ...Sink) Sink {
	out := make(multi, 0, len(sinks))
	for _, s := range sinks {
		if s != nil {
			out = append(out, s)
		}
	}
	if len(out) == 1 {
		return out[0]
	}
	return out
}
