package trace

import (
	"context"

	"github.com/prometheus/client_golang/prometheus"
)

// MetricsSink turns end events into Prometheus samples.
type MetricsSink struct {
	jobs          *prometheus.CounterVec
	batchDuration *prometheus.HistogramVec
	calls         *prometheus.CounterVec
	callDuration  *prometheus.HistogramVec
}

// NewMetricsSink creates the collectors and registers them with reg.
func NewMetricsSink(reg prometheus.Registerer) (*MetricsSink, error) {
	m := &MetricsSink{
		jobs: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "quadbench",
			Name:      "jobs_total",
			Help:      "Integration jobs finished, by mode and outcome.",
		}, []string{"mode", "outcome"}),
		batchDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "quadbench",
			Name:      "batch_duration_seconds",
			Help:      "Wall-clock time of one executor batch, observed once per batch.",
			Buckets:   prometheus.ExponentialBuckets(1e-5, 4, 12),
		}, []string{"mode"}),
		calls: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "quadbench",
			Name:      "calls_total",
			Help:      "Integration calls finished, by mode and outcome.",
		}, []string{"mode", "outcome"}),
		callDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "quadbench",
			Name:      "call_duration_seconds",
			Help:      "Wall-clock time of whole integration calls.",
			Buckets:   prometheus.ExponentialBuckets(1e-5, 4, 12),
		}, []string{"mode"}),
	}

	for _, c := range []prometheus.Collector{m.jobs, m.batchDuration, m.calls, m.callDuration} {
		if err := reg.Register(c); err != nil {
			return nil, err
		}
	}
	return m, nil
}

func outcome(err error) string {
	if err != nil {
		return "error"
	}
	return "ok"
}

func (m *MetricsSink) Record(_ context.Context, ev Event) {
	switch ev.Kind {
	case JobEnd:
		m.jobs.WithLabelValues(ev.Mode, outcome(ev.Err)).Inc()
	case BatchEnd:
		m.batchDuration.WithLabelValues(ev.Mode).Observe(ev.Duration.Seconds())
	case CallEnd:
		m.calls.WithLabelValues(ev.Mode, outcome(ev.Err)).Inc()
		m.callDuration.WithLabelValues(ev.Mode).Observe(ev.Duration.Seconds())
	}
}
