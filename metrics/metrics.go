// Package metrics records rotation runs in Prometheus.
package metrics

import (
	"errors"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Recorder receives run outcomes from the hosts.
type Recorder interface {
	// RecordRun counts a run; stage is "" on success, else the failed stage.
	RecordRun(stage string, elapsed time.Duration)
	// RecordAssignments observes how many business days one run assigned.
	RecordAssignments(n int)
}

// NopRecorder discards everything.
type NopRecorder struct{}

func (NopRecorder) RecordRun(string, time.Duration) {}
func (NopRecorder) RecordAssignments(int)           {}

// PromRecorder implements Recorder with Prometheus collectors.
type PromRecorder struct {
	runs        *prometheus.CounterVec
	duration    prometheus.Histogram
	assignments prometheus.Histogram
}

// NewPromRecorder registers the run collectors on reg. A nil registerer
// defaults to the global Prometheus registerer. Registering twice on the
// same registerer reuses the existing collectors.
func NewPromRecorder(reg prometheus.Registerer) (*PromRecorder, error) {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	runs := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "reparto_runs_total",
		Help: "Rotation runs by outcome",
	}, []string{"outcome", "stage"})
	duration := prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "reparto_run_duration_seconds",
		Help:    "Wall time of one rotation run",
		Buckets: prometheus.DefBuckets,
	})
	assignments := prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "reparto_assignments_per_run",
		Help:    "Business days assigned by one run",
		Buckets: prometheus.ExponentialBuckets(5, 2, 10),
	})

	var err error
	if runs, err = register(reg, runs); err != nil {
		return nil, err
	}
	if duration, err = register(reg, duration); err != nil {
		return nil, err
	}
	if assignments, err = register(reg, assignments); err != nil {
		return nil, err
	}
	return &PromRecorder{runs: runs, duration: duration, assignments: assignments}, nil
}

func register[C prometheus.Collector](reg prometheus.Registerer, c C) (C, error) {
	if err := reg.Register(c); err != nil {
		var are prometheus.AlreadyRegisteredError
		if errors.As(err, &are) {
			if existing, ok := are.ExistingCollector.(C); ok {
				return existing, nil
			}
		}
		return c, err
	}
	return c, nil
}

func (r *PromRecorder) RecordRun(stage string, elapsed time.Duration) {
	outcome := "success"
	if stage != "" {
		outcome = "failure"
	}
	r.runs.WithLabelValues(outcome, stage).Inc()
	r.duration.Observe(elapsed.Seconds())
}

func (r *PromRecorder) RecordAssignments(n int) {
	r.assignments.Observe(float64(n))
}
