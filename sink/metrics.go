// Copyright 2021 The resilient Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package sink

import (
	"time"

	"github.com/gogama/resilient"
	"github.com/prometheus/client_golang/prometheus"
)

const outcomeSuccess = "success"

// MetricsConfig configures the metrics a Metrics sink registers.
type MetricsConfig struct {
	// Namespace is the Prometheus namespace of every metric. If empty,
	// "resilient" is used.
	Namespace string
	// Subsystem is the Prometheus subsystem of every metric.
	Subsystem string
	// Buckets are the upper bounds, in seconds, of the attempt duration
	// histogram buckets. If nil, prometheus.DefBuckets is used.
	Buckets []float64
}

// A Metrics sink counts attempts, retries and failures, and observes
// attempt durations, labeled by call name.
//
// Metrics registered:
//
//	<ns>_attempts_total{name,outcome}        outcome is "success" or the failure kind
//	<ns>_calls_failed_total{name,kind}       calls which ended in failure
//	<ns>_retries_succeeded_total{name}       calls which succeeded after a failure
//	<ns>_attempt_duration_seconds{name}      attempt duration histogram
//	<ns>_backoff_seconds_total{name}         time spent in announced backoff waits
type Metrics struct {
	attempts  *prometheus.CounterVec
	failed    *prometheus.CounterVec
	recovered *prometheus.CounterVec
	duration  *prometheus.HistogramVec
	backoff   *prometheus.CounterVec
}

// NewMetrics creates a Metrics sink and registers its collectors with
// reg. If reg is nil, prometheus.DefaultRegisterer is used.
func NewMetrics(reg prometheus.Registerer, cfg MetricsConfig) (*Metrics, error) {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	if cfg.Namespace == "" {
		cfg.Namespace = "resilient"
	}
	if cfg.Buckets == nil {
		cfg.Buckets = prometheus.DefBuckets
	}

	m := &Metrics{
		attempts: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: cfg.Namespace,
			Subsystem: cfg.Subsystem,
			Name:      "attempts_total",
			Help:      "Total number of attempts, by call name and outcome.",
		}, []string{"name", "outcome"}),
		failed: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: cfg.Namespace,
			Subsystem: cfg.Subsystem,
			Name:      "calls_failed_total",
			Help:      "Total number of calls which ended in failure, by call name and failure kind.",
		}, []string{"name", "kind"}),
		recovered: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: cfg.Namespace,
			Subsystem: cfg.Subsystem,
			Name:      "retries_succeeded_total",
			Help:      "Total number of calls which succeeded after at least one failed attempt.",
		}, []string{"name"}),
		duration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: cfg.Namespace,
			Subsystem: cfg.Subsystem,
			Name:      "attempt_duration_seconds",
			Help:      "Duration of individual attempts in seconds.",
			Buckets:   cfg.Buckets,
		}, []string{"name"}),
		backoff: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: cfg.Namespace,
			Subsystem: cfg.Subsystem,
			Name:      "backoff_seconds_total",
			Help:      "Total time in seconds spent in announced backoff waits.",
		}, []string{"name"}),
	}

	for _, c := range []prometheus.Collector{m.attempts, m.failed, m.recovered, m.duration, m.backoff} {
		if err := reg.Register(c); err != nil {
			return nil, err
		}
	}

	return m, nil
}

// AttemptSucceeded counts a successful attempt.
func (m *Metrics) AttemptSucceeded(e *resilient.Execution, o resilient.Outcome) {
	m.attempts.WithLabelValues(e.Name, outcomeSuccess).Inc()
	m.duration.WithLabelValues(e.Name).Observe(o.Duration.Seconds())
}

// AttemptFailed counts a failed attempt, and the failed call if the
// attempt was the last.
func (m *Metrics) AttemptFailed(e *resilient.Execution, o resilient.Outcome) {
	m.attempts.WithLabelValues(e.Name, o.Kind.String()).Inc()
	m.duration.WithLabelValues(e.Name).Observe(o.Duration.Seconds())
	if o.Disposition == resilient.Final {
		m.failed.WithLabelValues(e.Name, o.Kind.String()).Inc()
	}
}

// RetrySucceeded counts a call which succeeded after retrying.
func (m *Metrics) RetrySucceeded(e *resilient.Execution) {
	m.recovered.WithLabelValues(e.Name).Inc()
}

// Waiting adds d to the backoff time.
func (m *Metrics) Waiting(e *resilient.Execution, d time.Duration) {
	m.backoff.WithLabelValues(e.Name).Add(d.Seconds())
}

// WaitCanceled counts a call whose context ended during a backoff wait
// as failed, with the kind of its last attempt.
func (m *Metrics) WaitCanceled(e *resilient.Execution, _ error) {
	m.failed.WithLabelValues(e.Name, e.Last().Kind.String()).Inc()
}
