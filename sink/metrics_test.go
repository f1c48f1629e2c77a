// Copyright 2021 The resilient Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package sink

import (
	"context"
	"strings"
	"testing"

	"github.com/gogama/resilient"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewMetrics(t *testing.T) {
	t.Run("duplicate registration", func(t *testing.T) {
		reg := prometheus.NewRegistry()
		_, err := NewMetrics(reg, MetricsConfig{})
		require.NoError(t, err)
		_, err = NewMetrics(reg, MetricsConfig{})
		assert.Error(t, err)
	})
	t.Run("namespace", func(t *testing.T) {
		reg := prometheus.NewRegistry()
		m, err := NewMetrics(reg, MetricsConfig{Namespace: "app", Subsystem: "db"})
		require.NoError(t, err)
		m.RetrySucceeded(&resilient.Execution{Name: "Lookup"})
		expected := `
# HELP app_db_retries_succeeded_total Total number of calls which succeeded after at least one failed attempt.
# TYPE app_db_retries_succeeded_total counter
app_db_retries_succeeded_total{name="Lookup"} 1
`
		assert.NoError(t, testutil.GatherAndCompare(reg, strings.NewReader(expected), "app_db_retries_succeeded_total"))
	})
}

func TestMetrics(t *testing.T) {
	reg := prometheus.NewRegistry()
	m, err := NewMetrics(reg, MetricsConfig{})
	require.NoError(t, err)

	require.NoError(t, runScript(t, context.Background(), m, 3, errTransient, errTransient))
	assert.ErrorIs(t, runScript(t, context.Background(), m, 3, errFatal), errFatal)

	assert.Equal(t, float64(2), testutil.ToFloat64(m.attempts.WithLabelValues("Lookup", "Transient")))
	assert.Equal(t, float64(1), testutil.ToFloat64(m.attempts.WithLabelValues("Lookup", "success")))
	assert.Equal(t, float64(1), testutil.ToFloat64(m.attempts.WithLabelValues("Lookup", "NonRetryable")))
	assert.Equal(t, float64(1), testutil.ToFloat64(m.failed.WithLabelValues("Lookup", "NonRetryable")))
	assert.Equal(t, float64(0), testutil.ToFloat64(m.failed.WithLabelValues("Lookup", "Transient")))
	assert.Equal(t, float64(1), testutil.ToFloat64(m.recovered.WithLabelValues("Lookup")))
	assert.InDelta(t, 0.010, testutil.ToFloat64(m.backoff.WithLabelValues("Lookup")), 1e-9)
	assert.Equal(t, 1, testutil.CollectAndCount(m.duration))

	n, err := testutil.GatherAndCount(reg, "resilient_attempt_duration_seconds")
	require.NoError(t, err)
	assert.Equal(t, 1, n)
}

func TestMetrics_CallEndedEarly(t *testing.T) {
	reg := prometheus.NewRegistry()
	m, err := NewMetrics(reg, MetricsConfig{})
	require.NoError(t, err)

	assert.ErrorIs(t, runCanceled(t, context.Background(), m), context.DeadlineExceeded)
	assert.ErrorIs(t, runRefreshFailure(t, m), errRefresh)

	assert.Equal(t, float64(2), testutil.ToFloat64(m.attempts.WithLabelValues("Lookup", "Transient")))
	assert.Equal(t, float64(2), testutil.ToFloat64(m.failed.WithLabelValues("Lookup", "Transient")))
	assert.Equal(t, float64(0), testutil.ToFloat64(m.recovered.WithLabelValues("Lookup")))
	assert.Equal(t, float64(3600), testutil.ToFloat64(m.backoff.WithLabelValues("Lookup")))
}
