package prometheus_test

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"

	prom "github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/callkit/core/dependency"
	"github.com/dmitrymomot/callkit/core/logger"
	"github.com/dmitrymomot/callkit/integration/observability/prometheus"
)

func TestMetricsOutcomes(t *testing.T) {
	t.Parallel()

	reg := prom.NewRegistry()
	m, err := prometheus.New(prometheus.WithRegisterer(reg))
	require.NoError(t, err)

	m.Succeeded("rates.get", 20*time.Millisecond)
	m.Succeeded("rates.get", 30*time.Millisecond)
	m.Failed("rates.get", errors.New("boom"), time.Millisecond)
	m.Failed("rates.get", fmt.Errorf("%w: 1s", dependency.ErrTimeout), time.Second)
	m.Fallback("rates.get", time.Millisecond)

	expected := `
# HELP callkit_dependency_calls_total Total dependency calls by terminal outcome.
# TYPE callkit_dependency_calls_total counter
callkit_dependency_calls_total{outcome="failed",request="rates.get"} 1
callkit_dependency_calls_total{outcome="fallback",request="rates.get"} 1
callkit_dependency_calls_total{outcome="succeeded",request="rates.get"} 2
callkit_dependency_calls_total{outcome="timeout",request="rates.get"} 1
`
	require.NoError(t, testutil.GatherAndCompare(reg, strings.NewReader(expected), "callkit_dependency_calls_total"))
	assert.Equal(t, 4, testutil.CollectAndCount(reg, "callkit_dependency_call_duration_seconds"))
}

func TestNewReusesRegisteredCollectors(t *testing.T) {
	t.Parallel()

	reg := prom.NewRegistry()
	first, err := prometheus.New(prometheus.WithRegisterer(reg))
	require.NoError(t, err)
	second, err := prometheus.New(prometheus.WithRegisterer(reg))
	require.NoError(t, err)

	first.Succeeded("rates.get", time.Millisecond)
	second.Succeeded("rates.get", time.Millisecond)

	expected := `
# HELP callkit_dependency_calls_total Total dependency calls by terminal outcome.
# TYPE callkit_dependency_calls_total counter
callkit_dependency_calls_total{outcome="succeeded",request="rates.get"} 2
`
	require.NoError(t, testutil.GatherAndCompare(reg, strings.NewReader(expected), "callkit_dependency_calls_total"))
}

func TestNewWithNamespace(t *testing.T) {
	t.Parallel()

	reg := prom.NewRegistry()
	m, err := prometheus.New(
		prometheus.WithRegisterer(reg),
		prometheus.WithNamespace("billing"),
		prometheus.WithSubsystem("upstream"),
		prometheus.WithBuckets(0.1, 1),
		prometheus.WithConstLabels(prom.Labels{"service": "api"}),
	)
	require.NoError(t, err)

	m.Fallback("quotes.get", time.Millisecond)
	assert.Equal(t, 1, testutil.CollectAndCount(reg, "billing_upstream_calls_total"))
}

type Ping struct {
	dependency.Returns[string]
}

func (Ping) Kind() dependency.Kind { return "health.ping" }

func TestMetricsWithDispatcher(t *testing.T) {
	t.Parallel()

	reg := prom.NewRegistry()
	m, err := prometheus.New(prometheus.WithRegisterer(reg))
	require.NoError(t, err)

	r := dependency.NewRegistry()
	dependency.Register(r, func(ctx context.Context, _ Ping) (string, error) { return "pong", nil })

	d, err := dependency.NewDispatcher(r, dependency.WithMetrics(m), dependency.WithLogger(logger.Discard()))
	require.NoError(t, err)

	for range 3 {
		_, err := dependency.Dispatch(context.Background(), d, Ping{})
		require.NoError(t, err)
	}

	expected := `
# HELP callkit_dependency_calls_total Total dependency calls by terminal outcome.
# TYPE callkit_dependency_calls_total counter
callkit_dependency_calls_total{outcome="succeeded",request="health.ping"} 3
`
	require.NoError(t, testutil.GatherAndCompare(reg, strings.NewReader(expected), "callkit_dependency_calls_total"))
}
