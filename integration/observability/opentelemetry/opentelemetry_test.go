package opentelemetry_test

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/metric/metricdata"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/callkit/core/dependency"
	"github.com/dmitrymomot/callkit/core/logger"
	"github.com/dmitrymomot/callkit/integration/observability/opentelemetry"
)

func counterValues(t *testing.T, reader *sdkmetric.ManualReader) map[string]int64 {
	t.Helper()

	var rm metricdata.ResourceMetrics
	require.NoError(t, reader.Collect(context.Background(), &rm))

	values := make(map[string]int64)
	for _, sm := range rm.ScopeMetrics {
		for _, m := range sm.Metrics {
			if m.Name != "dependency.calls" {
				continue
			}
			sum, ok := m.Data.(metricdata.Sum[int64])
			require.True(t, ok)
			for _, dp := range sum.DataPoints {
				kind, _ := dp.Attributes.Value("dependency.kind")
				outcome, _ := dp.Attributes.Value("dependency.outcome")
				values[kind.AsString()+"/"+outcome.AsString()] = dp.Value
			}
		}
	}
	return values
}

func TestMetrics(t *testing.T) {
	t.Parallel()

	reader := sdkmetric.NewManualReader()
	provider := sdkmetric.NewMeterProvider(sdkmetric.WithReader(reader))

	m, err := opentelemetry.NewMetrics(provider.Meter("test"))
	require.NoError(t, err)

	m.Succeeded("rates.get", 10*time.Millisecond)
	m.Succeeded("rates.get", 10*time.Millisecond)
	m.Failed("rates.get", fmt.Errorf("%w: 1s", dependency.ErrTimeout), time.Second)
	m.Failed("quotes.get", errors.New("boom"), time.Millisecond)
	m.Fallback("quotes.get", time.Millisecond)

	assert.Equal(t, map[string]int64{
		"rates.get/succeeded": 2,
		"rates.get/timeout":   1,
		"quotes.get/failed":   1,
		"quotes.get/fallback": 1,
	}, counterValues(t, reader))
}

type Ping struct {
	dependency.Returns[string]
}

func (Ping) Kind() dependency.Kind { return "health.ping" }

func TestTracingMiddleware(t *testing.T) {
	t.Parallel()

	recorder := tracetest.NewSpanRecorder()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(recorder))

	var calls int
	reg := dependency.NewRegistry()
	dependency.Register(reg, func(ctx context.Context, _ Ping) (string, error) {
		calls++
		if calls == 1 {
			return "", errors.New("flaky")
		}
		return "pong", nil
	})

	d, err := dependency.NewDispatcher(reg,
		dependency.WithLogger(logger.Discard()),
		dependency.WithMiddleware(opentelemetry.TracingMiddleware(tp.Tracer("test"))),
		dependency.WithDefaultPolicy(dependency.NewPolicy(
			dependency.WithRetry(1),
			dependency.WithBackoff(time.Millisecond, time.Millisecond),
		)),
	)
	require.NoError(t, err)

	resp, err := dependency.Dispatch(dependency.WithCallID(context.Background(), "call-1"), d, Ping{})
	require.NoError(t, err)
	assert.Equal(t, "pong", resp)

	spans := recorder.Ended()
	require.Len(t, spans, 2)

	for i, span := range spans {
		assert.Equal(t, "dependency health.ping", span.Name())
		assert.Contains(t, span.Attributes(), attribute.String("dependency.call_id", "call-1"))
		assert.Contains(t, span.Attributes(), attribute.Int("dependency.attempt", i+1))
	}

	assert.Equal(t, codes.Error, spans[0].Status().Code)
	require.NotEmpty(t, spans[0].Events())
	assert.Equal(t, "exception", spans[0].Events()[0].Name)
	assert.Equal(t, codes.Ok, spans[1].Status().Code)
}

func TestNewMetricsGlobalMeter(t *testing.T) {
	t.Parallel()

	m, err := opentelemetry.NewMetrics(nil)
	require.NoError(t, err)
	m.Succeeded("rates.get", time.Millisecond)
}
