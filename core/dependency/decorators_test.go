package dependency_test

import (
	"bytes"
	"context"
	"log/slog"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/time/rate"

	"github.com/dmitrymomot/callkit/core/dependency"
)

func TestTimeout(t *testing.T) {
	t.Parallel()

	t.Run("returns response within timeout", func(t *testing.T) {
		t.Parallel()

		reg := dependency.NewRegistry()
		dependency.Register(reg, func(ctx context.Context, req Ping) (string, error) {
			return "pong", nil
		})
		dependency.Decorate(reg, dependency.Timeout[Ping, string](time.Second))

		d := newDispatcher(t, reg)

		resp, err := dependency.Dispatch(context.Background(), d, Ping{})
		require.NoError(t, err)
		assert.Equal(t, "pong", resp)
	})

	t.Run("fails slow calls with timeout", func(t *testing.T) {
		t.Parallel()

		reg := dependency.NewRegistry()
		dependency.Register(reg, func(ctx context.Context, req Ping) (string, error) {
			time.Sleep(300 * time.Millisecond)
			return "late", nil
		})
		dependency.Decorate(reg, dependency.Timeout[Ping, string](20*time.Millisecond))

		metrics := &recordingMetrics{}
		d := newDispatcher(t, reg, dependency.WithMetrics(metrics))

		_, err := dependency.Dispatch(context.Background(), d, Ping{})
		require.ErrorIs(t, err, dependency.ErrTimeout)

		var dispatchErr *dependency.DispatchError
		require.ErrorAs(t, err, &dispatchErr)
		assert.Equal(t, dependency.StagePolicy, dispatchErr.Stage)
		assert.Equal(t, []string{"failed"}, metrics.outcomes())
	})
}

func TestRateLimit(t *testing.T) {
	t.Parallel()

	t.Run("rejects calls that cannot be admitted before deadline", func(t *testing.T) {
		t.Parallel()

		var calls atomic.Int32
		reg := dependency.NewRegistry()
		dependency.Register(reg, func(ctx context.Context, req Ping) (string, error) {
			calls.Add(1)
			return "pong", nil
		})
		dependency.Decorate(reg, dependency.RateLimit[Ping, string](rate.NewLimiter(rate.Every(time.Hour), 1)))

		d := newDispatcher(t, reg)

		_, err := dependency.Dispatch(context.Background(), d, Ping{})
		require.NoError(t, err)

		ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
		defer cancel()

		_, err = dependency.Dispatch(ctx, d, Ping{})
		require.ErrorIs(t, err, dependency.ErrRateLimited)
		assert.Equal(t, int32(1), calls.Load())
	})
}

func TestValidationMiddleware(t *testing.T) {
	t.Parallel()

	var calls atomic.Int32
	reg := dependency.NewRegistry()
	dependency.Register(reg, func(ctx context.Context, req GetRate) (Rate, error) {
		calls.Add(1)
		return Rate{Value: 1}, nil
	})

	d := newDispatcher(t, reg,
		dependency.WithMiddleware(dependency.ValidationMiddleware(nil)),
		dependency.WithDefaultPolicy(dependency.NewPolicy(
			dependency.WithRetry(3),
			dependency.WithBackoff(time.Millisecond, time.Millisecond),
		)),
	)

	t.Run("valid request reaches implementation", func(t *testing.T) {
		_, err := dependency.Dispatch(context.Background(), d, GetRate{From: "EUR", To: "USD"})
		require.NoError(t, err)
	})

	t.Run("invalid request fails permanently", func(t *testing.T) {
		before := calls.Load()

		_, err := dependency.Dispatch(context.Background(), d, GetRate{From: "EURO"})
		require.ErrorIs(t, err, dependency.ErrInvalidRequest)
		assert.True(t, dependency.IsPermanent(err))
		assert.Equal(t, before, calls.Load())
	})
}

func TestLoggingMiddleware(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	log := slog.New(slog.NewJSONHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))

	reg := dependency.NewRegistry()
	dependency.Register(reg, func(ctx context.Context, req Ping) (string, error) {
		return "", errUpstream
	})

	d := newDispatcher(t, reg, dependency.WithMiddleware(dependency.LoggingMiddleware(log)))

	_, err := dependency.Dispatch(context.Background(), d, Ping{})
	require.Error(t, err)

	out := buf.String()
	assert.Contains(t, out, "dependency call started")
	assert.Contains(t, out, "dependency call attempt failed")
	assert.Contains(t, out, `"request":"test.ping"`)
	assert.Contains(t, out, `"attempt":1`)
	assert.Contains(t, out, "call_id")
}
