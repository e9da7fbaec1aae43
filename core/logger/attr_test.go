package logger_test

import (
	"errors"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/callkit/core/logger"
)

func TestGroup(t *testing.T) {
	t.Parallel()
	attr := logger.Group("req", slog.String("id", "1"), slog.Int("n", 2))
	require.Equal(t, "req", attr.Key)
	require.Equal(t, slog.KindGroup, attr.Value.Kind())
	g := attr.Value.Group()
	require.Len(t, g, 2)
	assert.Equal(t, "id", g[0].Key)
	assert.Equal(t, "n", g[1].Key)
}

// ============================================================================
// Error Handling Tests
// ============================================================================

func TestErrors(t *testing.T) {
	t.Parallel()
	err1 := errors.New("first")
	err2 := errors.New("second")

	attr := logger.Errors(err1, nil, err2)
	require.Equal(t, "errors", attr.Key)
	require.Equal(t, slog.KindGroup, attr.Value.Kind())
	g := attr.Value.Group()
	require.Len(t, g, 2)
	assert.Equal(t, "0", g[0].Key)
	assert.Equal(t, "2", g[1].Key)
	assert.Equal(t, err2, g[1].Value.Any())

	empty := logger.Errors(nil, nil)
	assert.True(t, empty.Equal(slog.Attr{}))
}

func TestError(t *testing.T) {
	t.Parallel()
	err := errors.New("boom")
	attr := logger.Error(err)
	require.Equal(t, "error", attr.Key)
	assert.Equal(t, err, attr.Value.Any())

	assert.True(t, logger.Error(nil).Equal(slog.Attr{}))
}

// ============================================================================
// Timing Tests
// ============================================================================

func TestTiming(t *testing.T) {
	t.Parallel()

	d := logger.Duration(150 * time.Millisecond)
	assert.Equal(t, "duration", d.Key)
	assert.Equal(t, 150*time.Millisecond, d.Value.Duration())

	e := logger.Elapsed(time.Now().Add(-time.Second))
	assert.Equal(t, "elapsed", e.Key)
	assert.GreaterOrEqual(t, e.Value.Duration(), time.Second)

	r := logger.RetryDelay(time.Second)
	assert.Equal(t, "retry_delay", r.Key)
}

// ============================================================================
// Dispatch Tests
// ============================================================================

func TestDispatchAttrs(t *testing.T) {
	t.Parallel()

	assert.Equal(t, slog.String("request", "rates.get"), logger.Request("rates.get"))
	assert.True(t, logger.Request("").Equal(slog.Attr{}))

	assert.Equal(t, slog.String("message", "create_invoice"), logger.Message("create_invoice"))
	assert.True(t, logger.Message("").Equal(slog.Attr{}))

	assert.Equal(t, slog.String("call_id", "abc"), logger.CallID("abc"))
	assert.True(t, logger.CallID("").Equal(slog.Attr{}))

	assert.Equal(t, slog.Int("attempt", 2), logger.Attempt(2))
	assert.True(t, logger.Attempt(0).Equal(slog.Attr{}))

	assert.Equal(t, slog.String("outcome", "fallback"), logger.Outcome("fallback"))
}

func TestKey(t *testing.T) {
	t.Parallel()

	assert.Equal(t, slog.String("component", "dispatcher"), logger.Component("dispatcher"))
	assert.Equal(t, "tenant", logger.Key("tenant", "acme").Key)
	assert.True(t, logger.Key("tenant", nil).Equal(slog.Attr{}))
}
