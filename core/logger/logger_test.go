package logger_test

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/callkit/core/logger"
)

func TestNew(t *testing.T) {
	t.Parallel()

	t.Run("text by default", func(t *testing.T) {
		t.Parallel()
		var buf bytes.Buffer
		log := logger.New(logger.WithOutput(&buf))

		log.Debug("hidden")
		log.Info("dispatched", logger.Request("rates.get"))

		out := buf.String()
		assert.NotContains(t, out, "hidden")
		assert.Contains(t, out, "msg=dispatched")
		assert.Contains(t, out, "request=rates.get")
	})

	t.Run("production is json with service attrs", func(t *testing.T) {
		t.Parallel()
		var buf bytes.Buffer
		log := logger.New(logger.WithProduction("billing"), logger.WithOutput(&buf))

		log.Debug("hidden")
		log.Info("ready")

		lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
		require.Len(t, lines, 1)

		var record map[string]any
		require.NoError(t, json.Unmarshal([]byte(lines[0]), &record))
		assert.Equal(t, "ready", record["msg"])
		assert.Equal(t, "billing", record["service"])
		assert.Equal(t, "production", record["env"])
	})

	t.Run("development logs debug", func(t *testing.T) {
		t.Parallel()
		var buf bytes.Buffer
		log := logger.New(logger.WithDevelopment("billing"), logger.WithOutput(&buf))

		log.Debug("visible")
		assert.Contains(t, buf.String(), "visible")
		assert.Contains(t, buf.String(), "env=development")
	})

	t.Run("level and attrs", func(t *testing.T) {
		t.Parallel()
		var buf bytes.Buffer
		log := logger.New(
			logger.WithStaging("billing"),
			logger.WithTextFormatter(),
			logger.WithLevel(slog.LevelWarn),
			logger.WithAttr(slog.String("region", "eu")),
			logger.WithOutput(&buf),
		)

		log.Info("hidden")
		log.Warn("shown")
		assert.NotContains(t, buf.String(), "hidden")
		assert.Contains(t, buf.String(), "region=eu")
	})

	t.Run("json formatter", func(t *testing.T) {
		t.Parallel()
		var buf bytes.Buffer
		logger.New(logger.WithJSONFormatter(), logger.WithOutput(&buf)).Info("x")
		assert.True(t, json.Valid(bytes.TrimSpace(buf.Bytes())))
	})
}

func TestDiscard(t *testing.T) {
	t.Parallel()
	assert.NotPanics(t, func() { logger.Discard().Error("dropped", logger.Error(nil)) })
}
