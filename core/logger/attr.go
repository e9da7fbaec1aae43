package logger

import (
	"log/slog"
	"strconv"
	"time"
)

// Attribute helpers use the empty Attr pattern for nil safety.
// This allows calls like log.Info("msg", logger.Error(err)) without explicit nil checks.

// Group creates a group of attributes under a single key.
func Group(name string, attrs ...slog.Attr) slog.Attr {
	return slog.Attr{Key: name, Value: slog.GroupValue(attrs...)}
}

// ============================================================================
// Error Handling
// ============================================================================

// Errors groups multiple non-nil errors under the key "errors".
// Uses index-based keys to preserve error order. Returns empty Attr for all nil errors.
func Errors(errs ...error) slog.Attr {
	as := make([]slog.Attr, 0, len(errs))
	for i, err := range errs {
		if err != nil {
			as = append(as, slog.Any(strconv.Itoa(i), err))
		}
	}
	if len(as) == 0 {
		return slog.Attr{}
	}
	return slog.Attr{Key: "errors", Value: slog.GroupValue(as...)}
}

// Error creates an attribute for a single error under the key "error".
// Returns empty Attr for nil errors.
func Error(err error) slog.Attr {
	if err == nil {
		return slog.Attr{}
	}
	return slog.Any("error", err)
}

// ============================================================================
// Timing
// ============================================================================

// Duration creates an attribute for a duration.
func Duration(d time.Duration) slog.Attr {
	return slog.Duration("duration", d)
}

// Elapsed calculates and logs the duration since the start time.
func Elapsed(start time.Time) slog.Attr {
	return slog.Duration("elapsed", time.Since(start))
}

// RetryDelay creates an attribute for the wait before the next attempt.
func RetryDelay(d time.Duration) slog.Attr {
	return slog.Duration("retry_delay", d)
}

// ============================================================================
// Dispatch
// ============================================================================

// Request creates an attribute for a dependency request kind.
func Request(kind string) slog.Attr {
	if kind == "" {
		return slog.Attr{}
	}
	return slog.String("request", kind)
}

// Message creates an attribute for a command or query name.
func Message(name string) slog.Attr {
	if name == "" {
		return slog.Attr{}
	}
	return slog.String("message", name)
}

// CallID creates an attribute for a dispatch correlation ID.
func CallID(id string) slog.Attr {
	if id == "" {
		return slog.Attr{}
	}
	return slog.String("call_id", id)
}

// Attempt creates an attribute for the 1-based attempt number.
// Returns empty Attr for zero.
func Attempt(n int) slog.Attr {
	if n <= 0 {
		return slog.Attr{}
	}
	return slog.Int("attempt", n)
}

// Outcome creates an attribute for a terminal dispatch outcome.
func Outcome(outcome string) slog.Attr {
	return slog.String("outcome", outcome)
}

// ============================================================================
// Generic Metadata
// ============================================================================

// Component creates an attribute for component names.
func Component(name string) slog.Attr {
	return slog.String("component", name)
}

// Key creates a generic key-value attribute.
func Key(key string, value any) slog.Attr {
	if value == nil {
		return slog.Attr{}
	}
	return slog.Any(key, value)
}
