package cqrs

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/dmitrymomot/callkit/core/logger"
)

// LoggingMiddleware returns a middleware that logs message handling.
// It logs the message name, message ID, duration and any error.
//
// Example:
//
//	bus := cqrs.NewBus(cqrs.WithMiddleware(cqrs.LoggingMiddleware(logger)))
func LoggingMiddleware(log *slog.Logger) Middleware {
	return func(next HandlerFunc) HandlerFunc {
		return func(ctx context.Context, msg any) (any, error) {
			start := time.Now()
			name := MessageName(ctx)
			id := logger.Key("message_id", MessageID(ctx))

			log.InfoContext(ctx, "message started", logger.Message(name), id)

			result, err := next(ctx, msg)
			if err != nil {
				log.ErrorContext(ctx, "message failed",
					logger.Message(name),
					id,
					logger.Elapsed(start),
					logger.Error(err))
				return result, err
			}

			log.InfoContext(ctx, "message completed",
				logger.Message(name),
				id,
				logger.Elapsed(start))
			return result, nil
		}
	}
}

// ValidationMiddleware validates every message struct before its handler runs.
// A nil validate uses validator.New with required struct validation enabled.
func ValidationMiddleware(validate *validator.Validate) Middleware {
	if validate == nil {
		validate = validator.New(validator.WithRequiredStructEnabled())
	}

	return func(next HandlerFunc) HandlerFunc {
		return func(ctx context.Context, msg any) (any, error) {
			if err := validate.StructCtx(ctx, msg); err != nil {
				return nil, fmt.Errorf("%w: %s: %w", ErrInvalidMessage, MessageName(ctx), err)
			}
			return next(ctx, msg)
		}
	}
}
