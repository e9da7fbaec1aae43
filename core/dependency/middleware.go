package dependency

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/dmitrymomot/callkit/core/logger"
)

// LoggingMiddleware returns a middleware that logs every attempt.
// It logs the request kind, call ID, attempt number, duration and any error.
//
// Example:
//
//	d, _ := dependency.NewDispatcher(reg,
//	    dependency.WithMiddleware(dependency.LoggingMiddleware(logger)),
//	)
func LoggingMiddleware(log *slog.Logger) Middleware {
	return func(next Call) Call {
		return func(ctx context.Context, req Kinded) (any, error) {
			start := time.Now()
			attrs := []any{
				logger.Request(req.Kind().String()),
				logger.CallID(CallID(ctx)),
				logger.Attempt(Attempt(ctx)),
			}

			log.DebugContext(ctx, "dependency call started", attrs...)

			resp, err := next(ctx, req)
			attrs = append(attrs, logger.Elapsed(start))

			if err != nil {
				log.WarnContext(ctx, "dependency call attempt failed", append(attrs, logger.Error(err))...)
				return resp, err
			}

			log.DebugContext(ctx, "dependency call completed", attrs...)
			return resp, nil
		}
	}
}

// ValidationMiddleware validates every request struct before the call.
// Invalid requests fail with ErrInvalidRequest and are never retried.
// A nil validate uses validator.New with required struct validation enabled.
//
// Example:
//
//	type GetRate struct {
//	    dependency.Returns[Rate]
//	    From string `validate:"required,len=3"`
//	    To   string `validate:"required,len=3"`
//	}
func ValidationMiddleware(validate *validator.Validate) Middleware {
	if validate == nil {
		validate = validator.New(validator.WithRequiredStructEnabled())
	}

	return func(next Call) Call {
		return func(ctx context.Context, req Kinded) (any, error) {
			if err := validate.StructCtx(ctx, req); err != nil {
				return nil, Permanent(fmt.Errorf("%w: %s: %w", ErrInvalidRequest, req.Kind(), err))
			}
			return next(ctx, req)
		}
	}
}
