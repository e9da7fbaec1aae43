package opentelemetry

import (
	"context"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/dmitrymomot/callkit/core/dependency"
)

// TracingMiddleware starts one client span per attempt, named "dependency <kind>".
// Failed attempts record the error and set the span status to Error.
// A nil tracer uses the global tracer provider.
//
// Example:
//
//	d, _ := dependency.NewDispatcher(reg,
//	    dependency.WithMiddleware(opentelemetry.TracingMiddleware(tp.Tracer("billing"))),
//	)
func TracingMiddleware(tracer trace.Tracer) dependency.Middleware {
	if tracer == nil {
		tracer = otel.Tracer(ScopeName)
	}

	return func(next dependency.Call) dependency.Call {
		return func(ctx context.Context, req dependency.Kinded) (any, error) {
			kind := req.Kind().String()
			ctx, span := tracer.Start(ctx, "dependency "+kind,
				trace.WithSpanKind(trace.SpanKindClient),
				trace.WithAttributes(
					attrKind.String(kind),
					attrCallID.String(dependency.CallID(ctx)),
					attrAttempt.Int(dependency.Attempt(ctx)),
				),
			)
			defer span.End()

			resp, err := next(ctx, req)
			if err != nil {
				span.RecordError(err)
				span.SetStatus(codes.Error, err.Error())
				return resp, err
			}

			span.SetStatus(codes.Ok, "")
			return resp, nil
		}
	}
}
