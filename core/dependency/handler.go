package dependency

import (
	"context"
	"fmt"
)

// HandlerFunc is the call implementation for one request type.
type HandlerFunc[Req Request[Resp], Resp any] func(ctx context.Context, req Req) (Resp, error)

// FallbackFunc is the alternate path for a request type.
// It receives the error that made the primary call fail.
type FallbackFunc[Req Request[Resp], Resp any] func(ctx context.Context, req Req, cause error) (Resp, error)

// Decorator wraps a call implementation of the same request type.
type Decorator[Req Request[Resp], Resp any] func(next HandlerFunc[Req, Resp]) HandlerFunc[Req, Resp]

// Call is the type-erased form of a call implementation.
type Call func(ctx context.Context, req Kinded) (any, error)

// Middleware wraps every route of a Dispatcher.
// Middleware can be used for logging, tracing, validation, etc.
type Middleware func(next Call) Call

// fallbackCall is the type-erased form of a FallbackFunc.
type fallbackCall func(ctx context.Context, req Kinded, cause error) (any, error)

func eraseHandler[Req Request[Resp], Resp any](h HandlerFunc[Req, Resp]) Call {
	return func(ctx context.Context, req Kinded) (any, error) {
		typed, ok := req.(Req)
		if !ok {
			return nil, Permanent(fmt.Errorf("%w: %T for kind %s", ErrRequestMismatch, req, req.Kind()))
		}
		return h(ctx, typed)
	}
}

func eraseFallback[Req Request[Resp], Resp any](fb FallbackFunc[Req, Resp]) fallbackCall {
	return func(ctx context.Context, req Kinded, cause error) (any, error) {
		typed, ok := req.(Req)
		if !ok {
			return nil, fmt.Errorf("%w: %T for kind %s", ErrRequestMismatch, req, req.Kind())
		}
		return fb(ctx, typed, cause)
	}
}

// eraseDecorator lifts a typed decorator onto the erased call chain.
func eraseDecorator[Req Request[Resp], Resp any](dec Decorator[Req, Resp]) func(Call) Call {
	return func(next Call) Call {
		typedNext := func(ctx context.Context, req Req) (Resp, error) {
			v, err := next(ctx, req)
			if err != nil {
				var zero Resp
				return zero, err
			}
			return responseAs[Resp](req.Kind(), v)
		}
		return eraseHandler(dec(typedNext))
	}
}

// responseAs converts an erased response back to Resp.
func responseAs[Resp any](kind Kind, v any) (Resp, error) {
	var zero Resp
	if v == nil {
		return zero, nil
	}
	resp, ok := v.(Resp)
	if !ok {
		return zero, fmt.Errorf("%w: %s returned %T, want %T", ErrUnexpectedResponse, kind, v, zero)
	}
	return resp, nil
}

// chainMiddleware applies middleware in order.
// The first middleware in the slice is the outermost (executed first).
func chainMiddleware(call Call, middleware []Middleware) Call {
	for i := len(middleware) - 1; i >= 0; i-- {
		call = middleware[i](call)
	}
	return call
}

// safeCall executes a call with panic recovery.
// A panic is converted to a permanent error.
func safeCall(ctx context.Context, call Call, req Kinded) (resp any, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = Permanent(fmt.Errorf("%w: %s: %v", ErrPanic, req.Kind(), r))
		}
	}()
	return call(ctx, req)
}

func safeFallback(ctx context.Context, fb fallbackCall, req Kinded, cause error) (resp any, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("%w: fallback %s: %v", ErrPanic, req.Kind(), r)
		}
	}()
	return fb(ctx, req, cause)
}
