package cqrs

import (
	"context"
	"fmt"
)

// CommandHandler handles one command type.
type CommandHandler[C Command] func(ctx context.Context, cmd C) error

// QueryHandler handles one query type.
type QueryHandler[Q Query[R], R any] func(ctx context.Context, q Q) (R, error)

// CommandDecorator wraps a CommandHandler of the same command type.
type CommandDecorator[C Command] func(next CommandHandler[C]) CommandHandler[C]

// QueryDecorator wraps a QueryHandler of the same query type.
type QueryDecorator[Q Query[R], R any] func(next QueryHandler[Q, R]) QueryHandler[Q, R]

// HandlerFunc is the type-erased handler seen by middleware.
// Commands produce a nil result.
type HandlerFunc func(ctx context.Context, msg any) (any, error)

// Middleware wraps every handler on a Bus.
type Middleware func(next HandlerFunc) HandlerFunc

// ApplyCommandDecorators wraps h with decorators.
// The first decorator is the outermost (executed first).
func ApplyCommandDecorators[C Command](h CommandHandler[C], decorators ...CommandDecorator[C]) CommandHandler[C] {
	for i := len(decorators) - 1; i >= 0; i-- {
		h = decorators[i](h)
	}
	return h
}

// ApplyQueryDecorators wraps h with decorators.
// The first decorator is the outermost (executed first).
func ApplyQueryDecorators[Q Query[R], R any](h QueryHandler[Q, R], decorators ...QueryDecorator[Q, R]) QueryHandler[Q, R] {
	for i := len(decorators) - 1; i >= 0; i-- {
		h = decorators[i](h)
	}
	return h
}

func eraseCommand[C Command](h CommandHandler[C]) HandlerFunc {
	return func(ctx context.Context, msg any) (any, error) {
		cmd, ok := msg.(C)
		if !ok {
			return nil, fmt.Errorf("%w: got %T", ErrNoHandler, msg)
		}
		return nil, h(ctx, cmd)
	}
}

func eraseQuery[Q Query[R], R any](h QueryHandler[Q, R]) HandlerFunc {
	return func(ctx context.Context, msg any) (any, error) {
		q, ok := msg.(Q)
		if !ok {
			return nil, fmt.Errorf("%w: got %T", ErrNoHandler, msg)
		}
		return h(ctx, q)
	}
}

// chainMiddleware applies multiple middleware in order.
// The first middleware in the slice is the outermost (executed first).
func chainMiddleware(h HandlerFunc, middleware []Middleware) HandlerFunc {
	for i := len(middleware) - 1; i >= 0; i-- {
		h = middleware[i](h)
	}
	return h
}

// safeHandle executes a handler with panic recovery.
func safeHandle(ctx context.Context, name string, h HandlerFunc, msg any) (result any, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("%w: %s: %v", ErrHandlerPanic, name, r)
		}
	}()
	return h(ctx, msg)
}
