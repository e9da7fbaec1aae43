package cqrs

import "errors"

var (
	// ErrNoHandler is returned when a message has no registered handler.
	ErrNoHandler = errors.New("no handler registered for message")

	// ErrDuplicateHandler is used when a second handler is registered for the same message.
	ErrDuplicateHandler = errors.New("handler already registered for message")

	// ErrHandlerPanic is returned when a handler panics.
	ErrHandlerPanic = errors.New("handler panicked")

	// ErrInvalidMessage is returned by ValidationMiddleware for messages failing validation.
	ErrInvalidMessage = errors.New("invalid message")

	// ErrResultType is returned when a query handler chain yields a value of the wrong type.
	ErrResultType = errors.New("unexpected query result type")

	// ErrTimeout is returned by the timeout decorators.
	ErrTimeout = errors.New("handler timeout")
)
