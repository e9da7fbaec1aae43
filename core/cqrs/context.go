package cqrs

import "context"

type messageIDCtx struct{}

// WithMessageID attaches a message ID to the context for tracing and correlation.
func WithMessageID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, messageIDCtx{}, id)
}

// MessageID extracts the message ID from the context.
// Returns empty string if not present.
func MessageID(ctx context.Context) string {
	if id, ok := ctx.Value(messageIDCtx{}).(string); ok {
		return id
	}
	return ""
}

type messageNameCtx struct{}

// WithMessageName attaches a command or query name to the context for logging and metrics.
func WithMessageName(ctx context.Context, name string) context.Context {
	return context.WithValue(ctx, messageNameCtx{}, name)
}

// MessageName extracts the command or query name from the context.
// Returns empty string if not present.
func MessageName(ctx context.Context) string {
	if name, ok := ctx.Value(messageNameCtx{}).(string); ok {
		return name
	}
	return ""
}
