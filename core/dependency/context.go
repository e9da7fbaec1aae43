package dependency

import "context"

type callIDCtx struct{}

// WithCallID attaches a call ID to the context.
// Dispatch sets one on every call that does not already carry an ID.
func WithCallID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, callIDCtx{}, id)
}

// CallID extracts the call ID from the context.
// Returns empty string if not present.
func CallID(ctx context.Context) string {
	if id, ok := ctx.Value(callIDCtx{}).(string); ok {
		return id
	}
	return ""
}

type attemptCtx struct{}

func withAttempt(ctx context.Context, n int) context.Context {
	return context.WithValue(ctx, attemptCtx{}, n)
}

// Attempt returns the 1-based attempt number of the running call.
// Returns 0 outside of a policy.
func Attempt(ctx context.Context) int {
	if n, ok := ctx.Value(attemptCtx{}).(int); ok {
		return n
	}
	return 0
}
