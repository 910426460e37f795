package core

import "context"

// Context keys for load options
type contextKey string

const suppressHeaderKey contextKey = "suppressHeader"

// WithSuppressHeader marks the context so that loads do not print their header line.
func WithSuppressHeader(ctx context.Context) context.Context {
	return context.WithValue(ctx, suppressHeaderKey, true)
}

// shouldSuppressHeader returns whether headers should be suppressed from context
func shouldSuppressHeader(ctx context.Context) bool {
	val := ctx.Value(suppressHeaderKey)
	if val == nil {
		return false // default: show headers
	}
	suppress, ok := val.(bool)
	return ok && suppress
}
