package reqcache

import "context"

// contextKey is a private type to prevent collisions with other context keys.
type contextKey struct{}

// WithCache attaches a fresh request cache to the context.
func WithCache(ctx context.Context) context.Context {
	return context.WithValue(ctx, contextKey{}, New())
}

// FromContext retrieves the request cache from the context.
// Returns nil when no cache is attached; a nil cache executes computations
// directly, so callers never need to branch.
func FromContext(ctx context.Context) *Cache {
	c, _ := ctx.Value(contextKey{}).(*Cache)
	return c
}
