package edge

import (
	"context"

	"github.com/innkeep/innkeep/internal/store"
)

// Internal headers set on the forwarded request for downstream consumption.
// Request-scoped propagation only; the edge keeps no process-wide state.
const (
	HeaderTenant  = "X-Innkeep-Tenant"
	HeaderGuest   = "X-Innkeep-Guest"
	HeaderSession = "X-Innkeep-Session"
)

// Cookie names used by the edge.
const (
	GuestSessionCookie    = "innkeep_guest_session"
	OperatorSessionCookie = "innkeep_operator"
)

type tokenGrantKey struct{}
type sessionGrantKey struct{}

// WithTokenGrant attaches a validated check-in grant to the context.
func WithTokenGrant(ctx context.Context, grant *store.TokenGrant) context.Context {
	return context.WithValue(ctx, tokenGrantKey{}, grant)
}

// TokenGrantFromContext retrieves the validated check-in grant, if any.
func TokenGrantFromContext(ctx context.Context) (*store.TokenGrant, bool) {
	g, ok := ctx.Value(tokenGrantKey{}).(*store.TokenGrant)
	return g, ok
}

// WithSessionGrant attaches a validated guest session grant to the context.
func WithSessionGrant(ctx context.Context, grant *store.SessionGrant) context.Context {
	return context.WithValue(ctx, sessionGrantKey{}, grant)
}

// SessionGrantFromContext retrieves the validated session grant, if any.
func SessionGrantFromContext(ctx context.Context) (*store.SessionGrant, bool) {
	g, ok := ctx.Value(sessionGrantKey{}).(*store.SessionGrant)
	return g, ok
}
