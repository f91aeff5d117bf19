package store

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/innkeep/innkeep/pkg/tenant"
)

// ErrNotFound is returned by every lookup that matches no row.
var ErrNotFound = errors.New("store: not found")

// Store is the authorization store consumed by the edge.
type Store interface {
	// GetTenantBySubdomain returns the tenant owning a subdomain, whatever
	// its status; the engine decides whether an inactive tenant may serve.
	GetTenantBySubdomain(ctx context.Context, subdomain string) (*tenant.Tenant, error)

	// GetTenantByID loads a tenant by primary key, for operator flows that
	// start from a token rather than a hostname.
	GetTenantByID(ctx context.Context, id uuid.UUID) (*tenant.Tenant, error)

	// GetGuestToken returns the token matching the token string within one
	// tenant, whatever its status; the engine decides how each status reads.
	// The tenant is part of the lookup key, not a post-hoc filter: a token
	// minted for tenant A must never load under tenant B.
	GetGuestToken(ctx context.Context, token string, tenantID uuid.UUID) (*TokenGrant, error)

	// SetTokenStatus sets a token's status unconditionally. It is an
	// idempotent last-write-wins update: concurrent callers racing to mark
	// the same token expired are all fine.
	SetTokenStatus(ctx context.Context, tokenID uuid.UUID, status TokenStatus) error

	// CreateGuestSession persists a freshly minted session. Called once at
	// the end of a successful check-in.
	CreateGuestSession(ctx context.Context, session *GuestSession) error

	// GetGuestSession returns the session matching a session token,
	// regardless of tenant; the engine enforces tenant match so absence and
	// mismatch stay indistinguishable to callers.
	GetGuestSession(ctx context.Context, token string) (*SessionGrant, error)

	// TouchSessionActivity refreshes a session's last-activity timestamp.
	TouchSessionActivity(ctx context.Context, sessionID uuid.UUID, at time.Time) error

	// FindCheckedInGuest locates a checked-in guest by last name and current
	// room number within one tenant. This is the minibar order identity
	// proof.
	FindCheckedInGuest(ctx context.Context, tenantID uuid.UUID, lastName, roomNumber string) (*Guest, error)

	// GetGuestTokenByID loads a token grant by primary key, for operator
	// flows such as re-sending a check-in link.
	GetGuestTokenByID(ctx context.Context, tokenID uuid.UUID) (*TokenGrant, error)

	// GetOperatorByEmail loads an operator account for portal login.
	GetOperatorByEmail(ctx context.Context, email string) (*Operator, error)
}
