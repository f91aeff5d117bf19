package authz

import (
	"github.com/innkeep/innkeep/internal/store"
	"github.com/innkeep/innkeep/pkg/tenant"
)

// Reason identifies why a check came back Invalid. Reasons are logged
// server-side only; they never reach the guest-visible response.
type Reason string

const (
	ReasonTenantNotFound   Reason = "tenant_not_found"
	ReasonTenantInactive   Reason = "tenant_inactive"
	ReasonMalformedToken   Reason = "malformed_token"
	ReasonTokenNotFound    Reason = "token_not_found"
	ReasonTokenExpired     Reason = "token_expired"
	ReasonSessionNotFound  Reason = "session_not_found"
	ReasonSessionExpired   Reason = "session_expired"
	ReasonStoreUnavailable Reason = "store_unavailable"
)

// TenantResult is the verdict of AuthorizeTenant.
type TenantResult struct {
	Tenant *tenant.Tenant
	Reason Reason
}

// Valid reports whether the tenant may serve this request.
func (r TenantResult) Valid() bool { return r.Reason == "" }

// CheckInResult is the verdict of AuthorizeCheckIn.
type CheckInResult struct {
	Grant  *store.TokenGrant
	Reason Reason
}

// Valid reports whether the check-in token was accepted.
func (r CheckInResult) Valid() bool { return r.Reason == "" }

// SessionResult is the verdict of AuthorizeGuestSession.
type SessionResult struct {
	Grant  *store.SessionGrant
	Reason Reason
}

// Valid reports whether the guest session was accepted.
func (r SessionResult) Valid() bool { return r.Reason == "" }
