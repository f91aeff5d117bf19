package authz

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/innkeep/innkeep/internal/store"
	"github.com/innkeep/innkeep/pkg/reqcache"
	"github.com/innkeep/innkeep/pkg/tenant"
	"github.com/innkeep/innkeep/pkg/token"
)

// DefaultStoreTimeout bounds every individual store call. A store that does
// not answer in time yields an Invalid verdict, never a hung request and
// never a Valid one.
const DefaultStoreTimeout = 3 * time.Second

// Engine runs the authorization decision procedures against a store.
// It is stateless across requests and safe for concurrent use.
type Engine struct {
	store   store.Store
	log     *slog.Logger
	timeout time.Duration
	now     func() time.Time
}

// Option configures the engine.
type Option func(*Engine)

// WithLogger sets the logger used for verdicts and store failures.
func WithLogger(log *slog.Logger) Option {
	return func(e *Engine) {
		if log != nil {
			e.log = log
		}
	}
}

// WithStoreTimeout bounds each store call.
func WithStoreTimeout(d time.Duration) Option {
	return func(e *Engine) {
		if d > 0 {
			e.timeout = d
		}
	}
}

// WithClock overrides the time source. Tests use this to cross expiry
// boundaries deterministically.
func WithClock(now func() time.Time) Option {
	return func(e *Engine) {
		if now != nil {
			e.now = now
		}
	}
}

// New creates an engine on the given store.
func New(s store.Store, opts ...Option) *Engine {
	e := &Engine{
		store:   s,
		log:     slog.Default(),
		timeout: DefaultStoreTimeout,
		now:     time.Now,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// AuthorizeTenant decides whether the subdomain identifies a tenant that may
// serve guest traffic. The verdict is memoized for the request.
func (e *Engine) AuthorizeTenant(ctx context.Context, subdomain string) TenantResult {
	return memoized(ctx, "authz:tenant:"+subdomain, func() TenantResult {
		t, err := fetch(ctx, e.timeout, func(ctx context.Context) (*tenant.Tenant, error) {
			return e.store.GetTenantBySubdomain(ctx, subdomain)
		})
		switch {
		case errors.Is(err, store.ErrNotFound):
			e.deny(ctx, ReasonTenantNotFound, slog.String("subdomain", subdomain))
			return TenantResult{Reason: ReasonTenantNotFound}
		case err != nil:
			e.storeFailure(ctx, err, slog.String("subdomain", subdomain))
			return TenantResult{Reason: ReasonStoreUnavailable}
		case !t.IsActive():
			e.deny(ctx, ReasonTenantInactive, slog.String("subdomain", subdomain))
			return TenantResult{Reason: ReasonTenantInactive}
		}
		return TenantResult{Tenant: t}
	})
}

// AuthorizeCheckIn decides whether tokenStr admits the caller to ten's
// check-in flow. Malformed tokens are rejected without touching the store.
// An active token found past its expiry is lazily transitioned
// active -> expired; the write is an idempotent set. The row is fetched
// whatever its status so that a concurrent request whose read lands after
// another request's expiry write still reads TokenExpired, never
// TokenNotFound. The whole verdict, including the mutation, is memoized for
// the request.
func (e *Engine) AuthorizeCheckIn(ctx context.Context, tokenStr string, ten *tenant.Tenant) CheckInResult {
	if !token.IsValidShape(tokenStr) {
		e.deny(ctx, ReasonMalformedToken)
		return CheckInResult{Reason: ReasonMalformedToken}
	}

	return memoized(ctx, "authz:checkin:"+ten.ID.String()+":"+tokenStr, func() CheckInResult {
		grant, err := fetch(ctx, e.timeout, func(ctx context.Context) (*store.TokenGrant, error) {
			return e.store.GetGuestToken(ctx, tokenStr, ten.ID)
		})
		switch {
		case errors.Is(err, store.ErrNotFound):
			// Wrong tenant and unknown token are the same absence here; the
			// lookup key already folds them together.
			e.deny(ctx, ReasonTokenNotFound)
			return CheckInResult{Reason: ReasonTokenNotFound}
		case err != nil:
			e.storeFailure(ctx, err)
			return CheckInResult{Reason: ReasonStoreUnavailable}
		}

		switch grant.Token.Status {
		case store.TokenActive:
			if token.IsExpired(grant.Token.ExpiresAt, e.now()) {
				e.expireToken(ctx, grant.Token.ID)
				e.deny(ctx, ReasonTokenExpired, slog.String("token_id", grant.Token.ID.String()))
				return CheckInResult{Reason: ReasonTokenExpired}
			}
			return CheckInResult{Grant: grant}
		case store.TokenExpired:
			// Another request already persisted the transition; the verdict
			// is the same and no second write is needed.
			e.deny(ctx, ReasonTokenExpired, slog.String("token_id", grant.Token.ID.String()))
			return CheckInResult{Reason: ReasonTokenExpired}
		default:
			e.deny(ctx, ReasonTokenNotFound)
			return CheckInResult{Reason: ReasonTokenNotFound}
		}
	})
}

// AuthorizeGuestSession decides whether sessionToken admits the caller to
// ten's guest app. A session for another tenant and a missing session are
// deliberately indistinguishable. On success the session's last-activity
// timestamp is refreshed best-effort: a failed touch never invalidates the
// session. The verdict is memoized for the request.
func (e *Engine) AuthorizeGuestSession(ctx context.Context, sessionToken string, ten *tenant.Tenant) SessionResult {
	if sessionToken == "" {
		return SessionResult{Reason: ReasonSessionNotFound}
	}

	return memoized(ctx, "authz:session:"+ten.ID.String()+":"+sessionToken, func() SessionResult {
		grant, err := fetch(ctx, e.timeout, func(ctx context.Context) (*store.SessionGrant, error) {
			return e.store.GetGuestSession(ctx, sessionToken)
		})
		switch {
		case errors.Is(err, store.ErrNotFound):
			e.deny(ctx, ReasonSessionNotFound)
			return SessionResult{Reason: ReasonSessionNotFound}
		case err != nil:
			e.storeFailure(ctx, err)
			return SessionResult{Reason: ReasonStoreUnavailable}
		case grant.Session.TenantID != ten.ID:
			e.deny(ctx, ReasonSessionNotFound, slog.String("session_tenant", grant.Session.TenantID.String()))
			return SessionResult{Reason: ReasonSessionNotFound}
		}

		if token.IsExpired(grant.Session.ExpiresAt, e.now()) {
			e.deny(ctx, ReasonSessionExpired, slog.String("session_id", grant.Session.ID.String()))
			return SessionResult{Reason: ReasonSessionExpired}
		}

		e.touchSession(ctx, grant.Session.ID)
		return SessionResult{Grant: grant}
	})
}

// expireToken performs the lazy active -> expired transition.
// Failure is logged and otherwise ignored: the verdict is already
// TokenExpired, and the next request over this token will retry the write.
// Runs detached from request cancellation so an abandoned request still
// persists the transition it observed.
func (e *Engine) expireToken(ctx context.Context, tokenID uuid.UUID) {
	tctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), e.timeout)
	defer cancel()
	if err := e.store.SetTokenStatus(tctx, tokenID, store.TokenExpired); err != nil {
		e.log.ErrorContext(ctx, "failed to persist token expiry",
			slog.String("token_id", tokenID.String()), slog.Any("error", err))
	}
}

// touchSession refreshes last activity, best-effort.
func (e *Engine) touchSession(ctx context.Context, sessionID uuid.UUID) {
	tctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), e.timeout)
	defer cancel()
	if err := e.store.TouchSessionActivity(tctx, sessionID, e.now()); err != nil {
		e.log.WarnContext(ctx, "failed to refresh session activity", slog.Any("error", err))
	}
}

func (e *Engine) deny(ctx context.Context, reason Reason, attrs ...slog.Attr) {
	args := make([]any, 0, len(attrs)+1)
	args = append(args, slog.String("reason", string(reason)))
	for _, a := range attrs {
		args = append(args, a)
	}
	e.log.InfoContext(ctx, "authorization denied", args...)
}

func (e *Engine) storeFailure(ctx context.Context, err error, attrs ...slog.Attr) {
	args := make([]any, 0, len(attrs)+1)
	args = append(args, slog.Any("error", err))
	for _, a := range attrs {
		args = append(args, a)
	}
	e.log.ErrorContext(ctx, "authorization store unavailable", args...)
}

// fetch runs one store read under the engine's timeout.
func fetch[T any](ctx context.Context, timeout time.Duration, fn func(context.Context) (T, error)) (T, error) {
	tctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()
	return fn(tctx)
}

// memoized routes a verdict computation through the request cache, if one is
// attached to the context. Without a cache the computation runs directly.
func memoized[T any](ctx context.Context, key string, fn func() T) T {
	v, _ := reqcache.Memo(reqcache.FromContext(ctx), key, func() (T, error) {
		return fn(), nil
	})
	return v
}
