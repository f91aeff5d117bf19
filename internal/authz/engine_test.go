package authz_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/innkeep/innkeep/internal/authz"
	"github.com/innkeep/innkeep/internal/store"
	"github.com/innkeep/innkeep/internal/store/storetest"
	"github.com/innkeep/innkeep/pkg/reqcache"
	"github.com/innkeep/innkeep/pkg/tenant"
)

var fixedNow = time.Date(2026, 3, 15, 12, 0, 0, 0, time.UTC)

func clock() time.Time { return fixedNow }

func activeTenant(subdomain string) *tenant.Tenant {
	return &tenant.Tenant{
		ID:        uuid.New(),
		Subdomain: subdomain,
		Name:      subdomain,
		Status:    tenant.StatusActive,
		CreatedAt: fixedNow.Add(-30 * 24 * time.Hour),
	}
}

func tokenGrant(ten *tenant.Tenant, tok string, status store.TokenStatus, expiresAt time.Time) *store.TokenGrant {
	guestID := uuid.New()
	return &store.TokenGrant{
		Token: store.GuestToken{
			ID:        uuid.New(),
			TenantID:  ten.ID,
			GuestID:   guestID,
			Token:     tok,
			Status:    status,
			CreatedAt: fixedNow.Add(-24 * time.Hour),
			ExpiresAt: expiresAt,
		},
		Guest: store.Guest{
			ID:       guestID,
			TenantID: ten.ID,
			LastName: "Keller",
		},
	}
}

func sessionGrant(ten *tenant.Tenant, tok string, expiresAt time.Time) *store.SessionGrant {
	guestID := uuid.New()
	return &store.SessionGrant{
		Session: store.GuestSession{
			ID:        uuid.New(),
			TenantID:  ten.ID,
			GuestID:   guestID,
			Token:     tok,
			ExpiresAt: expiresAt,
			CreatedAt: fixedNow.Add(-time.Hour),
		},
		Guest: store.Guest{
			ID:        guestID,
			TenantID:  ten.ID,
			LastName:  "Keller",
			CheckedIn: true,
		},
	}
}

func TestAuthorizeTenant(t *testing.T) {
	t.Parallel()

	ctx := context.Background()

	t.Run("active tenant is valid", func(t *testing.T) {
		t.Parallel()

		st := storetest.New()
		ten := activeTenant("movenpick")
		st.AddTenant(ten)

		res := authz.New(st, authz.WithClock(clock)).AuthorizeTenant(ctx, "movenpick")
		require.True(t, res.Valid())
		assert.Equal(t, ten.ID, res.Tenant.ID)
	})

	t.Run("unknown subdomain", func(t *testing.T) {
		t.Parallel()

		res := authz.New(storetest.New(), authz.WithClock(clock)).AuthorizeTenant(ctx, "ghost")
		assert.False(t, res.Valid())
		assert.Equal(t, authz.ReasonTenantNotFound, res.Reason)
	})

	t.Run("inactive tenant", func(t *testing.T) {
		t.Parallel()

		st := storetest.New()
		ten := activeTenant("shuttered")
		ten.Status = tenant.StatusInactive
		st.AddTenant(ten)

		res := authz.New(st, authz.WithClock(clock)).AuthorizeTenant(ctx, "shuttered")
		assert.Equal(t, authz.ReasonTenantInactive, res.Reason)
		assert.Nil(t, res.Tenant)
	})

	t.Run("suspended tenant", func(t *testing.T) {
		t.Parallel()

		st := storetest.New()
		ten := activeTenant("overdue")
		ten.Status = tenant.StatusSuspended
		st.AddTenant(ten)

		res := authz.New(st, authz.WithClock(clock)).AuthorizeTenant(ctx, "overdue")
		assert.Equal(t, authz.ReasonTenantInactive, res.Reason)
	})

	t.Run("store failure fails closed", func(t *testing.T) {
		t.Parallel()

		st := storetest.New()
		st.AddTenant(activeTenant("movenpick"))
		st.FailWith = errors.New("connection refused")

		res := authz.New(st, authz.WithClock(clock)).AuthorizeTenant(ctx, "movenpick")
		assert.Equal(t, authz.ReasonStoreUnavailable, res.Reason)
	})

	t.Run("store timeout fails closed", func(t *testing.T) {
		t.Parallel()

		st := storetest.New()
		st.AddTenant(activeTenant("movenpick"))
		st.Delay = 200 * time.Millisecond

		eng := authz.New(st, authz.WithClock(clock), authz.WithStoreTimeout(10*time.Millisecond))
		res := eng.AuthorizeTenant(ctx, "movenpick")
		assert.Equal(t, authz.ReasonStoreUnavailable, res.Reason)
	})

	t.Run("memoized within a request", func(t *testing.T) {
		t.Parallel()

		st := storetest.New()
		st.AddTenant(activeTenant("movenpick"))
		eng := authz.New(st, authz.WithClock(clock))

		rctx := reqcache.WithCache(ctx)
		for range 5 {
			require.True(t, eng.AuthorizeTenant(rctx, "movenpick").Valid())
		}

		assert.Equal(t, 1, st.Calls("GetTenantBySubdomain"))
	})
}

func TestAuthorizeCheckIn(t *testing.T) {
	t.Parallel()

	ctx := context.Background()

	t.Run("active unexpired token is valid", func(t *testing.T) {
		t.Parallel()

		st := storetest.New()
		ten := activeTenant("movenpick")
		grant := tokenGrant(ten, "A13FB9K2M", store.TokenActive, fixedNow.Add(24*time.Hour))
		st.AddToken(grant)

		res := authz.New(st, authz.WithClock(clock)).AuthorizeCheckIn(ctx, "A13FB9K2M", ten)
		require.True(t, res.Valid())
		assert.Equal(t, grant.Token.ID, res.Grant.Token.ID)
		assert.Equal(t, "Keller", res.Grant.Guest.LastName)
	})

	t.Run("malformed token never reaches the store", func(t *testing.T) {
		t.Parallel()

		st := storetest.New()
		ten := activeTenant("movenpick")
		eng := authz.New(st, authz.WithClock(clock))

		for _, tok := range []string{"", "short", "has spaces!", "way-too-long-token", "../../etc"} {
			res := eng.AuthorizeCheckIn(ctx, tok, ten)
			assert.Equal(t, authz.ReasonMalformedToken, res.Reason, "token %q", tok)
		}

		assert.Zero(t, st.TotalCalls())
	})

	t.Run("unknown token", func(t *testing.T) {
		t.Parallel()

		ten := activeTenant("movenpick")
		res := authz.New(storetest.New(), authz.WithClock(clock)).AuthorizeCheckIn(ctx, "A13FB9K2M", ten)
		assert.Equal(t, authz.ReasonTokenNotFound, res.Reason)
	})

	t.Run("token scoped to another tenant", func(t *testing.T) {
		t.Parallel()

		st := storetest.New()
		owner := activeTenant("movenpick")
		other := activeTenant("kempinski")
		grant := tokenGrant(owner, "A13FB9K2M", store.TokenActive, fixedNow.Add(24*time.Hour))
		st.AddToken(grant)

		res := authz.New(st, authz.WithClock(clock)).AuthorizeCheckIn(ctx, "A13FB9K2M", other)
		assert.Equal(t, authz.ReasonTokenNotFound, res.Reason)

		// Cross-tenant probing must not mutate the owner's token.
		assert.Zero(t, st.Calls("SetTokenStatus"))
		assert.Equal(t, store.TokenActive, st.TokenStatus(grant.Token.ID))
	})

	t.Run("used token is not found", func(t *testing.T) {
		t.Parallel()

		st := storetest.New()
		ten := activeTenant("movenpick")
		st.AddToken(tokenGrant(ten, "A13FB9K2M", store.TokenUsed, fixedNow.Add(24*time.Hour)))

		res := authz.New(st, authz.WithClock(clock)).AuthorizeCheckIn(ctx, "A13FB9K2M", ten)
		assert.Equal(t, authz.ReasonTokenNotFound, res.Reason)
	})

	t.Run("revoked token is not found", func(t *testing.T) {
		t.Parallel()

		st := storetest.New()
		ten := activeTenant("movenpick")
		st.AddToken(tokenGrant(ten, "A13FB9K2M", store.TokenRevoked, fixedNow.Add(24*time.Hour)))

		res := authz.New(st, authz.WithClock(clock)).AuthorizeCheckIn(ctx, "A13FB9K2M", ten)
		assert.Equal(t, authz.ReasonTokenNotFound, res.Reason)
	})

	t.Run("already expired token needs no write", func(t *testing.T) {
		t.Parallel()

		st := storetest.New()
		ten := activeTenant("movenpick")
		st.AddToken(tokenGrant(ten, "A13FB9K2M", store.TokenExpired, fixedNow.Add(-time.Second)))

		res := authz.New(st, authz.WithClock(clock)).AuthorizeCheckIn(ctx, "A13FB9K2M", ten)
		assert.Equal(t, authz.ReasonTokenExpired, res.Reason)
		assert.Zero(t, st.Calls("SetTokenStatus"))
	})

	t.Run("expired token is lazily transitioned", func(t *testing.T) {
		t.Parallel()

		st := storetest.New()
		ten := activeTenant("movenpick")
		grant := tokenGrant(ten, "A13FB9K2M", store.TokenActive, fixedNow.Add(-time.Second))
		st.AddToken(grant)

		res := authz.New(st, authz.WithClock(clock)).AuthorizeCheckIn(ctx, "A13FB9K2M", ten)
		assert.Equal(t, authz.ReasonTokenExpired, res.Reason)
		assert.Equal(t, 1, st.Calls("SetTokenStatus"))
		assert.Equal(t, store.TokenExpired, st.TokenStatus(grant.Token.ID))
	})

	t.Run("clock decides expiry", func(t *testing.T) {
		t.Parallel()

		st := storetest.New()
		ten := activeTenant("movenpick")
		st.AddToken(tokenGrant(ten, "A13FB9K2M", store.TokenActive, fixedNow.Add(24*time.Hour)))

		future := func() time.Time { return fixedNow.Add(48 * time.Hour) }
		res := authz.New(st, authz.WithClock(future)).AuthorizeCheckIn(ctx, "A13FB9K2M", ten)
		assert.Equal(t, authz.ReasonTokenExpired, res.Reason)
	})

	t.Run("concurrent expiry is idempotent", func(t *testing.T) {
		t.Parallel()

		st := storetest.New()
		ten := activeTenant("movenpick")
		grant := tokenGrant(ten, "A13FB9K2M", store.TokenActive, fixedNow.Add(-time.Second))
		st.AddToken(grant)
		eng := authz.New(st, authz.WithClock(clock))

		// Independent requests race over the same just-expired token. A
		// request whose read lands after another request's expiry write must
		// still read TokenExpired, under every interleaving.
		results := make([]authz.CheckInResult, 8)
		var wg sync.WaitGroup
		for i := range results {
			wg.Add(1)
			go func() {
				defer wg.Done()
				results[i] = eng.AuthorizeCheckIn(reqcache.WithCache(ctx), "A13FB9K2M", ten)
			}()
		}
		wg.Wait()

		for _, res := range results {
			assert.Equal(t, authz.ReasonTokenExpired, res.Reason)
		}
		assert.Equal(t, store.TokenExpired, st.TokenStatus(grant.Token.ID))
		assert.GreaterOrEqual(t, st.Calls("SetTokenStatus"), 1)
	})

	t.Run("store failure fails closed", func(t *testing.T) {
		t.Parallel()

		st := storetest.New()
		ten := activeTenant("movenpick")
		st.AddToken(tokenGrant(ten, "A13FB9K2M", store.TokenActive, fixedNow.Add(24*time.Hour)))
		st.FailWith = errors.New("connection refused")

		res := authz.New(st, authz.WithClock(clock)).AuthorizeCheckIn(ctx, "A13FB9K2M", ten)
		assert.Equal(t, authz.ReasonStoreUnavailable, res.Reason)
	})

	t.Run("memoized within a request", func(t *testing.T) {
		t.Parallel()

		st := storetest.New()
		ten := activeTenant("movenpick")
		st.AddToken(tokenGrant(ten, "A13FB9K2M", store.TokenActive, fixedNow.Add(24*time.Hour)))
		eng := authz.New(st, authz.WithClock(clock))

		rctx := reqcache.WithCache(ctx)
		var wg sync.WaitGroup
		for range 20 {
			wg.Add(1)
			go func() {
				defer wg.Done()
				assert.True(t, eng.AuthorizeCheckIn(rctx, "A13FB9K2M", ten).Valid())
			}()
		}
		wg.Wait()

		assert.Equal(t, 1, st.Calls("GetGuestToken"))
	})
}

func TestAuthorizeGuestSession(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	const sessionToken = "5f4dcc3b5aa765d61d8327deb882cf995f4dcc3b5aa765d61d8327deb882cf99"

	t.Run("valid session refreshes activity", func(t *testing.T) {
		t.Parallel()

		st := storetest.New()
		ten := activeTenant("movenpick")
		grant := sessionGrant(ten, sessionToken, fixedNow.Add(72*time.Hour))
		st.AddSession(grant)

		res := authz.New(st, authz.WithClock(clock)).AuthorizeGuestSession(ctx, sessionToken, ten)
		require.True(t, res.Valid())
		assert.Equal(t, grant.Session.ID, res.Grant.Session.ID)
		assert.Equal(t, fixedNow, st.SessionActivity(sessionToken))
	})

	t.Run("empty token never reaches the store", func(t *testing.T) {
		t.Parallel()

		st := storetest.New()
		ten := activeTenant("movenpick")

		res := authz.New(st, authz.WithClock(clock)).AuthorizeGuestSession(ctx, "", ten)
		assert.Equal(t, authz.ReasonSessionNotFound, res.Reason)
		assert.Zero(t, st.TotalCalls())
	})

	t.Run("unknown session", func(t *testing.T) {
		t.Parallel()

		ten := activeTenant("movenpick")
		res := authz.New(storetest.New(), authz.WithClock(clock)).AuthorizeGuestSession(ctx, sessionToken, ten)
		assert.Equal(t, authz.ReasonSessionNotFound, res.Reason)
	})

	t.Run("session for another tenant reads as not found", func(t *testing.T) {
		t.Parallel()

		st := storetest.New()
		owner := activeTenant("movenpick")
		other := activeTenant("kempinski")
		st.AddSession(sessionGrant(owner, sessionToken, fixedNow.Add(72*time.Hour)))

		res := authz.New(st, authz.WithClock(clock)).AuthorizeGuestSession(ctx, sessionToken, other)
		assert.Equal(t, authz.ReasonSessionNotFound, res.Reason)
		assert.Zero(t, st.Calls("TouchSessionActivity"))
	})

	t.Run("expired session", func(t *testing.T) {
		t.Parallel()

		st := storetest.New()
		ten := activeTenant("movenpick")
		st.AddSession(sessionGrant(ten, sessionToken, fixedNow.Add(-time.Minute)))

		res := authz.New(st, authz.WithClock(clock)).AuthorizeGuestSession(ctx, sessionToken, ten)
		assert.Equal(t, authz.ReasonSessionExpired, res.Reason)
		assert.Zero(t, st.Calls("TouchSessionActivity"))
	})

	t.Run("failed activity touch does not invalidate", func(t *testing.T) {
		t.Parallel()

		st := storetest.New()
		ten := activeTenant("movenpick")
		st.AddSession(sessionGrant(ten, sessionToken, fixedNow.Add(72*time.Hour)))
		st.TouchErr = errors.New("write timeout")

		res := authz.New(st, authz.WithClock(clock)).AuthorizeGuestSession(ctx, sessionToken, ten)
		assert.True(t, res.Valid())
	})

	t.Run("store failure fails closed", func(t *testing.T) {
		t.Parallel()

		st := storetest.New()
		ten := activeTenant("movenpick")
		st.AddSession(sessionGrant(ten, sessionToken, fixedNow.Add(72*time.Hour)))
		st.FailWith = errors.New("connection refused")

		res := authz.New(st, authz.WithClock(clock)).AuthorizeGuestSession(ctx, sessionToken, ten)
		assert.Equal(t, authz.ReasonStoreUnavailable, res.Reason)
	})

	t.Run("memoized within a request", func(t *testing.T) {
		t.Parallel()

		st := storetest.New()
		ten := activeTenant("movenpick")
		st.AddSession(sessionGrant(ten, sessionToken, fixedNow.Add(72*time.Hour)))
		eng := authz.New(st, authz.WithClock(clock))

		rctx := reqcache.WithCache(ctx)
		for range 5 {
			require.True(t, eng.AuthorizeGuestSession(rctx, sessionToken, ten).Valid())
		}

		assert.Equal(t, 1, st.Calls("GetGuestSession"))
		assert.Equal(t, 1, st.Calls("TouchSessionActivity"))
	})
}
