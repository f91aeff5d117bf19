// Package postgres implements the authorization store on PostgreSQL via pgx.
package postgres

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/innkeep/innkeep/internal/store"
	"github.com/innkeep/innkeep/pkg/pg"
	"github.com/innkeep/innkeep/pkg/tenant"
)

// Store is the pgx-backed authorization store.
type Store struct {
	pool *pgxpool.Pool
}

// New creates a store on the given pool.
func New(pool *pgxpool.Pool) *Store {
	return &Store{pool: pool}
}

var _ store.Store = (*Store)(nil)

func (s *Store) GetTenantBySubdomain(ctx context.Context, subdomain string) (*tenant.Tenant, error) {
	const q = `
		SELECT id, subdomain, name, status, created_at
		FROM tenants
		WHERE subdomain = $1`

	var t tenant.Tenant
	err := s.pool.QueryRow(ctx, q, subdomain).
		Scan(&t.ID, &t.Subdomain, &t.Name, &t.Status, &t.CreatedAt)
	if err != nil {
		if pg.IsNotFound(err) {
			return nil, store.ErrNotFound
		}
		return nil, err
	}
	return &t, nil
}

func (s *Store) GetTenantByID(ctx context.Context, id uuid.UUID) (*tenant.Tenant, error) {
	const q = `
		SELECT id, subdomain, name, status, created_at
		FROM tenants
		WHERE id = $1`

	var t tenant.Tenant
	err := s.pool.QueryRow(ctx, q, id).
		Scan(&t.ID, &t.Subdomain, &t.Name, &t.Status, &t.CreatedAt)
	if err != nil {
		if pg.IsNotFound(err) {
			return nil, store.ErrNotFound
		}
		return nil, err
	}
	return &t, nil
}

func (s *Store) CreateGuestSession(ctx context.Context, session *store.GuestSession) error {
	const q = `
		INSERT INTO guest_sessions
			(id, tenant_id, guest_id, booking_id, token, expires_at, last_activity_at, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`

	_, err := s.pool.Exec(ctx, q,
		session.ID, session.TenantID, session.GuestID, session.BookingID,
		session.Token, session.ExpiresAt, session.LastActivityAt, session.CreatedAt)
	return err
}

func (s *Store) GetGuestToken(ctx context.Context, token string, tenantID uuid.UUID) (*store.TokenGrant, error) {
	// The tenant id is part of the WHERE clause so a token minted for one
	// hotel can never load under another hotel's subdomain. The status is
	// deliberately not filtered: a row another request just marked expired
	// must still load so the verdict stays TokenExpired, not TokenNotFound.
	const q = `
		SELECT
			t.id, t.tenant_id, t.guest_id, t.token, t.status, t.created_at, t.expires_at,
			g.id, g.tenant_id, g.first_name, g.last_name, g.email, g.checked_in,
			b.id, b.room_number, b.room_type, b.check_in, b.check_out, b.guest_count, b.total_amount
		FROM guest_tokens t
		JOIN guests g ON g.id = t.guest_id
		LEFT JOIN LATERAL (
			SELECT id, room_number, room_type, check_in, check_out, guest_count, total_amount
			FROM bookings
			WHERE guest_id = g.id
			ORDER BY check_in DESC
			LIMIT 1
		) b ON true
		WHERE t.token = $1 AND t.tenant_id = $2`

	var (
		grant   store.TokenGrant
		booking store.Booking
		bID     *uuid.UUID
		bRoom   *string
		bType   *string
		bIn     *time.Time
		bOut    *time.Time
		bCount  *int
		bAmount *int64
	)
	err := s.pool.QueryRow(ctx, q, token, tenantID).Scan(
		&grant.Token.ID, &grant.Token.TenantID, &grant.Token.GuestID,
		&grant.Token.Token, &grant.Token.Status, &grant.Token.CreatedAt, &grant.Token.ExpiresAt,
		&grant.Guest.ID, &grant.Guest.TenantID, &grant.Guest.FirstName,
		&grant.Guest.LastName, &grant.Guest.Email, &grant.Guest.CheckedIn,
		&bID, &bRoom, &bType, &bIn, &bOut, &bCount, &bAmount,
	)
	if err != nil {
		if pg.IsNotFound(err) {
			return nil, store.ErrNotFound
		}
		return nil, err
	}

	if bID != nil {
		booking = store.Booking{
			ID:         *bID,
			RoomNumber: deref(bRoom), RoomType: deref(bType),
			CheckIn: derefTime(bIn), CheckOut: derefTime(bOut),
			GuestCount: derefInt(bCount), TotalAmount: derefInt64(bAmount),
		}
		grant.Booking = &booking
	}
	return &grant, nil
}

func (s *Store) SetTokenStatus(ctx context.Context, tokenID uuid.UUID, status store.TokenStatus) error {
	// Unconditional set: the lazy-expiry race resolves as last-write-wins
	// and writing the same status twice is harmless.
	const q = `UPDATE guest_tokens SET status = $2 WHERE id = $1`
	_, err := s.pool.Exec(ctx, q, tokenID, status)
	return err
}

func (s *Store) GetGuestSession(ctx context.Context, token string) (*store.SessionGrant, error) {
	const q = `
		SELECT
			s.id, s.tenant_id, s.guest_id, s.booking_id, s.token,
			s.expires_at, s.last_activity_at, s.created_at,
			g.id, g.tenant_id, g.first_name, g.last_name, g.email, g.checked_in,
			b.id, b.room_number, b.room_type, b.check_in, b.check_out, b.guest_count, b.total_amount
		FROM guest_sessions s
		JOIN guests g ON g.id = s.guest_id
		LEFT JOIN bookings b ON b.id = s.booking_id
		WHERE s.token = $1`

	var (
		grant   store.SessionGrant
		booking store.Booking
		bID     *uuid.UUID
		bRoom   *string
		bType   *string
		bIn     *time.Time
		bOut    *time.Time
		bCount  *int
		bAmount *int64
	)
	err := s.pool.QueryRow(ctx, q, token).Scan(
		&grant.Session.ID, &grant.Session.TenantID, &grant.Session.GuestID,
		&grant.Session.BookingID, &grant.Session.Token,
		&grant.Session.ExpiresAt, &grant.Session.LastActivityAt, &grant.Session.CreatedAt,
		&grant.Guest.ID, &grant.Guest.TenantID, &grant.Guest.FirstName,
		&grant.Guest.LastName, &grant.Guest.Email, &grant.Guest.CheckedIn,
		&bID, &bRoom, &bType, &bIn, &bOut, &bCount, &bAmount,
	)
	if err != nil {
		if pg.IsNotFound(err) {
			return nil, store.ErrNotFound
		}
		return nil, err
	}

	if bID != nil {
		booking = store.Booking{
			ID:         *bID,
			RoomNumber: deref(bRoom), RoomType: deref(bType),
			CheckIn: derefTime(bIn), CheckOut: derefTime(bOut),
			GuestCount: derefInt(bCount), TotalAmount: derefInt64(bAmount),
		}
		grant.Booking = &booking
	}
	return &grant, nil
}

func (s *Store) TouchSessionActivity(ctx context.Context, sessionID uuid.UUID, at time.Time) error {
	const q = `UPDATE guest_sessions SET last_activity_at = $2 WHERE id = $1`
	_, err := s.pool.Exec(ctx, q, sessionID, at)
	return err
}

func (s *Store) FindCheckedInGuest(ctx context.Context, tenantID uuid.UUID, lastName, roomNumber string) (*store.Guest, error) {
	const q = `
		SELECT g.id, g.tenant_id, g.first_name, g.last_name, g.email, g.checked_in
		FROM guests g
		JOIN bookings b ON b.guest_id = g.id
		WHERE g.tenant_id = $1
		  AND g.checked_in
		  AND lower(g.last_name) = lower($2)
		  AND b.room_number = $3
		  AND b.check_in <= now() AND b.check_out >= now()
		LIMIT 1`

	var g store.Guest
	err := s.pool.QueryRow(ctx, q, tenantID, lastName, roomNumber).
		Scan(&g.ID, &g.TenantID, &g.FirstName, &g.LastName, &g.Email, &g.CheckedIn)
	if err != nil {
		if pg.IsNotFound(err) {
			return nil, store.ErrNotFound
		}
		return nil, err
	}
	return &g, nil
}

func (s *Store) GetGuestTokenByID(ctx context.Context, tokenID uuid.UUID) (*store.TokenGrant, error) {
	const q = `
		SELECT
			t.id, t.tenant_id, t.guest_id, t.token, t.status, t.created_at, t.expires_at,
			g.id, g.tenant_id, g.first_name, g.last_name, g.email, g.checked_in
		FROM guest_tokens t
		JOIN guests g ON g.id = t.guest_id
		WHERE t.id = $1`

	var grant store.TokenGrant
	err := s.pool.QueryRow(ctx, q, tokenID).Scan(
		&grant.Token.ID, &grant.Token.TenantID, &grant.Token.GuestID,
		&grant.Token.Token, &grant.Token.Status, &grant.Token.CreatedAt, &grant.Token.ExpiresAt,
		&grant.Guest.ID, &grant.Guest.TenantID, &grant.Guest.FirstName,
		&grant.Guest.LastName, &grant.Guest.Email, &grant.Guest.CheckedIn,
	)
	if err != nil {
		if pg.IsNotFound(err) {
			return nil, store.ErrNotFound
		}
		return nil, err
	}
	return &grant, nil
}

func (s *Store) GetOperatorByEmail(ctx context.Context, email string) (*store.Operator, error) {
	const q = `
		SELECT id, email, name, password_hash
		FROM operators
		WHERE lower(email) = lower($1)`

	var op store.Operator
	err := s.pool.QueryRow(ctx, q, email).Scan(&op.ID, &op.Email, &op.Name, &op.PasswordHash)
	if err != nil {
		if pg.IsNotFound(err) {
			return nil, store.ErrNotFound
		}
		return nil, err
	}
	return &op, nil
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

func derefTime(t *time.Time) time.Time {
	if t == nil {
		return time.Time{}
	}
	return *t
}

func derefInt(i *int) int {
	if i == nil {
		return 0
	}
	return *i
}

func derefInt64(i *int64) int64 {
	if i == nil {
		return 0
	}
	return *i
}
