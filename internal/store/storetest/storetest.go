// Package storetest provides an in-memory authorization store for tests,
// with per-method call counting so tests can assert how many round-trips a
// code path costs.
package storetest

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/innkeep/innkeep/internal/store"
	"github.com/innkeep/innkeep/pkg/tenant"
)

// Store is an in-memory store.Store. All methods are safe for concurrent
// use. Setting FailWith makes every method return that error, which is how
// tests simulate an unreachable database.
type Store struct {
	mu sync.Mutex

	tenants    map[string]*tenant.Tenant
	tenantByID map[uuid.UUID]*tenant.Tenant
	tokens     map[string]*store.TokenGrant
	tokenByID  map[uuid.UUID]*store.TokenGrant
	sessions   map[string]*store.SessionGrant
	guests     []*store.Guest
	guestRooms []string
	operators  map[string]*store.Operator

	created []*store.GuestSession
	calls   map[string]int

	FailWith error
	// TouchErr fails only TouchSessionActivity, leaving reads healthy.
	TouchErr error
	// Delay is applied to every call; tests use it to trip store timeouts.
	Delay time.Duration
}

// New creates an empty store.
func New() *Store {
	return &Store{
		tenants:    make(map[string]*tenant.Tenant),
		tenantByID: make(map[uuid.UUID]*tenant.Tenant),
		tokens:     make(map[string]*store.TokenGrant),
		tokenByID:  make(map[uuid.UUID]*store.TokenGrant),
		sessions:   make(map[string]*store.SessionGrant),
		operators:  make(map[string]*store.Operator),
		calls:      make(map[string]int),
	}
}

var _ store.Store = (*Store)(nil)

// AddTenant registers a tenant fixture.
func (s *Store) AddTenant(t *tenant.Tenant) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.tenants[t.Subdomain] = t
	s.tenantByID[t.ID] = t
}

// AddToken registers a token grant fixture.
func (s *Store) AddToken(grant *store.TokenGrant) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.tokens[tokenKey(grant.Token.TenantID, grant.Token.Token)] = grant
	s.tokenByID[grant.Token.ID] = grant
}

// AddSession registers a session grant fixture.
func (s *Store) AddSession(grant *store.SessionGrant) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sessions[grant.Session.Token] = grant
}

// AddGuest registers a checked-in guest fixture for minibar lookups.
// roomNumber is matched against FindCheckedInGuest's argument.
func (s *Store) AddGuest(g *store.Guest, roomNumber string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.guests = append(s.guests, g)
	s.guestRooms = append(s.guestRooms, roomNumber)
}

// AddOperator registers an operator fixture.
func (s *Store) AddOperator(op *store.Operator) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.operators[op.Email] = op
}

// Calls reports how many times the named method ran.
func (s *Store) Calls(method string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.calls[method]
}

// TotalCalls reports how many store methods ran in total.
func (s *Store) TotalCalls() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	total := 0
	for _, n := range s.calls {
		total += n
	}
	return total
}

// TokenStatus returns the current status of a token fixture.
func (s *Store) TokenStatus(tokenID uuid.UUID) store.TokenStatus {
	s.mu.Lock()
	defer s.mu.Unlock()
	if grant, ok := s.tokenByID[tokenID]; ok {
		return grant.Token.Status
	}
	return ""
}

// CreatedSessions returns sessions persisted through CreateGuestSession.
func (s *Store) CreatedSessions() []*store.GuestSession {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]*store.GuestSession(nil), s.created...)
}

// SessionActivity returns the last-activity timestamp of a session fixture.
func (s *Store) SessionActivity(token string) time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()
	if grant, ok := s.sessions[token]; ok {
		return grant.Session.LastActivityAt
	}
	return time.Time{}
}

func (s *Store) begin(ctx context.Context, method string) error {
	s.mu.Lock()
	s.calls[method]++
	err := s.FailWith
	delay := s.Delay
	s.mu.Unlock()

	if delay > 0 {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(delay):
		}
	}
	if err != nil {
		return err
	}
	return ctx.Err()
}

func (s *Store) GetTenantBySubdomain(ctx context.Context, subdomain string) (*tenant.Tenant, error) {
	if err := s.begin(ctx, "GetTenantBySubdomain"); err != nil {
		return nil, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if t, ok := s.tenants[subdomain]; ok {
		return t, nil
	}
	return nil, store.ErrNotFound
}

func (s *Store) GetTenantByID(ctx context.Context, id uuid.UUID) (*tenant.Tenant, error) {
	if err := s.begin(ctx, "GetTenantByID"); err != nil {
		return nil, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if t, ok := s.tenantByID[id]; ok {
		return t, nil
	}
	return nil, store.ErrNotFound
}

func (s *Store) GetGuestToken(ctx context.Context, token string, tenantID uuid.UUID) (*store.TokenGrant, error) {
	if err := s.begin(ctx, "GetGuestToken"); err != nil {
		return nil, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	grant, ok := s.tokens[tokenKey(tenantID, token)]
	if !ok {
		return nil, store.ErrNotFound
	}
	return grant, nil
}

func (s *Store) SetTokenStatus(ctx context.Context, tokenID uuid.UUID, status store.TokenStatus) error {
	if err := s.begin(ctx, "SetTokenStatus"); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if grant, ok := s.tokenByID[tokenID]; ok {
		grant.Token.Status = status
	}
	return nil
}

func (s *Store) CreateGuestSession(ctx context.Context, session *store.GuestSession) error {
	if err := s.begin(ctx, "CreateGuestSession"); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.created = append(s.created, session)
	return nil
}

func (s *Store) GetGuestSession(ctx context.Context, token string) (*store.SessionGrant, error) {
	if err := s.begin(ctx, "GetGuestSession"); err != nil {
		return nil, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if grant, ok := s.sessions[token]; ok {
		return grant, nil
	}
	return nil, store.ErrNotFound
}

func (s *Store) TouchSessionActivity(ctx context.Context, sessionID uuid.UUID, at time.Time) error {
	if err := s.begin(ctx, "TouchSessionActivity"); err != nil {
		return err
	}
	s.mu.Lock()
	touchErr := s.TouchErr
	s.mu.Unlock()
	if touchErr != nil {
		return touchErr
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, grant := range s.sessions {
		if grant.Session.ID == sessionID {
			grant.Session.LastActivityAt = at
		}
	}
	return nil
}

func (s *Store) FindCheckedInGuest(ctx context.Context, tenantID uuid.UUID, lastName, roomNumber string) (*store.Guest, error) {
	if err := s.begin(ctx, "FindCheckedInGuest"); err != nil {
		return nil, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	for i, g := range s.guests {
		if g.TenantID == tenantID && g.CheckedIn &&
			strings.EqualFold(g.LastName, lastName) && s.guestRooms[i] == roomNumber {
			return g, nil
		}
	}
	return nil, store.ErrNotFound
}

func (s *Store) GetGuestTokenByID(ctx context.Context, tokenID uuid.UUID) (*store.TokenGrant, error) {
	if err := s.begin(ctx, "GetGuestTokenByID"); err != nil {
		return nil, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if grant, ok := s.tokenByID[tokenID]; ok {
		return grant, nil
	}
	return nil, store.ErrNotFound
}

func (s *Store) GetOperatorByEmail(ctx context.Context, email string) (*store.Operator, error) {
	if err := s.begin(ctx, "GetOperatorByEmail"); err != nil {
		return nil, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if op, ok := s.operators[email]; ok {
		return op, nil
	}
	return nil, store.ErrNotFound
}

func tokenKey(tenantID uuid.UUID, token string) string {
	return tenantID.String() + ":" + token
}
