package store

import (
	"time"

	"github.com/google/uuid"
)

// TokenStatus is the lifecycle state of a guest check-in token.
// Transitions are monotone: active tokens may become used, expired, or
// revoked; nothing returns a token to active. The edge itself performs only
// the active -> expired transition (lazy expiry).
type TokenStatus string

const (
	TokenActive  TokenStatus = "active"
	TokenUsed    TokenStatus = "used"
	TokenExpired TokenStatus = "expired"
	TokenRevoked TokenStatus = "revoked"
)

// Guest is the person a credential was minted for.
type Guest struct {
	ID        uuid.UUID
	TenantID  uuid.UUID
	FirstName string
	LastName  string
	Email     string
	CheckedIn bool
}

// Booking is a read-only projection attached to credentials for downstream
// display. It has no lifecycle in this subsystem.
type Booking struct {
	ID          uuid.UUID
	RoomNumber  string
	RoomType    string
	CheckIn     time.Time
	CheckOut    time.Time
	GuestCount  int
	TotalAmount int64 // cents
}

// GuestToken is the single-use, time-boxed check-in credential.
type GuestToken struct {
	ID        uuid.UUID
	TenantID  uuid.UUID
	GuestID   uuid.UUID
	Token     string
	Status    TokenStatus
	CreatedAt time.Time
	ExpiresAt time.Time
}

// GuestSession is the longer-lived credential minted after check-in.
// Sessions have no stored status; validity is purely time and tenant based.
type GuestSession struct {
	ID             uuid.UUID
	TenantID       uuid.UUID
	GuestID        uuid.UUID
	BookingID      *uuid.UUID
	Token          string
	ExpiresAt      time.Time
	LastActivityAt time.Time
	CreatedAt      time.Time
}

// Operator is a staff account for the admin portal.
type Operator struct {
	ID           uuid.UUID
	Email        string
	Name         string
	PasswordHash string
}

// TokenGrant bundles a token with the guest and latest booking it belongs to.
type TokenGrant struct {
	Token   GuestToken
	Guest   Guest
	Booking *Booking
}

// SessionGrant bundles a session with its guest and linked booking.
type SessionGrant struct {
	Session GuestSession
	Guest   Guest
	Booking *Booking
}
