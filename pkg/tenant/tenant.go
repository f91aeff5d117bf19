package tenant

import (
	"time"

	"github.com/google/uuid"
)

// Status is the lifecycle state of a tenant. Only active tenants serve
// guest traffic.
type Status string

const (
	StatusActive    Status = "active"
	StatusInactive  Status = "inactive"
	StatusSuspended Status = "suspended"
)

// Tenant represents one hotel. Records are provisioned out-of-band and are
// read-only from the edge's perspective.
type Tenant struct {
	ID        uuid.UUID `json:"id"`
	Subdomain string    `json:"subdomain"`
	Name      string    `json:"name"`
	Status    Status    `json:"status"`
	CreatedAt time.Time `json:"created_at"`
}

// IsActive reports whether the tenant may serve guest traffic.
func (t *Tenant) IsActive() bool {
	return t != nil && t.Status == StatusActive
}
