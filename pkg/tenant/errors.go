package tenant

import "errors"

var (
	// ErrTenantNotFound is returned when no tenant matches a subdomain.
	ErrTenantNotFound = errors.New("tenant not found")

	// ErrTenantInactive is returned when a tenant exists but may not serve
	// guest traffic.
	ErrTenantInactive = errors.New("tenant is inactive")

	// ErrNoTenantInContext is returned when a handler requires a tenant and
	// none was resolved for the request.
	ErrNoTenantInContext = errors.New("no tenant in context")
)
