package tenant

import "strings"

// ReservedAdminLabel is the subdomain reserved for the operator portal.
// It can never identify a hotel tenant.
const ReservedAdminLabel = "admin"

// Kind classifies what a request hostname addresses.
type Kind int

const (
	// KindUnresolved means the hostname is missing, malformed, or not under
	// the configured root domain.
	KindUnresolved Kind = iota
	// KindMarketing is the bare root domain or its www alias.
	KindMarketing
	// KindAdmin is the reserved operator portal subdomain.
	KindAdmin
	// KindTenant is a candidate hotel subdomain.
	KindTenant
)

// Resolution is the outcome of classifying a hostname.
// Subdomain is set only when Kind is KindTenant.
type Resolution struct {
	Kind      Kind
	Subdomain string
}

// Resolver classifies hostnames against a configured root domain.
type Resolver struct {
	root string
}

// NewResolver creates a resolver for the given root domain (e.g. "innkeep.app").
// The root domain is matched case-insensitively.
func NewResolver(rootDomain string) *Resolver {
	return &Resolver{root: strings.ToLower(strings.TrimSuffix(rootDomain, "."))}
}

// Resolve classifies a request hostname. It strips any port suffix and is
// case-insensitive. Multi-label subdomains do not identify tenants.
func (r *Resolver) Resolve(host string) Resolution {
	// Remove port if present
	if idx := strings.LastIndex(host, ":"); idx != -1 {
		host = host[:idx]
	}
	host = strings.ToLower(strings.TrimSuffix(host, "."))

	if host == "" || r.root == "" {
		return Resolution{Kind: KindUnresolved}
	}

	if host == r.root || host == "www."+r.root {
		return Resolution{Kind: KindMarketing}
	}

	suffix := "." + r.root
	if !strings.HasSuffix(host, suffix) {
		return Resolution{Kind: KindUnresolved}
	}

	label := strings.TrimSuffix(host, suffix)
	if label == "" || strings.Contains(label, ".") {
		return Resolution{Kind: KindUnresolved}
	}

	switch label {
	case ReservedAdminLabel:
		return Resolution{Kind: KindAdmin}
	case "www":
		return Resolution{Kind: KindMarketing}
	}

	return Resolution{Kind: KindTenant, Subdomain: label}
}
