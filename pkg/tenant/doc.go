// Package tenant classifies request hostnames into the three surfaces the
// platform serves (operator portal, marketing site, hotel tenant) and carries
// the resolved tenant through request context.
//
// Hostname shapes, for a root domain of "innkeep.app":
//
//	innkeep.app            -> marketing site
//	www.innkeep.app        -> marketing site
//	admin.innkeep.app      -> operator portal
//	movenpick.innkeep.app  -> hotel tenant "movenpick"
//	anything else          -> unresolved
//
// Resolution is a pure string operation with no I/O; loading the tenant record
// behind a subdomain is the authorization engine's job. Callers must treat an
// unresolved hostname as "serve the marketing site", never as an error.
//
// # Usage
//
//	resolver := tenant.NewResolver("innkeep.app")
//	res := resolver.Resolve(r.Host)
//	if res.Kind == tenant.KindTenant {
//	    // res.Subdomain identifies the hotel
//	}
//
// The resolved tenant record travels via WithTenant/FromContext. Handlers that
// cannot function without a tenant may use MustFromContext.
package tenant
