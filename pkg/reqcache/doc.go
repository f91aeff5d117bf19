// Package reqcache provides a memoization cache scoped to a single HTTP
// request.
//
// Several independent consumers (page handler, context propagation, API
// endpoints) may each ask "is this token valid?" while one request is being
// handled. Without memoization that becomes N redundant store queries and,
// worse, N redundant expiry-mutation attempts. The cache guarantees that each
// distinct key computes at most once per request: concurrent callers are
// collapsed with singleflight and completed results (including errors) are
// replayed for the rest of the request.
//
// A fresh Cache is constructed at the top of request handling and carried in
// the request context; it is never shared across requests, so there is no
// cross-request leakage and no invalidation problem.
//
// # Usage
//
//	ctx := reqcache.WithCache(r.Context())
//	...
//	grant, err := reqcache.Memo(reqcache.FromContext(ctx), key, func() (*Grant, error) {
//	    return store.GetGuestToken(ctx, tok, tenantID)
//	})
//
// All methods are safe for concurrent use. A nil *Cache is valid and simply
// executes every function directly, which keeps call sites free of nil checks.
package reqcache
