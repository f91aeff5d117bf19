// Package edge is the request entry point for the whole platform.
//
// Every inbound request passes through the Dispatcher, which classifies the
// hostname and serves one of three surfaces:
//
//   - admin.{root}: the operator portal, gated by an operator session cookie
//     (no cookie redirects to the login page; a valid cookie on the login
//     page redirects to the dashboard).
//   - {root} / www.{root} / anything unresolved: the public marketing site,
//     with no authorization at all.
//   - {sub}.{root}: a hotel tenant. The tenant is authorized first; within
//     the tenant, the check-in namespace (/c/{token}) requires a valid guest
//     token, the guest app (/guest-app) requires a session cookie, and the
//     minibar (/minibar) accepts either a session or nothing, deferring
//     identity proof to order time.
//
// A fresh request cache is attached before any authorization runs, so
// downstream consumers asking the same validation question share one store
// round-trip. On success the resolved tenant and credentials are propagated
// through request context and internal headers on the forwarded request; on
// failure the guest is redirected to a generic error surface that never
// reveals why the credential was refused.
package edge
