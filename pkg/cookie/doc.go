// Package cookie provides a small manager for HMAC-signed cookies.
//
// The edge layer stores two credentials in cookies: the guest session token
// and the operator session token. Both values are already opaque randoms, so
// the cookie envelope only needs tamper protection, not encryption: values
// are signed with HMAC-SHA256 and verified on read.
//
// Multiple secrets may be configured to support key rotation: cookies are
// always signed with the first secret and verified against all of them.
//
// # Usage
//
//	mgr, err := cookie.New([]string{secret})
//	...
//	mgr.SetSigned(w, "innkeep_guest", sessionToken, cookie.WithMaxAge(3600))
//	token, err := mgr.GetSigned(r, "innkeep_guest")
//
// Defaults are Path=/, HttpOnly and SameSite=Lax; use options to override
// per call.
package cookie
