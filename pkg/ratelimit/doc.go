// Package ratelimit implements a fixed-window request limiter backed by
// Redis, plus HTTP middleware.
//
// The edge applies it to the two surfaces where an attacker can enumerate
// guest identity material: the check-in namespace (token guessing) and the
// minibar order endpoint (last-name/room-number guessing).
//
// The limiter fails open: if Redis is unreachable the request proceeds and
// the failure is logged. Authorization itself still fails closed on store
// errors, so an unavailable limiter degrades protection, never correctness.
//
// Keys are SHA-256 hashed before hitting Redis so raw client IPs are not
// stored.
package ratelimit
