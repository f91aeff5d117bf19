// Package authz is the authorization engine: the decision procedures that
// turn a subdomain, a check-in token, or a session cookie into a Valid or
// Invalid verdict.
//
// Every verdict the engine returns is final for the request: the edge
// dispatcher never re-derives or re-validates, it only acts on the verdict.
// Invalid verdicts carry a precise reason for server-side logging, but the
// guest-visible surface collapses all of them into one generic message so an
// attacker cannot distinguish "token doesn't exist" from "token expired"
// from "wrong hotel".
//
// The engine holds no per-request state of its own. Decisions are memoized
// through the request cache carried in context, so any number of consumers
// asking the same question during one request costs one store round-trip and
// at most one expiry mutation. Store errors and timeouts always produce an
// Invalid verdict: the engine fails closed.
package authz
