// Package token generates and validates the opaque credentials used by the
// guest check-in flow.
//
// Two credential kinds exist:
//
//   - Guest tokens: 9 characters drawn from a 56-character alphabet that
//     excludes visually ambiguous characters (0, O, o, I, 1, l). These are
//     emailed or texted to guests and typed at the front desk, so they must
//     survive human transcription. Generation uses crypto/rand; guessability
//     is a direct security property because the token is the sole check-in
//     credential.
//
//   - Session tokens: 32 random bytes hex-encoded (64 characters). Sessions
//     are longer-lived and grant broader access, hence the higher entropy.
//
// IsValidShape is a cheap lexical pre-filter applied before any database
// round-trip so obviously malformed input never costs a query.
//
// Expiry helpers implement the check-out grace policy: a guest token stays
// usable until the end of the day after check-out.
package token
