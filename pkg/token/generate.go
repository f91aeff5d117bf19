package token

import (
	"crypto/rand"
	"encoding/hex"
	"errors"
)

// GuestTokenLength is the length of a generated guest check-in token.
const GuestTokenLength = 9

// guestAlphabet is the 56-character set guest tokens are drawn from.
// Visually ambiguous characters (0, O, o, I, 1, l) are excluded to avoid
// operator transcription errors.
const guestAlphabet = "23456789ABCDEFGHJKLMNPQRSTUVWXYZabcdefghijkmnpqrstuvwxyz"

// sessionTokenBytes is the entropy of a guest session token before encoding.
const sessionTokenBytes = 32

// ErrRandomSource is returned when the system's secure random source fails.
var ErrRandomSource = errors.New("token: random source unavailable")

// GenerateGuestToken produces a new guest check-in token.
// The token is case-sensitive and drawn uniformly from guestAlphabet using
// rejection sampling, so no character is more likely than another.
func GenerateGuestToken() (string, error) {
	out := make([]byte, 0, GuestTokenLength)
	buf := make([]byte, GuestTokenLength*2)

	for len(out) < GuestTokenLength {
		if _, err := rand.Read(buf); err != nil {
			return "", errors.Join(ErrRandomSource, err)
		}
		for _, b := range buf {
			// 224 is the largest multiple of 56 that fits in a byte;
			// values at or above it would bias the modulo.
			if b >= 224 {
				continue
			}
			out = append(out, guestAlphabet[int(b)%len(guestAlphabet)])
			if len(out) == GuestTokenLength {
				break
			}
		}
	}

	return string(out), nil
}

// GenerateSessionToken produces a new guest session token: 32 random bytes,
// hex-encoded to 64 characters.
func GenerateSessionToken() (string, error) {
	buf := make([]byte, sessionTokenBytes)
	if _, err := rand.Read(buf); err != nil {
		return "", errors.Join(ErrRandomSource, err)
	}
	return hex.EncodeToString(buf), nil
}
