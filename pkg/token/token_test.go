package token_test

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/innkeep/innkeep/pkg/token"
)

func TestGenerateGuestToken(t *testing.T) {
	t.Parallel()

	t.Run("length and shape", func(t *testing.T) {
		t.Parallel()

		tok, err := token.GenerateGuestToken()
		require.NoError(t, err)
		assert.Len(t, tok, token.GuestTokenLength)
		assert.True(t, token.IsValidShape(tok))
	})

	t.Run("never produces ambiguous characters", func(t *testing.T) {
		t.Parallel()

		for range 10_000 {
			tok, err := token.GenerateGuestToken()
			require.NoError(t, err)
			assert.NotContains(t, tok, "0")
			assert.NotContains(t, tok, "O")
			assert.NotContains(t, tok, "I")
			assert.NotContains(t, tok, "1")
			assert.NotContains(t, tok, "l")
		}
	})

	t.Run("tokens are unique", func(t *testing.T) {
		t.Parallel()

		seen := make(map[string]struct{}, 1000)
		for range 1000 {
			tok, err := token.GenerateGuestToken()
			require.NoError(t, err)
			_, dup := seen[tok]
			require.False(t, dup, "duplicate token %q", tok)
			seen[tok] = struct{}{}
		}
	})
}

func TestGenerateSessionToken(t *testing.T) {
	t.Parallel()

	tok, err := token.GenerateSessionToken()
	require.NoError(t, err)
	assert.Len(t, tok, 64)
	assert.Equal(t, strings.ToLower(tok), tok, "session tokens are lowercase hex")

	other, err := token.GenerateSessionToken()
	require.NoError(t, err)
	assert.NotEqual(t, tok, other)
}

func TestIsValidShape(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		input string
		want  bool
	}{
		{"generated length", "A13FB9K2M", true},
		{"minimum length", "abcd1234", true},
		{"maximum length", "abcd123456", true},
		{"too short", "abc1234", false},
		{"too long", "abcd1234567", false},
		{"empty", "", false},
		{"hyphen", "abcd-1234", false},
		{"space", "abcd 1234", false},
		{"unicode", "abcd123é", false},
		{"path traversal", "../../etc", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, token.IsValidShape(tt.input))
		})
	}
}

func TestComputeExpiry(t *testing.T) {
	t.Parallel()

	loc, err := time.LoadLocation("Europe/Zurich")
	require.NoError(t, err)

	checkOut := time.Date(2026, 3, 14, 11, 0, 0, 0, loc)
	expiry := token.ComputeExpiry(checkOut)

	assert.Equal(t, time.Date(2026, 3, 15, 23, 59, 59, 0, loc), expiry)
	assert.Equal(t, loc, expiry.Location())
}

func TestIsExpired(t *testing.T) {
	t.Parallel()

	now := time.Date(2026, 3, 15, 12, 0, 0, 0, time.UTC)

	assert.True(t, token.IsExpired(now.Add(-time.Second), now))
	assert.False(t, token.IsExpired(now.Add(time.Second), now))
	// Strict comparison: expiring exactly now is still valid.
	assert.False(t, token.IsExpired(now, now))
}
