package cookie

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"fmt"
	"net/http"
	"slices"
	"strings"
)

const minSecretLength = 32

// Manager reads and writes signed cookies.
type Manager struct {
	secrets  []string
	defaults Options
}

// New creates a cookie manager. The first secret signs new cookies; all
// secrets are accepted during verification, which allows rotation without
// invalidating live sessions.
func New(secrets []string, opts ...Option) (*Manager, error) {
	secrets = slices.DeleteFunc(slices.Clone(secrets), func(s string) bool { return s == "" })
	if len(secrets) == 0 {
		return nil, ErrNoSecret
	}
	for i, s := range secrets {
		if len(s) < minSecretLength {
			return nil, fmt.Errorf("%w: secret %d has %d chars, need at least %d", ErrSecretTooShort, i, len(s), minSecretLength)
		}
	}

	defaults := Options{
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	}
	defaults = applyOptions(defaults, opts)

	return &Manager{secrets: secrets, defaults: defaults}, nil
}

// SetSigned writes a cookie whose value carries an HMAC-SHA256 signature.
func (m *Manager) SetSigned(w http.ResponseWriter, name, value string, opts ...Option) error {
	o := applyOptions(m.defaults, opts)

	encoded := base64.RawURLEncoding.EncodeToString([]byte(value))
	sig := m.sign(m.secrets[0], name, encoded)

	http.SetCookie(w, &http.Cookie{
		Name:     name,
		Value:    encoded + "." + sig,
		Path:     o.Path,
		Domain:   o.Domain,
		MaxAge:   o.MaxAge,
		Secure:   o.Secure,
		HttpOnly: o.HttpOnly,
		SameSite: o.SameSite,
	})
	return nil
}

// GetSigned reads a signed cookie and verifies its signature against all
// configured secrets. Returns ErrCookieNotFound, ErrMalformedValue, or
// ErrSignatureInvalid on failure.
func (m *Manager) GetSigned(r *http.Request, name string) (string, error) {
	c, err := r.Cookie(name)
	if err != nil {
		return "", ErrCookieNotFound
	}

	encoded, sig, ok := strings.Cut(c.Value, ".")
	if !ok {
		return "", ErrMalformedValue
	}

	for _, secret := range m.secrets {
		if hmac.Equal([]byte(sig), []byte(m.sign(secret, name, encoded))) {
			value, err := base64.RawURLEncoding.DecodeString(encoded)
			if err != nil {
				return "", ErrMalformedValue
			}
			return string(value), nil
		}
	}

	return "", ErrSignatureInvalid
}

// Delete expires the named cookie.
func (m *Manager) Delete(w http.ResponseWriter, name string, opts ...Option) {
	o := applyOptions(m.defaults, opts)
	http.SetCookie(w, &http.Cookie{
		Name:     name,
		Value:    "",
		Path:     o.Path,
		Domain:   o.Domain,
		MaxAge:   -1,
		Secure:   o.Secure,
		HttpOnly: o.HttpOnly,
		SameSite: o.SameSite,
	})
}

// sign binds the signature to the cookie name so a signed value cannot be
// replayed under a different cookie.
func (m *Manager) sign(secret, name, encoded string) string {
	h := hmac.New(sha256.New, []byte(secret))
	h.Write([]byte(name))
	h.Write([]byte{0})
	h.Write([]byte(encoded))
	return base64.RawURLEncoding.EncodeToString(h.Sum(nil))
}
