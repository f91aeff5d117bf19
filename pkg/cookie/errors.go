package cookie

import "errors"

var (
	// ErrNoSecret is returned when the manager is created without any secret.
	ErrNoSecret = errors.New("cookie: at least one secret is required")

	// ErrSecretTooShort is returned when a signing secret is shorter than 32 bytes.
	ErrSecretTooShort = errors.New("cookie: secret too short")

	// ErrCookieNotFound is returned when the named cookie is absent.
	ErrCookieNotFound = errors.New("cookie: not found")

	// ErrSignatureInvalid is returned when a signed cookie fails verification
	// against every configured secret.
	ErrSignatureInvalid = errors.New("cookie: signature invalid")

	// ErrMalformedValue is returned when a signed cookie value does not have
	// the value.signature form.
	ErrMalformedValue = errors.New("cookie: malformed value")
)
