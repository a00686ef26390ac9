package domain

import "errors"

var (
	// ErrTermsNotAccepted rejects registration requests that do not carry
	// the terms-and-conditions acceptance flag.
	ErrTermsNotAccepted = errors.New("terms and conditions must be accepted")

	// ErrRegistrationConflict rejects registration against a fully-claimed
	// account (verified, Google-linked, password set). Also surfaced when a
	// concurrent registration loses the users.email uniqueness race.
	ErrRegistrationConflict = errors.New("account already registered")

	// ErrUnauthorized covers bad credentials, federated-only accounts
	// presented with a password, and unknown or expired token holds.
	// Deliberately carries no detail.
	ErrUnauthorized = errors.New("unauthorized")

	ErrUserNotFound    = errors.New("user not found")
	ErrProfileNotFound = errors.New("user profile not found")

	// ErrTokenInvalid means no matching token exists or it was already
	// consumed; ErrTokenExpired means it exists but is past its expiry.
	ErrTokenInvalid = errors.New("token is invalid")
	ErrTokenExpired = errors.New("token is expired")

	// ErrDataIntegrity flags a valid token whose email has no backing user.
	// Logged at error severity, surfaced as an opaque server error.
	ErrDataIntegrity = errors.New("data integrity violation")

	// ErrNoEmailProvided is returned when the Google profile carries no
	// e-mail address.
	ErrNoEmailProvided = errors.New("no e-mail provided by identity provider")
)
