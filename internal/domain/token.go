package domain

import "time"

// TokenStatus tracks consumption as an explicit state transition instead of
// overloading the expiry timestamp. Consumed rows are kept for audit.
type TokenStatus string

const (
	TokenStatusActive   TokenStatus = "active"
	TokenStatusConsumed TokenStatus = "consumed"
)

// RegistrationToken is a single-use, time-bounded proof of e-mail
// verification intent. At most one live token exists per email.
type RegistrationToken struct {
	ID         string
	Email      string
	Value      string
	Status     TokenStatus
	ExpiresAt  time.Time
	ConsumedAt *time.Time
	CreatedAt  time.Time
}

// PasswordResetToken has the same shape as RegistrationToken with an
// independent lifecycle and expiry window.
type PasswordResetToken struct {
	ID         string
	Email      string
	Value      string
	Status     TokenStatus
	ExpiresAt  time.Time
	ConsumedAt *time.Time
	CreatedAt  time.Time
}

// TokenHold bridges a Google OAuth redirect to the SPA's follow-up token
// retrieval call. Claimed at most once by token code within a seconds-scale
// window.
type TokenHold struct {
	ID           string
	Email        string
	TokenCode    string
	AccessToken  string
	RefreshToken string
	ExpiresAt    time.Time
	CreatedAt    time.Time
}

// Usable reports whether the token is active and not yet past expiry at t.
func (rt *RegistrationToken) Usable(t time.Time) bool {
	return rt.Status == TokenStatusActive && t.Before(rt.ExpiresAt)
}

// Usable reports whether the token is active and not yet past expiry at t.
func (pt *PasswordResetToken) Usable(t time.Time) bool {
	return pt.Status == TokenStatusActive && t.Before(pt.ExpiresAt)
}
