package domain

import "time"

// User is the identity record. Email uniquely identifies at most one user.
// A nil PasswordHash means no local credential is set (federated-only account).
type User struct {
	ID              string
	Email           string
	IsEmailVerified bool
	GoogleID        *string
	PasswordHash    *string
	ProfileID       string
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// HasPassword reports whether a local credential is set.
func (u *User) HasPassword() bool {
	return u.PasswordHash != nil && *u.PasswordHash != ""
}

// HasGoogleID reports whether the account is linked to a Google identity.
func (u *User) HasGoogleID() bool {
	return u.GoogleID != nil && *u.GoogleID != ""
}

// UserProfile is the descriptive record owned by exactly one user.
// Email mirrors the owner's email.
type UserProfile struct {
	ID          string
	Email       string
	FirstName   string
	LastName    string
	DisplayName string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}
