package repository

import (
	"context"

	"github.com/jenkify/jenkify/internal/domain"
)

// UserRepository owns User and UserProfile records. Email comparisons are
// case-sensitive on the stored value; callers normalize at input.
type UserRepository interface {
	// FindByEmail returns domain.ErrUserNotFound when no user exists.
	FindByEmail(ctx context.Context, email string) (*domain.User, error)
	// Create returns domain.ErrRegistrationConflict on a users.email
	// uniqueness violation (concurrent duplicate registration).
	Create(ctx context.Context, user *domain.User) (*domain.User, error)
	// DeleteByEmail removes the user and its owned profile. No-op when
	// no user exists.
	DeleteByEmail(ctx context.Context, email string) error

	SetPassword(ctx context.Context, userID, passwordHash string) error
	MarkEmailVerified(ctx context.Context, userID string) error
	// LinkGoogleID sets the Google subject id and marks the email verified.
	LinkGoogleID(ctx context.Context, userID, googleID string) error

	CreateProfile(ctx context.Context, profile *domain.UserProfile) (*domain.UserProfile, error)
	// FindProfileByEmail returns domain.ErrProfileNotFound when absent.
	FindProfileByEmail(ctx context.Context, email string) (*domain.UserProfile, error)
	UpdateProfileName(ctx context.Context, profileID, firstName, lastName string) error
}
