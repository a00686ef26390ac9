package repository

import (
	"context"
	"time"

	"github.com/jenkify/jenkify/internal/domain"
)

// RegistrationTokenRepository stores e-mail verification tokens.
// FindByValue returns domain.ErrTokenInvalid when no token matches.
// DeleteByEmail is a no-op when no token exists.
type RegistrationTokenRepository interface {
	Create(ctx context.Context, token *domain.RegistrationToken) (*domain.RegistrationToken, error)
	FindByValue(ctx context.Context, value string) (*domain.RegistrationToken, error)
	DeleteByEmail(ctx context.Context, email string) error
	// Consume transitions the token to consumed, recording the timestamp.
	// The row is kept for audit.
	Consume(ctx context.Context, value string, at time.Time) error
	// DeleteExpiredBefore prunes consumed or expired rows older than cutoff.
	DeleteExpiredBefore(ctx context.Context, cutoff time.Time) (int64, error)
}

// PasswordResetTokenRepository mirrors RegistrationTokenRepository for the
// reset token family.
type PasswordResetTokenRepository interface {
	Create(ctx context.Context, token *domain.PasswordResetToken) (*domain.PasswordResetToken, error)
	FindByValue(ctx context.Context, value string) (*domain.PasswordResetToken, error)
	DeleteByEmail(ctx context.Context, email string) error
	Consume(ctx context.Context, value string, at time.Time) error
	DeleteExpiredBefore(ctx context.Context, cutoff time.Time) (int64, error)
}

// TokenHoldRepository stores the OAuth-redirect token holds.
type TokenHoldRepository interface {
	Create(ctx context.Context, hold *domain.TokenHold) (*domain.TokenHold, error)
	// ClaimByCode atomically deletes and returns the hold with the given
	// code, making retrieval single-use. Returns domain.ErrUnauthorized
	// when no hold matches.
	ClaimByCode(ctx context.Context, tokenCode string) (*domain.TokenHold, error)
	DeleteByEmail(ctx context.Context, email string) error
	DeleteExpiredBefore(ctx context.Context, cutoff time.Time) (int64, error)
}
