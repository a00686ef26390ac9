package usecase

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/jenkify/jenkify/internal/domain"
	"github.com/jenkify/jenkify/internal/password"
	"github.com/jenkify/jenkify/internal/random"
	"github.com/jenkify/jenkify/internal/repository"
)

const resetTokenTTL = 15 * time.Minute

type ConfirmPasswordResetInput struct {
	TokenValue string
	Password   string
}

// PasswordReset issues and consumes password-reset tokens without revealing
// account existence.
type PasswordReset struct {
	users       repository.UserRepository
	resetTokens repository.PasswordResetTokenRepository
	hasher      password.Hasher
	events      EventPublisher
	logger      *slog.Logger
	now         func() time.Time
}

func NewPasswordReset(
	users repository.UserRepository,
	resetTokens repository.PasswordResetTokenRepository,
	hasher password.Hasher,
	events EventPublisher,
	logger *slog.Logger,
) *PasswordReset {
	return &PasswordReset{
		users:       users,
		resetTokens: resetTokens,
		hasher:      hasher,
		events:      events,
		logger:      logger.With("component", "password_reset"),
		now:         time.Now,
	}
}

// Reset issues a fresh reset token for a verified account. It reports the
// same status whether or not the account exists, so callers learn nothing
// about registered emails.
func (p *PasswordReset) Reset(ctx context.Context, email string) (string, error) {
	p.logger.InfoContext(ctx, "password reset attempt", "email", email)

	user, err := p.users.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return StatusAwaitingEmailVerification, nil
		}
		return "", fmt.Errorf("find user: %w", err)
	}
	if !user.IsEmailVerified {
		return StatusAwaitingEmailVerification, nil
	}

	if err := p.resetTokens.DeleteByEmail(ctx, email); err != nil {
		return "", err
	}

	value, err := random.Generate(random.DefaultTokenLength)
	if err != nil {
		return "", fmt.Errorf("generate reset token: %w", err)
	}
	token, err := p.resetTokens.Create(ctx, &domain.PasswordResetToken{
		Email:     email,
		Value:     value,
		Status:    domain.TokenStatusActive,
		ExpiresAt: p.now().Add(resetTokenTTL),
	})
	if err != nil {
		return "", fmt.Errorf("create reset token: %w", err)
	}

	p.events.Publish(ctx, domain.PasswordResetAttempted{
		Email:                   email,
		PasswordResetTokenValue: token.Value,
	})
	return StatusAwaitingEmailVerification, nil
}

// ConfirmReset validates the token, sets the new password, and consumes the
// token. Password/confirm-password equality is enforced at the request
// validation boundary, not here.
func (p *PasswordReset) ConfirmReset(ctx context.Context, in ConfirmPasswordResetInput) (string, error) {
	token, err := p.resetTokens.FindByValue(ctx, in.TokenValue)
	if err != nil {
		return "", err
	}

	user, err := p.users.FindByEmail(ctx, token.Email)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			p.logger.ErrorContext(ctx, "reset token with no backing user", "email", token.Email)
			return "", domain.ErrDataIntegrity
		}
		return "", fmt.Errorf("find user: %w", err)
	}

	now := p.now()
	if token.Status == domain.TokenStatusConsumed {
		return "", domain.ErrTokenInvalid
	}
	if !now.Before(token.ExpiresAt) {
		return "", domain.ErrTokenExpired
	}

	hashed, err := p.hasher.Hash(in.Password)
	if err != nil {
		return "", err
	}
	if err := p.users.SetPassword(ctx, user.ID, hashed); err != nil {
		return "", err
	}
	if err := p.resetTokens.Consume(ctx, token.Value, now); err != nil {
		return "", err
	}

	p.logger.InfoContext(ctx, "password reset confirmed", "email", user.Email)
	return StatusSuccess, nil
}
