package usecase

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/jenkify/jenkify/internal/domain"
	"github.com/jenkify/jenkify/internal/random"
	"github.com/jenkify/jenkify/internal/repository"
)

const registrationTokenTTL = 15 * time.Minute

// TokenLifecycle orchestrates issuance and revocation of registration and
// password-reset tokens for an e-mail address.
type TokenLifecycle struct {
	registrationTokens repository.RegistrationTokenRepository
	resetTokens        repository.PasswordResetTokenRepository
	logger             *slog.Logger
	now                func() time.Time
}

func NewTokenLifecycle(
	registrationTokens repository.RegistrationTokenRepository,
	resetTokens repository.PasswordResetTokenRepository,
	logger *slog.Logger,
) *TokenLifecycle {
	return &TokenLifecycle{
		registrationTokens: registrationTokens,
		resetTokens:        resetTokens,
		logger:             logger.With("component", "token_lifecycle"),
		now:                time.Now,
	}
}

// IssueForNewUser creates a live registration token (15-minute window) and a
// placeholder reset token that is already past expiry. The placeholder is
// not an active reset; the real reset token is minted by the password
// orchestrator when the user asks for one.
func (t *TokenLifecycle) IssueForNewUser(ctx context.Context, email string) (*domain.RegistrationToken, *domain.PasswordResetToken, error) {
	t.logger.InfoContext(ctx, "issuing tokens for new user", "email", email)

	registrationValue, err := random.Generate(random.DefaultTokenLength)
	if err != nil {
		return nil, nil, fmt.Errorf("generate registration token: %w", err)
	}
	resetValue, err := random.Generate(random.DefaultTokenLength)
	if err != nil {
		return nil, nil, fmt.Errorf("generate reset token: %w", err)
	}

	now := t.now()
	registration, err := t.registrationTokens.Create(ctx, &domain.RegistrationToken{
		Email:     email,
		Value:     registrationValue,
		Status:    domain.TokenStatusActive,
		ExpiresAt: now.Add(registrationTokenTTL),
	})
	if err != nil {
		return nil, nil, fmt.Errorf("create registration token: %w", err)
	}

	reset, err := t.resetTokens.Create(ctx, &domain.PasswordResetToken{
		Email:     email,
		Value:     resetValue,
		Status:    domain.TokenStatusActive,
		ExpiresAt: now,
	})
	if err != nil {
		return nil, nil, fmt.Errorf("create placeholder reset token: %w", err)
	}

	return registration, reset, nil
}

// Revoke deletes the registration and reset tokens associated with the
// email. Idempotent: missing rows are not an error.
func (t *TokenLifecycle) Revoke(ctx context.Context, email string) error {
	t.logger.InfoContext(ctx, "revoking tokens", "email", email)

	if err := t.registrationTokens.DeleteByEmail(ctx, email); err != nil {
		return fmt.Errorf("revoke registration token: %w", err)
	}
	if err := t.resetTokens.DeleteByEmail(ctx, email); err != nil {
		return fmt.Errorf("revoke reset token: %w", err)
	}
	return nil
}

func (t *TokenLifecycle) FindRegistrationByValue(ctx context.Context, value string) (*domain.RegistrationToken, error) {
	return t.registrationTokens.FindByValue(ctx, value)
}

func (t *TokenLifecycle) FindResetByValue(ctx context.Context, value string) (*domain.PasswordResetToken, error) {
	return t.resetTokens.FindByValue(ctx, value)
}

// ConsumeRegistration marks the registration token consumed, keeping the row.
func (t *TokenLifecycle) ConsumeRegistration(ctx context.Context, value string) error {
	return t.registrationTokens.Consume(ctx, value, t.now())
}
