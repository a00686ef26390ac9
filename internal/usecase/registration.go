package usecase

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/jenkify/jenkify/internal/domain"
	"github.com/jenkify/jenkify/internal/event"
	"github.com/jenkify/jenkify/internal/password"
	"github.com/jenkify/jenkify/internal/repository"
)

// Status values returned by the registration and password orchestrators.
const (
	StatusAwaitingEmailVerification = "AWAITING_EMAIL_VERIFICATION"
	StatusSuccess                   = "SUCCESS"
)

// EventPublisher is the subset of the event bus the orchestrators need.
type EventPublisher interface {
	Publish(ctx context.Context, e event.Event)
}

type RegisterInput struct {
	Email                    string
	FirstName                string
	LastName                 string
	Password                 string
	AcceptTermsAndConditions bool
}

// Registration reconciles incoming registration requests against existing
// identity state and drives token issuance.
type Registration struct {
	users  repository.UserRepository
	tokens *TokenLifecycle
	hasher password.Hasher
	events EventPublisher
	logger *slog.Logger
	now    func() time.Time
}

func NewRegistration(
	users repository.UserRepository,
	tokens *TokenLifecycle,
	hasher password.Hasher,
	events EventPublisher,
	logger *slog.Logger,
) *Registration {
	return &Registration{
		users:  users,
		tokens: tokens,
		hasher: hasher,
		events: events,
		logger: logger.With("component", "registration"),
		now:    time.Now,
	}
}

// Register classifies the existing identity state for the email and either
// creates a fresh account, lets a Google-only account claim a local
// credential, or rejects with domain.ErrRegistrationConflict.
func (r *Registration) Register(ctx context.Context, in RegisterInput) (string, error) {
	if !in.AcceptTermsAndConditions {
		return "", domain.ErrTermsNotAccepted
	}

	existing, err := r.users.FindByEmail(ctx, in.Email)
	switch {
	case errors.Is(err, domain.ErrUserNotFound):
		r.logger.InfoContext(ctx, "no user for email, revoking any orphaned tokens", "email", in.Email)
		if err := r.tokens.Revoke(ctx, in.Email); err != nil {
			return "", err
		}
		return r.registerNew(ctx, in)

	case err != nil:
		return "", fmt.Errorf("find user: %w", err)

	case !existing.IsEmailVerified && !existing.HasGoogleID():
		// Abandoned local signup: delete the record and start over.
		r.logger.InfoContext(ctx, "unverified user without google id, superseding", "email", in.Email)
		if err := r.tokens.Revoke(ctx, in.Email); err != nil {
			return "", err
		}
		if err := r.users.DeleteByEmail(ctx, in.Email); err != nil {
			return "", fmt.Errorf("delete abandoned user: %w", err)
		}
		return r.registerNew(ctx, in)

	case existing.IsEmailVerified && existing.HasGoogleID() && !existing.HasPassword():
		r.logger.InfoContext(ctx, "google account claiming local credential", "email", in.Email)
		return r.claimFederated(ctx, in, existing)

	default:
		r.logger.InfoContext(ctx, "registration conflict", "email", in.Email)
		return "", domain.ErrRegistrationConflict
	}
}

// registerNew is the create path: fresh profile and user, then tokens.
func (r *Registration) registerNew(ctx context.Context, in RegisterInput) (string, error) {
	profile, err := r.users.CreateProfile(ctx, &domain.UserProfile{
		Email:       in.Email,
		FirstName:   in.FirstName,
		LastName:    in.LastName,
		DisplayName: in.FirstName,
	})
	if err != nil {
		return "", fmt.Errorf("create user profile: %w", err)
	}

	hashed, err := r.hasher.Hash(in.Password)
	if err != nil {
		return "", err
	}

	if _, err := r.users.Create(ctx, &domain.User{
		Email:           in.Email,
		IsEmailVerified: false,
		PasswordHash:    &hashed,
		ProfileID:       profile.ID,
	}); err != nil {
		if errors.Is(err, domain.ErrRegistrationConflict) {
			// Lost a concurrent registration race on the email constraint.
			return "", domain.ErrRegistrationConflict
		}
		return "", fmt.Errorf("create user: %w", err)
	}

	return r.issueAndNotify(ctx, in.Email)
}

// claimFederated is the claim path: a verified Google account without a
// local credential sets one.
func (r *Registration) claimFederated(ctx context.Context, in RegisterInput, existing *domain.User) (string, error) {
	if err := r.users.UpdateProfileName(ctx, existing.ProfileID, in.FirstName, in.LastName); err != nil {
		return "", fmt.Errorf("update profile name: %w", err)
	}

	hashed, err := r.hasher.Hash(in.Password)
	if err != nil {
		return "", err
	}
	if err := r.users.SetPassword(ctx, existing.ID, hashed); err != nil {
		return "", fmt.Errorf("set password: %w", err)
	}

	return r.issueAndNotify(ctx, in.Email)
}

func (r *Registration) issueAndNotify(ctx context.Context, email string) (string, error) {
	if err := r.tokens.Revoke(ctx, email); err != nil {
		return "", err
	}
	registration, _, err := r.tokens.IssueForNewUser(ctx, email)
	if err != nil {
		return "", err
	}

	r.events.Publish(ctx, domain.UserRegistered{
		Email:                  email,
		RegistrationTokenValue: registration.Value,
	})
	return StatusAwaitingEmailVerification, nil
}

// ConfirmRegistration verifies the registration token and flips the user's
// e-mail to verified, consuming the token.
func (r *Registration) ConfirmRegistration(ctx context.Context, tokenValue string) (string, error) {
	token, err := r.tokens.FindRegistrationByValue(ctx, tokenValue)
	if err != nil {
		return "", err
	}

	now := r.now()
	if token.Status == domain.TokenStatusConsumed {
		return "", domain.ErrTokenInvalid
	}
	if !now.Before(token.ExpiresAt) {
		return "", domain.ErrTokenExpired
	}

	user, err := r.users.FindByEmail(ctx, token.Email)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			r.logger.ErrorContext(ctx, "registration token with no backing user",
				"email", token.Email)
			return "", domain.ErrDataIntegrity
		}
		return "", fmt.Errorf("find user: %w", err)
	}

	if err := r.users.MarkEmailVerified(ctx, user.ID); err != nil {
		return "", err
	}
	if err := r.tokens.ConsumeRegistration(ctx, token.Value); err != nil {
		return "", err
	}

	r.logger.InfoContext(ctx, "registration confirmed", "email", user.Email)
	return StatusSuccess, nil
}
