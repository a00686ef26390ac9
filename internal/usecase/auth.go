package usecase

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/jenkify/jenkify/internal/domain"
	"github.com/jenkify/jenkify/internal/password"
	"github.com/jenkify/jenkify/internal/random"
	"github.com/jenkify/jenkify/internal/repository"
)

const (
	accessTokenTTL = 1 * time.Hour
	tokenHoldTTL   = 30 * time.Second
)

// TokenPair is what a successful login hands to the client. The refresh
// token is an opaque capability; no server-side refresh validation exists.
type TokenPair struct {
	AccessToken  string
	RefreshToken string
}

// GoogleProfile carries the fields of the Google OAuth profile the issuer
// needs.
type GoogleProfile struct {
	ID          string
	Email       string
	GivenName   string
	FamilyName  string
	DisplayName string
}

// Auth validates credentials or federated identity, mints access tokens,
// and bridges OAuth redirects to the SPA's polling retrieval via token
// holds.
type Auth struct {
	users  repository.UserRepository
	holds  repository.TokenHoldRepository
	hasher password.Hasher
	jwtKey []byte
	logger *slog.Logger
	now    func() time.Time
}

func NewAuth(
	users repository.UserRepository,
	holds repository.TokenHoldRepository,
	hasher password.Hasher,
	jwtKey []byte,
	logger *slog.Logger,
) *Auth {
	return &Auth{
		users:  users,
		holds:  holds,
		hasher: hasher,
		jwtKey: jwtKey,
		logger: logger.With("component", "auth"),
		now:    time.Now,
	}
}

// ValidateCredentials returns the user when the email/password pair checks
// out. Missing users, federated-only accounts, and bad passwords all come
// back as domain.ErrUnauthorized with no further detail.
func (a *Auth) ValidateCredentials(ctx context.Context, email, plaintext string) (*domain.User, error) {
	user, err := a.users.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return nil, domain.ErrUnauthorized
		}
		return nil, fmt.Errorf("find user: %w", err)
	}
	if !user.HasPassword() {
		return nil, domain.ErrUnauthorized
	}
	if !a.hasher.Verify(plaintext, *user.PasswordHash) {
		return nil, domain.ErrUnauthorized
	}
	return user, nil
}

// Login mints a one-hour HS256 access token asserting the user's email and
// an opaque random refresh token.
func (a *Auth) Login(user *domain.User) (TokenPair, error) {
	now := a.now()
	claims := jwt.MapClaims{
		"email": user.Email,
		"iat":   now.Unix(),
		"exp":   now.Add(accessTokenTTL).Unix(),
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(a.jwtKey)
	if err != nil {
		return TokenPair{}, fmt.Errorf("sign access token: %w", err)
	}

	refresh, err := random.Generate(random.DefaultTokenLength)
	if err != nil {
		return TokenPair{}, fmt.Errorf("generate refresh token: %w", err)
	}
	return TokenPair{AccessToken: signed, RefreshToken: refresh}, nil
}

// GoogleLogin resolves a Google profile to a user: returns an already-linked
// verified user unchanged, links the Google id onto a verified user with a
// matching email, or creates a fresh verified account from the profile.
func (a *Auth) GoogleLogin(ctx context.Context, profile GoogleProfile) (*domain.User, error) {
	if profile.Email == "" {
		return nil, domain.ErrNoEmailProvided
	}

	existing, err := a.users.FindByEmail(ctx, profile.Email)
	if err != nil && !errors.Is(err, domain.ErrUserNotFound) {
		return nil, fmt.Errorf("find user: %w", err)
	}

	if existing != nil && existing.IsEmailVerified {
		if existing.GoogleID != nil && *existing.GoogleID == profile.ID {
			return existing, nil
		}
		if err := a.users.LinkGoogleID(ctx, existing.ID, profile.ID); err != nil {
			return nil, fmt.Errorf("link google id: %w", err)
		}
		existing.GoogleID = &profile.ID
		existing.IsEmailVerified = true
		a.logger.InfoContext(ctx, "linked google identity", "email", existing.Email)
		return existing, nil
	}

	newProfile, err := a.users.CreateProfile(ctx, &domain.UserProfile{
		Email:       profile.Email,
		FirstName:   profile.GivenName,
		LastName:    profile.FamilyName,
		DisplayName: profile.DisplayName,
	})
	if err != nil {
		return nil, fmt.Errorf("create user profile: %w", err)
	}

	googleID := profile.ID
	user, err := a.users.Create(ctx, &domain.User{
		Email:           profile.Email,
		IsEmailVerified: true,
		GoogleID:        &googleID,
		ProfileID:       newProfile.ID,
	})
	if err != nil {
		return nil, fmt.Errorf("create user: %w", err)
	}
	a.logger.InfoContext(ctx, "created user from google profile", "email", user.Email)
	return user, nil
}

// PlaceTokenHold stores the issued access token plus a fresh refresh token
// under a random code with a 30-second window, for the SPA to pick up after
// the OAuth redirect.
func (a *Auth) PlaceTokenHold(ctx context.Context, accessToken string, user *domain.User) (*domain.TokenHold, error) {
	code, err := random.Generate(random.DefaultTokenLength)
	if err != nil {
		return nil, fmt.Errorf("generate token code: %w", err)
	}
	refresh, err := random.Generate(random.DefaultTokenLength)
	if err != nil {
		return nil, fmt.Errorf("generate refresh token: %w", err)
	}

	hold, err := a.holds.Create(ctx, &domain.TokenHold{
		Email:        user.Email,
		TokenCode:    code,
		AccessToken:  accessToken,
		RefreshToken: refresh,
		ExpiresAt:    a.now().Add(tokenHoldTTL),
	})
	if err != nil {
		return nil, fmt.Errorf("create token hold: %w", err)
	}
	return hold, nil
}

// RetrieveTokenHold redeems a hold by its code. Redemption is single-use
// (the hold is deleted on claim) and expired holds are rejected; both
// failures surface as domain.ErrUnauthorized.
func (a *Auth) RetrieveTokenHold(ctx context.Context, tokenCode string) (TokenPair, error) {
	hold, err := a.holds.ClaimByCode(ctx, tokenCode)
	if err != nil {
		if errors.Is(err, domain.ErrUnauthorized) {
			return TokenPair{}, domain.ErrUnauthorized
		}
		return TokenPair{}, fmt.Errorf("claim token hold: %w", err)
	}
	if !a.now().Before(hold.ExpiresAt) {
		return TokenPair{}, domain.ErrUnauthorized
	}
	return TokenPair{AccessToken: hold.AccessToken, RefreshToken: hold.RefreshToken}, nil
}
