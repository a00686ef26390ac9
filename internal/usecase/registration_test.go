package usecase_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/jenkify/jenkify/internal/domain"
	"github.com/jenkify/jenkify/internal/usecase"
)

const testEmail = "user@example.com"

func validRegisterInput() usecase.RegisterInput {
	return usecase.RegisterInput{
		Email:                    testEmail,
		FirstName:                "Ada",
		LastName:                 "Lovelace",
		Password:                 "correct-horse-battery",
		AcceptTermsAndConditions: true,
	}
}

func newRegistration(users *fakeUserRepo, reg *fakeRegistrationTokenRepo, reset *fakeResetTokenRepo, pub *fakePublisher) *usecase.Registration {
	logger := testLogger()
	tokens := usecase.NewTokenLifecycle(reg, reset, logger)
	return usecase.NewRegistration(users, tokens, &fakeHasher{}, pub, logger)
}

// ---- Register ----

func TestRegister_TermsNotAccepted(t *testing.T) {
	in := validRegisterInput()
	in.AcceptTermsAndConditions = false

	r := newRegistration(&fakeUserRepo{}, passthroughRegistrationTokens(), passthroughResetTokens(), &fakePublisher{})
	_, err := r.Register(context.Background(), in)
	if !errors.Is(err, domain.ErrTermsNotAccepted) {
		t.Fatalf("want ErrTermsNotAccepted, got %v", err)
	}
}

func TestRegister_NewUser_CreatesAccountAndPublishes(t *testing.T) {
	var createdUser *domain.User
	var createdProfile *domain.UserProfile

	users := &fakeUserRepo{
		findByEmail: func(_ context.Context, _ string) (*domain.User, error) {
			return nil, domain.ErrUserNotFound
		},
		createProfile: func(_ context.Context, profile *domain.UserProfile) (*domain.UserProfile, error) {
			createdProfile = profile
			profile.ID = "profile-1"
			return profile, nil
		},
		create: func(_ context.Context, user *domain.User) (*domain.User, error) {
			createdUser = user
			user.ID = "user-1"
			return user, nil
		},
	}
	pub := &fakePublisher{}

	status, err := newRegistration(users, passthroughRegistrationTokens(), passthroughResetTokens(), pub).
		Register(context.Background(), validRegisterInput())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if status != usecase.StatusAwaitingEmailVerification {
		t.Errorf("status = %q, want %q", status, usecase.StatusAwaitingEmailVerification)
	}

	if createdUser == nil {
		t.Fatal("no user created")
	}
	if createdUser.IsEmailVerified {
		t.Error("new user must start unverified")
	}
	if createdUser.PasswordHash == nil || *createdUser.PasswordHash != "hashed:correct-horse-battery" {
		t.Errorf("password hash = %v, want hashed credential", createdUser.PasswordHash)
	}
	if createdProfile.DisplayName != "Ada" {
		t.Errorf("display name = %q, want first name", createdProfile.DisplayName)
	}

	if len(pub.events) != 1 {
		t.Fatalf("published %d events, want 1", len(pub.events))
	}
	ev, ok := pub.events[0].(domain.UserRegistered)
	if !ok {
		t.Fatalf("published %T, want UserRegistered", pub.events[0])
	}
	if ev.Email != testEmail {
		t.Errorf("event email = %q, want %q", ev.Email, testEmail)
	}
	if len(ev.RegistrationTokenValue) != 128 {
		t.Errorf("registration token length = %d, want 128", len(ev.RegistrationTokenValue))
	}
}

func TestRegister_NewUser_IssuesLiveRegistrationAndPlaceholderReset(t *testing.T) {
	var regToken *domain.RegistrationToken
	var resetToken *domain.PasswordResetToken

	users := &fakeUserRepo{
		findByEmail: func(_ context.Context, _ string) (*domain.User, error) {
			return nil, domain.ErrUserNotFound
		},
		createProfile: func(_ context.Context, profile *domain.UserProfile) (*domain.UserProfile, error) {
			return profile, nil
		},
		create: func(_ context.Context, user *domain.User) (*domain.User, error) {
			return user, nil
		},
	}
	reg := passthroughRegistrationTokens()
	reg.create = func(_ context.Context, token *domain.RegistrationToken) (*domain.RegistrationToken, error) {
		regToken = token
		return token, nil
	}
	reset := passthroughResetTokens()
	reset.create = func(_ context.Context, token *domain.PasswordResetToken) (*domain.PasswordResetToken, error) {
		resetToken = token
		return token, nil
	}

	before := time.Now()
	if _, err := newRegistration(users, reg, reset, &fakePublisher{}).
		Register(context.Background(), validRegisterInput()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if regToken == nil || resetToken == nil {
		t.Fatal("expected both token families to be created")
	}
	if !regToken.ExpiresAt.After(before.Add(14 * time.Minute)) {
		t.Errorf("registration token expiry %v is not ~15m out", regToken.ExpiresAt)
	}
	if resetToken.ExpiresAt.After(time.Now()) {
		t.Errorf("placeholder reset token expiry %v must not be in the future", resetToken.ExpiresAt)
	}
	if regToken.Status != domain.TokenStatusActive {
		t.Errorf("registration token status = %q, want active", regToken.Status)
	}
}

func TestRegister_UnverifiedLocalUser_Superseded(t *testing.T) {
	deletedUser := false
	revokedReg := false
	created := false

	users := &fakeUserRepo{
		findByEmail: func(_ context.Context, _ string) (*domain.User, error) {
			return &domain.User{ID: "user-1", Email: testEmail, IsEmailVerified: false}, nil
		},
		deleteByEmail: func(_ context.Context, email string) error {
			deletedUser = true
			return nil
		},
		createProfile: func(_ context.Context, profile *domain.UserProfile) (*domain.UserProfile, error) {
			return profile, nil
		},
		create: func(_ context.Context, user *domain.User) (*domain.User, error) {
			created = true
			return user, nil
		},
	}
	reg := passthroughRegistrationTokens()
	reg.deleteByEmail = func(_ context.Context, _ string) error {
		revokedReg = true
		return nil
	}

	status, err := newRegistration(users, reg, passthroughResetTokens(), &fakePublisher{}).
		Register(context.Background(), validRegisterInput())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if status != usecase.StatusAwaitingEmailVerification {
		t.Errorf("status = %q, want %q", status, usecase.StatusAwaitingEmailVerification)
	}
	if !deletedUser {
		t.Error("abandoned user was not deleted")
	}
	if !revokedReg {
		t.Error("stale registration token was not revoked")
	}
	if !created {
		t.Error("replacement user was not created")
	}
}

func TestRegister_FederatedUser_ClaimsLocalCredential(t *testing.T) {
	googleID := "google-sub-1"
	var setHash string
	var updatedFirst, updatedLast string
	deleted := false

	users := &fakeUserRepo{
		findByEmail: func(_ context.Context, _ string) (*domain.User, error) {
			return &domain.User{
				ID:              "user-1",
				Email:           testEmail,
				IsEmailVerified: true,
				GoogleID:        &googleID,
				ProfileID:       "profile-1",
			}, nil
		},
		updateProfileName: func(_ context.Context, profileID, firstName, lastName string) error {
			if profileID != "profile-1" {
				t.Errorf("profile id = %q, want profile-1", profileID)
			}
			updatedFirst, updatedLast = firstName, lastName
			return nil
		},
		setPassword: func(_ context.Context, userID, passwordHash string) error {
			setHash = passwordHash
			return nil
		},
		deleteByEmail: func(_ context.Context, _ string) error {
			deleted = true
			return nil
		},
	}

	status, err := newRegistration(users, passthroughRegistrationTokens(), passthroughResetTokens(), &fakePublisher{}).
		Register(context.Background(), validRegisterInput())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if status != usecase.StatusAwaitingEmailVerification {
		t.Errorf("status = %q, want %q", status, usecase.StatusAwaitingEmailVerification)
	}
	if setHash != "hashed:correct-horse-battery" {
		t.Errorf("stored hash = %q", setHash)
	}
	if updatedFirst != "Ada" || updatedLast != "Lovelace" {
		t.Errorf("profile name updated to %q %q", updatedFirst, updatedLast)
	}
	if deleted {
		t.Error("claim path must not delete the existing account")
	}
}

func TestRegister_VerifiedLocalUser_Conflict(t *testing.T) {
	hash := "hashed:something"
	users := &fakeUserRepo{
		findByEmail: func(_ context.Context, _ string) (*domain.User, error) {
			return &domain.User{ID: "user-1", Email: testEmail, IsEmailVerified: true, PasswordHash: &hash}, nil
		},
	}

	_, err := newRegistration(users, passthroughRegistrationTokens(), passthroughResetTokens(), &fakePublisher{}).
		Register(context.Background(), validRegisterInput())
	if !errors.Is(err, domain.ErrRegistrationConflict) {
		t.Fatalf("want ErrRegistrationConflict, got %v", err)
	}
}

func TestRegister_UnverifiedGoogleUser_Conflict(t *testing.T) {
	googleID := "google-sub-1"
	users := &fakeUserRepo{
		findByEmail: func(_ context.Context, _ string) (*domain.User, error) {
			return &domain.User{ID: "user-1", Email: testEmail, IsEmailVerified: false, GoogleID: &googleID}, nil
		},
	}

	_, err := newRegistration(users, passthroughRegistrationTokens(), passthroughResetTokens(), &fakePublisher{}).
		Register(context.Background(), validRegisterInput())
	if !errors.Is(err, domain.ErrRegistrationConflict) {
		t.Fatalf("want ErrRegistrationConflict, got %v", err)
	}
}

func TestRegister_ConcurrentDuplicate_SurfacesConflict(t *testing.T) {
	users := &fakeUserRepo{
		findByEmail: func(_ context.Context, _ string) (*domain.User, error) {
			return nil, domain.ErrUserNotFound
		},
		createProfile: func(_ context.Context, profile *domain.UserProfile) (*domain.UserProfile, error) {
			return profile, nil
		},
		create: func(_ context.Context, _ *domain.User) (*domain.User, error) {
			return nil, domain.ErrRegistrationConflict
		},
	}

	_, err := newRegistration(users, passthroughRegistrationTokens(), passthroughResetTokens(), &fakePublisher{}).
		Register(context.Background(), validRegisterInput())
	if !errors.Is(err, domain.ErrRegistrationConflict) {
		t.Fatalf("want ErrRegistrationConflict, got %v", err)
	}
}

// ---- ConfirmRegistration ----

func TestConfirmRegistration_MarksVerifiedAndConsumes(t *testing.T) {
	verified := false
	var consumedValue string

	users := &fakeUserRepo{
		findByEmail: func(_ context.Context, _ string) (*domain.User, error) {
			return &domain.User{ID: "user-1", Email: testEmail}, nil
		},
		markEmailVerified: func(_ context.Context, userID string) error {
			verified = true
			return nil
		},
	}
	reg := passthroughRegistrationTokens()
	reg.findByValue = func(_ context.Context, value string) (*domain.RegistrationToken, error) {
		return &domain.RegistrationToken{
			Email:     testEmail,
			Value:     value,
			Status:    domain.TokenStatusActive,
			ExpiresAt: time.Now().Add(10 * time.Minute),
		}, nil
	}
	reg.consume = func(_ context.Context, value string, _ time.Time) error {
		consumedValue = value
		return nil
	}

	status, err := newRegistration(users, reg, passthroughResetTokens(), &fakePublisher{}).
		ConfirmRegistration(context.Background(), "token-value")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if status != usecase.StatusSuccess {
		t.Errorf("status = %q, want %q", status, usecase.StatusSuccess)
	}
	if !verified {
		t.Error("email was not marked verified")
	}
	if consumedValue != "token-value" {
		t.Errorf("consumed %q, want token-value", consumedValue)
	}
}

func TestConfirmRegistration_ConsumedToken_Invalid(t *testing.T) {
	reg := passthroughRegistrationTokens()
	reg.findByValue = func(_ context.Context, value string) (*domain.RegistrationToken, error) {
		at := time.Now().Add(-time.Minute)
		return &domain.RegistrationToken{
			Email:      testEmail,
			Value:      value,
			Status:     domain.TokenStatusConsumed,
			ConsumedAt: &at,
			ExpiresAt:  time.Now().Add(10 * time.Minute),
		}, nil
	}

	_, err := newRegistration(&fakeUserRepo{}, reg, passthroughResetTokens(), &fakePublisher{}).
		ConfirmRegistration(context.Background(), "token-value")
	if !errors.Is(err, domain.ErrTokenInvalid) {
		t.Fatalf("want ErrTokenInvalid, got %v", err)
	}
}

func TestConfirmRegistration_ExpiredToken(t *testing.T) {
	reg := passthroughRegistrationTokens()
	reg.findByValue = func(_ context.Context, value string) (*domain.RegistrationToken, error) {
		return &domain.RegistrationToken{
			Email:     testEmail,
			Value:     value,
			Status:    domain.TokenStatusActive,
			ExpiresAt: time.Now().Add(-time.Second),
		}, nil
	}

	_, err := newRegistration(&fakeUserRepo{}, reg, passthroughResetTokens(), &fakePublisher{}).
		ConfirmRegistration(context.Background(), "token-value")
	if !errors.Is(err, domain.ErrTokenExpired) {
		t.Fatalf("want ErrTokenExpired, got %v", err)
	}
}

func TestConfirmRegistration_UnknownToken(t *testing.T) {
	reg := passthroughRegistrationTokens()
	reg.findByValue = func(_ context.Context, _ string) (*domain.RegistrationToken, error) {
		return nil, domain.ErrTokenInvalid
	}

	_, err := newRegistration(&fakeUserRepo{}, reg, passthroughResetTokens(), &fakePublisher{}).
		ConfirmRegistration(context.Background(), "no-such-token")
	if !errors.Is(err, domain.ErrTokenInvalid) {
		t.Fatalf("want ErrTokenInvalid, got %v", err)
	}
}

func TestConfirmRegistration_MissingUser_DataIntegrity(t *testing.T) {
	users := &fakeUserRepo{
		findByEmail: func(_ context.Context, _ string) (*domain.User, error) {
			return nil, domain.ErrUserNotFound
		},
	}
	reg := passthroughRegistrationTokens()
	reg.findByValue = func(_ context.Context, value string) (*domain.RegistrationToken, error) {
		return &domain.RegistrationToken{
			Email:     testEmail,
			Value:     value,
			Status:    domain.TokenStatusActive,
			ExpiresAt: time.Now().Add(10 * time.Minute),
		}, nil
	}

	_, err := newRegistration(users, reg, passthroughResetTokens(), &fakePublisher{}).
		ConfirmRegistration(context.Background(), "token-value")
	if !errors.Is(err, domain.ErrDataIntegrity) {
		t.Fatalf("want ErrDataIntegrity, got %v", err)
	}
}
