package usecase_test

import (
	"context"
	"io"
	"log/slog"
	"time"

	"github.com/jenkify/jenkify/internal/domain"
	"github.com/jenkify/jenkify/internal/event"
)

// ---- fakes ----

type fakeUserRepo struct {
	findByEmail        func(ctx context.Context, email string) (*domain.User, error)
	create             func(ctx context.Context, user *domain.User) (*domain.User, error)
	deleteByEmail      func(ctx context.Context, email string) error
	setPassword        func(ctx context.Context, userID, passwordHash string) error
	markEmailVerified  func(ctx context.Context, userID string) error
	linkGoogleID       func(ctx context.Context, userID, googleID string) error
	createProfile      func(ctx context.Context, profile *domain.UserProfile) (*domain.UserProfile, error)
	findProfileByEmail func(ctx context.Context, email string) (*domain.UserProfile, error)
	updateProfileName  func(ctx context.Context, profileID, firstName, lastName string) error
}

func (r *fakeUserRepo) FindByEmail(ctx context.Context, email string) (*domain.User, error) {
	return r.findByEmail(ctx, email)
}

func (r *fakeUserRepo) Create(ctx context.Context, user *domain.User) (*domain.User, error) {
	return r.create(ctx, user)
}

func (r *fakeUserRepo) DeleteByEmail(ctx context.Context, email string) error {
	return r.deleteByEmail(ctx, email)
}

func (r *fakeUserRepo) SetPassword(ctx context.Context, userID, passwordHash string) error {
	return r.setPassword(ctx, userID, passwordHash)
}

func (r *fakeUserRepo) MarkEmailVerified(ctx context.Context, userID string) error {
	return r.markEmailVerified(ctx, userID)
}

func (r *fakeUserRepo) LinkGoogleID(ctx context.Context, userID, googleID string) error {
	return r.linkGoogleID(ctx, userID, googleID)
}

func (r *fakeUserRepo) CreateProfile(ctx context.Context, profile *domain.UserProfile) (*domain.UserProfile, error) {
	return r.createProfile(ctx, profile)
}

func (r *fakeUserRepo) FindProfileByEmail(ctx context.Context, email string) (*domain.UserProfile, error) {
	return r.findProfileByEmail(ctx, email)
}

func (r *fakeUserRepo) UpdateProfileName(ctx context.Context, profileID, firstName, lastName string) error {
	return r.updateProfileName(ctx, profileID, firstName, lastName)
}

type fakeRegistrationTokenRepo struct {
	create              func(ctx context.Context, token *domain.RegistrationToken) (*domain.RegistrationToken, error)
	findByValue         func(ctx context.Context, value string) (*domain.RegistrationToken, error)
	deleteByEmail       func(ctx context.Context, email string) error
	consume             func(ctx context.Context, value string, at time.Time) error
	deleteExpiredBefore func(ctx context.Context, cutoff time.Time) (int64, error)
}

func (r *fakeRegistrationTokenRepo) Create(ctx context.Context, token *domain.RegistrationToken) (*domain.RegistrationToken, error) {
	return r.create(ctx, token)
}

func (r *fakeRegistrationTokenRepo) FindByValue(ctx context.Context, value string) (*domain.RegistrationToken, error) {
	return r.findByValue(ctx, value)
}

func (r *fakeRegistrationTokenRepo) DeleteByEmail(ctx context.Context, email string) error {
	return r.deleteByEmail(ctx, email)
}

func (r *fakeRegistrationTokenRepo) Consume(ctx context.Context, value string, at time.Time) error {
	return r.consume(ctx, value, at)
}

func (r *fakeRegistrationTokenRepo) DeleteExpiredBefore(ctx context.Context, cutoff time.Time) (int64, error) {
	return r.deleteExpiredBefore(ctx, cutoff)
}

type fakeResetTokenRepo struct {
	create              func(ctx context.Context, token *domain.PasswordResetToken) (*domain.PasswordResetToken, error)
	findByValue         func(ctx context.Context, value string) (*domain.PasswordResetToken, error)
	deleteByEmail       func(ctx context.Context, email string) error
	consume             func(ctx context.Context, value string, at time.Time) error
	deleteExpiredBefore func(ctx context.Context, cutoff time.Time) (int64, error)
}

func (r *fakeResetTokenRepo) Create(ctx context.Context, token *domain.PasswordResetToken) (*domain.PasswordResetToken, error) {
	return r.create(ctx, token)
}

func (r *fakeResetTokenRepo) FindByValue(ctx context.Context, value string) (*domain.PasswordResetToken, error) {
	return r.findByValue(ctx, value)
}

func (r *fakeResetTokenRepo) DeleteByEmail(ctx context.Context, email string) error {
	return r.deleteByEmail(ctx, email)
}

func (r *fakeResetTokenRepo) Consume(ctx context.Context, value string, at time.Time) error {
	return r.consume(ctx, value, at)
}

func (r *fakeResetTokenRepo) DeleteExpiredBefore(ctx context.Context, cutoff time.Time) (int64, error) {
	return r.deleteExpiredBefore(ctx, cutoff)
}

type fakeHoldRepo struct {
	create              func(ctx context.Context, hold *domain.TokenHold) (*domain.TokenHold, error)
	claimByCode         func(ctx context.Context, tokenCode string) (*domain.TokenHold, error)
	deleteByEmail       func(ctx context.Context, email string) error
	deleteExpiredBefore func(ctx context.Context, cutoff time.Time) (int64, error)
}

func (r *fakeHoldRepo) Create(ctx context.Context, hold *domain.TokenHold) (*domain.TokenHold, error) {
	return r.create(ctx, hold)
}

func (r *fakeHoldRepo) ClaimByCode(ctx context.Context, tokenCode string) (*domain.TokenHold, error) {
	return r.claimByCode(ctx, tokenCode)
}

func (r *fakeHoldRepo) DeleteByEmail(ctx context.Context, email string) error {
	return r.deleteByEmail(ctx, email)
}

func (r *fakeHoldRepo) DeleteExpiredBefore(ctx context.Context, cutoff time.Time) (int64, error) {
	return r.deleteExpiredBefore(ctx, cutoff)
}

type fakeHasher struct {
	hash   func(plaintext string) (string, error)
	verify func(plaintext, hashed string) bool
}

func (h *fakeHasher) Hash(plaintext string) (string, error) {
	if h.hash != nil {
		return h.hash(plaintext)
	}
	return "hashed:" + plaintext, nil
}

func (h *fakeHasher) Verify(plaintext, hashed string) bool {
	if h.verify != nil {
		return h.verify(plaintext, hashed)
	}
	return hashed == "hashed:"+plaintext
}

// fakePublisher records published events in order.
type fakePublisher struct {
	events []event.Event
}

func (p *fakePublisher) Publish(_ context.Context, e event.Event) {
	p.events = append(p.events, e)
}

// ---- helpers ----

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// passthroughRegistrationTokens stores nothing; Create echoes the token
// back, deletes succeed.
func passthroughRegistrationTokens() *fakeRegistrationTokenRepo {
	return &fakeRegistrationTokenRepo{
		create: func(_ context.Context, token *domain.RegistrationToken) (*domain.RegistrationToken, error) {
			return token, nil
		},
		deleteByEmail: func(_ context.Context, _ string) error { return nil },
	}
}

func passthroughResetTokens() *fakeResetTokenRepo {
	return &fakeResetTokenRepo{
		create: func(_ context.Context, token *domain.PasswordResetToken) (*domain.PasswordResetToken, error) {
			return token, nil
		},
		deleteByEmail: func(_ context.Context, _ string) error { return nil },
	}
}
