package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jenkify/jenkify/internal/domain"
)

type UserRepository struct {
	pool *pgxpool.Pool
}

func NewUserRepository(pool *pgxpool.Pool) *UserRepository {
	return &UserRepository{pool: pool}
}

func (r *UserRepository) FindByEmail(ctx context.Context, email string) (*domain.User, error) {
	query := `
		SELECT id, email, is_email_verified, google_id, password_hash,
		       profile_id, created_at, updated_at
		FROM users
		WHERE email = $1`

	row := r.pool.QueryRow(ctx, query, email)
	return scanUser(row)
}

func (r *UserRepository) Create(ctx context.Context, user *domain.User) (*domain.User, error) {
	query := `
		INSERT INTO users (email, is_email_verified, google_id, password_hash, profile_id)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, email, is_email_verified, google_id, password_hash,
		          profile_id, created_at, updated_at`

	row := r.pool.QueryRow(ctx, query,
		user.Email,
		user.IsEmailVerified,
		user.GoogleID,
		user.PasswordHash,
		user.ProfileID,
	)

	created, err := scanUser(row)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return nil, domain.ErrRegistrationConflict
		}
		return nil, err
	}
	return created, nil
}

func (r *UserRepository) DeleteByEmail(ctx context.Context, email string) error {
	// The owned profile shares the user's email; remove both.
	if _, err := r.pool.Exec(ctx, `DELETE FROM users WHERE email = $1`, email); err != nil {
		return fmt.Errorf("delete user: %w", err)
	}
	if _, err := r.pool.Exec(ctx, `DELETE FROM user_profiles WHERE email = $1`, email); err != nil {
		return fmt.Errorf("delete user profile: %w", err)
	}
	return nil
}

func (r *UserRepository) SetPassword(ctx context.Context, userID, passwordHash string) error {
	_, err := r.pool.Exec(ctx,
		`UPDATE users SET password_hash = $2, updated_at = NOW() WHERE id = $1`,
		userID, passwordHash,
	)
	if err != nil {
		return fmt.Errorf("set password: %w", err)
	}
	return nil
}

func (r *UserRepository) MarkEmailVerified(ctx context.Context, userID string) error {
	_, err := r.pool.Exec(ctx,
		`UPDATE users SET is_email_verified = TRUE, updated_at = NOW() WHERE id = $1`,
		userID,
	)
	if err != nil {
		return fmt.Errorf("mark email verified: %w", err)
	}
	return nil
}

func (r *UserRepository) LinkGoogleID(ctx context.Context, userID, googleID string) error {
	_, err := r.pool.Exec(ctx,
		`UPDATE users
		 SET google_id = $2, is_email_verified = TRUE, updated_at = NOW()
		 WHERE id = $1`,
		userID, googleID,
	)
	if err != nil {
		return fmt.Errorf("link google id: %w", err)
	}
	return nil
}

func (r *UserRepository) CreateProfile(ctx context.Context, profile *domain.UserProfile) (*domain.UserProfile, error) {
	query := `
		INSERT INTO user_profiles (email, first_name, last_name, display_name)
		VALUES ($1, $2, $3, $4)
		RETURNING id, email, first_name, last_name, display_name, created_at, updated_at`

	row := r.pool.QueryRow(ctx, query,
		profile.Email,
		profile.FirstName,
		profile.LastName,
		profile.DisplayName,
	)
	return scanProfile(row)
}

func (r *UserRepository) FindProfileByEmail(ctx context.Context, email string) (*domain.UserProfile, error) {
	query := `
		SELECT id, email, first_name, last_name, display_name, created_at, updated_at
		FROM user_profiles
		WHERE email = $1`

	row := r.pool.QueryRow(ctx, query, email)
	return scanProfile(row)
}

func (r *UserRepository) UpdateProfileName(ctx context.Context, profileID, firstName, lastName string) error {
	_, err := r.pool.Exec(ctx,
		`UPDATE user_profiles
		 SET first_name = $2, last_name = $3, updated_at = NOW()
		 WHERE id = $1`,
		profileID, firstName, lastName,
	)
	if err != nil {
		return fmt.Errorf("update profile name: %w", err)
	}
	return nil
}

func scanUser(row pgx.Row) (*domain.User, error) {
	var u domain.User
	err := row.Scan(&u.ID, &u.Email, &u.IsEmailVerified, &u.GoogleID,
		&u.PasswordHash, &u.ProfileID, &u.CreatedAt, &u.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrUserNotFound
		}
		return nil, fmt.Errorf("scan user: %w", err)
	}
	return &u, nil
}

func scanProfile(row pgx.Row) (*domain.UserProfile, error) {
	var p domain.UserProfile
	err := row.Scan(&p.ID, &p.Email, &p.FirstName, &p.LastName,
		&p.DisplayName, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrProfileNotFound
		}
		return nil, fmt.Errorf("scan user profile: %w", err)
	}
	return &p, nil
}
