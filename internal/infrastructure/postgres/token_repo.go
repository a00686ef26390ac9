package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jenkify/jenkify/internal/domain"
)

// registration_tokens and password_reset_tokens share one shape; tokenTable
// holds the SQL for a single table and the typed repositories wrap it.
type tokenTable struct {
	pool  *pgxpool.Pool
	table string
}

type tokenRow struct {
	ID         string
	Email      string
	Value      string
	Status     string
	ExpiresAt  time.Time
	ConsumedAt *time.Time
	CreatedAt  time.Time
}

func (t *tokenTable) create(ctx context.Context, email, value string, status domain.TokenStatus, expiresAt time.Time, consumedAt *time.Time) (*tokenRow, error) {
	query := fmt.Sprintf(`
		INSERT INTO %s (email, value, status, expires_at, consumed_at)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, email, value, status, expires_at, consumed_at, created_at`, t.table)

	row := t.pool.QueryRow(ctx, query, email, value, string(status), expiresAt, consumedAt)
	return scanToken(row)
}

func (t *tokenTable) findByValue(ctx context.Context, value string) (*tokenRow, error) {
	query := fmt.Sprintf(`
		SELECT id, email, value, status, expires_at, consumed_at, created_at
		FROM %s
		WHERE value = $1`, t.table)

	return scanToken(t.pool.QueryRow(ctx, query, value))
}

func (t *tokenTable) deleteByEmail(ctx context.Context, email string) error {
	_, err := t.pool.Exec(ctx, fmt.Sprintf(`DELETE FROM %s WHERE email = $1`, t.table), email)
	if err != nil {
		return fmt.Errorf("delete tokens for email: %w", err)
	}
	return nil
}

func (t *tokenTable) consume(ctx context.Context, value string, at time.Time) error {
	tag, err := t.pool.Exec(ctx, fmt.Sprintf(`
		UPDATE %s
		SET status = 'consumed', consumed_at = $2
		WHERE value = $1 AND status = 'active'`, t.table),
		value, at,
	)
	if err != nil {
		return fmt.Errorf("consume token: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrTokenInvalid
	}
	return nil
}

func (t *tokenTable) deleteExpiredBefore(ctx context.Context, cutoff time.Time) (int64, error) {
	tag, err := t.pool.Exec(ctx, fmt.Sprintf(`
		DELETE FROM %s
		WHERE (status = 'consumed' OR expires_at < NOW()) AND expires_at < $1`, t.table),
		cutoff,
	)
	if err != nil {
		return 0, fmt.Errorf("prune tokens: %w", err)
	}
	return tag.RowsAffected(), nil
}

func scanToken(row pgx.Row) (*tokenRow, error) {
	var tr tokenRow
	err := row.Scan(&tr.ID, &tr.Email, &tr.Value, &tr.Status,
		&tr.ExpiresAt, &tr.ConsumedAt, &tr.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrTokenInvalid
		}
		return nil, fmt.Errorf("scan token: %w", err)
	}
	return &tr, nil
}

// RegistrationTokenRepository persists registration tokens.
type RegistrationTokenRepository struct {
	t tokenTable
}

func NewRegistrationTokenRepository(pool *pgxpool.Pool) *RegistrationTokenRepository {
	return &RegistrationTokenRepository{t: tokenTable{pool: pool, table: "registration_tokens"}}
}

func (r *RegistrationTokenRepository) Create(ctx context.Context, token *domain.RegistrationToken) (*domain.RegistrationToken, error) {
	row, err := r.t.create(ctx, token.Email, token.Value, token.Status, token.ExpiresAt, token.ConsumedAt)
	if err != nil {
		return nil, err
	}
	return registrationTokenFromRow(row), nil
}

func (r *RegistrationTokenRepository) FindByValue(ctx context.Context, value string) (*domain.RegistrationToken, error) {
	row, err := r.t.findByValue(ctx, value)
	if err != nil {
		return nil, err
	}
	return registrationTokenFromRow(row), nil
}

func (r *RegistrationTokenRepository) DeleteByEmail(ctx context.Context, email string) error {
	return r.t.deleteByEmail(ctx, email)
}

func (r *RegistrationTokenRepository) Consume(ctx context.Context, value string, at time.Time) error {
	return r.t.consume(ctx, value, at)
}

func (r *RegistrationTokenRepository) DeleteExpiredBefore(ctx context.Context, cutoff time.Time) (int64, error) {
	return r.t.deleteExpiredBefore(ctx, cutoff)
}

func registrationTokenFromRow(row *tokenRow) *domain.RegistrationToken {
	return &domain.RegistrationToken{
		ID:         row.ID,
		Email:      row.Email,
		Value:      row.Value,
		Status:     domain.TokenStatus(row.Status),
		ExpiresAt:  row.ExpiresAt,
		ConsumedAt: row.ConsumedAt,
		CreatedAt:  row.CreatedAt,
	}
}

// PasswordResetTokenRepository persists password reset tokens.
type PasswordResetTokenRepository struct {
	t tokenTable
}

func NewPasswordResetTokenRepository(pool *pgxpool.Pool) *PasswordResetTokenRepository {
	return &PasswordResetTokenRepository{t: tokenTable{pool: pool, table: "password_reset_tokens"}}
}

func (r *PasswordResetTokenRepository) Create(ctx context.Context, token *domain.PasswordResetToken) (*domain.PasswordResetToken, error) {
	row, err := r.t.create(ctx, token.Email, token.Value, token.Status, token.ExpiresAt, token.ConsumedAt)
	if err != nil {
		return nil, err
	}
	return passwordResetTokenFromRow(row), nil
}

func (r *PasswordResetTokenRepository) FindByValue(ctx context.Context, value string) (*domain.PasswordResetToken, error) {
	row, err := r.t.findByValue(ctx, value)
	if err != nil {
		return nil, err
	}
	return passwordResetTokenFromRow(row), nil
}

func (r *PasswordResetTokenRepository) DeleteByEmail(ctx context.Context, email string) error {
	return r.t.deleteByEmail(ctx, email)
}

func (r *PasswordResetTokenRepository) Consume(ctx context.Context, value string, at time.Time) error {
	return r.t.consume(ctx, value, at)
}

func (r *PasswordResetTokenRepository) DeleteExpiredBefore(ctx context.Context, cutoff time.Time) (int64, error) {
	return r.t.deleteExpiredBefore(ctx, cutoff)
}

func passwordResetTokenFromRow(row *tokenRow) *domain.PasswordResetToken {
	return &domain.PasswordResetToken{
		ID:         row.ID,
		Email:      row.Email,
		Value:      row.Value,
		Status:     domain.TokenStatus(row.Status),
		ExpiresAt:  row.ExpiresAt,
		ConsumedAt: row.ConsumedAt,
		CreatedAt:  row.CreatedAt,
	}
}
