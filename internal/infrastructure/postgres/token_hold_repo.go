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

type TokenHoldRepository struct {
	pool *pgxpool.Pool
}

func NewTokenHoldRepository(pool *pgxpool.Pool) *TokenHoldRepository {
	return &TokenHoldRepository{pool: pool}
}

func (r *TokenHoldRepository) Create(ctx context.Context, hold *domain.TokenHold) (*domain.TokenHold, error) {
	query := `
		INSERT INTO token_holds (email, token_code, access_token, refresh_token, expires_at)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, email, token_code, access_token, refresh_token, expires_at, created_at`

	row := r.pool.QueryRow(ctx, query,
		hold.Email,
		hold.TokenCode,
		hold.AccessToken,
		hold.RefreshToken,
		hold.ExpiresAt,
	)
	return scanTokenHold(row)
}

// ClaimByCode deletes and returns the hold in one statement so a code can
// only ever be redeemed once, even under concurrent retrieval.
func (r *TokenHoldRepository) ClaimByCode(ctx context.Context, tokenCode string) (*domain.TokenHold, error) {
	query := `
		DELETE FROM token_holds
		WHERE token_code = $1
		RETURNING id, email, token_code, access_token, refresh_token, expires_at, created_at`

	hold, err := scanTokenHold(r.pool.QueryRow(ctx, query, tokenCode))
	if err != nil {
		if errors.Is(err, domain.ErrUnauthorized) {
			return nil, domain.ErrUnauthorized
		}
		return nil, err
	}
	return hold, nil
}

func (r *TokenHoldRepository) DeleteByEmail(ctx context.Context, email string) error {
	if _, err := r.pool.Exec(ctx, `DELETE FROM token_holds WHERE email = $1`, email); err != nil {
		return fmt.Errorf("delete token holds: %w", err)
	}
	return nil
}

func (r *TokenHoldRepository) DeleteExpiredBefore(ctx context.Context, cutoff time.Time) (int64, error) {
	tag, err := r.pool.Exec(ctx, `DELETE FROM token_holds WHERE expires_at < $1`, cutoff)
	if err != nil {
		return 0, fmt.Errorf("prune token holds: %w", err)
	}
	return tag.RowsAffected(), nil
}

func scanTokenHold(row pgx.Row) (*domain.TokenHold, error) {
	var h domain.TokenHold
	err := row.Scan(&h.ID, &h.Email, &h.TokenCode, &h.AccessToken,
		&h.RefreshToken, &h.ExpiresAt, &h.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrUnauthorized
		}
		return nil, fmt.Errorf("scan token hold: %w", err)
	}
	return &h, nil
}
