package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/Neogulmanpassingby/2025fall-41class-team3/pkg/database"
	apperrors "github.com/Neogulmanpassingby/2025fall-41class-team3/pkg/errors"
)

// RefreshTokenRepository stores hashed refresh tokens using PostgreSQL.
// Raw tokens never touch the database; callers hash before storing.
type RefreshTokenRepository struct {
	pool database.DBTX
}

// NewRefreshTokenRepository creates a new PostgreSQL-backed token repository.
func NewRefreshTokenRepository(pool database.DBTX) *RefreshTokenRepository {
	return &RefreshTokenRepository{pool: pool}
}

// Store saves a hashed refresh token for a user.
func (r *RefreshTokenRepository) Store(ctx context.Context, tokenHash string, userID uuid.UUID, expiresAt time.Time) error {
	query := `
		INSERT INTO refresh_tokens (token_hash, user_id, expires_at)
		VALUES ($1, $2, $3)`

	_, err := r.pool.Exec(ctx, query, tokenHash, userID, expiresAt)
	if err != nil {
		return fmt.Errorf("store refresh token: %w", err)
	}

	return nil
}

// Consume deletes the token and returns its owner. Tokens past their expiry
// are treated as unknown, so a single query covers both checks.
func (r *RefreshTokenRepository) Consume(ctx context.Context, tokenHash string) (uuid.UUID, error) {
	query := `
		DELETE FROM refresh_tokens
		WHERE token_hash = $1 AND expires_at > NOW()
		RETURNING user_id`

	var userID uuid.UUID
	err := r.pool.QueryRow(ctx, query, tokenHash).Scan(&userID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return uuid.Nil, apperrors.ErrUnauthorized
		}
		return uuid.Nil, fmt.Errorf("consume refresh token: %w", err)
	}

	return userID, nil
}

// DeleteForUser revokes all refresh tokens belonging to a user.
func (r *RefreshTokenRepository) DeleteForUser(ctx context.Context, userID uuid.UUID) error {
	query := `DELETE FROM refresh_tokens WHERE user_id = $1`

	_, err := r.pool.Exec(ctx, query, userID)
	if err != nil {
		return fmt.Errorf("delete refresh tokens: %w", err)
	}

	return nil
}
