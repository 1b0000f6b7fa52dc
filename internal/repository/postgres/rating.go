package postgres

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/Neogulmanpassingby/2025fall-41class-team3/internal/domain"
	"github.com/Neogulmanpassingby/2025fall-41class-team3/pkg/database"
)

// RatingRepository implements rating persistence using PostgreSQL.
type RatingRepository struct {
	pool database.DBTX
}

// NewRatingRepository creates a new PostgreSQL-backed rating repository.
func NewRatingRepository(pool database.DBTX) *RatingRepository {
	return &RatingRepository{pool: pool}
}

// Upsert writes the user's rating for a policy. A second submission from the
// same user replaces the previous value in place.
func (r *RatingRepository) Upsert(ctx context.Context, policyID int64, userID uuid.UUID, rating int) error {
	query := `
		INSERT INTO policy_ratings (policy_id, user_id, rating)
		VALUES ($1, $2, $3)
		ON CONFLICT (policy_id, user_id)
		DO UPDATE SET rating = EXCLUDED.rating, updated_at = NOW()`

	_, err := r.pool.Exec(ctx, query, policyID, userID, rating)
	if err != nil {
		return fmt.Errorf("upsert rating: %w", err)
	}

	return nil
}

// Delete removes the user's rating row. Ratings have no soft-delete state;
// retraction removes the row so the aggregate drops it immediately.
func (r *RatingRepository) Delete(ctx context.Context, policyID int64, userID uuid.UUID) error {
	query := `DELETE FROM policy_ratings WHERE policy_id = $1 AND user_id = $2`

	_, err := r.pool.Exec(ctx, query, policyID, userID)
	if err != nil {
		return fmt.Errorf("delete rating: %w", err)
	}

	return nil
}

// Summarize returns the count and two-decimal average of all live ratings.
// The average is NULL (nil) when the policy has no ratings.
func (r *RatingRepository) Summarize(ctx context.Context, policyID int64) (domain.RatingSummary, error) {
	query := `
		SELECT COUNT(*), ROUND(AVG(rating)::numeric, 2)
		FROM policy_ratings
		WHERE policy_id = $1`

	var summary domain.RatingSummary
	err := r.pool.QueryRow(ctx, query, policyID).Scan(&summary.Count, &summary.Average)
	if err != nil {
		return domain.RatingSummary{}, fmt.Errorf("summarize ratings: %w", err)
	}

	return summary, nil
}
