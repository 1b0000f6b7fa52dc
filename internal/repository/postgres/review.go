package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/Neogulmanpassingby/2025fall-41class-team3/internal/domain"
	"github.com/Neogulmanpassingby/2025fall-41class-team3/pkg/database"
	apperrors "github.com/Neogulmanpassingby/2025fall-41class-team3/pkg/errors"
)

// ReviewRepository implements review persistence using PostgreSQL.
type ReviewRepository struct {
	pool database.DBTX
}

// NewReviewRepository creates a new PostgreSQL-backed review repository.
func NewReviewRepository(pool database.DBTX) *ReviewRepository {
	return &ReviewRepository{pool: pool}
}

// Upsert writes the author's review text for a policy. Resubmitting replaces
// the content and revives a soft-deleted row; the conflict target is the
// partial unique index over review rows.
func (r *ReviewRepository) Upsert(ctx context.Context, policyID int64, authorID uuid.UUID, content string) (int64, error) {
	query := `
		INSERT INTO policy_comments (policy_id, author_id, content, is_review)
		VALUES ($1, $2, $3, TRUE)
		ON CONFLICT (policy_id, author_id) WHERE is_review
		DO UPDATE SET content = EXCLUDED.content, is_deleted = FALSE, updated_at = NOW()
		RETURNING id`

	var id int64
	err := r.pool.QueryRow(ctx, query, policyID, authorID, content).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("upsert review: %w", err)
	}

	return id, nil
}

// SoftDelete marks the author's live review as deleted, keeping the row for
// revival. Deleting a non-existent or already-deleted review is a no-op.
func (r *ReviewRepository) SoftDelete(ctx context.Context, policyID int64, authorID uuid.UUID) error {
	query := `
		UPDATE policy_comments
		SET is_deleted = TRUE, updated_at = NOW()
		WHERE policy_id = $1 AND author_id = $2 AND is_review AND NOT is_deleted`

	_, err := r.pool.Exec(ctx, query, policyID, authorID)
	if err != nil {
		return fmt.Errorf("soft delete review: %w", err)
	}

	return nil
}

// GetByAuthor returns the author's live review joined with their rating.
func (r *ReviewRepository) GetByAuthor(ctx context.Context, policyID int64, authorID uuid.UUID) (*domain.Review, error) {
	query := `
		SELECT pc.id, pc.policy_id, pc.author_id, pc.content, pr.rating,
		       pc.created_at, pc.updated_at
		FROM policy_comments pc
		LEFT JOIN policy_ratings pr
		  ON pr.policy_id = pc.policy_id AND pr.user_id = pc.author_id
		WHERE pc.policy_id = $1 AND pc.author_id = $2 AND pc.is_review AND NOT pc.is_deleted`

	var rv domain.Review
	err := r.pool.QueryRow(ctx, query, policyID, authorID).Scan(
		&rv.ID,
		&rv.PolicyID,
		&rv.AuthorID,
		&rv.Content,
		&rv.Rating,
		&rv.CreatedAt,
		&rv.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("get review: %w", err)
	}

	return &rv, nil
}

// ListByPolicy returns live reviews for a policy, newest first, joined with
// each author's rating and nickname.
func (r *ReviewRepository) ListByPolicy(ctx context.Context, policyID int64, limit, offset int) ([]domain.Review, error) {
	query := `
		SELECT pc.id, pc.policy_id, pc.author_id, u.nickname, pc.content, pr.rating,
		       pc.created_at, pc.updated_at
		FROM policy_comments pc
		LEFT JOIN policy_ratings pr
		  ON pr.policy_id = pc.policy_id AND pr.user_id = pc.author_id
		LEFT JOIN users u
		  ON u.id = pc.author_id
		WHERE pc.policy_id = $1 AND pc.is_review AND NOT pc.is_deleted
		ORDER BY pc.created_at DESC
		LIMIT $2 OFFSET $3`

	rows, err := r.pool.Query(ctx, query, policyID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list reviews: %w", err)
	}
	defer rows.Close()

	var reviews []domain.Review
	for rows.Next() {
		var rv domain.Review
		var nickname *string

		if err := rows.Scan(
			&rv.ID,
			&rv.PolicyID,
			&rv.AuthorID,
			&nickname,
			&rv.Content,
			&rv.Rating,
			&rv.CreatedAt,
			&rv.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan review row: %w", err)
		}

		if nickname != nil {
			rv.AuthorNickname = *nickname
		}
		reviews = append(reviews, rv)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate review rows: %w", err)
	}

	if reviews == nil {
		reviews = []domain.Review{}
	}

	return reviews, nil
}
