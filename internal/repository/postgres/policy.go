package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/Neogulmanpassingby/2025fall-41class-team3/internal/domain"
	"github.com/Neogulmanpassingby/2025fall-41class-team3/pkg/database"
	apperrors "github.com/Neogulmanpassingby/2025fall-41class-team3/pkg/errors"
)

// PolicyRepository implements read access to the policy catalog using
// PostgreSQL. The catalog is ingested out of band; only view counters are
// written here.
type PolicyRepository struct {
	pool database.DBTX
}

// NewPolicyRepository creates a new PostgreSQL-backed policy repository.
func NewPolicyRepository(pool database.DBTX) *PolicyRepository {
	return &PolicyRepository{pool: pool}
}

// Exists reports whether the policy is in the catalog.
func (r *PolicyRepository) Exists(ctx context.Context, id int64) (bool, error) {
	query := `SELECT EXISTS(SELECT 1 FROM policies WHERE id = $1)`

	var exists bool
	if err := r.pool.QueryRow(ctx, query, id).Scan(&exists); err != nil {
		return false, fmt.Errorf("check policy exists: %w", err)
	}

	return exists, nil
}

// GetByID returns the policy detail and bumps its view counter.
func (r *PolicyRepository) GetByID(ctx context.Context, id int64) (*domain.Policy, error) {
	query := `
		UPDATE policies
		SET view_count = view_count + 1
		WHERE id = $1
		RETURNING id, name, category, subcategory, keywords, description,
		          support_content, apply_method, apply_url, region,
		          min_age, max_age, view_count, published_at, created_at`

	var p domain.Policy
	err := r.pool.QueryRow(ctx, query, id).Scan(
		&p.ID,
		&p.Name,
		&p.Category,
		&p.Subcategory,
		&p.Keywords,
		&p.Description,
		&p.SupportContent,
		&p.ApplyMethod,
		&p.ApplyURL,
		&p.Region,
		&p.MinAge,
		&p.MaxAge,
		&p.ViewCount,
		&p.PublishedAt,
		&p.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("get policy: %w", err)
	}

	return &p, nil
}

// ListPopular returns the most viewed policies.
func (r *PolicyRepository) ListPopular(ctx context.Context, limit int) ([]domain.PolicyRef, error) {
	query := `
		SELECT id, name
		FROM policies
		ORDER BY view_count DESC
		LIMIT $1`

	return r.queryRefs(ctx, query, limit)
}

// ListRecent returns the most recently published policies.
func (r *PolicyRepository) ListRecent(ctx context.Context, limit int) ([]domain.PolicyRef, error) {
	query := `
		SELECT id, name
		FROM policies
		WHERE published_at IS NOT NULL
		ORDER BY published_at DESC
		LIMIT $1`

	return r.queryRefs(ctx, query, limit)
}

// RefsByNames resolves recommender output (policy names) to catalog entries.
// Names with no catalog match are silently dropped.
func (r *PolicyRepository) RefsByNames(ctx context.Context, names []string) ([]domain.PolicyRef, error) {
	if len(names) == 0 {
		return []domain.PolicyRef{}, nil
	}

	query := `SELECT id, name FROM policies WHERE name = ANY($1)`

	return r.queryRefs(ctx, query, names)
}

func (r *PolicyRepository) queryRefs(ctx context.Context, query string, args ...any) ([]domain.PolicyRef, error) {
	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list policies: %w", err)
	}
	defer rows.Close()

	var refs []domain.PolicyRef
	for rows.Next() {
		var ref domain.PolicyRef
		if err := rows.Scan(&ref.ID, &ref.Name); err != nil {
			return nil, fmt.Errorf("scan policy row: %w", err)
		}
		refs = append(refs, ref)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate policy rows: %w", err)
	}

	if refs == nil {
		refs = []domain.PolicyRef{}
	}

	return refs, nil
}
