package repository

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/Neogulmanpassingby/2025fall-41class-team3/internal/domain"
)

// RatingRepository defines persistence operations for policy star ratings.
type RatingRepository interface {
	// Upsert writes the user's rating for a policy, replacing any previous one.
	Upsert(ctx context.Context, policyID int64, userID uuid.UUID, rating int) error
	// Delete removes the user's rating. Deleting an absent rating is a no-op.
	Delete(ctx context.Context, policyID int64, userID uuid.UUID) error
	// Summarize returns the live aggregate for a policy.
	Summarize(ctx context.Context, policyID int64) (domain.RatingSummary, error)
}

// ReviewRepository defines persistence operations for policy reviews.
type ReviewRepository interface {
	// Upsert writes the author's review text, reviving a soft-deleted row,
	// and returns the review row id.
	Upsert(ctx context.Context, policyID int64, authorID uuid.UUID, content string) (int64, error)
	// SoftDelete marks the author's review deleted. Absent rows are a no-op.
	SoftDelete(ctx context.Context, policyID int64, authorID uuid.UUID) error
	// GetByAuthor returns the author's live review joined with their rating,
	// or apperrors.ErrNotFound when none exists.
	GetByAuthor(ctx context.Context, policyID int64, authorID uuid.UUID) (*domain.Review, error)
	// ListByPolicy returns live reviews newest first.
	ListByPolicy(ctx context.Context, policyID int64, limit, offset int) ([]domain.Review, error)
}

// PolicyRepository defines read operations over the policy catalog.
type PolicyRepository interface {
	Exists(ctx context.Context, id int64) (bool, error)
	// GetByID returns the policy and increments its view counter.
	GetByID(ctx context.Context, id int64) (*domain.Policy, error)
	ListPopular(ctx context.Context, limit int) ([]domain.PolicyRef, error)
	ListRecent(ctx context.Context, limit int) ([]domain.PolicyRef, error)
	// RefsByNames resolves policy names (as returned by the recommender) to
	// catalog entries, preserving only names that exist.
	RefsByNames(ctx context.Context, names []string) ([]domain.PolicyRef, error)
}

// UserRepository defines persistence operations for members.
type UserRepository interface {
	Create(ctx context.Context, user *domain.User) error
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
	GetByID(ctx context.Context, id uuid.UUID) (*domain.User, error)
	EmailExists(ctx context.Context, email string) (bool, error)
	NicknameExists(ctx context.Context, nickname string) (bool, error)
	UpdateProfile(ctx context.Context, id uuid.UUID, profile domain.Profile) error
}

// RefreshTokenRepository stores hashed refresh tokens for rotation.
type RefreshTokenRepository interface {
	Store(ctx context.Context, tokenHash string, userID uuid.UUID, expiresAt time.Time) error
	// Consume deletes the token and returns its owner. Expired or unknown
	// tokens yield apperrors.ErrUnauthorized.
	Consume(ctx context.Context, tokenHash string) (uuid.UUID, error)
	DeleteForUser(ctx context.Context, userID uuid.UUID) error
}

// ReviewStores bundles the transaction-scoped repositories handed to a unit
// of work callback. All operations on these stores share one transaction.
type ReviewStores struct {
	Ratings RatingRepository
	Reviews ReviewRepository
}

// UnitOfWork runs a function atomically: every store operation inside fn
// either commits together or rolls back together.
type UnitOfWork interface {
	Within(ctx context.Context, fn func(ctx context.Context, stores ReviewStores) error) error
}
