package domain

import (
	"strings"
	"time"

	"github.com/google/uuid"

	apperrors "github.com/Neogulmanpassingby/2025fall-41class-team3/pkg/errors"
)

const (
	// MinRating and MaxRating bound the 1-5 star scale.
	MinRating = 1
	MaxRating = 5
)

// Rating is one user's star rating of a policy. There is at most one row per
// (policy, user); retracting a review removes the rating row entirely.
type Rating struct {
	PolicyID  int64     `json:"policy_id"`
	UserID    uuid.UUID `json:"user_id"`
	Rating    int       `json:"rating"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Review is one user's free-text review of a policy, joined with their rating.
// A review row is soft-deleted on retraction and revived by a later submit.
type Review struct {
	ID             int64     `json:"id"`
	PolicyID       int64     `json:"policy_id"`
	AuthorID       uuid.UUID `json:"author_id"`
	AuthorNickname string    `json:"author_nickname,omitempty"`
	Content        string    `json:"content"`
	Rating         *int      `json:"rating"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

// RatingSummary is the aggregate over all live ratings of a policy.
// Average is nil when there are no ratings, and rounded to 2 decimals
// otherwise.
type RatingSummary struct {
	Count   int      `json:"rating_count"`
	Average *float64 `json:"rating_avg"`
}

// ValidateRating checks that a rating is an integer in [MinRating, MaxRating].
func ValidateRating(rating int) error {
	if rating < MinRating || rating > MaxRating {
		return apperrors.InvalidInput("rating must be an integer between 1 and 5")
	}
	return nil
}

// NormalizeContent trims surrounding whitespace and rejects empty content.
func NormalizeContent(content string) (string, error) {
	trimmed := strings.TrimSpace(content)
	if trimmed == "" {
		return "", apperrors.InvalidInput("content must not be empty")
	}
	return trimmed, nil
}
