package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math/rand"
	"strconv"
	"time"

	"github.com/google/uuid"

	"github.com/Neogulmanpassingby/2025fall-41class-team3/internal/domain"
	"github.com/Neogulmanpassingby/2025fall-41class-team3/internal/repository"
	"github.com/Neogulmanpassingby/2025fall-41class-team3/pkg/database"
	apperrors "github.com/Neogulmanpassingby/2025fall-41class-team3/pkg/errors"
	"github.com/Neogulmanpassingby/2025fall-41class-team3/pkg/pagination"
)

const (
	// writeAttempts bounds the retry loop for transient storage conflicts.
	writeAttempts = 3
	retryBaseWait = 25 * time.Millisecond
)

// ReviewEventPublisher publishes review lifecycle events after a successful
// write. Publishing is best effort; failures never roll back the write.
type ReviewEventPublisher interface {
	PublishReviewSubmitted(ctx context.Context, review *domain.Review, rating int, summary domain.RatingSummary) error
	PublishReviewRetracted(ctx context.Context, policyID int64, authorID uuid.UUID, summary domain.RatingSummary) error
}

// SubmitReviewInput holds the parameters for submitting a review.
type SubmitReviewInput struct {
	PolicyID int64
	AuthorID uuid.UUID
	Rating   int
	Content  string
}

// UpdateReviewInput holds the parameters for a partial review update. At
// least one of Rating and Content must be set.
type UpdateReviewInput struct {
	PolicyID int64
	AuthorID uuid.UUID
	Rating   *int
	Content  *string
}

// ReviewResult pairs a review with the aggregate observed in the same
// transaction that produced it.
type ReviewResult struct {
	Review  *domain.Review       `json:"review"`
	Summary domain.RatingSummary `json:"summary"`
}

// ReviewListResult contains one page of reviews plus the live aggregate.
type ReviewListResult struct {
	Items   []domain.Review      `json:"items"`
	Limit   int                  `json:"limit"`
	Offset  int                  `json:"offset"`
	Summary domain.RatingSummary `json:"summary"`
}

// ReviewService implements the business logic for policy reviews and ratings.
// Every mutation runs in one transaction so the stored reviews, ratings, and
// the aggregate never drift apart.
type ReviewService struct {
	policies repository.PolicyRepository
	reviews  repository.ReviewRepository
	ratings  repository.RatingRepository
	uow      repository.UnitOfWork
	events   ReviewEventPublisher
	logger   *slog.Logger
}

// NewReviewService creates a new review service.
func NewReviewService(
	policies repository.PolicyRepository,
	reviews repository.ReviewRepository,
	ratings repository.RatingRepository,
	uow repository.UnitOfWork,
	events ReviewEventPublisher,
	logger *slog.Logger,
) *ReviewService {
	return &ReviewService{
		policies: policies,
		reviews:  reviews,
		ratings:  ratings,
		uow:      uow,
		events:   events,
		logger:   logger,
	}
}

// Submit writes the author's rating and review text for a policy. Submitting
// again replaces both; a soft-deleted review is revived in place.
func (s *ReviewService) Submit(ctx context.Context, input SubmitReviewInput) (*ReviewResult, error) {
	if err := domain.ValidateRating(input.Rating); err != nil {
		return nil, err
	}
	content, err := domain.NormalizeContent(input.Content)
	if err != nil {
		return nil, err
	}
	if err := s.requirePolicy(ctx, input.PolicyID); err != nil {
		return nil, err
	}

	var result ReviewResult
	err = s.withRetry(ctx, func(ctx context.Context, stores repository.ReviewStores) error {
		if err := stores.Ratings.Upsert(ctx, input.PolicyID, input.AuthorID, input.Rating); err != nil {
			return err
		}
		if _, err := stores.Reviews.Upsert(ctx, input.PolicyID, input.AuthorID, content); err != nil {
			return err
		}

		review, err := stores.Reviews.GetByAuthor(ctx, input.PolicyID, input.AuthorID)
		if err != nil {
			return err
		}
		summary, err := stores.Ratings.Summarize(ctx, input.PolicyID)
		if err != nil {
			return err
		}

		result = ReviewResult{Review: review, Summary: summary}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.publishSubmitted(ctx, result.Review, input.Rating, result.Summary)

	s.logger.InfoContext(ctx, "review submitted",
		slog.Int64("policy_id", input.PolicyID),
		slog.String("author_id", input.AuthorID.String()),
		slog.Int("rating", input.Rating),
	)

	return &result, nil
}

// Update changes the rating, the content, or both on an existing review.
func (s *ReviewService) Update(ctx context.Context, input UpdateReviewInput) (*ReviewResult, error) {
	if input.Rating == nil && input.Content == nil {
		return nil, apperrors.InvalidInput("at least one of rating and content is required")
	}
	if input.Rating != nil {
		if err := domain.ValidateRating(*input.Rating); err != nil {
			return nil, err
		}
	}
	var content string
	if input.Content != nil {
		var err error
		content, err = domain.NormalizeContent(*input.Content)
		if err != nil {
			return nil, err
		}
	}
	if err := s.requirePolicy(ctx, input.PolicyID); err != nil {
		return nil, err
	}

	// The update targets an existing review; a missing one is the caller's
	// error, not an implicit create.
	if _, err := s.reviews.GetByAuthor(ctx, input.PolicyID, input.AuthorID); err != nil {
		return nil, err
	}

	var result ReviewResult
	err := s.withRetry(ctx, func(ctx context.Context, stores repository.ReviewStores) error {
		if input.Rating != nil {
			if err := stores.Ratings.Upsert(ctx, input.PolicyID, input.AuthorID, *input.Rating); err != nil {
				return err
			}
		}
		if input.Content != nil {
			if _, err := stores.Reviews.Upsert(ctx, input.PolicyID, input.AuthorID, content); err != nil {
				return err
			}
		}

		review, err := stores.Reviews.GetByAuthor(ctx, input.PolicyID, input.AuthorID)
		if err != nil {
			return err
		}
		summary, err := stores.Ratings.Summarize(ctx, input.PolicyID)
		if err != nil {
			return err
		}

		result = ReviewResult{Review: review, Summary: summary}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.InfoContext(ctx, "review updated",
		slog.Int64("policy_id", input.PolicyID),
		slog.String("author_id", input.AuthorID.String()),
	)

	return &result, nil
}

// Retract soft-deletes the author's review and removes their rating in the
// same transaction, returning the aggregate those writes produced. Retracting
// an absent review is a no-op that still reports the current aggregate.
func (s *ReviewService) Retract(ctx context.Context, policyID int64, authorID uuid.UUID) (domain.RatingSummary, error) {
	if err := s.requirePolicy(ctx, policyID); err != nil {
		return domain.RatingSummary{}, err
	}

	var summary domain.RatingSummary
	err := s.withRetry(ctx, func(ctx context.Context, stores repository.ReviewStores) error {
		if err := stores.Reviews.SoftDelete(ctx, policyID, authorID); err != nil {
			return err
		}
		if err := stores.Ratings.Delete(ctx, policyID, authorID); err != nil {
			return err
		}

		var err error
		summary, err = stores.Ratings.Summarize(ctx, policyID)
		return err
	})
	if err != nil {
		return domain.RatingSummary{}, err
	}

	s.publishRetracted(ctx, policyID, authorID, summary)

	s.logger.InfoContext(ctx, "review retracted",
		slog.Int64("policy_id", policyID),
		slog.String("author_id", authorID.String()),
	)

	return summary, nil
}

// GetMine returns the caller's own live review for a policy, or nil when
// they have none.
func (s *ReviewService) GetMine(ctx context.Context, policyID int64, authorID uuid.UUID) (*domain.Review, error) {
	if err := s.requirePolicy(ctx, policyID); err != nil {
		return nil, err
	}

	review, err := s.reviews.GetByAuthor(ctx, policyID, authorID)
	if err != nil {
		// Never having reviewed is a normal state, not an error.
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, nil
		}
		return nil, err
	}

	return review, nil
}

// List returns one page of a policy's live reviews, newest first, together
// with the current rating aggregate.
func (s *ReviewService) List(ctx context.Context, policyID int64, limit, offset int) (*ReviewListResult, error) {
	limit = pagination.Clamp(limit)
	if offset < 0 {
		offset = 0
	}

	if err := s.requirePolicy(ctx, policyID); err != nil {
		return nil, err
	}

	reviews, err := s.reviews.ListByPolicy(ctx, policyID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list reviews: %w", err)
	}

	summary, err := s.ratings.Summarize(ctx, policyID)
	if err != nil {
		return nil, fmt.Errorf("summarize ratings: %w", err)
	}

	return &ReviewListResult{
		Items:   reviews,
		Limit:   limit,
		Offset:  offset,
		Summary: summary,
	}, nil
}

// Summary returns the current rating aggregate for a policy.
func (s *ReviewService) Summary(ctx context.Context, policyID int64) (domain.RatingSummary, error) {
	if err := s.requirePolicy(ctx, policyID); err != nil {
		return domain.RatingSummary{}, err
	}

	summary, err := s.ratings.Summarize(ctx, policyID)
	if err != nil {
		return domain.RatingSummary{}, fmt.Errorf("summarize ratings: %w", err)
	}

	return summary, nil
}

func (s *ReviewService) requirePolicy(ctx context.Context, policyID int64) error {
	exists, err := s.policies.Exists(ctx, policyID)
	if err != nil {
		return fmt.Errorf("check policy exists: %w", err)
	}
	if !exists {
		return apperrors.NotFound("policy", strconv.FormatInt(policyID, 10))
	}
	return nil
}

// withRetry re-runs the whole transaction when PostgreSQL aborts it with a
// serialization failure or deadlock. Each attempt starts a fresh transaction;
// after the last failed attempt the caller gets a conflict error.
func (s *ReviewService) withRetry(ctx context.Context, fn func(ctx context.Context, stores repository.ReviewStores) error) error {
	var lastErr error
	for attempt := 1; attempt <= writeAttempts; attempt++ {
		lastErr = s.uow.Within(ctx, fn)
		if lastErr == nil {
			return nil
		}
		if !database.IsSerializationFailure(lastErr) {
			return lastErr
		}

		s.logger.WarnContext(ctx, "transient storage conflict, retrying",
			slog.Int("attempt", attempt),
			slog.String("error", lastErr.Error()),
		)

		if attempt < writeAttempts {
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(retryWait(attempt)):
			}
		}
	}

	return apperrors.Conflict("write conflicted with concurrent updates, please retry")
}

// retryWait grows linearly with jitter so colliding writers fan out.
func retryWait(attempt int) time.Duration {
	base := retryBaseWait * time.Duration(attempt)
	jitter := time.Duration(rand.Int63n(int64(retryBaseWait)))
	return base + jitter
}

func (s *ReviewService) publishSubmitted(ctx context.Context, review *domain.Review, rating int, summary domain.RatingSummary) {
	if s.events == nil {
		return
	}
	if err := s.events.PublishReviewSubmitted(ctx, review, rating, summary); err != nil {
		s.logger.ErrorContext(ctx, "failed to publish review.submitted event",
			slog.Int64("policy_id", review.PolicyID),
			slog.String("error", err.Error()),
		)
		// Do not fail the operation if event publishing fails.
	}
}

func (s *ReviewService) publishRetracted(ctx context.Context, policyID int64, authorID uuid.UUID, summary domain.RatingSummary) {
	if s.events == nil {
		return
	}
	if err := s.events.PublishReviewRetracted(ctx, policyID, authorID, summary); err != nil {
		s.logger.ErrorContext(ctx, "failed to publish review.retracted event",
			slog.Int64("policy_id", policyID),
			slog.String("error", err.Error()),
		)
	}
}
