package service

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/Neogulmanpassingby/2025fall-41class-team3/internal/domain"
	"github.com/Neogulmanpassingby/2025fall-41class-team3/internal/repository"
)

// Recommender produces policy name suggestions for a member profile.
type Recommender interface {
	Recommend(ctx context.Context, user *domain.User) ([]string, error)
}

// QuotaGate limits how often a member may request recommendations.
type QuotaGate interface {
	Allow(ctx context.Context, userID string) error
	Remaining(ctx context.Context, userID string) (int64, error)
}

// RecommendResult carries resolved recommendations plus the member's
// remaining daily quota.
type RecommendResult struct {
	Policies  []domain.PolicyRef `json:"policies"`
	Remaining int64              `json:"remaining_today"`
}

// RecommendService gates calls to the external recommender and resolves its
// output against the catalog.
type RecommendService struct {
	users       repository.UserRepository
	policies    repository.PolicyRepository
	recommender Recommender
	quota       QuotaGate
	logger      *slog.Logger
}

// NewRecommendService creates a new recommendation service.
func NewRecommendService(
	users repository.UserRepository,
	policies repository.PolicyRepository,
	recommender Recommender,
	quota QuotaGate,
	logger *slog.Logger,
) *RecommendService {
	return &RecommendService{
		users:       users,
		policies:    policies,
		recommender: recommender,
		quota:       quota,
		logger:      logger,
	}
}

// ForUser fetches recommendations for the member. Each successful call
// consumes one unit of the daily quota; the quota is checked before the model
// is called so a saturated model does not burn it.
func (s *RecommendService) ForUser(ctx context.Context, userID uuid.UUID) (*RecommendResult, error) {
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("get user for recommendation: %w", err)
	}

	if err := s.quota.Allow(ctx, userID.String()); err != nil {
		return nil, err
	}

	names, err := s.recommender.Recommend(ctx, user)
	if err != nil {
		return nil, err
	}

	// The model speaks in policy names; names that dropped out of the
	// catalog since training are skipped.
	refs, err := s.policies.RefsByNames(ctx, names)
	if err != nil {
		return nil, fmt.Errorf("resolve recommended policies: %w", err)
	}

	remaining, err := s.quota.Remaining(ctx, userID.String())
	if err != nil {
		s.logger.WarnContext(ctx, "failed to read remaining quota",
			slog.String("user_id", userID.String()),
			slog.String("error", err.Error()),
		)
		remaining = 0
	}

	s.logger.InfoContext(ctx, "recommendations served",
		slog.String("user_id", userID.String()),
		slog.Int("requested", len(names)),
		slog.Int("resolved", len(refs)),
	)

	return &RecommendResult{
		Policies:  refs,
		Remaining: remaining,
	}, nil
}

// RemainingQuota reports how many recommendation calls the member has left
// today without consuming any.
func (s *RecommendService) RemainingQuota(ctx context.Context, userID uuid.UUID) (int64, error) {
	remaining, err := s.quota.Remaining(ctx, userID.String())
	if err != nil {
		return 0, fmt.Errorf("read remaining quota: %w", err)
	}

	return remaining, nil
}
