package service

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/Neogulmanpassingby/2025fall-41class-team3/internal/domain"
	"github.com/Neogulmanpassingby/2025fall-41class-team3/internal/repository"
)

// highlightCount is how many policies the popular/recent listings return.
const highlightCount = 3

// PolicyService implements read access to the policy catalog.
type PolicyService struct {
	policies repository.PolicyRepository
	logger   *slog.Logger
}

// NewPolicyService creates a new policy service.
func NewPolicyService(policies repository.PolicyRepository, logger *slog.Logger) *PolicyService {
	return &PolicyService{
		policies: policies,
		logger:   logger,
	}
}

// GetDetail returns one policy and counts the view.
func (s *PolicyService) GetDetail(ctx context.Context, id int64) (*domain.Policy, error) {
	policy, err := s.policies.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	s.logger.DebugContext(ctx, "policy viewed",
		slog.Int64("policy_id", id),
	)

	return policy, nil
}

// Popular returns the most viewed policies.
func (s *PolicyService) Popular(ctx context.Context) ([]domain.PolicyRef, error) {
	refs, err := s.policies.ListPopular(ctx, highlightCount)
	if err != nil {
		return nil, fmt.Errorf("list popular policies: %w", err)
	}
	return refs, nil
}

// Recent returns the most recently published policies.
func (s *PolicyService) Recent(ctx context.Context) ([]domain.PolicyRef, error) {
	refs, err := s.policies.ListRecent(ctx, highlightCount)
	if err != nil {
		return nil, fmt.Errorf("list recent policies: %w", err)
	}
	return refs, nil
}
