package service

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/Neogulmanpassingby/2025fall-41class-team3/internal/domain"
	apperrors "github.com/Neogulmanpassingby/2025fall-41class-team3/pkg/errors"
)

type mockRecommender struct {
	mock.Mock
}

func (m *mockRecommender) Recommend(ctx context.Context, user *domain.User) ([]string, error) {
	args := m.Called(ctx, user)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]string), args.Error(1)
}

type mockQuotaGate struct {
	mock.Mock
}

func (m *mockQuotaGate) Allow(ctx context.Context, userID string) error {
	args := m.Called(ctx, userID)
	return args.Error(0)
}

func (m *mockQuotaGate) Remaining(ctx context.Context, userID string) (int64, error) {
	args := m.Called(ctx, userID)
	return args.Get(0).(int64), args.Error(1)
}

func TestRecommendForUser_ResolvesNamesAgainstCatalog(t *testing.T) {
	users := new(mockUserRepository)
	policies := new(mockPolicyRepository)
	recommender := new(mockRecommender)
	quota := new(mockQuotaGate)
	svc := NewRecommendService(users, policies, recommender, quota, newTestLogger())
	ctx := context.Background()

	userID := uuid.New()
	user := &domain.User{ID: userID, Region: "서울"}
	names := []string{"청년 월세 지원", "dropped policy"}
	refs := []domain.PolicyRef{{ID: 42, Name: "청년 월세 지원"}}

	users.On("GetByID", ctx, userID).Return(user, nil)
	quota.On("Allow", ctx, userID.String()).Return(nil)
	recommender.On("Recommend", ctx, user).Return(names, nil)
	policies.On("RefsByNames", ctx, names).Return(refs, nil)
	quota.On("Remaining", ctx, userID.String()).Return(int64(9), nil)

	result, err := svc.ForUser(ctx, userID)

	require.NoError(t, err)
	assert.Equal(t, refs, result.Policies)
	assert.Equal(t, int64(9), result.Remaining)
}

func TestRecommendForUser_QuotaCheckedBeforeModelCall(t *testing.T) {
	users := new(mockUserRepository)
	policies := new(mockPolicyRepository)
	recommender := new(mockRecommender)
	quota := new(mockQuotaGate)
	svc := NewRecommendService(users, policies, recommender, quota, newTestLogger())
	ctx := context.Background()

	userID := uuid.New()
	users.On("GetByID", ctx, userID).Return(&domain.User{ID: userID}, nil)
	quota.On("Allow", ctx, userID.String()).Return(apperrors.QuotaExceeded("daily limit reached"))

	_, err := svc.ForUser(ctx, userID)

	assert.ErrorIs(t, err, apperrors.ErrQuotaExceeded)
	recommender.AssertNotCalled(t, "Recommend", mock.Anything, mock.Anything)
}

func TestRecommendForUser_ModelOutageSurfacesAsUnavailable(t *testing.T) {
	users := new(mockUserRepository)
	policies := new(mockPolicyRepository)
	recommender := new(mockRecommender)
	quota := new(mockQuotaGate)
	svc := NewRecommendService(users, policies, recommender, quota, newTestLogger())
	ctx := context.Background()

	userID := uuid.New()
	users.On("GetByID", ctx, userID).Return(&domain.User{ID: userID}, nil)
	quota.On("Allow", ctx, userID.String()).Return(nil)
	recommender.On("Recommend", ctx, mock.Anything).Return(nil, apperrors.Unavailable("recommendation service is unavailable"))

	_, err := svc.ForUser(ctx, userID)

	assert.ErrorIs(t, err, apperrors.ErrUnavailable)
}

func TestRemainingQuota_DoesNotConsume(t *testing.T) {
	users := new(mockUserRepository)
	policies := new(mockPolicyRepository)
	recommender := new(mockRecommender)
	quota := new(mockQuotaGate)
	svc := NewRecommendService(users, policies, recommender, quota, newTestLogger())
	ctx := context.Background()

	userID := uuid.New()
	quota.On("Remaining", ctx, userID.String()).Return(int64(7), nil)

	remaining, err := svc.RemainingQuota(ctx, userID)

	require.NoError(t, err)
	assert.Equal(t, int64(7), remaining)
	quota.AssertNotCalled(t, "Allow", mock.Anything, mock.Anything)
}
