package http

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/Neogulmanpassingby/2025fall-41class-team3/internal/auth"
	"github.com/Neogulmanpassingby/2025fall-41class-team3/internal/domain"
	"github.com/Neogulmanpassingby/2025fall-41class-team3/internal/repository"
	"github.com/Neogulmanpassingby/2025fall-41class-team3/internal/service"
	apperrors "github.com/Neogulmanpassingby/2025fall-41class-team3/pkg/errors"
	"github.com/Neogulmanpassingby/2025fall-41class-team3/pkg/health"
	"github.com/Neogulmanpassingby/2025fall-41class-team3/pkg/httputil"
	"github.com/Neogulmanpassingby/2025fall-41class-team3/pkg/middleware"
)

// --- Mock repositories ---

type mockPolicyRepo struct {
	mock.Mock
}

func (m *mockPolicyRepo) Exists(ctx context.Context, id int64) (bool, error) {
	args := m.Called(ctx, id)
	return args.Bool(0), args.Error(1)
}

func (m *mockPolicyRepo) GetByID(ctx context.Context, id int64) (*domain.Policy, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Policy), args.Error(1)
}

func (m *mockPolicyRepo) ListPopular(ctx context.Context, limit int) ([]domain.PolicyRef, error) {
	args := m.Called(ctx, limit)
	return args.Get(0).([]domain.PolicyRef), args.Error(1)
}

func (m *mockPolicyRepo) ListRecent(ctx context.Context, limit int) ([]domain.PolicyRef, error) {
	args := m.Called(ctx, limit)
	return args.Get(0).([]domain.PolicyRef), args.Error(1)
}

func (m *mockPolicyRepo) RefsByNames(ctx context.Context, names []string) ([]domain.PolicyRef, error) {
	args := m.Called(ctx, names)
	return args.Get(0).([]domain.PolicyRef), args.Error(1)
}

type mockRatingRepo struct {
	mock.Mock
}

func (m *mockRatingRepo) Upsert(ctx context.Context, policyID int64, userID uuid.UUID, rating int) error {
	args := m.Called(ctx, policyID, userID, rating)
	return args.Error(0)
}

func (m *mockRatingRepo) Delete(ctx context.Context, policyID int64, userID uuid.UUID) error {
	args := m.Called(ctx, policyID, userID)
	return args.Error(0)
}

func (m *mockRatingRepo) Summarize(ctx context.Context, policyID int64) (domain.RatingSummary, error) {
	args := m.Called(ctx, policyID)
	return args.Get(0).(domain.RatingSummary), args.Error(1)
}

type mockReviewRepo struct {
	mock.Mock
}

func (m *mockReviewRepo) Upsert(ctx context.Context, policyID int64, authorID uuid.UUID, content string) (int64, error) {
	args := m.Called(ctx, policyID, authorID, content)
	return args.Get(0).(int64), args.Error(1)
}

func (m *mockReviewRepo) SoftDelete(ctx context.Context, policyID int64, authorID uuid.UUID) error {
	args := m.Called(ctx, policyID, authorID)
	return args.Error(0)
}

func (m *mockReviewRepo) GetByAuthor(ctx context.Context, policyID int64, authorID uuid.UUID) (*domain.Review, error) {
	args := m.Called(ctx, policyID, authorID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Review), args.Error(1)
}

func (m *mockReviewRepo) ListByPolicy(ctx context.Context, policyID int64, limit, offset int) ([]domain.Review, error) {
	args := m.Called(ctx, policyID, limit, offset)
	return args.Get(0).([]domain.Review), args.Error(1)
}

type mockUserRepo struct {
	mock.Mock
}

func (m *mockUserRepo) Create(ctx context.Context, user *domain.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

func (m *mockUserRepo) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

func (m *mockUserRepo) GetByID(ctx context.Context, id uuid.UUID) (*domain.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

func (m *mockUserRepo) EmailExists(ctx context.Context, email string) (bool, error) {
	args := m.Called(ctx, email)
	return args.Bool(0), args.Error(1)
}

func (m *mockUserRepo) NicknameExists(ctx context.Context, nickname string) (bool, error) {
	args := m.Called(ctx, nickname)
	return args.Bool(0), args.Error(1)
}

func (m *mockUserRepo) UpdateProfile(ctx context.Context, id uuid.UUID, profile domain.Profile) error {
	args := m.Called(ctx, id, profile)
	return args.Error(0)
}

type mockTokenRepo struct {
	mock.Mock
}

func (m *mockTokenRepo) Store(ctx context.Context, tokenHash string, userID uuid.UUID, expiresAt time.Time) error {
	args := m.Called(ctx, tokenHash, userID, expiresAt)
	return args.Error(0)
}

func (m *mockTokenRepo) Consume(ctx context.Context, tokenHash string) (uuid.UUID, error) {
	args := m.Called(ctx, tokenHash)
	return args.Get(0).(uuid.UUID), args.Error(1)
}

func (m *mockTokenRepo) DeleteForUser(ctx context.Context, userID uuid.UUID) error {
	args := m.Called(ctx, userID)
	return args.Error(0)
}

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

type mockQuota struct {
	mock.Mock
}

func (m *mockQuota) Allow(ctx context.Context, userID string) error {
	args := m.Called(ctx, userID)
	return args.Error(0)
}

func (m *mockQuota) Remaining(ctx context.Context, userID string) (int64, error) {
	args := m.Called(ctx, userID)
	return args.Get(0).(int64), args.Error(1)
}

// fakeUOW runs callbacks directly against the mock stores.
type fakeUOW struct {
	stores repository.ReviewStores
}

func (f *fakeUOW) Within(ctx context.Context, fn func(ctx context.Context, stores repository.ReviewStores) error) error {
	return fn(ctx, f.stores)
}

// --- Fixture ---

type fixture struct {
	policies    *mockPolicyRepo
	ratings     *mockRatingRepo
	reviews     *mockReviewRepo
	users       *mockUserRepo
	tokens      *mockTokenRepo
	recommender *mockRecommender
	quota       *mockQuota
	jwt         *auth.JWTManager
	router      http.Handler
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError}))
	f := &fixture{
		policies:    new(mockPolicyRepo),
		ratings:     new(mockRatingRepo),
		reviews:     new(mockReviewRepo),
		users:       new(mockUserRepo),
		tokens:      new(mockTokenRepo),
		recommender: new(mockRecommender),
		quota:       new(mockQuota),
		jwt:         auth.NewJWTManager("test-secret", time.Hour, 14*24*time.Hour),
	}

	uow := &fakeUOW{stores: repository.ReviewStores{Ratings: f.ratings, Reviews: f.reviews}}

	f.router = NewRouter(RouterDeps{
		Users:      service.NewUserService(f.users, f.tokens, f.jwt, logger),
		Policies:   service.NewPolicyService(f.policies, logger),
		Reviews:    service.NewReviewService(f.policies, f.reviews, f.ratings, uow, nil, logger),
		Recommend:  service.NewRecommendService(f.users, f.policies, f.recommender, f.quota, logger),
		JWTManager: f.jwt,
		Health:     health.NewHandler(),
		CORS:       middleware.DefaultCORSConfig(),
		Logger:     logger,
	})

	return f
}

func (f *fixture) token(t *testing.T, userID uuid.UUID) string {
	t.Helper()
	token, err := f.jwt.GenerateAccessToken(userID.String(), "sunny@example.com", "sunny")
	require.NoError(t, err)
	return token
}

func doJSON(t *testing.T, router http.Handler, method, path, token string, body any) *httptest.ResponseRecorder {
	t.Helper()

	var reader *bytes.Reader
	if body != nil {
		b, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(b)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func decodeResponse(t *testing.T, rec *httptest.ResponseRecorder) httputil.Response {
	t.Helper()
	var resp httputil.Response
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	return resp
}

func ratingAvg(v float64) *float64 { return &v }

var reviewer = uuid.MustParse("9f1c5f6e-27d2-4c44-a1f0-444444444444")

// --- Review endpoints ---

func TestSubmitReview_Created(t *testing.T) {
	f := newFixture(t)

	stored := &domain.Review{ID: 7, PolicyID: 42, AuthorID: reviewer, Content: "helpful", Rating: intRef(5)}

	f.policies.On("Exists", mock.Anything, int64(42)).Return(true, nil)
	f.ratings.On("Upsert", mock.Anything, int64(42), reviewer, 5).Return(nil)
	f.reviews.On("Upsert", mock.Anything, int64(42), reviewer, "helpful").Return(int64(7), nil)
	f.reviews.On("GetByAuthor", mock.Anything, int64(42), reviewer).Return(stored, nil)
	f.ratings.On("Summarize", mock.Anything, int64(42)).
		Return(domain.RatingSummary{Count: 1, Average: ratingAvg(5)}, nil)

	rec := doJSON(t, f.router, http.MethodPost, "/api/v1/policies/42/reviews", f.token(t, reviewer),
		SubmitReviewRequest{Rating: 5, Content: "helpful"})

	assert.Equal(t, http.StatusCreated, rec.Code)
	resp := decodeResponse(t, rec)
	assert.Nil(t, resp.Error)
	require.NotNil(t, resp.Data)
	f.ratings.AssertExpectations(t)
	f.reviews.AssertExpectations(t)
}

func TestSubmitReview_WithoutTokenIsUnauthorized(t *testing.T) {
	f := newFixture(t)

	rec := doJSON(t, f.router, http.MethodPost, "/api/v1/policies/42/reviews", "",
		SubmitReviewRequest{Rating: 5, Content: "helpful"})

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestSubmitReview_InvalidRatingRejected(t *testing.T) {
	f := newFixture(t)

	rec := doJSON(t, f.router, http.MethodPost, "/api/v1/policies/42/reviews", f.token(t, reviewer),
		SubmitReviewRequest{Rating: 9, Content: "helpful"})

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	resp := decodeResponse(t, rec)
	require.NotNil(t, resp.Error)
	assert.Equal(t, "VALIDATION_ERROR", resp.Error.Code)
}

func TestSubmitReview_UnknownPolicyIs404(t *testing.T) {
	f := newFixture(t)

	f.policies.On("Exists", mock.Anything, int64(999)).Return(false, nil)

	rec := doJSON(t, f.router, http.MethodPost, "/api/v1/policies/999/reviews", f.token(t, reviewer),
		SubmitReviewRequest{Rating: 4, Content: "ok"})

	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestSubmitReview_MalformedPolicyIDIs400(t *testing.T) {
	f := newFixture(t)

	rec := doJSON(t, f.router, http.MethodPost, "/api/v1/policies/abc/reviews", f.token(t, reviewer),
		SubmitReviewRequest{Rating: 4, Content: "ok"})

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	resp := decodeResponse(t, rec)
	require.NotNil(t, resp.Error)
	assert.Equal(t, "INVALID_PARAMETER", resp.Error.Code)
}

func TestListReviews_PublicWithSummary(t *testing.T) {
	f := newFixture(t)

	reviews := []domain.Review{
		{ID: 9, PolicyID: 42, Content: "newer", Rating: intRef(5)},
		{ID: 7, PolicyID: 42, Content: "older", Rating: intRef(3)},
	}

	f.policies.On("Exists", mock.Anything, int64(42)).Return(true, nil)
	f.reviews.On("ListByPolicy", mock.Anything, int64(42), 10, 20).Return(reviews, nil)
	f.ratings.On("Summarize", mock.Anything, int64(42)).
		Return(domain.RatingSummary{Count: 2, Average: ratingAvg(4)}, nil)

	rec := doJSON(t, f.router, http.MethodGet, "/api/v1/policies/42/reviews?limit=10&offset=20", "", nil)

	assert.Equal(t, http.StatusOK, rec.Code)

	var result service.ReviewListResult
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&result))
	assert.Len(t, result.Items, 2)
	assert.Equal(t, 10, result.Limit)
	assert.Equal(t, 20, result.Offset)
	assert.Equal(t, 2, result.Summary.Count)
}

func TestRetractReview_ReturnsFreshSummary(t *testing.T) {
	f := newFixture(t)

	f.policies.On("Exists", mock.Anything, int64(42)).Return(true, nil)
	f.reviews.On("SoftDelete", mock.Anything, int64(42), reviewer).Return(nil)
	f.ratings.On("Delete", mock.Anything, int64(42), reviewer).Return(nil)
	f.ratings.On("Summarize", mock.Anything, int64(42)).
		Return(domain.RatingSummary{Count: 0}, nil)

	rec := doJSON(t, f.router, http.MethodDelete, "/api/v1/policies/42/reviews/me", f.token(t, reviewer), nil)

	assert.Equal(t, http.StatusOK, rec.Code)
	resp := decodeResponse(t, rec)
	assert.Nil(t, resp.Error)
	f.reviews.AssertExpectations(t)
	f.ratings.AssertExpectations(t)
}

func TestGetMyReview_NoneYetIsNullNotError(t *testing.T) {
	f := newFixture(t)

	f.policies.On("Exists", mock.Anything, int64(42)).Return(true, nil)
	f.reviews.On("GetByAuthor", mock.Anything, int64(42), reviewer).Return(nil, apperrors.ErrNotFound)

	rec := doJSON(t, f.router, http.MethodGet, "/api/v1/policies/42/reviews/me", f.token(t, reviewer), nil)

	assert.Equal(t, http.StatusOK, rec.Code)

	var body map[string]any
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&body))
	data, ok := body["data"]
	assert.True(t, ok)
	assert.Nil(t, data)
}

func TestGetMyReview_ReturnsRow(t *testing.T) {
	f := newFixture(t)

	stored := &domain.Review{ID: 7, PolicyID: 42, AuthorID: reviewer, Content: "mine", Rating: intRef(4)}

	f.policies.On("Exists", mock.Anything, int64(42)).Return(true, nil)
	f.reviews.On("GetByAuthor", mock.Anything, int64(42), reviewer).Return(stored, nil)

	rec := doJSON(t, f.router, http.MethodGet, "/api/v1/policies/42/reviews/me", f.token(t, reviewer), nil)

	assert.Equal(t, http.StatusOK, rec.Code)
	resp := decodeResponse(t, rec)
	require.NotNil(t, resp.Data)
}

func TestUpdateReview_PartialBody(t *testing.T) {
	f := newFixture(t)

	stored := &domain.Review{ID: 7, PolicyID: 42, AuthorID: reviewer, Content: "old", Rating: intRef(2)}

	f.policies.On("Exists", mock.Anything, int64(42)).Return(true, nil)
	f.reviews.On("GetByAuthor", mock.Anything, int64(42), reviewer).Return(stored, nil)
	f.ratings.On("Upsert", mock.Anything, int64(42), reviewer, 2).Return(nil)
	f.ratings.On("Summarize", mock.Anything, int64(42)).
		Return(domain.RatingSummary{Count: 1, Average: ratingAvg(2)}, nil)

	rec := doJSON(t, f.router, http.MethodPatch, "/api/v1/policies/42/reviews/me", f.token(t, reviewer),
		map[string]any{"rating": 2})

	assert.Equal(t, http.StatusOK, rec.Code)
}

// --- Policy endpoints ---

func TestGetPolicyDetail(t *testing.T) {
	f := newFixture(t)

	f.policies.On("GetByID", mock.Anything, int64(42)).
		Return(&domain.Policy{ID: 42, Name: "청년 월세 지원"}, nil)

	rec := doJSON(t, f.router, http.MethodGet, "/api/v1/policies/42", "", nil)

	assert.Equal(t, http.StatusOK, rec.Code)
	resp := decodeResponse(t, rec)
	assert.Nil(t, resp.Error)
}

func TestGetPolicyDetail_NotFound(t *testing.T) {
	f := newFixture(t)

	f.policies.On("GetByID", mock.Anything, int64(999)).Return(nil, apperrors.ErrNotFound)

	rec := doJSON(t, f.router, http.MethodGet, "/api/v1/policies/999", "", nil)

	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestPolicyHighlightEndpoints(t *testing.T) {
	f := newFixture(t)

	f.policies.On("ListPopular", mock.Anything, 3).
		Return([]domain.PolicyRef{{ID: 1, Name: "a"}}, nil)
	f.policies.On("ListRecent", mock.Anything, 3).
		Return([]domain.PolicyRef{{ID: 2, Name: "b"}}, nil)

	rec := doJSON(t, f.router, http.MethodGet, "/api/v1/policies/popular", "", nil)
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = doJSON(t, f.router, http.MethodGet, "/api/v1/policies/recent", "", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
}

// --- Auth endpoints ---

func TestRegister_ValidationFailure(t *testing.T) {
	f := newFixture(t)

	rec := doJSON(t, f.router, http.MethodPost, "/api/v1/auth/register", "",
		RegisterRequest{Email: "not-an-email", Password: "secret1234", Nickname: "sunny"})

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestLogin_WrongPassword(t *testing.T) {
	f := newFixture(t)

	hash, err := bcrypt.GenerateFromPassword([]byte("correct1234"), bcrypt.MinCost)
	require.NoError(t, err)

	f.users.On("GetByEmail", mock.Anything, "sunny@example.com").
		Return(&domain.User{ID: reviewer, Email: "sunny@example.com", PasswordHash: string(hash)}, nil)

	rec := doJSON(t, f.router, http.MethodPost, "/api/v1/auth/login", "",
		LoginRequest{Email: "sunny@example.com", Password: "wrong1234"})

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestRefresh_RotatedPair(t *testing.T) {
	f := newFixture(t)

	f.tokens.On("Consume", mock.Anything, mock.AnythingOfType("string")).Return(reviewer, nil)
	f.users.On("GetByID", mock.Anything, reviewer).
		Return(&domain.User{ID: reviewer, Email: "sunny@example.com", Nickname: "sunny"}, nil)
	f.tokens.On("Store", mock.Anything, mock.Anything, reviewer, mock.Anything).Return(nil)

	rec := doJSON(t, f.router, http.MethodPost, "/api/v1/auth/refresh", "",
		RefreshRequest{RefreshToken: "somerawtoken"})

	assert.Equal(t, http.StatusOK, rec.Code)
}

// --- Recommendation endpoint ---

func TestRecommendations_QuotaExhaustedIs429(t *testing.T) {
	f := newFixture(t)

	f.users.On("GetByID", mock.Anything, reviewer).Return(&domain.User{ID: reviewer}, nil)
	f.quota.On("Allow", mock.Anything, reviewer.String()).
		Return(apperrors.QuotaExceeded("daily limit of 10 requests reached"))

	rec := doJSON(t, f.router, http.MethodGet, "/api/v1/recommendations", f.token(t, reviewer), nil)

	assert.Equal(t, http.StatusTooManyRequests, rec.Code)
	resp := decodeResponse(t, rec)
	require.NotNil(t, resp.Error)
	assert.Equal(t, "QUOTA_EXCEEDED", resp.Error.Code)
}

func TestRecommendations_Resolved(t *testing.T) {
	f := newFixture(t)

	names := []string{"청년 월세 지원"}

	f.users.On("GetByID", mock.Anything, reviewer).Return(&domain.User{ID: reviewer}, nil)
	f.quota.On("Allow", mock.Anything, reviewer.String()).Return(nil)
	f.recommender.On("Recommend", mock.Anything, mock.Anything).Return(names, nil)
	f.policies.On("RefsByNames", mock.Anything, names).
		Return([]domain.PolicyRef{{ID: 42, Name: "청년 월세 지원"}}, nil)
	f.quota.On("Remaining", mock.Anything, reviewer.String()).Return(int64(9), nil)

	rec := doJSON(t, f.router, http.MethodGet, "/api/v1/recommendations", f.token(t, reviewer), nil)

	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestRemainingQuota(t *testing.T) {
	f := newFixture(t)

	f.quota.On("Remaining", mock.Anything, reviewer.String()).Return(int64(4), nil)

	rec := doJSON(t, f.router, http.MethodGet, "/api/v1/users/me/recommend-quota", f.token(t, reviewer), nil)

	assert.Equal(t, http.StatusOK, rec.Code)

	var resp struct {
		Data struct {
			RemainingToday int64 `json:"remaining_today"`
		} `json:"data"`
	}
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	assert.Equal(t, int64(4), resp.Data.RemainingToday)
}

// --- Health ---

func TestHealthEndpoints(t *testing.T) {
	f := newFixture(t)

	rec := doJSON(t, f.router, http.MethodGet, "/health/live", "", nil)
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = doJSON(t, f.router, http.MethodGet, "/health/ready", "", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func intRef(n int) *int { return &n }
