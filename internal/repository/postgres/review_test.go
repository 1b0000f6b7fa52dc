package postgres

import (
	"context"
	"testing"

	pgxmock "github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "github.com/Neogulmanpassingby/2025fall-41class-team3/pkg/errors"
)

func intPtr(n int) *int { return &n }

var reviewColumns = []string{
	"id", "policy_id", "author_id", "content", "rating", "created_at", "updated_at",
}

var reviewListColumns = []string{
	"id", "policy_id", "author_id", "nickname", "content", "rating", "created_at", "updated_at",
}

func TestReviewRepository_Upsert_ReturnsID(t *testing.T) {
	mock := newMock(t)
	defer mock.Close()
	repo := NewReviewRepository(mock)

	mock.ExpectQuery("INSERT INTO policy_comments").
		WithArgs(policyID, userA, "great policy").
		WillReturnRows(pgxmock.NewRows([]string{"id"}).AddRow(int64(7)))

	id, err := repo.Upsert(context.Background(), policyID, userA, "great policy")

	require.NoError(t, err)
	assert.Equal(t, int64(7), id)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestReviewRepository_Upsert_RevivesSoftDeletedRow(t *testing.T) {
	mock := newMock(t)
	defer mock.Close()
	repo := NewReviewRepository(mock)

	// The conflict clause clears is_deleted, so the same row id comes back.
	mock.ExpectQuery("ON CONFLICT \\(policy_id, author_id\\) WHERE is_review").
		WithArgs(policyID, userA, "second thoughts").
		WillReturnRows(pgxmock.NewRows([]string{"id"}).AddRow(int64(7)))

	id, err := repo.Upsert(context.Background(), policyID, userA, "second thoughts")

	require.NoError(t, err)
	assert.Equal(t, int64(7), id)
}

func TestReviewRepository_SoftDelete(t *testing.T) {
	mock := newMock(t)
	defer mock.Close()
	repo := NewReviewRepository(mock)

	mock.ExpectExec("UPDATE policy_comments").
		WithArgs(policyID, userA).
		WillReturnResult(pgxmock.NewResult("UPDATE", 1))

	err := repo.SoftDelete(context.Background(), policyID, userA)

	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestReviewRepository_SoftDelete_AbsentRowIsNoop(t *testing.T) {
	mock := newMock(t)
	defer mock.Close()
	repo := NewReviewRepository(mock)

	mock.ExpectExec("UPDATE policy_comments").
		WithArgs(policyID, userB).
		WillReturnResult(pgxmock.NewResult("UPDATE", 0))

	err := repo.SoftDelete(context.Background(), policyID, userB)

	require.NoError(t, err)
}

func TestReviewRepository_GetByAuthor(t *testing.T) {
	mock := newMock(t)
	defer mock.Close()
	repo := NewReviewRepository(mock)

	mock.ExpectQuery("SELECT pc.id, pc.policy_id, pc.author_id, pc.content, pr.rating").
		WithArgs(policyID, userA).
		WillReturnRows(pgxmock.NewRows(reviewColumns).
			AddRow(int64(7), policyID, userA, "great policy", intPtr(4), now, now))

	rv, err := repo.GetByAuthor(context.Background(), policyID, userA)

	require.NoError(t, err)
	assert.Equal(t, int64(7), rv.ID)
	assert.Equal(t, "great policy", rv.Content)
	require.NotNil(t, rv.Rating)
	assert.Equal(t, 4, *rv.Rating)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestReviewRepository_GetByAuthor_NotFound(t *testing.T) {
	mock := newMock(t)
	defer mock.Close()
	repo := NewReviewRepository(mock)

	mock.ExpectQuery("SELECT pc.id").
		WithArgs(policyID, userB).
		WillReturnRows(pgxmock.NewRows(reviewColumns))

	_, err := repo.GetByAuthor(context.Background(), policyID, userB)

	assert.ErrorIs(t, err, apperrors.ErrNotFound)
}

func TestReviewRepository_ListByPolicy(t *testing.T) {
	mock := newMock(t)
	defer mock.Close()
	repo := NewReviewRepository(mock)

	nick := "sunny"
	mock.ExpectQuery("ORDER BY pc.created_at DESC").
		WithArgs(policyID, 20, 0).
		WillReturnRows(pgxmock.NewRows(reviewListColumns).
			AddRow(int64(9), policyID, userB, &nick, "newer", intPtr(5), now, now).
			AddRow(int64(7), policyID, userA, (*string)(nil), "older", intPtr(3), now.Add(-1), now))

	reviews, err := repo.ListByPolicy(context.Background(), policyID, 20, 0)

	require.NoError(t, err)
	require.Len(t, reviews, 2)
	assert.Equal(t, "sunny", reviews[0].AuthorNickname)
	assert.Empty(t, reviews[1].AuthorNickname)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestReviewRepository_ListByPolicy_EmptyIsSlice(t *testing.T) {
	mock := newMock(t)
	defer mock.Close()
	repo := NewReviewRepository(mock)

	mock.ExpectQuery("ORDER BY pc.created_at DESC").
		WithArgs(policyID, 20, 40).
		WillReturnRows(pgxmock.NewRows(reviewListColumns))

	reviews, err := repo.ListByPolicy(context.Background(), policyID, 20, 40)

	require.NoError(t, err)
	assert.NotNil(t, reviews)
	assert.Empty(t, reviews)
}
