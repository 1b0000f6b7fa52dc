package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/Neogulmanpassingby/2025fall-41class-team3/internal/repository"
)

// TxBeginner is the subset of pgxpool.Pool needed to open transactions.
// pgxmock satisfies it too, so the unit of work is testable without a server.
type TxBeginner interface {
	BeginTx(ctx context.Context, txOptions pgx.TxOptions) (pgx.Tx, error)
}

// UnitOfWork runs review mutations inside a single PostgreSQL transaction.
type UnitOfWork struct {
	pool TxBeginner
}

// NewUnitOfWork creates a unit of work over the given pool.
func NewUnitOfWork(pool TxBeginner) *UnitOfWork {
	return &UnitOfWork{pool: pool}
}

// Within opens a READ COMMITTED transaction, hands tx-scoped stores to fn,
// and commits when fn returns nil. Any error, or a panic, rolls everything
// back; partial effects are never visible to other transactions.
func (u *UnitOfWork) Within(ctx context.Context, fn func(ctx context.Context, stores repository.ReviewStores) error) error {
	tx, err := u.pool.BeginTx(ctx, pgx.TxOptions{IsoLevel: pgx.ReadCommitted})
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}

	// Rollback after commit is a harmless no-op; this also covers panics.
	defer func() {
		_ = tx.Rollback(ctx)
	}()

	stores := repository.ReviewStores{
		Ratings: NewRatingRepository(tx),
		Reviews: NewReviewRepository(tx),
	}

	if err := fn(ctx, stores); err != nil {
		return err
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit tx: %w", err)
	}

	return nil
}
