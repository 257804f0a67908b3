package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"dive-booking/pkg/database"

	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"
)

// ErrContention is returned when the store could not lock a trip in time or
// rejected a write that raced with another transaction.
var ErrContention = errors.New("trip ledger contended")

// Repository groups the repositories bound to one connection or transaction.
type Repository struct {
	Trip    TripRepository
	Booking BookingRepository

	withTx func(ctx context.Context, fn func(repo *Repository) error) error
}

// WithTx runs fn against repositories sharing a single transaction. The
// transaction commits only when fn returns nil.
func (r *Repository) WithTx(ctx context.Context, fn func(repo *Repository) error) error {
	return r.withTx(ctx, fn)
}

// NewRepository wires the Postgres-backed repositories.
func NewRepository(db database.Pool, lockTimeout time.Duration, log *zap.Logger) *Repository {
	repo := newQuerierRepository(db, lockTimeout, log)
	repo.withTx = func(ctx context.Context, fn func(repo *Repository) error) error {
		return runInTx(ctx, db, lockTimeout, log, fn)
	}
	return repo
}

func newQuerierRepository(q database.Querier, lockTimeout time.Duration, log *zap.Logger) *Repository {
	return &Repository{
		Trip:    NewTripRepository(q, lockTimeout, log),
		Booking: NewBookingRepository(q, log),
	}
}

func runInTx(ctx context.Context, db database.Pool, lockTimeout time.Duration, log *zap.Logger, fn func(repo *Repository) error) (err error) {
	tx, err := db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer func() {
		if err == nil {
			return
		}
		if rbErr := tx.Rollback(ctx); rbErr != nil && !errors.Is(rbErr, pgx.ErrTxClosed) {
			log.Warn("Failed to rollback transaction", zap.Error(rbErr))
		}
	}()

	txRepo := newQuerierRepository(tx, lockTimeout, log)
	txRepo.withTx = func(ctx context.Context, fn func(repo *Repository) error) error {
		// already inside a transaction
		return fn(txRepo)
	}

	if err = fn(txRepo); err != nil {
		return err
	}

	if err = tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit transaction: %w", translatePgError(err))
	}
	return nil
}
