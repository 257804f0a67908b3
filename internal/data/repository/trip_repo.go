package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"dive-booking/internal/data/entity"
	"dive-booking/pkg/database"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"
)

// TripRepository is a read-only view of the trip catalogue.
type TripRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*entity.Trip, error)
	// FindForUpdate reads the trip and holds its row lock until the enclosing
	// transaction ends. Outside a transaction it behaves like FindByID.
	FindForUpdate(ctx context.Context, id uuid.UUID) (*entity.Trip, error)
}

type tripRepository struct {
	db          database.Querier
	lockTimeout time.Duration
	log         *zap.Logger
}

func NewTripRepository(db database.Querier, lockTimeout time.Duration, log *zap.Logger) TripRepository {
	return &tripRepository{
		db:          db,
		lockTimeout: lockTimeout,
		log:         log.With(zap.String("repository", "trip")),
	}
}

const tripColumns = `id, name, capacity, created_at, updated_at`

func (r *tripRepository) FindByID(ctx context.Context, id uuid.UUID) (*entity.Trip, error) {
	query := `SELECT ` + tripColumns + ` FROM trips WHERE id = $1`
	return r.findOne(ctx, query, id)
}

func (r *tripRepository) FindForUpdate(ctx context.Context, id uuid.UUID) (*entity.Trip, error) {
	if r.lockTimeout > 0 {
		// SET does not accept bind parameters
		stmt := fmt.Sprintf("SET LOCAL lock_timeout = %d", r.lockTimeout.Milliseconds())
		if _, err := r.db.Exec(ctx, stmt); err != nil {
			r.log.Error("Failed to set lock timeout", zap.Error(err))
			return nil, fmt.Errorf("set lock timeout: %w", err)
		}
	}

	query := `SELECT ` + tripColumns + ` FROM trips WHERE id = $1 FOR UPDATE`
	return r.findOne(ctx, query, id)
}

func (r *tripRepository) findOne(ctx context.Context, query string, id uuid.UUID) (*entity.Trip, error) {
	var trip entity.Trip
	err := r.db.QueryRow(ctx, query, id).Scan(
		&trip.ID,
		&trip.Name,
		&trip.Capacity,
		&trip.CreatedAt,
		&trip.UpdatedAt,
	)

	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		err = translatePgError(err)
		if !errors.Is(err, ErrContention) {
			r.log.Error("Failed to find trip by ID",
				zap.Error(err),
				zap.String("trip_id", id.String()),
			)
		}
		return nil, fmt.Errorf("find trip %s: %w", id.String(), err)
	}

	return &trip, nil
}
