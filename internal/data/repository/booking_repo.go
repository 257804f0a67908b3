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

type BookingRepository interface {
	Create(ctx context.Context, booking *entity.Booking) error
	FindByID(ctx context.Context, id uuid.UUID) (*entity.Booking, error)
	Update(ctx context.Context, booking *entity.Booking) error

	// Ledger queries
	FindActiveByTripID(ctx context.Context, tripID uuid.UUID) ([]*entity.Booking, error)
	LatestCreatedAt(ctx context.Context, tripID uuid.UUID) (time.Time, error)
	ShiftWaitlist(ctx context.Context, tripID uuid.UUID, after int, at time.Time) (int64, error)
}

type bookingRepository struct {
	db  database.Querier
	log *zap.Logger
}

func NewBookingRepository(db database.Querier, log *zap.Logger) BookingRepository {
	return &bookingRepository{
		db:  db,
		log: log.With(zap.String("repository", "booking")),
	}
}

const bookingColumns = `id, trip_id, diver_id, status, seat_number, waitlist_position, notes, created_at, updated_at, cancelled_at`

func scanBooking(row pgx.Row) (*entity.Booking, error) {
	var booking entity.Booking
	err := row.Scan(
		&booking.ID,
		&booking.TripID,
		&booking.DiverID,
		&booking.Status,
		&booking.SeatNumber,
		&booking.WaitlistPosition,
		&booking.Notes,
		&booking.CreatedAt,
		&booking.UpdatedAt,
		&booking.CancelledAt,
	)
	if err != nil {
		return nil, err
	}
	return &booking, nil
}

func (r *bookingRepository) Create(ctx context.Context, booking *entity.Booking) error {
	query := `
		INSERT INTO bookings (` + bookingColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
	`

	_, err := r.db.Exec(ctx, query,
		booking.ID,
		booking.TripID,
		booking.DiverID,
		booking.Status,
		booking.SeatNumber,
		booking.WaitlistPosition,
		booking.Notes,
		booking.CreatedAt,
		booking.UpdatedAt,
		booking.CancelledAt,
	)

	if err != nil {
		r.log.Error("Failed to create booking",
			zap.Error(err),
			zap.String("trip_id", booking.TripID.String()),
			zap.String("diver_id", booking.DiverID),
		)
		return fmt.Errorf("create booking for trip %s: %w", booking.TripID.String(), translatePgError(err))
	}

	return nil
}

func (r *bookingRepository) FindByID(ctx context.Context, id uuid.UUID) (*entity.Booking, error) {
	query := `SELECT ` + bookingColumns + ` FROM bookings WHERE id = $1`

	booking, err := scanBooking(r.db.QueryRow(ctx, query, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		r.log.Error("Failed to find booking by ID",
			zap.Error(err),
			zap.String("booking_id", id.String()),
		)
		return nil, fmt.Errorf("find booking by ID %s: %w", id.String(), err)
	}

	return booking, nil
}

func (r *bookingRepository) Update(ctx context.Context, booking *entity.Booking) error {
	query := `
		UPDATE bookings
		SET status = $2, seat_number = $3, waitlist_position = $4,
		    notes = $5, updated_at = $6, cancelled_at = $7
		WHERE id = $1
	`

	result, err := r.db.Exec(ctx, query,
		booking.ID,
		booking.Status,
		booking.SeatNumber,
		booking.WaitlistPosition,
		booking.Notes,
		booking.UpdatedAt,
		booking.CancelledAt,
	)

	if err != nil {
		r.log.Error("Failed to update booking",
			zap.Error(err),
			zap.String("booking_id", booking.ID.String()),
			zap.String("status", string(booking.Status)),
		)
		return fmt.Errorf("update booking %s: %w", booking.ID.String(), translatePgError(err))
	}

	if result.RowsAffected() == 0 {
		return fmt.Errorf("booking %s not found", booking.ID.String())
	}

	return nil
}

func (r *bookingRepository) FindActiveByTripID(ctx context.Context, tripID uuid.UUID) ([]*entity.Booking, error) {
	query := `
		SELECT ` + bookingColumns + `
		FROM bookings
		WHERE trip_id = $1 AND status <> 'cancelled'
		ORDER BY seat_number NULLS LAST, waitlist_position NULLS LAST, created_at
	`

	rows, err := r.db.Query(ctx, query, tripID)
	if err != nil {
		r.log.Error("Failed to find active bookings by trip ID",
			zap.Error(err),
			zap.String("trip_id", tripID.String()),
		)
		return nil, fmt.Errorf("find active bookings by trip ID %s: %w", tripID.String(), err)
	}
	defer rows.Close()

	var bookings []*entity.Booking
	for rows.Next() {
		booking, err := scanBooking(rows)
		if err != nil {
			r.log.Error("Failed to scan booking row", zap.Error(err))
			return nil, fmt.Errorf("scan booking row: %w", err)
		}
		bookings = append(bookings, booking)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate booking rows: %w", err)
	}

	return bookings, nil
}

func (r *bookingRepository) LatestCreatedAt(ctx context.Context, tripID uuid.UUID) (time.Time, error) {
	query := `SELECT COALESCE(MAX(created_at), 'epoch'::timestamptz) FROM bookings WHERE trip_id = $1`

	var latest time.Time
	if err := r.db.QueryRow(ctx, query, tripID).Scan(&latest); err != nil {
		r.log.Error("Failed to read latest booking time",
			zap.Error(err),
			zap.String("trip_id", tripID.String()),
		)
		return time.Time{}, fmt.Errorf("latest booking time for trip %s: %w", tripID.String(), err)
	}

	return latest, nil
}

func (r *bookingRepository) ShiftWaitlist(ctx context.Context, tripID uuid.UUID, after int, at time.Time) (int64, error) {
	query := `
		UPDATE bookings
		SET waitlist_position = waitlist_position - 1, updated_at = $3
		WHERE trip_id = $1 AND status = 'waitlisted' AND waitlist_position > $2
	`

	result, err := r.db.Exec(ctx, query, tripID, after, at)
	if err != nil {
		r.log.Error("Failed to compact waitlist",
			zap.Error(err),
			zap.String("trip_id", tripID.String()),
			zap.Int("after", after),
		)
		return 0, fmt.Errorf("compact waitlist for trip %s: %w", tripID.String(), translatePgError(err))
	}

	return result.RowsAffected(), nil
}
