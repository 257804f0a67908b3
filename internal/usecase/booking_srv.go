package usecase

import (
	"context"
	"errors"
	"strings"
	"time"

	"dive-booking/internal/data/entity"
	"dive-booking/internal/data/repository"
	"dive-booking/internal/dto/request"
	"dive-booking/internal/dto/response"
	"dive-booking/pkg/apperror"
	"dive-booking/pkg/notify"
	"dive-booking/pkg/utils"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

type BookingService interface {
	CreateBooking(ctx context.Context, req *request.CreateBookingRequest) (*response.BookingResponse, error)
	CancelBooking(ctx context.Context, bookingID string) (*response.CancelBookingResponse, error)
	GetBookingByID(ctx context.Context, bookingID string) (*response.BookingResponse, error)

	// Read-only views for the trip dashboard
	GetTripBookings(ctx context.Context, tripID string) (*response.TripBookingsResponse, error)
	GetTripAvailability(ctx context.Context, tripID string) (*response.TripAvailabilityResponse, error)
}

type bookingService struct {
	repo      *repository.Repository
	guard     *Guard
	publisher notify.Publisher
	now       func() time.Time
	log       *zap.Logger
}

func NewBookingService(repo *repository.Repository, guard *Guard, publisher notify.Publisher, log *zap.Logger) BookingService {
	return &bookingService{
		repo:      repo,
		guard:     guard,
		publisher: publisher,
		now:       time.Now,
		log:       log.With(zap.String("service", "booking")),
	}
}

func (s *bookingService) CreateBooking(ctx context.Context, req *request.CreateBookingRequest) (*response.BookingResponse, error) {
	if errs := utils.ValidateStruct(req); len(errs) > 0 {
		s.log.Warn("Create booking validation failed", zap.Any("errors", errs))
		return nil, apperror.Validation("validation failed: %s", utils.FormatValidationErrors(errs))
	}

	diverID := strings.TrimSpace(req.DiverID)
	if diverID == "" {
		return nil, apperror.Validation("validation failed: diver_id: This field is required")
	}

	tripID, err := uuid.Parse(req.TripID)
	if err != nil {
		return nil, apperror.Validation("invalid trip ID format %s", req.TripID)
	}

	var created *entity.Booking
	err = s.guard.Run(ctx, tripID, func(ctx context.Context) error {
		return s.repo.WithTx(ctx, func(tx *repository.Repository) error {
			trip, err := tx.Trip.FindForUpdate(ctx, tripID)
			if err != nil {
				return err
			}
			if trip == nil {
				return apperror.NotFound("trip %s not found", tripID.String())
			}

			active, err := tx.Booking.FindActiveByTripID(ctx, tripID)
			if err != nil {
				return err
			}
			latest, err := tx.Booking.LatestCreatedAt(ctx, tripID)
			if err != nil {
				return err
			}

			at := nextArrival(latest, s.now())
			booking := &entity.Booking{
				Base: entity.Base{
					ID:        uuid.New(),
					CreatedAt: at,
					UpdatedAt: at,
				},
				TripID:  tripID,
				DiverID: diverID,
				Notes:   req.Notes,
			}
			allocate(trip.Capacity, entity.Ledger(active), booking)

			if err := tx.Booking.Create(ctx, booking); err != nil {
				return err
			}
			created = booking
			return nil
		})
	})
	if err != nil {
		return nil, s.fail("create booking", err, zap.String("trip_id", tripID.String()))
	}

	s.log.Info("Booking created",
		zap.String("booking_id", created.ID.String()),
		zap.String("trip_id", tripID.String()),
		zap.String("diver_id", diverID),
		zap.String("status", string(created.Status)),
		zap.Intp("seat_number", created.SeatNumber),
		zap.Intp("waitlist_position", created.WaitlistPosition),
	)

	resp := response.BookingToResponse(created)
	return &resp, nil
}

func (s *bookingService) CancelBooking(ctx context.Context, bookingID string) (*response.CancelBookingResponse, error) {
	id, err := uuid.Parse(bookingID)
	if err != nil {
		return nil, apperror.Validation("invalid booking ID format %s", bookingID)
	}

	// trip_id never changes, so it is safe to read before taking the trip lock
	existing, err := s.repo.Booking.FindByID(ctx, id)
	if err != nil {
		return nil, s.fail("cancel booking", err, zap.String("booking_id", bookingID))
	}
	if existing == nil {
		return nil, apperror.NotFound("booking %s not found", bookingID)
	}
	if existing.Status == entity.BookingStatusCancelled {
		return nil, apperror.AlreadyCancelled("booking %s is already cancelled", bookingID)
	}

	var result *cancellation
	err = s.guard.Run(ctx, existing.TripID, func(ctx context.Context) error {
		return s.repo.WithTx(ctx, func(tx *repository.Repository) error {
			if _, err := tx.Trip.FindForUpdate(ctx, existing.TripID); err != nil {
				return err
			}

			target, err := tx.Booking.FindByID(ctx, id)
			if err != nil {
				return err
			}
			if target == nil {
				return apperror.NotFound("booking %s not found", bookingID)
			}
			if target.Status == entity.BookingStatusCancelled {
				return apperror.AlreadyCancelled("booking %s is already cancelled", bookingID)
			}

			active, err := tx.Booking.FindActiveByTripID(ctx, target.TripID)
			if err != nil {
				return err
			}

			at := s.now().UTC()
			res, err := cancelAndPromote(entity.Ledger(active), target, at)
			if err != nil {
				return err
			}

			// free the seat before handing it to the promoted booking
			if err := tx.Booking.Update(ctx, res.cancelled); err != nil {
				return err
			}
			if res.promoted != nil {
				if err := tx.Booking.Update(ctx, res.promoted); err != nil {
					return err
				}
			}
			if res.vacated > 0 {
				if _, err := tx.Booking.ShiftWaitlist(ctx, target.TripID, res.vacated, at); err != nil {
					return err
				}
			}
			result = res
			return nil
		})
	})
	if err != nil {
		return nil, s.fail("cancel booking", err, zap.String("booking_id", bookingID))
	}

	fields := []zap.Field{
		zap.String("booking_id", bookingID),
		zap.String("trip_id", result.cancelled.TripID.String()),
	}
	out := &response.CancelBookingResponse{Cancelled: response.BookingToResponse(result.cancelled)}
	if result.promoted != nil {
		promoted := response.BookingToResponse(result.promoted)
		out.Promoted = &promoted
		fields = append(fields,
			zap.String("promoted_booking_id", promoted.ID),
			zap.Intp("seat_number", promoted.SeatNumber),
		)
		s.publishPromotion(ctx, result.promoted)
	}
	s.log.Info("Booking cancelled", fields...)

	return out, nil
}

func (s *bookingService) GetBookingByID(ctx context.Context, bookingID string) (*response.BookingResponse, error) {
	id, err := uuid.Parse(bookingID)
	if err != nil {
		return nil, apperror.Validation("invalid booking ID format %s", bookingID)
	}

	booking, err := s.repo.Booking.FindByID(ctx, id)
	if err != nil {
		return nil, s.fail("get booking", err, zap.String("booking_id", bookingID))
	}
	if booking == nil {
		return nil, apperror.NotFound("booking %s not found", bookingID)
	}

	resp := response.BookingToResponse(booking)
	return &resp, nil
}

func (s *bookingService) GetTripBookings(ctx context.Context, tripID string) (*response.TripBookingsResponse, error) {
	trip, active, err := s.loadTrip(ctx, tripID)
	if err != nil {
		return nil, err
	}

	return &response.TripBookingsResponse{
		TripID:   trip.ID.String(),
		Capacity: trip.Capacity,
		Bookings: response.BookingsToResponse(entity.Ledger(active).Active()),
	}, nil
}

func (s *bookingService) GetTripAvailability(ctx context.Context, tripID string) (*response.TripAvailabilityResponse, error) {
	trip, active, err := s.loadTrip(ctx, tripID)
	if err != nil {
		return nil, err
	}

	ledger := entity.Ledger(active)
	confirmed := len(ledger.Confirmed())
	available := trip.Capacity - confirmed
	if available < 0 {
		available = 0
	}

	return &response.TripAvailabilityResponse{
		TripID:     trip.ID.String(),
		Capacity:   trip.Capacity,
		Confirmed:  confirmed,
		Available:  available,
		Waitlisted: len(ledger.Waitlisted()),
	}, nil
}

// ==================== HELPER METHODS ====================

func (s *bookingService) loadTrip(ctx context.Context, tripID string) (*entity.Trip, []*entity.Booking, error) {
	id, err := uuid.Parse(tripID)
	if err != nil {
		return nil, nil, apperror.Validation("invalid trip ID format %s", tripID)
	}

	trip, err := s.repo.Trip.FindByID(ctx, id)
	if err != nil {
		return nil, nil, s.fail("get trip", err, zap.String("trip_id", tripID))
	}
	if trip == nil {
		return nil, nil, apperror.NotFound("trip %s not found", tripID)
	}

	active, err := s.repo.Booking.FindActiveByTripID(ctx, id)
	if err != nil {
		return nil, nil, s.fail("get trip bookings", err, zap.String("trip_id", tripID))
	}

	return trip, active, nil
}

func (s *bookingService) publishPromotion(ctx context.Context, promoted *entity.Booking) {
	event := notify.Event{
		Type:       notify.EventBookingPromoted,
		BookingID:  promoted.ID.String(),
		TripID:     promoted.TripID.String(),
		DiverID:    promoted.DiverID,
		SeatNumber: *promoted.SeatNumber,
		OccurredAt: promoted.UpdatedAt,
	}
	if err := s.publisher.Publish(ctx, event); err != nil {
		// the promotion is committed; delivery is best effort
		s.log.Warn("Failed to publish promotion",
			zap.Error(err),
			zap.String("booking_id", event.BookingID),
		)
	}
}

// fail passes classified errors through and turns everything else into a
// Storage error after logging it.
func (s *bookingService) fail(operation string, err error, fields ...zap.Field) error {
	var appErr *apperror.Error
	if errors.As(err, &appErr) {
		return err
	}

	s.log.Error("Failed to "+operation, append(fields, zap.Error(err))...)
	return apperror.Storage(err, "%s failed", operation)
}
