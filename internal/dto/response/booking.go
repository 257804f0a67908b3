package response

import (
	"time"

	"dive-booking/internal/data/entity"
)

type BookingResponse struct {
	ID               string               `json:"id"`
	TripID           string               `json:"trip_id"`
	DiverID          string               `json:"diver_id"`
	Status           entity.BookingStatus `json:"status"`
	SeatNumber       *int                 `json:"seat_number,omitempty"`
	WaitlistPosition *int                 `json:"waitlist_position,omitempty"`
	Notes            *string              `json:"notes,omitempty"`
	CreatedAt        time.Time            `json:"created_at"`
	UpdatedAt        time.Time            `json:"updated_at"`
	CancelledAt      *time.Time           `json:"cancelled_at,omitempty"`
}

type CancelBookingResponse struct {
	Cancelled BookingResponse  `json:"cancelled"`
	Promoted  *BookingResponse `json:"promoted,omitempty"`
}

type TripBookingsResponse struct {
	TripID   string            `json:"trip_id"`
	Capacity int               `json:"capacity"`
	Bookings []BookingResponse `json:"bookings"`
}

type TripAvailabilityResponse struct {
	TripID     string `json:"trip_id"`
	Capacity   int    `json:"capacity"`
	Confirmed  int    `json:"confirmed"`
	Available  int    `json:"available"`
	Waitlisted int    `json:"waitlisted"`
}

// Helper converters
func BookingToResponse(b *entity.Booking) BookingResponse {
	return BookingResponse{
		ID:               b.ID.String(),
		TripID:           b.TripID.String(),
		DiverID:          b.DiverID,
		Status:           b.Status,
		SeatNumber:       b.SeatNumber,
		WaitlistPosition: b.WaitlistPosition,
		Notes:            b.Notes,
		CreatedAt:        b.CreatedAt,
		UpdatedAt:        b.UpdatedAt,
		CancelledAt:      b.CancelledAt,
	}
}

func BookingsToResponse(bookings []*entity.Booking) []BookingResponse {
	out := make([]BookingResponse, len(bookings))
	for i, b := range bookings {
		out[i] = BookingToResponse(b)
	}
	return out
}
