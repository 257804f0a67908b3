package entity

import (
	"time"

	"github.com/google/uuid"
)

type BookingStatus string

const (
	BookingStatusConfirmed  BookingStatus = "confirmed"
	BookingStatusWaitlisted BookingStatus = "waitlisted"
	BookingStatusCancelled  BookingStatus = "cancelled"
)

type Booking struct {
	Base
	TripID           uuid.UUID     `db:"trip_id"`
	DiverID          string        `db:"diver_id"`
	Status           BookingStatus `db:"status"`
	SeatNumber       *int          `db:"seat_number"`
	WaitlistPosition *int          `db:"waitlist_position"`
	Notes            *string       `db:"notes"`
	CancelledAt      *time.Time    `db:"cancelled_at"`
}

// CanTransition reports whether moving from the current status to next is allowed.
// Cancelled is terminal and nothing moves back to waitlisted.
func (b *Booking) CanTransition(next BookingStatus) bool {
	switch b.Status {
	case BookingStatusConfirmed:
		return next == BookingStatusCancelled
	case BookingStatusWaitlisted:
		return next == BookingStatusConfirmed || next == BookingStatusCancelled
	default:
		return false
	}
}

// Clone returns a deep copy so callers can mutate without touching shared state.
func (b *Booking) Clone() *Booking {
	if b == nil {
		return nil
	}
	c := *b
	if b.SeatNumber != nil {
		v := *b.SeatNumber
		c.SeatNumber = &v
	}
	if b.WaitlistPosition != nil {
		v := *b.WaitlistPosition
		c.WaitlistPosition = &v
	}
	if b.Notes != nil {
		v := *b.Notes
		c.Notes = &v
	}
	if b.CancelledAt != nil {
		v := *b.CancelledAt
		c.CancelledAt = &v
	}
	return &c
}

func IntPtr(v int) *int { return &v }
