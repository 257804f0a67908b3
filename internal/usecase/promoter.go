package usecase

import (
	"fmt"
	"time"

	"dive-booking/internal/data/entity"
)

type cancellation struct {
	cancelled *entity.Booking
	promoted  *entity.Booking
	// vacated is the waitlist position that left the run, 0 when none did.
	vacated int
}

// cancelAndPromote cancels target and, when it held a seat, moves the head of
// the waitlist into that seat. Callers persist the returned records and then
// close the gap at vacated.
func cancelAndPromote(ledger entity.Ledger, target *entity.Booking, at time.Time) (*cancellation, error) {
	if !target.CanTransition(entity.BookingStatusCancelled) {
		return nil, fmt.Errorf("booking %s cannot move from %s to cancelled", target.ID, target.Status)
	}

	result := &cancellation{cancelled: target}
	wasConfirmed := target.Status == entity.BookingStatusConfirmed
	freedSeat := target.SeatNumber

	if target.Status == entity.BookingStatusWaitlisted && target.WaitlistPosition != nil {
		result.vacated = *target.WaitlistPosition
	}

	target.Status = entity.BookingStatusCancelled
	target.SeatNumber = nil
	target.WaitlistPosition = nil
	target.UpdatedAt = at
	target.CancelledAt = &at

	if !wasConfirmed || freedSeat == nil {
		return result, nil
	}

	head := ledger.Head()
	if head == nil {
		return result, nil
	}

	result.vacated = *head.WaitlistPosition
	head.Status = entity.BookingStatusConfirmed
	head.SeatNumber = entity.IntPtr(*freedSeat)
	head.WaitlistPosition = nil
	head.UpdatedAt = at
	result.promoted = head

	return result, nil
}
