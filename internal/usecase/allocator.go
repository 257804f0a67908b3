package usecase

import (
	"time"

	"dive-booking/internal/data/entity"
)

// arrivalTick is the smallest step of the per-trip arrival clock. Postgres
// stores timestamps with microsecond precision.
const arrivalTick = time.Microsecond

// nextArrival returns a creation time strictly after latest.
func nextArrival(latest, now time.Time) time.Time {
	now = now.UTC().Truncate(arrivalTick)
	if !now.After(latest) {
		return latest.UTC().Truncate(arrivalTick).Add(arrivalTick)
	}
	return now
}

// allocate gives the booking the lowest free seat, or the next waitlist
// position when every seat is taken.
func allocate(capacity int, ledger entity.Ledger, booking *entity.Booking) {
	if len(ledger.Confirmed()) < capacity {
		booking.Status = entity.BookingStatusConfirmed
		booking.SeatNumber = entity.IntPtr(ledger.NextSeat(capacity))
		booking.WaitlistPosition = nil
		return
	}
	booking.Status = entity.BookingStatusWaitlisted
	booking.SeatNumber = nil
	booking.WaitlistPosition = entity.IntPtr(ledger.NextWaitlistPosition())
}
