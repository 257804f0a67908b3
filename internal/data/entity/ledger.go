package entity

import (
	"fmt"
	"sort"
)

// Ledger is the set of bookings of a single trip. Cancelled entries may be
// present; they are ignored by every view below.
type Ledger []*Booking

// Confirmed returns confirmed bookings ordered by seat number.
func (l Ledger) Confirmed() []*Booking {
	var out []*Booking
	for _, b := range l {
		if b.Status == BookingStatusConfirmed {
			out = append(out, b)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		return seatOf(out[i]) < seatOf(out[j])
	})
	return out
}

// Waitlisted returns waitlisted bookings ordered by position.
func (l Ledger) Waitlisted() []*Booking {
	var out []*Booking
	for _, b := range l {
		if b.Status == BookingStatusWaitlisted {
			out = append(out, b)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		return positionOf(out[i]) < positionOf(out[j])
	})
	return out
}

// Active returns non-cancelled bookings, confirmed seats first then the waitlist.
func (l Ledger) Active() []*Booking {
	return append(l.Confirmed(), l.Waitlisted()...)
}

// NextSeat returns the lowest seat in [1, capacity] not held by a confirmed
// booking, or 0 when the trip is full.
// Only the first len(confirmed)+1 seats need checking, so the cost follows the
// number of bookings rather than the capacity.
func (l Ledger) NextSeat(capacity int) int {
	confirmed := l.Confirmed()
	taken := make(map[int]bool, len(confirmed))
	for _, b := range confirmed {
		taken[seatOf(b)] = true
	}
	for seat := 1; seat <= capacity && seat <= len(confirmed)+1; seat++ {
		if !taken[seat] {
			return seat
		}
	}
	return 0
}

// NextWaitlistPosition returns max position + 1 (1 for an empty waitlist).
func (l Ledger) NextWaitlistPosition() int {
	last := 0
	for _, b := range l.Waitlisted() {
		if p := positionOf(b); p > last {
			last = p
		}
	}
	return last + 1
}

// Head returns the waitlisted booking with the smallest position.
func (l Ledger) Head() *Booking {
	wl := l.Waitlisted()
	if len(wl) == 0 {
		return nil
	}
	return wl[0]
}

// Verify checks the capacity, seat uniqueness, waitlist contiguity and
// cancelled-record invariants.
func (l Ledger) Verify(capacity int) error {
	seats := make(map[int]string)
	confirmed := 0
	for _, b := range l {
		switch b.Status {
		case BookingStatusConfirmed:
			confirmed++
			if b.SeatNumber == nil || b.WaitlistPosition != nil {
				return fmt.Errorf("booking %s: confirmed must hold only a seat", b.ID)
			}
			seat := *b.SeatNumber
			if seat < 1 || seat > capacity {
				return fmt.Errorf("booking %s: seat %d outside [1,%d]", b.ID, seat, capacity)
			}
			if other, dup := seats[seat]; dup {
				return fmt.Errorf("seat %d held by %s and %s", seat, other, b.ID)
			}
			seats[seat] = b.ID.String()
		case BookingStatusWaitlisted:
			if b.WaitlistPosition == nil || b.SeatNumber != nil {
				return fmt.Errorf("booking %s: waitlisted must hold only a position", b.ID)
			}
		case BookingStatusCancelled:
			if b.SeatNumber != nil || b.WaitlistPosition != nil {
				return fmt.Errorf("booking %s: cancelled still holds seat or position", b.ID)
			}
		default:
			return fmt.Errorf("booking %s: unknown status %q", b.ID, b.Status)
		}
	}
	if confirmed > capacity {
		return fmt.Errorf("%d confirmed bookings exceed capacity %d", confirmed, capacity)
	}

	wl := l.Waitlisted()
	for i, b := range wl {
		if want := i + 1; positionOf(b) != want {
			return fmt.Errorf("waitlist gap: booking %s at %d, want %d", b.ID, positionOf(b), want)
		}
		if i > 0 && !b.CreatedAt.After(wl[i-1].CreatedAt) {
			return fmt.Errorf("waitlist out of arrival order at position %d", i+1)
		}
	}
	return nil
}

func seatOf(b *Booking) int {
	if b.SeatNumber == nil {
		return 0
	}
	return *b.SeatNumber
}

func positionOf(b *Booking) int {
	if b.WaitlistPosition == nil {
		return 0
	}
	return *b.WaitlistPosition
}
