package entity

import (
	"runtime"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

func booking(status BookingStatus, seat, pos int, at time.Time) *Booking {
	b := &Booking{Base: Base{ID: uuid.New(), CreatedAt: at}, Status: status}
	if seat > 0 {
		b.SeatNumber = IntPtr(seat)
	}
	if pos > 0 {
		b.WaitlistPosition = IntPtr(pos)
	}
	return b
}

func TestLedger_Views(t *testing.T) {
	t0 := time.Now()
	l := Ledger{
		booking(BookingStatusWaitlisted, 0, 2, t0.Add(4)),
		booking(BookingStatusConfirmed, 3, 0, t0.Add(1)),
		booking(BookingStatusCancelled, 0, 0, t0),
		booking(BookingStatusConfirmed, 1, 0, t0.Add(2)),
		booking(BookingStatusWaitlisted, 0, 1, t0.Add(3)),
	}

	confirmed := l.Confirmed()
	assert.Len(t, confirmed, 2)
	assert.Equal(t, 1, *confirmed[0].SeatNumber)
	assert.Equal(t, 3, *confirmed[1].SeatNumber)

	assert.Equal(t, 2, l.NextSeat(3))
	assert.Equal(t, 0, Ledger{confirmed[0]}.NextSeat(1))
	assert.Equal(t, 3, l.NextWaitlistPosition())
	assert.Equal(t, 1, Ledger{}.NextWaitlistPosition())
	assert.Equal(t, 1, *l.Head().WaitlistPosition)
	assert.Nil(t, Ledger{confirmed[0]}.Head())

	active := l.Active()
	assert.Len(t, active, 4)
	assert.Equal(t, BookingStatusWaitlisted, active[3].Status)
	assert.Equal(t, 2, *active[3].WaitlistPosition)
}

func TestLedger_Verify(t *testing.T) {
	t0 := time.Now()

	tests := []struct {
		name    string
		ledger  Ledger
		wantErr bool
	}{
		{"valid", Ledger{
			booking(BookingStatusConfirmed, 1, 0, t0),
			booking(BookingStatusConfirmed, 2, 0, t0.Add(1)),
			booking(BookingStatusWaitlisted, 0, 1, t0.Add(2)),
			booking(BookingStatusCancelled, 0, 0, t0.Add(3)),
		}, false},
		{"duplicate seat", Ledger{
			booking(BookingStatusConfirmed, 1, 0, t0),
			booking(BookingStatusConfirmed, 1, 0, t0.Add(1)),
		}, true},
		{"seat out of range", Ledger{booking(BookingStatusConfirmed, 3, 0, t0)}, true},
		{"waitlist gap", Ledger{
			booking(BookingStatusWaitlisted, 0, 1, t0),
			booking(BookingStatusWaitlisted, 0, 3, t0.Add(1)),
		}, true},
		{"waitlist out of arrival order", Ledger{
			booking(BookingStatusWaitlisted, 0, 1, t0.Add(1)),
			booking(BookingStatusWaitlisted, 0, 2, t0),
		}, true},
		{"cancelled keeps seat", Ledger{booking(BookingStatusCancelled, 1, 0, t0)}, true},
		{"confirmed without seat", Ledger{booking(BookingStatusConfirmed, 0, 0, t0)}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.ledger.Verify(2)
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestBooking_CanTransition(t *testing.T) {
	c := &Booking{Status: BookingStatusConfirmed}
	w := &Booking{Status: BookingStatusWaitlisted}
	x := &Booking{Status: BookingStatusCancelled}

	assert.True(t, c.CanTransition(BookingStatusCancelled))
	assert.False(t, c.CanTransition(BookingStatusWaitlisted))
	assert.True(t, w.CanTransition(BookingStatusConfirmed))
	assert.True(t, w.CanTransition(BookingStatusCancelled))
	assert.False(t, x.CanTransition(BookingStatusConfirmed))
	assert.False(t, x.CanTransition(BookingStatusCancelled))
}

func TestLedger_NextSeatLargeCapacity(t *testing.T) {
	t0 := time.Now()
	l := Ledger{
		booking(BookingStatusConfirmed, 1, 0, t0),
		booking(BookingStatusConfirmed, 2, 0, t0.Add(1)),
		booking(BookingStatusConfirmed, 4, 0, t0.Add(2)),
	}

	var before, after runtime.MemStats
	runtime.ReadMemStats(&before)
	seat := l.NextSeat(2_000_000_000)
	runtime.ReadMemStats(&after)

	assert.Equal(t, 3, seat)
	assert.Less(t, after.TotalAlloc-before.TotalAlloc, uint64(1<<20))

	assert.Equal(t, 5, Ledger{
		booking(BookingStatusConfirmed, 1, 0, t0),
		booking(BookingStatusConfirmed, 2, 0, t0.Add(1)),
		booking(BookingStatusConfirmed, 3, 0, t0.Add(2)),
		booking(BookingStatusConfirmed, 4, 0, t0.Add(3)),
	}.NextSeat(1_000_000))
}
