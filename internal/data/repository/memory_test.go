package repository

import (
	"context"
	"errors"
	"testing"
	"time"

	"dive-booking/internal/data/entity"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newWaitlisted(tripID uuid.UUID, pos int, at time.Time) *entity.Booking {
	return &entity.Booking{
		Base:             entity.Base{ID: uuid.New(), CreatedAt: at, UpdatedAt: at},
		TripID:           tripID,
		DiverID:          "diver",
		Status:           entity.BookingStatusWaitlisted,
		WaitlistPosition: entity.IntPtr(pos),
	}
}

func TestMemoryRepository_RollbackDiscardsStagedWrites(t *testing.T) {
	ctx := context.Background()
	repo := NewMemoryRepository(NewMemoryStore())
	tripID := uuid.New()
	boom := errors.New("boom")

	err := repo.WithTx(ctx, func(tx *Repository) error {
		require.NoError(t, tx.Booking.Create(ctx, newWaitlisted(tripID, 1, time.Now())))

		staged, err := tx.Booking.FindActiveByTripID(ctx, tripID)
		require.NoError(t, err)
		assert.Len(t, staged, 1, "transaction sees its own writes")

		outside, err := repo.Booking.FindActiveByTripID(ctx, tripID)
		require.NoError(t, err)
		assert.Empty(t, outside, "uncommitted writes stay invisible")
		return boom
	})
	assert.ErrorIs(t, err, boom)

	active, err := repo.Booking.FindActiveByTripID(ctx, tripID)
	require.NoError(t, err)
	assert.Empty(t, active)
}

func TestMemoryRepository_ShiftWaitlist(t *testing.T) {
	ctx := context.Background()
	repo := NewMemoryRepository(NewMemoryStore())
	tripID := uuid.New()
	base := time.Now()

	var ids []uuid.UUID
	for pos := 1; pos <= 3; pos++ {
		b := newWaitlisted(tripID, pos, base.Add(time.Duration(pos)*time.Microsecond))
		ids = append(ids, b.ID)
		require.NoError(t, repo.Booking.Create(ctx, b))
	}

	err := repo.WithTx(ctx, func(tx *Repository) error {
		first, err := tx.Booking.FindByID(ctx, ids[0])
		require.NoError(t, err)
		first.Status = entity.BookingStatusCancelled
		first.WaitlistPosition = nil
		require.NoError(t, tx.Booking.Update(ctx, first))

		n, err := tx.Booking.ShiftWaitlist(ctx, tripID, 1, base)
		require.NoError(t, err)
		assert.Equal(t, int64(2), n)
		return nil
	})
	require.NoError(t, err)

	active, err := repo.Booking.FindActiveByTripID(ctx, tripID)
	require.NoError(t, err)
	require.Len(t, active, 2)
	assert.Equal(t, ids[1], active[0].ID)
	assert.Equal(t, 1, *active[0].WaitlistPosition)
	assert.Equal(t, 2, *active[1].WaitlistPosition)

	latest, err := repo.Booking.LatestCreatedAt(ctx, tripID)
	require.NoError(t, err)
	assert.True(t, latest.Equal(base.Add(3*time.Microsecond)))
}

func TestMemoryRepository_UpdateMissing(t *testing.T) {
	repo := NewMemoryRepository(NewMemoryStore())
	err := repo.Booking.Update(context.Background(), newWaitlisted(uuid.New(), 1, time.Now()))
	assert.Error(t, err)
}
