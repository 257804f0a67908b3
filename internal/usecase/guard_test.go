package usecase

import (
	"context"
	"errors"
	"testing"

	"dive-booking/internal/data/repository"
	"dive-booking/pkg/apperror"
	"dive-booking/pkg/lock"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type flakyLocker struct {
	fails int
	calls int
}

func (l *flakyLocker) Lock(ctx context.Context, key string) (func(), error) {
	l.calls++
	if l.calls <= l.fails {
		return nil, lock.ErrTimeout
	}
	return func() {}, nil
}

func TestGuard_Run(t *testing.T) {
	ctx := context.Background()
	tripID := uuid.New()

	t.Run("retries contention", func(t *testing.T) {
		locker := &flakyLocker{fails: 2}
		ran := 0
		err := NewGuard(locker, 3, zap.NewNop()).Run(ctx, tripID, func(ctx context.Context) error {
			ran++
			return nil
		})
		require.NoError(t, err)
		assert.Equal(t, 3, locker.calls)
		assert.Equal(t, 1, ran)
	})

	t.Run("exhausted budget is a conflict", func(t *testing.T) {
		locker := &flakyLocker{fails: 10}
		err := NewGuard(locker, 2, zap.NewNop()).Run(ctx, tripID, func(ctx context.Context) error {
			return nil
		})
		require.Error(t, err)
		assert.True(t, apperror.IsKind(err, apperror.KindConflict))
		assert.ErrorIs(t, err, lock.ErrTimeout)
		assert.Equal(t, 2, locker.calls)
	})

	t.Run("store contention is retried", func(t *testing.T) {
		attempts := 0
		err := NewGuard(&flakyLocker{}, 3, zap.NewNop()).Run(ctx, tripID, func(ctx context.Context) error {
			attempts++
			if attempts == 1 {
				return repository.ErrContention
			}
			return nil
		})
		require.NoError(t, err)
		assert.Equal(t, 2, attempts)
	})

	t.Run("other errors are not retried", func(t *testing.T) {
		boom := errors.New("boom")
		attempts := 0
		err := NewGuard(&flakyLocker{}, 3, zap.NewNop()).Run(ctx, tripID, func(ctx context.Context) error {
			attempts++
			return boom
		})
		assert.ErrorIs(t, err, boom)
		assert.Equal(t, 1, attempts)
	})

	t.Run("app errors pass through", func(t *testing.T) {
		err := NewGuard(&flakyLocker{}, 3, zap.NewNop()).Run(ctx, tripID, func(ctx context.Context) error {
			return apperror.NotFound("trip missing")
		})
		assert.True(t, apperror.IsKind(err, apperror.KindNotFound))
	})
}
