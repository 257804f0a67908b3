package usecase

import (
	"context"
	"errors"
	"time"

	"dive-booking/internal/data/repository"
	"dive-booking/pkg/apperror"
	"dive-booking/pkg/lock"

	"github.com/cenkalti/backoff/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Guard is the per-trip serialization unit. Every ledger mutation for a trip
// runs inside Run, which holds the trip lock for the whole read-compute-write
// sequence and retries contention a bounded number of times.
type Guard struct {
	locker  lock.Locker
	retries int
	log     *zap.Logger
}

func NewGuard(locker lock.Locker, retries int, log *zap.Logger) *Guard {
	if retries < 1 {
		retries = 1
	}
	return &Guard{
		locker:  locker,
		retries: retries,
		log:     log.With(zap.String("component", "guard")),
	}
}

// Run executes fn while holding the lock for tripID. Contention that outlasts
// the retry budget is reported as a Conflict; any other error from fn is
// returned unchanged after the first attempt.
func (g *Guard) Run(ctx context.Context, tripID uuid.UUID, fn func(ctx context.Context) error) error {
	b := backoff.NewExponentialBackOff()
	b.InitialInterval = 10 * time.Millisecond
	b.MaxInterval = 250 * time.Millisecond

	attempt := 0
	_, err := backoff.Retry(ctx, func() (struct{}, error) {
		attempt++
		err := g.once(ctx, tripID, fn)
		if err == nil {
			return struct{}{}, nil
		}
		if isContention(err) {
			g.log.Debug("Trip contended, retrying",
				zap.String("trip_id", tripID.String()),
				zap.Int("attempt", attempt),
				zap.Error(err),
			)
			return struct{}{}, err
		}
		return struct{}{}, backoff.Permanent(err)
	}, backoff.WithBackOff(b), backoff.WithMaxTries(uint(g.retries)))

	// the last attempt can come back still wrapped
	var permanent *backoff.PermanentError
	if errors.As(err, &permanent) {
		err = permanent.Unwrap()
	}

	if err != nil && isContention(err) {
		g.log.Warn("Trip lock not acquired within retry budget",
			zap.String("trip_id", tripID.String()),
			zap.Int("attempts", attempt),
			zap.Error(err),
		)
		return apperror.Conflict(err, "trip %s is busy, retry the request", tripID.String())
	}
	return err
}

func (g *Guard) once(ctx context.Context, tripID uuid.UUID, fn func(ctx context.Context) error) error {
	unlock, err := g.locker.Lock(ctx, tripID.String())
	if err != nil {
		return err
	}
	defer unlock()
	return fn(ctx)
}

func isContention(err error) bool {
	return errors.Is(err, lock.ErrTimeout) ||
		errors.Is(err, repository.ErrContention) ||
		errors.Is(err, context.DeadlineExceeded)
}
