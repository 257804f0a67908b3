package repository

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"dive-booking/internal/data/entity"

	"github.com/google/uuid"
)

// MemoryStore keeps trips and bookings in process. Transactions stage their
// writes and apply them in one step on commit; reads inside a transaction see
// committed state overlaid with the staged writes. The store itself does not
// serialize transactions against each other.
type MemoryStore struct {
	mu       sync.RWMutex
	trips    map[uuid.UUID]*entity.Trip
	bookings map[uuid.UUID]*entity.Booking
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		trips:    make(map[uuid.UUID]*entity.Trip),
		bookings: make(map[uuid.UUID]*entity.Booking),
	}
}

// PutTrip registers a trip. The trip catalogue lives outside this service, so
// this is how dev runs and tests seed it.
func (s *MemoryStore) PutTrip(trip *entity.Trip) {
	s.mu.Lock()
	defer s.mu.Unlock()
	c := *trip
	s.trips[trip.ID] = &c
}

// NewMemoryRepository wires repositories over the in-memory store.
func NewMemoryRepository(store *MemoryStore) *Repository {
	repo := &Repository{
		Trip:    &memoryTripRepository{store: store},
		Booking: &memoryBookingRepository{store: store},
	}
	repo.withTx = func(ctx context.Context, fn func(repo *Repository) error) error {
		tx := &memoryTx{store: store, staged: make(map[uuid.UUID]*entity.Booking)}
		txRepo := &Repository{
			Trip:    &memoryTripRepository{store: store},
			Booking: &memoryBookingRepository{store: store, tx: tx},
		}
		txRepo.withTx = func(ctx context.Context, fn func(repo *Repository) error) error {
			return fn(txRepo)
		}
		if err := fn(txRepo); err != nil {
			return err
		}
		if err := ctx.Err(); err != nil {
			return err
		}
		tx.commit()
		return nil
	}
	return repo
}

type memoryTx struct {
	store  *MemoryStore
	staged map[uuid.UUID]*entity.Booking
}

func (tx *memoryTx) commit() {
	tx.store.mu.Lock()
	defer tx.store.mu.Unlock()
	for id, b := range tx.staged {
		tx.store.bookings[id] = b
	}
}

type memoryTripRepository struct {
	store *MemoryStore
}

func (r *memoryTripRepository) FindByID(ctx context.Context, id uuid.UUID) (*entity.Trip, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()
	trip, ok := r.store.trips[id]
	if !ok {
		return nil, nil
	}
	c := *trip
	return &c, nil
}

func (r *memoryTripRepository) FindForUpdate(ctx context.Context, id uuid.UUID) (*entity.Trip, error) {
	return r.FindByID(ctx, id)
}

type memoryBookingRepository struct {
	store *MemoryStore
	tx    *memoryTx
}

// snapshot returns copies of the visible bookings matching keep.
func (r *memoryBookingRepository) snapshot(keep func(b *entity.Booking) bool) []*entity.Booking {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	var out []*entity.Booking
	for id, b := range r.store.bookings {
		if r.tx != nil {
			if _, shadowed := r.tx.staged[id]; shadowed {
				continue
			}
		}
		if keep(b) {
			out = append(out, b.Clone())
		}
	}
	if r.tx != nil {
		for _, b := range r.tx.staged {
			if keep(b) {
				out = append(out, b.Clone())
			}
		}
	}
	return out
}

func (r *memoryBookingRepository) put(b *entity.Booking) {
	if r.tx != nil {
		r.tx.staged[b.ID] = b.Clone()
		return
	}
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	r.store.bookings[b.ID] = b.Clone()
}

func (r *memoryBookingRepository) Create(ctx context.Context, booking *entity.Booking) error {
	r.put(booking)
	return nil
}

func (r *memoryBookingRepository) FindByID(ctx context.Context, id uuid.UUID) (*entity.Booking, error) {
	found := r.snapshot(func(b *entity.Booking) bool { return b.ID == id })
	if len(found) == 0 {
		return nil, nil
	}
	return found[0], nil
}

func (r *memoryBookingRepository) Update(ctx context.Context, booking *entity.Booking) error {
	existing, _ := r.FindByID(ctx, booking.ID)
	if existing == nil {
		return errBookingMissing(booking.ID)
	}
	r.put(booking)
	return nil
}

func (r *memoryBookingRepository) FindActiveByTripID(ctx context.Context, tripID uuid.UUID) ([]*entity.Booking, error) {
	found := r.snapshot(func(b *entity.Booking) bool {
		return b.TripID == tripID && b.Status != entity.BookingStatusCancelled
	})
	return entity.Ledger(found).Active(), nil
}

func (r *memoryBookingRepository) LatestCreatedAt(ctx context.Context, tripID uuid.UUID) (time.Time, error) {
	var latest time.Time
	for _, b := range r.snapshot(func(b *entity.Booking) bool { return b.TripID == tripID }) {
		if b.CreatedAt.After(latest) {
			latest = b.CreatedAt
		}
	}
	return latest, nil
}

func (r *memoryBookingRepository) ShiftWaitlist(ctx context.Context, tripID uuid.UUID, after int, at time.Time) (int64, error) {
	found := r.snapshot(func(b *entity.Booking) bool {
		return b.TripID == tripID &&
			b.Status == entity.BookingStatusWaitlisted &&
			b.WaitlistPosition != nil && *b.WaitlistPosition > after
	})
	sort.Slice(found, func(i, j int) bool { return *found[i].WaitlistPosition < *found[j].WaitlistPosition })
	for _, b := range found {
		*b.WaitlistPosition--
		b.UpdatedAt = at
		r.put(b)
	}
	return int64(len(found)), nil
}

func errBookingMissing(id uuid.UUID) error {
	return fmt.Errorf("booking %s not found", id.String())
}
