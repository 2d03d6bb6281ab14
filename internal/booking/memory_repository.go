package booking

import (
	"cmp"
	"context"
	"errors"
	"fmt"
	"slices"
	"sync"
	"time"

	"arenabook/internal/schedule"

	"golang.org/x/sync/semaphore"
)

// MemoryRepository keeps bookings in process. Each scope key has its own
// weighted semaphore of size one, so commits on different keys never wait
// on each other.
type MemoryRepository struct {
	lockTimeout time.Duration

	mu       sync.RWMutex
	bookings map[int]Booking
	nextID   int

	scopesMu sync.Mutex
	scopes   map[ScopeKey]*semaphore.Weighted
}

func NewMemoryRepository(lockTimeout time.Duration) *MemoryRepository {
	return &MemoryRepository{
		lockTimeout: lockTimeout,
		bookings:    make(map[int]Booking),
		scopes:      make(map[ScopeKey]*semaphore.Weighted),
	}
}

func (r *MemoryRepository) scope(key ScopeKey) *semaphore.Weighted {
	r.scopesMu.Lock()
	defer r.scopesMu.Unlock()
	sem, ok := r.scopes[key]
	if !ok {
		sem = semaphore.NewWeighted(1)
		r.scopes[key] = sem
	}
	return sem
}

func (r *MemoryRepository) InScope(ctx context.Context, key ScopeKey, fn func(tx ScopeTx) error) error {
	waitCtx, cancel := context.WithTimeout(ctx, r.lockTimeout)
	defer cancel()

	// A caller that went away is not told to retry.
	if errors.Is(ctx.Err(), context.Canceled) {
		return ctx.Err()
	}

	sem := r.scope(key)
	if err := sem.Acquire(waitCtx, 1); err != nil {
		if errors.Is(ctx.Err(), context.Canceled) {
			return ctx.Err()
		}
		return fmt.Errorf("%w: scope %s", ErrBusy, key)
	}
	defer sem.Release(1)

	tx := &memoryScope{repo: r, key: key}
	if err := fn(tx); err != nil {
		return err
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	r.mu.Lock()
	for _, b := range tx.pending {
		r.bookings[b.ID] = b
	}
	r.mu.Unlock()
	return nil
}

type memoryScope struct {
	repo    *MemoryRepository
	key     ScopeKey
	pending []Booking
}

func (s *memoryScope) ActiveBookings(ctx context.Context) ([]Booking, error) {
	return s.repo.ListActive(ctx, s.key.ArenaID, s.key.Date)
}

func (s *memoryScope) Insert(_ context.Context, b Booking) (*Booking, error) {
	if b.ArenaID != s.key.ArenaID || b.Date != s.key.Date {
		return nil, fmt.Errorf("booking for %d/%s inserted in scope %s", b.ArenaID, b.Date, s.key)
	}

	s.repo.mu.Lock()
	s.repo.nextID++
	b.ID = s.repo.nextID
	s.repo.mu.Unlock()

	now := time.Now()
	b.CreatedAt, b.UpdatedAt = now, now
	s.pending = append(s.pending, b)
	return &b, nil
}

func (r *MemoryRepository) GetByID(_ context.Context, id int) (*Booking, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	b, ok := r.bookings[id]
	if !ok {
		return nil, ErrBookingNotFound
	}
	return &b, nil
}

func (r *MemoryRepository) filter(keep func(Booking) bool, order func(a, b Booking) int) []Booking {
	r.mu.RLock()
	out := []Booking{}
	for _, b := range r.bookings {
		if keep(b) {
			out = append(out, b)
		}
	}
	r.mu.RUnlock()
	slices.SortFunc(out, order)
	return out
}

func byStart(a, b Booking) int {
	return cmp.Or(
		cmp.Compare(a.StartTime, b.StartTime),
		cmp.Compare(a.EndTime, b.EndTime),
		cmp.Compare(a.ID, b.ID),
	)
}

func byDateThenStart(a, b Booking) int {
	if a.Date != b.Date {
		if a.Date.Before(b.Date) {
			return -1
		}
		return 1
	}
	return byStart(a, b)
}

func (r *MemoryRepository) ListActive(_ context.Context, arenaID int, date schedule.Date) ([]Booking, error) {
	return r.filter(func(b Booking) bool {
		return b.ArenaID == arenaID && b.Date == date && b.Status.Active()
	}, byStart), nil
}

func (r *MemoryRepository) ListByUser(_ context.Context, userID int) ([]Booking, error) {
	return r.filter(func(b Booking) bool { return b.UserID == userID }, func(a, b Booking) int {
		return cmp.Compare(b.ID, a.ID)
	}), nil
}

func (r *MemoryRepository) ListByArena(_ context.Context, arenaID int, date *schedule.Date) ([]Booking, error) {
	return r.filter(func(b Booking) bool {
		return b.ArenaID == arenaID && (date == nil || b.Date == *date)
	}, byDateThenStart), nil
}

func (r *MemoryRepository) ListCalendar(_ context.Context, arenaID int, from schedule.Date) ([]Booking, error) {
	return r.filter(func(b Booking) bool {
		return b.ArenaID == arenaID && b.Status.Active() && !b.Date.Before(from)
	}, byDateThenStart), nil
}

func (r *MemoryRepository) UpdateStatus(_ context.Context, id int, from, to Status) (*Booking, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	b, ok := r.bookings[id]
	if !ok {
		return nil, ErrBookingNotFound
	}
	if b.Status != from {
		return nil, errStaleStatus
	}
	b.Status = to
	b.UpdatedAt = time.Now()
	r.bookings[id] = b
	return &b, nil
}

func (r *MemoryRepository) ListDueForCompletion(_ context.Context, today schedule.Date, now schedule.Clock) ([]Booking, error) {
	return r.filter(func(b Booking) bool {
		if b.Status != StatusApproved {
			return false
		}
		return b.Date.Before(today) || (b.Date == today && b.EndTime <= now)
	}, byDateThenStart), nil
}
