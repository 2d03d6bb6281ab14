package booking

import (
	"context"
	"sync"
	"testing"
	"time"

	"arenabook/internal/arena"
	"arenabook/internal/schedule"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
)

// 2025-12-15 is a Monday.
var (
	monday = schedule.MustParseDate("2025-12-15")
	sunday = schedule.MustParseDate("2025-12-21")
)

func clock(s string) schedule.Clock { return schedule.MustParseClock(s) }

// fakeArenas serves one arena open 09:00-18:00 Monday to Saturday, closed on
// Sunday, priced 50000 on weekdays and unpriced on weekends.
type fakeArenas struct {
	arena  arena.Arena
	hours  map[int]*arena.WorkingHours
	prices map[arena.DayType]*arena.Price
}

func newFakeArenas() *fakeArenas {
	f := &fakeArenas{
		arena:  arena.Arena{ID: 1, OwnerID: 7, Name: "Chilonzor Arena"},
		hours:  map[int]*arena.WorkingHours{},
		prices: map[arena.DayType]*arena.Price{},
	}
	for day := 0; day < 6; day++ {
		f.hours[day] = &arena.WorkingHours{ArenaID: 1, DayOfWeek: day, OpenTime: clock("09:00"), CloseTime: clock("18:00")}
	}
	f.prices[arena.DayTypeWeekday] = &arena.Price{ArenaID: 1, DayType: arena.DayTypeWeekday, PricePerHour: decimal.NewFromInt(50000)}
	return f
}

func (f *fakeArenas) GetArena(_ context.Context, id int) (*arena.Arena, error) {
	if id != f.arena.ID {
		return nil, arena.ErrArenaNotFound
	}
	a := f.arena
	return &a, nil
}

func (f *fakeArenas) Availability(ctx context.Context, arenaID int, date schedule.Date) (*arena.Availability, error) {
	a, err := f.GetArena(ctx, arenaID)
	if err != nil {
		return nil, err
	}
	dt := arena.DayTypeOf(date)
	return &arena.Availability{
		Arena:   a,
		Date:    date,
		Weekday: date.Weekday(),
		DayType: dt,
		Hours:   f.hours[date.Weekday()],
		Price:   f.prices[dt],
	}, nil
}

type recordingSink struct {
	mu     sync.Mutex
	events []Event
}

func (s *recordingSink) HandleBookingEvent(_ context.Context, ev Event) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.events = append(s.events, ev)
	return nil
}

func (s *recordingSink) Events() []Event {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]Event(nil), s.events...)
}

func newTestService(repo Repository, sinks ...EventSink) Service {
	return NewService(repo, newFakeArenas(), Options{
		InitialStatus: StatusPending,
		SlotDuration:  time.Hour,
		Location:      time.UTC,
		Now:           func() time.Time { return time.Date(2025, 12, 15, 12, 0, 0, 0, time.UTC) },
	}, sinks...)
}

// seed commits b directly through the repository.
func seed(t *testing.T, repo Repository, b Booking) *Booking {
	t.Helper()
	var out *Booking
	err := repo.InScope(context.Background(), ScopeKey{ArenaID: b.ArenaID, Date: b.Date}, func(tx ScopeTx) error {
		var err error
		out, err = tx.Insert(context.Background(), b)
		return err
	})
	require.NoError(t, err)
	return out
}
