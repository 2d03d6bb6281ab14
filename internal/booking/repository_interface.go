package booking

import (
	"context"

	"arenabook/internal/schedule"
)

// ScopeTx is the view of one (arena, date) scope while its lock is held.
type ScopeTx interface {
	// ActiveBookings reads the committed pending and approved bookings of
	// the scope, ordered by start, end, id.
	ActiveBookings(ctx context.Context) ([]Booking, error)
	Insert(ctx context.Context, b Booking) (*Booking, error)
}

type Repository interface {
	// InScope runs fn with exclusive access to key. fn's writes commit only
	// if it returns nil. A lock that cannot be taken in time yields ErrBusy.
	InScope(ctx context.Context, key ScopeKey, fn func(tx ScopeTx) error) error

	GetByID(ctx context.Context, id int) (*Booking, error)
	ListActive(ctx context.Context, arenaID int, date schedule.Date) ([]Booking, error)
	ListByUser(ctx context.Context, userID int) ([]Booking, error)
	ListByArena(ctx context.Context, arenaID int, date *schedule.Date) ([]Booking, error)
	ListCalendar(ctx context.Context, arenaID int, from schedule.Date) ([]Booking, error)

	// UpdateStatus moves a booking from one status to another only if it
	// still has from. Otherwise it returns errStaleStatus, or
	// ErrBookingNotFound when the row does not exist.
	UpdateStatus(ctx context.Context, id int, from, to Status) (*Booking, error)

	// ListDueForCompletion returns approved bookings that ended at or before
	// now on today, or on any earlier day.
	ListDueForCompletion(ctx context.Context, today schedule.Date, now schedule.Clock) ([]Booking, error)
}
