package booking

import (
	"context"
	"time"

	"arenabook/internal/schedule"
)

// Event describes a booking that has just changed status.
type Event struct {
	BookingID  int            `json:"booking_id"`
	UserID     int            `json:"user_id"`
	ArenaID    int            `json:"arena_id"`
	ArenaName  string         `json:"arena_name"`
	Date       schedule.Date  `json:"date"`
	StartTime  schedule.Clock `json:"start_time"`
	EndTime    schedule.Clock `json:"end_time"`
	Status     Status         `json:"new_status"`
	OccurredAt time.Time      `json:"occurred_at"`
}

// EventSink consumes status changes after they are committed. A sink error
// never undoes the change.
type EventSink interface {
	HandleBookingEvent(ctx context.Context, ev Event) error
}

type EventSinkFunc func(ctx context.Context, ev Event) error

func (f EventSinkFunc) HandleBookingEvent(ctx context.Context, ev Event) error {
	return f(ctx, ev)
}
