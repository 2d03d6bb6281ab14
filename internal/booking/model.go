package booking

import (
	"fmt"
	"time"

	"arenabook/internal/schedule"

	"github.com/shopspring/decimal"
)

type Status string

const (
	StatusPending   Status = "pending"
	StatusApproved  Status = "approved"
	StatusRejected  Status = "rejected"
	StatusCanceled  Status = "canceled"
	StatusCompleted Status = "completed"
)

func ParseStatus(s string) (Status, error) {
	switch Status(s) {
	case StatusPending, StatusApproved, StatusRejected, StatusCanceled, StatusCompleted:
		return Status(s), nil
	}
	return "", fmt.Errorf("unknown booking status %q", s)
}

// Active bookings occupy their interval; only they take part in overlap checks.
func (s Status) Active() bool {
	switch s {
	case StatusPending, StatusApproved:
		return true
	case StatusRejected, StatusCanceled, StatusCompleted:
		return false
	}
	return false
}

func (s Status) Terminal() bool {
	switch s {
	case StatusRejected, StatusCanceled, StatusCompleted:
		return true
	case StatusPending, StatusApproved:
		return false
	}
	return false
}

func (s *Status) Scan(src any) error {
	var raw string
	switch v := src.(type) {
	case string:
		raw = v
	case []byte:
		raw = string(v)
	default:
		return fmt.Errorf("scan booking status: unsupported type %T", src)
	}
	parsed, err := ParseStatus(raw)
	if err != nil {
		return err
	}
	*s = parsed
	return nil
}

type Booking struct {
	ID         int              `db:"id" json:"id"`
	UserID     int              `db:"user_id" json:"user_id"`
	ArenaID    int              `db:"arena_id" json:"arena_id"`
	Date       schedule.Date    `db:"date" json:"date"`
	StartTime  schedule.Clock   `db:"start_time" json:"start_time"`
	EndTime    schedule.Clock   `db:"end_time" json:"end_time"`
	Status     Status           `db:"status" json:"status"`
	TotalPrice *decimal.Decimal `db:"total_price" json:"total_price"`
	CreatedAt  time.Time        `db:"created_at" json:"created_at"`
	UpdatedAt  time.Time        `db:"updated_at" json:"updated_at"`
}

func (b Booking) Interval() schedule.Interval {
	return schedule.Interval{Start: b.StartTime, End: b.EndTime}
}

// ScopeKey identifies the set of bookings a commit must serialize against.
type ScopeKey struct {
	ArenaID int
	Date    schedule.Date
}

func (k ScopeKey) String() string {
	return fmt.Sprintf("%d/%s", k.ArenaID, k.Date)
}

type CreateRequest struct {
	ArenaID   int            `json:"arena_id" binding:"required,gt=0"`
	Date      schedule.Date  `json:"date"`
	StartTime schedule.Clock `json:"start_time"`
	EndTime   schedule.Clock `json:"end_time"`
}

type FreeSchedule struct {
	ArenaID      int                 `json:"arena_id"`
	Date         schedule.Date       `json:"date"`
	Closed       bool                `json:"closed"`
	WorkingHours *schedule.Interval  `json:"working_hours"`
	Free         []schedule.Interval `json:"free_intervals"`
}

type Slot struct {
	schedule.Interval
	Available bool `json:"available"`
}

type SlotSchedule struct {
	ArenaID         int           `json:"arena_id"`
	Date            schedule.Date `json:"date"`
	Closed          bool          `json:"closed"`
	DurationMinutes int           `json:"duration_minutes"`
	Slots           []Slot        `json:"slots"`
}
