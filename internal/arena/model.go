package arena

import (
	"fmt"
	"time"

	"arenabook/internal/schedule"

	"github.com/shopspring/decimal"
)

type Arena struct {
	ID        int       `db:"id" json:"id"`
	OwnerID   int       `db:"owner_id" json:"owner_id"`
	Name      string    `db:"name" json:"name"`
	Address   string    `db:"address" json:"address"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
}

// WorkingHours is the open interval of one arena on one weekday
// (0 = Monday .. 6 = Sunday).
type WorkingHours struct {
	ArenaID   int            `db:"arena_id" json:"arena_id"`
	DayOfWeek int            `db:"day_of_week" json:"day_of_week"`
	OpenTime  schedule.Clock `db:"open_time" json:"open_time"`
	CloseTime schedule.Clock `db:"close_time" json:"close_time"`
}

func (w WorkingHours) Interval() schedule.Interval {
	return schedule.Interval{Start: w.OpenTime, End: w.CloseTime}
}

type DayType string

const (
	DayTypeWeekday DayType = "weekday"
	DayTypeWeekend DayType = "weekend"
)

func ParseDayType(s string) (DayType, error) {
	switch DayType(s) {
	case DayTypeWeekday, DayTypeWeekend:
		return DayType(s), nil
	}
	return "", fmt.Errorf("%w: %q", ErrInvalidDayType, s)
}

// Scan rejects values outside the enum.
func (d *DayType) Scan(src any) error {
	var s string
	switch v := src.(type) {
	case string:
		s = v
	case []byte:
		s = string(v)
	default:
		return fmt.Errorf("%w: unsupported type %T", ErrInvalidDayType, src)
	}
	parsed, err := ParseDayType(s)
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}

// DayTypeOf classifies Monday..Friday as weekday and Saturday, Sunday as weekend.
func DayTypeOf(date schedule.Date) DayType {
	if date.Weekday() < 5 {
		return DayTypeWeekday
	}
	return DayTypeWeekend
}

type Price struct {
	ArenaID      int             `db:"arena_id" json:"arena_id"`
	DayType      DayType         `db:"day_type" json:"day_type"`
	PricePerHour decimal.Decimal `db:"price_per_hour" json:"price_per_hour"`
}

// Availability is everything the booking engine needs to know about one
// arena on one date. Hours is nil when the arena is closed; Price is nil
// when no rate is configured for the day type.
type Availability struct {
	Arena   *Arena        `json:"arena"`
	Date    schedule.Date `json:"date"`
	Weekday int           `json:"weekday"`
	DayType DayType       `json:"day_type"`
	Hours   *WorkingHours `json:"working_hours"`
	Price   *Price        `json:"price"`
}

func (a *Availability) Closed() bool { return a.Hours == nil }

type CreateArenaRequest struct {
	Name    string `json:"name" binding:"required,max=200"`
	Address string `json:"address" binding:"max=500"`
	// Admins may create an arena on behalf of an owner.
	OwnerID int `json:"owner_id" binding:"omitempty,gt=0"`
}

type WorkingHoursRequest struct {
	OpenTime  string `json:"open_time" binding:"required"`
	CloseTime string `json:"close_time" binding:"required"`
}

type PriceRequest struct {
	PricePerHour decimal.Decimal `json:"price_per_hour"`
}
