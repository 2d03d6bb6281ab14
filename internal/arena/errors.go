package arena

import "errors"

var (
	ErrArenaNotFound        = errors.New("arena not found")
	ErrInvalidDayOfWeek     = errors.New("day of week must be between 0 (Monday) and 6 (Sunday)")
	ErrInvalidDayType       = errors.New("day type must be weekday or weekend")
	ErrInvalidWorkingHours  = errors.New("open time must be before close time")
	ErrNegativePrice        = errors.New("price per hour must not be negative")
	ErrWorkingHoursNotFound = errors.New("no working hours for this day")
	ErrNotArenaOwner        = errors.New("only the arena owner or an admin may change it")
)
