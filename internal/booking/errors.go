package booking

import "errors"

var (
	ErrInvalidInterval     = errors.New("start time must be before end time")
	ErrArenaClosed         = errors.New("arena is closed on this day")
	ErrOutsideWorkingHours = errors.New("booking starts outside working hours")
	ErrSlotConflict        = errors.New("time slot is already booked")
	ErrNoPriceConfigured   = errors.New("no price configured for this day")
	ErrInvalidTransition   = errors.New("invalid status transition")
	ErrBusy                = errors.New("arena schedule is busy, retry later")
	ErrBookingNotFound     = errors.New("booking not found")
	ErrForbidden           = errors.New("booking belongs to another user")
)

// errStaleStatus is returned by UpdateStatus when the row no longer has the
// expected status.
var errStaleStatus = errors.New("booking status changed concurrently")
