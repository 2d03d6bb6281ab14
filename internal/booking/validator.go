package booking

import (
	"fmt"

	"arenabook/internal/arena"
	"arenabook/internal/schedule"
)

// Validate checks candidate against the arena's hours for its date and the
// other bookings of the same arena and date. Checks run in a fixed order and
// the first failure wins. Only the start is bound-checked against the hours.
func Validate(candidate Booking, hours *arena.WorkingHours, others []Booking) error {
	iv := candidate.Interval()
	if !iv.Valid() {
		return ErrInvalidInterval
	}
	if hours == nil {
		return ErrArenaClosed
	}
	if iv.Start < hours.OpenTime || iv.Start >= hours.CloseTime {
		return fmt.Errorf("%w: %s-%s", ErrOutsideWorkingHours, hours.OpenTime, hours.CloseTime)
	}
	if clash := firstConflict(candidate, others); clash != nil {
		return fmt.Errorf("%w: overlaps %s-%s", ErrSlotConflict, clash.StartTime, clash.EndTime)
	}
	return nil
}

// firstConflict returns the first active booking other than candidate itself
// whose interval overlaps candidate's.
func firstConflict(candidate Booking, others []Booking) *Booking {
	iv := candidate.Interval()
	for i := range others {
		o := &others[i]
		if candidate.ID != 0 && o.ID == candidate.ID {
			continue
		}
		if !o.Status.Active() {
			continue
		}
		if schedule.Overlaps(iv, o.Interval()) {
			return o
		}
	}
	return nil
}
