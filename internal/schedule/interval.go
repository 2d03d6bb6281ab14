package schedule

import (
	"cmp"
	"iter"
	"slices"
	"time"
)

// Interval is the half-open range [Start, End) within one day.
type Interval struct {
	Start Clock `json:"start_time"`
	End   Clock `json:"end_time"`
}

func (iv Interval) Valid() bool { return iv.Start < iv.End }

func (iv Interval) Duration() time.Duration { return iv.End.Sub(iv.Start) }

// Overlaps reports whether a and b share any instant.
func Overlaps(a, b Interval) bool {
	return a.Start < b.End && b.Start < a.End
}

// GenerateSlots tiles hours with back-to-back slots of the given length,
// starting at hours.Start. A trailing partial slot is dropped.
// Each call to the returned sequence starts over.
func GenerateSlots(hours Interval, slot time.Duration) iter.Seq[Interval] {
	return func(yield func(Interval) bool) {
		if slot < time.Second || !hours.Valid() {
			return
		}
		cur := hours.Start
		for {
			end, ok := cur.Add(slot)
			if !ok || end > hours.End {
				return
			}
			if !yield(Interval{Start: cur, End: end}) {
				return
			}
			cur = end
		}
	}
}

// FreeIntervals returns the maximal gaps of hours not covered by booked.
// booked need not be sorted; the caller's slice is not modified.
func FreeIntervals(hours Interval, booked []Interval) []Interval {
	if !hours.Valid() {
		return nil
	}

	sorted := slices.Clone(booked)
	slices.SortStableFunc(sorted, func(a, b Interval) int {
		if c := cmp.Compare(a.Start, b.Start); c != 0 {
			return c
		}
		return cmp.Compare(a.End, b.End)
	})

	free := make([]Interval, 0, len(sorted)+1)
	cursor := hours.Start
	for _, b := range sorted {
		if cursor >= hours.End {
			break
		}
		if cursor < b.Start {
			free = append(free, Interval{Start: cursor, End: min(b.Start, hours.End)})
		}
		cursor = max(cursor, b.End)
	}
	if cursor < hours.End {
		free = append(free, Interval{Start: cursor, End: hours.End})
	}

	return free
}
