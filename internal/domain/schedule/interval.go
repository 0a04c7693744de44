package schedule

import (
	"errors"
	"sort"
	"time"
)

var ErrInvalidInterval = errors.New("interval start must be before end")

// Interval is a half-open time range [Start, End). Both committed
// appointments and unavailability windows reduce to this type before
// overlap checks, so the calculator and the committer agree on what
// "busy" means.
type Interval struct {
	Start time.Time
	End   time.Time
}

func NewInterval(start, end time.Time) (Interval, error) {
	if !start.Before(end) {
		return Interval{}, ErrInvalidInterval
	}
	return Interval{Start: start, End: end}, nil
}

// Overlaps reports whether the two half-open intervals share any instant.
// [a,b) and [b,c) do not overlap.
func (i Interval) Overlaps(o Interval) bool {
	return i.Start.Before(o.End) && o.Start.Before(i.End)
}

func (i Interval) Duration() time.Duration {
	return i.End.Sub(i.Start)
}

// Merge collapses the given intervals into a minimal sorted disjoint set.
// Adjacent intervals (next.Start == current.End) are merged as well; the
// slot walk only cares about the union of busy time. The input slice is
// not modified.
func Merge(intervals []Interval) []Interval {
	if len(intervals) == 0 {
		return nil
	}

	sorted := make([]Interval, len(intervals))
	copy(sorted, intervals)
	sort.Slice(sorted, func(a, b int) bool {
		return sorted[a].Start.Before(sorted[b].Start)
	})

	merged := make([]Interval, 0, len(sorted))
	current := sorted[0]
	for _, next := range sorted[1:] {
		if !next.Start.After(current.End) {
			if next.End.After(current.End) {
				current.End = next.End
			}
			continue
		}
		merged = append(merged, current)
		current = next
	}
	return append(merged, current)
}

func overlapsAny(start, end time.Time, busy []Interval) bool {
	candidate := Interval{Start: start, End: end}
	for _, b := range busy {
		if candidate.Overlaps(b) {
			return true
		}
	}
	return false
}
