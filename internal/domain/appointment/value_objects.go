package appointment

import (
	"errors"
	"time"

	"barberbook/internal/domain/schedule"
)

var ErrInvalidTimeSlot = errors.New("slot start must be before end")

// TimeSlot is the half-open occupancy [start, end) of one appointment.
type TimeSlot struct {
	start time.Time
	end   time.Time
}

func NewTimeSlot(start, end time.Time) (TimeSlot, error) {
	if !start.Before(end) {
		return TimeSlot{}, ErrInvalidTimeSlot
	}
	return TimeSlot{start: start, end: end}, nil
}

// SlotFromDuration derives the slot from a requested start and a total
// service duration in minutes. Durations are always computed server-side
// from the service and addon catalog, never taken from the caller.
func SlotFromDuration(start time.Time, durationMin int) (TimeSlot, error) {
	if durationMin <= 0 {
		return TimeSlot{}, ErrInvalidTimeSlot
	}
	return NewTimeSlot(start, start.Add(time.Duration(durationMin)*time.Minute))
}

func (ts TimeSlot) Start() time.Time {
	return ts.start
}

func (ts TimeSlot) End() time.Time {
	return ts.end
}

func (ts TimeSlot) Duration() time.Duration {
	return ts.end.Sub(ts.start)
}

func (ts TimeSlot) Interval() schedule.Interval {
	return schedule.Interval{Start: ts.start, End: ts.end}
}
