package schedule

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

var (
	ErrInvalidWorkingWindow = errors.New("working window start must be before end")
	ErrInvalidWeekday       = errors.New("weekday must be between Sunday and Saturday")
)

// WorkingWindow is a barber's recurring weekly availability: open hours for
// one weekday, expressed as minutes from midnight in the engine's reference
// location.
type WorkingWindow struct {
	BarberID uuid.UUID
	Weekday  time.Weekday
	StartMin int
	EndMin   int
}

func NewWorkingWindow(barberID uuid.UUID, weekday time.Weekday, startMin, endMin int) (WorkingWindow, error) {
	if weekday < time.Sunday || weekday > time.Saturday {
		return WorkingWindow{}, ErrInvalidWeekday
	}
	if startMin < 0 || endMin > 24*60 || startMin >= endMin {
		return WorkingWindow{}, ErrInvalidWorkingWindow
	}
	return WorkingWindow{
		BarberID: barberID,
		Weekday:  weekday,
		StartMin: startMin,
		EndMin:   endMin,
	}, nil
}

// Bounds anchors the recurring window to a concrete calendar date and returns
// the absolute open/close instants for that day.
func (w WorkingWindow) Bounds(date time.Time) (start, end time.Time) {
	midnight := time.Date(date.Year(), date.Month(), date.Day(), 0, 0, 0, 0, date.Location())
	start = midnight.Add(time.Duration(w.StartMin) * time.Minute)
	end = midnight.Add(time.Duration(w.EndMin) * time.Minute)
	return start, end
}

// UnavailabilityWindow is a one-off absolute-time block during which a barber
// cannot be booked, independent of any appointment.
type UnavailabilityWindow struct {
	ID       uuid.UUID
	BarberID uuid.UUID
	Start    time.Time
	End      time.Time
	Reason   *string
}

func NewUnavailabilityWindow(barberID uuid.UUID, start, end time.Time, reason *string) (UnavailabilityWindow, error) {
	if !start.Before(end) {
		return UnavailabilityWindow{}, ErrInvalidInterval
	}
	return UnavailabilityWindow{
		ID:       uuid.New(),
		BarberID: barberID,
		Start:    start,
		End:      end,
		Reason:   reason,
	}, nil
}

func (u UnavailabilityWindow) Interval() Interval {
	return Interval{Start: u.Start, End: u.End}
}
