package queries

import (
	"context"
	"time"

	"barberbook/internal/domain/schedule"
	"barberbook/internal/pkg/clock"
	"barberbook/internal/pkg/errs"

	"github.com/google/uuid"
)

type AvailableSlotsParams struct {
	BarberID        uuid.UUID
	ServiceID       uuid.UUID
	AddonIDs        []uuid.UUID
	Date            time.Time
	SlotIntervalMin int
}

type AvailabilityQueries interface {
	AvailableSlots(ctx context.Context, p AvailableSlotsParams) ([]time.Time, error)
}

type availabilityQueriesImpl struct {
	catalog  CatalogReadStore
	schedule ScheduleReadStore
	clock    clock.Clock
	loc      *time.Location
}

func NewAvailabilityQueries(
	catalog CatalogReadStore,
	scheduleStore ScheduleReadStore,
	clk clock.Clock,
	loc *time.Location,
) AvailabilityQueries {
	return &availabilityQueriesImpl{
		catalog:  catalog,
		schedule: scheduleStore,
		clock:    clk,
		loc:      loc,
	}
}

// AvailableSlots computes the bookable start times for one barber on one day,
// for a booking whose length is the service duration plus all addon durations.
//
// The result reflects committed state at read time only. A slot returned here
// can still be lost to a concurrent booking; the commit path re-verifies under
// a lock and is the sole authority on conflicts.
func (q *availabilityQueriesImpl) AvailableSlots(ctx context.Context, p AvailableSlotsParams) ([]time.Time, error) {
	if !schedule.ValidSlotInterval(p.SlotIntervalMin) {
		return nil, errs.ErrInvalidSlotInterval
	}

	if _, err := q.catalog.BarberByID(ctx, p.BarberID); err != nil {
		return nil, err
	}

	durationMin, err := q.totalDurationMin(ctx, p.ServiceID, p.AddonIDs)
	if err != nil {
		return nil, err
	}

	date := time.Date(p.Date.Year(), p.Date.Month(), p.Date.Day(), 0, 0, 0, 0, q.loc)
	window, err := q.schedule.WorkingWindowFor(ctx, p.BarberID, date.Weekday())
	if err != nil {
		return nil, err
	}
	if window == nil {
		return []time.Time{}, nil
	}

	dayStart := date
	dayEnd := date.Add(24 * time.Hour)

	appts, err := q.schedule.ActiveIntervalsForDay(ctx, p.BarberID, dayStart, dayEnd)
	if err != nil {
		return nil, err
	}
	blocks, err := q.schedule.UnavailabilityOverlapping(ctx, p.BarberID, dayStart, dayEnd)
	if err != nil {
		return nil, err
	}
	busy := appts
	for _, b := range blocks {
		busy = append(busy, b.Interval())
	}
	busy = schedule.Merge(busy)

	windowStart, windowEnd := window.Bounds(date)
	slots := schedule.Slots(
		windowStart, windowEnd,
		time.Duration(durationMin)*time.Minute,
		time.Duration(p.SlotIntervalMin)*time.Minute,
		busy,
		q.clock.Now().In(q.loc),
	)
	if slots == nil {
		return []time.Time{}, nil
	}
	return slots, nil
}

func (q *availabilityQueriesImpl) totalDurationMin(ctx context.Context, serviceID uuid.UUID, addonIDs []uuid.UUID) (int, error) {
	svc, err := q.catalog.ServiceByID(ctx, serviceID)
	if err != nil {
		return 0, err
	}
	total := svc.DurationMin

	if len(addonIDs) > 0 {
		addons, err := q.catalog.AddonsByIDs(ctx, addonIDs)
		if err != nil {
			return 0, err
		}
		if len(addons) != len(addonIDs) {
			return 0, errs.ErrUnknownAddons
		}
		for _, a := range addons {
			total += a.DurationMin
		}
	}
	if total <= 0 {
		return 0, errs.ErrInvalidDuration
	}
	return total, nil
}
