package queries_test

import (
	"context"
	"testing"
	"time"

	"barberbook/internal/domain/schedule"
	"barberbook/internal/pkg/clock"
	"barberbook/internal/pkg/errs"
	"barberbook/internal/usecase/queries"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeCatalog struct {
	services map[uuid.UUID]queries.ServiceView
	addons   map[uuid.UUID]queries.AddonView
	barbers  map[uuid.UUID]queries.BarberView
}

func (f *fakeCatalog) ServiceByID(_ context.Context, id uuid.UUID) (*queries.ServiceView, error) {
	if svc, ok := f.services[id]; ok {
		return &svc, nil
	}
	return nil, errs.ErrServiceNotFound
}

func (f *fakeCatalog) AddonsByIDs(_ context.Context, ids []uuid.UUID) ([]queries.AddonView, error) {
	var found []queries.AddonView
	for _, id := range ids {
		if a, ok := f.addons[id]; ok {
			found = append(found, a)
		}
	}
	return found, nil
}

func (f *fakeCatalog) BarberByID(_ context.Context, id uuid.UUID) (*queries.BarberView, error) {
	if b, ok := f.barbers[id]; ok {
		return &b, nil
	}
	return nil, errs.ErrBarberNotFound
}

type fakeSchedule struct {
	window *schedule.WorkingWindow
	appts  []schedule.Interval
	blocks []schedule.UnavailabilityWindow
}

func (f *fakeSchedule) WorkingWindowFor(_ context.Context, _ uuid.UUID, _ time.Weekday) (*schedule.WorkingWindow, error) {
	return f.window, nil
}

func (f *fakeSchedule) ActiveIntervalsForDay(_ context.Context, _ uuid.UUID, _, _ time.Time) ([]schedule.Interval, error) {
	return f.appts, nil
}

func (f *fakeSchedule) UnavailabilityOverlapping(_ context.Context, _ uuid.UUID, _, _ time.Time) ([]schedule.UnavailabilityWindow, error) {
	return f.blocks, nil
}

type availabilityFixture struct {
	barberID  uuid.UUID
	serviceID uuid.UUID
	addonID   uuid.UUID
	catalog   *fakeCatalog
	schedule  *fakeSchedule
	clock     *clock.MockClock
	queries   queries.AvailabilityQueries
}

// monday is the date under test; the clock starts well before it.
var monday = time.Date(2026, 9, 7, 0, 0, 0, 0, time.UTC)

func at(hour, minute int) time.Time {
	return monday.Add(time.Duration(hour)*time.Hour + time.Duration(minute)*time.Minute)
}

func newAvailabilityFixture(t *testing.T) *availabilityFixture {
	t.Helper()

	f := &availabilityFixture{
		barberID:  uuid.New(),
		serviceID: uuid.New(),
		addonID:   uuid.New(),
		clock:     clock.NewMockClock(monday.AddDate(0, 0, -7)),
	}
	f.catalog = &fakeCatalog{
		services: map[uuid.UUID]queries.ServiceView{
			f.serviceID: {ID: f.serviceID, Name: "Fade Cut", DurationMin: 30, PriceCents: 3000},
		},
		addons: map[uuid.UUID]queries.AddonView{
			f.addonID: {ID: f.addonID, Name: "Beard Trim", DurationMin: 15, PriceCents: 1000},
		},
		barbers: map[uuid.UUID]queries.BarberView{
			f.barberID: {ID: f.barberID, Name: "Sam"},
		},
	}

	window, err := schedule.NewWorkingWindow(f.barberID, time.Monday, 9*60, 18*60)
	require.NoError(t, err)
	f.schedule = &fakeSchedule{window: &window}

	f.queries = queries.NewAvailabilityQueries(f.catalog, f.schedule, f.clock, time.UTC)
	return f
}

func (f *availabilityFixture) params() queries.AvailableSlotsParams {
	return queries.AvailableSlotsParams{
		BarberID:        f.barberID,
		ServiceID:       f.serviceID,
		Date:            monday,
		SlotIntervalMin: 15,
	}
}

func TestAvailableSlots(t *testing.T) {
	t.Run("rejects interval that does not divide 60", func(t *testing.T) {
		f := newAvailabilityFixture(t)
		p := f.params()
		p.SlotIntervalMin = 7

		_, err := f.queries.AvailableSlots(context.Background(), p)
		assert.ErrorIs(t, err, errs.ErrInvalidSlotInterval)
	})

	t.Run("unknown barber", func(t *testing.T) {
		f := newAvailabilityFixture(t)
		p := f.params()
		p.BarberID = uuid.New()

		_, err := f.queries.AvailableSlots(context.Background(), p)
		assert.ErrorIs(t, err, errs.ErrBarberNotFound)
	})

	t.Run("unknown service", func(t *testing.T) {
		f := newAvailabilityFixture(t)
		p := f.params()
		p.ServiceID = uuid.New()

		_, err := f.queries.AvailableSlots(context.Background(), p)
		assert.ErrorIs(t, err, errs.ErrServiceNotFound)
	})

	t.Run("unknown addon", func(t *testing.T) {
		f := newAvailabilityFixture(t)
		p := f.params()
		p.AddonIDs = []uuid.UUID{f.addonID, uuid.New()}

		_, err := f.queries.AvailableSlots(context.Background(), p)
		assert.ErrorIs(t, err, errs.ErrUnknownAddons)
	})

	t.Run("no working window yields empty result", func(t *testing.T) {
		f := newAvailabilityFixture(t)
		f.schedule.window = nil

		slots, err := f.queries.AvailableSlots(context.Background(), f.params())
		require.NoError(t, err)
		assert.NotNil(t, slots)
		assert.Empty(t, slots)
	})

	t.Run("open day offers the whole window", func(t *testing.T) {
		f := newAvailabilityFixture(t)

		slots, err := f.queries.AvailableSlots(context.Background(), f.params())
		require.NoError(t, err)
		require.NotEmpty(t, slots)
		assert.Equal(t, at(9, 0), slots[0])
		assert.Equal(t, at(17, 30), slots[len(slots)-1])
	})

	t.Run("booked slot and its straddling candidates disappear", func(t *testing.T) {
		f := newAvailabilityFixture(t)
		f.schedule.appts = []schedule.Interval{{Start: at(10, 0), End: at(10, 30)}}

		slots, err := f.queries.AvailableSlots(context.Background(), f.params())
		require.NoError(t, err)
		assert.NotContains(t, slots, at(9, 45))
		assert.NotContains(t, slots, at(10, 0))
		assert.NotContains(t, slots, at(10, 15))
		assert.Contains(t, slots, at(9, 30))
		assert.Contains(t, slots, at(10, 30))
	})

	t.Run("unavailability blocks count as busy", func(t *testing.T) {
		f := newAvailabilityFixture(t)
		block, err := schedule.NewUnavailabilityWindow(f.barberID, at(12, 0), at(13, 0), nil)
		require.NoError(t, err)
		f.schedule.blocks = []schedule.UnavailabilityWindow{block}

		slots, err := f.queries.AvailableSlots(context.Background(), f.params())
		require.NoError(t, err)
		assert.NotContains(t, slots, at(12, 0))
		assert.NotContains(t, slots, at(12, 45))
		assert.Contains(t, slots, at(13, 0))
	})

	t.Run("addons lengthen the booking and shrink the tail", func(t *testing.T) {
		f := newAvailabilityFixture(t)
		p := f.params()
		p.AddonIDs = []uuid.UUID{f.addonID}

		slots, err := f.queries.AvailableSlots(context.Background(), p)
		require.NoError(t, err)
		require.NotEmpty(t, slots)
		// 45 minutes total, so the last start that still fits is 17:15.
		assert.Equal(t, at(17, 15), slots[len(slots)-1])
	})

	t.Run("same-day lookup hides past slots", func(t *testing.T) {
		f := newAvailabilityFixture(t)
		f.clock.Set(at(16, 50))

		slots, err := f.queries.AvailableSlots(context.Background(), f.params())
		require.NoError(t, err)
		assert.Equal(t, []time.Time{at(17, 0), at(17, 15), at(17, 30)}, slots)
	})

	t.Run("past day yields empty result", func(t *testing.T) {
		f := newAvailabilityFixture(t)
		f.clock.Set(monday.AddDate(0, 0, 3))

		slots, err := f.queries.AvailableSlots(context.Background(), f.params())
		require.NoError(t, err)
		assert.Empty(t, slots)
	})
}
