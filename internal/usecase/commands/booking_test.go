package commands_test

import (
	"context"
	"io"
	"log/slog"
	"sync"
	"testing"
	"time"

	"barberbook/internal/domain/appointment"
	"barberbook/internal/infra"
	"barberbook/internal/pkg/clock"
	"barberbook/internal/pkg/errs"
	"barberbook/internal/usecase/commands"
	"barberbook/internal/usecase/queries"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testLogger = slog.New(slog.NewTextHandler(io.Discard, nil))

// memoryStore mimics the appointments table for command tests. The fake
// unit of work serializes transactions with a single mutex, matching the
// serialization the real path gets from FOR UPDATE row locks.
type memoryStore struct {
	mu    sync.RWMutex
	appts map[uuid.UUID]*appointment.Appointment
}

func (s *memoryStore) get(id uuid.UUID) (*appointment.Appointment, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	appt, ok := s.appts[id]
	return appt, ok
}

func (s *memoryStore) put(appt *appointment.Appointment) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.appts[appt.ID()] = appt
}

func (s *memoryStore) size() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.appts)
}

type memoryRepo struct {
	store *memoryStore
}

func (r *memoryRepo) LockActiveByBarber(context.Context, uuid.UUID) error {
	return nil
}

func (r *memoryRepo) CountOverlapping(_ context.Context, barberID uuid.UUID, start, end time.Time) (int64, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()
	var n int64
	for _, a := range r.store.appts {
		if a.BarberID() != barberID || !a.Status().IsActive() {
			continue
		}
		if a.Slot().Start().Before(end) && a.Slot().End().After(start) {
			n++
		}
	}
	return n, nil
}

func (r *memoryRepo) Create(_ context.Context, appt *appointment.Appointment) error {
	r.store.put(appt)
	return nil
}

func (r *memoryRepo) FindForUpdate(_ context.Context, id uuid.UUID) (*appointment.Appointment, error) {
	appt, ok := r.store.get(id)
	if !ok {
		return nil, infra.WrapRepoErr(testLogger, infra.KindNotFound, "appointment not found", nil)
	}
	return appt, nil
}

func (r *memoryRepo) UpdateStatus(_ context.Context, id uuid.UUID, status appointment.Status) error {
	appt, ok := r.store.get(id)
	if !ok {
		return infra.WrapRepoErr(testLogger, infra.KindNotFound, "appointment not found", nil)
	}
	updated, _ := appointment.ReconstructAppointment(
		appt.ID(), appt.BarberID(), appt.UserID(), appt.ServiceID(), appt.AddonIDs(),
		appt.Slot(), status, appt.TotalDurationMin(), appt.TotalPriceCents(), appt.CreatedAt(),
	)
	r.store.put(updated)
	return nil
}

type memoryTx struct {
	store *memoryStore
}

func (t *memoryTx) Appointments() commands.AppointmentRepository {
	return &memoryRepo{store: t.store}
}

type memoryUoW struct {
	mu    sync.Mutex
	store *memoryStore
}

func (u *memoryUoW) Within(ctx context.Context, fn func(ctx context.Context, tx commands.Tx) error) error {
	u.mu.Lock()
	defer u.mu.Unlock()
	return fn(ctx, &memoryTx{store: u.store})
}

type memoryCatalog struct {
	services map[uuid.UUID]commands.ServiceSnapshot
	addons   map[uuid.UUID]commands.AddonSnapshot
	barbers  map[uuid.UUID]commands.BarberSnapshot
}

func (c *memoryCatalog) ServiceByID(_ context.Context, id uuid.UUID) (*commands.ServiceSnapshot, error) {
	if s, ok := c.services[id]; ok {
		return &s, nil
	}
	return nil, errs.ErrServiceNotFound
}

func (c *memoryCatalog) AddonsByIDs(_ context.Context, ids []uuid.UUID) ([]commands.AddonSnapshot, error) {
	var found []commands.AddonSnapshot
	for _, id := range ids {
		if a, ok := c.addons[id]; ok {
			found = append(found, a)
		}
	}
	return found, nil
}

func (c *memoryCatalog) BarberByID(_ context.Context, id uuid.UUID) (*commands.BarberSnapshot, error) {
	if b, ok := c.barbers[id]; ok {
		return &b, nil
	}
	return nil, errs.ErrBarberNotFound
}

// memoryViews hydrates views straight from the store; catalog names are
// irrelevant to the command logic under test.
type memoryViews struct {
	store   *memoryStore
	catalog *memoryCatalog
}

func (v *memoryViews) GetByID(_ context.Context, id uuid.UUID) (*queries.AppointmentView, error) {
	appt, ok := v.store.get(id)
	if !ok {
		return nil, errs.ErrAppointmentNotFound
	}
	view := &queries.AppointmentView{
		ID:               appt.ID(),
		UserID:           appt.UserID(),
		UserEmail:        "customer@example.com",
		BarberID:         appt.BarberID(),
		BarberName:       v.catalog.barbers[appt.BarberID()].Name,
		ServiceID:        appt.ServiceID(),
		ServiceName:      v.catalog.services[appt.ServiceID()].Name,
		ScheduledStart:   appt.Slot().Start(),
		ScheduledEnd:     appt.Slot().End(),
		Status:           appt.Status(),
		TotalDurationMin: appt.TotalDurationMin(),
		TotalPriceCents:  appt.TotalPriceCents(),
	}
	for _, addonID := range appt.AddonIDs() {
		a := v.catalog.addons[addonID]
		view.Addons = append(view.Addons, queries.AddonView{
			ID: a.ID, Name: a.Name, DurationMin: a.DurationMin, PriceCents: a.PriceCents,
		})
	}
	return view, nil
}

func (v *memoryViews) ListByUser(context.Context, uuid.UUID) (*queries.UserAppointments, error) {
	return &queries.UserAppointments{}, nil
}

func (v *memoryViews) ListByBarberForDay(context.Context, uuid.UUID, time.Time) ([]queries.AppointmentView, error) {
	return nil, nil
}

type enqueuedJob struct {
	kind  string
	runAt time.Time
}

type memoryEnqueuer struct {
	mu   sync.Mutex
	jobs []enqueuedJob
}

func (e *memoryEnqueuer) Enqueue(_ context.Context, kind, _ string, _ []byte, runAt time.Time) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.jobs = append(e.jobs, enqueuedJob{kind: kind, runAt: runAt})
	return nil
}

type bookingFixture struct {
	barberID  uuid.UUID
	userID    uuid.UUID
	serviceID uuid.UUID
	addonID   uuid.UUID
	store     *memoryStore
	catalog   *memoryCatalog
	enqueuer  *memoryEnqueuer
	clock     *clock.MockClock
	booking   commands.BookingCommands
}

var bookingDay = time.Date(2026, 9, 7, 0, 0, 0, 0, time.UTC)

func slotAt(hour, minute int) time.Time {
	return bookingDay.Add(time.Duration(hour)*time.Hour + time.Duration(minute)*time.Minute)
}

func newBookingFixture(t *testing.T) *bookingFixture {
	t.Helper()

	f := &bookingFixture{
		barberID:  uuid.New(),
		userID:    uuid.New(),
		serviceID: uuid.New(),
		addonID:   uuid.New(),
		store:     &memoryStore{appts: map[uuid.UUID]*appointment.Appointment{}},
		enqueuer:  &memoryEnqueuer{},
		clock:     clock.NewMockClock(bookingDay.Add(-24 * time.Hour)),
	}
	f.catalog = &memoryCatalog{
		services: map[uuid.UUID]commands.ServiceSnapshot{
			f.serviceID: {ID: f.serviceID, Name: "Fade Cut", DurationMin: 30, PriceCents: 3000},
		},
		addons: map[uuid.UUID]commands.AddonSnapshot{
			f.addonID: {ID: f.addonID, Name: "Beard Trim", DurationMin: 15, PriceCents: 1000},
		},
		barbers: map[uuid.UUID]commands.BarberSnapshot{
			f.barberID: {ID: f.barberID, Name: "Sam"},
		},
	}
	views := &memoryViews{store: f.store, catalog: f.catalog}
	f.booking = commands.NewBookingCommands(
		&memoryUoW{store: f.store}, f.catalog, views, f.enqueuer, f.clock, 10*time.Minute,
	)
	return f
}

func (f *bookingFixture) createParams() commands.CreateAppointmentParams {
	return commands.CreateAppointmentParams{
		UserID:    f.userID,
		BarberID:  f.barberID,
		ServiceID: f.serviceID,
		StartTime: slotAt(10, 0),
	}
}

func TestCreateAppointment(t *testing.T) {
	t.Run("derives totals server-side and books the slot", func(t *testing.T) {
		f := newBookingFixture(t)
		p := f.createParams()
		p.AddonIDs = []uuid.UUID{f.addonID}

		view, err := f.booking.CreateAppointment(context.Background(), p)
		require.NoError(t, err)

		assert.Equal(t, 45, view.TotalDurationMin)
		assert.Equal(t, int64(4000), view.TotalPriceCents)
		assert.Equal(t, slotAt(10, 0), view.ScheduledStart)
		assert.Equal(t, slotAt(10, 45), view.ScheduledEnd)
		assert.Equal(t, appointment.StatusUpcoming, view.Status)
		assert.Equal(t, "Fade Cut + Beard Trim", view.FullServiceTitle())
	})

	t.Run("enqueues confirmation and reminder", func(t *testing.T) {
		f := newBookingFixture(t)

		_, err := f.booking.CreateAppointment(context.Background(), f.createParams())
		require.NoError(t, err)

		require.Len(t, f.enqueuer.jobs, 2)
		assert.Equal(t, commands.NotificationConfirmation, f.enqueuer.jobs[0].kind)
		assert.Equal(t, commands.NotificationReminder, f.enqueuer.jobs[1].kind)
		assert.Equal(t, slotAt(9, 50), f.enqueuer.jobs[1].runAt)
	})

	t.Run("reminder is skipped for imminent bookings", func(t *testing.T) {
		f := newBookingFixture(t)
		f.clock.Set(slotAt(9, 55))

		_, err := f.booking.CreateAppointment(context.Background(), f.createParams())
		require.NoError(t, err)

		require.Len(t, f.enqueuer.jobs, 1)
		assert.Equal(t, commands.NotificationConfirmation, f.enqueuer.jobs[0].kind)
	})

	t.Run("unknown service", func(t *testing.T) {
		f := newBookingFixture(t)
		p := f.createParams()
		p.ServiceID = uuid.New()

		_, err := f.booking.CreateAppointment(context.Background(), p)
		assert.ErrorIs(t, err, errs.ErrServiceNotFound)
		assert.Empty(t, f.store.appts)
	})

	t.Run("unknown addon", func(t *testing.T) {
		f := newBookingFixture(t)
		p := f.createParams()
		p.AddonIDs = []uuid.UUID{uuid.New()}

		_, err := f.booking.CreateAppointment(context.Background(), p)
		assert.ErrorIs(t, err, errs.ErrUnknownAddons)
	})

	t.Run("overlapping booking conflicts", func(t *testing.T) {
		f := newBookingFixture(t)
		_, err := f.booking.CreateAppointment(context.Background(), f.createParams())
		require.NoError(t, err)

		p := f.createParams()
		p.StartTime = slotAt(10, 15)
		_, err = f.booking.CreateAppointment(context.Background(), p)
		assert.ErrorIs(t, err, errs.ErrSlotTaken)
		assert.Len(t, f.store.appts, 1)
	})

	t.Run("back-to-back bookings do not conflict", func(t *testing.T) {
		f := newBookingFixture(t)
		_, err := f.booking.CreateAppointment(context.Background(), f.createParams())
		require.NoError(t, err)

		p := f.createParams()
		p.StartTime = slotAt(10, 30)
		_, err = f.booking.CreateAppointment(context.Background(), p)
		require.NoError(t, err)
		assert.Len(t, f.store.appts, 2)
	})

	t.Run("conflict wins over unknown barber", func(t *testing.T) {
		f := newBookingFixture(t)
		_, err := f.booking.CreateAppointment(context.Background(), f.createParams())
		require.NoError(t, err)

		// Same barber id but removed from the catalog afterwards: the
		// occupied slot must still be reported as a conflict.
		delete(f.catalog.barbers, f.barberID)
		_, err = f.booking.CreateAppointment(context.Background(), f.createParams())
		assert.ErrorIs(t, err, errs.ErrSlotTaken)
	})

	t.Run("unknown barber with a free slot", func(t *testing.T) {
		f := newBookingFixture(t)
		p := f.createParams()
		p.BarberID = uuid.New()

		_, err := f.booking.CreateAppointment(context.Background(), p)
		assert.ErrorIs(t, err, errs.ErrBarberNotFound)
	})

	t.Run("cancelled appointment frees its slot", func(t *testing.T) {
		f := newBookingFixture(t)
		view, err := f.booking.CreateAppointment(context.Background(), f.createParams())
		require.NoError(t, err)

		require.NoError(t, f.booking.CancelAppointment(context.Background(), view.ID, f.userID))

		_, err = f.booking.CreateAppointment(context.Background(), f.createParams())
		require.NoError(t, err)
	})

	t.Run("exactly one of many concurrent identical bookings wins", func(t *testing.T) {
		f := newBookingFixture(t)
		const attempts = 16

		var wg sync.WaitGroup
		errsCh := make(chan error, attempts)
		for i := 0; i < attempts; i++ {
			wg.Add(1)
			go func() {
				defer wg.Done()
				_, err := f.booking.CreateAppointment(context.Background(), f.createParams())
				errsCh <- err
			}()
		}
		wg.Wait()
		close(errsCh)

		var wins, conflicts int
		for err := range errsCh {
			switch {
			case err == nil:
				wins++
			case assert.ErrorIs(t, err, errs.ErrSlotTaken):
				conflicts++
			}
		}
		assert.Equal(t, 1, wins)
		assert.Equal(t, attempts-1, conflicts)
		assert.Len(t, f.store.appts, 1)
	})
}

func TestCancelAppointment(t *testing.T) {
	t.Run("owner cancels an upcoming appointment", func(t *testing.T) {
		f := newBookingFixture(t)
		view, err := f.booking.CreateAppointment(context.Background(), f.createParams())
		require.NoError(t, err)

		require.NoError(t, f.booking.CancelAppointment(context.Background(), view.ID, f.userID))
		assert.Equal(t, appointment.StatusCancelled, f.store.appts[view.ID].Status())
	})

	t.Run("non-owner is rejected", func(t *testing.T) {
		f := newBookingFixture(t)
		view, err := f.booking.CreateAppointment(context.Background(), f.createParams())
		require.NoError(t, err)

		err = f.booking.CancelAppointment(context.Background(), view.ID, uuid.New())
		assert.ErrorIs(t, err, errs.ErrNotAppointmentOwner)
		assert.Equal(t, appointment.StatusUpcoming, f.store.appts[view.ID].Status())
	})

	t.Run("cancelling twice is an invalid transition", func(t *testing.T) {
		f := newBookingFixture(t)
		view, err := f.booking.CreateAppointment(context.Background(), f.createParams())
		require.NoError(t, err)

		require.NoError(t, f.booking.CancelAppointment(context.Background(), view.ID, f.userID))
		err = f.booking.CancelAppointment(context.Background(), view.ID, f.userID)
		assert.ErrorIs(t, err, errs.ErrInvalidStateTransition)
	})

	t.Run("missing appointment", func(t *testing.T) {
		f := newBookingFixture(t)
		err := f.booking.CancelAppointment(context.Background(), uuid.New(), f.userID)
		assert.ErrorIs(t, err, errs.ErrAppointmentNotFound)
	})
}

func TestCompleteAppointment(t *testing.T) {
	t.Run("marks an upcoming appointment completed", func(t *testing.T) {
		f := newBookingFixture(t)
		view, err := f.booking.CreateAppointment(context.Background(), f.createParams())
		require.NoError(t, err)

		require.NoError(t, f.booking.CompleteAppointment(context.Background(), view.ID))
		assert.Equal(t, appointment.StatusCompleted, f.store.appts[view.ID].Status())
	})

	t.Run("cancelled appointment cannot be completed", func(t *testing.T) {
		f := newBookingFixture(t)
		view, err := f.booking.CreateAppointment(context.Background(), f.createParams())
		require.NoError(t, err)

		require.NoError(t, f.booking.CancelAppointment(context.Background(), view.ID, f.userID))
		err = f.booking.CompleteAppointment(context.Background(), view.ID)
		assert.ErrorIs(t, err, errs.ErrInvalidStateTransition)
	})

	t.Run("missing appointment", func(t *testing.T) {
		f := newBookingFixture(t)
		err := f.booking.CompleteAppointment(context.Background(), uuid.New())
		assert.ErrorIs(t, err, errs.ErrAppointmentNotFound)
	})
}
