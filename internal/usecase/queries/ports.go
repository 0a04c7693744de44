package queries

import (
	"context"
	"time"

	"barberbook/internal/domain/schedule"

	"github.com/google/uuid"
)

type ServiceView struct {
	ID          uuid.UUID
	Name        string
	DurationMin int
	PriceCents  int64
}

type AddonView struct {
	ID          uuid.UUID
	Name        string
	DurationMin int
	PriceCents  int64
}

type BarberView struct {
	ID   uuid.UUID
	Name string
}

// CatalogReadStore serves the immutable catalog the booking flow references.
type CatalogReadStore interface {
	ServiceByID(ctx context.Context, id uuid.UUID) (*ServiceView, error)
	AddonsByIDs(ctx context.Context, ids []uuid.UUID) ([]AddonView, error)
	BarberByID(ctx context.Context, id uuid.UUID) (*BarberView, error)
}

// ScheduleReadStore serves everything the slot calculator treats as busy or
// open time for one barber and one day.
type ScheduleReadStore interface {
	// WorkingWindowFor returns the barber's recurring window for the given
	// weekday, or nil when the barber does not work that day.
	WorkingWindowFor(ctx context.Context, barberID uuid.UUID, weekday time.Weekday) (*schedule.WorkingWindow, error)

	// ActiveIntervalsForDay returns the occupancy of all non-cancelled
	// appointments starting within [dayStart, dayEnd).
	ActiveIntervalsForDay(ctx context.Context, barberID uuid.UUID, dayStart, dayEnd time.Time) ([]schedule.Interval, error)

	// UnavailabilityOverlapping returns every manual block that shares any
	// instant with [dayStart, dayEnd).
	UnavailabilityOverlapping(ctx context.Context, barberID uuid.UUID, dayStart, dayEnd time.Time) ([]schedule.UnavailabilityWindow, error)
}

// AppointmentReadStore hydrates appointments with their catalog names for
// presentation.
type AppointmentReadStore interface {
	FindByID(ctx context.Context, id uuid.UUID) (*AppointmentView, error)
	ListByUser(ctx context.Context, userID uuid.UUID) ([]AppointmentView, error)
	ListByBarberForDay(ctx context.Context, barberID uuid.UUID, dayStart, dayEnd time.Time) ([]AppointmentView, error)
}
