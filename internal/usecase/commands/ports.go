package commands

import (
	"context"
	"time"

	"barberbook/internal/domain/appointment"

	"github.com/google/uuid"
)

// Write-side snapshots prevent dependency on read-side query types (CQRS separation)
type ServiceSnapshot struct {
	ID          uuid.UUID
	Name        string
	DurationMin int
	PriceCents  int64
}

type AddonSnapshot struct {
	ID          uuid.UUID
	Name        string
	DurationMin int
	PriceCents  int64
}

type BarberSnapshot struct {
	ID   uuid.UUID
	Name string
}

// CatalogReads resolves the read-only entities a booking references. The
// engine never mutates them.
type CatalogReads interface {
	ServiceByID(ctx context.Context, id uuid.UUID) (*ServiceSnapshot, error)
	AddonsByIDs(ctx context.Context, ids []uuid.UUID) ([]AddonSnapshot, error)
	BarberByID(ctx context.Context, id uuid.UUID) (*BarberSnapshot, error)
}

// UnitOfWork runs fn inside a single storage transaction. The commit path
// depends on this boundary: the row locks taken through tx are held until fn
// returns and the transaction commits or rolls back.
type UnitOfWork interface {
	Within(ctx context.Context, fn func(ctx context.Context, tx Tx) error) error
}

type Tx interface {
	Appointments() AppointmentRepository
}

type AppointmentRepository interface {
	// LockActiveByBarber takes write locks on every non-cancelled
	// appointment row of the barber, serializing concurrent commits for the
	// same barber before the overlap recheck.
	LockActiveByBarber(ctx context.Context, barberID uuid.UUID) error

	// CountOverlapping evaluates the conflict predicate against committed
	// state: rows with scheduled_time < end AND scheduled_end > start.
	CountOverlapping(ctx context.Context, barberID uuid.UUID, start, end time.Time) (int64, error)

	Create(ctx context.Context, appt *appointment.Appointment) error

	FindForUpdate(ctx context.Context, id uuid.UUID) (*appointment.Appointment, error)

	UpdateStatus(ctx context.Context, id uuid.UUID, status appointment.Status) error
}

// NotificationEnqueuer hands messages to the deferred-task collaborator.
// Enqueueing happens after the booking transaction commits and is
// best-effort: a failure is logged, never propagated to the caller.
type NotificationEnqueuer interface {
	Enqueue(ctx context.Context, kind, topic string, payload []byte, runAt time.Time) error
}
