package appointment

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

var (
	ErrNegativePrice        = errors.New("price cannot be negative")
	ErrInvalidTransition    = errors.New("status can only change away from upcoming")
	ErrInvalidInitialStatus = errors.New("invalid appointment status")
)

// Appointment is a committed booking. The invariant the whole engine exists
// to protect: for one barber, the slots of all non-cancelled appointments are
// pairwise disjoint.
type Appointment struct {
	id               uuid.UUID
	barberID         uuid.UUID
	userID           uuid.UUID
	serviceID        uuid.UUID
	addonIDs         []uuid.UUID
	slot             TimeSlot
	status           Status
	totalDurationMin int
	totalPriceCents  int64
	createdAt        time.Time
}

// NewAppointment builds a fresh upcoming appointment from server-derived
// totals. The slot must already equal [start, start+totalDurationMin).
func NewAppointment(
	barberID, userID, serviceID uuid.UUID,
	addonIDs []uuid.UUID,
	slot TimeSlot,
	totalDurationMin int,
	totalPriceCents int64,
) (*Appointment, error) {
	if totalPriceCents < 0 {
		return nil, ErrNegativePrice
	}
	if slot.Duration() != time.Duration(totalDurationMin)*time.Minute {
		return nil, ErrInvalidTimeSlot
	}

	return &Appointment{
		id:               uuid.New(),
		barberID:         barberID,
		userID:           userID,
		serviceID:        serviceID,
		addonIDs:         addonIDs,
		slot:             slot,
		status:           StatusUpcoming,
		totalDurationMin: totalDurationMin,
		totalPriceCents:  totalPriceCents,
	}, nil
}

func ReconstructAppointment(
	id, barberID, userID, serviceID uuid.UUID,
	addonIDs []uuid.UUID,
	slot TimeSlot,
	status Status,
	totalDurationMin int,
	totalPriceCents int64,
	createdAt time.Time,
) (*Appointment, error) {
	if !status.IsValid() {
		return nil, ErrInvalidInitialStatus
	}
	return &Appointment{
		id:               id,
		barberID:         barberID,
		userID:           userID,
		serviceID:        serviceID,
		addonIDs:         addonIDs,
		slot:             slot,
		status:           status,
		totalDurationMin: totalDurationMin,
		totalPriceCents:  totalPriceCents,
		createdAt:        createdAt,
	}, nil
}

// Complete marks the appointment as carried out. Allowed from upcoming only;
// completed and cancelled are terminal.
func (a *Appointment) Complete() error {
	if a.status != StatusUpcoming {
		return ErrInvalidTransition
	}
	a.status = StatusCompleted
	return nil
}

// Cancel frees the slot. Allowed from upcoming only; there is no
// resurrection of a cancelled appointment.
func (a *Appointment) Cancel() error {
	if a.status != StatusUpcoming {
		return ErrInvalidTransition
	}
	a.status = StatusCancelled
	return nil
}

func (a *Appointment) ID() uuid.UUID          { return a.id }
func (a *Appointment) BarberID() uuid.UUID    { return a.barberID }
func (a *Appointment) UserID() uuid.UUID      { return a.userID }
func (a *Appointment) ServiceID() uuid.UUID   { return a.serviceID }
func (a *Appointment) AddonIDs() []uuid.UUID  { return a.addonIDs }
func (a *Appointment) Slot() TimeSlot         { return a.slot }
func (a *Appointment) Status() Status         { return a.status }
func (a *Appointment) TotalDurationMin() int  { return a.totalDurationMin }
func (a *Appointment) TotalPriceCents() int64 { return a.totalPriceCents }
func (a *Appointment) CreatedAt() time.Time   { return a.createdAt }
