package commands

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	"barberbook/internal/domain/appointment"
	"barberbook/internal/infra"
	"barberbook/internal/pkg/clock"
	"barberbook/internal/pkg/errs"
	"barberbook/internal/usecase/queries"

	"github.com/google/uuid"
)

const (
	NotificationConfirmation = "confirmation"
	NotificationReminder     = "reminder"
)

type CreateAppointmentParams struct {
	UserID    uuid.UUID
	BarberID  uuid.UUID
	ServiceID uuid.UUID
	AddonIDs  []uuid.UUID
	StartTime time.Time
}

type BookingCommands interface {
	CreateAppointment(ctx context.Context, p CreateAppointmentParams) (*queries.AppointmentView, error)
	CancelAppointment(ctx context.Context, id, actorID uuid.UUID) error
	CompleteAppointment(ctx context.Context, id uuid.UUID) error
}

type bookingCommandsImpl struct {
	uow           UnitOfWork
	catalog       CatalogReads
	views         queries.AppointmentQueries
	notifications NotificationEnqueuer
	clock         clock.Clock
	reminderLead  time.Duration
}

func NewBookingCommands(
	uow UnitOfWork,
	catalog CatalogReads,
	views queries.AppointmentQueries,
	notifications NotificationEnqueuer,
	clk clock.Clock,
	reminderLead time.Duration,
) BookingCommands {
	return &bookingCommandsImpl{
		uow:           uow,
		catalog:       catalog,
		views:         views,
		notifications: notifications,
		clock:         clk,
		reminderLead:  reminderLead,
	}
}

// CreateAppointment commits a booking at the requested start time. Totals are
// derived from the catalog, never from the request. Inside one transaction it
// locks the barber's active appointments, rechecks the overlap predicate
// against committed rows, and only then inserts; losers of a race observe the
// winner's row and fail with ErrSlotTaken. The barber is resolved after the
// conflict check, so a taken slot reports as a conflict even when the barber
// id is bogus.
func (c *bookingCommandsImpl) CreateAppointment(ctx context.Context, p CreateAppointmentParams) (*queries.AppointmentView, error) {
	svc, err := c.catalog.ServiceByID(ctx, p.ServiceID)
	if err != nil {
		return nil, err
	}

	addons, err := c.resolveAddons(ctx, p.AddonIDs)
	if err != nil {
		return nil, err
	}

	totalDurationMin := svc.DurationMin
	totalPriceCents := svc.PriceCents
	for _, a := range addons {
		totalDurationMin += a.DurationMin
		totalPriceCents += a.PriceCents
	}

	slot, err := appointment.SlotFromDuration(p.StartTime, totalDurationMin)
	if err != nil {
		return nil, errs.Wrap(errs.ErrInvalidDuration, err.Error())
	}

	var created *appointment.Appointment
	err = c.uow.Within(ctx, func(ctx context.Context, tx Tx) error {
		repo := tx.Appointments()

		if err := repo.LockActiveByBarber(ctx, p.BarberID); err != nil {
			return err
		}

		overlapping, err := repo.CountOverlapping(ctx, p.BarberID, slot.Start(), slot.End())
		if err != nil {
			return err
		}
		if overlapping > 0 {
			return errs.ErrSlotTaken
		}

		if _, err := c.catalog.BarberByID(ctx, p.BarberID); err != nil {
			return err
		}

		appt, err := appointment.NewAppointment(
			p.BarberID, p.UserID, p.ServiceID, p.AddonIDs,
			slot, totalDurationMin, totalPriceCents,
		)
		if err != nil {
			return err
		}

		if err := repo.Create(ctx, appt); err != nil {
			if infra.IsKind(err, infra.KindConflict) {
				return errs.ErrSlotTaken
			}
			return err
		}
		created = appt
		return nil
	})
	if err != nil {
		return nil, err
	}

	view, err := c.views.GetByID(ctx, created.ID())
	if err != nil {
		return nil, err
	}

	c.enqueueBookingNotifications(ctx, view)
	return view, nil
}

// CancelAppointment frees the slot. Only the booking owner may cancel, and
// only an upcoming appointment can be cancelled.
func (c *bookingCommandsImpl) CancelAppointment(ctx context.Context, id, actorID uuid.UUID) error {
	return c.uow.Within(ctx, func(ctx context.Context, tx Tx) error {
		repo := tx.Appointments()

		appt, err := repo.FindForUpdate(ctx, id)
		if err != nil {
			if infra.IsKind(err, infra.KindNotFound) {
				return errs.ErrAppointmentNotFound
			}
			return err
		}
		if appt.UserID() != actorID {
			return errs.ErrNotAppointmentOwner
		}
		if err := appt.Cancel(); err != nil {
			return errs.ErrInvalidStateTransition
		}
		return repo.UpdateStatus(ctx, appt.ID(), appt.Status())
	})
}

// CompleteAppointment marks an upcoming appointment as carried out.
func (c *bookingCommandsImpl) CompleteAppointment(ctx context.Context, id uuid.UUID) error {
	return c.uow.Within(ctx, func(ctx context.Context, tx Tx) error {
		repo := tx.Appointments()

		appt, err := repo.FindForUpdate(ctx, id)
		if err != nil {
			if infra.IsKind(err, infra.KindNotFound) {
				return errs.ErrAppointmentNotFound
			}
			return err
		}
		if err := appt.Complete(); err != nil {
			return errs.ErrInvalidStateTransition
		}
		return repo.UpdateStatus(ctx, appt.ID(), appt.Status())
	})
}

func (c *bookingCommandsImpl) resolveAddons(ctx context.Context, ids []uuid.UUID) ([]AddonSnapshot, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	addons, err := c.catalog.AddonsByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}
	if len(addons) != len(ids) {
		return nil, errs.ErrUnknownAddons
	}
	return addons, nil
}

type bookingNotificationPayload struct {
	AppointmentID uuid.UUID `json:"appointment_id"`
	UserID        uuid.UUID `json:"user_id"`
	UserEmail     string    `json:"user_email"`
	BarberName    string    `json:"barber_name"`
	ServiceTitle  string    `json:"service_title"`
	StartTime     time.Time `json:"start_time"`
}

// enqueueBookingNotifications schedules the confirmation mail and, when the
// appointment is far enough out, the reminder. Failures are logged only; the
// booking itself has already committed and must not be affected.
func (c *bookingCommandsImpl) enqueueBookingNotifications(ctx context.Context, view *queries.AppointmentView) {
	payload, err := json.Marshal(bookingNotificationPayload{
		AppointmentID: view.ID,
		UserID:        view.UserID,
		UserEmail:     view.UserEmail,
		BarberName:    view.BarberName,
		ServiceTitle:  view.FullServiceTitle(),
		StartTime:     view.ScheduledStart,
	})
	if err != nil {
		slog.Warn("failed to encode notification payload", "appointment_id", view.ID, "error", err)
		return
	}

	now := c.clock.Now()
	if err := c.notifications.Enqueue(ctx, NotificationConfirmation, view.ID.String(), payload, now); err != nil {
		slog.Warn("failed to enqueue confirmation", "appointment_id", view.ID, "error", err)
	}

	remindAt := view.ScheduledStart.Add(-c.reminderLead)
	if remindAt.After(now) {
		if err := c.notifications.Enqueue(ctx, NotificationReminder, view.ID.String(), payload, remindAt); err != nil {
			slog.Warn("failed to enqueue reminder", "appointment_id", view.ID, "error", err)
		}
	}
}
