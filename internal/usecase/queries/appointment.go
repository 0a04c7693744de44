package queries

import (
	"context"
	"strings"
	"time"

	"barberbook/internal/domain/appointment"

	"github.com/google/uuid"
)

// AppointmentView is an appointment hydrated with the catalog names a client
// renders. Money is in cents, durations in minutes.
type AppointmentView struct {
	ID               uuid.UUID
	UserID           uuid.UUID
	UserEmail        string
	BarberID         uuid.UUID
	BarberName       string
	ServiceID        uuid.UUID
	ServiceName      string
	Addons           []AddonView
	ScheduledStart   time.Time
	ScheduledEnd     time.Time
	Status           appointment.Status
	TotalDurationMin int
	TotalPriceCents  int64
	CreatedAt        time.Time
}

// FullServiceTitle joins the service and addon names into the single label
// shown on confirmations, e.g. "Haircut + Beard Trim".
func (v AppointmentView) FullServiceTitle() string {
	parts := make([]string, 0, len(v.Addons)+1)
	parts = append(parts, v.ServiceName)
	for _, a := range v.Addons {
		parts = append(parts, a.Name)
	}
	return strings.Join(parts, " + ")
}

// UserAppointments splits a user's appointments for display: still-upcoming
// bookings first, everything already settled (completed or cancelled) after.
type UserAppointments struct {
	Upcoming []AppointmentView
	Past     []AppointmentView
}

type AppointmentQueries interface {
	GetByID(ctx context.Context, id uuid.UUID) (*AppointmentView, error)
	ListByUser(ctx context.Context, userID uuid.UUID) (*UserAppointments, error)
	ListByBarberForDay(ctx context.Context, barberID uuid.UUID, day time.Time) ([]AppointmentView, error)
}

type appointmentQueriesImpl struct {
	appointments AppointmentReadStore
	loc          *time.Location
}

func NewAppointmentQueries(appointments AppointmentReadStore, loc *time.Location) AppointmentQueries {
	return &appointmentQueriesImpl{appointments: appointments, loc: loc}
}

func (q *appointmentQueriesImpl) GetByID(ctx context.Context, id uuid.UUID) (*AppointmentView, error) {
	return q.appointments.FindByID(ctx, id)
}

func (q *appointmentQueriesImpl) ListByUser(ctx context.Context, userID uuid.UUID) (*UserAppointments, error) {
	views, err := q.appointments.ListByUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	grouped := &UserAppointments{
		Upcoming: []AppointmentView{},
		Past:     []AppointmentView{},
	}
	for _, v := range views {
		if v.Status == appointment.StatusUpcoming {
			grouped.Upcoming = append(grouped.Upcoming, v)
		} else {
			grouped.Past = append(grouped.Past, v)
		}
	}
	return grouped, nil
}

func (q *appointmentQueriesImpl) ListByBarberForDay(ctx context.Context, barberID uuid.UUID, day time.Time) ([]AppointmentView, error) {
	dayStart := time.Date(day.Year(), day.Month(), day.Day(), 0, 0, 0, 0, q.loc)
	return q.appointments.ListByBarberForDay(ctx, barberID, dayStart, dayStart.Add(24*time.Hour))
}
