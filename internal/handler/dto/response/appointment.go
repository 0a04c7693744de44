package response

import (
	"time"

	"barberbook/internal/usecase/queries"

	"github.com/google/uuid"
)

type AddonResponse struct {
	ID          uuid.UUID `json:"id"`
	Name        string    `json:"name"`
	DurationMin int       `json:"duration_min"`
	PriceCents  int64     `json:"price_cents"`
}

type AppointmentResponse struct {
	ID               uuid.UUID       `json:"id"`
	BarberID         uuid.UUID       `json:"barber_id"`
	BarberName       string          `json:"barber_name"`
	ServiceID        uuid.UUID       `json:"service_id"`
	ServiceName      string          `json:"service_name"`
	FullServiceTitle string          `json:"full_service_title"`
	Addons           []AddonResponse `json:"addons"`
	StartTime        time.Time       `json:"start_time"`
	EndTime          time.Time       `json:"end_time"`
	Status           string          `json:"status"`
	TotalDurationMin int             `json:"total_duration_min"`
	TotalPriceCents  int64           `json:"total_price_cents"`
	CreatedAt        time.Time       `json:"created_at"`
}

func FromAppointmentView(v *queries.AppointmentView) *AppointmentResponse {
	addons := make([]AddonResponse, len(v.Addons))
	for i, a := range v.Addons {
		addons[i] = AddonResponse{
			ID:          a.ID,
			Name:        a.Name,
			DurationMin: a.DurationMin,
			PriceCents:  a.PriceCents,
		}
	}
	return &AppointmentResponse{
		ID:               v.ID,
		BarberID:         v.BarberID,
		BarberName:       v.BarberName,
		ServiceID:        v.ServiceID,
		ServiceName:      v.ServiceName,
		FullServiceTitle: v.FullServiceTitle(),
		Addons:           addons,
		StartTime:        v.ScheduledStart,
		EndTime:          v.ScheduledEnd,
		Status:           v.Status.String(),
		TotalDurationMin: v.TotalDurationMin,
		TotalPriceCents:  v.TotalPriceCents,
		CreatedAt:        v.CreatedAt,
	}
}

type UserAppointmentsResponse struct {
	Upcoming []*AppointmentResponse `json:"upcoming"`
	Past     []*AppointmentResponse `json:"past"`
}

func FromUserAppointments(ua *queries.UserAppointments) *UserAppointmentsResponse {
	resp := &UserAppointmentsResponse{
		Upcoming: make([]*AppointmentResponse, len(ua.Upcoming)),
		Past:     make([]*AppointmentResponse, len(ua.Past)),
	}
	for i := range ua.Upcoming {
		resp.Upcoming[i] = FromAppointmentView(&ua.Upcoming[i])
	}
	for i := range ua.Past {
		resp.Past[i] = FromAppointmentView(&ua.Past[i])
	}
	return resp
}
