package response

import (
	"time"

	"github.com/google/uuid"
)

type AvailableSlotsResponse struct {
	BarberID    uuid.UUID `json:"barber_id"`
	Date        string    `json:"date"`
	IntervalMin int       `json:"interval_min"`
	Slots       []string  `json:"slots"`
}

func FromSlots(barberID uuid.UUID, date time.Time, intervalMin int, slots []time.Time) *AvailableSlotsResponse {
	formatted := make([]string, len(slots))
	for i, s := range slots {
		formatted[i] = s.Format(time.RFC3339)
	}
	return &AvailableSlotsResponse{
		BarberID:    barberID,
		Date:        date.Format("2006-01-02"),
		IntervalMin: intervalMin,
		Slots:       formatted,
	}
}
