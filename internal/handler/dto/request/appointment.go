package request

import (
	"time"

	"github.com/google/uuid"
)

type CreateAppointmentRequest struct {
	BarberID  uuid.UUID   `json:"barber_id" binding:"required"`
	ServiceID uuid.UUID   `json:"service_id" binding:"required"`
	AddonIDs  []uuid.UUID `json:"addon_ids"`
	StartTime time.Time   `json:"start_time" binding:"required"`
}
