package request

import (
	"time"

	"github.com/google/uuid"
)

// AvailableSlotsRequest carries the query parameters of the slot lookup.
// Ids and the date are parsed by Resolve so binding errors and malformed
// values report uniformly.
type AvailableSlotsRequest struct {
	BarberID    string   `form:"barber_id" binding:"required"`
	ServiceID   string   `form:"service_id" binding:"required"`
	AddonIDs    []string `form:"addon_ids"`
	Date        string   `form:"date" binding:"required"`
	IntervalMin int      `form:"interval_min"`
}

type ResolvedAvailableSlots struct {
	BarberID    uuid.UUID
	ServiceID   uuid.UUID
	AddonIDs    []uuid.UUID
	Date        time.Time
	IntervalMin int
}

func (r *AvailableSlotsRequest) Resolve(loc *time.Location, defaultIntervalMin int) (*ResolvedAvailableSlots, error) {
	barberID, err := uuid.Parse(r.BarberID)
	if err != nil {
		return nil, err
	}
	serviceID, err := uuid.Parse(r.ServiceID)
	if err != nil {
		return nil, err
	}

	var addonIDs []uuid.UUID
	for _, raw := range r.AddonIDs {
		id, err := uuid.Parse(raw)
		if err != nil {
			return nil, err
		}
		addonIDs = append(addonIDs, id)
	}

	date, err := time.ParseInLocation("2006-01-02", r.Date, loc)
	if err != nil {
		return nil, err
	}

	intervalMin := r.IntervalMin
	if intervalMin == 0 {
		intervalMin = defaultIntervalMin
	}

	return &ResolvedAvailableSlots{
		BarberID:    barberID,
		ServiceID:   serviceID,
		AddonIDs:    addonIDs,
		Date:        date,
		IntervalMin: intervalMin,
	}, nil
}
