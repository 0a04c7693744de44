package api

import (
	"errors"
	"net/http"
	"time"

	reqdto "barberbook/internal/handler/dto/request"
	resdto "barberbook/internal/handler/dto/response"
	"barberbook/internal/pkg/config"
	"barberbook/internal/pkg/errs"
	"barberbook/internal/usecase/queries"

	"github.com/gin-gonic/gin"
)

type TimeslotHandler struct {
	availability queries.AvailabilityQueries
	loc          *time.Location
	defaultStep  int
}

func NewTimeslotHandler(availability queries.AvailabilityQueries, cfg config.BookingConfig, loc *time.Location) *TimeslotHandler {
	return &TimeslotHandler{
		availability: availability,
		loc:          loc,
		defaultStep:  cfg.DefaultSlotInterval,
	}
}

func (h *TimeslotHandler) GetAvailableSlots(c *gin.Context) {
	var req reqdto.AvailableSlotsRequest
	if bindErr := c.ShouldBindQuery(&req); bindErr != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid request format",
		})
		return
	}

	resolved, err := req.Resolve(h.loc, h.defaultStep)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid query parameters",
		})
		return
	}

	slots, err := h.availability.AvailableSlots(c.Request.Context(), queries.AvailableSlotsParams{
		BarberID:        resolved.BarberID,
		ServiceID:       resolved.ServiceID,
		AddonIDs:        resolved.AddonIDs,
		Date:            resolved.Date,
		SlotIntervalMin: resolved.IntervalMin,
	})
	if err != nil {
		switch {
		case errors.Is(err, errs.ErrBarberNotFound):
			c.JSON(http.StatusNotFound, gin.H{
				"error": "Barber not found",
			})
		case errors.Is(err, errs.ErrServiceNotFound):
			c.JSON(http.StatusNotFound, gin.H{
				"error": "Service not found",
			})
		case errors.Is(err, errs.ErrUnknownAddons):
			c.JSON(http.StatusBadRequest, gin.H{
				"error": "Unknown addon ids",
			})
		case errors.Is(err, errs.ErrInvalidSlotInterval):
			c.JSON(http.StatusBadRequest, gin.H{
				"error": "Slot interval must be a positive divisor of 60",
			})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{
				"error": "Internal server error",
			})
		}
		return
	}

	c.JSON(http.StatusOK, resdto.FromSlots(resolved.BarberID, resolved.Date, resolved.IntervalMin, slots))
}
