package api

import (
	"errors"
	"net/http"
	"time"

	reqdto "barberbook/internal/handler/dto/request"
	resdto "barberbook/internal/handler/dto/response"
	"barberbook/internal/handler/middleware"
	"barberbook/internal/pkg/errs"
	"barberbook/internal/usecase/commands"
	"barberbook/internal/usecase/queries"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type AppointmentHandler struct {
	booking      commands.BookingCommands
	appointments queries.AppointmentQueries
	loc          *time.Location
}

func NewAppointmentHandler(booking commands.BookingCommands, appointments queries.AppointmentQueries, loc *time.Location) *AppointmentHandler {
	return &AppointmentHandler{
		booking:      booking,
		appointments: appointments,
		loc:          loc,
	}
}

func (h *AppointmentHandler) CreateAppointment(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Internal server error",
		})
		return
	}

	var req reqdto.CreateAppointmentRequest
	if bindErr := c.ShouldBindJSON(&req); bindErr != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid request format",
		})
		return
	}

	view, err := h.booking.CreateAppointment(c.Request.Context(), commands.CreateAppointmentParams{
		UserID:    userID,
		BarberID:  req.BarberID,
		ServiceID: req.ServiceID,
		AddonIDs:  req.AddonIDs,
		StartTime: req.StartTime,
	})
	if err != nil {
		switch {
		case errors.Is(err, errs.ErrServiceNotFound):
			c.JSON(http.StatusNotFound, gin.H{
				"error": "Service not found",
			})
		case errors.Is(err, errs.ErrUnknownAddons):
			c.JSON(http.StatusBadRequest, gin.H{
				"error": "Unknown addon ids",
			})
		// A bogus barber id still reports the slot conflict first; the
		// barber lookup only runs once the slot is known to be free.
		case errors.Is(err, errs.ErrBarberNotFound):
			c.JSON(http.StatusBadRequest, gin.H{
				"error": "Barber not found",
			})
		case errors.Is(err, errs.ErrSlotTaken):
			c.JSON(http.StatusConflict, gin.H{
				"error": "Requested slot is already taken",
			})
		case errors.Is(err, errs.ErrInvalidDuration):
			c.JSON(http.StatusUnprocessableEntity, gin.H{
				"error": "Domain validation failed",
			})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{
				"error": "Internal server error",
			})
		}
		return
	}

	c.JSON(http.StatusCreated, resdto.FromAppointmentView(view))
}

func (h *AppointmentHandler) GetAppointment(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid appointment ID format",
		})
		return
	}

	view, err := h.appointments.GetByID(c.Request.Context(), id)
	if err != nil {
		switch {
		case errors.Is(err, errs.ErrAppointmentNotFound):
			c.JSON(http.StatusNotFound, gin.H{
				"error": "Appointment not found",
			})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{
				"error": "Internal server error",
			})
		}
		return
	}

	c.JSON(http.StatusOK, resdto.FromAppointmentView(view))
}

func (h *AppointmentHandler) GetMyAppointments(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Internal server error",
		})
		return
	}

	grouped, err := h.appointments.ListByUser(c.Request.Context(), userID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Internal server error",
		})
		return
	}

	c.JSON(http.StatusOK, resdto.FromUserAppointments(grouped))
}

func (h *AppointmentHandler) CancelAppointment(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Internal server error",
		})
		return
	}

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid appointment ID format",
		})
		return
	}

	if err := h.booking.CancelAppointment(c.Request.Context(), id, userID); err != nil {
		h.writeTransitionError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"status": "cancelled",
	})
}

func (h *AppointmentHandler) CompleteAppointment(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid appointment ID format",
		})
		return
	}

	if err := h.booking.CompleteAppointment(c.Request.Context(), id); err != nil {
		h.writeTransitionError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"status": "completed",
	})
}

func (h *AppointmentHandler) GetBarberDay(c *gin.Context) {
	barberID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid barber ID format",
		})
		return
	}

	day, err := time.ParseInLocation("2006-01-02", c.Query("date"), h.loc)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid date format, expected YYYY-MM-DD",
		})
		return
	}

	views, err := h.appointments.ListByBarberForDay(c.Request.Context(), barberID, day)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Internal server error",
		})
		return
	}

	response := make([]*resdto.AppointmentResponse, len(views))
	for i := range views {
		response[i] = resdto.FromAppointmentView(&views[i])
	}
	c.JSON(http.StatusOK, response)
}

func (h *AppointmentHandler) writeTransitionError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, errs.ErrAppointmentNotFound):
		c.JSON(http.StatusNotFound, gin.H{
			"error": "Appointment not found",
		})
	case errors.Is(err, errs.ErrNotAppointmentOwner):
		c.JSON(http.StatusForbidden, gin.H{
			"error": "Appointment belongs to another user",
		})
	case errors.Is(err, errs.ErrInvalidStateTransition):
		c.JSON(http.StatusConflict, gin.H{
			"error": "Appointment is no longer upcoming",
		})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Internal server error",
		})
	}
}
