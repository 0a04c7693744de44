package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"barberbook/internal/handler/api"
	"barberbook/internal/handler/middleware"
	"barberbook/internal/pkg/config"
)

type route struct {
	Method  string
	Path    string
	Handler gin.HandlerFunc
	Mw      []gin.HandlerFunc
}

func NewRouter(
	engine *gin.Engine,
	cfg config.Config,
	timeslotHandler *api.TimeslotHandler,
	appointmentHandler *api.AppointmentHandler,
	authMiddleware *middleware.AuthMiddleware,
	rateLimiter *middleware.RedisRateLimiter,
) {
	setupMiddleware(engine, cfg)
	setupRoutes(engine, timeslotHandler, appointmentHandler, authMiddleware, rateLimiter)
}

func setupMiddleware(engine *gin.Engine, cfg config.Config) {
	// Recovery must be first (outermost) to catch panics from all other middleware
	engine.Use(middleware.CustomRecovery())
	engine.Use(middleware.NewCORSMiddleware(cfg.CORS))
	engine.Use(middleware.LoggingMiddleware(nil, cfg.Log))
	engine.Use(middleware.ErrorHandler())
}

func setupRoutes(
	engine *gin.Engine,
	timeslotHandler *api.TimeslotHandler,
	appointmentHandler *api.AppointmentHandler,
	authMiddleware *middleware.AuthMiddleware,
	rateLimiter *middleware.RedisRateLimiter,
) {
	engine.GET("/health", healthCheck)

	apiGroup := engine.Group("/api")
	{
		timeslots := apiGroup.Group("/timeslots")
		{
			addRoutes(timeslots, []route{
				{Method: http.MethodGet, Path: "/available", Handler: timeslotHandler.GetAvailableSlots},
			})
		}

		appointments := apiGroup.Group("/appointments")
		appointments.Use(authMiddleware.RequireAuth())
		appointments.Use(rateLimiter.Middleware())
		{
			addRoutes(appointments, []route{
				{Method: http.MethodPost, Path: "", Handler: appointmentHandler.CreateAppointment},
				{Method: http.MethodGet, Path: "/me", Handler: appointmentHandler.GetMyAppointments},
				{Method: http.MethodGet, Path: "/:id", Handler: appointmentHandler.GetAppointment},
				{Method: http.MethodPost, Path: "/:id/cancel", Handler: appointmentHandler.CancelAppointment},
				{
					Method:  http.MethodPost,
					Path:    "/:id/complete",
					Handler: appointmentHandler.CompleteAppointment,
					Mw:      []gin.HandlerFunc{authMiddleware.RequireRoleAtLeast(middleware.RoleBarber)},
				},
			})
		}

		barbers := apiGroup.Group("/barbers")
		barbers.Use(authMiddleware.RequireAuth())
		barbers.Use(authMiddleware.RequireRoleAtLeast(middleware.RoleBarber))
		{
			addRoutes(barbers, []route{
				{Method: http.MethodGet, Path: "/:id/appointments", Handler: appointmentHandler.GetBarberDay},
			})
		}
	}
}

func healthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "ok",
		"message": "Service is healthy",
	})
}

func addRoutes(g *gin.RouterGroup, rs []route) {
	for _, r := range rs {
		h := r.Handler
		if len(r.Mw) > 0 {
			h = chainHandlers(append(r.Mw, r.Handler)...)
		}
		switch r.Method {
		case http.MethodGet:
			g.GET(r.Path, h)
		case http.MethodPost:
			g.POST(r.Path, h)
		case http.MethodPut:
			g.PUT(r.Path, h)
		case http.MethodPatch:
			g.PATCH(r.Path, h)
		case http.MethodDelete:
			g.DELETE(r.Path, h)
		default:
			g.Any(r.Path, h)
		}
	}
}

func chainHandlers(hs ...gin.HandlerFunc) gin.HandlerFunc {
	return func(c *gin.Context) {
		for _, h := range hs {
			h(c)
			if c.IsAborted() {
				return
			}
		}
	}
}
