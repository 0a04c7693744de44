package components

import (
	"time"

	"barberbook/internal/handler"
	"barberbook/internal/handler/api"
	"barberbook/internal/handler/middleware"
	"barberbook/internal/pkg/config"
	"barberbook/internal/usecase/queries"

	"github.com/redis/go-redis/v9"
	"go.uber.org/fx"
)

var HandlerModule = fx.Module("handler",
	fx.Provide(
		NewTimeslotHandler,
		api.NewAppointmentHandler,
		middleware.NewAuthMiddleware,
		NewRateLimiter,
	),
	fx.Invoke(handler.NewRouter),
)

func NewTimeslotHandler(availability queries.AvailabilityQueries, cfg config.Config, loc *time.Location) *api.TimeslotHandler {
	return api.NewTimeslotHandler(availability, cfg.Booking, loc)
}

func NewRateLimiter(rdb *redis.Client, cfg config.Config) *middleware.RedisRateLimiter {
	return middleware.NewRedisRateLimiter(rdb, cfg.Redis)
}
