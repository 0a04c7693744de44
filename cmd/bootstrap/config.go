package bootstrap

import (
	"time"

	"barberbook/internal/pkg/config"

	"go.uber.org/fx"
)

var ConfigModule = fx.Module("config",
	fx.Provide(
		config.LoadConfig,
		NewBookingLocation,
	),
)

// NewBookingLocation resolves the single location all slot math runs in.
func NewBookingLocation(cfg config.Config) (*time.Location, error) {
	return cfg.Booking.Location()
}
