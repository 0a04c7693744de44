package components

import (
	"time"

	"barberbook/internal/pkg/clock"
	"barberbook/internal/pkg/config"
	"barberbook/internal/usecase"
	"barberbook/internal/usecase/commands"
	"barberbook/internal/usecase/queries"

	"go.uber.org/fx"
)

var UseCaseModule = fx.Module("usecase",
	usecaseBaseOption,
	usecaseQueriesModule,
	usecaseValidatorsModule,
	usecaseCommandsModule,
)

var usecaseBaseOption = fx.Provide(
	clock.NewRealClock,
)

var usecaseQueriesModule = fx.Module("usecase/queries",
	fx.Provide(
		queries.NewAvailabilityQueries,
		queries.NewAppointmentQueries,
	),
)

var usecaseCommandsModule = fx.Module("usecase/commands",
	fx.Provide(
		NewBookingCommands,
	),
)

var usecaseValidatorsModule = fx.Module("usecase/validators",
	fx.Provide(
		usecase.NewTokenValidator,
	),
)

func NewBookingCommands(
	cfg config.Config,
	uow commands.UnitOfWork,
	catalog commands.CatalogReads,
	views queries.AppointmentQueries,
	notifications commands.NotificationEnqueuer,
	clk clock.Clock,
) commands.BookingCommands {
	reminderLead := time.Duration(cfg.Booking.ReminderLeadMin) * time.Minute
	return commands.NewBookingCommands(uow, catalog, views, notifications, clk, reminderLead)
}
