package components

import (
	"barberbook/internal/infra/db"
	"barberbook/internal/infra/readstore"
	"barberbook/internal/infra/repository"
	"barberbook/internal/infra/uow"
	"barberbook/internal/notify"
	"barberbook/internal/usecase/commands"
	"barberbook/internal/usecase/queries"

	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/fx"
)

var PersistenceModule = fx.Module("persistence",
	baseOption,
	readstoreModule,
	repositoryModule,
)

var baseOption = fx.Provide(
	NewDBTX,
)

func NewDBTX(pool *pgxpool.Pool) db.DBTX {
	return pool
}

var readstoreModule = fx.Module("persistence/readstore",
	fx.Provide(
		// Catalog
		readstore.NewCatalogReadStore,
		fx.Annotate(
			func(s *readstore.CatalogReadStore) *readstore.CatalogReadStore { return s },
			fx.As(new(queries.CatalogReadStore)),
		),
		readstore.NewCommandCatalogReads,
		// Schedule
		fx.Annotate(
			readstore.NewScheduleReadStore,
			fx.As(new(queries.ScheduleReadStore)),
		),
		// Appointment views
		fx.Annotate(
			readstore.NewAppointmentReadStore,
			fx.As(new(queries.AppointmentReadStore)),
		),
	),
)

var repositoryModule = fx.Module("persistence/repository",
	fx.Provide(
		// UnitOfWork; the transactional appointment repository is built
		// inside it per transaction.
		uow.NewPostgresUoW,
		// Notification jobs live outside the booking transaction.
		repository.NewNotificationRepository,
		fx.Annotate(
			func(r *repository.NotificationRepository) *repository.NotificationRepository { return r },
			fx.As(new(commands.NotificationEnqueuer)),
			fx.As(new(notify.JobStore)),
		),
	),
)
