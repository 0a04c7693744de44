package readstore

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"barberbook/internal/domain/appointment"
	"barberbook/internal/infra"
	"barberbook/internal/infra/db"
	"barberbook/internal/pkg/errs"
	"barberbook/internal/usecase/queries"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

const appointmentViewSelect = `
	SELECT a.id, a.user_id, u.email, a.barber_id, b.name, a.service_id, s.name,
	       a.scheduled_time, a.scheduled_end, a.status,
	       a.total_duration_min, a.total_price_cents, a.created_at
	FROM appointments a
	JOIN users u ON u.id = a.user_id
	JOIN barbers b ON b.id = a.barber_id
	JOIN services s ON s.id = a.service_id`

// AppointmentReadStore hydrates appointments with catalog names for
// presentation. It never participates in the booking transaction.
type AppointmentReadStore struct {
	db     db.DBTX
	logger *slog.Logger
}

func NewAppointmentReadStore(dbtx db.DBTX, logger *slog.Logger) *AppointmentReadStore {
	return &AppointmentReadStore{db: dbtx, logger: logger}
}

func (s *AppointmentReadStore) FindByID(ctx context.Context, id uuid.UUID) (*queries.AppointmentView, error) {
	row := s.db.QueryRow(ctx, appointmentViewSelect+` WHERE a.id = $1`, id)

	view, err := s.scanView(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, errs.ErrAppointmentNotFound
		}
		return nil, infra.WrapRepoErr(s.logger, infra.KindDBFailure, "failed to find appointment view", err)
	}

	if err := s.attachAddons(ctx, []*queries.AppointmentView{view}); err != nil {
		return nil, err
	}
	return view, nil
}

func (s *AppointmentReadStore) ListByUser(ctx context.Context, userID uuid.UUID) ([]queries.AppointmentView, error) {
	rows, err := s.db.Query(ctx, appointmentViewSelect+`
		WHERE a.user_id = $1
		ORDER BY a.scheduled_time DESC`,
		userID,
	)
	if err != nil {
		return nil, infra.WrapRepoErr(s.logger, infra.KindDBFailure, "failed to list appointments by user", err)
	}
	defer rows.Close()

	return s.collectViews(ctx, rows)
}

func (s *AppointmentReadStore) ListByBarberForDay(ctx context.Context, barberID uuid.UUID, dayStart, dayEnd time.Time) ([]queries.AppointmentView, error) {
	rows, err := s.db.Query(ctx, appointmentViewSelect+`
		WHERE a.barber_id = $1
		  AND a.scheduled_time >= $2
		  AND a.scheduled_time < $3
		ORDER BY a.scheduled_time`,
		barberID, dayStart, dayEnd,
	)
	if err != nil {
		return nil, infra.WrapRepoErr(s.logger, infra.KindDBFailure, "failed to list appointments by barber", err)
	}
	defer rows.Close()

	return s.collectViews(ctx, rows)
}

func (s *AppointmentReadStore) collectViews(ctx context.Context, rows pgx.Rows) ([]queries.AppointmentView, error) {
	var views []queries.AppointmentView
	for rows.Next() {
		view, err := s.scanView(rows)
		if err != nil {
			return nil, infra.WrapRepoErr(s.logger, infra.KindDBFailure, "failed to scan appointment view", err)
		}
		views = append(views, *view)
	}
	if err := rows.Err(); err != nil {
		return nil, infra.WrapRepoErr(s.logger, infra.KindDBFailure, "failed to list appointments", err)
	}

	refs := make([]*queries.AppointmentView, len(views))
	for i := range views {
		refs[i] = &views[i]
	}
	if err := s.attachAddons(ctx, refs); err != nil {
		return nil, err
	}
	return views, nil
}

func (s *AppointmentReadStore) scanView(row pgx.Row) (*queries.AppointmentView, error) {
	var (
		v      queries.AppointmentView
		status string
	)
	err := row.Scan(
		&v.ID, &v.UserID, &v.UserEmail, &v.BarberID, &v.BarberName, &v.ServiceID, &v.ServiceName,
		&v.ScheduledStart, &v.ScheduledEnd, &status,
		&v.TotalDurationMin, &v.TotalPriceCents, &v.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	v.Status = appointment.Status(status)
	v.Addons = []queries.AddonView{}
	return &v, nil
}

func (s *AppointmentReadStore) attachAddons(ctx context.Context, views []*queries.AppointmentView) error {
	if len(views) == 0 {
		return nil
	}

	ids := make([]uuid.UUID, len(views))
	byID := make(map[uuid.UUID]*queries.AppointmentView, len(views))
	for i, v := range views {
		ids[i] = v.ID
		byID[v.ID] = v
	}

	rows, err := s.db.Query(ctx, `
		SELECT aa.appointment_id, ad.id, ad.name, ad.duration_min, ad.price_cents
		FROM appointment_addons aa
		JOIN addons ad ON ad.id = aa.addon_id
		WHERE aa.appointment_id = ANY($1)
		ORDER BY ad.name`,
		ids,
	)
	if err != nil {
		return infra.WrapRepoErr(s.logger, infra.KindDBFailure, "failed to load appointment addons", err)
	}
	defer rows.Close()

	for rows.Next() {
		var (
			appointmentID uuid.UUID
			addon         queries.AddonView
		)
		if err := rows.Scan(&appointmentID, &addon.ID, &addon.Name, &addon.DurationMin, &addon.PriceCents); err != nil {
			return infra.WrapRepoErr(s.logger, infra.KindDBFailure, "failed to scan appointment addon", err)
		}
		if view, ok := byID[appointmentID]; ok {
			view.Addons = append(view.Addons, addon)
		}
	}
	if err := rows.Err(); err != nil {
		return infra.WrapRepoErr(s.logger, infra.KindDBFailure, "failed to load appointment addons", err)
	}
	return nil
}
