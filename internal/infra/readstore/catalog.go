package readstore

import (
	"context"
	"errors"
	"log/slog"

	"barberbook/internal/infra"
	"barberbook/internal/infra/db"
	"barberbook/internal/pkg/errs"
	"barberbook/internal/usecase/queries"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

// CatalogReadStore serves barbers, services and addons. The catalog is
// seeded data as far as the booking flow is concerned.
type CatalogReadStore struct {
	db     db.DBTX
	logger *slog.Logger
}

func NewCatalogReadStore(dbtx db.DBTX, logger *slog.Logger) *CatalogReadStore {
	return &CatalogReadStore{db: dbtx, logger: logger}
}

func (s *CatalogReadStore) ServiceByID(ctx context.Context, id uuid.UUID) (*queries.ServiceView, error) {
	var v queries.ServiceView
	err := s.db.QueryRow(ctx, `
		SELECT id, name, duration_min, price_cents FROM services WHERE id = $1`,
		id,
	).Scan(&v.ID, &v.Name, &v.DurationMin, &v.PriceCents)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, errs.ErrServiceNotFound
		}
		return nil, infra.WrapRepoErr(s.logger, infra.KindDBFailure, "failed to find service", err)
	}
	return &v, nil
}

// AddonsByIDs returns the addons matching ids. Unknown ids are simply absent
// from the result; callers compare lengths to detect them.
func (s *CatalogReadStore) AddonsByIDs(ctx context.Context, ids []uuid.UUID) ([]queries.AddonView, error) {
	if len(ids) == 0 {
		return nil, nil
	}

	rows, err := s.db.Query(ctx, `
		SELECT id, name, duration_min, price_cents FROM addons WHERE id = ANY($1)`,
		ids,
	)
	if err != nil {
		return nil, infra.WrapRepoErr(s.logger, infra.KindDBFailure, "failed to find addons", err)
	}
	defer rows.Close()

	var addons []queries.AddonView
	for rows.Next() {
		var v queries.AddonView
		if err := rows.Scan(&v.ID, &v.Name, &v.DurationMin, &v.PriceCents); err != nil {
			return nil, infra.WrapRepoErr(s.logger, infra.KindDBFailure, "failed to scan addon", err)
		}
		addons = append(addons, v)
	}
	if err := rows.Err(); err != nil {
		return nil, infra.WrapRepoErr(s.logger, infra.KindDBFailure, "failed to find addons", err)
	}
	return addons, nil
}

func (s *CatalogReadStore) BarberByID(ctx context.Context, id uuid.UUID) (*queries.BarberView, error) {
	var v queries.BarberView
	err := s.db.QueryRow(ctx, `
		SELECT id, name FROM barbers WHERE id = $1`,
		id,
	).Scan(&v.ID, &v.Name)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, errs.ErrBarberNotFound
		}
		return nil, infra.WrapRepoErr(s.logger, infra.KindDBFailure, "failed to find barber", err)
	}
	return &v, nil
}
