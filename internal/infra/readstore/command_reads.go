package readstore

import (
	"context"

	"barberbook/internal/usecase/commands"

	"github.com/google/uuid"
)

// CommandCatalogReads adapts the catalog read store to the write-side
// snapshot types the booking commands consume.
type CommandCatalogReads struct {
	catalog *CatalogReadStore
}

func NewCommandCatalogReads(catalog *CatalogReadStore) commands.CatalogReads {
	return &CommandCatalogReads{catalog: catalog}
}

func (r *CommandCatalogReads) ServiceByID(ctx context.Context, id uuid.UUID) (*commands.ServiceSnapshot, error) {
	svc, err := r.catalog.ServiceByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return &commands.ServiceSnapshot{
		ID:          svc.ID,
		Name:        svc.Name,
		DurationMin: svc.DurationMin,
		PriceCents:  svc.PriceCents,
	}, nil
}

func (r *CommandCatalogReads) AddonsByIDs(ctx context.Context, ids []uuid.UUID) ([]commands.AddonSnapshot, error) {
	addons, err := r.catalog.AddonsByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}
	snapshots := make([]commands.AddonSnapshot, len(addons))
	for i, a := range addons {
		snapshots[i] = commands.AddonSnapshot{
			ID:          a.ID,
			Name:        a.Name,
			DurationMin: a.DurationMin,
			PriceCents:  a.PriceCents,
		}
	}
	return snapshots, nil
}

func (r *CommandCatalogReads) BarberByID(ctx context.Context, id uuid.UUID) (*commands.BarberSnapshot, error) {
	barber, err := r.catalog.BarberByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return &commands.BarberSnapshot{ID: barber.ID, Name: barber.Name}, nil
}
