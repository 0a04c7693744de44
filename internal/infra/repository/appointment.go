package repository

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"barberbook/internal/domain/appointment"
	"barberbook/internal/infra"
	"barberbook/internal/infra/db"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

const (
	pgErrCodeUniqueViolation     = "23505"
	pgErrCodeForeignKeyViolation = "23503"
	pgErrCodeExclusionViolation  = "23P01"
)

// AppointmentRepository is the write side of appointment storage. All methods
// are expected to run on a transaction-bound DBTX; the locking methods are
// meaningless outside one.
type AppointmentRepository struct {
	db     db.DBTX
	logger *slog.Logger
}

func NewAppointmentRepository(dbtx db.DBTX, logger *slog.Logger) *AppointmentRepository {
	return &AppointmentRepository{db: dbtx, logger: logger}
}

// LockActiveByBarber acquires row locks on every non-cancelled appointment of
// the barber. Two transactions booking the same barber serialize here, so the
// overlap recheck that follows always sees the other's committed row.
func (r *AppointmentRepository) LockActiveByBarber(ctx context.Context, barberID uuid.UUID) error {
	rows, err := r.db.Query(ctx, `
		SELECT id FROM appointments
		WHERE barber_id = $1 AND status != 'cancelled'
		FOR UPDATE`,
		barberID,
	)
	if err != nil {
		return infra.WrapRepoErr(r.logger, infra.KindDBFailure, "failed to lock appointments", err)
	}
	defer rows.Close()

	for rows.Next() {
	}
	if err := rows.Err(); err != nil {
		return infra.WrapRepoErr(r.logger, infra.KindDBFailure, "failed to lock appointments", err)
	}
	return nil
}

func (r *AppointmentRepository) CountOverlapping(ctx context.Context, barberID uuid.UUID, start, end time.Time) (int64, error) {
	var count int64
	err := r.db.QueryRow(ctx, `
		SELECT COUNT(*) FROM appointments
		WHERE barber_id = $1
		  AND status != 'cancelled'
		  AND scheduled_time < $3
		  AND scheduled_end > $2`,
		barberID, start, end,
	).Scan(&count)
	if err != nil {
		return 0, infra.WrapRepoErr(r.logger, infra.KindDBFailure, "failed to count overlapping appointments", err)
	}
	return count, nil
}

func (r *AppointmentRepository) Create(ctx context.Context, appt *appointment.Appointment) error {
	_, err := r.db.Exec(ctx, `
		INSERT INTO appointments (
			id, user_id, barber_id, service_id,
			scheduled_time, scheduled_end, status,
			total_duration_min, total_price_cents
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`,
		appt.ID(), appt.UserID(), appt.BarberID(), appt.ServiceID(),
		appt.Slot().Start(), appt.Slot().End(), appt.Status().String(),
		appt.TotalDurationMin(), appt.TotalPriceCents(),
	)
	if err != nil {
		return r.translateWriteErr("failed to create appointment", err)
	}

	for _, addonID := range appt.AddonIDs() {
		_, err := r.db.Exec(ctx, `
			INSERT INTO appointment_addons (appointment_id, addon_id)
			VALUES ($1, $2)`,
			appt.ID(), addonID,
		)
		if err != nil {
			return r.translateWriteErr("failed to attach addon", err)
		}
	}
	return nil
}

func (r *AppointmentRepository) FindForUpdate(ctx context.Context, id uuid.UUID) (*appointment.Appointment, error) {
	var (
		apptID, userID, barberID, serviceID uuid.UUID
		start, end, createdAt               time.Time
		status                              string
		totalDurationMin                    int
		totalPriceCents                     int64
	)
	err := r.db.QueryRow(ctx, `
		SELECT id, user_id, barber_id, service_id,
		       scheduled_time, scheduled_end, status,
		       total_duration_min, total_price_cents, created_at
		FROM appointments
		WHERE id = $1
		FOR UPDATE`,
		id,
	).Scan(
		&apptID, &userID, &barberID, &serviceID,
		&start, &end, &status,
		&totalDurationMin, &totalPriceCents, &createdAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, infra.WrapRepoErr(r.logger, infra.KindNotFound, "appointment not found", err)
		}
		return nil, infra.WrapRepoErr(r.logger, infra.KindDBFailure, "failed to find appointment", err)
	}

	addonIDs, err := r.addonIDs(ctx, apptID)
	if err != nil {
		return nil, err
	}

	slot, err := appointment.NewTimeSlot(start, end)
	if err != nil {
		return nil, infra.WrapRepoErr(r.logger, infra.KindDBFailure, "stored slot is invalid", err)
	}
	appt, err := appointment.ReconstructAppointment(
		apptID, barberID, userID, serviceID, addonIDs,
		slot, appointment.Status(status),
		totalDurationMin, totalPriceCents, createdAt,
	)
	if err != nil {
		return nil, infra.WrapRepoErr(r.logger, infra.KindDBFailure, "stored appointment is invalid", err)
	}
	return appt, nil
}

func (r *AppointmentRepository) UpdateStatus(ctx context.Context, id uuid.UUID, status appointment.Status) error {
	tag, err := r.db.Exec(ctx, `
		UPDATE appointments SET status = $2 WHERE id = $1`,
		id, status.String(),
	)
	if err != nil {
		return infra.WrapRepoErr(r.logger, infra.KindDBFailure, "failed to update appointment status", err)
	}
	if tag.RowsAffected() == 0 {
		return infra.WrapRepoErr(r.logger, infra.KindNotFound, "appointment not found", pgx.ErrNoRows)
	}
	return nil
}

func (r *AppointmentRepository) addonIDs(ctx context.Context, appointmentID uuid.UUID) ([]uuid.UUID, error) {
	rows, err := r.db.Query(ctx, `
		SELECT addon_id FROM appointment_addons WHERE appointment_id = $1`,
		appointmentID,
	)
	if err != nil {
		return nil, infra.WrapRepoErr(r.logger, infra.KindDBFailure, "failed to load addon ids", err)
	}
	defer rows.Close()

	var ids []uuid.UUID
	for rows.Next() {
		var id uuid.UUID
		if err := rows.Scan(&id); err != nil {
			return nil, infra.WrapRepoErr(r.logger, infra.KindDBFailure, "failed to scan addon id", err)
		}
		ids = append(ids, id)
	}
	if err := rows.Err(); err != nil {
		return nil, infra.WrapRepoErr(r.logger, infra.KindDBFailure, "failed to load addon ids", err)
	}
	return ids, nil
}

// translateWriteErr maps constraint violations onto repository kinds. The
// exclusion constraint on (barber_id, tstzrange) is the storage-level backstop
// for double booking and surfaces as KindConflict.
func (r *AppointmentRepository) translateWriteErr(msg string, err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case pgErrCodeExclusionViolation:
			return infra.WrapRepoErr(r.logger, infra.KindConflict, msg, err)
		case pgErrCodeUniqueViolation:
			return infra.WrapRepoErr(r.logger, infra.KindDuplicateKey, msg, err)
		case pgErrCodeForeignKeyViolation:
			return infra.WrapRepoErr(r.logger, infra.KindForeignKeyViolated, msg, err)
		}
	}
	return infra.WrapRepoErr(r.logger, infra.KindDBFailure, msg, err)
}
