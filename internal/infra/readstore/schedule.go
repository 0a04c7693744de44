package readstore

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"barberbook/internal/domain/schedule"
	"barberbook/internal/infra"
	"barberbook/internal/infra/db"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

// ScheduleReadStore serves the inputs of the slot calculator: the barber's
// recurring working window, committed appointment occupancy and manual
// unavailability blocks.
type ScheduleReadStore struct {
	db     db.DBTX
	logger *slog.Logger
}

func NewScheduleReadStore(dbtx db.DBTX, logger *slog.Logger) *ScheduleReadStore {
	return &ScheduleReadStore{db: dbtx, logger: logger}
}

func (s *ScheduleReadStore) WorkingWindowFor(ctx context.Context, barberID uuid.UUID, weekday time.Weekday) (*schedule.WorkingWindow, error) {
	var startMin, endMin int
	err := s.db.QueryRow(ctx, `
		SELECT start_min, end_min FROM barber_working_windows
		WHERE barber_id = $1 AND weekday = $2`,
		barberID, int(weekday),
	).Scan(&startMin, &endMin)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, infra.WrapRepoErr(s.logger, infra.KindDBFailure, "failed to find working window", err)
	}

	window, err := schedule.NewWorkingWindow(barberID, weekday, startMin, endMin)
	if err != nil {
		return nil, infra.WrapRepoErr(s.logger, infra.KindDBFailure, "stored working window is invalid", err)
	}
	return &window, nil
}

// ActiveIntervalsForDay returns the occupancy of non-cancelled appointments
// starting within [dayStart, dayEnd).
func (s *ScheduleReadStore) ActiveIntervalsForDay(ctx context.Context, barberID uuid.UUID, dayStart, dayEnd time.Time) ([]schedule.Interval, error) {
	rows, err := s.db.Query(ctx, `
		SELECT scheduled_time, scheduled_end FROM appointments
		WHERE barber_id = $1
		  AND status != 'cancelled'
		  AND scheduled_time >= $2
		  AND scheduled_time < $3`,
		barberID, dayStart, dayEnd,
	)
	if err != nil {
		return nil, infra.WrapRepoErr(s.logger, infra.KindDBFailure, "failed to load appointment occupancy", err)
	}
	defer rows.Close()

	return s.scanIntervals(rows, "failed to scan appointment occupancy")
}

// UnavailabilityOverlapping returns manual blocks sharing any instant with
// [dayStart, dayEnd).
func (s *ScheduleReadStore) UnavailabilityOverlapping(ctx context.Context, barberID uuid.UUID, dayStart, dayEnd time.Time) ([]schedule.UnavailabilityWindow, error) {
	rows, err := s.db.Query(ctx, `
		SELECT id, start_time, end_time, reason FROM barber_unavailability
		WHERE barber_id = $1
		  AND start_time < $3
		  AND end_time > $2`,
		barberID, dayStart, dayEnd,
	)
	if err != nil {
		return nil, infra.WrapRepoErr(s.logger, infra.KindDBFailure, "failed to load unavailability", err)
	}
	defer rows.Close()

	var windows []schedule.UnavailabilityWindow
	for rows.Next() {
		w := schedule.UnavailabilityWindow{BarberID: barberID}
		if err := rows.Scan(&w.ID, &w.Start, &w.End, &w.Reason); err != nil {
			return nil, infra.WrapRepoErr(s.logger, infra.KindDBFailure, "failed to scan unavailability", err)
		}
		windows = append(windows, w)
	}
	if err := rows.Err(); err != nil {
		return nil, infra.WrapRepoErr(s.logger, infra.KindDBFailure, "failed to scan unavailability", err)
	}
	return windows, nil
}

func (s *ScheduleReadStore) scanIntervals(rows pgx.Rows, msg string) ([]schedule.Interval, error) {
	var intervals []schedule.Interval
	for rows.Next() {
		var start, end time.Time
		if err := rows.Scan(&start, &end); err != nil {
			return nil, infra.WrapRepoErr(s.logger, infra.KindDBFailure, msg, err)
		}
		intervals = append(intervals, schedule.Interval{Start: start, End: end})
	}
	if err := rows.Err(); err != nil {
		return nil, infra.WrapRepoErr(s.logger, infra.KindDBFailure, msg, err)
	}
	return intervals, nil
}
