package repository

import (
	"context"
	"log/slog"
	"time"

	"barberbook/internal/infra"
	"barberbook/internal/infra/db"

	"github.com/google/uuid"
)

type NotificationJob struct {
	ID      uuid.UUID
	Kind    string
	Topic   string
	Payload []byte
	RunAt   time.Time
}

// NotificationRepository persists deferred notification work. Jobs are
// written after a booking commits and drained by the worker.
type NotificationRepository struct {
	db     db.DBTX
	logger *slog.Logger
}

func NewNotificationRepository(dbtx db.DBTX, logger *slog.Logger) *NotificationRepository {
	return &NotificationRepository{db: dbtx, logger: logger}
}

func (r *NotificationRepository) Enqueue(ctx context.Context, kind, topic string, payload []byte, runAt time.Time) error {
	_, err := r.db.Exec(ctx, `
		INSERT INTO notification_jobs (id, kind, topic, payload, run_at, status)
		VALUES ($1, $2, $3, $4, $5, 'pending')`,
		uuid.New(), kind, topic, payload, runAt,
	)
	if err != nil {
		return infra.WrapRepoErr(r.logger, infra.KindDBFailure, "failed to enqueue notification job", err)
	}
	return nil
}

// ClaimDue marks up to limit due jobs as processing and returns them.
// SKIP LOCKED lets multiple worker instances drain the queue without
// contending on the same rows.
func (r *NotificationRepository) ClaimDue(ctx context.Context, now time.Time, limit int) ([]NotificationJob, error) {
	rows, err := r.db.Query(ctx, `
		UPDATE notification_jobs
		SET status = 'processing'
		WHERE id IN (
			SELECT id FROM notification_jobs
			WHERE status = 'pending' AND run_at <= $1
			ORDER BY run_at
			LIMIT $2
			FOR UPDATE SKIP LOCKED
		)
		RETURNING id, kind, topic, payload, run_at`,
		now, limit,
	)
	if err != nil {
		return nil, infra.WrapRepoErr(r.logger, infra.KindDBFailure, "failed to claim notification jobs", err)
	}
	defer rows.Close()

	var jobs []NotificationJob
	for rows.Next() {
		var j NotificationJob
		if err := rows.Scan(&j.ID, &j.Kind, &j.Topic, &j.Payload, &j.RunAt); err != nil {
			return nil, infra.WrapRepoErr(r.logger, infra.KindDBFailure, "failed to scan notification job", err)
		}
		jobs = append(jobs, j)
	}
	if err := rows.Err(); err != nil {
		return nil, infra.WrapRepoErr(r.logger, infra.KindDBFailure, "failed to claim notification jobs", err)
	}
	return jobs, nil
}

func (r *NotificationRepository) MarkDone(ctx context.Context, id uuid.UUID) error {
	_, err := r.db.Exec(ctx, `
		UPDATE notification_jobs SET status = 'done', processed_at = now() WHERE id = $1`,
		id,
	)
	if err != nil {
		return infra.WrapRepoErr(r.logger, infra.KindDBFailure, "failed to mark notification job done", err)
	}
	return nil
}

func (r *NotificationRepository) MarkFailed(ctx context.Context, id uuid.UUID, reason string) error {
	_, err := r.db.Exec(ctx, `
		UPDATE notification_jobs SET status = 'failed', last_error = $2 WHERE id = $1`,
		id, reason,
	)
	if err != nil {
		return infra.WrapRepoErr(r.logger, infra.KindDBFailure, "failed to mark notification job failed", err)
	}
	return nil
}
