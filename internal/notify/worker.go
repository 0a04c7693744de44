package notify

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"barberbook/internal/infra/repository"
	"barberbook/internal/pkg/clock"

	"github.com/google/uuid"
	"github.com/robfig/cron/v3"
)

const claimBatchSize = 50

// JobStore is the slice of notification storage the worker drains.
type JobStore interface {
	ClaimDue(ctx context.Context, now time.Time, limit int) ([]repository.NotificationJob, error)
	MarkDone(ctx context.Context, id uuid.UUID) error
	MarkFailed(ctx context.Context, id uuid.UUID, reason string) error
}

type bookingPayload struct {
	AppointmentID uuid.UUID `json:"appointment_id"`
	UserID        uuid.UUID `json:"user_id"`
	UserEmail     string    `json:"user_email"`
	BarberName    string    `json:"barber_name"`
	ServiceTitle  string    `json:"service_title"`
	StartTime     time.Time `json:"start_time"`
}

// Worker drains due notification jobs on a schedule and delivers them by
// mail. Delivery is at-least-once; a crash between send and MarkDone can
// repeat a mail, which is acceptable for booking notices.
type Worker struct {
	jobs   JobStore
	sender EmailSender
	clock  clock.Clock
	cron   *cron.Cron
	loc    *time.Location
}

func NewWorker(jobs JobStore, sender EmailSender, clk clock.Clock, loc *time.Location) *Worker {
	return &Worker{
		jobs:   jobs,
		sender: sender,
		clock:  clk,
		cron:   cron.New(cron.WithLocation(loc)),
		loc:    loc,
	}
}

func (w *Worker) Start() error {
	if _, err := w.cron.AddFunc("* * * * *", func() {
		ctx, cancel := context.WithTimeout(context.Background(), 55*time.Second)
		defer cancel()
		w.Drain(ctx)
	}); err != nil {
		return err
	}
	w.cron.Start()
	return nil
}

func (w *Worker) Stop() {
	ctx := w.cron.Stop()
	<-ctx.Done()
}

// Drain claims and delivers every job that is due at the current instant.
func (w *Worker) Drain(ctx context.Context) {
	jobs, err := w.jobs.ClaimDue(ctx, w.clock.Now(), claimBatchSize)
	if err != nil {
		slog.Error("failed to claim notification jobs", "error", err)
		return
	}

	for _, job := range jobs {
		if err := w.deliver(job); err != nil {
			slog.Warn("notification delivery failed", "job_id", job.ID, "kind", job.Kind, "error", err)
			if markErr := w.jobs.MarkFailed(ctx, job.ID, err.Error()); markErr != nil {
				slog.Error("failed to mark notification job failed", "job_id", job.ID, "error", markErr)
			}
			continue
		}
		if err := w.jobs.MarkDone(ctx, job.ID); err != nil {
			slog.Error("failed to mark notification job done", "job_id", job.ID, "error", err)
		}
	}
}

func (w *Worker) deliver(job repository.NotificationJob) error {
	var p bookingPayload
	if err := json.Unmarshal(job.Payload, &p); err != nil {
		return fmt.Errorf("malformed payload: %w", err)
	}

	subject, body := w.render(job.Kind, p)
	return w.sender.Send(p.UserEmail, subject, body)
}

func (w *Worker) render(kind string, p bookingPayload) (subject, body string) {
	when := p.StartTime.In(w.loc).Format("Mon, 02 Jan 2006 at 15:04")

	switch kind {
	case "reminder":
		subject = "Reminder: your appointment is coming up"
		body = fmt.Sprintf(
			"Your %s with %s starts soon, on %s.\n\nSee you there!",
			p.ServiceTitle, p.BarberName, when,
		)
	default:
		subject = "Your appointment is booked"
		body = fmt.Sprintf(
			"Your %s with %s is confirmed for %s.\n\nBooking reference: %s",
			p.ServiceTitle, p.BarberName, when, p.AppointmentID,
		)
	}
	return subject, body
}
