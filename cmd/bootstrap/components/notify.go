package components

import (
	"context"

	"barberbook/internal/notify"
	"barberbook/internal/pkg/config"

	"go.uber.org/fx"
)

var NotifyModule = fx.Module("notify",
	fx.Provide(
		NewEmailSender,
		notify.NewWorker,
	),
	fx.Invoke(startNotifyWorker),
)

func NewEmailSender(cfg config.Config) notify.EmailSender {
	return notify.NewSMTPSender(cfg.SMTP)
}

func startNotifyWorker(lc fx.Lifecycle, worker *notify.Worker) {
	lc.Append(fx.Hook{
		OnStart: func(_ context.Context) error {
			return worker.Start()
		},
		OnStop: func(_ context.Context) error {
			worker.Stop()
			return nil
		},
	})
}
