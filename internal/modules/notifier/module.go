package notifier

import (
	"context"

	"go.uber.org/fx"

	"fx_dashboard/internal/modules/config"
	"fx_dashboard/internal/notify"
)

func Module() fx.Option {
	return fx.Module("notifier",
		fx.Provide(
			func(cfg *config.Config) (notify.Notifier, error) {
				if cfg.Telegram.Token == "" {
					return notify.NewStdout(), nil
				}
				return notify.NewTelegram(cfg.Telegram.Token, cfg.Telegram.ChatID)
			},
		),
		fx.Invoke(func(lc fx.Lifecycle, ctx context.Context, n notify.Notifier) {
			tg, ok := n.(*notify.Telegram)
			if !ok {
				return
			}
			lc.Append(fx.Hook{
				OnStart: func(_ context.Context) error {
					return tg.Start(ctx)
				},
				OnStop: func(_ context.Context) error {
					tg.Stop()
					return nil
				},
			})
		}),
	)
}
