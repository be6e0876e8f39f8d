package signals

import (
	"context"
	"time"

	"go.uber.org/fx"

	"fx_dashboard/internal/helper"
	"fx_dashboard/internal/models"
	"fx_dashboard/internal/modules/config"
	"fx_dashboard/internal/modules/signals/service"
	"fx_dashboard/internal/notify"
	"fx_dashboard/pkg/logger"
)

// сигналы слабее не шлём, только в лог
const notifyStrength = 50

func Module() fx.Option {
	return fx.Module("signals",
		fx.Provide(
			service.NewAnalyzer,
		),

		// периодический скан вочлиста: сильные сигналы уходят в нотифайер
		fx.Invoke(func(
			lc fx.Lifecycle,
			ctx context.Context,
			cfg *config.Config,
			analyzer *service.Analyzer,
			n notify.Notifier,
		) {
			interval := cfg.RefreshInterval
			if interval <= 0 {
				interval = time.Minute
			}
			tf := helper.NormTF(cfg.DefaultTimeframe)

			lc.Append(fx.Hook{
				OnStart: func(_ context.Context) error {
					go func() {
						t := time.NewTicker(interval)
						defer t.Stop()
						for {
							select {
							case <-ctx.Done():
								return
							case <-t.C:
								scan(ctx, analyzer, n, cfg.DefaultPairs, tf)
							}
						}
					}()
					return nil
				},
			})
		}),
	)
}

func scan(ctx context.Context, analyzer *service.Analyzer, n notify.Notifier, pairs []string, tf string) {
	for _, sig := range analyzer.AnalyzeAll(ctx, pairs, tf) {
		if sig.Direction == models.DirectionNeutral {
			continue
		}
		logger.Info("signal: %s %s strength=%d", sig.Pair, sig.Direction, sig.Strength)
		if sig.Strength >= notifyStrength {
			n.Sendf("📡 %s: %s, сила %d", sig.Pair, sig.Direction, sig.Strength)
		}
	}
}
