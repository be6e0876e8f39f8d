package bootstrap

import (
	"context"

	"go.uber.org/fx"

	bootstrap "fx_dashboard/internal/modules/bootstrap/service"
	"fx_dashboard/pkg/logger"

	healthsvc "fx_dashboard/internal/modules/health/service"
)

func Module() fx.Option {
	return fx.Module("bootstrap",
		fx.Provide(
			bootstrap.NewWatchlist,
			bootstrap.NewWarmuper,
		),
		fx.Invoke(func(lc fx.Lifecycle, ctx context.Context, wl *bootstrap.Watchlist, wu *bootstrap.Warmuper, state *healthsvc.State) {
			lc.Append(fx.Hook{
				OnStart: func(_ context.Context) error {
					go func() {
						pairs := wl.Pairs()
						if err := wu.Warmup(ctx, pairs); err != nil {
							logger.Error("boot: warmup: %v", err)
						} else {
							logger.Info("boot: warmup done, %d pairs", len(pairs))
						}
						// даже деградированный прогрев не блокирует сервис
						state.SetReady(true)
					}()
					return nil
				},
			})
		}),
	)
}
