package marketdata

import (
	"context"

	"fx_dashboard/internal/models"
	"fx_dashboard/internal/modules/config"
	"fx_dashboard/internal/modules/marketdata/service"

	"go.uber.org/fx"
)

func Module() fx.Option {
	return fx.Module("marketdata",
		fx.Provide(
			func(cfg *config.Config) service.Provider {
				if cfg.Provider.Mock {
					return service.NewMock()
				}
				return service.NewClient(cfg)
			},
			func(cfg *config.Config) *service.Streamer {
				return service.NewStreamer(cfg.Provider.WSURL)
			},
			// общий буфер тиков для refresh-лупа
			func() chan models.QuoteTick {
				return make(chan models.QuoteTick, 1024)
			},
		),
		fx.Invoke(func(lc fx.Lifecycle, ctx context.Context, cfg *config.Config, s *service.Streamer, out chan models.QuoteTick) {
			if cfg.Provider.WSURL == "" {
				return
			}
			lc.Append(fx.Hook{
				OnStart: func(_ context.Context) error {
					ticks := s.StreamQuotes(ctx, cfg.DefaultPairs)
					go func() {
						for tick := range ticks {
							select {
							case out <- tick:
							default:
								// буфер полон — тик не критичен, следующий догонит
							}
						}
					}()
					return nil
				},
			})
		}),
	)
}
