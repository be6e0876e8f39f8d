package trading

import (
	"context"
	"strconv"
	"time"

	"go.uber.org/fx"

	"fx_dashboard/internal/models"
	"fx_dashboard/internal/modules/config"
	licsvc "fx_dashboard/internal/modules/license/service"
	"fx_dashboard/internal/modules/trading/service"
	"fx_dashboard/internal/modules/trading/service/memory"
	"fx_dashboard/internal/modules/trading/service/pg"
	"fx_dashboard/internal/notify"
	"fx_dashboard/pkg/db"
	"fx_dashboard/pkg/logger"

	healthsvc "fx_dashboard/internal/modules/health/service"
)

func Module() fx.Option {
	return fx.Module("trading",
		fx.Provide(
			func(txm *db.PgTxManager) service.PositionStore {
				if txm == nil {
					return memory.NewPositions()
				}
				return pg.NewPositions(txm)
			},
			func(txm *db.PgTxManager) service.PreferencesStore {
				if txm == nil {
					return memory.NewPreferences()
				}
				return pg.NewPreferences(txm)
			},
			func(s *licsvc.Service) service.LicenseChecker {
				return s
			},
			service.NewEngine,
		),

		fx.Invoke(AttachNotifierSummary),

		// фоновый пересчёт открытых позиций: таймер + тики стримера
		fx.Invoke(func(
			lc fx.Lifecycle,
			ctx context.Context,
			cfg *config.Config,
			engine *service.Engine,
			positions service.PositionStore,
			ticks chan models.QuoteTick,
			state *healthsvc.State,
		) {
			interval := cfg.RefreshInterval
			if interval <= 0 {
				interval = time.Minute
			}

			lc.Append(fx.Hook{
				OnStart: func(_ context.Context) error {
					go func() {
						t := time.NewTicker(interval)
						defer t.Stop()
						for {
							select {
							case <-ctx.Done():
								return
							case tick := <-ticks:
								state.SetStreamConnected(true)
								engine.OnTick(ctx, tick)
							case <-t.C:
								refreshAll(ctx, engine, positions)
								state.TouchRefresh(time.Now())
							}
						}
					}()
					return nil
				},
			})
		}),
	)
}

func refreshAll(ctx context.Context, engine *service.Engine, positions service.PositionStore) {
	users, err := positions.UsersWithOpen(ctx)
	if err != nil {
		logger.Error("refresh loop: list users: %v", err)
		return
	}
	for _, userID := range users {
		report, err := engine.RefreshAllOpen(ctx, userID)
		if err != nil {
			logger.Error("refresh loop: user %s: %v", userID, err)
			continue
		}
		if len(report.Failures) > 0 {
			logger.Error("refresh loop: user %s: %d positions degraded", userID, len(report.Failures))
		}
	}
}

// AttachNotifierSummary подключает /summary к движку после сборки графа.
func AttachNotifierSummary(n notify.Notifier, engine *service.Engine, cfg *config.Config) {
	if tg, ok := n.(*notify.Telegram); ok {
		tg.AttachSummary(engine, userIDForChat(cfg))
	}
}

func userIDForChat(cfg *config.Config) string {
	// личный чат: отождествляем юзера дашборда с chat_id
	return "tg:" + strconv.FormatInt(cfg.Telegram.ChatID, 10)
}
