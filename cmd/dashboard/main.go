package main

import (
	"context"
	"log"

	"go.uber.org/fx"

	"fx_dashboard/internal/modules/bootstrap"
	"fx_dashboard/internal/modules/config"
	"fx_dashboard/internal/modules/health"
	"fx_dashboard/internal/modules/license"
	"fx_dashboard/internal/modules/marketdata"
	"fx_dashboard/internal/modules/notifier"
	"fx_dashboard/internal/modules/payments"
	"fx_dashboard/internal/modules/postgres"
	"fx_dashboard/internal/modules/signals"
	"fx_dashboard/internal/modules/trading"
	"fx_dashboard/pkg/logger"
	"fx_dashboard/pkg/tracing"
)

const serviceName = "fx-dashboard"

func main() {
	if err := logger.Init(serviceName); err != nil {
		log.Fatal(err)
	}

	app := fx.New(
		fx.Provide(
			func() context.Context {
				return context.Background()
			},
		),
		config.Module(),
		postgres.Module(),
		notifier.Module(),
		license.Module(),
		marketdata.Module(),
		signals.Module(),
		trading.Module(),
		payments.Module(),
		health.Module(),
		bootstrap.Module(),

		fx.Invoke(func(lc fx.Lifecycle, cfg *config.Config) {
			if cfg.Jaeger.Host == "" {
				return
			}
			tracing.SetServiceName(serviceName)
			_, closeTracer, err := tracing.InitTracer(tracing.Config{
				Host: cfg.Jaeger.Host,
				Port: cfg.Jaeger.Port,
			})
			if err != nil {
				logger.Error("jaeger init: %v", err)
				return
			}
			lc.Append(fx.Hook{
				OnStop: func(context.Context) error {
					closeTracer()
					return nil
				},
			})
		}),
	)

	if err := app.Start(context.Background()); err != nil {
		log.Fatal(err)
	}
	<-app.Done()

	if err := app.Stop(context.Background()); err != nil {
		log.Fatal(err)
	}
}
