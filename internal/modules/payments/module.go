package payments

import (
	"context"
	"net/http"

	"go.uber.org/fx"

	"fx_dashboard/internal/models"
	"fx_dashboard/internal/modules/payments/service"
)

func newPurchaseChan() chan models.PurchaseEvent {
	return make(chan models.PurchaseEvent, 64)
}

func asSendOnlyPurchases(ch chan models.PurchaseEvent) chan<- models.PurchaseEvent { return ch }

func Module() fx.Option {
	return fx.Module("payments",
		fx.Provide(
			newPurchaseChan,
			asSendOnlyPurchases,
			service.NewConsumer,
		),
		fx.Invoke(func(
			lc fx.Lifecycle,
			ctx context.Context,
			c *service.Consumer,
			events chan models.PurchaseEvent,
		) {
			lc.Append(fx.Hook{
				OnStart: func(_ context.Context) error {
					go func() {
						for {
							select {
							case <-ctx.Done():
								return
							case ev := <-events:
								c.OnPurchase(ctx, ev)
							}
						}
					}()
					return nil
				},
			})
		}),

		// вебхук оплаты на админском порту
		fx.Invoke(func(mux *http.ServeMux, events chan<- models.PurchaseEvent) {
			mux.Handle("/webhooks/purchase", service.WebhookHandler(events))
		}),
	)
}
