package service

import (
	"context"

	"fx_dashboard/internal/models"
	"fx_dashboard/internal/notify"
	"fx_dashboard/pkg/logger"

	licsvc "fx_dashboard/internal/modules/license/service"
)

// Consumer выпускает лицензию по факту оплаты.
type Consumer struct {
	licenses *licsvc.Service
	notifier notify.Notifier
}

func NewConsumer(licenses *licsvc.Service, notifier notify.Notifier) *Consumer {
	return &Consumer{
		licenses: licenses,
		notifier: notifier,
	}
}

func (c *Consumer) OnPurchase(ctx context.Context, ev models.PurchaseEvent) {
	rec, err := c.licenses.Create(ctx, ev.UserID, ev.Tier, ev.PaymentRef)
	if err != nil {
		logger.Error("payments: issue license for %s (%s): %v", ev.UserID, ev.Tier, err)
		c.notifier.Sendf("❗️ Оплата %s: лицензия не выпущена: %v", ev.PaymentRef, err)
		return
	}

	logger.Info("payments: license %s issued, user=%s tier=%s ref=%s",
		rec.ID, ev.UserID, ev.Tier, ev.PaymentRef)
	c.notifier.Sendf("✅ Лицензия %s выпущена, действует до %s",
		ev.Tier, rec.ExpiresAt.Format("2006-01-02"))
}
