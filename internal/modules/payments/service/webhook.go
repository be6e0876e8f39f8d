package service

import (
	"io"
	"net/http"

	"github.com/bytedance/sonic"

	"fx_dashboard/internal/models"
	"fx_dashboard/pkg/logger"
)

// максимум тела вебхука, защита от мусора
const maxWebhookBody = 64 << 10

// WebhookHandler принимает событие оплаты и ставит его в очередь.
// Обработка асинхронная: платёжке отвечаем 202 сразу, лицензию
// выпускает консьюмер.
func WebhookHandler(events chan<- models.PurchaseEvent) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
			return
		}

		body, err := io.ReadAll(io.LimitReader(r.Body, maxWebhookBody))
		if err != nil {
			http.Error(w, "read body", http.StatusBadRequest)
			return
		}

		var ev struct {
			UserID     string `json:"user_id"`
			Tier       string `json:"tier"`
			PaymentRef string `json:"payment_ref"`
		}
		if err := sonic.Unmarshal(body, &ev); err != nil {
			http.Error(w, "bad json", http.StatusBadRequest)
			return
		}
		if ev.UserID == "" || ev.Tier == "" {
			http.Error(w, "user_id and tier are required", http.StatusBadRequest)
			return
		}

		select {
		case events <- models.PurchaseEvent{
			UserID:     ev.UserID,
			Tier:       models.Tier(ev.Tier),
			PaymentRef: ev.PaymentRef,
		}:
			w.WriteHeader(http.StatusAccepted)
		default:
			logger.Error("payments: purchase queue full, dropping event for %s", ev.UserID)
			http.Error(w, "queue full", http.StatusServiceUnavailable)
		}
	})
}
