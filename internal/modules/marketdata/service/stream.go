package service

import (
	"context"
	"encoding/json"
	"time"

	"github.com/gorilla/websocket"

	"fx_dashboard/internal/models"
	"fx_dashboard/pkg/logger"
)

// Streamer — WebSocket-стрим котировок: один коннект на весь watchlist.
// Даёт дашборду живой mark-to-market без постоянного REST-поллинга.
type Streamer struct {
	url    string
	dialer *websocket.Dialer
}

func NewStreamer(url string) *Streamer {
	return &Streamer{
		url:    url,
		dialer: &websocket.Dialer{},
	}
}

// StreamQuotes подписывается на пары и гонит тики в канал.
// Реконнект с паузой, keepalive ping каждые 20s.
func (s *Streamer) StreamQuotes(ctx context.Context, pairs []string) <-chan models.QuoteTick {
	ch := make(chan models.QuoteTick)

	go func() {
		defer close(ch)

		if s.url == "" || len(pairs) == 0 {
			return
		}

		for {
			select {
			case <-ctx.Done():
				return
			default:
			}

			logger.Info("quotes ws connect: %d pairs", len(pairs))
			conn, _, err := s.dialer.Dial(s.url, nil)
			if err != nil {
				logger.Error("quotes ws dial: %v", err)
				select {
				case <-ctx.Done():
					return
				case <-time.After(time.Second):
				}
				continue
			}

			sub := map[string]any{
				"action": "subscribe",
				"pairs":  pairs,
			}
			if err := conn.WriteJSON(sub); err != nil {
				logger.Error("quotes ws subscribe: %v", err)
				_ = conn.Close()
				continue
			}

			stopPing := make(chan struct{})
			go func() {
				defer close(stopPing)
				t := time.NewTicker(20 * time.Second)
				defer t.Stop()
				for {
					select {
					case <-ctx.Done():
						return
					case <-stopPing:
						return
					case <-t.C:
						_ = conn.WriteJSON(map[string]string{"action": "ping"})
					}
				}
			}()

			for {
				_, msg, err := conn.ReadMessage()
				if err != nil {
					logger.Error("quotes ws read: %v", err)
					_ = conn.Close()
					break
				}

				var frame struct {
					Pair  string  `json:"pair"`
					Price float64 `json:"price"`
					TsMs  int64   `json:"ts"`
				}
				if err := json.Unmarshal(msg, &frame); err != nil {
					continue
				}
				if frame.Pair == "" || frame.Price <= 0 {
					continue
				}

				tick := models.QuoteTick{
					Pair:  frame.Pair,
					Price: frame.Price,
					At:    time.UnixMilli(frame.TsMs),
				}

				select {
				case ch <- tick:
				case <-ctx.Done():
					_ = conn.Close()
					return
				}
			}
		}
	}()

	return ch
}
