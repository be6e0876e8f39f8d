package service

import (
	"fx_dashboard/internal/helper"
	"fx_dashboard/internal/modules/config"
)

// Watchlist — пары, которые греем и стримим на старте.
type Watchlist struct{ cfg *config.Config }

func NewWatchlist(cfg *config.Config) *Watchlist {
	return &Watchlist{cfg: cfg}
}

// Pairs возвращает нормализованный список без дублей и мусора.
func (w *Watchlist) Pairs() []string {
	seen := make(map[string]struct{}, len(w.cfg.DefaultPairs))
	out := make([]string, 0, len(w.cfg.DefaultPairs))
	for _, raw := range w.cfg.DefaultPairs {
		base, quote, ok := helper.SplitPair(raw)
		if !ok {
			continue
		}
		pair := base + quote
		if _, dup := seen[pair]; dup {
			continue
		}
		seen[pair] = struct{}{}
		out = append(out, pair)
	}
	if len(out) == 0 {
		out = append(out, "EURUSD")
	}
	return out
}
