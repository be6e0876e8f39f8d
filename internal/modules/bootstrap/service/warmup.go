package service

import (
	"context"
	"fmt"
	"sync"

	"fx_dashboard/internal/helper"
	"fx_dashboard/internal/modules/config"
	"fx_dashboard/internal/notify"

	mdsvc "fx_dashboard/internal/modules/marketdata/service"
)

// Warmuper прогревает провайдера по вочлисту: свечи + индикаторы,
// чтобы первый запрос юзера не ждал холодный REST.
type Warmuper struct {
	provider mdsvc.Provider
	n        notify.Notifier
	cfg      *config.Config

	// ограничитель параллелизма, чтобы не словить rate limit
	sem chan struct{}
}

func NewWarmuper(provider mdsvc.Provider, n notify.Notifier, cfg *config.Config) *Warmuper {
	return &Warmuper{
		provider: provider,
		n:        n,
		cfg:      cfg,
		sem:      make(chan struct{}, 4), // 4 параллельные пары
	}
}

func (w *Warmuper) Warmup(ctx context.Context, pairs []string) error {
	if len(pairs) == 0 {
		return nil
	}

	tf := helper.NormTF(w.cfg.DefaultTimeframe)
	w.n.Sendf("🔥 warmup start: pairs=%d tf=%s", len(pairs), tf)

	var wg sync.WaitGroup
	var mu sync.Mutex
	var firstErr error
	var candles int

	for _, pair := range pairs {
		pair := pair
		wg.Add(1)
		go func() {
			defer wg.Done()
			w.sem <- struct{}{}
			defer func() { <-w.sem }()

			base, quote, ok := helper.SplitPair(pair)
			if !ok {
				return
			}

			series, err := w.provider.GetIntraday(ctx, base, quote, tf)
			if err != nil {
				mu.Lock()
				if firstErr == nil {
					firstErr = fmt.Errorf("warmup candles %s: %w", pair, err)
				}
				mu.Unlock()
				return
			}

			if _, err := w.provider.GetRSI(ctx, base, quote, tf); err != nil {
				mu.Lock()
				if firstErr == nil {
					firstErr = fmt.Errorf("warmup rsi %s: %w", pair, err)
				}
				mu.Unlock()
				return
			}
			if _, err := w.provider.GetMACD(ctx, base, quote, tf); err != nil {
				mu.Lock()
				if firstErr == nil {
					firstErr = fmt.Errorf("warmup macd %s: %w", pair, err)
				}
				mu.Unlock()
				return
			}

			mu.Lock()
			candles += len(series)
			mu.Unlock()
		}()
	}

	wg.Wait()

	if firstErr != nil {
		w.n.Send("⚠️ warmup finished with error: " + firstErr.Error())
		return firstErr
	}

	w.n.Sendf("✅ warmup finished: %d candles cached", candles)
	return nil
}
