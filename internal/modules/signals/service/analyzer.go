package service

import (
	"context"
	"fmt"
	"time"

	"fx_dashboard/internal/helper"
	"fx_dashboard/internal/models"
	marketdata "fx_dashboard/internal/modules/marketdata/service"
	"fx_dashboard/pkg/logger"
)

const (
	rsiOversold   = 30
	rsiOverbought = 70

	rsiWeight  = 30
	macdWeight = 20
)

// Analyzer собирает направление и силу сигнала из RSI и MACD.
type Analyzer struct {
	provider marketdata.Provider
}

func NewAnalyzer(provider marketdata.Provider) *Analyzer {
	return &Analyzer{provider: provider}
}

// Analyze — сигнал по паре. Индикаторы независимые: отвал одного
// не роняет анализ, просто не добавляет силы.
//
// Прецедент жёсткий: RSI задаёт направление, MACD только подтверждает
// (NEUTRAL или то же направление). Перебить противоположный RSI MACD
// не может.
func (a *Analyzer) Analyze(ctx context.Context, pair, timeframe string) (models.Signal, error) {
	base, quote, ok := helper.SplitPair(pair)
	if !ok {
		return models.Signal{}, fmt.Errorf("signals.Analyze: bad pair %q", pair)
	}

	sig := models.Signal{
		Pair:       pair,
		Timeframe:  timeframe,
		Direction:  models.DirectionNeutral,
		Indicators: make(map[string]float64),
		At:         time.Now(),
	}

	rsi, rsiErr := a.provider.GetRSI(ctx, base, quote, timeframe)
	if rsiErr != nil {
		logger.Error("signals: rsi fetch failed for %s: %v", pair, rsiErr)
	} else {
		sig.Indicators[models.IndicatorRSI] = rsi.RSI
		switch {
		case rsi.RSI < rsiOversold:
			sig.Direction = models.DirectionBuy
			sig.Strength += rsiWeight
		case rsi.RSI > rsiOverbought:
			sig.Direction = models.DirectionSell
			sig.Strength += rsiWeight
		}
	}

	macd, macdErr := a.provider.GetMACD(ctx, base, quote, timeframe)
	if macdErr != nil {
		logger.Error("signals: macd fetch failed for %s: %v", pair, macdErr)
	} else {
		sig.Indicators[models.IndicatorMACD] = macd.MACD
		sig.Indicators[models.IndicatorMACDSignal] = macd.Signal
		sig.Indicators[models.IndicatorMACDHist] = macd.Hist

		bullish := macd.MACD > macd.Signal && macd.Hist > 0
		bearish := macd.MACD < macd.Signal && macd.Hist < 0

		switch {
		case bullish && (sig.Direction == models.DirectionBuy || sig.Direction == models.DirectionNeutral):
			sig.Direction = models.DirectionBuy
			sig.Strength += macdWeight
		case bearish && (sig.Direction == models.DirectionSell || sig.Direction == models.DirectionNeutral):
			sig.Direction = models.DirectionSell
			sig.Strength += macdWeight
		}
	}

	if sig.Strength > 100 {
		sig.Strength = 100
	}

	return sig, nil
}

// AnalyzeAll — сигналы по всем парам юзера, битые пары пропускаем.
func (a *Analyzer) AnalyzeAll(ctx context.Context, pairs []string, timeframe string) []models.Signal {
	out := make([]models.Signal, 0, len(pairs))
	for _, pair := range pairs {
		sig, err := a.Analyze(ctx, pair, timeframe)
		if err != nil {
			logger.Error("signals: analyze %s: %v", pair, err)
			continue
		}
		out = append(out, sig)
	}
	return out
}
