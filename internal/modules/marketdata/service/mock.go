package service

import (
	"context"
	"math/rand"
	"sync"
	"time"

	"fx_dashboard/internal/helper"
	"fx_dashboard/internal/models"
)

// Mock — провайдер для локальных запусков без API-ключа.
// Случайное блуждание вокруг базовой цены, индикаторы в нейтральной зоне.
type Mock struct {
	mu   sync.Mutex
	rnd  *rand.Rand
	last map[string]float64 // pair -> последняя цена
}

func NewMock() *Mock {
	return &Mock{
		rnd:  rand.New(rand.NewSource(time.Now().UnixNano())),
		last: make(map[string]float64),
	}
}

const mockBasePrice = 1.0850

func (m *Mock) GetIntraday(_ context.Context, base, quote, _ string) ([]models.Candle, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	pair := base + quote
	price, ok := m.last[pair]
	if !ok {
		price = mockBasePrice
	}

	now := time.Now()
	candles := make([]models.Candle, 0, 100)
	for i := 0; i < 100; i++ {
		open := price + m.rnd.Float64()*0.0020 - 0.0010
		closep := open + m.rnd.Float64()*0.0010 - 0.0005
		high := max(open, closep) + m.rnd.Float64()*0.0003
		low := min(open, closep) - m.rnd.Float64()*0.0003

		candles = append(candles, models.Candle{
			Time:  now.Add(-time.Duration(5*i) * time.Minute),
			Open:  helper.Round5(open),
			High:  helper.Round5(high),
			Low:   helper.Round5(low),
			Close: helper.Round5(closep),
		})
		if i == 0 {
			m.last[pair] = closep
		}
	}

	return candles, nil
}

func (m *Mock) GetRSI(_ context.Context, _, _, _ string) (models.RSIPoint, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	return models.RSIPoint{
		RSI:       30 + m.rnd.Float64()*40,
		Timestamp: time.Now(),
	}, nil
}

func (m *Mock) GetMACD(_ context.Context, _, _, _ string) (models.MACDPoint, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	return models.MACDPoint{
		MACD:      m.rnd.Float64()*0.002 - 0.001,
		Signal:    m.rnd.Float64()*0.002 - 0.001,
		Hist:      m.rnd.Float64()*0.001 - 0.0005,
		Timestamp: time.Now(),
	}, nil
}

func (m *Mock) CurrentPrice(ctx context.Context, pair, timeframe string) (float64, error) {
	base, quote, ok := helper.SplitPair(pair)
	if !ok {
		base, quote = pair, ""
	}
	candles, err := m.GetIntraday(ctx, base, quote, timeframe)
	if err != nil {
		return 0, err
	}
	return candles[0].Close, nil
}
