package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"fx_dashboard/internal/models"
)

// stubProvider отдаёт фиксированные индикаторы либо ошибку.
type stubProvider struct {
	rsi     models.RSIPoint
	rsiErr  error
	macd    models.MACDPoint
	macdErr error
}

func (s *stubProvider) GetRSI(context.Context, string, string, string) (models.RSIPoint, error) {
	return s.rsi, s.rsiErr
}

func (s *stubProvider) GetMACD(context.Context, string, string, string) (models.MACDPoint, error) {
	return s.macd, s.macdErr
}

func (s *stubProvider) GetIntraday(context.Context, string, string, string) ([]models.Candle, error) {
	return nil, models.ErrProviderUnavailable
}

func (s *stubProvider) CurrentPrice(context.Context, string, string) (float64, error) {
	return 0, models.ErrProviderUnavailable
}

var (
	macdBullish = models.MACDPoint{MACD: 0.0015, Signal: 0.0005, Hist: 0.0010}
	macdBearish = models.MACDPoint{MACD: -0.0015, Signal: -0.0005, Hist: -0.0010}
	// MACD выше сигнальной, но гистограмма отрицательная — ни бычий, ни медвежий
	macdFlat = models.MACDPoint{MACD: 0.0010, Signal: 0.0005, Hist: -0.0001}
)

func TestAnalyze(t *testing.T) {
	ctx := context.Background()

	cases := []struct {
		name      string
		provider  *stubProvider
		direction models.Direction
		strength  int
	}{
		{
			name:      "oversold rsi alone",
			provider:  &stubProvider{rsi: models.RSIPoint{RSI: 25}, macd: macdFlat},
			direction: models.DirectionBuy,
			strength:  30,
		},
		{
			name:      "overbought rsi alone",
			provider:  &stubProvider{rsi: models.RSIPoint{RSI: 75}, macd: macdFlat},
			direction: models.DirectionSell,
			strength:  30,
		},
		{
			name:      "rsi confirmed by macd",
			provider:  &stubProvider{rsi: models.RSIPoint{RSI: 25}, macd: macdBullish},
			direction: models.DirectionBuy,
			strength:  50,
		},
		{
			name:      "macd cannot override opposite rsi",
			provider:  &stubProvider{rsi: models.RSIPoint{RSI: 75}, macd: macdBullish},
			direction: models.DirectionSell,
			strength:  30,
		},
		{
			name:      "macd sets direction on neutral rsi",
			provider:  &stubProvider{rsi: models.RSIPoint{RSI: 50}, macd: macdBearish},
			direction: models.DirectionSell,
			strength:  20,
		},
		{
			name:      "neutral everywhere",
			provider:  &stubProvider{rsi: models.RSIPoint{RSI: 50}, macd: macdFlat},
			direction: models.DirectionNeutral,
			strength:  0,
		},
		{
			name:      "boundary values stay neutral",
			provider:  &stubProvider{rsi: models.RSIPoint{RSI: 30}, macd: macdFlat},
			direction: models.DirectionNeutral,
			strength:  0,
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			analyzer := NewAnalyzer(tc.provider)
			sig, err := analyzer.Analyze(ctx, "EURUSD", "60min")
			require.NoError(t, err)
			assert.Equal(t, tc.direction, sig.Direction)
			assert.Equal(t, tc.strength, sig.Strength)
			assert.Equal(t, "EURUSD", sig.Pair)
		})
	}
}

func TestAnalyzePartialData(t *testing.T) {
	ctx := context.Background()

	t.Run("rsi down, macd carries signal", func(t *testing.T) {
		analyzer := NewAnalyzer(&stubProvider{
			rsiErr: models.ErrProviderUnavailable,
			macd:   macdBullish,
		})
		sig, err := analyzer.Analyze(ctx, "EURUSD", "60min")
		require.NoError(t, err)
		assert.Equal(t, models.DirectionBuy, sig.Direction)
		assert.Equal(t, 20, sig.Strength)
		assert.NotContains(t, sig.Indicators, models.IndicatorRSI)
	})

	t.Run("macd down, rsi carries signal", func(t *testing.T) {
		analyzer := NewAnalyzer(&stubProvider{
			rsi:     models.RSIPoint{RSI: 25},
			macdErr: models.ErrProviderUnavailable,
		})
		sig, err := analyzer.Analyze(ctx, "EURUSD", "60min")
		require.NoError(t, err)
		assert.Equal(t, models.DirectionBuy, sig.Direction)
		assert.Equal(t, 30, sig.Strength)
	})

	t.Run("both down yields neutral", func(t *testing.T) {
		analyzer := NewAnalyzer(&stubProvider{
			rsiErr:  models.ErrProviderUnavailable,
			macdErr: models.ErrProviderUnavailable,
		})
		sig, err := analyzer.Analyze(ctx, "EURUSD", "60min")
		require.NoError(t, err)
		assert.Equal(t, models.DirectionNeutral, sig.Direction)
		assert.Zero(t, sig.Strength)
		assert.Empty(t, sig.Indicators)
	})
}

func TestAnalyzeBadPair(t *testing.T) {
	analyzer := NewAnalyzer(&stubProvider{})
	_, err := analyzer.Analyze(context.Background(), "EUR", "60min")
	assert.Error(t, err)
}

func TestAnalyzeAll(t *testing.T) {
	analyzer := NewAnalyzer(&stubProvider{rsi: models.RSIPoint{RSI: 25}, macd: macdFlat})

	signals := analyzer.AnalyzeAll(context.Background(), []string{"EURUSD", "bad", "GBPUSD"}, "60min")
	require.Len(t, signals, 2)
	assert.Equal(t, "EURUSD", signals[0].Pair)
	assert.Equal(t, "GBPUSD", signals[1].Pair)
}
