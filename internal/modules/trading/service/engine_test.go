package service

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"fx_dashboard/internal/models"
	"fx_dashboard/internal/modules/config"
	"fx_dashboard/internal/modules/trading/service/memory"
)

type stubLicense struct {
	rec *models.LicenseRecord
	err error
}

func (s *stubLicense) CheckValid(context.Context, string) (*models.LicenseRecord, error) {
	return s.rec, s.err
}

// stubProvider отдаёт цены из карты, отсутствующая пара — отказ.
type stubProvider struct {
	prices map[string]float64
}

func (s *stubProvider) CurrentPrice(_ context.Context, pair, _ string) (float64, error) {
	price, ok := s.prices[pair]
	if !ok {
		return 0, fmt.Errorf("%w: no quote for %s", models.ErrProviderUnavailable, pair)
	}
	return price, nil
}

func (s *stubProvider) GetIntraday(context.Context, string, string, string) ([]models.Candle, error) {
	return nil, models.ErrProviderUnavailable
}

func (s *stubProvider) GetRSI(context.Context, string, string, string) (models.RSIPoint, error) {
	return models.RSIPoint{}, models.ErrProviderUnavailable
}

func (s *stubProvider) GetMACD(context.Context, string, string, string) (models.MACDPoint, error) {
	return models.MACDPoint{}, models.ErrProviderUnavailable
}

type stubNotifier struct {
	messages []string
}

func (s *stubNotifier) Send(msg string)                  { s.messages = append(s.messages, msg) }
func (s *stubNotifier) Sendf(format string, args ...any) { s.Send(fmt.Sprintf(format, args...)) }

type engineFixture struct {
	engine    *Engine
	license   *stubLicense
	provider  *stubProvider
	notifier  *stubNotifier
	positions *memory.Positions
	prefs     *memory.Preferences
	now       time.Time
}

func newEngineFixture(t *testing.T) *engineFixture {
	t.Helper()

	cfg := &config.Config{
		DefaultPairs:          []string{"EURUSD", "GBPUSD"},
		DefaultTimeframe:      "1h",
		DefaultRiskPct:        1.0,
		DefaultMaxOpenTrades:  3,
		DefaultTradingEnabled: true,
	}

	f := &engineFixture{
		license:   &stubLicense{rec: &models.LicenseRecord{MaxTrades: 10, Status: models.LicenseActive}},
		provider:  &stubProvider{prices: map[string]float64{"EURUSD": 1.10000, "GBPUSD": 1.25000}},
		notifier:  &stubNotifier{},
		positions: memory.NewPositions(),
		prefs:     memory.NewPreferences(),
		now:       time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC),
	}
	f.engine = NewEngine(cfg, f.license, f.positions, f.prefs, f.provider, f.notifier)
	f.engine.now = func() time.Time { return f.now }
	return f
}

func TestOpenTrade(t *testing.T) {
	ctx := context.Background()

	t.Run("happy path", func(t *testing.T) {
		f := newEngineFixture(t)

		pos, err := f.engine.OpenTrade(ctx, "alice", "EURUSD", models.SideBuy, nil)
		require.NoError(t, err)
		assert.Equal(t, models.PositionOpen, pos.Status)
		assert.InDelta(t, 1.10000, pos.EntryPrice, 1e-9)
		assert.InDelta(t, 0.01, pos.LotSize, 1e-9)
		assert.InDelta(t, 1.09800, pos.StopLoss, 1e-9)
		assert.InDelta(t, 1.10400, pos.TakeProfit, 1e-9)
		assert.Zero(t, pos.ProfitLoss)
		assert.NotEmpty(t, f.notifier.messages)
	})

	t.Run("license gate first", func(t *testing.T) {
		f := newEngineFixture(t)
		f.license.rec, f.license.err = nil, models.ErrNoLicense

		_, err := f.engine.OpenTrade(ctx, "alice", "EURUSD", models.SideBuy, nil)
		assert.ErrorIs(t, err, models.ErrNoLicense)
	})

	t.Run("trading disabled", func(t *testing.T) {
		f := newEngineFixture(t)
		require.NoError(t, f.prefs.Upsert(ctx, &models.RiskPreferences{
			UserID:         "alice",
			Timeframe:      "1h",
			RiskPercentage: 1.0,
			MaxTrades:      3,
			TradingEnabled: false,
		}))

		_, err := f.engine.OpenTrade(ctx, "alice", "EURUSD", models.SideBuy, nil)
		assert.ErrorIs(t, err, models.ErrTradingDisabled)
	})

	t.Run("license caps preferences", func(t *testing.T) {
		f := newEngineFixture(t)
		f.license.rec.MaxTrades = 1 // настройки разрешают 3

		_, err := f.engine.OpenTrade(ctx, "alice", "EURUSD", models.SideBuy, nil)
		require.NoError(t, err)

		_, err = f.engine.OpenTrade(ctx, "alice", "GBPUSD", models.SideBuy, nil)
		assert.ErrorIs(t, err, models.ErrMaxTradesReached)
	})

	t.Run("preferences cap below license", func(t *testing.T) {
		f := newEngineFixture(t)
		require.NoError(t, f.prefs.Upsert(ctx, &models.RiskPreferences{
			UserID:         "alice",
			Timeframe:      "1h",
			RiskPercentage: 1.0,
			MaxTrades:      1,
			TradingEnabled: true,
		}))

		_, err := f.engine.OpenTrade(ctx, "alice", "EURUSD", models.SideBuy, nil)
		require.NoError(t, err)

		_, err = f.engine.OpenTrade(ctx, "alice", "GBPUSD", models.SideSell, nil)
		assert.ErrorIs(t, err, models.ErrMaxTradesReached)
	})

	t.Run("slot frees after close", func(t *testing.T) {
		f := newEngineFixture(t)
		f.license.rec.MaxTrades = 1

		pos, err := f.engine.OpenTrade(ctx, "alice", "EURUSD", models.SideBuy, nil)
		require.NoError(t, err)

		_, err = f.engine.CloseTrade(ctx, "alice", pos.ID, 1.10100)
		require.NoError(t, err)

		_, err = f.engine.OpenTrade(ctx, "alice", "GBPUSD", models.SideSell, nil)
		assert.NoError(t, err)
	})

	t.Run("no quote", func(t *testing.T) {
		f := newEngineFixture(t)

		_, err := f.engine.OpenTrade(ctx, "alice", "USDJPY", models.SideBuy, nil)
		assert.ErrorIs(t, err, models.ErrProviderUnavailable)
	})
}

func TestCloseTrade(t *testing.T) {
	ctx := context.Background()

	t.Run("realizes profit", func(t *testing.T) {
		f := newEngineFixture(t)
		f.provider.prices["EURUSD"] = 1.08500

		pos, err := f.engine.OpenTrade(ctx, "alice", "EURUSD", models.SideBuy, nil)
		require.NoError(t, err)

		closed, err := f.engine.CloseTrade(ctx, "alice", pos.ID, 1.09000)
		require.NoError(t, err)
		assert.Equal(t, models.PositionClosed, closed.Status)
		assert.InDelta(t, 1.09000, closed.ExitPrice, 1e-9)
		assert.InDelta(t, 5.00, closed.ProfitLoss, 1e-9)
		assert.Equal(t, f.now, closed.ClosedAt)
	})

	t.Run("sell side loses on rising price", func(t *testing.T) {
		f := newEngineFixture(t)
		f.provider.prices["EURUSD"] = 1.08500

		pos, err := f.engine.OpenTrade(ctx, "alice", "EURUSD", models.SideSell, nil)
		require.NoError(t, err)

		closed, err := f.engine.CloseTrade(ctx, "alice", pos.ID, 1.09000)
		require.NoError(t, err)
		assert.InDelta(t, -5.00, closed.ProfitLoss, 1e-9)
	})

	t.Run("double close", func(t *testing.T) {
		f := newEngineFixture(t)

		pos, err := f.engine.OpenTrade(ctx, "alice", "EURUSD", models.SideBuy, nil)
		require.NoError(t, err)

		_, err = f.engine.CloseTrade(ctx, "alice", pos.ID, 1.10100)
		require.NoError(t, err)

		_, err = f.engine.CloseTrade(ctx, "alice", pos.ID, 1.10200)
		assert.ErrorIs(t, err, models.ErrAlreadyClosed)
	})

	t.Run("cancel has no pl", func(t *testing.T) {
		f := newEngineFixture(t)

		pos, err := f.engine.OpenTrade(ctx, "alice", "EURUSD", models.SideBuy, nil)
		require.NoError(t, err)

		cancelled, err := f.engine.CancelTrade(ctx, "alice", pos.ID)
		require.NoError(t, err)
		assert.Equal(t, models.PositionCancelled, cancelled.Status)
		assert.Zero(t, cancelled.ProfitLoss)

		_, err = f.engine.CloseTrade(ctx, "alice", pos.ID, 1.10100)
		assert.ErrorIs(t, err, models.ErrAlreadyClosed)
	})
}

func TestRefreshAllOpen(t *testing.T) {
	ctx := context.Background()

	t.Run("marks to market", func(t *testing.T) {
		f := newEngineFixture(t)

		pos, err := f.engine.OpenTrade(ctx, "alice", "EURUSD", models.SideBuy, nil)
		require.NoError(t, err)

		f.provider.prices["EURUSD"] = 1.10100
		report, err := f.engine.RefreshAllOpen(ctx, "alice")
		require.NoError(t, err)
		assert.Equal(t, 1, report.Refreshed)
		assert.Zero(t, report.Closed)
		assert.Empty(t, report.Failures)

		got, err := f.positions.Get(ctx, pos.ID)
		require.NoError(t, err)
		assert.InDelta(t, 1.00, got.ProfitLoss, 1e-9)
		assert.Equal(t, models.PositionOpen, got.Status)
	})

	t.Run("closes at take profit", func(t *testing.T) {
		f := newEngineFixture(t)

		pos, err := f.engine.OpenTrade(ctx, "alice", "EURUSD", models.SideBuy, nil)
		require.NoError(t, err)

		f.provider.prices["EURUSD"] = 1.10400
		report, err := f.engine.RefreshAllOpen(ctx, "alice")
		require.NoError(t, err)
		assert.Equal(t, 1, report.Closed)

		got, err := f.positions.Get(ctx, pos.ID)
		require.NoError(t, err)
		assert.Equal(t, models.PositionClosed, got.Status)
		assert.InDelta(t, 4.00, got.ProfitLoss, 1e-9)
	})

	t.Run("closes at stop loss", func(t *testing.T) {
		f := newEngineFixture(t)

		pos, err := f.engine.OpenTrade(ctx, "alice", "EURUSD", models.SideBuy, nil)
		require.NoError(t, err)

		f.provider.prices["EURUSD"] = 1.09800
		_, err = f.engine.RefreshAllOpen(ctx, "alice")
		require.NoError(t, err)

		got, err := f.positions.Get(ctx, pos.ID)
		require.NoError(t, err)
		assert.Equal(t, models.PositionClosed, got.Status)
		assert.InDelta(t, -2.00, got.ProfitLoss, 1e-9)
	})

	t.Run("price failure degrades one position only", func(t *testing.T) {
		f := newEngineFixture(t)

		eur, err := f.engine.OpenTrade(ctx, "alice", "EURUSD", models.SideBuy, nil)
		require.NoError(t, err)
		gbp, err := f.engine.OpenTrade(ctx, "alice", "GBPUSD", models.SideBuy, nil)
		require.NoError(t, err)

		// первый проход: обе пары котируются, у обеих появляется P/L
		f.provider.prices["EURUSD"] = 1.10100
		f.provider.prices["GBPUSD"] = 1.25100
		_, err = f.engine.RefreshAllOpen(ctx, "alice")
		require.NoError(t, err)

		// второй проход: GBPUSD отвалился, EURUSD пересчитывается
		delete(f.provider.prices, "GBPUSD")
		f.provider.prices["EURUSD"] = 1.10200

		report, err := f.engine.RefreshAllOpen(ctx, "alice")
		require.NoError(t, err)
		assert.Equal(t, 1, report.Refreshed)
		require.Len(t, report.Failures, 1)
		assert.Equal(t, gbp.ID, report.Failures[0].PositionID)
		assert.ErrorIs(t, report.Failures[0].Err, models.ErrProviderUnavailable)

		gotEur, err := f.positions.Get(ctx, eur.ID)
		require.NoError(t, err)
		assert.InDelta(t, 2.00, gotEur.ProfitLoss, 1e-9)

		// P/L деградировавшей позиции остаётся прежним, не нулевым
		gotGbp, err := f.positions.Get(ctx, gbp.ID)
		require.NoError(t, err)
		assert.InDelta(t, 1.00, gotGbp.ProfitLoss, 1e-9)
		assert.Equal(t, models.PositionOpen, gotGbp.Status)
	})
}

func TestOnTick(t *testing.T) {
	ctx := context.Background()
	f := newEngineFixture(t)

	eur, err := f.engine.OpenTrade(ctx, "alice", "EURUSD", models.SideBuy, nil)
	require.NoError(t, err)
	gbp, err := f.engine.OpenTrade(ctx, "alice", "GBPUSD", models.SideBuy, nil)
	require.NoError(t, err)

	f.engine.OnTick(ctx, models.QuoteTick{Pair: "EURUSD", Price: 1.10400, At: f.now})

	gotEur, err := f.positions.Get(ctx, eur.ID)
	require.NoError(t, err)
	assert.Equal(t, models.PositionClosed, gotEur.Status)

	// чужую пару тик не трогает
	gotGbp, err := f.positions.Get(ctx, gbp.ID)
	require.NoError(t, err)
	assert.Equal(t, models.PositionOpen, gotGbp.Status)
	assert.Zero(t, gotGbp.ProfitLoss)
}

func TestAccountSummary(t *testing.T) {
	ctx := context.Background()
	f := newEngineFixture(t)

	seed := []models.Position{
		{ID: "p1", UserID: "alice", Pair: "EURUSD", Side: models.SideBuy,
			Status: models.PositionClosed, ProfitLoss: 150, OpenedAt: f.now},
		{ID: "p2", UserID: "alice", Pair: "GBPUSD", Side: models.SideSell,
			Status: models.PositionClosed, ProfitLoss: -50, OpenedAt: f.now},
		{ID: "p3", UserID: "alice", Pair: "EURUSD", Side: models.SideBuy,
			Status: models.PositionOpen, ProfitLoss: 0, OpenedAt: f.now},
		{ID: "p4", UserID: "bob", Pair: "EURUSD", Side: models.SideBuy,
			Status: models.PositionClosed, ProfitLoss: 999, OpenedAt: f.now},
	}
	for i := range seed {
		require.NoError(t, f.positions.Insert(ctx, &seed[i]))
	}

	sum, err := f.engine.AccountSummary(ctx, "alice")
	require.NoError(t, err)

	assert.Equal(t, 3, sum.Total)
	assert.Equal(t, 1, sum.Wins)
	assert.Equal(t, 1, sum.Losses)
	assert.InDelta(t, 33.33, sum.WinRate, 0.01)
	assert.InDelta(t, 100.00, sum.TotalProfit, 1e-9)
	assert.Equal(t, 1, sum.ActiveCount)
	require.Len(t, sum.Open, 1)
	assert.Equal(t, "p3", sum.Open[0].ID)
}

func TestPreferences(t *testing.T) {
	ctx := context.Background()

	t.Run("defaults created on first access", func(t *testing.T) {
		f := newEngineFixture(t)

		prefs, err := f.engine.Preferences(ctx, "alice")
		require.NoError(t, err)
		assert.Equal(t, []string{"EURUSD", "GBPUSD"}, prefs.Pairs)
		assert.InDelta(t, 1.0, prefs.RiskPercentage, 1e-9)
		assert.Equal(t, 3, prefs.MaxTrades)
		assert.True(t, prefs.TradingEnabled)

		stored, err := f.prefs.Get(ctx, "alice")
		require.NoError(t, err)
		require.NotNil(t, stored)
	})

	t.Run("update validates", func(t *testing.T) {
		f := newEngineFixture(t)

		err := f.engine.UpdatePreferences(ctx, &models.RiskPreferences{
			UserID: "alice", RiskPercentage: 0, MaxTrades: 3,
		})
		assert.Error(t, err)

		err = f.engine.UpdatePreferences(ctx, &models.RiskPreferences{
			UserID: "alice", RiskPercentage: 2.0, MaxTrades: 0,
		})
		assert.Error(t, err)

		err = f.engine.UpdatePreferences(ctx, &models.RiskPreferences{
			UserID: "alice", RiskPercentage: 2.0, MaxTrades: 5, Timeframe: "1h",
		})
		require.NoError(t, err)

		prefs, err := f.engine.Preferences(ctx, "alice")
		require.NoError(t, err)
		assert.InDelta(t, 2.0, prefs.RiskPercentage, 1e-9)
		assert.Equal(t, 5, prefs.MaxTrades)
	})
}
