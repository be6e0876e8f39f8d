package service

import (
	"context"
	"time"

	"fx_dashboard/internal/helper"
	"fx_dashboard/internal/models"
	"fx_dashboard/internal/modules/config"
	marketdata "fx_dashboard/internal/modules/marketdata/service"
	"fx_dashboard/internal/notify"
	"fx_dashboard/pkg/lock"
)

// Объём контракта на 1.0 лота — стандартный форексный лот.
const contractSize = 100000

// LicenseChecker — гейт лицензии (license.Service).
type LicenseChecker interface {
	CheckValid(ctx context.Context, userID string) (*models.LicenseRecord, error)
}

// PositionStore — персистентность сделок.
type PositionStore interface {
	Insert(ctx context.Context, p *models.Position) error
	Update(ctx context.Context, p *models.Position) error
	Get(ctx context.Context, id string) (*models.Position, error)
	OpenByUser(ctx context.Context, userID string) ([]models.Position, error)
	ByUser(ctx context.Context, userID string) ([]models.Position, error)
	UsersWithOpen(ctx context.Context) ([]string, error)
}

// PreferencesStore — риск-настройки юзера.
type PreferencesStore interface {
	Get(ctx context.Context, userID string) (*models.RiskPreferences, error)
	Upsert(ctx context.Context, prefs *models.RiskPreferences) error
}

// Engine — жизненный цикл сделок. Сам по себе stateless:
// всё состояние в сторах, межзапросного у движка нет.
// Операции одного юзера сериализуются keyed-локом.
type Engine struct {
	cfg       *config.Config
	licenses  LicenseChecker
	positions PositionStore
	prefs     PreferencesStore
	provider  marketdata.Provider
	notifier  notify.Notifier
	locks     *lock.Keyed

	now func() time.Time
}

func NewEngine(
	cfg *config.Config,
	licenses LicenseChecker,
	positions PositionStore,
	prefs PreferencesStore,
	provider marketdata.Provider,
	notifier notify.Notifier,
) *Engine {
	return &Engine{
		cfg:       cfg,
		licenses:  licenses,
		positions: positions,
		prefs:     prefs,
		provider:  provider,
		notifier:  notifier,
		locks:     lock.NewKeyed(),
		now:       time.Now,
	}
}

// MarkToMarket пересчитывает нереализованный P/L по текущей цене.
// Статус не трогает.
func MarkToMarket(p *models.Position, currentPrice float64) {
	var diff float64
	if p.Side == models.SideBuy {
		diff = currentPrice - p.EntryPrice
	} else {
		diff = p.EntryPrice - currentPrice
	}
	p.ProfitLoss = helper.Round2(diff * p.LotSize * contractSize)
}

// EvaluateExit — пора ли закрывать. SL и TP мониторятся независимо,
// сработал первый достигнутый (одновременно оба истинными быть не могут).
func EvaluateExit(p *models.Position, currentPrice float64) bool {
	if p.Side == models.SideBuy {
		if p.StopLoss > 0 && currentPrice <= p.StopLoss {
			return true
		}
		if p.TakeProfit > 0 && currentPrice >= p.TakeProfit {
			return true
		}
		return false
	}

	if p.StopLoss > 0 && currentPrice >= p.StopLoss {
		return true
	}
	if p.TakeProfit > 0 && currentPrice <= p.TakeProfit {
		return true
	}
	return false
}
