package service

import (
	"os"

	"gopkg.in/yaml.v2"

	"fx_dashboard/internal/models"
	"fx_dashboard/pkg/logger"
)

// Дефолтная таблица тарифов. Срок везде 30 дней.
func defaultTiers() map[models.Tier]models.TierSpec {
	return map[models.Tier]models.TierSpec{
		models.TierBasic: {
			Price:        29.99,
			DurationDays: 30,
			MaxTrades:    3,
			Features:     []string{"basic_signals", "manual_trading"},
		},
		models.TierPremium: {
			Price:        79.99,
			DurationDays: 30,
			MaxTrades:    10,
			Features:     []string{"advanced_signals", "auto_trading", "email_alerts"},
		},
		models.TierProfessional: {
			Price:        199.99,
			DurationDays: 30,
			MaxTrades:    50,
			Features: []string{
				"advanced_signals", "auto_trading", "email_alerts",
				"priority_support", "custom_strategies",
			},
		},
	}
}

// TierTable — тарифы лицензий. Читается при старте, дальше только чтение.
type TierTable struct {
	specs map[models.Tier]models.TierSpec
}

// NewTierTable: дефолты + оверрайды из yaml-файла, если он есть.
func NewTierTable(path string) *TierTable {
	specs := defaultTiers()

	if path != "" {
		raw, err := os.ReadFile(path)
		if err == nil {
			var overrides map[models.Tier]models.TierSpec
			if err := yaml.Unmarshal(raw, &overrides); err != nil {
				logger.Error("tiers file %s unreadable, using defaults: %v", path, err)
			} else {
				for tier, spec := range overrides {
					specs[tier] = spec
				}
			}
		}
	}

	return &TierTable{specs: specs}
}

func (t *TierTable) Spec(tier models.Tier) (models.TierSpec, bool) {
	spec, ok := t.specs[tier]
	return spec, ok
}
