package license

import (
	"fx_dashboard/internal/modules/config"
	"fx_dashboard/internal/modules/license/service"
	"fx_dashboard/internal/modules/license/service/memory"
	"fx_dashboard/internal/modules/license/service/pg"
	"fx_dashboard/pkg/db"

	"go.uber.org/fx"
)

func Module() fx.Option {
	return fx.Module("license",
		fx.Provide(
			// ключи подписи — синглтон на процесс
			func(cfg *config.Config) (*service.Keys, error) {
				return service.NewKeys(cfg.LicensePrivateKey, cfg.LicensePublicKey)
			},
			func(cfg *config.Config) *service.TierTable {
				return service.NewTierTable(cfg.TiersFile)
			},
			service.NewCodec,

			// стор: pg при наличии DSN, иначе memory
			func(txm *db.PgTxManager) service.Store {
				if txm == nil {
					return memory.NewLicenses()
				}
				return pg.NewLicenses(txm)
			},

			service.NewService,
		),
	)
}
