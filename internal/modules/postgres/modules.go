package postgres

import (
	"context"
	"fmt"

	"go.uber.org/fx"

	"github.com/bangnguyentx/Crypto-Physics-Momentum/internal/modules/config"
	"github.com/bangnguyentx/Crypto-Physics-Momentum/pkg/db"
)

func Module() fx.Option {
	return fx.Module("postgres",
		fx.Provide(
			// nil-менеджер при пустом DSN: подписчики живут в файле
			func(ctx context.Context, cfg *config.Config) (*db.PgTxManager, error) {
				if cfg.DB == "" {
					return nil, nil
				}

				poolMaster, err := db.NewPool(ctx, db.PoolConfig{
					DSN: cfg.DB,
				})
				if err != nil {
					return nil, fmt.Errorf("failed to create poolMaster: %w", err)
				}

				err = poolMaster.Ping(ctx)
				if err != nil {
					return nil, err
				}

				return db.NewPgTxManager(poolMaster), nil
			},
		),
	)
}
