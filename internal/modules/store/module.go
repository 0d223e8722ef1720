package store

import (
	"go.uber.org/fx"

	"github.com/bangnguyentx/Crypto-Physics-Momentum/internal/modules/config"
	"github.com/bangnguyentx/Crypto-Physics-Momentum/internal/modules/store/service"
)

func Module() fx.Option {
	return fx.Module("store",
		fx.Provide(
			// файл в конфиге => переживающий рестарт дедуп, иначе in-memory
			func(cfg *config.Config) service.SentLog {
				if cfg.DedupStorePath != "" {
					return service.NewFile(cfg.DedupStorePath, cfg.DedupWindow)
				}
				return service.NewMemory(cfg.DedupWindow)
			},
		),
	)
}
