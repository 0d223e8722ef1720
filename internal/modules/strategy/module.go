package strategy

import (
	"go.uber.org/fx"

	"github.com/bangnguyentx/Crypto-Physics-Momentum/internal/modules/strategy/service"
)

func Module() fx.Option {
	return fx.Module("strategy",
		fx.Provide(
			service.NewEngine, // service.Engine
		),
	)
}
