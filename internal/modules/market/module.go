package market

import (
	"go.uber.org/fx"

	"github.com/bangnguyentx/Crypto-Physics-Momentum/internal/modules/market/service"
)

func Module() fx.Option {
	return fx.Module("market",
		fx.Provide(
			service.DefaultProviders, // []service.Provider
			service.NewFetcher,       // *service.Fetcher
		),
	)
}
