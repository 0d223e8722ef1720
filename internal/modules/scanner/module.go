package scanner

import (
	"context"

	"go.uber.org/fx"

	healthsvc "github.com/bangnguyentx/Crypto-Physics-Momentum/internal/modules/health/service"
	marketsvc "github.com/bangnguyentx/Crypto-Physics-Momentum/internal/modules/market/service"
	"github.com/bangnguyentx/Crypto-Physics-Momentum/internal/modules/scanner/service"
)

func Module() fx.Option {
	return fx.Module("scanner",
		fx.Provide(
			// адаптер: *market.Fetcher -> scanner.CandleSource
			func(f *marketsvc.Fetcher) service.CandleSource {
				return f
			},
			service.NewScanner,
		),

		fx.Invoke(func(lc fx.Lifecycle, appCtx context.Context, s *service.Scanner, state *healthsvc.State) {
			runCtx, cancel := context.WithCancel(appCtx)
			lc.Append(fx.Hook{
				OnStart: func(context.Context) error {
					state.SetReady(true)
					go s.Run(runCtx)
					return nil
				},
				OnStop: func(context.Context) error {
					cancel()
					state.SetReady(false)
					return nil
				},
			})
		}),
	)
}
