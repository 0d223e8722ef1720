package binancews

import (
	"context"

	"go.uber.org/fx"

	"github.com/bangnguyentx/Crypto-Physics-Momentum/internal/modules/binance_ws/service"
	"github.com/bangnguyentx/Crypto-Physics-Momentum/internal/modules/config"
)

func Module() fx.Option {
	return fx.Module("binance_ws",
		fx.Provide(
			service.NewClient, // *service.Client
		),

		fx.Invoke(func(lc fx.Lifecycle, appCtx context.Context, cfg *config.Config, c *service.Client) {
			if !cfg.Stream.Enabled {
				return
			}
			runCtx, cancel := context.WithCancel(appCtx)
			lc.Append(fx.Hook{
				OnStart: func(context.Context) error {
					go c.Run(runCtx)
					return nil
				},
				OnStop: func(context.Context) error {
					cancel()
					return nil
				},
			})
		}),
	)
}
