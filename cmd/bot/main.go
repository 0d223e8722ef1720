package main

import (
	"context"
	"log"

	"go.uber.org/fx"

	binancews "github.com/bangnguyentx/Crypto-Physics-Momentum/internal/modules/binance_ws"
	"github.com/bangnguyentx/Crypto-Physics-Momentum/internal/modules/config"
	"github.com/bangnguyentx/Crypto-Physics-Momentum/internal/modules/health"
	"github.com/bangnguyentx/Crypto-Physics-Momentum/internal/modules/market"
	"github.com/bangnguyentx/Crypto-Physics-Momentum/internal/modules/postgres"
	"github.com/bangnguyentx/Crypto-Physics-Momentum/internal/modules/scanner"
	"github.com/bangnguyentx/Crypto-Physics-Momentum/internal/modules/store"
	"github.com/bangnguyentx/Crypto-Physics-Momentum/internal/modules/strategy"
	telegram "github.com/bangnguyentx/Crypto-Physics-Momentum/internal/modules/telegram_bot"
	"github.com/bangnguyentx/Crypto-Physics-Momentum/pkg/logger"
	"github.com/bangnguyentx/Crypto-Physics-Momentum/pkg/tracing"
)

const serviceName = "momentum-scanner"

func main() {
	logger.Init(serviceName)

	app := fx.New(
		fx.Provide(
			func() context.Context {
				return context.Background()
			},
		),
		config.Module(),
		postgres.Module(),
		health.Module(),
		market.Module(),
		strategy.Module(),
		store.Module(),
		binancews.Module(),
		telegram.Module(),
		scanner.Module(),

		fx.Invoke(func(lc fx.Lifecycle, cfg *config.Config) error {
			if cfg.Jaeger.Host == "" {
				return nil
			}
			tracing.SetServiceName(serviceName)
			_, closeTracer, err := tracing.InitTracer(tracing.Config{
				Host: cfg.Jaeger.Host,
				Port: cfg.Jaeger.Port,
			})
			if err != nil {
				return err
			}
			lc.Append(fx.Hook{
				OnStop: func(context.Context) error {
					closeTracer()
					return nil
				},
			})
			return nil
		}),
	)
	if err := app.Start(context.Background()); err != nil {
		log.Fatal(err)
	}
	<-app.Done()
	if err := app.Stop(context.Background()); err != nil {
		log.Fatal(err)
	}
}
