package telegram

import (
	"context"

	"go.uber.org/fx"

	"github.com/bangnguyentx/Crypto-Physics-Momentum/internal/modules/config"
	wssvc "github.com/bangnguyentx/Crypto-Physics-Momentum/internal/modules/binance_ws/service"
	scannersvc "github.com/bangnguyentx/Crypto-Physics-Momentum/internal/modules/scanner/service"
	"github.com/bangnguyentx/Crypto-Physics-Momentum/internal/modules/telegram_bot/service"
	"github.com/bangnguyentx/Crypto-Physics-Momentum/internal/modules/telegram_bot/service/file"
	"github.com/bangnguyentx/Crypto-Physics-Momentum/internal/modules/telegram_bot/service/pg"
	"github.com/bangnguyentx/Crypto-Physics-Momentum/pkg/db"
)

func Module() fx.Option {
	return fx.Module("telegram",
		// 1. Репозиторий подписчиков: pg при настроенной базе, иначе файл
		fx.Provide(
			func(cfg *config.Config, tx *db.PgTxManager) service.SubscriberStore {
				if tx != nil {
					return pg.NewSubscriber(tx)
				}
				return file.NewSubscriber(cfg.SubscriberStorePath)
			},
		),

		// 2. Сервис Telegram
		fx.Provide(
			service.NewTelegram,
		),

		// 3. Адаптеры: *service.Telegram -> scanner.Notifier, ws-клиент -> PriceSource
		fx.Provide(
			func(t *service.Telegram) scannersvc.Notifier {
				return t
			},
			func(c *wssvc.Client) service.PriceSource {
				return c
			},
		),

		// Запуск long-polling через Lifecycle
		fx.Invoke(
			func(lc fx.Lifecycle, appCtx context.Context, cfg *config.Config, t *service.Telegram) {
				pollCtx, cancel := context.WithCancel(appCtx)
				lc.Append(fx.Hook{
					OnStart: func(context.Context) error {
						if err := t.Start(pollCtx); err != nil {
							return err
						}
						t.SendService(pollCtx, "🚀 Сканер запущен: %d инструментов, таймфрейм %s",
							len(cfg.Scan.Instruments), cfg.Scan.Interval)
						return nil
					},
					OnStop: func(context.Context) error {
						cancel()
						t.Stop()
						return nil
					},
				})
			},
		),
	)
}
