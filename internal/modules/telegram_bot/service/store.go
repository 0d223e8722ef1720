package service

import (
	"context"

	"github.com/bangnguyentx/Crypto-Physics-Momentum/internal/models"
)

// SubscriberStore — хранилище подписчиков (pg или файл, выбирается в модуле).
type SubscriberStore interface {
	Add(ctx context.Context, sub *models.Subscriber) error
	Remove(ctx context.Context, chatID int64) error
	List(ctx context.Context) ([]*models.Subscriber, error)
}

// PriceSource — последняя живая цена инструмента для /status.
type PriceSource interface {
	LastPrice(instrument string) (float64, bool)
}
