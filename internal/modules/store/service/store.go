package service

import (
	"time"

	"github.com/bangnguyentx/Crypto-Physics-Momentum/internal/models"
)

// SentLog — узкий контракт дедупликации исходящих сигналов.
// Ключ — (инструмент, сторона); ядро движка сюда не заглядывает,
// это забота обвязки вокруг сканера.
type SentLog interface {
	// WasRecentlySent — отправляли ли (инструмент, сторона) в пределах окна.
	WasRecentlySent(instrument string, side models.Side) bool
	RecordSent(instrument string, side models.Side, at time.Time)
	// PruneOlderThan выбрасывает записи старше cutoff.
	PruneOlderThan(cutoff time.Time)
}
