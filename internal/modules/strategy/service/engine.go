package service

import (
	"github.com/bangnguyentx/Crypto-Physics-Momentum/internal/models"
)

// Engine принимает серию свечей и решает, есть ли сигнал.
// ok==false — «нет сигнала», ошибок наружу не бывает: худший исход
// любого сбоя — пропуск цикла по инструменту.
type Engine interface {
	Decide(instrument string, candles []models.Candle) (sig *models.Signal, ok bool)
	Name() string
}

func NewEngine() Engine {
	return &momentumEngine{}
}
