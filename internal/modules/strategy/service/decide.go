package service

import (
	"math"
	"time"

	"github.com/bangnguyentx/Crypto-Physics-Momentum/internal/indicator"
	"github.com/bangnguyentx/Crypto-Physics-Momentum/internal/models"
)

const (
	minDecisionCandles = 40

	rsiPeriod       = 14
	atrPeriod       = 14
	bollingerPeriod = 20
	bollingerWidth  = 2.0

	rsiOversold   = 30.0
	rsiOverbought = 70.0

	stopATRMult = 1.5
	takeATRMult = 3.0
)

// momentumEngine — правило входа «перепроданность + пробой полосы + разворот
// ускорения». Условия LONG и SHORT взаимоисключающие по построению; порядок
// проверки LONG -> SHORT сохранён умышленно.
type momentumEngine struct{}

func (e *momentumEngine) Name() string { return "momentum-reversal" }

func (e *momentumEngine) Decide(instrument string, candles []models.Candle) (*models.Signal, bool) {
	if len(candles) < minDecisionCandles {
		return nil, false
	}

	closes := make([]float64, len(candles))
	for i, c := range candles {
		closes[i] = c.Close
	}
	last := len(candles) - 1

	rsi := indicator.RSI(closes, rsiPeriod)[last]
	mid := indicator.SMA(closes, bollingerPeriod)[last]
	sd := indicator.StdDev(closes, bollingerPeriod)[last]
	accel := indicator.Acceleration(closes)[last]
	atr := indicator.ATR(candles, atrPeriod)[last]

	upper := mid + bollingerWidth*sd
	lower := mid - bollingerWidth*sd
	closePx := closes[last]

	for _, v := range []float64{rsi, lower, upper, accel, atr} {
		if !indicator.Finite(v) {
			return nil, false
		}
	}
	if closePx <= 0 {
		return nil, false
	}

	var side models.Side
	switch {
	case rsi < rsiOversold && closePx < lower && accel > 0:
		side = models.SideLong
	case rsi > rsiOverbought && closePx > upper && accel < 0:
		side = models.SideShort
	default:
		return nil, false
	}

	stop, take, rr := priceLevels(side, closePx, atr)

	return &models.Signal{
		Instrument: instrument,
		Side:       side,
		Entry:      closePx,
		TakeProfit: take,
		StopLoss:   stop,
		RiskReward: rr,
		Confidence: confidence(side, rsi, accel, atr, closePx),
		Diagnostics: models.Diagnostics{
			RSI:           rsi,
			BollingerLow:  lower,
			BollingerHigh: upper,
			Acceleration:  accel,
			ATR:           atr,
			Close:         closePx,
		},
		// время последней свечи, не time.Now: повторный прогон по той же
		// серии даёт байт-в-байт тот же сигнал
		CreatedAt: time.UnixMilli(candles[last].TS).UTC(),
	}, true
}

// priceLevels — стоп 1.5*ATR, тейк 3.0*ATR от входа.
// RR = NaN при нулевой дистанции до стопа.
func priceLevels(side models.Side, entry, atr float64) (stop, take, rr float64) {
	if side == models.SideLong {
		stop = entry - stopATRMult*atr
		take = entry + takeATRMult*atr
	} else {
		stop = entry + stopATRMult*atr
		take = entry - takeATRMult*atr
	}

	rr = math.NaN()
	if d := math.Abs(entry - stop); d != 0 {
		rr = math.Abs(take-entry) / d
	}
	return stop, take, rr
}

// confidence — эвристический ранжирующий скор без статистической калибровки.
// Коэффициенты 70/15/10/5 и капы сохраняются как есть ради паритета выдачи.
func confidence(side models.Side, rsi, accel, atr, entry float64) int {
	score := 70.0

	if side == models.SideLong {
		score += math.Min(15, rsiOversold-rsi)
	} else {
		score += math.Min(15, rsi-rsiOverbought)
	}

	score += math.Min(10, math.Abs(accel)/entry*1000)

	if atr/entry < 0.005 {
		score += 5
	}

	v := int(math.Round(score))
	if v < 30 {
		v = 30
	}
	if v > 95 {
		v = 95
	}
	return v
}
