// Package indicator — чистые функции над ценовыми рядами.
// «Ещё не вычислимо» кодируется как math.NaN(), никогда как ноль:
// подмена нуля сдвигает границы сигналов на длину прогрева.
package indicator

import (
	"math"

	"github.com/bangnguyentx/Crypto-Physics-Momentum/internal/models"
)

// Finite — значение определено и пригодно для решения.
func Finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}

func undefined(n int) []float64 {
	out := make([]float64, n)
	for i := range out {
		out[i] = math.NaN()
	}
	return out
}

// SMA — скользящее среднее по хвостовому окну period.
// Пока окно не заполнено — NaN, частичное среднее не считаем.
func SMA(values []float64, period int) []float64 {
	out := undefined(len(values))
	if period <= 0 || len(values) < period {
		return out
	}
	var sum float64
	for i, v := range values {
		sum += v
		if i >= period {
			sum -= values[i-period]
		}
		if i >= period-1 {
			out[i] = sum / float64(period)
		}
	}
	return out
}

// StdDev — популяционное стандартное отклонение (делим на period, не period-1)
// по тому же определению окна, что и SMA.
func StdDev(values []float64, period int) []float64 {
	out := undefined(len(values))
	if period <= 0 || len(values) < period {
		return out
	}
	for i := period - 1; i < len(values); i++ {
		win := values[i-period+1 : i+1]
		var sum float64
		for _, v := range win {
			sum += v
		}
		mean := sum / float64(period)
		var ss float64
		for _, v := range win {
			d := v - mean
			ss += d * d
		}
		out[i] = math.Sqrt(ss / float64(period))
	}
	return out
}

// RSI по Уайлдеру: сид — простое среднее gain/loss по первым period дельтам,
// дальше экспоненциальное сглаживание avg = (avg*(period-1) + new) / period.
// Первый определённый индекс — period (0-based).
func RSI(closes []float64, period int) []float64 {
	out := undefined(len(closes))
	if period <= 0 || len(closes) < period+1 {
		return out
	}

	var avgGain, avgLoss float64
	for i := 1; i <= period; i++ {
		d := closes[i] - closes[i-1]
		if d > 0 {
			avgGain += d
		} else {
			avgLoss -= d
		}
	}
	avgGain /= float64(period)
	avgLoss /= float64(period)
	out[period] = rsiValue(avgGain, avgLoss)

	for i := period + 1; i < len(closes); i++ {
		d := closes[i] - closes[i-1]
		var gain, loss float64
		if d > 0 {
			gain = d
		} else {
			loss = -d
		}
		avgGain = (avgGain*float64(period-1) + gain) / float64(period)
		avgLoss = (avgLoss*float64(period-1) + loss) / float64(period)
		out[i] = rsiValue(avgGain, avgLoss)
	}
	return out
}

func rsiValue(avgGain, avgLoss float64) float64 {
	// при нулевых потерях RSI насыщается до 100, деления на ноль нет
	if avgLoss == 0 {
		return 100
	}
	rs := avgGain / avgLoss
	return 100 - 100/(1+rs)
}

// ATR по Уайлдеру: TR_i = max(high-low, |high-prevClose|, |low-prevClose|),
// сид — простое среднее первых period TR, дальше сглаживание как у RSI.
// Если TR-ряд короче period — среднее имеющихся TR во все индексы
// (вырожденный прогрев, в боевом скане не встречается: limit >= 120).
func ATR(candles []models.Candle, period int) []float64 {
	out := undefined(len(candles))
	if period <= 0 || len(candles) < 2 {
		return out
	}

	tr := make([]float64, 0, len(candles)-1)
	for i := 1; i < len(candles); i++ {
		tr = append(tr, trueRange(candles[i], candles[i-1].Close))
	}

	if len(tr) < period {
		var sum float64
		for _, v := range tr {
			sum += v
		}
		mean := sum / float64(len(tr))
		for i := range out {
			out[i] = mean
		}
		return out
	}

	var atr float64
	for i := 0; i < period; i++ {
		atr += tr[i]
	}
	atr /= float64(period)
	out[period] = atr

	for i := period; i < len(tr); i++ {
		atr = (atr*float64(period-1) + tr[i]) / float64(period)
		out[i+1] = atr
	}
	return out
}

func trueRange(c models.Candle, prevClose float64) float64 {
	tr := c.High - c.Low
	if v := math.Abs(c.High - prevClose); v > tr {
		tr = v
	}
	if v := math.Abs(c.Low - prevClose); v > tr {
		tr = v
	}
	return tr
}

// PriceChanges — поэлементное изменение close; change[0] = 0, не NaN —
// это влияет на первое окно SMA-3 скорости.
func PriceChanges(closes []float64) []float64 {
	out := make([]float64, len(closes))
	for i := 1; i < len(closes); i++ {
		out[i] = closes[i] - closes[i-1]
	}
	return out
}

// Velocity — SMA-3 ряда изменений цены.
func Velocity(closes []float64) []float64 {
	return SMA(PriceChanges(closes), 3)
}

// Acceleration — первая разность скорости; accel[0] = 0.
func Acceleration(closes []float64) []float64 {
	v := Velocity(closes)
	out := undefined(len(v))
	if len(out) == 0 {
		return out
	}
	out[0] = 0
	for i := 1; i < len(v); i++ {
		out[i] = v[i] - v[i-1]
	}
	return out
}
