package service

import (
	"math"
	"reflect"
	"testing"

	"github.com/bangnguyentx/Crypto-Physics-Momentum/internal/models"
)

func candleAt(i int, o, h, l, c float64) models.Candle {
	return models.Candle{
		TS:     1700000000000 + int64(i)*3600_000,
		Open:   o,
		High:   h,
		Low:    l,
		Close:  c,
		Volume: 1,
	}
}

// flatThen — len свечей: плоская сотня, затем заданные close в хвосте.
func flatThen(total int, tail []float64) []models.Candle {
	out := make([]models.Candle, 0, total)
	n := total - len(tail)
	for i := 0; i < n; i++ {
		out = append(out, candleAt(i, 100, 100.5, 99.5, 100))
	}
	prev := 100.0
	for j, c := range tail {
		hi := math.Max(prev, c) + 0.5
		lo := math.Min(prev, c) - 0.5
		out = append(out, candleAt(n+j, prev, hi, lo, c))
		prev = c
	}
	return out
}

func TestDecideLongOnCrashWithUpwardAcceleration(t *testing.T) {
	// резкий слив ниже нижней полосы, последняя свеча — разворот вверх
	candles := flatThen(60, []float64{95, 90, 85, 85.5})

	sig, ok := NewEngine().Decide("BTCUSDT", candles)
	if !ok {
		t.Fatalf("expected LONG signal")
	}
	if sig.Side != models.SideLong {
		t.Fatalf("side = %s, want LONG", sig.Side)
	}
	if sig.Entry != 85.5 {
		t.Errorf("entry = %v, want last close 85.5", sig.Entry)
	}
	if sig.Diagnostics.RSI >= 30 {
		t.Errorf("RSI = %v, want < 30", sig.Diagnostics.RSI)
	}
	if sig.Diagnostics.Acceleration <= 0 {
		t.Errorf("acceleration = %v, want > 0", sig.Diagnostics.Acceleration)
	}
	if sig.StopLoss >= sig.Entry || sig.TakeProfit <= sig.Entry {
		t.Errorf("bad levels: stop=%v take=%v entry=%v", sig.StopLoss, sig.TakeProfit, sig.Entry)
	}
	if sig.Confidence < 30 || sig.Confidence > 95 {
		t.Errorf("confidence = %d out of [30,95]", sig.Confidence)
	}
}

func TestDecideShortOnSpikeWithDownwardAcceleration(t *testing.T) {
	candles := flatThen(60, []float64{105, 110, 115, 114.5})

	sig, ok := NewEngine().Decide("ETHUSDT", candles)
	if !ok {
		t.Fatalf("expected SHORT signal")
	}
	if sig.Side != models.SideShort {
		t.Fatalf("side = %s, want SHORT", sig.Side)
	}
	if sig.Diagnostics.RSI <= 70 {
		t.Errorf("RSI = %v, want > 70", sig.Diagnostics.RSI)
	}
	if sig.StopLoss <= sig.Entry || sig.TakeProfit >= sig.Entry {
		t.Errorf("bad levels: stop=%v take=%v entry=%v", sig.StopLoss, sig.TakeProfit, sig.Entry)
	}
}

func TestDecideNoSignalOnShortSeries(t *testing.T) {
	candles := flatThen(39, []float64{95, 90, 85, 85.5})
	if _, ok := NewEngine().Decide("BTCUSDT", candles); ok {
		t.Fatalf("got signal on %d candles, want none below 40", len(candles))
	}
}

func TestDecideNoSignalOnQuietMarket(t *testing.T) {
	candles := flatThen(60, nil)
	if sig, ok := NewEngine().Decide("BTCUSDT", candles); ok {
		t.Fatalf("got %+v on flat series, want no signal", sig)
	}
}

func TestDecideIdempotent(t *testing.T) {
	candles := flatThen(60, []float64{95, 90, 85, 85.5})
	eng := NewEngine()

	a, okA := eng.Decide("BTCUSDT", candles)
	b, okB := eng.Decide("BTCUSDT", candles)
	if !okA || !okB {
		t.Fatalf("expected signal on both runs")
	}
	if !reflect.DeepEqual(a, b) {
		t.Fatalf("same series produced different signals:\n%+v\n%+v", a, b)
	}
}

func TestPriceLevels(t *testing.T) {
	stop, take, rr := priceLevels(models.SideLong, 100, 2)
	if stop != 97.0 || take != 106.0 || math.Abs(rr-2.0) > 1e-9 {
		t.Fatalf("LONG levels = (%v, %v, %v), want (97, 106, 2)", stop, take, rr)
	}

	stop, take, rr = priceLevels(models.SideShort, 100, 2)
	if stop != 103.0 || take != 94.0 || math.Abs(rr-2.0) > 1e-9 {
		t.Fatalf("SHORT levels = (%v, %v, %v), want (103, 94, 2)", stop, take, rr)
	}

	// нулевая дистанция до стопа — RR не определён
	_, _, rr = priceLevels(models.SideLong, 100, 0)
	if !math.IsNaN(rr) {
		t.Fatalf("rr = %v with zero stop distance, want NaN", rr)
	}
}

func TestConfidenceClamped(t *testing.T) {
	cases := []struct {
		name  string
		side  models.Side
		rsi   float64
		accel float64
		atr   float64
		entry float64
	}{
		{"extreme long", models.SideLong, 0, 1e9, 0.0001, 100},
		{"extreme short", models.SideShort, 100, -1e9, 0.0001, 100},
		{"weak long", models.SideLong, 29.99, 1e-12, 50, 100},
	}
	for _, tc := range cases {
		got := confidence(tc.side, tc.rsi, tc.accel, tc.atr, tc.entry)
		if got < 30 || got > 95 {
			t.Errorf("%s: confidence = %d out of [30,95]", tc.name, got)
		}
	}

	// все бонусы по капу: 70+15+10+5 = 100 -> клампится в 95
	if got := confidence(models.SideLong, 0, 1e9, 0.0001, 100); got != 95 {
		t.Errorf("max confidence = %d, want 95", got)
	}
}
