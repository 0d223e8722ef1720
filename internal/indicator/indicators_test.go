package indicator

import (
	"math"
	"testing"

	"github.com/bangnguyentx/Crypto-Physics-Momentum/internal/models"
)

func almostEqual(a, b float64) bool {
	return math.Abs(a-b) < 1e-9
}

func TestSMAWarmupAndValues(t *testing.T) {
	out := SMA([]float64{1, 2, 3, 4, 5}, 3)

	if !math.IsNaN(out[0]) || !math.IsNaN(out[1]) {
		t.Fatalf("expected NaN before window fills, got %v", out[:2])
	}
	want := []float64{2, 3, 4}
	for i, w := range want {
		if !almostEqual(out[i+2], w) {
			t.Errorf("out[%d] = %v, want %v", i+2, out[i+2], w)
		}
	}
}

func TestSMAShortInputAllUndefined(t *testing.T) {
	out := SMA([]float64{1, 2}, 3)
	for i, v := range out {
		if !math.IsNaN(v) {
			t.Fatalf("out[%d] = %v, want NaN", i, v)
		}
	}
}

func TestStdDevPopulation(t *testing.T) {
	// окно [1..5]: mean=3, population variance=2
	out := StdDev([]float64{1, 2, 3, 4, 5}, 5)
	if !almostEqual(out[4], math.Sqrt(2)) {
		t.Fatalf("population stddev = %v, want %v", out[4], math.Sqrt(2))
	}
}

func TestRSISaturatesAt100(t *testing.T) {
	closes := make([]float64, 30)
	for i := range closes {
		closes[i] = 100 + float64(i) // только рост, avgLoss == 0
	}
	out := RSI(closes, 14)
	if !almostEqual(out[len(out)-1], 100) {
		t.Fatalf("RSI on monotonic rise = %v, want 100", out[len(out)-1])
	}
}

func TestRSIWithinBounds(t *testing.T) {
	closes := make([]float64, 120)
	px := 100.0
	for i := range closes {
		if i%3 == 0 {
			px -= 1.7
		} else {
			px += 0.9
		}
		closes[i] = px
	}
	out := RSI(closes, 14)
	for i, v := range out {
		if i < 14 {
			if !math.IsNaN(v) {
				t.Fatalf("RSI[%d] = %v before warmup, want NaN", i, v)
			}
			continue
		}
		if v < 0 || v > 100 {
			t.Fatalf("RSI[%d] = %v out of [0,100]", i, v)
		}
	}
}

func TestRSIShortInputAllUndefined(t *testing.T) {
	out := RSI([]float64{1, 2, 3}, 14)
	for i, v := range out {
		if !math.IsNaN(v) {
			t.Fatalf("RSI[%d] = %v on short input, want NaN", i, v)
		}
	}
}

func candlesFromCloses(closes []float64) []models.Candle {
	out := make([]models.Candle, len(closes))
	for i, c := range closes {
		out[i] = models.Candle{
			TS:    int64(i) * 60_000,
			Open:  c,
			High:  c + 1,
			Low:   c - 1,
			Close: c,
		}
	}
	return out
}

func TestATRNonNegativeAndWarmup(t *testing.T) {
	closes := make([]float64, 60)
	for i := range closes {
		closes[i] = 100 + math.Sin(float64(i)/3)*5
	}
	out := ATR(candlesFromCloses(closes), 14)
	for i, v := range out {
		if i < 14 {
			if !math.IsNaN(v) {
				t.Fatalf("ATR[%d] = %v before warmup, want NaN", i, v)
			}
			continue
		}
		if v < 0 {
			t.Fatalf("ATR[%d] = %v, want >= 0", i, v)
		}
	}
}

func TestATRDegenerateShortSeries(t *testing.T) {
	// TR-ряд короче периода: среднее имеющихся TR транслируется во все индексы
	candles := candlesFromCloses([]float64{100, 101, 99, 100})
	out := ATR(candles, 14)

	first := out[0]
	if math.IsNaN(first) {
		t.Fatalf("expected broadcast mean, got NaN")
	}
	for i, v := range out {
		if !almostEqual(v, first) {
			t.Errorf("ATR[%d] = %v, want broadcast %v", i, v, first)
		}
	}
}

func TestPriceChangesFirstIsZero(t *testing.T) {
	out := PriceChanges([]float64{5, 7, 6})
	if out[0] != 0 {
		t.Fatalf("change[0] = %v, want 0", out[0])
	}
	if !almostEqual(out[1], 2) || !almostEqual(out[2], -1) {
		t.Fatalf("changes = %v, want [0 2 -1]", out)
	}
}

func TestVelocityAccelerationWarmup(t *testing.T) {
	closes := []float64{100, 101, 103, 102, 104, 105}

	v := Velocity(closes)
	if !math.IsNaN(v[0]) || !math.IsNaN(v[1]) {
		t.Fatalf("velocity defined too early: %v", v[:2])
	}
	// окно SMA-3 включает change[0]=0: (0+1+2)/3
	if !almostEqual(v[2], 1) {
		t.Fatalf("velocity[2] = %v, want 1", v[2])
	}

	a := Acceleration(closes)
	if a[0] != 0 {
		t.Fatalf("accel[0] = %v, want 0", a[0])
	}
	if !math.IsNaN(a[2]) {
		t.Fatalf("accel[2] = %v, want NaN (velocity[1] undefined)", a[2])
	}
	if !Finite(a[3]) {
		t.Fatalf("accel[3] undefined, want finite")
	}
}
