package helper

import (
	"testing"

	"github.com/bangnguyentx/Crypto-Physics-Momentum/internal/models"
)

func TestNormTF(t *testing.T) {
	cases := map[string]string{
		"60m":  "1h",
		" 1H ": "1h",
		"240m": "4h",
		"d":    "1d",
		"15m":  "15m",
	}
	for in, want := range cases {
		if got := NormTF(in); got != want {
			t.Errorf("NormTF(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestSentKeyRoundTrip(t *testing.T) {
	key := SentKey("BTCUSDT", models.SideLong)
	inst, side, ok := SplitSentKey(key)
	if !ok || inst != "BTCUSDT" || side != models.SideLong {
		t.Fatalf("SplitSentKey(%q) = (%q, %q, %v)", key, inst, side, ok)
	}

	if _, _, ok := SplitSentKey("garbage"); ok {
		t.Error("expected ok=false for key without separator")
	}
	if _, _, ok := SplitSentKey("BTCUSDT:HOLD"); ok {
		t.Error("expected ok=false for unknown side")
	}
}
