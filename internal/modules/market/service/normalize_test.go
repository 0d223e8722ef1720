package service

import (
	"errors"
	"testing"
)

func TestNormalizeRowsMixedTypes(t *testing.T) {
	// числа и строки вперемешку, как у binance/mexc
	body := []byte(`[
		[1700000000000, "100.5", "101.0", 99.5, "100.0", "12.3"],
		[1700003600000, 100.0, 102.0, "99.0", 101.5, 8.1]
	]`)

	candles, err := Normalize(ShapeRows, body)
	if err != nil {
		t.Fatalf("Normalize: %v", err)
	}
	if len(candles) != 2 {
		t.Fatalf("got %d candles, want 2", len(candles))
	}
	if candles[0].Open != 100.5 || candles[1].Close != 101.5 {
		t.Errorf("bad coercion: %+v", candles)
	}
}

func TestNormalizeDropsBadCandleOnly(t *testing.T) {
	body := []byte(`[
		[1700000000000, "100", "101", "99", "100", "1"],
		[1700003600000, "not-a-number", "101", "99", "100", "1"],
		[1700007200000, "100", "101", "99", "100", "1"]
	]`)

	candles, err := Normalize(ShapeRows, body)
	if err != nil {
		t.Fatalf("Normalize: %v", err)
	}
	if len(candles) != 2 {
		t.Fatalf("got %d candles, want 2 (bad row dropped, not fatal)", len(candles))
	}
}

func TestNormalizeReversesNewestFirst(t *testing.T) {
	// OKX отдаёт newest-first
	body := []byte(`{"code":"0","msg":"","data":[
		["1700007200000","102","103","101","102","5","x","y","1"],
		["1700003600000","101","102","100","101","5","x","y","1"],
		["1700000000000","100","101","99","100","5","x","y","1"]
	]}`)

	candles, err := Normalize(ShapeEnvelope, body)
	if err != nil {
		t.Fatalf("Normalize: %v", err)
	}
	if len(candles) != 3 {
		t.Fatalf("got %d candles, want 3", len(candles))
	}
	for i := 1; i < len(candles); i++ {
		if candles[i].TS <= candles[i-1].TS {
			t.Fatalf("not ascending after normalize: %d <= %d", candles[i].TS, candles[i-1].TS)
		}
	}
}

func TestNormalizeNestedEnvelopeObjects(t *testing.T) {
	// cryptocompare: Data.Data, объекты, секунды вместо миллисекунд
	body := []byte(`{"Response":"Success","Data":{"Data":[
		{"time":1700000000,"open":100,"high":101,"low":99,"close":100.5,"volumefrom":3.2},
		{"time":1700003600,"open":100.5,"high":102,"low":100,"close":101,"volumefrom":2.1}
	]}}`)

	candles, err := Normalize(ShapeEnvelope, body)
	if err != nil {
		t.Fatalf("Normalize: %v", err)
	}
	if len(candles) != 2 {
		t.Fatalf("got %d candles, want 2", len(candles))
	}
	if candles[0].TS != 1700000000000 {
		t.Errorf("seconds not converted to millis: %d", candles[0].TS)
	}
	if candles[1].Volume != 2.1 {
		t.Errorf("volumefrom alias not picked: %+v", candles[1])
	}
}

func TestNormalizeBybitResultList(t *testing.T) {
	body := []byte(`{"retCode":0,"result":{"category":"spot","list":[
		["1700003600000","101","102","100","101.5","7","700"],
		["1700000000000","100","101","99","101","5","500"]
	]}}`)

	candles, err := Normalize(ShapeEnvelope, body)
	if err != nil {
		t.Fatalf("Normalize: %v", err)
	}
	if len(candles) != 2 || candles[0].TS != 1700000000000 {
		t.Fatalf("bad bybit parse: %+v", candles)
	}
}

func TestNormalizeArrayOfObjects(t *testing.T) {
	body := []byte(`[
		{"t":1700000000000,"o":"100","h":"101","l":"99","c":"100.2","v":"4"},
		{"t":1700003600000,"o":"100.2","h":"101.5","l":"99.9","c":"101","v":"6"}
	]`)

	candles, err := Normalize(ShapeObjects, body)
	if err != nil {
		t.Fatalf("Normalize: %v", err)
	}
	if len(candles) != 2 || candles[1].Close != 101 {
		t.Fatalf("bad objects parse: %+v", candles)
	}
}

func TestNormalizeMalformed(t *testing.T) {
	cases := []struct {
		name  string
		shape Shape
		body  string
	}{
		{"not json", ShapeRows, `garbage`},
		{"envelope without list", ShapeEnvelope, `{"code":"0","msg":"ok"}`},
		{"unknown shape", Shape("mystery"), `[]`},
	}
	for _, tc := range cases {
		_, err := Normalize(tc.shape, []byte(tc.body))
		if !errors.Is(err, ErrMalformedResponse) {
			t.Errorf("%s: err = %v, want ErrMalformedResponse", tc.name, err)
		}
	}
}

func TestSplitPair(t *testing.T) {
	if base, quote := splitPair("BTCUSDT"); base != "BTC" || quote != "USDT" {
		t.Fatalf("splitPair(BTCUSDT) = %s/%s", base, quote)
	}
	if got := dashPair("SOLUSDT"); got != "SOL-USDT" {
		t.Fatalf("dashPair(SOLUSDT) = %s", got)
	}
}
