package models

import "time"

// Candle — одна OHLCV-свеча, TS в миллисекундах epoch.
type Candle struct {
	TS     int64   `json:"ts"`
	Open   float64 `json:"open"`
	High   float64 `json:"high"`
	Low    float64 `json:"low"`
	Close  float64 `json:"close"`
	Volume float64 `json:"volume"`
}

func (c Candle) Time() time.Time { return time.UnixMilli(c.TS) }

// MinUsableCandles — серия короче этого считается непригодной для анализа.
const MinUsableCandles = 30
