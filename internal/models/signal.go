package models

import "time"

type Side string

const (
	SideNone  Side = ""
	SideLong  Side = "LONG"
	SideShort Side = "SHORT"
)

// Diagnostics — значения индикаторов на момент решения, идут в сообщение и в лог.
type Diagnostics struct {
	RSI           float64 `json:"rsi"`
	BollingerLow  float64 `json:"bollinger_lower"`
	BollingerHigh float64 `json:"bollinger_upper"`
	Acceleration  float64 `json:"acceleration"`
	ATR           float64 `json:"atr"`
	Close         float64 `json:"close"`
}

// Signal — итог решения по инструменту.
// RiskReward = NaN когда дистанция до стопа нулевая.
type Signal struct {
	Instrument  string      `json:"instrument"`
	Side        Side        `json:"side"`
	Entry       float64     `json:"entry"`
	TakeProfit  float64     `json:"take_profit"`
	StopLoss    float64     `json:"stop_loss"`
	RiskReward  float64     `json:"risk_reward"`
	Confidence  int         `json:"confidence"`
	Diagnostics Diagnostics `json:"diagnostics"`
	CreatedAt   time.Time   `json:"created_at"`
}
