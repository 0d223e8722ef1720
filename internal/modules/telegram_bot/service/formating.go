package service

import (
	"fmt"
	"math"
	"strings"

	"github.com/bangnguyentx/Crypto-Physics-Momentum/internal/models"
)

// FormatSignal — текст сигнала для рассылки.
func FormatSignal(sig *models.Signal) string {
	var b strings.Builder

	head := "🟢 LONG"
	if sig.Side == models.SideShort {
		head = "🔴 SHORT"
	}
	fmt.Fprintf(&b, "%s %s\n\n", head, sig.Instrument)
	fmt.Fprintf(&b, "Вход: %s\n", formatPx(sig.Entry))
	fmt.Fprintf(&b, "Тейк: %s\n", formatPx(sig.TakeProfit))
	fmt.Fprintf(&b, "Стоп: %s\n", formatPx(sig.StopLoss))
	fmt.Fprintf(&b, "R/R: %s\n", formatRR(sig.RiskReward))
	fmt.Fprintf(&b, "Уверенность: %d%%\n\n", sig.Confidence)

	d := sig.Diagnostics
	fmt.Fprintf(&b, "RSI=%.1f BB=[%s; %s] accel=%.6f ATR=%s",
		d.RSI, formatPx(d.BollingerLow), formatPx(d.BollingerHigh), d.Acceleration, formatPx(d.ATR))

	return b.String()
}

func formatRR(rr float64) string {
	if math.IsNaN(rr) || math.IsInf(rr, 0) {
		return "—"
	}
	return fmt.Sprintf("%.2f", rr)
}

// formatPx — больше знаков для дешёвых монет.
func formatPx(px float64) string {
	switch {
	case math.Abs(px) >= 100:
		return fmt.Sprintf("%.2f", px)
	case math.Abs(px) >= 1:
		return fmt.Sprintf("%.4f", px)
	default:
		return fmt.Sprintf("%.6f", px)
	}
}
