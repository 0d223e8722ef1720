package helper

import (
	"strings"

	"github.com/bangnguyentx/Crypto-Physics-Momentum/internal/models"
)

// NormTF приводит пользовательский таймфрейм к каноническому виду.
func NormTF(raw string) string {
	s := strings.TrimSpace(strings.ToLower(raw))
	switch s {
	case "60m", "1h":
		return "1h"
	case "240m", "4h":
		return "4h"
	case "24h", "1d", "d":
		return "1d"
	default:
		return s
	}
}

// SentKey — ключ дедупа "инструмент:сторона".
func SentKey(instrument string, side models.Side) string {
	return instrument + ":" + string(side)
}

func SplitSentKey(key string) (instrument string, side models.Side, ok bool) {
	i := strings.LastIndexByte(key, ':')
	if i <= 0 || i >= len(key)-1 {
		return "", models.SideNone, false
	}

	instrument = key[:i]
	switch models.Side(key[i+1:]) {
	case models.SideLong:
		side = models.SideLong
	case models.SideShort:
		side = models.SideShort
	default:
		return "", models.SideNone, false
	}

	return instrument, side, true
}
