package service

import (
	"fmt"
	"net/url"
)

// DefaultProviders — боевой набор источников. Порядок в срезе ничего не значит:
// фетчер каждый раз перемешивает его равномерно.
func DefaultProviders() []Provider {
	return []Provider{
		{
			Name:  "binance",
			Shape: ShapeRows,
			BuildURL: func(instrument, interval string, limit int) string {
				return fmt.Sprintf(
					"https://api.binance.com/api/v3/klines?symbol=%s&interval=%s&limit=%d",
					url.QueryEscape(instrument), url.QueryEscape(interval), limit,
				)
			},
		},
		{
			// MEXC совместим с кляйнами Binance
			Name:  "mexc",
			Shape: ShapeRows,
			BuildURL: func(instrument, interval string, limit int) string {
				return fmt.Sprintf(
					"https://api.mexc.com/api/v3/klines?symbol=%s&interval=%s&limit=%d",
					url.QueryEscape(instrument), url.QueryEscape(interval), limit,
				)
			},
		},
		{
			Name:  "okx",
			Shape: ShapeEnvelope,
			BuildURL: func(instrument, interval string, limit int) string {
				return fmt.Sprintf(
					"https://www.okx.com/api/v5/market/candles?instId=%s&bar=%s&limit=%d",
					url.QueryEscape(dashPair(instrument)), url.QueryEscape(okxBar(interval)), limit,
				)
			},
		},
		{
			Name:  "bybit",
			Shape: ShapeEnvelope,
			BuildURL: func(instrument, interval string, limit int) string {
				return fmt.Sprintf(
					"https://api.bybit.com/v5/market/kline?category=spot&symbol=%s&interval=%s&limit=%d",
					url.QueryEscape(instrument), url.QueryEscape(bybitInterval(interval)), limit,
				)
			},
		},
		{
			Name:  "cryptocompare",
			Shape: ShapeEnvelope,
			BuildURL: func(instrument, interval string, limit int) string {
				base, quote := splitPair(instrument)
				endpoint, aggregate := cryptocompareEndpoint(interval)
				return fmt.Sprintf(
					"https://min-api.cryptocompare.com/data/v2/%s?fsym=%s&tsym=%s&limit=%d&aggregate=%d",
					endpoint, url.QueryEscape(base), url.QueryEscape(quote), limit, aggregate,
				)
			},
		},
	}
}

// okxBar: "1h" -> "1H", минутные без изменений.
func okxBar(interval string) string {
	switch interval {
	case "1h":
		return "1H"
	case "4h":
		return "4H"
	case "1d":
		return "1D"
	default:
		return interval
	}
}

// bybitInterval: v5 принимает минуты числом, день буквой.
func bybitInterval(interval string) string {
	switch interval {
	case "1m":
		return "1"
	case "5m":
		return "5"
	case "15m":
		return "15"
	case "30m":
		return "30"
	case "1h":
		return "60"
	case "4h":
		return "240"
	case "1d":
		return "D"
	default:
		return interval
	}
}

func cryptocompareEndpoint(interval string) (endpoint string, aggregate int) {
	switch interval {
	case "1m":
		return "histominute", 1
	case "5m":
		return "histominute", 5
	case "15m":
		return "histominute", 15
	case "30m":
		return "histominute", 30
	case "4h":
		return "histohour", 4
	case "1d":
		return "histoday", 1
	default:
		return "histohour", 1
	}
}
