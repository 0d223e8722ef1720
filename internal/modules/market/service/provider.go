package service

import "strings"

// Shape — форма ответа источника. Разбор выбирается по тегу,
// а не по сравнению имён провайдеров.
type Shape string

const (
	// ShapeRows — массив массивов: [ts, open, high, low, close, volume, ...]
	ShapeRows Shape = "rows"
	// ShapeObjects — массив объектов с OHLCV-полями
	ShapeObjects Shape = "objects"
	// ShapeEnvelope — объект-конверт с вложенным списком (data / result.list / Data.Data)
	ShapeEnvelope Shape = "envelope"
)

// Provider — описание источника свечей. Иммутабельно, собирается на старте;
// порядок между провайдерами семантики не несёт.
type Provider struct {
	Name     string
	Shape    Shape
	BuildURL func(instrument, interval string, limit int) string
	Headers  map[string]string
}

var knownQuotes = []string{"USDT", "USDC", "FDUSD", "BUSD", "BTC", "ETH"}

// splitPair — "BTCUSDT" -> ("BTC", "USDT"). Если котировку не узнали,
// отдаём инструмент как есть с USDT по умолчанию.
func splitPair(instrument string) (base, quote string) {
	up := strings.ToUpper(instrument)
	for _, q := range knownQuotes {
		if strings.HasSuffix(up, q) && len(up) > len(q) {
			return up[:len(up)-len(q)], q
		}
	}
	return up, "USDT"
}

// dashPair — "BTCUSDT" -> "BTC-USDT" (формат OKX).
func dashPair(instrument string) string {
	base, quote := splitPair(instrument)
	return base + "-" + quote
}
