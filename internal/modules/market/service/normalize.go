package service

import (
	"errors"
	"fmt"
	"math"
	"strconv"

	"github.com/bytedance/sonic"

	"github.com/bangnguyentx/Crypto-Physics-Momentum/internal/models"
)

// ErrMalformedResponse — тело ответа не подошло ни под один известный шаблон.
// Локальная ошибка одного провайдера, фетчер идёт к следующему.
var ErrMalformedResponse = errors.New("market: malformed provider response")

// Normalize приводит сырой ответ провайдера к канонической серии свечей
// oldest-first. Свеча с некорректным полем выбрасывается молча, вся серия
// из-за неё не бракуется.
func Normalize(shape Shape, body []byte) ([]models.Candle, error) {
	var (
		candles []models.Candle
		err     error
	)

	switch shape {
	case ShapeRows:
		var rows [][]any
		if err = sonic.Unmarshal(body, &rows); err != nil {
			return nil, fmt.Errorf("%w: rows: %v", ErrMalformedResponse, err)
		}
		candles = candlesFromRows(rows)
	case ShapeObjects:
		var objs []map[string]any
		if err = sonic.Unmarshal(body, &objs); err != nil {
			return nil, fmt.Errorf("%w: objects: %v", ErrMalformedResponse, err)
		}
		candles = candlesFromObjects(objs)
	case ShapeEnvelope:
		var env map[string]any
		if err = sonic.Unmarshal(body, &env); err != nil {
			return nil, fmt.Errorf("%w: envelope: %v", ErrMalformedResponse, err)
		}
		list, ok := findList(env, 0)
		if !ok {
			return nil, fmt.Errorf("%w: envelope without nested list", ErrMalformedResponse)
		}
		candles = candlesFromList(list)
	default:
		return nil, fmt.Errorf("%w: unknown shape %q", ErrMalformedResponse, shape)
	}

	// источники не гарантируют oldest-first, OKX/Bybit отдают newest-first
	if len(candles) >= 2 && candles[0].TS > candles[len(candles)-1].TS {
		for i, j := 0, len(candles)-1; i < j; i, j = i+1, j-1 {
			candles[i], candles[j] = candles[j], candles[i]
		}
	}

	return candles, nil
}

// findList ищет вложенный список в конверте по известным ключам,
// спускаясь максимум на три уровня (Data.Data у cryptocompare, result.list у bybit).
func findList(env map[string]any, depth int) ([]any, bool) {
	if depth > 3 {
		return nil, false
	}
	for _, key := range []string{"data", "Data", "result", "list", "candles", "klines"} {
		v, ok := env[key]
		if !ok {
			continue
		}
		switch t := v.(type) {
		case []any:
			if len(t) > 0 {
				return t, true
			}
		case map[string]any:
			if list, ok := findList(t, depth+1); ok {
				return list, true
			}
		}
	}
	return nil, false
}

// candlesFromList — элементы вложенного списка бывают и строками-массивами,
// и объектами; определяем по первому элементу.
func candlesFromList(list []any) []models.Candle {
	out := make([]models.Candle, 0, len(list))
	for _, item := range list {
		switch t := item.(type) {
		case []any:
			if c, ok := candleFromRow(t); ok {
				out = append(out, c)
			}
		case map[string]any:
			if c, ok := candleFromMap(t); ok {
				out = append(out, c)
			}
		}
	}
	return out
}

func candlesFromRows(rows [][]any) []models.Candle {
	out := make([]models.Candle, 0, len(rows))
	for _, row := range rows {
		if c, ok := candleFromRow(row); ok {
			out = append(out, c)
		}
	}
	return out
}

func candlesFromObjects(objs []map[string]any) []models.Candle {
	out := make([]models.Candle, 0, len(objs))
	for _, obj := range objs {
		if c, ok := candleFromMap(obj); ok {
			out = append(out, c)
		}
	}
	return out
}

// candleFromRow — канонический порядок колонок [ts, o, h, l, c, vol].
func candleFromRow(row []any) (models.Candle, bool) {
	if len(row) < 6 {
		return models.Candle{}, false
	}
	vals := make([]float64, 6)
	for i := 0; i < 6; i++ {
		v, ok := toFloat(row[i])
		if !ok {
			return models.Candle{}, false
		}
		vals[i] = v
	}
	return models.Candle{
		TS:     toMillis(vals[0]),
		Open:   vals[1],
		High:   vals[2],
		Low:    vals[3],
		Close:  vals[4],
		Volume: vals[5],
	}, true
}

var fieldAliases = map[string][]string{
	"ts":     {"timestamp", "time", "ts", "t", "openTime", "open_time"},
	"open":   {"open", "o"},
	"high":   {"high", "h"},
	"low":    {"low", "l"},
	"close":  {"close", "c"},
	"volume": {"volume", "vol", "v", "volumefrom"},
}

func candleFromMap(obj map[string]any) (models.Candle, bool) {
	pick := func(field string) (float64, bool) {
		for _, key := range fieldAliases[field] {
			if raw, ok := obj[key]; ok {
				return toFloat(raw)
			}
		}
		return 0, false
	}

	ts, ok := pick("ts")
	if !ok {
		return models.Candle{}, false
	}
	open, ok := pick("open")
	if !ok {
		return models.Candle{}, false
	}
	high, ok := pick("high")
	if !ok {
		return models.Candle{}, false
	}
	low, ok := pick("low")
	if !ok {
		return models.Candle{}, false
	}
	closePx, ok := pick("close")
	if !ok {
		return models.Candle{}, false
	}
	vol, ok := pick("volume")
	if !ok {
		return models.Candle{}, false
	}

	return models.Candle{
		TS:     toMillis(ts),
		Open:   open,
		High:   high,
		Low:    low,
		Close:  closePx,
		Volume: vol,
	}, true
}

// toFloat — защитное приведение: источники шлют числа и как float, и как строки.
func toFloat(v any) (float64, bool) {
	switch t := v.(type) {
	case float64:
		if math.IsNaN(t) || math.IsInf(t, 0) {
			return 0, false
		}
		return t, true
	case string:
		f, err := strconv.ParseFloat(t, 64)
		if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
			return 0, false
		}
		return f, true
	case int64:
		return float64(t), true
	default:
		return 0, false
	}
}

// toMillis — cryptocompare и kucoin шлют секунды, остальные миллисекунды.
func toMillis(ts float64) int64 {
	if ts < 1e12 {
		return int64(ts) * 1000
	}
	return int64(ts)
}
