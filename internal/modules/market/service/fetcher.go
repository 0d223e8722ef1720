package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"math/rand"
	"net/http"
	"time"

	"github.com/bangnguyentx/Crypto-Physics-Momentum/internal/models"
	"github.com/bangnguyentx/Crypto-Physics-Momentum/pkg/logger"
)

// ErrAllSourcesExhausted — ни один провайдер не отдал пригодную серию за цикл.
// Для вызывающего это «пропусти инструмент в этом цикле», не фатал.
var ErrAllSourcesExhausted = errors.New("market: all candle sources exhausted")

const requestTimeout = 10 * time.Second

// Fetcher — мультиисточниковый сборщик свечей с упорядоченным фолбэком.
// Единственная защита от рейт-лимитов и аутажей отдельной биржи:
// ретраев внутри одной попытки нет, ретраи на уровне цикла — забота шедулера.
type Fetcher struct {
	http      *http.Client
	providers []Provider
}

func NewFetcher(providers []Provider) *Fetcher {
	return &Fetcher{
		http:      &http.Client{Timeout: requestTimeout},
		providers: providers,
	}
}

// Fetch перебирает провайдеров в случайной перестановке (равномерный шафл
// на каждый вызов — размазываем нагрузку, предпочтений между вызовами нет).
// Первый провайдер с >= 30 нормализованных свечей выигрывает; серия
// обрезается до последних limit. Любой сбой провайдера глотается.
func (f *Fetcher) Fetch(ctx context.Context, instrument, interval string, limit int) ([]models.Candle, error) {
	if limit <= 0 {
		limit = 100
	}

	for _, idx := range rand.Perm(len(f.providers)) {
		p := f.providers[idx]
		candles, err := f.tryProvider(ctx, p, instrument, interval, limit)
		if err != nil {
			logger.Warn("[MARKET] %s %s: %v", p.Name, instrument, err)
			continue
		}
		return candles, nil
	}
	return nil, ErrAllSourcesExhausted
}

func (f *Fetcher) tryProvider(ctx context.Context, p Provider, instrument, interval string, limit int) ([]models.Candle, error) {
	reqCtx, cancel := context.WithTimeout(ctx, requestTimeout)
	defer cancel()

	req, err := http.NewRequestWithContext(reqCtx, http.MethodGet, p.BuildURL(instrument, interval, limit), nil)
	if err != nil {
		return nil, err
	}
	for k, v := range p.Headers {
		req.Header.Set(k, v)
	}

	resp, err := f.http.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	b, _ := io.ReadAll(resp.Body)
	if resp.StatusCode/100 != 2 {
		return nil, fmt.Errorf("http %d: %s", resp.StatusCode, truncateBody(b))
	}

	candles, err := Normalize(p.Shape, b)
	if err != nil {
		return nil, err
	}
	if len(candles) < models.MinUsableCandles {
		return nil, fmt.Errorf("series too short: %d candles", len(candles))
	}
	if len(candles) > limit {
		candles = candles[len(candles)-limit:]
	}
	return candles, nil
}

func truncateBody(b []byte) string {
	const max = 256
	if len(b) > max {
		b = b[:max]
	}
	return string(b)
}
