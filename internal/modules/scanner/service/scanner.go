package service

import (
	"context"
	"time"

	"github.com/opentracing/opentracing-go"

	"github.com/bangnguyentx/Crypto-Physics-Momentum/internal/models"
	"github.com/bangnguyentx/Crypto-Physics-Momentum/internal/modules/config"
	healthsvc "github.com/bangnguyentx/Crypto-Physics-Momentum/internal/modules/health/service"
	storesvc "github.com/bangnguyentx/Crypto-Physics-Momentum/internal/modules/store/service"
	strategysvc "github.com/bangnguyentx/Crypto-Physics-Momentum/internal/modules/strategy/service"
	"github.com/bangnguyentx/Crypto-Physics-Momentum/pkg/logger"
)

// CandleSource — чем сканер тянет свечи (market.Fetcher в проде).
type CandleSource interface {
	Fetch(ctx context.Context, instrument, interval string, limit int) ([]models.Candle, error)
}

// Notifier — куда уходят сигналы после дедупа.
type Notifier interface {
	BroadcastSignal(ctx context.Context, sig *models.Signal)
}

// Scanner гоняет конвейер fetch -> decide по списку инструментов.
// Инструменты обрабатываются последовательно с вежливой паузой;
// fetch-then-decide одного инструмента никогда не перемежается сам с собой.
type Scanner struct {
	cfg    *config.Config
	src    CandleSource
	engine strategysvc.Engine
	sent   storesvc.SentLog
	n      Notifier
	state  *healthsvc.State
}

func NewScanner(
	cfg *config.Config,
	src CandleSource,
	engine strategysvc.Engine,
	sent storesvc.SentLog,
	n Notifier,
	state *healthsvc.State,
) *Scanner {
	return &Scanner{
		cfg:    cfg,
		src:    src,
		engine: engine,
		sent:   sent,
		n:      n,
		state:  state,
	}
}

// Evaluate — единственная операция ядра: свечи по инструменту -> решение.
// Ошибка только когда исчерпаны все источники; (nil, nil) — нет сигнала.
func (s *Scanner) Evaluate(ctx context.Context, instrument string) (*models.Signal, error) {
	candles, err := s.src.Fetch(ctx, instrument, s.cfg.Scan.Interval, s.cfg.Scan.Limit)
	if err != nil {
		return nil, err
	}

	sig, ok := s.engine.Decide(instrument, candles)
	if !ok {
		return nil, nil
	}
	return sig, nil
}

// Run — цикл скана; запускается из fx-хука, живёт до отмены контекста.
func (s *Scanner) Run(ctx context.Context) {
	logger.Info("[SCAN] loop started: %d instruments, every %s",
		len(s.cfg.Scan.Instruments), s.cfg.ScanEvery)

	s.scanOnce(ctx)

	t := time.NewTicker(s.cfg.ScanEvery)
	defer t.Stop()
	for {
		select {
		case <-ctx.Done():
			logger.Info("[SCAN] loop stopped")
			return
		case <-t.C:
			s.scanOnce(ctx)
		}
	}
}

func (s *Scanner) scanOnce(ctx context.Context) {
	for i, inst := range s.cfg.Scan.Instruments {
		if ctx.Err() != nil {
			return
		}
		if i > 0 && s.cfg.InstrumentDelay > 0 {
			select {
			case <-ctx.Done():
				return
			case <-time.After(s.cfg.InstrumentDelay):
			}
		}
		s.scanInstrument(ctx, inst)
	}

	s.sent.PruneOlderThan(time.Now().Add(-s.cfg.DedupRetention))
	s.state.TouchScan(time.Now())
}

func (s *Scanner) scanInstrument(ctx context.Context, inst string) {
	span := opentracing.StartSpan("scan.instrument")
	span.SetTag("instrument", inst)
	defer span.Finish()

	sig, err := s.Evaluate(opentracing.ContextWithSpan(ctx, span), inst)
	if err != nil {
		// все источники легли — пропускаем инструмент до следующего цикла
		logger.Warn("[SCAN] %s: %v", inst, err)
		return
	}
	if sig == nil {
		return
	}

	if s.sent.WasRecentlySent(sig.Instrument, sig.Side) {
		logger.Info("[SCAN] %s %s suppressed by dedup window", sig.Instrument, sig.Side)
		return
	}
	s.sent.RecordSent(sig.Instrument, sig.Side, time.Now())
	s.state.AddSignal()

	logger.Info("[SCAN] %s %s entry=%.6f conf=%d rsi=%.1f",
		sig.Instrument, sig.Side, sig.Entry, sig.Confidence, sig.Diagnostics.RSI)
	s.n.BroadcastSignal(ctx, sig)
}
