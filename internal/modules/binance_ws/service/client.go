package service

import (
	"context"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/bytedance/sonic"
	"github.com/gorilla/websocket"

	"github.com/bangnguyentx/Crypto-Physics-Momentum/internal/modules/config"
	healthsvc "github.com/bangnguyentx/Crypto-Physics-Momentum/internal/modules/health/service"
	"github.com/bangnguyentx/Crypto-Physics-Momentum/pkg/logger"
)

const (
	streamBase    = "wss://stream.binance.com:9443/stream?streams="
	readDeadline  = 90 * time.Second
	reconnectBase = 5 * time.Second
	reconnectMax  = time.Minute
)

// Client — live-поток miniTicker по инструментам скана.
// Кормит health-стейт свежестью и кэш последних цен для /status;
// на сам конвейер сигналов не влияет.
type Client struct {
	cfg   *config.Config
	state *healthsvc.State

	wsDialer *websocket.Dialer

	mu   sync.RWMutex
	last map[string]float64
}

func NewClient(cfg *config.Config, state *healthsvc.State) *Client {
	return &Client{
		cfg:      cfg,
		state:    state,
		wsDialer: &websocket.Dialer{},
		last:     make(map[string]float64),
	}
}

func (c *Client) LastPrice(instrument string) (float64, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	px, ok := c.last[strings.ToUpper(instrument)]
	return px, ok
}

func (c *Client) streamURL() string {
	streams := make([]string, 0, len(c.cfg.Scan.Instruments))
	for _, inst := range c.cfg.Scan.Instruments {
		streams = append(streams, strings.ToLower(inst)+"@miniTicker")
	}
	return streamBase + strings.Join(streams, "/")
}

// Run держит соединение с реконнектом до отмены контекста.
func (c *Client) Run(ctx context.Context) {
	backoff := reconnectBase
	for ctx.Err() == nil {
		err := c.readLoop(ctx)
		c.state.SetWSConnected(false)
		if ctx.Err() != nil {
			return
		}

		logger.Warn("[WS] stream dropped: %v, reconnect in %s", err, backoff)
		select {
		case <-ctx.Done():
			return
		case <-time.After(backoff):
		}
		backoff *= 2
		if backoff > reconnectMax {
			backoff = reconnectMax
		}
	}
}

type tickerMsg struct {
	Stream string `json:"stream"`
	Data   struct {
		Symbol    string `json:"s"`
		Close     string `json:"c"`
		EventTime int64  `json:"E"`
	} `json:"data"`
}

func (c *Client) readLoop(ctx context.Context) error {
	conn, _, err := c.wsDialer.DialContext(ctx, c.streamURL(), nil)
	if err != nil {
		return err
	}
	defer conn.Close()

	go func() {
		<-ctx.Done()
		_ = conn.Close()
	}()

	c.state.SetWSConnected(true)
	logger.Info("[WS] miniTicker stream connected: %d instruments", len(c.cfg.Scan.Instruments))

	for {
		_ = conn.SetReadDeadline(time.Now().Add(readDeadline))
		_, raw, err := conn.ReadMessage()
		if err != nil {
			return err
		}

		var msg tickerMsg
		if err := sonic.Unmarshal(raw, &msg); err != nil {
			continue
		}
		px, err := strconv.ParseFloat(msg.Data.Close, 64)
		if err != nil || msg.Data.Symbol == "" {
			continue
		}

		c.mu.Lock()
		c.last[msg.Data.Symbol] = px
		c.mu.Unlock()
		c.state.TouchTick(time.UnixMilli(msg.Data.EventTime))
	}
}
