package service

import (
	"sync"
	"time"

	"github.com/bangnguyentx/Crypto-Physics-Momentum/internal/helper"
	"github.com/bangnguyentx/Crypto-Physics-Momentum/internal/models"
)

// Memory — in-memory реализация SentLog.
type Memory struct {
	window time.Duration

	mu   sync.Mutex
	sent map[string]time.Time
}

func NewMemory(window time.Duration) *Memory {
	return &Memory{
		window: window,
		sent:   make(map[string]time.Time),
	}
}

func (m *Memory) WasRecentlySent(instrument string, side models.Side) bool {
	m.mu.Lock()
	defer m.mu.Unlock()

	at, ok := m.sent[helper.SentKey(instrument, side)]
	if !ok {
		return false
	}
	return time.Since(at) < m.window
}

func (m *Memory) RecordSent(instrument string, side models.Side, at time.Time) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sent[helper.SentKey(instrument, side)] = at
}

func (m *Memory) PruneOlderThan(cutoff time.Time) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for k, at := range m.sent {
		if at.Before(cutoff) {
			delete(m.sent, k)
		}
	}
}
