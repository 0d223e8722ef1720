package service

import (
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/bytedance/sonic"
	pkgerrors "github.com/pkg/errors"

	"github.com/bangnguyentx/Crypto-Physics-Momentum/internal/helper"
	"github.com/bangnguyentx/Crypto-Physics-Momentum/internal/models"
	"github.com/bangnguyentx/Crypto-Physics-Momentum/pkg/logger"
)

// File — SentLog на JSON-файле: дедуп переживает рестарт процесса.
// Ошибки записи не валят скан — логируем и продолжаем на кэше.
type File struct {
	path   string
	window time.Duration

	mu     sync.Mutex
	sent   map[string]time.Time
	loaded bool
}

func NewFile(path string, window time.Duration) *File {
	return &File{
		path:   path,
		window: window,
		sent:   make(map[string]time.Time),
	}
}

func (f *File) WasRecentlySent(instrument string, side models.Side) bool {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.loadLocked()
	at, ok := f.sent[helper.SentKey(instrument, side)]
	if !ok {
		return false
	}
	return time.Since(at) < f.window
}

func (f *File) RecordSent(instrument string, side models.Side, at time.Time) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.loadLocked()
	f.sent[helper.SentKey(instrument, side)] = at
	f.saveLocked()
}

func (f *File) PruneOlderThan(cutoff time.Time) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.loadLocked()
	changed := false
	for k, at := range f.sent {
		if at.Before(cutoff) {
			delete(f.sent, k)
			changed = true
		}
	}
	if changed {
		f.saveLocked()
	}
}

// ---- storage format ----

type snapshot struct {
	UpdatedAt time.Time            `json:"updated_at"`
	Sent      map[string]time.Time `json:"sent"`
}

func (f *File) loadLocked() {
	if f.loaded {
		return
	}
	f.loaded = true

	b, err := os.ReadFile(f.path)
	if err != nil {
		if !os.IsNotExist(err) {
			logger.Warn("[STORE] %v", pkgerrors.Wrap(err, "read sent log"))
		}
		return
	}

	var snap snapshot
	if err := sonic.Unmarshal(b, &snap); err != nil {
		logger.Warn("[STORE] %v", pkgerrors.Wrap(err, "decode sent log"))
		return
	}
	if snap.Sent != nil {
		f.sent = snap.Sent
	}
}

func (f *File) saveLocked() {
	b, err := sonic.Marshal(snapshot{UpdatedAt: time.Now().UTC(), Sent: f.sent})
	if err != nil {
		logger.Warn("[STORE] %v", pkgerrors.Wrap(err, "encode sent log"))
		return
	}

	if dir := filepath.Dir(f.path); dir != "." {
		_ = os.MkdirAll(dir, 0o755)
	}
	tmp := f.path + ".tmp"
	if err := os.WriteFile(tmp, b, 0o644); err != nil {
		logger.Warn("[STORE] %v", pkgerrors.Wrap(err, "write sent log"))
		return
	}
	if err := os.Rename(tmp, f.path); err != nil {
		logger.Warn("[STORE] %v", pkgerrors.Wrap(err, "rename sent log"))
	}
}
