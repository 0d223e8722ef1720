package file

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/bytedance/sonic"

	"github.com/bangnguyentx/Crypto-Physics-Momentum/internal/models"
)

const defaultPath = "data/subscribers.json"

// Subscriber — подписчики в JSON-файле, когда Postgres не настроен.
type Subscriber struct {
	path string

	mu     sync.Mutex
	cache  map[int64]*models.Subscriber
	loaded bool
}

func NewSubscriber(path string) *Subscriber {
	if path == "" {
		path = defaultPath
	}
	return &Subscriber{
		path:  path,
		cache: make(map[int64]*models.Subscriber),
	}
}

// ---- public API (как у pg.Subscriber) ----

func (s *Subscriber) Add(ctx context.Context, sub *models.Subscriber) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.loadLocked(); err != nil {
		return err
	}
	s.cache[sub.ChatID] = cloneSubscriber(sub)
	return s.saveLocked()
}

func (s *Subscriber) Remove(ctx context.Context, chatID int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.loadLocked(); err != nil {
		return err
	}
	delete(s.cache, chatID)
	return s.saveLocked()
}

func (s *Subscriber) List(ctx context.Context) ([]*models.Subscriber, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.loadLocked(); err != nil {
		return nil, err
	}
	out := make([]*models.Subscriber, 0, len(s.cache))
	for _, v := range s.cache {
		out = append(out, cloneSubscriber(v))
	}
	return out, nil
}

// ---- storage format ----

type snapshot struct {
	UpdatedAt   time.Time            `json:"updated_at"`
	Subscribers []*models.Subscriber `json:"subscribers"`
}

func (s *Subscriber) loadLocked() error {
	if s.loaded {
		return nil
	}

	b, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			s.loaded = true
			return nil
		}
		return fmt.Errorf("read %s: %w", s.path, err)
	}

	var snap snapshot
	if err := sonic.Unmarshal(b, &snap); err != nil {
		return fmt.Errorf("decode %s: %w", s.path, err)
	}
	for _, sub := range snap.Subscribers {
		s.cache[sub.ChatID] = sub
	}
	s.loaded = true
	return nil
}

func (s *Subscriber) saveLocked() error {
	snap := snapshot{UpdatedAt: time.Now().UTC()}
	for _, v := range s.cache {
		snap.Subscribers = append(snap.Subscribers, v)
	}

	b, err := sonic.Marshal(snap)
	if err != nil {
		return fmt.Errorf("encode %s: %w", s.path, err)
	}

	if dir := filepath.Dir(s.path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("mkdir %s: %w", dir, err)
		}
	}
	tmp := s.path + ".tmp"
	if err := os.WriteFile(tmp, b, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", tmp, err)
	}
	return os.Rename(tmp, s.path)
}

func cloneSubscriber(in *models.Subscriber) *models.Subscriber {
	out := *in
	return &out
}
