package service

import (
	"sync/atomic"
	"time"
)

type State struct {
	ready     atomic.Bool
	startedAt time.Time

	wsConnected  atomic.Bool
	lastTickUnix atomic.Int64 // unix seconds, последний live-тик
	lastScanUnix atomic.Int64 // unix seconds, конец последнего цикла скана
	signalsSent  atomic.Int64
}

func NewState() *State {
	s := &State{startedAt: time.Now()}
	s.ready.Store(false)
	return s
}

func (s *State) SetReady(v bool) { s.ready.Store(v) }
func (s *State) Ready() bool     { return s.ready.Load() }

func (s *State) SetWSConnected(v bool) { s.wsConnected.Store(v) }
func (s *State) WSConnected() bool     { return s.wsConnected.Load() }

func (s *State) TouchTick(t time.Time) { s.lastTickUnix.Store(t.Unix()) }
func (s *State) LastTick() time.Time {
	u := s.lastTickUnix.Load()
	if u == 0 {
		return time.Time{}
	}
	return time.Unix(u, 0)
}

func (s *State) TouchScan(t time.Time) { s.lastScanUnix.Store(t.Unix()) }
func (s *State) LastScan() time.Time {
	u := s.lastScanUnix.Load()
	if u == 0 {
		return time.Time{}
	}
	return time.Unix(u, 0)
}

func (s *State) AddSignal()         { s.signalsSent.Add(1) }
func (s *State) SignalsSent() int64 { return s.signalsSent.Load() }

func (s *State) Uptime() time.Duration { return time.Since(s.startedAt) }
