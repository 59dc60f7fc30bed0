package stats

import (
	"sync"
	"time"
)

// Stats is updated by the render loop and read by the API.
type Stats struct {
	mu   sync.Mutex
	snap Snapshot

	frameCounter uint64
	frameTimer   time.Time
	start        time.Time
	now          func() time.Time
}

func New() *Stats {
	s := &Stats{now: time.Now}
	s.start = s.now()
	s.frameTimer = s.start
	return s
}

// Update counts one presented frame. FPS is refreshed once per second.
func (s *Stats) Update() {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	s.snap.Frames++
	s.frameCounter++
	if now.Sub(s.frameTimer) >= time.Second {
		s.snap.FPS = s.frameCounter
		s.frameCounter = 0
		s.frameTimer = now
	}

	s.snap.Uptime = float64(now.Sub(s.start).Nanoseconds()) / 1e9
}

func (s *Stats) ShaderReloaded() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.snap.ShaderReloads++
}

func (s *Stats) SetWsClients(n int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.snap.WsClients = n
}

// Snapshot is a copy of the counters that is safe to encode.
type Snapshot struct {
	Frames        uint64  `json:"frames"`
	FPS           uint64  `json:"fps"`
	Uptime        float64 `json:"uptime"`
	ShaderReloads uint64  `json:"shader_reloads"`
	WsClients     int     `json:"ws_clients"`
}

func (s *Stats) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snap
}
