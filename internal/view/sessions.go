package view

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/UnknownOlympus/herroute/internal/models"
	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
)

type session struct {
	ctrl     *Controller
	lastSeen time.Time
}

// Sessions maps session ids to controllers. Ids are random UUIDs generated
// here and handed out in a cookie; state lives only in memory.
type Sessions struct {
	mu     sync.Mutex
	items  map[string]*session
	limit  int
	active prometheus.Gauge
	now    func() time.Time
}

// NewSessions creates an empty session table reporting its size to active.
// At most limit sessions are kept; a non-positive limit means no cap.
func NewSessions(active prometheus.Gauge, limit int) *Sessions {
	return &Sessions{
		items:  make(map[string]*session),
		limit:  limit,
		active: active,
		now:    time.Now,
	}
}

// Lookup returns the controller for id, creating a new session under a fresh
// id when id is unknown. The returned id is the one the caller must store.
func (s *Sessions) Lookup(id string, lang models.Language) (string, *Controller, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if sess, ok := s.items[id]; ok {
		sess.lastSeen = s.now()
		return id, sess.ctrl, false
	}

	if s.limit > 0 && len(s.items) >= s.limit {
		s.evictOldest()
	}

	id = uuid.NewString()
	sess := &session{ctrl: NewController(lang), lastSeen: s.now()}
	s.items[id] = sess
	s.active.Set(float64(len(s.items)))

	return id, sess.ctrl, true
}

// evictOldest drops the least recently seen session. Caller holds mu.
func (s *Sessions) evictOldest() {
	var (
		oldestID string
		oldest   time.Time
	)
	for id, sess := range s.items {
		if oldestID == "" || sess.lastSeen.Before(oldest) {
			oldestID, oldest = id, sess.lastSeen
		}
	}
	delete(s.items, oldestID)
}

// Len returns the number of live sessions.
func (s *Sessions) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	return len(s.items)
}

// Sweep drops sessions idle for longer than ttl and returns how many were removed.
func (s *Sessions) Sweep(ttl time.Duration) int {
	s.mu.Lock()
	defer s.mu.Unlock()

	cutoff := s.now().Add(-ttl)
	removed := 0
	for id, sess := range s.items {
		if sess.lastSeen.Before(cutoff) {
			delete(s.items, id)
			removed++
		}
	}
	s.active.Set(float64(len(s.items)))

	return removed
}

// RunSweeper sweeps on every interval until ctx is cancelled.
func (s *Sessions) RunSweeper(ctx context.Context, ttl, interval time.Duration, log *slog.Logger) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if n := s.Sweep(ttl); n > 0 {
				log.DebugContext(ctx, "Expired sessions removed", "count", n, "remaining", s.Len())
			}
		}
	}
}
