package session

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
)

// Store keeps per-browser-session key/value pairs in memory. A session
// expires after ttl without access.
type Store struct {
	mu       sync.Mutex
	sessions map[string]*bucket
	ttl      time.Duration
	now      func() time.Time
}

type bucket struct {
	values  map[string]string
	touched time.Time
}

func NewStore(ttl time.Duration) *Store {
	return &Store{
		sessions: make(map[string]*bucket),
		ttl:      ttl,
		now:      time.Now,
	}
}

// NewID returns a fresh session id.
func NewID() string {
	return uuid.NewString()
}

// Scope returns the storage view of one session.
func (s *Store) Scope(sid string) *Scoped {
	return &Scoped{store: s, sid: sid}
}

// Len reports the number of live sessions.
func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.sessions)
}

// StartCleanup evicts expired sessions every interval until ctx is done.
func (s *Store) StartCleanup(ctx context.Context, interval time.Duration) {
	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()

		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				s.Sweep()
			}
		}
	}()
}

// Sweep drops every session idle for longer than the ttl.
func (s *Store) Sweep() {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	for sid, b := range s.sessions {
		if now.Sub(b.touched) > s.ttl {
			delete(s.sessions, sid)
		}
	}
}

func (s *Store) get(sid, key string) (string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	b := s.live(sid)
	if b == nil {
		return "", false
	}
	b.touched = s.now()
	v, ok := b.values[key]
	return v, ok
}

func (s *Store) set(sid, key, value string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	b := s.live(sid)
	if b == nil {
		b = &bucket{values: make(map[string]string)}
		s.sessions[sid] = b
	}
	b.touched = s.now()
	b.values[key] = value
}

func (s *Store) remove(sid, key string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	b := s.live(sid)
	if b == nil {
		return
	}
	b.touched = s.now()
	delete(b.values, key)
}

// live must be called with mu held.
func (s *Store) live(sid string) *bucket {
	b, ok := s.sessions[sid]
	if !ok {
		return nil
	}
	if s.now().Sub(b.touched) > s.ttl {
		delete(s.sessions, sid)
		return nil
	}
	return b
}

// Scoped binds a Store to a single session id.
type Scoped struct {
	store *Store
	sid   string
}

func (s *Scoped) SetItem(key, value string) {
	s.store.set(s.sid, key, value)
}

func (s *Scoped) GetItem(key string) (string, bool) {
	return s.store.get(s.sid, key)
}

func (s *Scoped) RemoveItem(key string) {
	s.store.remove(s.sid, key)
}
