package service

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
)

const (
	// DefaultSessionTTL is how long an idle session is kept.
	DefaultSessionTTL    = 24 * time.Hour
	DefaultSweepInterval = 10 * time.Minute
)

// Session is the per-browser state: admin flag, cart, drawer and chat.
type Session struct {
	ID       string
	Cart     *Cart
	Checkout *Checkout
	Chat     *Transcript

	mu       sync.Mutex
	admin    bool
	lastSeen time.Time
}

func (s *Session) IsAdmin() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.admin
}

func (s *Session) setAdmin(v bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.admin = v
}

func (s *Session) touch(now time.Time) {
	s.mu.Lock()
	s.lastSeen = now
	s.mu.Unlock()
}

func (s *Session) idleSince(now time.Time) time.Duration {
	s.mu.Lock()
	defer s.mu.Unlock()
	return now.Sub(s.lastSeen)
}

// SessionManager owns every live session.
type SessionManager struct {
	mu       sync.Mutex
	sessions map[string]*Session
	ttl      time.Duration
	delay    time.Duration
	onPaid   func(Receipt)
	now      func() time.Time
}

// NewSessionManager creates sessions whose checkout waits delay and calls
// onPaid on completion.
func NewSessionManager(ttl, paymentDelay time.Duration, onPaid func(Receipt)) *SessionManager {
	if ttl <= 0 {
		ttl = DefaultSessionTTL
	}
	return &SessionManager{
		sessions: make(map[string]*Session),
		ttl:      ttl,
		delay:    paymentDelay,
		onPaid:   onPaid,
		now:      time.Now,
	}
}

// Get returns a live session and marks it as used.
func (m *SessionManager) Get(id string) (*Session, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	s, ok := m.sessions[id]
	if !ok {
		return nil, false
	}
	s.touch(m.now())
	return s, true
}

// Create starts a fresh session with an empty cart.
func (m *SessionManager) Create() *Session {
	cart := NewCart()
	s := &Session{
		ID:       uuid.New().String(),
		Cart:     cart,
		Checkout: NewCheckout(cart, m.delay, m.onPaid),
		Chat:     NewTranscript(),
		lastSeen: m.now(),
	}
	m.mu.Lock()
	m.sessions[s.ID] = s
	m.mu.Unlock()
	return s
}

// GetOrCreate returns the session for id, or a new one if id is unknown.
func (m *SessionManager) GetOrCreate(id string) (*Session, bool) {
	if id != "" {
		if s, ok := m.Get(id); ok {
			return s, false
		}
	}
	return m.Create(), true
}

func (m *SessionManager) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.sessions)
}

// Sweep drops sessions idle longer than the ttl and returns how many.
// Sessions with a payment in flight are kept so Wait still sees them.
func (m *SessionManager) Sweep() int {
	now := m.now()
	m.mu.Lock()
	defer m.mu.Unlock()
	n := 0
	for id, s := range m.sessions {
		if s.idleSince(now) > m.ttl && !s.Checkout.Pending() {
			delete(m.sessions, id)
			n++
		}
	}
	return n
}

// Run sweeps periodically until ctx is done.
func (m *SessionManager) Run(ctx context.Context, every time.Duration) error {
	if every <= 0 {
		every = DefaultSweepInterval
	}
	t := time.NewTicker(every)
	defer t.Stop()
	for {
		select {
		case <-ctx.Done():
			return nil
		case <-t.C:
			m.Sweep()
		}
	}
}

// Wait blocks until payments started by any session have completed.
func (m *SessionManager) Wait() {
	m.mu.Lock()
	list := make([]*Session, 0, len(m.sessions))
	for _, s := range m.sessions {
		list = append(list, s)
	}
	m.mu.Unlock()
	for _, s := range list {
		s.Checkout.Wait()
	}
}
