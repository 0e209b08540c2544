// Package session owns server-side session state: the shopping cart, the
// logged-in customer email, and pending flash messages. Session ids travel
// in a signed cookie; everything else stays in this process.
package session

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"ubermelon/internal/cart"
)

const DefaultTTL = 24 * time.Hour

type session struct {
	// mu serializes all access to one session, so a cart mutation can
	// never race a cart read on the same session.
	mu       sync.Mutex
	cart     cart.Cart
	email    string
	flashes  []string
	lastSeen time.Time
}

// Manager is an in-memory session table. Sessions expire after ttl of
// inactivity and are swept by Run.
type Manager struct {
	mu   sync.RWMutex
	ttl  time.Duration
	byID map[string]*session
	now  func() time.Time
}

func NewManager(ttl time.Duration) *Manager {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &Manager{
		ttl:  ttl,
		byID: make(map[string]*session),
		now:  time.Now,
	}
}

// Create allocates a fresh empty session and returns its id.
func (m *Manager) Create() string {
	id := "s_" + uuid.NewString()

	m.mu.Lock()
	m.byID[id] = &session{lastSeen: m.now()}
	m.mu.Unlock()

	return id
}

// Exists reports whether id refers to a live session.
func (m *Manager) Exists(id string) bool {
	m.mu.RLock()
	_, ok := m.byID[id]
	m.mu.RUnlock()
	return ok
}

// Destroy drops the session and everything in it.
func (m *Manager) Destroy(id string) {
	m.mu.Lock()
	delete(m.byID, id)
	m.mu.Unlock()
}

func (m *Manager) lookup(id string) (*session, bool) {
	m.mu.RLock()
	s, ok := m.byID[id]
	m.mu.RUnlock()
	return s, ok
}

// AddToCart increments the cart entry for melonID. It reports false if
// the session no longer exists.
func (m *Manager) AddToCart(id, melonID string, qty int) bool {
	s, ok := m.lookup(id)
	if !ok {
		return false
	}

	s.mu.Lock()
	s.cart = s.cart.Add(melonID, qty)
	s.lastSeen = m.now()
	s.mu.Unlock()
	return true
}

// Cart returns a copy of the session's cart; mutating it does not affect
// the session.
func (m *Manager) Cart(id string) cart.Cart {
	s, ok := m.lookup(id)
	if !ok {
		return nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.lastSeen = m.now()
	return s.cart.Clone()
}

// Flash enqueues a one-shot message for the next rendered page.
func (m *Manager) Flash(id, msg string) {
	s, ok := m.lookup(id)
	if !ok {
		return
	}

	s.mu.Lock()
	s.flashes = append(s.flashes, msg)
	s.mu.Unlock()
}

// PopFlashes dequeues and clears all pending flash messages.
func (m *Manager) PopFlashes(id string) []string {
	s, ok := m.lookup(id)
	if !ok {
		return nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	out := s.flashes
	s.flashes = nil
	return out
}

// SetEmail records the logged-in customer for this session.
func (m *Manager) SetEmail(id, email string) {
	s, ok := m.lookup(id)
	if !ok {
		return
	}

	s.mu.Lock()
	s.email = email
	s.mu.Unlock()
}

// Email returns the logged-in customer email, or "" when anonymous.
func (m *Manager) Email(id string) string {
	s, ok := m.lookup(id)
	if !ok {
		return ""
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	return s.email
}

// Prune drops sessions idle longer than the ttl and returns the count.
func (m *Manager) Prune() int {
	cutoff := m.now().Add(-m.ttl)

	m.mu.Lock()
	defer m.mu.Unlock()

	n := 0
	for id, s := range m.byID {
		s.mu.Lock()
		idle := s.lastSeen.Before(cutoff)
		s.mu.Unlock()

		if idle {
			delete(m.byID, id)
			n++
		}
	}
	return n
}

// Run sweeps expired sessions until ctx is done.
func (m *Manager) Run(ctx context.Context, every time.Duration) {
	t := time.NewTicker(every)
	defer t.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-t.C:
			m.Prune()
		}
	}
}
