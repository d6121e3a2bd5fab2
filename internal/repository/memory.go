package repository

import (
	"context"
	"sync"
	"time"

	"github.com/screenhall/web/internal/domain"
	apperrors "github.com/screenhall/web/pkg/errors"
)

// MemorySessionStore is an in-process SessionStore for tests and local
// development. Expiry is checked lazily on read.
type MemorySessionStore struct {
	mu       sync.RWMutex
	sessions map[string]memoryEntry
	ttl      time.Duration
}

type memoryEntry struct {
	session   *domain.CheckoutSession
	expiresAt time.Time
}

// NewMemorySessionStore creates an in-memory session store.
func NewMemorySessionStore(ttl time.Duration) *MemorySessionStore {
	return &MemorySessionStore{
		sessions: make(map[string]memoryEntry),
		ttl:      ttl,
	}
}

// Get retrieves a session by id.
func (s *MemorySessionStore) Get(_ context.Context, id string) (*domain.CheckoutSession, error) {
	s.mu.RLock()
	entry, ok := s.sessions[id]
	s.mu.RUnlock()

	if !ok || (s.ttl > 0 && time.Now().After(entry.expiresAt)) {
		return nil, apperrors.NotFound("checkout session", id)
	}

	// Copy so callers cannot mutate stored state without Save.
	copied := *entry.session
	copied.Seats = append([]domain.SeatID(nil), entry.session.Seats...)
	copied.Concessions = append([]domain.ConcessionLine(nil), entry.session.Concessions...)
	copied.Occupancy = append([]domain.SeatID(nil), entry.session.Occupancy...)
	if entry.session.Promotion != nil {
		p := *entry.session.Promotion
		copied.Promotion = &p
	}
	return &copied, nil
}

// Save upserts a session and refreshes its expiry.
func (s *MemorySessionStore) Save(_ context.Context, session *domain.CheckoutSession) error {
	copied := *session
	copied.Seats = append([]domain.SeatID(nil), session.Seats...)
	copied.Concessions = append([]domain.ConcessionLine(nil), session.Concessions...)
	copied.Occupancy = append([]domain.SeatID(nil), session.Occupancy...)
	if session.Promotion != nil {
		p := *session.Promotion
		copied.Promotion = &p
	}

	s.mu.Lock()
	s.sessions[session.ID] = memoryEntry{
		session:   &copied,
		expiresAt: time.Now().Add(s.ttl),
	}
	s.mu.Unlock()
	return nil
}

// Delete removes a session.
func (s *MemorySessionStore) Delete(_ context.Context, id string) error {
	s.mu.Lock()
	delete(s.sessions, id)
	s.mu.Unlock()
	return nil
}
