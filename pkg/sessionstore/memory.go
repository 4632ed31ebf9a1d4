package sessionstore

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/adfluent/sessionguard/pkg/fingerprint"
)

// MemoryStore implements Store with in-process maps. The token map and
// the per-user index are mutated under one mutex, so the two can never
// disagree. An optional background sweep removes idle sessions on a
// fixed cadence.
type MemoryStore struct {
	mu       sync.RWMutex
	sessions map[string]*Session
	byUser   map[uuid.UUID]map[string]struct{}

	ticker    *time.Ticker
	done      chan struct{}
	closeOnce sync.Once
}

// NewMemoryStore creates an in-memory session store. When both
// sweepInterval and ttl are positive, a background goroutine removes
// sessions idle longer than ttl every sweepInterval; stop it with Close.
func NewMemoryStore(sweepInterval, ttl time.Duration) *MemoryStore {
	store := &MemoryStore{
		sessions: make(map[string]*Session),
		byUser:   make(map[uuid.UUID]map[string]struct{}),
		done:     make(chan struct{}),
	}

	if sweepInterval > 0 && ttl > 0 {
		store.ticker = time.NewTicker(sweepInterval)
		go store.sweepLoop(store.ticker.C, ttl)
	}

	return store
}

func (m *MemoryStore) Create(ctx context.Context, session *Session) error {
	if session == nil || session.Token == "" {
		return ErrInvalidSession
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if _, exists := m.sessions[session.Token]; exists {
		return ErrSessionExists
	}

	m.insertLocked(session.Clone())
	return nil
}

func (m *MemoryStore) Get(ctx context.Context, token string) (*Session, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	session, exists := m.sessions[token]
	if !exists {
		return nil, ErrSessionNotFound
	}
	return session.Clone(), nil
}

func (m *MemoryStore) Update(ctx context.Context, session *Session) error {
	if session == nil || session.Token == "" {
		return ErrInvalidSession
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	current, exists := m.sessions[session.Token]
	if !exists {
		return ErrSessionNotFound
	}

	if current.UserID != session.UserID {
		m.removeFromIndexLocked(current)
		m.indexLocked(session)
	}
	m.sessions[session.Token] = session.Clone()
	return nil
}

func (m *MemoryStore) Touch(ctx context.Context, token string, fp fingerprint.Fingerprint, at time.Time) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	session, exists := m.sessions[token]
	if !exists {
		return ErrSessionNotFound
	}

	session.LastActiveAt = at
	session.Fingerprint = fp
	return nil
}

func (m *MemoryStore) Delete(ctx context.Context, token string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.removeLocked(token)
	return nil
}

func (m *MemoryStore) Replace(ctx context.Context, oldToken string, session *Session) error {
	if session == nil || session.Token == "" {
		return ErrInvalidSession
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if _, exists := m.sessions[oldToken]; !exists {
		return ErrSessionNotFound
	}
	if _, exists := m.sessions[session.Token]; exists {
		return ErrSessionExists
	}

	m.removeLocked(oldToken)
	m.insertLocked(session.Clone())
	return nil
}

func (m *MemoryStore) ListByUser(ctx context.Context, userID uuid.UUID) ([]*Session, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	tokens := m.byUser[userID]
	sessions := make([]*Session, 0, len(tokens))
	for token := range tokens {
		if session, exists := m.sessions[token]; exists {
			sessions = append(sessions, session.Clone())
		}
	}
	return sessions, nil
}

func (m *MemoryStore) DeleteByUser(ctx context.Context, userID uuid.UUID) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	for token := range m.byUser[userID] {
		m.removeLocked(token)
	}
	return nil
}

func (m *MemoryStore) DeleteExpired(ctx context.Context, ttl time.Duration) ([]*Session, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	now := time.Now()
	var removed []*Session
	for token, session := range m.sessions {
		if session.IdleExpired(now, ttl) {
			removed = append(removed, session.Clone())
			m.removeLocked(token)
		}
	}
	return removed, nil
}

// Close stops the background sweep goroutine. Safe to call more than
// once, including concurrently.
func (m *MemoryStore) Close() error {
	m.closeOnce.Do(func() {
		if m.ticker != nil {
			m.ticker.Stop()
		}
		close(m.done)
	})
	return nil
}

// Stats returns the number of live sessions and distinct users.
func (m *MemoryStore) Stats() (sessions, users int) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.sessions), len(m.byUser)
}

func (m *MemoryStore) sweepLoop(tick <-chan time.Time, ttl time.Duration) {
	for {
		select {
		case <-tick:
			_, _ = m.DeleteExpired(context.Background(), ttl)
		case <-m.done:
			return
		}
	}
}

func (m *MemoryStore) insertLocked(session *Session) {
	m.sessions[session.Token] = session
	m.indexLocked(session)
}

func (m *MemoryStore) indexLocked(session *Session) {
	tokens, exists := m.byUser[session.UserID]
	if !exists {
		tokens = make(map[string]struct{})
		m.byUser[session.UserID] = tokens
	}
	tokens[session.Token] = struct{}{}
}

func (m *MemoryStore) removeLocked(token string) {
	session, exists := m.sessions[token]
	if !exists {
		return
	}
	delete(m.sessions, token)
	m.removeFromIndexLocked(session)
}

func (m *MemoryStore) removeFromIndexLocked(session *Session) {
	tokens, exists := m.byUser[session.UserID]
	if !exists {
		return
	}
	delete(tokens, session.Token)
	if len(tokens) == 0 {
		delete(m.byUser, session.UserID)
	}
}
