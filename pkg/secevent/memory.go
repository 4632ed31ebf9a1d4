package secevent

import (
	"context"
	"sync"

	"github.com/google/uuid"
)

// DefaultCapacity bounds the in-memory event log when no explicit
// capacity is given.
const DefaultCapacity = 1000

// MemoryStorage is a bounded, append-only, in-process event log. Once
// the capacity is exceeded the oldest entries are dropped first.
type MemoryStorage struct {
	mu       sync.RWMutex
	events   []Event
	capacity int
}

// NewMemoryStorage creates an in-memory event storage holding at most
// capacity events. Non-positive capacity falls back to DefaultCapacity.
func NewMemoryStorage(capacity int) *MemoryStorage {
	if capacity <= 0 {
		capacity = DefaultCapacity
	}
	return &MemoryStorage{capacity: capacity}
}

func (m *MemoryStorage) Store(ctx context.Context, event Event) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.events = append(m.events, event)
	if overflow := len(m.events) - m.capacity; overflow > 0 {
		m.events = append(m.events[:0], m.events[overflow:]...)
	}
	return nil
}

func (m *MemoryStorage) Query(ctx context.Context, criteria Criteria) ([]Event, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	var matched []Event
	// Newest first: walk the append-ordered log backwards.
	for i := len(m.events) - 1; i >= 0; i-- {
		event := m.events[i]
		if criteria.UserID != uuid.Nil && event.UserID != criteria.UserID {
			continue
		}
		if criteria.Type != "" && event.Type != criteria.Type {
			continue
		}
		matched = append(matched, event)
		if criteria.Limit > 0 && len(matched) == criteria.Limit {
			break
		}
	}
	return matched, nil
}

// Len returns the number of retained events.
func (m *MemoryStorage) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.events)
}
