package secevent

import (
	"context"

	"github.com/google/uuid"
)

// Criteria narrows a Query. Zero values match everything.
type Criteria struct {
	// UserID filters events to one user when non-zero.
	UserID uuid.UUID
	// Type filters events to one type when non-empty.
	Type Type
	// Limit caps the number of returned events; 0 means no cap.
	Limit int
}

// Storage persists security events. Implementations are append-only and
// capacity-bounded: once the configured cap is exceeded, the oldest
// entries are evicted first.
type Storage interface {
	// Store appends an event.
	Store(ctx context.Context, event Event) error

	// Query returns events matching the criteria, newest first.
	Query(ctx context.Context, criteria Criteria) ([]Event, error)
}

// Logger records security events.
type Logger interface {
	// Log appends an event of the given type. The event id and
	// timestamp are assigned here.
	Log(ctx context.Context, eventType Type, opts ...EventOption) error
}

// Reader is the outward query surface over the bounded event log.
type Reader interface {
	Find(ctx context.Context, criteria Criteria) ([]Event, error)
}
