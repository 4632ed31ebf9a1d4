package secevent

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
)

type logger struct {
	storage Storage
}

// NewLogger creates a logger that appends events to the given storage.
func NewLogger(storage Storage) Logger {
	if storage == nil {
		panic("secevent: storage cannot be nil")
	}
	return &logger{storage: storage}
}

func (l *logger) Log(ctx context.Context, eventType Type, opts ...EventOption) error {
	event := Event{
		ID:        uuid.New(),
		Type:      eventType,
		CreatedAt: time.Now(),
	}

	for _, opt := range opts {
		opt(&event)
	}

	if err := event.Validate(); err != nil {
		return err
	}

	if err := l.storage.Store(ctx, event); err != nil {
		return errors.Join(ErrStorageUnavailable, err)
	}
	return nil
}

type reader struct {
	storage Storage
}

// NewReader creates a query surface over the event storage.
func NewReader(storage Storage) Reader {
	if storage == nil {
		panic("secevent: storage cannot be nil")
	}
	return &reader{storage: storage}
}

func (r *reader) Find(ctx context.Context, criteria Criteria) ([]Event, error) {
	return r.storage.Query(ctx, criteria)
}
