package secevent

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Type enumerates security-relevant occurrences.
type Type string

const (
	TypeSessionCreated         Type = "SESSION_CREATED"
	TypeSessionDestroyed       Type = "SESSION_DESTROYED"
	TypeSessionExpired         Type = "SESSION_EXPIRED"
	TypeSessionHijackAttempt   Type = "SESSION_HIJACK_ATTEMPT"
	TypeConcurrentSessionLimit Type = "CONCURRENT_SESSION_LIMIT"
	TypeTokenRotation          Type = "TOKEN_ROTATION"
	TypeSuspiciousActivity     Type = "SUSPICIOUS_ACTIVITY"
)

// Event is an immutable audit record of a security-relevant decision.
// Events reference their session by token and outlive a removed session
// for audit purposes.
type Event struct {
	ID           uuid.UUID      `json:"id"`
	Type         Type           `json:"type"`
	SessionToken string         `json:"session_token,omitempty"`
	UserID       uuid.UUID      `json:"user_id,omitempty"`
	IP           string         `json:"ip,omitempty"`
	UserAgent    string         `json:"user_agent,omitempty"`
	Details      map[string]any `json:"details,omitempty"`
	CreatedAt    time.Time      `json:"created_at"`
}

// Validate checks that the event carries the required fields.
func (e *Event) Validate() error {
	if e.Type == "" {
		return fmt.Errorf("%w: type is required", ErrEventValidation)
	}
	return nil
}

// EventOption applies configuration to an Event during creation.
type EventOption func(*Event)

// WithSession attaches the session token and owning user.
func WithSession(token string, userID uuid.UUID) EventOption {
	return func(e *Event) {
		e.SessionToken = token
		e.UserID = userID
	}
}

// WithRequest attaches the request origin.
func WithRequest(ip, userAgent string) EventOption {
	return func(e *Event) {
		e.IP = ip
		e.UserAgent = userAgent
	}
}

// WithDetail adds a free-form key/value pair to the event.
func WithDetail(key string, value any) EventOption {
	return func(e *Event) {
		if e.Details == nil {
			e.Details = make(map[string]any)
		}
		e.Details[key] = value
	}
}
