package sessionstore

import (
	"crypto/rand"
	"encoding/base64"
	"errors"
	"slices"
	"time"

	"github.com/google/uuid"

	"github.com/adfluent/sessionguard/pkg/fingerprint"
)

// Session binds a user identity to a bearer token, with activity and
// rotation timestamps. A session's token never changes in place:
// rotation creates a new session and retires the old one.
type Session struct {
	Token        string                  `json:"token"`
	UserID       uuid.UUID               `json:"user_id"`
	Fingerprint  fingerprint.Fingerprint `json:"fingerprint"`
	DeviceID     string                  `json:"device_id,omitempty"`
	Trusted      bool                    `json:"trusted"`
	Location     string                  `json:"location,omitempty"`
	IssuedTokens []string                `json:"issued_tokens,omitempty"`
	CreatedAt    time.Time               `json:"created_at"`
	LastActiveAt time.Time               `json:"last_active_at"`
	RotatedAt    time.Time               `json:"rotated_at"`
}

// New creates a session for an already-authenticated user with a fresh
// unguessable token.
func New(userID uuid.UUID, fp fingerprint.Fingerprint) (*Session, error) {
	token, err := NewToken()
	if err != nil {
		return nil, err
	}

	now := time.Now()
	return &Session{
		Token:        token,
		UserID:       userID,
		Fingerprint:  fp,
		CreatedAt:    now,
		LastActiveAt: now,
		RotatedAt:    now,
	}, nil
}

// IdleExpired reports whether the session exceeded its inactivity window.
func (s *Session) IdleExpired(now time.Time, ttl time.Duration) bool {
	return s != nil && now.Sub(s.LastActiveAt) > ttl
}

// RotationDue reports whether the session token is older than the
// rotation interval.
func (s *Session) RotationDue(now time.Time, interval time.Duration) bool {
	return s != nil && now.Sub(s.RotatedAt) > interval
}

// IssueToken records an auxiliary token bound to this session. Issued
// tokens are invalidated wholesale on rotation.
func (s *Session) IssueToken(token string) {
	if s == nil || token == "" {
		return
	}
	s.IssuedTokens = append(s.IssuedTokens, token)
}

// Clone returns a deep copy so store internals never alias caller state.
func (s *Session) Clone() *Session {
	if s == nil {
		return nil
	}
	dup := *s
	dup.IssuedTokens = slices.Clone(s.IssuedTokens)
	return &dup
}

// NewToken creates a cryptographically secure session token.
func NewToken() (string, error) {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		return "", errors.Join(ErrTokenGeneration, err)
	}
	return base64.RawURLEncoding.EncodeToString(b), nil
}
