package sessionstore

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/adfluent/sessionguard/pkg/fingerprint"
)

// Store is the authoritative registry of active sessions, indexed by
// token and by owning user. Implementations must keep both indices
// consistent: a reader never observes a session in one and not the
// other.
type Store interface {
	// Create stores a new session. Fails with ErrSessionExists if the
	// token already resolves.
	Create(ctx context.Context, session *Session) error

	// Get retrieves a session by token.
	Get(ctx context.Context, token string) (*Session, error)

	// Update replaces an existing session's state under the same token.
	Update(ctx context.Context, session *Session) error

	// Touch updates the session's last-active time and stored
	// fingerprint in one step.
	Touch(ctx context.Context, token string, fp fingerprint.Fingerprint, at time.Time) error

	// Delete removes a session by token. Deleting an absent token is
	// not an error.
	Delete(ctx context.Context, token string) error

	// Replace atomically retires oldToken and inserts session under its
	// new token: the old token stops resolving the instant the new one
	// is visible, with no window where both or neither resolve.
	Replace(ctx context.Context, oldToken string, session *Session) error

	// ListByUser returns all sessions owned by the user.
	ListByUser(ctx context.Context, userID uuid.UUID) ([]*Session, error)

	// DeleteByUser removes every session owned by the user.
	DeleteByUser(ctx context.Context, userID uuid.UUID) error

	// DeleteExpired removes every session idle longer than ttl and
	// returns the removed sessions for event logging.
	DeleteExpired(ctx context.Context, ttl time.Duration) ([]*Session, error)
}
