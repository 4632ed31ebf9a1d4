package guard

import (
	"context"

	"github.com/google/uuid"

	"github.com/adfluent/sessionguard/pkg/sessionstore"
)

type sessionContextKey struct{}

// WithSession adds a session to the context.
func WithSession(ctx context.Context, session *sessionstore.Session) context.Context {
	return context.WithValue(ctx, sessionContextKey{}, session)
}

// FromContext retrieves the session from the context.
func FromContext(ctx context.Context) (*sessionstore.Session, bool) {
	session, ok := ctx.Value(sessionContextKey{}).(*sessionstore.Session)
	return session, ok
}

// UserIDFromContext retrieves the owning user id from the session in
// context.
func UserIDFromContext(ctx context.Context) (uuid.UUID, bool) {
	session, ok := FromContext(ctx)
	if !ok {
		return uuid.Nil, false
	}
	return session.UserID, true
}
