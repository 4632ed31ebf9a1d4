package guard

import (
	"context"
	"time"

	"github.com/adfluent/sessionguard/pkg/sessionstore"
)

// rotate replaces the session's token while preserving its identity
// binding. The new session carries the userId, fingerprint, device id,
// trust flag and location forward; issued auxiliary tokens are
// invalidated wholesale. The registry swap is atomic: the old token
// stops resolving the instant the new one is visible.
func (g *Guard) rotate(ctx context.Context, session *sessionstore.Session, now time.Time) (*sessionstore.Session, error) {
	token, err := sessionstore.NewToken()
	if err != nil {
		return nil, err
	}

	fresh := &sessionstore.Session{
		Token:        token,
		UserID:       session.UserID,
		Fingerprint:  session.Fingerprint,
		DeviceID:     session.DeviceID,
		Trusted:      session.Trusted,
		Location:     session.Location,
		CreatedAt:    session.CreatedAt,
		LastActiveAt: now,
		RotatedAt:    now,
	}

	if err := g.store.Replace(ctx, session.Token, fresh); err != nil {
		return nil, err
	}
	return fresh, nil
}
