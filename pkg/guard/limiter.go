package guard

import (
	"context"
	"sort"

	"github.com/google/uuid"

	"github.com/adfluent/sessionguard/pkg/secevent"
	"github.com/adfluent/sessionguard/pkg/sessionstore"
)

// EnforceLimit applies the per-user session cap: when the user has more
// than MaxConcurrentSessions sessions, the least-recently-active surplus
// is removed from the registry and returned. The retained set is exactly
// the most recently active ones, ties broken by token for determinism.
func (g *Guard) EnforceLimit(ctx context.Context, userID uuid.UUID) ([]*sessionstore.Session, error) {
	return g.enforceLimit(ctx, userID, "")
}

// enforceLimit is EnforceLimit with one protected token that is never
// evicted, used on the request path where the current session's
// activity timestamp has not been refreshed yet.
func (g *Guard) enforceLimit(ctx context.Context, userID uuid.UUID, protect string) ([]*sessionstore.Session, error) {
	max := g.config.MaxConcurrentSessions
	if max <= 0 {
		return nil, nil
	}

	sessions, err := g.store.ListByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	if len(sessions) <= max {
		return nil, nil
	}

	// Oldest activity first; equal timestamps fall back to token order
	// so every replica evicts the same sessions.
	sort.Slice(sessions, func(i, j int) bool {
		if sessions[i].LastActiveAt.Equal(sessions[j].LastActiveAt) {
			return sessions[i].Token < sessions[j].Token
		}
		return sessions[i].LastActiveAt.Before(sessions[j].LastActiveAt)
	})

	surplus := len(sessions) - max
	var evicted []*sessionstore.Session
	for _, session := range sessions {
		if len(evicted) == surplus {
			break
		}
		if session.Token == protect {
			continue
		}
		if err := g.store.Delete(ctx, session.Token); err != nil {
			return evicted, err
		}
		evicted = append(evicted, session)
		g.emit(ctx, secevent.TypeConcurrentSessionLimit,
			secevent.WithSession(session.Token, userID),
			secevent.WithDetail("max_sessions", max),
		)
	}
	return evicted, nil
}
