package guard

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/adfluent/sessionguard/pkg/fingerprint"
	"github.com/adfluent/sessionguard/pkg/secevent"
	"github.com/adfluent/sessionguard/pkg/sessionstore"
)

// LocationResolver maps a client IP to a coarse, human-readable
// location. Resolution itself is external; the guard only records the
// result.
type LocationResolver func(ip string) string

// Guard is the request-path entry point for session security. It
// sequences token extraction, registry lookup, timeout check,
// fingerprint validation, concurrency enforcement, rotation and
// activity update into one atomic decision per request.
type Guard struct {
	store     sessionstore.Store
	events    secevent.Logger
	transport Transport
	config    Config
	log       *slog.Logger
	clock     func() time.Time
	locate    LocationResolver
	locks     keyedMutex

	sweepTicker *time.Ticker
	done        chan struct{}
	closeOnce   sync.Once
}

// New creates a Guard over the given session store.
func New(store sessionstore.Store, opts ...Option) *Guard {
	if store == nil {
		panic("guard: session store is required")
	}

	g := &Guard{
		store:  store,
		config: DefaultConfig(),
		log:    slog.Default(),
		clock:  time.Now,
		done:   make(chan struct{}),
	}

	for _, opt := range opts {
		opt(g)
	}

	if g.transport == nil {
		g.transport = NewCompositeTransport(
			NewHeaderTransport(g.config.HeaderName),
			NewCookieTransport(g.config.CookieName),
		)
	}

	return g
}

// Authorize runs the validation pipeline for one request. The outcome
// is always one of Skip (no token present), Allow (authorized, possibly
// rotated session) or Reject (with a caller-facing code). A non-nil
// error means the pipeline itself failed and the caller must fail
// closed.
//
// The whole sequence holds a per-token lock: two concurrent requests
// for the same session serialize, so neither can rotate a token the
// other already retired or validate a session the other just evicted.
func (g *Guard) Authorize(ctx context.Context, w http.ResponseWriter, r *http.Request) (Result, error) {
	token, ok := g.transport.Token(r)
	if !ok {
		return skip(), nil
	}

	unlock := g.locks.lock(token)
	defer unlock()

	now := g.clock()
	current := fingerprint.Extract(r)

	session, err := g.store.Get(ctx, token)
	if err != nil {
		if !errors.Is(err, sessionstore.ErrSessionNotFound) {
			// Ambiguous registry state is treated as rejection, never a
			// silent allow.
			g.log.ErrorContext(ctx, "session lookup failed", slog.Any("error", err))
		}
		g.emit(ctx, secevent.TypeSuspiciousActivity,
			secevent.WithRequest(current.IP, current.UserAgent),
			secevent.WithDetail("reason", "unknown_session_token"),
		)
		return reject(CodeSessionInvalid), nil
	}

	if session.IdleExpired(now, g.config.SessionTimeout) {
		if err := g.store.Delete(ctx, token); err != nil {
			return Result{}, err
		}
		g.emit(ctx, secevent.TypeSessionExpired,
			secevent.WithSession(token, session.UserID),
			secevent.WithRequest(current.IP, current.UserAgent),
			secevent.WithDetail("idle_for", now.Sub(session.LastActiveAt).String()),
		)
		g.transport.Clear(w)
		return reject(CodeSessionExpired), nil
	}

	if g.config.EnableFingerprinting {
		validation := fingerprint.Validate(current, session.Fingerprint, g.config.StrictFingerprinting)
		if !validation.Valid {
			if err := g.store.Delete(ctx, token); err != nil {
				return Result{}, err
			}
			g.emit(ctx, secevent.TypeSessionHijackAttempt,
				secevent.WithSession(token, session.UserID),
				secevent.WithRequest(current.IP, current.UserAgent),
				secevent.WithDetail("score", validation.Score),
				secevent.WithDetail("differences", validation.Differences),
				secevent.WithDetail("stored_ip", session.Fingerprint.IP),
				secevent.WithDetail("current_ip", current.IP),
			)
			g.transport.Clear(w)
			return reject(CodeSecurityViolation), nil
		}
	}

	// The current session is protected from eviction: it is about to
	// become the most recently active one.
	if _, err := g.enforceLimit(ctx, session.UserID, session.Token); err != nil {
		return Result{}, err
	}

	rotated := false
	if g.config.EnableRotation && session.RotationDue(now, g.config.RotationInterval) {
		fresh, err := g.rotate(ctx, session, now)
		if err != nil {
			// A concurrent eviction or revocation can retire the session
			// between lookup and rotation; that is a stale token, not a
			// pipeline failure.
			if errors.Is(err, sessionstore.ErrSessionNotFound) {
				return reject(CodeSessionInvalid), nil
			}
			return Result{}, err
		}
		g.emit(ctx, secevent.TypeTokenRotation,
			secevent.WithSession(fresh.Token, fresh.UserID),
			secevent.WithRequest(current.IP, current.UserAgent),
			secevent.WithDetail("previous_token", session.Token),
		)
		session = fresh
		rotated = true
		g.transport.Set(w, session.Token, g.config.SessionTimeout, r.TLS != nil)
	}

	if err := g.store.Touch(ctx, session.Token, current, now); err != nil {
		if errors.Is(err, sessionstore.ErrSessionNotFound) {
			return reject(CodeSessionInvalid), nil
		}
		return Result{}, err
	}
	session.LastActiveAt = now
	session.Fingerprint = current

	return allow(session, rotated), nil
}

// Issue mints a session for an already-authenticated user and sends its
// token via the transport. Credential verification happens before this
// call, elsewhere.
func (g *Guard) Issue(ctx context.Context, w http.ResponseWriter, r *http.Request, userID uuid.UUID) (*sessionstore.Session, error) {
	fp := fingerprint.Extract(r)

	session, err := sessionstore.New(userID, fp)
	if err != nil {
		return nil, err
	}

	if g.config.AllowDeviceRemembering {
		session.DeviceID = fingerprint.DeviceID(fp)
	}
	if g.config.EnableLocationTracking && g.locate != nil {
		session.Location = g.locate(fp.IP)
	}

	if err := g.store.Create(ctx, session); err != nil {
		return nil, err
	}

	if _, err := g.enforceLimit(ctx, userID, session.Token); err != nil {
		return nil, err
	}

	g.emit(ctx, secevent.TypeSessionCreated,
		secevent.WithSession(session.Token, userID),
		secevent.WithRequest(fp.IP, fp.UserAgent),
	)

	g.transport.Set(w, session.Token, g.config.SessionTimeout, r.TLS != nil)
	return session, nil
}

// Revoke destroys the request's session, if any, and clears the
// transport token. Revocation takes effect for the next request on that
// token; an in-flight request that already passed validation is not
// retroactively invalidated.
func (g *Guard) Revoke(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
	defer g.transport.Clear(w)

	token, ok := g.transport.Token(r)
	if !ok {
		return nil
	}

	unlock := g.locks.lock(token)
	defer unlock()

	session, err := g.store.Get(ctx, token)
	if err != nil {
		if errors.Is(err, sessionstore.ErrSessionNotFound) {
			return nil
		}
		return err
	}

	if err := g.store.Delete(ctx, token); err != nil {
		return err
	}

	g.emit(ctx, secevent.TypeSessionDestroyed,
		secevent.WithSession(token, session.UserID),
		secevent.WithDetail("reason", "logout"),
	)
	return nil
}

// RevokeUser destroys every session owned by the user.
func (g *Guard) RevokeUser(ctx context.Context, userID uuid.UUID) error {
	sessions, err := g.store.ListByUser(ctx, userID)
	if err != nil {
		return err
	}

	if err := g.store.DeleteByUser(ctx, userID); err != nil {
		return err
	}

	for _, session := range sessions {
		g.emit(ctx, secevent.TypeSessionDestroyed,
			secevent.WithSession(session.Token, userID),
			secevent.WithDetail("reason", "revoked"),
		)
	}
	return nil
}

// Sweep removes every session idle longer than the session timeout and
// records their expiry.
func (g *Guard) Sweep(ctx context.Context) error {
	removed, err := g.store.DeleteExpired(ctx, g.config.SessionTimeout)
	if err != nil {
		return err
	}

	for _, session := range removed {
		g.emit(ctx, secevent.TypeSessionExpired,
			secevent.WithSession(session.Token, session.UserID),
			secevent.WithDetail("reason", "sweep"),
		)
	}
	return nil
}

// StartSweeper launches the periodic expiry sweep, independent of the
// request path. It is a no-op when SweepInterval is zero. Stop it with
// Close.
func (g *Guard) StartSweeper() {
	if g.config.SweepInterval <= 0 || g.sweepTicker != nil {
		return
	}

	g.sweepTicker = time.NewTicker(g.config.SweepInterval)
	go func(tick <-chan time.Time) {
		for {
			select {
			case <-tick:
				if err := g.Sweep(context.Background()); err != nil {
					g.log.Error("expiry sweep failed", slog.Any("error", err))
				}
			case <-g.done:
				return
			}
		}
	}(g.sweepTicker.C)
}

// Close stops the background sweeper.
func (g *Guard) Close() error {
	g.closeOnce.Do(func() {
		if g.sweepTicker != nil {
			g.sweepTicker.Stop()
		}
		close(g.done)
	})
	return nil
}

// emit records a security event, best-effort: a logging failure must
// never change the allow/reject decision.
func (g *Guard) emit(ctx context.Context, eventType secevent.Type, opts ...secevent.EventOption) {
	if !g.config.LogSecurityEvents || g.events == nil {
		return
	}
	if err := g.events.Log(ctx, eventType, opts...); err != nil {
		g.log.WarnContext(ctx, "security event not recorded",
			slog.String("event_type", string(eventType)),
			slog.Any("error", err),
		)
	}
}
