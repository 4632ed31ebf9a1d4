// Package guard orchestrates session security on the request path:
// token extraction, registry lookup, inactivity timeout, fingerprint
// validation, concurrent-session limiting, token rotation and activity
// update, sequenced into one atomic decision per request.
//
// The outcome of every guarded request is an explicit Result — Skip,
// Allow or Reject with a caller-facing code — so callers handle all
// branches at compile time. The pipeline holds a per-token lock for its
// whole duration; concurrent requests for the same session serialize.
//
// Usage:
//
//	store := sessionstore.NewMemoryStore(0, 0)
//	events := secevent.NewLogger(secevent.NewMemoryStorage(1000))
//	g := guard.New(store, guard.WithEventLogger(events))
//	g.StartSweeper()
//	defer g.Close()
//
//	mux.Handle("/api/", g.RequireSession(apiHandler))
//
// Sessions are minted with Issue after an external identity check
// succeeds; credential verification is out of this package's scope.
package guard
