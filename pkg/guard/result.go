package guard

import "github.com/adfluent/sessionguard/pkg/sessionstore"

// RejectCode identifies why a request was rejected.
type RejectCode string

const (
	// CodeSessionInvalid means the presented token resolves no session.
	CodeSessionInvalid RejectCode = "SESSION_INVALID"
	// CodeSessionExpired means the session exceeded its inactivity window.
	CodeSessionExpired RejectCode = "SESSION_EXPIRED"
	// CodeSecurityViolation means the fingerprint scored below the
	// acceptance threshold (suspected hijack).
	CodeSecurityViolation RejectCode = "SESSION_SECURITY_VIOLATION"
	// CodeInternalError means the pipeline itself failed.
	CodeInternalError RejectCode = "SESSION_SECURITY_ERROR"
)

// Message returns the caller-facing description for the code. Internal
// details are never echoed.
func (c RejectCode) Message() string {
	switch c {
	case CodeSessionInvalid:
		return "Session is invalid"
	case CodeSessionExpired:
		return "Session has expired"
	case CodeSecurityViolation:
		return "Session security check failed"
	default:
		return "Session security error"
	}
}

// Outcome is the terminal state of one guarded request.
type Outcome int

const (
	// OutcomeSkip means no session token was present on the request.
	// Whether anonymous access is permitted is the caller's decision.
	OutcomeSkip Outcome = iota
	// OutcomeAllow means the request is authorized.
	OutcomeAllow
	// OutcomeReject means the request must be refused with Code.
	OutcomeReject
)

// Result is the outcome of Authorize. Callers must handle all three
// outcomes; there is no exception-style escape hatch.
type Result struct {
	Outcome Outcome
	// Session is the authorized (possibly rotated) session on Allow.
	Session *sessionstore.Session
	// Code is set on Reject.
	Code RejectCode
	// Rotated reports that the session token was replaced; the response
	// transport already carries the new token.
	Rotated bool
}

// Allowed reports whether the request is authorized.
func (r Result) Allowed() bool { return r.Outcome == OutcomeAllow }

// Rejected reports whether the request must be refused.
func (r Result) Rejected() bool { return r.Outcome == OutcomeReject }

func skip() Result { return Result{Outcome: OutcomeSkip} }

func reject(code RejectCode) Result {
	return Result{Outcome: OutcomeReject, Code: code}
}

func allow(session *sessionstore.Session, rotated bool) Result {
	return Result{Outcome: OutcomeAllow, Session: session, Rotated: rotated}
}
