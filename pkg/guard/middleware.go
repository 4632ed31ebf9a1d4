package guard

import (
	"encoding/json"
	"log/slog"
	"net/http"
)

type errorBody struct {
	Code    RejectCode `json:"code"`
	Message string     `json:"message"`
}

type errorResponse struct {
	Success bool      `json:"success"`
	Error   errorBody `json:"error"`
}

// Middleware guards every request. Rejections become 401 responses with
// a structured body; requests without a session token pass through so
// the next handler decides whether anonymous access is permitted. On
// success the session is placed in the request context, and a rotation
// indicator header is set when the token was replaced.
func (g *Guard) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer g.recoverInternal(w, r)

		result, err := g.Authorize(r.Context(), w, r)
		if err != nil {
			g.log.ErrorContext(r.Context(), "session guard pipeline failed", slog.Any("error", err))
			writeError(w, http.StatusInternalServerError, CodeInternalError)
			return
		}

		switch result.Outcome {
		case OutcomeReject:
			writeError(w, http.StatusUnauthorized, result.Code)
		case OutcomeAllow:
			if result.Rotated {
				w.Header().Set("X-Session-Rotated", "1")
			}
			next.ServeHTTP(w, r.WithContext(WithSession(r.Context(), result.Session)))
		default:
			next.ServeHTTP(w, r)
		}
	})
}

// RequireSession is Middleware that additionally refuses requests
// carrying no session token at all.
func (g *Guard) RequireSession(next http.Handler) http.Handler {
	return g.Middleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if _, ok := FromContext(r.Context()); !ok {
			writeError(w, http.StatusUnauthorized, CodeSessionInvalid)
			return
		}
		next.ServeHTTP(w, r)
	}))
}

// recoverInternal turns a panic anywhere in the pipeline into a generic
// 500 without echoing internal details.
func (g *Guard) recoverInternal(w http.ResponseWriter, r *http.Request) {
	if rec := recover(); rec != nil {
		g.log.ErrorContext(r.Context(), "session guard panicked", slog.Any("panic", rec))
		writeError(w, http.StatusInternalServerError, CodeInternalError)
	}
}

func writeError(w http.ResponseWriter, status int, code RejectCode) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(errorResponse{
		Success: false,
		Error:   errorBody{Code: code, Message: code.Message()},
	})
}
