package guard

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/adfluent/sessionguard/pkg/secevent"
)

type eventsResponse struct {
	Success bool             `json:"success"`
	Data    []secevent.Event `json:"data"`
}

// Router exposes the outward monitoring surface: the bounded security
// event log, optionally filtered by user. Mount it behind operator
// authentication.
//
//	GET /security/events?user_id=<uuid>&limit=<n>
func (g *Guard) Router(reader secevent.Reader) http.Handler {
	r := chi.NewRouter()

	r.Get("/security/events", func(w http.ResponseWriter, req *http.Request) {
		criteria := secevent.Criteria{}

		if raw := req.URL.Query().Get("user_id"); raw != "" {
			userID, err := uuid.Parse(raw)
			if err != nil {
				http.Error(w, "invalid user_id", http.StatusBadRequest)
				return
			}
			criteria.UserID = userID
		}

		if raw := req.URL.Query().Get("limit"); raw != "" {
			limit, err := strconv.Atoi(raw)
			if err != nil || limit < 0 {
				http.Error(w, "invalid limit", http.StatusBadRequest)
				return
			}
			criteria.Limit = limit
		}

		events, err := reader.Find(req.Context(), criteria)
		if err != nil {
			writeError(w, http.StatusInternalServerError, CodeInternalError)
			return
		}
		if events == nil {
			events = []secevent.Event{}
		}

		w.Header().Set("Content-Type", "application/json; charset=utf-8")
		_ = json.NewEncoder(w).Encode(eventsResponse{Success: true, Data: events})
	})

	return r
}
