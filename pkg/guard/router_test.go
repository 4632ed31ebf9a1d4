package guard_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/adfluent/sessionguard/pkg/secevent"
)

func TestGuard_Router_SecurityEvents(t *testing.T) {
	t.Parallel()

	type listing struct {
		Success bool             `json:"success"`
		Data    []secevent.Event `json:"data"`
	}

	list := func(t *testing.T, handler http.Handler, target string) (int, listing) {
		t.Helper()
		w := httptest.NewRecorder()
		handler.ServeHTTP(w, httptest.NewRequest(http.MethodGet, target, nil))
		var body listing
		if w.Code == http.StatusOK {
			require.NoError(t, json.NewDecoder(w.Body).Decode(&body))
		}
		return w.Code, body
	}

	t.Run("lists newest first", func(t *testing.T) {
		t.Parallel()

		f := newFixture(t)
		sess := f.login(t, uuid.New())
		require.NoError(t, f.guard.Revoke(t.Context(), httptest.NewRecorder(), deviceRequest(sess.Token)))

		handler := f.guard.Router(secevent.NewReader(f.storage))
		code, body := list(t, handler, "/security/events")
		require.Equal(t, http.StatusOK, code)
		assert.True(t, body.Success)
		require.Len(t, body.Data, 2)
		assert.Equal(t, secevent.TypeSessionDestroyed, body.Data[0].Type)
		assert.Equal(t, secevent.TypeSessionCreated, body.Data[1].Type)
	})

	t.Run("filters by user", func(t *testing.T) {
		t.Parallel()

		f := newFixture(t)
		alice := uuid.New()
		f.login(t, alice)
		f.login(t, uuid.New())

		handler := f.guard.Router(secevent.NewReader(f.storage))
		code, body := list(t, handler, "/security/events?user_id="+alice.String())
		require.Equal(t, http.StatusOK, code)
		require.Len(t, body.Data, 1)
		assert.Equal(t, alice, body.Data[0].UserID)
	})

	t.Run("honors limit", func(t *testing.T) {
		t.Parallel()

		f := newFixture(t)
		for range 4 {
			f.login(t, uuid.New())
		}

		handler := f.guard.Router(secevent.NewReader(f.storage))
		code, body := list(t, handler, "/security/events?limit=2")
		require.Equal(t, http.StatusOK, code)
		assert.Len(t, body.Data, 2)
	})

	t.Run("empty log yields empty list", func(t *testing.T) {
		t.Parallel()

		f := newFixture(t)
		handler := f.guard.Router(secevent.NewReader(f.storage))
		code, body := list(t, handler, "/security/events")
		require.Equal(t, http.StatusOK, code)
		assert.True(t, body.Success)
		assert.NotNil(t, body.Data)
		assert.Empty(t, body.Data)
	})

	t.Run("rejects bad parameters", func(t *testing.T) {
		t.Parallel()

		f := newFixture(t)
		handler := f.guard.Router(secevent.NewReader(f.storage))

		code, _ := list(t, handler, "/security/events?user_id=not-a-uuid")
		assert.Equal(t, http.StatusBadRequest, code)

		code, _ = list(t, handler, "/security/events?limit=-1")
		assert.Equal(t, http.StatusBadRequest, code)

		code, _ = list(t, handler, "/security/events?limit=abc")
		assert.Equal(t, http.StatusBadRequest, code)
	})
}
