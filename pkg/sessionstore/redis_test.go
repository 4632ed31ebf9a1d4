package sessionstore

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/adfluent/sessionguard/pkg/fingerprint"
)

// redisRecorder intercepts every command at the hook layer and answers
// it in-process, so command shapes can be asserted without a server.
type redisRecorder struct {
	mu     sync.Mutex
	values map[string]string
	calls  []string
}

func newRedisRecorder() *redisRecorder {
	return &redisRecorder{values: make(map[string]string)}
}

func (r *redisRecorder) client() *redis.Client {
	client := redis.NewClient(&redis.Options{})
	client.AddHook(r)
	return client
}

func (r *redisRecorder) DialHook(next redis.DialHook) redis.DialHook { return next }

func (r *redisRecorder) ProcessHook(redis.ProcessHook) redis.ProcessHook {
	return func(ctx context.Context, cmd redis.Cmder) error {
		return r.handle(cmd)
	}
}

func (r *redisRecorder) ProcessPipelineHook(redis.ProcessPipelineHook) redis.ProcessPipelineHook {
	return func(ctx context.Context, cmds []redis.Cmder) error {
		for _, cmd := range cmds {
			if err := r.handle(cmd); err != nil {
				cmd.SetErr(err)
			}
		}
		return nil
	}
}

func (r *redisRecorder) handle(cmd redis.Cmder) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	parts := make([]string, 0, len(cmd.Args()))
	for _, arg := range cmd.Args() {
		parts = append(parts, fmt.Sprint(arg))
	}
	r.calls = append(r.calls, strings.Join(parts, " "))

	switch c := cmd.(type) {
	case *redis.StringCmd:
		value, ok := r.values[fmt.Sprint(cmd.Args()[1])]
		if !ok {
			c.SetErr(redis.Nil)
			return redis.Nil
		}
		c.SetVal(value)
	case *redis.StatusCmd:
		c.SetVal("OK")
	case *redis.BoolCmd:
		c.SetVal(true)
	case *redis.IntCmd:
		c.SetVal(1)
	}
	return nil
}

// call returns the first recorded command starting with prefix.
func (r *redisRecorder) call(prefix string) (string, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, call := range r.calls {
		if strings.HasPrefix(call, prefix) {
			return call, true
		}
	}
	return "", false
}

func TestNewRedisStore(t *testing.T) {
	t.Parallel()

	t.Run("nil client rejected", func(t *testing.T) {
		t.Parallel()
		_, err := NewRedisStore(nil, time.Minute)
		assert.Error(t, err)
	})

	t.Run("non-positive ttl rejected", func(t *testing.T) {
		t.Parallel()
		_, err := NewRedisStore(redis.NewClient(&redis.Options{}), 0)
		assert.Error(t, err)
	})

	t.Run("valid arguments", func(t *testing.T) {
		t.Parallel()
		store, err := NewRedisStore(redis.NewClient(&redis.Options{}), time.Minute)
		require.NoError(t, err)
		assert.NotNil(t, store)
	})
}

func TestRedisStore_Keys(t *testing.T) {
	t.Parallel()

	store, err := NewRedisStore(redis.NewClient(&redis.Options{}), time.Minute)
	require.NoError(t, err)

	userID := uuid.MustParse("a2b44b29-98c8-4a82-a0b9-d4b49ca55b0c")
	assert.Equal(t, "sessionguard:session:tok123", store.sessionKey("tok123"))
	assert.Equal(t, "sessionguard:user:a2b44b29-98c8-4a82-a0b9-d4b49ca55b0c", store.userKey(userID))
}

func TestRedisStore_TouchKeepsUserIndexAlive(t *testing.T) {
	t.Parallel()

	rec := newRedisRecorder()
	store, err := NewRedisStore(rec.client(), 30*time.Minute)
	require.NoError(t, err)

	userID := uuid.MustParse("a2b44b29-98c8-4a82-a0b9-d4b49ca55b0c")
	sess := &Session{
		Token:        "tok123",
		UserID:       userID,
		CreatedAt:    time.Now(),
		LastActiveAt: time.Now(),
		RotatedAt:    time.Now(),
	}
	data, err := json.Marshal(sess)
	require.NoError(t, err)
	rec.values[store.sessionKey("tok123")] = string(data)

	fp := fingerprint.Fingerprint{IP: "198.51.100.7"}
	require.NoError(t, store.Touch(context.Background(), "tok123", fp, time.Now()))

	// the session key TTL is reset without allowing resurrection
	set, ok := rec.call("set sessionguard:session:tok123")
	require.True(t, ok)
	assert.Contains(t, set, "ex 1800")
	assert.Contains(t, set, "XX")

	// the user index must stay alive as long as the session does, or
	// ListByUser and DeleteByUser stop seeing active sessions
	expire, ok := rec.call("expire sessionguard:user:" + userID.String())
	require.True(t, ok)
	assert.Equal(t, "expire sessionguard:user:"+userID.String()+" 1800", expire)
}

func TestSession_JSONRoundTrip(t *testing.T) {
	t.Parallel()

	now := time.Now().UTC().Truncate(time.Second)
	sess := &Session{
		Token:  "tok",
		UserID: uuid.New(),
		Fingerprint: fingerprint.Fingerprint{
			IP:             "198.51.100.7",
			Subnet:         "198.51.100",
			UserAgent:      "Mozilla/5.0",
			AcceptLanguage: "en-US",
			AcceptEncoding: "gzip",
		},
		DeviceID:     "device-1",
		Trusted:      true,
		Location:     "Berlin, DE",
		IssuedTokens: []string{"aux-1"},
		CreatedAt:    now,
		LastActiveAt: now,
		RotatedAt:    now,
	}

	data, err := json.Marshal(sess)
	require.NoError(t, err)

	var decoded Session
	require.NoError(t, json.Unmarshal(data, &decoded))
	assert.Equal(t, *sess, decoded)
}
