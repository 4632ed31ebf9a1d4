package sessionstore

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/adfluent/sessionguard/pkg/fingerprint"
)

// RedisStore implements Store on a Redis server, using native per-key
// expiry instead of a custom sweep: every session key carries the idle
// TTL and each Touch resets it, so an idle session simply disappears.
// The per-user index is a Redis set; dangling index entries (session key
// expired, set member still present) are pruned lazily on reads and by
// DeleteExpired.
//
// Because expiry happens inside Redis, evicted sessions are not observed
// by this process: DeleteExpired returns no sessions and expiry produces
// no security events from this store.
type RedisStore struct {
	client    redis.UniversalClient
	ttl       time.Duration
	keyPrefix string
}

// NewRedisStore creates a Redis-backed session store. ttl is the idle
// timeout applied to every session key; it must be positive.
func NewRedisStore(client redis.UniversalClient, ttl time.Duration) (*RedisStore, error) {
	if client == nil {
		return nil, errors.New("sessionstore: redis client is required")
	}
	if ttl <= 0 {
		return nil, errors.New("sessionstore: redis store requires a positive ttl")
	}
	return &RedisStore{
		client:    client,
		ttl:       ttl,
		keyPrefix: "sessionguard:",
	}, nil
}

func (r *RedisStore) Create(ctx context.Context, session *Session) error {
	if session == nil || session.Token == "" {
		return ErrInvalidSession
	}

	data, err := json.Marshal(session)
	if err != nil {
		return err
	}

	ok, err := r.client.SetNX(ctx, r.sessionKey(session.Token), data, r.ttl).Result()
	if err != nil {
		return err
	}
	if !ok {
		return ErrSessionExists
	}

	pipe := r.client.TxPipeline()
	pipe.SAdd(ctx, r.userKey(session.UserID), session.Token)
	pipe.Expire(ctx, r.userKey(session.UserID), r.ttl)
	_, err = pipe.Exec(ctx)
	return err
}

func (r *RedisStore) Get(ctx context.Context, token string) (*Session, error) {
	data, err := r.client.Get(ctx, r.sessionKey(token)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, ErrSessionNotFound
	}
	if err != nil {
		return nil, err
	}

	var session Session
	if err := json.Unmarshal(data, &session); err != nil {
		return nil, err
	}
	return &session, nil
}

func (r *RedisStore) Update(ctx context.Context, session *Session) error {
	if session == nil || session.Token == "" {
		return ErrInvalidSession
	}

	data, err := json.Marshal(session)
	if err != nil {
		return err
	}

	// XX: only overwrite a live key, so an expired session cannot be
	// resurrected by a late update.
	err = r.client.SetArgs(ctx, r.sessionKey(session.Token), data, redis.SetArgs{
		Mode: "XX",
		TTL:  r.ttl,
	}).Err()
	if errors.Is(err, redis.Nil) {
		return ErrSessionNotFound
	}
	if err != nil {
		return err
	}

	// SADD never refreshes an existing set's TTL, so the user index must
	// be kept alive here too; otherwise Touch-only activity outlives the
	// index and ListByUser/DeleteByUser go blind.
	return r.client.Expire(ctx, r.userKey(session.UserID), r.ttl).Err()
}

func (r *RedisStore) Touch(ctx context.Context, token string, fp fingerprint.Fingerprint, at time.Time) error {
	session, err := r.Get(ctx, token)
	if err != nil {
		return err
	}

	session.LastActiveAt = at
	session.Fingerprint = fp
	return r.Update(ctx, session)
}

func (r *RedisStore) Delete(ctx context.Context, token string) error {
	session, err := r.Get(ctx, token)
	if errors.Is(err, ErrSessionNotFound) {
		return nil
	}
	if err != nil {
		return err
	}

	pipe := r.client.TxPipeline()
	pipe.Del(ctx, r.sessionKey(token))
	pipe.SRem(ctx, r.userKey(session.UserID), token)
	_, err = pipe.Exec(ctx)
	return err
}

func (r *RedisStore) Replace(ctx context.Context, oldToken string, session *Session) error {
	if session == nil || session.Token == "" {
		return ErrInvalidSession
	}

	if _, err := r.Get(ctx, oldToken); err != nil {
		return err
	}

	data, err := json.Marshal(session)
	if err != nil {
		return err
	}

	// MULTI/EXEC: the old token stops resolving in the same atomic step
	// that makes the new one visible.
	pipe := r.client.TxPipeline()
	pipe.Del(ctx, r.sessionKey(oldToken))
	pipe.Set(ctx, r.sessionKey(session.Token), data, r.ttl)
	pipe.SRem(ctx, r.userKey(session.UserID), oldToken)
	pipe.SAdd(ctx, r.userKey(session.UserID), session.Token)
	pipe.Expire(ctx, r.userKey(session.UserID), r.ttl)
	_, err = pipe.Exec(ctx)
	return err
}

func (r *RedisStore) ListByUser(ctx context.Context, userID uuid.UUID) ([]*Session, error) {
	tokens, err := r.client.SMembers(ctx, r.userKey(userID)).Result()
	if err != nil {
		return nil, err
	}
	if len(tokens) == 0 {
		return nil, nil
	}

	keys := make([]string, len(tokens))
	for i, token := range tokens {
		keys[i] = r.sessionKey(token)
	}

	values, err := r.client.MGet(ctx, keys...).Result()
	if err != nil {
		return nil, err
	}

	sessions := make([]*Session, 0, len(values))
	var dangling []any
	for i, value := range values {
		raw, ok := value.(string)
		if !ok {
			dangling = append(dangling, tokens[i])
			continue
		}
		var session Session
		if err := json.Unmarshal([]byte(raw), &session); err != nil {
			dangling = append(dangling, tokens[i])
			continue
		}
		sessions = append(sessions, &session)
	}

	if len(dangling) > 0 {
		_ = r.client.SRem(ctx, r.userKey(userID), dangling...).Err()
	}

	return sessions, nil
}

func (r *RedisStore) DeleteByUser(ctx context.Context, userID uuid.UUID) error {
	tokens, err := r.client.SMembers(ctx, r.userKey(userID)).Result()
	if err != nil {
		return err
	}

	pipe := r.client.TxPipeline()
	for _, token := range tokens {
		pipe.Del(ctx, r.sessionKey(token))
	}
	pipe.Del(ctx, r.userKey(userID))
	_, err = pipe.Exec(ctx)
	return err
}

// DeleteExpired prunes dangling user-index entries. Session keys expire
// natively, so there is nothing else to sweep and no sessions to return.
func (r *RedisStore) DeleteExpired(ctx context.Context, _ time.Duration) ([]*Session, error) {
	iter := r.client.Scan(ctx, 0, r.keyPrefix+"user:*", 100).Iterator()
	for iter.Next(ctx) {
		userKey := iter.Val()
		tokens, err := r.client.SMembers(ctx, userKey).Result()
		if err != nil {
			return nil, err
		}
		for _, token := range tokens {
			exists, err := r.client.Exists(ctx, r.sessionKey(token)).Result()
			if err != nil {
				return nil, err
			}
			if exists == 0 {
				_ = r.client.SRem(ctx, userKey, token).Err()
			}
		}
	}
	return nil, iter.Err()
}

func (r *RedisStore) sessionKey(token string) string {
	return r.keyPrefix + "session:" + token
}

func (r *RedisStore) userKey(userID uuid.UUID) string {
	return r.keyPrefix + "user:" + userID.String()
}
