package session

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	pkgredis "github.com/dmejorado/agentic-checkout/pkg/redis"
)

// RedisStore keeps aggregates as JSON values with a sliding TTL, matching the
// out-of-scope external cleanup model: expiry is the only deletion path
// besides Remove.
type RedisStore struct {
	client *pkgredis.Client
	ttl    time.Duration
}

func NewRedisStore(client *pkgredis.Client, ttl time.Duration) (*RedisStore, error) {
	if client == nil {
		return nil, fmt.Errorf("redis client required")
	}
	return &RedisStore{client: client, ttl: ttl}, nil
}

func (r *RedisStore) Get(ctx context.Context, id string) (*Session, error) {
	raw, err := r.client.Get(ctx, r.client.SessionKey(id))
	if err != nil {
		if pkgredis.IsNotFound(err) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("reading session %s: %w", id, err)
	}
	var stored Session
	if err := json.Unmarshal([]byte(raw), &stored); err != nil {
		return nil, fmt.Errorf("decoding session %s: %w", id, err)
	}
	return &stored, nil
}

func (r *RedisStore) Put(ctx context.Context, session *Session) error {
	raw, err := json.Marshal(session)
	if err != nil {
		return fmt.Errorf("encoding session %s: %w", session.ID, err)
	}
	if err := r.client.Set(ctx, r.client.SessionKey(session.ID), raw, r.ttl); err != nil {
		return fmt.Errorf("writing session %s: %w", session.ID, err)
	}
	return nil
}

func (r *RedisStore) Remove(ctx context.Context, id string) error {
	if err := r.client.Del(ctx, r.client.SessionKey(id)); err != nil {
		return fmt.Errorf("removing session %s: %w", id, err)
	}
	return nil
}
