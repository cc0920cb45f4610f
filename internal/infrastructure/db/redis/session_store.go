package redis

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/writerhub/marketplace/internal/session"
)

// DefaultSessionKey is the key the CLI session blob lives under.
const DefaultSessionKey = "writerhub:session"

// kv is the slice of the client SessionStore needs.
type kv interface {
	Get(ctx context.Context, key string) *redis.StringCmd
	Set(ctx context.Context, key string, value interface{}, expiration time.Duration) *redis.StatusCmd
	Del(ctx context.Context, keys ...string) *redis.IntCmd
}

// SessionStore implements session.Store with one Redis key. The blob never
// expires; it is removed only by Clear.
type SessionStore struct {
	client kv
	key    string
}

var _ session.Store = (*SessionStore)(nil)

func NewSessionStore(client kv, key string) *SessionStore {
	if key == "" {
		key = DefaultSessionKey
	}
	return &SessionStore{client: client, key: key}
}

func (s *SessionStore) Load(ctx context.Context) ([]byte, error) {
	blob, err := s.client.Get(ctx, s.key).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, session.ErrNoSession
		}
		return nil, fmt.Errorf("redis get session: %w", err)
	}
	return blob, nil
}

func (s *SessionStore) Save(ctx context.Context, blob []byte) error {
	if err := s.client.Set(ctx, s.key, blob, 0).Err(); err != nil {
		return fmt.Errorf("redis set session: %w", err)
	}
	return nil
}

func (s *SessionStore) Clear(ctx context.Context) error {
	if err := s.client.Del(ctx, s.key).Err(); err != nil {
		return fmt.Errorf("redis del session: %w", err)
	}
	return nil
}
