package redis

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/writerhub/marketplace/internal/session"
)

type fakeKV struct {
	data map[string]string
	ttl  map[string]time.Duration
	err  error
}

func newFakeKV() *fakeKV {
	return &fakeKV{data: map[string]string{}, ttl: map[string]time.Duration{}}
}

func (f *fakeKV) Get(_ context.Context, key string) *redis.StringCmd {
	if f.err != nil {
		return redis.NewStringResult("", f.err)
	}
	v, ok := f.data[key]
	if !ok {
		return redis.NewStringResult("", redis.Nil)
	}
	return redis.NewStringResult(v, nil)
}

func (f *fakeKV) Set(_ context.Context, key string, value interface{}, exp time.Duration) *redis.StatusCmd {
	if f.err != nil {
		return redis.NewStatusResult("", f.err)
	}
	f.data[key] = string(value.([]byte))
	f.ttl[key] = exp
	return redis.NewStatusResult("OK", nil)
}

func (f *fakeKV) Del(_ context.Context, keys ...string) *redis.IntCmd {
	if f.err != nil {
		return redis.NewIntResult(0, f.err)
	}
	var n int64
	for _, k := range keys {
		if _, ok := f.data[k]; ok {
			delete(f.data, k)
			n++
		}
	}
	return redis.NewIntResult(n, nil)
}

func TestSessionStore_RoundTrip(t *testing.T) {
	ctx := context.Background()
	kv := newFakeKV()
	s := NewSessionStore(kv, "")

	if _, err := s.Load(ctx); !errors.Is(err, session.ErrNoSession) {
		t.Fatalf("expected ErrNoSession, got %v", err)
	}
	if err := s.Save(ctx, []byte(`{"user":{}}`)); err != nil {
		t.Fatalf("Save: %v", err)
	}
	if kv.ttl[DefaultSessionKey] != 0 {
		t.Fatalf("session must not expire, got ttl %v", kv.ttl[DefaultSessionKey])
	}
	blob, err := s.Load(ctx)
	if err != nil || string(blob) != `{"user":{}}` {
		t.Fatalf("unexpected blob %q (%v)", blob, err)
	}
	if err := s.Clear(ctx); err != nil {
		t.Fatalf("Clear: %v", err)
	}
	if _, err := s.Load(ctx); !errors.Is(err, session.ErrNoSession) {
		t.Fatalf("expected ErrNoSession after clear, got %v", err)
	}
}

func TestSessionStore_Errors(t *testing.T) {
	ctx := context.Background()
	kv := newFakeKV()
	kv.err = errors.New("connection refused")
	s := NewSessionStore(kv, "custom")

	if _, err := s.Load(ctx); err == nil || errors.Is(err, session.ErrNoSession) {
		t.Fatalf("expected transport error, got %v", err)
	}
	if err := s.Save(ctx, []byte("x")); err == nil {
		t.Fatalf("expected Save error")
	}
	if err := s.Clear(ctx); err == nil {
		t.Fatalf("expected Clear error")
	}
}
