package tokenstore

import (
	"context"
	"errors"
	"testing"

	"github.com/redis/go-redis/v9"
)

type fakeRedis struct {
	HSetFunc    func(ctx context.Context, key string, values ...interface{}) *redis.IntCmd
	HGetAllFunc func(ctx context.Context, key string) *redis.MapStringStringCmd
	DelFunc     func(ctx context.Context, keys ...string) *redis.IntCmd
}

func (f *fakeRedis) HSet(ctx context.Context, key string, values ...interface{}) *redis.IntCmd {
	return f.HSetFunc(ctx, key, values...)
}

func (f *fakeRedis) HGetAll(ctx context.Context, key string) *redis.MapStringStringCmd {
	return f.HGetAllFunc(ctx, key)
}

func (f *fakeRedis) Del(ctx context.Context, keys ...string) *redis.IntCmd {
	return f.DelFunc(ctx, keys...)
}

func TestRedisStore_SaveWritesBothTokensInOneCommand(t *testing.T) {
	calls := 0
	var gotKey string
	var gotValues []interface{}
	client := &fakeRedis{
		HSetFunc: func(ctx context.Context, key string, values ...interface{}) *redis.IntCmd {
			calls++
			gotKey = key
			gotValues = values
			return redis.NewIntResult(3, nil)
		},
	}

	s := NewRedisStore(client, "work")
	if err := s.Save(context.Background(), testPair); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if calls != 1 {
		t.Fatalf("expected a single HSET, got %d", calls)
	}
	if gotKey != "suggestly:session:work" {
		t.Fatalf("unexpected key %q", gotKey)
	}
	if len(gotValues) != 6 || gotValues[1] != "access-1" || gotValues[3] != "refresh-1" {
		t.Fatalf("unexpected values %v", gotValues)
	}
}

func TestRedisStore_Load(t *testing.T) {
	client := &fakeRedis{
		HGetAllFunc: func(ctx context.Context, key string) *redis.MapStringStringCmd {
			return redis.NewMapStringStringResult(map[string]string{
				"access_token":  "access-1",
				"refresh_token": "refresh-1",
				"token_type":    "bearer",
			}, nil)
		},
	}

	got, err := NewRedisStore(client, "work").Load(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != testPair {
		t.Fatalf("expected %+v, got %+v", testPair, got)
	}
}

func TestRedisStore_LoadMissing(t *testing.T) {
	client := &fakeRedis{
		HGetAllFunc: func(ctx context.Context, key string) *redis.MapStringStringCmd {
			return redis.NewMapStringStringResult(map[string]string{}, nil)
		},
	}
	if _, err := NewRedisStore(client, "work").Load(context.Background()); !errors.Is(err, ErrNoTokens) {
		t.Fatalf("expected ErrNoTokens, got %v", err)
	}
}

func TestRedisStore_LoadError(t *testing.T) {
	client := &fakeRedis{
		HGetAllFunc: func(ctx context.Context, key string) *redis.MapStringStringCmd {
			return redis.NewMapStringStringResult(nil, errors.New("down"))
		},
	}
	_, err := NewRedisStore(client, "work").Load(context.Background())
	if err == nil || errors.Is(err, ErrNoTokens) {
		t.Fatalf("expected transport error, got %v", err)
	}
}

func TestRedisStore_Clear(t *testing.T) {
	var deleted []string
	client := &fakeRedis{
		DelFunc: func(ctx context.Context, keys ...string) *redis.IntCmd {
			deleted = keys
			return redis.NewIntResult(1, nil)
		},
	}
	if err := NewRedisStore(client, "work").Clear(context.Background()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(deleted) != 1 || deleted[0] != "suggestly:session:work" {
		t.Fatalf("expected one key deleted, got %v", deleted)
	}
}
