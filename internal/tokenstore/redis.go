package tokenstore

import (
	"context"
	"fmt"

	"github.com/redis/go-redis/v9"

	"github.com/HammerMeetNail/suggestly/internal/models"
)

const redisKeyPrefix = "suggestly:session:"

// RedisClient is the subset of *redis.Client the store uses.
type RedisClient interface {
	HSet(ctx context.Context, key string, values ...interface{}) *redis.IntCmd
	HGetAll(ctx context.Context, key string) *redis.MapStringStringCmd
	Del(ctx context.Context, keys ...string) *redis.IntCmd
}

// RedisStore keeps the pair in one hash so a single HSET writes both tokens
// and a single DEL removes them.
type RedisStore struct {
	client RedisClient
	key    string
}

func NewRedisStore(client RedisClient, sessionKey string) *RedisStore {
	return &RedisStore{client: client, key: redisKeyPrefix + sessionKey}
}

func (s *RedisStore) Load(ctx context.Context) (models.TokenPair, error) {
	fields, err := s.client.HGetAll(ctx, s.key).Result()
	if err != nil {
		return models.TokenPair{}, fmt.Errorf("reading session from redis: %w", err)
	}
	pair := models.TokenPair{
		AccessToken:  fields["access_token"],
		RefreshToken: fields["refresh_token"],
		TokenType:    fields["token_type"],
	}
	if pair.AccessToken == "" {
		return models.TokenPair{}, ErrNoTokens
	}
	return pair, nil
}

func (s *RedisStore) Save(ctx context.Context, pair models.TokenPair) error {
	err := s.client.HSet(ctx, s.key,
		"access_token", pair.AccessToken,
		"refresh_token", pair.RefreshToken,
		"token_type", pair.TokenType,
	).Err()
	if err != nil {
		return fmt.Errorf("writing session to redis: %w", err)
	}
	return nil
}

func (s *RedisStore) Clear(ctx context.Context) error {
	if err := s.client.Del(ctx, s.key).Err(); err != nil {
		return fmt.Errorf("clearing session in redis: %w", err)
	}
	return nil
}
