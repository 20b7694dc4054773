package redisStore

import (
	"context"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
)

func (s *Store) Set(ctx context.Context, key string, value interface{}, expiration time.Duration) error {
	return s.client.Set(ctx, key, value, expiration).Err()
}

func (s *Store) Get(ctx context.Context, key string) (string, error) {
	return s.client.Get(ctx, key).Result()
}

func (s *Store) IsNil(err error) bool {
	return errors.Is(err, redis.Nil)
}

// ListPrepend pushes value to the head of the list, trims the list to keep at most
// limit entries and refreshes the TTL.
func (s *Store) ListPrepend(ctx context.Context, key string, value interface{}, limit int64, ttl time.Duration) error {
	if err := s.client.LPush(ctx, key, value).Err(); err != nil {
		return err
	}
	if err := s.client.LTrim(ctx, key, 0, limit-1).Err(); err != nil {
		return err
	}
	return s.client.Expire(ctx, key, ttl).Err()
}

func (s *Store) ListRange(ctx context.Context, key string, start int64, stop int64) ([]string, error) {
	return s.client.LRange(ctx, key, start, stop).Result()
}
