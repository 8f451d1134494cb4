package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	redis "github.com/redis/go-redis/v9"
)

// RedisSequencer numbers analysis requests per session with INCR so that
// every instance behind a load balancer agrees on the newest one.
type RedisSequencer struct {
	client *redis.Client
	keyNS  string
	ttl    time.Duration
}

func NewRedisSequencer(client *redis.Client, keyPrefix string, ttl time.Duration) *RedisSequencer {
	return &RedisSequencer{client: client, keyNS: keyPrefix + "seq", ttl: ttl}
}

func (s *RedisSequencer) key(session string) string { return fmt.Sprintf("%s:%s", s.keyNS, session) }

func (s *RedisSequencer) Next(ctx context.Context, session string) (int64, error) {
	k := s.key(session)
	pipe := s.client.TxPipeline()
	incr := pipe.Incr(ctx, k)
	if s.ttl > 0 {
		pipe.Expire(ctx, k, s.ttl)
	}
	if _, err := pipe.Exec(ctx); err != nil {
		return 0, err
	}
	return incr.Val(), nil
}

func (s *RedisSequencer) Latest(ctx context.Context, session string) (int64, error) {
	n, err := s.client.Get(ctx, s.key(session)).Int64()
	if errors.Is(err, redis.Nil) {
		return 0, nil
	}
	return n, err
}
