package store

import (
	"context"

	redis "github.com/redis/go-redis/v9"
)

// Open connects to redisURL and verifies the connection with PING.
func Open(ctx context.Context, redisURL string) (*redis.Client, error) {
	opt, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, err
	}
	c := redis.NewClient(opt)
	if err := c.Ping(ctx).Err(); err != nil {
		_ = c.Close()
		return nil, err
	}
	return c, nil
}

// Pinger adapts *redis.Client to the health checker.
type Pinger struct{ Client *redis.Client }

func (p Pinger) Ping(ctx context.Context) error { return p.Client.Ping(ctx).Err() }
