package ratelimit

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const keyPrefix = "sonar:ratelimit:"

// Redis is a fixed-window limiter shared by every server instance.
type Redis struct {
	rdb *redis.Client
	now func() time.Time
}

// NewRedis wraps an existing client.
func NewRedis(rdb *redis.Client) *Redis {
	return &Redis{rdb: rdb, now: time.Now}
}

// Connect parses url, connects and verifies the server with a ping.
func Connect(ctx context.Context, url string) (*Redis, error) {
	opts, err := redis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("redis.ParseURL: %w", err)
	}
	rdb := redis.NewClient(opts)
	if err := rdb.Ping(ctx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("redis ping failed: %w", err)
	}
	return NewRedis(rdb), nil
}

// Check implements Limiter. The first call of a window sets the key's
// expiry; later calls only increment.
func (r *Redis) Check(ctx context.Context, key string, limit int, window time.Duration) (Result, error) {
	k := keyPrefix + key

	var (
		incr *redis.IntCmd
		pttl *redis.DurationCmd
	)
	_, err := r.rdb.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		incr = pipe.Incr(ctx, k)
		pipe.ExpireNX(ctx, k, window)
		pttl = pipe.PTTL(ctx, k)
		return nil
	})
	if err != nil {
		return Result{}, fmt.Errorf("rate limit %s: %w", key, err)
	}

	ttl := pttl.Val()
	if ttl <= 0 {
		ttl = window
	}
	return result(incr.Val(), limit, r.now().Add(ttl)), nil
}

// Ping checks the connection.
func (r *Redis) Ping(ctx context.Context) error { return r.rdb.Ping(ctx).Err() }

// Close releases the client.
func (r *Redis) Close() error { return r.rdb.Close() }
