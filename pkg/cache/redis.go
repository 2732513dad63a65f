package cache

import (
	"context"
	"errors"
	"fmt"
	"net"
	"time"

	"github.com/redis/go-redis/v9"
)

// RedisConfig configures a RedisCache.
type RedisConfig struct {
	// Client is used when set; otherwise one is created from Addr.
	Client *redis.Client

	Addr     string
	Password string
	DB       int

	// KeyPrefix is prepended to every key. Default: "spiralstair:cache:".
	KeyPrefix string
}

// RedisCache stores entries in Redis with native expiry.
type RedisCache struct {
	client    *redis.Client
	keyPrefix string
	owned     bool
}

// NewRedisCache connects to Redis and verifies the connection.
func NewRedisCache(ctx context.Context, cfg RedisConfig) (*RedisCache, error) {
	client, owned := cfg.Client, false
	if client == nil {
		if cfg.Addr == "" {
			return nil, fmt.Errorf("redis address is required")
		}
		client = redis.NewClient(&redis.Options{Addr: cfg.Addr, Password: cfg.Password, DB: cfg.DB})
		owned = true
	}
	if cfg.KeyPrefix == "" {
		cfg.KeyPrefix = "spiralstair:cache:"
	}
	if err := client.Ping(ctx).Err(); err != nil {
		if owned {
			client.Close()
		}
		return nil, fmt.Errorf("ping redis: %w", err)
	}
	return &RedisCache{client: client, keyPrefix: cfg.KeyPrefix, owned: owned}, nil
}

// Get retrieves a value, retrying transient network failures.
func (c *RedisCache) Get(ctx context.Context, key string) ([]byte, bool, error) {
	var data []byte
	err := withRetry(ctx, func() error {
		v, err := c.client.Get(ctx, c.keyPrefix+key).Bytes()
		data = v
		return classify(err)
	})
	if errors.Is(err, errMiss) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("redis get: %w", err)
	}
	return data, true, nil
}

// Set stores a value with Redis expiry.
func (c *RedisCache) Set(ctx context.Context, key string, data []byte, ttl time.Duration) error {
	err := withRetry(ctx, func() error {
		return classify(c.client.Set(ctx, c.keyPrefix+key, data, ttl).Err())
	})
	if err != nil {
		return fmt.Errorf("redis set: %w", err)
	}
	return nil
}

// Delete removes a value.
func (c *RedisCache) Delete(ctx context.Context, key string) error {
	if err := c.client.Del(ctx, c.keyPrefix+key).Err(); err != nil {
		return fmt.Errorf("redis del: %w", err)
	}
	return nil
}

// Clear removes every entry under the key prefix.
func (c *RedisCache) Clear(ctx context.Context) (int, error) {
	var n int
	iter := c.client.Scan(ctx, 0, c.keyPrefix+"*", 256).Iterator()
	for iter.Next(ctx) {
		if err := c.client.Del(ctx, iter.Val()).Err(); err != nil {
			return n, fmt.Errorf("redis del: %w", err)
		}
		n++
	}
	if err := iter.Err(); err != nil {
		return n, fmt.Errorf("redis scan: %w", err)
	}
	return n, nil
}

// Close closes the client if the cache created it.
func (c *RedisCache) Close() error {
	if c.owned {
		return c.client.Close()
	}
	return nil
}

// Redis retry policy for transient network errors.
const (
	redisAttempts  = 3
	redisBaseDelay = 100 * time.Millisecond
)

// errMiss marks a missing key inside the retry loop.
var errMiss = errors.New("cache miss")

// transientError marks a failure worth another attempt.
type transientError struct{ err error }

func (e transientError) Error() string { return e.err.Error() }
func (e transientError) Unwrap() error { return e.err }

// classify maps redis.Nil to errMiss and network failures to transient errors.
func classify(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, redis.Nil):
		return errMiss
	}
	var ne net.Error
	if errors.As(err, &ne) {
		return transientError{err}
	}
	return err
}

// withRetry runs fn up to redisAttempts times, doubling the delay after
// each transient failure.
func withRetry(ctx context.Context, fn func() error) error {
	delay := redisBaseDelay
	var err error
	for attempt := 1; ; attempt++ {
		err = fn()
		var te transientError
		if err == nil || !errors.As(err, &te) || attempt == redisAttempts {
			return err
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(delay):
			delay *= 2
		}
	}
}

var _ Cache = (*RedisCache)(nil)
