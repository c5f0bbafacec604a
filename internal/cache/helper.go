package cache

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"time"

	"skillswap/internal/middleware"
	"skillswap/internal/observability"

	"github.com/redis/go-redis/v9"
)

// GetJSON attempts to get the key from Redis and unmarshal into dest.
// Returns (true, nil) if found and unmarshaled, (false, nil) if not found.
func GetJSON(ctx context.Context, key string, dest any) (bool, error) {
	if client == nil {
		return false, nil
	}
	s, err := client.Get(ctx, key).Result()
	if errors.Is(err, redis.Nil) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	if err := json.Unmarshal([]byte(s), dest); err != nil {
		return false, err
	}
	return true, nil
}

// SetJSON marshals v and sets the key with TTL.
func SetJSON(ctx context.Context, key string, v any, ttl time.Duration) error {
	if client == nil {
		return nil
	}
	b, err := json.Marshal(v)
	if err != nil {
		return err
	}
	return client.Set(ctx, key, b, ttl).Err()
}

// Aside tries Redis first; on a miss it calls fetch, which must populate dest,
// and stores dest with ttl. Redis failures degrade to a plain fetch.
func Aside(ctx context.Context, keyspace, key string, dest any, ttl time.Duration, fetch func() error) error {
	found, err := GetJSON(ctx, key, dest)
	switch {
	case err != nil:
		middleware.Logger.WarnContext(ctx, "cache read failed",
			slog.String("key", key),
			slog.String("error", err.Error()),
		)
		observability.CacheLookups.WithLabelValues(keyspace, "error").Inc()
	case found:
		observability.CacheLookups.WithLabelValues(keyspace, "hit").Inc()
		return nil
	case client != nil:
		observability.CacheLookups.WithLabelValues(keyspace, "miss").Inc()
	}

	if err := fetch(); err != nil {
		return err
	}

	if err := SetJSON(ctx, key, dest, ttl); err != nil {
		middleware.Logger.WarnContext(ctx, "cache write failed",
			slog.String("key", key),
			slog.String("error", err.Error()),
		)
	}
	return nil
}

// Ping reports Redis health. It returns ErrDisabled when no client is configured.
func Ping(ctx context.Context) error {
	if client == nil {
		return ErrDisabled
	}
	return client.Ping(ctx).Err()
}

// ErrDisabled is returned by Ping when caching is not configured.
var ErrDisabled = errors.New("cache disabled")
