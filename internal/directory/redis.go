package directory

import (
	"context"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
	"log/slog"

	"github.com/NewBieCoderXD/chat-website/internal/app"
)

// Redis stores each room as a plain string key (room key -> display name)
// and leans on Redis EX expiry for the TTL.
type Redis struct {
	rdb *redis.Client
	log *slog.Logger
}

// NewRedis connects to redis and verifies connectivity
func NewRedis(ctx context.Context, cfg app.Config, log *slog.Logger) (*Redis, error) {
	rdb := redis.NewClient(&redis.Options{
		Addr: cfg.RedisAddr,
		DB:   cfg.RedisDB,
	})
	if err := rdb.Ping(ctx).Err(); err != nil {
		return nil, err
	}
	return &Redis{rdb: rdb, log: log}, nil
}

func (r *Redis) Get(ctx context.Context, key string) (string, bool, error) {
	name, err := r.rdb.Get(ctx, key).Result()
	if errors.Is(err, redis.Nil) {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}
	return name, true, nil
}

func (r *Redis) Set(ctx context.Context, key, name string, ttl time.Duration) error {
	return r.rdb.Set(ctx, key, name, ttl).Err()
}

func (r *Redis) Keys(ctx context.Context) ([]string, error) {
	return r.rdb.Keys(ctx, "*").Result()
}

// Close shuts down the redis connection
func (r *Redis) Close() { _ = r.rdb.Close() }
