package cache

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"time"

	"github.com/amirasaad/ledger/pkg/cache"
	"github.com/amirasaad/ledger/pkg/domain/analytics"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// RedisNetWorthCache stores net worth snapshots as JSON under
// <prefix>networth:<userID>.
type RedisNetWorthCache struct {
	client *redis.Client
	prefix string
	logger *slog.Logger
}

// NewRedisNetWorthCache creates a cache from redis.Options.
func NewRedisNetWorthCache(opt *redis.Options, prefix string, logger *slog.Logger) *RedisNetWorthCache {
	return NewRedisNetWorthCacheWithClient(redis.NewClient(opt), prefix, logger)
}

// NewRedisNetWorthCacheWithClient wraps an existing client.
func NewRedisNetWorthCacheWithClient(client *redis.Client, prefix string, logger *slog.Logger) *RedisNetWorthCache {
	return &RedisNetWorthCache{client: client, prefix: prefix, logger: logger.With("cache", "redis")}
}

func (r *RedisNetWorthCache) key(userID uuid.UUID) string {
	return r.prefix + "networth:" + userID.String()
}

func (r *RedisNetWorthCache) Get(ctx context.Context, userID uuid.UUID) (*analytics.NetWorth, error) {
	val, err := r.client.Get(ctx, r.key(userID)).Result()
	if errors.Is(err, redis.Nil) {
		r.logger.Debug("Redis cache miss", "userID", userID)
		return nil, nil
	}
	if err != nil {
		r.logger.Error("Redis cache get error", "userID", userID, "error", err)
		return nil, err
	}
	var nw analytics.NetWorth
	if err := json.Unmarshal([]byte(val), &nw); err != nil {
		r.logger.Error("Redis cache unmarshal error", "userID", userID, "error", err)
		return nil, err
	}
	r.logger.Debug("Redis cache hit", "userID", userID)
	return &nw, nil
}

func (r *RedisNetWorthCache) Set(ctx context.Context, userID uuid.UUID, nw *analytics.NetWorth, ttl time.Duration) error {
	data, err := json.Marshal(nw)
	if err != nil {
		r.logger.Error("Redis cache marshal error", "userID", userID, "error", err)
		return err
	}
	if err := r.client.Set(ctx, r.key(userID), data, ttl).Err(); err != nil {
		r.logger.Error("Redis cache set error", "userID", userID, "error", err)
		return err
	}
	r.logger.Debug("Redis cache set", "userID", userID, "ttl", ttl)
	return nil
}

func (r *RedisNetWorthCache) Delete(ctx context.Context, userID uuid.UUID) error {
	if err := r.client.Del(ctx, r.key(userID)).Err(); err != nil {
		r.logger.Error("Redis cache delete error", "userID", userID, "error", err)
		return err
	}
	r.logger.Debug("Redis cache delete", "userID", userID)
	return nil
}

var _ cache.NetWorthCache = (*RedisNetWorthCache)(nil)

// Close releases the client connection pool.
func (r *RedisNetWorthCache) Close() error {
	return r.client.Close()
}
