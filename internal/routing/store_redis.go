package routing

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/emailkuy/emailkuy/internal/platform/apperr"
	"github.com/emailkuy/emailkuy/internal/platform/constants"
)

// RedisZoneNameCache implements [ZoneNameCache] on Redis with per-key TTL.
type RedisZoneNameCache struct {
	client *redis.Client
}

func NewZoneNameCache(client *redis.Client) *RedisZoneNameCache {
	return &RedisZoneNameCache{client: client}
}

func (cache *RedisZoneNameCache) Get(context context.Context, zoneID string) (string, error) {
	value, err := cache.client.Get(context, constants.RedisPrefixZoneName+zoneID).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return "", apperr.NotFound("Cached zone name")
		}
		return "", fmt.Errorf("redis_zone_cache_get_failed: %w", err)
	}
	return value, nil
}

func (cache *RedisZoneNameCache) Set(context context.Context, zoneID, zoneName string, ttl time.Duration) error {
	if err := cache.client.Set(context, constants.RedisPrefixZoneName+zoneID, zoneName, ttl).Err(); err != nil {
		return fmt.Errorf("redis_zone_cache_set_failed: %w", err)
	}
	return nil
}
