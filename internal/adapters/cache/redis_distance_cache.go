package cache

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"mdvrp-planner/internal/platform/obs"
	"mdvrp-planner/internal/ports"

	redis "github.com/redis/go-redis/v9"
)

// RedisDistanceCache stores one hash per origin: field = destination, value = meters.
// Entries expire as a whole per origin after TTL so road changes eventually show up.
type RedisDistanceCache struct {
	rdb    *redis.Client
	prefix string
	ttl    time.Duration
}

func NewRedisDistanceCache(rdb *redis.Client, ttl time.Duration) *RedisDistanceCache {
	return &RedisDistanceCache{rdb: rdb, prefix: "distance:", ttl: ttl}
}

// NewRedisDistanceCacheFromURL parses a redis:// URL and connects lazily.
func NewRedisDistanceCacheFromURL(url string, ttl time.Duration) (*RedisDistanceCache, error) {
	opt, err := redis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("redis distance cache: parse url: %w", err)
	}
	return NewRedisDistanceCache(redis.NewClient(opt), ttl), nil
}

func (r *RedisDistanceCache) key(origin string) string { return r.prefix + origin }

func (r *RedisDistanceCache) GetMany(
	ctx context.Context,
	origin string,
	destinations []string,
) (_ map[string]ports.DistanceResult, err error) {
	defer obs.Time(ctx, "distance.cache.redis.GetMany")(&err)

	if r.rdb == nil {
		return nil, errors.New("distance cache: redis client is nil")
	}

	if origin == "" {
		return nil, errors.New("get distance cache: origin must not be empty")
	}

	uniq := uniqueKeys(destinations)
	if len(uniq) == 0 {
		return map[string]ports.DistanceResult{}, nil
	}

	vals, err := r.rdb.HMGet(ctx, r.key(origin), uniq...).Result()
	if err != nil {
		return nil, fmt.Errorf("get distance cache: hmget: %w", err)
	}

	out := make(map[string]ports.DistanceResult, len(uniq))
	for i, v := range vals {
		s, ok := v.(string)
		if !ok {
			continue
		}
		meters, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return nil, fmt.Errorf("get distance cache: parse %q for %q: %w", s, uniq[i], err)
		}
		out[uniq[i]] = ports.DistanceResult{DistanceMeters: meters}
	}

	return out, nil
}

func (r *RedisDistanceCache) PutMany(
	ctx context.Context,
	origin string,
	results map[string]ports.DistanceResult,
) error {
	if r.rdb == nil {
		return errors.New("distance cache: redis client is nil")
	}

	if origin == "" {
		return errors.New("insert distance cache: origin must not be empty")
	}

	if len(results) == 0 {
		return nil
	}

	fields := make(map[string]any, len(results))
	for dest, res := range results {
		if strings.TrimSpace(dest) == "" {
			return fmt.Errorf("insert distance cache: empty destination key")
		}
		// FormatFloat renders +Inf as "+Inf", which ParseFloat accepts back.
		fields[dest] = strconv.FormatFloat(res.DistanceMeters, 'g', -1, 64)
	}

	pipe := r.rdb.TxPipeline()
	pipe.HSet(ctx, r.key(origin), fields)
	if r.ttl > 0 {
		pipe.Expire(ctx, r.key(origin), r.ttl)
	}
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("insert distance cache origin=%q: %w", origin, err)
	}

	return nil
}

func (r *RedisDistanceCache) Close() error {
	if r.rdb == nil {
		return nil
	}
	return r.rdb.Close()
}
