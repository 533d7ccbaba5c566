package cache

import (
	"context"
	"math"
	"testing"
	"time"

	"mdvrp-planner/internal/ports"

	"github.com/alicebob/miniredis/v2"
	redis "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newRedisCache(t *testing.T, ttl time.Duration) (*RedisDistanceCache, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })
	return NewRedisDistanceCache(rdb, ttl), mr
}

func TestRedisDistanceCacheRoundTrip(t *testing.T) {
	c, _ := newRedisCache(t, 0)
	ctx := context.Background()

	err := c.PutMany(ctx, "13.4,52.5", map[string]ports.DistanceResult{
		"13.41,52.52": {DistanceMeters: 2210.4},
		"13.5,52.6":   {DistanceMeters: math.Inf(1)},
	})
	require.NoError(t, err)

	got, err := c.GetMany(ctx, "13.4,52.5", []string{"13.41,52.52", "13.5,52.6", "0,0", " 13.41,52.52 "})
	require.NoError(t, err)

	require.Len(t, got, 2)
	assert.Equal(t, 2210.4, got["13.41,52.52"].DistanceMeters)
	assert.True(t, math.IsInf(got["13.5,52.6"].DistanceMeters, 1))
	_, ok := got["0,0"]
	assert.False(t, ok)
}

func TestRedisDistanceCacheExpires(t *testing.T) {
	c, mr := newRedisCache(t, time.Hour)
	ctx := context.Background()

	require.NoError(t, c.PutMany(ctx, "o", map[string]ports.DistanceResult{"d": {DistanceMeters: 1}}))
	mr.FastForward(2 * time.Hour)

	got, err := c.GetMany(ctx, "o", []string{"d"})
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestRedisDistanceCacheRejectsBadKeys(t *testing.T) {
	c, _ := newRedisCache(t, 0)
	ctx := context.Background()

	_, err := c.GetMany(ctx, "", []string{"d"})
	require.Error(t, err)

	err = c.PutMany(ctx, "o", map[string]ports.DistanceResult{" ": {DistanceMeters: 1}})
	require.Error(t, err)

	require.NoError(t, c.PutMany(ctx, "o", nil))
}

func TestNewRedisDistanceCacheFromURL(t *testing.T) {
	mr := miniredis.RunT(t)

	c, err := NewRedisDistanceCacheFromURL("redis://"+mr.Addr()+"/0", time.Minute)
	require.NoError(t, err)
	t.Cleanup(func() { _ = c.Close() })

	require.NoError(t, c.PutMany(context.Background(), "o", map[string]ports.DistanceResult{"d": {DistanceMeters: 7}}))
	assert.True(t, mr.Exists("distance:o"))

	_, err = NewRedisDistanceCacheFromURL("not a url", time.Minute)
	require.Error(t, err)
}

func TestUniqueKeys(t *testing.T) {
	assert.Equal(t, []string{"a", "b"}, uniqueKeys([]string{" a", "b", "", "a "}))
	assert.Empty(t, uniqueKeys(nil))
}
