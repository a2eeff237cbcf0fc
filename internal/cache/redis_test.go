package cache

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type cachedStats struct {
	Total   int64  `json:"total"`
	Pending int64  `json:"pending"`
	Label   string `json:"label"`
}

func newTestRedis(t *testing.T) (*miniredis.Miniredis, *redis.Client) {
	t.Helper()
	mr, err := miniredis.Run()
	require.NoError(t, err)
	t.Cleanup(mr.Close)

	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { rdb.Close() })
	return mr, rdb
}

func TestGetJSON_SetJSON_RoundTrip(t *testing.T) {
	_, rdb := newTestRedis(t)
	ctx := context.Background()

	in := cachedStats{Total: 42, Pending: 7, Label: "dashboard"}
	SetJSON(ctx, rdb, "stats:test", in, time.Minute)

	var out cachedStats
	assert.True(t, GetJSON(ctx, rdb, "stats:test", &out))
	assert.Equal(t, in, out)
}

func TestGetJSON_MissReturnsFalse(t *testing.T) {
	_, rdb := newTestRedis(t)

	var out cachedStats
	assert.False(t, GetJSON(context.Background(), rdb, "stats:absent", &out))
}

func TestGetJSON_ExpiredEntryIsMiss(t *testing.T) {
	mr, rdb := newTestRedis(t)
	ctx := context.Background()

	SetJSON(ctx, rdb, "stats:ttl", cachedStats{Total: 1}, time.Minute)
	mr.FastForward(2 * time.Minute)

	var out cachedStats
	assert.False(t, GetJSON(ctx, rdb, "stats:ttl", &out))
}

func TestGetJSON_CorruptPayloadIsMiss(t *testing.T) {
	mr, rdb := newTestRedis(t)

	require.NoError(t, mr.Set("stats:bad", "{not json"))

	var out cachedStats
	assert.False(t, GetJSON(context.Background(), rdb, "stats:bad", &out))
}

func TestNilClientIsNoop(t *testing.T) {
	ctx := context.Background()

	SetJSON(ctx, nil, "stats:nil", cachedStats{Total: 9}, time.Minute)

	var out cachedStats
	assert.False(t, GetJSON(ctx, nil, "stats:nil", &out))
	assert.Zero(t, out.Total)
}
