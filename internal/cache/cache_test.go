package cache

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newLocalOnly(t *testing.T) *LinkCache {
	c, err := New(nil, Options{LocalMaxCost: 1 << 20, LocalTTL: time.Minute}, zap.NewNop().Sugar())
	require.NoError(t, err)
	t.Cleanup(c.Close)
	return c
}

func TestLinkCache_MissingKey(t *testing.T) {
	c := newLocalOnly(t)

	val, found := c.Get(context.Background(), "nonexistent")
	assert.False(t, found)
	assert.Empty(t, val)
}

func TestLinkCache_SetThenGet(t *testing.T) {
	c := newLocalOnly(t)
	ctx := context.Background()

	c.Set(ctx, "abc123", "https://example.com/very/long/path")

	val, found := c.Get(ctx, "abc123")
	assert.True(t, found)
	assert.Equal(t, "https://example.com/very/long/path", val)
}

func TestLinkCache_Delete(t *testing.T) {
	c := newLocalOnly(t)
	ctx := context.Background()

	c.Set(ctx, "abc123", "https://example.com")
	c.Delete(ctx, "abc123")

	_, found := c.Get(ctx, "abc123")
	assert.False(t, found)
}

func TestLinkCache_Disabled(t *testing.T) {
	c, err := New(nil, Options{}, zap.NewNop().Sugar())
	require.NoError(t, err)
	defer c.Close()
	ctx := context.Background()

	c.Set(ctx, "abc123", "https://example.com")
	_, found := c.Get(ctx, "abc123")
	assert.False(t, found)
	c.Delete(ctx, "abc123")
}

func TestLinkCache_DeleteBlocksStaleBackfill(t *testing.T) {
	c := newLocalOnly(t)
	ctx := context.Background()

	c.Set(ctx, "abc123", "https://example.com")
	c.Delete(ctx, "abc123")
	// 删除前读到旧记录的解析随后回填
	c.Set(ctx, "abc123", "https://example.com")

	_, found := c.Get(ctx, "abc123")
	assert.False(t, found)
}

func TestLinkCache_TombstoneExpires(t *testing.T) {
	c := newLocalOnly(t)
	ctx := context.Background()
	now := time.Now()
	c.now = func() time.Time { return now }

	c.Delete(ctx, "abc123")
	c.Set(ctx, "abc123", "https://old.example")
	_, found := c.Get(ctx, "abc123")
	require.False(t, found)

	now = now.Add(c.opts.TombstoneTTL + time.Second)
	c.Set(ctx, "abc123", "https://new.example")
	val, found := c.Get(ctx, "abc123")
	assert.True(t, found)
	assert.Equal(t, "https://new.example", val)
}

func newRedisClient(t *testing.T) (*miniredis.Miniredis, *redis.Client) {
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })
	return mr, rdb
}

func TestLinkCache_RedisDisablesLocal(t *testing.T) {
	_, rdb := newRedisClient(t)

	c, err := New(rdb, Options{LocalMaxCost: 1 << 20}, zap.NewNop().Sugar())
	require.NoError(t, err)
	defer c.Close()

	assert.Nil(t, c.local)
}

func TestLinkCache_SharedRedisAcrossInstances(t *testing.T) {
	mr, rdb := newRedisClient(t)
	opts := Options{LocalMaxCost: 1 << 20, TombstoneTTL: time.Minute}
	ctx := context.Background()

	a, err := New(rdb, opts, zap.NewNop().Sugar())
	require.NoError(t, err)
	defer a.Close()
	b, err := New(rdb, opts, zap.NewNop().Sugar())
	require.NoError(t, err)
	defer b.Close()

	a.Set(ctx, "abc123", "https://example.com")
	val, found := b.Get(ctx, "abc123")
	require.True(t, found)
	assert.Equal(t, "https://example.com", val)

	// 一个实例删除后，另一个实例立即不可见，且旧记录不能写回
	b.Delete(ctx, "abc123")
	_, found = a.Get(ctx, "abc123")
	assert.False(t, found)
	a.Set(ctx, "abc123", "https://example.com")
	_, found = a.Get(ctx, "abc123")
	assert.False(t, found)

	mr.FastForward(time.Minute + time.Second)
	a.Set(ctx, "abc123", "https://reused.example")
	val, found = b.Get(ctx, "abc123")
	assert.True(t, found)
	assert.Equal(t, "https://reused.example", val)
}

func TestLinkCache_RedisUnavailable(t *testing.T) {
	mr, rdb := newRedisClient(t)
	c, err := New(rdb, Options{}, zap.NewNop().Sugar())
	require.NoError(t, err)
	defer c.Close()
	ctx := context.Background()

	mr.Close()
	c.Set(ctx, "abc123", "https://example.com")
	_, found := c.Get(ctx, "abc123")
	assert.False(t, found)
	c.Delete(ctx, "abc123")
}
