package cache

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/dgraph-io/ristretto"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

const (
	keyPrefix = "shortlink:"
	// tombstone 删除标记，合法 URL 不会以 NUL 开头
	tombstone = "\x00deleted"
)

// Options 重定向缓存参数
type Options struct {
	// LocalMaxCost 本地缓存容量（字节估算），0 表示关闭本地缓存。
	// 配置了 Redis 时本地缓存始终关闭，避免多实例间删除不同步。
	LocalMaxCost int64
	LocalTTL     time.Duration
	RedisTTL     time.Duration
	// TombstoneTTL 删除标记保留时长，期间回填被拒绝
	TombstoneTTL time.Duration
}

// LinkCache 短码到长链接的读缓存。配置 Redis 时只用 Redis，
// 否则使用进程内 ristretto。删除会留下标记，删除前已读到旧记录的
// 并发解析不能再把它写回缓存。缓存故障只记录日志，从不影响调用方。
type LinkCache struct {
	local  *ristretto.Cache
	redis  *redis.Client
	opts   Options
	logger *zap.SugaredLogger

	// mu 串行化本地缓存的检查与写入
	mu         sync.Mutex
	tombstones map[string]time.Time
	now        func() time.Time
}

// New 创建缓存，rdb 可以为 nil
func New(rdb *redis.Client, opts Options, logger *zap.SugaredLogger) (*LinkCache, error) {
	if opts.LocalTTL <= 0 {
		opts.LocalTTL = time.Minute
	}
	if opts.RedisTTL <= 0 {
		opts.RedisTTL = 24 * time.Hour
	}
	if opts.TombstoneTTL <= 0 {
		opts.TombstoneTTL = 5 * time.Minute
	}

	c := &LinkCache{
		redis:      rdb,
		opts:       opts,
		logger:     logger.Named("link_cache"),
		tombstones: make(map[string]time.Time),
		now:        time.Now,
	}
	if rdb != nil {
		if opts.LocalMaxCost > 0 {
			c.logger.Info("已配置 Redis，进程内缓存关闭")
		}
		return c, nil
	}
	if opts.LocalMaxCost > 0 {
		local, err := ristretto.NewCache(&ristretto.Config{
			NumCounters: max(1, opts.LocalMaxCost/10), // 每条约 100 字节，计数器取条目数的 10 倍
			MaxCost:     opts.LocalMaxCost,
			BufferItems: 64,
		})
		if err != nil {
			return nil, err
		}
		c.local = local
	}
	return c, nil
}

// Get 查询缓存，删除标记按未命中处理
func (c *LinkCache) Get(ctx context.Context, code string) (string, bool) {
	if c.redis != nil {
		url, err := c.redis.Get(ctx, keyPrefix+code).Result()
		if err != nil {
			if !errors.Is(err, redis.Nil) {
				c.logger.Warnf("读取 Redis 缓存失败 code=%s: %v", code, err)
			}
			return "", false
		}
		if url == tombstone {
			return "", false
		}
		return url, true
	}

	if c.local == nil {
		return "", false
	}
	if val, found := c.local.Get(code); found {
		if url, ok := val.(string); ok {
			return url, true
		}
	}
	return "", false
}

// Set 回填缓存。只在键不存在时写入，不会覆盖删除标记。
func (c *LinkCache) Set(ctx context.Context, code, url string) {
	if c.redis != nil {
		if err := c.redis.SetNX(ctx, keyPrefix+code, url, c.opts.RedisTTL).Err(); err != nil {
			c.logger.Warnf("写入 Redis 缓存失败 code=%s: %v", code, err)
		}
		return
	}

	if c.local == nil {
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	if deadline, ok := c.tombstones[code]; ok && c.now().Before(deadline) {
		return
	}
	cost := int64(len(code) + len(url))
	c.local.SetWithTTL(code, url, cost, c.opts.LocalTTL)
	// 等待写缓冲落地，保证随后的 Get 可见
	c.local.Wait()
}

// Delete 移除短码并写入删除标记
func (c *LinkCache) Delete(ctx context.Context, code string) {
	if c.redis != nil {
		if err := c.redis.Set(ctx, keyPrefix+code, tombstone, c.opts.TombstoneTTL).Err(); err != nil {
			c.logger.Warnf("写入 Redis 删除标记失败 code=%s: %v", code, err)
		}
		return
	}

	if c.local == nil {
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	now := c.now()
	for k, deadline := range c.tombstones {
		if !now.Before(deadline) {
			delete(c.tombstones, k)
		}
	}
	c.tombstones[code] = now.Add(c.opts.TombstoneTTL)
	c.local.Del(code)
	c.local.Wait()
}

// Close 释放本地缓存，Redis 客户端由创建方关闭
func (c *LinkCache) Close() {
	if c.local != nil {
		c.local.Close()
	}
}
