package redis

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

type Options struct {
	Host     string
	Port     int
	Password string
	DB       int
	PoolSize int
}

// NewClient 创建 Redis 客户端并检查连通性，Host 为空时返回 nil 表示不启用缓存
func NewClient(ctx context.Context, opts *Options) (*redis.Client, error) {
	if opts.Host == "" {
		return nil, nil
	}

	poolSize := opts.PoolSize
	if poolSize <= 0 {
		poolSize = 20
	}

	rdb := redis.NewClient(&redis.Options{
		Addr:     fmt.Sprintf("%s:%d", opts.Host, opts.Port),
		Password: opts.Password,
		DB:       opts.DB,
		PoolSize: poolSize,
	})

	// 测试连接
	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if err := rdb.Ping(pingCtx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("Redis连接失败: %w", err)
	}

	return rdb, nil
}
