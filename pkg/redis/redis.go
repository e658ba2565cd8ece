package redis

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/hieu182603/SmartAttendance-sub004/config"
)

// Client Redis 客户端封装
type Client struct {
	rdb *redis.Client
	log *zap.Logger
}

// NewClient 初始化 Redis 连接
func NewClient(cfg *config.RedisConfig, log *zap.Logger) (*Client, error) {
	rdb := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := rdb.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("连接 Redis 失败: %w", err)
	}

	log.Info("Redis 连接成功", zap.String("addr", cfg.Addr))
	return &Client{rdb: rdb, log: log}, nil
}

// BlacklistToken 将令牌 JTI 加入黑名单，TTL 与令牌剩余有效期一致
func (c *Client) BlacklistToken(ctx context.Context, jti string, ttl time.Duration) error {
	if ttl <= 0 {
		return nil // 已过期的令牌无需拉黑
	}
	key := "token:blacklist:" + jti
	if err := c.rdb.Set(ctx, key, "1", ttl).Err(); err != nil {
		return fmt.Errorf("写入令牌黑名单失败: %w", err)
	}
	return nil
}

// IsBlacklisted 检查令牌 JTI 是否在黑名单中
// Redis 故障时放行请求并记录日志，避免缓存不可用导致全站 401
func (c *Client) IsBlacklisted(ctx context.Context, jti string) bool {
	key := "token:blacklist:" + jti
	n, err := c.rdb.Exists(ctx, key).Result()
	if err != nil {
		c.log.Warn("查询令牌黑名单失败，降级放行", zap.Error(err))
		return false
	}
	return n > 0
}

// CheckRateLimit 固定窗口限流，返回是否放行
func (c *Client) CheckRateLimit(ctx context.Context, key string, limit int, window time.Duration) (bool, error) {
	fullKey := "ratelimit:" + key
	count, err := c.rdb.Incr(ctx, fullKey).Result()
	if err != nil {
		return false, fmt.Errorf("限流计数失败: %w", err)
	}
	if count == 1 {
		if err := c.rdb.Expire(ctx, fullKey, window).Err(); err != nil {
			return false, fmt.Errorf("设置限流窗口失败: %w", err)
		}
	}
	return count <= int64(limit), nil
}

// Close 关闭连接
func (c *Client) Close() error {
	return c.rdb.Close()
}
