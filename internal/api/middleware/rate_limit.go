package middleware

import (
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/hieu182603/SmartAttendance-sub004/pkg/redis"
	"github.com/hieu182603/SmartAttendance-sub004/pkg/response"
)

// RateLimit 基于 Redis 的固定窗口限流，按客户端 IP 计数
// Redis 不可用时降级放行
func RateLimit(rdb *redis.Client, log *zap.Logger, limit int, window time.Duration) gin.HandlerFunc {
	return func(c *gin.Context) {
		if rdb == nil {
			c.Next()
			return
		}

		ok, err := rdb.CheckRateLimit(c.Request.Context(), c.ClientIP(), limit, window)
		if err != nil {
			log.Warn("限流检查失败，降级放行", zap.Error(err))
			c.Next()
			return
		}
		if !ok {
			response.FailWithStatus(c, 429, 10004, "请求过于频繁，请稍后再试")
			c.Abort()
			return
		}
		c.Next()
	}
}
