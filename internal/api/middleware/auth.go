package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/hieu182603/SmartAttendance-sub004/internal/model"
	"github.com/hieu182603/SmartAttendance-sub004/pkg/jwt"
	"github.com/hieu182603/SmartAttendance-sub004/pkg/redis"
	"github.com/hieu182603/SmartAttendance-sub004/pkg/response"
)

// 上下文键
const (
	CtxUserID = "user_id"
	CtxRole   = "role"
)

// Auth JWT 认证中间件：校验 Bearer 令牌并注入用户身份
func Auth(jwtMgr *jwt.Manager, rdb *redis.Client) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if header == "" {
			response.Unauthorized(c, "缺少认证令牌")
			return
		}

		parts := strings.SplitN(header, " ", 2)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
			response.Unauthorized(c, "认证头格式错误")
			return
		}

		claims, err := jwtMgr.ParseAccessToken(parts[1])
		if err != nil {
			response.Unauthorized(c, err.Error())
			return
		}

		if rdb != nil && rdb.IsBlacklisted(c.Request.Context(), claims.ID) {
			response.Unauthorized(c, "令牌已失效")
			return
		}

		c.Set(CtxUserID, claims.UserID)
		c.Set(CtxRole, claims.Role)
		c.Next()
	}
}

// RequireRole 角色守卫，至少命中一个角色才放行
func RequireRole(roles ...string) gin.HandlerFunc {
	return func(c *gin.Context) {
		role := c.GetString(CtxRole)
		for _, r := range roles {
			if role == r {
				c.Next()
				return
			}
		}
		response.Forbidden(c, "权限不足")
	}
}

// RequireAdmin 仅管理员可访问
func RequireAdmin() gin.HandlerFunc {
	return RequireRole(model.RoleAdmin)
}

// RequireManager 管理员或主管可访问
func RequireManager() gin.HandlerFunc {
	return RequireRole(model.RoleAdmin, model.RoleManager)
}
