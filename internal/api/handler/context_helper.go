package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/hieu182603/SmartAttendance-sub004/internal/api/middleware"
	"github.com/hieu182603/SmartAttendance-sub004/internal/model"
)

// currentUserID 从上下文取当前登录用户 ID，认证中间件保证存在
func currentUserID(c *gin.Context) string {
	return c.GetString(middleware.CtxUserID)
}

// currentRole 当前登录用户角色
func currentRole(c *gin.Context) string {
	return c.GetString(middleware.CtxRole)
}

// canActOnUser 本人或管理侧角色可操作
func canActOnUser(c *gin.Context, targetUserID string) bool {
	if currentUserID(c) == targetUserID {
		return true
	}
	role := currentRole(c)
	return role == model.RoleAdmin || role == model.RoleManager
}
