package router

import (
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/hieu182603/SmartAttendance-sub004/config"
	"github.com/hieu182603/SmartAttendance-sub004/internal/api/handler"
	"github.com/hieu182603/SmartAttendance-sub004/internal/api/middleware"
	"github.com/hieu182603/SmartAttendance-sub004/pkg/jwt"
	"github.com/hieu182603/SmartAttendance-sub004/pkg/redis"
	"github.com/hieu182603/SmartAttendance-sub004/pkg/response"
)

// Setup 组装路由与中间件
func Setup(cfg *config.Config, h *handler.Handler, jwtMgr *jwt.Manager, rdb *redis.Client, log *zap.Logger) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)
	r := gin.New()

	r.Use(gin.Recovery())
	r.Use(middleware.RequestID())
	r.Use(middleware.Logger(log))
	r.Use(middleware.Security())
	r.Use(middleware.CORS(&cfg.Server.CORS))
	r.Use(middleware.BodyLimit(1 << 20)) // 1MB
	r.Use(middleware.RateLimit(rdb, log, 300, time.Minute))

	r.GET("/healthz", func(c *gin.Context) {
		response.OK(c, gin.H{"status": "ok"})
	})

	api := r.Group("/api/v1")
	api.Use(middleware.Auth(jwtMgr, rdb))

	// ── 班次定义 ──
	shifts := api.Group("/shifts")
	{
		shifts.GET("", h.Shift.List)
		shifts.GET("/:id", h.Shift.Get)
		shifts.GET("/:id/employees", middleware.RequireManager(), h.Shift.Employees)
		shifts.POST("", middleware.RequireManager(), h.Shift.Create)
		shifts.PUT("/:id", middleware.RequireManager(), h.Shift.Update)
		shifts.POST("/:id/deactivate", middleware.RequireManager(), h.Shift.Deactivate)
		shifts.DELETE("/:id", middleware.RequireAdmin(), h.Shift.Delete)
	}

	// ── 班次分配 ──
	assignments := api.Group("/assignments")
	{
		assignments.POST("", middleware.RequireManager(), h.Assignment.Assign)
		assignments.POST("/bulk", middleware.RequireManager(), h.Assignment.BulkAssign)
		assignments.GET("/shift-counts", middleware.RequireManager(), h.Assignment.EmployeeCounts)
		assignments.GET("/users/:user_id", h.Assignment.ListByUser)
		assignments.DELETE("/users/:user_id", middleware.RequireManager(), h.Assignment.Remove)
		assignments.PUT("/:id", middleware.RequireManager(), h.Assignment.Update)
		assignments.POST("/:id/deactivate", middleware.RequireManager(), h.Assignment.Deactivate)
	}

	// ── 排班表 ──
	schedules := api.Group("/schedules")
	{
		schedules.GET("/me", h.Schedule.MySchedule)
		schedules.GET("/my-shift", h.Schedule.MyShift)
		schedules.GET("/users/:user_id", h.Schedule.UserSchedule)
		schedules.POST("/regenerate", middleware.RequireManager(), h.Schedule.Regenerate)
		schedules.POST("/leave", middleware.RequireManager(), h.Schedule.ApplyLeave)
		schedules.GET("/leave/users/:user_id", h.Schedule.UserLeaves)
	}

	// ── 员工与组织 ──
	users := api.Group("/users")
	{
		users.GET("/me", h.User.Me)
		users.GET("", middleware.RequireManager(), h.User.List)
		users.GET("/:id", middleware.RequireManager(), h.User.Get)
		users.POST("", middleware.RequireAdmin(), h.User.Create)
		users.PUT("/:id", middleware.RequireAdmin(), h.User.Update)
	}
	api.GET("/departments", h.User.Departments)
	api.GET("/branches", h.User.Branches)

	// ── 通知 ──
	api.GET("/notifications", h.User.Notifications)
	api.POST("/notifications/:id/read", h.User.MarkNotificationRead)

	// ── 导出 ──
	export := api.Group("/export")
	{
		export.GET("/schedules/:user_id/xlsx", h.Export.MonthlyXLSX)
		export.GET("/schedules/:user_id/ics", h.Export.CalendarICS)
	}

	return r
}
