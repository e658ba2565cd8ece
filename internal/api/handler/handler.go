package handler

import (
	"errors"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/hieu182603/SmartAttendance-sub004/internal/service"
	pkgerrors "github.com/hieu182603/SmartAttendance-sub004/pkg/errors"
	"github.com/hieu182603/SmartAttendance-sub004/pkg/response"
)

// Handler 处理器聚合
type Handler struct {
	Shift      *ShiftHandler
	Assignment *AssignmentHandler
	Schedule   *ScheduleHandler
	User       *UserHandler
	Export     *ExportHandler
}

// NewHandler 创建处理器聚合
func NewHandler(svc *service.Service, log *zap.Logger) *Handler {
	base := &baseHandler{log: log}
	return &Handler{
		Shift:      &ShiftHandler{baseHandler: base, shiftSvc: svc.Shift, assignmentSvc: svc.Assignment},
		Assignment: &AssignmentHandler{baseHandler: base, assignmentSvc: svc.Assignment},
		Schedule:   &ScheduleHandler{baseHandler: base, scheduleSvc: svc.Schedule},
		User:       &UserHandler{baseHandler: base, userSvc: svc.User, notifySvc: svc.Notification},
		Export:     &ExportHandler{baseHandler: base, exportSvc: svc.Export},
	}
}

type baseHandler struct {
	log *zap.Logger
}

// versionRequest 仅携带乐观锁版本号的请求体
type versionRequest struct {
	Version int `json:"version" binding:"required,min=1"`
}

// handleError 把业务错误映射为 API 错误码，未识别的错误统一按 500 处理
func (h *baseHandler) handleError(c *gin.Context, err error) {
	switch {
	// 员工/组织 12xxx
	case errors.Is(err, service.ErrEmployeeNotFound):
		response.Fail(c, 12001, err.Error())
	case errors.Is(err, service.ErrEmailExists):
		response.Fail(c, 12002, err.Error())
	case errors.Is(err, service.ErrDepartmentNotFound):
		response.Fail(c, 12003, err.Error())
	case errors.Is(err, service.ErrBranchNotFound):
		response.Fail(c, 12004, err.Error())

	// 班次 14xxx
	case errors.Is(err, service.ErrShiftNotFound):
		response.Fail(c, 14001, err.Error())
	case errors.Is(err, service.ErrShiftNameExists):
		response.Fail(c, 14002, err.Error())
	case errors.Is(err, service.ErrShiftInactive):
		response.Fail(c, 14003, err.Error())
	case errors.Is(err, service.ErrShiftInUse):
		response.Fail(c, 14004, err.Error())
	case errors.Is(err, service.ErrInvalidClock):
		response.Fail(c, 14005, err.Error())

	// 分配 15xxx
	case errors.Is(err, service.ErrAssignmentNotFound):
		response.Fail(c, 15001, err.Error())
	case errors.Is(err, service.ErrInvalidPattern):
		response.Fail(c, 15002, err.Error())

	// 排班 16xxx
	case errors.Is(err, service.ErrInvalidDateRange):
		response.Fail(c, 16001, err.Error())
	case errors.Is(err, service.ErrInvalidDate):
		response.Fail(c, 16002, err.Error())
	case errors.Is(err, service.ErrInvalidMonth):
		response.Fail(c, 16003, err.Error())

	// 通用
	case errors.Is(err, pkgerrors.ErrOptimisticLock):
		response.Fail(c, 10005, err.Error())

	default:
		h.log.Error("未处理的服务错误", zap.Error(err))
		response.InternalError(c)
	}
}

// badRequest 参数绑定失败
func (h *baseHandler) badRequest(c *gin.Context, err error) {
	response.Fail(c, 13001, "参数错误: "+err.Error())
}
