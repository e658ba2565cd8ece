package handler

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/hieu182603/SmartAttendance-sub004/internal/dto"
	"github.com/hieu182603/SmartAttendance-sub004/internal/service"
	"github.com/hieu182603/SmartAttendance-sub004/pkg/response"
)

// ScheduleHandler 排班表接口
type ScheduleHandler struct {
	*baseHandler
	scheduleSvc service.ScheduleService
}

// getSchedule 解析区间并读取合并后的排班表
func (h *ScheduleHandler) getSchedule(c *gin.Context, userID string) {
	var req dto.GetScheduleRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		h.badRequest(c, err)
		return
	}
	start, err := time.ParseInLocation("2006-01-02", req.StartDate, time.Local)
	if err != nil {
		h.handleError(c, service.ErrInvalidDate)
		return
	}
	end, err := time.ParseInLocation("2006-01-02", req.EndDate, time.Local)
	if err != nil {
		h.handleError(c, service.ErrInvalidDate)
		return
	}

	entries, err := h.scheduleSvc.GetSchedule(c.Request.Context(), userID, start, end)
	if err != nil {
		h.handleError(c, err)
		return
	}
	response.OK(c, entries)
}

// MySchedule GET /schedules/me
func (h *ScheduleHandler) MySchedule(c *gin.Context) {
	h.getSchedule(c, currentUserID(c))
}

// UserSchedule GET /schedules/users/:user_id
func (h *ScheduleHandler) UserSchedule(c *gin.Context) {
	userID := c.Param("user_id")
	if !canActOnUser(c, userID) {
		response.Forbidden(c, "只能查看本人的排班表")
		return
	}
	h.getSchedule(c, userID)
}

// MyShift GET /schedules/my-shift
// 解析当前用户某日的生效班次
func (h *ScheduleHandler) MyShift(c *gin.Context) {
	date := time.Now()
	if raw := c.Query("date"); raw != "" {
		d, err := time.ParseInLocation("2006-01-02", raw, time.Local)
		if err != nil {
			h.handleError(c, service.ErrInvalidDate)
			return
		}
		date = d
	}

	resp, err := h.scheduleSvc.GetEffectiveShift(c.Request.Context(), currentUserID(c), date)
	if err != nil {
		h.handleError(c, err)
		return
	}
	response.OK(c, resp)
}

// Regenerate POST /schedules/regenerate
// 为一批员工重算排班，单个失败不影响其余
func (h *ScheduleHandler) Regenerate(c *gin.Context) {
	var req dto.RegenerateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.badRequest(c, err)
		return
	}

	result := h.scheduleSvc.BatchRegenerate(c.Request.Context(), req.UserIDs, req.DaysForward)
	response.OK(c, result)
}

// UserLeaves GET /schedules/leave/users/:user_id
// 查询员工已消费的请假记录
func (h *ScheduleHandler) UserLeaves(c *gin.Context) {
	userID := c.Param("user_id")
	if !canActOnUser(c, userID) {
		response.Forbidden(c, "只能查看本人的请假记录")
		return
	}

	records, err := h.scheduleSvc.ListLeaves(c.Request.Context(), userID)
	if err != nil {
		h.handleError(c, err)
		return
	}
	response.OK(c, records)
}

// ApplyLeave POST /schedules/leave
// 消费外部审批通过的请假，落入排班表
func (h *ScheduleHandler) ApplyLeave(c *gin.Context) {
	var req dto.ApplyLeaveRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.badRequest(c, err)
		return
	}

	resp, err := h.scheduleSvc.ApplyLeave(c.Request.Context(), &req)
	if err != nil {
		h.handleError(c, err)
		return
	}
	response.OK(c, resp)
}
