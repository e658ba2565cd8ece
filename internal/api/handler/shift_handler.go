package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/hieu182603/SmartAttendance-sub004/internal/dto"
	"github.com/hieu182603/SmartAttendance-sub004/internal/service"
	"github.com/hieu182603/SmartAttendance-sub004/pkg/response"
)

// ShiftHandler 班次管理接口
type ShiftHandler struct {
	*baseHandler
	shiftSvc      service.ShiftService
	assignmentSvc service.AssignmentService
}

// List GET /shifts
func (h *ShiftHandler) List(c *gin.Context) {
	var req dto.ListShiftsRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		h.badRequest(c, err)
		return
	}

	shifts, err := h.shiftSvc.List(c.Request.Context(), req.IncludeInactive)
	if err != nil {
		h.handleError(c, err)
		return
	}
	response.OK(c, shifts)
}

// Get GET /shifts/:id
func (h *ShiftHandler) Get(c *gin.Context) {
	shift, err := h.shiftSvc.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.handleError(c, err)
		return
	}
	response.OK(c, shift)
}

// Create POST /shifts
func (h *ShiftHandler) Create(c *gin.Context) {
	var req dto.CreateShiftRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.badRequest(c, err)
		return
	}

	shift, err := h.shiftSvc.Create(c.Request.Context(), &req)
	if err != nil {
		h.handleError(c, err)
		return
	}
	response.OK(c, shift)
}

// Update PUT /shifts/:id
func (h *ShiftHandler) Update(c *gin.Context) {
	var req dto.UpdateShiftRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.badRequest(c, err)
		return
	}

	shift, err := h.shiftSvc.Update(c.Request.Context(), c.Param("id"), &req)
	if err != nil {
		h.handleError(c, err)
		return
	}
	response.OK(c, shift)
}

// Deactivate POST /shifts/:id/deactivate
func (h *ShiftHandler) Deactivate(c *gin.Context) {
	var req versionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.badRequest(c, err)
		return
	}

	if err := h.shiftSvc.Deactivate(c.Request.Context(), c.Param("id"), req.Version); err != nil {
		h.handleError(c, err)
		return
	}
	response.OK(c, nil)
}

// Delete DELETE /shifts/:id
func (h *ShiftHandler) Delete(c *gin.Context) {
	if err := h.shiftSvc.Delete(c.Request.Context(), c.Param("id")); err != nil {
		h.handleError(c, err)
		return
	}
	response.OK(c, nil)
}

// Employees GET /shifts/:id/employees
// 查询某日有效归属该班次的员工（默认绑定 + 模式化分配）
func (h *ShiftHandler) Employees(c *gin.Context) {
	var req dto.ListShiftEmployeesRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		h.badRequest(c, err)
		return
	}

	users, total, err := h.assignmentSvc.ListShiftEmployees(c.Request.Context(), c.Param("id"), &req)
	if err != nil {
		h.handleError(c, err)
		return
	}
	response.OKPage(c, users, total, req.GetPage(), req.GetPageSize())
}
