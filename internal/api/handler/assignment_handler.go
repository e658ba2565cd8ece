package handler

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/hieu182603/SmartAttendance-sub004/internal/dto"
	"github.com/hieu182603/SmartAttendance-sub004/internal/service"
	"github.com/hieu182603/SmartAttendance-sub004/pkg/response"
)

// AssignmentHandler 班次分配接口
type AssignmentHandler struct {
	*baseHandler
	assignmentSvc service.AssignmentService
}

// Assign POST /assignments
func (h *AssignmentHandler) Assign(c *gin.Context) {
	var req dto.AssignShiftRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.badRequest(c, err)
		return
	}

	resp, err := h.assignmentSvc.AssignShift(c.Request.Context(), &req, currentUserID(c))
	if err != nil {
		h.handleError(c, err)
		return
	}
	response.OK(c, resp)
}

// BulkAssign POST /assignments/bulk
func (h *AssignmentHandler) BulkAssign(c *gin.Context) {
	var req dto.BulkAssignRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.badRequest(c, err)
		return
	}

	resp, err := h.assignmentSvc.BulkAssign(c.Request.Context(), &req, currentUserID(c))
	if err != nil {
		h.handleError(c, err)
		return
	}
	response.OK(c, resp)
}

// Remove DELETE /assignments/users/:user_id
// 解除员工的全部班次归属
func (h *AssignmentHandler) Remove(c *gin.Context) {
	if err := h.assignmentSvc.RemoveShift(c.Request.Context(), c.Param("user_id")); err != nil {
		h.handleError(c, err)
		return
	}
	response.OK(c, nil)
}

// ListByUser GET /assignments/users/:user_id
func (h *AssignmentHandler) ListByUser(c *gin.Context) {
	userID := c.Param("user_id")
	if !canActOnUser(c, userID) {
		response.Forbidden(c, "只能查看本人的排班分配")
		return
	}

	var req dto.ListAssignmentsRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		h.badRequest(c, err)
		return
	}

	list, total, err := h.assignmentSvc.ListUserAssignments(c.Request.Context(), userID, &req)
	if err != nil {
		h.handleError(c, err)
		return
	}
	response.OKPage(c, list, total, req.GetPage(), req.GetPageSize())
}

// Update PUT /assignments/:id
func (h *AssignmentHandler) Update(c *gin.Context) {
	var req dto.UpdateAssignmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.badRequest(c, err)
		return
	}

	resp, err := h.assignmentSvc.UpdateAssignment(c.Request.Context(), c.Param("id"), &req)
	if err != nil {
		h.handleError(c, err)
		return
	}
	response.OK(c, resp)
}

// Deactivate POST /assignments/:id/deactivate
func (h *AssignmentHandler) Deactivate(c *gin.Context) {
	var req versionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.badRequest(c, err)
		return
	}

	if err := h.assignmentSvc.DeactivateAssignment(c.Request.Context(), c.Param("id"), req.Version); err != nil {
		h.handleError(c, err)
		return
	}
	response.OK(c, nil)
}

// EmployeeCounts GET /assignments/shift-counts
// 每个启用班次某日的有效人数
func (h *AssignmentHandler) EmployeeCounts(c *gin.Context) {
	date := time.Now()
	if raw := c.Query("date"); raw != "" {
		d, err := time.ParseInLocation("2006-01-02", raw, time.Local)
		if err != nil {
			h.handleError(c, service.ErrInvalidDate)
			return
		}
		date = d
	}

	counts, err := h.assignmentSvc.ShiftEmployeeCounts(c.Request.Context(), date)
	if err != nil {
		h.handleError(c, err)
		return
	}
	response.OK(c, counts)
}
