package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/hieu182603/SmartAttendance-sub004/internal/dto"
	"github.com/hieu182603/SmartAttendance-sub004/internal/service"
	"github.com/hieu182603/SmartAttendance-sub004/pkg/response"
)

// UserHandler 员工档案与组织结构接口
type UserHandler struct {
	*baseHandler
	userSvc   service.UserService
	notifySvc service.NotificationService
}

// List GET /users
func (h *UserHandler) List(c *gin.Context) {
	var req dto.ListUsersRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		h.badRequest(c, err)
		return
	}

	users, total, err := h.userSvc.List(c.Request.Context(), &req)
	if err != nil {
		h.handleError(c, err)
		return
	}
	response.OKPage(c, users, total, req.GetPage(), req.GetPageSize())
}

// Get GET /users/:id
func (h *UserHandler) Get(c *gin.Context) {
	user, err := h.userSvc.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.handleError(c, err)
		return
	}
	response.OK(c, user)
}

// Me GET /users/me
func (h *UserHandler) Me(c *gin.Context) {
	user, err := h.userSvc.Get(c.Request.Context(), currentUserID(c))
	if err != nil {
		h.handleError(c, err)
		return
	}
	response.OK(c, user)
}

// Create POST /users
func (h *UserHandler) Create(c *gin.Context) {
	var req dto.CreateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.badRequest(c, err)
		return
	}

	user, err := h.userSvc.Create(c.Request.Context(), &req)
	if err != nil {
		h.handleError(c, err)
		return
	}
	response.OK(c, user)
}

// Update PUT /users/:id
func (h *UserHandler) Update(c *gin.Context) {
	var req dto.UpdateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.badRequest(c, err)
		return
	}

	user, err := h.userSvc.Update(c.Request.Context(), c.Param("id"), &req)
	if err != nil {
		h.handleError(c, err)
		return
	}
	response.OK(c, user)
}

// Departments GET /departments
func (h *UserHandler) Departments(c *gin.Context) {
	list, err := h.userSvc.ListDepartments(c.Request.Context())
	if err != nil {
		h.handleError(c, err)
		return
	}
	response.OK(c, list)
}

// Branches GET /branches
func (h *UserHandler) Branches(c *gin.Context) {
	list, err := h.userSvc.ListBranches(c.Request.Context())
	if err != nil {
		h.handleError(c, err)
		return
	}
	response.OK(c, list)
}

// Notifications GET /notifications
func (h *UserHandler) Notifications(c *gin.Context) {
	var req dto.PaginationRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		h.badRequest(c, err)
		return
	}

	list, total, err := h.notifySvc.List(c.Request.Context(), currentUserID(c),
		req.GetOffset(), req.GetPageSize())
	if err != nil {
		h.handleError(c, err)
		return
	}
	response.OKPage(c, list, total, req.GetPage(), req.GetPageSize())
}

// MarkNotificationRead POST /notifications/:id/read
func (h *UserHandler) MarkNotificationRead(c *gin.Context) {
	if err := h.notifySvc.MarkRead(c.Request.Context(), currentUserID(c), c.Param("id")); err != nil {
		h.handleError(c, err)
		return
	}
	response.OK(c, nil)
}
