package dto

import "github.com/hieu182603/SmartAttendance-sub004/internal/model"

// ListUsersRequest 员工列表查询
type ListUsersRequest struct {
	PaginationRequest
	Search       string `form:"search"`
	DepartmentID string `form:"department_id" binding:"omitempty,uuid"`
}

// CreateUserRequest 创建员工档案
type CreateUserRequest struct {
	Name         string `json:"name" binding:"required,max=100"`
	Email        string `json:"email" binding:"required,email"`
	Phone        string `json:"phone"`
	Role         string `json:"role" binding:"omitempty,oneof=admin manager employee"`
	DepartmentID string `json:"department_id" binding:"omitempty,uuid"`
	BranchID     string `json:"branch_id" binding:"omitempty,uuid"`
}

// UpdateUserRequest 更新员工档案
type UpdateUserRequest struct {
	Name         *string `json:"name" binding:"omitempty,max=100"`
	Phone        *string `json:"phone"`
	Role         *string `json:"role" binding:"omitempty,oneof=admin manager employee"`
	DepartmentID *string `json:"department_id" binding:"omitempty,uuid"`
	BranchID     *string `json:"branch_id" binding:"omitempty,uuid"`
	IsActive     *bool   `json:"is_active"`
	Version      int     `json:"version" binding:"required,min=1"`
}

// UserResponse 员工档案详情
type UserResponse struct {
	UserID         string  `json:"user_id"`
	Name           string  `json:"name"`
	Email          string  `json:"email"`
	Phone          string  `json:"phone"`
	Role           string  `json:"role"`
	DepartmentID   *string `json:"department_id"`
	DepartmentName string  `json:"department_name,omitempty"`
	BranchID       *string `json:"branch_id"`
	BranchName     string  `json:"branch_name,omitempty"`
	DefaultShiftID *string `json:"default_shift_id"`
	DefaultShift   string  `json:"default_shift,omitempty"`
	IsActive       bool    `json:"is_active"`
	Version        int     `json:"version"`
}

// NewUserResponse 从模型构造响应
func NewUserResponse(u *model.User) *UserResponse {
	resp := &UserResponse{
		UserID:         u.UserID,
		Name:           u.Name,
		Email:          u.Email,
		Phone:          u.Phone,
		Role:           u.Role,
		DepartmentID:   u.DepartmentID,
		BranchID:       u.BranchID,
		DefaultShiftID: u.DefaultShiftID,
		IsActive:       u.IsActive,
		Version:        u.Version,
	}
	if u.Department != nil {
		resp.DepartmentName = u.Department.Name
	}
	if u.Branch != nil {
		resp.BranchName = u.Branch.Name
	}
	if u.DefaultShift != nil {
		resp.DefaultShift = u.DefaultShift.Name
	}
	return resp
}
