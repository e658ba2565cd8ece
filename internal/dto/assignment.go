package dto

import (
	"time"

	"github.com/hieu182603/SmartAttendance-sub004/internal/model"
)

// AssignShiftRequest 为单个员工分配班次
// 未携带任何模式参数且 is_full_time=true 时走全职默认绑定，否则创建模式化分配
type AssignShiftRequest struct {
	UserID        string   `json:"user_id" binding:"required,uuid"`
	ShiftID       string   `json:"shift_id" binding:"required,uuid"`
	Pattern       string   `json:"pattern"`
	DaysOfWeek    []int    `json:"days_of_week"`
	SpecificDates []string `json:"specific_dates"` // "2006-01-02"
	EffectiveFrom string   `json:"effective_from"` // "2006-01-02"
	EffectiveTo   string   `json:"effective_to"`
	Priority      int      `json:"priority"`
	Notes         string   `json:"notes"`
	IsFullTime    bool     `json:"is_full_time"`
}

// HasPatternFields 是否携带任一模式化参数
func (r *AssignShiftRequest) HasPatternFields() bool {
	return r.Pattern != "" || r.EffectiveFrom != "" ||
		len(r.DaysOfWeek) > 0 || len(r.SpecificDates) > 0
}

// AssignShiftResponse 分配结果
type AssignShiftResponse struct {
	Mode       string              `json:"mode"` // "assignment" | "default"
	Assignment *AssignmentResponse `json:"assignment,omitempty"`
}

// BulkAssignRequest 批量设置默认班次
type BulkAssignRequest struct {
	UserIDs []string `json:"user_ids" binding:"required,min=1,dive,uuid"`
	ShiftID string   `json:"shift_id" binding:"required,uuid"`
}

// BulkAssignFailure 批量分配中的单个失败项
type BulkAssignFailure struct {
	UserID string `json:"user_id"`
	Reason string `json:"reason"`
}

// BulkAssignResponse 批量分配结果
type BulkAssignResponse struct {
	Assigned int                 `json:"assigned"`
	Failed   []BulkAssignFailure `json:"failed"`
}

// UpdateAssignmentRequest 修改分配记录
type UpdateAssignmentRequest struct {
	Pattern       *string  `json:"pattern"`
	DaysOfWeek    []int    `json:"days_of_week"`
	SpecificDates []string `json:"specific_dates"`
	EffectiveFrom *string  `json:"effective_from"`
	EffectiveTo   *string  `json:"effective_to"`
	Priority      *int     `json:"priority"`
	Notes         *string  `json:"notes"`
	Version       int      `json:"version" binding:"required,min=1"`
}

// ListAssignmentsRequest 查询员工分配记录
type ListAssignmentsRequest struct {
	PaginationRequest
	IsActive *bool  `form:"is_active"`
	Date     string `form:"date"` // 过滤指定日期生效的分配
}

// ListShiftEmployeesRequest 查询班次下的员工
type ListShiftEmployeesRequest struct {
	PaginationRequest
	Date   string `form:"date"` // 默认今天
	Search string `form:"search"`
}

// AssignmentResponse 分配记录详情
type AssignmentResponse struct {
	AssignmentID  string     `json:"assignment_id"`
	UserID        string     `json:"user_id"`
	ShiftID       string     `json:"shift_id"`
	ShiftName     string     `json:"shift_name,omitempty"`
	Pattern       string     `json:"pattern"`
	DaysOfWeek    []int      `json:"days_of_week,omitempty"`
	SpecificDates []string   `json:"specific_dates,omitempty"`
	EffectiveFrom time.Time  `json:"effective_from"`
	EffectiveTo   *time.Time `json:"effective_to"`
	Priority      int        `json:"priority"`
	Notes         string     `json:"notes,omitempty"`
	IsActive      bool       `json:"is_active"`
	Version       int        `json:"version"`
}

// NewAssignmentResponse 从模型构造响应
func NewAssignmentResponse(a *model.EmployeeShiftAssignment) *AssignmentResponse {
	resp := &AssignmentResponse{
		AssignmentID:  a.AssignmentID,
		UserID:        a.UserID,
		ShiftID:       a.ShiftID,
		Pattern:       a.Pattern,
		DaysOfWeek:    a.DaysOfWeek,
		EffectiveFrom: a.EffectiveFrom,
		EffectiveTo:   a.EffectiveTo,
		Priority:      a.Priority,
		Notes:         a.Notes,
		IsActive:      a.IsActive,
		Version:       a.Version,
	}
	for _, d := range a.SpecificDates {
		resp.SpecificDates = append(resp.SpecificDates, d.Format("2006-01-02"))
	}
	if a.Shift != nil {
		resp.ShiftName = a.Shift.Name
	}
	return resp
}

// EffectiveShiftResponse 某日生效班次的解析结果
type EffectiveShiftResponse struct {
	Date      string         `json:"date"`
	Source    string         `json:"source"` // "assignment" | "default" | "none"
	Shift     *ShiftResponse `json:"shift,omitempty"`
	ShiftName string         `json:"shift_name,omitempty"`
}
