package dto

import "github.com/hieu182603/SmartAttendance-sub004/internal/model"

// CreateShiftRequest 创建班次
type CreateShiftRequest struct {
	Name          string `json:"name" binding:"required,max=100"`
	StartTime     string `json:"start_time" binding:"required"`
	EndTime       string `json:"end_time" binding:"required"`
	BreakDuration int    `json:"break_duration" binding:"min=0"`
	IsFlexible    bool   `json:"is_flexible"`
	Description   string `json:"description"`
}

// UpdateShiftRequest 更新班次，指针字段区分"未传"与"清空"
type UpdateShiftRequest struct {
	Name          *string `json:"name" binding:"omitempty,max=100"`
	StartTime     *string `json:"start_time"`
	EndTime       *string `json:"end_time"`
	BreakDuration *int    `json:"break_duration" binding:"omitempty,min=0"`
	IsFlexible    *bool   `json:"is_flexible"`
	Description   *string `json:"description"`
	IsActive      *bool   `json:"is_active"`
	Version       int     `json:"version" binding:"required,min=1"`
}

// ListShiftsRequest 班次列表查询
type ListShiftsRequest struct {
	IncludeInactive bool `form:"include_inactive"`
}

// ShiftResponse 班次详情
type ShiftResponse struct {
	ShiftID       string  `json:"shift_id"`
	Name          string  `json:"name"`
	StartTime     string  `json:"start_time"`
	EndTime       string  `json:"end_time"`
	BreakDuration int     `json:"break_duration"`
	IsFlexible    bool    `json:"is_flexible"`
	Description   string  `json:"description"`
	IsActive      bool    `json:"is_active"`
	TotalHours    float64 `json:"total_hours"`
	Version       int     `json:"version"`
}

// NewShiftResponse 从模型构造响应
func NewShiftResponse(s *model.Shift) *ShiftResponse {
	return &ShiftResponse{
		ShiftID:       s.ShiftID,
		Name:          s.Name,
		StartTime:     s.StartTime,
		EndTime:       s.EndTime,
		BreakDuration: s.BreakDuration,
		IsFlexible:    s.IsFlexible,
		Description:   s.Description,
		IsActive:      s.IsActive,
		TotalHours:    s.TotalHours(),
		Version:       s.Version,
	}
}

// ShiftEmployeeCount 班次人数统计
type ShiftEmployeeCount struct {
	ShiftID   string `json:"shift_id"`
	ShiftName string `json:"shift_name"`
	Count     int64  `json:"count"`
}
