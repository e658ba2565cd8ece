package dto

import "github.com/hieu182603/SmartAttendance-sub004/internal/model"

// GetScheduleRequest 查询排班表
type GetScheduleRequest struct {
	StartDate string `form:"start_date" binding:"required"` // "2006-01-02"
	EndDate   string `form:"end_date" binding:"required"`
}

// RegenerateRequest 手动触发重新生成
type RegenerateRequest struct {
	UserIDs     []string `json:"user_ids" binding:"required,min=1,dive,uuid"`
	DaysForward int      `json:"days_forward" binding:"omitempty,min=1,max=366"`
}

// RegenerateFailure 批量重新生成中的单个失败项
type RegenerateFailure struct {
	UserID string `json:"user_id"`
	Reason string `json:"reason"`
}

// BatchRegenerateResult 批量重新生成结果
type BatchRegenerateResult struct {
	Succeeded int                 `json:"succeeded"`
	Failed    []RegenerateFailure `json:"failed"`
}

// ApplyLeaveRequest 消费已批准的请假，标记排班为休
type ApplyLeaveRequest struct {
	LeaveRequestID string `json:"leave_request_id" binding:"required,uuid"`
	UserID         string `json:"user_id" binding:"required,uuid"`
	Type           string `json:"type" binding:"required"`
	StartDate      string `json:"start_date" binding:"required"`
	EndDate        string `json:"end_date" binding:"required"`
}

// ApplyLeaveResponse 请假落排班结果
type ApplyLeaveResponse struct {
	Updated int `json:"updated"` // 覆盖的既有条目数
	Created int `json:"created"` // 新建的休息条目数
}

// LeaveRequestResponse 已消费的请假记录
type LeaveRequestResponse struct {
	RequestID string `json:"request_id"`
	UserID    string `json:"user_id"`
	Type      string `json:"type"`
	TypeLabel string `json:"type_label"`
	StartDate string `json:"start_date"`
	EndDate   string `json:"end_date"`
	Status    string `json:"status"`
}

// NewLeaveRequestResponse 从模型构造响应
func NewLeaveRequestResponse(r *model.LeaveRequest) LeaveRequestResponse {
	return LeaveRequestResponse{
		RequestID: r.RequestID,
		UserID:    r.UserID,
		Type:      r.Type,
		TypeLabel: model.LeaveTypeLabel(r.Type),
		StartDate: r.StartDate.Format("2006-01-02"),
		EndDate:   r.EndDate.Format("2006-01-02"),
		Status:    r.Status,
	}
}

// ScheduleEntryResponse 排班表条目
type ScheduleEntryResponse struct {
	Date           string  `json:"date"`
	UserID         string  `json:"user_id"`
	ShiftID        *string `json:"shift_id"`
	ShiftName      string  `json:"shift_name"`
	StartTime      string  `json:"start_time"`
	EndTime        string  `json:"end_time"`
	Status         string  `json:"status"`
	Notes          string  `json:"notes,omitempty"`
	LeaveRequestID *string `json:"leave_request_id,omitempty"`
	Persisted      bool    `json:"persisted"` // false 表示按当前分配推算的候选
}

// NewScheduleEntryResponse 从模型构造响应
func NewScheduleEntryResponse(e *model.ScheduleEntry, persisted bool) ScheduleEntryResponse {
	return ScheduleEntryResponse{
		Date:           e.Date.Format("2006-01-02"),
		UserID:         e.UserID,
		ShiftID:        e.ShiftID,
		ShiftName:      e.ShiftName,
		StartTime:      e.StartTime,
		EndTime:        e.EndTime,
		Status:         e.Status,
		Notes:          e.Notes,
		LeaveRequestID: e.LeaveRequestID,
		Persisted:      persisted,
	}
}
