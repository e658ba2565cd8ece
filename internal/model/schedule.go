package model

import "time"

// 排班状态
const (
	ScheduleStatusScheduled = "scheduled" // 已排班
	ScheduleStatusCompleted = "completed" // 已完成
	ScheduleStatusMissed    = "missed"    // 缺勤
	ScheduleStatusOff       = "off"       // 休息/请假
)

// ScheduleEntry 排班表条目，每人每天唯一
// 班次名称与时间为写入时的快照，班次定义变更时由级联更新维护
type ScheduleEntry struct {
	EntryID        string    `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"entry_id"`
	UserID         string    `gorm:"type:uuid;not null;uniqueIndex:uq_schedule_user_date" json:"user_id"`
	Date           time.Time `gorm:"type:date;not null;uniqueIndex:uq_schedule_user_date" json:"date"`
	ShiftID        *string   `gorm:"type:uuid;index" json:"shift_id"`
	ShiftName      string    `gorm:"type:varchar(100);not null;default:''" json:"shift_name"`
	StartTime      string    `gorm:"type:varchar(5);not null;default:''" json:"start_time"`
	EndTime        string    `gorm:"type:varchar(5);not null;default:''" json:"end_time"`
	Status         string    `gorm:"type:varchar(20);not null;default:'scheduled'" json:"status"`
	Notes          string    `gorm:"type:text;not null;default:''" json:"notes"`
	LeaveRequestID *string   `gorm:"type:uuid" json:"leave_request_id"`
	BaseModel
}

// TableName 指定表名
func (ScheduleEntry) TableName() string {
	return "schedule_entries"
}
