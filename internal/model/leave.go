package model

import "time"

// 请假类型
const (
	LeaveTypeAnnual       = "leave"        // 年假
	LeaveTypeSick         = "sick"         // 病假
	LeaveTypeUnpaid       = "unpaid"       // 无薪假
	LeaveTypeCompensatory = "compensatory" // 调休
	LeaveTypeMaternity    = "maternity"    // 产假
)

// LeaveTypeLabel 请假类型的展示文案，用于排班条目备注
func LeaveTypeLabel(t string) string {
	switch t {
	case LeaveTypeAnnual:
		return "年假"
	case LeaveTypeSick:
		return "病假"
	case LeaveTypeUnpaid:
		return "无薪假"
	case LeaveTypeCompensatory:
		return "调休"
	case LeaveTypeMaternity:
		return "产假"
	}
	return "请假"
}

// LeaveRequest 已批准的请假记录
// 审批流程在外部系统完成，本服务只消费结果
type LeaveRequest struct {
	RequestID string    `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"request_id"`
	UserID    string    `gorm:"type:uuid;not null;index" json:"user_id"`
	Type      string    `gorm:"type:varchar(20);not null" json:"type"`
	StartDate time.Time `gorm:"type:date;not null" json:"start_date"`
	EndDate   time.Time `gorm:"type:date;not null" json:"end_date"`
	Reason    string    `gorm:"type:text;not null;default:''" json:"reason"`
	Status    string    `gorm:"type:varchar(20);not null;default:'approved'" json:"status"`
	BaseModel
}

// TableName 指定表名
func (LeaveRequest) TableName() string {
	return "leave_requests"
}
