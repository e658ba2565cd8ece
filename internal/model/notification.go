package model

// 通知关联对象类型
const (
	NotifyRelatedAssignment = "shift_assignment"
	NotifyRelatedSchedule   = "schedule"
	NotifyRelatedLeave      = "leave_request"
)

// Notification 站内通知
type Notification struct {
	NotificationID string  `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"notification_id"`
	UserID         string  `gorm:"type:uuid;not null;index" json:"user_id"`
	Title          string  `gorm:"type:varchar(200);not null" json:"title"`
	Content        string  `gorm:"type:text;not null;default:''" json:"content"`
	RelatedType    string  `gorm:"type:varchar(30);not null;default:''" json:"related_type"`
	RelatedID      *string `gorm:"type:uuid" json:"related_id"`
	IsRead         bool    `gorm:"not null;default:false" json:"is_read"`
	BaseModel
}

// TableName 指定表名
func (Notification) TableName() string {
	return "notifications"
}
