package repository

import "gorm.io/gorm"

// Repository 仓储聚合，供服务层注入
type Repository struct {
	User         UserRepository
	Department   DepartmentRepository
	Branch       BranchRepository
	Shift        ShiftRepository
	Assignment   AssignmentRepository
	Schedule     ScheduleRepository
	Leave        LeaveRepository
	Notification NotificationRepository
}

// NewRepository 创建仓储聚合
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{
		User:         NewUserRepository(db),
		Department:   NewDepartmentRepository(db),
		Branch:       NewBranchRepository(db),
		Shift:        NewShiftRepository(db),
		Assignment:   NewAssignmentRepository(db),
		Schedule:     NewScheduleRepository(db),
		Leave:        NewLeaveRepository(db),
		Notification: NewNotificationRepository(db),
	}
}
