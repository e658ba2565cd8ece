package service

import (
	"go.uber.org/zap"

	"github.com/hieu182603/SmartAttendance-sub004/config"
	"github.com/hieu182603/SmartAttendance-sub004/internal/repository"
)

// Service 服务聚合，供处理器层注入
type Service struct {
	Shift        ShiftService
	Assignment   AssignmentService
	Schedule     ScheduleService
	User         UserService
	Export       ExportService
	Notification NotificationService
}

// NewService 按依赖顺序组装服务
func NewService(cfg *config.Config, repo *repository.Repository, log *zap.Logger) *Service {
	resolver := NewShiftResolver(repo)
	notificationSvc := NewNotificationService(repo, log)
	scheduleSvc := NewScheduleService(cfg, repo, resolver, log)
	shiftSvc := NewShiftService(cfg, repo, scheduleSvc, log)
	assignmentSvc := NewAssignmentService(cfg, repo, scheduleSvc, notificationSvc, log)
	userSvc := NewUserService(repo, log)
	exportSvc := NewExportService(repo, scheduleSvc, log)

	return &Service{
		Shift:        shiftSvc,
		Assignment:   assignmentSvc,
		Schedule:     scheduleSvc,
		User:         userSvc,
		Export:       exportSvc,
		Notification: notificationSvc,
	}
}
