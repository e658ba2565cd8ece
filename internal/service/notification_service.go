package service

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/hieu182603/SmartAttendance-sub004/internal/model"
	"github.com/hieu182603/SmartAttendance-sub004/internal/repository"
)

// NotificationService 站内通知
// 写入失败只记日志，绝不阻断触发它的业务操作
type NotificationService interface {
	NotifyAssignmentChanged(ctx context.Context, userID, shiftName, assignmentID string)
	List(ctx context.Context, userID string, offset, limit int) ([]model.Notification, int64, error)
	MarkRead(ctx context.Context, userID, notificationID string) error
}

type notificationService struct {
	repo *repository.Repository
	log  *zap.Logger
}

// NewNotificationService 创建通知服务
func NewNotificationService(repo *repository.Repository, log *zap.Logger) NotificationService {
	return &notificationService{repo: repo, log: log}
}

func (s *notificationService) NotifyAssignmentChanged(ctx context.Context, userID, shiftName, assignmentID string) {
	n := &model.Notification{
		UserID:      userID,
		Title:       "排班变更通知",
		Content:     fmt.Sprintf("您的班次已调整为「%s」，请查看最新排班表。", shiftName),
		RelatedType: model.NotifyRelatedAssignment,
	}
	if assignmentID != "" {
		n.RelatedID = &assignmentID
	}
	if err := s.repo.Notification.Create(ctx, n); err != nil {
		s.log.Error("写入排班变更通知失败",
			zap.String("user_id", userID),
			zap.Error(err),
		)
	}
}

func (s *notificationService) List(ctx context.Context, userID string, offset, limit int) ([]model.Notification, int64, error) {
	return s.repo.Notification.ListByUser(ctx, userID, offset, limit)
}

func (s *notificationService) MarkRead(ctx context.Context, userID, notificationID string) error {
	return s.repo.Notification.MarkRead(ctx, userID, notificationID)
}
