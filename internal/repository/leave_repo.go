package repository

import (
	"context"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/hieu182603/SmartAttendance-sub004/internal/model"
)

// LeaveRepository 请假记录仓储接口
// 审批在外部系统完成，这里只留存已消费的请假，供排班追溯
type LeaveRepository interface {
	// Upsert 按 request_id 幂等写入
	Upsert(ctx context.Context, req *model.LeaveRequest) error
	GetByID(ctx context.Context, id string) (*model.LeaveRequest, error)
	ListByUser(ctx context.Context, userID string) ([]model.LeaveRequest, error)
}

type leaveRepository struct {
	db *gorm.DB
}

// NewLeaveRepository 创建请假仓储
func NewLeaveRepository(db *gorm.DB) LeaveRepository {
	return &leaveRepository{db: db}
}

func (r *leaveRepository) Upsert(ctx context.Context, req *model.LeaveRequest) error {
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "request_id"}},
			DoUpdates: clause.AssignmentColumns([]string{
				"type", "start_date", "end_date", "reason", "status", "updated_at",
			}),
		}).
		Create(req).Error
}

func (r *leaveRepository) GetByID(ctx context.Context, id string) (*model.LeaveRequest, error) {
	var req model.LeaveRequest
	if err := r.db.WithContext(ctx).First(&req, "request_id = ?", id).Error; err != nil {
		return nil, err
	}
	return &req, nil
}

func (r *leaveRepository) ListByUser(ctx context.Context, userID string) ([]model.LeaveRequest, error) {
	var list []model.LeaveRequest
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("start_date DESC").
		Find(&list).Error
	if err != nil {
		return nil, err
	}
	return list, nil
}
