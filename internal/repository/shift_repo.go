package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/hieu182603/SmartAttendance-sub004/internal/model"
	pkgerrors "github.com/hieu182603/SmartAttendance-sub004/pkg/errors"
)

// ShiftRepository 班次仓储接口
type ShiftRepository interface {
	Create(ctx context.Context, shift *model.Shift) error
	GetByID(ctx context.Context, id string) (*model.Shift, error)
	GetByName(ctx context.Context, name string) (*model.Shift, error)
	List(ctx context.Context, includeInactive bool) ([]model.Shift, error)
	Update(ctx context.Context, shift *model.Shift) error
	Delete(ctx context.Context, id string) error
}

type shiftRepository struct {
	db *gorm.DB
}

// NewShiftRepository 创建班次仓储
func NewShiftRepository(db *gorm.DB) ShiftRepository {
	return &shiftRepository{db: db}
}

func (r *shiftRepository) Create(ctx context.Context, shift *model.Shift) error {
	return r.db.WithContext(ctx).Create(shift).Error
}

func (r *shiftRepository) GetByID(ctx context.Context, id string) (*model.Shift, error) {
	var shift model.Shift
	if err := r.db.WithContext(ctx).First(&shift, "shift_id = ?", id).Error; err != nil {
		return nil, err
	}
	return &shift, nil
}

func (r *shiftRepository) GetByName(ctx context.Context, name string) (*model.Shift, error) {
	var shift model.Shift
	if err := r.db.WithContext(ctx).First(&shift, "name = ?", name).Error; err != nil {
		return nil, err
	}
	return &shift, nil
}

func (r *shiftRepository) List(ctx context.Context, includeInactive bool) ([]model.Shift, error) {
	var shifts []model.Shift
	db := r.db.WithContext(ctx).Order("start_time ASC")
	if !includeInactive {
		db = db.Where("is_active = ?", true)
	}
	if err := db.Find(&shifts).Error; err != nil {
		return nil, err
	}
	return shifts, nil
}

// Update 乐观锁更新：版本不匹配时返回 ErrOptimisticLock
func (r *shiftRepository) Update(ctx context.Context, shift *model.Shift) error {
	currentVersion := shift.Version
	shift.Version++

	result := r.db.WithContext(ctx).
		Model(&model.Shift{}).
		Where("shift_id = ? AND version = ?", shift.ShiftID, currentVersion).
		Select("name", "start_time", "end_time", "break_duration", "is_flexible",
			"description", "is_active", "version", "updated_at").
		Updates(shift)
	if result.Error != nil {
		shift.Version = currentVersion
		return result.Error
	}
	if result.RowsAffected == 0 {
		shift.Version = currentVersion
		return pkgerrors.ErrOptimisticLock
	}
	return nil
}

func (r *shiftRepository) Delete(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).Delete(&model.Shift{}, "shift_id = ?", id).Error
}
