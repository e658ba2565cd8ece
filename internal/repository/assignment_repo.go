package repository

import (
	"context"
	"time"

	"gorm.io/gorm"

	"github.com/hieu182603/SmartAttendance-sub004/internal/model"
	pkgerrors "github.com/hieu182603/SmartAttendance-sub004/pkg/errors"
)

// AssignmentRepository 班次分配仓储接口
type AssignmentRepository interface {
	Create(ctx context.Context, a *model.EmployeeShiftAssignment) error
	GetByID(ctx context.Context, id string) (*model.EmployeeShiftAssignment, error)
	// ListActiveByUserOn 查询某日窗口内的活跃分配，按 priority 升序、effective_from 降序
	ListActiveByUserOn(ctx context.Context, userID string, date time.Time) ([]model.EmployeeShiftAssignment, error)
	// ListActiveByUserInRange 查询与日期区间有交集的活跃分配，排序同上
	ListActiveByUserInRange(ctx context.Context, userID string, start, end time.Time) ([]model.EmployeeShiftAssignment, error)
	ListByUser(ctx context.Context, userID string, isActive *bool, date *time.Time, offset, limit int) ([]model.EmployeeShiftAssignment, int64, error)
	CountActiveByShift(ctx context.Context, shiftID string) (int64, error)
	// DeactivateByUser 停用员工全部活跃分配，返回受影响行数
	DeactivateByUser(ctx context.Context, userID string) (int64, error)
	// ReplaceActive 事务内：停用既有活跃分配、清除默认绑定、创建新分配
	ReplaceActive(ctx context.Context, a *model.EmployeeShiftAssignment) error
	Update(ctx context.Context, a *model.EmployeeShiftAssignment) error
}

type assignmentRepository struct {
	db *gorm.DB
}

// NewAssignmentRepository 创建班次分配仓储
func NewAssignmentRepository(db *gorm.DB) AssignmentRepository {
	return &assignmentRepository{db: db}
}

func (r *assignmentRepository) Create(ctx context.Context, a *model.EmployeeShiftAssignment) error {
	return r.db.WithContext(ctx).Create(a).Error
}

func (r *assignmentRepository) GetByID(ctx context.Context, id string) (*model.EmployeeShiftAssignment, error) {
	var a model.EmployeeShiftAssignment
	err := r.db.WithContext(ctx).
		Preload("Shift").
		First(&a, "assignment_id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &a, nil
}

func (r *assignmentRepository) ListActiveByUserOn(ctx context.Context, userID string, date time.Time) ([]model.EmployeeShiftAssignment, error) {
	day := model.DateOnly(date)
	var list []model.EmployeeShiftAssignment
	err := r.db.WithContext(ctx).
		Preload("Shift").
		Where("user_id = ? AND is_active = ?", userID, true).
		Where("effective_from <= ? AND (effective_to IS NULL OR effective_to >= ?)", model.EndOfDay(day), day).
		Order("priority ASC, effective_from DESC").
		Find(&list).Error
	if err != nil {
		return nil, err
	}
	return list, nil
}

func (r *assignmentRepository) ListActiveByUserInRange(ctx context.Context, userID string, start, end time.Time) ([]model.EmployeeShiftAssignment, error) {
	var list []model.EmployeeShiftAssignment
	err := r.db.WithContext(ctx).
		Preload("Shift").
		Where("user_id = ? AND is_active = ?", userID, true).
		Where("effective_from <= ? AND (effective_to IS NULL OR effective_to >= ?)",
			model.EndOfDay(end), model.DateOnly(start)).
		Order("priority ASC, effective_from DESC").
		Find(&list).Error
	if err != nil {
		return nil, err
	}
	return list, nil
}

func (r *assignmentRepository) ListByUser(ctx context.Context, userID string, isActive *bool, date *time.Time, offset, limit int) ([]model.EmployeeShiftAssignment, int64, error) {
	db := r.db.WithContext(ctx).
		Model(&model.EmployeeShiftAssignment{}).
		Where("user_id = ?", userID)
	if isActive != nil {
		db = db.Where("is_active = ?", *isActive)
	}
	if date != nil {
		day := model.DateOnly(*date)
		db = db.Where("effective_from <= ? AND (effective_to IS NULL OR effective_to >= ?)",
			model.EndOfDay(day), day)
	}

	var total int64
	if err := db.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var list []model.EmployeeShiftAssignment
	err := db.Preload("Shift").
		Order("priority ASC, effective_from DESC").
		Offset(offset).Limit(limit).
		Find(&list).Error
	if err != nil {
		return nil, 0, err
	}
	return list, total, nil
}

func (r *assignmentRepository) CountActiveByShift(ctx context.Context, shiftID string) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&model.EmployeeShiftAssignment{}).
		Where("shift_id = ? AND is_active = ?", shiftID, true).
		Count(&count).Error
	return count, err
}

func (r *assignmentRepository) DeactivateByUser(ctx context.Context, userID string) (int64, error) {
	result := r.db.WithContext(ctx).
		Model(&model.EmployeeShiftAssignment{}).
		Where("user_id = ? AND is_active = ?", userID, true).
		Update("is_active", false)
	return result.RowsAffected, result.Error
}

// ReplaceActive 新分配成为员工唯一的"时间归属"来源
func (r *assignmentRepository) ReplaceActive(ctx context.Context, a *model.EmployeeShiftAssignment) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&model.EmployeeShiftAssignment{}).
			Where("user_id = ? AND is_active = ?", a.UserID, true).
			Update("is_active", false).Error; err != nil {
			return err
		}
		if err := tx.Model(&model.User{}).
			Where("user_id = ?", a.UserID).
			Update("default_shift_id", nil).Error; err != nil {
			return err
		}
		return tx.Create(a).Error
	})
}

// Update 乐观锁更新
func (r *assignmentRepository) Update(ctx context.Context, a *model.EmployeeShiftAssignment) error {
	currentVersion := a.Version
	a.Version++

	result := r.db.WithContext(ctx).
		Model(&model.EmployeeShiftAssignment{}).
		Where("assignment_id = ? AND version = ?", a.AssignmentID, currentVersion).
		Select("pattern", "days_of_week", "specific_dates", "effective_from",
			"effective_to", "priority", "notes", "is_active", "version", "updated_at").
		Updates(a)
	if result.Error != nil {
		a.Version = currentVersion
		return result.Error
	}
	if result.RowsAffected == 0 {
		a.Version = currentVersion
		return pkgerrors.ErrOptimisticLock
	}
	return nil
}
