package repository

import (
	"context"
	"time"

	"gorm.io/gorm"

	"github.com/hieu182603/SmartAttendance-sub004/internal/model"
	pkgerrors "github.com/hieu182603/SmartAttendance-sub004/pkg/errors"
)

// UserRepository 员工仓储接口
type UserRepository interface {
	Create(ctx context.Context, user *model.User) error
	GetByID(ctx context.Context, id string) (*model.User, error)
	GetByIDs(ctx context.Context, ids []string) ([]model.User, error)
	List(ctx context.Context, search, departmentID string, offset, limit int) ([]model.User, int64, error)
	Update(ctx context.Context, user *model.User) error
	UpdateDefaultShift(ctx context.Context, userID string, shiftID *string) error
	CountByDefaultShift(ctx context.Context, shiftID string) (int64, error)
	GetByEmail(ctx context.Context, email string) (*model.User, error)
	// ListEffectiveByShift 查询某日有效归属于指定班次的员工：
	// 默认绑定该班次，或存在覆盖该日期的该班次活跃分配（单条联合查询）
	ListEffectiveByShift(ctx context.Context, shiftID string, date time.Time, search string, offset, limit int) ([]model.User, int64, error)
	CountEffectiveByShift(ctx context.Context, shiftID string, date time.Time) (int64, error)
}

type userRepository struct {
	db *gorm.DB
}

// NewUserRepository 创建员工仓储
func NewUserRepository(db *gorm.DB) UserRepository {
	return &userRepository{db: db}
}

func (r *userRepository) Create(ctx context.Context, user *model.User) error {
	return r.db.WithContext(ctx).Create(user).Error
}

func (r *userRepository) GetByID(ctx context.Context, id string) (*model.User, error) {
	var user model.User
	err := r.db.WithContext(ctx).
		Preload("Department").
		Preload("Branch").
		Preload("DefaultShift").
		First(&user, "user_id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *userRepository) GetByIDs(ctx context.Context, ids []string) ([]model.User, error) {
	var users []model.User
	if len(ids) == 0 {
		return users, nil
	}
	if err := r.db.WithContext(ctx).Find(&users, "user_id IN ?", ids).Error; err != nil {
		return nil, err
	}
	return users, nil
}

func (r *userRepository) GetByEmail(ctx context.Context, email string) (*model.User, error) {
	var user model.User
	if err := r.db.WithContext(ctx).First(&user, "email = ?", email).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *userRepository) List(ctx context.Context, search, departmentID string, offset, limit int) ([]model.User, int64, error) {
	db := r.db.WithContext(ctx).Model(&model.User{})
	if search != "" {
		like := "%" + search + "%"
		db = db.Where("name ILIKE ? OR email ILIKE ?", like, like)
	}
	if departmentID != "" {
		db = db.Where("department_id = ?", departmentID)
	}

	var total int64
	if err := db.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var users []model.User
	err := db.Preload("Department").Preload("Branch").Preload("DefaultShift").
		Order("name ASC").
		Offset(offset).Limit(limit).
		Find(&users).Error
	if err != nil {
		return nil, 0, err
	}
	return users, total, nil
}

// Update 乐观锁更新
func (r *userRepository) Update(ctx context.Context, user *model.User) error {
	currentVersion := user.Version
	user.Version++

	result := r.db.WithContext(ctx).
		Model(&model.User{}).
		Where("user_id = ? AND version = ?", user.UserID, currentVersion).
		Select("name", "phone", "role", "department_id", "branch_id",
			"is_active", "version", "updated_at").
		Updates(user)
	if result.Error != nil {
		user.Version = currentVersion
		return result.Error
	}
	if result.RowsAffected == 0 {
		user.Version = currentVersion
		return pkgerrors.ErrOptimisticLock
	}
	return nil
}

// UpdateDefaultShift 设置或清除默认班次绑定，不参与版本竞争
func (r *userRepository) UpdateDefaultShift(ctx context.Context, userID string, shiftID *string) error {
	return r.db.WithContext(ctx).
		Model(&model.User{}).
		Where("user_id = ?", userID).
		Update("default_shift_id", shiftID).Error
}

func (r *userRepository) CountByDefaultShift(ctx context.Context, shiftID string) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&model.User{}).
		Where("default_shift_id = ? AND is_active = ?", shiftID, true).
		Count(&count).Error
	return count, err
}

func (r *userRepository) ListEffectiveByShift(ctx context.Context, shiftID string, date time.Time, search string, offset, limit int) ([]model.User, int64, error) {
	day := model.DateOnly(date)

	sub := r.db.Model(&model.EmployeeShiftAssignment{}).
		Select("user_id").
		Where("shift_id = ? AND is_active = ? AND effective_from <= ? AND (effective_to IS NULL OR effective_to >= ?)",
			shiftID, true, model.EndOfDay(day), day)

	db := r.db.WithContext(ctx).
		Model(&model.User{}).
		Where("is_active = ?", true).
		Where(r.db.Where("default_shift_id = ?", shiftID).Or("user_id IN (?)", sub))
	if search != "" {
		like := "%" + search + "%"
		db = db.Where("name ILIKE ? OR email ILIKE ?", like, like)
	}

	var total int64
	if err := db.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var users []model.User
	err := db.Preload("Department").Preload("DefaultShift").
		Order("name ASC").
		Offset(offset).Limit(limit).
		Find(&users).Error
	if err != nil {
		return nil, 0, err
	}
	return users, total, nil
}

func (r *userRepository) CountEffectiveByShift(ctx context.Context, shiftID string, date time.Time) (int64, error) {
	day := model.DateOnly(date)

	sub := r.db.Model(&model.EmployeeShiftAssignment{}).
		Select("user_id").
		Where("shift_id = ? AND is_active = ? AND effective_from <= ? AND (effective_to IS NULL OR effective_to >= ?)",
			shiftID, true, model.EndOfDay(day), day)

	var count int64
	err := r.db.WithContext(ctx).
		Model(&model.User{}).
		Where("is_active = ?", true).
		Where(r.db.Where("default_shift_id = ?", shiftID).Or("user_id IN (?)", sub)).
		Count(&count).Error
	return count, err
}
