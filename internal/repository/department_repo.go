package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/hieu182603/SmartAttendance-sub004/internal/model"
)

// DepartmentRepository 部门仓储接口
type DepartmentRepository interface {
	GetByID(ctx context.Context, id string) (*model.Department, error)
	List(ctx context.Context) ([]model.Department, error)
}

type departmentRepository struct {
	db *gorm.DB
}

// NewDepartmentRepository 创建部门仓储
func NewDepartmentRepository(db *gorm.DB) DepartmentRepository {
	return &departmentRepository{db: db}
}

func (r *departmentRepository) GetByID(ctx context.Context, id string) (*model.Department, error) {
	var d model.Department
	if err := r.db.WithContext(ctx).First(&d, "department_id = ?", id).Error; err != nil {
		return nil, err
	}
	return &d, nil
}

func (r *departmentRepository) List(ctx context.Context) ([]model.Department, error) {
	var list []model.Department
	if err := r.db.WithContext(ctx).Order("name ASC").Find(&list).Error; err != nil {
		return nil, err
	}
	return list, nil
}

// BranchRepository 网点仓储接口
type BranchRepository interface {
	GetByID(ctx context.Context, id string) (*model.Branch, error)
	List(ctx context.Context) ([]model.Branch, error)
}

type branchRepository struct {
	db *gorm.DB
}

// NewBranchRepository 创建网点仓储
func NewBranchRepository(db *gorm.DB) BranchRepository {
	return &branchRepository{db: db}
}

func (r *branchRepository) GetByID(ctx context.Context, id string) (*model.Branch, error) {
	var b model.Branch
	if err := r.db.WithContext(ctx).First(&b, "branch_id = ?", id).Error; err != nil {
		return nil, err
	}
	return &b, nil
}

func (r *branchRepository) List(ctx context.Context) ([]model.Branch, error) {
	var list []model.Branch
	if err := r.db.WithContext(ctx).Order("name ASC").Find(&list).Error; err != nil {
		return nil, err
	}
	return list, nil
}
