package service

import (
	"context"
	"errors"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/hieu182603/SmartAttendance-sub004/internal/dto"
	"github.com/hieu182603/SmartAttendance-sub004/internal/model"
	"github.com/hieu182603/SmartAttendance-sub004/internal/repository"
)

var (
	// ErrEmailExists 邮箱已被注册
	ErrEmailExists = errors.New("邮箱已被使用")
	// ErrDepartmentNotFound 部门不存在
	ErrDepartmentNotFound = errors.New("部门不存在")
	// ErrBranchNotFound 网点不存在
	ErrBranchNotFound = errors.New("网点不存在")
)

// UserService 员工档案与组织结构
type UserService interface {
	Create(ctx context.Context, req *dto.CreateUserRequest) (*dto.UserResponse, error)
	Get(ctx context.Context, id string) (*dto.UserResponse, error)
	List(ctx context.Context, req *dto.ListUsersRequest) ([]dto.UserResponse, int64, error)
	Update(ctx context.Context, id string, req *dto.UpdateUserRequest) (*dto.UserResponse, error)
	ListDepartments(ctx context.Context) ([]model.Department, error)
	ListBranches(ctx context.Context) ([]model.Branch, error)
}

type userService struct {
	repo *repository.Repository
	log  *zap.Logger
}

// NewUserService 创建员工服务
func NewUserService(repo *repository.Repository, log *zap.Logger) UserService {
	return &userService{repo: repo, log: log}
}

func (s *userService) Create(ctx context.Context, req *dto.CreateUserRequest) (*dto.UserResponse, error) {
	if _, err := s.repo.User.GetByEmail(ctx, req.Email); err == nil {
		return nil, ErrEmailExists
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	user := &model.User{
		Name:     req.Name,
		Email:    req.Email,
		Phone:    req.Phone,
		Role:     req.Role,
		IsActive: true,
	}
	if user.Role == "" {
		user.Role = model.RoleEmployee
	}

	if req.DepartmentID != "" {
		if _, err := s.repo.Department.GetByID(ctx, req.DepartmentID); err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, ErrDepartmentNotFound
			}
			return nil, err
		}
		id := req.DepartmentID
		user.DepartmentID = &id
	}
	if req.BranchID != "" {
		if _, err := s.repo.Branch.GetByID(ctx, req.BranchID); err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, ErrBranchNotFound
			}
			return nil, err
		}
		id := req.BranchID
		user.BranchID = &id
	}

	if err := s.repo.User.Create(ctx, user); err != nil {
		return nil, err
	}

	s.log.Info("员工档案已创建",
		zap.String("user_id", user.UserID),
		zap.String("email", user.Email),
	)
	return dto.NewUserResponse(user), nil
}

func (s *userService) Get(ctx context.Context, id string) (*dto.UserResponse, error) {
	user, err := s.repo.User.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrEmployeeNotFound
		}
		return nil, err
	}
	return dto.NewUserResponse(user), nil
}

func (s *userService) List(ctx context.Context, req *dto.ListUsersRequest) ([]dto.UserResponse, int64, error) {
	users, total, err := s.repo.User.List(ctx, req.Search, req.DepartmentID,
		req.GetOffset(), req.GetPageSize())
	if err != nil {
		return nil, 0, err
	}

	out := make([]dto.UserResponse, 0, len(users))
	for i := range users {
		out = append(out, *dto.NewUserResponse(&users[i]))
	}
	return out, total, nil
}

func (s *userService) Update(ctx context.Context, id string, req *dto.UpdateUserRequest) (*dto.UserResponse, error) {
	user, err := s.repo.User.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrEmployeeNotFound
		}
		return nil, err
	}

	if req.Name != nil {
		user.Name = *req.Name
	}
	if req.Phone != nil {
		user.Phone = *req.Phone
	}
	if req.Role != nil {
		user.Role = *req.Role
	}
	if req.DepartmentID != nil {
		if *req.DepartmentID != "" {
			if _, err := s.repo.Department.GetByID(ctx, *req.DepartmentID); err != nil {
				if errors.Is(err, gorm.ErrRecordNotFound) {
					return nil, ErrDepartmentNotFound
				}
				return nil, err
			}
			user.DepartmentID = req.DepartmentID
		} else {
			user.DepartmentID = nil
		}
	}
	if req.BranchID != nil {
		if *req.BranchID != "" {
			if _, err := s.repo.Branch.GetByID(ctx, *req.BranchID); err != nil {
				if errors.Is(err, gorm.ErrRecordNotFound) {
					return nil, ErrBranchNotFound
				}
				return nil, err
			}
			user.BranchID = req.BranchID
		} else {
			user.BranchID = nil
		}
	}
	if req.IsActive != nil {
		user.IsActive = *req.IsActive
	}

	user.Version = req.Version
	if err := s.repo.User.Update(ctx, user); err != nil {
		return nil, err
	}
	return dto.NewUserResponse(user), nil
}

func (s *userService) ListDepartments(ctx context.Context) ([]model.Department, error) {
	return s.repo.Department.List(ctx)
}

func (s *userService) ListBranches(ctx context.Context) ([]model.Branch, error) {
	return s.repo.Branch.List(ctx)
}
