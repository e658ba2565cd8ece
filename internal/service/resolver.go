package service

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"

	"github.com/hieu182603/SmartAttendance-sub004/internal/model"
	"github.com/hieu182603/SmartAttendance-sub004/internal/repository"
)

// 生效班次来源
const (
	SourceAssignment = "assignment" // 命中模式化分配
	SourceDefault    = "default"    // 默认班次兜底
)

// EffectiveShift 某员工某日的生效班次解析结果
type EffectiveShift struct {
	Shift      *model.Shift
	Assignment *model.EmployeeShiftAssignment // 兜底路径为 nil
	Source     string
}

// ShiftResolver 决定员工在指定日期应上哪个班次
//
// 解析顺序：
//  1. 窗口覆盖该日期的活跃分配，按 priority 升序、effective_from 降序，
//     取第一条模式命中且班次仍启用的分配；
//  2. 员工档案上的默认班次；
//  3. 都没有则返回 (nil, nil)，该日无排班。
type ShiftResolver interface {
	Resolve(ctx context.Context, userID string, date time.Time) (*EffectiveShift, error)
}

type shiftResolver struct {
	repo *repository.Repository
}

// NewShiftResolver 创建班次解析器
func NewShiftResolver(repo *repository.Repository) ShiftResolver {
	return &shiftResolver{repo: repo}
}

func (r *shiftResolver) Resolve(ctx context.Context, userID string, date time.Time) (*EffectiveShift, error) {
	day := model.DateOnly(date)

	assignments, err := r.repo.Assignment.ListActiveByUserOn(ctx, userID, day)
	if err != nil {
		return nil, err
	}
	for i := range assignments {
		a := &assignments[i]
		if a.Shift == nil || !a.Shift.IsActive {
			continue // 班次已停用的分配不产生排班
		}
		if a.MatchesPattern(day) {
			return &EffectiveShift{Shift: a.Shift, Assignment: a, Source: SourceAssignment}, nil
		}
	}

	user, err := r.repo.User.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	if user.DefaultShiftID != nil && user.DefaultShift != nil {
		return &EffectiveShift{Shift: user.DefaultShift, Source: SourceDefault}, nil
	}

	return nil, nil
}
