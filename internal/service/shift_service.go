package service

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/hieu182603/SmartAttendance-sub004/config"
	"github.com/hieu182603/SmartAttendance-sub004/internal/dto"
	"github.com/hieu182603/SmartAttendance-sub004/internal/model"
	"github.com/hieu182603/SmartAttendance-sub004/internal/repository"
)

var (
	// ErrShiftNotFound 班次不存在
	ErrShiftNotFound = errors.New("班次不存在")
	// ErrShiftNameExists 班次名称已存在
	ErrShiftNameExists = errors.New("班次名称已存在")
	// ErrShiftInactive 班次已停用
	ErrShiftInactive = errors.New("班次已停用")
	// ErrShiftInUse 班次仍被活跃分配或默认绑定引用
	ErrShiftInUse = errors.New("班次仍在使用中，无法停用或删除")
	// ErrInvalidClock 时间格式无效
	ErrInvalidClock = errors.New("时间格式无效，应为 HH:mm")
)

// ShiftService 班次定义管理
type ShiftService interface {
	Create(ctx context.Context, req *dto.CreateShiftRequest) (*dto.ShiftResponse, error)
	Get(ctx context.Context, id string) (*dto.ShiftResponse, error)
	List(ctx context.Context, includeInactive bool) ([]dto.ShiftResponse, error)
	// Update 修改班次；上下班时间或休息时长变更时级联刷新未来排班
	Update(ctx context.Context, id string, req *dto.UpdateShiftRequest) (*dto.ShiftResponse, error)
	Deactivate(ctx context.Context, id string, version int) error
	Delete(ctx context.Context, id string) error
}

type shiftService struct {
	cfg         *config.Config
	repo        *repository.Repository
	scheduleSvc ScheduleService
	log         *zap.Logger
}

// NewShiftService 创建班次服务
func NewShiftService(cfg *config.Config, repo *repository.Repository, scheduleSvc ScheduleService, log *zap.Logger) ShiftService {
	return &shiftService{cfg: cfg, repo: repo, scheduleSvc: scheduleSvc, log: log}
}

func (s *shiftService) Create(ctx context.Context, req *dto.CreateShiftRequest) (*dto.ShiftResponse, error) {
	if !model.ValidClock(req.StartTime) || !model.ValidClock(req.EndTime) {
		return nil, ErrInvalidClock
	}

	if _, err := s.repo.Shift.GetByName(ctx, req.Name); err == nil {
		return nil, ErrShiftNameExists
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	shift := &model.Shift{
		Name:          req.Name,
		StartTime:     req.StartTime,
		EndTime:       req.EndTime,
		BreakDuration: req.BreakDuration,
		IsFlexible:    req.IsFlexible,
		Description:   req.Description,
		IsActive:      true,
	}
	if err := s.repo.Shift.Create(ctx, shift); err != nil {
		return nil, err
	}

	s.log.Info("班次已创建",
		zap.String("shift_id", shift.ShiftID),
		zap.String("name", shift.Name),
	)
	return dto.NewShiftResponse(shift), nil
}

func (s *shiftService) Get(ctx context.Context, id string) (*dto.ShiftResponse, error) {
	shift, err := s.repo.Shift.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrShiftNotFound
		}
		return nil, err
	}
	return dto.NewShiftResponse(shift), nil
}

func (s *shiftService) List(ctx context.Context, includeInactive bool) ([]dto.ShiftResponse, error) {
	shifts, err := s.repo.Shift.List(ctx, includeInactive)
	if err != nil {
		return nil, err
	}
	out := make([]dto.ShiftResponse, 0, len(shifts))
	for i := range shifts {
		out = append(out, *dto.NewShiftResponse(&shifts[i]))
	}
	return out, nil
}

func (s *shiftService) Update(ctx context.Context, id string, req *dto.UpdateShiftRequest) (*dto.ShiftResponse, error) {
	shift, err := s.repo.Shift.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrShiftNotFound
		}
		return nil, err
	}

	oldStart, oldEnd, oldBreak, oldName := shift.StartTime, shift.EndTime, shift.BreakDuration, shift.Name

	if req.Name != nil && *req.Name != shift.Name {
		if _, err := s.repo.Shift.GetByName(ctx, *req.Name); err == nil {
			return nil, ErrShiftNameExists
		} else if !errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, err
		}
		shift.Name = *req.Name
	}
	if req.StartTime != nil {
		if !model.ValidClock(*req.StartTime) {
			return nil, ErrInvalidClock
		}
		shift.StartTime = *req.StartTime
	}
	if req.EndTime != nil {
		if !model.ValidClock(*req.EndTime) {
			return nil, ErrInvalidClock
		}
		shift.EndTime = *req.EndTime
	}
	if req.BreakDuration != nil {
		shift.BreakDuration = *req.BreakDuration
	}
	if req.IsFlexible != nil {
		shift.IsFlexible = *req.IsFlexible
	}
	if req.Description != nil {
		shift.Description = *req.Description
	}
	if req.IsActive != nil {
		// 停用同样受引用守卫约束，与 Deactivate 一致
		if !*req.IsActive && shift.IsActive {
			if err := s.ensureUnused(ctx, id); err != nil {
				return nil, err
			}
		}
		shift.IsActive = *req.IsActive
	}
	shift.Version = req.Version

	if err := s.repo.Shift.Update(ctx, shift); err != nil {
		return nil, err
	}

	timeChanged := shift.StartTime != oldStart || shift.EndTime != oldEnd || shift.BreakDuration != oldBreak
	nameChanged := shift.Name != oldName
	if timeChanged || nameChanged {
		s.cascade(ctx, shift, timeChanged)
	}

	return dto.NewShiftResponse(shift), nil
}

// cascade 班次定义变更后刷新未来排班：
// 先批量更新冗余快照，时间变更时再对受影响员工重算近几天的排班。
// 级联失败只记日志，不影响本次更新请求。
func (s *shiftService) cascade(ctx context.Context, shift *model.Shift, timeChanged bool) {
	today := model.DateOnly(time.Now())

	affected, err := s.repo.Schedule.UpdateShiftSnapshot(ctx, shift.ShiftID, today,
		shift.Name, shift.StartTime, shift.EndTime)
	if err != nil {
		s.log.Error("刷新排班快照失败",
			zap.String("shift_id", shift.ShiftID),
			zap.Error(err),
		)
		return
	}
	s.log.Info("排班快照已刷新",
		zap.String("shift_id", shift.ShiftID),
		zap.Int64("entries", affected),
	)

	if !timeChanged {
		return
	}

	userIDs, err := s.repo.Schedule.DistinctUserIDsByShift(ctx, shift.ShiftID, today,
		[]string{model.ScheduleStatusScheduled, model.ScheduleStatusCompleted})
	if err != nil {
		s.log.Error("查询受影响员工失败",
			zap.String("shift_id", shift.ShiftID),
			zap.Error(err),
		)
		return
	}

	result := s.scheduleSvc.BatchRegenerate(ctx, userIDs, s.cfg.Schedule.CascadeDays)
	s.log.Info("班次时间变更级联重算完成",
		zap.String("shift_id", shift.ShiftID),
		zap.Int("succeeded", result.Succeeded),
		zap.Int("failed", len(result.Failed)),
	)
}

func (s *shiftService) Deactivate(ctx context.Context, id string, version int) error {
	shift, err := s.repo.Shift.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrShiftNotFound
		}
		return err
	}

	if err := s.ensureUnused(ctx, id); err != nil {
		return err
	}

	shift.IsActive = false
	shift.Version = version
	return s.repo.Shift.Update(ctx, shift)
}

func (s *shiftService) Delete(ctx context.Context, id string) error {
	if _, err := s.repo.Shift.GetByID(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrShiftNotFound
		}
		return err
	}

	if err := s.ensureUnused(ctx, id); err != nil {
		return err
	}

	if err := s.repo.Shift.Delete(ctx, id); err != nil {
		return err
	}
	s.log.Info("班次已删除", zap.String("shift_id", id))
	return nil
}

// ensureUnused 仍被活跃分配或默认绑定引用的班次不允许停用/删除
func (s *shiftService) ensureUnused(ctx context.Context, shiftID string) error {
	assignments, err := s.repo.Assignment.CountActiveByShift(ctx, shiftID)
	if err != nil {
		return err
	}
	if assignments > 0 {
		return ErrShiftInUse
	}
	bindings, err := s.repo.User.CountByDefaultShift(ctx, shiftID)
	if err != nil {
		return err
	}
	if bindings > 0 {
		return ErrShiftInUse
	}
	return nil
}
