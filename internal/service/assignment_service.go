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
	// ErrEmployeeNotFound 员工不存在
	ErrEmployeeNotFound = errors.New("员工不存在")
	// ErrAssignmentNotFound 排班分配不存在
	ErrAssignmentNotFound = errors.New("排班分配不存在")
	// ErrInvalidPattern 分配模式参数无效
	ErrInvalidPattern = errors.New("排班模式参数无效")
)

// AssignmentService 员工班次分配
//
// 两条路径：
//   - 模式化分配：创建分配记录并事务内取代既有活跃分配、清除默认绑定；
//   - 全职默认绑定：停用既有分配，把班次写到员工档案的 default_shift_id。
//
// 每次变更后都会触发排班重算，重算失败只记日志不回滚业务写入。
type AssignmentService interface {
	AssignShift(ctx context.Context, req *dto.AssignShiftRequest, operatorID string) (*dto.AssignShiftResponse, error)
	BulkAssign(ctx context.Context, req *dto.BulkAssignRequest, operatorID string) (*dto.BulkAssignResponse, error)
	// RemoveShift 解除员工的全部班次归属（分配与默认绑定）
	RemoveShift(ctx context.Context, userID string) error
	ListShiftEmployees(ctx context.Context, shiftID string, req *dto.ListShiftEmployeesRequest) ([]dto.UserResponse, int64, error)
	ShiftEmployeeCounts(ctx context.Context, date time.Time) ([]dto.ShiftEmployeeCount, error)
	ListUserAssignments(ctx context.Context, userID string, req *dto.ListAssignmentsRequest) ([]dto.AssignmentResponse, int64, error)
	UpdateAssignment(ctx context.Context, id string, req *dto.UpdateAssignmentRequest) (*dto.AssignmentResponse, error)
	DeactivateAssignment(ctx context.Context, id string, version int) error
}

type assignmentService struct {
	cfg         *config.Config
	repo        *repository.Repository
	scheduleSvc ScheduleService
	notifySvc   NotificationService
	log         *zap.Logger
}

// NewAssignmentService 创建分配服务
func NewAssignmentService(cfg *config.Config, repo *repository.Repository,
	scheduleSvc ScheduleService, notifySvc NotificationService, log *zap.Logger) AssignmentService {
	return &assignmentService{
		cfg:         cfg,
		repo:        repo,
		scheduleSvc: scheduleSvc,
		notifySvc:   notifySvc,
		log:         log,
	}
}

func (s *assignmentService) AssignShift(ctx context.Context, req *dto.AssignShiftRequest, operatorID string) (*dto.AssignShiftResponse, error) {
	shift, err := s.getActiveShift(ctx, req.ShiftID)
	if err != nil {
		return nil, err
	}
	if _, err := s.repo.User.GetByID(ctx, req.UserID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrEmployeeNotFound
		}
		return nil, err
	}

	// 携带任一模式参数，或未声明全职，都走模式化分配
	if req.HasPatternFields() || !req.IsFullTime {
		assignment, err := s.buildAssignment(req, operatorID)
		if err != nil {
			return nil, err
		}
		if err := s.repo.Assignment.ReplaceActive(ctx, assignment); err != nil {
			return nil, err
		}
		s.log.Info("模式化分配已创建",
			zap.String("user_id", req.UserID),
			zap.String("shift_id", req.ShiftID),
			zap.String("pattern", assignment.Pattern),
		)

		s.regenerate(ctx, req.UserID)
		s.notifySvc.NotifyAssignmentChanged(ctx, req.UserID, shift.Name, assignment.AssignmentID)

		assignment.Shift = shift
		return &dto.AssignShiftResponse{
			Mode:       "assignment",
			Assignment: dto.NewAssignmentResponse(assignment),
		}, nil
	}

	// 全职默认绑定
	if _, err := s.repo.Assignment.DeactivateByUser(ctx, req.UserID); err != nil {
		return nil, err
	}
	if err := s.repo.User.UpdateDefaultShift(ctx, req.UserID, &req.ShiftID); err != nil {
		return nil, err
	}
	s.log.Info("默认班次已绑定",
		zap.String("user_id", req.UserID),
		zap.String("shift_id", req.ShiftID),
	)

	s.regenerate(ctx, req.UserID)
	s.notifySvc.NotifyAssignmentChanged(ctx, req.UserID, shift.Name, "")

	return &dto.AssignShiftResponse{Mode: "default"}, nil
}

// buildAssignment 校验并构造模式化分配
func (s *assignmentService) buildAssignment(req *dto.AssignShiftRequest, operatorID string) (*model.EmployeeShiftAssignment, error) {
	pattern := req.Pattern
	if pattern == "" {
		pattern = model.PatternAll
	}
	if !model.ValidPattern(pattern) {
		return nil, ErrInvalidPattern
	}

	var daysOfWeek model.IntArray
	if pattern == model.PatternCustom {
		if len(req.DaysOfWeek) == 0 {
			return nil, ErrInvalidPattern
		}
		for _, d := range req.DaysOfWeek {
			if d < 0 || d > 6 {
				return nil, ErrInvalidPattern
			}
		}
		daysOfWeek = req.DaysOfWeek
	}

	var specificDates model.DateArray
	if pattern == model.PatternSpecific {
		if len(req.SpecificDates) == 0 {
			return nil, ErrInvalidPattern
		}
		for _, raw := range req.SpecificDates {
			d, err := parseDate(raw)
			if err != nil {
				return nil, ErrInvalidPattern
			}
			specificDates = append(specificDates, d)
		}
	}

	effectiveFrom := model.DateOnly(time.Now())
	if req.EffectiveFrom != "" {
		d, err := parseDate(req.EffectiveFrom)
		if err != nil {
			return nil, err
		}
		effectiveFrom = model.DateOnly(d)
	}

	var effectiveTo *time.Time
	if req.EffectiveTo != "" {
		d, err := parseDate(req.EffectiveTo)
		if err != nil {
			return nil, err
		}
		eod := model.EndOfDay(d)
		if eod.Before(effectiveFrom) {
			return nil, ErrInvalidDateRange
		}
		effectiveTo = &eod
	}

	priority := req.Priority
	if priority == 0 {
		priority = 1
	}

	a := &model.EmployeeShiftAssignment{
		UserID:        req.UserID,
		ShiftID:       req.ShiftID,
		Pattern:       pattern,
		DaysOfWeek:    daysOfWeek,
		SpecificDates: specificDates,
		EffectiveFrom: effectiveFrom,
		EffectiveTo:   effectiveTo,
		Priority:      priority,
		Notes:         req.Notes,
		IsActive:      true,
	}
	if operatorID != "" {
		a.CreatedBy = &operatorID
	}
	return a, nil
}

func (s *assignmentService) BulkAssign(ctx context.Context, req *dto.BulkAssignRequest, operatorID string) (*dto.BulkAssignResponse, error) {
	shift, err := s.getActiveShift(ctx, req.ShiftID)
	if err != nil {
		return nil, err
	}

	users, err := s.repo.User.GetByIDs(ctx, req.UserIDs)
	if err != nil {
		return nil, err
	}
	found := make(map[string]bool, len(users))
	for i := range users {
		found[users[i].UserID] = true
	}

	resp := &dto.BulkAssignResponse{}
	for _, uid := range req.UserIDs {
		if !found[uid] {
			resp.Failed = append(resp.Failed, dto.BulkAssignFailure{
				UserID: uid,
				Reason: ErrEmployeeNotFound.Error(),
			})
			continue
		}
		if _, err := s.repo.Assignment.DeactivateByUser(ctx, uid); err != nil {
			resp.Failed = append(resp.Failed, dto.BulkAssignFailure{UserID: uid, Reason: err.Error()})
			continue
		}
		if err := s.repo.User.UpdateDefaultShift(ctx, uid, &req.ShiftID); err != nil {
			resp.Failed = append(resp.Failed, dto.BulkAssignFailure{UserID: uid, Reason: err.Error()})
			continue
		}
		resp.Assigned++

		s.regenerate(ctx, uid)
		s.notifySvc.NotifyAssignmentChanged(ctx, uid, shift.Name, "")
	}

	s.log.Info("批量绑定默认班次完成",
		zap.String("shift_id", req.ShiftID),
		zap.Int("assigned", resp.Assigned),
		zap.Int("failed", len(resp.Failed)),
	)
	return resp, nil
}

func (s *assignmentService) RemoveShift(ctx context.Context, userID string) error {
	if _, err := s.repo.User.GetByID(ctx, userID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrEmployeeNotFound
		}
		return err
	}

	if _, err := s.repo.Assignment.DeactivateByUser(ctx, userID); err != nil {
		return err
	}
	if err := s.repo.User.UpdateDefaultShift(ctx, userID, nil); err != nil {
		return err
	}
	s.log.Info("员工班次归属已解除", zap.String("user_id", userID))

	s.regenerate(ctx, userID)
	return nil
}

func (s *assignmentService) ListShiftEmployees(ctx context.Context, shiftID string, req *dto.ListShiftEmployeesRequest) ([]dto.UserResponse, int64, error) {
	if _, err := s.repo.Shift.GetByID(ctx, shiftID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, 0, ErrShiftNotFound
		}
		return nil, 0, err
	}

	date := time.Now()
	if req.Date != "" {
		d, err := parseDate(req.Date)
		if err != nil {
			return nil, 0, err
		}
		date = d
	}

	users, total, err := s.repo.User.ListEffectiveByShift(ctx, shiftID, date,
		req.Search, req.GetOffset(), req.GetPageSize())
	if err != nil {
		return nil, 0, err
	}

	out := make([]dto.UserResponse, 0, len(users))
	for i := range users {
		out = append(out, *dto.NewUserResponse(&users[i]))
	}
	return out, total, nil
}

func (s *assignmentService) ShiftEmployeeCounts(ctx context.Context, date time.Time) ([]dto.ShiftEmployeeCount, error) {
	shifts, err := s.repo.Shift.List(ctx, false)
	if err != nil {
		return nil, err
	}

	out := make([]dto.ShiftEmployeeCount, 0, len(shifts))
	for i := range shifts {
		count, err := s.repo.User.CountEffectiveByShift(ctx, shifts[i].ShiftID, date)
		if err != nil {
			return nil, err
		}
		out = append(out, dto.ShiftEmployeeCount{
			ShiftID:   shifts[i].ShiftID,
			ShiftName: shifts[i].Name,
			Count:     count,
		})
	}
	return out, nil
}

func (s *assignmentService) ListUserAssignments(ctx context.Context, userID string, req *dto.ListAssignmentsRequest) ([]dto.AssignmentResponse, int64, error) {
	if _, err := s.repo.User.GetByID(ctx, userID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, 0, ErrEmployeeNotFound
		}
		return nil, 0, err
	}

	var date *time.Time
	if req.Date != "" {
		d, err := parseDate(req.Date)
		if err != nil {
			return nil, 0, err
		}
		date = &d
	}

	list, total, err := s.repo.Assignment.ListByUser(ctx, userID, req.IsActive, date,
		req.GetOffset(), req.GetPageSize())
	if err != nil {
		return nil, 0, err
	}

	out := make([]dto.AssignmentResponse, 0, len(list))
	for i := range list {
		out = append(out, *dto.NewAssignmentResponse(&list[i]))
	}
	return out, total, nil
}

func (s *assignmentService) UpdateAssignment(ctx context.Context, id string, req *dto.UpdateAssignmentRequest) (*dto.AssignmentResponse, error) {
	a, err := s.repo.Assignment.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrAssignmentNotFound
		}
		return nil, err
	}

	if req.Pattern != nil {
		if !model.ValidPattern(*req.Pattern) {
			return nil, ErrInvalidPattern
		}
		a.Pattern = *req.Pattern
	}
	if len(req.DaysOfWeek) > 0 {
		for _, d := range req.DaysOfWeek {
			if d < 0 || d > 6 {
				return nil, ErrInvalidPattern
			}
		}
		a.DaysOfWeek = req.DaysOfWeek
	}
	if len(req.SpecificDates) > 0 {
		var dates model.DateArray
		for _, raw := range req.SpecificDates {
			d, err := parseDate(raw)
			if err != nil {
				return nil, ErrInvalidPattern
			}
			dates = append(dates, d)
		}
		a.SpecificDates = dates
	}
	if req.EffectiveFrom != nil {
		d, err := parseDate(*req.EffectiveFrom)
		if err != nil {
			return nil, err
		}
		a.EffectiveFrom = model.DateOnly(d)
	}
	if req.EffectiveTo != nil {
		if *req.EffectiveTo == "" {
			a.EffectiveTo = nil
		} else {
			d, err := parseDate(*req.EffectiveTo)
			if err != nil {
				return nil, err
			}
			eod := model.EndOfDay(d)
			a.EffectiveTo = &eod
		}
	}
	if req.Priority != nil {
		a.Priority = *req.Priority
	}
	if req.Notes != nil {
		a.Notes = *req.Notes
	}

	// 最终状态再做一次模式完整性校验
	if a.Pattern == model.PatternCustom && len(a.DaysOfWeek) == 0 {
		return nil, ErrInvalidPattern
	}
	if a.Pattern == model.PatternSpecific && len(a.SpecificDates) == 0 {
		return nil, ErrInvalidPattern
	}
	if a.EffectiveTo != nil && a.EffectiveTo.Before(a.EffectiveFrom) {
		return nil, ErrInvalidDateRange
	}

	a.Version = req.Version
	if err := s.repo.Assignment.Update(ctx, a); err != nil {
		return nil, err
	}

	s.regenerate(ctx, a.UserID)
	return dto.NewAssignmentResponse(a), nil
}

func (s *assignmentService) DeactivateAssignment(ctx context.Context, id string, version int) error {
	a, err := s.repo.Assignment.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrAssignmentNotFound
		}
		return err
	}

	a.IsActive = false
	a.Version = version
	if err := s.repo.Assignment.Update(ctx, a); err != nil {
		return err
	}

	s.regenerate(ctx, a.UserID)
	return nil
}

// getActiveShift 加载班次并要求处于启用状态
func (s *assignmentService) getActiveShift(ctx context.Context, shiftID string) (*model.Shift, error) {
	shift, err := s.repo.Shift.GetByID(ctx, shiftID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrShiftNotFound
		}
		return nil, err
	}
	if !shift.IsActive {
		return nil, ErrShiftInactive
	}
	return shift, nil
}

// regenerate 分配变更后的排班重算，失败只记日志
func (s *assignmentService) regenerate(ctx context.Context, userID string) {
	if err := s.scheduleSvc.RegenerateOnAssignmentChange(ctx, userID); err != nil {
		s.log.Error("分配变更后重新生成排班失败",
			zap.String("user_id", userID),
			zap.Error(err),
		)
	}
}
