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
	// ErrInvalidDateRange 日期区间无效
	ErrInvalidDateRange = errors.New("日期区间无效")
	// ErrInvalidDate 日期格式无效
	ErrInvalidDate = errors.New("日期格式无效，应为 YYYY-MM-DD")
)

// parseDate 解析 "2006-01-02" 为本地零点
func parseDate(s string) (time.Time, error) {
	t, err := time.ParseInLocation("2006-01-02", s, time.Local)
	if err != nil {
		return time.Time{}, ErrInvalidDate
	}
	return t, nil
}

// ScheduleService 排班表生成与读取
type ScheduleService interface {
	// GenerateFromAssignments 按当前分配推算区间内每日排班，不落库；
	// 存在活跃分配时未命中的日期直接跳过，完全没有分配时整段回退默认班次
	GenerateFromAssignments(ctx context.Context, userID string, start, end time.Time) ([]model.ScheduleEntry, error)
	// RegenerateOnAssignmentChange 分配变更后重算今天起若干个月的排班并落库
	RegenerateOnAssignmentChange(ctx context.Context, userID string) error
	// RegenerateDays 重算今天起指定天数的排班并落库
	RegenerateDays(ctx context.Context, userID string, days int) error
	// BatchRegenerate 为多名员工重算排班，单个失败不影响其余
	BatchRegenerate(ctx context.Context, userIDs []string, daysForward int) *dto.BatchRegenerateResult
	// ApplyLeave 消费已批准请假：区间内排班标记为休，无排班的日期补建休息条目，幂等
	ApplyLeave(ctx context.Context, req *dto.ApplyLeaveRequest) (*dto.ApplyLeaveResponse, error)
	// ListLeaves 查询员工已消费的请假记录
	ListLeaves(ctx context.Context, userID string) ([]dto.LeaveRequestResponse, error)
	// GetSchedule 合并读取：已落库条目优先，其余日期给出按当前分配推算的候选
	GetSchedule(ctx context.Context, userID string, start, end time.Time) ([]dto.ScheduleEntryResponse, error)
	// GetEffectiveShift 解析员工某日生效班次（"我今天上什么班"）
	GetEffectiveShift(ctx context.Context, userID string, date time.Time) (*dto.EffectiveShiftResponse, error)
}

type scheduleService struct {
	cfg      *config.Config
	repo     *repository.Repository
	resolver ShiftResolver
	log      *zap.Logger
}

// NewScheduleService 创建排班服务
func NewScheduleService(cfg *config.Config, repo *repository.Repository, resolver ShiftResolver, log *zap.Logger) ScheduleService {
	return &scheduleService{cfg: cfg, repo: repo, resolver: resolver, log: log}
}

// entryFromShift 由班次快照构造排班条目
func entryFromShift(userID string, date time.Time, shift *model.Shift) model.ScheduleEntry {
	shiftID := shift.ShiftID
	return model.ScheduleEntry{
		UserID:    userID,
		Date:      model.DateOnly(date),
		ShiftID:   &shiftID,
		ShiftName: shift.Name,
		StartTime: shift.StartTime,
		EndTime:   shift.EndTime,
		Status:    model.ScheduleStatusScheduled,
	}
}

func (s *scheduleService) GenerateFromAssignments(ctx context.Context, userID string, start, end time.Time) ([]model.ScheduleEntry, error) {
	start = model.DateOnly(start)
	end = model.DateOnly(end)
	if end.Before(start) {
		return nil, ErrInvalidDateRange
	}

	assignments, err := s.repo.Assignment.ListActiveByUserInRange(ctx, userID, start, end)
	if err != nil {
		return nil, err
	}

	var entries []model.ScheduleEntry

	if len(assignments) > 0 {
		for day := start; !day.After(end); day = day.AddDate(0, 0, 1) {
			for i := range assignments {
				a := &assignments[i]
				if a.Shift == nil || !a.Shift.IsActive {
					continue
				}
				if a.EffectiveOn(day) {
					entries = append(entries, entryFromShift(userID, day, a.Shift))
					break
				}
			}
			// 没有分配命中的日期不生成条目
		}
		return entries, nil
	}

	// 完全没有活跃分配时回退默认班次
	user, err := s.repo.User.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrEmployeeNotFound
		}
		return nil, err
	}
	if user.DefaultShiftID != nil && user.DefaultShift != nil {
		for day := start; !day.After(end); day = day.AddDate(0, 0, 1) {
			entries = append(entries, entryFromShift(userID, day, user.DefaultShift))
		}
	}
	return entries, nil
}

func (s *scheduleService) RegenerateOnAssignmentChange(ctx context.Context, userID string) error {
	today := model.DateOnly(time.Now())
	end := today.AddDate(0, s.cfg.Schedule.RegenerateMonths, 0)
	return s.regenerateWindow(ctx, userID, today, end)
}

func (s *scheduleService) RegenerateDays(ctx context.Context, userID string, days int) error {
	if days < 1 {
		days = 1
	}
	today := model.DateOnly(time.Now())
	return s.regenerateWindow(ctx, userID, today, today.AddDate(0, 0, days-1))
}

func (s *scheduleService) regenerateWindow(ctx context.Context, userID string, start, end time.Time) error {
	entries, err := s.GenerateFromAssignments(ctx, userID, start, end)
	if err != nil {
		return err
	}
	if len(entries) == 0 {
		return nil
	}
	// 已关联请假的条目由 upsert 守卫保护，不会被覆盖
	return s.repo.Schedule.UpsertEntries(ctx, entries)
}

func (s *scheduleService) BatchRegenerate(ctx context.Context, userIDs []string, daysForward int) *dto.BatchRegenerateResult {
	result := &dto.BatchRegenerateResult{}
	for _, uid := range userIDs {
		var err error
		if daysForward > 0 {
			err = s.RegenerateDays(ctx, uid, daysForward)
		} else {
			err = s.RegenerateOnAssignmentChange(ctx, uid)
		}
		if err != nil {
			s.log.Error("重新生成排班失败",
				zap.String("user_id", uid),
				zap.Error(err),
			)
			result.Failed = append(result.Failed, dto.RegenerateFailure{
				UserID: uid,
				Reason: err.Error(),
			})
			continue
		}
		result.Succeeded++
	}
	return result
}

func (s *scheduleService) ApplyLeave(ctx context.Context, req *dto.ApplyLeaveRequest) (*dto.ApplyLeaveResponse, error) {
	start, err := parseDate(req.StartDate)
	if err != nil {
		return nil, err
	}
	end, err := parseDate(req.EndDate)
	if err != nil {
		return nil, err
	}
	if end.Before(start) {
		return nil, ErrInvalidDateRange
	}

	if _, err := s.repo.User.GetByID(ctx, req.UserID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrEmployeeNotFound
		}
		return nil, err
	}

	// 留存已消费的请假记录，幂等
	record := &model.LeaveRequest{
		RequestID: req.LeaveRequestID,
		UserID:    req.UserID,
		Type:      req.Type,
		StartDate: model.DateOnly(start),
		EndDate:   model.DateOnly(end),
		Status:    "approved",
	}
	if err := s.repo.Leave.Upsert(ctx, record); err != nil {
		return nil, err
	}

	notes := model.LeaveTypeLabel(req.Type)
	resp := &dto.ApplyLeaveResponse{}

	for day := start; !day.After(end); day = day.AddDate(0, 0, 1) {
		affected, err := s.repo.Schedule.MarkLeave(ctx, req.UserID, day, notes, req.LeaveRequestID)
		if err != nil {
			return nil, err
		}
		if affected > 0 {
			resp.Updated++
			continue
		}

		// 该日尚无排班条目，补建休息条目并尽量带上班次快照
		entry := model.ScheduleEntry{
			UserID: req.UserID,
			Date:   model.DateOnly(day),
			Status: model.ScheduleStatusOff,
			Notes:  notes,
		}
		leaveID := req.LeaveRequestID
		entry.LeaveRequestID = &leaveID
		if eff, rerr := s.resolver.Resolve(ctx, req.UserID, day); rerr == nil && eff != nil {
			shiftID := eff.Shift.ShiftID
			entry.ShiftID = &shiftID
			entry.ShiftName = eff.Shift.Name
			entry.StartTime = eff.Shift.StartTime
			entry.EndTime = eff.Shift.EndTime
		}
		if err := s.repo.Schedule.CreateEntry(ctx, &entry); err != nil {
			return nil, err
		}
		resp.Created++
	}

	s.log.Info("请假已落入排班表",
		zap.String("user_id", req.UserID),
		zap.String("leave_request_id", req.LeaveRequestID),
		zap.Int("updated", resp.Updated),
		zap.Int("created", resp.Created),
	)
	return resp, nil
}

func (s *scheduleService) ListLeaves(ctx context.Context, userID string) ([]dto.LeaveRequestResponse, error) {
	records, err := s.repo.Leave.ListByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	out := make([]dto.LeaveRequestResponse, 0, len(records))
	for i := range records {
		out = append(out, dto.NewLeaveRequestResponse(&records[i]))
	}
	return out, nil
}

func (s *scheduleService) GetSchedule(ctx context.Context, userID string, start, end time.Time) ([]dto.ScheduleEntryResponse, error) {
	start = model.DateOnly(start)
	end = model.DateOnly(end)
	if end.Before(start) {
		return nil, ErrInvalidDateRange
	}

	persisted, err := s.repo.Schedule.ListByUserRange(ctx, userID, start, end)
	if err != nil {
		return nil, err
	}
	byDate := make(map[string]*model.ScheduleEntry, len(persisted))
	for i := range persisted {
		byDate[persisted[i].Date.Format("2006-01-02")] = &persisted[i]
	}

	candidates, err := s.GenerateFromAssignments(ctx, userID, start, end)
	if err != nil {
		return nil, err
	}
	candByDate := make(map[string]*model.ScheduleEntry, len(candidates))
	for i := range candidates {
		candByDate[candidates[i].Date.Format("2006-01-02")] = &candidates[i]
	}

	var out []dto.ScheduleEntryResponse
	for day := start; !day.After(end); day = day.AddDate(0, 0, 1) {
		key := day.Format("2006-01-02")
		if e, ok := byDate[key]; ok {
			out = append(out, dto.NewScheduleEntryResponse(e, true))
			continue
		}
		if e, ok := candByDate[key]; ok {
			out = append(out, dto.NewScheduleEntryResponse(e, false))
			continue
		}
		// 既无落库条目也无推算结果，当日休息
		out = append(out, dto.ScheduleEntryResponse{
			Date:   key,
			UserID: userID,
			Status: model.ScheduleStatusOff,
		})
	}
	return out, nil
}

func (s *scheduleService) GetEffectiveShift(ctx context.Context, userID string, date time.Time) (*dto.EffectiveShiftResponse, error) {
	eff, err := s.resolver.Resolve(ctx, userID, date)
	if err != nil {
		return nil, err
	}
	resp := &dto.EffectiveShiftResponse{
		Date:   model.DateOnly(date).Format("2006-01-02"),
		Source: "none",
	}
	if eff != nil {
		resp.Source = eff.Source
		resp.Shift = dto.NewShiftResponse(eff.Shift)
		resp.ShiftName = eff.Shift.Name
	}
	return resp, nil
}
