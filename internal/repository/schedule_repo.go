package repository

import (
	"context"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/hieu182603/SmartAttendance-sub004/internal/model"
)

// ScheduleRepository 排班表仓储接口
type ScheduleRepository interface {
	// UpsertEntries 按 (user_id, date) 插入或更新；已关联请假的行不被覆盖
	UpsertEntries(ctx context.Context, entries []model.ScheduleEntry) error
	CreateEntry(ctx context.Context, e *model.ScheduleEntry) error
	GetByUserDate(ctx context.Context, userID string, date time.Time) (*model.ScheduleEntry, error)
	ListByUserRange(ctx context.Context, userID string, start, end time.Time) ([]model.ScheduleEntry, error)
	// MarkLeave 将某日条目标记为休，无条件覆盖（请假优先级最高），返回受影响行数
	MarkLeave(ctx context.Context, userID string, date time.Time, notes, leaveRequestID string) (int64, error)
	// DistinctUserIDsByShift 指定班次下今天起有未关联请假排班的员工
	DistinctUserIDsByShift(ctx context.Context, shiftID string, from time.Time, statuses []string) ([]string, error)
	// UpdateShiftSnapshot 批量刷新指定班次未来排班的冗余快照字段，返回受影响行数
	UpdateShiftSnapshot(ctx context.Context, shiftID string, from time.Time, name, startTime, endTime string) (int64, error)
}

type scheduleRepository struct {
	db *gorm.DB
}

// NewScheduleRepository 创建排班表仓储
func NewScheduleRepository(db *gorm.DB) ScheduleRepository {
	return &scheduleRepository{db: db}
}

func (r *scheduleRepository) UpsertEntries(ctx context.Context, entries []model.ScheduleEntry) error {
	if len(entries) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "user_id"}, {Name: "date"}},
			DoUpdates: clause.AssignmentColumns([]string{
				"shift_id", "shift_name", "start_time", "end_time", "status", "notes", "updated_at",
			}),
			Where: clause.Where{Exprs: []clause.Expression{
				clause.Expr{SQL: "schedule_entries.leave_request_id IS NULL"},
			}},
		}).
		Create(&entries).Error
}

func (r *scheduleRepository) CreateEntry(ctx context.Context, e *model.ScheduleEntry) error {
	return r.db.WithContext(ctx).Create(e).Error
}

func (r *scheduleRepository) GetByUserDate(ctx context.Context, userID string, date time.Time) (*model.ScheduleEntry, error) {
	var e model.ScheduleEntry
	err := r.db.WithContext(ctx).
		First(&e, "user_id = ? AND date = ?", userID, model.DateOnly(date)).Error
	if err != nil {
		return nil, err
	}
	return &e, nil
}

func (r *scheduleRepository) ListByUserRange(ctx context.Context, userID string, start, end time.Time) ([]model.ScheduleEntry, error) {
	var list []model.ScheduleEntry
	err := r.db.WithContext(ctx).
		Where("user_id = ? AND date >= ? AND date <= ?",
			userID, model.DateOnly(start), model.DateOnly(end)).
		Order("date ASC").
		Find(&list).Error
	if err != nil {
		return nil, err
	}
	return list, nil
}

func (r *scheduleRepository) MarkLeave(ctx context.Context, userID string, date time.Time, notes, leaveRequestID string) (int64, error) {
	result := r.db.WithContext(ctx).
		Model(&model.ScheduleEntry{}).
		Where("user_id = ? AND date = ?", userID, model.DateOnly(date)).
		Updates(map[string]interface{}{
			"status":           model.ScheduleStatusOff,
			"notes":            notes,
			"leave_request_id": leaveRequestID,
		})
	return result.RowsAffected, result.Error
}

func (r *scheduleRepository) DistinctUserIDsByShift(ctx context.Context, shiftID string, from time.Time, statuses []string) ([]string, error) {
	var ids []string
	err := r.db.WithContext(ctx).
		Model(&model.ScheduleEntry{}).
		Distinct("user_id").
		Where("shift_id = ? AND date >= ? AND status IN ? AND leave_request_id IS NULL",
			shiftID, model.DateOnly(from), statuses).
		Pluck("user_id", &ids).Error
	if err != nil {
		return nil, err
	}
	return ids, nil
}

func (r *scheduleRepository) UpdateShiftSnapshot(ctx context.Context, shiftID string, from time.Time, name, startTime, endTime string) (int64, error) {
	result := r.db.WithContext(ctx).
		Model(&model.ScheduleEntry{}).
		Where("shift_id = ? AND date >= ? AND status IN ? AND leave_request_id IS NULL",
			shiftID, model.DateOnly(from),
			[]string{model.ScheduleStatusScheduled, model.ScheduleStatusCompleted}).
		Updates(map[string]interface{}{
			"shift_name": name,
			"start_time": startTime,
			"end_time":   endTime,
		})
	return result.RowsAffected, result.Error
}
