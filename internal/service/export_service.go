package service

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"time"

	ics "github.com/arran4/golang-ical"
	"github.com/google/uuid"
	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/hieu182603/SmartAttendance-sub004/internal/dto"
	"github.com/hieu182603/SmartAttendance-sub004/internal/model"
	"github.com/hieu182603/SmartAttendance-sub004/internal/repository"
)

// ErrInvalidMonth 月份参数无效
var ErrInvalidMonth = errors.New("月份参数无效")

// ExportService 排班表导出
type ExportService interface {
	// MonthlyWorkbook 导出某员工某月排班为 xlsx，返回文件内容与建议文件名
	MonthlyWorkbook(ctx context.Context, userID string, year, month int) (*bytes.Buffer, string, error)
	// CalendarFeed 导出某员工区间排班为 iCalendar 文本
	CalendarFeed(ctx context.Context, userID string, start, end time.Time) (string, error)
}

type exportService struct {
	repo        *repository.Repository
	scheduleSvc ScheduleService
	log         *zap.Logger
}

// NewExportService 创建导出服务
func NewExportService(repo *repository.Repository, scheduleSvc ScheduleService, log *zap.Logger) ExportService {
	return &exportService{repo: repo, scheduleSvc: scheduleSvc, log: log}
}

var weekdayLabels = [7]string{"周日", "周一", "周二", "周三", "周四", "周五", "周六"}

// statusLabel 排班状态展示文案
func statusLabel(status string) string {
	switch status {
	case model.ScheduleStatusScheduled:
		return "已排班"
	case model.ScheduleStatusCompleted:
		return "已完成"
	case model.ScheduleStatusMissed:
		return "缺勤"
	case model.ScheduleStatusOff:
		return "休息"
	}
	return status
}

func (s *exportService) MonthlyWorkbook(ctx context.Context, userID string, year, month int) (*bytes.Buffer, string, error) {
	if month < 1 || month > 12 || year < 2000 || year > 2100 {
		return nil, "", ErrInvalidMonth
	}

	user, err := s.repo.User.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, "", ErrEmployeeNotFound
		}
		return nil, "", err
	}

	start := time.Date(year, time.Month(month), 1, 0, 0, 0, 0, time.Local)
	end := start.AddDate(0, 1, -1)

	entries, err := s.scheduleSvc.GetSchedule(ctx, userID, start, end)
	if err != nil {
		return nil, "", err
	}

	f := excelize.NewFile()
	defer f.Close()
	sheet := f.GetSheetName(0)

	headers := []string{"日期", "星期", "班次", "上班", "下班", "状态", "备注"}
	for i, h := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		f.SetCellValue(sheet, cell, h)
	}
	headerStyle, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true},
		Fill: excelize.Fill{Type: "pattern", Pattern: 1, Color: []string{"DDEBF7"}},
	})
	if err == nil {
		f.SetCellStyle(sheet, "A1", "G1", headerStyle)
	}
	f.SetColWidth(sheet, "A", "A", 12)
	f.SetColWidth(sheet, "C", "C", 16)
	f.SetColWidth(sheet, "G", "G", 24)

	for i, e := range entries {
		row := i + 2
		day, _ := time.ParseInLocation("2006-01-02", e.Date, time.Local)
		values := []interface{}{
			e.Date,
			weekdayLabels[int(day.Weekday())],
			e.ShiftName,
			e.StartTime,
			e.EndTime,
			statusLabel(e.Status),
			e.Notes,
		}
		for col, v := range values {
			cell, _ := excelize.CoordinatesToCellName(col+1, row)
			f.SetCellValue(sheet, cell, v)
		}
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, "", fmt.Errorf("生成 xlsx 失败: %w", err)
	}

	filename := fmt.Sprintf("schedule_%s_%04d-%02d.xlsx", user.Name, year, month)
	s.log.Info("排班表导出完成",
		zap.String("user_id", userID),
		zap.Int("year", year),
		zap.Int("month", month),
		zap.Int("rows", len(entries)),
	)
	return buf, filename, nil
}

func (s *exportService) CalendarFeed(ctx context.Context, userID string, start, end time.Time) (string, error) {
	if _, err := s.repo.User.GetByID(ctx, userID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", ErrEmployeeNotFound
		}
		return "", err
	}

	entries, err := s.scheduleSvc.GetSchedule(ctx, userID, start, end)
	if err != nil {
		return "", err
	}

	cal := ics.NewCalendar()
	cal.SetMethod(ics.MethodPublish)
	cal.SetProductId("-//SmartAttendance//Schedule Export//CN")

	now := time.Now()
	for _, e := range entries {
		if e.Status != model.ScheduleStatusScheduled && e.Status != model.ScheduleStatusCompleted {
			continue
		}
		startAt, endAt, ok := entryEventWindow(e)
		if !ok {
			continue
		}
		event := cal.AddEvent(uuid.NewString())
		event.SetCreatedTime(now)
		event.SetDtStampTime(now)
		event.SetStartAt(startAt)
		event.SetEndAt(endAt)
		event.SetSummary(e.ShiftName)
		if e.Notes != "" {
			event.SetDescription(e.Notes)
		}
	}

	return cal.Serialize(), nil
}

// entryEventWindow 把排班条目的日期与 "HH:mm" 时间组装成事件区间，跨夜顺延到次日
func entryEventWindow(e dto.ScheduleEntryResponse) (time.Time, time.Time, bool) {
	day, err := time.ParseInLocation("2006-01-02", e.Date, time.Local)
	if err != nil {
		return time.Time{}, time.Time{}, false
	}
	startClock, err := time.ParseInLocation("15:04", e.StartTime, time.Local)
	if err != nil {
		return time.Time{}, time.Time{}, false
	}
	endClock, err := time.ParseInLocation("15:04", e.EndTime, time.Local)
	if err != nil {
		return time.Time{}, time.Time{}, false
	}

	startAt := time.Date(day.Year(), day.Month(), day.Day(),
		startClock.Hour(), startClock.Minute(), 0, 0, time.Local)
	endAt := time.Date(day.Year(), day.Month(), day.Day(),
		endClock.Hour(), endClock.Minute(), 0, 0, time.Local)
	if !endAt.After(startAt) {
		endAt = endAt.AddDate(0, 0, 1)
	}
	return startAt, endAt, true
}
