package model

import (
	"strconv"
	"strings"
)

// Shift 班次定义
// 上下班时间以 "HH:mm" 字符串存储，跨夜班次 end < start
type Shift struct {
	ShiftID       string `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"shift_id"`
	Name          string `gorm:"type:varchar(100);not null;uniqueIndex" json:"name"`
	StartTime     string `gorm:"type:varchar(5);not null" json:"start_time"`
	EndTime       string `gorm:"type:varchar(5);not null" json:"end_time"`
	BreakDuration int    `gorm:"not null;default:0" json:"break_duration"` // 休息时长（分钟）
	IsFlexible    bool   `gorm:"not null;default:false" json:"is_flexible"`
	Description   string `gorm:"type:text;not null;default:''" json:"description"`
	IsActive      bool   `gorm:"not null;default:true" json:"is_active"`
	VersionedModel
}

// TableName 指定表名
func (Shift) TableName() string {
	return "shifts"
}

// TotalHours 计算净工作时长（小时），跨夜班次按次日结束计算
func (s *Shift) TotalHours() float64 {
	start, okStart := parseClock(s.StartTime)
	end, okEnd := parseClock(s.EndTime)
	if !okStart || !okEnd {
		return 0
	}
	minutes := end - start
	if minutes <= 0 {
		minutes += 24 * 60 // 跨夜
	}
	minutes -= s.BreakDuration
	if minutes < 0 {
		minutes = 0
	}
	return float64(minutes) / 60
}

// parseClock 解析 "HH:mm" 为当日分钟偏移
func parseClock(v string) (int, bool) {
	parts := strings.SplitN(v, ":", 2)
	if len(parts) != 2 {
		return 0, false
	}
	h, err1 := strconv.Atoi(parts[0])
	m, err2 := strconv.Atoi(parts[1])
	if err1 != nil || err2 != nil || h < 0 || h > 23 || m < 0 || m > 59 {
		return 0, false
	}
	return h*60 + m, true
}

// ValidClock 校验 "HH:mm" 格式
func ValidClock(v string) bool {
	_, ok := parseClock(v)
	return ok
}
