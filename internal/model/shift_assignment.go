package model

import "time"

// 分配模式
const (
	PatternAll      = "all"      // 每天
	PatternWeekdays = "weekdays" // 周一至周五
	PatternWeekends = "weekends" // 周六周日
	PatternCustom   = "custom"   // 自定义星期集合
	PatternSpecific = "specific" // 指定日期列表
)

// ValidPattern 判断模式取值是否合法
func ValidPattern(p string) bool {
	switch p {
	case PatternAll, PatternWeekdays, PatternWeekends, PatternCustom, PatternSpecific:
		return true
	}
	return false
}

// EmployeeShiftAssignment 员工班次分配
// 生效窗口为闭区间 [effective_from, effective_to]，effective_to 为空表示无限期
type EmployeeShiftAssignment struct {
	AssignmentID  string     `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"assignment_id"`
	UserID        string     `gorm:"type:uuid;not null;index" json:"user_id"`
	ShiftID       string     `gorm:"type:uuid;not null;index" json:"shift_id"`
	Pattern       string     `gorm:"type:varchar(20);not null;default:'all'" json:"pattern"`
	DaysOfWeek    IntArray   `gorm:"type:int[]" json:"days_of_week"`     // 0=周日 … 6=周六，仅 custom 模式使用
	SpecificDates DateArray  `gorm:"type:date[]" json:"specific_dates"`  // 仅 specific 模式使用
	EffectiveFrom time.Time  `gorm:"not null" json:"effective_from"`
	EffectiveTo   *time.Time `json:"effective_to"`
	Priority      int        `gorm:"not null;default:1" json:"priority"` // 数值越小越优先
	Notes         string     `gorm:"type:text;not null;default:''" json:"notes"`
	IsActive      bool       `gorm:"not null;default:true" json:"is_active"`
	CreatedBy     *string    `gorm:"type:uuid" json:"created_by"`
	VersionedModel

	User  *User  `gorm:"foreignKey:UserID" json:"user,omitempty"`
	Shift *Shift `gorm:"foreignKey:ShiftID" json:"shift,omitempty"`
}

// TableName 指定表名
func (EmployeeShiftAssignment) TableName() string {
	return "employee_shift_assignments"
}

// InWindow 判断日期是否落在生效窗口内（闭区间）
func (a *EmployeeShiftAssignment) InWindow(date time.Time) bool {
	day := DateOnly(date)
	if day.Before(DateOnly(a.EffectiveFrom)) {
		return false
	}
	if a.EffectiveTo != nil && day.After(DateOnly(*a.EffectiveTo)) {
		return false
	}
	return true
}

// MatchesPattern 判断日期是否命中分配模式
func (a *EmployeeShiftAssignment) MatchesPattern(date time.Time) bool {
	wd := int(date.Weekday()) // 0=周日
	switch a.Pattern {
	case PatternAll:
		return true
	case PatternWeekdays:
		return wd >= 1 && wd <= 5
	case PatternWeekends:
		return wd == 0 || wd == 6
	case PatternCustom:
		for _, d := range a.DaysOfWeek {
			if d == wd {
				return true
			}
		}
		return false
	case PatternSpecific:
		day := DateOnly(date)
		for _, d := range a.SpecificDates {
			if DateOnly(d).Equal(day) {
				return true
			}
		}
		return false
	}
	return false
}

// EffectiveOn 判断分配在指定日期是否生效（窗口 + 模式）
func (a *EmployeeShiftAssignment) EffectiveOn(date time.Time) bool {
	return a.InWindow(date) && a.MatchesPattern(date)
}
