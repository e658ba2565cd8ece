package model

import (
	"database/sql/driver"
	"fmt"
	"strconv"
	"strings"
	"time"
)

// BaseModel 公共时间戳字段
type BaseModel struct {
	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

// VersionedModel 带乐观锁版本号的公共字段
type VersionedModel struct {
	Version   int       `gorm:"not null;default:1" json:"version"`
	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

// IntArray 映射 PostgreSQL int[] 类型
type IntArray []int

// Value 序列化为 {1,2,3} 形式
func (a IntArray) Value() (driver.Value, error) {
	if a == nil {
		return nil, nil
	}
	parts := make([]string, len(a))
	for i, v := range a {
		parts[i] = strconv.Itoa(v)
	}
	return "{" + strings.Join(parts, ",") + "}", nil
}

// Scan 从数据库值反序列化
func (a *IntArray) Scan(value interface{}) error {
	if value == nil {
		*a = nil
		return nil
	}
	var s string
	switch v := value.(type) {
	case string:
		s = v
	case []byte:
		s = string(v)
	default:
		return fmt.Errorf("无法将 %T 扫描为 IntArray", value)
	}
	s = strings.Trim(s, "{}")
	if s == "" {
		*a = IntArray{}
		return nil
	}
	parts := strings.Split(s, ",")
	out := make(IntArray, 0, len(parts))
	for _, p := range parts {
		n, err := strconv.Atoi(strings.TrimSpace(p))
		if err != nil {
			return fmt.Errorf("解析 int[] 元素失败: %w", err)
		}
		out = append(out, n)
	}
	*a = out
	return nil
}

// DateArray 映射 PostgreSQL date[] 类型，元素按本地日期理解
type DateArray []time.Time

const dateLayout = "2006-01-02"

// Value 序列化为 {2024-03-01,2024-03-02} 形式
func (a DateArray) Value() (driver.Value, error) {
	if a == nil {
		return nil, nil
	}
	parts := make([]string, len(a))
	for i, d := range a {
		parts[i] = d.Format(dateLayout)
	}
	return "{" + strings.Join(parts, ",") + "}", nil
}

// Scan 从数据库值反序列化
func (a *DateArray) Scan(value interface{}) error {
	if value == nil {
		*a = nil
		return nil
	}
	var s string
	switch v := value.(type) {
	case string:
		s = v
	case []byte:
		s = string(v)
	default:
		return fmt.Errorf("无法将 %T 扫描为 DateArray", value)
	}
	s = strings.Trim(s, "{}")
	if s == "" {
		*a = DateArray{}
		return nil
	}
	parts := strings.Split(s, ",")
	out := make(DateArray, 0, len(parts))
	for _, p := range parts {
		d, err := time.ParseInLocation(dateLayout, strings.Trim(strings.TrimSpace(p), `"`), time.Local)
		if err != nil {
			return fmt.Errorf("解析 date[] 元素失败: %w", err)
		}
		out = append(out, d)
	}
	*a = out
	return nil
}

// DateOnly 截断到当日零点，保留时区
func DateOnly(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

// EndOfDay 当日 23:59:59
func EndOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 23, 59, 59, 0, t.Location())
}
