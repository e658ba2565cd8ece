package model

// 角色
const (
	RoleAdmin    = "admin"
	RoleManager  = "manager"
	RoleEmployee = "employee"
)

// User 员工档案
// default_shift_id 为全职默认班次的兜底绑定，与分配记录互斥维护
type User struct {
	UserID         string  `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"user_id"`
	Name           string  `gorm:"type:varchar(100);not null" json:"name"`
	Email          string  `gorm:"type:varchar(255);not null;uniqueIndex" json:"email"`
	Phone          string  `gorm:"type:varchar(20);not null;default:''" json:"phone"`
	Role           string  `gorm:"type:varchar(20);not null;default:'employee'" json:"role"`
	DepartmentID   *string `gorm:"type:uuid" json:"department_id"`
	BranchID       *string `gorm:"type:uuid" json:"branch_id"`
	DefaultShiftID *string `gorm:"type:uuid" json:"default_shift_id"`
	IsActive       bool    `gorm:"not null;default:true" json:"is_active"`
	VersionedModel

	Department   *Department `gorm:"foreignKey:DepartmentID" json:"department,omitempty"`
	Branch       *Branch     `gorm:"foreignKey:BranchID" json:"branch,omitempty"`
	DefaultShift *Shift      `gorm:"foreignKey:DefaultShiftID" json:"default_shift,omitempty"`
}

// TableName 指定表名
func (User) TableName() string {
	return "users"
}
