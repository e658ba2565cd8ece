package model

// Branch 网点/分支机构
type Branch struct {
	BranchID string `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"branch_id"`
	Name     string `gorm:"type:varchar(100);not null;uniqueIndex" json:"name"`
	Address  string `gorm:"type:text;not null;default:''" json:"address"`
	BaseModel
}

// TableName 指定表名
func (Branch) TableName() string {
	return "branches"
}
