package model

// Group 班级表，对应 class_groups
type Group struct {
	GroupID   int64  `gorm:"primaryKey;autoIncrement"   json:"group_id"`
	Code      string `gorm:"type:varchar(20);not null"  json:"code"`
	Name      string `gorm:"type:varchar(100);not null" json:"name"`
	ProgramID int64  `gorm:"not null;index"             json:"program_id"`
	CampusID  int64  `gorm:"not null"                   json:"campus_id"`
	BaseModel
}

// TableName 指定表名
func (Group) TableName() string { return "class_groups" }
