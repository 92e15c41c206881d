package model

// GradeEntry 成绩记录表，对应 grade_entries
//
// StudentName / StudentCURP / CourseName 为写入时的快照，学生或课程后续变更不会回写。
// (student_id, course_id, term) 不唯一，重复提交并存。
type GradeEntry struct {
	GradeID     int64   `gorm:"primaryKey;autoIncrement"          json:"id"`
	StudentID   int64   `gorm:"not null;index"                    json:"student_id"`
	StudentName string  `gorm:"type:varchar(150);not null"        json:"student_name"`
	StudentCURP string  `gorm:"type:varchar(18);not null;index"   json:"student_curp"`
	CourseID    int64   `gorm:"not null"                          json:"course_id"`
	CourseName  string  `gorm:"type:varchar(150);not null"        json:"course_name"`
	Term        int     `gorm:"type:smallint;not null"            json:"term"`
	Score       float64 `gorm:"type:numeric(5,2);not null"        json:"score"`
	BaseModel
}

// TableName 指定表名
func (GradeEntry) TableName() string { return "grade_entries" }

// GradePatch 成绩记录的部分更新，nil 字段保持原值
type GradePatch struct {
	StudentID   *int64
	StudentName *string
	StudentCURP *string
	CourseID    *int64
	CourseName  *string
	Term        *int
	Score       *float64
}

// Apply 将非 nil 字段合并到 entry
func (p GradePatch) Apply(entry *GradeEntry) {
	if p.StudentID != nil {
		entry.StudentID = *p.StudentID
	}
	if p.StudentName != nil {
		entry.StudentName = *p.StudentName
	}
	if p.StudentCURP != nil {
		entry.StudentCURP = *p.StudentCURP
	}
	if p.CourseID != nil {
		entry.CourseID = *p.CourseID
	}
	if p.CourseName != nil {
		entry.CourseName = *p.CourseName
	}
	if p.Term != nil {
		entry.Term = *p.Term
	}
	if p.Score != nil {
		entry.Score = *p.Score
	}
}
