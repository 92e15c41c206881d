package dto

// ── 成绩报表 DTO ──

// ReportStudent 报表抬头中的学生信息
type ReportStudent struct {
	ID          int64  `json:"id"`
	CURP        string `json:"curp"`
	Name        string `json:"name"`
	ProgramID   int64  `json:"program_id"`
	ProgramName string `json:"program_name"`
}

// ReportCell 报表单元格；Score 为 nil 表示该学期该课程无成绩
type ReportCell struct {
	CourseID   int64    `json:"course_id"`
	CourseCode string   `json:"course_code"`
	CourseName string   `json:"course_name"`
	Score      *float64 `json:"score"`
	Level      string   `json:"level,omitempty"`
}

// ReportTerm 单个学期的全部课程
type ReportTerm struct {
	Term  int          `json:"term"`
	Cells []ReportCell `json:"cells"`
}

// ReportMatrix 学生成绩矩阵（学期 × 课程）
// 学生不存在时 Student 为 nil 且 Terms 为空
type ReportMatrix struct {
	Student *ReportStudent `json:"student"`
	Terms   []ReportTerm   `json:"terms"`
}
