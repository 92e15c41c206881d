package dto

// ── 成绩模块 DTO ──

// RegisterGradeRequest 手工登记成绩请求
type RegisterGradeRequest struct {
	CURP     string   `json:"curp"      binding:"required,curp"`
	CourseID int64    `json:"course_id" binding:"required,min=1"`
	Term     int      `json:"term"      binding:"required,min=1"`
	Score    *float64 `json:"score"     binding:"required,min=0,max=100"`
}

// UpdateGradeRequest 部分更新成绩请求，未提供的字段保持原值
type UpdateGradeRequest struct {
	CourseID   *int64   `json:"course_id"   binding:"omitempty,min=1"`
	CourseName *string  `json:"course_name" binding:"omitempty,min=1,max=150"`
	Term       *int     `json:"term"        binding:"omitempty,min=1"`
	Score      *float64 `json:"score"       binding:"omitempty,min=0,max=100"`
}

// GradeResponse 成绩记录响应
type GradeResponse struct {
	ID          int64   `json:"id"`
	StudentID   int64   `json:"student_id"`
	StudentName string  `json:"student_name"`
	StudentCURP string  `json:"student_curp"`
	CourseID    int64   `json:"course_id"`
	CourseName  string  `json:"course_name"`
	Term        int     `json:"term"`
	Score       float64 `json:"score"`
	Level       string  `json:"level"` // high | mid | low
	CreatedAt   string  `json:"created_at"`
}
