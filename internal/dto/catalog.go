package dto

// ── 目录（专业 / 课程 / 班级 / 校区）DTO ──

// CourseResponse 课程响应
type CourseResponse struct {
	ID       int64  `json:"id"`
	Code     string `json:"code"`
	Name     string `json:"name"`
	Position int    `json:"position"`
}

// ProgramResponse 专业响应（含有序课程列表）
type ProgramResponse struct {
	ID       int64            `json:"id"`
	Name     string           `json:"name"`
	RVOE     string           `json:"rvoe,omitempty"`
	RVOEDate string           `json:"rvoe_date,omitempty"`
	Courses  []CourseResponse `json:"courses"`
}

// CreateCourseRequest 新增课程请求；ID 为空时自动分配
type CreateCourseRequest struct {
	ID   int64  `json:"id"   binding:"omitempty,min=1"`
	Code string `json:"code" binding:"required,min=1,max=20"`
	Name string `json:"name" binding:"required,min=1,max=150"`
}

// UpdateCourseRequest 更新课程请求
type UpdateCourseRequest struct {
	Code *string `json:"code" binding:"omitempty,min=1,max=20"`
	Name *string `json:"name" binding:"omitempty,min=1,max=150"`
}

// GroupListRequest 班级列表查询参数
type GroupListRequest struct {
	ProgramID int64 `form:"program_id" binding:"omitempty,min=1"`
}

// GroupResponse 班级响应
type GroupResponse struct {
	ID        int64  `json:"id"`
	Code      string `json:"code"`
	Name      string `json:"name"`
	ProgramID int64  `json:"program_id"`
	CampusID  int64  `json:"campus_id"`
}

// CampusResponse 校区响应
type CampusResponse struct {
	ID      int64  `json:"id"`
	Name    string `json:"name"`
	Address string `json:"address,omitempty"`
}
