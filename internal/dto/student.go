package dto

// ── 学生查询 DTO ──

// StudentSearchRequest 学生列表查询参数，全部可选
type StudentSearchRequest struct {
	CURP      string `form:"curp"       binding:"omitempty,max=18"`
	Name      string `form:"name"       binding:"omitempty,max=150"`
	ProgramID int64  `form:"program_id" binding:"omitempty,min=1"`
	GroupID   int64  `form:"group_id"   binding:"omitempty,min=1"`
}

// StudentResponse 学生信息响应
type StudentResponse struct {
	ID          int64  `json:"id"`
	CURP        string `json:"curp"`
	Name        string `json:"name"`
	ProgramID   int64  `json:"program_id"`
	ProgramName string `json:"program_name"`
	GroupID     int64  `json:"group_id"`
	GroupName   string `json:"group_name"`
	CampusID    int64  `json:"campus_id"`
	CampusName  string `json:"campus_name"`
}
