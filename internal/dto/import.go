package dto

// ── 批量导入 DTO ──

// ImportPreviewRequest 文本方式预览请求（JSON）
type ImportPreviewRequest struct {
	Content string `json:"content" binding:"required"`
}

// ImportRowResponse 单行解析结果
type ImportRowResponse struct {
	Row      int     `json:"row"` // 源文本行号（从 1 开始）
	CURP     string  `json:"curp"`
	CourseID int64   `json:"course_id"`
	Term     int     `json:"term"`
	Score    float64 `json:"score"`
	Error    string  `json:"error,omitempty"`
}

// ImportPreviewResponse 预览响应：rows 保持原始顺序，valid/invalid 为派生计数
type ImportPreviewResponse struct {
	Total   int                 `json:"total"`
	Valid   int                 `json:"valid"`
	Invalid int                 `json:"invalid"`
	Rows    []ImportRowResponse `json:"rows"`
}

// ImportConfirmRow 确认导入的单行（服务端会重新校验，不合法的行跳过并记入 errors）
type ImportConfirmRow struct {
	Row      int     `json:"row"`
	CURP     string  `json:"curp"`
	CourseID int64   `json:"course_id"`
	Term     int     `json:"term"`
	Score    float64 `json:"score"`
}

// ImportConfirmRequest 确认导入请求
type ImportConfirmRequest struct {
	Rows []ImportConfirmRow `json:"rows" binding:"required"`
}

// ImportRowError 行级错误
type ImportRowError struct {
	Row    int    `json:"row"`
	Reason string `json:"reason"`
}

// ImportConfirmResponse 确认导入响应
type ImportConfirmResponse struct {
	Imported int              `json:"imported"`
	Skipped  int              `json:"skipped"`
	Grades   []GradeResponse  `json:"grades"`
	Errors   []ImportRowError `json:"errors,omitempty"`
}
