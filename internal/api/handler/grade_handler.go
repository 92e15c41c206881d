package handler

import (
	"errors"

	"github.com/gin-gonic/gin"

	"kardex/internal/dto"
	"kardex/internal/model"
	"kardex/internal/service"
	"kardex/pkg/response"
)

// GradeHandler 成绩模块 HTTP 处理器
type GradeHandler struct {
	gradeSvc service.GradeService
}

// NewGradeHandler 创建 GradeHandler
func NewGradeHandler(gradeSvc service.GradeService) *GradeHandler {
	return &GradeHandler{gradeSvc: gradeSvc}
}

// ListByStudent 学生全部成绩记录（写入顺序）
// GET /api/v1/students/:curp/grades
func (h *GradeHandler) ListByStudent(c *gin.Context) {
	entries, err := h.gradeSvc.FindByStudentCURP(c.Request.Context(), c.Param("curp"))
	if err != nil {
		response.InternalError(c)
		return
	}

	list := make([]dto.GradeResponse, 0, len(entries))
	for i := range entries {
		list = append(list, service.ToGradeResponse(&entries[i]))
	}
	response.List(c, list, len(list))
}

// RegisterGrade 手工登记成绩
// POST /api/v1/grades
func (h *GradeHandler) RegisterGrade(c *gin.Context) {
	var req dto.RegisterGradeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	grade, err := h.gradeSvc.Register(c.Request.Context(), &req)
	if err != nil {
		handleGradeError(c, err)
		return
	}

	response.Created(c, grade)
}

// UpdateGrade 部分更新成绩
// PUT /api/v1/grades/:id
func (h *GradeHandler) UpdateGrade(c *gin.Context) {
	id, ok := mustParseID(c, "id")
	if !ok {
		return
	}

	var req dto.UpdateGradeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	entry, err := h.gradeSvc.Update(c.Request.Context(), id, model.GradePatch{
		CourseID:   req.CourseID,
		CourseName: req.CourseName,
		Term:       req.Term,
		Score:      req.Score,
	})
	if err != nil {
		handleGradeError(c, err)
		return
	}

	response.OK(c, service.ToGradeResponse(entry))
}

// DeleteGrade 删除成绩
// DELETE /api/v1/grades/:id
func (h *GradeHandler) DeleteGrade(c *gin.Context) {
	id, ok := mustParseID(c, "id")
	if !ok {
		return
	}

	deleted, err := h.gradeSvc.Delete(c.Request.Context(), id)
	if err != nil {
		response.InternalError(c)
		return
	}
	if !deleted {
		response.NotFound(c, 21001, "成绩记录不存在")
		return
	}

	response.OK(c, nil)
}

func handleGradeError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrGradeNotFound):
		response.NotFound(c, 21001, "成绩记录不存在")
	case errors.Is(err, service.ErrStudentNotFound):
		response.NotFound(c, 20001, "学生不存在")
	case errors.Is(err, service.ErrProgramNotFound):
		response.UnprocessableEntity(c, 21002, "学生所在专业不存在")
	case errors.Is(err, service.ErrCourseNotInProgram):
		response.UnprocessableEntity(c, 21003, "该课程不属于学生所在专业")
	default:
		response.InternalError(c)
	}
}
