package handler

import (
	"errors"

	"github.com/gin-gonic/gin"

	"kardex/internal/dto"
	"kardex/internal/service"
	"kardex/pkg/response"
)

// StudentHandler 学生查询 HTTP 处理器
type StudentHandler struct {
	studentSvc service.StudentService
}

// NewStudentHandler 创建 StudentHandler
func NewStudentHandler(studentSvc service.StudentService) *StudentHandler {
	return &StudentHandler{studentSvc: studentSvc}
}

// ListStudents 学生列表
// GET /api/v1/students?curp=&name=&program_id=&group_id=
func (h *StudentHandler) ListStudents(c *gin.Context) {
	var req dto.StudentSearchRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	students, err := h.studentSvc.Search(c.Request.Context(), &req)
	if err != nil {
		response.InternalError(c)
		return
	}

	response.List(c, students, len(students))
}

// GetStudent 学生详情
// GET /api/v1/students/:curp
func (h *StudentHandler) GetStudent(c *gin.Context) {
	student, err := h.studentSvc.GetByCURP(c.Request.Context(), c.Param("curp"))
	if err != nil {
		handleStudentError(c, err)
		return
	}

	response.OK(c, student)
}

// ListCourses 学生所在专业的课程
// GET /api/v1/students/:curp/courses
func (h *StudentHandler) ListCourses(c *gin.Context) {
	courses, err := h.studentSvc.Courses(c.Request.Context(), c.Param("curp"))
	if err != nil {
		handleStudentError(c, err)
		return
	}

	response.List(c, courses, len(courses))
}

func handleStudentError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrStudentNotFound):
		response.NotFound(c, 20001, "学生不存在")
	default:
		response.InternalError(c)
	}
}
