package handler

import (
	"errors"

	"github.com/gin-gonic/gin"

	"kardex/internal/dto"
	"kardex/internal/service"
	"kardex/pkg/response"
)

// CatalogHandler 参考目录 HTTP 处理器
type CatalogHandler struct {
	catalogSvc service.CatalogService
}

// NewCatalogHandler 创建 CatalogHandler
func NewCatalogHandler(catalogSvc service.CatalogService) *CatalogHandler {
	return &CatalogHandler{catalogSvc: catalogSvc}
}

// ListPrograms 专业列表（含有序课程）
// GET /api/v1/programs
func (h *CatalogHandler) ListPrograms(c *gin.Context) {
	programs, err := h.catalogSvc.ListPrograms(c.Request.Context())
	if err != nil {
		response.InternalError(c)
		return
	}

	response.List(c, programs, len(programs))
}

// GetProgram 专业详情
// GET /api/v1/programs/:id
func (h *CatalogHandler) GetProgram(c *gin.Context) {
	id, ok := mustParseID(c, "id")
	if !ok {
		return
	}

	program, err := h.catalogSvc.GetProgram(c.Request.Context(), id)
	if err != nil {
		handleCatalogError(c, err)
		return
	}

	response.OK(c, program)
}

// AddCourse 专业内新增课程
// POST /api/v1/programs/:id/courses
func (h *CatalogHandler) AddCourse(c *gin.Context) {
	programID, ok := mustParseID(c, "id")
	if !ok {
		return
	}

	var req dto.CreateCourseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	course, err := h.catalogSvc.AddCourse(c.Request.Context(), programID, &req)
	if err != nil {
		handleCatalogError(c, err)
		return
	}

	response.Created(c, course)
}

// UpdateCourse 更新课程
// PUT /api/v1/programs/:id/courses/:course_id
func (h *CatalogHandler) UpdateCourse(c *gin.Context) {
	programID, ok := mustParseID(c, "id")
	if !ok {
		return
	}
	courseID, ok := mustParseID(c, "course_id")
	if !ok {
		return
	}

	var req dto.UpdateCourseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	course, err := h.catalogSvc.UpdateCourse(c.Request.Context(), programID, courseID, &req)
	if err != nil {
		handleCatalogError(c, err)
		return
	}

	response.OK(c, course)
}

// RemoveCourse 删除课程
// DELETE /api/v1/programs/:id/courses/:course_id
func (h *CatalogHandler) RemoveCourse(c *gin.Context) {
	programID, ok := mustParseID(c, "id")
	if !ok {
		return
	}
	courseID, ok := mustParseID(c, "course_id")
	if !ok {
		return
	}

	if err := h.catalogSvc.RemoveCourse(c.Request.Context(), programID, courseID); err != nil {
		handleCatalogError(c, err)
		return
	}

	response.OK(c, nil)
}

// ListGroups 班级列表
// GET /api/v1/groups?program_id=
func (h *CatalogHandler) ListGroups(c *gin.Context) {
	var req dto.GroupListRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	groups, err := h.catalogSvc.ListGroups(c.Request.Context(), &req)
	if err != nil {
		response.InternalError(c)
		return
	}

	response.List(c, groups, len(groups))
}

// ListCampuses 校区列表
// GET /api/v1/campuses
func (h *CatalogHandler) ListCampuses(c *gin.Context) {
	campuses, err := h.catalogSvc.ListCampuses(c.Request.Context())
	if err != nil {
		response.InternalError(c)
		return
	}

	response.List(c, campuses, len(campuses))
}

func handleCatalogError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrProgramNotFound):
		response.NotFound(c, 24001, "专业不存在")
	case errors.Is(err, service.ErrCourseNotFound):
		response.NotFound(c, 24002, "课程不存在")
	case errors.Is(err, service.ErrCourseIDExists):
		response.Conflict(c, 24003, "课程ID在该专业内已存在")
	default:
		response.InternalError(c)
	}
}
