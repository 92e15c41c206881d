package handler

import (
	"errors"
	"net/http"
	"net/url"

	"github.com/gin-gonic/gin"

	"kardex/internal/service"
	"kardex/pkg/response"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// ReportHandler 成绩报表 HTTP 处理器
type ReportHandler struct {
	reportSvc service.ReportService
}

// NewReportHandler 创建 ReportHandler
func NewReportHandler(reportSvc service.ReportService) *ReportHandler {
	return &ReportHandler{reportSvc: reportSvc}
}

// GetReport 学生成绩矩阵；学生不存在时返回空矩阵（200）
// GET /api/v1/students/:curp/report
func (h *ReportHandler) GetReport(c *gin.Context) {
	matrix, err := h.reportSvc.BuildByCURP(c.Request.Context(), c.Param("curp"))
	if err != nil {
		response.InternalError(c)
		return
	}

	response.OK(c, matrix)
}

// ExportReport 导出成绩矩阵 Excel
// GET /api/v1/students/:curp/report/export
func (h *ReportHandler) ExportReport(c *gin.Context) {
	buf, filename, err := h.reportSvc.ExportByCURP(c.Request.Context(), c.Param("curp"))
	if err != nil {
		switch {
		case errors.Is(err, service.ErrStudentNotFound):
			response.NotFound(c, 20001, "学生不存在")
		default:
			response.InternalError(c)
		}
		return
	}

	// 设置下载响应头
	encodedFilename := url.QueryEscape(filename)
	c.Header("Content-Description", "File Transfer")
	c.Header("Content-Disposition", "attachment; filename*=UTF-8''"+encodedFilename)
	c.Data(http.StatusOK, xlsxContentType, buf.Bytes())
}
