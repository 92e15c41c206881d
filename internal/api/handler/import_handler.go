package handler

import (
	"errors"
	"io"
	"net/http"
	"path/filepath"
	"strings"

	"github.com/gin-gonic/gin"

	"kardex/internal/dto"
	"kardex/internal/service"
	"kardex/pkg/response"
)

// ImportHandler 成绩批量导入 HTTP 处理器
type ImportHandler struct {
	importSvc service.ImportService
}

// NewImportHandler 创建 ImportHandler
func NewImportHandler(importSvc service.ImportService) *ImportHandler {
	return &ImportHandler{importSvc: importSvc}
}

// Preview 解析并校验导入数据，不落库
// POST /api/v1/grades/import/preview
//
// 支持三种提交方式：
//   - 文件上传: multipart/form-data, field="file"（.csv / .txt / .xlsx）
//   - JSON: {"content": "..."}
//   - 纯文本: text/plain 或 text/csv 请求体
func (h *ImportHandler) Preview(c *gin.Context) {
	ctx := c.Request.Context()

	// 尝试文件上传方式
	file, header, err := c.Request.FormFile("file")
	if err == nil {
		defer file.Close()

		var resp *dto.ImportPreviewResponse
		if strings.EqualFold(filepath.Ext(header.Filename), ".xlsx") {
			resp, err = h.importSvc.PreviewWorkbook(ctx, file)
		} else {
			var raw []byte
			if raw, err = io.ReadAll(file); err != nil {
				response.BadRequest(c, 22005, "读取上传文件失败")
				return
			}
			resp, err = h.importSvc.Preview(ctx, string(raw))
		}
		if err != nil {
			handleImportError(c, err)
			return
		}
		response.OK(c, resp)
		return
	}

	var text string
	if strings.HasPrefix(c.ContentType(), "application/json") {
		var req dto.ImportPreviewRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			response.BadRequest(c, 10001, "参数校验失败")
			return
		}
		text = req.Content
	} else {
		raw, err := io.ReadAll(c.Request.Body)
		if err != nil {
			var tooLarge *http.MaxBytesError
			if errors.As(err, &tooLarge) {
				response.Error(c, http.StatusRequestEntityTooLarge, 10005, "请求体过大")
				return
			}
			response.BadRequest(c, 22005, "读取请求体失败")
			return
		}
		text = string(raw)
	}

	resp, err := h.importSvc.Preview(ctx, text)
	if err != nil {
		handleImportError(c, err)
		return
	}
	response.OK(c, resp)
}

// Confirm 写入预览通过的行
// POST /api/v1/grades/import/confirm
func (h *ImportHandler) Confirm(c *gin.Context) {
	var req dto.ImportConfirmRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	resp, err := h.importSvc.Confirm(c.Request.Context(), &req)
	if err != nil {
		handleImportError(c, err)
		return
	}

	response.Created(c, resp)
}

func handleImportError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrImportEmpty):
		response.BadRequest(c, 22001, "文件为空")
	case errors.Is(err, service.ErrImportTooManyRows):
		response.BadRequest(c, 22002, err.Error())
	case errors.Is(err, service.ErrImportBadWorkbook):
		response.BadRequest(c, 22003, "无法解析 Excel 文件")
	case errors.Is(err, service.ErrNothingToConfirm):
		response.BadRequest(c, 22004, "没有可导入的数据行")
	default:
		response.InternalError(c)
	}
}
