package handler

import (
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"

	"kardex/internal/service"
	"kardex/pkg/response"
)

// RegisterValidators 注册自定义 binding 标签
//   - curp: 规范化后符合 CURP 结构
func RegisterValidators() error {
	v, ok := binding.Validator.Engine().(*validator.Validate)
	if !ok {
		return nil
	}
	return v.RegisterValidation("curp", func(fl validator.FieldLevel) bool {
		return service.ValidCURP(fl.Field().String())
	})
}

// mustParseID 解析路径中的正整数 ID，失败时写入 400 响应
// 调用方应在 ok=false 时直接 return
func mustParseID(c *gin.Context, name string) (int64, bool) {
	id, err := strconv.ParseInt(c.Param(name), 10, 64)
	if err != nil || id <= 0 {
		response.BadRequest(c, 10001, name+" 无效")
		return 0, false
	}
	return id, true
}
