package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// ErrorResponse 通用错误响应结构
type ErrorResponse struct {
	Error   string   `json:"error"`
	Details string   `json:"details,omitempty"`
	Missing []string `json:"missing,omitempty"`
}

// Error 错误响应
func Error(c *gin.Context, code int, message string) {
	c.JSON(code, ErrorResponse{Error: message})
}

// BadRequest 400 错误响应
func BadRequest(c *gin.Context, message string) {
	Error(c, http.StatusBadRequest, message)
}

// InvalidInput 400 错误响应，附带缺失字段与详情
func InvalidInput(c *gin.Context, err *InvalidInputError) {
	c.JSON(http.StatusBadRequest, ErrorResponse{
		Error:   err.Message,
		Details: err.Details,
		Missing: err.Missing,
	})
}

// Forbidden 403 错误响应
func Forbidden(c *gin.Context, message string) {
	Error(c, http.StatusForbidden, message)
}

// NotFound 404 错误响应
func NotFound(c *gin.Context, message string) {
	Error(c, http.StatusNotFound, message)
}

// Conflict 409 错误响应
func Conflict(c *gin.Context, message string) {
	Error(c, http.StatusConflict, message)
}

// InternalError 500 错误响应，details 是否回显由配置决定
func InternalError(c *gin.Context, message string, err error) {
	c.JSON(http.StatusInternalServerError, ErrorResponse{
		Error:   message,
		Details: SafeErrorMessage(err, ""),
	})
}
