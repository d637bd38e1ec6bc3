package response

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// ErrorInfo 统一错误响应结构
type ErrorInfo struct {
	ErrorMessage string `json:"errorMessage"` // 错误描述
	ErrorCode    int    `json:"errorCode"`    // 业务错误码
	RequestID    string `json:"requestId,omitempty"`
}

// OK 200 响应
func OK(c *gin.Context, data interface{}) {
	c.JSON(http.StatusOK, data)
}

// Created 201 响应
func Created(c *gin.Context, data interface{}) {
	c.JSON(http.StatusCreated, data)
}

// NoContent 204 响应
func NoContent(c *gin.Context) {
	c.Status(http.StatusNoContent)
}

// Error 错误响应，HTTP 状态码与业务错误码分开传入
func Error(c *gin.Context, status int, code int, message string) {
	c.JSON(status, ErrorInfo{
		ErrorMessage: message,
		ErrorCode:    code,
		RequestID:    requestID(c),
	})
}

// BadRequest 400 响应
func BadRequest(c *gin.Context, code int, message string) {
	Error(c, http.StatusBadRequest, code, message)
}

// NotFound 404 响应
func NotFound(c *gin.Context, code int, message string) {
	Error(c, http.StatusNotFound, code, message)
}

// Conflict 409 响应
func Conflict(c *gin.Context, code int, message string) {
	Error(c, http.StatusConflict, code, message)
}

// TooManyRequests 429 响应
func TooManyRequests(c *gin.Context, message string) {
	Error(c, http.StatusTooManyRequests, CodeTooManyRequests, message)
}

// Internal 500 响应
func Internal(c *gin.Context, code int, message string) {
	Error(c, http.StatusInternalServerError, code, message)
}

func requestID(c *gin.Context) string {
	if c == nil {
		return ""
	}
	if value, ok := c.Get("request_id"); ok {
		if id, ok := value.(string); ok {
			return id
		}
	}
	return ""
}
