package api

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/mautops/testimonial-gin/internal/service"
	"github.com/mautops/testimonial-gin/internal/utils"
)

// APIError API 错误
type APIError struct {
	Code    int
	Message string
	Detail  string
}

func (e *APIError) Error() string {
	return e.Message
}

// ErrorHandlerMiddleware 错误处理中间件
func ErrorHandlerMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if len(c.Errors) == 0 || c.Writer.Written() {
			return
		}

		err := c.Errors.Last().Err
		var apiErr *APIError
		if errors.As(err, &apiErr) {
			Error(c, apiErr.Code, apiErr.Message, apiErr.Detail)
			return
		}
		Error(c, http.StatusInternalServerError, "internal server error", "")
	}
}

// WrapError 包装错误
func WrapError(err error, code int, message string) *APIError {
	return &APIError{
		Code:    code,
		Message: message,
		Detail:  err.Error(),
	}
}

// StatusForKind 错误分类对应的 HTTP 状态码
func StatusForKind(kind utils.ErrorKind) int {
	switch kind {
	case utils.KindNotFound:
		return http.StatusNotFound
	case utils.KindStoreFailure:
		return http.StatusInternalServerError
	default:
		return http.StatusBadRequest
	}
}

// MutationError 将服务层错误转换为 API 错误, 消息不包含内部错误
func MutationError(err error) *APIError {
	kind := service.KindOf(err)
	message := "Something went wrong while saving the testimonial."
	var mErr *service.MutationError
	if errors.As(err, &mErr) {
		message = mErr.Message
	}
	return &APIError{
		Code:    StatusForKind(kind),
		Message: message,
		Detail:  string(kind),
	}
}
