package api

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/mautops/testimonial-gin/internal/service"
)

const (
	requestIDKey    = "request_id"
	requestIDHeader = "X-Request-ID"
	actorHeader     = "X-Actor"
)

// RequestIDMiddleware 生成或透传请求 ID, 并写入 request context
func RequestIDMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		requestID := c.GetHeader(requestIDHeader)
		if requestID == "" {
			requestID = uuid.New().String()
		}

		c.Set(requestIDKey, requestID)
		c.Header(requestIDHeader, requestID)
		c.Request = c.Request.WithContext(
			service.WithRequestInfo(c.Request.Context(), requestID, c.ClientIP(), c.GetHeader(actorHeader)),
		)

		c.Next()
	}
}
