package middleware

import (
	"log/slog"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// RequestIDKey is the gin context key for the request ID.
const RequestIDKey = "request_id"

// RequestID reuses the caller's X-Request-ID or generates one, and echoes
// it on the response.
func RequestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader("X-Request-ID")
		if id == "" {
			id = uuid.New().String()
		}
		c.Set(RequestIDKey, id)
		c.Header("X-Request-ID", id)
		c.Next()
	}
}

// Logging logs every request once it has been handled.
func Logging(logger *slog.Logger) gin.HandlerFunc {
	if logger == nil {
		logger = slog.Default()
	}
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		attrs := []any{
			"method", c.Request.Method,
			"path", c.Request.URL.Path,
			"status", c.Writer.Status(),
			"request_id", c.GetString(RequestIDKey),
			"user_id", UserID(c),
			"duration_ms", time.Since(start).Milliseconds(),
		}
		switch status := c.Writer.Status(); {
		case status >= 500:
			logger.Error("Request failed", append(attrs, "error", c.Errors.String())...)
		case status >= 400:
			logger.Warn("Request rejected", append(attrs, "error", c.Errors.String())...)
		default:
			logger.Info("Request ok", attrs...)
		}
	}
}
