package middleware

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/anudeepvarma123/TalentTrack/internal/logger"
)

const (
	RequestIDHeader = "X-Request-ID"
	requestIDKey    = "request_id"
)

// RequestLogger stamps every request with an id and writes one log line when
// it completes. Server errors are logged at ERROR.
func RequestLogger(log *logger.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()

		reqID := c.GetHeader(RequestIDHeader)
		if reqID == "" {
			reqID = uuid.NewString()
		}
		c.Set(requestIDKey, reqID)
		c.Header(RequestIDHeader, reqID)

		c.Next()

		reqLog := RequestLog(c, log)
		status := c.Writer.Status()
		entry := logger.Entry{
			Action:  "http_request",
			Message: c.Request.Method + " " + c.FullPath(),
			Additional: map[string]any{
				"method":     c.Request.Method,
				"path":       c.Request.URL.Path,
				"status":     status,
				"latency_ms": time.Since(start).Milliseconds(),
				"client_ip":  c.ClientIP(),
			},
		}
		if len(c.Errors) > 0 {
			entry.Error = &logger.ErrObj{Msg: c.Errors.String()}
		}

		switch {
		case status >= 500:
			reqLog.Error(entry)
		case status >= 400:
			reqLog.Warn(entry)
		default:
			reqLog.Info(entry)
		}
	}
}

// RequestID returns the id assigned by RequestLogger.
func RequestID(c *gin.Context) string {
	return c.GetString(requestIDKey)
}

// RequestLog scopes log to the request id and, once authenticated, the
// caller's user_id.
func RequestLog(c *gin.Context, log *logger.Logger) *logger.ContextLogger {
	var userID string
	if id, ok := IdentityFrom(c); ok {
		userID = id.UserID
	}
	return log.WithRequest(RequestID(c), userID)
}
