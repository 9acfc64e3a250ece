package middleware

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/oklog/ulid/v2"
	"github.com/sirupsen/logrus"
	"github.com/yukikurage/agiliza-api/internal/constants"
)

const requestIDHeader = "X-Request-ID"

// RequestLogger assigns every request an ID and logs it once it completes.
func RequestLogger(logger *logrus.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()

		requestID := c.GetHeader(requestIDHeader)
		if requestID == "" {
			requestID = ulid.Make().String()
		}
		c.Set(constants.ContextKeyRequestID, requestID)
		c.Header(requestIDHeader, requestID)

		c.Next()

		status := c.Writer.Status()
		entry := logger.WithFields(logrus.Fields{
			"request_id": requestID,
			"method":     c.Request.Method,
			"uri":        c.Request.URL.Path,
			"status":     status,
			"latency":    time.Since(start),
			"user_agent": c.Request.UserAgent(),
			"ip":         c.ClientIP(),
		})
		if userID, ok := GetUserID(c); ok {
			entry = entry.WithField("user_id", userID)
		}
		if len(c.Errors) > 0 {
			entry = entry.WithField("error", c.Errors.String())
		}

		switch {
		case status >= 500:
			entry.Error("Server error")
		case status >= 400:
			entry.Warn("Client error")
		default:
			entry.Info("Request processed")
		}
	}
}
