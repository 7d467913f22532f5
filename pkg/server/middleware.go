package server

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

// RequestIDHeader carries the request ID in both directions.
const RequestIDHeader = "X-Request-ID"

const requestIDKey = "request_id"

// accessLog tags each request with an ID and logs one line when it completes.
func accessLog(logger *logrus.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()

		rid := c.GetHeader(RequestIDHeader)
		if rid == "" {
			rid = uuid.NewString()
		}
		c.Set(requestIDKey, rid)
		c.Header(RequestIDHeader, rid)

		c.Next()

		entry := logger.WithFields(logrus.Fields{
			"rid":        rid,
			"ip":         c.ClientIP(),
			"method":     c.Request.Method,
			"path":       c.Request.URL.Path,
			"status":     c.Writer.Status(),
			"latency":    time.Since(start).String(),
			"resp_bytes": c.Writer.Size(),
		})

		switch {
		case c.Writer.Status() >= 500:
			entry.Error("HTTP access")
		case c.Writer.Status() >= 400:
			entry.Warn("HTTP access")
		default:
			entry.Info("HTTP access")
		}
	}
}
