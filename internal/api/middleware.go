package api

import (
	"time"
	"trip-wizard-service/internal/platform/obs"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

const requestIDHeader = "X-Request-ID"

// requestID tags every request with an id, reusing the caller's when sent,
// and threads it through the request context for obs.Time.
func requestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader(requestIDHeader)
		if id == "" {
			id = uuid.NewString()
		}

		c.Header(requestIDHeader, id)
		c.Request = c.Request.WithContext(obs.WithRequestID(c.Request.Context(), id))
		c.Next()
	}
}

// accessLog logs end-to-end request duration and response size.
func accessLog() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()

		c.Next()

		reqID, _ := c.Request.Context().Value(obs.RequestIDKey).(string)
		entry := logrus.WithFields(logrus.Fields{
			"req_id": reqID,
			"method": c.Request.Method,
			"path":   c.Request.URL.RequestURI(),
			"status": c.Writer.Status(),
			"bytes":  c.Writer.Size(),
			"dur_ms": time.Since(start).Milliseconds(),
		})

		if len(c.Errors) > 0 {
			entry.WithError(c.Errors.Last()).Warn("request failed")
			return
		}
		entry.Info("request")
	}
}
