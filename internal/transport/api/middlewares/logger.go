package middlewares

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

const RequestIDHeader = "X-Request-ID"

// Logger логирует каждый запрос. Если клиент не прислал X-Request-ID, генерируется новый; в обоих
// случаях он возвращается в ответе.
func Logger(l *logrus.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()

		requestID := c.GetHeader(RequestIDHeader)
		if requestID == "" {
			requestID = uuid.NewString()
		}
		c.Header(RequestIDHeader, requestID)

		c.Next()

		entry := l.WithFields(logrus.Fields{
			"request_id": requestID,
			"method":     c.Request.Method,
			"path":       c.Request.URL.Path,
			"status":     c.Writer.Status(),
			"latency":    time.Since(start).String(),
			"client_ip":  c.ClientIP(),
		})

		if privateErrs := c.Errors.ByType(gin.ErrorTypePrivate); len(privateErrs) > 0 {
			entry.WithField("errors", privateErrs.String()).Error("request failed")
			return
		}
		entry.Info("request")
	}
}
