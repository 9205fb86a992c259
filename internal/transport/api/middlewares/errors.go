package middlewares

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

func statusErrorText(status int) string {
	switch status {
	case http.StatusBadRequest:
		return "bad request"
	case http.StatusUnauthorized:
		return "unauthorized"
	case http.StatusForbidden:
		return "forbidden"
	case http.StatusNotFound:
		return "not found"
	case http.StatusUnprocessableEntity:
		return "unprocessable entity"
	case http.StatusConflict:
		return "conflict"
	default:
		return "internal server error"
	}
}

// AbortWithError прерывает цепочку обработчиков и прикрепляет ошибку к контексту. В отличие от
// gin.Context.AbortWithError заголовки не отправляются сразу, тело ответа формирует Errors().
func AbortWithError(c *gin.Context, status int, err error, errType gin.ErrorType) {
	c.Status(status)
	c.Abort()
	_ = c.Error(err).SetType(errType)
}

// Errors рендерит первую ошибку контекста в виде {"error": msg}. Текст публичных ошибок отдается
// клиенту как есть, для остальных отдается общий текст по статусу ответа.
func Errors() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if len(c.Errors) == 0 || c.Writer.Written() {
			return
		}

		// обрабатываем только первую ошибку
		firstErr := c.Errors[0]

		status := c.Writer.Status()
		if status < http.StatusBadRequest {
			status = http.StatusInternalServerError
		}

		var msg string
		if firstErr.IsType(gin.ErrorTypePublic) {
			msg = firstErr.Error()
		} else {
			msg = statusErrorText(status)
		}

		c.AbortWithStatusJSON(status, gin.H{"error": msg})
	}
}

// Recovery перехватывает панику в обработчиках и отвечает 500 в формате Errors().
func Recovery() gin.HandlerFunc {
	return gin.CustomRecovery(func(c *gin.Context, _ any) {
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{
			"error": statusErrorText(http.StatusInternalServerError),
		})
	})
}
