package middleware

import (
	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/ignatzorin/activity-favorites/internal/logger"
	"github.com/ignatzorin/activity-favorites/internal/pkg/apperror"
)

// ErrorHandler обрабатывает ошибки, добавленные через c.Error, централизованно.
// Внутренние ошибки логируются и маскируются, классифицированные отдаются со своим статусом.
// Если хэндлер уже ответил сам, ошибка только логируется.
func ErrorHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if len(c.Errors) == 0 {
			return
		}

		err := c.Errors.Last().Err
		if !apperror.IsClassified(err) {
			logger.Component("http").WithFields(logrus.Fields{
				"error":  err.Error(),
				"path":   c.Request.URL.Path,
				"method": c.Request.Method,
			}).Error("ошибка запроса")
		}

		if c.Writer.Written() {
			return
		}
		c.JSON(apperror.StatusOf(err), gin.H{"error": apperror.PublicMessage(err)})
	}
}

// abortWithError прерывает цепочку с ответом по классу ошибки.
func abortWithError(c *gin.Context, err error) {
	c.AbortWithStatusJSON(apperror.StatusOf(err), gin.H{"error": apperror.PublicMessage(err)})
}
