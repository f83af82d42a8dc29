package middleware

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/ignatzorin/activity-favorites/internal/pkg/apperror"
)

// UUIDValidator проверяет, что параметры пути являются валидными UUID.
// Использование: router.PUT("/favorites/:id/order", UUIDValidator("id"), handler.UpdateOrder)
func UUIDValidator(paramNames ...string) gin.HandlerFunc {
	return func(c *gin.Context) {
		for _, name := range paramNames {
			raw := c.Param(name)
			if raw == "" {
				abortWithError(c, apperror.BadRequest("параметр "+name+" обязателен"))
				return
			}
			if _, err := uuid.Parse(raw); err != nil {
				abortWithError(c, apperror.BadRequest("параметр "+name+" должен быть валидным UUID"))
				return
			}
		}
		c.Next()
	}
}
