package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/ignatzorin/activity-favorites/internal/pkg/apperror"
)

// Context ключи для gin.Context.
const (
	ContextUserIDKey = "userID"
	ContextRoleKey   = "role"
)

// TokenHeader: заголовок, в котором клиент может передать токен напрямую.
const TokenHeader = "jwt"

// TokenParser проверяет access токен.
type TokenParser interface {
	ParseAccess(token string) (uuid.UUID, string, error)
}

// TokenFromRequest ищет токен в заголовке jwt, затем в cookie, затем в Authorization: Bearer.
func TokenFromRequest(c *gin.Context, cookieName string) string {
	if raw := strings.TrimSpace(c.GetHeader(TokenHeader)); raw != "" {
		return raw
	}
	if cookieName != "" {
		if raw, err := c.Cookie(cookieName); err == nil && raw != "" {
			return raw
		}
	}
	auth := c.GetHeader("Authorization")
	if strings.HasPrefix(auth, "Bearer ") {
		return strings.TrimSpace(strings.TrimPrefix(auth, "Bearer "))
	}
	return ""
}

// authenticate кладёт userID и роль в контекст, если токен валиден.
func authenticate(c *gin.Context, tokens TokenParser, cookieName string) bool {
	raw := TokenFromRequest(c, cookieName)
	if raw == "" {
		return false
	}
	userID, role, err := tokens.ParseAccess(raw)
	if err != nil || userID == uuid.Nil {
		return false
	}
	c.Set(ContextUserIDKey, userID)
	c.Set(ContextRoleKey, role)
	return true
}

// OptionalAuth распознаёт пользователя, но пропускает анонимные запросы.
// Невалидный токен равнозначен его отсутствию.
func OptionalAuth(tokens TokenParser, cookieName string) gin.HandlerFunc {
	return func(c *gin.Context) {
		authenticate(c, tokens, cookieName)
		c.Next()
	}
}

// AuthMiddleware требует валидный access токен.
func AuthMiddleware(tokens TokenParser, cookieName string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if !authenticate(c, tokens, cookieName) {
			abortWithError(c, apperror.ErrUnauthorized)
			return
		}
		c.Next()
	}
}
