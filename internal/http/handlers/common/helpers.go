package common

import (
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/ignatzorin/activity-favorites/internal/http/middleware"
	"github.com/ignatzorin/activity-favorites/internal/pkg/apperror"
	"github.com/ignatzorin/activity-favorites/internal/service"
)

// CurrentUserID извлекает userID, положенный auth middleware.
func CurrentUserID(c *gin.Context) (uuid.UUID, error) {
	raw, exists := c.Get(middleware.ContextUserIDKey)
	if !exists {
		return uuid.Nil, apperror.ErrUnauthorized
	}

	userID, ok := raw.(uuid.UUID)
	if !ok || userID == uuid.Nil {
		return uuid.Nil, apperror.ErrUnauthorized
	}

	return userID, nil
}

// ParseUUIDParam разбирает UUID из параметра пути.
func ParseUUIDParam(c *gin.Context, paramName string) (uuid.UUID, error) {
	param := c.Param(paramName)
	if param == "" {
		return uuid.Nil, apperror.BadRequest(fmt.Sprintf("параметр %s отсутствует", paramName))
	}

	parsed, err := uuid.Parse(param)
	if err != nil {
		return uuid.Nil, apperror.BadRequest(fmt.Sprintf("неверный формат %s", paramName))
	}

	return parsed, nil
}

// BindJSON разбирает тело запроса и приводит ошибку к BAD_REQUEST.
func BindJSON(c *gin.Context, req interface{}) error {
	if err := c.ShouldBindJSON(req); err != nil {
		return apperror.Wrap(err, apperror.ErrCodeBadRequest, "ошибка валидации запроса")
	}
	return nil
}

// ParseIntQuery читает необязательный целочисленный query параметр.
func ParseIntQuery(c *gin.Context, name string) (*int, error) {
	raw := strings.TrimSpace(c.Query(name))
	if raw == "" {
		return nil, nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return nil, apperror.BadRequest(fmt.Sprintf("параметр %s должен быть числом", name))
	}
	return &v, nil
}

// GetPagination читает page и limit, некорректные значения приводятся к значениям по умолчанию.
func GetPagination(c *gin.Context) (int, int) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", strconv.Itoa(service.DefaultPage)))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", strconv.Itoa(service.DefaultLimit)))
	return service.ClampPage(page, limit)
}

// RespondError отдаёт ошибку со статусом её класса. Внутренние детали не раскрываются.
func RespondError(c *gin.Context, err error) {
	_ = c.Error(err)
	c.JSON(apperror.StatusOf(err), gin.H{"error": apperror.PublicMessage(err)})
}

// RespondJSON sends a JSON response with the given status code and data
func RespondJSON(c *gin.Context, statusCode int, data interface{}) {
	c.JSON(statusCode, data)
}

// AuthCookie описывает http-only cookie с access токеном.
type AuthCookie struct {
	Name   string
	Domain string
	Secure bool
}

// Set кладёт токен в cookie на время его жизни.
func (a AuthCookie) Set(c *gin.Context, token *service.AccessToken) {
	c.SetSameSite(http.SameSiteStrictMode)
	c.SetCookie(a.Name, token.Token, int(token.ExpiresIn.Seconds()), "/", a.Domain, a.Secure, true)
}

// Clear удаляет cookie.
func (a AuthCookie) Clear(c *gin.Context) {
	c.SetSameSite(http.SameSiteStrictMode)
	c.SetCookie(a.Name, "", -1, "/", a.Domain, a.Secure, true)
}
