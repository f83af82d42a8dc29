package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/ignatzorin/activity-favorites/internal/http/handlers/common"
	"github.com/ignatzorin/activity-favorites/internal/service"
)

// AuthHandler предоставляет HTTP слой для регистрации и логина.
type AuthHandler struct {
	auth   *service.AuthService
	cookie common.AuthCookie
}

// NewAuthHandler создаёт хэндлер.
func NewAuthHandler(auth *service.AuthService, cookie common.AuthCookie) *AuthHandler {
	return &AuthHandler{auth: auth, cookie: cookie}
}

// Register обрабатывает POST /auth/register.
func (h *AuthHandler) Register(c *gin.Context) {
	var req struct {
		Email     string `json:"email" binding:"required"`
		Password  string `json:"password" binding:"required"`
		FirstName string `json:"firstName" binding:"required"`
		LastName  string `json:"lastName" binding:"required"`
	}
	if err := common.BindJSON(c, &req); err != nil {
		common.RespondError(c, err)
		return
	}

	user, err := h.auth.Register(c.Request.Context(), service.RegisterInput{
		Email:     req.Email,
		Password:  req.Password,
		FirstName: req.FirstName,
		LastName:  req.LastName,
	})
	if err != nil {
		common.RespondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, user)
}

// Login обрабатывает POST /auth/login. Токен отдаётся в теле и в http-only cookie.
func (h *AuthHandler) Login(c *gin.Context) {
	var req struct {
		Email    string `json:"email" binding:"required"`
		Password string `json:"password" binding:"required"`
	}
	if err := common.BindJSON(c, &req); err != nil {
		common.RespondError(c, err)
		return
	}

	result, err := h.auth.Login(c.Request.Context(), service.LoginInput{Email: req.Email, Password: req.Password})
	if err != nil {
		common.RespondError(c, err)
		return
	}

	h.cookie.Set(c, result.Token)
	c.JSON(http.StatusOK, gin.H{
		"user":         result.User,
		"access_token": result.Token.Token,
		"expires_in":   int64(result.Token.ExpiresIn.Seconds()),
	})
}

// Logout обрабатывает POST /auth/logout.
func (h *AuthHandler) Logout(c *gin.Context) {
	h.cookie.Clear(c)
	c.JSON(http.StatusOK, gin.H{"success": true})
}

// Me обрабатывает GET /auth/me.
func (h *AuthHandler) Me(c *gin.Context) {
	userID, err := common.CurrentUserID(c)
	if err != nil {
		common.RespondError(c, err)
		return
	}

	user, err := h.auth.GetMe(c.Request.Context(), userID)
	if err != nil {
		common.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, user)
}
