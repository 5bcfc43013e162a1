package handlers

import (
	"net/http"

	"timetable/internal/services"

	"github.com/gin-gonic/gin"
)

// AuthHandler обрабатывает запросы авторизации
type AuthHandler struct {
	authService      *services.AuthService
	viewStateService *services.ViewStateService
}

// NewAuthHandler создает новый обработчик авторизации
func NewAuthHandler(authService *services.AuthService, viewStateService *services.ViewStateService) *AuthHandler {
	return &AuthHandler{authService: authService, viewStateService: viewStateService}
}

type loginReq struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// Login проверяет логин/пароль и выдает токен
func (h *AuthHandler) Login(c *gin.Context) {
	var req loginReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	result, err := h.authService.Login(req.Username, req.Password)
	if err != nil {
		respondError(c, err)
		return
	}

	// Просмотр начинается с текущей недели
	h.viewStateService.Reset(result.User.ID)

	c.SetCookie("jwt", result.Token, 86400, "/", "", false, true)
	c.JSON(http.StatusOK, result)
}

// Logout очищает cookie с токеном
func (h *AuthHandler) Logout(c *gin.Context) {
	c.SetCookie("jwt", "", -1, "/", "", false, true)
	c.JSON(http.StatusOK, gin.H{"status": "logged out"})
}

// Profile возвращает текущего пользователя
func (h *AuthHandler) Profile(c *gin.Context) {
	user := currentUser(c)
	if user == nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "not authenticated"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"user": user})
}
