package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"lireddit/internal/middleware"
	"lireddit/internal/models"
	"lireddit/internal/service"
)

type AuthHandler struct {
	svc *service.AuthService
}

func NewAuthHandler(svc *service.AuthService) *AuthHandler {
	return &AuthHandler{svc: svc}
}

// Register handles user registration
func (h *AuthHandler) Register(c *gin.Context) {
	var input models.RegisterRequest
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	user, token, err := h.svc.Register(c.Request.Context(), input.Username, input.Email, input.Password)
	if err != nil {
		renderError(c, err)
		return
	}

	c.JSON(http.StatusCreated, models.AuthResponse{Token: token, User: *user})
}

// Login handles user login with either username or email
func (h *AuthHandler) Login(c *gin.Context) {
	var input models.LoginRequest
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	user, token, err := h.svc.Login(c.Request.Context(), input.UsernameOrEmail, input.Password)
	if err != nil {
		renderError(c, err)
		return
	}

	c.JSON(http.StatusOK, models.AuthResponse{Token: token, User: *user})
}

// GetMe returns the current authenticated user
func (h *AuthHandler) GetMe(c *gin.Context) {
	user, err := h.svc.Me(c.Request.Context(), middleware.CurrentUserID(c))
	if err != nil {
		renderError(c, err)
		return
	}

	c.JSON(http.StatusOK, user)
}

// ForgotPassword always responds with success so the endpoint can't be used
// to probe which emails are registered.
func (h *AuthHandler) ForgotPassword(c *gin.Context) {
	var input models.ForgotPasswordRequest
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := h.svc.ForgotPassword(c.Request.Context(), input.Email); err != nil {
		renderError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"ok": true})
}

// ChangePassword consumes a reset token and logs the user in again.
func (h *AuthHandler) ChangePassword(c *gin.Context) {
	var input models.ChangePasswordRequest
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	user, token, err := h.svc.ChangePassword(c.Request.Context(), input.Token, input.NewPassword)
	if err != nil {
		renderError(c, err)
		return
	}

	c.JSON(http.StatusOK, models.AuthResponse{Token: token, User: *user})
}
