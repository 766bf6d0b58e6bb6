package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/sangkips/tillsync/internal/application/service"
	"github.com/sangkips/tillsync/internal/presentation/http/dto/request"
	"github.com/sangkips/tillsync/internal/presentation/http/dto/response"
)

// AuthHandler handles authentication-related HTTP requests
type AuthHandler struct {
	authService *service.AuthService
}

// NewAuthHandler creates a new auth handler
func NewAuthHandler(authService *service.AuthService) *AuthHandler {
	return &AuthHandler{authService: authService}
}

// Login handles signing the till in
// @Summary Login
// @Description Verify credentials against the remote store, persist the session and return the merged sale history
// @Tags auth
// @Accept json
// @Produce json
// @Param request body request.LoginRequest true "Login credentials"
// @Success 200 {object} response.APIResponse
// @Failure 401 {object} response.APIResponse
// @Failure 503 {object} response.APIResponse
// @Router /auth/login [post]
func (h *AuthHandler) Login(c *gin.Context) {
	var req request.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body")
		return
	}

	output, err := h.authService.Login(c.Request.Context(), &service.LoginInput{
		Email:    req.Email,
		Password: req.Password,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Login successful", gin.H{
		"user": gin.H{
			"id":    output.Session.UserID,
			"name":  output.Session.Name,
			"email": output.Session.Email,
		},
		"access_token": output.Session.AccessToken,
		"expires_at":   output.Session.ExpiresAt,
		"token_type":   "Bearer",
		"data":         output.Data,
	})
}

// Logout handles signing the till out
// @Summary Logout
// @Description Forget the session; local sales stay on the till
// @Tags auth
// @Success 200 {object} response.APIResponse
// @Router /auth/logout [post]
func (h *AuthHandler) Logout(c *gin.Context) {
	h.authService.Logout(c.Request.Context())
	response.OK(c, "Logged out successfully", nil)
}

// Session returns the current session, or 204 when signed out
func (h *AuthHandler) Session(c *gin.Context) {
	session := h.authService.CurrentSession(c.Request.Context())
	if session == nil {
		response.NoContent(c)
		return
	}
	response.OK(c, "Session retrieved", gin.H{
		"user_id":    session.UserID,
		"email":      session.Email,
		"name":       session.Name,
		"expires_at": session.ExpiresAt,
	})
}
