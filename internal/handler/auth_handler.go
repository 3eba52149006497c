package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/KanalKids/kanalkids_api/internal/models"
	"github.com/KanalKids/kanalkids_api/internal/service"
	"github.com/KanalKids/kanalkids_api/internal/utils"
)

// AuthHandler handles buyer authentication endpoints.
type AuthHandler struct {
	authService *service.AuthService
}

// NewAuthHandler constructs an AuthHandler.
func NewAuthHandler(authService *service.AuthService) *AuthHandler {
	return &AuthHandler{authService: authService}
}

type registerRequest struct {
	Name     string `json:"name" binding:"required"`
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=6"`
}

type loginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

type forgotPasswordRequest struct {
	Email string `json:"email" binding:"required,email"`
}

type resetPasswordRequest struct {
	Token    string `json:"token" binding:"required"`
	Password string `json:"password" binding:"required,min=6"`
}

type changePasswordRequest struct {
	CurrentPassword string `json:"currentPassword" binding:"required"`
	NewPassword     string `json:"newPassword" binding:"required,min=8"`
}

type sessionResponse struct {
	Token string       `json:"token"`
	User  *models.User `json:"user"`
}

// Register handles POST /v1/auth/register
func (h *AuthHandler) Register(c *gin.Context) {
	var req registerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.Error(c, 400, "MISSING_FIELD", "Invalid request body")
		return
	}

	token, user, err := h.authService.Register(req.Name, req.Email, req.Password)
	if err != nil {
		h.handleError(c, err)
		return
	}

	utils.Success(c, 201, "Account created", sessionResponse{Token: token, User: user})
}

// Login handles POST /v1/auth/login
func (h *AuthHandler) Login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.Error(c, 400, "MISSING_FIELD", "Invalid request body")
		return
	}

	token, user, err := h.authService.Login(req.Email, req.Password)
	if err != nil {
		h.handleError(c, err)
		return
	}

	utils.Success(c, 200, "Logged in", sessionResponse{Token: token, User: user})
}

// Me handles GET /v1/auth/me
func (h *AuthHandler) Me(c *gin.Context) {
	user, err := h.authService.CurrentUser(c.GetString("user_id"))
	if err != nil {
		h.handleError(c, err)
		return
	}

	utils.Success(c, 200, "User retrieved", user)
}

// ForgotPassword handles POST /v1/auth/forgot-password
func (h *AuthHandler) ForgotPassword(c *gin.Context) {
	var req forgotPasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.Error(c, 400, "MISSING_FIELD", "Invalid request body")
		return
	}

	if err := h.authService.ForgotPassword(c.Request.Context(), req.Email); err != nil {
		h.handleError(c, err)
		return
	}

	utils.Success(c, 200, "If the email exists, a reset link has been sent", nil)
}

// ResetPassword handles POST /v1/auth/reset-password
func (h *AuthHandler) ResetPassword(c *gin.Context) {
	var req resetPasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.Error(c, 400, "MISSING_FIELD", "Invalid request body")
		return
	}

	if err := h.authService.ResetPassword(req.Token, req.Password); err != nil {
		h.handleError(c, err)
		return
	}

	utils.Success(c, 200, "Password updated", nil)
}

// ChangePassword handles PUT /v1/auth/password
func (h *AuthHandler) ChangePassword(c *gin.Context) {
	var req changePasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.Error(c, 400, "MISSING_FIELD", "Invalid request body")
		return
	}

	if err := h.authService.ChangePassword(c.GetString("user_id"), req.CurrentPassword, req.NewPassword); err != nil {
		h.handleError(c, err)
		return
	}

	utils.Success(c, 200, "Password updated", nil)
}

func (h *AuthHandler) handleError(c *gin.Context, err error) {
	switch err {
	case utils.ErrInvalidCredentials:
		utils.Error(c, 401, "INVALID_CREDENTIALS", "Email or password is incorrect")
	case utils.ErrEmailTaken:
		utils.Error(c, 409, "EMAIL_TAKEN", "Email is already registered")
	case utils.ErrUnauthenticated:
		utils.Error(c, 401, "UNAUTHORIZED", "Session is no longer valid")
	case utils.ErrPasswordMismatch:
		utils.Error(c, 400, "PASSWORD_MISMATCH", "Current password is incorrect")
	case utils.ErrResetTokenInvalid:
		utils.Error(c, 400, "RESET_TOKEN_INVALID", "Reset link is invalid or has expired")
	default:
		utils.Error(c, 500, "INTERNAL_ERROR", "Internal server error")
	}
}
