package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/KanalKids/kanalkids_api/internal/service"
	"github.com/KanalKids/kanalkids_api/internal/utils"
)

// AdminAuthHandler handles backoffice authentication.
type AdminAuthHandler struct {
	adminAuthService *service.AdminAuthService
}

// NewAdminAuthHandler constructs an AdminAuthHandler.
func NewAdminAuthHandler(adminAuthService *service.AdminAuthService) *AdminAuthHandler {
	return &AdminAuthHandler{adminAuthService: adminAuthService}
}

// Login handles POST /v1/admin/auth/login
func (h *AdminAuthHandler) Login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.Error(c, 400, "MISSING_FIELD", "Invalid request body")
		return
	}

	token, err := h.adminAuthService.Login(req.Email, req.Password)
	if err != nil {
		switch err {
		case utils.ErrInvalidCredentials:
			utils.Error(c, 401, "INVALID_CREDENTIALS", "Email or password is incorrect")
		case utils.ErrAccountInactive:
			utils.Error(c, 403, "ACCOUNT_INACTIVE", "Account has been deactivated")
		default:
			utils.Error(c, 500, "INTERNAL_ERROR", "Internal server error")
		}
		return
	}

	utils.Success(c, 200, "Logged in", gin.H{"token": token})
}
