package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/KanalKids/kanalkids_api/internal/service"
	"github.com/KanalKids/kanalkids_api/internal/utils"
)

// UserProductHandler serves the buyer's library of purchased products.
type UserProductHandler struct {
	catalogService *service.CatalogService
}

// NewUserProductHandler constructs a UserProductHandler.
func NewUserProductHandler(catalogService *service.CatalogService) *UserProductHandler {
	return &UserProductHandler{catalogService: catalogService}
}

// ListUserProducts handles GET /v1/user-products
func (h *UserProductHandler) ListUserProducts(c *gin.Context) {
	views, total, err := h.catalogService.ListUserProducts(c.Request.Context(), c.GetString("user_id"))
	if err != nil {
		utils.Error(c, 500, "INTERNAL_ERROR", "Internal server error")
		return
	}

	utils.Success(c, 200, "Purchases retrieved", gin.H{
		"items": views,
		"total": total,
	})
}

// GetUserProduct handles GET /v1/user-products/:id
func (h *UserProductHandler) GetUserProduct(c *gin.Context) {
	view, err := h.catalogService.GetUserProduct(c.Request.Context(), c.GetString("user_id"), c.Param("id"))
	if err != nil {
		if err == utils.ErrUserProductNotFound {
			utils.Error(c, 404, "USER_PRODUCT_NOT_FOUND", "Purchase not found")
			return
		}
		utils.Error(c, 500, "INTERNAL_ERROR", "Internal server error")
		return
	}

	utils.Success(c, 200, "Purchase retrieved", view)
}
