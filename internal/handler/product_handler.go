package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/KanalKids/kanalkids_api/internal/middleware"
	"github.com/KanalKids/kanalkids_api/internal/service"
	"github.com/KanalKids/kanalkids_api/internal/utils"
)

// ProductHandler serves the storefront catalog.
type ProductHandler struct {
	catalogService *service.CatalogService
}

// NewProductHandler constructs a ProductHandler.
func NewProductHandler(catalogService *service.CatalogService) *ProductHandler {
	return &ProductHandler{catalogService: catalogService}
}

// ListProducts handles GET /v1/products
func (h *ProductHandler) ListProducts(c *gin.Context) {
	views, err := h.catalogService.ListProducts(c.Request.Context(), middleware.UserID(c))
	if err != nil {
		utils.Error(c, 500, "INTERNAL_ERROR", "Internal server error")
		return
	}

	utils.Success(c, 200, "Products retrieved", views)
}

// GetProduct handles GET /v1/products/:slug
func (h *ProductHandler) GetProduct(c *gin.Context) {
	view, err := h.catalogService.GetProductBySlug(c.Request.Context(), c.Param("slug"), middleware.UserID(c))
	if err != nil {
		if err == utils.ErrProductNotFound {
			utils.Error(c, 404, "PRODUCT_NOT_FOUND", "Product not found")
			return
		}
		utils.Error(c, 500, "INTERNAL_ERROR", "Internal server error")
		return
	}

	utils.Success(c, 200, "Product retrieved", view)
}
