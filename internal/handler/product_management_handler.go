package handler

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/KanalKids/kanalkids_api/internal/models"
	"github.com/KanalKids/kanalkids_api/internal/service"
	"github.com/KanalKids/kanalkids_api/internal/utils"
)

// ProductManagementHandler handles the backoffice catalog CRUD.
type ProductManagementHandler struct {
	managementService *service.CatalogManagementService
}

// NewProductManagementHandler constructs a ProductManagementHandler.
func NewProductManagementHandler(managementService *service.CatalogManagementService) *ProductManagementHandler {
	return &ProductManagementHandler{managementService: managementService}
}

type productRequest struct {
	Name                 string             `json:"name" binding:"required"`
	Slug                 string             `json:"slug"`
	Description          string             `json:"description" binding:"required"`
	ImageURL             string             `json:"imageUrl"`
	Type                 models.ProductType `json:"type" binding:"required"`
	Price                int                `json:"price" binding:"required,gt=0"`
	PromoPrice           *int               `json:"promoPrice"`
	IsCountdownPromotion bool               `json:"isCountdownPromotion"`
	PromoEndAt           *time.Time         `json:"promoEndAt"`
}

type categoryRequest struct {
	ProductID    string `json:"productId"`
	Name         string `json:"name" binding:"required"`
	Description  string `json:"description"`
	DisplayOrder int    `json:"order"`
}

type linkRequest struct {
	CategoryID   string  `json:"categoryId"`
	Name         string  `json:"name" binding:"required"`
	Description  *string `json:"description"`
	URL          string  `json:"url" binding:"required,url"`
	DisplayOrder int     `json:"order"`
}

func (r *productRequest) toModel() *models.Product {
	return &models.Product{
		Name:                 r.Name,
		Slug:                 r.Slug,
		Description:          r.Description,
		ImageURL:             r.ImageURL,
		Type:                 r.Type,
		Price:                r.Price,
		PromoPrice:           r.PromoPrice,
		IsCountdownPromotion: r.IsCountdownPromotion,
		PromoEndAt:           r.PromoEndAt,
	}
}

// ListProducts handles GET /v1/admin/products
func (h *ProductManagementHandler) ListProducts(c *gin.Context) {
	products, err := h.managementService.ListProducts(c.Request.Context())
	if err != nil {
		utils.Error(c, 500, "INTERNAL_ERROR", "Internal server error")
		return
	}

	utils.Success(c, 200, "Products retrieved", products)
}

// GetProduct handles GET /v1/admin/products/:id
func (h *ProductManagementHandler) GetProduct(c *gin.Context) {
	product, err := h.managementService.GetProduct(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.handleError(c, err)
		return
	}

	utils.Success(c, 200, "Product retrieved", product)
}

// CreateProduct handles POST /v1/admin/products
func (h *ProductManagementHandler) CreateProduct(c *gin.Context) {
	var req productRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.Error(c, 400, "MISSING_FIELD", "Invalid request body")
		return
	}

	product, err := h.managementService.CreateProduct(c.Request.Context(), req.toModel())
	if err != nil {
		h.handleError(c, err)
		return
	}

	utils.Success(c, 201, "Product created", product)
}

// UpdateProduct handles PUT /v1/admin/products/:id
func (h *ProductManagementHandler) UpdateProduct(c *gin.Context) {
	var req productRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.Error(c, 400, "MISSING_FIELD", "Invalid request body")
		return
	}

	product := req.toModel()
	product.ID = c.Param("id")

	updated, err := h.managementService.UpdateProduct(c.Request.Context(), product)
	if err != nil {
		h.handleError(c, err)
		return
	}

	utils.Success(c, 200, "Product updated", updated)
}

// DeleteProduct handles DELETE /v1/admin/products/:id
func (h *ProductManagementHandler) DeleteProduct(c *gin.Context) {
	if err := h.managementService.DeleteProduct(c.Request.Context(), c.Param("id")); err != nil {
		h.handleError(c, err)
		return
	}

	utils.Success(c, 200, "Product deleted", nil)
}

// CreateCategory handles POST /v1/admin/products/:id/categories
func (h *ProductManagementHandler) CreateCategory(c *gin.Context) {
	var req categoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.Error(c, 400, "MISSING_FIELD", "Invalid request body")
		return
	}

	cat := &models.LinkCategory{
		ProductID:    c.Param("id"),
		Name:         req.Name,
		Description:  req.Description,
		DisplayOrder: req.DisplayOrder,
	}
	created, err := h.managementService.CreateCategory(c.Request.Context(), cat)
	if err != nil {
		h.handleError(c, err)
		return
	}

	utils.Success(c, 201, "Category created", created)
}

// UpdateCategory handles PUT /v1/admin/categories/:id
func (h *ProductManagementHandler) UpdateCategory(c *gin.Context) {
	var req categoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.Error(c, 400, "MISSING_FIELD", "Invalid request body")
		return
	}

	cat := &models.LinkCategory{
		ID:           c.Param("id"),
		Name:         req.Name,
		Description:  req.Description,
		DisplayOrder: req.DisplayOrder,
	}
	updated, err := h.managementService.UpdateCategory(c.Request.Context(), cat)
	if err != nil {
		h.handleError(c, err)
		return
	}

	utils.Success(c, 200, "Category updated", updated)
}

// DeleteCategory handles DELETE /v1/admin/categories/:id
func (h *ProductManagementHandler) DeleteCategory(c *gin.Context) {
	if err := h.managementService.DeleteCategory(c.Request.Context(), c.Param("id")); err != nil {
		h.handleError(c, err)
		return
	}

	utils.Success(c, 200, "Category deleted", nil)
}

// CreateLink handles POST /v1/admin/categories/:id/links
func (h *ProductManagementHandler) CreateLink(c *gin.Context) {
	var req linkRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.Error(c, 400, "MISSING_FIELD", "Invalid request body")
		return
	}

	link := &models.Link{
		CategoryID:   c.Param("id"),
		Name:         req.Name,
		Description:  req.Description,
		URL:          req.URL,
		DisplayOrder: req.DisplayOrder,
	}
	created, err := h.managementService.CreateLink(c.Request.Context(), link)
	if err != nil {
		h.handleError(c, err)
		return
	}

	utils.Success(c, 201, "Link created", created)
}

// UpdateLink handles PUT /v1/admin/links/:id
func (h *ProductManagementHandler) UpdateLink(c *gin.Context) {
	var req linkRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.Error(c, 400, "MISSING_FIELD", "Invalid request body")
		return
	}

	link := &models.Link{
		ID:           c.Param("id"),
		Name:         req.Name,
		Description:  req.Description,
		URL:          req.URL,
		DisplayOrder: req.DisplayOrder,
	}
	updated, err := h.managementService.UpdateLink(c.Request.Context(), link)
	if err != nil {
		h.handleError(c, err)
		return
	}

	utils.Success(c, 200, "Link updated", updated)
}

// DeleteLink handles DELETE /v1/admin/links/:id
func (h *ProductManagementHandler) DeleteLink(c *gin.Context) {
	if err := h.managementService.DeleteLink(c.Request.Context(), c.Param("id")); err != nil {
		h.handleError(c, err)
		return
	}

	utils.Success(c, 200, "Link deleted", nil)
}

func (h *ProductManagementHandler) handleError(c *gin.Context, err error) {
	switch err {
	case utils.ErrProductNotFound:
		utils.Error(c, 404, "PRODUCT_NOT_FOUND", "Product not found")
	case utils.ErrCategoryNotFound:
		utils.Error(c, 404, "CATEGORY_NOT_FOUND", "Category not found")
	case utils.ErrLinkNotFound:
		utils.Error(c, 404, "LINK_NOT_FOUND", "Link not found")
	case utils.ErrPromoEndRequired:
		utils.Error(c, 400, "PROMO_END_REQUIRED", "Countdown promotions require promoEndAt")
	default:
		utils.Error(c, 500, "INTERNAL_ERROR", "Internal server error")
	}
}
