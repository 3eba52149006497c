package handler

import (
	"net/url"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/KanalKids/kanalkids_api/internal/middleware"
	"github.com/KanalKids/kanalkids_api/internal/service"
	"github.com/KanalKids/kanalkids_api/internal/utils"
)

// OrderHandler handles storefront purchase endpoints.
type OrderHandler struct {
	orderService *service.OrderService
	authService  *service.AuthService
}

// NewOrderHandler constructs an OrderHandler.
func NewOrderHandler(orderService *service.OrderService, authService *service.AuthService) *OrderHandler {
	return &OrderHandler{orderService: orderService, authService: authService}
}

type createOrderRequest struct {
	ProductID string `json:"productId" binding:"required"`
}

// CreateOrder handles POST /v1/orders. The route sits behind optional
// authentication: anonymous buyers get a 401 carrying the register page with
// a callback to the product they were buying, so the flow resumes after
// signup.
func (h *OrderHandler) CreateOrder(c *gin.Context) {
	var req createOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.Error(c, 400, "MISSING_FIELD", "Invalid request body")
		return
	}

	userID := middleware.UserID(c)
	if userID == "" {
		h.rejectAnonymous(c, req.ProductID)
		return
	}

	user, err := h.authService.CurrentUser(userID)
	if err != nil {
		h.handleError(c, err)
		return
	}

	order, err := h.orderService.CreateOrder(c.Request.Context(), user, req.ProductID)
	if err != nil {
		h.handleError(c, err)
		return
	}

	utils.Success(c, 201, "Order created", order)
}

// ListOrders handles GET /v1/orders
func (h *OrderHandler) ListOrders(c *gin.Context) {
	orders, err := h.orderService.ListOrders(c.GetString("user_id"))
	if err != nil {
		utils.Error(c, 500, "INTERNAL_ERROR", "Internal server error")
		return
	}

	utils.Success(c, 200, "Orders retrieved", orders)
}

// PendingOrder handles GET /v1/orders/pending
func (h *OrderHandler) PendingOrder(c *gin.Context) {
	order, err := h.orderService.PendingOrder(c.GetString("user_id"), time.Now())
	if err != nil {
		h.handleError(c, err)
		return
	}

	utils.Success(c, 200, "Pending order retrieved", order)
}

// rejectAnonymous answers an unauthenticated purchase with the signup
// redirect, e.g. /register?callback=%2Fproduct%2Fmy-slug.
func (h *OrderHandler) rejectAnonymous(c *gin.Context, productID string) {
	slug, err := h.orderService.ProductSlug(productID)
	if err != nil {
		h.handleError(c, err)
		return
	}

	redirect := "/register?callback=" + url.QueryEscape("/product/"+slug)
	utils.ErrorWithRedirect(c, 401, "UNAUTHORIZED", "Sign in to complete your purchase", redirect)
}

func (h *OrderHandler) handleError(c *gin.Context, err error) {
	switch err {
	case utils.ErrProductNotFound:
		utils.Error(c, 404, "PRODUCT_NOT_FOUND", "Product not found")
	case utils.ErrPendingOrderNotFound:
		utils.Error(c, 404, "PENDING_ORDER_NOT_FOUND", "No pending order")
	case utils.ErrUnauthenticated:
		utils.Error(c, 401, "UNAUTHORIZED", "Session is no longer valid")
	case utils.ErrPaymentGateway:
		utils.Error(c, 502, "ORDER_PAYMENT_FAILED", "Payment provider is unavailable, please try again")
	default:
		utils.Error(c, 500, "INTERNAL_ERROR", "Internal server error")
	}
}
