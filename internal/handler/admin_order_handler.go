package handler

import (
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/KanalKids/kanalkids_api/internal/service"
	"github.com/KanalKids/kanalkids_api/internal/utils"
)

// AdminOrderHandler serves the backoffice order listing.
type AdminOrderHandler struct {
	orderService *service.OrderService
}

// NewAdminOrderHandler constructs an AdminOrderHandler.
func NewAdminOrderHandler(orderService *service.OrderService) *AdminOrderHandler {
	return &AdminOrderHandler{orderService: orderService}
}

// ListOrders handles GET /v1/admin/orders
func (h *AdminOrderHandler) ListOrders(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))

	orders, total, err := h.orderService.ListAdminOrders(page, limit)
	if err != nil {
		utils.Error(c, 500, "INTERNAL_ERROR", "Internal server error")
		return
	}

	utils.SuccessWithPagination(c, 200, "Orders retrieved", orders, page, limit, total)
}
