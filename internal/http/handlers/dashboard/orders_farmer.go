package dashboard

import (
	"errors"

	handlershared "github.com/agromate/agromate-api/internal/http/handlers/shared"
	"github.com/agromate/agromate-api/internal/http/response"
	"github.com/agromate/agromate-api/internal/service"

	"github.com/gin-gonic/gin"
)

// OrderStatusRequest carries a requested status change.
type OrderStatusRequest struct {
	Status string `json:"status" binding:"required"`
}

// ListFarmerOrders returns orders placed against the farmer's produce.
func (h *Handler) ListFarmerOrders(c *gin.Context) {
	uid, ok := getUserID(c)
	if !ok {
		return
	}

	page, pageSize := handlershared.QueryPagination(c)
	orders, total, err := h.OrderService.ListForFarmer(uid, c.Query("status"), page, pageSize)
	if err != nil {
		respondError(c, response.CodeInternal, "order listing failed", err)
		return
	}
	response.SuccessWithPage(c, orders, response.NewPagination(page, pageSize, total))
}

// UpdateFarmerOrderStatus confirms, prepares or hands off an order.
func (h *Handler) UpdateFarmerOrderStatus(c *gin.Context) {
	uid, ok := getUserID(c)
	if !ok {
		return
	}
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var req OrderStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "invalid request payload", err)
		return
	}

	order, err := h.OrderService.FarmerUpdateStatus(id, uid, req.Status)
	if err != nil {
		respondOrderStatusError(c, err)
		return
	}
	response.Success(c, order)
}

// GetFarmerStats returns the farmer dashboard counters.
func (h *Handler) GetFarmerStats(c *gin.Context) {
	uid, ok := getUserID(c)
	if !ok {
		return
	}

	stats, err := h.OrderService.StatsForFarmer(uid)
	if err != nil {
		respondError(c, response.CodeInternal, "stats fetch failed", err)
		return
	}
	response.Success(c, stats)
}

func respondOrderStatusError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrOrderNotFound):
		response.NotFound(c, "order not found")
	case errors.Is(err, service.ErrOrderStatusInvalid):
		respondError(c, response.CodeBadRequest, "order status transition not allowed", nil)
	case errors.Is(err, service.ErrOrderAlreadyClaimed):
		respondError(c, response.CodeConflict, "order already claimed", nil)
	default:
		respondError(c, response.CodeInternal, "order update failed", err)
	}
}
