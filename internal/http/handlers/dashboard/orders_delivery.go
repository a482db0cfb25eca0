package dashboard

import (
	handlershared "github.com/agromate/agromate-api/internal/http/handlers/shared"
	"github.com/agromate/agromate-api/internal/http/response"

	"github.com/gin-gonic/gin"
)

// ListAvailableOrders returns confirmed orders no rider has claimed yet.
func (h *Handler) ListAvailableOrders(c *gin.Context) {
	page, pageSize := handlershared.QueryPagination(c)
	orders, total, err := h.OrderService.ListAvailableForDelivery(page, pageSize)
	if err != nil {
		respondError(c, response.CodeInternal, "order listing failed", err)
		return
	}
	response.SuccessWithPage(c, orders, response.NewPagination(page, pageSize, total))
}

// ListDeliveryOrders returns orders assigned to the rider.
func (h *Handler) ListDeliveryOrders(c *gin.Context) {
	uid, ok := getUserID(c)
	if !ok {
		return
	}

	page, pageSize := handlershared.QueryPagination(c)
	orders, total, err := h.OrderService.ListForDelivery(uid, c.Query("status"), page, pageSize)
	if err != nil {
		respondError(c, response.CodeInternal, "order listing failed", err)
		return
	}
	response.SuccessWithPage(c, orders, response.NewPagination(page, pageSize, total))
}

// ClaimOrder assigns an unclaimed confirmed order to the rider.
func (h *Handler) ClaimOrder(c *gin.Context) {
	uid, ok := getUserID(c)
	if !ok {
		return
	}
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	order, err := h.OrderService.ClaimForDelivery(id, uid)
	if err != nil {
		respondOrderStatusError(c, err)
		return
	}
	response.Success(c, order)
}

// UpdateDeliveryOrderStatus moves an assigned order to delivering or
// delivered.
func (h *Handler) UpdateDeliveryOrderStatus(c *gin.Context) {
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

	order, err := h.OrderService.DeliveryUpdateStatus(id, uid, req.Status)
	if err != nil {
		respondOrderStatusError(c, err)
		return
	}
	response.Success(c, order)
}

// GetDeliveryStats returns the rider dashboard counters.
func (h *Handler) GetDeliveryStats(c *gin.Context) {
	uid, ok := getUserID(c)
	if !ok {
		return
	}

	stats, err := h.OrderService.StatsForDelivery(uid)
	if err != nil {
		respondError(c, response.CodeInternal, "stats fetch failed", err)
		return
	}
	response.Success(c, stats)
}
