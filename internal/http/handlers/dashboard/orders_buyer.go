package dashboard

import (
	"errors"

	handlershared "github.com/agromate/agromate-api/internal/http/handlers/shared"
	"github.com/agromate/agromate-api/internal/http/response"
	"github.com/agromate/agromate-api/internal/service"

	"github.com/gin-gonic/gin"
)

// ListBuyerOrders returns the buyer's orders, optionally by status.
func (h *Handler) ListBuyerOrders(c *gin.Context) {
	uid, ok := getUserID(c)
	if !ok {
		return
	}

	page, pageSize := handlershared.QueryPagination(c)
	orders, total, err := h.OrderService.ListForBuyer(uid, c.Query("status"), page, pageSize)
	if err != nil {
		respondError(c, response.CodeInternal, "order listing failed", err)
		return
	}
	response.SuccessWithPage(c, orders, response.NewPagination(page, pageSize, total))
}

// GetBuyerOrder returns one of the buyer's orders with its items.
func (h *Handler) GetBuyerOrder(c *gin.Context) {
	uid, ok := getUserID(c)
	if !ok {
		return
	}
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	order, err := h.OrderService.GetForBuyer(id, uid)
	if err != nil {
		if errors.Is(err, service.ErrOrderNotFound) {
			response.NotFound(c, "order not found")
			return
		}
		respondError(c, response.CodeInternal, "order fetch failed", err)
		return
	}
	response.Success(c, order)
}

// CancelBuyerOrder cancels a pending or confirmed order and restocks it.
func (h *Handler) CancelBuyerOrder(c *gin.Context) {
	uid, ok := getUserID(c)
	if !ok {
		return
	}
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	order, err := h.OrderService.BuyerCancel(id, uid)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrOrderNotFound):
			response.NotFound(c, "order not found")
		case errors.Is(err, service.ErrOrderStatusInvalid):
			respondError(c, response.CodeBadRequest, "order can no longer be cancelled", nil)
		default:
			respondError(c, response.CodeInternal, "order cancel failed", err)
		}
		return
	}
	response.Success(c, order)
}
