package dashboard

import (
	"errors"

	"github.com/agromate/agromate-api/internal/http/response"
	"github.com/agromate/agromate-api/internal/service"

	"github.com/gin-gonic/gin"
)

// CheckoutRequest confirms the cart into orders.
type CheckoutRequest struct {
	DeliveryLocation string `json:"delivery_location" binding:"required"`
}

// PreviewCheckout prices the cart per farmer without creating orders.
func (h *Handler) PreviewCheckout(c *gin.Context) {
	uid, ok := getUserID(c)
	if !ok {
		return
	}

	preview, err := h.CheckoutService.Preview(uid)
	if err != nil {
		respondCheckoutError(c, err)
		return
	}
	response.Success(c, preview)
}

// Checkout turns the cart into one pending order per farmer.
func (h *Handler) Checkout(c *gin.Context) {
	uid, ok := getUserID(c)
	if !ok {
		return
	}

	var req CheckoutRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "invalid request payload", err)
		return
	}

	orders, err := h.CheckoutService.Checkout(service.CheckoutInput{
		UserID:           uid,
		DeliveryLocation: req.DeliveryLocation,
	})
	if err != nil {
		respondCheckoutError(c, err)
		return
	}
	response.Success(c, gin.H{"orders": orders})
}

func respondCheckoutError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrCartEmpty):
		respondError(c, response.CodeBadRequest, "cart is empty", nil)
	case errors.Is(err, service.ErrDeliveryLocationRequired):
		respondError(c, response.CodeBadRequest, "delivery location is required", nil)
	case errors.Is(err, service.ErrProductNotAvailable):
		respondError(c, response.CodeBadRequest, "product not available", nil)
	case errors.Is(err, service.ErrInvalidQuantity):
		respondError(c, response.CodeBadRequest, "invalid quantity", nil)
	case errors.Is(err, service.ErrInsufficientStock):
		respondError(c, response.CodeBadRequest, "insufficient stock", nil)
	case errors.Is(err, service.ErrUserNotFound):
		response.NotFound(c, "user not found")
	default:
		respondError(c, response.CodeInternal, "checkout failed", err)
	}
}
