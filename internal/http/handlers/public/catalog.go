package public

import (
	"errors"
	"strconv"
	"time"

	"github.com/agromate/agromate-api/internal/cache"
	"github.com/agromate/agromate-api/internal/constants"
	handlershared "github.com/agromate/agromate-api/internal/http/handlers/shared"
	"github.com/agromate/agromate-api/internal/http/response"
	"github.com/agromate/agromate-api/internal/service"

	"github.com/gin-gonic/gin"
)

const (
	publicConfigCacheKey = "public:config"
	publicConfigCacheTTL = 60 * time.Second
	relatedProductsLimit = 4
)

// GetConfig returns the marketplace settings the storefront needs before
// anyone signs in.
func (h *Handler) GetConfig(c *gin.Context) {
	var cached map[string]interface{}
	if hit, err := cache.GetJSON(c.Request.Context(), publicConfigCacheKey, &cached); err == nil && hit {
		response.Success(c, cached)
		return
	}

	data := map[string]interface{}{
		"currency":     constants.Currency,
		"categories":   constants.Categories,
		"roles":        constants.Roles,
		"delivery_fee": h.Config.Checkout.DeliveryFee,
		"captcha": map[string]interface{}{
			"enabled": h.CaptchaService.Enabled(),
		},
	}

	if err := cache.SetJSON(c.Request.Context(), publicConfigCacheKey, data, publicConfigCacheTTL); err != nil {
		handlershared.RequestLog(c).Warnw("public_config_cache_write_failed", "error", err)
	}
	response.Success(c, data)
}

// GetCategories lists the fixed product categories.
func (h *Handler) GetCategories(c *gin.Context) {
	response.Success(c, gin.H{"categories": constants.Categories})
}

// ListProducts serves the public catalog with optional category, search
// and pagination parameters.
func (h *Handler) ListProducts(c *gin.Context) {
	page, pageSize := handlershared.QueryPagination(c)
	category := c.Query("category")
	search := c.Query("search")

	products, total, err := h.ProductService.ListCatalog(category, search, page, pageSize)
	if err != nil {
		if errors.Is(err, service.ErrInvalidCategory) {
			respondError(c, response.CodeBadRequest, "invalid product category", nil)
			return
		}
		respondError(c, response.CodeInternal, "product listing failed", err)
		return
	}

	response.SuccessWithPage(c, products, response.NewPagination(page, pageSize, total))
}

// GetProduct serves the public product detail page.
func (h *Handler) GetProduct(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	product, err := h.ProductService.GetByID(id)
	if err != nil {
		if errors.Is(err, service.ErrProductNotFound) {
			response.NotFound(c, "product not found")
			return
		}
		respondError(c, response.CodeInternal, "product fetch failed", err)
		return
	}
	response.Success(c, product)
}

// GetRelatedProducts lists other available products from the same category.
func (h *Handler) GetRelatedProducts(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	related, err := h.ProductService.ListRelated(id, relatedProductsLimit)
	if err != nil {
		if errors.Is(err, service.ErrProductNotFound) {
			response.NotFound(c, "product not found")
			return
		}
		respondError(c, response.CodeInternal, "related products fetch failed", err)
		return
	}
	response.Success(c, gin.H{"products": related})
}

func parseIDParam(c *gin.Context, name string) (uint, bool) {
	raw := c.Param(name)
	id, err := strconv.ParseUint(raw, 10, 64)
	if err != nil || id == 0 {
		respondError(c, response.CodeBadRequest, "invalid "+name, nil)
		return 0, false
	}
	return uint(id), true
}
