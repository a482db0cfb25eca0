package dashboard

import (
	"errors"

	"github.com/agromate/agromate-api/internal/http/response"
	"github.com/agromate/agromate-api/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
)

// CreateProductRequest is the farmer's new-product form.
type CreateProductRequest struct {
	Name          string           `json:"name" binding:"required"`
	Description   string           `json:"description"`
	Price         decimal.Decimal  `json:"price" binding:"required"`
	OriginalPrice *decimal.Decimal `json:"original_price"`
	Category      string           `json:"category" binding:"required"`
	Subcategory   string           `json:"subcategory"`
	Images        []string         `json:"images"`
	Stock         int              `json:"stock"`
	IsAvailable   *bool            `json:"is_available"`
	Location      string           `json:"location"`
}

// UpdateProductRequest carries a partial product edit.
type UpdateProductRequest struct {
	Name          *string          `json:"name"`
	Description   *string          `json:"description"`
	Price         *decimal.Decimal `json:"price"`
	OriginalPrice *decimal.Decimal `json:"original_price"`
	Category      *string          `json:"category"`
	Subcategory   *string          `json:"subcategory"`
	Images        []string         `json:"images"`
	Stock         *int             `json:"stock"`
	IsAvailable   *bool            `json:"is_available"`
	Location      *string          `json:"location"`
}

// ListFarmerProducts returns everything the farmer sells, hidden items
// included.
func (h *Handler) ListFarmerProducts(c *gin.Context) {
	uid, ok := getUserID(c)
	if !ok {
		return
	}

	products, err := h.ProductService.ListByFarmer(uid)
	if err != nil {
		respondError(c, response.CodeInternal, "product listing failed", err)
		return
	}
	response.Success(c, gin.H{"products": products})
}

// CreateProduct adds a product to the farmer's stall.
func (h *Handler) CreateProduct(c *gin.Context) {
	uid, ok := getUserID(c)
	if !ok {
		return
	}

	var req CreateProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "invalid request payload", err)
		return
	}

	isAvailable := true
	if req.IsAvailable != nil {
		isAvailable = *req.IsAvailable
	}

	product, err := h.ProductService.Create(service.CreateProductInput{
		FarmerID:      uid,
		Name:          req.Name,
		Description:   req.Description,
		Price:         req.Price,
		OriginalPrice: req.OriginalPrice,
		Category:      req.Category,
		Subcategory:   req.Subcategory,
		Images:        req.Images,
		Stock:         req.Stock,
		IsAvailable:   isAvailable,
		Location:      req.Location,
	})
	if err != nil {
		respondProductError(c, err)
		return
	}
	response.Success(c, product)
}

// UpdateProduct applies a partial edit to a product the farmer owns.
func (h *Handler) UpdateProduct(c *gin.Context) {
	uid, ok := getUserID(c)
	if !ok {
		return
	}
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var req UpdateProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "invalid request payload", err)
		return
	}

	product, err := h.ProductService.Update(id, uid, service.UpdateProductInput{
		Name:          req.Name,
		Description:   req.Description,
		Price:         req.Price,
		OriginalPrice: req.OriginalPrice,
		Category:      req.Category,
		Subcategory:   req.Subcategory,
		Images:        req.Images,
		Stock:         req.Stock,
		IsAvailable:   req.IsAvailable,
		Location:      req.Location,
	})
	if err != nil {
		respondProductError(c, err)
		return
	}
	response.Success(c, product)
}

// DeleteProduct removes a product the farmer owns.
func (h *Handler) DeleteProduct(c *gin.Context) {
	uid, ok := getUserID(c)
	if !ok {
		return
	}
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	if err := h.ProductService.Delete(id, uid); err != nil {
		if errors.Is(err, service.ErrProductNotFound) {
			response.NotFound(c, "product not found")
			return
		}
		respondError(c, response.CodeInternal, "product delete failed", err)
		return
	}
	response.Success(c, gin.H{"deleted": true})
}

// UploadProductImage stores a product image and returns its URL.
func (h *Handler) UploadProductImage(c *gin.Context) {
	if _, ok := getUserID(c); !ok {
		return
	}

	file, err := c.FormFile("file")
	if err != nil {
		respondError(c, response.CodeBadRequest, "missing upload file", err)
		return
	}

	url, err := h.UploadService.SaveFile(c.Request.Context(), file, "product")
	if err != nil {
		if errors.Is(err, service.ErrUploadInvalid) {
			respondError(c, response.CodeBadRequest, err.Error(), nil)
			return
		}
		respondError(c, response.CodeInternal, "image upload failed", err)
		return
	}
	response.Success(c, gin.H{"url": url})
}

func respondProductError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrProductNotFound):
		response.NotFound(c, "product not found")
	case errors.Is(err, service.ErrProductNameRequired):
		respondError(c, response.CodeBadRequest, "product name is required", nil)
	case errors.Is(err, service.ErrInvalidCategory):
		respondError(c, response.CodeBadRequest, "invalid product category", nil)
	case errors.Is(err, service.ErrInvalidPrice):
		respondError(c, response.CodeBadRequest, "invalid product price", nil)
	case errors.Is(err, service.ErrInvalidQuantity):
		respondError(c, response.CodeBadRequest, "invalid stock", nil)
	case errors.Is(err, service.ErrForbidden):
		respondError(c, response.CodeForbidden, "operation not permitted", nil)
	default:
		respondError(c, response.CodeInternal, "product save failed", err)
	}
}
