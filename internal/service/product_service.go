package service

import (
	"strings"

	"github.com/agromate/agromate-api/internal/constants"
	"github.com/agromate/agromate-api/internal/models"
	"github.com/agromate/agromate-api/internal/repository"

	"github.com/shopspring/decimal"
)

// ProductService manages the catalog and farmer-side product CRUD.
type ProductService struct {
	productRepo repository.ProductRepository
	userRepo    repository.UserRepository
}

// NewProductService creates the product service.
func NewProductService(productRepo repository.ProductRepository, userRepo repository.UserRepository) *ProductService {
	return &ProductService{productRepo: productRepo, userRepo: userRepo}
}

// CreateProductInput is the farmer product payload.
type CreateProductInput struct {
	FarmerID      uint
	Name          string
	Description   string
	Price         decimal.Decimal
	OriginalPrice *decimal.Decimal
	Category      string
	Subcategory   string
	Images        []string
	Stock         int
	IsAvailable   bool
	Location      string
}

// UpdateProductInput carries optional fields; nil leaves a field untouched.
type UpdateProductInput struct {
	Name          *string
	Description   *string
	Price         *decimal.Decimal
	OriginalPrice *decimal.Decimal
	Category      *string
	Subcategory   *string
	Images        []string
	Stock         *int
	IsAvailable   *bool
	Location      *string
}

// ListCatalog returns the public storefront listing: available products
// with stock, newest first.
func (s *ProductService) ListCatalog(category, search string, page, pageSize int) ([]models.Product, int64, error) {
	if category != "" && !constants.IsValidCategory(category) {
		return nil, 0, ErrInvalidCategory
	}
	return s.productRepo.List(repository.ProductListFilter{
		Page:          page,
		PageSize:      pageSize,
		Category:      category,
		Search:        search,
		OnlyAvailable: true,
	})
}

// GetByID loads one product for the public detail page.
func (s *ProductService) GetByID(id uint) (*models.Product, error) {
	product, err := s.productRepo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, ErrProductNotFound
	}
	return product, nil
}

// ListRelated returns other available products in the same category, for
// the product detail page.
func (s *ProductService) ListRelated(id uint, limit int) ([]models.Product, error) {
	product, err := s.GetByID(id)
	if err != nil {
		return nil, err
	}
	if limit <= 0 {
		limit = 4
	}
	related, _, err := s.productRepo.List(repository.ProductListFilter{
		Page:          1,
		PageSize:      limit,
		Category:      product.Category,
		ExcludeID:     product.ID,
		OnlyAvailable: true,
	})
	return related, err
}

// ListByFarmer returns everything a farmer sells, including hidden items.
func (s *ProductService) ListByFarmer(farmerID uint) ([]models.Product, error) {
	return s.productRepo.ListByFarmer(farmerID)
}

// Create adds a product to a farmer's stall.
func (s *ProductService) Create(input CreateProductInput) (*models.Product, error) {
	farmer, err := s.userRepo.GetByID(input.FarmerID)
	if err != nil {
		return nil, err
	}
	if farmer == nil || farmer.Role != constants.RoleFarmer {
		return nil, ErrForbidden
	}

	name := strings.TrimSpace(input.Name)
	if name == "" {
		return nil, ErrProductNameRequired
	}
	if !constants.IsValidCategory(input.Category) {
		return nil, ErrInvalidCategory
	}
	if input.Price.LessThanOrEqual(decimal.Zero) {
		return nil, ErrInvalidPrice
	}
	if input.Stock < 0 {
		return nil, ErrInvalidQuantity
	}

	location := strings.TrimSpace(input.Location)
	if location == "" {
		location = farmer.Location
	}

	product := &models.Product{
		FarmerID:    farmer.ID,
		FarmerName:  farmer.FullName(),
		Name:        name,
		Description: strings.TrimSpace(input.Description),
		Price:       models.NewMoneyFromDecimal(input.Price),
		Currency:    constants.Currency,
		Category:    input.Category,
		Subcategory: strings.TrimSpace(input.Subcategory),
		Images:      input.Images,
		Stock:       input.Stock,
		IsAvailable: input.IsAvailable,
		Location:    location,
	}
	if input.OriginalPrice != nil && input.OriginalPrice.GreaterThan(decimal.Zero) {
		op := models.NewMoneyFromDecimal(*input.OriginalPrice)
		product.OriginalPrice = &op
	}

	if err := s.productRepo.Create(product); err != nil {
		return nil, err
	}
	return product, nil
}

// Update applies a partial edit to a product the farmer owns.
func (s *ProductService) Update(productID, farmerID uint, input UpdateProductInput) (*models.Product, error) {
	product, err := s.productRepo.GetByID(productID)
	if err != nil {
		return nil, err
	}
	if product == nil || product.FarmerID != farmerID {
		return nil, ErrProductNotFound
	}

	if input.Name != nil {
		name := strings.TrimSpace(*input.Name)
		if name == "" {
			return nil, ErrProductNameRequired
		}
		product.Name = name
	}
	if input.Description != nil {
		product.Description = strings.TrimSpace(*input.Description)
	}
	if input.Price != nil {
		if input.Price.LessThanOrEqual(decimal.Zero) {
			return nil, ErrInvalidPrice
		}
		product.Price = models.NewMoneyFromDecimal(*input.Price)
	}
	if input.OriginalPrice != nil {
		if input.OriginalPrice.GreaterThan(decimal.Zero) {
			op := models.NewMoneyFromDecimal(*input.OriginalPrice)
			product.OriginalPrice = &op
		} else {
			product.OriginalPrice = nil
		}
	}
	if input.Category != nil {
		if !constants.IsValidCategory(*input.Category) {
			return nil, ErrInvalidCategory
		}
		product.Category = *input.Category
	}
	if input.Subcategory != nil {
		product.Subcategory = strings.TrimSpace(*input.Subcategory)
	}
	if input.Images != nil {
		product.Images = input.Images
	}
	if input.Stock != nil {
		if *input.Stock < 0 {
			return nil, ErrInvalidQuantity
		}
		product.Stock = *input.Stock
	}
	if input.IsAvailable != nil {
		product.IsAvailable = *input.IsAvailable
	}
	if input.Location != nil {
		product.Location = strings.TrimSpace(*input.Location)
	}

	if err := s.productRepo.Update(product); err != nil {
		return nil, err
	}
	return product, nil
}

// Delete removes a product the farmer owns.
func (s *ProductService) Delete(productID, farmerID uint) error {
	affected, err := s.productRepo.Delete(productID, farmerID)
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrProductNotFound
	}
	return nil
}
