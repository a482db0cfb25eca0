package service

import (
	"github.com/agromate/agromate-api/internal/models"
	"github.com/agromate/agromate-api/internal/repository"

	"github.com/shopspring/decimal"
)

// CartItemDetail is one cart line with the live product attached.
type CartItemDetail struct {
	ProductID uint            `json:"product_id"`
	Quantity  int             `json:"quantity"`
	UnitPrice models.Money    `json:"unit_price"`
	LineTotal models.Money    `json:"line_total"`
	Currency  string          `json:"currency"`
	Product   *models.Product `json:"product"`
}

// CartSummary is the cart with its aggregate amounts.
type CartSummary struct {
	Items     []CartItemDetail `json:"items"`
	ItemCount int              `json:"item_count"`
	Subtotal  models.Money     `json:"subtotal"`
}

// CartService manages the buyer's persistent cart.
type CartService struct {
	cartRepo    repository.CartRepository
	productRepo repository.ProductRepository
}

// NewCartService creates the cart service.
func NewCartService(cartRepo repository.CartRepository, productRepo repository.ProductRepository) *CartService {
	return &CartService{cartRepo: cartRepo, productRepo: productRepo}
}

// ListByUser returns the cart with live product data. Lines whose product
// disappeared or went unavailable are dropped from the cart on read.
func (s *CartService) ListByUser(userID uint) (*CartSummary, error) {
	if userID == 0 {
		return nil, ErrUserNotFound
	}
	items, err := s.cartRepo.ListByUser(userID)
	if err != nil {
		return nil, err
	}

	summary := &CartSummary{Items: make([]CartItemDetail, 0, len(items))}
	subtotal := decimal.Zero
	for _, item := range items {
		product := item.Product
		if product == nil || product.ID == 0 {
			p, err := s.productRepo.GetByID(item.ProductID)
			if err != nil {
				return nil, err
			}
			product = p
		}
		if product == nil || !product.IsAvailable {
			_, _ = s.cartRepo.DeleteByUserAndProduct(userID, item.ProductID)
			continue
		}

		lineTotal := product.Price.Decimal.Mul(decimal.NewFromInt(int64(item.Quantity)))
		subtotal = subtotal.Add(lineTotal)
		summary.Items = append(summary.Items, CartItemDetail{
			ProductID: item.ProductID,
			Quantity:  item.Quantity,
			UnitPrice: product.Price,
			LineTotal: models.NewMoneyFromDecimal(lineTotal),
			Currency:  product.Currency,
			Product:   product,
		})
		summary.ItemCount += item.Quantity
	}
	summary.Subtotal = models.NewMoneyFromDecimal(subtotal)
	return summary, nil
}

// AddItem merges quantity into an existing line, clamping the merged total
// at the product's current stock.
func (s *CartService) AddItem(userID, productID uint, quantity int) error {
	if userID == 0 || productID == 0 {
		return ErrProductNotFound
	}
	if quantity <= 0 {
		return ErrInvalidQuantity
	}
	product, err := s.productRepo.GetByID(productID)
	if err != nil {
		return err
	}
	if product == nil || !product.IsAvailable {
		return ErrProductNotAvailable
	}
	if product.Stock <= 0 {
		return ErrInsufficientStock
	}

	existing, err := s.cartRepo.GetByUserAndProduct(userID, productID)
	if err != nil {
		return err
	}

	merged := quantity
	if existing != nil {
		merged += existing.Quantity
	}
	if merged > product.Stock {
		merged = product.Stock
	}

	if existing != nil {
		existing.Quantity = merged
		return s.cartRepo.Save(existing)
	}
	return s.cartRepo.Save(&models.CartItem{
		UserID:    userID,
		ProductID: productID,
		Quantity:  merged,
	})
}

// SetQuantity replaces a line's quantity. Zero or below removes the line;
// above stock is clamped to the current stock, same as AddItem.
func (s *CartService) SetQuantity(userID, productID uint, quantity int) error {
	if userID == 0 || productID == 0 {
		return ErrProductNotFound
	}
	if quantity <= 0 {
		_, err := s.cartRepo.DeleteByUserAndProduct(userID, productID)
		return err
	}
	product, err := s.productRepo.GetByID(productID)
	if err != nil {
		return err
	}
	if product == nil || !product.IsAvailable {
		return ErrProductNotAvailable
	}
	if product.Stock <= 0 {
		return ErrInsufficientStock
	}
	if quantity > product.Stock {
		quantity = product.Stock
	}

	existing, err := s.cartRepo.GetByUserAndProduct(userID, productID)
	if err != nil {
		return err
	}
	if existing == nil {
		return s.cartRepo.Save(&models.CartItem{
			UserID:    userID,
			ProductID: productID,
			Quantity:  quantity,
		})
	}
	existing.Quantity = quantity
	return s.cartRepo.Save(existing)
}

// RemoveItem deletes one line.
func (s *CartService) RemoveItem(userID, productID uint) error {
	if userID == 0 || productID == 0 {
		return ErrProductNotFound
	}
	_, err := s.cartRepo.DeleteByUserAndProduct(userID, productID)
	return err
}

// Clear empties the cart.
func (s *CartService) Clear(userID uint) error {
	if userID == 0 {
		return ErrUserNotFound
	}
	return s.cartRepo.ClearByUser(userID)
}
