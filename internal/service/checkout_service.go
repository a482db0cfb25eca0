package service

import (
	"crypto/rand"
	"fmt"
	"math/big"
	"strings"
	"time"

	"github.com/agromate/agromate-api/internal/config"
	"github.com/agromate/agromate-api/internal/constants"
	"github.com/agromate/agromate-api/internal/logger"
	"github.com/agromate/agromate-api/internal/models"
	"github.com/agromate/agromate-api/internal/queue"
	"github.com/agromate/agromate-api/internal/repository"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// CheckoutService turns a buyer's cart into orders, one per farmer.
type CheckoutService struct {
	cartRepo    repository.CartRepository
	productRepo repository.ProductRepository
	orderRepo   repository.OrderRepository
	userRepo    repository.UserRepository
	queueClient *queue.Client
	checkout    config.CheckoutConfig
}

// NewCheckoutService creates the checkout service.
func NewCheckoutService(cartRepo repository.CartRepository, productRepo repository.ProductRepository, orderRepo repository.OrderRepository, userRepo repository.UserRepository, queueClient *queue.Client, checkout config.CheckoutConfig) *CheckoutService {
	return &CheckoutService{
		cartRepo:    cartRepo,
		productRepo: productRepo,
		orderRepo:   orderRepo,
		userRepo:    userRepo,
		queueClient: queueClient,
		checkout:    checkout,
	}
}

// CheckoutInput is the checkout payload.
type CheckoutInput struct {
	UserID           uint
	DeliveryLocation string
}

// CheckoutPreview is the priced breakdown shown before confirming.
type CheckoutPreview struct {
	Groups      []PreviewGroup `json:"groups"`
	Subtotal    models.Money   `json:"subtotal"`
	DeliveryFee models.Money   `json:"delivery_fee"`
	Discount    models.Money   `json:"discount"`
	TotalAmount models.Money   `json:"total_amount"`
	Currency    string         `json:"currency"`
}

// PreviewGroup is the per-farmer slice of a checkout preview.
type PreviewGroup struct {
	FarmerID    uint             `json:"farmer_id"`
	FarmerName  string           `json:"farmer_name"`
	Items       []CartItemDetail `json:"items"`
	Subtotal    models.Money     `json:"subtotal"`
	DeliveryFee models.Money     `json:"delivery_fee"`
	TotalAmount models.Money     `json:"total_amount"`
}

// farmerGroup collects cart lines for one farmer, preserving cart order.
type farmerGroup struct {
	farmerID   uint
	farmerName string
	location   string
	items      []models.CartItem
	products   map[uint]*models.Product
}

// Preview prices the cart without creating anything.
func (s *CheckoutService) Preview(userID uint) (*CheckoutPreview, error) {
	groups, err := s.loadGroups(userID)
	if err != nil {
		return nil, err
	}

	deliveryFee := decimal.NewFromInt(s.checkout.DeliveryFee)
	discount := decimal.NewFromInt(s.checkout.Discount)
	preview := &CheckoutPreview{Currency: constants.Currency}
	grandSubtotal := decimal.Zero
	grandTotal := decimal.Zero

	for _, group := range groups {
		pg := PreviewGroup{
			FarmerID:    group.farmerID,
			FarmerName:  group.farmerName,
			DeliveryFee: models.NewMoneyFromDecimal(deliveryFee),
		}
		subtotal := decimal.Zero
		for _, item := range group.items {
			product := group.products[item.ProductID]
			lineTotal := product.Price.Decimal.Mul(decimal.NewFromInt(int64(item.Quantity)))
			subtotal = subtotal.Add(lineTotal)
			pg.Items = append(pg.Items, CartItemDetail{
				ProductID: item.ProductID,
				Quantity:  item.Quantity,
				UnitPrice: product.Price,
				LineTotal: models.NewMoneyFromDecimal(lineTotal),
				Currency:  product.Currency,
				Product:   product,
			})
		}
		total := subtotal.Add(deliveryFee).Sub(discount)
		pg.Subtotal = models.NewMoneyFromDecimal(subtotal)
		pg.TotalAmount = models.NewMoneyFromDecimal(total)
		preview.Groups = append(preview.Groups, pg)
		grandSubtotal = grandSubtotal.Add(subtotal)
		grandTotal = grandTotal.Add(total)
	}

	feeCount := decimal.NewFromInt(int64(len(groups)))
	preview.Subtotal = models.NewMoneyFromDecimal(grandSubtotal)
	preview.DeliveryFee = models.NewMoneyFromDecimal(deliveryFee.Mul(feeCount))
	preview.Discount = models.NewMoneyFromDecimal(discount.Mul(feeCount))
	preview.TotalAmount = models.NewMoneyFromDecimal(grandTotal)
	return preview, nil
}

// Checkout creates one pending order per farmer in a single transaction,
// decrementing stock and clearing the cart. Any failure rolls everything
// back, leaving the cart intact.
func (s *CheckoutService) Checkout(input CheckoutInput) ([]models.Order, error) {
	location := strings.TrimSpace(input.DeliveryLocation)
	if location == "" {
		return nil, ErrDeliveryLocationRequired
	}
	buyer, err := s.userRepo.GetByID(input.UserID)
	if err != nil {
		return nil, err
	}
	if buyer == nil {
		return nil, ErrUserNotFound
	}

	groups, err := s.loadGroups(input.UserID)
	if err != nil {
		return nil, err
	}

	deliveryFee := decimal.NewFromInt(s.checkout.DeliveryFee)
	discount := decimal.NewFromInt(s.checkout.Discount)
	now := time.Now()
	baseOrderNo := generateOrderNo()

	var orders []models.Order
	err = models.DB.Transaction(func(tx *gorm.DB) error {
		orderRepo := s.orderRepo.WithTx(tx)
		productRepo := s.productRepo.WithTx(tx)
		cartRepo := s.cartRepo.WithTx(tx)

		for idx, group := range groups {
			subtotal := decimal.Zero
			items := make([]models.OrderItem, 0, len(group.items))
			itemsCount := 0
			for _, line := range group.items {
				product := group.products[line.ProductID]
				affected, err := productRepo.DecrementStock(product.ID, line.Quantity)
				if err != nil {
					return err
				}
				if affected == 0 {
					return ErrInsufficientStock
				}

				lineTotal := product.Price.Decimal.Mul(decimal.NewFromInt(int64(line.Quantity)))
				subtotal = subtotal.Add(lineTotal)
				itemsCount += line.Quantity
				imageURL := ""
				if len(product.Images) > 0 {
					imageURL = product.Images[0]
				}
				items = append(items, models.OrderItem{
					ProductID:   product.ID,
					ProductName: product.Name,
					UnitPrice:   product.Price,
					Quantity:    line.Quantity,
					TotalPrice:  models.NewMoneyFromDecimal(lineTotal),
					ImageURL:    imageURL,
					CreatedAt:   now,
					UpdatedAt:   now,
				})
			}

			order := models.Order{
				OrderNo:          buildGroupOrderNo(baseOrderNo, idx+1),
				BuyerID:          buyer.ID,
				BuyerName:        buyer.FullName(),
				BuyerEmail:       buyer.Email,
				FarmerID:         group.farmerID,
				FarmerName:       group.farmerName,
				ItemsCount:       itemsCount,
				Subtotal:         models.NewMoneyFromDecimal(subtotal),
				DeliveryFee:      models.NewMoneyFromDecimal(deliveryFee),
				Discount:         models.NewMoneyFromDecimal(discount),
				TotalAmount:      models.NewMoneyFromDecimal(subtotal.Add(deliveryFee).Sub(discount)),
				Currency:         constants.Currency,
				DeliveryLocation: location,
				PickupLocation:   group.location,
				Status:           constants.OrderStatusPending,
				Items:            items,
				CreatedAt:        now,
				UpdatedAt:        now,
			}
			if err := orderRepo.Create(&order); err != nil {
				return err
			}
			orders = append(orders, order)
		}

		return cartRepo.ClearByUser(input.UserID)
	})
	if err != nil {
		return nil, err
	}

	for _, order := range orders {
		s.notifyOrderCreated(order)
	}
	return orders, nil
}

func (s *CheckoutService) notifyOrderCreated(order models.Order) {
	if s.queueClient == nil {
		return
	}
	if err := s.queueClient.EnqueueOrderStatusEmail(queue.OrderStatusEmailPayload{
		OrderID: order.ID,
		Status:  order.Status,
	}); err != nil {
		logger.Errorw("checkout_enqueue_status_email_failed",
			"order_id", order.ID,
			"order_no", order.OrderNo,
			"error", err,
		)
	}
	if err := s.queueClient.EnqueueOrderNotification(queue.OrderNotificationPayload{
		UserID:  order.FarmerID,
		OrderID: order.ID,
		Type:    constants.NotificationTypeOrder,
		Title:   "New order received",
		Message: fmt.Sprintf("Order %s from %s is waiting for confirmation", order.OrderNo, order.BuyerName),
	}); err != nil {
		logger.Errorw("checkout_enqueue_notification_failed",
			"order_id", order.ID,
			"order_no", order.OrderNo,
			"error", err,
		)
	}
}

// loadGroups validates the cart and partitions it by farmer, keeping the
// order farmers first appear in the cart.
func (s *CheckoutService) loadGroups(userID uint) ([]*farmerGroup, error) {
	if userID == 0 {
		return nil, ErrUserNotFound
	}
	items, err := s.cartRepo.ListByUser(userID)
	if err != nil {
		return nil, err
	}
	if len(items) == 0 {
		return nil, ErrCartEmpty
	}

	indexByFarmer := make(map[uint]int)
	var groups []*farmerGroup
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
			return nil, ErrProductNotAvailable
		}
		if item.Quantity <= 0 {
			return nil, ErrInvalidQuantity
		}
		if item.Quantity > product.Stock {
			return nil, ErrInsufficientStock
		}

		idx, ok := indexByFarmer[product.FarmerID]
		if !ok {
			idx = len(groups)
			indexByFarmer[product.FarmerID] = idx
			groups = append(groups, &farmerGroup{
				farmerID:   product.FarmerID,
				farmerName: product.FarmerName,
				location:   product.Location,
				products:   make(map[uint]*models.Product),
			})
		}
		groups[idx].items = append(groups[idx].items, item)
		groups[idx].products[product.ID] = product
	}
	return groups, nil
}

func generateOrderNo() string {
	now := time.Now().Format("20060102150405")
	return fmt.Sprintf("AGM%s%s", now, randNumeric(6))
}

func buildGroupOrderNo(base string, seq int) string {
	if seq <= 0 {
		return base
	}
	return fmt.Sprintf("%s-%02d", base, seq)
}

func randNumeric(length int) string {
	var b strings.Builder
	for i := 0; i < length; i++ {
		n, err := rand.Int(rand.Reader, big.NewInt(10))
		if err != nil {
			b.WriteString("0")
			continue
		}
		b.WriteString(fmt.Sprintf("%d", n.Int64()))
	}
	return b.String()
}
