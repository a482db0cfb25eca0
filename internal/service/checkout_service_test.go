package service

import (
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/agromate/agromate-api/internal/config"
	"github.com/agromate/agromate-api/internal/constants"
	"github.com/agromate/agromate-api/internal/models"
	"github.com/agromate/agromate-api/internal/repository"

	"github.com/glebarez/sqlite"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

func setupCheckoutServiceTest(t *testing.T) (*CheckoutService, *gorm.DB) {
	t.Helper()
	dsn := fmt.Sprintf("file:checkout_service_test_%d?mode=memory&cache=shared", time.Now().UnixNano())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("open sqlite failed: %v", err)
	}
	if err := db.AutoMigrate(
		&models.User{},
		&models.Product{},
		&models.CartItem{},
		&models.Order{},
		&models.OrderItem{},
	); err != nil {
		t.Fatalf("auto migrate failed: %v", err)
	}
	models.DB = db

	svc := NewCheckoutService(
		repository.NewCartRepository(db),
		repository.NewProductRepository(db),
		repository.NewOrderRepository(db),
		repository.NewUserRepository(db),
		nil,
		config.CheckoutConfig{DeliveryFee: 700, Discount: 0},
	)
	return svc, db
}

func createCheckoutUser(t *testing.T, db *gorm.DB, id uint, role, firstName string) *models.User {
	t.Helper()
	user := &models.User{
		ID:           id,
		Email:        fmt.Sprintf("checkout_user_%d@example.com", id),
		PasswordHash: "hash",
		FirstName:    firstName,
		LastName:     "Test",
		Role:         role,
		Status:       constants.UserStatusActive,
		CreatedAt:    time.Now(),
		UpdatedAt:    time.Now(),
	}
	if err := db.Create(user).Error; err != nil {
		t.Fatalf("create user failed: %v", err)
	}
	return user
}

func createCheckoutProduct(t *testing.T, db *gorm.DB, farmer *models.User, name string, price int64, stock int) *models.Product {
	t.Helper()
	product := &models.Product{
		FarmerID:    farmer.ID,
		FarmerName:  farmer.FullName(),
		Name:        name,
		Price:       models.NewMoneyFromDecimal(decimal.NewFromInt(price)),
		Currency:    constants.Currency,
		Category:    constants.CategoryVegetables,
		Stock:       stock,
		IsAvailable: true,
		Location:    "Muea market",
	}
	if err := db.Create(product).Error; err != nil {
		t.Fatalf("create product failed: %v", err)
	}
	return product
}

func addCartLine(t *testing.T, db *gorm.DB, userID, productID uint, quantity int) {
	t.Helper()
	if err := db.Create(&models.CartItem{UserID: userID, ProductID: productID, Quantity: quantity}).Error; err != nil {
		t.Fatalf("create cart line failed: %v", err)
	}
}

func TestCheckoutSplitsCartByFarmerWithPerOrderFee(t *testing.T) {
	svc, db := setupCheckoutServiceTest(t)
	buyer := createCheckoutUser(t, db, 1, constants.RoleBuyer, "Bih")
	sellerX := createCheckoutUser(t, db, 2, constants.RoleFarmer, "Xavier")
	sellerY := createCheckoutUser(t, db, 3, constants.RoleFarmer, "Yola")

	a := createCheckoutProduct(t, db, sellerX, "tomatoes", 500, 10)
	b := createCheckoutProduct(t, db, sellerY, "plantains", 300, 10)
	addCartLine(t, db, buyer.ID, a.ID, 2)
	addCartLine(t, db, buyer.ID, b.ID, 1)

	orders, err := svc.Checkout(CheckoutInput{UserID: buyer.ID, DeliveryLocation: "Molyko, Buea"})
	if err != nil {
		t.Fatalf("checkout failed: %v", err)
	}
	if len(orders) != 2 {
		t.Fatalf("orders want 2 got %d", len(orders))
	}

	byFarmer := map[uint]models.Order{}
	for _, order := range orders {
		byFarmer[order.FarmerID] = order
	}
	x := byFarmer[sellerX.ID]
	if !x.Subtotal.Decimal.Equal(decimal.NewFromInt(1000)) {
		t.Fatalf("sellerX subtotal want 1000 got %s", x.Subtotal.Decimal)
	}
	if !x.TotalAmount.Decimal.Equal(decimal.NewFromInt(1700)) {
		t.Fatalf("sellerX total want 1700 got %s", x.TotalAmount.Decimal)
	}
	y := byFarmer[sellerY.ID]
	if !y.Subtotal.Decimal.Equal(decimal.NewFromInt(300)) {
		t.Fatalf("sellerY subtotal want 300 got %s", y.Subtotal.Decimal)
	}
	if !y.TotalAmount.Decimal.Equal(decimal.NewFromInt(1000)) {
		t.Fatalf("sellerY total want 1000 got %s", y.TotalAmount.Decimal)
	}

	for _, order := range orders {
		if order.Status != constants.OrderStatusPending {
			t.Fatalf("order status want pending got %s", order.Status)
		}
		if order.DeliveryLocation != "Molyko, Buea" {
			t.Fatalf("delivery location not carried: %q", order.DeliveryLocation)
		}
	}

	var cartCount int64
	if err := db.Model(&models.CartItem{}).Where("user_id = ?", buyer.ID).Count(&cartCount).Error; err != nil {
		t.Fatalf("count cart failed: %v", err)
	}
	if cartCount != 0 {
		t.Fatalf("cart not cleared, %d lines left", cartCount)
	}

	var got models.Product
	if err := db.First(&got, a.ID).Error; err != nil {
		t.Fatalf("reload product failed: %v", err)
	}
	if got.Stock != 8 {
		t.Fatalf("stock want 8 got %d", got.Stock)
	}
}

func TestCheckoutSameFarmerProducesOneOrder(t *testing.T) {
	svc, db := setupCheckoutServiceTest(t)
	buyer := createCheckoutUser(t, db, 1, constants.RoleBuyer, "Bih")
	farmer := createCheckoutUser(t, db, 2, constants.RoleFarmer, "Xavier")

	a := createCheckoutProduct(t, db, farmer, "tomatoes", 500, 10)
	b := createCheckoutProduct(t, db, farmer, "okra", 250, 10)
	addCartLine(t, db, buyer.ID, a.ID, 2)
	addCartLine(t, db, buyer.ID, b.ID, 4)

	orders, err := svc.Checkout(CheckoutInput{UserID: buyer.ID, DeliveryLocation: "Mile 17"})
	if err != nil {
		t.Fatalf("checkout failed: %v", err)
	}
	if len(orders) != 1 {
		t.Fatalf("orders want 1 got %d", len(orders))
	}
	order := orders[0]
	if len(order.Items) != 2 {
		t.Fatalf("items want 2 got %d", len(order.Items))
	}
	if order.ItemsCount != 6 {
		t.Fatalf("items count want 6 got %d", order.ItemsCount)
	}
	if !order.Subtotal.Decimal.Equal(decimal.NewFromInt(2000)) {
		t.Fatalf("subtotal want 2000 got %s", order.Subtotal.Decimal)
	}
	if !order.TotalAmount.Decimal.Equal(decimal.NewFromInt(2700)) {
		t.Fatalf("total want 2700 got %s", order.TotalAmount.Decimal)
	}
}

func TestCheckoutEmptyCartRejected(t *testing.T) {
	svc, db := setupCheckoutServiceTest(t)
	buyer := createCheckoutUser(t, db, 1, constants.RoleBuyer, "Bih")

	_, err := svc.Checkout(CheckoutInput{UserID: buyer.ID, DeliveryLocation: "Molyko"})
	if !errors.Is(err, ErrCartEmpty) {
		t.Fatalf("want ErrCartEmpty got %v", err)
	}
}

func TestCheckoutMissingDeliveryLocationRejected(t *testing.T) {
	svc, db := setupCheckoutServiceTest(t)
	buyer := createCheckoutUser(t, db, 1, constants.RoleBuyer, "Bih")
	farmer := createCheckoutUser(t, db, 2, constants.RoleFarmer, "Xavier")
	product := createCheckoutProduct(t, db, farmer, "tomatoes", 500, 10)
	addCartLine(t, db, buyer.ID, product.ID, 1)

	_, err := svc.Checkout(CheckoutInput{UserID: buyer.ID, DeliveryLocation: "   "})
	if !errors.Is(err, ErrDeliveryLocationRequired) {
		t.Fatalf("want ErrDeliveryLocationRequired got %v", err)
	}
}

func TestCheckoutInsufficientStockRollsEverythingBack(t *testing.T) {
	svc, db := setupCheckoutServiceTest(t)
	buyer := createCheckoutUser(t, db, 1, constants.RoleBuyer, "Bih")
	sellerX := createCheckoutUser(t, db, 2, constants.RoleFarmer, "Xavier")
	sellerY := createCheckoutUser(t, db, 3, constants.RoleFarmer, "Yola")

	ok := createCheckoutProduct(t, db, sellerX, "tomatoes", 500, 10)
	short := createCheckoutProduct(t, db, sellerY, "plantains", 300, 1)
	addCartLine(t, db, buyer.ID, ok.ID, 2)
	addCartLine(t, db, buyer.ID, short.ID, 3)

	_, err := svc.Checkout(CheckoutInput{UserID: buyer.ID, DeliveryLocation: "Molyko"})
	if !errors.Is(err, ErrInsufficientStock) {
		t.Fatalf("want ErrInsufficientStock got %v", err)
	}

	var orderCount int64
	if err := db.Model(&models.Order{}).Count(&orderCount).Error; err != nil {
		t.Fatalf("count orders failed: %v", err)
	}
	if orderCount != 0 {
		t.Fatalf("expected no orders after rollback, got %d", orderCount)
	}

	var got models.Product
	if err := db.First(&got, ok.ID).Error; err != nil {
		t.Fatalf("reload product failed: %v", err)
	}
	if got.Stock != 10 {
		t.Fatalf("stock want 10 after rollback got %d", got.Stock)
	}

	var cartCount int64
	if err := db.Model(&models.CartItem{}).Where("user_id = ?", buyer.ID).Count(&cartCount).Error; err != nil {
		t.Fatalf("count cart failed: %v", err)
	}
	if cartCount != 2 {
		t.Fatalf("cart want 2 lines intact got %d", cartCount)
	}
}

func TestPreviewPricesWithoutCreatingOrders(t *testing.T) {
	svc, db := setupCheckoutServiceTest(t)
	buyer := createCheckoutUser(t, db, 1, constants.RoleBuyer, "Bih")
	sellerX := createCheckoutUser(t, db, 2, constants.RoleFarmer, "Xavier")
	sellerY := createCheckoutUser(t, db, 3, constants.RoleFarmer, "Yola")

	a := createCheckoutProduct(t, db, sellerX, "tomatoes", 500, 10)
	b := createCheckoutProduct(t, db, sellerY, "plantains", 300, 10)
	addCartLine(t, db, buyer.ID, a.ID, 2)
	addCartLine(t, db, buyer.ID, b.ID, 1)

	preview, err := svc.Preview(buyer.ID)
	if err != nil {
		t.Fatalf("preview failed: %v", err)
	}
	if len(preview.Groups) != 2 {
		t.Fatalf("groups want 2 got %d", len(preview.Groups))
	}
	if !preview.Subtotal.Decimal.Equal(decimal.NewFromInt(1300)) {
		t.Fatalf("subtotal want 1300 got %s", preview.Subtotal.Decimal)
	}
	if !preview.DeliveryFee.Decimal.Equal(decimal.NewFromInt(1400)) {
		t.Fatalf("delivery fee want 1400 got %s", preview.DeliveryFee.Decimal)
	}
	if !preview.TotalAmount.Decimal.Equal(decimal.NewFromInt(2700)) {
		t.Fatalf("total want 2700 got %s", preview.TotalAmount.Decimal)
	}

	var orderCount int64
	if err := db.Model(&models.Order{}).Count(&orderCount).Error; err != nil {
		t.Fatalf("count orders failed: %v", err)
	}
	if orderCount != 0 {
		t.Fatalf("preview must not create orders, got %d", orderCount)
	}
}
