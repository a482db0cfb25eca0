package service

import (
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/agromate/agromate-api/internal/constants"
	"github.com/agromate/agromate-api/internal/models"
	"github.com/agromate/agromate-api/internal/repository"

	"github.com/glebarez/sqlite"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

func setupOrderServiceTest(t *testing.T) (*OrderService, *gorm.DB) {
	t.Helper()
	dsn := fmt.Sprintf("file:order_service_test_%d?mode=memory&cache=shared", time.Now().UnixNano())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("open sqlite failed: %v", err)
	}
	if err := db.AutoMigrate(
		&models.User{},
		&models.Product{},
		&models.Order{},
		&models.OrderItem{},
	); err != nil {
		t.Fatalf("auto migrate failed: %v", err)
	}
	models.DB = db

	svc := NewOrderService(
		repository.NewOrderRepository(db),
		repository.NewProductRepository(db),
		repository.NewUserRepository(db),
		nil,
	)
	return svc, db
}

func createOrderServiceUser(t *testing.T, db *gorm.DB, id uint, role, firstName string) *models.User {
	t.Helper()
	user := &models.User{
		ID:           id,
		Email:        fmt.Sprintf("order_user_%d@example.com", id),
		PasswordHash: "hash",
		FirstName:    firstName,
		LastName:     "Test",
		Role:         role,
		Status:       constants.UserStatusActive,
	}
	if err := db.Create(user).Error; err != nil {
		t.Fatalf("create user failed: %v", err)
	}
	return user
}

func createLifecycleOrder(t *testing.T, db *gorm.DB, orderNo string, buyerID, farmerID uint, status string, items []models.OrderItem) *models.Order {
	t.Helper()
	order := &models.Order{
		OrderNo:          orderNo,
		BuyerID:          buyerID,
		BuyerName:        "Order Buyer",
		FarmerID:         farmerID,
		FarmerName:       "Order Farmer",
		ItemsCount:       len(items),
		Subtotal:         models.NewMoneyFromDecimal(decimal.NewFromInt(1000)),
		DeliveryFee:      models.NewMoneyFromDecimal(decimal.NewFromInt(700)),
		Discount:         models.NewMoneyFromDecimal(decimal.Zero),
		TotalAmount:      models.NewMoneyFromDecimal(decimal.NewFromInt(1700)),
		Currency:         constants.Currency,
		DeliveryLocation: "Molyko",
		Status:           status,
		Items:            items,
	}
	if err := db.Create(order).Error; err != nil {
		t.Fatalf("create order failed: %v", err)
	}
	return order
}

func TestFarmerStatusProgression(t *testing.T) {
	svc, db := setupOrderServiceTest(t)
	farmer := createOrderServiceUser(t, db, 2, constants.RoleFarmer, "Xavier")
	order := createLifecycleOrder(t, db, "AGM-LIFE-1", 1, farmer.ID, constants.OrderStatusPending, nil)

	got, err := svc.FarmerUpdateStatus(order.ID, farmer.ID, constants.OrderStatusConfirmed)
	if err != nil {
		t.Fatalf("confirm failed: %v", err)
	}
	if got.Status != constants.OrderStatusConfirmed {
		t.Fatalf("status want confirmed got %s", got.Status)
	}

	if _, err := svc.FarmerUpdateStatus(order.ID, farmer.ID, constants.OrderStatusDelivering); !errors.Is(err, ErrOrderStatusInvalid) {
		t.Fatalf("skipping preparing should fail, got %v", err)
	}

	if _, err := svc.FarmerUpdateStatus(order.ID, farmer.ID, constants.OrderStatusPreparing); err != nil {
		t.Fatalf("prepare failed: %v", err)
	}
	if _, err := svc.FarmerUpdateStatus(order.ID, farmer.ID, constants.OrderStatusDelivering); err != nil {
		t.Fatalf("delivering failed: %v", err)
	}
}

func TestFarmerCannotTouchForeignOrder(t *testing.T) {
	svc, db := setupOrderServiceTest(t)
	farmer := createOrderServiceUser(t, db, 2, constants.RoleFarmer, "Xavier")
	other := createOrderServiceUser(t, db, 3, constants.RoleFarmer, "Yola")
	order := createLifecycleOrder(t, db, "AGM-FOREIGN-1", 1, farmer.ID, constants.OrderStatusPending, nil)

	if _, err := svc.FarmerUpdateStatus(order.ID, other.ID, constants.OrderStatusConfirmed); !errors.Is(err, ErrOrderNotFound) {
		t.Fatalf("want ErrOrderNotFound got %v", err)
	}
}

func TestDeliveryClaimThenDeliverSetsTimestamp(t *testing.T) {
	svc, db := setupOrderServiceTest(t)
	rider := createOrderServiceUser(t, db, 5, constants.RoleDelivery, "Riba")
	order := createLifecycleOrder(t, db, "AGM-RIDE-1", 1, 2, constants.OrderStatusConfirmed, nil)

	claimed, err := svc.ClaimForDelivery(order.ID, rider.ID)
	if err != nil {
		t.Fatalf("claim failed: %v", err)
	}
	if claimed.DeliveryPersonID == nil || *claimed.DeliveryPersonID != rider.ID {
		t.Fatalf("rider not recorded: %+v", claimed.DeliveryPersonID)
	}

	if _, err := svc.ClaimForDelivery(order.ID, rider.ID); !errors.Is(err, ErrOrderAlreadyClaimed) {
		t.Fatalf("second claim want ErrOrderAlreadyClaimed got %v", err)
	}

	// Farmer moves it through preparing into delivering before handoff.
	if _, err := svc.FarmerUpdateStatus(order.ID, 2, constants.OrderStatusPreparing); err != nil {
		t.Fatalf("prepare failed: %v", err)
	}
	if _, err := svc.FarmerUpdateStatus(order.ID, 2, constants.OrderStatusDelivering); err != nil {
		t.Fatalf("delivering failed: %v", err)
	}

	delivered, err := svc.DeliveryUpdateStatus(order.ID, rider.ID, constants.OrderStatusDelivered)
	if err != nil {
		t.Fatalf("delivered failed: %v", err)
	}
	if delivered.DeliveredAt == nil {
		t.Fatalf("delivered_at not set")
	}
}

func TestBuyerCancelRestocksWithinWindow(t *testing.T) {
	svc, db := setupOrderServiceTest(t)
	buyer := createOrderServiceUser(t, db, 1, constants.RoleBuyer, "Bih")

	product := &models.Product{
		FarmerID:    2,
		FarmerName:  "Order Farmer",
		Name:        "cancel-tomatoes",
		Price:       models.NewMoneyFromDecimal(decimal.NewFromInt(500)),
		Currency:    constants.Currency,
		Category:    constants.CategoryVegetables,
		Stock:       8,
		IsAvailable: true,
	}
	if err := db.Create(product).Error; err != nil {
		t.Fatalf("create product failed: %v", err)
	}

	order := createLifecycleOrder(t, db, "AGM-CANCEL-1", buyer.ID, 2, constants.OrderStatusPending, []models.OrderItem{{
		ProductID:   product.ID,
		ProductName: product.Name,
		UnitPrice:   product.Price,
		Quantity:    2,
		TotalPrice:  models.NewMoneyFromDecimal(decimal.NewFromInt(1000)),
	}})

	cancelled, err := svc.BuyerCancel(order.ID, buyer.ID)
	if err != nil {
		t.Fatalf("cancel failed: %v", err)
	}
	if cancelled.Status != constants.OrderStatusCancelled {
		t.Fatalf("status want cancelled got %s", cancelled.Status)
	}
	if cancelled.CancelledAt == nil {
		t.Fatalf("cancelled_at not set")
	}

	var got models.Product
	if err := db.First(&got, product.ID).Error; err != nil {
		t.Fatalf("reload product failed: %v", err)
	}
	if got.Stock != 10 {
		t.Fatalf("stock want 10 after restock got %d", got.Stock)
	}
}

func TestBuyerCancelBlockedOncePreparing(t *testing.T) {
	svc, db := setupOrderServiceTest(t)
	buyer := createOrderServiceUser(t, db, 1, constants.RoleBuyer, "Bih")
	order := createLifecycleOrder(t, db, "AGM-CANCEL-2", buyer.ID, 2, constants.OrderStatusPreparing, nil)

	if _, err := svc.BuyerCancel(order.ID, buyer.ID); !errors.Is(err, ErrOrderStatusInvalid) {
		t.Fatalf("want ErrOrderStatusInvalid got %v", err)
	}
}

func TestAvailableForDeliveryExcludesClaimedAndPending(t *testing.T) {
	svc, db := setupOrderServiceTest(t)
	rider := createOrderServiceUser(t, db, 5, constants.RoleDelivery, "Riba")

	createLifecycleOrder(t, db, "AGM-AVAIL-1", 1, 2, constants.OrderStatusPending, nil)
	open := createLifecycleOrder(t, db, "AGM-AVAIL-2", 1, 2, constants.OrderStatusConfirmed, nil)
	claimed := createLifecycleOrder(t, db, "AGM-AVAIL-3", 1, 2, constants.OrderStatusConfirmed, nil)
	if _, err := svc.ClaimForDelivery(claimed.ID, rider.ID); err != nil {
		t.Fatalf("claim failed: %v", err)
	}

	orders, total, err := svc.ListAvailableForDelivery(1, 100)
	if err != nil {
		t.Fatalf("list available failed: %v", err)
	}
	if total != 1 || len(orders) != 1 || orders[0].ID != open.ID {
		t.Fatalf("unexpected available orders: total=%d %+v", total, orders)
	}
}

func TestFarmerStatsCounts(t *testing.T) {
	svc, db := setupOrderServiceTest(t)
	farmer := createOrderServiceUser(t, db, 2, constants.RoleFarmer, "Xavier")

	product := &models.Product{
		FarmerID:    farmer.ID,
		FarmerName:  "Order Farmer",
		Name:        "stats-okra",
		Price:       models.NewMoneyFromDecimal(decimal.NewFromInt(100)),
		Currency:    constants.Currency,
		Category:    constants.CategoryVegetables,
		Stock:       5,
		IsAvailable: true,
	}
	if err := db.Create(product).Error; err != nil {
		t.Fatalf("create product failed: %v", err)
	}

	createLifecycleOrder(t, db, "AGM-STATS-1", 1, farmer.ID, constants.OrderStatusPending, nil)
	createLifecycleOrder(t, db, "AGM-STATS-2", 1, farmer.ID, constants.OrderStatusConfirmed, nil)
	createLifecycleOrder(t, db, "AGM-STATS-3", 1, farmer.ID, constants.OrderStatusDelivered, nil)

	stats, err := svc.StatsForFarmer(farmer.ID)
	if err != nil {
		t.Fatalf("stats failed: %v", err)
	}
	if stats.TotalProducts != 1 || stats.PendingOrders != 1 || stats.ActiveOrders != 1 || stats.DeliveredOrders != 1 {
		t.Fatalf("unexpected stats: %+v", stats)
	}
}
