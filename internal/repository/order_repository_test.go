package repository

import (
	"fmt"
	"testing"
	"time"

	"github.com/agromate/agromate-api/internal/constants"
	"github.com/agromate/agromate-api/internal/models"

	"github.com/glebarez/sqlite"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

func setupOrderRepositoryTest(t *testing.T) (*GormOrderRepository, *gorm.DB) {
	t.Helper()
	dsn := fmt.Sprintf("file:order_repo_test_%d?mode=memory&cache=shared", time.Now().UnixNano())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("open sqlite failed: %v", err)
	}
	if err := db.AutoMigrate(&models.Order{}, &models.OrderItem{}); err != nil {
		t.Fatalf("migrate order failed: %v", err)
	}
	return NewOrderRepository(db), db
}

func createTestOrder(t *testing.T, repo *GormOrderRepository, orderNo string, buyerID, farmerID uint, status string) *models.Order {
	t.Helper()
	order := &models.Order{
		OrderNo:          orderNo,
		BuyerID:          buyerID,
		BuyerName:        "Test Buyer",
		FarmerID:         farmerID,
		FarmerName:       "Test Farmer",
		ItemsCount:       1,
		Subtotal:         models.NewMoneyFromDecimal(decimal.NewFromInt(1000)),
		DeliveryFee:      models.NewMoneyFromDecimal(decimal.NewFromInt(700)),
		Discount:         models.NewMoneyFromDecimal(decimal.Zero),
		TotalAmount:      models.NewMoneyFromDecimal(decimal.NewFromInt(1700)),
		Currency:         constants.Currency,
		DeliveryLocation: "Molyko, Buea",
		Status:           status,
		Items: []models.OrderItem{{
			ProductID:   1,
			ProductName: "Tomatoes",
			UnitPrice:   models.NewMoneyFromDecimal(decimal.NewFromInt(500)),
			Quantity:    2,
			TotalPrice:  models.NewMoneyFromDecimal(decimal.NewFromInt(1000)),
		}},
	}
	if err := repo.Create(order); err != nil {
		t.Fatalf("create order failed: %v", err)
	}
	return order
}

func TestOrderCreatePersistsItems(t *testing.T) {
	repo, _ := setupOrderRepositoryTest(t)
	order := createTestOrder(t, repo, "AGM-ITEMS-1", 401, 501, constants.OrderStatusPending)

	got, err := repo.GetByID(order.ID)
	if err != nil {
		t.Fatalf("get order failed: %v", err)
	}
	if got == nil {
		t.Fatalf("order not found")
	}
	if len(got.Items) != 1 {
		t.Fatalf("items want 1 got %d", len(got.Items))
	}
	if got.Items[0].OrderID != order.ID {
		t.Fatalf("item order id want %d got %d", order.ID, got.Items[0].OrderID)
	}
}

func TestOrderListScopesByRoleFilters(t *testing.T) {
	repo, _ := setupOrderRepositoryTest(t)
	createTestOrder(t, repo, "AGM-SCOPE-1", 402, 502, constants.OrderStatusPending)
	createTestOrder(t, repo, "AGM-SCOPE-2", 402, 503, constants.OrderStatusConfirmed)
	createTestOrder(t, repo, "AGM-SCOPE-3", 403, 502, constants.OrderStatusConfirmed)

	orders, total, err := repo.List(OrderListFilter{Page: 1, PageSize: 100, BuyerID: 402})
	if err != nil {
		t.Fatalf("list buyer orders failed: %v", err)
	}
	if total != 2 {
		t.Fatalf("buyer total want 2 got %d", total)
	}

	orders, total, err = repo.List(OrderListFilter{Page: 1, PageSize: 100, FarmerID: 502, Status: constants.OrderStatusConfirmed})
	if err != nil {
		t.Fatalf("list farmer orders failed: %v", err)
	}
	if total != 1 {
		t.Fatalf("farmer confirmed total want 1 got %d", total)
	}
	if orders[0].OrderNo != "AGM-SCOPE-3" {
		t.Fatalf("unexpected farmer order: %+v", orders[0])
	}
}

func TestOrderClaimOnlyOnceAndOnlyConfirmed(t *testing.T) {
	repo, _ := setupOrderRepositoryTest(t)
	pending := createTestOrder(t, repo, "AGM-CLAIM-1", 404, 504, constants.OrderStatusPending)
	confirmed := createTestOrder(t, repo, "AGM-CLAIM-2", 404, 504, constants.OrderStatusConfirmed)

	affected, err := repo.Claim(pending.ID, 601, "Rider One")
	if err != nil {
		t.Fatalf("claim pending failed: %v", err)
	}
	if affected != 0 {
		t.Fatalf("claim pending affected want 0 got %d", affected)
	}

	affected, err = repo.Claim(confirmed.ID, 601, "Rider One")
	if err != nil {
		t.Fatalf("claim confirmed failed: %v", err)
	}
	if affected != 1 {
		t.Fatalf("claim confirmed affected want 1 got %d", affected)
	}

	affected, err = repo.Claim(confirmed.ID, 602, "Rider Two")
	if err != nil {
		t.Fatalf("second claim failed: %v", err)
	}
	if affected != 0 {
		t.Fatalf("second claim affected want 0 got %d", affected)
	}

	got, err := repo.GetByID(confirmed.ID)
	if err != nil {
		t.Fatalf("reload claimed order failed: %v", err)
	}
	if got.DeliveryPersonID == nil || *got.DeliveryPersonID != 601 {
		t.Fatalf("delivery person want 601 got %+v", got.DeliveryPersonID)
	}

	unassigned, total, err := repo.List(OrderListFilter{Page: 1, PageSize: 100, Status: constants.OrderStatusConfirmed, Unassigned: true})
	if err != nil {
		t.Fatalf("list unassigned failed: %v", err)
	}
	for _, order := range unassigned {
		if order.ID == confirmed.ID {
			t.Fatalf("claimed order still listed as unassigned, total=%d", total)
		}
	}
}
