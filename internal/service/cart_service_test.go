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

func setupCartServiceTest(t *testing.T) (*CartService, *gorm.DB) {
	t.Helper()
	dsn := fmt.Sprintf("file:cart_service_test_%d?mode=memory&cache=shared", time.Now().UnixNano())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("open sqlite failed: %v", err)
	}
	if err := db.AutoMigrate(&models.Product{}, &models.CartItem{}); err != nil {
		t.Fatalf("auto migrate failed: %v", err)
	}
	models.DB = db
	return NewCartService(repository.NewCartRepository(db), repository.NewProductRepository(db)), db
}

func createCartServiceProduct(t *testing.T, db *gorm.DB, name string, price int64, stock int, available bool) *models.Product {
	t.Helper()
	product := &models.Product{
		FarmerID:    77,
		FarmerName:  "Cart Farm",
		Name:        name,
		Price:       models.NewMoneyFromDecimal(decimal.NewFromInt(price)),
		Currency:    constants.Currency,
		Category:    constants.CategoryVegetables,
		Stock:       stock,
		IsAvailable: available,
	}
	if err := db.Create(product).Error; err != nil {
		t.Fatalf("create product failed: %v", err)
	}
	// The is_available column has default:true, so GORM drops the zero value
	// on insert; persist false explicitly.
	if !available {
		if err := db.Model(product).Update("is_available", false).Error; err != nil {
			t.Fatalf("mark product unavailable failed: %v", err)
		}
	}
	return product
}

func TestAddItemMergeClampedAtStock(t *testing.T) {
	svc, db := setupCartServiceTest(t)
	product := createCartServiceProduct(t, db, "clamp-tomatoes", 500, 5, true)

	if err := svc.AddItem(1, product.ID, 3); err != nil {
		t.Fatalf("first add failed: %v", err)
	}
	if err := svc.AddItem(1, product.ID, 4); err != nil {
		t.Fatalf("second add failed: %v", err)
	}

	var item models.CartItem
	if err := db.Where("user_id = ? AND product_id = ?", 1, product.ID).First(&item).Error; err != nil {
		t.Fatalf("load cart item failed: %v", err)
	}
	if item.Quantity != 5 {
		t.Fatalf("quantity want 5 (clamped) got %d", item.Quantity)
	}
}

func TestAddItemRejectsUnavailableAndSoldOut(t *testing.T) {
	svc, db := setupCartServiceTest(t)
	hidden := createCartServiceProduct(t, db, "hidden-okra", 200, 5, false)
	soldOut := createCartServiceProduct(t, db, "soldout-maize", 200, 0, true)

	if err := svc.AddItem(1, hidden.ID, 1); !errors.Is(err, ErrProductNotAvailable) {
		t.Fatalf("want ErrProductNotAvailable got %v", err)
	}
	if err := svc.AddItem(1, soldOut.ID, 1); !errors.Is(err, ErrInsufficientStock) {
		t.Fatalf("want ErrInsufficientStock got %v", err)
	}
}

func TestSetQuantityZeroRemovesLine(t *testing.T) {
	svc, db := setupCartServiceTest(t)
	product := createCartServiceProduct(t, db, "remove-beans", 400, 10, true)

	if err := svc.AddItem(1, product.ID, 2); err != nil {
		t.Fatalf("add failed: %v", err)
	}
	if err := svc.SetQuantity(1, product.ID, 0); err != nil {
		t.Fatalf("set quantity zero failed: %v", err)
	}

	var count int64
	if err := db.Model(&models.CartItem{}).Where("user_id = ?", 1).Count(&count).Error; err != nil {
		t.Fatalf("count cart failed: %v", err)
	}
	if count != 0 {
		t.Fatalf("cart want empty got %d lines", count)
	}
}

func TestSetQuantityClampedAtStock(t *testing.T) {
	svc, db := setupCartServiceTest(t)
	product := createCartServiceProduct(t, db, "overstock-yams", 300, 4, true)

	if err := svc.AddItem(1, product.ID, 2); err != nil {
		t.Fatalf("add failed: %v", err)
	}
	if err := svc.SetQuantity(1, product.ID, 9); err != nil {
		t.Fatalf("set quantity above stock failed: %v", err)
	}

	var item models.CartItem
	if err := db.Where("user_id = ? AND product_id = ?", 1, product.ID).First(&item).Error; err != nil {
		t.Fatalf("load cart item failed: %v", err)
	}
	if item.Quantity != 4 {
		t.Fatalf("quantity want 4 (clamped) got %d", item.Quantity)
	}
}

func TestClearIsIdempotent(t *testing.T) {
	svc, db := setupCartServiceTest(t)
	product := createCartServiceProduct(t, db, "clear-cassava", 250, 10, true)

	if err := svc.AddItem(1, product.ID, 3); err != nil {
		t.Fatalf("add failed: %v", err)
	}
	if err := svc.Clear(1); err != nil {
		t.Fatalf("first clear failed: %v", err)
	}
	if err := svc.Clear(1); err != nil {
		t.Fatalf("clear on empty cart failed: %v", err)
	}

	summary, err := svc.ListByUser(1)
	if err != nil {
		t.Fatalf("list cart failed: %v", err)
	}
	if len(summary.Items) != 0 || summary.ItemCount != 0 {
		t.Fatalf("cart not empty after clear: %+v", summary)
	}
	if !summary.Subtotal.Decimal.IsZero() {
		t.Fatalf("subtotal want 0 got %s", summary.Subtotal.Decimal)
	}
}

func TestListDropsVanishedProducts(t *testing.T) {
	svc, db := setupCartServiceTest(t)
	live := createCartServiceProduct(t, db, "live-pepper", 150, 10, true)
	gone := createCartServiceProduct(t, db, "gone-carrots", 150, 10, true)

	if err := svc.AddItem(1, live.ID, 2); err != nil {
		t.Fatalf("add live failed: %v", err)
	}
	if err := svc.AddItem(1, gone.ID, 1); err != nil {
		t.Fatalf("add gone failed: %v", err)
	}
	if err := db.Model(&models.Product{}).Where("id = ?", gone.ID).Update("is_available", false).Error; err != nil {
		t.Fatalf("hide product failed: %v", err)
	}

	summary, err := svc.ListByUser(1)
	if err != nil {
		t.Fatalf("list cart failed: %v", err)
	}
	if len(summary.Items) != 1 || summary.Items[0].ProductID != live.ID {
		t.Fatalf("unexpected cart lines: %+v", summary.Items)
	}
	if !summary.Subtotal.Decimal.Equal(decimal.NewFromInt(300)) {
		t.Fatalf("subtotal want 300 got %s", summary.Subtotal.Decimal)
	}

	var count int64
	if err := db.Model(&models.CartItem{}).Where("user_id = ?", 1).Count(&count).Error; err != nil {
		t.Fatalf("count cart failed: %v", err)
	}
	if count != 1 {
		t.Fatalf("stale line not pruned, %d lines left", count)
	}
}
