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

func setupCartRepositoryTest(t *testing.T) (*GormCartRepository, *gorm.DB) {
	t.Helper()
	dsn := fmt.Sprintf("file:cart_repo_test_%d?mode=memory&cache=shared", time.Now().UnixNano())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("open sqlite failed: %v", err)
	}
	if err := db.AutoMigrate(&models.Product{}, &models.CartItem{}); err != nil {
		t.Fatalf("migrate cart failed: %v", err)
	}
	return NewCartRepository(db), db
}

func createCartProduct(t *testing.T, db *gorm.DB, name string, stock int) *models.Product {
	t.Helper()
	product := &models.Product{
		FarmerID:    201,
		FarmerName:  "Cart Farm",
		Name:        name,
		Price:       models.NewMoneyFromDecimal(decimal.NewFromInt(300)),
		Currency:    constants.Currency,
		Category:    constants.CategoryVegetables,
		Stock:       stock,
		IsAvailable: true,
	}
	if err := db.Create(product).Error; err != nil {
		t.Fatalf("create cart product failed: %v", err)
	}
	return product
}

func TestCartSaveAndListPreloadsProduct(t *testing.T) {
	repo, db := setupCartRepositoryTest(t)
	product := createCartProduct(t, db, "cart-preload-beans", 8)

	if err := repo.Save(&models.CartItem{UserID: 301, ProductID: product.ID, Quantity: 2}); err != nil {
		t.Fatalf("save cart item failed: %v", err)
	}

	items, err := repo.ListByUser(301)
	if err != nil {
		t.Fatalf("list cart failed: %v", err)
	}
	if len(items) != 1 {
		t.Fatalf("items want 1 got %d", len(items))
	}
	if items[0].Product == nil || items[0].Product.Name != "cart-preload-beans" {
		t.Fatalf("product not preloaded: %+v", items[0])
	}
}

func TestCartGetByUserAndProductMissingReturnsNil(t *testing.T) {
	repo, _ := setupCartRepositoryTest(t)
	item, err := repo.GetByUserAndProduct(302, 99999)
	if err != nil {
		t.Fatalf("get missing cart item failed: %v", err)
	}
	if item != nil {
		t.Fatalf("missing cart item want nil got %+v", item)
	}
}

func TestCartDeleteAndClear(t *testing.T) {
	repo, db := setupCartRepositoryTest(t)
	first := createCartProduct(t, db, "cart-clear-okra", 5)
	second := createCartProduct(t, db, "cart-clear-maize", 5)

	if err := repo.Save(&models.CartItem{UserID: 303, ProductID: first.ID, Quantity: 1}); err != nil {
		t.Fatalf("save first cart item failed: %v", err)
	}
	if err := repo.Save(&models.CartItem{UserID: 303, ProductID: second.ID, Quantity: 3}); err != nil {
		t.Fatalf("save second cart item failed: %v", err)
	}

	affected, err := repo.DeleteByUserAndProduct(303, first.ID)
	if err != nil {
		t.Fatalf("delete cart item failed: %v", err)
	}
	if affected != 1 {
		t.Fatalf("delete affected want 1 got %d", affected)
	}

	count, err := repo.CountByUser(303)
	if err != nil {
		t.Fatalf("count cart failed: %v", err)
	}
	if count != 1 {
		t.Fatalf("count want 1 got %d", count)
	}

	if err := repo.ClearByUser(303); err != nil {
		t.Fatalf("clear cart failed: %v", err)
	}
	count, err = repo.CountByUser(303)
	if err != nil {
		t.Fatalf("count after clear failed: %v", err)
	}
	if count != 0 {
		t.Fatalf("count after clear want 0 got %d", count)
	}
}
