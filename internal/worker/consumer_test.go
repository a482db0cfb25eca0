package worker

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/agromate/agromate-api/internal/config"
	"github.com/agromate/agromate-api/internal/constants"
	"github.com/agromate/agromate-api/internal/models"
	"github.com/agromate/agromate-api/internal/provider"
	"github.com/agromate/agromate-api/internal/queue"
	"github.com/agromate/agromate-api/internal/repository"
	"github.com/agromate/agromate-api/internal/service"

	"github.com/glebarez/sqlite"
	"github.com/hibiken/asynq"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

func setupConsumerTest(t *testing.T) (*Consumer, *gorm.DB) {
	t.Helper()
	dsn := fmt.Sprintf("file:consumer_test_%d?mode=memory&cache=shared", time.Now().UnixNano())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("open sqlite failed: %v", err)
	}
	if err := db.AutoMigrate(
		&models.User{},
		&models.Order{},
		&models.OrderItem{},
		&models.Notification{},
	); err != nil {
		t.Fatalf("auto migrate failed: %v", err)
	}
	models.DB = db

	container := &provider.Container{
		UserRepo:            repository.NewUserRepository(db),
		OrderRepo:           repository.NewOrderRepository(db),
		NotificationService: service.NewNotificationService(repository.NewNotificationRepository(db)),
		EmailService:        service.NewEmailService(&config.EmailConfig{Enabled: false}),
	}
	return NewConsumer(container), db
}

func createConsumerOrder(t *testing.T, db *gorm.DB, orderNo string, buyerID uint) *models.Order {
	t.Helper()
	order := &models.Order{
		OrderNo:          orderNo,
		BuyerID:          buyerID,
		BuyerName:        "Worker Buyer",
		BuyerEmail:       fmt.Sprintf("worker_buyer_%d@example.com", buyerID),
		FarmerID:         buyerID + 100,
		FarmerName:       "Worker Farmer",
		ItemsCount:       1,
		Subtotal:         models.NewMoneyFromDecimal(decimal.NewFromInt(1000)),
		DeliveryFee:      models.NewMoneyFromDecimal(decimal.NewFromInt(700)),
		TotalAmount:      models.NewMoneyFromDecimal(decimal.NewFromInt(1700)),
		Currency:         constants.Currency,
		DeliveryLocation: "Douala",
		Status:           constants.OrderStatusConfirmed,
	}
	if err := db.Create(order).Error; err != nil {
		t.Fatalf("create order failed: %v", err)
	}
	return order
}

func TestHandleOrderNotificationCreatesRow(t *testing.T) {
	consumer, db := setupConsumerTest(t)

	task, err := queue.NewOrderNotificationTask(queue.OrderNotificationPayload{
		UserID:  7,
		OrderID: 42,
		Type:    constants.NotificationTypeOrder,
		Title:   "Order confirmed",
		Message: "Your order AGM-1 was confirmed.",
	})
	if err != nil {
		t.Fatalf("build task failed: %v", err)
	}
	if err := consumer.handleOrderNotification(context.Background(), task); err != nil {
		t.Fatalf("handle notification failed: %v", err)
	}

	var notification models.Notification
	if err := db.Where("user_id = ?", 7).First(&notification).Error; err != nil {
		t.Fatalf("load notification failed: %v", err)
	}
	if notification.Title != "Order confirmed" {
		t.Fatalf("unexpected title %q", notification.Title)
	}
	if notification.RelatedEntityID != 42 {
		t.Fatalf("unexpected related entity id %d", notification.RelatedEntityID)
	}
	if notification.IsRead {
		t.Fatalf("new notification must be unread")
	}
}

func TestHandleOrderNotificationSkipsZeroUser(t *testing.T) {
	consumer, db := setupConsumerTest(t)

	task, err := queue.NewOrderNotificationTask(queue.OrderNotificationPayload{
		OrderID: 1,
		Title:   "Orphan event",
	})
	if err != nil {
		t.Fatalf("build task failed: %v", err)
	}
	if err := consumer.handleOrderNotification(context.Background(), task); err != nil {
		t.Fatalf("expected skip, got error: %v", err)
	}

	var count int64
	if err := db.Model(&models.Notification{}).Count(&count).Error; err != nil {
		t.Fatalf("count notifications failed: %v", err)
	}
	if count != 0 {
		t.Fatalf("expected no notifications, got %d", count)
	}
}

func TestHandleOrderNotificationRejectsGarbagePayload(t *testing.T) {
	consumer, _ := setupConsumerTest(t)

	task := asynq.NewTask(queue.TaskOrderNotification, []byte("{not json"))
	if err := consumer.handleOrderNotification(context.Background(), task); err == nil {
		t.Fatalf("expected unmarshal error")
	}
}

func TestHandleOrderStatusEmailSkipsMissingOrder(t *testing.T) {
	consumer, _ := setupConsumerTest(t)

	task, err := queue.NewOrderStatusEmailTask(queue.OrderStatusEmailPayload{
		OrderID: 9999,
		Status:  constants.OrderStatusConfirmed,
	})
	if err != nil {
		t.Fatalf("build task failed: %v", err)
	}
	if err := consumer.handleOrderStatusEmail(context.Background(), task); err != nil {
		t.Fatalf("expected missing order to be skipped, got: %v", err)
	}
}

func TestHandleOrderStatusEmailDisabledServiceIsSkip(t *testing.T) {
	consumer, db := setupConsumerTest(t)

	buyer := &models.User{
		ID:           21,
		Email:        "worker_buyer_21@example.com",
		PasswordHash: "hash",
		FirstName:    "Worker",
		LastName:     "Buyer",
		Role:         constants.RoleBuyer,
		Status:       constants.UserStatusActive,
	}
	if err := db.Create(buyer).Error; err != nil {
		t.Fatalf("create buyer failed: %v", err)
	}
	order := createConsumerOrder(t, db, "AGM-WORKER-1", buyer.ID)

	task, err := queue.NewOrderStatusEmailTask(queue.OrderStatusEmailPayload{
		OrderID: order.ID,
		Status:  constants.OrderStatusDelivering,
	})
	if err != nil {
		t.Fatalf("build task failed: %v", err)
	}
	// Mail transport is disabled in the fixture: the task must complete
	// without a retryable error.
	if err := consumer.handleOrderStatusEmail(context.Background(), task); err != nil {
		t.Fatalf("expected disabled mailer to be a skip, got: %v", err)
	}
}
