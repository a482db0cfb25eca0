package service

import (
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/agromate/agromate-api/internal/constants"
	"github.com/agromate/agromate-api/internal/models"
	"github.com/agromate/agromate-api/internal/repository"

	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
)

func setupNotificationServiceTest(t *testing.T) (*NotificationService, *gorm.DB) {
	t.Helper()
	dsn := fmt.Sprintf("file:notification_service_test_%d?mode=memory&cache=shared", time.Now().UnixNano())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("open sqlite failed: %v", err)
	}
	if err := db.AutoMigrate(&models.Notification{}); err != nil {
		t.Fatalf("auto migrate failed: %v", err)
	}
	models.DB = db
	return NewNotificationService(repository.NewNotificationRepository(db)), db
}

func TestCreateNotificationTruncatesLongText(t *testing.T) {
	svc, _ := setupNotificationServiceTest(t)

	created, err := svc.Create(CreateNotificationInput{
		UserID:  5,
		Type:    constants.NotificationTypeOrder,
		Title:   strings.Repeat("t", 300),
		Message: strings.Repeat("m", 900),
	})
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}
	if got := len([]rune(created.Title)); got != notificationTitleMax+3 {
		t.Fatalf("title length want %d got %d", notificationTitleMax+3, got)
	}
	if !strings.HasSuffix(created.Title, "...") {
		t.Fatalf("truncated title must end with ellipsis: %q", created.Title)
	}
	if got := len([]rune(created.Message)); got != notificationMessageMax+3 {
		t.Fatalf("message length want %d got %d", notificationMessageMax+3, got)
	}
}

func TestCreateNotificationRejectsMissingUserOrTitle(t *testing.T) {
	svc, db := setupNotificationServiceTest(t)

	if _, err := svc.Create(CreateNotificationInput{Title: "no user"}); !errors.Is(err, ErrNotificationInvalid) {
		t.Fatalf("want ErrNotificationInvalid got %v", err)
	}
	if _, err := svc.Create(CreateNotificationInput{UserID: 5}); !errors.Is(err, ErrNotificationInvalid) {
		t.Fatalf("want ErrNotificationInvalid got %v", err)
	}

	var count int64
	if err := db.Model(&models.Notification{}).Count(&count).Error; err != nil {
		t.Fatalf("count notifications failed: %v", err)
	}
	if count != 0 {
		t.Fatalf("want no notifications got %d", count)
	}
}
