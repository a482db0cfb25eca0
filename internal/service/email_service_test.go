package service

import (
	"strings"
	"testing"
	"time"

	"github.com/agromate/agromate-api/internal/config"
	"github.com/agromate/agromate-api/internal/constants"
	"github.com/agromate/agromate-api/internal/models"

	"github.com/shopspring/decimal"
)

func TestOrderStatusContentConfirmed(t *testing.T) {
	subject, body := buildOrderStatusContent(OrderStatusEmailInput{
		OrderNo:    "AGM-100",
		Status:     constants.OrderStatusConfirmed,
		FarmerName: "Marie Ngono",
		Amount:     models.NewMoneyFromDecimal(decimal.NewFromInt(71300)),
		Currency:   constants.Currency,
	})
	if subject != "Order AGM-100 confirmed" {
		t.Fatalf("unexpected subject %q", subject)
	}
	if !strings.Contains(body, "Marie Ngono") || !strings.Contains(body, "71,300 XAF") {
		t.Fatalf("body missing farmer or formatted total: %q", body)
	}
	if strings.Contains(body, "Status changed on") {
		t.Fatalf("zero timestamp must not render a change line: %q", body)
	}
}

func TestOrderStatusContentIncludesChangeTime(t *testing.T) {
	changedAt := time.Date(2026, 1, 9, 15, 4, 0, 0, time.UTC)
	_, body := buildOrderStatusContent(OrderStatusEmailInput{
		OrderNo:   "AGM-101",
		Status:    constants.OrderStatusDelivering,
		ChangedAt: changedAt,
	})
	if !strings.Contains(body, "Status changed on Jan 9, 2026 at 3:04 PM.") {
		t.Fatalf("body missing change timestamp: %q", body)
	}
}

func TestSendOrderStatusEmailDisabled(t *testing.T) {
	svc := NewEmailService(&config.EmailConfig{Enabled: false})
	err := svc.SendOrderStatusEmail("buyer@example.com", OrderStatusEmailInput{OrderNo: "AGM-102"})
	if err != ErrEmailServiceDisabled {
		t.Fatalf("want ErrEmailServiceDisabled got %v", err)
	}
}
