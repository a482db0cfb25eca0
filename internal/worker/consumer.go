package worker

import (
	"context"
	"encoding/json"
	"errors"
	"strings"

	"github.com/agromate/agromate-api/internal/logger"
	"github.com/agromate/agromate-api/internal/provider"
	"github.com/agromate/agromate-api/internal/queue"
	"github.com/agromate/agromate-api/internal/service"

	"github.com/hibiken/asynq"
)

// Consumer handles the async order tasks.
type Consumer struct {
	*provider.Container
}

// NewConsumer creates a consumer.
func NewConsumer(c *provider.Container) *Consumer {
	return &Consumer{Container: c}
}

// Register wires the task handlers onto the mux.
func (c *Consumer) Register(mux *asynq.ServeMux) {
	if c == nil || mux == nil {
		logger.Debugw("worker_register_skip_nil", "consumer_nil", c == nil, "mux_nil", mux == nil)
		return
	}
	mux.HandleFunc(queue.TaskOrderStatusEmail, c.handleOrderStatusEmail)
	mux.HandleFunc(queue.TaskOrderNotification, c.handleOrderNotification)
}

func (c *Consumer) handleOrderStatusEmail(_ context.Context, task *asynq.Task) error {
	if c == nil || task == nil {
		return nil
	}
	var payload queue.OrderStatusEmailPayload
	if err := json.Unmarshal(task.Payload(), &payload); err != nil {
		logger.Warnw("worker_order_status_email_unmarshal_failed", "error", err)
		return err
	}
	if payload.OrderID == 0 {
		logger.Debugw("worker_order_status_email_skip_invalid_payload", "order_id", payload.OrderID)
		return nil
	}

	order, err := c.OrderRepo.GetByID(payload.OrderID)
	if err != nil {
		logger.Warnw("worker_order_status_email_fetch_order_failed", "order_id", payload.OrderID, "error", err)
		return err
	}
	if order == nil {
		logger.Debugw("worker_order_status_email_skip_order_not_found", "order_id", payload.OrderID)
		return nil
	}

	buyer, err := c.UserRepo.GetByID(order.BuyerID)
	if err != nil {
		logger.Warnw("worker_order_status_email_fetch_buyer_failed", "order_id", order.ID, "buyer_id", order.BuyerID, "error", err)
		return err
	}
	if buyer == nil || strings.TrimSpace(buyer.Email) == "" {
		logger.Debugw("worker_order_status_email_skip_empty_receiver", "order_id", order.ID, "order_no", order.OrderNo)
		return nil
	}

	status := strings.TrimSpace(payload.Status)
	if status == "" {
		status = order.Status
	}

	err = c.EmailService.SendOrderStatusEmail(buyer.Email, service.OrderStatusEmailInput{
		OrderNo:    order.OrderNo,
		Status:     status,
		FarmerName: order.FarmerName,
		Amount:     order.TotalAmount,
		Currency:   order.Currency,
		ChangedAt:  order.UpdatedAt,
	})
	if err != nil {
		switch {
		case errors.Is(err, service.ErrEmailServiceDisabled),
			errors.Is(err, service.ErrEmailServiceNotConfigured):
			logger.Debugw("worker_order_status_email_skip_disabled", "order_id", order.ID)
			return nil
		case errors.Is(err, service.ErrEmailRecipientRejected):
			logger.Warnw("worker_order_status_email_recipient_rejected",
				"order_id", order.ID,
				"order_no", order.OrderNo,
			)
			return nil
		default:
			logger.Warnw("worker_order_status_email_send_failed",
				"order_id", order.ID,
				"order_no", order.OrderNo,
				"status", status,
				"error", err,
			)
			return err
		}
	}
	return nil
}

func (c *Consumer) handleOrderNotification(_ context.Context, task *asynq.Task) error {
	if c == nil || task == nil {
		return nil
	}
	var payload queue.OrderNotificationPayload
	if err := json.Unmarshal(task.Payload(), &payload); err != nil {
		logger.Warnw("worker_order_notification_unmarshal_failed", "error", err)
		return err
	}
	if payload.UserID == 0 {
		logger.Debugw("worker_order_notification_skip_invalid_payload", "user_id", payload.UserID)
		return nil
	}

	_, err := c.NotificationService.Create(service.CreateNotificationInput{
		UserID:          payload.UserID,
		Type:            payload.Type,
		Title:           payload.Title,
		Message:         payload.Message,
		RelatedEntityID: payload.OrderID,
	})
	if err != nil {
		if errors.Is(err, service.ErrNotificationInvalid) {
			logger.Debugw("worker_order_notification_skip_invalid", "user_id", payload.UserID, "order_id", payload.OrderID)
			return nil
		}
		logger.Warnw("worker_order_notification_create_failed",
			"user_id", payload.UserID,
			"order_id", payload.OrderID,
			"error", err,
		)
		return err
	}
	return nil
}
