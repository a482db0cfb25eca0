package queue

import (
	"encoding/json"

	"github.com/agromate/agromate-api/internal/constants"

	"github.com/hibiken/asynq"
)

const (
	// TaskOrderStatusEmail mails the buyer when an order changes status.
	TaskOrderStatusEmail = constants.TaskOrderStatusEmail
	// TaskOrderNotification fans an order event out to in-app notifications.
	TaskOrderNotification = constants.TaskOrderNotification
)

// OrderStatusEmailPayload identifies the order and the status to announce.
type OrderStatusEmailPayload struct {
	OrderID uint   `json:"order_id"`
	Status  string `json:"status"`
}

// OrderNotificationPayload targets one user with an order event.
type OrderNotificationPayload struct {
	UserID  uint   `json:"user_id"`
	OrderID uint   `json:"order_id"`
	Type    string `json:"type"`
	Title   string `json:"title"`
	Message string `json:"message"`
}

// NewOrderStatusEmailTask builds the status email task.
func NewOrderStatusEmailTask(payload OrderStatusEmailPayload) (*asynq.Task, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TaskOrderStatusEmail, body), nil
}

// NewOrderNotificationTask builds the in-app notification task.
func NewOrderNotificationTask(payload OrderNotificationPayload) (*asynq.Task, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TaskOrderNotification, body), nil
}
