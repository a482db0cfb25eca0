package service

import (
	"github.com/agromate/agromate-api/internal/format"
	"github.com/agromate/agromate-api/internal/models"
	"github.com/agromate/agromate-api/internal/repository"
)

// Display caps keep list payloads small; longer text is cut with an ellipsis.
const (
	notificationTitleMax   = 120
	notificationMessageMax = 500
)

// NotificationService manages in-app notifications.
type NotificationService struct {
	notificationRepo repository.NotificationRepository
}

// NewNotificationService creates the notification service.
func NewNotificationService(notificationRepo repository.NotificationRepository) *NotificationService {
	return &NotificationService{notificationRepo: notificationRepo}
}

// CreateNotificationInput is the notification payload.
type CreateNotificationInput struct {
	UserID          uint
	Type            string
	Title           string
	Message         string
	RelatedEntityID uint
}

// Create stores a notification for a user.
func (s *NotificationService) Create(input CreateNotificationInput) (*models.Notification, error) {
	if input.UserID == 0 || input.Title == "" {
		return nil, ErrNotificationInvalid
	}
	notification := &models.Notification{
		UserID:          input.UserID,
		Type:            input.Type,
		Title:           format.Truncate(input.Title, notificationTitleMax),
		Message:         format.Truncate(input.Message, notificationMessageMax),
		RelatedEntityID: input.RelatedEntityID,
	}
	if err := s.notificationRepo.Create(notification); err != nil {
		return nil, err
	}
	return notification, nil
}

// ListForUser returns a user's notifications newest-first with the unread
// count alongside.
func (s *NotificationService) ListForUser(userID uint, onlyUnread bool, page, pageSize int) ([]models.Notification, int64, int64, error) {
	notifications, total, err := s.notificationRepo.List(repository.NotificationListFilter{
		Page:       page,
		PageSize:   pageSize,
		UserID:     userID,
		OnlyUnread: onlyUnread,
	})
	if err != nil {
		return nil, 0, 0, err
	}
	unread, err := s.notificationRepo.CountUnread(userID)
	if err != nil {
		return nil, 0, 0, err
	}
	return notifications, total, unread, nil
}

// MarkRead flags one notification as read.
func (s *NotificationService) MarkRead(id, userID uint) error {
	affected, err := s.notificationRepo.MarkRead(id, userID)
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrNotificationNotFound
	}
	return nil
}

// MarkAllRead flags every unread notification as read.
func (s *NotificationService) MarkAllRead(userID uint) error {
	if userID == 0 {
		return ErrUserNotFound
	}
	return s.notificationRepo.MarkAllRead(userID)
}
