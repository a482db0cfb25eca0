package models

import (
	"time"

	"gorm.io/gorm"
)

// Notification is an in-app message for a user (order/product/delivery events).
type Notification struct {
	ID              uint           `gorm:"primarykey" json:"id"`
	UserID          uint           `gorm:"index;not null" json:"user_id"`
	Type            string         `gorm:"type:varchar(20);not null" json:"type"`
	Title           string         `gorm:"not null" json:"title"`
	Message         string         `gorm:"type:text" json:"message"`
	RelatedEntityID uint           `gorm:"index" json:"related_entity_id"`
	IsRead          bool           `gorm:"default:false;index" json:"is_read"`
	CreatedAt       time.Time      `gorm:"index" json:"created_at"`
	DeletedAt       gorm.DeletedAt `gorm:"index" json:"-"`
}

// TableName sets the table name.
func (Notification) TableName() string {
	return "notifications"
}
