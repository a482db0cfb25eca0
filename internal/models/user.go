package models

import (
	"strings"
	"time"

	"gorm.io/gorm"
)

// User is a registered account: farmer (seller), buyer or delivery person.
type User struct {
	ID                 uint           `gorm:"primarykey" json:"id"`
	Email              string         `gorm:"uniqueIndex;not null" json:"email"`
	PasswordHash       string         `gorm:"not null" json:"-"`
	FirstName          string         `gorm:"not null" json:"first_name"`
	LastName           string         `gorm:"not null" json:"last_name"`
	Role               string         `gorm:"type:varchar(20);index;not null" json:"role"` // farmer / buyer / delivery
	Phone              string         `gorm:"type:varchar(30)" json:"phone,omitempty"`
	AvatarURL          string         `gorm:"type:varchar(500)" json:"avatar_url,omitempty"`
	Location           string         `gorm:"type:varchar(200)" json:"location,omitempty"`
	Status             string         `gorm:"default:'active'" json:"status"`
	TokenVersion       uint64         `gorm:"not null;default:0" json:"-"`
	TokenInvalidBefore *time.Time     `gorm:"index" json:"-"`
	LastLoginAt        *time.Time     `json:"last_login_at,omitempty"`
	CreatedAt          time.Time      `gorm:"index" json:"created_at"`
	UpdatedAt          time.Time      `gorm:"index" json:"updated_at"`
	DeletedAt          gorm.DeletedAt `gorm:"index" json:"-"`
}

// TableName sets the table name.
func (User) TableName() string {
	return "users"
}

// FullName returns "First Last", trimmed.
func (u *User) FullName() string {
	return strings.TrimSpace(u.FirstName + " " + u.LastName)
}
