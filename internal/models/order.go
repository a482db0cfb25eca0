package models

import (
	"time"

	"gorm.io/gorm"
)

// Order is a committed single-farmer purchase record. One checkout emits one
// order per distinct farmer represented in the buyer's cart.
type Order struct {
	ID                 uint           `gorm:"primarykey" json:"id"`
	OrderNo            string         `gorm:"uniqueIndex;not null" json:"order_no"`
	BuyerID            uint           `gorm:"index;not null" json:"buyer_id"`
	BuyerName          string         `gorm:"not null" json:"buyer_name"`
	BuyerEmail         string         `gorm:"not null" json:"buyer_email"`
	FarmerID           uint           `gorm:"index;not null" json:"farmer_id"`
	FarmerName         string         `gorm:"not null" json:"farmer_name"`
	ItemsCount         int            `gorm:"not null;default:0" json:"items_count"`
	Subtotal           Money          `gorm:"type:decimal(20,2);not null;default:0" json:"subtotal"`
	DeliveryFee        Money          `gorm:"type:decimal(20,2);not null;default:0" json:"delivery_fee"`
	Discount           Money          `gorm:"type:decimal(20,2);not null;default:0" json:"discount"`
	TotalAmount        Money          `gorm:"type:decimal(20,2);not null;default:0" json:"total_amount"`
	Currency           string         `gorm:"type:varchar(10);not null;default:'XAF'" json:"currency"`
	DeliveryLocation   string         `gorm:"type:varchar(200);not null" json:"delivery_location"`
	PickupLocation     string         `gorm:"type:varchar(200)" json:"pickup_location"`
	Status             string         `gorm:"type:varchar(20);index;not null" json:"status"`
	DeliveryPersonID   *uint          `gorm:"index" json:"delivery_person_id,omitempty"`
	DeliveryPersonName string         `json:"delivery_person_name,omitempty"`
	DeliveredAt        *time.Time     `json:"delivered_at,omitempty"`
	CancelledAt        *time.Time     `json:"cancelled_at,omitempty"`
	CreatedAt          time.Time      `gorm:"index" json:"created_at"`
	UpdatedAt          time.Time      `gorm:"index" json:"updated_at"`
	DeletedAt          gorm.DeletedAt `gorm:"index" json:"-"`

	Items []OrderItem `gorm:"foreignKey:OrderID" json:"items,omitempty"`
}

// TableName sets the table name.
func (Order) TableName() string {
	return "orders"
}
