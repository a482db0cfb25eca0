package models

import (
	"time"

	"gorm.io/gorm"
)

// Product is a farmer-listed catalog item.
type Product struct {
	ID            uint           `gorm:"primarykey" json:"id"`
	FarmerID      uint           `gorm:"index;not null" json:"farmer_id"`
	FarmerName    string         `gorm:"not null" json:"farmer_name"` // denormalized seller name snapshot
	Name          string         `gorm:"index;not null" json:"name"`
	Description   string         `gorm:"type:text" json:"description"`
	Price         Money          `gorm:"type:decimal(20,2);not null;default:0" json:"price"`
	OriginalPrice *Money         `gorm:"type:decimal(20,2)" json:"original_price,omitempty"`
	Currency      string         `gorm:"type:varchar(10);not null;default:'XAF'" json:"currency"`
	Category      string         `gorm:"type:varchar(30);index;not null" json:"category"`
	Subcategory   string         `gorm:"type:varchar(60)" json:"subcategory"`
	Images        StringArray    `gorm:"type:json" json:"images"`
	Rating        float64        `gorm:"not null;default:0" json:"rating"`
	ReviewCount   int            `gorm:"not null;default:0" json:"review_count"`
	Stock         int            `gorm:"not null;default:0" json:"stock"`
	IsAvailable   bool           `gorm:"default:true;index" json:"is_available"`
	Location      string         `gorm:"type:varchar(200)" json:"location"`
	CreatedAt     time.Time      `gorm:"index" json:"created_at"`
	UpdatedAt     time.Time      `json:"updated_at"`
	DeletedAt     gorm.DeletedAt `gorm:"index" json:"-"`
}

// TableName sets the table name.
func (Product) TableName() string {
	return "products"
}
