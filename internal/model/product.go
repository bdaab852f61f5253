package model

import (
	"time"

	"gorm.io/gorm"
)

// Product categories sold on the marketplace
const (
	CategoryIPTV    = "iptv"
	CategorySharing = "sharing"
	CategoryVOD     = "vod"
	CategoryOther   = "other"
)

// ValidCategory reports whether the category is one of the known values
func ValidCategory(category string) bool {
	switch category {
	case CategoryIPTV, CategorySharing, CategoryVOD, CategoryOther:
		return true
	}
	return false
}

// Product represents a subscription or physical item sold on the storefront.
// Price is the display string shown to customers (e.g. "1800 DA"); it is only
// parsed numerically where profit is computed.
type Product struct {
	ID            uint           `json:"id" gorm:"primarykey"`
	Name          string         `json:"name" gorm:"type:varchar(255);not null"`
	Price         string         `json:"price" gorm:"type:varchar(50);not null"`
	Category      string         `json:"category" gorm:"type:varchar(20);not null;index"`
	Image         string         `json:"image" gorm:"type:text"`
	PaymentLink   string         `json:"payment_link" gorm:"type:text"`
	Description   string         `json:"description" gorm:"type:text"`
	Features      string         `json:"features" gorm:"type:text"` // JSON-encoded list
	IsAvailable   bool           `json:"is_available" gorm:"default:true"`
	IsPhysical    bool           `json:"is_physical" gorm:"default:false"`
	PurchasePrice float64        `json:"purchase_price" gorm:"default:0"`
	StockQuantity int            `json:"stock_quantity" gorm:"default:0"`
	CreatedAt     time.Time      `json:"created_at"`
	UpdatedAt     time.Time      `json:"updated_at"`
	DeletedAt     gorm.DeletedAt `json:"deleted_at,omitempty" gorm:"index"`
}
