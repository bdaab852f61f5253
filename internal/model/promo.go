package model

import (
	"time"

	"gorm.io/gorm"
)

// PromoCode represents a discount code with a validity window and a usage
// budget. A code is usable only while the current time is inside
// [StartDate, EndDate] and CurrentUses < MaxUses.
type PromoCode struct {
	ID                 uint           `json:"id" gorm:"primarykey"`
	Code               string         `json:"code" gorm:"type:varchar(50);uniqueIndex;not null"`
	DiscountPercentage float64        `json:"discount_percentage" gorm:"default:0"`
	DiscountAmount     float64        `json:"discount_amount" gorm:"default:0"`
	MinimumPurchase    float64        `json:"minimum_purchase" gorm:"default:0"`
	StartDate          time.Time      `json:"start_date"`
	EndDate            time.Time      `json:"end_date"`
	MaxUses            int            `json:"max_uses" gorm:"default:0"`
	CurrentUses        int            `json:"current_uses" gorm:"default:0"`
	CreatedAt          time.Time      `json:"created_at"`
	UpdatedAt          time.Time      `json:"updated_at"`
	DeletedAt          gorm.DeletedAt `json:"-" gorm:"index"`
}
