package model

import "time"

// Stock change types
const (
	StockChangeIncrease = "increase"
	StockChangeDecrease = "decrease"
)

// StockHistory is an append-only audit trail of stock adjustments
type StockHistory struct {
	ID               uint      `json:"id" gorm:"primarykey"`
	ProductID        uint      `json:"product_id" gorm:"index;not null"`
	PreviousQuantity int       `json:"previous_quantity"`
	NewQuantity      int       `json:"new_quantity"`
	ChangeType       string    `json:"change_type" gorm:"type:varchar(20);not null"`
	Notes            string    `json:"notes" gorm:"type:text"`
	CreatedBy        uint      `json:"created_by"`
	CreatedAt        time.Time `json:"created_at"`
}
