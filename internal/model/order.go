package model

import "time"

// Order statuses settable through the admin back office
const (
	OrderStatusPending   = "pending"
	OrderStatusValidated = "validated"
	OrderStatusCancelled = "cancelled"
)

// Delivery statuses for physical goods
const (
	DeliveryStatusPending   = "pending"
	DeliveryStatusShipped   = "shipped"
	DeliveryStatusDelivered = "delivered"
)

// ValidOrderStatus reports whether the status is an allowed admin-set value
func ValidOrderStatus(status string) bool {
	switch status {
	case OrderStatusPending, OrderStatusValidated, OrderStatusCancelled:
		return true
	}
	return false
}

// ValidDeliveryStatus reports whether the delivery status is a known value
func ValidDeliveryStatus(status string) bool {
	switch status {
	case DeliveryStatusPending, DeliveryStatusShipped, DeliveryStatusDelivered:
		return true
	}
	return false
}

// Order represents a purchase. Exactly one of UserID or GuestEmail identifies
// the purchaser. Orders are never hard-deleted, only status-transitioned.
type Order struct {
	ID          uint   `json:"id" gorm:"primarykey"`
	ProductID   uint   `json:"product_id" gorm:"index;not null"`
	ProductName string `json:"product_name" gorm:"type:varchar(255);not null"`
	Amount      string `json:"amount" gorm:"type:varchar(50)"`
	Status      string `json:"status" gorm:"type:varchar(20);default:'pending';index"`
	OrderToken  string `json:"order_token" gorm:"type:varchar(8);uniqueIndex;not null"`

	// Registered-user identity
	UserID        *uint  `json:"user_id,omitempty" gorm:"index"`
	CustomerEmail string `json:"customer_email,omitempty" gorm:"type:varchar(100)"`
	CustomerName  string `json:"customer_name,omitempty" gorm:"type:varchar(100)"`

	// Guest identity
	GuestEmail   string `json:"guest_email,omitempty" gorm:"type:varchar(100);index"`
	GuestPhone   string `json:"guest_phone,omitempty" gorm:"type:varchar(30)"`
	GuestAddress string `json:"guest_address,omitempty" gorm:"type:text"`

	// Delivery tracking for physical goods
	DeliveryStatus string `json:"delivery_status,omitempty" gorm:"type:varchar(20)"`

	// Promo code redeemed at checkout, if any
	PromoCode string `json:"promo_code,omitempty" gorm:"type:varchar(50)"`

	// Optional client-supplied key to absorb duplicate submissions
	IdempotencyKey string `json:"-" gorm:"type:varchar(64);index"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
