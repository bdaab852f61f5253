package model

import "time"

// Loyalty transaction types
const (
	LoyaltyTypeEarn   = "earn"
	LoyaltyTypeRedeem = "redeem"
	LoyaltyTypeAdjust = "adjust"
)

// LoyaltyAccount holds the running balance and lifetime earned total for a
// user. The balance must equal the sum of the signed Points deltas in the
// transaction log; both are written inside the same database transaction.
type LoyaltyAccount struct {
	ID             uint      `json:"id" gorm:"primarykey"`
	UserID         uint      `json:"user_id" gorm:"uniqueIndex;not null"`
	Balance        int       `json:"balance" gorm:"default:0"`
	LifetimeEarned int       `json:"lifetime_earned" gorm:"default:0"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

// LoyaltyTransaction is an append-only log entry with a signed point delta
type LoyaltyTransaction struct {
	ID          uint      `json:"id" gorm:"primarykey"`
	UserID      uint      `json:"user_id" gorm:"index;not null"`
	Points      int       `json:"points" gorm:"not null"` // signed delta
	Type        string    `json:"type" gorm:"type:varchar(20);not null"`
	Description string    `json:"description" gorm:"type:varchar(255)"`
	CreatedAt   time.Time `json:"created_at"`
}
