package model

import "time"

// WishlistItem links a user to a product they saved for later
type WishlistItem struct {
	ID        uint      `json:"id" gorm:"primarykey"`
	UserID    uint      `json:"user_id" gorm:"index:idx_wishlist_user_product,unique;not null"`
	ProductID uint      `json:"product_id" gorm:"index:idx_wishlist_user_product,unique;not null"`
	Product   Product   `json:"product" gorm:"foreignKey:ProductID"`
	CreatedAt time.Time `json:"created_at"`
}
