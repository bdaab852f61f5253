package promo

import (
	"time"

	"satshop-api/internal/apperr"
	"satshop-api/internal/model"
)

// Validate checks a promo code against the current time and a purchase
// subtotal. Every rule must hold: the date window, the usage budget and the
// minimum purchase.
func Validate(code *model.PromoCode, subtotal float64, now time.Time) error {
	if now.Before(code.StartDate) {
		return apperr.New(apperr.Validation, "promo code is not active yet")
	}
	if now.After(code.EndDate) {
		return apperr.New(apperr.Validation, "promo code has expired")
	}
	if code.MaxUses > 0 && code.CurrentUses >= code.MaxUses {
		return apperr.New(apperr.Validation, "promo code has reached its usage limit")
	}
	if subtotal < code.MinimumPurchase {
		return apperr.New(apperr.Validation, "order total is below the minimum for this promo code")
	}
	return nil
}

// Discount computes the amount taken off a subtotal by a valid code.
// Percentage discounts win over fixed amounts when both are set.
func Discount(code *model.PromoCode, subtotal float64) float64 {
	var discount float64
	if code.DiscountPercentage > 0 {
		discount = subtotal * code.DiscountPercentage / 100
	} else {
		discount = code.DiscountAmount
	}
	if discount > subtotal {
		discount = subtotal
	}
	return discount
}
