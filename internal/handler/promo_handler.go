package handler

import (
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"satshop-api/internal/model"
	"satshop-api/internal/promo"
	"satshop-api/pkg/database"
	"satshop-api/pkg/logger"
)

// PromoRequest defines the structure for promo code creation/update requests
type PromoRequest struct {
	Code               string    `json:"code" validate:"required"`
	DiscountPercentage float64   `json:"discount_percentage" validate:"gte=0,lte=100"`
	DiscountAmount     float64   `json:"discount_amount" validate:"gte=0"`
	MinimumPurchase    float64   `json:"minimum_purchase" validate:"gte=0"`
	StartDate          time.Time `json:"start_date" validate:"required"`
	EndDate            time.Time `json:"end_date" validate:"required"`
	MaxUses            int       `json:"max_uses" validate:"gte=0"`
}

// ListPromoCodes returns all promo codes
func ListPromoCodes(c echo.Context) error {
	log := logger.FromContext(c)

	var codes []model.PromoCode
	if result := database.GetDB().Order("created_at DESC").Find(&codes); result.Error != nil {
		log.Error("Failed to list promo codes", zap.Error(result.Error))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "Failed to retrieve promo codes"})
	}
	return c.JSON(http.StatusOK, codes)
}

// CreatePromoCode handles creating a new promo code
func CreatePromoCode(c echo.Context) error {
	log := logger.FromContext(c)

	var req PromoRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "Invalid request data"})
	}
	if err := c.Validate(&req); err != nil {
		return err
	}
	if !req.EndDate.After(req.StartDate) {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "end date must be after start date"})
	}

	code := model.PromoCode{
		Code:               strings.ToUpper(strings.TrimSpace(req.Code)),
		DiscountPercentage: req.DiscountPercentage,
		DiscountAmount:     req.DiscountAmount,
		MinimumPurchase:    req.MinimumPurchase,
		StartDate:          req.StartDate,
		EndDate:            req.EndDate,
		MaxUses:            req.MaxUses,
	}

	var count int64
	database.GetDB().Model(&model.PromoCode{}).Where("code = ?", code.Code).Count(&count)
	if count > 0 {
		return c.JSON(http.StatusConflict, echo.Map{"error": "a promo code with this code already exists"})
	}

	if result := database.GetDB().Create(&code); result.Error != nil {
		log.Error("Failed to create promo code", zap.Error(result.Error))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "Failed to create promo code"})
	}

	log.Info("Promo code created", zap.String("code", code.Code))
	return c.JSON(http.StatusCreated, code)
}

// UpdatePromoCode handles updating an existing promo code
func UpdatePromoCode(c echo.Context) error {
	log := logger.FromContext(c)
	id := c.Param("id")

	var req PromoRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "Invalid request data"})
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	var code model.PromoCode
	if result := database.GetDB().First(&code, id); result.Error != nil {
		return c.JSON(http.StatusNotFound, echo.Map{"error": "Promo code not found"})
	}

	code.Code = strings.ToUpper(strings.TrimSpace(req.Code))
	code.DiscountPercentage = req.DiscountPercentage
	code.DiscountAmount = req.DiscountAmount
	code.MinimumPurchase = req.MinimumPurchase
	code.StartDate = req.StartDate
	code.EndDate = req.EndDate
	code.MaxUses = req.MaxUses

	if result := database.GetDB().Save(&code); result.Error != nil {
		log.Error("Failed to update promo code", zap.String("promo_id", id), zap.Error(result.Error))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "Failed to update promo code"})
	}
	return c.JSON(http.StatusOK, code)
}

// DeletePromoCode handles deleting a promo code
func DeletePromoCode(c echo.Context) error {
	id := c.Param("id")

	result := database.GetDB().Delete(&model.PromoCode{}, id)
	if result.Error != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "Failed to delete promo code"})
	}
	if result.RowsAffected == 0 {
		return c.JSON(http.StatusNotFound, echo.Map{"error": "Promo code not found"})
	}
	return c.JSON(http.StatusOK, echo.Map{"message": "Promo code deleted successfully"})
}

// ValidatePromoCode checks a code against the current time and a subtotal,
// returning the discount it would grant
func ValidatePromoCode(c echo.Context) error {
	log := logger.FromContext(c)

	var req struct {
		Code     string  `json:"code" validate:"required"`
		Subtotal float64 `json:"subtotal" validate:"gte=0"`
	}
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "Invalid request data"})
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	var code model.PromoCode
	result := database.GetDB().Where("code = ?", strings.ToUpper(strings.TrimSpace(req.Code))).First(&code)
	if result.Error != nil {
		log.Warn("Unknown promo code", zap.String("code", req.Code))
		return c.JSON(http.StatusNotFound, echo.Map{"error": "Promo code not found"})
	}

	if err := promo.Validate(&code, req.Subtotal, time.Now()); err != nil {
		return respondError(c, err)
	}

	discount := promo.Discount(&code, req.Subtotal)
	return c.JSON(http.StatusOK, echo.Map{
		"valid":    true,
		"code":     code.Code,
		"discount": discount,
		"total":    req.Subtotal - discount,
	})
}
