package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"satshop-api/internal/middleware"
	"satshop-api/internal/model"
	"satshop-api/pkg/database"
	"satshop-api/pkg/logger"
)

// ListWishlist returns the authenticated user's saved products
func ListWishlist(c echo.Context) error {
	log := logger.FromContext(c)

	userID, ok := middleware.UserIDFromContext(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "authentication required"})
	}

	var items []model.WishlistItem
	result := database.GetDB().Preload("Product").Where("user_id = ?", userID).Order("created_at DESC").Find(&items)
	if result.Error != nil {
		log.Error("Failed to list wishlist", zap.Uint("user_id", userID), zap.Error(result.Error))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to retrieve wishlist"})
	}
	return c.JSON(http.StatusOK, items)
}

// AddToWishlist saves a product for the authenticated user. Adding the same
// product twice is a no-op, not an error.
func AddToWishlist(c echo.Context) error {
	log := logger.FromContext(c)

	userID, ok := middleware.UserIDFromContext(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "authentication required"})
	}

	var req struct {
		ProductID uint `json:"product_id" validate:"required"`
	}
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request"})
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	var product model.Product
	if result := database.GetDB().First(&product, req.ProductID); result.Error != nil {
		return c.JSON(http.StatusNotFound, echo.Map{"error": "product not found"})
	}

	item := model.WishlistItem{UserID: userID, ProductID: req.ProductID}
	result := database.GetDB().Where(model.WishlistItem{UserID: userID, ProductID: req.ProductID}).FirstOrCreate(&item)
	if result.Error != nil {
		log.Error("Failed to add to wishlist",
			zap.Uint("user_id", userID),
			zap.Uint("product_id", req.ProductID),
			zap.Error(result.Error))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to update wishlist"})
	}

	return c.JSON(http.StatusCreated, item)
}

// RemoveFromWishlist removes a product from the user's wishlist
func RemoveFromWishlist(c echo.Context) error {
	userID, ok := middleware.UserIDFromContext(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "authentication required"})
	}

	productID := c.Param("productID")
	result := database.GetDB().Where("user_id = ? AND product_id = ?", userID, productID).Delete(&model.WishlistItem{})
	if result.Error != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to update wishlist"})
	}
	if result.RowsAffected == 0 {
		return c.JSON(http.StatusNotFound, echo.Map{"error": "product not in wishlist"})
	}
	return c.JSON(http.StatusOK, echo.Map{"message": "removed from wishlist"})
}
