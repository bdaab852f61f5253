package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"satshop-api/internal/apperr"
	"satshop-api/internal/middleware"
	"satshop-api/internal/model"
	"satshop-api/pkg/database"
	"satshop-api/pkg/logger"
)

// ApplyLoyaltyDelta appends a signed transaction and moves the balance in
// the same database transaction, keeping sum(deltas) == balance. Redemptions
// that would push the balance negative are rejected.
func ApplyLoyaltyDelta(db *gorm.DB, userID uint, points int, txType, description string) (*model.LoyaltyAccount, error) {
	var account model.LoyaltyAccount

	err := db.Transaction(func(tx *gorm.DB) error {
		// The row lock serializes concurrent deltas on the same account so
		// the balance check and the save see the same value
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Where(model.LoyaltyAccount{UserID: userID}).FirstOrCreate(&account).Error; err != nil {
			return err
		}

		next := account.Balance + points
		if next < 0 {
			return apperr.New(apperr.Validation, "insufficient loyalty points")
		}

		account.Balance = next
		if points > 0 {
			account.LifetimeEarned += points
		}
		if err := tx.Save(&account).Error; err != nil {
			return err
		}

		return tx.Create(&model.LoyaltyTransaction{
			UserID:      userID,
			Points:      points,
			Type:        txType,
			Description: description,
		}).Error
	})
	if err != nil {
		return nil, err
	}
	return &account, nil
}

// GetLoyaltyAccount returns the authenticated user's balance
func GetLoyaltyAccount(c echo.Context) error {
	userID, ok := middleware.UserIDFromContext(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "authentication required"})
	}

	var account model.LoyaltyAccount
	result := database.GetDB().Where("user_id = ?", userID).First(&account)
	if result.Error != nil {
		// No account yet means a zero balance, not an error
		account = model.LoyaltyAccount{UserID: userID}
	}
	return c.JSON(http.StatusOK, account)
}

// ListLoyaltyTransactions returns the user's transaction log, newest first
func ListLoyaltyTransactions(c echo.Context) error {
	log := logger.FromContext(c)

	userID, ok := middleware.UserIDFromContext(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "authentication required"})
	}

	var transactions []model.LoyaltyTransaction
	result := database.GetDB().Where("user_id = ?", userID).Order("created_at DESC").Find(&transactions)
	if result.Error != nil {
		log.Error("Failed to list loyalty transactions", zap.Uint("user_id", userID), zap.Error(result.Error))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to retrieve transactions"})
	}
	return c.JSON(http.StatusOK, transactions)
}

// AdminAdjustLoyalty applies a signed point adjustment to any user's account
func AdminAdjustLoyalty(c echo.Context) error {
	log := logger.FromContext(c)
	userID := c.Param("userID")

	var req struct {
		Points      int    `json:"points" validate:"required"`
		Description string `json:"description"`
	}
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request"})
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	var user model.User
	if result := database.GetDB().First(&user, userID); result.Error != nil {
		return c.JSON(http.StatusNotFound, echo.Map{"error": "user not found"})
	}

	account, err := ApplyLoyaltyDelta(database.GetDB(), user.ID, req.Points, model.LoyaltyTypeAdjust, req.Description)
	if err != nil {
		log.Error("Failed to adjust loyalty points",
			zap.Uint("user_id", user.ID),
			zap.Int("points", req.Points),
			zap.Error(err))
		return respondError(c, err)
	}

	log.Info("Loyalty points adjusted",
		zap.Uint("user_id", user.ID),
		zap.Int("points", req.Points),
		zap.Int("balance", account.Balance))
	return c.JSON(http.StatusOK, account)
}
