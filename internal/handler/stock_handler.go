package handler

import (
	"errors"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"satshop-api/internal/apperr"
	"satshop-api/internal/middleware"
	"satshop-api/internal/model"
	"satshop-api/internal/sanitize"
	"satshop-api/pkg/database"
	"satshop-api/pkg/logger"
	"satshop-api/prometheus"
)

// StockAdjustRequest defines a stock quantity adjustment
type StockAdjustRequest struct {
	Change int    `json:"change" validate:"required"`
	Notes  string `json:"notes"`
}

// AdjustStock applies a signed quantity change to a product and appends the
// adjustment to the stock history trail
func AdjustStock(c echo.Context) error {
	log := logger.FromContext(c)
	id := c.Param("productID")

	var req StockAdjustRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request"})
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	adminID, _ := middleware.UserIDFromContext(c)

	var product model.Product
	var history model.StockHistory

	// The product read, quantity update and history append all happen under
	// one row lock so the recorded previous/new pair can never be stale
	defer prometheus.TrackDBOperation("update")(time.Now())
	err := database.GetDB().Transaction(func(tx *gorm.DB) error {
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).First(&product, id).Error; err != nil {
			return err
		}

		previous := product.StockQuantity
		next := previous + req.Change
		if next < 0 {
			return apperr.New(apperr.Validation, "stock cannot go negative")
		}

		changeType := model.StockChangeIncrease
		if req.Change < 0 {
			changeType = model.StockChangeDecrease
		}

		history = model.StockHistory{
			ProductID:        product.ID,
			PreviousQuantity: previous,
			NewQuantity:      next,
			ChangeType:       changeType,
			Notes:            req.Notes,
			CreatedBy:        adminID,
		}

		if err := tx.Model(&product).Update("stock_quantity", next).Error; err != nil {
			return err
		}
		return tx.Create(&history).Error
	})
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "product not found"})
		}
		var appErr *apperr.Error
		if errors.As(err, &appErr) {
			return respondError(c, err)
		}
		log.Error("Failed to adjust stock",
			zap.String("product_id", id),
			zap.Error(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to adjust stock"})
	}

	log.Info("Stock adjusted",
		zap.Uint("product_id", product.ID),
		zap.Int("previous", history.PreviousQuantity),
		zap.Int("new", history.NewQuantity),
		zap.String("change_type", history.ChangeType))
	return c.JSON(http.StatusOK, echo.Map{
		"product_id":     product.ID,
		"stock_quantity": history.NewQuantity,
		"history":        history,
	})
}

// ListStockHistory returns the stock adjustment trail, optionally filtered
// by product
func ListStockHistory(c echo.Context) error {
	log := logger.FromContext(c)

	query := database.GetDB()
	if productID := c.QueryParam("product_id"); productID != "" {
		query = query.Where("product_id = ?", productID)
	}

	var history []model.StockHistory
	if result := query.Order("created_at DESC").Find(&history); result.Error != nil {
		log.Error("Failed to list stock history", zap.Error(result.Error))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to retrieve stock history"})
	}
	return c.JSON(http.StatusOK, history)
}

// ProfitReport computes the margin per product from the parsed display price
// and the recorded purchase price. Products whose display price does not
// parse are reported without a margin rather than failing the whole report.
func ProfitReport(c echo.Context) error {
	log := logger.FromContext(c)

	var products []model.Product
	if result := database.GetDB().Find(&products); result.Error != nil {
		log.Error("Failed to load products for profit report", zap.Error(result.Error))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to compute profit"})
	}

	type productProfit struct {
		ProductID     uint    `json:"product_id"`
		Name          string  `json:"name"`
		SellPrice     float64 `json:"sell_price,omitempty"`
		PurchasePrice float64 `json:"purchase_price"`
		UnitMargin    float64 `json:"unit_margin,omitempty"`
		StockQuantity int     `json:"stock_quantity"`
		PriceParsed   bool    `json:"price_parsed"`
	}

	report := make([]productProfit, 0, len(products))
	totalMargin := decimal.Zero

	for _, p := range products {
		row := productProfit{
			ProductID:     p.ID,
			Name:          p.Name,
			PurchasePrice: p.PurchasePrice,
			StockQuantity: p.StockQuantity,
		}

		sell, err := sanitize.Amount(p.Price)
		if err != nil {
			log.Warn("Unparseable display price",
				zap.Uint("product_id", p.ID),
				zap.String("price", p.Price))
			report = append(report, row)
			continue
		}

		margin := decimal.NewFromFloat(sell).Sub(decimal.NewFromFloat(p.PurchasePrice))
		row.SellPrice = sell
		row.UnitMargin, _ = margin.Float64()
		row.PriceParsed = true
		report = append(report, row)

		totalMargin = totalMargin.Add(margin.Mul(decimal.NewFromInt(int64(p.StockQuantity))))
	}

	total, _ := totalMargin.Float64()
	return c.JSON(http.StatusOK, echo.Map{
		"products":               report,
		"projected_total_margin": total,
	})
}
