package handler

import (
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"satshop-api/internal/model"
	"satshop-api/pkg/database"
	"satshop-api/pkg/logger"
	"satshop-api/prometheus"
)

// ProductRequest defines the structure for product creation/update requests
type ProductRequest struct {
	Name          string   `json:"name" validate:"required"`
	Price         string   `json:"price" validate:"required"`
	Category      string   `json:"category" validate:"required"`
	Image         string   `json:"image"`
	PaymentLink   string   `json:"payment_link"`
	Description   string   `json:"description"`
	Features      []string `json:"features"`
	IsAvailable   bool     `json:"is_available"`
	IsPhysical    bool     `json:"is_physical"`
	PurchasePrice float64  `json:"purchase_price" validate:"gte=0"`
	StockQuantity int      `json:"stock_quantity" validate:"gte=0"`
}

// ListProducts handles retrieving all products with optional filtering
func ListProducts(c echo.Context) error {
	log := logger.FromContext(c)
	defer prometheus.TrackDBOperation("query")(time.Now())

	db := database.GetDB()
	var products []model.Product

	query := db

	category := c.QueryParam("category")
	if category != "" {
		if !model.ValidCategory(category) {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "unknown category"})
		}
		query = query.Where("category = ?", category)
	}

	isAvailable := c.QueryParam("is_available")
	if isAvailable != "" {
		available, err := strconv.ParseBool(isAvailable)
		if err == nil {
			query = query.Where("is_available = ?", available)
		} else {
			log.Warn("Invalid is_available parameter", zap.String("value", isAvailable))
		}
	}

	result := query.Order("created_at DESC").Find(&products)
	if result.Error != nil {
		log.Error("Failed to list products", zap.Error(result.Error))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "Failed to retrieve products"})
	}

	return c.JSON(http.StatusOK, products)
}

// GetProduct handles retrieving a single product by ID
func GetProduct(c echo.Context) error {
	log := logger.FromContext(c)
	id := c.Param("id")

	var product model.Product
	result := database.GetDB().First(&product, id)
	if result.Error != nil {
		log.Warn("Product not found", zap.String("product_id", id))
		return c.JSON(http.StatusNotFound, echo.Map{"error": "Product not found"})
	}

	return c.JSON(http.StatusOK, product)
}

// CreateProduct handles creating a new product
func CreateProduct(c echo.Context) error {
	log := logger.FromContext(c)

	var req ProductRequest
	if err := c.Bind(&req); err != nil {
		log.Error("Invalid request data", zap.Error(err))
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "Invalid request data"})
	}
	if err := c.Validate(&req); err != nil {
		return err
	}
	if !model.ValidCategory(req.Category) {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "unknown category"})
	}

	features, err := encodeFeatures(req.Features)
	if err != nil {
		log.Error("Failed to encode features", zap.Error(err))
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "Invalid request data"})
	}

	product := model.Product{
		Name:          req.Name,
		Price:         req.Price,
		Category:      req.Category,
		Image:         req.Image,
		PaymentLink:   req.PaymentLink,
		Description:   req.Description,
		Features:      features,
		IsAvailable:   req.IsAvailable,
		IsPhysical:    req.IsPhysical,
		PurchasePrice: req.PurchasePrice,
		StockQuantity: req.StockQuantity,
	}

	if result := database.GetDB().Create(&product); result.Error != nil {
		log.Error("Failed to create product",
			zap.String("name", req.Name),
			zap.Error(result.Error))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "Failed to create product"})
	}

	log.Info("Product created",
		zap.Uint("product_id", product.ID),
		zap.String("name", product.Name),
		zap.String("category", product.Category))
	return c.JSON(http.StatusCreated, product)
}

// UpdateProduct handles updating an existing product
func UpdateProduct(c echo.Context) error {
	log := logger.FromContext(c)
	id := c.Param("id")

	var req ProductRequest
	if err := c.Bind(&req); err != nil {
		log.Error("Invalid request data", zap.String("product_id", id), zap.Error(err))
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "Invalid request data"})
	}
	if err := c.Validate(&req); err != nil {
		return err
	}
	if !model.ValidCategory(req.Category) {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "unknown category"})
	}

	var product model.Product
	if result := database.GetDB().First(&product, id); result.Error != nil {
		log.Warn("Product not found for update", zap.String("product_id", id))
		return c.JSON(http.StatusNotFound, echo.Map{"error": "Product not found"})
	}

	features, err := encodeFeatures(req.Features)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "Invalid request data"})
	}

	product.Name = req.Name
	product.Price = req.Price
	product.Category = req.Category
	product.Image = req.Image
	product.PaymentLink = req.PaymentLink
	product.Description = req.Description
	product.Features = features
	product.IsAvailable = req.IsAvailable
	product.IsPhysical = req.IsPhysical
	product.PurchasePrice = req.PurchasePrice
	product.StockQuantity = req.StockQuantity

	if result := database.GetDB().Save(&product); result.Error != nil {
		log.Error("Failed to update product", zap.String("product_id", id), zap.Error(result.Error))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "Failed to update product"})
	}

	log.Info("Product updated", zap.Uint("product_id", product.ID), zap.String("name", product.Name))
	return c.JSON(http.StatusOK, product)
}

// DeleteProduct handles deleting a product (soft delete)
func DeleteProduct(c echo.Context) error {
	log := logger.FromContext(c)
	id := c.Param("id")

	result := database.GetDB().Delete(&model.Product{}, id)
	if result.Error != nil {
		log.Error("Failed to delete product", zap.String("product_id", id), zap.Error(result.Error))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "Failed to delete product"})
	}
	if result.RowsAffected == 0 {
		return c.JSON(http.StatusNotFound, echo.Map{"error": "Product not found"})
	}

	log.Info("Product deleted", zap.String("product_id", id))
	return c.JSON(http.StatusOK, echo.Map{"message": "Product deleted successfully"})
}
