package handler

import (
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"satshop-api/internal/apperr"
	"satshop-api/internal/audit"
	"satshop-api/internal/middleware"
	"satshop-api/internal/model"
	"satshop-api/internal/notify"
	"satshop-api/internal/promo"
	"satshop-api/internal/sanitize"
	"satshop-api/internal/token"
	"satshop-api/pkg/database"
	"satshop-api/pkg/logger"
	"satshop-api/prometheus"
)

// OrderHandler handles checkout, tracking and the admin order screens.
// Notifications after creation are best-effort: their failure never rolls
// back the persisted order.
type OrderHandler struct {
	Telegram *notify.TelegramClient
	Email    *notify.EmailClient
}

// NewOrderHandler creates the order handler with its notification clients
func NewOrderHandler(telegram *notify.TelegramClient, email *notify.EmailClient) *OrderHandler {
	return &OrderHandler{Telegram: telegram, Email: email}
}

// OrderRequest defines the structure for order creation requests. Guest
// orders carry guest identity fields; authenticated orders take the user id
// from the session.
type OrderRequest struct {
	ProductID      uint   `json:"product_id" validate:"required"`
	CustomerName   string `json:"customer_name" validate:"required"`
	CustomerEmail  string `json:"customer_email"`
	GuestEmail     string `json:"guest_email"`
	GuestPhone     string `json:"guest_phone"`
	GuestAddress   string `json:"guest_address"`
	PromoCode      string `json:"promo_code"`
	IdempotencyKey string `json:"idempotency_key"`
}

// CreateOrder creates a guest or authenticated order. The purchaser is
// identified by exactly one of user id or guest email. A repeated
// idempotency key returns the order created for the first submission.
func (h *OrderHandler) CreateOrder(c echo.Context) error {
	log := logger.FromContext(c)
	defer prometheus.TrackDBOperation("insert")(time.Now())

	var req OrderRequest
	if err := c.Bind(&req); err != nil {
		log.Error("Failed to parse order request", zap.Error(err))
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request"})
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	userID, authenticated := middleware.UserIDFromContext(c)

	var customerEmail, guestEmail, guestPhone string
	var err error
	if authenticated {
		if customerEmail, err = sanitize.Email(req.CustomerEmail); err != nil {
			return respondError(c, err)
		}
	} else {
		if guestEmail, err = sanitize.Email(req.GuestEmail); err != nil {
			return respondError(c, err)
		}
		if req.GuestPhone != "" {
			if guestPhone, err = sanitize.Phone(req.GuestPhone); err != nil {
				return respondError(c, err)
			}
		}
	}

	var product model.Product
	if result := database.GetDB().First(&product, req.ProductID); result.Error != nil {
		log.Warn("Order for unknown product", zap.Uint("product_id", req.ProductID))
		return c.JSON(http.StatusNotFound, echo.Map{"error": "product not found"})
	}
	if !product.IsAvailable {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "product is not available"})
	}

	// Duplicate submission with the same key returns the first order
	if req.IdempotencyKey != "" {
		var existing model.Order
		if result := database.GetDB().Where("idempotency_key = ?", req.IdempotencyKey).First(&existing); result.Error == nil {
			log.Info("Duplicate order submission absorbed",
				zap.Uint("order_id", existing.ID),
				zap.String("idempotency_key", req.IdempotencyKey))
			return c.JSON(http.StatusOK, existing)
		}
	}

	// A promo code presented at checkout is checked up front; its usage
	// budget is consumed together with the order insert below
	var promoCode string
	if req.PromoCode != "" {
		normalized := strings.ToUpper(strings.TrimSpace(req.PromoCode))
		var code model.PromoCode
		if result := database.GetDB().Where("code = ?", normalized).First(&code); result.Error != nil {
			log.Warn("Order with unknown promo code", zap.String("code", normalized))
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid promo code"})
		}
		subtotal, perr := sanitize.Amount(product.Price)
		if perr != nil {
			// Non-numeric display price: the minimum-purchase rule cannot apply
			subtotal = code.MinimumPurchase
		}
		if err := promo.Validate(&code, subtotal, time.Now()); err != nil {
			return respondError(c, err)
		}
		promoCode = code.Code
	}

	orderToken, err := token.NewOrderToken()
	if err != nil {
		log.Error("Failed to generate order token", zap.Error(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to create order"})
	}

	order := model.Order{
		ProductID:      product.ID,
		ProductName:    product.Name,
		Amount:         product.Price,
		Status:         model.OrderStatusPending,
		OrderToken:     orderToken,
		CustomerName:   req.CustomerName,
		PromoCode:      promoCode,
		IdempotencyKey: req.IdempotencyKey,
	}
	if authenticated {
		order.UserID = &userID
		order.CustomerEmail = customerEmail
	} else {
		order.GuestEmail = guestEmail
		order.GuestPhone = guestPhone
		order.GuestAddress = req.GuestAddress
	}
	if product.IsPhysical {
		order.DeliveryStatus = model.DeliveryStatusPending
	}

	// The redeem and the insert commit together. The guarded update keeps
	// current_uses inside the budget even when two checkouts race on the
	// last remaining use.
	err = database.GetDB().Transaction(func(tx *gorm.DB) error {
		if order.PromoCode != "" {
			redeem := tx.Model(&model.PromoCode{}).
				Where("code = ? AND (max_uses = 0 OR current_uses < max_uses)", order.PromoCode).
				Update("current_uses", gorm.Expr("current_uses + 1"))
			if redeem.Error != nil {
				return redeem.Error
			}
			if redeem.RowsAffected == 0 {
				return apperr.New(apperr.Validation, "promo code has reached its usage limit")
			}
		}
		return tx.Create(&order).Error
	})
	if err != nil {
		log.Error("Failed to create order", zap.Error(err))
		return respondError(c, err)
	}

	kind := "guest"
	if authenticated {
		kind = "user"
	}
	prometheus.OrdersCreatedCounter.WithLabelValues(kind).Inc()
	log.Info("Order created",
		zap.Uint("order_id", order.ID),
		zap.String("order_token", order.OrderToken),
		zap.String("product_name", order.ProductName),
		zap.String("kind", kind))

	h.notifyNewOrder(c, &order)

	return c.JSON(http.StatusCreated, order)
}

// notifyNewOrder fans out the best-effort downstream notifications
func (h *OrderHandler) notifyNewOrder(c echo.Context, order *model.Order) {
	log := logger.FromContext(c)

	email := order.CustomerEmail
	if email == "" {
		email = order.GuestEmail
	}

	if err := h.Telegram.SendOrderNotification(notify.OrderNotification{
		OrderID:       strconv.FormatUint(uint64(order.ID), 10),
		CustomerName:  order.CustomerName,
		CustomerEmail: email,
		CustomerPhone: order.GuestPhone,
		ProductName:   order.ProductName,
		ProductPrice:  order.Amount,
	}); err != nil {
		log.Warn("Telegram notification failed", zap.Error(err))
		prometheus.RecordNotification("telegram", "error")
	} else {
		prometheus.RecordNotification("telegram", "sent")
	}

	if err := h.Email.SendOrderConfirmation(email, order.ProductName, order.OrderToken); err != nil {
		log.Warn("Confirmation email failed", zap.Error(err))
		prometheus.RecordNotification("email", "error")
	} else {
		prometheus.RecordNotification("email", "sent")
	}

	if err := h.Email.SendAdminAlert(order.ProductName, email, order.Amount); err != nil {
		log.Warn("Admin alert email failed", zap.Error(err))
		prometheus.RecordNotification("email", "error")
	}
}

// TrackOrder looks up a single order by its 8-character tracking token
func (h *OrderHandler) TrackOrder(c echo.Context) error {
	log := logger.FromContext(c)

	orderToken, err := sanitize.OrderToken(c.Param("token"))
	if err != nil {
		return respondError(c, err)
	}

	var order model.Order
	result := database.GetDB().Where("order_token = ?", orderToken).First(&order)
	if result.Error != nil {
		log.Warn("Order token not found", zap.String("order_token", orderToken))
		return c.JSON(http.StatusNotFound, echo.Map{"error": "order not found"})
	}

	return c.JSON(http.StatusOK, order)
}

// ListMyOrders returns the authenticated user's orders, newest first
func (h *OrderHandler) ListMyOrders(c echo.Context) error {
	log := logger.FromContext(c)

	userID, ok := middleware.UserIDFromContext(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "authentication required"})
	}

	var orders []model.Order
	result := database.GetDB().Where("user_id = ?", userID).Order("created_at DESC").Find(&orders)
	if result.Error != nil {
		log.Error("Failed to list orders", zap.Uint("user_id", userID), zap.Error(result.Error))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to retrieve orders"})
	}

	return c.JSON(http.StatusOK, orders)
}

// AdminListOrders returns all orders with optional status filtering
func (h *OrderHandler) AdminListOrders(c echo.Context) error {
	log := logger.FromContext(c)
	defer prometheus.TrackDBOperation("query")(time.Now())

	query := database.GetDB()
	if status := c.QueryParam("status"); status != "" {
		if !model.ValidOrderStatus(status) {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "unknown status"})
		}
		query = query.Where("status = ?", status)
	}

	var orders []model.Order
	if result := query.Order("created_at DESC").Find(&orders); result.Error != nil {
		log.Error("Failed to list orders", zap.Error(result.Error))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to retrieve orders"})
	}
	return c.JSON(http.StatusOK, orders)
}

// UpdateOrderStatus transitions an order between the admin-settable statuses.
// Orders are never deleted, only status-transitioned.
func (h *OrderHandler) UpdateOrderStatus(c echo.Context) error {
	log := logger.FromContext(c)
	id := c.Param("id")

	var req struct {
		Status string `json:"status" validate:"required"`
	}
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request"})
	}
	if err := c.Validate(&req); err != nil {
		return err
	}
	if !model.ValidOrderStatus(req.Status) {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "unknown status"})
	}

	var order model.Order
	if result := database.GetDB().First(&order, id); result.Error != nil {
		return c.JSON(http.StatusNotFound, echo.Map{"error": "order not found"})
	}

	previous := order.Status
	order.Status = req.Status
	if result := database.GetDB().Save(&order); result.Error != nil {
		log.Error("Failed to update order status", zap.String("order_id", id), zap.Error(result.Error))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to update order"})
	}

	prometheus.OrderStatusCounter.WithLabelValues(req.Status).Inc()
	adminID, _ := middleware.UserIDFromContext(c)
	audit.Record(database.GetDB(), audit.Event{
		Action:    "order_status_changed",
		Resource:  "orders",
		Details:   fmt.Sprintf("order %d: %s -> %s", order.ID, previous, order.Status),
		Severity:  model.SeverityLow,
		UserID:    &adminID,
		RequestID: middleware.RequestIDFromContext(c),
	})
	log.Info("Order status updated",
		zap.Uint("order_id", order.ID),
		zap.String("previous", previous),
		zap.String("status", order.Status))
	return c.JSON(http.StatusOK, order)
}

// UpdateDeliveryStatus moves a physical-goods order through the delivery flow
func (h *OrderHandler) UpdateDeliveryStatus(c echo.Context) error {
	log := logger.FromContext(c)
	id := c.Param("id")

	var req struct {
		DeliveryStatus string `json:"delivery_status" validate:"required"`
	}
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request"})
	}
	if err := c.Validate(&req); err != nil {
		return err
	}
	if !model.ValidDeliveryStatus(req.DeliveryStatus) {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "unknown delivery status"})
	}

	var order model.Order
	if result := database.GetDB().First(&order, id); result.Error != nil {
		return c.JSON(http.StatusNotFound, echo.Map{"error": "order not found"})
	}
	if order.DeliveryStatus == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "order has no delivery tracking"})
	}

	order.DeliveryStatus = req.DeliveryStatus
	if result := database.GetDB().Save(&order); result.Error != nil {
		log.Error("Failed to update delivery status", zap.String("order_id", id), zap.Error(result.Error))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to update order"})
	}

	log.Info("Delivery status updated",
		zap.Uint("order_id", order.ID),
		zap.String("delivery_status", order.DeliveryStatus))
	return c.JSON(http.StatusOK, order)
}
