package handler

import (
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"satshop-api/internal/audit"
	"satshop-api/internal/middleware"
	"satshop-api/internal/model"
	"satshop-api/internal/notify"
	"satshop-api/internal/payment"
	"satshop-api/internal/sanitize"
	"satshop-api/pkg/config"
	"satshop-api/pkg/database"
	"satshop-api/pkg/logger"
	"satshop-api/prometheus"
)

// WebhookHandler hosts the endpoints external systems call back into.
// Persistence happens before the downstream notification: a notification
// failure never rolls back what was already recorded.
type WebhookHandler struct {
	Telegram *notify.TelegramClient
	Email    *notify.EmailClient
	Config   *config.Config
}

// NewWebhookHandler creates the webhook handler
func NewWebhookHandler(telegram *notify.TelegramClient, email *notify.EmailClient, cfg *config.Config) *WebhookHandler {
	return &WebhookHandler{Telegram: telegram, Email: email, Config: cfg}
}

// PaymentWebhook receives the gateway's invoice callbacks. A "paid" status
// records a completion event; other statuses are acknowledged and ignored.
func (h *WebhookHandler) PaymentWebhook(c echo.Context) error {
	log := logger.FromContext(c)

	var event payment.InvoiceEvent
	if err := c.Bind(&event); err != nil {
		log.Error("Failed to parse payment webhook", zap.Error(err))
		prometheus.RecordWebhook("payment", "invalid")
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid payload"})
	}

	if event.Status != "paid" {
		log.Info("Ignoring non-paid invoice event",
			zap.String("invoice_id", event.InvoiceID),
			zap.String("status", event.Status))
		prometheus.RecordWebhook("payment", "ignored")
		return c.JSON(http.StatusOK, echo.Map{"success": true})
	}

	audit.Record(database.GetDB(), audit.Event{
		Action:   "payment_completed",
		Resource: "payments",
		Details: fmt.Sprintf("invoice %s paid, amount %.2f, customer %s",
			sanitize.MessageText(event.InvoiceID),
			event.Amount,
			sanitize.MessageText(event.Customer)),
		Severity:  model.SeverityLow,
		RequestID: middleware.RequestIDFromContext(c),
	})

	// Validate the oldest matching pending order for this customer, if any
	if event.Customer != "" {
		var order model.Order
		result := database.GetDB().
			Where("status = ? AND (customer_email = ? OR guest_email = ?)",
				model.OrderStatusPending, event.Customer, event.Customer).
			Order("created_at ASC").
			First(&order)
		if result.Error == nil {
			order.Status = model.OrderStatusValidated
			if err := database.GetDB().Save(&order).Error; err != nil {
				log.Error("Failed to validate paid order",
					zap.Uint("order_id", order.ID),
					zap.Error(err))
			} else {
				prometheus.OrderStatusCounter.WithLabelValues(model.OrderStatusValidated).Inc()
				log.Info("Order validated from payment webhook",
					zap.Uint("order_id", order.ID),
					zap.String("invoice_id", event.InvoiceID))
			}
		}
	}

	prometheus.RecordWebhook("payment", "processed")
	return c.JSON(http.StatusOK, echo.Map{"success": true})
}

// TelegramNotifyRequest carries the order fields forwarded to the channel
type TelegramNotifyRequest struct {
	OrderID       string `json:"orderId" validate:"required"`
	CustomerName  string `json:"customerName" validate:"required"`
	CustomerEmail string `json:"customerEmail"`
	CustomerPhone string `json:"customerPhone"`
	ProductName   string `json:"productName" validate:"required"`
	ProductPrice  string `json:"productPrice"`
}

// TelegramNotify forwards a formatted order notification to the Telegram
// channel. The caller must present the shared webhook token.
func (h *WebhookHandler) TelegramNotify(c echo.Context) error {
	log := logger.FromContext(c)

	authHeader := c.Request().Header.Get("Authorization")
	if authHeader == "" || h.Config.Telegram.WebhookToken == "" ||
		authHeader != "Bearer "+h.Config.Telegram.WebhookToken {
		log.Warn("Telegram notify called without valid authorization")
		prometheus.RecordWebhook("telegram_notify", "unauthorized")
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "missing or invalid authorization"})
	}

	var req TelegramNotifyRequest
	if err := c.Bind(&req); err != nil {
		prometheus.RecordWebhook("telegram_notify", "invalid")
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid payload"})
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	notification := notify.OrderNotification{
		OrderID:       req.OrderID,
		CustomerName:  req.CustomerName,
		CustomerEmail: req.CustomerEmail,
		CustomerPhone: req.CustomerPhone,
		ProductName:   req.ProductName,
		ProductPrice:  req.ProductPrice,
	}
	if err := h.Telegram.SendOrderNotification(notification); err != nil {
		log.Error("Failed to send telegram notification", zap.Error(err))
		prometheus.RecordWebhook("telegram_notify", "error")
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to send notification"})
	}

	prometheus.RecordWebhook("telegram_notify", "processed")
	return c.JSON(http.StatusOK, echo.Map{
		"success":      true,
		"telegramData": echo.Map{"message": notify.FormatOrderMessage(notification)},
	})
}

// EmailNotifyRequest carries the order fields for the email notifications
type EmailNotifyRequest struct {
	CustomerEmail string `json:"customerEmail" validate:"required"`
	CustomerName  string `json:"customerName"`
	ProductName   string `json:"productName" validate:"required"`
	Amount        string `json:"amount"`
	OrderToken    string `json:"orderToken"`
}

// EmailNotify sends the order confirmation and admin alert emails
func (h *WebhookHandler) EmailNotify(c echo.Context) error {
	log := logger.FromContext(c)

	var req EmailNotifyRequest
	if err := c.Bind(&req); err != nil {
		prometheus.RecordWebhook("email_notify", "invalid")
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid payload"})
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	email, err := sanitize.Email(req.CustomerEmail)
	if err != nil {
		return respondError(c, err)
	}

	if err := h.Email.SendOrderConfirmation(email, req.ProductName, req.OrderToken); err != nil {
		log.Error("Failed to send confirmation email", zap.Error(err))
		prometheus.RecordWebhook("email_notify", "error")
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to send email"})
	}

	// Admin alert is best-effort on top of the customer confirmation
	if err := h.Email.SendAdminAlert(req.ProductName, email, req.Amount); err != nil {
		log.Warn("Admin alert email failed", zap.Error(err))
	}

	prometheus.RecordWebhook("email_notify", "processed")
	return c.JSON(http.StatusOK, echo.Map{})
}
