package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"satshop-api/internal/payment"
	"satshop-api/internal/sanitize"
	"satshop-api/pkg/logger"
)

// PaymentHandler creates gateway checkout sessions
type PaymentHandler struct {
	Gateway *payment.Client
}

// NewPaymentHandler creates the payment handler
func NewPaymentHandler(gateway *payment.Client) *PaymentHandler {
	return &PaymentHandler{Gateway: gateway}
}

// CreateCheckout opens a checkout session with the payment gateway and
// returns the URL the customer is redirected to
func (h *PaymentHandler) CreateCheckout(c echo.Context) error {
	log := logger.FromContext(c)

	var req struct {
		ProductID     uint   `json:"product_id" validate:"required"`
		ProductName   string `json:"product_name" validate:"required"`
		Amount        string `json:"amount" validate:"required"`
		CustomerEmail string `json:"customer_email" validate:"required"`
		CustomerName  string `json:"customer_name" validate:"required"`
		CustomerPhone string `json:"customer_phone"`
	}
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"success": false, "error": "invalid request"})
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	email, err := sanitize.Email(req.CustomerEmail)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"success": false, "error": "invalid email address"})
	}
	amount, err := sanitize.Amount(req.Amount)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"success": false, "error": "invalid amount"})
	}

	session, err := h.Gateway.CreateCheckoutSession(payment.CheckoutRequest{
		Amount:        amount,
		Currency:      "dzd",
		Description:   req.ProductName,
		CustomerEmail: email,
		CustomerName:  req.CustomerName,
		CustomerPhone: req.CustomerPhone,
	})
	if err != nil {
		log.Error("Failed to create checkout session",
			zap.Uint("product_id", req.ProductID),
			zap.Error(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{
			"success": false,
			"error":   "failed to create payment session",
		})
	}

	log.Info("Checkout session created",
		zap.Uint("product_id", req.ProductID),
		zap.String("session_id", session.SessionID))
	return c.JSON(http.StatusOK, echo.Map{
		"success":      true,
		"checkout_url": session.CheckoutURL,
		"session_id":   session.SessionID,
	})
}
