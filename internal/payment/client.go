package payment

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"go.uber.org/zap"

	"satshop-api/internal/apperr"
	"satshop-api/pkg/config"
)

// Client talks to the payment gateway's checkout API
type Client struct {
	BaseURL    string
	APIKey     string
	HTTPClient *http.Client
	Logger     *zap.Logger
}

// NewClient creates a payment gateway client from configuration
func NewClient(cfg *config.PaymentConfig, logger *zap.Logger) *Client {
	return &Client{
		BaseURL:    cfg.BaseURL,
		APIKey:     cfg.APIKey,
		HTTPClient: &http.Client{Timeout: 15 * time.Second},
		Logger:     logger,
	}
}

// CheckoutRequest is the payload sent to the gateway to open a session
type CheckoutRequest struct {
	Amount        float64 `json:"amount"`
	Currency      string  `json:"currency"`
	Description   string  `json:"description"`
	CustomerEmail string  `json:"customer_email"`
	CustomerName  string  `json:"customer_name"`
	CustomerPhone string  `json:"customer_phone,omitempty"`
	SuccessURL    string  `json:"success_url,omitempty"`
}

// CheckoutSession is the gateway's response for a created session
type CheckoutSession struct {
	SessionID   string `json:"id"`
	CheckoutURL string `json:"checkout_url"`
	Status      string `json:"status"`
}

// CreateCheckoutSession opens a checkout session with the gateway. The API
// key is checked at call time: a missing key fails this call with an
// external-service error, not the whole process.
func (c *Client) CreateCheckoutSession(req CheckoutRequest) (*CheckoutSession, error) {
	if c.APIKey == "" {
		return nil, apperr.New(apperr.ExternalService, "payment gateway is not configured")
	}

	body, err := json.Marshal(req)
	if err != nil {
		return nil, apperr.Wrap(apperr.ExternalService, "failed to build checkout request", err)
	}

	httpReq, err := http.NewRequest(http.MethodPost, fmt.Sprintf("%s/checkouts", c.BaseURL), bytes.NewReader(body))
	if err != nil {
		return nil, apperr.Wrap(apperr.ExternalService, "failed to build checkout request", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Authorization", "Bearer "+c.APIKey)

	resp, err := c.HTTPClient.Do(httpReq)
	if err != nil {
		c.Logger.Error("Checkout session request failed", zap.Error(err))
		return nil, apperr.Wrap(apperr.ExternalService, "failed to reach payment gateway", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, apperr.Wrap(apperr.ExternalService, "failed to read gateway response", err)
	}

	if resp.StatusCode >= 300 {
		c.Logger.Error("Payment gateway rejected the checkout request",
			zap.Int("status", resp.StatusCode),
			zap.ByteString("body", respBody))
		return nil, apperr.New(apperr.ExternalService, "payment gateway rejected the request")
	}

	var session CheckoutSession
	if err := json.Unmarshal(respBody, &session); err != nil {
		return nil, apperr.Wrap(apperr.ExternalService, "unexpected gateway response", err)
	}

	c.Logger.Info("Checkout session created", zap.String("session_id", session.SessionID))
	return &session, nil
}

// InvoiceEvent is the shape of the gateway's webhook payload
type InvoiceEvent struct {
	InvoiceID string  `json:"invoice_id"`
	Status    string  `json:"status"`
	Amount    float64 `json:"amount"`
	Customer  string  `json:"client_email"`
}
