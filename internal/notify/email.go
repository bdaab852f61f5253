package notify

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"go.uber.org/zap"

	"satshop-api/internal/apperr"
	"satshop-api/pkg/config"
)

const resendEndpoint = "https://api.resend.com/emails"

// EmailClient sends transactional email through the provider's HTTP API
type EmailClient struct {
	APIKey     string
	FromEmail  string
	AdminEmail string
	HTTPClient *http.Client
	Logger     *zap.Logger
}

// NewEmailClient creates an email client from configuration
func NewEmailClient(cfg *config.EmailConfig, logger *zap.Logger) *EmailClient {
	return &EmailClient{
		APIKey:     cfg.APIKey,
		FromEmail:  cfg.FromEmail,
		AdminEmail: cfg.AdminEmail,
		HTTPClient: &http.Client{Timeout: 10 * time.Second},
		Logger:     logger,
	}
}

// SendOrderConfirmation emails the customer their tracking token
func (e *EmailClient) SendOrderConfirmation(to, productName, orderToken string) error {
	subject := "Confirmation de votre commande"
	body := fmt.Sprintf(
		"Merci pour votre commande de %s.\n\nVotre code de suivi: %s\n\nVous pouvez suivre votre commande à tout moment avec ce code.",
		productName, orderToken)
	return e.send(to, subject, body)
}

// SendAdminAlert emails the shop admin about a new order
func (e *EmailClient) SendAdminAlert(productName, customerEmail, amount string) error {
	if e.AdminEmail == "" {
		return apperr.New(apperr.ExternalService, "admin email is not configured")
	}
	subject := "Nouvelle commande reçue"
	body := fmt.Sprintf("Produit: %s\nClient: %s\nMontant: %s", productName, customerEmail, amount)
	return e.send(e.AdminEmail, subject, body)
}

// SendPasswordReset emails a password reset link
func (e *EmailClient) SendPasswordReset(to, resetLink string) error {
	subject := "Réinitialisation de votre mot de passe"
	body := fmt.Sprintf("Cliquez sur ce lien pour réinitialiser votre mot de passe: %s", resetLink)
	return e.send(to, subject, body)
}

func (e *EmailClient) send(to, subject, text string) error {
	if e.APIKey == "" {
		return apperr.New(apperr.ExternalService, "email provider is not configured")
	}

	payload := map[string]interface{}{
		"from":    e.FromEmail,
		"to":      []string{to},
		"subject": subject,
		"text":    text,
	}
	body, err := json.Marshal(payload)
	if err != nil {
		return apperr.Wrap(apperr.ExternalService, "failed to build email", err)
	}

	req, err := http.NewRequest(http.MethodPost, resendEndpoint, bytes.NewReader(body))
	if err != nil {
		return apperr.Wrap(apperr.ExternalService, "failed to build email request", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+e.APIKey)

	resp, err := e.HTTPClient.Do(req)
	if err != nil {
		e.Logger.Error("Email request failed", zap.Error(err))
		return apperr.Wrap(apperr.ExternalService, "failed to reach email provider", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		e.Logger.Error("Email provider rejected the message",
			zap.Int("status", resp.StatusCode),
			zap.String("to", to))
		return apperr.New(apperr.ExternalService, "email provider rejected the message")
	}

	e.Logger.Info("Email sent", zap.String("to", to), zap.String("subject", subject))
	return nil
}
