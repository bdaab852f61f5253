package notify

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"go.uber.org/zap"

	"satshop-api/internal/apperr"
	"satshop-api/internal/sanitize"
	"satshop-api/pkg/config"
)

// TelegramClient posts order notifications to the shop's Telegram channel
type TelegramClient struct {
	BotToken   string
	ChatID     string
	HTTPClient *http.Client
	Logger     *zap.Logger
}

// NewTelegramClient creates a Telegram client from configuration
func NewTelegramClient(cfg *config.TelegramConfig, logger *zap.Logger) *TelegramClient {
	return &TelegramClient{
		BotToken:   cfg.BotToken,
		ChatID:     cfg.ChatID,
		HTTPClient: &http.Client{Timeout: 10 * time.Second},
		Logger:     logger,
	}
}

// OrderNotification carries the fields formatted into the channel message
type OrderNotification struct {
	OrderID       string
	CustomerName  string
	CustomerEmail string
	CustomerPhone string
	ProductName   string
	ProductPrice  string
}

// FormatOrderMessage renders the channel message. Every field is stripped of
// the characters that could break Telegram markup before formatting.
func FormatOrderMessage(n OrderNotification) string {
	return fmt.Sprintf(
		"🛒 Nouvelle commande!\n\n"+
			"Commande: %s\n"+
			"Client: %s\n"+
			"Email: %s\n"+
			"Téléphone: %s\n"+
			"Produit: %s\n"+
			"Prix: %s",
		sanitize.MessageText(n.OrderID),
		sanitize.MessageText(n.CustomerName),
		sanitize.MessageText(n.CustomerEmail),
		sanitize.MessageText(n.CustomerPhone),
		sanitize.MessageText(n.ProductName),
		sanitize.MessageText(n.ProductPrice),
	)
}

// SendOrderNotification formats and delivers an order message. Credentials
// are checked at call time so a missing token fails this call only.
func (t *TelegramClient) SendOrderNotification(n OrderNotification) error {
	if t.BotToken == "" || t.ChatID == "" {
		return apperr.New(apperr.ExternalService, "telegram notifications are not configured")
	}

	payload := map[string]string{
		"chat_id": t.ChatID,
		"text":    FormatOrderMessage(n),
	}
	body, err := json.Marshal(payload)
	if err != nil {
		return apperr.Wrap(apperr.ExternalService, "failed to build telegram message", err)
	}

	url := fmt.Sprintf("https://api.telegram.org/bot%s/sendMessage", t.BotToken)
	resp, err := t.HTTPClient.Post(url, "application/json", bytes.NewReader(body))
	if err != nil {
		t.Logger.Error("Telegram request failed", zap.Error(err))
		return apperr.Wrap(apperr.ExternalService, "failed to reach telegram", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		t.Logger.Error("Telegram rejected the message", zap.Int("status", resp.StatusCode))
		return apperr.New(apperr.ExternalService, "telegram rejected the notification")
	}

	t.Logger.Info("Telegram notification sent", zap.String("order_id", n.OrderID))
	return nil
}
