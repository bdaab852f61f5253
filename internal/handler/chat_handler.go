package handler

import (
	"net/http"
	"strings"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"satshop-api/internal/model"
	"satshop-api/pkg/database"
	"satshop-api/pkg/logger"
)

// Canned support replies keyed by keywords found in the visitor's message.
// The chat is simulated: there is no human agent behind it.
var cannedReplies = []struct {
	keywords []string
	reply    string
}{
	{[]string{"commande", "order", "suivi", "track"}, "Vous pouvez suivre votre commande avec le code de suivi reçu par email."},
	{[]string{"paiement", "payment", "payer"}, "Nous acceptons le paiement par CCP, BaridiMob et carte bancaire."},
	{[]string{"iptv", "abonnement"}, "Nos abonnements IPTV sont activés sous 24h après validation du paiement."},
	{[]string{"prix", "price", "tarif"}, "Tous nos prix sont affichés sur la page du produit."},
}

const defaultReply = "Merci pour votre message! Notre équipe vous répondra dès que possible."

// botReply picks the canned response matching the visitor's message
func botReply(body string) string {
	lower := strings.ToLower(body)
	for _, canned := range cannedReplies {
		for _, kw := range canned.keywords {
			if strings.Contains(lower, kw) {
				return canned.reply
			}
		}
	}
	return defaultReply
}

// PostChatMessage stores a visitor message and the simulated bot reply. A
// missing session id starts a new chat session.
func PostChatMessage(c echo.Context) error {
	log := logger.FromContext(c)

	var req struct {
		SessionID string `json:"session_id"`
		Body      string `json:"body" validate:"required"`
	}
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request"})
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	sessionID := req.SessionID
	if sessionID == "" {
		sessionID = uuid.New().String()
	}

	message := model.ChatMessage{SessionID: sessionID, Sender: model.ChatSenderUser, Body: req.Body}
	if result := database.GetDB().Create(&message); result.Error != nil {
		log.Error("Failed to store chat message", zap.Error(result.Error))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to send message"})
	}

	reply := model.ChatMessage{SessionID: sessionID, Sender: model.ChatSenderBot, Body: botReply(req.Body)}
	if result := database.GetDB().Create(&reply); result.Error != nil {
		log.Error("Failed to store bot reply", zap.Error(result.Error))
	}

	return c.JSON(http.StatusCreated, echo.Map{
		"session_id": sessionID,
		"message":    message,
		"reply":      reply,
	})
}

// ListChatMessages returns a session's messages in order
func ListChatMessages(c echo.Context) error {
	sessionID := c.QueryParam("session_id")
	if sessionID == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "session_id is required"})
	}

	var messages []model.ChatMessage
	result := database.GetDB().Where("session_id = ?", sessionID).Order("created_at ASC").Find(&messages)
	if result.Error != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to retrieve messages"})
	}
	return c.JSON(http.StatusOK, messages)
}
