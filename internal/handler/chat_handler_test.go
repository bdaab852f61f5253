package handler

import (
	"encoding/json"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"satshop-api/internal/model"
	"satshop-api/pkg/database"
)

func TestBotReplyMatchesKeywords(t *testing.T) {
	assert.Contains(t, botReply("Où est ma commande?"), "code de suivi")
	assert.Contains(t, botReply("Comment payer?"), "CCP")
	assert.Equal(t, defaultReply, botReply("bonjour"))
}

func TestPostChatMessageStartsSessionAndReplies(t *testing.T) {
	e := setupTest(t)

	c, rec := postJSON(e, "/api/chat/messages", `{"body": "question sur le paiement"}`)
	require.NoError(t, PostChatMessage(c))
	require.Equal(t, http.StatusCreated, rec.Code)

	var resp struct {
		SessionID string            `json:"session_id"`
		Message   model.ChatMessage `json:"message"`
		Reply     model.ChatMessage `json:"reply"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.NotEmpty(t, resp.SessionID, "a new session id is assigned")
	assert.Equal(t, model.ChatSenderUser, resp.Message.Sender)
	assert.Equal(t, model.ChatSenderBot, resp.Reply.Sender)

	// Both sides of the exchange are persisted under the session
	var count int64
	database.GetDB().Model(&model.ChatMessage{}).
		Where("session_id = ?", resp.SessionID).Count(&count)
	assert.EqualValues(t, 2, count)
}
