package model

import "time"

// Chat message senders
const (
	ChatSenderUser = "user"
	ChatSenderBot  = "bot"
)

// ChatMessage is a support-chat message. Visitor sessions are identified by
// an opaque session id so guests can use the chat without an account.
type ChatMessage struct {
	ID        uint      `json:"id" gorm:"primarykey"`
	SessionID string    `json:"session_id" gorm:"type:varchar(64);index;not null"`
	Sender    string    `json:"sender" gorm:"type:varchar(10);not null"`
	Body      string    `json:"body" gorm:"type:text;not null"`
	CreatedAt time.Time `json:"created_at"`
}
