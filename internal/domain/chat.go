package domain

import "time"

// ChatMessageType - тип записи в логе игры
type ChatMessageType string

const (
	ChatQuestion ChatMessageType = "question"
	ChatAnswer   ChatMessageType = "answer"
	ChatSystem   ChatMessageType = "system"
	ChatPhoto    ChatMessageType = "photo"
)

// ChatMessage is an append-only audit log entry. Messages are created only by
// the session manager in response to question lifecycle commands and are never
// edited.
type ChatMessage struct {
	ID        string          `json:"id"`
	Type      ChatMessageType `json:"type"`
	Content   string          `json:"content"`
	Question  string          `json:"question,omitempty"`
	Category  string          `json:"category,omitempty"`
	Timestamp time.Time       `json:"timestamp"`
	Sender    Role            `json:"sender"`
	PhotoURL  string          `json:"photoUrl,omitempty"`
}
